// Package normalize turns one raw posting into a clean record by running the
// salary parser, the experience classifier and the identity key builder over
// its text fields.
package normalize

import (
	"math"
	"strings"

	"github.com/amishk599/salarynorm/internal/experience"
	"github.com/amishk599/salarynorm/internal/identity"
	"github.com/amishk599/salarynorm/internal/model"
	"github.com/amishk599/salarynorm/internal/salary"
	"github.com/amishk599/salarynorm/internal/textutil"
)

// LevelNegotiable is the salary level of records without parsed bounds.
const LevelNegotiable = "面议"

// salaryLevels are upper-exclusive monthly bands, checked in order.
var salaryLevels = []struct {
	below int
	label string
}{
	{5000, "5K以下"},
	{10000, "5K-10K"},
	{15000, "10K-15K"},
	{20000, "15K-20K"},
	{30000, "20K-30K"},
	{50000, "30K-50K"},
}

const topSalaryLevel = "50K以上"

// Record normalizes raw. Structured salary bounds already present on raw win
// over the text parser when both are positive.
func Record(raw model.RawPosting) model.CleanRecord {
	parsed := salary.Parse(raw.SalaryRaw)

	rec := model.CleanRecord{
		JobTitle:         textutil.CollapseSpace(raw.JobTitle),
		SalaryRaw:        parsed.Raw,
		SalaryPeriod:     string(parsed.Period),
		SalaryMonths:     parsed.BonusMonths,
		CompanyName:      textutil.CollapseSpace(raw.CompanyName),
		Industry:         textutil.CollapseSpace(raw.Industry),
		City:             CleanCity(raw.City),
		ExperienceReq:    strings.TrimSpace(raw.ExperienceReq),
		ExperienceBucket: string(experience.Classify(raw.ExperienceReq)),
		EducationReq:     strings.TrimSpace(raw.EducationReq),
		JobURL:           strings.TrimSpace(raw.JobURL),
		CrawlTime:        raw.CrawlTime,
		IdentityKey:      identity.KeyOf(raw),
	}

	if lo, hi, ok := structuredBounds(raw); ok {
		rec.SalaryMin, rec.SalaryMax = &lo, &hi
		rec.SalaryParsed = true
		if p := salary.Period(raw.SalaryPeriod); p.Valid() {
			rec.SalaryPeriod = string(p)
		}
	} else if lo, hi, ok := parsed.Bounds(); ok {
		rec.SalaryMin, rec.SalaryMax = &lo, &hi
		rec.SalaryParsed = true
	}

	if raw.SalaryMonths != nil && *raw.SalaryMonths >= 1 && *raw.SalaryMonths <= 24 {
		rec.SalaryMonths = *raw.SalaryMonths
	}

	rec.SalaryLevel = LevelNegotiable
	if rec.SalaryParsed {
		mid := int(math.RoundToEven(float64(*rec.SalaryMin+*rec.SalaryMax) / 2))
		annual := mid * rec.SalaryMonths
		rec.SalaryMid = &mid
		rec.SalaryAnnualEst = &annual
		rec.SalaryLevel = Level(mid)
	}

	return rec
}

// Level returns the monthly salary band label for mid.
func Level(mid int) string {
	for _, l := range salaryLevels {
		if mid < l.below {
			return l.label
		}
	}
	return topSalaryLevel
}

// CleanCity collapses whitespace and drops a trailing "市" ("北京市" -> "北京").
func CleanCity(city string) string {
	city = textutil.CollapseSpace(city)
	if trimmed := strings.TrimSuffix(city, "市"); trimmed != "" {
		return trimmed
	}
	return city
}

func structuredBounds(raw model.RawPosting) (lo, hi int, ok bool) {
	if raw.SalaryMin == nil || raw.SalaryMax == nil {
		return 0, 0, false
	}
	lo, hi = *raw.SalaryMin, *raw.SalaryMax
	if lo <= 0 || hi <= 0 {
		return 0, 0, false
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}
