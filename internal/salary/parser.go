// Package salary turns free-text compensation strings scraped from job boards
// ("8k-15k/月", "20-30万/年", "500-800元/天", "面议·13薪") into comparable
// monthly figures.
package salary

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/amishk599/salarynorm/internal/textutil"
)

// DefaultBonusMonths is the number of pay installments per year assumed when
// the text carries no valid "N薪" suffix.
const DefaultBonusMonths = 12

const (
	minBonusMonths = 1
	maxBonusMonths = 24
)

// NegotiableKeywords mark compensation that is to be discussed rather than
// disclosed.
var NegotiableKeywords = []string{"面议", "薪资面议", "保密", "待定"}

var (
	rangePattern = regexp.MustCompile(
		`(\d+(?:\.\d+)?)\s*([kK千万元]?)\s*元?\s*[-~至–—]\s*` +
			`(\d+(?:\.\d+)?)\s*([kK千万元]?)\s*元?\s*(?:/|每)?\s*(月|年|天|小时)?`)
	singlePattern = regexp.MustCompile(
		`(\d+(?:\.\d+)?)\s*([kK千万元]?)\s*元?\s*(?:/|每)?\s*(月|年|天|小时)?`)
	monthsPattern    = regexp.MustCompile(`[·.\s]?(\d{1,2})\s*薪`)
	thousandsPattern = regexp.MustCompile(`(\d),(\d{3})(\D|$)`)
)

// ParsedSalary is the normalized form of one compensation string.
// MonthlyMin and MonthlyMax are either both nil or both set with
// *MonthlyMin <= *MonthlyMax.
type ParsedSalary struct {
	Raw         string
	MonthlyMin  *int
	MonthlyMax  *int
	Period      Period
	BonusMonths int
	Parsed      bool
}

// Bounds returns the monthly bounds and whether they are present.
func (p ParsedSalary) Bounds() (lo, hi int, ok bool) {
	if !p.Parsed || p.MonthlyMin == nil || p.MonthlyMax == nil {
		return 0, 0, false
	}
	return *p.MonthlyMin, *p.MonthlyMax, true
}

// Parse converts raw into a ParsedSalary. It never panics; text it cannot read
// confidently comes back with Parsed=false and nil bounds.
func Parse(raw string) ParsedSalary {
	trimmed := strings.TrimSpace(raw)
	result := ParsedSalary{
		Raw:         trimmed,
		Period:      Monthly,
		BonusMonths: DefaultBonusMonths,
	}
	if trimmed == "" {
		return result
	}

	text := textutil.Fold(trimmed)
	text = dropThousandsSeparators(text)

	var months int
	months, text = extractBonusMonths(text)
	result.BonusMonths = months

	if IsNegotiable(text) {
		return result
	}

	if m := rangePattern.FindStringSubmatch(text); m != nil {
		unit := m[4]
		if unit == "" {
			unit = m[2]
		}
		period := PeriodFromToken(m[5])
		result.Period = period

		lo, okLo := toMonthly(m[1], unit, period)
		hi, okHi := toMonthly(m[3], unit, period)
		if !okLo || !okHi {
			return result
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return withBounds(result, lo, hi)
	}

	if m := singlePattern.FindStringSubmatch(text); m != nil {
		period := PeriodFromToken(m[3])
		result.Period = period

		v, ok := toMonthly(m[1], m[2], period)
		if !ok {
			return result
		}
		return withBounds(result, v, v)
	}

	return result
}

// IsNegotiable reports whether text says compensation is to be discussed.
func IsNegotiable(text string) bool {
	for _, kw := range NegotiableKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// BonusMonths returns the "N薪" installment count in text, or
// DefaultBonusMonths when absent or outside [1,24].
func BonusMonths(text string) int {
	months, _ := extractBonusMonths(textutil.Fold(text))
	return months
}

// extractBonusMonths finds the first "N薪" marker and returns its value along
// with text stripped of the marker, so that "13薪" is never read as a salary.
func extractBonusMonths(text string) (int, string) {
	loc := monthsPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return DefaultBonusMonths, text
	}
	stripped := text[:loc[0]] + " " + text[loc[1]:]

	n, err := strconv.Atoi(text[loc[2]:loc[3]])
	if err != nil || n < minBonusMonths || n > maxBonusMonths {
		return DefaultBonusMonths, stripped
	}
	return n, stripped
}

// dropThousandsSeparators removes a comma between digits only when exactly
// three digits follow it, so "1,2345" is left alone.
func dropThousandsSeparators(text string) string {
	for {
		next := thousandsPattern.ReplaceAllString(text, "$1$2$3")
		if next == text {
			return text
		}
		text = next
	}
}

// toMonthly scales a number by its unit and period and rounds half to even.
// ok is false for non-positive or non-representable amounts.
func toMonthly(number, unit string, period Period) (int, bool) {
	v, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false
	}
	monthly := math.RoundToEven(period.ToMonthly(v * UnitMultiplier(unit)))
	if math.IsNaN(monthly) || monthly <= 0 || monthly > math.MaxInt32 {
		return 0, false
	}
	return int(monthly), true
}

func withBounds(p ParsedSalary, lo, hi int) ParsedSalary {
	p.MonthlyMin = &lo
	p.MonthlyMax = &hi
	p.Parsed = true
	return p
}
