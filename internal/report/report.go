// Package report summarizes clean records: sample sizes, missing rates and
// median monthly salaries by industry, city and experience bucket.
package report

import (
	"cmp"
	"slices"
	"strings"

	"github.com/amishk599/salarynorm/internal/experience"
	"github.com/amishk599/salarynorm/internal/model"
)

// DefaultTopN is how many industries and cities a summary ranks.
const DefaultTopN = 10

// Group is the median monthly mid salary of one slice of the data.
type Group struct {
	Name   string
	Median float64
	Count  int
}

// Summary holds the statistics of one set of clean records.
type Summary struct {
	SampleCount        int
	AnalyzedRows       int
	SalaryMissingRate  float64
	CompanyMissingRate float64
	TitleMissingRate   float64
	TopIndustries      []Group
	TopCities          []Group
	ByExperience       []Group
}

// Summarize computes a Summary. Only records with a positive salary midpoint
// feed the medians; missing rates are over all records.
func Summarize(records []model.CleanRecord, topN int) Summary {
	if topN <= 0 {
		topN = DefaultTopN
	}
	s := Summary{SampleCount: len(records)}
	if len(records) == 0 {
		return s
	}

	var salaryMissing, companyMissing, titleMissing int
	byIndustry := map[string][]float64{}
	byCity := map[string][]float64{}
	byBucket := map[string][]float64{}

	for _, r := range records {
		if r.SalaryMin == nil || r.SalaryMax == nil {
			salaryMissing++
		}
		if strings.TrimSpace(r.CompanyName) == "" {
			companyMissing++
		}
		if strings.TrimSpace(r.JobTitle) == "" {
			titleMissing++
		}

		mid, ok := midpoint(r)
		if !ok {
			continue
		}
		s.AnalyzedRows++
		if r.Industry != "" {
			byIndustry[r.Industry] = append(byIndustry[r.Industry], mid)
		}
		if r.City != "" {
			byCity[r.City] = append(byCity[r.City], mid)
		}
		byBucket[r.ExperienceBucket] = append(byBucket[r.ExperienceBucket], mid)
	}

	n := float64(len(records))
	s.SalaryMissingRate = float64(salaryMissing) / n
	s.CompanyMissingRate = float64(companyMissing) / n
	s.TitleMissingRate = float64(titleMissing) / n
	s.TopIndustries = topGroups(byIndustry, topN)
	s.TopCities = topGroups(byCity, topN)

	for _, b := range experience.Buckets {
		if mids := byBucket[string(b)]; len(mids) > 0 {
			s.ByExperience = append(s.ByExperience, Group{Name: b.Label(), Median: Median(mids), Count: len(mids)})
		}
	}
	return s
}

// Median returns the median of values, averaging the middle pair for even
// lengths. It returns 0 for an empty slice and does not modify values.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func midpoint(r model.CleanRecord) (float64, bool) {
	if r.SalaryMid != nil {
		return float64(*r.SalaryMid), *r.SalaryMid > 0
	}
	if r.SalaryMin == nil || r.SalaryMax == nil {
		return 0, false
	}
	mid := float64(*r.SalaryMin+*r.SalaryMax) / 2
	return mid, mid > 0
}

// topGroups ranks groups by median descending, ties broken by name.
func topGroups(groups map[string][]float64, topN int) []Group {
	out := make([]Group, 0, len(groups))
	for name, mids := range groups {
		out = append(out, Group{Name: name, Median: Median(mids), Count: len(mids)})
	}
	slices.SortFunc(out, func(a, b Group) int {
		if c := cmp.Compare(b.Median, a.Median); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
