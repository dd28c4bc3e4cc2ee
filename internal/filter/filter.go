package filter

import (
	"strings"

	"github.com/amishk599/salarynorm/internal/model"
)

// Ensure TitleAndCityFilter implements model.RecordFilter.
var _ model.RecordFilter = (*TitleAndCityFilter)(nil)

// TitleAndCityFilter keeps records whose title contains any of the title
// keywords and whose city contains any of the city keywords, minus the
// exclusions. Matching is case-insensitive. Empty include lists match all.
type TitleAndCityFilter struct {
	titleKeywords        []string
	titleExcludeKeywords []string
	cities               []string
	excludeCities        []string
}

// NewTitleAndCityFilter returns a filter over the given keyword lists.
func NewTitleAndCityFilter(titleKeywords, titleExcludeKeywords, cities, excludeCities []string) *TitleAndCityFilter {
	return &TitleAndCityFilter{
		titleKeywords:        lowerAll(titleKeywords),
		titleExcludeKeywords: lowerAll(titleExcludeKeywords),
		cities:               lowerAll(cities),
		excludeCities:        lowerAll(excludeCities),
	}
}

// Match returns true if the record passes both the title and city checks.
func (f *TitleAndCityFilter) Match(rec model.CleanRecord) bool {
	title := strings.ToLower(rec.JobTitle)
	city := strings.ToLower(rec.City)

	if len(f.titleKeywords) > 0 && !containsAny(title, f.titleKeywords) {
		return false
	}
	if containsAny(title, f.titleExcludeKeywords) {
		return false
	}
	if len(f.cities) > 0 && !containsAny(city, f.cities) {
		return false
	}
	if containsAny(city, f.excludeCities) {
		return false
	}
	return true
}

// AcceptAll is a filter that keeps every record.
type AcceptAll struct{}

func (AcceptAll) Match(model.CleanRecord) bool { return true }

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
