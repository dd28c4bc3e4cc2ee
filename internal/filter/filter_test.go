package filter

import (
	"testing"

	"github.com/amishk599/salarynorm/internal/model"
)

func record(title, city string) model.CleanRecord {
	return model.CleanRecord{JobTitle: title, City: city}
}

func TestTitleAndCityFilter_Match(t *testing.T) {
	tests := []struct {
		name          string
		titleKeywords []string
		titleExclude  []string
		cities        []string
		excludeCities []string
		rec           model.CleanRecord
		wantMatch     bool
	}{
		{
			name:          "matches both title and city",
			titleKeywords: []string{"python", "后端"},
			cities:        []string{"北京", "上海"},
			rec:           record("Python 开发工程师", "北京"),
			wantMatch:     true,
		},
		{
			name:          "title match but city miss",
			titleKeywords: []string{"python"},
			cities:        []string{"北京"},
			rec:           record("Python 开发工程师", "深圳"),
			wantMatch:     false,
		},
		{
			name:          "case insensitive matching",
			titleKeywords: []string{"GOLANG"},
			rec:           record("Golang Developer", "杭州"),
			wantMatch:     true,
		},
		{
			name:          "excluded title keyword",
			titleKeywords: []string{"工程师"},
			titleExclude:  []string{"实习"},
			rec:           record("实习工程师", "北京"),
			wantMatch:     false,
		},
		{
			name:          "excluded city",
			excludeCities: []string{"深圳"},
			rec:           record("Java 开发", "深圳"),
			wantMatch:     false,
		},
		{
			name:          "blank keywords are ignored",
			titleKeywords: []string{"  "},
			rec:           record("Any Role", "Anywhere"),
			wantMatch:     true,
		},
		{
			name:      "empty keyword lists pass all",
			rec:       record("Any Role", "Anywhere"),
			wantMatch: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewTitleAndCityFilter(tt.titleKeywords, tt.titleExclude, tt.cities, tt.excludeCities)
			if got := f.Match(tt.rec); got != tt.wantMatch {
				t.Errorf("Match() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestAcceptAll(t *testing.T) {
	if !(AcceptAll{}).Match(model.CleanRecord{}) {
		t.Error("AcceptAll.Match() = false")
	}
}
