package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderTable prints s as terminal tables.
func RenderTable(w io.Writer, s Summary) {
	overview := newTable(w)
	overview.SetTitle("Sample overview")
	overview.AppendRows([]table.Row{
		{"Samples", s.SampleCount},
		{"Analyzable", s.AnalyzedRows},
		{"Salary missing", percent(s.SalaryMissingRate)},
		{"Company missing", percent(s.CompanyMissingRate)},
		{"Title missing", percent(s.TitleMissingRate)},
	})
	overview.Render()

	renderGroups(w, "Industry", s.TopIndustries)
	renderGroups(w, "City", s.TopCities)
	renderGroups(w, "Experience", s.ByExperience)
}

func renderGroups(w io.Writer, label string, groups []Group) {
	if len(groups) == 0 {
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"#", label, "Median (元/月)", "Postings"})
	for i, g := range groups {
		t.AppendRow(table.Row{i + 1, g.Name, fmt.Sprintf("%.0f", g.Median), g.Count})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}
