package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amishk599/salarynorm/internal/model"
)

func intPtr(v int) *int { return &v }

func rec(industry, city, bucket string, lo, hi int) model.CleanRecord {
	mid := (lo + hi) / 2
	return model.CleanRecord{
		JobTitle:         "工程师",
		CompanyName:      "Acme",
		Industry:         industry,
		City:             city,
		ExperienceBucket: bucket,
		SalaryMin:        intPtr(lo),
		SalaryMax:        intPtr(hi),
		SalaryMid:        intPtr(mid),
		SalaryParsed:     true,
	}
}

func unparsed(industry, city string) model.CleanRecord {
	return model.CleanRecord{Industry: industry, City: city, ExperienceBucket: "unknown"}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		in   []float64
		want float64
	}{
		{nil, 0},
		{[]float64{5}, 5},
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, 3, 2}, 2.5},
	}
	for _, tt := range tests {
		if got := Median(tt.in); got != tt.want {
			t.Errorf("Median(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	in := []float64{3, 1, 2}
	Median(in)
	if in[0] != 3 {
		t.Error("Median modified its input")
	}
}

func TestSummarize(t *testing.T) {
	records := []model.CleanRecord{
		rec("互联网", "上海", "3to5", 20000, 30000),
		rec("互联网", "北京", "0to3", 10000, 20000),
		rec("金融", "上海", "5plus", 30000, 50000),
		rec("制造", "苏州", "0to3", 6000, 8000),
		unparsed("互联网", "上海"),
	}
	records[3].CompanyName = ""

	s := Summarize(records, 2)

	if s.SampleCount != 5 || s.AnalyzedRows != 4 {
		t.Errorf("sample/analyzed = %d/%d, want 5/4", s.SampleCount, s.AnalyzedRows)
	}
	if math.Abs(s.SalaryMissingRate-0.2) > 1e-9 {
		t.Errorf("SalaryMissingRate = %v, want 0.2", s.SalaryMissingRate)
	}
	if math.Abs(s.CompanyMissingRate-0.4) > 1e-9 {
		t.Errorf("CompanyMissingRate = %v, want 0.4", s.CompanyMissingRate)
	}

	if len(s.TopIndustries) != 2 {
		t.Fatalf("TopIndustries has %d entries, want 2", len(s.TopIndustries))
	}
	if s.TopIndustries[0].Name != "金融" || s.TopIndustries[0].Median != 40000 {
		t.Errorf("top industry = %+v, want 金融 at 40000", s.TopIndustries[0])
	}
	// Unparsed rows never feed the medians.
	if s.TopIndustries[1].Name != "互联网" || s.TopIndustries[1].Median != 20000 || s.TopIndustries[1].Count != 2 {
		t.Errorf("second industry = %+v, want 互联网 at 20000 over 2", s.TopIndustries[1])
	}

	if s.TopCities[0].Name != "上海" || s.TopCities[0].Median != 32500 {
		t.Errorf("top city = %+v, want 上海 at 32500", s.TopCities[0])
	}

	wantBuckets := []string{"0-3年", "3-5年", "5年以上"}
	if len(s.ByExperience) != len(wantBuckets) {
		t.Fatalf("ByExperience = %+v, want %d buckets", s.ByExperience, len(wantBuckets))
	}
	for i, name := range wantBuckets {
		if s.ByExperience[i].Name != name {
			t.Errorf("bucket %d = %q, want %q", i, s.ByExperience[i].Name, name)
		}
	}
	if s.ByExperience[0].Median != 11000 {
		t.Errorf("0-3年 median = %v, want 11000", s.ByExperience[0].Median)
	}
}

func TestSummarize_TiesSortByName(t *testing.T) {
	s := Summarize([]model.CleanRecord{
		rec("b", "x", "0to3", 10000, 10000),
		rec("a", "x", "0to3", 10000, 10000),
	}, 10)
	if s.TopIndustries[0].Name != "a" || s.TopIndustries[1].Name != "b" {
		t.Errorf("tie order = %s, %s; want a, b", s.TopIndustries[0].Name, s.TopIndustries[1].Name)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 10)
	if s.SampleCount != 0 || s.AnalyzedRows != 0 || s.TopIndustries != nil {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestWriteMarkdown(t *testing.T) {
	s := Summarize([]model.CleanRecord{
		rec("互联网", "上海", "3to5", 20000, 30000),
		unparsed("互联网", "上海"),
	}, 10)

	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, s); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# 招聘薪资分析报告",
		"- 样本总量: **2**",
		"- 可分析样本量: **1**",
		"- 薪资缺失率: **50.00%**",
		"## 行业月薪中位数 Top 1",
		"- 互联网: 25000 元",
		"## 经验分组月薪中位数",
		"- 3-5年: 25000 元",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestWriteMarkdownFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "summary.md")
	if err := WriteMarkdownFile(path, Summarize(nil, 10)); err != nil {
		t.Fatalf("WriteMarkdownFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading summary: %v", err)
	}
	if !strings.Contains(string(data), "数据为空") {
		t.Errorf("empty summary = %q", data)
	}
}

func TestRenderTable(t *testing.T) {
	s := Summarize([]model.CleanRecord{rec("金融", "上海", "5plus", 30000, 50000)}, 10)

	var buf bytes.Buffer
	RenderTable(&buf, s)
	out := buf.String()

	for _, want := range []string{"Sample overview", "金融", "40000", "5年以上"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}
