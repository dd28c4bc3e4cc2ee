package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteMarkdown renders s as a Markdown summary.
func WriteMarkdown(w io.Writer, s Summary) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# 招聘薪资分析报告")
	fmt.Fprintln(bw)
	if s.SampleCount == 0 {
		fmt.Fprintln(bw, "数据为空，未生成统计。")
		return bw.Flush()
	}

	fmt.Fprintln(bw, "## 样本概览")
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "- 样本总量: **%d**\n", s.SampleCount)
	fmt.Fprintf(bw, "- 可分析样本量: **%d**\n", s.AnalyzedRows)
	fmt.Fprintf(bw, "- 薪资缺失率: **%s**\n", percent(s.SalaryMissingRate))
	fmt.Fprintf(bw, "- 公司名缺失率: **%s**\n", percent(s.CompanyMissingRate))
	fmt.Fprintf(bw, "- 职位名缺失率: **%s**\n", percent(s.TitleMissingRate))
	fmt.Fprintln(bw)

	writeGroups(bw, fmt.Sprintf("行业月薪中位数 Top %d", len(s.TopIndustries)), s.TopIndustries)
	writeGroups(bw, fmt.Sprintf("城市月薪中位数 Top %d", len(s.TopCities)), s.TopCities)
	writeGroups(bw, "经验分组月薪中位数", s.ByExperience)

	return bw.Flush()
}

// WriteMarkdownFile writes the Markdown summary to path, creating parent
// directories as needed.
func WriteMarkdownFile(path string, s Summary) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating summary dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary %s: %w", path, err)
	}
	if err := WriteMarkdown(f, s); err != nil {
		f.Close()
		return fmt.Errorf("writing summary %s: %w", path, err)
	}
	return f.Close()
}

func writeGroups(w io.Writer, title string, groups []Group) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(w, "## %s\n\n", title)
	for _, g := range groups {
		fmt.Fprintf(w, "- %s: %.0f 元\n", g.Name, g.Median)
	}
	fmt.Fprintln(w)
}

func percent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}
