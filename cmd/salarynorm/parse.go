package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/amishk599/salarynorm/internal/experience"
	"github.com/amishk599/salarynorm/internal/model"
	"github.com/amishk599/salarynorm/internal/normalize"
	"github.com/amishk599/salarynorm/internal/salary"
)

var parseExperience string

var parseCmd = &cobra.Command{
	Use:   "parse <salary text>",
	Short: "Parse one salary string and print the result",
	Long: "Runs the salary parser (and optionally the experience classifier) on the given text, " +
		"e.g. salarynorm parse \"15-20k·13薪\" --experience \"3-5年\".",
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseExperience, "experience", "", "experience requirement text to classify")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	p := salary.Parse(strings.Join(args, " "))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"raw", p.Raw},
		{"parsed", strconv.FormatBool(p.Parsed)},
		{"monthly_min", optionalInt(p.MonthlyMin)},
		{"monthly_max", optionalInt(p.MonthlyMax)},
		{"period", p.Period.String()},
		{"months", p.BonusMonths},
	})
	rec := normalize.Record(model.RawPosting{SalaryRaw: p.Raw})
	t.AppendRows([]table.Row{
		{"salary_mid", optionalInt(rec.SalaryMid)},
		{"salary_annual_est", optionalInt(rec.SalaryAnnualEst)},
		{"salary_level", rec.SalaryLevel},
	})
	if cmd.Flags().Changed("experience") {
		b := experience.Classify(parseExperience)
		t.AppendSeparator()
		t.AppendRow(table.Row{"experience_bucket", b.String() + " (" + b.Label() + ")"})
	}
	t.Render()
	return nil
}

func optionalInt(p *int) string {
	if p == nil {
		return "null"
	}
	return strconv.Itoa(*p)
}
