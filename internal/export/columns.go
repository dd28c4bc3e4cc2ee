// Package export writes clean records to the files analysts open: CSV for
// spreadsheets, JSON for scripts and XLSX for people who want formatting.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/amishk599/salarynorm/internal/model"
)

// Columns is the output column order shared by every tabular format.
var Columns = []string{
	"job_title",
	"salary_raw",
	"salary_min",
	"salary_max",
	"salary_period",
	"salary_months",
	"salary_parsed",
	"company_name",
	"industry",
	"city",
	"experience_req",
	"experience_bucket",
	"education_req",
	"job_url",
	"crawl_time",
	"salary_mid",
	"salary_annual_est",
	"salary_level",
	"identity_key",
}

// row returns rec's values in Columns order. Absent numbers are nil.
func row(rec model.CleanRecord) []any {
	return []any{
		rec.JobTitle,
		rec.SalaryRaw,
		optInt(rec.SalaryMin),
		optInt(rec.SalaryMax),
		rec.SalaryPeriod,
		rec.SalaryMonths,
		rec.SalaryParsed,
		rec.CompanyName,
		rec.Industry,
		rec.City,
		rec.ExperienceReq,
		rec.ExperienceBucket,
		rec.EducationReq,
		rec.JobURL,
		rec.CrawlTime,
		optInt(rec.SalaryMid),
		optInt(rec.SalaryAnnualEst),
		rec.SalaryLevel,
		rec.IdentityKey,
	}
}

// stringRow renders row(rec) for text formats; nil becomes "".
func stringRow(rec model.CleanRecord) []string {
	vals := row(rec)
	out := make([]string, len(vals))
	for i, v := range vals {
		switch v := v.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = v
		case int:
			out[i] = strconv.Itoa(v)
		case bool:
			out[i] = strconv.FormatBool(v)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

func optInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

// ensureDir creates the parent directory of path.
func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir for %s: %w", path, err)
	}
	return nil
}
