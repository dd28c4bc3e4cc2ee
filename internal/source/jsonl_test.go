package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amishk599/salarynorm/internal/model"
)

func TestDecode_SkipsBlankAndMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`{"job_title":"Go 开发","salary_raw":"15-20k","job_url":"https://x/1"}`,
		``,
		`{not json`,
		`   `,
		`{"job_title":"QA","salary_raw":"面议","salary_min":8000,"salary_max":9000}`,
	}, "\n")

	batch, err := Decode(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(batch.Records) != 2 {
		t.Fatalf("Records = %d, want 2", len(batch.Records))
	}
	if batch.Records[0].JobTitle != "Go 开发" || batch.Records[0].JobURL != "https://x/1" {
		t.Errorf("first record = %+v", batch.Records[0])
	}
	if batch.Records[1].SalaryMin == nil || *batch.Records[1].SalaryMin != 8000 {
		t.Errorf("structured salary_min not decoded: %+v", batch.Records[1])
	}
	if len(batch.Skipped) != 1 {
		t.Fatalf("Skipped = %d, want 1", len(batch.Skipped))
	}
	if batch.Skipped[0].Line != 3 {
		t.Errorf("Skipped line = %d, want 3", batch.Skipped[0].Line)
	}
}

func TestDecode_LenientStructuredSalary(t *testing.T) {
	input := strings.Join([]string{
		`{"job_title":"A","salary_raw":"8-9k","salary_min":8000.0,"salary_max":9000.0}`,
		`{"job_title":"B","salary_raw":"8-9k","salary_min":"8000","salary_max":" 9000 ","salary_months":"13"}`,
		`{"job_title":"C","salary_raw":"8-9k","salary_min":"面议","salary_max":true,"salary_months":{}}`,
		`{"job_title":"D","salary_raw":"8-9k","salary_min":null}`,
	}, "\n")

	batch, err := Decode(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(batch.Skipped) != 0 {
		t.Fatalf("Skipped = %d (%v), want 0", len(batch.Skipped), batch.Skipped[0])
	}
	if len(batch.Records) != 4 {
		t.Fatalf("Records = %d, want 4", len(batch.Records))
	}

	for _, rec := range batch.Records[:2] {
		if rec.SalaryMin == nil || *rec.SalaryMin != 8000 || rec.SalaryMax == nil || *rec.SalaryMax != 9000 {
			t.Errorf("%s: bounds = %v/%v, want 8000/9000", rec.JobTitle, rec.SalaryMin, rec.SalaryMax)
		}
	}
	if m := batch.Records[1].SalaryMonths; m == nil || *m != 13 {
		t.Errorf("B: salary_months = %v, want 13", m)
	}

	for _, rec := range batch.Records[2:] {
		if rec.SalaryMin != nil || rec.SalaryMax != nil || rec.SalaryMonths != nil {
			t.Errorf("%s: unusable structured fields kept: %+v", rec.JobTitle, rec)
		}
		if rec.SalaryRaw != "8-9k" {
			t.Errorf("%s: salary_raw = %q, want 8-9k", rec.JobTitle, rec.SalaryRaw)
		}
	}
}

func TestJSONLFile_ReadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.jsonl")
	content := "{\"job_title\":\"A\"}\n{\"job_title\":\"B\"}\n[]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	batch, err := NewJSONLFile(path).ReadRecords(context.Background())
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(batch.Records) != 2 {
		t.Errorf("Records = %d, want 2", len(batch.Records))
	}
	if len(batch.Skipped) != 1 || batch.Skipped[0].Path != path {
		t.Errorf("Skipped = %+v, want one entry with path set", batch.Skipped)
	}
	var le *model.LineError
	if !errors.As(batch.Skipped[0], &le) || !strings.Contains(le.Error(), "raw.jsonl:3") {
		t.Errorf("LineError = %v", batch.Skipped[0])
	}
}

func TestJSONLFile_MissingFile(t *testing.T) {
	_, err := NewJSONLFile(filepath.Join(t.TempDir(), "nope.jsonl")).ReadRecords(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
