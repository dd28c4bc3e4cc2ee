package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/amishk599/salarynorm/internal/model"
)

// Ensure CSVFile implements model.RecordSink.
var _ model.RecordSink = (*CSVFile)(nil)

// utf8BOM lets Excel open the CSV as UTF-8 instead of the system code page.
const utf8BOM = "\xef\xbb\xbf"

// CSVFile writes records as a UTF-8 (with BOM) CSV file.
type CSVFile struct {
	path string
}

// NewCSVFile returns a sink writing to path.
func NewCSVFile(path string) *CSVFile {
	return &CSVFile{path: path}
}

func (f *CSVFile) Name() string { return "csv" }

// WriteRecords replaces the file with a header row and one row per record.
func (f *CSVFile) WriteRecords(ctx context.Context, records []model.CleanRecord) error {
	if err := ensureDir(f.path); err != nil {
		return err
	}
	file, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("creating csv %s: %w", f.path, err)
	}
	defer file.Close()

	if _, err := file.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("writing csv %s: %w", f.path, err)
	}

	w := csv.NewWriter(file)
	if err := w.Write(Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for i, rec := range records {
		if i%1000 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.Write(stringRow(rec)); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv %s: %w", f.path, err)
	}
	return file.Close()
}
