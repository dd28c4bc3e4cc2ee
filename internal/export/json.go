package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/amishk599/salarynorm/internal/model"
)

// Ensure JSONFile implements model.RecordSink and model.RecordLoader.
var (
	_ model.RecordSink   = (*JSONFile)(nil)
	_ model.RecordLoader = (*JSONFile)(nil)
)

// JSONFile writes records as one indented JSON array and reads them back.
type JSONFile struct {
	path string
}

// NewJSONFile returns a sink/loader bound to path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (f *JSONFile) Name() string { return "json" }

// WriteRecords replaces the file with records. CJK text is written as-is.
func (f *JSONFile) WriteRecords(_ context.Context, records []model.CleanRecord) error {
	if err := ensureDir(f.path); err != nil {
		return err
	}
	file, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("creating json %s: %w", f.path, err)
	}
	defer file.Close()

	if records == nil {
		records = []model.CleanRecord{}
	}
	enc := json.NewEncoder(file)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding json %s: %w", f.path, err)
	}
	return file.Close()
}

// LoadRecords reads the array written by WriteRecords.
func (f *JSONFile) LoadRecords(_ context.Context) ([]model.CleanRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading clean json: %w", err)
	}
	var records []model.CleanRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing clean json %s: %w", f.path, err)
	}
	return records, nil
}
