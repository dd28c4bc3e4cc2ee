package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/amishk599/salarynorm/internal/model"
)

// Ensure ExcelFile implements model.RecordSink.
var _ model.RecordSink = (*ExcelFile)(nil)

// SheetName is the worksheet holding the clean records.
const SheetName = "Jobs"

// ExcelFile writes records to an .xlsx workbook with a frozen, bold header.
type ExcelFile struct {
	path string
}

// NewExcelFile returns a sink writing to path.
func NewExcelFile(path string) *ExcelFile {
	return &ExcelFile{path: path}
}

func (f *ExcelFile) Name() string { return "excel" }

// WriteRecords replaces the workbook at path.
func (f *ExcelFile) WriteRecords(ctx context.Context, records []model.CleanRecord) error {
	if err := ensureDir(f.path); err != nil {
		return err
	}

	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	sw, err := x.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("opening sheet writer: %w", err)
	}

	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	headerStyle, err := x.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: c}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range records {
		if i%1000 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("resolving row %d: %w", i+2, err)
		}
		if err := sw.SetRow(cell, row(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}
	if err := x.SaveAs(f.path); err != nil {
		return fmt.Errorf("saving %s: %w", f.path, err)
	}
	return nil
}
