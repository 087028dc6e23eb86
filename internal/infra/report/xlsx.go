// Package report writes probe outcomes to a spreadsheet for later review.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/rojanmagar2001/streamcheck/internal/ports"
)

const sheet = "Probes"

var header = []any{"Source", "Name", "URL", "Working", "Stage", "Status", "Failure", "Elapsed (ms)"}

type XLSX struct{}

func NewXLSX() *XLSX { return &XLSX{} }

func (x *XLSX) Report(path string, records []ports.ProbeRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		row := []any{
			r.Source,
			r.Entry.DisplayName,
			r.Entry.URL,
			r.Result.Working,
			string(r.Result.Stage),
			r.Result.StatusCode,
			string(r.Result.Failure()),
			r.Result.Elapsed.Milliseconds(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.AutoFilter(sheet, fmt.Sprintf("A1:H%d", len(records)+1), nil); err != nil {
		return fmt.Errorf("auto filter: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}
