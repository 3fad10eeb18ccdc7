package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/DanielFillol/linkedin-people-scraper/internal/store"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Profiles"

// Formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ErrUnknownFormat is returned for formats other than csv and xlsx.
var ErrUnknownFormat = errors.New("unknown export format")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes a UTF-8 BOM followed by the header and rows, so
// spreadsheet tools detect the encoding.
func (t Table) WriteCSV(w io.Writer) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteXLSX saves the table to path with a bold header row.
func (t Table) WriteXLSX(path string) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	if err := setRow(f, 1, t.Columns); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	if len(t.Columns) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(SheetName, cell, &row)
}

// Aggregate loads every record in s and writes them to path in format.
// The parent directory of path is created if needed.
func Aggregate(ctx context.Context, s store.Store, format, path string) (int, error) {
	if format != FormatCSV && format != FormatXLSX {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	records, err := s.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	t := Build(records)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("export: %w", err)
		}
	}
	if format == FormatXLSX {
		if err := t.WriteXLSX(path); err != nil {
			return 0, fmt.Errorf("export xlsx %s: %w", path, err)
		}
		return len(records), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return 0, fmt.Errorf("export csv %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("export csv %s: %w", path, err)
	}
	return len(records), nil
}
