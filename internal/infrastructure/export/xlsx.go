// Package export renders analysis results into downloadable formats.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"stockgap/internal/domain/gap"
)

// XLSXContentType is the MIME type for xlsx downloads.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Gap Analysis"

var columnHeaders = []string{
	"SKU", "Product", "Opening", "Sold", "Received",
	"Theoretical", "Actual", "Gap",
}

// WriteXLSX renders an analysis and its rows as an xlsx workbook.
// Rows are written in stored order, largest absolute gap first.
func WriteXLSX(w io.Writer, a *gap.Analysis, rows []gap.GapRow) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	// Header block with run parameters.
	meta := [][]any{
		{"Warehouse", a.WarehouseID.String()},
		{"Period", a.DateFrom.Format(time.DateOnly) + " .. " + a.DateTo.Format(time.DateOnly)},
		{"Computed at", a.ComputedAt.Format(time.RFC3339)},
	}
	for i, pair := range meta {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &pair); err != nil {
			return fmt.Errorf("write meta row: %w", err)
		}
	}

	headerRow := len(meta) + 2
	cell, err := excelize.CoordinatesToCellName(1, headerRow)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheetName, cell, &columnHeaders); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		values := []any{
			row.ProductSKU,
			row.ProductName,
			row.QtyStart.Float64(),
			row.QtySold.Float64(),
			row.QtyReceived.Float64(),
			row.QtyTheoretical.Float64(),
			row.QtyActual.Float64(),
			row.QtyGap.Float64(),
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	return nil
}

// FileName builds the download file name for an analysis.
func FileName(a *gap.Analysis) string {
	return fmt.Sprintf("gap-analysis-%s-%s.xlsx",
		a.DateFrom.Format(time.DateOnly), a.DateTo.Format(time.DateOnly))
}
