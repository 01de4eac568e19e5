package leaderboardservice

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	leaderboarddomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain"
)

// ExportSheetName is the worksheet the leaderboard is written to.
const ExportSheetName = "Leaderboard"

// ExportXLSX writes entries, in the given order, to a one-sheet workbook.
// Numeric statistics are stored as numbers; absent ones as the placeholder.
func ExportXLSX(entries []leaderboarddomain.PlayerEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), ExportSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, 0, len(leaderboarddomain.Columns)+1)
	header = append(header, "Name")
	for _, c := range leaderboarddomain.Columns {
		header = append(header, c.Label)
	}
	if err := f.SetSheetRow(ExportSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(ExportSheetName, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for idx, entry := range entries {
		axis, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return nil, err
		}
		row := make([]interface{}, 0, len(header))
		row = append(row, entry.Name)
		for _, c := range leaderboarddomain.Columns {
			row = append(row, exportCell(entry, c.Key))
		}
		if err := f.SetSheetRow(ExportSheetName, axis, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", idx+2, err)
		}
	}

	if err := f.SetColWidth(ExportSheetName, "A", "A", 24); err != nil {
		return nil, fmt.Errorf("failed to size name column: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func exportCell(entry leaderboarddomain.PlayerEntry, key leaderboarddomain.StatKey) interface{} {
	if v, ok := entry.Metric(key); ok {
		return v
	}
	return entry.Cell(key)
}
