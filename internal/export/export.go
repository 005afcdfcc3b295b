// Package export writes an event's bookings to an XLSX workbook.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"slotbook/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

var columns = []string{"ID", "Start", "End", "Name", "Email", "Booked At"}

// FileName is the default workbook name for an event.
func FileName(event *models.Event) string {
	return fmt.Sprintf("event_%d_%s.xlsx", event.ID, event.DateString())
}

// Bookings writes the bookings sorted by start time into dir and returns the file path.
func Bookings(dir string, event *models.Event, bookings []models.Booking) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s, %s", event.Title, event.DateString()))
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err := f.SetSheetRow(sheetName, "A2", &columns); err != nil {
		return "", fmt.Errorf("error writing header: %w", err)
	}
	_ = f.SetCellStyle(sheetName, "A2", lastCol+"2", headerStyle)

	sorted := append([]models.Booking(nil), bookings...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartTime < sorted[j].StartTime })

	for i, b := range sorted {
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		row := []interface{}{b.ID, b.StartTime.String(), b.EndTime.String(), b.Name, b.Email, b.CreatedAt.Format("2006-01-02 15:04")}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return "", fmt.Errorf("error writing booking %d: %w", b.ID, err)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "C", 10)
	_ = f.SetColWidth(sheetName, "D", "E", 28)
	_ = f.SetColWidth(sheetName, "F", "F", 18)
	_ = f.DeleteSheet("Sheet1")

	path := filepath.Join(dir, FileName(event))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}
	return path, nil
}
