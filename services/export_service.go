package services

import (
	"fmt"

	"finki_timetable/models"
	"finki_timetable/utils"

	"github.com/xuri/excelize/v2"
)

// ScheduleSheetName is the worksheet holding exported entries
const ScheduleSheetName = "Schedule"

// BuildScheduleWorkbook renders schedule entries as an XLSX workbook.
func BuildScheduleWorkbook(schedule models.Schedule) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ScheduleSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %v", err)
	}

	header := utils.ScheduleSheetHeader
	if err := f.SetSheetRow(ScheduleSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %v", err)
	}

	for i, entry := range schedule.Data {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := utils.ToScheduleRow(entry)
		if err := f.SetSheetRow(ScheduleSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %v", i+2, err)
		}
	}

	if err := f.SetColWidth(ScheduleSheetName, "A", "I", 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %v", err)
	}
	return buf.Bytes(), nil
}
