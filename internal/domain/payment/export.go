package payment

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const scheduleSheet = "Schedule"

var scheduleHeaders = []string{
	"Schedule No", "Installment", "Milestone", "Due Date", "Amount", "Paid", "Status",
}

// WriteScheduleWorkbook renders schedules as an XLSX workbook.
func WriteScheduleWorkbook(w io.Writer, schedules []Schedule) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return err
	}

	for i, h := range scheduleHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(scheduleSheet, cell, h); err != nil {
			return err
		}
	}

	for i, s := range schedules {
		row := i + 2
		values := []interface{}{
			s.ScheduleNumber,
			fmt.Sprintf("%d/%d", s.InstallmentNumber, s.TotalInstallments),
			s.MilestoneName,
			s.DueDate.Format("2006-01-02"),
			s.Amount.InexactFloat64(),
			s.PaidAmount.InexactFloat64(),
			string(s.Status),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(scheduleSheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}
