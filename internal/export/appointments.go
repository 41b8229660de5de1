// Package export renders admin downloads. Appointments are exported as an
// XLSX workbook with one row per request.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tbourn/victoria-clinic/internal/domain"
)

// SheetAppointments is the name of the worksheet holding appointment rows.
const SheetAppointments = "Заявки"

// ContentTypeXLSX is the MIME type of the generated workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var appointmentHeaders = []string{
	"ID",
	"Дата",
	"Имя",
	"Телефон",
	"Услуга",
	"Статус",
	"Согласие на обработку",
	"Рассылка",
	"Комментарий",
}

var statusLabels = map[domain.AppointmentStatus]string{
	domain.StatusNew:       "Новая",
	domain.StatusConfirmed: "Подтверждена",
	domain.StatusCompleted: "Выполнена",
	domain.StatusCancelled: "Отменена",
}

// StatusLabel returns the display name of st, or the raw value when unknown.
func StatusLabel(st domain.AppointmentStatus) string {
	if l, ok := statusLabels[st]; ok {
		return l
	}
	return string(st)
}

// Appointments builds a workbook with a header row followed by items in the
// given order. The caller must Close the returned file.
func Appointments(items []domain.Appointment) (*excelize.File, error) {
	f := excelize.NewFile()

	idx, err := f.NewSheet(SheetAppointments)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	for col, h := range appointmentHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(SheetAppointments, cell, h); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(appointmentHeaders), 1)
	if err := f.SetCellStyle(SheetAppointments, "A1", last, bold); err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, a := range items {
		row := []any{
			a.ID,
			a.CreatedAt.UTC().Format("2006-01-02 15:04"),
			a.Name,
			a.Phone,
			deref(a.Service),
			StatusLabel(a.Status),
			yesNo(a.AgreedToProcessing),
			yesNo(a.AgreedToNewsletter),
			deref(a.Comment),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetAppointments, cell, &row); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	widths := map[string]float64{"A": 38, "B": 18, "C": 24, "D": 16, "E": 36, "F": 14, "G": 12, "H": 10, "I": 48}
	for col, w := range widths {
		if err := f.SetColWidth(SheetAppointments, col, col, w); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteAppointments streams the workbook for items to w.
func WriteAppointments(w io.Writer, items []domain.Appointment) error {
	f, err := Appointments(items)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "да"
	}
	return "нет"
}
