package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// WriteMonthPDF renders a month summary as a timesheet PDF
func WriteMonthPDF(w io.Writer, m *MonthSummary) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Timesheet %s", m.Month))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(40, 7, "Date")
	pdf.Cell(30, 7, "Hours")
	pdf.Cell(30, 7, "Overtime")
	pdf.Ln(7)

	pdf.SetFont("Arial", "", 11)
	for _, d := range m.Days {
		pdf.Cell(40, 6, d.Date)
		pdf.Cell(30, 6, FormatHours(d.Hours))
		pdf.Cell(30, 6, FormatHours(d.Overtime))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s    Overtime: %s",
		FormatHours(m.TotalHours), FormatHours(m.TotalOvertime)))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Vacation days: %d    Sick days: %d", m.VacationDays, m.SickDays))

	return pdf.Output(w)
}
