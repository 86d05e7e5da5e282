package attendance

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	attendanceerrors "go-attendance/internal/attendance/errors"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// Export is a rendered monthly report ready to be sent as a download.
type Export struct {
	ContentType string
	Filename    string
	Body        []byte
}

var detailHeader = []string{"Employee", "Date", "Check In", "Check Out", "Working Hours", "Late Minutes", "Status"}

// RenderReport renders a monthly report as csv, xlsx or pdf.
func RenderReport(format string, report MonthlyReportResponse) (Export, error) {
	base := fmt.Sprintf("attendance-report-%s-%s", slug(report.Employee.Name), report.Month)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		body, err := renderCSV(report)
		return Export{ContentType: "text/csv", Filename: base + ".csv", Body: body}, err
	case FormatXLSX:
		body, err := renderXLSX(report)
		return Export{
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Filename:    base + ".xlsx",
			Body:        body,
		}, err
	case FormatPDF:
		body, err := renderPDF(report)
		return Export{ContentType: "application/pdf", Filename: base + ".pdf", Body: body}, err
	default:
		return Export{}, attendanceerrors.ErrUnsupportedExportFormat
	}
}

type metric struct {
	label string
	value string
}

func summaryMetrics(r MonthlyReportResponse) []metric {
	return []metric{
		{"Total Days", strconv.Itoa(r.TotalDays)},
		{"Working Days", strconv.Itoa(r.WorkingDays)},
		{"Present Days", strconv.Itoa(r.PresentDays)},
		{"Absent Days", strconv.Itoa(r.AbsentDays)},
		{"Half Days", strconv.Itoa(r.HalfDays)},
		{"Leave Days", strconv.Itoa(r.LeaveDays)},
		{"Holiday Days", strconv.Itoa(r.HolidayDays)},
		{"Late Days", strconv.Itoa(r.LateDays)},
		{"Total Hours Worked", r.TotalHoursWorked.StringFixed(2)},
		{"Total Late Minutes", strconv.Itoa(r.TotalLateMinutes)},
		{"Attendance Rate", r.AttendanceRate.StringFixed(2) + "%"},
	}
}

func detailRow(employeeName string, d AttendanceResponse) []string {
	return []string{
		employeeName,
		d.Date,
		clockOf(d.CheckInTime),
		clockOf(d.CheckOutTime),
		d.TotalHours.StringFixed(2),
		strconv.Itoa(d.LateMinutes),
		d.Status,
	}
}

func renderCSV(r MonthlyReportResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Employee Report"},
		{"Employee", r.Employee.Name},
		{"Month", r.Month},
		{},
	}
	for _, m := range summaryMetrics(r) {
		rows = append(rows, []string{m.label, m.value})
	}
	rows = append(rows, []string{}, detailHeader)
	for _, d := range r.Details {
		rows = append(rows, detailRow(r.Employee.Name, d))
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(r MonthlyReportResponse) ([]byte, error) {
	const sheet = "Attendance"

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	if index, err := f.GetSheetIndex(sheet); err == nil {
		f.SetActiveSheet(index)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", "EMPLOYEE ATTENDANCE REPORT")
	f.MergeCell(sheet, "A1", "G1")
	f.SetCellStyle(sheet, "A1", "G1", headerStyle)
	f.SetRowHeight(sheet, 1, 25)

	f.SetCellValue(sheet, "A3", "Employee:")
	f.SetCellValue(sheet, "B3", r.Employee.Name)
	f.SetCellValue(sheet, "A4", "Month:")
	f.SetCellValue(sheet, "B4", r.Month)

	row := 6
	f.SetCellValue(sheet, cell("A", row), "Metric")
	f.SetCellValue(sheet, cell("B", row), "Value")
	f.SetCellStyle(sheet, cell("A", row), cell("B", row), headerStyle)
	for _, m := range summaryMetrics(r) {
		row++
		f.SetCellValue(sheet, cell("A", row), m.label)
		f.SetCellValue(sheet, cell("B", row), m.value)
	}

	row += 2
	for i, h := range detailHeader {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, cell(col, row), h)
	}
	f.SetCellStyle(sheet, cell("A", row), cell("G", row), headerStyle)
	for _, d := range r.Details {
		row++
		for i, v := range detailRow(r.Employee.Name, d) {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(sheet, cell(col, row), v)
		}
	}

	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "G", 15)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(r MonthlyReportResponse) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Employee Attendance Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(40, 10, fmt.Sprintf("Employee: %s", r.Employee.Name))
	pdf.Ln(8)
	pdf.Cell(40, 10, fmt.Sprintf("Month: %s", r.Month))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(90, 10, "Metric")
	pdf.Cell(90, 10, "Value")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	for _, m := range summaryMetrics(r) {
		pdf.Cell(90, 8, m.label)
		pdf.Cell(90, 8, m.value)
		pdf.Ln(8)
	}

	if len(r.Details) > 0 {
		pdf.Ln(6)
		widths := []float64{25, 25, 25, 30, 30, 40}
		pdf.SetFont("Arial", "B", 10)
		for i, h := range detailHeader[1:] {
			pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 10)
		for _, d := range r.Details {
			for i, v := range detailRow(r.Employee.Name, d)[1:] {
				pdf.CellFormat(widths[i], 7, v, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// clockOf shows an RFC3339 instant as HH:MM in the offset it was written
// with, or "-" when absent.
func clockOf(v *string) string {
	if v == nil {
		return "-"
	}
	t, err := time.Parse(time.RFC3339, *v)
	if err != nil {
		return *v
	}
	return t.Format("15:04")
}

func cell(col string, row int) string {
	return col + strconv.Itoa(row)
}

func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "employee"
	}
	return strings.Join(strings.Fields(name), "-")
}
