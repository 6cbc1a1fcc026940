// Package report renders one calendar month of attendance data as a
// plain-text summary, a CSV file or an Excel workbook.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"attendance/models"
	"attendance/timecalc"

	"github.com/xuri/excelize/v2"
)

// monthNames holds the Slovak month names used across the UI and reports.
var monthNames = [...]string{
	"Január", "Február", "Marec", "Apríl", "Máj", "Jún",
	"Júl", "August", "September", "Október", "November", "December",
}

// MonthName returns the Slovak name of the month.
func MonthName(month time.Month) string {
	return monthNames[int(month)-1]
}

// Month is one month's report input.
type Month struct {
	Year     int
	Month    time.Month
	Settings models.UserSettings
	Records  map[string]models.DayRecord
}

// New builds a month report from a state snapshot.
func New(state models.AttendanceState, year int, month time.Month) Month {
	return Month{Year: year, Month: month, Settings: state.Settings, Records: state.Records}
}

// Days returns the month's calendar days.
func (m Month) Days() []time.Time {
	return timecalc.DaysInMonth(m.Year, m.Month)
}

// Stats aggregates the month.
func (m Month) Stats() models.MonthlyStats {
	return timecalc.ComputeMonthlyStats(m.Days(), m.Records, m.Settings)
}

func clockOrDash(s string) string {
	if s == "" {
		return "--:--"
	}
	return s
}

func breakMinutes(rec models.DayRecord) int {
	if rec.ManualBreak != nil {
		return *rec.ManualBreak
	}
	return 0
}

// Text renders the human-readable summary used for sharing and printing:
// worker name, month/year, one line per recorded day and the totals. It has
// no compatibility contract beyond readability.
func (m Month) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dochádzka – %s\n", m.Settings.UserName)
	fmt.Fprintf(&b, "%s %d\n", MonthName(m.Month), m.Year)
	b.WriteString("--------------------------------------------\n")

	for _, day := range m.Days() {
		key := timecalc.DateKey(day)
		rec, ok := m.Records[key]
		if !ok {
			continue
		}
		hours := timecalc.DailyHours(&rec)
		fmt.Fprintf(&b, "%s | %s-%s | %d min | %s\n",
			key,
			clockOrDash(rec.ManualArrival),
			clockOrDash(rec.ManualDeparture),
			breakMinutes(rec),
			timecalc.FormatHours(hours),
		)
	}

	stats := m.Stats()
	b.WriteString("--------------------------------------------\n")
	fmt.Fprintf(&b, "Spolu: %s za %d dní\n", timecalc.FormatHours(stats.TotalHours), stats.DaysWorked)
	fmt.Fprintf(&b, "Denný priemer: %s\n", timecalc.FormatHours(stats.Average))
	fmt.Fprintf(&b, "Hrubý zárobok: %.2f €\n", stats.GrossEarnings)
	fmt.Fprintf(&b, "Čistý zárobok: %.2f €\n", stats.NetEarnings)
	return b.String()
}

// WriteCSV writes one row per calendar day plus a totals row.
func (m Month) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Dátum", "Príchod", "Odchod", "Prestávka (min)", "Hodiny"}); err != nil {
		return err
	}
	for _, day := range m.Days() {
		key := timecalc.DateKey(day)
		rec, ok := m.Records[key]
		var hours float64
		if ok {
			hours = timecalc.DailyHours(&rec)
		}
		if err := writer.Write([]string{
			key,
			rec.ManualArrival,
			rec.ManualDeparture,
			fmt.Sprintf("%d", breakMinutes(rec)),
			fmt.Sprintf("%.2f", hours),
		}); err != nil {
			return err
		}
	}

	stats := m.Stats()
	if err := writer.Write([]string{"Spolu", "", "", "", fmt.Sprintf("%.2f", stats.TotalHours)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// CSVFilename returns the download name for the month's CSV export.
func (m Month) CSVFilename() string {
	return fmt.Sprintf("dochadzka_%d_%02d.csv", m.Year, int(m.Month))
}

// XLSXFilename returns the download name for the month's Excel export.
func (m Month) XLSXFilename() string {
	return fmt.Sprintf("dochadzka_%d_%02d.xlsx", m.Year, int(m.Month))
}

// Workbook builds the month as an Excel sheet: a merged title row, a bold
// header, one row per calendar day and the totals block. Callers stream it
// with File.Write and must Close it.
func (m Month) Workbook() (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := fmt.Sprintf("%s %d", MonthName(m.Month), m.Year)
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	title := fmt.Sprintf("Dochádzka %s – %s %d", m.Settings.UserName, MonthName(m.Month), m.Year)
	f.SetCellValue(sheetName, "A1", title)
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	}
	f.MergeCell(sheetName, "A1", "E1")

	headers := []string{"Dátum", "Príchod", "Odchod", "Prestávka (min)", "Hodiny"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c3", 'A'+i)
		f.SetCellValue(sheetName, cell, h)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A3", "E3", headerStyle)
	}

	row := 4
	for _, day := range m.Days() {
		key := timecalc.DateKey(day)
		rec, ok := m.Records[key]
		var hours float64
		if ok {
			hours = timecalc.DailyHours(&rec)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), key)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), rec.ManualArrival)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), rec.ManualDeparture)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), breakMinutes(rec))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), hours)
		row++
	}

	stats := m.Stats()
	row++
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Spolu")
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), stats.TotalHours)
	row++
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Hrubý zárobok")
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), stats.GrossEarnings)
	row++
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Čistý zárobok")
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), stats.NetEarnings)

	return f, nil
}
