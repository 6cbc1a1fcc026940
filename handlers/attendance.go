package handlers

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"attendance/config"
	"attendance/logger"
	"attendance/models"
	"attendance/report"
	"attendance/timecalc"
	"attendance/tracker"
)

// weekdayNames maps time.Weekday to its Slovak name.
var weekdayNames = [...]string{
	"Nedeľa", "Pondelok", "Utorok", "Streda", "Štvrtok", "Piatok", "Sobota",
}

type AttendanceHandler struct {
	config    *config.Config
	templates map[string]*template.Template
	tracker   *tracker.Tracker
}

func NewAttendanceHandler(cfg *config.Config, templates map[string]*template.Template, tr *tracker.Tracker) *AttendanceHandler {
	return &AttendanceHandler{
		config:    cfg,
		templates: templates,
		tracker:   tr,
	}
}

// selectedMonth reads the month/year query parameters, falling back to the
// current month.
func selectedMonth(r *http.Request, now time.Time) (int, time.Month) {
	year := now.Year()
	month := now.Month()
	if m, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil && m >= 1 && m <= 12 {
		month = time.Month(m)
	}
	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && y >= 2000 && y <= 2100 {
		year = y
	}
	return year, month
}

func monthQuery(year int, month time.Month) string {
	return fmt.Sprintf("month=%d&year=%d", int(month), year)
}

type dayView struct {
	Key       string
	DayNumber int
	MonthName string
	Weekday   string
	Arrival   string
	Departure string
	Break     string
	HoursText string
	Worked    bool
	IsWeekend bool
	IsToday   bool
}

func (h *AttendanceHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := selectedMonth(r, now)

	state := h.tracker.State()
	todayKey := timecalc.DateKey(now)

	var days []dayView
	for _, day := range timecalc.DaysInMonth(year, month) {
		key := timecalc.DateKey(day)
		var hours float64
		view := dayView{
			Key:       key,
			DayNumber: day.Day(),
			MonthName: report.MonthName(day.Month()),
			Weekday:   weekdayNames[day.Weekday()],
			IsWeekend: day.Weekday() == time.Saturday || day.Weekday() == time.Sunday,
			IsToday:   key == todayKey,
		}
		if rec, ok := state.Records[key]; ok {
			hours = timecalc.DailyHours(&rec)
			view.Arrival = rec.ManualArrival
			view.Departure = rec.ManualDeparture
			if rec.ManualBreak != nil {
				view.Break = strconv.Itoa(*rec.ManualBreak)
			}
		}
		view.HoursText = timecalc.FormatHours(hours)
		view.Worked = hours > 0
		days = append(days, view)
	}

	stats := h.tracker.MonthlyStats(year, month)

	prevYear, prevMonth := year, month-1
	if month == time.January {
		prevYear, prevMonth = year-1, time.December
	}
	nextYear, nextMonth := year, month+1
	if month == time.December {
		nextYear, nextMonth = year+1, time.January
	}

	data := map[string]interface{}{
		"Settings":      state.Settings,
		"Days":          days,
		"Stats":         stats,
		"Error":         r.URL.Query().Get("error"),
		"Success":       r.URL.Query().Get("success"),
		"MonthName":     report.MonthName(month),
		"SelectedMonth": int(month),
		"SelectedYear":  year,
		"PrevQuery":     monthQuery(prevYear, prevMonth),
		"NextQuery":     monthQuery(nextYear, nextMonth),
		"Now":           now,
		"TodayKey":      todayKey,
	}
	h.templates["dashboard"].ExecuteTemplate(w, "base", data)
}

// UpdateDay stores the posted manual fields for one date. Nothing is
// rejected for being implausible: an arrival after the departure or an
// oversized break is stored as-is and absorbed by the calculator's clamp.
func (h *AttendanceHandler) UpdateDay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/dashboard?error=Invalid+form+data", http.StatusSeeOther)
		return
	}

	dateKey := r.FormValue("date")
	if _, err := time.ParseInLocation("2006-01-02", dateKey, time.Local); err != nil {
		http.Redirect(w, r, "/dashboard?error=Invalid+date", http.StatusSeeOther)
		return
	}

	var breakMin *int
	if breakStr := r.FormValue("break"); breakStr != "" {
		if b, err := strconv.Atoi(breakStr); err == nil {
			breakMin = &b
		}
	}

	if err := h.tracker.UpdateDay(dateKey, r.FormValue("arrival"), r.FormValue("departure"), breakMin); err != nil {
		logger.Error("day update failed", "date", dateKey, "error", err)
		http.Redirect(w, r, dashboardURL(dateKey, "error=Failed+to+save+day"), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, dashboardURL(dateKey, "success=Day+updated"), http.StatusSeeOther)
}

// StampDay records "now" as the day's arrival or departure.
func (h *AttendanceHandler) StampDay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/dashboard?error=Invalid+form+data", http.StatusSeeOther)
		return
	}

	dateKey := r.FormValue("date")
	if _, err := time.ParseInLocation("2006-01-02", dateKey, time.Local); err != nil {
		http.Redirect(w, r, "/dashboard?error=Invalid+date", http.StatusSeeOther)
		return
	}

	logType := models.LogArrival
	if r.FormValue("type") == string(models.LogDeparture) {
		logType = models.LogDeparture
	}

	if _, err := h.tracker.Stamp(dateKey, logType, time.Now()); err != nil {
		logger.Error("stamp failed", "date", dateKey, "type", logType, "error", err)
		http.Redirect(w, r, dashboardURL(dateKey, "error=Failed+to+stamp"), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, dashboardURL(dateKey, "success=Time+stamped"), http.StatusSeeOther)
}

// DeleteDay removes all records for one date.
func (h *AttendanceHandler) DeleteDay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/dashboard?error=Invalid+form+data", http.StatusSeeOther)
		return
	}

	dateKey := r.FormValue("date")
	if err := h.tracker.DeleteDay(dateKey); err != nil {
		logger.Error("day delete failed", "date", dateKey, "error", err)
		http.Redirect(w, r, dashboardURL(dateKey, "error=Failed+to+delete+day"), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, dashboardURL(dateKey, "success=Day+deleted"), http.StatusSeeOther)
}

// DeleteMonth removes every record of the posted month.
func (h *AttendanceHandler) DeleteMonth(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/dashboard?error=Invalid+form+data", http.StatusSeeOther)
		return
	}

	m, err := strconv.Atoi(r.FormValue("month"))
	if err != nil || m < 1 || m > 12 {
		http.Redirect(w, r, "/dashboard?error=Invalid+month", http.StatusSeeOther)
		return
	}
	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil || year < 2000 || year > 2100 {
		http.Redirect(w, r, "/dashboard?error=Invalid+year", http.StatusSeeOther)
		return
	}

	if err := h.tracker.DeleteMonth(year, time.Month(m)); err != nil {
		logger.Error("month delete failed", "month", m, "year", year, "error", err)
		http.Redirect(w, r, fmt.Sprintf("/dashboard?%s&error=Failed+to+delete+month", monthQuery(year, time.Month(m))), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/dashboard?%s&success=Month+deleted", monthQuery(year, time.Month(m))), http.StatusSeeOther)
}

// dashboardURL redirects back to the month the edited date belongs to.
func dashboardURL(dateKey, message string) string {
	if day, err := time.ParseInLocation("2006-01-02", dateKey, time.Local); err == nil {
		return fmt.Sprintf("/dashboard?%s&%s", monthQuery(day.Year(), day.Month()), message)
	}
	return "/dashboard?" + message
}

// ExportJSON downloads the whole document as a pretty-printed backup file.
func (h *AttendanceHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := h.tracker.ExportJSON()
	if err != nil {
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}

	filename := tracker.ExportFilename(time.Now())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write(data)
}

// ImportPage shows the backup upload form.
func (h *AttendanceHandler) ImportPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Settings": h.tracker.Settings(),
		"Error":    r.URL.Query().Get("error"),
		"Success":  r.URL.Query().Get("success"),
	}
	h.templates["import"].ExecuteTemplate(w, "base", data)
}

// ImportJSON replaces the whole document with an uploaded backup. Any
// failure leaves the current document unchanged and is reported as a generic
// notice.
func (h *AttendanceHandler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Redirect(w, r, "/import?error=Import+failed", http.StatusSeeOther)
		return
	}

	file, _, err := r.FormFile("backup")
	if err != nil {
		http.Redirect(w, r, "/import?error=Import+failed", http.StatusSeeOther)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Redirect(w, r, "/import?error=Import+failed", http.StatusSeeOther)
		return
	}

	if err := h.tracker.ImportJSON(data); err != nil {
		logger.Warn("backup import rejected", "error", err)
		http.Redirect(w, r, "/import?error=Import+failed", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/dashboard?success=Backup+imported", http.StatusSeeOther)
}

// ReportText serves the month's plain-text summary for printing or sharing.
func (h *AttendanceHandler) ReportText(w http.ResponseWriter, r *http.Request) {
	year, month := selectedMonth(r, time.Now())
	rep := report.New(h.tracker.State(), year, month)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, rep.Text())
}

// ExportCSV downloads the month as CSV.
func (h *AttendanceHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	year, month := selectedMonth(r, time.Now())
	rep := report.New(h.tracker.State(), year, month)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", rep.CSVFilename()))
	if err := rep.WriteCSV(w); err != nil {
		logger.Error("csv export failed", "error", err)
	}
}

// ExportXLSX downloads the month as an Excel workbook.
func (h *AttendanceHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	year, month := selectedMonth(r, time.Now())
	rep := report.New(h.tracker.State(), year, month)

	f, err := rep.Workbook()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("closing workbook", "error", err)
		}
	}()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", rep.XLSXFilename()))
	if err := f.Write(w); err != nil {
		logger.Error("xlsx export failed", "error", err)
	}
}
