package handlers

import (
	"net/http"
	"strconv"

	"attendance/logger"
	"attendance/models"
)

// SettingsPage shows the profile form.
func (h *AttendanceHandler) SettingsPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Settings": h.tracker.Settings(),
		"Error":    r.URL.Query().Get("error"),
		"Success":  r.URL.Query().Get("success"),
	}
	h.templates["settings"].ExecuteTemplate(w, "base", data)
}

// UpdateSettings applies the posted profile fields as a partial merge:
// fields left out of the form keep their stored value.
func (h *AttendanceHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/settings?error=Invalid+form+data", http.StatusSeeOther)
		return
	}

	var changes models.SettingsChanges
	if r.Form.Has("user_name") {
		name := r.FormValue("user_name")
		changes.UserName = &name
	}
	if wageStr := r.FormValue("hourly_wage"); wageStr != "" {
		wage, err := strconv.ParseFloat(wageStr, 64)
		if err != nil || wage < 0 {
			http.Redirect(w, r, "/settings?error=Invalid+hourly+wage", http.StatusSeeOther)
			return
		}
		changes.HourlyWage = &wage
	}
	if taxStr := r.FormValue("tax_rate"); taxStr != "" {
		tax, err := strconv.ParseFloat(taxStr, 64)
		if err != nil {
			http.Redirect(w, r, "/settings?error=Invalid+tax+rate", http.StatusSeeOther)
			return
		}
		changes.TaxRate = &tax
	}

	if err := h.tracker.UpdateSettings(changes); err != nil {
		logger.Error("settings update failed", "error", err)
		http.Redirect(w, r, "/settings?error=Failed+to+save+settings", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/settings?success=Settings+updated", http.StatusSeeOther)
}
