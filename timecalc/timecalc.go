// Package timecalc is the pure calculation engine: date keys, month
// enumeration, clock parsing and the daily/monthly hours and earnings math.
// Every function is a deterministic function of its inputs; none of them
// reads a clock or performs I/O.
package timecalc

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"attendance/models"
)

// DateKey returns the canonical YYYY-MM-DD key for t, derived from the local
// calendar date. A UTC-based conversion would misfile dates near midnight for
// users west of UTC, so the key must come from t's own calendar fields.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ClockString renders t's time of day as "HH:mm".
func ClockString(t time.Time) string {
	return t.Format("15:04")
}

// DaysInMonth returns every calendar day of the given month in ascending
// order, from day 1 to the month's last day.
func DaysInMonth(year int, month time.Month) []time.Time {
	var days []time.Time
	for d := time.Date(year, month, 1, 0, 0, 0, 0, time.Local); d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ParseClock parses an "HH:mm" string into minutes since midnight. Partial or
// out-of-range input reports ok=false; callers treat such fields as absent.
func ParseClock(s string) (minutes int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// DailyHours computes one day's worked hours as a decimal, always finite and
// never negative.
//
// When both manual fields parse as valid clock times the day is in manual
// mode: departure minus arrival minus break, clamped to zero (an earlier
// departure or an oversized break yields exactly 0, never a wrap to the next
// day). Logs are not consulted in manual mode.
//
// Otherwise the hours are derived from the log sequence: fewer than two logs
// count as 0; the logs are sorted by timestamp and each arrival immediately
// followed by a departure contributes that pair's delta. Pairing is strictly
// adjacent — an arrival that is not directly followed by a departure is
// skipped, never matched against a later event.
func DailyHours(record *models.DayRecord) float64 {
	if record == nil {
		return 0
	}

	arr, arrOK := ParseClock(record.ManualArrival)
	dep, depOK := ParseClock(record.ManualDeparture)
	if arrOK && depOK {
		breakMin := 0
		if record.ManualBreak != nil {
			breakMin = *record.ManualBreak
		}
		diff := dep - arr - breakMin
		if diff < 0 {
			diff = 0
		}
		return float64(diff) / 60
	}

	if len(record.Logs) < 2 {
		return 0
	}
	sorted := append([]models.AttendanceLog(nil), record.Logs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	var totalMs int64
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].Type == models.LogArrival && sorted[i+1].Type == models.LogDeparture {
			totalMs += sorted[i+1].Timestamp - sorted[i].Timestamp
			i++ // skip the matched pair
		}
	}
	return float64(totalMs) / (1000 * 60 * 60)
}

// FormatHours renders a decimal hour count as "{H}h {M}m". The minute part
// is rounded without carrying into the hours, so values just under a full
// hour render as e.g. "7h 60m".
func FormatHours(hours float64) string {
	h := math.Floor(hours)
	m := math.Round((hours - h) * 60)
	return fmt.Sprintf("%dh %dm", int(h), int(m))
}

// ComputeMonthlyStats aggregates the given calendar days: total hours, count
// of days with non-zero hours, per-worked-day average and the flat-rate
// gross/net earnings estimate. A tax rate above 100 legitimately produces
// negative net earnings.
func ComputeMonthlyStats(days []time.Time, records map[string]models.DayRecord, settings models.UserSettings) models.MonthlyStats {
	var stats models.MonthlyStats
	for _, day := range days {
		if rec, ok := records[DateKey(day)]; ok {
			h := DailyHours(&rec)
			stats.TotalHours += h
			if h > 0 {
				stats.DaysWorked++
			}
		}
	}
	if stats.DaysWorked > 0 {
		stats.Average = stats.TotalHours / float64(stats.DaysWorked)
	}
	stats.GrossEarnings = stats.TotalHours * settings.HourlyWage
	stats.NetEarnings = stats.GrossEarnings * (1 - settings.TaxRate/100)
	return stats
}
