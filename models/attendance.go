package models

// LogType distinguishes the two kinds of stamped attendance events.
type LogType string

const (
	LogArrival   LogType = "arrival"
	LogDeparture LogType = "departure"
)

// AttendanceLog is one timestamped check-in/check-out event. Logs are
// immutable once created; they are only appended to a day's sequence and
// discarded together with the day record.
type AttendanceLog struct {
	ID        string  `json:"id"`
	Timestamp int64   `json:"timestamp"` // milliseconds since epoch
	Type      LogType `json:"type"`
	Note      string  `json:"manualNote,omitempty"`
}

// DayRecord holds one calendar day's attendance data. Date always equals the
// key the record is stored under. Logs are kept in append order and are not
// guaranteed sorted by timestamp.
type DayRecord struct {
	Date            string          `json:"date"`
	Logs            []AttendanceLog `json:"logs"`
	ManualArrival   string          `json:"manualArrival,omitempty"`   // "HH:mm"
	ManualDeparture string          `json:"manualDeparture,omitempty"` // "HH:mm"
	ManualBreak     *int            `json:"manualBreak,omitempty"`     // minutes, >= 0 when present
}

// NewDayRecord returns an empty record for the given date key.
func NewDayRecord(date string) DayRecord {
	return DayRecord{Date: date, Logs: []AttendanceLog{}}
}

// WithManual returns a copy of the record with the manual fields replaced.
// Empty strings clear the time fields, a nil break clears the break. A
// negative break is stored as 0.
func (r DayRecord) WithManual(arrival, departure string, breakMin *int) DayRecord {
	out := r
	out.Logs = append([]AttendanceLog{}, r.Logs...)
	out.ManualArrival = arrival
	out.ManualDeparture = departure
	if breakMin == nil {
		out.ManualBreak = nil
	} else {
		b := *breakMin
		if b < 0 {
			b = 0
		}
		out.ManualBreak = &b
	}
	return out
}

// WithLog returns a copy of the record with the log appended.
func (r DayRecord) WithLog(log AttendanceLog) DayRecord {
	out := r
	out.Logs = append(append([]AttendanceLog{}, r.Logs...), log)
	return out
}

// UserSettings holds the profile used for earnings estimates. TaxRate is a
// flat percentage; values outside [0, 100] are accepted and simply produce
// unusual earnings.
type UserSettings struct {
	UserName   string  `json:"userName"`
	HourlyWage float64 `json:"hourlyWage"`
	TaxRate    float64 `json:"taxRate"`
}

// SettingsChanges describes a partial settings update; nil fields keep their
// prior value.
type SettingsChanges struct {
	UserName   *string
	HourlyWage *float64
	TaxRate    *float64
}

// Merge returns a copy of the settings with the given changes applied.
func (s UserSettings) Merge(changes SettingsChanges) UserSettings {
	out := s
	if changes.UserName != nil {
		out.UserName = *changes.UserName
	}
	if changes.HourlyWage != nil {
		out.HourlyWage = *changes.HourlyWage
	}
	if changes.TaxRate != nil {
		out.TaxRate = *changes.TaxRate
	}
	return out
}

// AttendanceState is the whole persisted document: every day record keyed by
// its YYYY-MM-DD date plus the user settings. It is loaded whole at startup
// and rewritten whole after every mutation; the same shape is the backup
// import/export format.
type AttendanceState struct {
	Records  map[string]DayRecord `json:"records"`
	Settings UserSettings         `json:"settings"`
}

// MonthlyStats summarises one calendar month.
type MonthlyStats struct {
	TotalHours    float64 `json:"totalHours"`
	DaysWorked    int     `json:"daysWorked"`
	Average       float64 `json:"average"`
	GrossEarnings float64 `json:"grossEarnings"`
	NetEarnings   float64 `json:"netEarnings"`
}
