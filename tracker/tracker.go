// Package tracker owns the in-memory attendance document. All mutations go
// through one Tracker, which rewrites the whole document to its Store after
// every change. Persistence is injected; calculations take "now" explicitly
// and never read an ambient clock.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"attendance/models"
	"attendance/timecalc"

	"github.com/google/uuid"
)

// DefaultUserName is the placeholder profile name of a fresh document.
const DefaultUserName = "BRUNO"

// Store persists the whole state document. Load reports absent (not an
// error) for a fresh or unreadable store; Save followed by Load must yield an
// equivalent document.
type Store interface {
	Load() (models.AttendanceState, bool, error)
	Save(models.AttendanceState) error
}

// Tracker is the single owner of the attendance state.
type Tracker struct {
	mu    sync.Mutex
	state models.AttendanceState
	store Store
}

// DefaultState returns an empty document with placeholder settings.
func DefaultState() models.AttendanceState {
	return models.AttendanceState{
		Records:  map[string]models.DayRecord{},
		Settings: models.UserSettings{UserName: DefaultUserName},
	}
}

// New loads the document from the store once. An absent document starts
// empty with default settings.
func New(store Store) (*Tracker, error) {
	state, found, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading attendance state: %w", err)
	}
	if !found {
		state = DefaultState()
	}
	if state.Records == nil {
		state.Records = map[string]models.DayRecord{}
	}
	if state.Settings == (models.UserSettings{}) {
		state.Settings = DefaultState().Settings
	}
	return &Tracker{state: state, store: store}, nil
}

// State returns a snapshot of the document. The snapshot's map is a copy;
// treat the contained records as read-only.
func (t *Tracker) State() models.AttendanceState {
	t.mu.Lock()
	defer t.mu.Unlock()
	records := make(map[string]models.DayRecord, len(t.state.Records))
	for k, v := range t.state.Records {
		records[k] = v
	}
	return models.AttendanceState{Records: records, Settings: t.state.Settings}
}

// Settings returns the current user settings.
func (t *Tracker) Settings() models.UserSettings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Settings
}

// Record returns the day record stored under the given date key.
func (t *Tracker) Record(key string) (models.DayRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.state.Records[key]
	return rec, ok
}

// recordLocked returns the stored record or a fresh one for the key; records
// are created lazily on first edit. Callers must hold the lock.
func (t *Tracker) recordLocked(key string) models.DayRecord {
	if rec, ok := t.state.Records[key]; ok {
		return rec
	}
	return models.NewDayRecord(key)
}

// UpdateDay replaces the day's manual fields, creating the record on first
// edit. Logs are preserved; a negative break is stored as 0. No field-level
// validation rejects the input — an arrival after the departure is accepted
// and absorbed by the calculator's clamp.
func (t *Tracker) UpdateDay(key, arrival, departure string, breakMin *int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec := t.recordLocked(key).WithManual(arrival, departure, breakMin)
	rec.Date = key
	t.state.Records[key] = rec
	return t.saveLocked()
}

// Stamp records "now" for the given field: it sets the matching manual time
// to now's HH:mm and appends a timestamped log event.
func (t *Tracker) Stamp(key string, logType models.LogType, now time.Time) (models.AttendanceLog, error) {
	log := models.AttendanceLog{
		ID:        uuid.New().String(),
		Timestamp: now.UnixMilli(),
		Type:      logType,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	rec := t.recordLocked(key).WithLog(log)
	rec.Date = key
	if logType == models.LogArrival {
		rec.ManualArrival = timecalc.ClockString(now)
	} else {
		rec.ManualDeparture = timecalc.ClockString(now)
	}
	t.state.Records[key] = rec
	return log, t.saveLocked()
}

// DeleteDay removes the record for the given date key.
func (t *Tracker) DeleteDay(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.state.Records, key)
	return t.saveLocked()
}

// DeleteMonth removes every record belonging to the given month.
func (t *Tracker) DeleteMonth(year int, month time.Month) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, day := range timecalc.DaysInMonth(year, month) {
		delete(t.state.Records, timecalc.DateKey(day))
	}
	return t.saveLocked()
}

// UpdateSettings applies a partial settings update; unset fields keep their
// prior value.
func (t *Tracker) UpdateSettings(changes models.SettingsChanges) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Settings = t.state.Settings.Merge(changes)
	return t.saveLocked()
}

// MonthlyStats aggregates hours and earnings for the given month.
func (t *Tracker) MonthlyStats(year int, month time.Month) models.MonthlyStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	days := timecalc.DaysInMonth(year, month)
	return timecalc.ComputeMonthlyStats(days, t.state.Records, t.state.Settings)
}

// ExportJSON serialises the whole document, pretty-printed. The output is
// the backup file format and re-imports unchanged.
func (t *Tracker) ExportJSON() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return json.MarshalIndent(t.state, "", "  ")
}

// ExportFilename returns the backup file name for the given day.
func ExportFilename(now time.Time) string {
	return "zaloha_dochadzka_" + timecalc.DateKey(now) + ".json"
}

// ImportJSON replaces the entire document with the parsed backup. The import
// is all-or-nothing: a parse failure or a backup without a records field
// leaves the current document untouched. Missing settings fall back to the
// defaults.
func (t *Tracker) ImportJSON(data []byte) error {
	var doc struct {
		Records  map[string]models.DayRecord `json:"records"`
		Settings *models.UserSettings        `json:"settings"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid backup file: %w", err)
	}
	if doc.Records == nil {
		return errors.New("invalid backup file: missing records")
	}

	state := models.AttendanceState{Records: doc.Records}
	if doc.Settings != nil {
		state.Settings = *doc.Settings
	} else {
		state.Settings = DefaultState().Settings
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
	return t.saveLocked()
}

func (t *Tracker) saveLocked() error {
	if err := t.store.Save(t.state); err != nil {
		return fmt.Errorf("saving attendance state: %w", err)
	}
	return nil
}
