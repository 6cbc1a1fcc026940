package tracker_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"attendance/models"
	"attendance/tracker"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	state   *models.AttendanceState
	saves   int
	saveErr error
}

func (m *memStore) Load() (models.AttendanceState, bool, error) {
	if m.state == nil {
		return models.AttendanceState{}, false, nil
	}
	return *m.state, true, nil
}

func (m *memStore) Save(state models.AttendanceState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	copied := state
	m.state = &copied
	return nil
}

func newTracker(t *testing.T, store tracker.Store) *tracker.Tracker {
	t.Helper()
	tr, err := tracker.New(store)
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}
	return tr
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func TestNewWithEmptyStoreStartsWithDefaults(t *testing.T) {
	tr := newTracker(t, &memStore{})
	state := tr.State()
	if len(state.Records) != 0 {
		t.Errorf("fresh state has %d records, want 0", len(state.Records))
	}
	if state.Settings.UserName != tracker.DefaultUserName {
		t.Errorf("fresh userName = %q, want %q", state.Settings.UserName, tracker.DefaultUserName)
	}
	if state.Settings.HourlyWage != 0 || state.Settings.TaxRate != 0 {
		t.Errorf("fresh settings = %+v, want zero wage and tax", state.Settings)
	}
}

func TestUpdateDayCreatesRecordLazily(t *testing.T) {
	store := &memStore{}
	tr := newTracker(t, store)

	if _, ok := tr.Record("2026-09-01"); ok {
		t.Fatal("record exists before first edit")
	}
	if err := tr.UpdateDay("2026-09-01", "09:00", "17:30", intPtr(30)); err != nil {
		t.Fatalf("UpdateDay: %v", err)
	}

	rec, ok := tr.Record("2026-09-01")
	if !ok {
		t.Fatal("record missing after edit")
	}
	if rec.Date != "2026-09-01" {
		t.Errorf("record date = %q, want the key it is stored under", rec.Date)
	}
	if rec.ManualArrival != "09:00" || rec.ManualDeparture != "17:30" {
		t.Errorf("manual fields = %q/%q", rec.ManualArrival, rec.ManualDeparture)
	}
	if rec.ManualBreak == nil || *rec.ManualBreak != 30 {
		t.Errorf("manual break = %v, want 30", rec.ManualBreak)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1 (every mutation persists)", store.saves)
	}
}

func TestUpdateDayClampsNegativeBreak(t *testing.T) {
	tr := newTracker(t, &memStore{})
	if err := tr.UpdateDay("2026-09-01", "09:00", "17:00", intPtr(-15)); err != nil {
		t.Fatalf("UpdateDay: %v", err)
	}
	rec, _ := tr.Record("2026-09-01")
	if rec.ManualBreak == nil || *rec.ManualBreak != 0 {
		t.Errorf("manual break = %v, want 0 (negative input clamped)", rec.ManualBreak)
	}
}

func TestStampSetsManualFieldAndAppendsLog(t *testing.T) {
	tr := newTracker(t, &memStore{})
	now := time.Date(2026, 9, 1, 8, 55, 12, 0, time.Local)

	log, err := tr.Stamp("2026-09-01", models.LogArrival, now)
	if err != nil {
		t.Fatalf("Stamp: %v", err)
	}
	if log.ID == "" {
		t.Error("stamped log has no id")
	}
	if log.Timestamp != now.UnixMilli() {
		t.Errorf("log timestamp = %d, want %d", log.Timestamp, now.UnixMilli())
	}

	rec, _ := tr.Record("2026-09-01")
	if rec.ManualArrival != "08:55" {
		t.Errorf("manual arrival = %q, want %q", rec.ManualArrival, "08:55")
	}
	if len(rec.Logs) != 1 || rec.Logs[0].Type != models.LogArrival {
		t.Errorf("logs = %+v, want one arrival", rec.Logs)
	}

	later := now.Add(8 * time.Hour)
	if _, err := tr.Stamp("2026-09-01", models.LogDeparture, later); err != nil {
		t.Fatalf("Stamp departure: %v", err)
	}
	rec, _ = tr.Record("2026-09-01")
	if rec.ManualDeparture != "16:55" {
		t.Errorf("manual departure = %q, want %q", rec.ManualDeparture, "16:55")
	}
	if len(rec.Logs) != 2 {
		t.Errorf("logs = %d, want 2", len(rec.Logs))
	}
	if rec.Logs[0].ID == rec.Logs[1].ID {
		t.Error("log ids are not unique")
	}
}

func TestDeleteDayAndDeleteMonth(t *testing.T) {
	tr := newTracker(t, &memStore{})
	for _, key := range []string{"2026-08-31", "2026-09-01", "2026-09-15", "2026-10-01"} {
		if err := tr.UpdateDay(key, "08:00", "16:00", nil); err != nil {
			t.Fatalf("UpdateDay(%s): %v", key, err)
		}
	}

	if err := tr.DeleteDay("2026-09-15"); err != nil {
		t.Fatalf("DeleteDay: %v", err)
	}
	if _, ok := tr.Record("2026-09-15"); ok {
		t.Error("record still present after DeleteDay")
	}

	if err := tr.DeleteMonth(2026, time.September); err != nil {
		t.Fatalf("DeleteMonth: %v", err)
	}
	if _, ok := tr.Record("2026-09-01"); ok {
		t.Error("September record survived DeleteMonth")
	}
	if _, ok := tr.Record("2026-08-31"); !ok {
		t.Error("August record was removed by DeleteMonth")
	}
	if _, ok := tr.Record("2026-10-01"); !ok {
		t.Error("October record was removed by DeleteMonth")
	}
}

func TestUpdateSettingsMergesPartially(t *testing.T) {
	tr := newTracker(t, &memStore{})
	if err := tr.UpdateSettings(models.SettingsChanges{HourlyWage: floatPtr(20), TaxRate: floatPtr(25)}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if err := tr.UpdateSettings(models.SettingsChanges{UserName: strPtr("Jana")}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	got := tr.Settings()
	want := models.UserSettings{UserName: "Jana", HourlyWage: 20, TaxRate: 25}
	if got != want {
		t.Errorf("settings = %+v, want %+v", got, want)
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestMonthlyStats(t *testing.T) {
	tr := newTracker(t, &memStore{})
	if err := tr.UpdateSettings(models.SettingsChanges{HourlyWage: floatPtr(20), TaxRate: floatPtr(25)}); err != nil {
		t.Fatal(err)
	}
	if err := tr.UpdateDay("2026-09-01", "09:00", "17:30", intPtr(30)); err != nil {
		t.Fatal(err)
	}

	stats := tr.MonthlyStats(2026, time.September)
	if stats.TotalHours != 8 || stats.DaysWorked != 1 {
		t.Errorf("stats = %+v, want 8 hours over 1 day", stats)
	}
	if stats.GrossEarnings != 160 || stats.NetEarnings != 120 {
		t.Errorf("earnings = %v/%v, want 160/120", stats.GrossEarnings, stats.NetEarnings)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTracker(t, &memStore{})
	if err := src.UpdateSettings(models.SettingsChanges{UserName: strPtr("Jana"), HourlyWage: floatPtr(18.5)}); err != nil {
		t.Fatal(err)
	}
	if err := src.UpdateDay("2026-09-01", "09:00", "17:30", intPtr(30)); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Stamp("2026-09-02", models.LogArrival, time.Date(2026, 9, 2, 8, 0, 0, 0, time.Local)); err != nil {
		t.Fatal(err)
	}

	data, err := src.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	dst := newTracker(t, &memStore{})
	if err := dst.ImportJSON(data); err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}

	if !reflect.DeepEqual(src.State(), dst.State()) {
		t.Errorf("round-tripped state differs:\nsrc: %+v\ndst: %+v", src.State(), dst.State())
	}
}

func TestImportIsAllOrNothing(t *testing.T) {
	tr := newTracker(t, &memStore{})
	if err := tr.UpdateDay("2026-09-01", "09:00", "17:00", nil); err != nil {
		t.Fatal(err)
	}
	before := tr.State()

	if err := tr.ImportJSON([]byte("{broken")); err == nil {
		t.Error("ImportJSON accepted malformed JSON")
	}
	if err := tr.ImportJSON([]byte(`{"settings": {"userName": "X"}}`)); err == nil {
		t.Error("ImportJSON accepted a document without records")
	}

	if !reflect.DeepEqual(before, tr.State()) {
		t.Error("failed import modified the document")
	}
}

func TestImportWithoutSettingsFallsBackToDefaults(t *testing.T) {
	tr := newTracker(t, &memStore{})
	if err := tr.ImportJSON([]byte(`{"records": {}}`)); err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if got := tr.Settings().UserName; got != tracker.DefaultUserName {
		t.Errorf("userName after import = %q, want default", got)
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	if got := tracker.ExportFilename(now); got != "zaloha_dochadzka_2026-09-01.json" {
		t.Errorf("ExportFilename = %q", got)
	}
}

func TestSaveErrorIsSurfaced(t *testing.T) {
	store := &memStore{saveErr: errors.New("disk full")}
	tr := newTracker(t, store)
	if err := tr.UpdateDay("2026-09-01", "09:00", "17:00", nil); err == nil {
		t.Error("UpdateDay swallowed the store error")
	}
}
