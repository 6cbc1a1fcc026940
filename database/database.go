package database

import (
	"encoding/json"
	"errors"
	"time"

	"attendance/logger"
	"attendance/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// StateDocument is one persisted attendance document. The whole state lives
// in a single JSON payload stored under its document key, so the table acts
// as a plain get/set-by-key string store.
type StateDocument struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Payload   []byte    `gorm:"not null" json:"payload"`
	UpdatedAt time.Time `json:"updated_at"`
}

func Init(dsn string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return err
	}

	return DB.AutoMigrate(&StateDocument{})
}

func GetDB() *gorm.DB {
	return DB
}

// StateStore loads and saves the attendance document under a fixed key.
type StateStore struct {
	key string
}

func NewStateStore(key string) *StateStore {
	return &StateStore{key: key}
}

// Load fetches the document row. A missing row reports absent; a row whose
// payload no longer parses is also treated as absent so startup falls back
// to an empty document.
func (s *StateStore) Load() (models.AttendanceState, bool, error) {
	var doc StateDocument
	err := DB.First(&doc, "key = ?", s.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AttendanceState{}, false, nil
	}
	if err != nil {
		return models.AttendanceState{}, false, err
	}

	var state models.AttendanceState
	if err := json.Unmarshal(doc.Payload, &state); err != nil {
		logger.Warn("state document payload is unparsable, starting empty", "key", s.key, "error", err)
		return models.AttendanceState{}, false, nil
	}
	return state, true, nil
}

// Save rewrites the whole document, inserting the row on first use.
func (s *StateStore) Save(state models.AttendanceState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	doc := StateDocument{Key: s.key, Payload: payload}
	return DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&doc).Error
}
