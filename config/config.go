package config

import (
	"fmt"
	"os"

	"attendance/logger"

	"gopkg.in/yaml.v3"
)

// defaultStorageKey is the key the document is stored under. Kept stable so
// existing backups restore under the same name.
const defaultStorageKey = "bruno_attendance_data_v3"

type Config struct {
	ServerPort  string        `yaml:"server_port"`
	DatabaseURL string        `yaml:"database_url"` // empty means the JSON file store is used
	DataFile    string        `yaml:"data_file"`
	StorageKey  string        `yaml:"storage_key"`
	Log         logger.Config `yaml:"log"`
}

// Load builds the configuration from defaults, an optional YAML file and
// finally environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ServerPort: "8080",
		StorageKey: defaultStorageKey,
		Log:        logger.Config{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	}

	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DataFile = getEnv("DATA_FILE", cfg.DataFile)
	cfg.StorageKey = getEnv("STORAGE_KEY", cfg.StorageKey)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
