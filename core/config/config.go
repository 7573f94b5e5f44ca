package config

import (
	"path/filepath"
	"time"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App      AppConfig
	Paths    PathsConfig
	Database DatabaseConfig
	Whatsapp WhatsappConfig
	Dedup    DedupConfig
}

type AppConfig struct {
	Version   string
	Port      string
	Debug     bool
	BasicAuth []string
	BasePath  string
	BaseURL   string
}

type PathsConfig struct {
	Storages string
	Statics  string
	Media    string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string // File path for SQLite, DB name for Postgres
}

type WhatsappConfig struct {
	APIVersion    string
	PhoneNumberID string
	VerifyToken   string
	HTTPTimeout   time.Duration
	// AccessToken is an env fallback; the credential store in the database
	// takes precedence (latest-updated row wins).
	AccessToken string
}

// DedupConfig controls the optional Valkey fast-path cache for recently
// seen provider message ids. The database unique index stays authoritative.
type DedupConfig struct {
	Enabled   bool
	Address   string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// Global provides access to the loaded configuration globally.
var Global *Config

// LoadConfig loads configuration from environment variables or defaults.
func LoadConfig() (*Config, error) {
	debug := getEnvBool("APP_DEBUG", false)

	statics := getEnv("PATH_STATICS", "statics")
	pathsCfg := PathsConfig{
		Storages: getEnv("APP_BASE_DIR", "storages"),
		Statics:  statics,
		Media:    getEnv("PATH_MEDIA", filepath.Join(statics, "media")),
	}

	cfg := &Config{
		App: AppConfig{
			Version:   "v1.2.0",
			Port:      getEnv("APP_PORT", "3000"),
			Debug:     debug,
			BasicAuth: getEnvList("APP_BASIC_AUTH"),
			BasePath:  getEnv("APP_BASE_PATH", ""),
			BaseURL:   getEnv("APP_BASE_URL", "http://localhost:3000"),
		},
		Paths: pathsCfg,
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", filepath.Join(pathsCfg.Storages, "wadesk.db")),
		},
		Whatsapp: WhatsappConfig{
			APIVersion:    getEnv("WHATSAPP_API_VERSION", "v19.0"),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			VerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", ""),
			HTTPTimeout:   time.Duration(getEnvInt("WHATSAPP_HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
			AccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		},
		Dedup: DedupConfig{
			Enabled:   getEnvBool("DEDUP_CACHE_ENABLED", false),
			Address:   getEnv("DEDUP_CACHE_ADDRESS", "localhost:6379"),
			Password:  getEnv("DEDUP_CACHE_PASSWORD", ""),
			DB:        getEnvInt("DEDUP_CACHE_DB", 0),
			KeyPrefix: getEnv("DEDUP_CACHE_KEY_PREFIX", "wadesk:"),
			TTL:       time.Duration(getEnvInt("DEDUP_CACHE_TTL_SECONDS", 600)) * time.Second,
		},
	}

	Global = cfg
	return cfg, nil
}
