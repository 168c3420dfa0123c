package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	FileStore  FileStoreConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Cache      CacheConfig
	Library    LibraryConfig
	Attendance AttendanceConfig
	Exports    ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// FileStoreConfig configures the JSON-file fallback backend.
type FileStoreConfig struct {
	DataDir string
	Seed    bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs the redis-backed GET response cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// LibraryConfig carries lending policy knobs.
type LibraryConfig struct {
	LoanPeriod      time.Duration
	MaxActiveLoans  int
	MaxRenewals     int
	ReservationLead time.Duration
}

// AttendanceConfig carries the clock-in policy.
type AttendanceConfig struct {
	ClockInCutoff string
	LunchBreak    float64
	StandardHours float64
}

// ExportsConfig controls attendance report export storage. Stored
// copies older than RetentionTTL are swept periodically.
type ExportsConfig struct {
	StorageDir   string
	RetentionTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.FileStore = FileStoreConfig{
		DataDir: v.GetString("FILE_STORE_DIR"),
		Seed:    v.GetBool("SEED_ON_START"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_RESPONSE_CACHE"),
		TTL:     parseDuration(v.GetString("RESPONSE_CACHE_TTL"), 2*time.Minute),
	}

	cfg.Library = LibraryConfig{
		LoanPeriod:      parseDuration(v.GetString("LIBRARY_LOAN_PERIOD"), 14*24*time.Hour),
		MaxActiveLoans:  v.GetInt("LIBRARY_MAX_ACTIVE_LOANS"),
		MaxRenewals:     v.GetInt("LIBRARY_MAX_RENEWALS"),
		ReservationLead: parseDuration(v.GetString("LIBRARY_RESERVATION_LEAD"), 7*24*time.Hour),
	}

	cfg.Attendance = AttendanceConfig{
		ClockInCutoff: v.GetString("ATTENDANCE_CLOCK_IN_CUTOFF"),
		LunchBreak:    v.GetFloat64("ATTENDANCE_LUNCH_BREAK_HOURS"),
		StandardHours: v.GetFloat64("ATTENDANCE_STANDARD_HOURS"),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:   v.GetString("EXPORTS_STORAGE_DIR"),
		RetentionTTL: parseDuration(v.GetString("EXPORTS_RETENTION_TTL"), 7*24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "campus_admin")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("FILE_STORE_DIR", "./data")
	v.SetDefault("SEED_ON_START", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "campus-admin-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_RESPONSE_CACHE", false)
	v.SetDefault("RESPONSE_CACHE_TTL", "2m")

	v.SetDefault("LIBRARY_LOAN_PERIOD", "336h")
	v.SetDefault("LIBRARY_MAX_ACTIVE_LOANS", 10)
	v.SetDefault("LIBRARY_MAX_RENEWALS", 2)
	v.SetDefault("LIBRARY_RESERVATION_LEAD", "168h")

	v.SetDefault("ATTENDANCE_CLOCK_IN_CUTOFF", "08:00:00")
	v.SetDefault("ATTENDANCE_LUNCH_BREAK_HOURS", 1)
	v.SetDefault("ATTENDANCE_STANDARD_HOURS", 8)

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_RETENTION_TTL", "168h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
