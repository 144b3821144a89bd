package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds configuration for the service. Values come from
// config/config.json when present, then defaults, then environment variable
// overrides. Secrets must always arrive via the environment.
type AppConfig struct {
	AppPort   string
	JWTSecret string

	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	GinMode string
	GinPath string

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	// Feed behavior
	PageSize            int
	FeedCacheTTLSeconds int

	RateLimitPerMinute int
	AllowedOrigins     []string
	AdminUsernames     []string

	// Image uploads
	UploadDir            string
	UploadTTLMinutes     int
	UploadCleanupEnabled bool
}

var cfg AppConfig
var loaded bool

// Load reads configuration once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// SetForTesting replaces the cached configuration. Test helper only.
func SetForTesting(c AppConfig) {
	cfg = c
	loaded = true
}

func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // missing file is fine
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	out.AppPort = str(raw, "app_port", out.AppPort)
	out.DatabaseURI = str(raw, "database_uri", out.DatabaseURI)
	out.DBHost = str(raw, "db_host", out.DBHost)
	out.DBPort = str(raw, "db_port", out.DBPort)
	out.DBUser = str(raw, "db_user", out.DBUser)
	out.DBName = str(raw, "db_name", out.DBName)
	out.RedisHost = str(raw, "redis_host", out.RedisHost)
	out.RedisPort = num(raw, "redis_port", out.RedisPort)
	out.RedisDB = num(raw, "redis_db", out.RedisDB)
	out.GinMode = str(raw, "gin_mode", out.GinMode)
	out.GinPath = str(raw, "gin_path", out.GinPath)
	out.LogLevel = str(raw, "log_level", out.LogLevel)
	out.LogPath = str(raw, "log_path", out.LogPath)
	out.LogMaxSizeMB = num(raw, "log_max_size_mb", out.LogMaxSizeMB)
	out.LogMaxBackups = num(raw, "log_max_backups", out.LogMaxBackups)
	out.LogMaxAgeDays = num(raw, "log_max_age_days", out.LogMaxAgeDays)
	out.LogCompress = boolean(raw, "log_compress", out.LogCompress)
	out.PageSize = num(raw, "page_size", out.PageSize)
	out.FeedCacheTTLSeconds = num(raw, "feed_cache_ttl_seconds", out.FeedCacheTTLSeconds)
	out.RateLimitPerMinute = num(raw, "rate_limit_per_minute", out.RateLimitPerMinute)
	out.AllowedOrigins = list(raw, "allowed_origins", out.AllowedOrigins)
	out.AdminUsernames = list(raw, "admin_usernames", out.AdminUsernames)
	out.UploadDir = str(raw, "upload_dir", out.UploadDir)
	out.UploadTTLMinutes = num(raw, "upload_ttl_minutes", out.UploadTTLMinutes)
	out.UploadCleanupEnabled = boolean(raw, "upload_cleanup_enabled", out.UploadCleanupEnabled)
	return nil
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "pulse"
	}
	if c.DBName == "" {
		c.DBName = "pulse"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/gin.log"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/app.log"
	}
	if c.PageSize == 0 {
		c.PageSize = 10
	}
	if c.FeedCacheTTLSeconds == 0 {
		c.FeedCacheTTLSeconds = 20
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.UploadDir == "" {
		c.UploadDir = "static/uploads"
	}
	if c.UploadTTLMinutes == 0 {
		c.UploadTTLMinutes = 60
	}
}

func applyEnvOverrides(c *AppConfig) {
	c.AppPort = getEnv("APP_PORT", c.AppPort)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.DatabaseURI = getEnv("DATABASE_URI", c.DatabaseURI)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	c.RedisPort = getEnvInt("REDIS_PORT", c.RedisPort)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogPath = getEnv("LOG_PATH", c.LogPath)
	c.PageSize = getEnvInt("PAGE_SIZE", c.PageSize)
	c.FeedCacheTTLSeconds = getEnvInt("FEED_CACHE_TTL_SECONDS", c.FeedCacheTTLSeconds)
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitCSV(v)
	}
	if v := os.Getenv("ADMIN_USERNAMES"); v != "" {
		c.AdminUsernames = splitCSV(v)
	}
	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
	c.UploadTTLMinutes = getEnvInt("UPLOAD_TTL_MINUTES", c.UploadTTLMinutes)
	if v := os.Getenv("UPLOAD_CLEANUP_ENABLED"); v != "" {
		c.UploadCleanupEnabled = v == "1" || strings.EqualFold(v, "true")
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func str(raw map[string]any, key, fallback string) string {
	if v, ok := raw[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func num(raw map[string]any, key string, fallback int) int {
	if v, ok := raw[key].(float64); ok {
		return int(v)
	}
	return fallback
}

func boolean(raw map[string]any, key string, fallback bool) bool {
	if v, ok := raw[key].(bool); ok {
		return v
	}
	return fallback
}

func list(raw map[string]any, key string, fallback []string) []string {
	v, ok := raw[key].([]any)
	if !ok {
		return fallback
	}
	out := make([]string, 0, len(v))
	for _, item := range v {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
