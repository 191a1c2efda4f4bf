package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory     = "memory"
	BackendPersistent = "persistent"
)

type Config struct {
	Port    string
	GinMode string
	Locale  string

	// StoreBackend is "memory" (default) or "persistent" (postgres + mongo).
	StoreBackend string
	PostgresURI  string
	MongoURI     string
	MongoDB      string
	RedisAddr    string

	StrictReferences bool
	OneWayPublish    bool

	CVProcessingDelay time.Duration
	CVWorkers         int

	ProgressPerProfile int
	ProgressCap        int
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:    envOr("PORT", "8080"),
		GinMode: os.Getenv("GIN_MODE"),
		Locale:  envOr("UI_LOCALE", "fr"),

		StoreBackend: strings.ToLower(envOr("STORE_BACKEND", BackendMemory)),
		PostgresURI:  os.Getenv("POSTGRES_URI"),
		MongoURI:     os.Getenv("MONGO_URI"),
		MongoDB:      envOr("MONGO_DB", "recruitdesk"),
		RedisAddr:    redisAddr(),

		StrictReferences: envBool("STRICT_REFERENCES", false),
		OneWayPublish:    envBool("ONE_WAY_PUBLISH", false),

		CVProcessingDelay: envDuration("CV_PROCESSING_DELAY", 2*time.Second),
		CVWorkers:         envInt("CV_WORKERS", 2),

		ProgressPerProfile: envInt("PROGRESS_PER_PROFILE", 20),
		ProgressCap:        envInt("PROGRESS_CAP", 100),
	}
}

func redisAddr() string {
	for _, k := range []string{"REDIS_ADDR", "REDIS_URI", "REDIS_URL"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d < 0 {
		return def
	}
	return d
}
