package env

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	ListenAddr    = "RELAY_LISTEN_ADDR"
	BackendURL    = "BACKEND_URL"
	WebUrl        = "WEB_URL"
	RedisURL      = "RELAY_REDIS_URL"
	RedisPass     = "RELAY_REDIS_PASS"
	ControlSecret = "RELAY_CONTROL_SECRET"
)

var required = []string{
	BackendURL,
	WebUrl,
}

// The .env file is loaded here so it is in place before any read,
// including the required-var check.
func init() {
	_ = godotenv.Load()
}

// MustValidate panics unless every required variable is set. main calls it
// once at startup so a misconfigured deployment fails immediately.
func MustValidate() {
	for _, key := range required {
		if os.Getenv(key) == "" {
			panic("env: required environment variable not set: " + key)
		}
	}
}

func Get(key string) string {
	return os.Getenv(key)
}

func GetOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("env: required environment variable not set: " + key)
	}
	return val
}
