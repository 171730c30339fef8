package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	envBackendURL     = "SHOP_BACKEND_URL"
	envRequestTimeout = "SHOP_REQUEST_TIMEOUT"
	envStateDBPath    = "SHOP_STATE_DB"
)

// parseEnv overlays Config with values from the environment. A .env file in
// the working directory is loaded first when present; variables already set
// in the real environment win over the file.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv(envBackendURL); v != "" {
		cfg.BackendBaseURL = v
	}
	if v := os.Getenv(envRequestTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv(envStateDBPath); v != "" {
		cfg.StateDBPath = v
	}
}
