package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/kolamstudio/shopengine/internal/flagx"
	"github.com/kolamstudio/shopengine/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "15s" or as integer nanoseconds.
type JSONConfig struct {
	BackendBaseURL string         `json:"backend_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	StateDBPath    string         `json:"state_db_path"`
}

// parseJSON overlays Config with values loaded from the JSON file named by
// the -c/-config flag. When no flag is given, nothing is loaded. An
// explicitly named file that cannot be read or parsed panics: a broken
// config the user asked for should not be silently skipped.
func parseJSON(cfg *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BackendBaseURL != "" {
		cfg.BackendBaseURL = jc.BackendBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.StateDBPath != "" {
		cfg.StateDBPath = jc.StateDBPath
	}
}
