package config

import (
	"flag"
	"os"
	"time"

	"github.com/kolamstudio/shopengine/internal/flagx"
)

// parseFlags overlays Config with command-line flags. Only the flags owned
// by this package are parsed; -c/-config is consumed by parseJSON.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-url", "-t", "-timeout", "-d", "-db"})

	fs := flag.NewFlagSet("config", flag.ContinueOnError)

	var (
		urlFlag     string
		timeoutFlag time.Duration
		dbFlag      string
	)
	fs.StringVar(&urlFlag, "url", "", "Backend base URL")
	fs.StringVar(&urlFlag, "u", "", "Backend base URL (short)")
	fs.DurationVar(&timeoutFlag, "timeout", 0, "HTTP request timeout")
	fs.DurationVar(&timeoutFlag, "t", 0, "HTTP request timeout (short)")
	fs.StringVar(&dbFlag, "db", "", "Path to local state database")
	fs.StringVar(&dbFlag, "d", "", "Path to local state database (short)")
	_ = fs.Parse(args)

	if urlFlag != "" {
		cfg.BackendBaseURL = urlFlag
	}
	if timeoutFlag != 0 {
		cfg.RequestTimeout = timeoutFlag
	}
	if dbFlag != "" {
		cfg.StateDBPath = dbFlag
	}
}
