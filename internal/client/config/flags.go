package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/smartcalc/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   API root URL (default from Config)
//	-t int      request timeout in seconds
//	-i int      online check interval in seconds
//	-d string   session database path
//	-l string   log level (debug, info, warn, error)
//	-f string   log format (console, json)
//
// args are filtered with flagx.FilterArgs first so that flags owned by other
// components (-c) do not make parsing fail.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-i", "-d", "-l", "-f"})

	fs := flag.NewFlagSet("smartcalc", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "API root URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "session database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (console or json)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
	return nil
}
