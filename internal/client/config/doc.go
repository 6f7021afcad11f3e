// Package config loads runtime configuration for the smartcalc CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. JSON, YAML and TOML
//     are accepted, chosen by file extension.
//  3. Environment variables prefixed with SMARTCALC_, e.g.
//     SMARTCALC_SERVER_URL or SMARTCALC_REQUEST_TIMEOUT=30s.
//  4. Command-line flags (see parseFlags), which override everything else.
//
// Supported flags
//
//	-a string   API root URL
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-d string   session database path
//	-l string   log level
//	-f string   log format (console or json)
//
// # File schema
//
//	{
//	  "server_url": "http://127.0.0.1:8000/api/v1",
//	  "request_timeout": "10s",
//	  "online_check_interval": "5s",
//	  "database_path": "~/.smartcalc/session.db",
//	  "page_size": 10,
//	  "log_level": "info",
//	  "log_format": "console"
//	}
package config
