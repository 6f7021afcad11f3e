package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/dmitrijs2005/smartcalc/internal/flagx"
)

// EnvPrefix namespaces environment overrides, e.g. SMARTCALC_SERVER_URL.
const EnvPrefix = "SMARTCALC"

// parseFile overlays cfg with the config file named by -c/-config and with
// SMARTCALC_* environment variables. The file format follows its extension
// (json, yaml, toml). Durations accept strings such as "10s"; a bare number
// is read as seconds, the same unit the -t and -i flags use.
//
// The values already in cfg act as viper defaults, so keys missing from both
// the file and the environment keep them.
func parseFile(cfg *Config, args []string) error {
	v := viper.New()

	v.SetDefault("server_url", cfg.ServerURL)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("online_check_interval", cfg.OnlineCheckInterval)
	v.SetDefault("database_path", cfg.DatabasePath)
	v.SetDefault("page_size", cfg.PageSize)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := flagx.ConfigFileFlag(args); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsToDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// secondsToDurationHook converts plain numbers decoded into a time.Duration
// field to seconds. Strings with a unit ("10s") are left to
// StringToTimeDurationHookFunc.
func secondsToDurationHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}
		switch v := data.(type) {
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case uint64:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return time.Duration(f * float64(time.Second)), nil
			}
		}
		return data, nil
	}
}
