package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Seed SeedConfig
	UI   UIConfig
	Log  LogConfig
	// Keys maps an action name to the keys that trigger it, replacing the
	// default keys for that action.
	Keys map[string][]string
}

// SeedConfig says where the initial tree comes from.
type SeedConfig struct {
	Path   string
	Format string
	Table  string
}

// UIConfig holds grid settings.
type UIConfig struct {
	StartInEditMode bool   `mapstructure:"start_in_edit_mode"`
	ExpandAll       bool   `mapstructure:"expand_all"`
	IDStyle         string `mapstructure:"id_style"`
	NewLabel        string `mapstructure:"new_label"`
}

// LogConfig holds logging settings. An empty Path logs to stderr.
type LogConfig struct {
	Level string
	Path  string
}

const (
	IDStyleNumeric = "numeric"
	IDStyleUUID    = "uuid"
)

// flagKeys binds command-line flags onto config keys.
var flagKeys = map[string]string{
	"seed":        "seed.path",
	"seed-format": "seed.format",
	"seed-table":  "seed.table",
	"log-level":   "log.level",
	"log-file":    "log.path",
	"edit":        "ui.start_in_edit_mode",
	"expand-all":  "ui.expand_all",
}

// Load reads configuration from file, env and flags, in increasing priority.
// Env var overrides use prefix TREEGRID_. flags may be nil; a "config" flag,
// when set, names the file to read.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("seed.path", "")
	v.SetDefault("seed.format", "")
	v.SetDefault("seed.table", "items")
	v.SetDefault("ui.start_in_edit_mode", false)
	v.SetDefault("ui.expand_all", false)
	v.SetDefault("ui.id_style", IDStyleNumeric)
	v.SetDefault("ui.new_label", "New item")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TREEGRID_CONFIG")
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Changed {
			cfgPath = f.Value.String()
		}
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "treegrid"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TREEGRID")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing default file is fine; an explicit one must exist.
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) validate() error {
	c.UI.IDStyle = strings.ToLower(strings.TrimSpace(c.UI.IDStyle))
	switch c.UI.IDStyle {
	case IDStyleNumeric, IDStyleUUID:
	default:
		return fmt.Errorf("ui.id_style: want %q or %q, got %q", IDStyleNumeric, IDStyleUUID, c.UI.IDStyle)
	}
	for action, keys := range c.Keys {
		if len(keys) == 0 {
			return fmt.Errorf("keys.%s: no keys given", action)
		}
	}
	return nil
}
