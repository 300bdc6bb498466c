// Package config loads projectdb command configuration.
//
// Precedence (highest to lowest): flags > PROJECTDB_* env vars > config file > defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/biyonik/fluentdb"
	"github.com/biyonik/fluentdb/projectdb"
)

// EnvPrefix is the prefix of environment variables read by Load.
// A double underscore separates nesting levels: PROJECTDB_DATABASE__PATH → database.path.
const EnvPrefix = "PROJECTDB_"

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// DefaultFiles are looked up in the working directory when no config file is given.
var DefaultFiles = []string{"projectdb.yaml", "projectdb.yml"}

// Config holds all command configuration.
type Config struct {
	Database fluentdb.Config `koanf:"database"`

	// DSN, when set, is passed to the driver as is and the connection fields of
	// Database are ignored.
	DSN string `koanf:"dsn"`

	Table    string `koanf:"table"`
	Debug    bool   `koanf:"debug"`
	LogLevel string `koanf:"log_level"`
	Output   string `koanf:"output"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// DataSource returns the driver name and data source name to connect with.
func (c *Config) DataSource() (driver, dsn string) {
	if c.DSN != "" {
		return c.Database.DriverName(), c.DSN
	}
	return c.Database.DriverName(), c.Database.DSN()
}

// Validate checks values that koanf cannot.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("invalid output format %q (want %s or %s)", c.Output, OutputTable, OutputJSON)
	}

	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres", "postgresql", "pgx":
	default:
		return fmt.Errorf("unsupported driver %q", c.Database.Driver)
	}

	if c.Table == "" {
		return fmt.Errorf("table name is empty")
	}
	return nil
}

func defaults() map[string]any {
	db := fluentdb.DefaultConfig()
	return map[string]any{
		"database.driver":         db.Driver,
		"database.path":           db.Path,
		"database.charset":        db.Charset,
		"database.collation":      db.Collation,
		"database.max_open_conns": db.MaxOpenConns,
		"database.max_idle_conns": db.MaxIdleConns,
		"database.conn_max_life":  db.ConnMaxLife.String(),
		"database.conn_max_idle":  db.ConnMaxIdle.String(),
		"table":                   projectdb.DefaultTable,
		"debug":                   false,
		"log_level":               "warn",
		"output":                  OutputTable,
	}
}

// flagKeys maps flag names to config keys where they differ.
var flagKeys = map[string]string{
	"driver":    "database.driver",
	"path":      "database.path",
	"log-level": "log_level",
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads configuration from defaults, cfgFile (or a default file in the working
// directory), the environment and the flags that were explicitly set.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
