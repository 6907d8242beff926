// Package config provides functionality for managing configuration options
// for the application using defaults, a YAML file, environment variables
// and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// ConfigPathEnvVar names the environment variable holding the config file path.
	ConfigPathEnvVar = "CONFIG"
	// DefaultConfigPath is read when it exists and no other path is given.
	DefaultConfigPath = "config.yaml"

	SessionStoreMemory = "memory"
	SessionStoreBadger = "badger"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `koanf:"server_address" validate:"required"`

	// DatabaseDSN is a sqlite file path or a PostgreSQL connection string.
	DatabaseDSN string `koanf:"database_dsn" validate:"required"`

	// DatasetPath is the restaurant CSV read on every search.
	DatasetPath string `koanf:"dataset_path" validate:"required"`

	SessionStore           string        `koanf:"session_store" validate:"oneof=memory badger"`
	SessionPath            string        `koanf:"session_path" validate:"required_if=SessionStore badger"`
	SessionTTL             time.Duration `koanf:"session_ttl" validate:"gt=0"`
	SessionCleanupInterval time.Duration `koanf:"session_cleanup_interval" validate:"gt=0"`
	SessionCookieSecure    bool          `koanf:"session_cookie_secure"`

	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// TLSCert and TLSKey switch the listener to HTTPS when both are set.
	TLSCert string `koanf:"tls_cert" validate:"required_with=TLSKey"`
	TLSKey  string `koanf:"tls_key" validate:"required_with=TLSCert"`

	// Config is the path to the config file that was loaded, if any.
	Config string `koanf:"-"`
}

// envKeys maps environment variables to config keys. Unlisted variables are ignored.
var envKeys = map[string]string{
	"SERVER_ADDRESS":           "server_address",
	"DATABASE_DSN":             "database_dsn",
	"DATASET_PATH":             "dataset_path",
	"SESSION_STORE":            "session_store",
	"SESSION_PATH":             "session_path",
	"SESSION_TTL":              "session_ttl",
	"SESSION_CLEANUP_INTERVAL": "session_cleanup_interval",
	"SESSION_COOKIE_SECURE":    "session_cookie_secure",
	"LOG_LEVEL":                "log_level",
	"TLS_CERT":                 "tls_cert",
	"TLS_KEY":                  "tls_key",
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"a": "server_address",
	"d": "database_dsn",
	"f": "dataset_path",
	"s": "session_store",
	"l": "log_level",
}

func defaults() Options {
	return Options{
		Address:                "localhost:8080",
		DatabaseDSN:            "restofinder.db",
		DatasetPath:            "HyderabadResturants.csv",
		SessionStore:           SessionStoreMemory,
		SessionPath:            "sessions",
		SessionTTL:             24 * time.Hour,
		SessionCleanupInterval: 10 * time.Minute,
		LogLevel:               "info",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds Options from defaults, the config file, the environment and
// args, each layer overriding the previous one. Only flags present in args
// override lower layers.
func Load(args []string) (*Options, error) {
	fs := flag.NewFlagSet("restofinder", flag.ContinueOnError)
	d := defaults()
	fs.String("a", d.Address, "run on ip:port server")
	fs.String("d", d.DatabaseDSN, "db address (sqlite file or postgres DSN)")
	fs.String("f", d.DatasetPath, "restaurant dataset CSV")
	fs.String("s", d.SessionStore, "session store: memory or badger")
	fs.String("l", d.LogLevel, "log level")
	configPath := fs.String("c", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(d, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, err := findConfigFile(*configPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(key string) string {
		return envKeys[key]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && setErr == nil {
			setErr = k.Set(key, f.Value.String())
		}
	})
	if setErr != nil {
		return nil, fmt.Errorf("failed to apply flags: %w", setErr)
	}

	opts := &Options{}
	if err := k.Unmarshal("", opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	opts.Config = path
	opts.LogLevel = strings.ToLower(strings.TrimSpace(opts.LogLevel))

	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return opts, nil
}

// findConfigFile resolves the config file: the -c flag, then CONFIG, then
// DefaultConfigPath if it exists. An explicitly named file must exist.
func findConfigFile(fromFlag string) (string, error) {
	explicit := fromFlag
	if explicit == "" {
		explicit = os.Getenv(ConfigPathEnvVar)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}

	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return DefaultConfigPath, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("config file %s: %w", DefaultConfigPath, err)
	}
	return "", nil
}

// Parse loads the configuration from the process arguments and environment.
// It exits the process when the configuration is invalid.
func Parse() *Options {
	opts, err := Load(os.Args[1:])
	if err != nil {
		log.Fatalf("error while loading config: %v", err)
	}
	return opts
}
