// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads simulator settings from defaults, an optional YAML
// file, and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/holomush/holocards/internal/game"
	"github.com/holomush/holocards/internal/logging"
	"github.com/holomush/holocards/internal/machine"
	"github.com/holomush/holocards/internal/xdg"
)

// CodeInvalidConfig marks a configuration that failed to load or validate.
const CodeInvalidConfig = "INVALID_CONFIG"

// Config holds simulator settings.
type Config struct {
	Players      []string `koanf:"players"`
	Deck         []string `koanf:"deck"`
	Catalogs     []string `koanf:"catalogs"`
	MaxEntities  uint32   `koanf:"max_entities"`
	MaxRecursion int      `koanf:"max_recursion"`
	Seed         uint64   `koanf:"seed"`
	Turns        int      `koanf:"turns"`
	LogFormat    string   `koanf:"log_format"`
	LogLevel     string   `koanf:"log_level"`
	DatabaseURL  string   `koanf:"database_url"`
}

// Default values.
const (
	defaultMaxRecursion = 64
	defaultTurns        = 100
	defaultLogFormat    = "text"
	defaultLogLevel     = "info"
)

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Players:      []string{"Player 1", "Player 2"},
		MaxRecursion: defaultMaxRecursion,
		Turns:        defaultTurns,
		LogFormat:    defaultLogFormat,
		LogLevel:     defaultLogLevel,
	}
}

// BindFlags registers a flag for each setting on fs, defaulted from Default.
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringSlice("players", d.Players, "player names in seat order")
	fs.StringSlice("deck", nil, "card names or set:ordinal refs dealt to every player (default: two of each card)")
	fs.StringSlice("catalogs", nil, "card set files to load next to the core set")
	fs.Uint32("max-entities", 0, "entity store capacity (0 sizes it to the decks)")
	fs.Int("max-recursion", d.MaxRecursion, "maximum nested effects (0 = unbounded)")
	fs.Uint64("seed", 0, "shuffle seed")
	fs.Int("turns", d.Turns, "turns to simulate")
	fs.String("log-format", d.LogFormat, "log format (json or text)")
	fs.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	BindDatabaseFlag(fs)
}

// BindDatabaseFlag registers the database URL flag on fs.
func BindDatabaseFlag(fs *pflag.FlagSet) {
	fs.String("database-url", "", "PostgreSQL URL for game history (default: $DATABASE_URL)")
}

// Load reads settings. An empty path reads the default config file if it
// exists; a named file must exist. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = xdg.ConfigFile()
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, oops.Code(CodeInvalidConfig).With("path", path).Wrap(err)
		}
	}
	known := keys()
	for _, key := range k.Keys() {
		if _, ok := known[key]; !ok {
			return Config{}, oops.Code(CodeInvalidConfig).
				With("path", path).
				With("key", key).
				Errorf("unknown config key %q", key)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, ok := known[key]; !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, oops.Code(CodeInvalidConfig).Wrap(err)
		}
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, oops.Code(CodeInvalidConfig).With("path", path).Wrap(err)
	}
	return cfg, cfg.Validate()
}

func keys() map[string]struct{} {
	return map[string]struct{}{
		"players": {}, "deck": {}, "catalogs": {}, "max_entities": {}, "max_recursion": {},
		"seed": {}, "turns": {}, "log_format": {}, "log_level": {}, "database_url": {},
	}
}

// Validate checks that the settings describe a playable game.
func (c Config) Validate() error {
	seated := machine.Config{PlayerNames: c.Players}.Seated()
	if len(seated) == 0 || len(seated) > machine.MaxPlayers {
		return oops.Code(CodeInvalidConfig).
			With("players", len(seated)).
			Errorf("players must name 1 to %d seats, got %d", machine.MaxPlayers, len(seated))
	}
	if c.MaxRecursion < 0 {
		return oops.Code(CodeInvalidConfig).Errorf("max_recursion must not be negative, got %d", c.MaxRecursion)
	}
	if c.Turns < 0 {
		return oops.Code(CodeInvalidConfig).Errorf("turns must not be negative, got %d", c.Turns)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code(CodeInvalidConfig).Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return oops.Code(CodeInvalidConfig).
			With("log_level", c.LogLevel).
			Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// Game returns the host settings.
func (c Config) Game() game.Config {
	return game.Config{
		Players:      c.Players,
		Deck:         c.Deck,
		MaxEntities:  c.MaxEntities,
		MaxRecursion: c.MaxRecursion,
		Seed:         c.Seed,
	}
}

// Database returns the history database URL, falling back to the
// DATABASE_URL environment variable.
func (c Config) Database() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}
	return "", oops.Code(CodeInvalidConfig).Errorf("database_url is not set: use the config file, --database-url or DATABASE_URL")
}

// Logging returns logger options for service.
func (c Config) Logging(service, version string) logging.Options {
	level, _ := logging.ParseLevel(c.LogLevel)
	return logging.Options{
		Service: service,
		Version: version,
		Format:  c.LogFormat,
		Level:   level,
		Writer:  os.Stderr,
	}
}
