// Package config loads packsmith's configuration: embedded defaults, then
// the user's config file, then PACKSMITH_* environment variables, each layer
// overriding the previous one.
package config

import (
	_ "embed"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/logging"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix for environment overrides. PACKSMITH_CURSEFORGE_API_KEY
// maps to curseforge.api_key.
const EnvPrefix = "PACKSMITH_"

// Config is the fully merged configuration tree.
type Config struct {
	Downloads  Downloads  `koanf:"downloads" toml:"downloads"`
	Modpacks   Modpacks   `koanf:"modpacks" toml:"modpacks"`
	CurseForge CurseForge `koanf:"curseforge" toml:"curseforge"`
	Loaders    Loaders    `koanf:"loaders" toml:"loaders"`
	Dupes      Dupes      `koanf:"dupes" toml:"dupes"`
}

type Downloads struct {
	Concurrency int `koanf:"concurrency" toml:"concurrency"`
	RetryMax    int `koanf:"retry_max" toml:"retry_max"`
	Timeout     int `koanf:"timeout" toml:"timeout"`
}

type Modpacks struct {
	BaseURL string `koanf:"base_url" toml:"base_url"`
}

type CurseForge struct {
	BaseURL string `koanf:"base_url" toml:"base_url"`
	APIKey  string `koanf:"api_key" toml:"api_key"`
}

type Loaders struct {
	ForgeIndexURL    string `koanf:"forge_index_url" toml:"forge_index_url"`
	NeoForgeIndexURL string `koanf:"neoforge_index_url" toml:"neoforge_index_url"`
}

type Dupes struct {
	VersionPattern string `koanf:"version_pattern" toml:"version_pattern"`
}

// Load merges defaults, the config file at configPath (skipped when absent)
// and environment overrides.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultConfig), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot parse built-in defaults")
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad,
					"cannot load config file %s", configPath)
			}
			logger := logging.GetLogger("config")
			logger.Debug().
				Str("path", configPath).
				Msg("Loaded user config")
		}
	}

	// PACKSMITH_DOWNLOADS_CONCURRENCY -> downloads.concurrency. Key names
	// contain no underscores past the section, so only the first '_' splits.
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot read environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid configuration")
	}
	return &cfg, nil
}

// Default returns the built-in defaults with no file or environment input.
func Default() *Config {
	var cfg Config
	// The embedded defaults are valid by construction.
	if err := gotoml.Unmarshal(defaultConfig, &cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Generate writes the configuration as a TOML document, used by the
// genconfig command to seed a user config file.
func Generate(cfg *Config, w io.Writer) error {
	enc := gotoml.NewEncoder(w)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode configuration")
	}
	return nil
}
