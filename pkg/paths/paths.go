// Package paths provides centralized path handling for packsmith. It follows
// the XDG Base Directory specification and is the only place that knows where
// instances, caches and state live on disk.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable overrides. Each one replaces the corresponding XDG
// derived directory wholesale.
const (
	EnvDataDir   = "PACKSMITH_DATA_DIR"
	EnvConfigDir = "PACKSMITH_CONFIG_DIR"
	EnvCacheDir  = "PACKSMITH_CACHE_DIR"
	EnvStateDir  = "PACKSMITH_STATE_DIR"
)

// Directory and file names inside the packsmith trees. These are not
// user-configurable; instances created by one installation must be readable
// by another.
const (
	appDirName = "packsmith"

	// InstancesDir is the subdirectory of the data dir holding instances.
	InstancesDir = "instances"

	// LibsDir is the subdirectory of the data dir holding shared loader
	// libraries, deduplicated across instances.
	LibsDir = "libs"

	// AssetsDir is the subdirectory of the data dir for game assets.
	AssetsDir = "assets"

	// ConfigFile is the user configuration file name.
	ConfigFile = "config.toml"

	// CredentialsFile stores the saved API token.
	CredentialsFile = "credentials"

	// LogFile is the rolling log file name.
	LogFile = "packsmith.log"
)

// Paths resolves every location packsmith reads or writes outside of
// instance directories.
type Paths interface {
	DataDir() string
	ConfigDir() string
	CacheDir() string
	StateDir() string

	InstancesDir() string
	InstanceDir(name string) string
	LibsDir() string
	AssetsDir() string

	ConfigFilePath() string
	CredentialsPath() string
	LogFilePath() string
}

type paths struct {
	data   string
	config string
	cache  string
	state  string
}

// New resolves the packsmith directory layout from the environment.
func New() Paths {
	return &paths{
		data:   overridden(EnvDataDir, filepath.Join(xdg.DataHome, appDirName)),
		config: overridden(EnvConfigDir, filepath.Join(xdg.ConfigHome, appDirName)),
		cache:  overridden(EnvCacheDir, filepath.Join(xdg.CacheHome, appDirName)),
		state:  overridden(EnvStateDir, filepath.Join(xdg.StateHome, appDirName)),
	}
}

func overridden(envVar, fallback string) string {
	if dir := os.Getenv(envVar); dir != "" {
		return dir
	}
	return fallback
}

func (p *paths) DataDir() string   { return p.data }
func (p *paths) ConfigDir() string { return p.config }
func (p *paths) CacheDir() string  { return p.cache }
func (p *paths) StateDir() string  { return p.state }

func (p *paths) InstancesDir() string { return filepath.Join(p.data, InstancesDir) }
func (p *paths) LibsDir() string      { return filepath.Join(p.data, LibsDir) }
func (p *paths) AssetsDir() string    { return filepath.Join(p.data, AssetsDir) }

// InstanceDir returns the directory for a named instance. The name is used
// as-is; validation happens in pkg/instance before anything touches disk.
func (p *paths) InstanceDir(name string) string {
	return filepath.Join(p.InstancesDir(), name)
}

func (p *paths) ConfigFilePath() string  { return filepath.Join(p.config, ConfigFile) }
func (p *paths) CredentialsPath() string { return filepath.Join(p.state, CredentialsFile) }
func (p *paths) LogFilePath() string     { return filepath.Join(p.state, LogFile) }
