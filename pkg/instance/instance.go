// Package instance manages instance directories: a settings file, a game
// directory, and the pack manifest managed by pkg/manifest. An instance is
// self-contained; deleting its directory removes every trace of it.
package instance

import (
	"encoding/json"
	"io/fs"
	"path/filepath"
	"regexp"

	stderrors "errors"

	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/logging"
	"github.com/packsmith/packsmith/pkg/types"
)

// SettingsFile is the settings file name inside an instance root.
const SettingsFile = "instance.json"

// DefaultGameDir is the game directory name for new instances.
const DefaultGameDir = "minecraft"

// validName keeps instance names usable as directory names everywhere.
var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._ -]*$`)

// Instance is an instance directory with its loaded settings.
type Instance struct {
	Name     string
	Dir      string
	Settings types.InstanceSettings

	fs types.FS
}

// Manager creates and opens instances under a root directory, typically
// paths.InstancesDir().
type Manager struct {
	fs   types.FS
	root string
}

// NewManager creates a manager rooted at root.
func NewManager(filesystem types.FS, root string) *Manager {
	return &Manager{fs: filesystem, root: root}
}

// Dir returns the directory an instance with this name would occupy.
func (m *Manager) Dir(name string) string {
	return filepath.Join(m.root, name)
}

// Exists reports whether an instance directory with a settings file exists.
func (m *Manager) Exists(name string) bool {
	_, err := m.fs.Stat(filepath.Join(m.Dir(name), SettingsFile))
	return err == nil
}

// Create makes a new instance directory with the given settings. The name
// must be a plain directory-safe string and must not collide with an
// existing instance.
func (m *Manager) Create(name string, settings types.InstanceSettings) (*Instance, error) {
	if !validName.MatchString(name) {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid instance name %q", name)
	}
	if m.Exists(name) {
		return nil, errors.Newf(errors.ErrInstanceExists, "instance %q already exists", name)
	}
	if settings.GameVersion == "" {
		return nil, errors.New(errors.ErrInvalidInput, "instance needs a game version")
	}
	if settings.GameDir == "" {
		settings.GameDir = DefaultGameDir
	}

	inst := &Instance{Name: name, Dir: m.Dir(name), Settings: settings, fs: m.fs}

	if err := m.fs.MkdirAll(inst.GameDir(), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInstanceInvalid,
			"cannot create instance directory %s", inst.Dir)
	}
	if err := inst.SaveSettings(); err != nil {
		return nil, err
	}

	logger := logging.GetLogger("instance")
	logger.Info().
		Str("name", name).
		Str("gameVersion", settings.GameVersion).
		Msg("Created instance")

	return inst, nil
}

// Load opens an existing instance.
func (m *Manager) Load(name string) (*Instance, error) {
	dir := m.Dir(name)

	data, err := m.fs.ReadFile(filepath.Join(dir, SettingsFile))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Newf(errors.ErrInstanceNotFound, "no instance named %q", name)
		}
		return nil, errors.Wrapf(err, errors.ErrInstanceInvalid,
			"cannot read settings for instance %q", name)
	}

	var settings types.InstanceSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInstanceInvalid,
			"corrupt settings for instance %q", name)
	}
	if settings.GameDir == "" {
		settings.GameDir = DefaultGameDir
	}

	return &Instance{Name: name, Dir: dir, Settings: settings, fs: m.fs}, nil
}

// List returns the names of all instances under the root, sorted by
// directory order.
func (m *Manager) List() ([]string, error) {
	entries, err := m.fs.ReadDir(m.root)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot list instances")
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && m.Exists(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// SaveSettings writes the settings file atomically.
func (i *Instance) SaveSettings() error {
	data, err := json.MarshalIndent(i.Settings, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode instance settings")
	}

	path := filepath.Join(i.Dir, SettingsFile)
	if err := i.fs.WriteFileAtomic(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrInstanceInvalid,
			"cannot write settings for instance %q", i.Name)
	}
	return nil
}

// GameDir is where the game runs and where manifest paths are rooted.
func (i *Instance) GameDir() string {
	return filepath.Join(i.Dir, i.Settings.GameDir)
}

func (i *Instance) ModsDir() string         { return filepath.Join(i.GameDir(), "mods") }
func (i *Instance) ResourcePackDir() string { return filepath.Join(i.GameDir(), "resourcepacks") }
func (i *Instance) ShaderPackDir() string   { return filepath.Join(i.GameDir(), "shaderpacks") }
func (i *Instance) NativesDir() string      { return filepath.Join(i.Dir, "natives") }
