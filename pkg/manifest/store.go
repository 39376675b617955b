package manifest

import (
	"encoding/json"
	"io/fs"
	"path/filepath"

	stderrors "errors"

	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/logging"
	"github.com/packsmith/packsmith/pkg/types"
)

// FileName is the manifest file name inside an instance root. It sits next
// to instance.json and is only ever replaced atomically, never edited in
// place.
const FileName = "pack-manifest.json"

// Store persists pack manifests inside instance directories. One manifest
// record exists per instance, keyed implicitly by the instance directory; no
// global registry is kept.
type Store struct {
	fs types.FS
}

// NewStore creates a manifest store over the given filesystem.
func NewStore(filesystem types.FS) *Store {
	return &Store{fs: filesystem}
}

// Path returns the manifest location for an instance root.
func (s *Store) Path(instanceDir string) string {
	return filepath.Join(instanceDir, FileName)
}

// Load reads the manifest for the instance. A missing manifest is reported
// as ErrManifestNotFound; callers treat that as a fresh instance with an
// empty manifest. A manifest that exists but cannot be parsed is
// ErrManifestCorrupt and requires manual intervention.
func (s *Store) Load(instanceDir string) (*types.Manifest, error) {
	path := s.Path(instanceDir)

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrManifestNotFound,
				"no pack manifest in %s", instanceDir)
		}
		return nil, errors.Wrapf(err, errors.ErrManifestCorrupt,
			"cannot read pack manifest in %s", instanceDir)
	}

	var m types.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestCorrupt,
			"cannot parse pack manifest in %s", instanceDir).
			WithDetail("path", path)
	}
	if m.Files == nil {
		m.Files = []types.ManifestEntry{}
	}

	logger := logging.GetLogger("manifest")
	logger.Debug().
		Str("instance", instanceDir).
		Str("packVersion", m.PackVersion).
		Int("files", len(m.Files)).
		Msg("Loaded pack manifest")

	return &m, nil
}

// LoadOrEmpty is Load with the not-found case collapsed to an empty
// manifest, which is what the synchronizer wants.
func (s *Store) LoadOrEmpty(instanceDir string) (*types.Manifest, error) {
	m, err := s.Load(instanceDir)
	if errors.IsErrorCode(err, errors.ErrManifestNotFound) {
		return types.Empty(), nil
	}
	return m, err
}

// Save writes the manifest atomically: the new content is staged to a
// temporary file and renamed over the canonical location as the single final
// filesystem operation, so a crash leaves either the old or the new manifest
// intact.
func (s *Store) Save(instanceDir string, m *types.Manifest) error {
	path := s.Path(instanceDir)

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode pack manifest")
	}

	if err := s.fs.WriteFileAtomic(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrManifestPersist,
			"cannot persist pack manifest in %s", instanceDir).
			WithDetail("path", path)
	}

	logger := logging.GetLogger("manifest")
	logger.Debug().
		Str("instance", instanceDir).
		Str("packVersion", m.PackVersion).
		Int("files", len(m.Files)).
		Msg("Saved pack manifest")

	return nil
}
