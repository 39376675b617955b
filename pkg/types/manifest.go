package types

// Category classifies a tracked file by the role it plays in the game
// directory. The synchronizer treats all categories the same; the duplicate
// detector only scans artifact categories (mod, resourcepack, shaderpack).
type Category string

const (
	CategoryMod          Category = "mod"
	CategoryResourcePack Category = "resourcepack"
	CategoryShaderPack   Category = "shaderpack"
	CategoryConfig       Category = "config"
	CategoryOther        Category = "other"
)

// IsArtifact reports whether files of this category are versioned artifacts
// subject to duplicate detection.
func (c Category) IsArtifact() bool {
	switch c {
	case CategoryMod, CategoryResourcePack, CategoryShaderPack:
		return true
	}
	return false
}

// ManifestEntry is one file tracked by a pack manifest. Path is relative to
// the instance's game directory and always uses forward slashes. FetchRef is
// the remote reference the file was obtained from; a changed reference means
// the file must be re-fetched on the next sync.
type ManifestEntry struct {
	Path     string   `json:"path"`
	Category Category `json:"category"`
	FetchRef string   `json:"ref"`
	SHA1     string   `json:"sha1,omitempty"`
}

// Manifest records which files, at which pack version, an instance currently
// has installed under packsmith's management. Files a user added manually are
// never tracked here and are never removed by a sync.
type Manifest struct {
	PackID      string          `json:"packId,omitempty"`
	PackVersion string          `json:"packVersion,omitempty"`
	Files       []ManifestEntry `json:"files"`
}

// Empty returns a manifest with no installed pack and no tracked files. It is
// what a fresh instance is treated as when no manifest exists on disk yet.
func Empty() *Manifest {
	return &Manifest{Files: []ManifestEntry{}}
}

// Index returns the manifest's entries keyed by path. Paths are unique within
// a manifest, so the map is lossless.
func (m *Manifest) Index() map[string]ManifestEntry {
	idx := make(map[string]ManifestEntry, len(m.Files))
	for _, e := range m.Files {
		idx[e.Path] = e
	}
	return idx
}
