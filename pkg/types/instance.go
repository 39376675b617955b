package types

// PackRef identifies the pack version an instance was installed from.
type PackRef struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// InstanceSettings is the persisted configuration of one instance, stored as
// instance.json in the instance root. The installed-file manifest is kept
// separately (see pkg/manifest) so that settings edits never race with sync.
type InstanceSettings struct {
	// GameVersion is the game version this instance runs.
	GameVersion string `json:"gameVersion"`

	// GameDir is the game directory name, relative to the instance root.
	GameDir string `json:"gameDir"`

	// JavaPath optionally overrides the JVM binary; empty means "java" on
	// the system path.
	JavaPath string `json:"javaPath,omitempty"`

	// JavaArgs are extra JVM arguments.
	JavaArgs []string `json:"javaArgs,omitempty"`

	// Loader is the installed mod loader, if any.
	Loader *LoaderSelection `json:"loader,omitempty"`

	// Pack is the installed modpack, if any.
	Pack *PackRef `json:"pack,omitempty"`
}
