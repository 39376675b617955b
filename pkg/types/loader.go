package types

import "fmt"

// LoaderName identifies a supported mod loader runtime.
type LoaderName string

const (
	LoaderForge    LoaderName = "forge"
	LoaderNeoForge LoaderName = "neoforge"
)

// ParseLoaderName converts a user- or catalog-supplied loader name into a
// LoaderName, accepting the casing variants the upstream APIs use.
func ParseLoaderName(s string) (LoaderName, error) {
	switch s {
	case "forge", "Forge":
		return LoaderForge, nil
	case "neoforge", "NeoForge", "neoForge":
		return LoaderNeoForge, nil
	}
	return "", fmt.Errorf("invalid mod loader name %q", s)
}

// LoaderSelection is the loader an instance is configured with. Version is a
// concrete version string, already validated against the loader catalog.
type LoaderSelection struct {
	Name    LoaderName `json:"name"`
	Version string     `json:"version"`
}

// LoaderVersion is one entry from a loader's published version list,
// already filtered to a specific game version.
type LoaderVersion struct {
	Version      string
	Recommended  bool
	InstallerRef string
	SHA256       string
}

// LoaderArtifact is a fully resolved installer artifact reference. The
// instance installer invokes it as an opaque step.
type LoaderArtifact struct {
	Name         LoaderName
	Version      string
	InstallerRef string
	SHA256       string
}
