package types

// PackFile is one file a pack version requires. Path is relative to the game
// directory with forward slashes. FetchRef is an opaque reference handed to
// the transport; for blocked files it is the page a user must download from
// manually instead.
type PackFile struct {
	Path     string
	Category Category
	FetchRef string
	SHA1     string
	Size     int64

	// Blocked marks a file the transport is not allowed to fetch
	// (third-party distribution disabled upstream). Blocked files are
	// reported to the caller and excluded from the manifest.
	Blocked bool
}

// Entry converts the pack file into its manifest representation.
func (f PackFile) Entry() ManifestEntry {
	return ManifestEntry{
		Path:     f.Path,
		Category: f.Category,
		FetchRef: f.FetchRef,
		SHA1:     f.SHA1,
	}
}

// PackDescriptor is the full file listing for one version of a modpack,
// obtained from a catalog. It is immutable once obtained; paths within one
// descriptor are unique (the diff engine tolerates and logs violations).
type PackDescriptor struct {
	PackID    string
	VersionID string
	Name      string
	Files     []PackFile
}
