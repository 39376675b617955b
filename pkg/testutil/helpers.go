package testutil

import (
	"github.com/packsmith/packsmith/pkg/types"
)

// Entry builds a manifest entry with a fetch reference derived from the path
// unless ref is given.
func Entry(path string, cat types.Category, ref string) types.ManifestEntry {
	if ref == "" {
		ref = "https://cdn.example.com/" + path
	}
	return types.ManifestEntry{Path: path, Category: cat, FetchRef: ref}
}

// File builds a descriptor pack file mirroring Entry.
func File(path string, cat types.Category, ref string) types.PackFile {
	if ref == "" {
		ref = "https://cdn.example.com/" + path
	}
	return types.PackFile{Path: path, Category: cat, FetchRef: ref}
}

// ManifestOf builds a manifest at the given pack version from entries.
func ManifestOf(packID, version string, entries ...types.ManifestEntry) *types.Manifest {
	return &types.Manifest{
		PackID:      packID,
		PackVersion: version,
		Files:       entries,
	}
}

// DescriptorOf builds a pack descriptor from files.
func DescriptorOf(packID, versionID string, files ...types.PackFile) *types.PackDescriptor {
	return &types.PackDescriptor{
		PackID:    packID,
		VersionID: versionID,
		Name:      packID + " " + versionID,
		Files:     files,
	}
}
