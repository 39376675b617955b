// Package diff computes the change set between an instance's installed
// manifest and a pack version descriptor. The computation is pure and
// deterministic; applying the result is pkg/sync's job.
package diff

import (
	"github.com/packsmith/packsmith/pkg/logging"
	"github.com/packsmith/packsmith/pkg/types"
)

// Compute returns the ordered change set that moves an instance from the old
// manifest's file set to the descriptor's file set.
//
//   - a path only in the descriptor goes to ToAdd
//   - a path in both with a differing fetch reference goes to ToUpdate
//   - a path only in the manifest goes to ToRemove
//   - a path in both with the same fetch reference is a no-op
//
// Removals are listed but must only be applied after all additions and
// updates have succeeded. Descriptors are external input: if one lists the
// same path twice the later entry wins, logged as an anomaly rather than
// failing the run.
func Compute(old *types.Manifest, desc *types.PackDescriptor) *types.ChangeSet {
	log := logging.GetLogger("diff")

	wanted := Dedupe(desc)
	installed := old.Index()

	cs := &types.ChangeSet{}

	wantedPaths := make(map[string]bool, len(wanted))
	for _, f := range wanted {
		wantedPaths[f.Path] = true

		prev, exists := installed[f.Path]
		switch {
		case !exists:
			cs.ToAdd = append(cs.ToAdd, f)
		case prev.FetchRef != f.FetchRef:
			cs.ToUpdate = append(cs.ToUpdate, f)
		}
	}

	for _, e := range old.Files {
		if !wantedPaths[e.Path] {
			cs.ToRemove = append(cs.ToRemove, e)
		}
	}

	log.Debug().
		Str("pack", desc.PackID).
		Str("version", desc.VersionID).
		Int("add", len(cs.ToAdd)).
		Int("update", len(cs.ToUpdate)).
		Int("remove", len(cs.ToRemove)).
		Msg("Computed change set")

	return cs
}

// Dedupe collapses duplicate paths in a descriptor, keeping the later entry
// at the position of its last occurrence. The synchronizer uses the same rule
// when it builds the manifest it persists after apply.
func Dedupe(desc *types.PackDescriptor) []types.PackFile {
	seen := make(map[string]int, len(desc.Files))
	out := make([]types.PackFile, 0, len(desc.Files))

	for _, f := range desc.Files {
		if i, dup := seen[f.Path]; dup {
			logger := logging.GetLogger("diff")
			logger.Warn().
				Str("pack", desc.PackID).
				Str("path", f.Path).
				Msg("Descriptor lists path twice, keeping later entry")
			out = append(out[:i], out[i+1:]...)
			for p, j := range seen {
				if j > i {
					seen[p] = j - 1
				}
			}
		}
		seen[f.Path] = len(out)
		out = append(out, f)
	}

	return out
}
