package types

// ChangeSet is the add/update/remove plan computed between an installed
// manifest and a pack version descriptor. The three lists are pairwise
// disjoint by path. ToAdd and ToUpdate preserve descriptor order, ToRemove
// preserves manifest order. A change set belongs to the sync run that
// computed it and is discarded after apply.
type ChangeSet struct {
	ToAdd    []PackFile
	ToUpdate []PackFile
	ToRemove []ManifestEntry
}

// Empty reports whether applying the change set would be a no-op.
func (c *ChangeSet) Empty() bool {
	return len(c.ToAdd) == 0 && len(c.ToUpdate) == 0 && len(c.ToRemove) == 0
}

// FetchCount returns the number of files that must be fetched.
func (c *ChangeSet) FetchCount() int {
	return len(c.ToAdd) + len(c.ToUpdate)
}
