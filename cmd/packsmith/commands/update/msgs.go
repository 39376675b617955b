package update

// Message constants
const (
	MsgShort = "Update an instance to a newer pack version"
	MsgLong  = `Update re-syncs an instance against its installed pack: the latest version
by default, or the version given with --pack-version. Only files that changed
between the two versions are downloaded or removed; files you added by hand
are never touched.`

	MsgExample = `  # Update to the latest version of the installed pack
  packsmith update skyblock

  # Pin to a specific version (upgrades and downgrades both work)
  packsmith update skyblock --pack-version 101`
)
