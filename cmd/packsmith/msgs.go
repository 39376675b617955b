package packsmith

// Short messages (one-liners)
const (
	MsgRootShort = "A modpack-aware game instance manager"
	MsgRootLong  = `packsmith creates game instances and keeps their modpack files in sync.
It tracks every file it installs in a per-instance manifest, so pack updates
add, replace and remove exactly what changed and never touch files you added
yourself.`

	MsgVersionShort = "Print version information"
)
