package dupes

// Message constants
const (
	MsgShort = "Find duplicate mods and packs in an instance"
	MsgLong  = `Dupes scans the instance's mods, resourcepacks and shaderpacks directories
for files that look like the same artifact at different versions, which
typically happens after dropping a newer jar in by hand. Nothing is deleted;
the command only reports.`

	MsgExample = `  packsmith dupes skyblock`
)
