package search

// Message constants
const (
	MsgShort = "Search the modpack catalog"
	MsgLong  = `Search queries the modpack catalog by name and prints matching packs with
their ids, ready to hand to 'packsmith install'.`

	MsgExample = `  packsmith search skies
  packsmith search "stone block" --limit 10`
)
