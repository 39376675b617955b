package loaders

// Message constants
const (
	MsgShort = "List loader versions for a game version"
	MsgLong  = `Loaders lists the mod loader versions published for a game version, newest
first, with the upstream's recommended build marked.`

	MsgExample = `  packsmith loaders 1.20.1
  packsmith loaders 1.20.1 --loader neoforge`
)
