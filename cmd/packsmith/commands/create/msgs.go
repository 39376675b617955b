package create

// Message constants
const (
	MsgShort = "Create a new game instance"
	MsgLong  = `Create makes a new instance directory with its settings file. The instance
starts empty; use 'packsmith install' to put a modpack into it, or point your
launcher at its game directory directly.`

	MsgExample = `  # A vanilla 1.20.1 instance
  packsmith create skyblock --game-version 1.20.1

  # An instance with a specific loader version
  packsmith create skyblock --game-version 1.20.1 --loader forge --loader-version 47.2.0`
)
