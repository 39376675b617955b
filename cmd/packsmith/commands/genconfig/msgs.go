package genconfig

// Message constants
const (
	MsgShort = "Print the effective configuration as TOML"
	MsgLong  = `Genconfig prints the merged configuration (defaults, config file and
environment overrides) as a TOML document. Redirect it to the config file
path to seed a config you can edit.`

	MsgExample = `  packsmith genconfig > ~/.config/packsmith/config.toml`
)
