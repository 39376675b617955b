package install

// Message constants
const (
	MsgShort = "Install a modpack into an instance"
	MsgLong  = `Install fetches a modpack version's file listing and brings the instance's
game directory in line with it. Files are downloaded before anything is
removed, and the installed set is recorded in the instance manifest so later
updates only touch what changed.

If the pack declares a mod loader, it is installed as well unless the
instance already has one.`

	MsgExample = `  # Install the latest version of pack 23
  packsmith install skyblock 23

  # Install a specific version
  packsmith install skyblock 23 --pack-version 100`
)
