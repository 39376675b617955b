package packsmith

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/packsmith/packsmith/cmd/packsmith/commands/create"
	"github.com/packsmith/packsmith/cmd/packsmith/commands/dupes"
	"github.com/packsmith/packsmith/cmd/packsmith/commands/genconfig"
	"github.com/packsmith/packsmith/cmd/packsmith/commands/install"
	"github.com/packsmith/packsmith/cmd/packsmith/commands/loaders"
	"github.com/packsmith/packsmith/cmd/packsmith/commands/search"
	"github.com/packsmith/packsmith/cmd/packsmith/commands/update"
	"github.com/packsmith/packsmith/internal/version"
	"github.com/packsmith/packsmith/pkg/logging"
)

// NewRootCmd builds the packsmith command tree.
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "packsmith",
		Short: MsgRootShort,
		Long:  MsgRootLong,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(
		create.NewCommand(),
		install.NewCommand(),
		update.NewCommand(),
		dupes.NewCommand(),
		loaders.NewCommand(),
		search.NewCommand(),
		genconfig.NewCommand(),
		versionCmd(),
	)

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("packsmith version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}
