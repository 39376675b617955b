package create

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packsmith/packsmith/cmd/packsmith/internal/app"
	"github.com/packsmith/packsmith/cmd/packsmith/internal/selection"
	"github.com/packsmith/packsmith/pkg/types"
)

// NewCommand creates the create command
func NewCommand() *cobra.Command {
	var (
		gameVersion   string
		loaderName    string
		loaderVersion string
	)

	cmd := &cobra.Command{
		Use:     "create <name>",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New()
			if err != nil {
				return err
			}

			inst, err := a.Instances.Create(args[0], types.InstanceSettings{
				GameVersion: gameVersion,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created instance %q (game version %s)\n", inst.Name, gameVersion)

			if loaderName == "" {
				return nil
			}

			name, err := types.ParseLoaderName(loaderName)
			if err != nil {
				return err
			}
			artifact, err := selection.ResolveLoader(cmd.Context(), a, gameVersion, name, loaderVersion)
			if err != nil {
				return err
			}
			if err := inst.InstallLoader(cmd.Context(), a.Installer(), *artifact); err != nil {
				return err
			}
			fmt.Printf("Installed %s %s\n", artifact.Name, artifact.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameVersion, "game-version", "", "Game version for the instance (required)")
	cmd.Flags().StringVar(&loaderName, "loader", "", "Mod loader to install (forge or neoforge)")
	cmd.Flags().StringVar(&loaderVersion, "loader-version", "", "Loader version; omit to pick from compatible versions")
	_ = cmd.MarkFlagRequired("game-version")

	return cmd
}
