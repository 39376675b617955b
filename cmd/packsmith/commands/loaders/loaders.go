package loaders

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packsmith/packsmith/cmd/packsmith/internal/app"
	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/types"
)

// NewCommand creates the loaders command
func NewCommand() *cobra.Command {
	var loaderName string

	cmd := &cobra.Command{
		Use:     "loaders <game-version>",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New()
			if err != nil {
				return err
			}

			name, err := types.ParseLoaderName(loaderName)
			if err != nil {
				return errors.Wrap(err, errors.ErrInvalidInput, "unsupported loader")
			}

			res, err := a.Loaders.Resolve(cmd.Context(), args[0], name, "")
			if err != nil {
				return err
			}

			candidates := res.Candidates
			if !res.NeedsSelection() {
				fmt.Printf("%s %s (only compatible version)\n",
					res.Artifact.Name, res.Artifact.Version)
				return nil
			}

			fmt.Printf("%s versions for %s:\n", name, args[0])
			for _, c := range candidates {
				marker := ""
				if c.Recommended {
					marker = "  (recommended)"
				}
				fmt.Printf("  %s%s\n", c.Version, marker)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&loaderName, "loader", "forge", "Loader to list (forge or neoforge)")

	return cmd
}
