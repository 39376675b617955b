package genconfig

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/packsmith/packsmith/cmd/packsmith/internal/app"
	"github.com/packsmith/packsmith/pkg/config"
)

// NewCommand creates the genconfig command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "genconfig",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New()
			if err != nil {
				return err
			}
			return config.Generate(a.Config, os.Stdout)
		},
	}
}
