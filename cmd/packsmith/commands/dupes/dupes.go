package dupes

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packsmith/packsmith/cmd/packsmith/internal/app"
	"github.com/packsmith/packsmith/pkg/dupes"
)

// NewCommand creates the dupes command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "dupes <instance>",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New()
			if err != nil {
				return err
			}

			inst, err := a.Instances.Load(args[0])
			if err != nil {
				return err
			}

			detector, err := dupes.New(a.FS, dupes.Config{
				VersionPattern: a.Config.Dupes.VersionPattern,
			})
			if err != nil {
				return err
			}

			groups, err := detector.Scan(inst.GameDir())
			if err != nil {
				return err
			}

			if len(groups) == 0 {
				fmt.Println("No duplicate artifacts found.")
				return nil
			}

			fmt.Printf("Found %d duplicate group(s):\n", len(groups))
			for _, g := range groups {
				fmt.Printf("\n  %s:\n", g.Identity)
				for _, p := range g.Paths {
					fmt.Printf("    %s\n", p)
				}
			}
			return nil
		},
	}
}
