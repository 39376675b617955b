package search

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/packsmith/packsmith/cmd/packsmith/internal/app"
)

// NewCommand creates the search command
func NewCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "search <term>",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			result, err := a.Modpacks.Search(ctx, url.QueryEscape(args[0]), limit)
			if err != nil {
				return err
			}

			if len(result.PackIDs) == 0 {
				fmt.Println("No packs found.")
				return nil
			}

			fmt.Printf("Found %d pack(s):\n", result.Total)
			for _, id := range result.PackIDs {
				summary, err := a.Modpacks.Pack(ctx, id)
				if err != nil {
					return err
				}
				fmt.Printf("  %6d  %s\n", summary.ID, summary.Name)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum results to show (max 50)")

	return cmd
}
