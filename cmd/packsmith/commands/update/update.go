package update

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/packsmith/packsmith/cmd/packsmith/internal/app"
	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/types"
)

// NewCommand creates the update command
func NewCommand() *cobra.Command {
	var packVersion int64

	cmd := &cobra.Command{
		Use:     "update <instance>",
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
			if inst.Settings.Pack == nil {
				return errors.Newf(errors.ErrInstanceInvalid,
					"instance %q has no pack installed", inst.Name)
			}
			packID, err := strconv.ParseInt(inst.Settings.Pack.ID, 10, 64)
			if err != nil {
				return errors.Wrapf(err, errors.ErrInstanceInvalid,
					"instance %q has a corrupt pack reference", inst.Name)
			}

			ctx := cmd.Context()

			versionID := packVersion
			if versionID == 0 {
				summary, err := a.Modpacks.Pack(ctx, packID)
				if err != nil {
					return err
				}
				if len(summary.Versions) == 0 {
					return errors.Newf(errors.ErrPackNotFound, "pack %d has no versions", packID)
				}
				versionID = summary.Versions[len(summary.Versions)-1].ID
			}

			if strconv.FormatInt(versionID, 10) == inst.Settings.Pack.Version {
				fmt.Printf("Instance %q is already at pack version %s\n",
					inst.Name, inst.Settings.Pack.Version)
				return nil
			}

			manifest, err := a.Modpacks.Version(ctx, packID, versionID)
			if err != nil {
				return err
			}

			old, err := a.Manifests.LoadOrEmpty(inst.Dir)
			if err != nil {
				return err
			}

			next, warnings, err := a.Syncer(app.NewDownloadProgress()).
				Apply(ctx, a.Target(inst), old, manifest.Descriptor)
			app.PrintWarnings(warnings)
			if err != nil {
				return err
			}

			inst.Settings.Pack = &types.PackRef{
				ID:      next.PackID,
				Version: next.PackVersion,
			}
			if err := inst.SaveSettings(); err != nil {
				return err
			}

			fmt.Printf("Instance %q updated to pack version %s (%d files tracked)\n",
				inst.Name, next.PackVersion, len(next.Files))
			return nil
		},
	}

	cmd.Flags().Int64Var(&packVersion, "pack-version", 0, "Pack version id; omit for the latest")

	return cmd
}
