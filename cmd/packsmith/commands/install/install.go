package install

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/packsmith/packsmith/cmd/packsmith/internal/app"
	"github.com/packsmith/packsmith/cmd/packsmith/internal/selection"
	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/types"
)

// NewCommand creates the install command
func NewCommand() *cobra.Command {
	var packVersion int64

	cmd := &cobra.Command{
		Use:     "install <instance> <pack-id>",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New()
			if err != nil {
				return err
			}

			inst, err := a.Instances.Load(args[0])
			if err != nil {
				return err
			}
			packID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return errors.Newf(errors.ErrInvalidInput, "invalid pack id %q", args[1])
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
				fmt.Printf("Installing %s, version %s\n",
					summary.Name, summary.Versions[len(summary.Versions)-1].Name)
			}

			manifest, err := a.Modpacks.Version(ctx, packID, versionID)
			if err != nil {
				return err
			}
			if manifest.GameVersion != "" && manifest.GameVersion != inst.Settings.GameVersion {
				return errors.Newf(errors.ErrCatalogMismatch,
					"pack targets game version %s but instance %q runs %s",
					manifest.GameVersion, inst.Name, inst.Settings.GameVersion)
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

			if manifest.Loader != nil && inst.Settings.Loader == nil {
				artifact, err := selection.ResolveLoader(ctx, a,
					inst.Settings.GameVersion, manifest.Loader.Name, manifest.Loader.Version)
				if err != nil {
					return err
				}
				if err := inst.InstallLoader(ctx, a.Installer(), *artifact); err != nil {
					return err
				}
				fmt.Printf("Installed %s %s\n", artifact.Name, artifact.Version)
			}

			fmt.Printf("Instance %q now tracks %d files at pack version %s\n",
				inst.Name, len(next.Files), next.PackVersion)
			return nil
		},
	}

	cmd.Flags().Int64Var(&packVersion, "pack-version", 0, "Pack version id; omit for the latest")

	return cmd
}
