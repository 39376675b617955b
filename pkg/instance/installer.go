package instance

import (
	"context"

	"github.com/packsmith/packsmith/pkg/logging"
	"github.com/packsmith/packsmith/pkg/types"
)

// InstallerRunner performs the loader-specific install step: fetching the
// installer behind the artifact reference and running it against the
// instance directory. Process execution stays outside the core; the CLI
// provides the real runner and tests provide fakes.
type InstallerRunner interface {
	Run(ctx context.Context, artifact types.LoaderArtifact, inst *Instance) error
}

// InstallLoader runs the installer for a resolved artifact and records the
// selection in the instance settings. The settings are only saved once the
// installer has succeeded.
func (i *Instance) InstallLoader(ctx context.Context, runner InstallerRunner, artifact types.LoaderArtifact) error {
	log := logging.GetLogger("instance")
	log.Info().
		Str("instance", i.Name).
		Str("loader", string(artifact.Name)).
		Str("version", artifact.Version).
		Msg("Installing mod loader")

	if err := runner.Run(ctx, artifact, i); err != nil {
		return err
	}

	i.Settings.Loader = &types.LoaderSelection{
		Name:    artifact.Name,
		Version: artifact.Version,
	}
	return i.SaveSettings()
}
