package app

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/instance"
	"github.com/packsmith/packsmith/pkg/logging"
	"github.com/packsmith/packsmith/pkg/types"
)

// JavaInstaller runs a loader's installer jar against an instance. It
// fetches the jar behind the artifact reference, invokes it with the
// client-install flag, and removes the jar afterwards.
type JavaInstaller struct {
	app *App
}

// Installer returns the loader installer runner.
func (a *App) Installer() instance.InstallerRunner {
	return &JavaInstaller{app: a}
}

func (r *JavaInstaller) Run(ctx context.Context, artifact types.LoaderArtifact, inst *instance.Instance) error {
	log := logging.GetLogger("installer")

	jarPath := filepath.Join(inst.Dir, "loader-installer.jar")
	jar, err := r.app.FS.Create(jarPath)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot stage loader installer")
	}
	if err := r.app.downloader.Fetch(ctx, artifact.InstallerRef, jar); err != nil {
		jar.Close()
		return err
	}
	if err := jar.Close(); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot write loader installer")
	}
	defer func() {
		if err := r.app.FS.Remove(jarPath); err != nil {
			log.Warn().Str("path", jarPath).Err(err).Msg("Could not remove installer jar")
		}
	}()

	java := inst.Settings.JavaPath
	if java == "" {
		java = "java"
	}

	cmd := exec.CommandContext(ctx, java, "-jar", jarPath, "--installClient", inst.GameDir())
	cmd.Dir = inst.Dir
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	log.Info().
		Str("loader", string(artifact.Name)).
		Str("version", artifact.Version).
		Msg("Running loader installer")

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrInternal,
			"%s installer %s failed", artifact.Name, artifact.Version)
	}
	return nil
}
