// Package app wires the packsmith libraries into the objects the CLI
// commands share: configuration, paths, filesystem, transport and the
// catalog clients. Commands stay thin and take everything from here.
package app

import (
	"net/http"
	"time"

	"github.com/packsmith/packsmith/pkg/catalog"
	"github.com/packsmith/packsmith/pkg/config"
	"github.com/packsmith/packsmith/pkg/filesystem"
	"github.com/packsmith/packsmith/pkg/identity"
	"github.com/packsmith/packsmith/pkg/instance"
	"github.com/packsmith/packsmith/pkg/loader"
	"github.com/packsmith/packsmith/pkg/manifest"
	"github.com/packsmith/packsmith/pkg/paths"
	"github.com/packsmith/packsmith/pkg/sync"
	"github.com/packsmith/packsmith/pkg/transport"
	"github.com/packsmith/packsmith/pkg/types"
)

// App is the assembled application context.
type App struct {
	Config    *config.Config
	Paths     paths.Paths
	FS        types.FS
	Instances *instance.Manager
	Manifests *manifest.Store
	Modpacks  *catalog.ModpacksClient
	Loaders   *loader.Resolver

	downloader *transport.HTTPFetcher
}

// New loads configuration and builds the application context.
func New() (*App, error) {
	p := paths.New()

	cfg, err := config.Load(p.ConfigFilePath())
	if err != nil {
		return nil, err
	}

	fs := filesystem.NewOS()

	apiClient := transport.NewHTTPFetcher(transport.Options{
		RetryMax: cfg.Downloads.RetryMax,
		Timeout:  30 * time.Second,
		Credentials: identity.FileProvider{
			FS:   fs,
			Path: p.CredentialsPath(),
		},
	})

	var curse *catalog.CurseForgeClient
	if cfg.CurseForge.APIKey != "" {
		curseClient := transport.NewHTTPFetcher(transport.Options{
			RetryMax: cfg.Downloads.RetryMax,
			Timeout:  30 * time.Second,
			Header:   http.Header{"x-api-key": []string{cfg.CurseForge.APIKey}},
		})
		curse = catalog.NewCurseForgeClient(curseClient, cfg.CurseForge.BaseURL)
	}

	downloader := transport.NewHTTPFetcher(transport.Options{
		RetryMax: cfg.Downloads.RetryMax,
		Timeout:  time.Duration(cfg.Downloads.Timeout) * time.Second,
	})

	index := catalog.NewLoaderIndex(apiClient, map[types.LoaderName]string{
		types.LoaderForge:    cfg.Loaders.ForgeIndexURL,
		types.LoaderNeoForge: cfg.Loaders.NeoForgeIndexURL,
	})

	return &App{
		Config:     cfg,
		Paths:      p,
		FS:         fs,
		Instances:  instance.NewManager(fs, p.InstancesDir()),
		Manifests:  manifest.NewStore(fs),
		Modpacks:   catalog.NewModpacksClient(apiClient, cfg.Modpacks.BaseURL, curse),
		Loaders:    loader.NewResolver(index),
		downloader: downloader,
	}, nil
}

// Syncer builds a synchronizer reporting to the given progress sink.
func (a *App) Syncer(progress sync.Progress) *sync.Synchronizer {
	return sync.New(a.FS, a.downloader, sync.Options{
		Concurrency: a.Config.Downloads.Concurrency,
		Progress:    progress,
	})
}

// Target returns the sync target for an instance.
func (a *App) Target(inst *instance.Instance) sync.Target {
	return sync.Target{InstanceDir: inst.Dir, GameDir: inst.GameDir()}
}
