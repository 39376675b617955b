// Package loader resolves (game version, loader name, optional requested
// version) to a concrete installer artifact. Resolution never prompts: when
// several versions are plausible it returns the candidate list and lets the
// caller choose, so the package works from interactive and headless callers
// alike.
package loader

import (
	"context"
	"sort"

	goversion "github.com/hashicorp/go-version"

	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/logging"
	"github.com/packsmith/packsmith/pkg/types"
)

// Catalog supplies the published version list for a loader, already filtered
// to the given game version. The HTTP implementation lives in pkg/catalog.
type Catalog interface {
	LoaderVersions(ctx context.Context, name types.LoaderName, gameVersion string) ([]types.LoaderVersion, error)
}

// Resolution is the outcome of a resolve. Exactly one of Artifact and
// Candidates is populated: either the version was pinned down to a single
// artifact, or the caller must pick from Candidates (newest first).
type Resolution struct {
	Artifact   *types.LoaderArtifact
	Candidates []types.LoaderVersion
}

// NeedsSelection reports whether the caller has to choose a version before
// the loader can be installed.
func (r Resolution) NeedsSelection() bool {
	return r.Artifact == nil
}

// Resolver narrows loader versions against a catalog.
type Resolver struct {
	catalog Catalog
}

// NewResolver creates a resolver over the given loader catalog.
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve maps the request to an installer artifact.
//
// With a requested version, the version must appear in the catalog's list for
// the game version; otherwise ErrLoaderIncompatible. Without one, the
// compatible versions are ordered newest-first: a single match resolves
// directly, several become candidates, none is ErrLoaderNoVersion.
func (r *Resolver) Resolve(ctx context.Context, gameVersion string, name types.LoaderName, requested string) (Resolution, error) {
	log := logging.GetLogger("loader")

	versions, err := r.catalog.LoaderVersions(ctx, name, gameVersion)
	if err != nil {
		return Resolution{}, err
	}

	if requested != "" {
		for _, v := range versions {
			if v.Version == requested {
				log.Debug().
					Str("loader", string(name)).
					Str("version", requested).
					Msg("Requested loader version validated")
				return resolved(name, v), nil
			}
		}
		return Resolution{}, errors.Newf(errors.ErrLoaderIncompatible,
			"%s %s is not available for game version %s", name, requested, gameVersion).
			WithDetail("available", len(versions))
	}

	sortNewestFirst(versions)

	switch len(versions) {
	case 0:
		return Resolution{}, errors.Newf(errors.ErrLoaderNoVersion,
			"no %s version available for game version %s", name, gameVersion)
	case 1:
		log.Debug().
			Str("loader", string(name)).
			Str("version", versions[0].Version).
			Msg("Single compatible loader version, auto-selected")
		return resolved(name, versions[0]), nil
	default:
		log.Debug().
			Str("loader", string(name)).
			Int("candidates", len(versions)).
			Msg("Multiple compatible loader versions")
		return Resolution{Candidates: versions}, nil
	}
}

func resolved(name types.LoaderName, v types.LoaderVersion) Resolution {
	return Resolution{Artifact: &types.LoaderArtifact{
		Name:         name,
		Version:      v.Version,
		InstallerRef: v.InstallerRef,
		SHA256:       v.SHA256,
	}}
}

// sortNewestFirst orders versions descending. Forge-style versions parse as
// semver-ish most of the time; entries that do not parse sort after those
// that do, by plain string comparison among themselves, keeping the order
// deterministic either way.
func sortNewestFirst(versions []types.LoaderVersion) {
	parsed := make(map[string]*goversion.Version, len(versions))
	for _, v := range versions {
		if pv, err := goversion.NewVersion(v.Version); err == nil {
			parsed[v.Version] = pv
		}
	}

	sort.SliceStable(versions, func(i, j int) bool {
		a, b := versions[i], versions[j]
		pa, oka := parsed[a.Version]
		pb, okb := parsed[b.Version]
		switch {
		case oka && okb:
			return pa.GreaterThan(pb)
		case oka:
			return true
		case okb:
			return false
		default:
			return a.Version > b.Version
		}
	})
}
