package catalog

import (
	"context"
	"strings"

	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/logging"
	"github.com/packsmith/packsmith/pkg/types"
)

// Default loader index locations (prism meta format). Each index lists every
// published loader version with the game versions it requires.
const (
	DefaultForgeIndexURL    = "https://meta.prismlauncher.org/v1/net.minecraftforge/index.json"
	DefaultNeoForgeIndexURL = "https://meta.prismlauncher.org/v1/net.neoforged/index.json"
)

// LoaderIndex serves loader version lists from the meta indexes. It
// implements loader.Catalog.
type LoaderIndex struct {
	http     httpClient
	indexURL map[types.LoaderName]string
}

// NewLoaderIndex creates an index client. indexURLs overrides the per-loader
// index location; missing entries use the defaults.
func NewLoaderIndex(client httpClient, indexURLs map[types.LoaderName]string) *LoaderIndex {
	urls := map[types.LoaderName]string{
		types.LoaderForge:    DefaultForgeIndexURL,
		types.LoaderNeoForge: DefaultNeoForgeIndexURL,
	}
	for name, url := range indexURLs {
		urls[name] = url
	}
	return &LoaderIndex{http: client, indexURL: urls}
}

type loaderIndexDoc struct {
	Versions []loaderIndexEntry `json:"versions"`
}

type loaderIndexEntry struct {
	Version     string           `json:"version"`
	Recommended bool             `json:"recommended"`
	SHA256      string           `json:"sha256"`
	Requires    []loaderRequires `json:"requires"`
}

type loaderRequires struct {
	UID    string `json:"uid"`
	Equals string `json:"equals"`
}

func (e loaderIndexEntry) forGameVersion(gameVersion string) bool {
	for _, r := range e.Requires {
		if r.Equals == gameVersion {
			return true
		}
	}
	return false
}

// LoaderVersions lists the loader's versions published for the given game
// version. Order is as the index serves it; the resolver sorts.
func (x *LoaderIndex) LoaderVersions(ctx context.Context, name types.LoaderName, gameVersion string) ([]types.LoaderVersion, error) {
	indexURL, ok := x.indexURL[name]
	if !ok {
		return nil, errors.Newf(errors.ErrLoaderUnknown, "no version index for loader %q", name)
	}

	var doc loaderIndexDoc
	if err := getJSON(ctx, x.http, indexURL, &doc); err != nil {
		return nil, err
	}

	var versions []types.LoaderVersion
	for _, e := range doc.Versions {
		if !e.forGameVersion(gameVersion) {
			continue
		}
		versions = append(versions, types.LoaderVersion{
			Version:      e.Version,
			Recommended:  e.Recommended,
			InstallerRef: versionManifestURL(indexURL, e.Version),
			SHA256:       e.SHA256,
		})
	}

	logger := logging.GetLogger("catalog")
	logger.Debug().
		Str("loader", string(name)).
		Str("gameVersion", gameVersion).
		Int("versions", len(versions)).
		Msg("Loader index filtered")

	return versions, nil
}

// versionManifestURL derives a version's detail manifest from the index
// location: .../index.json becomes .../<version>.json.
func versionManifestURL(indexURL, version string) string {
	return strings.TrimSuffix(indexURL, "index.json") + version + ".json"
}
