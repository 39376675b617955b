package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/logging"
	"github.com/packsmith/packsmith/pkg/types"
)

// DefaultModpacksURL is the public FTB modpack API root.
const DefaultModpacksURL = "https://api.modpacks.ch/public"

// ModpacksClient reads the FTB-style modpack API: pack search, the per-pack
// version list, and the per-version file manifest. Entries served without a
// direct URL carry a CurseForge reference instead and are resolved through
// the optional CurseForge client.
type ModpacksClient struct {
	http    httpClient
	baseURL string
	curse   *CurseForgeClient
}

// NewModpacksClient creates a client against baseURL (empty means
// DefaultModpacksURL). curse may be nil; packs that reference CurseForge
// files then fail with ErrCatalogMismatch.
func NewModpacksClient(client httpClient, baseURL string, curse *CurseForgeClient) *ModpacksClient {
	if baseURL == "" {
		baseURL = DefaultModpacksURL
	}
	return &ModpacksClient{http: client, baseURL: baseURL, curse: curse}
}

// SearchResult is one page of pack search matches. IDs are resolved to packs
// with Pack.
type SearchResult struct {
	PackIDs       []int64 `json:"packs"`
	CurseForgeIDs []int64 `json:"curseforge"`
	Total         int     `json:"total"`
	Limit         int     `json:"limit"`
}

// PackSummary is a pack's metadata and version list, newest last as the API
// serves it.
type PackSummary struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Synopsis string           `json:"synopsis"`
	Versions []VersionSummary `json:"versions"`
}

type VersionSummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Updated int64  `json:"updated"`
}

// VersionManifest is a fully resolved pack version: the descriptor plus the
// game version and loader the pack targets.
type VersionManifest struct {
	Descriptor  *types.PackDescriptor
	GameVersion string
	Loader      *types.LoaderSelection
}

type mpVersionManifest struct {
	ID      int64      `json:"id"`
	Parent  int64      `json:"parent"`
	Name    string     `json:"name"`
	Status  string     `json:"status"`
	Files   []mpFile   `json:"files"`
	Targets []mpTarget `json:"targets"`
}

type mpFile struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Path       string      `json:"path"`
	URL        string      `json:"url"`
	SHA1       string      `json:"sha1"`
	Size       int64       `json:"size"`
	ClientOnly bool        `json:"clientonly"`
	ServerOnly bool        `json:"serveronly"`
	Optional   bool        `json:"optional"`
	CurseForge *mpCurseRef `json:"curseforge"`
}

type mpCurseRef struct {
	Project int64 `json:"project"`
	File    int64 `json:"file"`
}

type mpTarget struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Version string `json:"version"`
}

// Search queries packs by term. The API caps limit at 50.
func (c *ModpacksClient) Search(ctx context.Context, term string, limit int) (*SearchResult, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	var result SearchResult
	ref := fmt.Sprintf("%s/modpack/search/%d?term=%s", c.baseURL, limit, term)
	if err := getJSON(ctx, c.http, ref, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Pack fetches a pack's metadata and version list.
func (c *ModpacksClient) Pack(ctx context.Context, packID int64) (*PackSummary, error) {
	var summary PackSummary
	ref := fmt.Sprintf("%s/modpack/%d", c.baseURL, packID)
	if err := getJSON(ctx, c.http, ref, &summary); err != nil {
		return nil, err
	}
	if summary.ID == 0 {
		return nil, errors.Newf(errors.ErrPackNotFound, "no pack with id %d", packID)
	}
	return &summary, nil
}

// Version fetches a version's file manifest and resolves it into a
// descriptor. Server-only files are dropped; entries without a direct URL
// are resolved through CurseForge.
func (c *ModpacksClient) Version(ctx context.Context, packID, versionID int64) (*VersionManifest, error) {
	log := logging.GetLogger("catalog")

	var manifest mpVersionManifest
	ref := fmt.Sprintf("%s/modpack/%d/%d", c.baseURL, packID, versionID)
	if err := getJSON(ctx, c.http, ref, &manifest); err != nil {
		return nil, err
	}
	if manifest.Status == "error" || manifest.ID == 0 {
		return nil, errors.Newf(errors.ErrPackNotFound,
			"no version %d for pack %d", versionID, packID)
	}
	if manifest.Parent != 0 && manifest.Parent != packID {
		return nil, errors.Newf(errors.ErrCatalogMismatch,
			"version %d belongs to pack %d, not %d", versionID, manifest.Parent, packID)
	}

	desc := &types.PackDescriptor{
		PackID:    fmt.Sprintf("%d", packID),
		VersionID: fmt.Sprintf("%d", versionID),
		Name:      manifest.Name,
	}

	var curseRefs []FileRef
	for _, f := range manifest.Files {
		if f.ServerOnly {
			continue
		}
		if f.URL == "" {
			if f.CurseForge == nil {
				log.Warn().Str("file", f.Name).Msg("File has neither URL nor project reference, skipped")
				continue
			}
			curseRefs = append(curseRefs, FileRef{
				ProjectID: f.CurseForge.Project,
				FileID:    f.CurseForge.File,
			})
			continue
		}
		desc.Files = append(desc.Files, types.PackFile{
			Path:     path.Join(cleanDir(f.Path), f.Name),
			Category: categoryForPath(f.Path, f.Type),
			FetchRef: f.URL,
			SHA1:     f.SHA1,
			Size:     f.Size,
		})
	}

	if len(curseRefs) > 0 {
		if c.curse == nil {
			return nil, errors.Newf(errors.ErrCatalogMismatch,
				"pack %d needs a CurseForge API key to resolve %d files", packID, len(curseRefs))
		}
		resolved, err := c.curse.ResolveFiles(ctx, curseRefs)
		if err != nil {
			return nil, err
		}
		desc.Files = append(desc.Files, resolved...)
	}

	return &VersionManifest{
		Descriptor:  desc,
		GameVersion: targetVersion(manifest.Targets, "game"),
		Loader:      loaderTarget(manifest.Targets),
	}, nil
}

// cleanDir normalizes the API's "./mods/" style directory strings.
func cleanDir(dir string) string {
	return strings.Trim(strings.TrimPrefix(dir, "./"), "/")
}

// categoryForPath derives a category from the file's directory, falling back
// to the API's type string.
func categoryForPath(dir, fileType string) types.Category {
	switch top := strings.SplitN(cleanDir(dir), "/", 2)[0]; top {
	case "mods":
		return types.CategoryMod
	case "resourcepacks":
		return types.CategoryResourcePack
	case "shaderpacks":
		return types.CategoryShaderPack
	case "config":
		return types.CategoryConfig
	}
	if fileType == "mod" {
		return types.CategoryMod
	}
	return types.CategoryOther
}

// targetVersion finds the version of a target by type ("game", "modloader").
func targetVersion(targets []mpTarget, targetType string) string {
	for _, t := range targets {
		if t.Type == targetType {
			return t.Version
		}
	}
	return ""
}

// loaderTarget extracts the modloader target, if the pack declares one.
func loaderTarget(targets []mpTarget) *types.LoaderSelection {
	for _, t := range targets {
		if t.Type != "modloader" {
			continue
		}
		name, err := types.ParseLoaderName(t.Name)
		if err != nil {
			logger := logging.GetLogger("catalog")
			logger.Warn().
				Str("loader", t.Name).
				Msg("Pack declares an unsupported loader")
			return nil
		}
		return &types.LoaderSelection{Name: name, Version: t.Version}
	}
	return nil
}
