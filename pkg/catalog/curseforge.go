package catalog

import (
	"context"
	"fmt"
	"path"
	"sort"

	"github.com/packsmith/packsmith/pkg/logging"
	"github.com/packsmith/packsmith/pkg/types"
)

// DefaultCurseForgeURL is the public CurseForge API root. Requests need an
// x-api-key header, supplied through the transport's extra headers.
const DefaultCurseForgeURL = "https://api.curseforge.com/v1"

// CurseForge class ids. Nothing else in the file or mod payload tells a mod
// apart from a resource pack, so the mapping is by id.
const (
	classMod          = 6
	classResourcePack = 12
	classShaderPack   = 6552
	classDatapack     = 6945
)

// FileRef identifies one file on CurseForge: the project it belongs to and
// the concrete file id.
type FileRef struct {
	ProjectID int64
	FileID    int64
}

// CurseForgeClient resolves CurseForge file references into fetchable pack
// files.
type CurseForgeClient struct {
	http    httpClient
	baseURL string
}

// NewCurseForgeClient creates a client against baseURL; empty means
// DefaultCurseForgeURL.
func NewCurseForgeClient(client httpClient, baseURL string) *CurseForgeClient {
	if baseURL == "" {
		baseURL = DefaultCurseForgeURL
	}
	return &CurseForgeClient{http: client, baseURL: baseURL}
}

type cfResponse[T any] struct {
	Data T `json:"data"`
}

type cfFile struct {
	ID          int64    `json:"id"`
	ModID       int64    `json:"modId"`
	FileName    string   `json:"fileName"`
	FileLength  int64    `json:"fileLength"`
	DownloadURL string   `json:"downloadUrl"`
	Hashes      []cfHash `json:"hashes"`
}

type cfHash struct {
	Value string `json:"value"`
	Algo  int    `json:"algo"`
}

const cfAlgoSHA1 = 1

func (f cfFile) sha1() string {
	for _, h := range f.Hashes {
		if h.Algo == cfAlgoSHA1 {
			return h.Value
		}
	}
	return ""
}

type cfMod struct {
	ID                   int64   `json:"id"`
	Slug                 string  `json:"slug"`
	Name                 string  `json:"name"`
	ClassID              int64   `json:"classId"`
	AllowModDistribution *bool   `json:"allowModDistribution"`
	Links                cfLinks `json:"links"`
}

type cfLinks struct {
	WebsiteURL string `json:"websiteUrl"`
}

// files fetches file metadata for the given ids. The API sometimes returns
// the same file twice; duplicates are dropped.
func (c *CurseForgeClient) files(ctx context.Context, ids []int64) ([]cfFile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var resp cfResponse[[]cfFile]
	err := postJSON(ctx, c.http, c.baseURL+"/mods/files",
		map[string][]int64{"fileIds": ids}, &resp)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(resp.Data))
	out := resp.Data[:0]
	for _, f := range resp.Data {
		if seen[f.ID] {
			logger := logging.GetLogger("catalog")
			logger.Warn().
				Int64("fileId", f.ID).
				Msg("Duplicate file entry in API response, dropped")
			continue
		}
		seen[f.ID] = true
		out = append(out, f)
	}
	return out, nil
}

// mods fetches project metadata for the given ids.
func (c *CurseForgeClient) mods(ctx context.Context, ids []int64) ([]cfMod, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var resp cfResponse[[]cfMod]
	err := postJSON(ctx, c.http, c.baseURL+"/mods",
		map[string][]int64{"modIds": ids}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ResolveFiles turns CurseForge file references into pack files. Files whose
// project has distribution disabled come back Blocked, with the project's
// manual download page as the fetch reference.
func (c *CurseForgeClient) ResolveFiles(ctx context.Context, refs []FileRef) ([]types.PackFile, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	fileIDs := make([]int64, 0, len(refs))
	projectIDs := make([]int64, 0, len(refs))
	for _, r := range refs {
		fileIDs = append(fileIDs, r.FileID)
		projectIDs = append(projectIDs, r.ProjectID)
	}

	files, err := c.files(ctx, fileIDs)
	if err != nil {
		return nil, err
	}
	mods, err := c.mods(ctx, projectIDs)
	if err != nil {
		return nil, err
	}

	modsByID := make(map[int64]cfMod, len(mods))
	for _, m := range mods {
		modsByID[m.ID] = m
	}

	// Stable output order regardless of API response order.
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })

	out := make([]types.PackFile, 0, len(files))
	for _, f := range files {
		mod, ok := modsByID[f.ModID]
		if !ok {
			logger := logging.GetLogger("catalog")
			logger.Warn().
				Int64("fileId", f.ID).
				Int64("projectId", f.ModID).
				Msg("File references unknown project, skipped")
			continue
		}
		out = append(out, c.packFile(f, mod))
	}
	return out, nil
}

func (c *CurseForgeClient) packFile(f cfFile, mod cfMod) types.PackFile {
	category, dir := classify(mod.ClassID)

	pf := types.PackFile{
		Path:     path.Join(dir, f.FileName),
		Category: category,
		FetchRef: f.DownloadURL,
		SHA1:     f.sha1(),
		Size:     f.FileLength,
	}

	blocked := f.DownloadURL == "" ||
		(mod.AllowModDistribution != nil && !*mod.AllowModDistribution)
	if blocked {
		pf.Blocked = true
		pf.FetchRef = fmt.Sprintf("%s/download/%d", mod.Links.WebsiteURL, f.ID)
	}
	return pf
}

// classify maps a CurseForge class id to a category and its game
// subdirectory. Unknown ids land in the game dir root as CategoryOther
// rather than failing the whole pack.
func classify(classID int64) (types.Category, string) {
	switch classID {
	case classMod:
		return types.CategoryMod, "mods"
	case classResourcePack:
		return types.CategoryResourcePack, "resourcepacks"
	case classShaderPack:
		return types.CategoryShaderPack, "shaderpacks"
	case classDatapack:
		return types.CategoryOther, "datapacks"
	default:
		logger := logging.GetLogger("catalog")
		logger.Warn().
			Int64("classId", classID).
			Msg("Unknown class id, treating as plain file")
		return types.CategoryOther, ""
	}
}
