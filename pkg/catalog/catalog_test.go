package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/transport"
	"github.com/packsmith/packsmith/pkg/types"
)

func newClient() *transport.HTTPFetcher {
	return transport.NewHTTPFetcher(transport.Options{RetryMax: -1})
}

func serve(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, body := range routes {
		body := body
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearch(t *testing.T) {
	srv := serve(t, map[string]string{
		"/modpack/search/50": `{"packs":[23,91],"curseforge":[700312],"total":3,"limit":50}`,
	})

	client := NewModpacksClient(newClient(), srv.URL, nil)
	result, err := client.Search(context.Background(), "skies", 0)
	require.NoError(t, err)

	assert.Equal(t, []int64{23, 91}, result.PackIDs)
	assert.Equal(t, []int64{700312}, result.CurseForgeIDs)
	assert.Equal(t, 3, result.Total)
}

func TestPack(t *testing.T) {
	srv := serve(t, map[string]string{
		"/modpack/23": `{
			"id": 23, "name": "FTB Skies", "synopsis": "sky stuff",
			"versions": [
				{"id": 100, "name": "1.0.0", "type": "release", "updated": 1},
				{"id": 101, "name": "1.1.0", "type": "beta", "updated": 2}
			]
		}`,
	})

	client := NewModpacksClient(newClient(), srv.URL, nil)
	pack, err := client.Pack(context.Background(), 23)
	require.NoError(t, err)

	assert.Equal(t, "FTB Skies", pack.Name)
	require.Len(t, pack.Versions, 2)
	assert.Equal(t, int64(101), pack.Versions[1].ID)
}

func TestPackNotFound(t *testing.T) {
	srv := serve(t, map[string]string{
		"/modpack/999": `{"status":"error","message":"Modpack does not exist"}`,
	})

	client := NewModpacksClient(newClient(), srv.URL, nil)
	_, err := client.Pack(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackNotFound))
}

func TestVersionDirectFiles(t *testing.T) {
	srv := serve(t, map[string]string{
		"/modpack/23/100": `{
			"id": 100, "parent": 23, "name": "1.0.0",
			"files": [
				{"id": 1, "name": "opts.txt", "type": "config", "path": "./config/",
				 "url": "https://cdn/config/opts.txt", "sha1": "aa", "size": 10},
				{"id": 2, "name": "x-1.0.jar", "type": "mod", "path": "./mods/",
				 "url": "https://cdn/mods/x-1.0.jar", "sha1": "bb", "size": 2048},
				{"id": 3, "name": "level.dat", "type": "other", "path": "./world/",
				 "url": "https://cdn/world/level.dat", "sha1": "cc", "size": 5,
				 "serveronly": true}
			],
			"targets": [
				{"name": "minecraft", "type": "game", "version": "1.20.1"},
				{"name": "neoforge", "type": "modloader", "version": "47.1.3"}
			]
		}`,
	})

	client := NewModpacksClient(newClient(), srv.URL, nil)
	manifest, err := client.Version(context.Background(), 23, 100)
	require.NoError(t, err)

	desc := manifest.Descriptor
	assert.Equal(t, "23", desc.PackID)
	assert.Equal(t, "100", desc.VersionID)
	assert.Equal(t, "1.0.0", desc.Name)

	require.Len(t, desc.Files, 2, "server-only files are dropped")
	assert.Equal(t, "config/opts.txt", desc.Files[0].Path)
	assert.Equal(t, types.CategoryConfig, desc.Files[0].Category)
	assert.Equal(t, "mods/x-1.0.jar", desc.Files[1].Path)
	assert.Equal(t, types.CategoryMod, desc.Files[1].Category)

	assert.Equal(t, "1.20.1", manifest.GameVersion)
	require.NotNil(t, manifest.Loader)
	assert.Equal(t, types.LoaderNeoForge, manifest.Loader.Name)
	assert.Equal(t, "47.1.3", manifest.Loader.Version)
}

func TestVersionPackMismatch(t *testing.T) {
	srv := serve(t, map[string]string{
		"/modpack/23/100": `{"id": 100, "parent": 55, "name": "1.0.0", "files": [], "targets": []}`,
	})

	client := NewModpacksClient(newClient(), srv.URL, nil)
	_, err := client.Version(context.Background(), 23, 100)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCatalogMismatch))
}

func TestVersionResolvesCurseForgeFiles(t *testing.T) {
	srv := serve(t, map[string]string{
		"/modpack/23/100": `{
			"id": 100, "parent": 23, "name": "1.0.0",
			"files": [
				{"id": 1, "name": "a-1.0.jar", "type": "mod", "path": "./mods/",
				 "url": "", "sha1": "", "size": 0,
				 "curseforge": {"project": 500, "file": 9000}},
				{"id": 2, "name": "b-1.0.jar", "type": "mod", "path": "./mods/",
				 "url": "", "sha1": "", "size": 0,
				 "curseforge": {"project": 501, "file": 9001}}
			],
			"targets": [{"name": "minecraft", "type": "game", "version": "1.20.1"}]
		}`,
		"/v1/mods/files": `{"data": [
			{"id": 9000, "modId": 500, "fileName": "a-1.0.jar", "fileLength": 100,
			 "downloadUrl": "https://edge.forgecdn.net/a-1.0.jar",
			 "hashes": [{"value": "a1", "algo": 1}, {"value": "m5", "algo": 2}]},
			{"id": 9000, "modId": 500, "fileName": "a-1.0.jar", "fileLength": 100,
			 "downloadUrl": "https://edge.forgecdn.net/a-1.0.jar", "hashes": []},
			{"id": 9001, "modId": 501, "fileName": "b-1.0.jar", "fileLength": 200,
			 "downloadUrl": "", "hashes": []}
		]}`,
		"/v1/mods": `{"data": [
			{"id": 500, "slug": "mod-a", "name": "Mod A", "classId": 6,
			 "allowModDistribution": true,
			 "links": {"websiteUrl": "https://www.curseforge.com/minecraft/mc-mods/mod-a"}},
			{"id": 501, "slug": "mod-b", "name": "Mod B", "classId": 6,
			 "allowModDistribution": false,
			 "links": {"websiteUrl": "https://www.curseforge.com/minecraft/mc-mods/mod-b"}}
		]}`,
	})

	curse := NewCurseForgeClient(newClient(), srv.URL+"/v1")
	client := NewModpacksClient(newClient(), srv.URL, curse)

	manifest, err := client.Version(context.Background(), 23, 100)
	require.NoError(t, err)

	files := manifest.Descriptor.Files
	require.Len(t, files, 2, "duplicate API entry is dropped")

	assert.Equal(t, "mods/a-1.0.jar", files[0].Path)
	assert.Equal(t, "https://edge.forgecdn.net/a-1.0.jar", files[0].FetchRef)
	assert.Equal(t, "a1", files[0].SHA1)
	assert.False(t, files[0].Blocked)

	assert.Equal(t, "mods/b-1.0.jar", files[1].Path)
	assert.True(t, files[1].Blocked)
	assert.Equal(t, "https://www.curseforge.com/minecraft/mc-mods/mod-b/download/9001", files[1].FetchRef)
}

func TestVersionCurseForgeFilesWithoutClient(t *testing.T) {
	srv := serve(t, map[string]string{
		"/modpack/23/100": `{
			"id": 100, "parent": 23, "name": "1.0.0",
			"files": [
				{"id": 1, "name": "a-1.0.jar", "type": "mod", "path": "./mods/",
				 "url": "", "curseforge": {"project": 500, "file": 9000}}
			],
			"targets": []
		}`,
	})

	client := NewModpacksClient(newClient(), srv.URL, nil)
	_, err := client.Version(context.Background(), 23, 100)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCatalogMismatch))
}

func TestResolveFilesClassifiesByClassID(t *testing.T) {
	srv := serve(t, map[string]string{
		"/v1/mods/files": `{"data": [
			{"id": 1, "modId": 10, "fileName": "a.jar", "downloadUrl": "https://cdn/a.jar", "hashes": []},
			{"id": 2, "modId": 11, "fileName": "b.zip", "downloadUrl": "https://cdn/b.zip", "hashes": []},
			{"id": 3, "modId": 12, "fileName": "c.zip", "downloadUrl": "https://cdn/c.zip", "hashes": []},
			{"id": 4, "modId": 13, "fileName": "d.zip", "downloadUrl": "https://cdn/d.zip", "hashes": []}
		]}`,
		"/v1/mods": `{"data": [
			{"id": 10, "classId": 6, "links": {}},
			{"id": 11, "classId": 12, "links": {}},
			{"id": 12, "classId": 6552, "links": {}},
			{"id": 13, "classId": 6945, "links": {}}
		]}`,
	})

	curse := NewCurseForgeClient(newClient(), srv.URL+"/v1")
	files, err := curse.ResolveFiles(context.Background(), []FileRef{
		{ProjectID: 10, FileID: 1}, {ProjectID: 11, FileID: 2},
		{ProjectID: 12, FileID: 3}, {ProjectID: 13, FileID: 4},
	})
	require.NoError(t, err)
	require.Len(t, files, 4)

	assert.Equal(t, "mods/a.jar", files[0].Path)
	assert.Equal(t, types.CategoryMod, files[0].Category)
	assert.Equal(t, "resourcepacks/b.zip", files[1].Path)
	assert.Equal(t, types.CategoryResourcePack, files[1].Category)
	assert.Equal(t, "shaderpacks/c.zip", files[2].Path)
	assert.Equal(t, types.CategoryShaderPack, files[2].Category)
	assert.Equal(t, "datapacks/d.zip", files[3].Path)
	assert.Equal(t, types.CategoryOther, files[3].Category)
}

func TestResolveFilesEmpty(t *testing.T) {
	curse := NewCurseForgeClient(newClient(), "http://127.0.0.1:1/v1")
	files, err := curse.ResolveFiles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, files, "no request is made for an empty id list")
}

func TestLoaderVersionsFiltersByGameVersion(t *testing.T) {
	srv := serve(t, map[string]string{
		"/v1/net.minecraftforge/index.json": `{"versions": [
			{"version": "47.2.0", "recommended": false, "sha256": "s1",
			 "requires": [{"uid": "net.minecraft", "equals": "1.20.1"}]},
			{"version": "47.1.3", "recommended": true, "sha256": "s2",
			 "requires": [{"uid": "net.minecraft", "equals": "1.20.1"}]},
			{"version": "40.2.0", "recommended": true, "sha256": "s3",
			 "requires": [{"uid": "net.minecraft", "equals": "1.18.2"}]}
		]}`,
	})

	index := NewLoaderIndex(newClient(), map[types.LoaderName]string{
		types.LoaderForge: srv.URL + "/v1/net.minecraftforge/index.json",
	})

	versions, err := index.LoaderVersions(context.Background(), types.LoaderForge, "1.20.1")
	require.NoError(t, err)
	require.Len(t, versions, 2)

	assert.Equal(t, "47.2.0", versions[0].Version)
	assert.True(t, versions[1].Recommended)
	assert.Equal(t, srv.URL+"/v1/net.minecraftforge/47.2.0.json", versions[0].InstallerRef)
	assert.Equal(t, "s1", versions[0].SHA256)
}

func TestLoaderVersionsUnknownLoader(t *testing.T) {
	index := &LoaderIndex{http: newClient(), indexURL: map[types.LoaderName]string{}}

	_, err := index.LoaderVersions(context.Background(), types.LoaderForge, "1.20.1")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLoaderUnknown))
}
