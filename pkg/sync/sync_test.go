package sync

import (
	"context"
	"io"
	"io/fs"
	"sort"
	stdsync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/manifest"
	"github.com/packsmith/packsmith/pkg/testutil"
	"github.com/packsmith/packsmith/pkg/types"
)

// fakeFetcher writes the ref string as the file content and records every
// ref it was asked for. Refs present in fail return their injected error.
type fakeFetcher struct {
	mu    stdsync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeFetcher) Fetch(ctx context.Context, ref string, dest io.Writer) error {
	f.mu.Lock()
	f.calls = append(f.calls, ref)
	f.mu.Unlock()

	if err := f.fail[ref]; err != nil {
		return err
	}
	_, err := io.WriteString(dest, ref)
	return err
}

func (f *fakeFetcher) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.calls...)
	sort.Strings(out)
	return out
}

var target = Target{
	InstanceDir: "/instances/alpha",
	GameDir:     "/instances/alpha/game",
}

func TestApplyFreshInstall(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	fetcher := &fakeFetcher{}
	syncer := New(mfs, fetcher, Options{})

	desc := testutil.DescriptorOf("skyfall", "v1",
		testutil.File("mods/a-1.0.jar", types.CategoryMod, ""),
		testutil.File("configs/opts.txt", types.CategoryConfig, ""),
	)

	next, warnings, err := syncer.Apply(context.Background(), target, types.Empty(), desc)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.True(t, mfs.Exists("/instances/alpha/game/mods/a-1.0.jar"))
	assert.True(t, mfs.Exists("/instances/alpha/game/configs/opts.txt"))

	require.Len(t, next.Files, 2)
	assert.Equal(t, "skyfall", next.PackID)
	assert.Equal(t, "v1", next.PackVersion)

	// The persisted manifest matches the returned one.
	saved, err := manifest.NewStore(mfs).Load(target.InstanceDir)
	require.NoError(t, err)
	assert.Equal(t, next, saved)
}

func TestApplyIsIdempotent(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	fetcher := &fakeFetcher{}
	syncer := New(mfs, fetcher, Options{})

	desc := testutil.DescriptorOf("skyfall", "v1",
		testutil.File("mods/a-1.0.jar", types.CategoryMod, ""),
	)

	first, _, err := syncer.Apply(context.Background(), target, types.Empty(), desc)
	require.NoError(t, err)
	require.Len(t, fetcher.fetched(), 1)

	second, warnings, err := syncer.Apply(context.Background(), target, first, desc)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, first, second)
	assert.Len(t, fetcher.fetched(), 1, "second run must not fetch anything")
}

func TestApplyVersionBump(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	fetcher := &fakeFetcher{}
	syncer := New(mfs, fetcher, Options{})

	v1 := testutil.DescriptorOf("skyfall", "v1",
		testutil.File("configs/opts.txt", types.CategoryConfig, ""),
		testutil.File("mods/x-1.0.jar", types.CategoryMod, ""),
	)
	old, _, err := syncer.Apply(context.Background(), target, types.Empty(), v1)
	require.NoError(t, err)

	v2 := testutil.DescriptorOf("skyfall", "v2",
		testutil.File("configs/opts.txt", types.CategoryConfig, ""),
		testutil.File("mods/x-1.1.jar", types.CategoryMod, ""),
	)
	next, warnings, err := syncer.Apply(context.Background(), target, old, v2)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.True(t, mfs.Exists("/instances/alpha/game/mods/x-1.1.jar"))
	assert.False(t, mfs.Exists("/instances/alpha/game/mods/x-1.0.jar"))
	assert.True(t, mfs.Exists("/instances/alpha/game/configs/opts.txt"))
	assert.Equal(t, "v2", next.PackVersion)
}

func TestApplyFetchFailureLeavesOldStateIntact(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	fetcher := &fakeFetcher{}
	syncer := New(mfs, fetcher, Options{})
	store := manifest.NewStore(mfs)

	v1 := testutil.DescriptorOf("skyfall", "v1",
		testutil.File("mods/x-1.0.jar", types.CategoryMod, ""),
	)
	old, _, err := syncer.Apply(context.Background(), target, types.Empty(), v1)
	require.NoError(t, err)

	badRef := "https://cdn.example.com/mods/x-1.1.jar"
	fetcher.fail = map[string]error{
		badRef: errors.New(errors.ErrFetchTransient, "503 from cdn"),
	}

	v2 := testutil.DescriptorOf("skyfall", "v2",
		testutil.File("mods/x-1.1.jar", types.CategoryMod, ""),
	)
	_, _, err = syncer.Apply(context.Background(), target, old, v2)
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))

	// The file slated for removal was never touched, the manifest on disk
	// still describes v1, and no temp file is left behind.
	assert.True(t, mfs.Exists("/instances/alpha/game/mods/x-1.0.jar"))
	assert.False(t, mfs.Exists("/instances/alpha/game/mods/x-1.1.jar"))
	assert.False(t, mfs.Exists("/instances/alpha/game/mods/x-1.1.jar.part"))

	saved, err := store.Load(target.InstanceDir)
	require.NoError(t, err)
	assert.Equal(t, "v1", saved.PackVersion)
}

func TestApplyChecksumMismatchAborts(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	fetcher := &fakeFetcher{}
	syncer := New(mfs, fetcher, Options{})

	bad := testutil.File("mods/a-1.0.jar", types.CategoryMod, "")
	bad.SHA1 = "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef"
	desc := testutil.DescriptorOf("skyfall", "v1", bad)

	_, _, err := syncer.Apply(context.Background(), target, types.Empty(), desc)
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
	assert.False(t, mfs.Exists("/instances/alpha/game/mods/a-1.0.jar"))
	assert.False(t, mfs.Exists("/instances/alpha/game/mods/a-1.0.jar.part"))
}

func TestApplyRemovalFailureIsWarning(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	fetcher := &fakeFetcher{}
	syncer := New(mfs, fetcher, Options{})

	v1 := testutil.DescriptorOf("skyfall", "v1",
		testutil.File("mods/x-1.0.jar", types.CategoryMod, ""),
	)
	old, _, err := syncer.Apply(context.Background(), target, types.Empty(), v1)
	require.NoError(t, err)

	mfs.FailWith("remove", "/instances/alpha/game/mods/x-1.0.jar", fs.ErrPermission)

	v2 := testutil.DescriptorOf("skyfall", "v2",
		testutil.File("mods/x-1.1.jar", types.CategoryMod, ""),
	)
	next, warnings, err := syncer.Apply(context.Background(), target, old, v2)
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, "mods/x-1.0.jar", warnings[0].Path)
	assert.True(t, errors.IsErrorCode(warnings[0].Err, errors.ErrRemovalFailed))

	// The new manifest does not track the file that failed to go away.
	require.Len(t, next.Files, 1)
	assert.Equal(t, "mods/x-1.1.jar", next.Files[0].Path)
}

func TestApplyMissingRemovalIsSilent(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	fetcher := &fakeFetcher{}
	syncer := New(mfs, fetcher, Options{})

	// Manifest claims a file the user already deleted by hand.
	old := testutil.ManifestOf("skyfall", "v1",
		testutil.Entry("mods/gone.jar", types.CategoryMod, ""),
	)
	desc := testutil.DescriptorOf("skyfall", "v2")

	_, warnings, err := syncer.Apply(context.Background(), target, old, desc)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestApplyBlockedFileSkipped(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	fetcher := &fakeFetcher{}
	syncer := New(mfs, fetcher, Options{})

	blocked := types.PackFile{
		Path:     "mods/handmade.jar",
		Category: types.CategoryMod,
		FetchRef: "https://example.com/mods/handmade/download",
		Blocked:  true,
	}
	desc := testutil.DescriptorOf("skyfall", "v1",
		testutil.File("mods/a-1.0.jar", types.CategoryMod, ""),
		blocked,
	)

	next, warnings, err := syncer.Apply(context.Background(), target, types.Empty(), desc)
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, "mods/handmade.jar", warnings[0].Path)
	assert.Contains(t, warnings[0].Reason, blocked.FetchRef)

	assert.Len(t, fetcher.fetched(), 1)
	require.Len(t, next.Files, 1)
	assert.Equal(t, "mods/a-1.0.jar", next.Files[0].Path)
}

func TestApplyManifestPersistFailure(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	fetcher := &fakeFetcher{}
	syncer := New(mfs, fetcher, Options{})

	mfs.FailWith("write", "/instances/alpha/pack-manifest.json", fs.ErrPermission)

	desc := testutil.DescriptorOf("skyfall", "v1",
		testutil.File("mods/a-1.0.jar", types.CategoryMod, ""),
	)

	_, _, err := syncer.Apply(context.Background(), target, types.Empty(), desc)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestPersist))

	// The files themselves did land; only the record is stale.
	assert.True(t, mfs.Exists("/instances/alpha/game/mods/a-1.0.jar"))
}

func TestApplyEmptyChangeSetStillPersistsVersion(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	fetcher := &fakeFetcher{}
	syncer := New(mfs, fetcher, Options{})

	old := testutil.ManifestOf("skyfall", "v1",
		testutil.Entry("mods/a.jar", types.CategoryMod, ""),
	)
	// Same file set under a new version id.
	desc := testutil.DescriptorOf("skyfall", "v2",
		testutil.File("mods/a.jar", types.CategoryMod, ""),
	)

	next, warnings, err := syncer.Apply(context.Background(), target, old, desc)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, fetcher.fetched())
	assert.Equal(t, "v2", next.PackVersion)
}

func TestApplyProgressEvents(t *testing.T) {
	mfs := testutil.NewMemoryFS()
	fetcher := &fakeFetcher{}
	progress := &recordingProgress{}
	syncer := New(mfs, fetcher, Options{Progress: progress, Concurrency: 2})

	desc := testutil.DescriptorOf("skyfall", "v1",
		testutil.File("mods/a.jar", types.CategoryMod, ""),
		testutil.File("mods/b.jar", types.CategoryMod, ""),
		testutil.File("mods/c.jar", types.CategoryMod, ""),
	)

	_, _, err := syncer.Apply(context.Background(), target, types.Empty(), desc)
	require.NoError(t, err)

	assert.Equal(t, 3, progress.total)
	assert.Equal(t, 3, progress.advanced)
	assert.True(t, progress.finished)
}

type recordingProgress struct {
	mu       stdsync.Mutex
	total    int
	advanced int
	finished bool
}

func (p *recordingProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

func (p *recordingProgress) Advance(types.PackFile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advanced++
}

func (p *recordingProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = true
}
