// Package sync applies a change set to an instance's game directory and
// persists the resulting manifest. The ordering contract is strict: every
// fetch lands on disk before the first removal happens, so a failed run never
// costs the user files they already had.
package sync

import (
	"context"
	"io"
	"io/fs"
	"path/filepath"

	stderrors "errors"

	"golang.org/x/sync/errgroup"

	"github.com/packsmith/packsmith/pkg/diff"
	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/internal/hashutil"
	"github.com/packsmith/packsmith/pkg/logging"
	"github.com/packsmith/packsmith/pkg/manifest"
	"github.com/packsmith/packsmith/pkg/types"
)

// DefaultConcurrency bounds parallel fetches when Options.Concurrency is not
// set.
const DefaultConcurrency = 4

// partSuffix marks in-flight downloads. A *.part file is never referenced by
// a persisted manifest and may be deleted at any time.
const partSuffix = ".part"

// Fetcher retrieves the content behind a fetch reference. Implementations
// classify failures as FETCH_TRANSIENT, FETCH_PERMANENT or UNAUTHORIZED so
// callers can decide whether re-running the sync is worthwhile.
type Fetcher interface {
	Fetch(ctx context.Context, ref string, dest io.Writer) error
}

// Progress receives fetch lifecycle events. Implementations must tolerate
// concurrent Advance calls. The CLI wires a progress bar here; library
// callers usually pass nil.
type Progress interface {
	Start(total int)
	Advance(file types.PackFile)
	Finish()
}

// Target names the directories a sync operates on. InstanceDir holds the
// manifest; GameDir is where tracked files live, with manifest paths relative
// to it.
type Target struct {
	InstanceDir string
	GameDir     string
}

// Warning is a non-fatal condition encountered during apply. Warnings never
// abort a sync; the caller decides how loudly to surface them.
type Warning struct {
	Path   string
	Reason string
	Err    error
}

func (w Warning) String() string {
	if w.Err != nil {
		return w.Path + ": " + w.Reason + ": " + w.Err.Error()
	}
	return w.Path + ": " + w.Reason
}

// Options tune a Synchronizer.
type Options struct {
	// Concurrency bounds parallel fetches; <= 0 means DefaultConcurrency.
	Concurrency int
	// Progress receives fetch events; nil disables reporting.
	Progress Progress
}

// Synchronizer moves an instance from its installed file set to a
// descriptor's file set.
type Synchronizer struct {
	fs       types.FS
	store    *manifest.Store
	fetcher  Fetcher
	progress Progress
	workers  int
}

// New creates a synchronizer over the given filesystem and transport.
func New(filesystem types.FS, fetcher Fetcher, opts Options) *Synchronizer {
	workers := opts.Concurrency
	if workers <= 0 {
		workers = DefaultConcurrency
	}
	progress := opts.Progress
	if progress == nil {
		progress = noopProgress{}
	}
	return &Synchronizer{
		fs:       filesystem,
		store:    manifest.NewStore(filesystem),
		fetcher:  fetcher,
		progress: progress,
		workers:  workers,
	}
}

// Apply brings the target's game directory in line with the descriptor and
// persists the new manifest. The phases run strictly in order:
//
//  1. fetch every added and updated file (bounded parallel, temp file plus
//     rename); any failure aborts here with the old manifest untouched
//  2. remove files absent from the descriptor; failures become warnings
//  3. persist the new manifest; failure is ErrManifestPersist, which means
//     the directory matches the descriptor but the record does not
//
// Blocked files are never fetched: they are excluded from the new manifest
// and reported as warnings carrying their manual-download reference.
func (s *Synchronizer) Apply(ctx context.Context, target Target, old *types.Manifest, desc *types.PackDescriptor) (*types.Manifest, []Warning, error) {
	log := logging.GetLogger("sync")

	cs := diff.Compute(old, desc)

	var warnings []Warning
	fetches := make([]types.PackFile, 0, cs.FetchCount())
	for _, f := range append(append([]types.PackFile{}, cs.ToAdd...), cs.ToUpdate...) {
		if f.Blocked {
			warnings = append(warnings, Warning{
				Path:   f.Path,
				Reason: "blocked upstream, download manually from " + f.FetchRef,
			})
			continue
		}
		fetches = append(fetches, f)
	}

	log.Info().
		Str("pack", desc.PackID).
		Str("version", desc.VersionID).
		Int("fetch", len(fetches)).
		Int("remove", len(cs.ToRemove)).
		Int("blocked", len(warnings)).
		Msg("Applying change set")

	if err := s.fetchAll(ctx, target, fetches); err != nil {
		return nil, warnings, err
	}

	for _, e := range cs.ToRemove {
		path := filepath.Join(target.GameDir, filepath.FromSlash(e.Path))
		err := s.fs.Remove(path)
		if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("path", e.Path).Err(err).Msg("Could not remove stale file")
			warnings = append(warnings, Warning{
				Path:   e.Path,
				Reason: "could not remove stale file",
				Err:    errors.Wrapf(err, errors.ErrRemovalFailed, "remove %s", e.Path),
			})
		}
	}

	next := s.buildManifest(desc)
	if err := s.store.Save(target.InstanceDir, next); err != nil {
		return nil, warnings, err
	}

	log.Info().
		Str("pack", desc.PackID).
		Str("version", desc.VersionID).
		Int("files", len(next.Files)).
		Msg("Sync complete")

	return next, warnings, nil
}

// fetchAll downloads every file into place. Each download streams to a .part
// sibling and is renamed over the final path only once complete, so a crash
// or cancellation mid-fetch leaves prior content intact.
func (s *Synchronizer) fetchAll(ctx context.Context, target Target, files []types.PackFile) error {
	if len(files) == 0 {
		return nil
	}

	s.progress.Start(len(files))
	defer s.progress.Finish()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := s.fetchOne(ctx, target, f); err != nil {
				return err
			}
			s.progress.Advance(f)
			return nil
		})
	}

	return g.Wait()
}

func (s *Synchronizer) fetchOne(ctx context.Context, target Target, f types.PackFile) error {
	dest := filepath.Join(target.GameDir, filepath.FromSlash(f.Path))
	part := dest + partSuffix

	if err := s.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFetchPermanent, "prepare directory for %s", f.Path)
	}

	w, err := s.fs.Create(part)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFetchPermanent, "stage download for %s", f.Path)
	}

	hashed := hashutil.NewSHA1Writer(w)
	if err := s.fetcher.Fetch(ctx, f.FetchRef, hashed); err != nil {
		w.Close()
		s.discard(part)
		return err
	}
	if err := w.Close(); err != nil {
		s.discard(part)
		return errors.Wrapf(err, errors.ErrFetchTransient, "finish download for %s", f.Path)
	}

	if !hashutil.Matches(f.SHA1, hashed.Sum()) {
		s.discard(part)
		return errors.Newf(errors.ErrFetchTransient, "checksum mismatch for %s", f.Path).
			WithDetail("expected", f.SHA1).
			WithDetail("actual", hashed.Sum())
	}

	if err := s.fs.Rename(part, dest); err != nil {
		s.discard(part)
		return errors.Wrapf(err, errors.ErrFetchPermanent, "move %s into place", f.Path)
	}

	logger := logging.GetLogger("sync")
	logger.Debug().Str("path", f.Path).Msg("Fetched")
	return nil
}

// discard best-effort removes a stale temp file.
func (s *Synchronizer) discard(part string) {
	if err := s.fs.Remove(part); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		logger := logging.GetLogger("sync")
		logger.Debug().Str("path", part).Err(err).Msg("Could not discard temp file")
	}
}

// buildManifest derives the manifest to persist from the descriptor's full
// listing, not from the change set, so unchanged files stay tracked. Blocked
// files are excluded: the manifest never claims a file the sync did not
// place.
func (s *Synchronizer) buildManifest(desc *types.PackDescriptor) *types.Manifest {
	entries := []types.ManifestEntry{}
	for _, f := range diff.Dedupe(desc) {
		if f.Blocked {
			continue
		}
		entries = append(entries, f.Entry())
	}
	return &types.Manifest{
		PackID:      desc.PackID,
		PackVersion: desc.VersionID,
		Files:       entries,
	}
}

type noopProgress struct{}

func (noopProgress) Start(int)              {}
func (noopProgress) Advance(types.PackFile) {}
func (noopProgress) Finish()                {}
