// Package dupes finds artifacts that are probably the same mod, resource
// pack or shader pack at different versions. It only reports; nothing is
// ever deleted here.
package dupes

import (
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	stderrors "errors"

	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/logging"
	"github.com/packsmith/packsmith/pkg/types"
)

// DefaultVersionPattern strips a trailing version-ish token from a filename
// stem: a '-' or '_' separator followed by an optional 'v' and a digit-led
// run. "mod-a-1.0" and "mod-a-1.2" both reduce to "mod-a"; "mod-b" stays as
// is.
const DefaultVersionPattern = `[-_]v?\d[\w.]*$`

// artifactDirs are the game subdirectories scanned for duplicates, one per
// artifact category.
var artifactDirs = []string{"mods", "resourcepacks", "shaderpacks"}

// Config tunes the detector. VersionPattern overrides the suffix-stripping
// regexp; empty means DefaultVersionPattern.
type Config struct {
	VersionPattern string
}

// Group is a set of files sharing a logical identity. Paths are relative to
// the game directory, sorted lexicographically.
type Group struct {
	Identity string
	Paths    []string
}

// Detector scans a game directory for same-identity artifacts.
type Detector struct {
	fs      types.FS
	pattern *regexp.Regexp
}

// New creates a detector. An invalid VersionPattern is ErrInvalidInput.
func New(filesystem types.FS, cfg Config) (*Detector, error) {
	expr := cfg.VersionPattern
	if expr == "" {
		expr = DefaultVersionPattern
	}
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"invalid duplicate version pattern %q", expr)
	}
	return &Detector{fs: filesystem, pattern: pattern}, nil
}

// Scan walks the artifact directories under gameDir and returns every
// identity carried by more than one file. Missing directories are skipped;
// groups are ordered by identity, members by path, so repeated scans of the
// same tree always agree.
func (d *Detector) Scan(gameDir string) ([]Group, error) {
	log := logging.GetLogger("dupes")

	byIdentity := map[string][]string{}
	for _, dir := range artifactDirs {
		entries, err := d.fs.ReadDir(filepath.Join(gameDir, dir))
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrInternal, "scan %s", dir)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			id := d.identity(dir, entry.Name())
			byIdentity[id] = append(byIdentity[id], path.Join(dir, entry.Name()))
		}
	}

	var groups []Group
	for id, paths := range byIdentity {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		groups = append(groups, Group{Identity: id, Paths: paths})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Identity < groups[j].Identity
	})

	log.Debug().
		Str("gameDir", gameDir).
		Int("groups", len(groups)).
		Msg("Duplicate scan complete")

	return groups, nil
}

// identity reduces a filename to the name the artifact would keep across
// version bumps: extension dropped, trailing version token stripped,
// lowercased, qualified by the directory so mods never collide with packs.
func (d *Detector) identity(dir, name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = d.pattern.ReplaceAllString(stem, "")
	return dir + "/" + strings.ToLower(stem)
}
