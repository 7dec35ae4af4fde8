package snapshot

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/nativizer/internal/output"
	"github.com/cmmoran/nativizer/pkg/action/generate"
	"github.com/cmmoran/nativizer/pkg/generator"
	"github.com/cmmoran/nativizer/pkg/manifest"
)

var ErrNoPrevious = errors.New("no current/previous snapshots recorded")

// Record runs a generation batch, stores every generated file in the blob
// store next to the manifest and records the snapshot.
func Record(ctx context.Context, opts *generator.Options, manifestPath, snapshotName, snapshotVersion string) (*manifest.Snapshot, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	res, err := generate.Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	blobs := manifest.Blobs(manifestPath)
	s := manifest.Snapshot{Name: snapshotName, Version: snapshotVersion, Input: opts.Input, OutDir: opts.OutDir}
	for _, u := range res.Units() {
		files := output.Files(u)
		for _, name := range slices.Sorted(maps.Keys(files)) {
			f, err := blobs.Put(name, []byte(files[name]))
			if err != nil {
				return nil, err
			}
			s.Files = append(s.Files, f)
		}
	}
	m.AddSnapshot(s)

	if err := m.Save(manifestPath); err != nil {
		return nil, err
	}

	return m.Snapshot(snapshotVersion), nil
}

// List returns all snapshots recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// DiffCurrentWithPrevious loads the manifest, locates the current and previous
// snapshots, and returns a textual diff of every file whose content changed.
// Files present on one side only are diffed against an empty file.
func DiffCurrentWithPrevious(manifestPath string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return "", ErrNoPrevious
	}

	current := m.Snapshot(m.CurrentVersion)
	previous := m.Snapshot(m.PreviousVersion)

	if current == nil || previous == nil {
		return "", fmt.Errorf("snapshots not found in manifest")
	}

	blobs := manifest.Blobs(manifestPath)
	names := make(map[string]bool)
	for _, s := range []*manifest.Snapshot{previous, current} {
		for _, f := range s.Files {
			names[f.Name] = true
		}
	}

	var sb strings.Builder
	for _, name := range slices.Sorted(maps.Keys(names)) {
		before, okBefore := previous.File(name)
		after, okAfter := current.File(name)
		if okBefore && okAfter && before.Checksum == after.Checksum {
			continue
		}
		prev, err := load(blobs, before, okBefore)
		if err != nil {
			return "", err
		}
		cur, err := load(blobs, after, okAfter)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "%s (%s -> %s)\n%s", name, m.PreviousVersion, m.CurrentVersion, cmp.Diff(prev, cur))
	}

	return sb.String(), nil
}

func load(blobs *manifest.BlobStore, f manifest.File, ok bool) (string, error) {
	if !ok {
		return "", nil
	}
	data, err := blobs.Get(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
