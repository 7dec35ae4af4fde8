package manifest

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "manifest.yaml")

	m, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, m.Snapshots)

	m.AddSnapshot(Snapshot{Name: "base", Version: "v1", Files: []File{{Name: "B.cpp"}, {Name: "A.cpp"}}})
	m.AddSnapshot(Snapshot{Name: "base", Version: "v2"})
	m.AddSnapshot(Snapshot{Name: "base", Version: "v2", Input: "dump.yaml"})
	require.NoError(t, m.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	want := &Manifest{
		CurrentVersion:  "v2",
		PreviousVersion: "v1",
		Snapshots: []Snapshot{
			{Name: "base", Version: "v1", Files: []File{{Name: "A.cpp"}, {Name: "B.cpp"}}},
			{Name: "base", Version: "v2", Input: "dump.yaml"},
		},
	}
	require.Equalf(t, want, got, "diff: %s", cmp.Diff(want, got))

	s := got.Snapshot("v1")
	require.NotNil(t, s)
	f, ok := s.File("B.cpp")
	require.True(t, ok)
	require.Equal(t, "B.cpp", f.Name)
	require.Nil(t, got.Snapshot("v3"))
}

func TestBlobStore(t *testing.T) {
	store := Blobs(filepath.Join(t.TempDir(), "manifest.yaml"))
	data := []byte("ADoor::ADoor(const FObjectInitializer& ObjectInitializer) : Super(ObjectInitializer)\n{\n}\n")

	f, err := store.Put("ADoor.cpp", data)
	require.NoError(t, err)
	require.Equal(t, Checksum(data), f.Checksum)
	require.Equal(t, len(data), f.Size)
	require.Len(t, f.Checksum, 16)

	again, err := store.Put("Copy.cpp", data)
	require.NoError(t, err)
	require.Equal(t, f.Checksum, again.Checksum)

	got, err := store.Get(f)
	require.NoError(t, err)
	require.Equal(t, data, got)

	_, err = store.Get(File{Name: "missing", Checksum: Checksum([]byte("nope"))})
	require.ErrorIs(t, err, ErrBlobNotFound)
}

func TestSize(t *testing.T) {
	require.Equal(t, "12B", Size(12))
	require.Equal(t, "1.5KiB", Size(1536))
	require.Equal(t, "2.0MiB", Size(2<<20))
}
