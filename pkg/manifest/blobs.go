package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/xxh3"
)

var ErrBlobNotFound = errors.New("blob not found")

var (
	encoderOnce sync.Once
	encoder     *zstd.Encoder
	decoderOnce sync.Once
	decoder     *zstd.Decoder
)

func zstdEncoder() *zstd.Encoder {
	encoderOnce.Do(func() {
		// Only fails on invalid options.
		encoder, _ = zstd.NewWriter(nil)
	})
	return encoder
}

func zstdDecoder() *zstd.Decoder {
	decoderOnce.Do(func() {
		decoder, _ = zstd.NewReader(nil)
	})
	return decoder
}

// Checksum is the content hash used to key blobs and compare files.
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}

// BlobStore keeps zstd-compressed file contents addressed by checksum.
type BlobStore struct {
	Dir string
}

// Blobs returns the store that lives next to the manifest at manifestPath.
func Blobs(manifestPath string) *BlobStore {
	return &BlobStore{Dir: filepath.Join(filepath.Dir(manifestPath), "blobs")}
}

func (b *BlobStore) path(sum string) string {
	return filepath.Join(b.Dir, sum+".zst")
}

// Put stores data unless a blob with the same checksum exists and returns
// its file entry.
func (b *BlobStore) Put(name string, data []byte) (File, error) {
	f := File{Name: name, Checksum: Checksum(data), Size: len(data)}
	path := b.path(f.Checksum)
	if _, err := os.Stat(path); err == nil {
		return f, nil
	}
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return File{}, fmt.Errorf("create blob directory: %w", err)
	}
	compressed := zstdEncoder().EncodeAll(data, make([]byte, 0, len(data)/2))
	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		return File{}, fmt.Errorf("write blob %s: %w", f.Checksum, err)
	}
	return f, nil
}

// Get returns the decompressed content of f and verifies its checksum.
func (b *BlobStore) Get(f File) ([]byte, error) {
	compressed, err := os.ReadFile(b.path(f.Checksum))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrBlobNotFound, f.Name, f.Checksum)
	}
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", f.Checksum, err)
	}
	data, err := zstdDecoder().DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress blob %s: %w", f.Checksum, err)
	}
	if sum := Checksum(data); sum != f.Checksum {
		return nil, fmt.Errorf("blob %s: checksum mismatch, got %s", f.Checksum, sum)
	}
	return data, nil
}

// Size formats a byte count for listings.
func Size(n int) string {
	switch {
	case n >= 1<<20:
		return strconv.FormatFloat(float64(n)/(1<<20), 'f', 1, 64) + "MiB"
	case n >= 1<<10:
		return strconv.FormatFloat(float64(n)/(1<<10), 'f', 1, 64) + "KiB"
	}
	return strconv.Itoa(n) + "B"
}
