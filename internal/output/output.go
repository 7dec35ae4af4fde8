package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cmmoran/nativizer/internal/emitter"
)

var ErrUnknownEncoding = errors.New("unknown encoding")

// Encoding names a text encoding generated sources are written in.
type Encoding string

const (
	UTF8    Encoding = "utf8"
	UTF8BOM Encoding = "utf8bom"
	UTF16LE Encoding = "utf16le"
)

// ParseEncoding accepts the usual spellings of the supported encodings. An
// empty name selects UTF8BOM.
func ParseEncoding(s string) (Encoding, error) {
	n := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	switch n {
	case "", "utf8bom":
		return UTF8BOM, nil
	case "utf8":
		return UTF8, nil
	case "utf16", "utf16le":
		return UTF16LE, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
}

func (e Encoding) encoding() (encoding.Encoding, error) {
	switch e {
	case UTF8:
		return unicode.UTF8, nil
	case UTF8BOM, "":
		return unicode.UTF8BOM, nil
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, string(e))
}

// Encode converts text to e.
func Encode(e Encoding, text string) ([]byte, error) {
	enc, err := e.encoding()
	if err != nil {
		return nil, err
	}
	out, _, err := transform.Bytes(enc.NewEncoder(), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e, err)
	}
	return out, nil
}

// Decode is the inverse of Encode. A leading byte order mark is consumed.
func Decode(e Encoding, data []byte) (string, error) {
	enc, err := e.encoding()
	if err != nil {
		return "", err
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", e, err)
	}
	return string(out), nil
}

// Writer stores generated units as <Name>.h and <Name>.cpp below Dir.
type Writer struct {
	Dir      string
	Encoding Encoding
}

func NewWriter(dir string, enc Encoding) *Writer {
	return &Writer{Dir: dir, Encoding: enc}
}

// Files returns the file names and contents of u. Empty parts are left out.
func Files(u *emitter.Unit) map[string]string {
	files := make(map[string]string, 2)
	if u.Header != "" {
		files[u.Name+".h"] = u.Header
	}
	if u.Body != "" {
		files[u.Name+".cpp"] = u.Body
	}
	return files
}

// Write encodes and writes every file of u and returns the written paths,
// header first.
func (w *Writer) Write(u *emitter.Unit) ([]string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	var written []string
	for _, ext := range []string{".h", ".cpp"} {
		text, ok := Files(u)[u.Name+ext]
		if !ok {
			continue
		}
		data, err := Encode(w.Encoding, text)
		if err != nil {
			return written, err
		}
		path := filepath.Join(w.Dir, u.Name+ext)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
