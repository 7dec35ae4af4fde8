package parser

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/nativizer/internal/model"
)

var (
	ErrUnknownFormat       = errors.New("unknown dump format")
	ErrUnknownType         = errors.New("unknown type")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrInvalidValue        = errors.New("invalid value")
)

type Format int

const (
	// FormatAuto picks the format from the file extension, then from the
	// first significant byte of the content.
	FormatAuto Format = iota
	FormatYAML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "auto"
	}
}

// ParseFormat maps a configuration keyword onto a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Options control how a dump is read.
type Options struct {
	Format Format
	Logger *slog.Logger
}

type Option func(*Options)

func WithFormat(f Format) Option        { return func(o *Options) { o.Format = f } }
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

// Parser reads a host dump and builds the reflected graph on top of the
// native engine types.
type Parser struct {
	Opts  Options
	Dump  *Dump
	Graph *model.Graph
}

func New(opts ...Option) (*Parser, error) {
	o := &Options{}
	for _, fn := range opts {
		fn(o)
	}
	return NewWithOpts(o)
}

func NewWithOpts(opts *Options) (*Parser, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Parser{Opts: *opts}, nil
}

// ParseFile reads and builds the dump stored at path.
func (p *Parser) ParseFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dump: %w", err)
	}
	format := p.Opts.Format
	if format == FormatAuto {
		format = formatFromPath(path)
	}
	p.Opts.Logger.Debug("parsing dump", "path", path, "format", format)
	return p.parse(data, format)
}

// Parse builds the graph from an in-memory dump.
func (p *Parser) Parse(data []byte) error {
	return p.parse(data, p.Opts.Format)
}

func (p *Parser) parse(data []byte, format Format) error {
	if format == FormatAuto {
		format = sniffFormat(data)
	}
	dump := &Dump{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, dump); err != nil {
			return fmt.Errorf("unmarshal yaml dump: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, dump); err != nil {
			return fmt.Errorf("unmarshal json dump: %w", err)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
	p.Dump = dump

	g, err := NewBuilder(model.NewEngineGraph(), dump, p.Opts.Logger).BuildAll()
	if err != nil {
		return err
	}
	p.Graph = g
	return nil
}

func formatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatAuto
}

func sniffFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}
