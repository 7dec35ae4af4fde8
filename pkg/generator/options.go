package generator

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Options control one generation batch.
//
// Input                       – host dump to read (yaml or json)
// Format                      – dump format, "auto" by default
// OutDir                      – directory receiving the generated sources
// Encoding                    – utf8, utf8bom (default) or utf16le
// Classes                     – classes to convert; empty converts every generated class
// ExcludeClasses              – classes never converted
// ExcludeProperties           – "Owner.Field" properties never emitted
// Structs                     – also emit GetDefaultValue headers for user structs
// EnableInheritableComponents – honour inherited component template overrides
// AllowProtected              – emit direct access to protected members of any container
// Parallelism                 – classes generated concurrently, 0 means GOMAXPROCS
// FailFast                    – stop the batch at the first failed class
//
// Class names match case-insensitively; a trailing '*' matches any suffix.
type Options struct {
	Input                       string   `json:"input,omitempty" yaml:"input,omitempty" toml:"input,omitempty" mapstructure:"input,omitempty"`
	Format                      string   `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty" mapstructure:"format,omitempty"`
	OutDir                      string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	Encoding                    string   `json:"encoding,omitempty" yaml:"encoding,omitempty" toml:"encoding,omitempty" mapstructure:"encoding,omitempty"`
	Classes                     []string `json:"classes,omitempty" yaml:"classes,omitempty" toml:"classes,omitempty" mapstructure:"classes,omitempty"`
	ExcludeClasses              []string `json:"exclude_classes,omitempty" yaml:"exclude_classes,omitempty" toml:"exclude_classes,omitempty" mapstructure:"exclude_classes,omitempty"`
	ExcludeProperties           []string `json:"exclude_properties,omitempty" yaml:"exclude_properties,omitempty" toml:"exclude_properties,omitempty" mapstructure:"exclude_properties,omitempty"`
	Structs                     bool     `json:"structs,omitempty" yaml:"structs,omitempty" toml:"structs,omitempty" mapstructure:"structs,omitempty"`
	EnableInheritableComponents bool     `json:"enable_inheritable_components,omitempty" yaml:"enable_inheritable_components,omitempty" toml:"enable_inheritable_components,omitempty" mapstructure:"enable_inheritable_components,omitempty"`
	AllowProtected              bool     `json:"allow_protected,omitempty" yaml:"allow_protected,omitempty" toml:"allow_protected,omitempty" mapstructure:"allow_protected,omitempty"`
	Parallelism                 int      `json:"parallelism,omitempty" yaml:"parallelism,omitempty" toml:"parallelism,omitempty" mapstructure:"parallelism,omitempty"`
	FailFast                    bool     `json:"fail_fast,omitempty" yaml:"fail_fast,omitempty" toml:"fail_fast,omitempty" mapstructure:"fail_fast,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		Format:                      "auto",
		OutDir:                      "generated",
		Encoding:                    "utf8bom",
		Structs:                     true,
		EnableInheritableComponents: true,
		AllowProtected:              false,
		Parallelism:                 0,
		FailFast:                    false,
	}
}

// Normalize fills defaults and cleans up names. It fails when no input is
// configured.
func (o *Options) Normalize() error {
	if o.Input == "" {
		return fmt.Errorf("no input dump configured")
	}
	if strings.Contains(o.Input, ".") {
		o.Input, _ = filepath.Abs(o.Input)
	}
	if o.Format == "" {
		o.Format = "auto"
	}
	if len(o.OutDir) == 0 {
		o.OutDir = "generated"
	}
	if strings.Contains(o.OutDir, ".") {
		o.OutDir, _ = filepath.Abs(o.OutDir)
	}
	if o.Encoding == "" {
		o.Encoding = "utf8bom"
	}
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.GOMAXPROCS(0)
	}
	o.Classes = trimAll(o.Classes)
	o.ExcludeClasses = trimAll(o.ExcludeClasses)
	o.ExcludeProperties = trimAll(o.ExcludeProperties)
	return nil
}

// FromViper reads the "generator" section of v over the defaults.
func FromViper(v *viper.Viper) (*Options, error) {
	o := NewOptions()
	if v == nil || !v.IsSet("generator") {
		return o, nil
	}
	if err := v.UnmarshalKey("generator", o); err != nil {
		return nil, fmt.Errorf("unmarshal generator options: %w", err)
	}
	return o, nil
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInput(path string) Option { return func(o *Options) { o.Input = path } }
func WithFormat(f string) Option   { return func(o *Options) { o.Format = f } }
func WithOutDir(d string) Option   { return func(o *Options) { o.OutDir = d } }
func WithEncoding(e string) Option { return func(o *Options) { o.Encoding = e } }
func WithParallelism(n int) Option { return func(o *Options) { o.Parallelism = n } }
func WithFailFast() Option         { return func(o *Options) { o.FailFast = true } }
func WithAllowProtected() Option   { return func(o *Options) { o.AllowProtected = true } }
func WithoutStructs() Option       { return func(o *Options) { o.Structs = false } }
func WithInheritableComponents(enabled bool) Option {
	return func(o *Options) { o.EnableInheritableComponents = enabled }
}
func WithClasses(names ...string) Option {
	return func(o *Options) { o.Classes = append(o.Classes, names...) }
}
func WithExcludeClasses(names ...string) Option {
	return func(o *Options) { o.ExcludeClasses = append(o.ExcludeClasses, names...) }
}
func WithExcludeProperties(paths ...string) Option {
	return func(o *Options) { o.ExcludeProperties = append(o.ExcludeProperties, paths...) }
}

// Apply runs opts over o and returns it.
func (o *Options) Apply(opts ...Option) *Options {
	for _, fn := range opts {
		fn(o)
	}
	return o
}
