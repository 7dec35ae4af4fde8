package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cmmoran/nativizer/pkg/action/generate"
	"github.com/cmmoran/nativizer/pkg/generator"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

// generatorFlags binds the generator options shared by generate and
// snapshot record.
type generatorFlags struct {
	flags *pflag.FlagSet
	opts  generator.Options
}

func addGeneratorFlags(fs *pflag.FlagSet) *generatorFlags {
	g := &generatorFlags{flags: fs}
	defaults := generator.NewOptions()
	fs.StringVarP(&g.opts.Input, "input", "i", "", "host dump to read (yaml or json)")
	fs.StringVar(&g.opts.Format, "format", defaults.Format, "dump format (auto, yaml, json)")
	fs.StringVarP(&g.opts.OutDir, "output-directory", "o", defaults.OutDir, "directory to write generated sources")
	fs.StringVarP(&g.opts.Encoding, "encoding", "e", defaults.Encoding, "encoding of generated sources (utf8, utf8bom, utf16le)")
	fs.StringSliceVarP(&g.opts.Classes, "classes", "c", []string{}, "classes to convert, a trailing * matches any suffix")
	fs.StringSliceVarP(&g.opts.ExcludeClasses, "exclude-classes", "x", []string{}, "classes never converted")
	fs.StringSliceVar(&g.opts.ExcludeProperties, "exclude-properties", []string{}, "properties never emitted, as Owner.Field")
	fs.BoolVar(&g.opts.Structs, "structs", defaults.Structs, "emit GetDefaultValue headers for user-defined structs")
	fs.BoolVar(&g.opts.EnableInheritableComponents, "inheritable-components", defaults.EnableInheritableComponents, "honour inherited component template overrides")
	fs.BoolVar(&g.opts.AllowProtected, "allow-protected", defaults.AllowProtected, "access protected members of any container directly")
	fs.IntVarP(&g.opts.Parallelism, "parallelism", "p", defaults.Parallelism, "classes generated concurrently, 0 uses every CPU")
	fs.BoolVar(&g.opts.FailFast, "fail-fast", defaults.FailFast, "stop at the first class that fails")
	return g
}

// options layers the flags the user set over the configured generator
// section.
func (g *generatorFlags) options() (*generator.Options, error) {
	opts, err := generator.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}
	set := func(name string, apply func()) {
		if g.flags.Changed(name) {
			apply()
		}
	}
	set("input", func() { opts.Input = g.opts.Input })
	set("format", func() { opts.Format = g.opts.Format })
	set("output-directory", func() { opts.OutDir = g.opts.OutDir })
	set("encoding", func() { opts.Encoding = g.opts.Encoding })
	set("classes", func() { opts.Classes = g.opts.Classes })
	set("exclude-classes", func() { opts.ExcludeClasses = g.opts.ExcludeClasses })
	set("exclude-properties", func() { opts.ExcludeProperties = g.opts.ExcludeProperties })
	set("structs", func() { opts.Structs = g.opts.Structs })
	set("inheritable-components", func() { opts.EnableInheritableComponents = g.opts.EnableInheritableComponents })
	set("allow-protected", func() { opts.AllowProtected = g.opts.AllowProtected })
	set("parallelism", func() { opts.Parallelism = g.opts.Parallelism })
	set("fail-fast", func() { opts.FailFast = g.opts.FailFast })
	return opts, nil
}

func NewGenerateCommand() *cobra.Command {
	var flags *generatorFlags

	// generateCmd represents the nativizer generate command
	var generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "generate native sources",
		Long:  "Generate the native default-value sources of every selected generated class",
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			res, err := generate.Run(c.Context(), opts)
			if err != nil {
				return err
			}
			for _, d := range res.Diagnostics {
				fmt.Fprintln(c.ErrOrStderr(), d.String())
			}
			for _, ur := range append(res.Classes, res.Structs...) {
				for _, f := range ur.Files {
					fmt.Fprintln(c.OutOrStdout(), f)
				}
			}
			if n := res.Failed(); n > 0 {
				return fmt.Errorf("%d of %d units failed", n, len(res.Classes)+len(res.Structs))
			}
			return nil
		},
	}
	flags = addGeneratorFlags(generateCmd.Flags())

	return generateCmd
}
