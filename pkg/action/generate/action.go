package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/cmmoran/nativizer/internal/diagnostic"
	"github.com/cmmoran/nativizer/internal/emitter"
	"github.com/cmmoran/nativizer/internal/model"
	"github.com/cmmoran/nativizer/internal/output"
	"github.com/cmmoran/nativizer/internal/parser"
	"github.com/cmmoran/nativizer/pkg/generator"
)

// UnitResult is the outcome of one class or struct.
type UnitResult struct {
	Path  string
	Unit  *emitter.Unit
	Files []string
	Err   error
}

type Result struct {
	Classes       []UnitResult
	Structs       []UnitResult
	Registrations []emitter.Registration
	Diagnostics   []diagnostic.Diagnostic
}

// Units returns every successfully generated unit, classes first.
func (r *Result) Units() []*emitter.Unit {
	var out []*emitter.Unit
	for _, list := range [][]UnitResult{r.Classes, r.Structs} {
		for _, ur := range list {
			if ur.Err == nil && ur.Unit != nil {
				out = append(out, ur.Unit)
			}
		}
	}
	return out
}

// Failed counts the classes and structs that could not be generated.
func (r *Result) Failed() int {
	n := 0
	for _, list := range [][]UnitResult{r.Classes, r.Structs} {
		for _, ur := range list {
			if ur.Err != nil {
				n++
			}
		}
	}
	return n
}

// Run reads the configured dump, generates every selected class and writes
// the resulting sources to opts.OutDir.
func Run(ctx context.Context, opts *generator.Options) (*Result, error) {
	if err := opts.Normalize(); err != nil {
		return nil, err
	}
	log := slog.Default().With("input", opts.Input)

	format, err := parser.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	p, err := parser.New(parser.WithFormat(format), parser.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err = p.ParseFile(opts.Input); err != nil {
		return nil, fmt.Errorf("parse %s: %w", opts.Input, err)
	}

	res, err := Generate(ctx, p.Graph, opts, log)
	if err != nil {
		return res, err
	}
	if err = Write(res, opts); err != nil {
		return res, err
	}
	log.Info("generation finished",
		"classes", len(res.Classes), "structs", len(res.Structs),
		"failed", res.Failed(), "diagnostics", len(res.Diagnostics), "out", opts.OutDir)
	return res, nil
}

// Generate converts the classes of g selected by opts. Classes are generated
// concurrently up to opts.Parallelism; a failing class is reported in its
// UnitResult and only aborts the batch with opts.FailFast.
func Generate(ctx context.Context, g *model.Graph, opts *generator.Options, log *slog.Logger) (*Result, error) {
	if log == nil {
		log = slog.Default()
	}
	var selected []*model.Class
	for _, c := range g.GeneratedClasses() {
		if opts.SelectClass(c) {
			selected = append(selected, c)
		}
	}
	registry := emitter.NewRegistry(selected...)
	registry.Reserve(g.GeneratedClasses()...)
	res := &Result{Classes: make([]UnitResult, len(selected))}

	eg, egCtx := errgroup.WithContext(ctx)
	if opts.Parallelism > 0 {
		eg.SetLimit(opts.Parallelism)
	}
	for i, c := range selected {
		res.Classes[i].Path = model.PathName(c)
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				res.Classes[i].Err = err
				return err
			}
			clog := log.With("class", c.Name)
			unit, err := emitter.GenerateClass(c, opts.EmitterOptions(clog), registry)
			if err != nil {
				res.Classes[i].Err = err
				clog.Error("class generation failed", "error", err)
				if opts.FailFast {
					return fmt.Errorf("generate %s: %w", c.Name, err)
				}
				return nil
			}
			res.Classes[i].Unit = unit
			return nil
		})
	}
	err := eg.Wait()

	for _, cr := range res.Classes {
		switch {
		case cr.Unit != nil:
			res.Diagnostics = append(res.Diagnostics, cr.Unit.Diagnostics...)
		case cr.Err != nil && !errors.Is(cr.Err, context.Canceled):
			res.Diagnostics = append(res.Diagnostics, failure(cr))
		}
	}
	if err != nil {
		return res, err
	}

	if opts.Structs {
		for _, st := range g.UserStructs() {
			sr := UnitResult{Path: model.PathName(st)}
			sr.Unit, sr.Err = emitter.GenerateStructDefaultValue(st, opts.EmitterOptions(log.With("struct", st.Name)), registry)
			if sr.Err != nil {
				log.Error("struct generation failed", "struct", st.Name, "error", sr.Err)
				res.Diagnostics = append(res.Diagnostics, failure(sr))
				if opts.FailFast {
					res.Structs = append(res.Structs, sr)
					return res, fmt.Errorf("generate %s: %w", st.Name, sr.Err)
				}
			} else {
				res.Diagnostics = append(res.Diagnostics, sr.Unit.Diagnostics...)
			}
			res.Structs = append(res.Structs, sr)
		}
	}
	res.Registrations = registry.Registrations()
	return res, nil
}

// Write stores every generated unit of res below opts.OutDir.
func Write(res *Result, opts *generator.Options) error {
	enc, err := output.ParseEncoding(opts.Encoding)
	if err != nil {
		return err
	}
	w := output.NewWriter(opts.OutDir, enc)
	for _, list := range [][]UnitResult{res.Classes, res.Structs} {
		for i := range list {
			if list[i].Unit == nil {
				continue
			}
			if list[i].Files, err = w.Write(list[i].Unit); err != nil {
				return err
			}
		}
	}
	return nil
}

func failure(ur UnitResult) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Category: diagnostic.CategoryInput,
		Path:     ur.Path,
		Message:  ur.Err.Error(),
	}
	var mge *emitter.MalformedGraphError
	if errors.As(ur.Err, &mge) {
		d.Category = diagnostic.CategoryMalformedGraph
		d.Class = mge.Class
		if mge.Path != "" {
			d.Path = mge.Path
		}
	}
	return d
}
