package generator

import (
	"log/slog"
	"strings"

	"github.com/cmmoran/nativizer/internal/emitter"
	"github.com/cmmoran/nativizer/internal/model"
)

// SelectClass reports whether c takes part in the batch. Only generated
// classes are ever selected.
func (o *Options) SelectClass(c *model.Class) bool {
	if c == nil || !c.Generated() {
		return false
	}
	if matchesAny(o.ExcludeClasses, c) {
		return false
	}
	return len(o.Classes) == 0 || matchesAny(o.Classes, c)
}

// SkipField reports whether f is listed in ExcludeProperties as
// "Owner.Field".
func (o *Options) SkipField(f *model.Field) bool {
	if f == nil || len(o.ExcludeProperties) == 0 {
		return false
	}
	owner := f.Owner()
	if owner == nil {
		return false
	}
	path := owner.GetName() + "." + f.Name
	for _, p := range o.ExcludeProperties {
		if matchName(p, path) {
			return true
		}
	}
	return false
}

// EmitterOptions derives the per-session emitter options.
func (o *Options) EmitterOptions(log *slog.Logger) emitter.Options {
	opts := emitter.Options{
		EnableInheritableComponents: o.EnableInheritableComponents,
		AllowProtected:              o.AllowProtected,
		Logger:                      log,
	}
	if len(o.ExcludeProperties) > 0 {
		opts.SkipField = o.SkipField
	}
	return opts
}

func matchesAny(patterns []string, c *model.Class) bool {
	for _, p := range patterns {
		if matchName(p, c.Name) || matchName(p, model.PathName(c)) {
			return true
		}
	}
	return false
}

// matchName compares case-insensitively. A trailing '*' in pattern matches
// any suffix.
func matchName(pattern, name string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix)
	}
	return strings.EqualFold(pattern, name)
}
