package emitter

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/cmmoran/nativizer/internal/model"
)

// Registration is one self-registration record emitted for a converted
// class: the package it replaces and the native class providing its static
// dependency list.
type Registration struct {
	Package string
	CppName string
	Helper  string
}

// Registry is shared by every session of one batch. The set of converted
// classes is fixed at construction; global names and registrations are
// guarded by a mutex. Names that can collide are assigned in path order by
// NewRegistry and Reserve, never in the order concurrent sessions ask.
type Registry struct {
	converted map[*model.Class]bool

	mu            sync.Mutex
	used          map[string]bool
	assigned      map[string]string
	registrations map[string]Registration
}

func NewRegistry(converted ...*model.Class) *Registry {
	r := &Registry{
		converted:     make(map[*model.Class]bool, len(converted)),
		used:          make(map[string]bool),
		assigned:      make(map[string]string),
		registrations: make(map[string]Registration),
	}
	for _, c := range converted {
		r.converted[c] = true
	}
	r.Reserve(converted...)
	return r
}

// Reserve assigns the global names of classes in path order: the register
// helper of converted classes and the accessor wrapper of the others. Call
// it with every generated class of the graph before sessions start.
func (r *Registry) Reserve(classes ...*model.Class) {
	sorted := slices.Clone(classes)
	sort.SliceStable(sorted, func(i, j int) bool { return model.PathName(sorted[i]) < model.PathName(sorted[j]) })
	for _, c := range sorted {
		if r.converted[c] {
			r.RegisterHelperName(c)
		} else {
			r.WrapperName(c)
		}
	}
}

// WillClassBeConverted reports whether c is part of this batch.
func (r *Registry) WillClassBeConverted(c *model.Class) bool {
	if r == nil || c == nil {
		return false
	}
	return r.converted[c]
}

// ConvertedClasses returns the batch, sorted by path.
func (r *Registry) ConvertedClasses() []*model.Class {
	out := make([]*model.Class, 0, len(r.converted))
	for c := range r.converted {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return model.PathName(out[i]) < model.PathName(out[j]) })
	return out
}

// GlobalName returns a batch-unique identifier derived from base, which
// must already be a valid identifier. The same key always yields the same
// name.
func (r *Registry) GlobalName(key, base string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.assigned[key]; ok {
		return n
	}
	name := base
	for i := 1; r.used[name]; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	r.used[name] = true
	r.assigned[key] = name
	return name
}

// WrapperName is the accessor shim type for an unconverted generated class.
func (r *Registry) WrapperName(c *model.Class) string {
	return r.GlobalName("wrapper:"+model.PathName(c), "FUnconvertedWrapper__"+c.CppName())
}

// RegisterHelperName is the static registration helper type for c.
func (r *Registry) RegisterHelperName(c *model.Class) string {
	return r.GlobalName("register:"+model.PathName(c), "FRegisterHelper__"+c.CppName())
}

func (r *Registry) Register(reg Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registrations[reg.Package] = reg
}

// Registrations returns every recorded registration sorted by package.
func (r *Registry) Registrations() []Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Registration, 0, len(r.registrations))
	for _, reg := range r.registrations {
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Package < out[j].Package })
	return out
}
