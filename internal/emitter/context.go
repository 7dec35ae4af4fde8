package emitter

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/jinzhu/inflection"

	"github.com/cmmoran/nativizer/internal/codetext"
	"github.com/cmmoran/nativizer/internal/diagnostic"
	"github.com/cmmoran/nativizer/internal/model"
)

// CodeType is the phase of the generated class the session is writing.
type CodeType int

const (
	CodeRegular CodeType = iota
	CodeCommonConstructor
	CodeSubobjectsOfClass
	numCodeTypes
)

// ClassSubobjectList names one of the per-class registration lists of a
// dynamic class.
type ClassSubobjectList int

const (
	ListComponentTemplates ClassSubobjectList = iota
	ListTimelines
	ListDynamicBindingObjects
	ListMiscConvertedSubobjects
	numClassSubobjectLists
)

var classSubobjectListElems = [...]string{
	ListComponentTemplates:      "ComponentTemplate",
	ListTimelines:               "Timeline",
	ListDynamicBindingObjects:   "DynamicBindingObject",
	ListMiscConvertedSubobjects: "MiscConvertedSubobject",
}

// FieldName is the member of UDynamicClass holding the list.
func (l ClassSubobjectList) FieldName() string {
	return inflection.Plural(classSubobjectListElems[l])
}

// Options configure one generation session.
type Options struct {
	// EnableInheritableComponents honours per-class overrides of inherited
	// component templates.
	EnableInheritableComponents bool
	// AllowProtected emits direct member access for protected fields of
	// every container, not only of the generated class itself.
	AllowProtected bool
	// SkipField excludes fields from emission.
	SkipField func(*model.Field) bool
	Logger    *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Context is the state of one class generation session.
type Context struct {
	Class  *model.Class
	Header codetext.CodeText
	Body   codetext.CodeText
	Deps   *Dependencies

	target   *codetext.CodeText
	codeType CodeType
	registry *Registry
	opts     Options
	log      *slog.Logger
	diags    *diagnostic.Collector

	localIndex int

	// locals holds the names of materialized objects per phase.
	locals         [numCodeTypes]map[*model.Object]string
	lists          [numClassSubobjectLists][]*model.Object
	usedObjects    []model.Node
	propertyLocals map[*model.Field]string
	wrappers       []*wrapperUse
}

// wrapperUse records the accessors needed on the wrapper of an unconverted
// generated class.
type wrapperUse struct {
	class  *model.Class
	fields []*model.Field
}

// NewContext creates a session for class cls. cls may be nil when emitting
// code that is not tied to a generated class.
func NewContext(cls *model.Class, registry *Registry, opts Options) *Context {
	name := ""
	if cls != nil {
		name = cls.CppName()
	}
	c := &Context{
		Class:          cls,
		Deps:           NewDependencies(),
		registry:       registry,
		opts:           opts,
		log:            opts.logger().With("class", name),
		diags:          diagnostic.NewCollector(name),
		propertyLocals: make(map[*model.Field]string),
	}
	for i := range c.locals {
		c.locals[i] = make(map[*model.Object]string)
	}
	if registry == nil {
		c.registry = NewRegistry()
	}
	c.target = &c.Body
	return c
}

func (c *Context) Diagnostics() []diagnostic.Diagnostic { return c.diags.Diagnostics() }

// NewLocalName returns the next session-unique local identifier.
func (c *Context) NewLocalName() string {
	name := fmt.Sprintf("__Local__%d", c.localIndex)
	c.localIndex++
	return name
}

func (c *Context) line(s string) { c.target.AddLine(s) }

func (c *Context) linef(format string, args ...any) { c.target.AddLinef(format, args...) }

func (c *Context) indent() { c.target.IncreaseIndent() }

func (c *Context) dedent() { c.target.DecreaseIndent() }

// withTarget redirects emission to t until the returned func is called.
func (c *Context) withTarget(t *codetext.CodeText) func() {
	prev := c.target
	c.target = t
	return func() { c.target = prev }
}

// setCodeType switches phase; cached property lookups do not survive it.
func (c *Context) setCodeType(t CodeType) {
	c.codeType = t
	c.resetPropertyLocals()
}

func (c *Context) resetPropertyLocals() {
	clear(c.propertyLocals)
}

func (c *Context) registerClassSubobject(obj *model.Object, list ClassSubobjectList) {
	c.lists[list] = append(c.lists[list], obj)
}

func (c *Context) listIndex(list ClassSubobjectList, obj *model.Object) int {
	for i, o := range c.lists[list] {
		if o == obj {
			return i
		}
	}
	return -1
}

func (c *Context) useWrapper(cls *model.Class, f *model.Field) string {
	var use *wrapperUse
	for _, w := range c.wrappers {
		if w.class == cls {
			use = w
			break
		}
	}
	if use == nil {
		use = &wrapperUse{class: cls}
		c.wrappers = append(c.wrappers, use)
	}
	if !slices.Contains(use.fields, f) {
		use.fields = append(use.fields, f)
	}
	return c.registry.WrapperName(cls)
}

// firstNativeOrConverted returns the nearest class in the hierarchy that
// exists natively once the batch is compiled.
func (c *Context) firstNativeOrConverted(cls *model.Class) *model.Class {
	for cl := cls; cl != nil; cl = cl.Super {
		if cl.Native() || c.registry.WillClassBeConverted(cl) || cl == c.Class {
			return cl
		}
	}
	return cls
}

func (c *Context) unformattable(path, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.diags.Warn(diagnostic.CategoryUnformattableValue, path, msg)
	c.log.Warn("cannot generate initialization", "path", path, "reason", msg)
}

func (c *Context) skipped(path, reason string) {
	c.log.Debug("skipping field", "path", path, "reason", reason)
}
