package parser

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/cmmoran/nativizer/internal/model"
)

// levelTrace matches the trace level configured by the command line.
const levelTrace = slog.Level(-8)

var (
	classFlagNames = map[string]model.ClassFlags{
		"native":                         model.ClassNative,
		"generated":                      model.ClassGenerated,
		"default_to_instanced":           model.ClassDefaultToInstanced,
		"object_initializer_constructor": model.ClassObjectInitializerConstructor,
		"abstract":                       model.ClassAbstract,
	}
	objectFlagNames = map[string]model.ObjectFlags{
		"archetype":            model.ObjectArchetype,
		"default_subobject":    model.ObjectDefaultSubobject,
		"inheritable_template": model.ObjectInheritableComponentTemplate,
		"editor_only":          model.ObjectEditorOnly,
	}
	fieldFlagNames = map[string]model.FieldFlags{
		"editor_only":            model.FieldEditorOnly,
		"transient":              model.FieldTransient,
		"config":                 model.FieldConfig,
		"instanced":              model.FieldInstancedReference,
		"bitfield":               model.FieldBitfield,
		"latent_callback_target": model.FieldLatentCallbackTarget,
	}
	accessNames = map[string]model.Access{
		"":          model.AccessPublic,
		"public":    model.AccessPublic,
		"protected": model.AccessProtected,
		"private":   model.AccessPrivate,
	}
	enumFormNames = map[string]model.EnumCppForm{
		"":           model.EnumRegular,
		"regular":    model.EnumRegular,
		"namespaced": model.EnumNamespaced,
		"class":      model.EnumClass,
	}
)

// Builder turns a Dump into a model.Graph. Types are created as shells
// first so that fields, supers and references may point anywhere in the
// dump; values are converted last, once every object exists.
type Builder struct {
	graph *model.Graph
	dump  *Dump
	log   *slog.Logger
	refs  *refIndex

	structs map[*StructDump]*model.Struct
	classes map[*ClassDump]*model.Class
	// nodes indexes construction script nodes by "Class.Variable".
	nodes     map[string]*model.SCSNode
	pending   []pendingObject
	links     []func() error
	resolving map[string]bool
}

type pendingObject struct {
	obj  *model.Object
	dump *ObjectDump
}

// NewBuilder prepares a build of dump on top of g, which usually holds the
// native engine types.
func NewBuilder(g *model.Graph, dump *Dump, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		graph:     g,
		dump:      dump,
		log:       log,
		refs:      newRefIndex(),
		structs:   make(map[*StructDump]*model.Struct),
		classes:   make(map[*ClassDump]*model.Class),
		nodes:     make(map[string]*model.SCSNode),
		resolving: make(map[string]bool),
	}
}

// BuildAll is the main entrypoint:
//  1. Create enum, struct and class shells.
//  2. Resolve supers and fields.
//  3. Create every object: default objects, templates, assets.
//  4. Link objects to each other.
//  5. Convert values.
func (b *Builder) BuildAll() (*model.Graph, error) {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"shells", b.buildShells},
		{"supers", b.resolveSupers},
		{"fields", b.buildFields},
		{"objects", b.buildObjects},
		{"links", b.runLinks},
		{"values", b.buildValues},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return nil, fmt.Errorf("build %s: %w", step.name, err)
		}
		b.log.Log(context.Background(), levelTrace, "build step done", "step", step.name)
	}
	b.log.Debug("graph built",
		"classes", len(b.graph.Classes), "structs", len(b.graph.Structs),
		"enums", len(b.graph.Enums), "assets", len(b.graph.Assets))
	return b.graph, nil
}

func (b *Builder) buildShells() error {
	for _, d := range b.dump.Enums {
		form, ok := enumFormNames[d.Form]
		if !ok {
			return fmt.Errorf("%w: enum %s form %q", ErrInvalidValue, d.Name, d.Form)
		}
		if _, err := b.graph.AddEnum(&model.Enum{
			Name:        d.Name,
			Package:     d.Package,
			CppForm:     form,
			Values:      d.Values,
			UserDefined: d.UserDefined,
		}); err != nil {
			return err
		}
	}
	for _, d := range b.dump.Structs {
		st, err := b.graph.AddStruct(&model.Struct{
			Name:         d.Name,
			Package:      d.Package,
			NativeName:   d.NativeName,
			Native:       d.Native,
			NoExport:     d.NoExport,
			NativeLayout: d.NativeLayout,
			UserDefined:  d.UserDefined,
		})
		if err != nil {
			return err
		}
		b.structs[d] = st
	}
	for _, d := range b.dump.Classes {
		flags, err := parseFlags(d.Flags, classFlagNames, "class "+d.Name)
		if err != nil {
			return err
		}
		c, err := b.graph.AddClass(&model.Class{
			Name:       d.Name,
			Package:    d.Package,
			NativeName: d.NativeName,
			Flags:      flags,
			Interface:  d.Interface,
		})
		if err != nil {
			return err
		}
		b.classes[d] = c
	}
	return nil
}

func (b *Builder) resolveSupers() error {
	for _, d := range b.dump.Structs {
		if d.Super == "" {
			continue
		}
		super := b.graph.Struct(d.Super)
		if super == nil {
			return fmt.Errorf("%w: super struct %q of %s", ErrUnresolvedReference, d.Super, d.Name)
		}
		b.structs[d].Super = super
	}
	for _, d := range b.dump.Classes {
		if d.Super == "" {
			continue
		}
		super := b.graph.Class(d.Super)
		if super == nil {
			return fmt.Errorf("%w: super class %q of %s", ErrUnresolvedReference, d.Super, d.Name)
		}
		b.classes[d].Super = super
	}
	for _, d := range b.dump.Classes {
		if err := b.checkHierarchy(b.classes[d]); err != nil {
			return err
		}
	}
	return nil
}

// checkHierarchy rejects super chains that loop back on themselves.
func (b *Builder) checkHierarchy(c *model.Class) error {
	clear(b.resolving)
	for cl := c; cl != nil; cl = cl.Super {
		if b.resolving[cl.Name] {
			return fmt.Errorf("%w: class hierarchy of %s is cyclic", ErrInvalidValue, c.Name)
		}
		b.resolving[cl.Name] = true
	}
	return nil
}

func (b *Builder) buildFields() error {
	for _, d := range b.dump.Structs {
		st := b.structs[d]
		for _, fd := range d.Fields {
			f, err := b.field(fd)
			if err != nil {
				return fmt.Errorf("struct %s: %w", d.Name, err)
			}
			st.AddField(f)
		}
	}
	for _, d := range b.dump.Classes {
		c := b.classes[d]
		for _, fd := range d.Fields {
			f, err := b.field(fd)
			if err != nil {
				return fmt.Errorf("class %s: %w", d.Name, err)
			}
			c.AddField(f)
		}
	}
	return nil
}

func (b *Builder) field(d *FieldDump) (*model.Field, error) {
	ft, err := ParseType(b.graph, d.Type)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", d.Name, err)
	}
	access, ok := accessNames[strings.ToLower(d.Access)]
	if !ok {
		return nil, fmt.Errorf("%w: field %s access %q", ErrInvalidValue, d.Name, d.Access)
	}
	flags, err := parseFlags(d.Flags, fieldFlagNames, "field "+d.Name)
	if err != nil {
		return nil, err
	}
	return &model.Field{
		Name:     d.Name,
		Type:     ft,
		ArrayDim: d.Dim,
		Access:   access,
		Flags:    flags,
		Offset:   d.Offset,
	}, nil
}

func (b *Builder) buildObjects() error {
	for _, d := range b.dump.Classes {
		c := b.classes[d]
		model.NewClassDefault(c)
		if d.Default == nil {
			continue
		}
		if err := b.defaultObject(c, d.Default); err != nil {
			return err
		}
	}
	if err := b.refs.addGraph(b.graph); err != nil {
		return err
	}

	for _, d := range b.dump.Classes {
		c := b.classes[d]
		lists := []struct {
			dumps []*ObjectDump
			dst   *[]*model.Object
		}{
			{d.ComponentTemplates, &c.ComponentTemplates},
			{d.Timelines, &c.Timelines},
			{d.DynamicBindingObjects, &c.DynamicBindingObjects},
		}
		for _, list := range lists {
			for _, od := range list.dumps {
				o, err := b.object(od, c)
				if err != nil {
					return err
				}
				*list.dst = append(*list.dst, o)
			}
		}
		if len(d.ConstructionScript) > 0 {
			scs := model.NewConstructionScript(c)
			for _, nd := range d.ConstructionScript {
				if err := b.scsNode(c, scs, nil, nd); err != nil {
					return err
				}
			}
		}
	}

	for _, d := range b.dump.Assets {
		class := b.graph.Class(d.Class)
		if class == nil {
			return fmt.Errorf("%w: class %q of asset %s", ErrUnresolvedReference, d.Class, d.Name)
		}
		asset, err := b.graph.AddAsset(model.NewAsset(d.Name, class, d.Package))
		if err != nil {
			return err
		}
		if err := b.fill(asset, &d.ObjectDump); err != nil {
			return err
		}
		if err := b.refs.addObject(asset); err != nil {
			return err
		}
	}

	for _, d := range b.dump.Classes {
		for _, od := range d.InheritableComponents {
			if err := b.override(b.classes[d], od); err != nil {
				return err
			}
		}
	}
	return nil
}

// defaultObject fills the class default object created for c. It is
// indexed together with the rest of the graph.
func (b *Builder) defaultObject(c *model.Class, d *ObjectDump) error {
	flags, err := parseFlags(d.Flags, objectFlagNames, "default object of "+c.Name)
	if err != nil {
		return err
	}
	c.Default.Flags |= flags
	b.pending = append(b.pending, pendingObject{obj: c.Default, dump: d})
	for _, sd := range d.Subobjects {
		if _, err := b.newObject(sd, c.Default); err != nil {
			return err
		}
	}
	return nil
}

// object creates a template owned directly by class c and indexes it.
func (b *Builder) object(d *ObjectDump, c *model.Class) (*model.Object, error) {
	o, err := b.newObject(d, c)
	if err != nil {
		return nil, err
	}
	return o, b.refs.addObject(o)
}

func (b *Builder) newObject(d *ObjectDump, outer model.Node) (*model.Object, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: empty object inside %s", ErrInvalidValue, model.PathName(outer))
	}
	class := b.graph.Class(d.Class)
	if class == nil {
		return nil, fmt.Errorf("%w: class %q of %s", ErrUnresolvedReference, d.Class, d.Name)
	}
	o := model.NewObject(d.Name, class, outer)
	return o, b.fill(o, d)
}

// fill applies flags and links of d to o, creates its subobjects and queues
// its values.
func (b *Builder) fill(o *model.Object, d *ObjectDump) error {
	flags, err := parseFlags(d.Flags, objectFlagNames, "object "+d.Name)
	if err != nil {
		return err
	}
	o.Flags |= flags
	if d.CreationMethod != "" {
		m, ok := parseCreationMethod(d.CreationMethod)
		if !ok {
			return fmt.Errorf("%w: creation method %q of %s", ErrInvalidValue, d.CreationMethod, d.Name)
		}
		o.CreationMethod = m
	}
	if d.Archetype != "" {
		b.links = append(b.links, func() error {
			arch, err := b.refs.object(b.graph, d.Archetype)
			if err != nil {
				return fmt.Errorf("archetype of %s: %w", model.PathName(o), err)
			}
			o.Archetype = arch
			return nil
		})
	}
	if d.AttachParent != "" {
		b.links = append(b.links, func() error {
			parent, err := b.refs.object(b.graph, d.AttachParent)
			if err != nil {
				return fmt.Errorf("attach parent of %s: %w", model.PathName(o), err)
			}
			o.AttachParent = parent
			return nil
		})
	}
	b.pending = append(b.pending, pendingObject{obj: o, dump: d})
	for _, sd := range d.Subobjects {
		if _, err := b.newObject(sd, o); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) scsNode(c *model.Class, scs *model.ConstructionScript, parent *model.SCSNode, d *SCSNodeDump) error {
	node := &model.SCSNode{VariableName: d.Variable, AttachToName: d.AttachTo}
	if d.Template != nil {
		t, err := b.object(d.Template, c)
		if err != nil {
			return err
		}
		node.Template = t
	}
	if d.ParentComponent != "" {
		b.links = append(b.links, func() error {
			p, err := b.refs.object(b.graph, d.ParentComponent)
			if err != nil {
				return fmt.Errorf("parent component of %s.%s: %w", c.Name, d.Variable, err)
			}
			node.ParentComponent = p
			return nil
		})
	}
	scs.AddNode(parent, node)
	key := c.Name + "." + d.Variable
	if _, ok := b.nodes[key]; ok {
		return fmt.Errorf("%w: duplicate construction script node %s", ErrInvalidValue, key)
	}
	b.nodes[key] = node
	for _, child := range d.Children {
		if err := b.scsNode(c, scs, node, child); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) override(c *model.Class, d *OverrideDump) error {
	node, ok := b.nodes[d.Node]
	if !ok {
		return fmt.Errorf("%w: construction script node %q overridden by %s", ErrUnresolvedReference, d.Node, c.Name)
	}
	if owner := node.OwnerClass(); owner == c || !c.IsChildOf(owner) {
		return fmt.Errorf("%w: %s cannot override %s", ErrInvalidValue, c.Name, d.Node)
	}
	t, err := b.object(d.Template, c)
	if err != nil {
		return err
	}
	if c.InheritableComponents == nil {
		c.InheritableComponents = &model.InheritableComponentHandler{}
	}
	c.InheritableComponents.SetOverride(node, t)
	return nil
}

func (b *Builder) runLinks() error {
	for _, link := range b.links {
		if err := link(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildValues() error {
	for _, d := range b.dump.Structs {
		st := b.structs[d]
		var err error
		if st.Defaults, err = b.memberValues(st, d.Defaults); err != nil {
			return err
		}
		if st.DeclaredDefaults, err = b.memberValues(st, d.DeclaredDefaults); err != nil {
			return err
		}
	}
	for _, p := range b.pending {
		for _, name := range slices.Sorted(maps.Keys(p.dump.Values)) {
			f := p.obj.Class.FindField(name)
			if f == nil {
				return fmt.Errorf("%w: %s has no property %q", ErrInvalidValue, model.PathName(p.obj), name)
			}
			v, err := b.fieldValue(f, p.dump.Values[name])
			if err != nil {
				return err
			}
			p.obj.Set(name, v)
		}
	}
	return nil
}

func (b *Builder) memberValues(st *model.Struct, raw map[string]any) (map[string]model.Value, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	sv, err := b.structValue(st, raw)
	if err != nil {
		return nil, err
	}
	return sv.Fields, nil
}

func parseFlags[F ~uint32](names []string, table map[string]F, what string) (F, error) {
	var out F
	for _, n := range names {
		f, ok := table[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, fmt.Errorf("%w: %s flag %q", ErrInvalidValue, what, n)
		}
		out |= f
	}
	return out, nil
}

func parseCreationMethod(s string) (model.CreationMethod, bool) {
	for _, m := range []model.CreationMethod{
		model.CreationNative,
		model.CreationSimpleConstructionScript,
		model.CreationUserConstructionScript,
		model.CreationInstance,
	} {
		if strings.EqualFold(strings.ReplaceAll(s, "_", ""), m.String()) {
			return m, true
		}
	}
	return 0, false
}
