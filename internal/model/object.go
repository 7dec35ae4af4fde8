package model

type ObjectFlags uint32

const (
	ObjectClassDefault ObjectFlags = 1 << iota
	ObjectArchetype
	ObjectDefaultSubobject
	ObjectInheritableComponentTemplate
	// ObjectEditorOnly marks a component that only exists in editor builds.
	ObjectEditorOnly
)

type CreationMethod int

const (
	CreationNative CreationMethod = iota
	CreationSimpleConstructionScript
	CreationUserConstructionScript
	CreationInstance
)

func (m CreationMethod) String() string {
	switch m {
	case CreationSimpleConstructionScript:
		return "SimpleConstructionScript"
	case CreationUserConstructionScript:
		return "UserConstructionScript"
	case CreationInstance:
		return "Instance"
	default:
		return "Native"
	}
}

// Object is a live instance in the reflected graph: a class default object,
// a subobject or template, or a standalone asset.
type Object struct {
	Name  string
	Class *Class
	// Outer is nil for standalone assets, which live directly in Package.
	Outer   Node
	Package string
	Flags   ObjectFlags
	// Archetype overrides the object used as the source of unset values.
	Archetype *Object
	Values    map[string]Value

	AttachParent   *Object
	CreationMethod CreationMethod

	subobjects []*Object
}

// NewObject creates an object inside outer. Objects created inside a class
// default object are marked as archetypes.
func NewObject(name string, class *Class, outer Node) *Object {
	o := &Object{Name: name, Class: class, Outer: outer, Values: map[string]Value{}}
	if parent, ok := outer.(*Object); ok {
		parent.subobjects = append(parent.subobjects, o)
		if parent.Has(ObjectClassDefault) || parent.Has(ObjectArchetype) {
			o.Flags |= ObjectArchetype
		}
	}
	return o
}

// NewAsset creates a standalone object stored in its own package.
func NewAsset(name string, class *Class, pkg string) *Object {
	return &Object{Name: name, Class: class, Package: pkg, Values: map[string]Value{}}
}

// NewClassDefault creates and attaches the class default object of c.
func NewClassDefault(c *Class) *Object {
	o := &Object{
		Name:    "Default__" + c.Name,
		Class:   c,
		Package: c.Package,
		Flags:   ObjectClassDefault | ObjectArchetype,
		Values:  map[string]Value{},
	}
	c.Default = o
	return o
}

func (o *Object) GetName() string { return o.Name }

func (o *Object) GetOuter() Node {
	if o.Outer == nil {
		return nil
	}
	return o.Outer
}

func (o *Object) Outermost() string {
	if o.Outer == nil {
		return o.Package
	}
	return o.Outer.Outermost()
}

func (o *Object) Has(flags ObjectFlags) bool { return o.Flags&flags != 0 }

// IsIn reports whether n appears anywhere in the outer chain of o.
func (o *Object) IsIn(n Node) bool {
	if n == nil {
		return false
	}
	for outer := o.GetOuter(); outer != nil; outer = outer.GetOuter() {
		if outer == n {
			return true
		}
	}
	return false
}

// IsAsset reports whether o is a standalone object owned by a package.
func (o *Object) IsAsset() bool {
	return o.Outer == nil && !o.Has(ObjectClassDefault)
}

func (o *Object) Subobjects() []*Object { return o.subobjects }

// DefaultSubobjects returns the subobjects created by native constructors.
func (o *Object) DefaultSubobjects() []*Object {
	var out []*Object
	for _, s := range o.subobjects {
		if s.Has(ObjectDefaultSubobject) {
			out = append(out, s)
		}
	}
	return out
}

// GetArchetype returns the object that o was instantiated from. A class
// default object's archetype is its super class's default object.
func (o *Object) GetArchetype() *Object {
	if o.Archetype != nil {
		return o.Archetype
	}
	if o.Class == nil {
		return nil
	}
	if o.Has(ObjectClassDefault) {
		if o.Class.Super != nil {
			return o.Class.Super.Default
		}
		return nil
	}
	if o.Class.Default == o {
		return nil
	}
	return o.Class.Default
}

func (o *Object) Set(name string, v Value) *Object {
	if o.Values == nil {
		o.Values = map[string]Value{}
	}
	o.Values[name] = v
	return o
}

func (o *Object) Get(name string) Value {
	f := o.Class.FindField(name)
	if f == nil {
		return nil
	}
	return o.ValueAt(f, 0)
}

// ValueAt reads the value of f, falling back through the archetype chain
// for values o does not set itself.
func (o *Object) ValueAt(f *Field, index int) Value {
	seen := map[*Object]bool{}
	for cur := o; cur != nil && !seen[cur]; cur = cur.GetArchetype() {
		seen[cur] = true
		if v, ok := cur.Values[f.Name]; ok {
			return elementAt(f, v, index)
		}
	}
	if s := f.OwnerStruct(); s != nil {
		if v, ok := s.defaultValue(f); ok {
			return elementAt(f, v, index)
		}
	}
	return Zero(f.Type)
}

// AsContainer returns o as a Container, or nil for a nil object.
func AsContainer(o *Object) Container {
	if o == nil {
		return nil
	}
	return o
}
