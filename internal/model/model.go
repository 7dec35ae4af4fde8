package model

import (
	"fmt"
	"strings"
)

// Node is anything that can sit in an outer chain: classes, structs, enums
// and object instances.
type Node interface {
	GetName() string
	GetOuter() Node
	// Outermost returns the package path that ultimately owns the node.
	Outermost() string
}

type ClassFlags uint32

const (
	ClassNative ClassFlags = 1 << iota
	ClassGenerated
	ClassDefaultToInstanced
	// ClassObjectInitializerConstructor marks a class whose native
	// constructor takes an FObjectInitializer.
	ClassObjectInitializerConstructor
	ClassAbstract
)

// inheritedClassFlags are propagated from a super class to its children.
const inheritedClassFlags = ClassDefaultToInstanced

type EnumCppForm int

const (
	EnumRegular EnumCppForm = iota
	EnumNamespaced
	EnumClass
)

type Enum struct {
	Name        string
	Package     string
	CppForm     EnumCppForm
	Values      []string
	UserDefined bool
}

func (e *Enum) GetName() string   { return e.Name }
func (e *Enum) GetOuter() Node    { return nil }
func (e *Enum) Outermost() string { return e.Package }

// CppName is the declared native type name.
func (e *Enum) CppName() string { return CppIdentifier(e.Name) }

// CppType is the type used when the enum is stored in a property.
func (e *Enum) CppType() string {
	switch e.CppForm {
	case EnumClass:
		return e.CppName()
	case EnumNamespaced:
		return "TEnumAsByte<" + e.CppName() + "::Type>"
	default:
		return "TEnumAsByte<" + e.CppName() + ">"
	}
}

// ValueName returns the symbolic constant for index, qualified according to
// the enum's native form.
func (e *Enum) ValueName(index int64) (string, bool) {
	if index < 0 || index >= int64(len(e.Values)) {
		return "", false
	}
	name := e.Values[index]
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	if e.CppForm == EnumRegular {
		return name, true
	}
	return e.CppName() + "::" + name, true
}

// IndexOf returns the position of the named enumerator, accepting both bare
// and qualified spellings.
func (e *Enum) IndexOf(name string) int {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	for i, v := range e.Values {
		if j := strings.LastIndex(v, "::"); j >= 0 {
			v = v[j+2:]
		}
		if v == name {
			return i
		}
	}
	return -1
}

type Struct struct {
	Name        string
	Package     string
	NativeName  string
	Super       *Struct
	Fields      []*Field
	Native      bool
	NoExport    bool
	UserDefined bool
	// NativeLayout reports that field offsets are known for the native
	// declaration; required to reach members of no-export structs.
	NativeLayout bool
	// Defaults holds the values produced by the native default constructor.
	// Missing entries are zero.
	Defaults map[string]Value
	// DeclaredDefaults are the editor-declared defaults of a user-defined
	// struct, layered on top of Defaults.
	DeclaredDefaults map[string]Value
}

func (s *Struct) GetName() string   { return s.Name }
func (s *Struct) GetOuter() Node    { return nil }
func (s *Struct) Outermost() string { return s.Package }

func (s *Struct) CppName() string {
	if s.NativeName != "" {
		return s.NativeName
	}
	return "F" + CppIdentifier(s.Name)
}

// AddField appends f to the struct and records the struct as its owner.
func (s *Struct) AddField(f *Field) *Field {
	f.owner = s
	s.Fields = append(s.Fields, f)
	return f
}

// AllFields returns the fields of the struct and its ancestors, base first,
// in declaration order.
func (s *Struct) AllFields() []*Field {
	if s.Super == nil {
		return s.Fields
	}
	out := append([]*Field{}, s.Super.AllFields()...)
	return append(out, s.Fields...)
}

func (s *Struct) FindField(name string) *Field {
	for st := s; st != nil; st = st.Super {
		for _, f := range st.Fields {
			if f.Name == name {
				return f
			}
		}
	}
	return nil
}

func (s *Struct) defaultValue(f *Field) (Value, bool) {
	for st := s; st != nil; st = st.Super {
		if v, ok := st.Defaults[f.Name]; ok {
			return v, true
		}
	}
	return nil, false
}

type Class struct {
	Name       string
	Package    string
	NativeName string
	Super      *Class
	Fields     []*Field
	Flags      ClassFlags
	Interface  bool

	// Default is the class default object.
	Default *Object

	ComponentTemplates    []*Object
	Timelines             []*Object
	DynamicBindingObjects []*Object

	ConstructionScript    *ConstructionScript
	InheritableComponents *InheritableComponentHandler
}

func (c *Class) GetName() string   { return c.Name }
func (c *Class) GetOuter() Node    { return nil }
func (c *Class) Outermost() string { return c.Package }

func (c *Class) Native() bool    { return c.Flags&ClassNative != 0 }
func (c *Class) Generated() bool { return c.Flags&ClassGenerated != 0 }

// HasFlags reports whether all of flags are set, honouring flags that are
// inherited from super classes.
func (c *Class) HasFlags(flags ClassFlags) bool {
	own := c.Flags
	for s := c.Super; s != nil; s = s.Super {
		own |= s.Flags & inheritedClassFlags
	}
	return own&flags == flags
}

// CppName follows the native prefix convention: A for actors, U otherwise.
func (c *Class) CppName() string {
	if c.NativeName != "" {
		return c.NativeName
	}
	prefix := "U"
	if c.IsChildOfName("Actor") {
		prefix = "A"
	}
	if c.Interface {
		prefix = "I"
	}
	return prefix + CppIdentifier(c.Name)
}

func (c *Class) AddField(f *Field) *Field {
	f.owner = c
	c.Fields = append(c.Fields, f)
	return f
}

func (c *Class) AllFields() []*Field {
	if c.Super == nil {
		return c.Fields
	}
	out := append([]*Field{}, c.Super.AllFields()...)
	return append(out, c.Fields...)
}

func (c *Class) FindField(name string) *Field {
	for cl := c; cl != nil; cl = cl.Super {
		for _, f := range cl.Fields {
			if f.Name == name {
				return f
			}
		}
	}
	return nil
}

func (c *Class) IsChildOf(other *Class) bool {
	if other == nil {
		return false
	}
	for cl := c; cl != nil; cl = cl.Super {
		if cl == other {
			return true
		}
	}
	return false
}

func (c *Class) IsChildOfName(name string) bool {
	return c.FindAncestor(name) != nil
}

// FindAncestor returns the nearest class in the hierarchy (including c) with
// the given name.
func (c *Class) FindAncestor(name string) *Class {
	for cl := c; cl != nil; cl = cl.Super {
		if cl.Name == name {
			return cl
		}
	}
	return nil
}

// GeneratedHierarchy returns c followed by each generated ancestor up to the
// first native class.
func (c *Class) GeneratedHierarchy() []*Class {
	var out []*Class
	for cl := c; cl != nil && cl.Generated(); cl = cl.Super {
		out = append(out, cl)
	}
	return out
}

// PathName renders the full object path of n.
func PathName(n Node) string {
	if n == nil {
		return "None"
	}
	outer := n.GetOuter()
	if outer == nil {
		return n.Outermost() + "." + n.GetName()
	}
	sep := "."
	if outer.GetOuter() == nil {
		sep = ":"
	}
	return PathName(outer) + sep + n.GetName()
}

// identifierPostfix marks identifiers whose source name had to be rewritten.
const identifierPostfix = "__pf"

// CppIdentifier maps an arbitrary name onto a valid C++ identifier. Names
// that already are identifiers are kept. Otherwise every rune that cannot be
// kept is replaced by '_' and recorded after identifierPostfix as
// <rune index>x<hex code point>, so distinct names never share an identifier.
// A name that contains identifierPostfix itself always gets the postfix.
func CppIdentifier(name string) string {
	var (
		sb      strings.Builder
		postfix strings.Builder
		rewrite = name == "" || strings.Contains(name, identifierPostfix)
	)
	for i, r := range []rune(name) {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9' && i > 0:
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
			if postfix.Len() > 0 {
				postfix.WriteByte('_')
			}
			fmt.Fprintf(&postfix, "%dx%x", i, r)
			rewrite = true
		}
	}
	if !rewrite {
		return sb.String()
	}
	return sb.String() + identifierPostfix + postfix.String()
}
