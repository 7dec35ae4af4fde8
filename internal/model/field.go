package model

import (
	"fmt"
)

type Access int

const (
	AccessPublic Access = iota
	AccessProtected
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return "public"
	}
}

type FieldFlags uint32

const (
	FieldEditorOnly FieldFlags = 1 << iota
	FieldTransient
	FieldConfig
	FieldInstancedReference
	// FieldBitfield marks a bool stored as a native bitfield member.
	FieldBitfield
	FieldLatentCallbackTarget
)

// Field is one reflected member of a Class or Struct.
type Field struct {
	Name     string
	Type     FieldType
	ArrayDim int
	Access   Access
	Flags    FieldFlags
	// Offset is the byte offset of the member inside its native owner.
	Offset int

	owner Node
}

func (f *Field) Has(flags FieldFlags) bool { return f.Flags&flags != 0 }

// Dim is the static array dimension, at least 1.
func (f *Field) Dim() int {
	if f.ArrayDim < 1 {
		return 1
	}
	return f.ArrayDim
}

func (f *Field) Owner() Node { return f.owner }

func (f *Field) OwnerClass() *Class {
	c, _ := f.owner.(*Class)
	return c
}

func (f *Field) OwnerStruct() *Struct {
	s, _ := f.owner.(*Struct)
	return s
}

func (f *Field) CppName() string { return CppIdentifier(f.Name) }

// PathName is used in diagnostics.
func (f *Field) PathName() string {
	if f.owner == nil {
		return f.Name
	}
	return PathName(f.owner) + ":" + f.Name
}

// FieldType is the closed set of property kinds.
type FieldType interface {
	fieldType()
	String() string
}

type ScalarKind int

const (
	KindBool ScalarKind = iota
	KindByte
	KindInt32
	KindInt64
	KindFloat
	KindDouble
	KindString
	KindName
	KindText
)

var scalarNames = map[ScalarKind]string{
	KindBool:   "bool",
	KindByte:   "byte",
	KindInt32:  "int32",
	KindInt64:  "int64",
	KindFloat:  "float",
	KindDouble: "double",
	KindString: "string",
	KindName:   "name",
	KindText:   "text",
}

func (k ScalarKind) String() string { return scalarNames[k] }

// ParseScalarKind resolves a scalar keyword as written in host dumps.
func ParseScalarKind(s string) (ScalarKind, bool) {
	for k, n := range scalarNames {
		if n == s {
			return k, true
		}
	}
	switch s {
	case "int", "integer":
		return KindInt32, true
	case "uint8":
		return KindByte, true
	case "str":
		return KindString, true
	}
	return 0, false
}

type ScalarType struct{ Kind ScalarKind }

type EnumType struct{ Enum *Enum }

type StructType struct{ Struct *Struct }

// ObjectType is a reference to an object of (a subclass of) Class.
type ObjectType struct{ Class *Class }

// ClassType is a class reference restricted to MetaClass and its children.
type ClassType struct{ MetaClass *Class }

type ArrayType struct{ Elem FieldType }

type DelegateType struct {
	Signature string
	Multicast bool
}

func (*ScalarType) fieldType()   {}
func (*EnumType) fieldType()     {}
func (*StructType) fieldType()   {}
func (*ObjectType) fieldType()   {}
func (*ClassType) fieldType()    {}
func (*ArrayType) fieldType()    {}
func (*DelegateType) fieldType() {}

func (t *ScalarType) String() string { return t.Kind.String() }
func (t *EnumType) String() string   { return "enum:" + t.Enum.Name }
func (t *StructType) String() string { return "struct:" + t.Struct.Name }
func (t *ObjectType) String() string { return "object:" + t.Class.Name }
func (t *ClassType) String() string  { return "class:" + t.MetaClass.Name }
func (t *ArrayType) String() string  { return fmt.Sprintf("array<%s>", t.Elem) }
func (t *DelegateType) String() string {
	if t.Multicast {
		return "multicast:" + t.Signature
	}
	return "delegate:" + t.Signature
}

var (
	TypeBool   FieldType = &ScalarType{Kind: KindBool}
	TypeByte   FieldType = &ScalarType{Kind: KindByte}
	TypeInt32  FieldType = &ScalarType{Kind: KindInt32}
	TypeInt64  FieldType = &ScalarType{Kind: KindInt64}
	TypeFloat  FieldType = &ScalarType{Kind: KindFloat}
	TypeDouble FieldType = &ScalarType{Kind: KindDouble}
	TypeString FieldType = &ScalarType{Kind: KindString}
	TypeName   FieldType = &ScalarType{Kind: KindName}
	TypeText   FieldType = &ScalarType{Kind: KindText}
)

func StructOf(s *Struct) FieldType  { return &StructType{Struct: s} }
func ObjectOf(c *Class) FieldType   { return &ObjectType{Class: c} }
func ClassOf(c *Class) FieldType    { return &ClassType{MetaClass: c} }
func EnumOf(e *Enum) FieldType      { return &EnumType{Enum: e} }
func ArrayOf(t FieldType) FieldType { return &ArrayType{Elem: t} }
