package model

import (
	"math"
)

// Value is a live property value.
type Value interface {
	value()
}

type (
	Bool   bool
	Byte   uint8
	Int32  int32
	Int64  int64
	Float  float32
	Double float64
	String string
	Name   string
)

// Text is a localizable string.
type Text struct {
	Source           string
	Namespace        string
	Key              string
	CultureInvariant bool
}

// EnumValue holds the enumerator index.
type EnumValue int64

// ObjectRef points at an object, class, struct or enum. A nil Target is the
// null reference.
type ObjectRef struct {
	Target Node
}

// Delegate bindings carry no emittable state.
type Delegate struct{}

type ArrayValue struct {
	Items []Value
}

// FixedArray holds the elements of a static array property (ArrayDim > 1).
type FixedArray struct {
	Items []Value
}

func (Bool) value()        {}
func (Byte) value()        {}
func (Int32) value()       {}
func (Int64) value()       {}
func (Float) value()       {}
func (Double) value()      {}
func (String) value()      {}
func (Name) value()        {}
func (Text) value()        {}
func (EnumValue) value()   {}
func (ObjectRef) value()   {}
func (Delegate) value()    {}
func (*ArrayValue) value() {}
func (*FixedArray) value() {}
func (*StructValue) value() {}

func Ref(n Node) ObjectRef { return ObjectRef{Target: n} }

// Object returns the referenced instance, if the target is one.
func (r ObjectRef) Object() *Object {
	o, _ := r.Target.(*Object)
	return o
}

func (r ObjectRef) IsNull() bool {
	if r.Target == nil {
		return true
	}
	switch t := r.Target.(type) {
	case *Object:
		return t == nil
	case *Class:
		return t == nil
	case *Struct:
		return t == nil
	case *Enum:
		return t == nil
	}
	return false
}

func Array(items ...Value) *ArrayValue { return &ArrayValue{Items: items} }

// Container is anything that stores field values: object instances and
// struct values.
type Container interface {
	ValueAt(f *Field, index int) Value
}

// StructValue is an instance of a Struct. Fields that were never set read as
// the struct's native defaults, then as zero.
type StructValue struct {
	Struct *Struct
	Fields map[string]Value
}

func NewStructValue(s *Struct) *StructValue {
	return &StructValue{Struct: s, Fields: map[string]Value{}}
}

// NewDefaultValue returns s as its native constructor leaves it, including
// the editor-declared defaults of user-defined structs.
func NewDefaultValue(s *Struct) *StructValue {
	sv := NewStructValue(s)
	var chain []*Struct
	for st := s; st != nil; st = st.Super {
		chain = append(chain, st)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for name, v := range chain[i].DeclaredDefaults {
			sv.Fields[name] = v
		}
	}
	return sv
}

// Set stores v and returns the receiver for chaining.
func (sv *StructValue) Set(name string, v Value) *StructValue {
	if sv.Fields == nil {
		sv.Fields = map[string]Value{}
	}
	sv.Fields[name] = v
	return sv
}

// With returns a shallow copy with name set to v.
func (sv *StructValue) With(name string, v Value) *StructValue {
	out := &StructValue{Struct: sv.Struct, Fields: make(map[string]Value, len(sv.Fields)+1)}
	for k, fv := range sv.Fields {
		out.Fields[k] = fv
	}
	out.Fields[name] = v
	return out
}

// Get reads a field by name.
func (sv *StructValue) Get(name string) Value {
	f := sv.Struct.FindField(name)
	if f == nil {
		return nil
	}
	return sv.ValueAt(f, 0)
}

func (sv *StructValue) ValueAt(f *Field, index int) Value {
	if v, ok := sv.Fields[f.Name]; ok {
		return elementAt(f, v, index)
	}
	if v, ok := sv.Struct.defaultValue(f); ok {
		return elementAt(f, v, index)
	}
	return Zero(f.Type)
}

func elementAt(f *Field, v Value, index int) Value {
	if fa, ok := v.(*FixedArray); ok {
		if index < len(fa.Items) && fa.Items[index] != nil {
			return fa.Items[index]
		}
		return Zero(f.Type)
	}
	if f.Dim() > 1 && index > 0 {
		return Zero(f.Type)
	}
	return v
}

// Zero returns the value a freshly zeroed property of type t holds.
func Zero(t FieldType) Value {
	switch ft := t.(type) {
	case *ScalarType:
		switch ft.Kind {
		case KindBool:
			return Bool(false)
		case KindByte:
			return Byte(0)
		case KindInt32:
			return Int32(0)
		case KindInt64:
			return Int64(0)
		case KindFloat:
			return Float(0)
		case KindDouble:
			return Double(0)
		case KindString:
			return String("")
		case KindName:
			return Name("")
		case KindText:
			return Text{}
		}
	case *EnumType:
		return EnumValue(0)
	case *StructType:
		return NewStructValue(ft.Struct)
	case *ObjectType, *ClassType:
		return ObjectRef{}
	case *ArrayType:
		return &ArrayValue{}
	case *DelegateType:
		return Delegate{}
	}
	return nil
}

// Identical reports deep equality of two values of the same field type.
// Object references compare by identity.
func Identical(a, b Value) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Float:
		bv, ok := b.(Float)
		return ok && floatBits32(av) == floatBits32(bv)
	case Double:
		bv, ok := b.(Double)
		return ok && math.Float64bits(float64(av)) == math.Float64bits(float64(bv))
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case ObjectRef:
		bv, ok := b.(ObjectRef)
		if !ok {
			return false
		}
		if av.IsNull() || bv.IsNull() {
			return av.IsNull() == bv.IsNull()
		}
		return av.Target == bv.Target
	case *StructValue:
		bv, ok := b.(*StructValue)
		if !ok || av.Struct != bv.Struct {
			return false
		}
		for _, f := range av.Struct.AllFields() {
			for i := 0; i < f.Dim(); i++ {
				if !Identical(av.ValueAt(f, i), bv.ValueAt(f, i)) {
					return false
				}
			}
		}
		return true
	case *ArrayValue:
		bv, ok := b.(*ArrayValue)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Identical(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *FixedArray:
		bv, ok := b.(*FixedArray)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Identical(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case Delegate:
		_, ok := b.(Delegate)
		return ok
	}
	return a == b
}

// floatBits32 treats -0 and +0 as distinct, and all NaNs with the same
// payload as identical, matching a bytewise memory compare.
func floatBits32(f Float) uint32 { return math.Float32bits(float32(f)) }
