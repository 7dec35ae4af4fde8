package emitter

import (
	"fmt"

	"github.com/cmmoran/nativizer/internal/model"
)

// valueSite describes the slot a value is written to.
type valueSite struct {
	typ   model.FieldType
	flags model.FieldFlags
	// name identifies the slot in diagnostics.
	name string
}

func fieldSite(f *model.Field) valueSite {
	return valueSite{typ: f.Type, flags: f.Flags, name: f.PathName()}
}

// emitField writes the statements that bring every element of f inside
// outer to its value in data. Elements identical to base are skipped; a nil
// base emits every element.
func (c *Context) emitField(f *model.Field, outer string, data, base model.Container, op AccessOperator, allowProtected bool) {
	if f.Has(model.FieldEditorOnly | model.FieldTransient) {
		c.skipped(f.PathName(), "editor-only or transient")
		return
	}
	if _, ok := f.Type.(*model.DelegateType); ok {
		c.skipped(f.PathName(), "delegate")
		return
	}
	if c.opts.SkipField != nil && c.opts.SkipField(f) {
		c.skipped(f.PathName(), "excluded")
		return
	}

	for idx := 0; idx < f.Dim(); idx++ {
		v := data.ValueAt(f, idx)
		var bv model.Value
		if base != nil {
			bv = base.ValueAt(f, idx)
			if !f.Has(model.FieldConfig) && (model.Identical(v, bv) || equivalentInstancedSubobject(v, bv)) {
				continue
			}
		}
		path, done := c.resolveAccess(f, outer, op, idx, data, allowProtected)
		if done {
			continue
		}
		c.emitValue(fieldSite(f), path, v, bv, false)
	}
}

// equivalentInstancedSubobject reports whether both values point at default
// subobjects of the same name. Those are recreated by the native
// constructor and never count as a difference.
func equivalentInstancedSubobject(v, base model.Value) bool {
	a, ok := v.(model.ObjectRef)
	if !ok {
		return false
	}
	b, ok := base.(model.ObjectRef)
	if !ok {
		return false
	}
	ao, bo := a.Object(), b.Object()
	return ao != nil && bo != nil &&
		ao.Has(model.ObjectDefaultSubobject) && bo.Has(model.ObjectDefaultSubobject) &&
		ao.Name == bo.Name
}

// emitValue writes v to path. Unless skipFirst is set it first tries a
// single assignment; aggregates that cannot be written in one line are
// populated member by member.
func (c *Context) emitValue(site valueSite, path string, v, base model.Value, skipFirst bool) {
	_, isArray := site.typ.(*model.ArrayType)
	if !skipFirst {
		expr, complete := c.oneLine(site, v, false)
		if expr != "" {
			c.linef("%s = %s;", path, expr)
		}
		// An array declaration is complete but still needs its items.
		if complete && !isArray {
			return
		}
	}

	switch t := site.typ.(type) {
	case *model.StructType:
		sv := asStructValue(v, t.Struct)
		bs, ok := base.(*model.StructValue)
		if !ok || bs == nil {
			bs = model.NewDefaultValue(t.Struct)
		}
		for _, f := range t.Struct.AllFields() {
			c.emitField(f, path, sv, bs, AccessDot, false)
		}
	case *model.ArrayType:
		c.emitArrayItems(site, t, path, v)
	}
}

func (c *Context) emitArrayItems(site valueSite, arr *model.ArrayType, path string, v model.Value) {
	av, _ := v.(*model.ArrayValue)
	if av == nil || len(av.Items) == 0 {
		return
	}
	n := len(av.Items)
	elem := valueSite{typ: arr.Elem, flags: site.flags, name: site.name}

	innerStruct, _ := arr.Elem.(*model.StructType)
	noExport := innerStruct != nil && innerStruct.Struct.Native && innerStruct.Struct.NoExport
	var regular *model.Struct
	if innerStruct != nil && !noExport && !IsSpecialStruct(innerStruct.Struct) {
		regular = innerStruct.Struct
	}
	_, nested := arr.Elem.(*model.ArrayType)

	if regular != nil {
		c.linef("%s.AddUninitialized(%d);", path, n)
		c.linef("%s->InitializeStruct(%s.GetData(), %d);", c.findMapped(regular, mapping{cppType: "UScriptStruct"}), path, n)
	} else {
		c.linef("%s.Reserve(%d);", path, n)
	}

	for i, item := range av.Items {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		switch {
		case regular != nil:
			local := c.NewLocalName()
			c.linef("auto& %s = %s;", local, elemPath)
			c.emitValue(elem, local, item, model.NewDefaultValue(regular), true)
		case nested:
			c.linef("%s.Add(%s());", path, c.cppType(arr.Elem))
			if inner, _ := item.(*model.ArrayValue); inner != nil && len(inner.Items) > 0 {
				local := c.NewLocalName()
				c.linef("auto& %s = %s;", local, elemPath)
				c.emitValue(elem, local, item, nil, true)
			}
		default:
			expr, complete := c.oneLine(elem, item, noExport)
			if expr == "" {
				expr = c.defaultConstructor(arr.Elem)
			}
			c.linef("%s.Add(%s);", path, expr)
			if noExport && !complete {
				c.emitValue(elem, elemPath, item, model.NewDefaultValue(innerStruct.Struct), true)
			}
		}
	}
}

// oneLine renders v as a single expression. complete is false for structs
// that must be populated member by member; with emptyStructCtor set such
// structs render as a default-constructed value instead of "".
func (c *Context) oneLine(site valueSite, v model.Value, emptyStructCtor bool) (expr string, complete bool) {
	if expr, ok := c.handleSpecialTypes(site, v); ok {
		return expr, true
	}
	if expr, ok := c.exportText(site.typ, v); ok {
		return expr, true
	}
	if st, ok := site.typ.(*model.StructType); ok {
		if emptyStructCtor {
			return st.Struct.CppName() + "{}", false
		}
		return "", false
	}
	c.unformattable(site.name, "no literal form for %s value", site.typ)
	return "", true
}

// handleSpecialTypes covers the values whose expression depends on the
// session: references to known or instanced objects, and the engine structs
// with dedicated constructors.
func (c *Context) handleSpecialTypes(site valueSite, v model.Value) (string, bool) {
	switch t := site.typ.(type) {
	case *model.ObjectType, *model.ClassType:
		ref, _ := v.(model.ObjectRef)
		if ref.IsNull() {
			if site.flags&model.FieldLatentCallbackTarget != 0 {
				return "this", true
			}
			return "", false
		}
		if mapped := c.findMapped(ref.Target, mapping{cppType: c.refCppType(t)}); mapped != "" {
			return mapped, true
		}
		obj := ref.Object()
		if obj == nil || c.Class == nil {
			return "", false
		}
		if c.codeType == CodeSubobjectsOfClass && obj.IsIn(c.Class) && !obj.IsIn(c.Class.Default) {
			name := c.materializeClassSubobject(obj, ListMiscConvertedSubobjects, true, true)
			return name, name != ""
		}
		if c.codeType != CodeSubobjectsOfClass && site.flags&model.FieldInstancedReference != 0 {
			if name := c.MaterializeInstancedObject(obj, obj.Has(model.ObjectArchetype), false); name != "" {
				return name, true
			}
		}
	case *model.StructType:
		return FormatSpecialStruct(t.Struct, asStructValue(v, t.Struct))
	}
	return "", false
}

// defaultConstructor is the value-initialized expression of type ft.
func (c *Context) defaultConstructor(ft model.FieldType) string {
	switch ft.(type) {
	case *model.ObjectType:
		return "nullptr"
	case *model.StructType:
		return c.cppType(ft) + "{}"
	}
	return c.cppType(ft) + "()"
}

func asStructValue(v model.Value, st *model.Struct) *model.StructValue {
	if sv, ok := v.(*model.StructValue); ok && sv != nil {
		return sv
	}
	return model.NewDefaultValue(st)
}
