package emitter

import (
	"fmt"

	"github.com/cmmoran/nativizer/internal/model"
)

// AccessOperator tells how a member is reached from its container
// expression.
type AccessOperator int

const (
	// AccessImplicit addresses members of the instance being constructed.
	AccessImplicit AccessOperator = iota
	// AccessDot addresses members of a value.
	AccessDot
	// AccessArrow addresses members through a pointer.
	AccessArrow
)

func (op AccessOperator) String() string {
	switch op {
	case AccessDot:
		return "."
	case AccessArrow:
		return "->"
	default:
		return ""
	}
}

// containerPtr is a pointer expression to the container outer.
func (op AccessOperator) containerPtr(outer string) string {
	switch op {
	case AccessDot:
		return "&(" + outer + ")"
	case AccessArrow:
		return "(" + outer + ")"
	default:
		return "this"
	}
}

// resolveAccess returns the expression for element idx of field f inside
// outer. Inaccessible members are bound to a fresh local first. When done is
// true the value has already been assigned and there is nothing to recurse
// into.
func (c *Context) resolveAccess(f *model.Field, outer string, op AccessOperator, idx int, data model.Container, allowProtected bool) (path string, done bool) {
	owner := f.OwnerStruct()
	noExport := owner != nil && owner.Native && owner.NoExport && op == AccessDot

	if ownerClass := f.OwnerClass(); ownerClass != nil && ownerClass.Generated() && !c.willBeConverted(ownerClass) {
		if op == AccessImplicit {
			c.log.Debug("unconverted owner accessed implicitly", "field", f.PathName())
		}
		index := ""
		if f.Dim() > 1 {
			index = fmt.Sprint(idx)
		}
		return fmt.Sprintf("%s(%s).GetRef__%s(%s)", c.useWrapper(ownerClass, f), op.containerPtr(outer), f.CppName(), index), false
	}

	if noExport || f.Access == model.AccessPrivate || (!allowProtected && f.Access == model.AccessProtected) {
		if isBitfieldBool(f) {
			prop := c.propertyByName(f)
			value, ok := c.exportText(f.Type, data.ValueAt(f, idx))
			if !ok {
				c.unformattable(f.PathName(), "bitfield value has no literal form")
				return "", true
			}
			c.linef("(((UBoolProperty*)%s)->SetPropertyValue_InContainer(%s, %s, %d));", prop, op.containerPtr(outer), value, idx)
			return "", true
		}
		var ptr string
		if noExport {
			ptr = c.accessUsingOffset(f, outer, idx)
		} else {
			ptr = c.accessInaccessible(f, op.containerPtr(outer), idx)
		}
		local := c.NewLocalName()
		c.linef("auto& %s = %s;", local, ptr)
		return local, false
	}

	path = outer + op.String() + f.CppName()
	if f.Dim() > 1 {
		path += fmt.Sprintf("[%d]", idx)
	}
	return path, false
}

func isBitfieldBool(f *model.Field) bool {
	st, ok := f.Type.(*model.ScalarType)
	return ok && st.Kind == model.KindBool && f.Has(model.FieldBitfield)
}

// propertyByName emits the cached lookup of the reflected property of f and
// returns the local holding it. The lookup is shared by every access to f
// within the current function body.
func (c *Context) propertyByName(f *model.Field) string {
	if local, ok := c.propertyLocals[f]; ok {
		return local
	}
	weak := c.NewLocalName()
	c.linef("static TWeakObjectPtr<UProperty> %s{};", weak)
	local := c.NewLocalName()
	c.linef("const UProperty* %s = %s.Get();", local, weak)
	c.target.Block(fmt.Sprintf("if (nullptr == %s)", local))
	owner := c.findMapped(f.Owner(), mapping{cppType: "UStruct"})
	if owner == "" {
		malformed(f.PathName(), "owner of inaccessible field cannot be referenced")
	}
	c.linef(`%s = (%s)->FindPropertyByName(FName(TEXT("%s")));`, local, owner, escapeString(f.Name))
	c.linef("check(%s);", local)
	c.linef("%s = %s;", weak, local)
	c.target.EndBlock("")
	c.propertyLocals[f] = local
	return local
}

func (c *Context) accessInaccessible(f *model.Field, containerPtr string, idx int) string {
	prop := c.propertyByName(f)
	return fmt.Sprintf("(*(%s->ContainerPtrToValuePtr<%s>(%s, %d)))", prop, c.cppType(f.Type), containerPtr, idx)
}

// accessUsingOffset reaches a member of a no-export native struct through
// its recorded byte offset. Elements of static arrays are addressed by
// element size and index.
func (c *Context) accessUsingOffset(f *model.Field, outer string, idx int) string {
	owner := f.OwnerStruct()
	if owner == nil || !owner.NativeLayout {
		malformed(f.PathName(), "no native layout registered for %s", ownerName(f))
	}
	cppType := c.cppType(f.Type)
	if f.Dim() > 1 {
		return fmt.Sprintf("(*(AccessPrivateProperty<%s>(&(%s), 0x%08X, sizeof(%s), %d)))", cppType, outer, f.Offset, cppType, idx)
	}
	return fmt.Sprintf("(*(AccessPrivateProperty<%s>(&(%s), 0x%08X)))", cppType, outer, f.Offset)
}

func ownerName(f *model.Field) string {
	if o := f.Owner(); o != nil {
		return o.GetName()
	}
	return "<unowned>"
}
