package emitter

import (
	"fmt"

	"github.com/cmmoran/nativizer/internal/model"
)

// mapping controls how a reference is resolved to an expression.
type mapping struct {
	// cppType is the type the expression is cast to. Empty derives it from
	// the referenced object's class.
	cppType string
	// load falls back to LoadObject by path.
	load bool
	// skipUsedAssets disables lookup in the class's used-asset list.
	skipUsedAssets bool
}

// FindGloballyMappedName returns the expression naming n in the current
// phase, or "" when n is not known yet.
func (c *Context) FindGloballyMappedName(n model.Node, cppType string) string {
	return c.findMapped(n, mapping{cppType: cppType})
}

func (c *Context) findMapped(n model.Node, m mapping) string {
	if n == nil {
		return ""
	}
	cls := c.Class
	typeName := func() string {
		if m.cppType != "" {
			return m.cppType
		}
		return c.nodeCppType(n)
	}
	castCustom := func(expr string) string {
		switch m.cppType {
		case "", "UClass", "UStruct", "UObject":
			return expr
		}
		return fmt.Sprintf("Cast<%s>(%s)", m.cppType, expr)
	}

	if obj, ok := n.(*model.Object); ok {
		if name, ok := c.locals[c.codeType][obj]; ok {
			return name
		}
	}
	if obj, ok := n.(*model.Object); ok && cls != nil && c.ownedByClass(obj) {
		for _, list := range []ClassSubobjectList{ListMiscConvertedSubobjects, ListDynamicBindingObjects, ListComponentTemplates, ListTimelines} {
			if idx := c.listIndex(list, obj); idx >= 0 {
				return fmt.Sprintf("CastChecked<%s>(CastChecked<UDynamicClass>(%s::StaticClass())->%s[%d])",
					typeName(), cls.CppName(), list.FieldName(), idx)
			}
		}
		if c.codeType != CodeRegular && obj == cls.Default {
			return "this"
		}
	}

	if cls != nil && n == model.Node(cls) {
		return castCustom("GetClass()")
	}

	switch t := n.(type) {
	case *model.Class:
		if t.Native() || c.willBeConverted(t) {
			return castCustom(t.CppName() + "::StaticClass()")
		}
	case *model.Struct:
		return t.CppName() + "::StaticStruct()"
	case *model.Enum:
		return fmt.Sprintf(`FindObjectChecked<UEnum>(ANY_PACKAGE, TEXT("%s"))`, t.CppName())
	}

	if !m.skipUsedAssets && cls != nil {
		for i, u := range c.usedObjects {
			if u == n {
				return fmt.Sprintf("CastChecked<%s>(CastChecked<UDynamicClass>(%s::StaticClass())->UsedAssets[%d])",
					typeName(), cls.CppName(), i)
			}
		}
	}

	if m.load {
		if obj, ok := n.(*model.Object); ok && !obj.IsAsset() {
			// Instances that are not standalone cannot be loaded by path.
			return ""
		}
		c.Deps.AddAsset(n)
		return fmt.Sprintf(`LoadObject<%s>(nullptr, TEXT("%s"))`, typeName(), escapeString(model.PathName(n)))
	}
	return ""
}

// ownedByClass reports whether obj lives inside the generated class, its
// default object, or a class the generated class derives from.
func (c *Context) ownedByClass(obj *model.Object) bool {
	if obj.IsIn(c.Class) || obj == c.Class.Default || obj.IsIn(c.Class.Default) {
		return true
	}
	outer, ok := obj.GetOuter().(*model.Class)
	return ok && c.Class.IsChildOf(outer)
}

func (c *Context) willBeConverted(cls *model.Class) bool {
	return cls == c.Class || c.registry.WillClassBeConverted(cls)
}

// nodeCppType is the native type of the expression that refers to n.
func (c *Context) nodeCppType(n model.Node) string {
	switch t := n.(type) {
	case *model.Object:
		return c.firstNativeOrConverted(t.Class).CppName()
	case *model.Class:
		return "UClass"
	case *model.Struct:
		return "UScriptStruct"
	case *model.Enum:
		return "UEnum"
	}
	return "UObject"
}
