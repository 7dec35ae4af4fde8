package emitter

import (
	"github.com/cmmoran/nativizer/internal/model"
)

// MaterializeInstancedObject returns the local naming obj, emitting its
// construction and property initialization the first time obj is seen in
// the current phase.
//
// Objects owned by the class default object are created with
// CreateDefaultSubobject, or looked up by name when createInline is false
// because a native base constructor already made them. Any other object is
// created inside its owner, which is materialized first. Editor-only
// components are replaced by a plain scene or actor component unless
// skipEditorOnlyCheck is set.
func (c *Context) MaterializeInstancedObject(obj *model.Object, createInline, skipEditorOnlyCheck bool) string {
	if obj == nil {
		return ""
	}
	if name := c.findMapped(obj, mapping{}); name != "" {
		return name
	}

	class := obj.Class
	editorOnly := false
	if !skipEditorOnlyCheck && obj.Has(model.ObjectEditorOnly) && class.IsChildOfName("ActorComponent") {
		editorOnly = true
		if class.IsChildOfName("SceneComponent") {
			class = class.FindAncestor("SceneComponent")
		} else {
			class = class.FindAncestor("ActorComponent")
		}
	}

	var cdo *model.Object
	if c.Class != nil {
		cdo = c.Class.Default
	}
	ownedByDefault := cdo != nil && obj.GetOuter() == model.Node(cdo)

	var outerName string
	if editorOnly || !ownedByDefault {
		outerName = c.resolveOwner(obj)
		// Materializing the owner may have reached obj through a reference.
		if name := c.findMapped(obj, mapping{}); name != "" {
			return name
		}
	}

	name := c.NewLocalName()
	c.bind(obj, name)
	nativeType := c.firstNativeOrConverted(class).CppName()

	if !editorOnly && ownedByDefault {
		if createInline {
			c.linef(`auto %s = CreateDefaultSubobject<%s>(TEXT("%s"));`, name, nativeType, escapeString(obj.Name))
		} else {
			c.linef(`auto %s = CastChecked<%s>(GetDefaultSubobjectByName(TEXT("%s")));`, name, nativeType, escapeString(obj.Name))
		}
		c.emitObjectFields(obj, class, name)
		return name
	}

	c.linef(`auto %s = NewObject<%s>(%s, %s, TEXT("%s"));`, name, nativeType, outerName, c.classExpr(class), escapeString(obj.Name))
	if !editorOnly {
		c.emitObjectFields(obj, class, name)
	}
	return name
}

// resolveOwner returns the expression naming the outer of obj,
// materializing it when it is an instanced object not seen yet.
func (c *Context) resolveOwner(obj *model.Object) string {
	outer := obj.GetOuter()
	if name := c.findMapped(outer, mapping{}); name != "" {
		return name
	}
	if owner, ok := outer.(*model.Object); ok && !owner.IsAsset() {
		if name := c.MaterializeInstancedObject(owner, owner.Has(model.ObjectArchetype), false); name != "" {
			return name
		}
	}
	malformed(model.PathName(obj), "owner of instanced object cannot be resolved")
	return ""
}

// materializeClassSubobject creates and/or initializes a template owned by
// the generated class. Templates directly inside the class are added to the
// class list; nested ones are created inside their already created owner.
func (c *Context) materializeClassSubobject(obj *model.Object, list ClassSubobjectList, create, initialize bool) string {
	var name string
	if create {
		if existing, ok := c.locals[c.codeType][obj]; ok {
			name = existing
		} else {
			outerName := c.findMapped(obj.GetOuter(), mapping{})
			if outerName == "" {
				owner, ok := obj.GetOuter().(*model.Object)
				if !ok {
					malformed(model.PathName(obj), "owner of class subobject cannot be resolved")
				}
				outerName = c.materializeClassSubobject(owner, list, create, initialize)
				if existing := c.findMapped(obj, mapping{}); existing != "" {
					return existing
				}
			}

			atClass := obj.GetOuter() == model.Node(c.Class)
			if atClass {
				outerName = "InDynamicClass"
			}
			name = c.NewLocalName()
			c.bind(obj, name)
			c.linef(`auto %s = NewObject<%s>(%s, %s, TEXT("%s"));`,
				name, c.firstNativeOrConverted(obj.Class).CppName(), outerName, c.classExpr(obj.Class), escapeString(obj.Name))
			if atClass {
				c.registerClassSubobject(obj, list)
				c.linef("InDynamicClass->%s.Add(%s);", list.FieldName(), name)
			}
		}
	}

	if initialize {
		if name == "" {
			name = c.findMapped(obj, mapping{})
		}
		if name == "" {
			malformed(model.PathName(obj), "class subobject initialized before it was created")
		}
		base := model.AsContainer(obj.Class.Default)
		for _, f := range obj.Class.AllFields() {
			c.emitField(f, name, obj, base, AccessArrow, c.opts.AllowProtected)
		}
	}
	return name
}

// bind records name as the local of obj in the current phase.
func (c *Context) bind(obj *model.Object, name string) {
	c.locals[c.codeType][obj] = name
}

// emitObjectFields writes the properties of obj that differ from its
// archetype.
func (c *Context) emitObjectFields(obj *model.Object, class *model.Class, name string) {
	archetype := obj.GetArchetype()
	if archetype == nil {
		malformed(model.PathName(obj), "instanced object has no archetype")
	}
	for _, f := range class.AllFields() {
		c.emitField(f, name, obj, archetype, AccessArrow, c.opts.AllowProtected)
	}
}

// classExpr names the runtime class of a constructed object.
func (c *Context) classExpr(class *model.Class) string {
	return c.findMapped(class, mapping{cppType: "UClass", load: true})
}
