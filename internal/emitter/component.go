package emitter

import (
	"fmt"

	"github.com/cmmoran/nativizer/internal/model"
)

// componentInit is a construction script component whose properties are
// written once the whole hierarchy has been created.
type componentInit struct {
	variable string
	template *model.Object
	// compare is the baseline of the template's properties.
	compare *model.Object
	parent  string
	// attachTo is the socket or bone name, empty for none.
	attachTo  string
	setNative bool
	isRoot    bool
}

// componentWalk collects the state of the construction script walk of one
// constructor.
type componentWalk struct {
	handled map[*model.Field]bool
	// nativeCreated are the variables whose creation method must be fixed
	// after load.
	nativeCreated []string
	inits         []*componentInit
}

// handleNonNativeComponent creates the component of node when the generated
// class owns its template, then recurses into the children. It returns the
// variable that names the component.
func (c *Context) handleNonNativeComponent(node *model.SCSNode, parent *model.SCSNode, walk *componentWalk) string {
	if c.codeType != CodeCommonConstructor {
		malformed(node.VariableName, "construction script handled outside the constructor")
	}
	cls := c.Class
	var variable string

	if template := node.ActualTemplate(cls, c.opts.EnableInheritableComponents); template != nil {
		field := c.componentField(node.VariableName)
		if field != nil {
			variable = field.CppName()
			walk.handled[field] = true
		} else {
			variable = node.VariableName
		}
		c.bind(template, variable)

		if template.GetOuter() == model.Node(cls) {
			ci := &componentInit{
				variable: variable,
				template: template,
				compare:  template.Class.Default,
				isRoot:   node.Script() != nil && node.Script().SceneRoot() == node,
			}
			if template.Has(model.ObjectInheritableComponentTemplate) {
				ci.compare = node.ActualTemplate(cls.Super, c.opts.EnableInheritableComponents)
			} else {
				decl := "auto "
				if field != nil {
					decl = ""
				}
				c.linef(`%s%s = CreateDefaultSubobject<%s>(TEXT("%s"));`,
					decl, variable, c.firstNativeOrConverted(template.Class).CppName(), escapeString(node.VariableName))
				ci.setNative = true
				walk.nativeCreated = append(walk.nativeCreated, variable)

				switch {
				case parent != nil:
					if pf := c.componentField(parent.VariableName); pf != nil {
						ci.parent = pf.CppName()
					} else {
						ci.parent = parent.VariableName
					}
				case node.ParentComponent != nil:
					ci.parent = c.findMapped(node.ParentComponent, mapping{cppType: "USceneComponent"})
				}
				ci.attachTo = node.AttachToName
			}
			walk.inits = append(walk.inits, ci)
		}
	}

	for _, child := range node.Children {
		c.handleNonNativeComponent(child, node, walk)
	}
	return variable
}

// componentField returns the object property of the generated class that
// holds the component named name.
func (c *Context) componentField(name string) *model.Field {
	f := c.Class.FindField(name)
	if f == nil {
		return nil
	}
	if _, ok := f.Type.(*model.ObjectType); !ok {
		return nil
	}
	return f
}

func (c *Context) emitComponentProperties(ci *componentInit) {
	if ci.variable == "" {
		malformed(model.PathName(ci.template), "component has no variable name")
	}
	if ci.setNative {
		c.linef("%s->CreationMethod = EComponentCreationMethod::Native;", ci.variable)
	}
	if ci.parent != "" {
		socket := ""
		if ci.attachTo != "" {
			socket = fmt.Sprintf(`, TEXT("%s")`, escapeString(ci.attachTo))
		}
		// Attach first so that properties may override the relative transform.
		c.linef("%s->AttachToComponent(%s, FAttachmentTransformRules::KeepRelativeTransform %s);", ci.variable, ci.parent, socket)
	}

	class := ci.template.Class
	bodyField := c.bodyInstanceField(class)
	bodyHandled := false
	if bodyField != nil {
		bodyHandled = c.emitCollisionProfile(ci, bodyField)
	}

	for _, f := range class.AllFields() {
		if bodyHandled && f == bodyField {
			continue
		}
		if ci.isRoot && isRelativeTransformField(f) {
			continue
		}
		c.emitField(f, ci.variable, ci.template, model.AsContainer(ci.compare), AccessArrow, c.opts.AllowProtected)
	}
}

// bodyInstanceField returns the BodyInstance member of primitive components.
func (c *Context) bodyInstanceField(class *model.Class) *model.Field {
	primitive := class.FindAncestor("PrimitiveComponent")
	if primitive == nil || !primitive.Native() {
		return nil
	}
	f := primitive.FindField("BodyInstance")
	if f == nil {
		return nil
	}
	if _, ok := f.Type.(*model.StructType); !ok {
		return nil
	}
	return f
}

// emitCollisionProfile writes the collision profile of a primitive component
// when it differs from the baseline, followed by the remaining body
// properties compared against a baseline carrying the new profile.
func (c *Context) emitCollisionProfile(ci *componentInit, bodyField *model.Field) bool {
	bodyStruct := bodyField.Type.(*model.StructType).Struct
	body := asStructValue(ci.template.ValueAt(bodyField, 0), bodyStruct)
	profile, _ := body.Get("CollisionProfileName").(model.Name)

	compareBody := model.NewDefaultValue(bodyStruct)
	if ci.compare != nil && ci.compare.Class.IsChildOf(bodyField.OwnerClass()) {
		compareBody = asStructValue(ci.compare.ValueAt(bodyField, 0), bodyStruct)
	}
	compareProfile, _ := compareBody.Get("CollisionProfileName").(model.Name)
	if profile == compareProfile {
		return false
	}

	path := ci.variable + "->BodyInstance"
	c.linef(`%s.SetCollisionProfileName(FName(TEXT("%s")));`, path, escapeString(string(profile)))
	c.emitValue(fieldSite(bodyField), path, body, compareBody.With("CollisionProfileName", profile), false)
	return true
}

// isRelativeTransformField reports the scene component members that root
// components created by a construction script ignore.
func isRelativeTransformField(f *model.Field) bool {
	owner := f.OwnerClass()
	if owner == nil || owner.Name != "SceneComponent" || !owner.Native() {
		return false
	}
	return f.Name == "RelativeLocation" || f.Name == "RelativeRotation"
}
