package model

// ConstructionScript is the tree of component nodes a generated class adds
// on top of its parent.
type ConstructionScript struct {
	Class *Class
	Roots []*SCSNode
}

type SCSNode struct {
	VariableName string
	// Template is the component template, owned by the class that declares
	// the node.
	Template *Object
	Children []*SCSNode
	// AttachToName is the socket or bone the component attaches to.
	AttachToName string
	// ParentComponent is set for root nodes attached to a component that the
	// script does not own (native or inherited).
	ParentComponent *Object

	script *ConstructionScript
}

func NewConstructionScript(c *Class) *ConstructionScript {
	s := &ConstructionScript{Class: c}
	c.ConstructionScript = s
	return s
}

// AddNode adds n under parent, or as a root node when parent is nil.
func (s *ConstructionScript) AddNode(parent, n *SCSNode) *SCSNode {
	n.script = s
	if parent == nil {
		s.Roots = append(s.Roots, n)
	} else {
		parent.Children = append(parent.Children, n)
	}
	return n
}

// AllNodes returns every node depth first.
func (s *ConstructionScript) AllNodes() []*SCSNode {
	var out []*SCSNode
	var walk func(n *SCSNode)
	walk = func(n *SCSNode) {
		out = append(out, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range s.Roots {
		walk(r)
	}
	return out
}

// SceneRoot returns the root node holding a scene component, if any.
func (s *ConstructionScript) SceneRoot() *SCSNode {
	for _, r := range s.Roots {
		if r.Template != nil && r.Template.Class.IsChildOfName("SceneComponent") && r.ParentComponent == nil {
			return r
		}
	}
	return nil
}

func (n *SCSNode) Script() *ConstructionScript { return n.script }

// OwnerClass is the class whose construction script declares n.
func (n *SCSNode) OwnerClass() *Class {
	if n.script == nil {
		return nil
	}
	return n.script.Class
}

// ActualTemplate returns the template used for n when constructing class c:
// the nearest override recorded between c and the declaring class, or the
// node's own template. With overrides disabled, the node's template is used.
func (n *SCSNode) ActualTemplate(c *Class, overrides bool) *Object {
	if overrides {
		owner := n.OwnerClass()
		for cl := c; cl != nil && cl != owner; cl = cl.Super {
			if cl.InheritableComponents == nil {
				continue
			}
			if t := cl.InheritableComponents.Override(n); t != nil {
				return t
			}
		}
	}
	return n.Template
}

// InheritableComponentHandler records per-class overrides of component
// templates declared by ancestors.
type InheritableComponentHandler struct {
	overrides []componentOverride
}

type componentOverride struct {
	node     *SCSNode
	template *Object
}

// SetOverride records template as the override of node. The template is
// flagged as an inheritable component template.
func (h *InheritableComponentHandler) SetOverride(node *SCSNode, template *Object) {
	template.Flags |= ObjectInheritableComponentTemplate
	for i := range h.overrides {
		if h.overrides[i].node == node {
			h.overrides[i].template = template
			return
		}
	}
	h.overrides = append(h.overrides, componentOverride{node: node, template: template})
}

func (h *InheritableComponentHandler) Override(node *SCSNode) *Object {
	for _, o := range h.overrides {
		if o.node == node {
			return o.template
		}
	}
	return nil
}

func (h *InheritableComponentHandler) AllTemplates() []*Object {
	out := make([]*Object, 0, len(h.overrides))
	for _, o := range h.overrides {
		out = append(out, o.template)
	}
	return out
}
