package parser

// Dump is the on-disk form of a reflected host graph. Types and objects are
// referenced by name (types) or by full object path (objects).
type Dump struct {
	Enums   []*EnumDump   `yaml:"enums,omitempty" json:"enums,omitempty"`
	Structs []*StructDump `yaml:"structs,omitempty" json:"structs,omitempty"`
	Classes []*ClassDump  `yaml:"classes,omitempty" json:"classes,omitempty"`
	Assets  []*AssetDump  `yaml:"assets,omitempty" json:"assets,omitempty"`
}

type EnumDump struct {
	Name        string   `yaml:"name" json:"name"`
	Package     string   `yaml:"package" json:"package"`
	Form        string   `yaml:"form,omitempty" json:"form,omitempty"`
	UserDefined bool     `yaml:"user_defined,omitempty" json:"user_defined,omitempty"`
	Values      []string `yaml:"values" json:"values"`
}

type FieldDump struct {
	Name string `yaml:"name" json:"name"`
	// Type follows the grammar of model.FieldType.String: "int32",
	// "struct:Vector", "array<object:StaticMesh>" and so on.
	Type   string   `yaml:"type" json:"type"`
	Access string   `yaml:"access,omitempty" json:"access,omitempty"`
	Flags  []string `yaml:"flags,omitempty" json:"flags,omitempty"`
	Dim    int      `yaml:"dim,omitempty" json:"dim,omitempty"`
	Offset int      `yaml:"offset,omitempty" json:"offset,omitempty"`
}

type StructDump struct {
	Name             string         `yaml:"name" json:"name"`
	Package          string         `yaml:"package" json:"package"`
	NativeName       string         `yaml:"native_name,omitempty" json:"native_name,omitempty"`
	Super            string         `yaml:"super,omitempty" json:"super,omitempty"`
	Native           bool           `yaml:"native,omitempty" json:"native,omitempty"`
	NoExport         bool           `yaml:"no_export,omitempty" json:"no_export,omitempty"`
	NativeLayout     bool           `yaml:"native_layout,omitempty" json:"native_layout,omitempty"`
	UserDefined      bool           `yaml:"user_defined,omitempty" json:"user_defined,omitempty"`
	Fields           []*FieldDump   `yaml:"fields,omitempty" json:"fields,omitempty"`
	Defaults         map[string]any `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	DeclaredDefaults map[string]any `yaml:"declared_defaults,omitempty" json:"declared_defaults,omitempty"`
}

// ObjectDump is an object instance. Subobjects are nested under their
// outer.
type ObjectDump struct {
	Name           string         `yaml:"name" json:"name"`
	Class          string         `yaml:"class" json:"class"`
	Flags          []string       `yaml:"flags,omitempty" json:"flags,omitempty"`
	Archetype      string         `yaml:"archetype,omitempty" json:"archetype,omitempty"`
	AttachParent   string         `yaml:"attach_parent,omitempty" json:"attach_parent,omitempty"`
	CreationMethod string         `yaml:"creation_method,omitempty" json:"creation_method,omitempty"`
	Values         map[string]any `yaml:"values,omitempty" json:"values,omitempty"`
	Subobjects     []*ObjectDump  `yaml:"subobjects,omitempty" json:"subobjects,omitempty"`
}

type AssetDump struct {
	ObjectDump `yaml:",inline" json:",inline"`
	Package    string `yaml:"package" json:"package"`
}

type SCSNodeDump struct {
	Variable string      `yaml:"variable" json:"variable"`
	Template *ObjectDump `yaml:"template,omitempty" json:"template,omitempty"`
	AttachTo string      `yaml:"attach_to,omitempty" json:"attach_to,omitempty"`
	// ParentComponent is the path of a component the script does not own.
	ParentComponent string         `yaml:"parent_component,omitempty" json:"parent_component,omitempty"`
	Children        []*SCSNodeDump `yaml:"children,omitempty" json:"children,omitempty"`
}

// OverrideDump replaces the template of an inherited construction script
// node, named "Class.Variable".
type OverrideDump struct {
	Node     string      `yaml:"node" json:"node"`
	Template *ObjectDump `yaml:"template" json:"template"`
}

type ClassDump struct {
	Name       string       `yaml:"name" json:"name"`
	Package    string       `yaml:"package" json:"package"`
	NativeName string       `yaml:"native_name,omitempty" json:"native_name,omitempty"`
	Super      string       `yaml:"super,omitempty" json:"super,omitempty"`
	Flags      []string     `yaml:"flags,omitempty" json:"flags,omitempty"`
	Interface  bool         `yaml:"interface,omitempty" json:"interface,omitempty"`
	Fields     []*FieldDump `yaml:"fields,omitempty" json:"fields,omitempty"`
	// Default holds the values and subobjects of the class default object;
	// its name and class are implied.
	Default               *ObjectDump     `yaml:"default,omitempty" json:"default,omitempty"`
	ComponentTemplates    []*ObjectDump   `yaml:"component_templates,omitempty" json:"component_templates,omitempty"`
	Timelines             []*ObjectDump   `yaml:"timelines,omitempty" json:"timelines,omitempty"`
	DynamicBindingObjects []*ObjectDump   `yaml:"dynamic_binding_objects,omitempty" json:"dynamic_binding_objects,omitempty"`
	ConstructionScript    []*SCSNodeDump  `yaml:"construction_script,omitempty" json:"construction_script,omitempty"`
	InheritableComponents []*OverrideDump `yaml:"inheritable_components,omitempty" json:"inheritable_components,omitempty"`
}
