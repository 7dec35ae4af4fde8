package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestValueAtArchetypeFallback(t *testing.T) {
	g := NewEngineGraph()
	scene := g.Class("SceneComponent")
	audio := g.Class("AudioComponent")
	volume := audio.FindField("VolumeMultiplier")
	scale := scene.FindField("RelativeScale3D")

	template := NewObject("Speaker", audio, nil)
	override := NewObject("Override", audio, nil)
	override.Archetype = template

	tests := []struct {
		name  string
		obj   *Object
		field *Field
		want  Value
	}{
		{name: "class default", obj: template, field: volume, want: Float(1)},
		{name: "inherited class default", obj: template, field: scale, want: NewStructValue(g.Struct("Vector")).Set("X", Float(1)).Set("Y", Float(1)).Set("Z", Float(1))},
		{name: "zero", obj: template, field: audio.FindField("Sound"), want: ObjectRef{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.obj.ValueAt(tt.field, 0)
			require.True(t, Identical(tt.want, got), "diff: %s", cmp.Diff(tt.want, got, cmpopts.IgnoreUnexported(Field{})))
		})
	}

	template.Set("VolumeMultiplier", Float(0.5))
	require.Equal(t, Float(0.5), override.ValueAt(volume, 0))
	override.Set("VolumeMultiplier", Float(0.25))
	require.Equal(t, Float(0.25), override.ValueAt(volume, 0))
	require.Equal(t, Float(0.5), template.ValueAt(volume, 0))
}

func TestValueAtArchetypeCycle(t *testing.T) {
	g := NewEngineGraph()
	audio := g.Class("AudioComponent")
	a := NewObject("A", audio, nil)
	b := NewObject("B", audio, nil)
	a.Archetype, b.Archetype = b, a

	require.Equal(t, Float(0), a.ValueAt(audio.FindField("VolumeMultiplier"), 0))
}

func TestValueAtStaticArray(t *testing.T) {
	g := NewGraph()
	holder, err := g.AddClass(&Class{Name: "Holder", Package: "/Game/Holder", Flags: ClassGenerated})
	require.NoError(t, err)
	slots := holder.AddField(&Field{Name: "Slots", Type: TypeInt32, ArrayDim: 3})
	name := holder.AddField(&Field{Name: "Label", Type: TypeName})
	o := NewClassDefault(holder)
	o.Set("Slots", &FixedArray{Items: []Value{Int32(1), nil, Int32(3)}})
	o.Set("Label", Name("x"))

	require.Equal(t, Int32(1), o.ValueAt(slots, 0))
	require.Equal(t, Int32(0), o.ValueAt(slots, 1))
	require.Equal(t, Int32(3), o.ValueAt(slots, 2))
	require.Equal(t, Name("x"), o.ValueAt(name, 0))
	require.Equal(t, 3, slots.Dim())
	require.Equal(t, 1, name.Dim())
}

func TestNewDefaultValue(t *testing.T) {
	g := NewGraph()
	base, err := g.AddStruct(&Struct{Name: "Base", Package: "/Game/Structs/Base", UserDefined: true})
	require.NoError(t, err)
	base.AddField(&Field{Name: "Speed", Type: TypeFloat})
	base.AddField(&Field{Name: "Count", Type: TypeInt32})
	base.DeclaredDefaults = map[string]Value{"Speed": Float(2), "Count": Int32(4)}

	child, err := g.AddStruct(&Struct{Name: "Child", Package: "/Game/Structs/Child", UserDefined: true, Super: base})
	require.NoError(t, err)
	child.AddField(&Field{Name: "Label", Type: TypeString})
	child.DeclaredDefaults = map[string]Value{"Speed": Float(3), "Label": String("a")}

	got := NewDefaultValue(child)
	want := map[string]Value{"Speed": Float(3), "Count": Int32(4), "Label": String("a")}
	require.Equalf(t, want, got.Fields, "diff: %s", cmp.Diff(want, got.Fields))

	raw := NewStructValue(child)
	require.Equal(t, Float(0), raw.Get("Speed"))
	require.False(t, Identical(got, raw))
}

func TestStructValueNativeDefaults(t *testing.T) {
	g := NewEngineGraph()
	body := NewStructValue(g.Struct("BodyInstance"))
	require.Equal(t, Bool(true), body.Get("bEnableGravity"))
	require.Equal(t, Float(1), body.Get("MassScale"))
	require.Equal(t, Name(""), body.Get("CollisionProfileName"))
	require.Nil(t, body.Get("Missing"))

	changed := body.With("MassScale", Float(2))
	require.Equal(t, Float(2), changed.Get("MassScale"))
	require.Equal(t, Float(1), body.Get("MassScale"))
}

func TestIdentical(t *testing.T) {
	g := NewEngineGraph()
	vector := g.Struct("Vector")
	mesh := NewAsset("Cube", g.Class("StaticMesh"), "/Game/Meshes/Cube")
	other := NewAsset("Cube", g.Class("StaticMesh"), "/Game/Meshes/Cube")

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{name: "floats", a: Float(1.5), b: Float(1.5), want: true},
		{name: "float kinds differ", a: Float(1), b: Double(1), want: false},
		{name: "struct against unset", a: NewStructValue(vector), b: NewStructValue(vector).Set("X", Float(0)), want: true},
		{name: "struct member differs", a: NewStructValue(vector), b: NewStructValue(vector).Set("Z", Float(1)), want: false},
		{name: "object identity", a: Ref(mesh), b: Ref(mesh), want: true},
		{name: "same name different object", a: Ref(mesh), b: Ref(other), want: false},
		{name: "null refs", a: ObjectRef{}, b: Ref((*Object)(nil)), want: true},
		{name: "null against set", a: ObjectRef{}, b: Ref(mesh), want: false},
		{name: "arrays", a: Array(Int32(1), Int32(2)), b: Array(Int32(1), Int32(2)), want: true},
		{name: "array length", a: Array(Int32(1)), b: Array(Int32(1), Int32(2)), want: false},
		{name: "empty arrays", a: &ArrayValue{}, b: Array(), want: true},
		{name: "text", a: Text{Source: "Hi"}, b: Text{Source: "Hi", CultureInvariant: true}, want: false},
		{name: "delegates", a: Delegate{}, b: Delegate{}, want: true},
		{name: "names", a: Name("a"), b: Name("a"), want: true},
		{name: "nil", a: nil, b: nil, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Identical(tt.a, tt.b))
		})
	}
}

func TestZero(t *testing.T) {
	g := NewEngineGraph()
	tests := []struct {
		typ  FieldType
		want Value
	}{
		{TypeBool, Bool(false)},
		{TypeInt64, Int64(0)},
		{TypeText, Text{}},
		{EnumOf(g.Enum("EComponentCreationMethod")), EnumValue(0)},
		{ObjectOf(g.Class("Actor")), ObjectRef{}},
		{ClassOf(g.Class("Actor")), ObjectRef{}},
		{ArrayOf(TypeName), &ArrayValue{}},
		{&DelegateType{}, Delegate{}},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			require.Equal(t, tt.want, Zero(tt.typ))
		})
	}
	require.True(t, Identical(NewStructValue(g.Struct("Vector")), Zero(StructOf(g.Struct("Vector")))))
}

func TestGeneratedClasses(t *testing.T) {
	g := NewEngineGraph()
	actor := g.Class("Actor")
	add := func(name string, super *Class) *Class {
		c, err := g.AddClass(&Class{Name: name, Package: "/Game/" + name, Super: super, Flags: ClassGenerated})
		require.NoError(t, err)
		return c
	}
	zed := add("Zed", actor)
	leaf := add("Leaf", zed)
	alpha := add("Alpha", actor)
	mid := add("Mid", alpha)

	_, err := g.AddClass(&Class{Name: "Alpha"})
	require.Error(t, err)

	got := g.GeneratedClasses()
	want := []*Class{alpha, zed, leaf, mid}
	require.Len(t, got, len(want))
	for i := range want {
		require.Equal(t, want[i].Name, got[i].Name)
	}
	require.Equal(t, []*Class{leaf, zed}, leaf.GeneratedHierarchy())
}

func TestActualTemplate(t *testing.T) {
	g := NewEngineGraph()
	scene := g.Class("SceneComponent")
	base, err := g.AddClass(&Class{Name: "Base", Package: "/Game/Base", Super: g.Class("Actor"), Flags: ClassGenerated})
	require.NoError(t, err)
	mid, err := g.AddClass(&Class{Name: "Mid", Package: "/Game/Mid", Super: base, Flags: ClassGenerated})
	require.NoError(t, err)
	leaf, err := g.AddClass(&Class{Name: "Leaf", Package: "/Game/Leaf", Super: mid, Flags: ClassGenerated})
	require.NoError(t, err)

	template := NewObject("Root_GEN_VARIABLE", scene, base)
	node := NewConstructionScript(base).AddNode(nil, &SCSNode{VariableName: "Root", Template: template})
	require.Equal(t, base, node.OwnerClass())
	require.Equal(t, node, base.ConstructionScript.SceneRoot())

	override := NewObject("Root_GEN_VARIABLE", scene, mid)
	mid.InheritableComponents = &InheritableComponentHandler{}
	mid.InheritableComponents.SetOverride(node, override)
	require.True(t, override.Has(ObjectInheritableComponentTemplate))

	tests := []struct {
		name      string
		cls       *Class
		overrides bool
		want      *Object
	}{
		{name: "declaring class", cls: base, overrides: true, want: template},
		{name: "overriding class", cls: mid, overrides: true, want: override},
		{name: "inherits nearest override", cls: leaf, overrides: true, want: override},
		{name: "overrides disabled", cls: leaf, overrides: false, want: template},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Same(t, tt.want, node.ActualTemplate(tt.cls, tt.overrides))
		})
	}

	replacement := NewObject("Root_GEN_VARIABLE", scene, mid)
	mid.InheritableComponents.SetOverride(node, replacement)
	require.Equal(t, []*Object{replacement}, mid.InheritableComponents.AllTemplates())
}

func TestConstructionScriptAllNodes(t *testing.T) {
	g := NewEngineGraph()
	cls, err := g.AddClass(&Class{Name: "Prop", Package: "/Game/Prop", Super: g.Class("Actor"), Flags: ClassGenerated})
	require.NoError(t, err)
	scs := NewConstructionScript(cls)
	root := scs.AddNode(nil, &SCSNode{VariableName: "Root"})
	a := scs.AddNode(root, &SCSNode{VariableName: "A"})
	scs.AddNode(a, &SCSNode{VariableName: "A1"})
	scs.AddNode(root, &SCSNode{VariableName: "B"})
	scs.AddNode(nil, &SCSNode{VariableName: "Other"})

	var got []string
	for _, n := range scs.AllNodes() {
		got = append(got, n.VariableName)
		require.Equal(t, cls, n.OwnerClass())
	}
	want := []string{"Root", "A", "A1", "B", "Other"}
	require.Equalf(t, want, got, "diff: %s", cmp.Diff(want, got))
	require.Nil(t, scs.SceneRoot())
}

func TestNames(t *testing.T) {
	g := NewEngineGraph()
	actor := g.Class("Actor")
	hero, err := g.AddClass(&Class{Name: "Hero", Package: "/Game/Hero", Super: actor, Flags: ClassGenerated})
	require.NoError(t, err)
	NewClassDefault(hero)
	comp := NewObject("Mesh", g.Class("StaticMeshComponent"), hero.Default)
	inner := NewObject("Inner", g.Class("StaticMeshComponent"), comp)

	require.Equal(t, "AHero", hero.CppName())
	require.Equal(t, "UStaticMeshComponent", g.Class("StaticMeshComponent").CppName())
	require.Equal(t, "FVector", g.Struct("Vector").CppName())
	require.Equal(t, "TEnumAsByte<ERangeBoundTypes::Type>", g.Enum("ERangeBoundTypes").CppType())
	require.Equal(t, "EComponentCreationMethod", g.Enum("EComponentCreationMethod").CppType())

	require.Equal(t, "/Game/Hero.Hero", PathName(hero))
	require.Equal(t, "/Game/Hero.Default__Hero", PathName(hero.Default))
	require.Equal(t, "/Game/Hero.Default__Hero:Mesh", PathName(comp))
	require.Equal(t, "/Game/Hero.Default__Hero:Mesh.Inner", PathName(inner))
	require.Equal(t, "/Script/Engine.Actor:InitialLifeSpan", actor.FindField("InitialLifeSpan").PathName())
	require.Equal(t, "None", PathName(nil))

	require.True(t, comp.IsIn(hero.Default))
	require.True(t, inner.IsIn(hero.Default))
	require.False(t, hero.Default.IsAsset())
	require.True(t, comp.Has(ObjectArchetype))
	require.Same(t, g.Class("StaticMeshComponent").Default, comp.GetArchetype())
	require.Same(t, actor.Default, hero.Default.GetArchetype())

	tests := []struct {
		in, want string
	}{
		{"Health", "Health"},
		{"Max_Health", "Max_Health"},
		{"Max Health", "Max_Health__pf3x20"},
		{"3D", "_D__pf0x33"},
		{"_3D", "_3D"},
		{"", "__pf"},
		{"Speed.X", "Speed_X__pf5x2e"},
		{"A B-C", "A_B_C__pf1x20_3x2d"},
		{"Größe", "Gr__e__pf2xf6_3xdf"},
		{"Tag__pf", "Tag__pf__pf"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, CppIdentifier(tt.in))
	}

	seen := make(map[string]string)
	for _, in := range []string{"Max Speed", "Max_Speed", "Max-Speed", "Max  Speed", "Max_ Speed", "Max _Speed", "1A", "_1A", "1__pf", "_1__pf", "", "_", "__pf", "Max_Speed__pf3x20"} {
		got := CppIdentifier(in)
		prev, dup := seen[got]
		require.Falsef(t, dup, "%q and %q both map to %q", prev, in, got)
		seen[got] = in
	}
}

func TestEnumValueNames(t *testing.T) {
	tests := []struct {
		name string
		enum *Enum
		idx  int64
		want string
		ok   bool
	}{
		{name: "regular", enum: &Enum{Name: "ELegacy", Values: []string{"ELegacy::A", "ELegacy::B"}}, idx: 1, want: "B", ok: true},
		{name: "namespaced", enum: &Enum{Name: "ENs", CppForm: EnumNamespaced, Values: []string{"One"}}, idx: 0, want: "ENs::One", ok: true},
		{name: "enum class", enum: &Enum{Name: "EMode", CppForm: EnumClass, Values: []string{"Idle"}}, idx: 0, want: "EMode::Idle", ok: true},
		{name: "out of range", enum: &Enum{Name: "EMode", CppForm: EnumClass, Values: []string{"Idle"}}, idx: 3},
		{name: "negative", enum: &Enum{Name: "EMode", CppForm: EnumClass, Values: []string{"Idle"}}, idx: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.enum.ValueName(tt.idx)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
	e := &Enum{Name: "EMode", Values: []string{"EMode::Idle", "EMode::Busy"}}
	require.Equal(t, 1, e.IndexOf("Busy"))
	require.Equal(t, 1, e.IndexOf("EMode::Busy"))
	require.Equal(t, -1, e.IndexOf("Gone"))
}
