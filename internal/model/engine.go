package model

const (
	CorePackage   = "/Script/CoreUObject"
	EnginePackage = "/Script/Engine"
)

// NewEngineGraph returns a graph pre-populated with the native engine types
// that host dumps build upon: the core math structs, the object, actor and
// component hierarchy, and the asset classes commonly referenced by
// defaults.
func NewEngineGraph() *Graph {
	g := NewGraph()
	e := engineBuilder{g: g}

	vector := e.structure(CorePackage, "Vector", nil)
	vector.AddField(&Field{Name: "X", Type: TypeFloat})
	vector.AddField(&Field{Name: "Y", Type: TypeFloat})
	vector.AddField(&Field{Name: "Z", Type: TypeFloat})

	vector2D := e.structure(CorePackage, "Vector2D", nil)
	vector2D.AddField(&Field{Name: "X", Type: TypeFloat})
	vector2D.AddField(&Field{Name: "Y", Type: TypeFloat})

	quat := e.structure(CorePackage, "Quat", nil)
	for _, n := range []string{"X", "Y", "Z", "W"} {
		quat.AddField(&Field{Name: n, Type: TypeFloat})
	}
	quat.Defaults = map[string]Value{"W": Float(1)}

	rotator := e.structure(CorePackage, "Rotator", nil)
	for _, n := range []string{"Pitch", "Yaw", "Roll"} {
		rotator.AddField(&Field{Name: n, Type: TypeFloat})
	}

	transform := e.structure(CorePackage, "Transform", nil)
	transform.AddField(&Field{Name: "Rotation", Type: StructOf(quat)})
	transform.AddField(&Field{Name: "Translation", Type: StructOf(vector)})
	transform.AddField(&Field{Name: "Scale3D", Type: StructOf(vector)})
	transform.Defaults = map[string]Value{
		"Scale3D": NewStructValue(vector).Set("X", Float(1)).Set("Y", Float(1)).Set("Z", Float(1)),
	}

	guid := e.structure(CorePackage, "Guid", nil)
	for _, n := range []string{"A", "B", "C", "D"} {
		guid.AddField(&Field{Name: n, Type: TypeInt32})
	}

	linearColor := e.structure(CorePackage, "LinearColor", nil)
	for _, n := range []string{"R", "G", "B", "A"} {
		linearColor.AddField(&Field{Name: n, Type: TypeFloat})
	}

	color := e.structure(CorePackage, "Color", nil)
	for _, n := range []string{"R", "G", "B", "A"} {
		color.AddField(&Field{Name: n, Type: TypeByte})
	}

	box2D := e.structure(CorePackage, "Box2D", nil)
	box2D.AddField(&Field{Name: "Min", Type: StructOf(vector2D)})
	box2D.AddField(&Field{Name: "Max", Type: StructOf(vector2D)})
	box2D.AddField(&Field{Name: "bIsValid", Type: TypeBool})

	boundTypes := e.enum(CorePackage, "ERangeBoundTypes", EnumNamespaced, "Exclusive", "Inclusive", "Open")

	floatBound := e.structure(CorePackage, "FloatRangeBound", nil)
	floatBound.AddField(&Field{Name: "Type", Type: EnumOf(boundTypes)})
	floatBound.AddField(&Field{Name: "Value", Type: TypeFloat})

	floatRange := e.structure(CorePackage, "FloatRange", nil)
	floatRange.AddField(&Field{Name: "LowerBound", Type: StructOf(floatBound)})
	floatRange.AddField(&Field{Name: "UpperBound", Type: StructOf(floatBound)})

	intBound := e.structure(CorePackage, "Int32RangeBound", nil)
	intBound.AddField(&Field{Name: "Type", Type: EnumOf(boundTypes)})
	intBound.AddField(&Field{Name: "Value", Type: TypeInt32})

	intRange := e.structure(CorePackage, "Int32Range", nil)
	intRange.AddField(&Field{Name: "LowerBound", Type: StructOf(intBound)})
	intRange.AddField(&Field{Name: "UpperBound", Type: StructOf(intBound)})

	floatInterval := e.structure(CorePackage, "FloatInterval", nil)
	floatInterval.AddField(&Field{Name: "Min", Type: TypeFloat})
	floatInterval.AddField(&Field{Name: "Max", Type: TypeFloat})

	intInterval := e.structure(CorePackage, "Int32Interval", nil)
	intInterval.AddField(&Field{Name: "Min", Type: TypeInt32})
	intInterval.AddField(&Field{Name: "Max", Type: TypeInt32})

	object := e.class(CorePackage, "Object", nil, ClassNative)

	latent := e.structure(EnginePackage, "LatentActionInfo", nil)
	latent.AddField(&Field{Name: "Linkage", Type: TypeInt32})
	latent.AddField(&Field{Name: "UUID", Type: TypeInt32})
	latent.AddField(&Field{Name: "ExecutionFunction", Type: TypeName})
	latent.AddField(&Field{Name: "CallbackTarget", Type: ObjectOf(object)})
	latent.Defaults = map[string]Value{"Linkage": Int32(-1), "UUID": Int32(-1)}

	body := e.structure(EnginePackage, "BodyInstance", nil)
	body.AddField(&Field{Name: "CollisionProfileName", Type: TypeName, Access: AccessPrivate})
	body.AddField(&Field{Name: "bSimulatePhysics", Type: TypeBool, Flags: FieldBitfield})
	body.AddField(&Field{Name: "bEnableGravity", Type: TypeBool, Flags: FieldBitfield})
	body.AddField(&Field{Name: "MassScale", Type: TypeFloat})
	body.AddField(&Field{Name: "LinearDamping", Type: TypeFloat})
	body.AddField(&Field{Name: "AngularDamping", Type: TypeFloat})
	body.Defaults = map[string]Value{
		"bEnableGravity": Bool(true),
		"MassScale":      Float(1),
		"LinearDamping":  Float(0.01),
	}

	e.enum(EnginePackage, "EComponentCreationMethod", EnumClass, "Native", "SimpleConstructionScript", "UserConstructionScript", "Instance")

	e.class(EnginePackage, "StaticMesh", object, ClassNative)
	e.class(EnginePackage, "MaterialInterface", object, ClassNative)
	e.class(EnginePackage, "SoundBase", object, ClassNative)
	e.class(EnginePackage, "Texture2D", object, ClassNative)

	actorComponent := e.class(EnginePackage, "ActorComponent", object, ClassNative|ClassDefaultToInstanced|ClassObjectInitializerConstructor)
	actorComponent.AddField(&Field{Name: "bAutoActivate", Type: TypeBool, Flags: FieldBitfield})
	actorComponent.AddField(&Field{Name: "ComponentTags", Type: ArrayOf(TypeName)})

	scene := e.class(EnginePackage, "SceneComponent", actorComponent, ClassNative|ClassObjectInitializerConstructor)
	scene.AddField(&Field{Name: "RelativeLocation", Type: StructOf(vector)})
	scene.AddField(&Field{Name: "RelativeRotation", Type: StructOf(rotator)})
	scene.AddField(&Field{Name: "RelativeScale3D", Type: StructOf(vector)})
	scene.AddField(&Field{Name: "bVisible", Type: TypeBool, Access: AccessPrivate, Flags: FieldBitfield})
	scene.Default.Set("RelativeScale3D", NewStructValue(vector).Set("X", Float(1)).Set("Y", Float(1)).Set("Z", Float(1)))
	scene.Default.Set("bVisible", Bool(true))

	primitive := e.class(EnginePackage, "PrimitiveComponent", scene, ClassNative|ClassObjectInitializerConstructor)
	primitive.AddField(&Field{Name: "CastShadow", Type: TypeBool, Flags: FieldBitfield})
	primitive.AddField(&Field{Name: "bGenerateOverlapEvents", Type: TypeBool, Flags: FieldBitfield})
	primitive.AddField(&Field{Name: "BodyInstance", Type: StructOf(body)})
	primitive.Default.Set("CastShadow", Bool(true))
	primitive.Default.Set("bGenerateOverlapEvents", Bool(true))

	meshComponent := e.class(EnginePackage, "MeshComponent", primitive, ClassNative|ClassObjectInitializerConstructor)
	meshComponent.AddField(&Field{Name: "OverrideMaterials", Type: ArrayOf(ObjectOf(g.Class("MaterialInterface")))})

	staticMeshComponent := e.class(EnginePackage, "StaticMeshComponent", meshComponent, ClassNative|ClassObjectInitializerConstructor)
	staticMeshComponent.AddField(&Field{Name: "StaticMesh", Type: ObjectOf(g.Class("StaticMesh"))})

	e.class(EnginePackage, "BillboardComponent", primitive, ClassNative|ClassObjectInitializerConstructor)

	audio := e.class(EnginePackage, "AudioComponent", scene, ClassNative|ClassObjectInitializerConstructor)
	audio.AddField(&Field{Name: "Sound", Type: ObjectOf(g.Class("SoundBase"))})
	audio.AddField(&Field{Name: "VolumeMultiplier", Type: TypeFloat})
	audio.Default.Set("VolumeMultiplier", Float(1))

	actor := e.class(EnginePackage, "Actor", object, ClassNative|ClassObjectInitializerConstructor)
	actor.AddField(&Field{Name: "RootComponent", Type: ObjectOf(scene), Access: AccessProtected, Flags: FieldInstancedReference})
	actor.AddField(&Field{Name: "bHidden", Type: TypeBool, Flags: FieldBitfield})
	actor.AddField(&Field{Name: "InitialLifeSpan", Type: TypeFloat})
	actor.AddField(&Field{Name: "Tags", Type: ArrayOf(TypeName)})

	e.class(EnginePackage, "Pawn", actor, ClassNative|ClassObjectInitializerConstructor)

	timeline := e.class(EnginePackage, "TimelineTemplate", object, ClassNative)
	timeline.AddField(&Field{Name: "TimelineLength", Type: TypeFloat})
	timeline.AddField(&Field{Name: "bAutoPlay", Type: TypeBool, Flags: FieldBitfield})
	timeline.AddField(&Field{Name: "bLoop", Type: TypeBool, Flags: FieldBitfield})
	timeline.Default.Set("TimelineLength", Float(5))

	binding := e.class(EnginePackage, "DynamicBlueprintBinding", object, ClassNative)
	componentBinding := e.class(EnginePackage, "ComponentDelegateBinding", binding, ClassNative)
	componentBinding.AddField(&Field{Name: "ComponentPropertyName", Type: TypeName})
	componentBinding.AddField(&Field{Name: "DelegatePropertyName", Type: TypeName})
	componentBinding.AddField(&Field{Name: "FunctionNameToBind", Type: TypeName})

	return g
}

type engineBuilder struct {
	g *Graph
}

func (e engineBuilder) structure(pkg, name string, super *Struct) *Struct {
	s, err := e.g.AddStruct(&Struct{Name: name, Package: pkg, Super: super, Native: true, NativeLayout: true})
	if err != nil {
		panic(err)
	}
	return s
}

func (e engineBuilder) enum(pkg, name string, form EnumCppForm, values ...string) *Enum {
	en, err := e.g.AddEnum(&Enum{Name: name, Package: pkg, CppForm: form, Values: values})
	if err != nil {
		panic(err)
	}
	return en
}

func (e engineBuilder) class(pkg, name string, super *Class, flags ClassFlags) *Class {
	c, err := e.g.AddClass(&Class{Name: name, Package: pkg, Super: super, Flags: flags})
	if err != nil {
		panic(err)
	}
	NewClassDefault(c)
	return c
}
