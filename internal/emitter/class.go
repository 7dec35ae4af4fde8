package emitter

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cmmoran/nativizer/internal/diagnostic"
	"github.com/cmmoran/nativizer/internal/model"
)

// Unit is the generated native source of one class or struct.
type Unit struct {
	Name         string
	Header       string
	Body         string
	Diagnostics  []diagnostic.Diagnostic
	Dependencies *Dependencies
}

var errNotGenerated = errors.New("not a generated class")

// GenerateClass emits the default-value code of cls: the dynamic class
// initialization, the constructor, PostLoadSubobjects, the static dependency
// lists and the registration helper, plus the matching header.
func GenerateClass(cls *model.Class, opts Options, registry *Registry) (unit *Unit, err error) {
	if cls == nil || !cls.Generated() {
		return nil, errNotGenerated
	}
	name := cls.CppName()
	defer recoverMalformed(name, &err)

	if cls.Default == nil {
		malformed(model.PathName(cls), "class has no default object")
	}
	if cls.Super == nil || cls.Super.Default == nil {
		malformed(model.PathName(cls), "parent class has no default object")
	}

	c := NewContext(cls, registry, opts)
	c.Deps = GatherDependencies(cls, c.registry)
	var parentDeps *Dependencies
	if cls.Super.Generated() {
		parentDeps = GatherDependencies(cls.Super, c.registry)
	}
	c.fillCommonUsedAssets(parentDeps)

	c.generateCustomDynamicClassInitialization(parentDeps)
	c.line("")
	c.generateConstructor()
	c.line("")
	c.addStaticFunctionsForDependencies(parentDeps)
	c.line("")
	c.addRegisterHelper()

	c.generateHeader()

	c.log.Debug("class generated", "lines", c.Body.Len(), "diagnostics", len(c.Diagnostics()))
	return &Unit{
		Name:         name,
		Header:       c.Header.Result(),
		Body:         c.Body.Result(),
		Diagnostics:  c.Diagnostics(),
		Dependencies: c.Deps,
	}, nil
}

func (c *Context) generateCustomDynamicClassInitialization(parentDeps *Dependencies) {
	cls := c.Class
	c.target.Block(fmt.Sprintf("void %s::__CustomDynamicClassInitialization(UDynamicClass* InDynamicClass)", cls.CppName()))
	for _, member := range []string{"ReferencedConvertedFields", "MiscConvertedSubobjects", "DynamicBindingObjects", "ComponentTemplates", "Timelines"} {
		c.linef("ensure(0 == InDynamicClass->%s.Num());", member)
	}
	c.line("ensure(nullptr == InDynamicClass->AnimClassImplementation);")
	c.line("InDynamicClass->AssembleReferenceTokenStream();")

	c.setCodeType(CodeSubobjectsOfClass)

	if len(c.Deps.ConvertedEnums) > 0 {
		c.line("// List of all referenced converted enums")
	}
	for _, e := range c.Deps.ConvertedEnums {
		c.linef(`InDynamicClass->ReferencedConvertedFields.Add(LoadObject<UEnum>(nullptr, TEXT("%s")));`, escapeString(model.PathName(e)))
	}
	if len(c.Deps.ConvertedClasses) > 0 {
		c.line("// List of all referenced converted classes")
	}
	for _, cl := range c.Deps.ConvertedClasses {
		if parentDeps.HasClass(cl) {
			continue
		}
		ctor := zConstructor(cl)
		c.linef("extern UClass* %s;", ctor)
		c.linef("InDynamicClass->ReferencedConvertedFields.Add(%s);", ctor)
	}
	if len(c.Deps.ConvertedStructs) > 0 {
		c.line("// List of all referenced converted structures")
	}
	for _, st := range c.Deps.ConvertedStructs {
		if parentDeps.HasStruct(st) {
			continue
		}
		ctor := zConstructor(st)
		c.linef("extern UScriptStruct* %s;", ctor)
		c.linef("InDynamicClass->ReferencedConvertedFields.Add(%s);", ctor)
	}

	c.line("FConvertedBlueprintsDependencies::FillUsedAssetsInDynamicClass(InDynamicClass, &__StaticDependencies_DirectlyUsedAssets);")

	templates := c.classOwnedComponentTemplates()
	pass := func(create, initialize bool) {
		for _, t := range templates {
			c.materializeClassSubobject(t, ListComponentTemplates, create, initialize)
		}
		for _, t := range cls.Timelines {
			if t != nil {
				c.materializeClassSubobject(t, ListTimelines, create, initialize)
			}
		}
		for _, b := range cls.DynamicBindingObjects {
			if b != nil {
				c.materializeClassSubobject(b, ListDynamicBindingObjects, create, initialize)
			}
		}
	}
	pass(true, false)
	pass(false, true)

	c.target.EndBlock("")
	c.setCodeType(CodeRegular)
}

// classOwnedComponentTemplates returns the component templates of the class
// that neither the construction script nor an inherited override owns.
func (c *Context) classOwnedComponentTemplates() []*model.Object {
	cls := c.Class
	var owned []*model.Object
	if cls.ConstructionScript != nil {
		for _, n := range cls.ConstructionScript.AllNodes() {
			owned = append(owned, n.Template)
		}
	}
	if cls.InheritableComponents != nil {
		owned = append(owned, cls.InheritableComponents.AllTemplates()...)
	}
	var out []*model.Object
	for _, t := range cls.ComponentTemplates {
		if t != nil && !slices.Contains(owned, t) {
			out = append(out, t)
		}
	}
	return out
}

func (c *Context) generateConstructor() {
	cls := c.Class
	cppName := cls.CppName()
	cdo, parentCDO := cls.Default, cls.Super.Default

	c.setCodeType(CodeCommonConstructor)
	superArg := ""
	// Converted parents declare the initializer constructor themselves.
	if cls.Super.HasFlags(model.ClassObjectInitializerConstructor) || c.willBeConverted(cls.Super) {
		superArg = "ObjectInitializer"
	}
	c.target.Block(fmt.Sprintf("%s::%s(const FObjectInitializer& ObjectInitializer) : Super(%s)", cppName, cppName, superArg))
	c.target.Block(fmt.Sprintf("if(HasAnyFlags(RF_ClassDefaultObject) && (%s::StaticClass() == GetClass()))", cppName))
	c.linef("%s::__CustomDynamicClassInitialization(CastChecked<UDynamicClass>(GetClass()));", cppName)
	c.target.EndBlock("")
	c.line("")

	walk := &componentWalk{handled: make(map[*model.Field]bool)}

	var rootFallback string
	for _, dso := range cdo.DefaultSubobjects() {
		if !dso.Class.HasFlags(model.ClassDefaultToInstanced) || dso.Has(model.ObjectEditorOnly) {
			continue
		}
		name := c.MaterializeInstancedObject(dso, false, true)
		if rootFallback == "" && dso.Class.IsChildOfName("SceneComponent") &&
			dso.AttachParent == nil && dso.CreationMethod == model.CreationNative {
			rootFallback = name
		}
	}

	needsRoot := false
	rootField := c.componentField("RootComponent")
	if rootField != nil {
		ref, _ := cdo.ValueAt(rootField, 0).(model.ObjectRef)
		switch {
		case !ref.IsNull():
			walk.handled[rootField] = true
		case rootFallback != "":
			c.linef("RootComponent = %s;", rootFallback)
			walk.handled[rootField] = true
		default:
			needsRoot = true
		}
	}

	hierarchy := cls.GeneratedHierarchy()
	for i := len(hierarchy) - 1; i >= 0; i-- {
		scs := hierarchy[i].ConstructionScript
		if scs == nil {
			continue
		}
		for _, node := range scs.Roots {
			variable := c.handleNonNativeComponent(node, nil, walk)
			if needsRoot && variable != "" && node.Template != nil && node.Template.Class.IsChildOfName("SceneComponent") {
				// Ancestor constructors already assign their own root.
				if i == 0 {
					c.linef("RootComponent = %s;", variable)
					walk.handled[rootField] = true
				}
				needsRoot = false
			}
		}
	}

	for _, ci := range walk.inits {
		c.emitComponentProperties(ci)
		if ci.template.Class.IsChildOfName("PrimitiveComponent") {
			c.target.Block(fmt.Sprintf("if(!%s->IsTemplate())", ci.variable))
			c.linef("%s->BodyInstance.FixupData(%s);", ci.variable, ci.variable)
			c.target.EndBlock("")
		}
	}

	for _, f := range cls.AllFields() {
		if walk.handled[f] {
			continue
		}
		var base model.Container
		if f.OwnerClass() != cls {
			base = parentCDO
		}
		c.emitField(f, "", cdo, base, AccessImplicit, true)
	}
	c.target.EndBlock("")

	c.setCodeType(CodeRegular)
	c.line("")
	c.target.Block(fmt.Sprintf("void %s::PostLoadSubobjects(FObjectInstancingGraph* OuterInstanceGraph)", cppName))
	c.line("Super::PostLoadSubobjects(OuterInstanceGraph);")
	for _, v := range walk.nativeCreated {
		c.target.Block(fmt.Sprintf("if(%s)", v))
		c.linef("%s->CreationMethod = EComponentCreationMethod::Native;", v)
		c.target.EndBlock("")
	}
	c.target.EndBlock("")
}

// generateHeader declares the class, its members and the wrappers of
// unconverted classes reached while emitting the body.
func (c *Context) generateHeader() {
	restore := c.withTarget(&c.Header)
	defer restore()

	cls := c.Class
	c.line("#pragma once")
	c.line("")
	if len(c.Deps.NativeClasses) > 0 {
		for _, n := range c.Deps.NativeClasses {
			c.linef("class %s;", n.CppName())
		}
		c.line("")
	}

	c.linef("class %s : public %s", cls.CppName(), c.firstNativeOrConverted(cls.Super).CppName())
	c.target.Block("")
	c.line("public:")
	for _, f := range cls.Fields {
		decl := fmt.Sprintf("%s %s", c.cppType(f.Type), f.CppName())
		if f.Dim() > 1 {
			decl += fmt.Sprintf("[%d]", f.Dim())
		}
		c.line(decl + ";")
	}
	if len(cls.Fields) > 0 {
		c.line("")
	}
	c.linef("%s(const FObjectInitializer& ObjectInitializer = FObjectInitializer::Get());", cls.CppName())
	c.line("virtual void PostLoadSubobjects(FObjectInstancingGraph* OuterInstanceGraph) override;")
	c.line("static void __CustomDynamicClassInitialization(UDynamicClass* InDynamicClass);")
	c.line("static void __StaticDependenciesAssets(TArray<FBlueprintDependencyData>& AssetsToLoad);")
	c.line("static void __StaticDependencies_DirectlyUsedAssets(TArray<FBlueprintDependencyData>& AssetsToLoad);")
	c.line("static void __StaticDependencies_CommonAssets(TArray<FBlueprintDependencyData>& AssetsToLoad);")
	c.target.EndBlock(";")

	for _, w := range c.wrappers {
		c.line("")
		c.generateWrapper(w)
	}
}

func (c *Context) generateWrapper(w *wrapperUse) {
	name := c.registry.WrapperName(w.class)
	c.linef("struct %s", name)
	c.target.Block("")
	c.line("UObject* __Object;")
	c.linef("%s(const UObject* InObject) : __Object(const_cast<UObject*>(InObject)) {}", name)
	for _, f := range w.fields {
		c.linef("%s& GetRef__%s(int32 ArrayIndex = 0)", c.cppType(f.Type), f.CppName())
		c.target.Block("")
		c.linef(`return *(FindFieldChecked<UProperty>(__Object->GetClass(), TEXT("%s"))->ContainerPtrToValuePtr<%s>(__Object, ArrayIndex));`,
			escapeString(f.Name), c.cppType(f.Type))
		c.target.EndBlock("")
	}
	c.target.EndBlock(";")
}

// GenerateStructDefaultValue emits the GetDefaultValue function of a
// user-defined struct into the header of the returned unit. The struct's
// declared defaults are written against its native zero state.
func GenerateStructDefaultValue(st *model.Struct, opts Options, registry *Registry) (unit *Unit, err error) {
	if st == nil || !st.UserDefined {
		return nil, errors.New("not a user-defined struct")
	}
	name := st.CppName()
	defer recoverMalformed(name, &err)

	c := NewContext(nil, registry, opts)
	restore := c.withTarget(&c.Header)
	c.linef("static %s GetDefaultValue()", name)
	c.target.Block("")
	c.linef("FStructOnScope StructOnScope(%s::StaticStruct());", name)
	c.linef("%s& DefaultData__ = *((%s*)StructOnScope.GetStructMemory());", name, name)
	data, raw := model.NewDefaultValue(st), model.NewStructValue(st)
	for _, f := range st.AllFields() {
		c.emitField(f, "DefaultData__", data, raw, AccessDot, false)
	}
	c.line("return DefaultData__;")
	c.target.EndBlock("")
	restore()

	return &Unit{
		Name:         name,
		Header:       c.Header.Result(),
		Diagnostics:  c.Diagnostics(),
		Dependencies: c.Deps,
	}, nil
}
