package emitter

import (
	"fmt"
	"path"
	"strings"

	"github.com/cmmoran/nativizer/internal/model"
)

// Dependencies is the ordered set of entities a generated class refers to.
// It is gathered before emission and extended while emitting.
type Dependencies struct {
	Assets           []model.Node
	ConvertedClasses []*model.Class
	ConvertedStructs []*model.Struct
	ConvertedEnums   []*model.Enum
	// NativeClasses need a forward declaration in the header.
	NativeClasses []*model.Class

	seen map[model.Node]bool
}

func NewDependencies() *Dependencies {
	return &Dependencies{seen: make(map[model.Node]bool)}
}

func (d *Dependencies) AddAsset(n model.Node) bool {
	if d.seen[n] {
		return false
	}
	d.seen[n] = true
	d.Assets = append(d.Assets, n)
	return true
}

func (d *Dependencies) HasAsset(n model.Node) bool {
	if d == nil {
		return false
	}
	for _, a := range d.Assets {
		if a == n {
			return true
		}
	}
	return false
}

func (d *Dependencies) addClass(c *model.Class) {
	if d.seen[c] {
		return
	}
	d.seen[c] = true
	d.ConvertedClasses = append(d.ConvertedClasses, c)
}

func (d *Dependencies) HasClass(c *model.Class) bool {
	if d == nil {
		return false
	}
	for _, x := range d.ConvertedClasses {
		if x == c {
			return true
		}
	}
	return false
}

func (d *Dependencies) addStruct(s *model.Struct) {
	if d.seen[s] {
		return
	}
	d.seen[s] = true
	d.ConvertedStructs = append(d.ConvertedStructs, s)
}

func (d *Dependencies) HasStruct(s *model.Struct) bool {
	if d == nil {
		return false
	}
	for _, x := range d.ConvertedStructs {
		if x == s {
			return true
		}
	}
	return false
}

func (d *Dependencies) addEnum(e *model.Enum) {
	if d.seen[e] {
		return
	}
	d.seen[e] = true
	d.ConvertedEnums = append(d.ConvertedEnums, e)
}

func (d *Dependencies) addNative(c *model.Class) {
	for _, x := range d.NativeClasses {
		if x == c {
			return
		}
	}
	d.NativeClasses = append(d.NativeClasses, c)
}

// GatherDependencies walks the fields, default object, templates and
// construction script of cls.
func GatherDependencies(cls *model.Class, registry *Registry) *Dependencies {
	g := &gatherer{
		cls:      cls,
		registry: registry,
		deps:     NewDependencies(),
		visited:  make(map[*model.Object]bool),
	}
	g.class(cls)
	return g.deps
}

type gatherer struct {
	cls      *model.Class
	registry *Registry
	deps     *Dependencies
	visited  map[*model.Object]bool
}

func (g *gatherer) class(cls *model.Class) {
	if cls.Super != nil {
		g.classRef(cls.Super)
	}
	for _, f := range cls.Fields {
		g.fieldType(f.Type)
	}
	g.object(cls.Default)
	for _, list := range [][]*model.Object{cls.ComponentTemplates, cls.Timelines, cls.DynamicBindingObjects} {
		for _, o := range list {
			g.object(o)
		}
	}
	if cls.ConstructionScript != nil {
		for _, n := range cls.ConstructionScript.AllNodes() {
			g.object(n.Template)
			g.object(n.ParentComponent)
		}
	}
	if cls.InheritableComponents != nil {
		for _, o := range cls.InheritableComponents.AllTemplates() {
			g.object(o)
		}
	}
}

func (g *gatherer) object(o *model.Object) {
	if o == nil || g.visited[o] {
		return
	}
	g.visited[o] = true
	if o.IsAsset() {
		g.deps.AddAsset(o)
		return
	}
	g.classRef(o.Class)
	for _, f := range o.Class.AllFields() {
		if f.Has(model.FieldEditorOnly | model.FieldTransient) {
			continue
		}
		for i := 0; i < f.Dim(); i++ {
			g.value(o.ValueAt(f, i))
		}
	}
	for _, sub := range o.Subobjects() {
		g.object(sub)
	}
}

func (g *gatherer) value(v model.Value) {
	switch tv := v.(type) {
	case model.ObjectRef:
		switch t := tv.Target.(type) {
		case *model.Object:
			g.object(t)
		case *model.Class:
			g.classRef(t)
		case *model.Struct:
			g.structRef(t)
		case *model.Enum:
			g.enumRef(t)
		}
	case *model.StructValue:
		g.structRef(tv.Struct)
		for _, f := range tv.Struct.AllFields() {
			for i := 0; i < f.Dim(); i++ {
				g.value(tv.ValueAt(f, i))
			}
		}
	case *model.ArrayValue:
		for _, item := range tv.Items {
			g.value(item)
		}
	}
}

func (g *gatherer) fieldType(ft model.FieldType) {
	switch t := ft.(type) {
	case *model.StructType:
		g.structRef(t.Struct)
	case *model.EnumType:
		g.enumRef(t.Enum)
	case *model.ObjectType:
		g.classRef(t.Class)
	case *model.ClassType:
		g.classRef(t.MetaClass)
	case *model.ArrayType:
		g.fieldType(t.Elem)
	}
}

func (g *gatherer) classRef(c *model.Class) {
	if c == nil || c == g.cls {
		return
	}
	switch {
	case c.Generated() && g.registry.WillClassBeConverted(c):
		g.deps.addClass(c)
	case c.Generated():
		g.deps.AddAsset(c)
	case c.Native():
		g.deps.addNative(c)
	}
}

func (g *gatherer) structRef(s *model.Struct) {
	if s != nil && s.UserDefined {
		g.deps.addStruct(s)
	}
}

func (g *gatherer) enumRef(e *model.Enum) {
	if e != nil && e.UserDefined {
		g.deps.addEnum(e)
	}
}

// fillCommonUsedAssets seeds the used-asset list with the assets the parent
// class does not already provide.
func (c *Context) fillCommonUsedAssets(parent *Dependencies) {
	for _, a := range c.Deps.Assets {
		if !parent.HasAsset(a) {
			c.usedObjects = append(c.usedObjects, a)
		}
	}
}

// addStaticFunctionsForDependencies writes the three asset list functions.
// Common assets are the prefix of the used-asset list that is also a static
// dependency; they are shared by both public lists.
func (c *Context) addStaticFunctionsForDependencies(parent *Dependencies) {
	var static []model.Node
	contains := func(n model.Node) bool {
		for _, s := range static {
			if s == n {
				return true
			}
		}
		return false
	}
	remove := func(n model.Node) {
		for i, s := range static {
			if s == n {
				static = append(static[:i], static[i+1:]...)
				return
			}
		}
	}
	for _, a := range c.Deps.Assets {
		if !parent.HasAsset(a) {
			static = append(static, a)
		}
	}
	for _, cl := range c.Deps.ConvertedClasses {
		if parent.HasClass(cl) || parent.HasAsset(cl) || contains(cl) {
			continue
		}
		static = append(static, cl)
	}

	cppName := c.Class.CppName()
	used := 0

	c.target.Block(fmt.Sprintf("void %s::__StaticDependencies_CommonAssets(TArray<FBlueprintDependencyData>& AssetsToLoad)", cppName))
	var common []model.Node
	for ; used < len(c.usedObjects); used++ {
		a := c.usedObjects[used]
		if !contains(a) {
			break
		}
		remove(a)
		common = append(common, a)
	}
	c.addAssetArray(common)
	c.target.EndBlock("")

	c.target.Block(fmt.Sprintf("void %s::__StaticDependencies_DirectlyUsedAssets(TArray<FBlueprintDependencyData>& AssetsToLoad)", cppName))
	c.line("__StaticDependencies_CommonAssets(AssetsToLoad);")
	c.addAssetArray(c.usedObjects[used:])
	c.target.EndBlock("")

	c.target.Block(fmt.Sprintf("void %s::__StaticDependenciesAssets(TArray<FBlueprintDependencyData>& AssetsToLoad)", cppName))
	if super := c.Class.Super; super != nil && super.Generated() {
		c.linef("%s::__StaticDependenciesAssets(AssetsToLoad);", super.CppName())
	}
	c.line("__StaticDependencies_CommonAssets(AssetsToLoad);")
	c.addAssetArray(static)
	c.target.EndBlock("")
}

func (c *Context) addAssetArray(assets []model.Node) {
	if len(assets) == 0 {
		return
	}
	prefixes := map[string]string{}
	for _, a := range assets {
		long := longPackagePath(a.Outermost())
		if _, ok := prefixes[long]; !ok {
			name := c.NewLocalName()
			c.linef(`const TCHAR* %s = TEXT("%s");`, name, long)
			prefixes[long] = name
		}
	}
	c.line("FBlueprintDependencyData LocAssets[] =")
	c.target.Block("")
	for _, a := range assets {
		c.line(c.dependencyData(a, prefixes[longPackagePath(a.Outermost())]))
	}
	c.target.EndBlock(";")
	c.line("for(auto& LocAsset : LocAssets) { AssetsToLoad.Add(LocAsset); }")
}

func (c *Context) dependencyData(a model.Node, longPathVar string) string {
	typePkg, typeName := model.EnginePackage, "Object"
	switch t := a.(type) {
	case *model.Object:
		typePkg, typeName = t.Class.Outermost(), t.Class.Name
	case *model.Enum:
		typePkg, typeName = model.CorePackage, "Enum"
	case *model.Struct:
		typePkg, typeName = model.CorePackage, "ScriptStruct"
	case *model.Class:
		if c.registry.WillClassBeConverted(t) {
			typePkg, typeName = model.CorePackage, "DynamicClass"
		} else {
			typePkg, typeName = model.EnginePackage, "BlueprintGeneratedClass"
		}
	}
	return fmt.Sprintf(`FBlueprintDependencyData(%s, TEXT("%s"), TEXT("%s"), TEXT("%s"), TEXT("%s")),`,
		longPathVar, shortPackageName(a.Outermost()), a.GetName(), typePkg, typeName)
}

// addRegisterHelper writes the static struct that registers the class's
// dependency list when the module loads.
func (c *Context) addRegisterHelper() {
	cppName := c.Class.CppName()
	helper := c.registry.RegisterHelperName(c.Class)

	c.linef("struct %s", helper)
	c.target.Block("")
	c.linef("%s()", helper)
	c.target.Block("")
	c.linef(`FConvertedBlueprintsDependencies::Get().RegisterClass(TEXT("%s"), &%s::__StaticDependenciesAssets);`,
		escapeString(c.Class.Outermost()), cppName)
	c.target.EndBlock("")
	c.linef("static %s Instance;", helper)
	c.target.EndBlock(";")
	c.linef("%s %s::Instance;", helper, helper)

	c.registry.Register(Registration{Package: c.Class.Outermost(), CppName: cppName, Helper: helper})
}

// zConstructor is the name of the generated reflection constructor of a
// converted class or struct.
func zConstructor(n model.Node) string {
	switch t := n.(type) {
	case *model.Class:
		return "Z_Construct_UClass_" + t.CppName() + "()"
	case *model.Struct:
		return "Z_Construct_UScriptStruct_" + t.CppName() + "()"
	}
	return ""
}

func longPackagePath(pkg string) string {
	dir := path.Dir(pkg)
	if dir == "." {
		return ""
	}
	return dir
}

func shortPackageName(pkg string) string {
	return pkg[strings.LastIndex(pkg, "/")+1:]
}
