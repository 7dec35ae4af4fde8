package emitter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/nativizer/internal/model"
)

type linkFixture struct {
	g    *model.Graph
	cls  *model.Class
	link *model.Class
}

// newLinkFixture builds a generated actor and a native component class whose
// Peer property holds an instanced reference to another component.
func newLinkFixture(t *testing.T) *linkFixture {
	t.Helper()
	g := model.NewEngineGraph()
	link := newNativeClass(t, g, "LinkComponent", g.Class("ActorComponent"), model.ClassObjectInitializerConstructor)
	link.AddField(&model.Field{Name: "Peer", Type: model.ObjectOf(g.Class("ActorComponent")), Flags: model.FieldInstancedReference})
	link.AddField(&model.Field{Name: "Weight", Type: model.TypeFloat})
	return &linkFixture{g: g, cls: newGeneratedClass(t, g, "Linked", g.Class("Actor")), link: link}
}

func TestMaterializeIdempotent(t *testing.T) {
	g := model.NewEngineGraph()
	cls := newGeneratedClass(t, g, "Prop", g.Class("Actor"))
	mesh := model.NewObject("Mesh", g.Class("StaticMeshComponent"), cls.Default)
	mesh.Flags |= model.ObjectDefaultSubobject
	mesh.Set("CastShadow", model.Bool(false))

	c := NewContext(cls, NewRegistry(cls), Options{})
	c.setCodeType(CodeCommonConstructor)

	first := c.MaterializeInstancedObject(mesh, false, true)
	body := c.Body.Result()
	second := c.MaterializeInstancedObject(mesh, false, true)

	require.Equal(t, "__Local__0", first)
	require.Equal(t, first, second)
	require.Equal(t, body, c.Body.Result())

	want := lines(
		`auto __Local__0 = CastChecked<UStaticMeshComponent>(GetDefaultSubobjectByName(TEXT("Mesh")));`,
		"__Local__0->CastShadow = false;",
	)
	require.Equalf(t, want, body, "diff: %s", cmp.Diff(want, body))
}

func TestMaterializeCycle(t *testing.T) {
	f := newLinkFixture(t)
	a := model.NewObject("A", f.link, f.cls.Default)
	b := model.NewObject("B", f.link, f.cls.Default)
	a.Set("Peer", model.Ref(b))
	b.Set("Peer", model.Ref(a))
	b.Set("Weight", model.Float(0.5))

	c := NewContext(f.cls, NewRegistry(f.cls), Options{})
	c.setCodeType(CodeCommonConstructor)
	name := c.MaterializeInstancedObject(a, true, false)
	require.Equal(t, "__Local__0", name)

	want := lines(
		`auto __Local__0 = CreateDefaultSubobject<ULinkComponent>(TEXT("A"));`,
		`auto __Local__1 = CreateDefaultSubobject<ULinkComponent>(TEXT("B"));`,
		"__Local__1->Peer = __Local__0;",
		"__Local__1->Weight = 0.5f;",
		"__Local__0->Peer = __Local__1;",
	)
	got := c.Body.Result()
	require.Equalf(t, want, got, "diff: %s", cmp.Diff(want, got))
}

func TestMaterializeInsideOwner(t *testing.T) {
	f := newLinkFixture(t)
	a := model.NewObject("A", f.link, f.cls.Default)
	inner := model.NewObject("Inner", f.link, a)
	inner.Set("Weight", model.Float(3))
	a.Set("Peer", model.Ref(inner))

	c := NewContext(f.cls, NewRegistry(f.cls), Options{})
	c.setCodeType(CodeCommonConstructor)

	// Reaching the nested object first creates its owner.
	name := c.MaterializeInstancedObject(inner, true, false)
	require.Equal(t, "__Local__1", name)

	want := lines(
		`auto __Local__0 = CreateDefaultSubobject<ULinkComponent>(TEXT("A"));`,
		`auto __Local__1 = NewObject<ULinkComponent>(__Local__0, ULinkComponent::StaticClass(), TEXT("Inner"));`,
		"__Local__1->Weight = 3.0f;",
		"__Local__0->Peer = __Local__1;",
	)
	got := c.Body.Result()
	require.Equalf(t, want, got, "diff: %s", cmp.Diff(want, got))
}

func TestMaterializeEditorOnly(t *testing.T) {
	g := model.NewEngineGraph()
	cls := newGeneratedClass(t, g, "Prop", g.Class("Actor"))
	holder := model.NewObject("Holder", g.Class("SceneComponent"), cls.Default)
	sprite := model.NewObject("Sprite", g.Class("BillboardComponent"), holder)
	sprite.Flags |= model.ObjectEditorOnly
	sprite.Set("CastShadow", model.Bool(false))

	c := NewContext(cls, NewRegistry(cls), Options{})
	c.setCodeType(CodeCommonConstructor)
	name := c.MaterializeInstancedObject(sprite, true, false)
	require.Equal(t, "__Local__1", name)

	want := lines(
		`auto __Local__0 = CreateDefaultSubobject<USceneComponent>(TEXT("Holder"));`,
		`auto __Local__1 = NewObject<USceneComponent>(__Local__0, USceneComponent::StaticClass(), TEXT("Sprite"));`,
	)
	got := c.Body.Result()
	require.Equalf(t, want, got, "diff: %s", cmp.Diff(want, got))
}

func TestMaterializeUnresolvableOwner(t *testing.T) {
	g := model.NewEngineGraph()
	cls := newGeneratedClass(t, g, "Prop", g.Class("Actor"))
	pkg := model.NewAsset("Library", g.Class("Object"), "/Game/Library")
	stray := model.NewObject("Stray", g.Class("SceneComponent"), pkg)

	c := NewContext(cls, NewRegistry(cls), Options{})
	err := catchMalformed(func() { c.MaterializeInstancedObject(stray, true, false) })
	require.True(t, errors.Is(err, ErrMalformedGraph))
	require.Contains(t, err.Error(), "owner of instanced object cannot be resolved")
}

func TestClassSubobjectCreateThenInitialize(t *testing.T) {
	g := model.NewEngineGraph()
	cls := newGeneratedClass(t, g, "Timed", g.Class("Actor"))
	timeline := model.NewObject("Fade_Template", g.Class("TimelineTemplate"), cls)
	timeline.Set("TimelineLength", model.Float(2))
	timeline.Set("bLoop", model.Bool(true))

	c := NewContext(cls, NewRegistry(cls), Options{})
	c.setCodeType(CodeSubobjectsOfClass)
	created := c.materializeClassSubobject(timeline, ListTimelines, true, false)
	initialized := c.materializeClassSubobject(timeline, ListTimelines, false, true)
	require.Equal(t, created, initialized)
	require.Equal(t, 0, c.listIndex(ListTimelines, timeline))

	want := lines(
		`auto __Local__0 = NewObject<UTimelineTemplate>(InDynamicClass, UTimelineTemplate::StaticClass(), TEXT("Fade_Template"));`,
		"InDynamicClass->Timelines.Add(__Local__0);",
		"__Local__0->TimelineLength = 2.0f;",
		"__Local__0->bLoop = true;",
	)
	got := c.Body.Result()
	require.Equalf(t, want, got, "diff: %s", cmp.Diff(want, got))

	c.setCodeType(CodeCommonConstructor)
	require.Equal(t,
		"CastChecked<UTimelineTemplate>(CastChecked<UDynamicClass>(ATimed::StaticClass())->Timelines[0])",
		c.FindGloballyMappedName(timeline, "UTimelineTemplate"))
}

func TestClassSubobjectListNames(t *testing.T) {
	require.Equal(t, "ComponentTemplates", ListComponentTemplates.FieldName())
	require.Equal(t, "Timelines", ListTimelines.FieldName())
	require.Equal(t, "DynamicBindingObjects", ListDynamicBindingObjects.FieldName())
	require.Equal(t, "MiscConvertedSubobjects", ListMiscConvertedSubobjects.FieldName())
}
