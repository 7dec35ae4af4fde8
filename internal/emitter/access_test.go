package emitter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/nativizer/internal/model"
)

func TestAccessPrivateStructMember(t *testing.T) {
	g := model.NewEngineGraph()
	body := g.Struct("BodyInstance")
	value := model.NewStructValue(body).Set("CollisionProfileName", model.Name("BlockAll"))
	other := model.NewStructValue(body).Set("CollisionProfileName", model.Name("OverlapAll"))

	c := NewContext(nil, nil, Options{})
	site := valueSite{typ: model.StructOf(body), name: "BodyInstance"}
	c.emitValue(site, "Comp->BodyInstance", value, nil, false)
	c.emitValue(site, "Other->BodyInstance", other, nil, false)

	want := lines(
		"static TWeakObjectPtr<UProperty> __Local__0{};",
		"const UProperty* __Local__1 = __Local__0.Get();",
		"if (nullptr == __Local__1)",
		"{",
		`	__Local__1 = (FBodyInstance::StaticStruct())->FindPropertyByName(FName(TEXT("CollisionProfileName")));`,
		"	check(__Local__1);",
		"	__Local__0 = __Local__1;",
		"}",
		"auto& __Local__2 = (*(__Local__1->ContainerPtrToValuePtr<FName>(&(Comp->BodyInstance), 0)));",
		`__Local__2 = FName(TEXT("BlockAll"));`,
		"auto& __Local__3 = (*(__Local__1->ContainerPtrToValuePtr<FName>(&(Other->BodyInstance), 0)));",
		`__Local__3 = FName(TEXT("OverlapAll"));`,
	)
	got := c.Body.Result()
	require.Equalf(t, want, got, "diff: %s", cmp.Diff(want, got))
}

func TestAccessPropertyLookupResetOnPhaseSwitch(t *testing.T) {
	g := model.NewEngineGraph()
	body := g.Struct("BodyInstance")
	f := body.FindField("CollisionProfileName")

	c := NewContext(nil, nil, Options{})
	first := c.propertyByName(f)
	require.Equal(t, first, c.propertyByName(f))

	c.setCodeType(CodeCommonConstructor)
	require.NotEqual(t, first, c.propertyByName(f))
}

func TestAccessPrivateBitfield(t *testing.T) {
	g := model.NewEngineGraph()
	scene := g.Class("SceneComponent")
	visible := scene.FindField("bVisible")
	comp := model.NewObject("Comp", scene, nil)
	comp.Set("bVisible", model.Bool(false))

	c := NewContext(nil, nil, Options{})
	c.emitField(visible, "Comp", comp, scene.Default, AccessArrow, false)

	want := lines(
		"static TWeakObjectPtr<UProperty> __Local__0{};",
		"const UProperty* __Local__1 = __Local__0.Get();",
		"if (nullptr == __Local__1)",
		"{",
		`	__Local__1 = (USceneComponent::StaticClass())->FindPropertyByName(FName(TEXT("bVisible")));`,
		"	check(__Local__1);",
		"	__Local__0 = __Local__1;",
		"}",
		"(((UBoolProperty*)__Local__1)->SetPropertyValue_InContainer((Comp), false, 0));",
	)
	got := c.Body.Result()
	require.Equalf(t, want, got, "diff: %s", cmp.Diff(want, got))
}

func TestAccessPaths(t *testing.T) {
	g := model.NewEngineGraph()
	actor := g.Class("Actor")
	unconverted := newGeneratedClass(t, g, "Legacy", actor)
	health := unconverted.AddField(&model.Field{Name: "Health", Type: model.TypeInt32})
	charges := unconverted.AddField(&model.Field{Name: "Charges", Type: model.TypeInt32, ArrayDim: 2})
	cls := newGeneratedClass(t, g, "Hero", unconverted)
	armor := cls.AddField(&model.Field{Name: "Armor", Type: model.TypeFloat, Access: model.AccessProtected})
	lifeSpan := actor.FindField("InitialLifeSpan")

	cls.Default.Set("Health", model.Int32(50))
	cls.Default.Set("Charges", &model.FixedArray{Items: []model.Value{nil, model.Int32(4)}})
	cls.Default.Set("Armor", model.Float(2))
	cls.Default.Set("InitialLifeSpan", model.Float(10))

	tests := []struct {
		name           string
		field          *model.Field
		outer          string
		op             AccessOperator
		allowProtected bool
		want           string
	}{
		{
			name:  "unconverted owner through wrapper",
			field: health,
			op:    AccessImplicit,
			want:  lines("FUnconvertedWrapper__ALegacy(this).GetRef__Health() = 50;"),
		},
		{
			name:  "wrapper through pointer",
			field: health,
			outer: "Target",
			op:    AccessArrow,
			want:  lines("FUnconvertedWrapper__ALegacy((Target)).GetRef__Health() = 50;"),
		},
		{
			name:  "wrapper static array elements",
			field: charges,
			op:    AccessImplicit,
			want: lines(
				"FUnconvertedWrapper__ALegacy(this).GetRef__Charges(0) = 0;",
				"FUnconvertedWrapper__ALegacy(this).GetRef__Charges(1) = 4;",
			),
		},
		{
			name:           "protected allowed",
			field:          armor,
			op:             AccessImplicit,
			allowProtected: true,
			want:           lines("Armor = 2.0f;"),
		},
		{
			name:  "public through pointer",
			field: lifeSpan,
			outer: "Target",
			op:    AccessArrow,
			want:  lines("Target->InitialLifeSpan = 10.0f;"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext(cls, NewRegistry(cls), Options{})
			c.emitField(tt.field, tt.outer, cls.Default, nil, tt.op, tt.allowProtected)
			got := c.Body.Result()
			require.Equalf(t, tt.want, got, "diff: %s", cmp.Diff(tt.want, got))
		})
	}

	t.Run("protected denied", func(t *testing.T) {
		c := NewContext(cls, NewRegistry(cls), Options{})
		c.emitField(armor, "Target", cls.Default, nil, AccessArrow, false)
		got := c.Body.Result()
		require.Contains(t, got, `(GetClass())->FindPropertyByName(FName(TEXT("Armor")))`)
		require.Contains(t, got, "auto& __Local__2 = (*(__Local__1->ContainerPtrToValuePtr<float>((Target), 0)));")
		require.Contains(t, got, "__Local__2 = 2.0f;")
	})

	t.Run("wrapper recorded once", func(t *testing.T) {
		c := NewContext(cls, NewRegistry(cls), Options{})
		c.emitField(health, "", cls.Default, nil, AccessImplicit, true)
		c.emitField(health, "Other", cls.Default, nil, AccessArrow, true)
		require.Len(t, c.wrappers, 1)
		require.Equal(t, []*model.Field{health}, c.wrappers[0].fields)
	})

	t.Run("wrapper accessor takes element index", func(t *testing.T) {
		c := NewContext(cls, NewRegistry(cls), Options{})
		c.emitField(charges, "", cls.Default, nil, AccessImplicit, true)
		c.generateWrapper(c.wrappers[0])
		got := c.Body.Result()
		require.Contains(t, got, "int32& GetRef__Charges(int32 ArrayIndex = 0)")
		require.Contains(t, got, `ContainerPtrToValuePtr<int32>(__Object, ArrayIndex));`)
	})
}

func TestAccessNoExportWithoutLayout(t *testing.T) {
	g := model.NewEngineGraph()
	opaque, err := g.AddStruct(&model.Struct{Name: "Opaque", Package: model.EnginePackage, Native: true, NoExport: true})
	require.NoError(t, err)
	opaque.AddField(&model.Field{Name: "Count", Type: model.TypeInt32, Offset: 4})

	c := NewContext(nil, nil, Options{})
	err = catchMalformed(func() {
		c.emitValue(valueSite{typ: model.StructOf(opaque)}, "S", model.NewStructValue(opaque).Set("Count", model.Int32(1)), nil, false)
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMalformedGraph))

	var mge *MalformedGraphError
	require.True(t, errors.As(err, &mge))
	require.Equal(t, "/Script/Engine.Opaque:Count", mge.Path)
	require.Equal(t, "test", mge.Class)
}

func TestAccessNoExportStaticArray(t *testing.T) {
	g := model.NewEngineGraph()
	opaque, err := g.AddStruct(&model.Struct{Name: "Opaque", Package: model.EnginePackage, Native: true, NoExport: true, NativeLayout: true})
	require.NoError(t, err)
	opaque.AddField(&model.Field{Name: "Weights", Type: model.TypeFloat, ArrayDim: 3, Offset: 0x8})

	value := model.NewStructValue(opaque).Set("Weights", &model.FixedArray{Items: []model.Value{model.Float(1), nil, model.Float(2)}})
	c := NewContext(nil, nil, Options{})
	c.emitValue(valueSite{typ: model.StructOf(opaque)}, "S", value, nil, false)

	want := lines(
		"auto& __Local__0 = (*(AccessPrivateProperty<float>(&(S), 0x00000008, sizeof(float), 0)));",
		"__Local__0 = 1.0f;",
		"auto& __Local__1 = (*(AccessPrivateProperty<float>(&(S), 0x00000008, sizeof(float), 2)));",
		"__Local__1 = 2.0f;",
	)
	got := c.Body.Result()
	require.Equalf(t, want, got, "diff: %s", cmp.Diff(want, got))
}

func TestAccessOperator(t *testing.T) {
	tests := []struct {
		op        AccessOperator
		separator string
		container string
	}{
		{AccessImplicit, "", "this"},
		{AccessDot, ".", "&(Value)"},
		{AccessArrow, "->", "(Value)"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.separator, tt.op.String())
		require.Equal(t, tt.container, tt.op.containerPtr("Value"))
	}
}
