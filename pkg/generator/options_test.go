package generator

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/nativizer/internal/model"
)

func TestNormalize(t *testing.T) {
	o := NewOptions().Apply(
		WithInput("dump.yaml"),
		WithOutDir(""),
		WithClasses(" BP_Door_C ", ""),
	)
	require.NoError(t, o.Normalize())
	require.True(t, filepath.IsAbs(o.Input))
	require.Equal(t, "generated", o.OutDir)
	require.Equal(t, runtime.GOMAXPROCS(0), o.Parallelism)
	require.Equal(t, []string{"BP_Door_C"}, o.Classes)

	require.Error(t, NewOptions().Normalize())
}

func TestFromViper(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
generator:
  input: /dumps/game.json
  encoding: utf16le
  classes: [BP_*]
  exclude_properties: [Actor.Tags]
  allow_protected: true
  parallelism: 3
  fail_fast: true
`)))
	got, err := FromViper(v)
	require.NoError(t, err)

	want := NewOptions()
	want.Input = "/dumps/game.json"
	want.Encoding = "utf16le"
	want.Classes = []string{"BP_*"}
	want.ExcludeProperties = []string{"Actor.Tags"}
	want.AllowProtected = true
	want.Parallelism = 3
	want.FailFast = true
	require.Equalf(t, want, got, "diff: %s", cmp.Diff(want, got))

	defaults, err := FromViper(viper.New())
	require.NoError(t, err)
	require.Equal(t, NewOptions(), defaults)
}

func TestSelectClass(t *testing.T) {
	g := model.NewEngineGraph()
	newClass := func(name string) *model.Class {
		c, err := g.AddClass(&model.Class{Name: name, Package: "/Game/" + name, Super: g.Class("Actor"), Flags: model.ClassGenerated})
		require.NoError(t, err)
		return c
	}
	door, glass, guard := newClass("BP_Door_C"), newClass("BP_GlassDoor_C"), newClass("Guard_C")

	tests := []struct {
		name string
		opts []Option
		want []*model.Class
	}{
		{name: "everything generated", want: []*model.Class{door, glass, guard}},
		{name: "wildcard", opts: []Option{WithClasses("bp_*")}, want: []*model.Class{door, glass}},
		{name: "exclude wins", opts: []Option{WithClasses("BP_*"), WithExcludeClasses("bp_glassdoor_c")}, want: []*model.Class{door}},
		{name: "by path", opts: []Option{WithClasses("/Game/Guard_C.Guard_C")}, want: []*model.Class{guard}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions().Apply(tt.opts...)
			var got []*model.Class
			for _, c := range []*model.Class{door, glass, guard, g.Class("Actor")} {
				if o.SelectClass(c) {
					got = append(got, c)
				}
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSkipField(t *testing.T) {
	g := model.NewEngineGraph()
	o := NewOptions().Apply(WithExcludeProperties("actor.Tags", "SceneComponent.Relative*"))

	tests := []struct {
		owner string
		field string
		want  bool
	}{
		{owner: "Actor", field: "Tags", want: true},
		{owner: "Actor", field: "InitialLifeSpan", want: false},
		{owner: "SceneComponent", field: "RelativeLocation", want: true},
		{owner: "SceneComponent", field: "bVisible", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.owner+"."+tt.field, func(t *testing.T) {
			f := g.Class(tt.owner).FindField(tt.field)
			require.NotNil(t, f)
			require.Equal(t, tt.want, o.SkipField(f))
		})
	}

	eo := o.EmitterOptions(nil)
	require.NotNil(t, eo.SkipField)
	require.True(t, eo.EnableInheritableComponents)
	require.Nil(t, NewOptions().EmitterOptions(nil).SkipField)
}
