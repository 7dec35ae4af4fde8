package emitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/nativizer/internal/model"
)

func newGeneratedClass(t *testing.T, g *model.Graph, name string, super *model.Class) *model.Class {
	t.Helper()
	c, err := g.AddClass(&model.Class{
		Name:    name,
		Package: "/Game/Blueprints/" + name,
		Super:   super,
		Flags:   model.ClassGenerated,
	})
	require.NoError(t, err)
	model.NewClassDefault(c)
	return c
}

func newNativeClass(t *testing.T, g *model.Graph, name string, super *model.Class, flags model.ClassFlags) *model.Class {
	t.Helper()
	c, err := g.AddClass(&model.Class{
		Name:    name,
		Package: model.EnginePackage,
		Super:   super,
		Flags:   model.ClassNative | flags,
	})
	require.NoError(t, err)
	model.NewClassDefault(c)
	return c
}

func newUserStruct(t *testing.T, g *model.Graph, name string) *model.Struct {
	t.Helper()
	s, err := g.AddStruct(&model.Struct{Name: name, Package: "/Game/Structs/" + name, UserDefined: true})
	require.NoError(t, err)
	return s
}

// lines joins the expected lines the way CodeText renders them.
func lines(ls ...string) string {
	if len(ls) == 0 {
		return ""
	}
	return strings.Join(ls, "\n") + "\n"
}

// catchMalformed runs fn and returns the malformed-graph error it raised.
func catchMalformed(fn func()) (err error) {
	defer recoverMalformed("test", &err)
	fn()
	return nil
}
