package emitter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/nativizer/internal/model"
)

func TestRegistryNamesFollowPathOrder(t *testing.T) {
	doorA := &model.Class{Name: "Door", Package: "/Game/A/Door", NativeName: "ADoor", Flags: model.ClassGenerated}
	doorB := &model.Class{Name: "Door", Package: "/Game/B/Door", NativeName: "ADoor", Flags: model.ClassGenerated}
	gateA := &model.Class{Name: "Gate", Package: "/Game/A/Gate", NativeName: "AGate", Flags: model.ClassGenerated}
	gateB := &model.Class{Name: "Gate", Package: "/Game/B/Gate", NativeName: "AGate", Flags: model.ClassGenerated}

	for _, order := range [][]*model.Class{{doorA, doorB}, {doorB, doorA}} {
		r := NewRegistry(gateB, gateA)
		r.Reserve(order...)

		// Ask in reverse path order; reservation already fixed the suffixes.
		require.Equal(t, "FUnconvertedWrapper__ADoor_1", r.WrapperName(doorB))
		require.Equal(t, "FUnconvertedWrapper__ADoor", r.WrapperName(doorA))
		require.Equal(t, "FRegisterHelper__AGate_1", r.RegisterHelperName(gateB))
		require.Equal(t, "FRegisterHelper__AGate", r.RegisterHelperName(gateA))
	}
}

func TestRegistryConcurrentSessions(t *testing.T) {
	var classes []*model.Class
	for _, pkg := range []string{"/Game/C/Door", "/Game/A/Door", "/Game/B/Door"} {
		classes = append(classes, &model.Class{Name: "Door", Package: pkg, NativeName: "ADoor", Flags: model.ClassGenerated})
	}
	want := map[string]string{
		"/Game/A/Door": "FUnconvertedWrapper__ADoor",
		"/Game/B/Door": "FUnconvertedWrapper__ADoor_1",
		"/Game/C/Door": "FUnconvertedWrapper__ADoor_2",
	}

	for range 20 {
		r := NewRegistry()
		r.Reserve(classes...)

		var (
			mu  sync.Mutex
			got = make(map[string]string)
			wg  sync.WaitGroup
		)
		for _, c := range classes {
			wg.Add(1)
			go func() {
				defer wg.Done()
				name := r.WrapperName(c)
				mu.Lock()
				got[c.Package] = name
				mu.Unlock()
			}()
		}
		wg.Wait()
		require.Equal(t, want, got)
	}
}
