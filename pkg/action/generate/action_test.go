package generate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/nativizer/internal/diagnostic"
	"github.com/cmmoran/nativizer/internal/emitter"
	"github.com/cmmoran/nativizer/pkg/generator"
)

const dump = `
structs:
  - name: Opaque
    package: /Script/Engine
    native: true
    no_export: true
    fields: [{name: Count, type: int32}]
  - name: Settings
    package: /Game/Structs/Settings
    user_defined: true
    fields: [{name: Speed, type: float}]
    declared_defaults: {Speed: 2.5}

classes:
  - name: Prop
    package: /Game/Props/Prop
    super: Actor
    flags: [generated]
    fields: [{name: Health, type: int32}]
    default:
      values: {InitialLifeSpan: 4, Health: 3}
  - name: Broken
    package: /Game/Props/Broken
    super: Actor
    flags: [generated]
    fields: [{name: Data, type: struct:Opaque}]
    default:
      values: {Data: {Count: 2}}
`

func writeDump(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.yaml")
	require.NoError(t, os.WriteFile(path, []byte(dump), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun(t *testing.T) {
	out := t.TempDir()
	opts := generator.NewOptions().Apply(
		generator.WithInput(writeDump(t)),
		generator.WithOutDir(out),
		generator.WithEncoding("utf8"),
		generator.WithParallelism(2),
	)

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, res.Classes, 2)
	require.Equal(t, 1, res.Failed())

	broken, prop := res.Classes[0], res.Classes[1]
	require.Equal(t, "/Game/Props/Broken.Broken", broken.Path)
	require.True(t, errors.Is(broken.Err, emitter.ErrMalformedGraph))
	require.Nil(t, broken.Unit)
	require.Empty(t, broken.Files)

	require.NoError(t, prop.Err)
	require.Equal(t, []string{filepath.Join(out, "AProp.h"), filepath.Join(out, "AProp.cpp")}, prop.Files)
	body := readFile(t, prop.Files[1])
	require.Contains(t, body, "InitialLifeSpan = 4.0f;")
	require.Contains(t, body, "Health = 3;")

	require.Len(t, res.Structs, 1)
	require.Equal(t, []string{filepath.Join(out, "FSettings.h")}, res.Structs[0].Files)
	require.Contains(t, readFile(t, res.Structs[0].Files[0]), "DefaultData__.Speed = 2.5f;")

	require.Len(t, res.Registrations, 1)
	require.Equal(t, "AProp", res.Registrations[0].CppName)
	require.Len(t, res.Units(), 2)

	var malformed []diagnostic.Diagnostic
	for _, d := range res.Diagnostics {
		if d.Category == diagnostic.CategoryMalformedGraph {
			malformed = append(malformed, d)
		}
	}
	require.Len(t, malformed, 1)
	require.Equal(t, "ABroken", malformed[0].Class)
	require.Equal(t, diagnostic.SeverityError, malformed[0].Severity)
}

func TestRunOptions(t *testing.T) {
	input := writeDump(t)

	tests := []struct {
		name    string
		opts    []generator.Option
		check   func(t *testing.T, res *Result)
		wantErr error
	}{
		{
			name:    "fail fast",
			opts:    []generator.Option{generator.WithFailFast(), generator.WithParallelism(1)},
			wantErr: emitter.ErrMalformedGraph,
		},
		{
			name: "selected class",
			opts: []generator.Option{generator.WithClasses("prop"), generator.WithoutStructs()},
			check: func(t *testing.T, res *Result) {
				require.Len(t, res.Classes, 1)
				require.Equal(t, "/Game/Props/Prop.Prop", res.Classes[0].Path)
				require.Empty(t, res.Structs)
			},
		},
		{
			name: "excluded property",
			opts: []generator.Option{generator.WithExcludeClasses("Broken"), generator.WithExcludeProperties("Prop.Health")},
			check: func(t *testing.T, res *Result) {
				require.Len(t, res.Classes, 1)
				require.Zero(t, res.Failed())
				require.NotContains(t, res.Classes[0].Unit.Body, "Health = 3;")
				require.Contains(t, res.Classes[0].Unit.Body, "InitialLifeSpan = 4.0f;")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := generator.NewOptions().Apply(generator.WithInput(input), generator.WithOutDir(t.TempDir()))
			res, err := Run(context.Background(), opts.Apply(tt.opts...))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestRunInvalidInput(t *testing.T) {
	_, err := Run(context.Background(), generator.NewOptions())
	require.Error(t, err)

	opts := generator.NewOptions().Apply(
		generator.WithInput(writeDump(t)),
		generator.WithOutDir(t.TempDir()),
		generator.WithEncoding("latin1"),
	)
	_, err = Run(context.Background(), opts)
	require.Error(t, err)
}
