package basil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basilTeam/basil/config"
	"github.com/basilTeam/basil/symbol"
)

func TestPipelineRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.bl")
	require.NoError(t, os.WriteFile(path, []byte("def x = 2\nx * 21\n"), 0o644))

	p := NewPipeline(config.Default())
	vals, err := p.Run(path)
	require.NoError(t, err)
	require.Equal(t, 2, len(vals))
	assert.Equal(t, int64(42), vals[1].Int())
}

func TestPipelineRunMissingFile(t *testing.T) {
	p := NewPipeline(config.Default())
	_, err := p.Run(filepath.Join(t.TempDir(), "absent.bl"))
	assert.Error(t, err)
}

func TestPipelineCollectsDiagnostics(t *testing.T) {
	p := NewPipeline(config.Default())
	vals := p.EvalText("boom + 1\nalso_boom")
	// Both expressions still evaluate: errors accumulate, they don't abort.
	require.Equal(t, 2, len(vals))
	assert.True(t, vals[0].IsError())
	assert.True(t, vals[1].IsError())
	assert.Equal(t, 2, ErrorCount())
	require.Equal(t, 2, len(Diagnostics()))
}

func TestPipelineResetsStateBetweenCompilations(t *testing.T) {
	p := NewPipeline(config.Default())
	p.EvalText("boom")
	assert.Greater(t, ErrorCount(), 0)

	NewPipeline(config.Default())
	assert.Equal(t, 0, ErrorCount())
}

func TestImportBuiltin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.bl")
	require.NoError(t, os.WriteFile(path, []byte("def z = 42\n"), 0o644))

	p := NewPipeline(config.Default())
	vals := p.EvalText(`import "` + path + `"`)
	require.Equal(t, 0, ErrorCount(), "diagnostics: %v", Diagnostics())
	mod := vals[len(vals)-1]
	require.Equal(t, KModule, mod.Type().Kind)
	z, ok := mod.AsModule().Lookup(symbol.Intern("z"))
	require.True(t, ok)
	assert.Equal(t, int64(42), z.Int())

	// The module is also bound under the file's stem.
	lib, ok := p.Env().Lookup(symbol.Intern("lib"))
	require.True(t, ok)
	assert.Equal(t, KModule, lib.Type().Kind)
}

func TestDiagnosticRendering(t *testing.T) {
	d := NewDiagnostic(CategoryOverload, Pos{LineStart: 2, ColStart: 5, LineEnd: 2, ColEnd: 9}, "no overload matches")
	d.WithNote(Pos{LineStart: 1, ColStart: 1, LineEnd: 1, ColEnd: 2}, "candidate: %s", "f #\\")
	s := d.Error()
	assert.Contains(t, s, "2:5")
	assert.Contains(t, s, "overload")
	assert.Contains(t, s, "candidate")
}

func TestSpanMerges(t *testing.T) {
	a := Pos{LineStart: 1, ColStart: 4, LineEnd: 1, ColEnd: 8}
	b := Pos{LineStart: 1, ColStart: 1, LineEnd: 2, ColEnd: 3}
	s := Span(a, b)
	assert.Equal(t, 1, s.ColStart)
	assert.Equal(t, 2, s.LineEnd)
	assert.Equal(t, a, Span(a, NoPos))
	assert.Equal(t, b, Span(NoPos, b))
}
