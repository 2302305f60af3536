package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestOpenTranslationUnit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.sv", "module m; endmodule")

	proj := New(dir, nil)
	f, err := proj.OpenTranslationUnit("a.sv")
	require.NoError(t, err)
	assert.Equal(t, "a.sv", f.ReferencedPath())
	assert.Equal(t, filepath.Join(dir, "a.sv"), f.ResolvedPath())

	// Reopening returns the same handle.
	again, err := proj.OpenTranslationUnit("a.sv")
	require.NoError(t, err)
	assert.Same(t, f, again)

	_, err = proj.OpenTranslationUnit("missing.sv")
	assert.Error(t, err)
}

func TestOpenIncludedFileSearchOrder(t *testing.T) {
	root := t.TempDir()
	incDir := t.TempDir()
	writeFile(t, incDir, "only_inc.svh", "wire a;")
	writeFile(t, root, "both.svh", "wire root_version;")
	writeFile(t, incDir, "both.svh", "wire inc_version;")

	proj := New(root, []string{incDir})

	onlyInc, err := proj.OpenIncludedFile("only_inc.svh")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(incDir, "only_inc.svh"), onlyInc.ResolvedPath())

	// The project root wins over include dirs.
	both, err := proj.OpenIncludedFile("both.svh")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "both.svh"), both.ResolvedPath())

	_, err = proj.OpenIncludedFile("missing.svh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.svh")
}

func TestIncludedFilesAreNotTranslationUnits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.sv", "module m; endmodule")
	writeFile(t, dir, "defs.svh", "wire w;")

	proj := New(dir, nil)
	_, err := proj.OpenTranslationUnit("top.sv")
	require.NoError(t, err)
	_, err = proj.OpenIncludedFile("defs.svh")
	require.NoError(t, err)

	units := proj.TranslationUnits()
	require.Len(t, units, 1)
	assert.Equal(t, "top.sv", units[0].ReferencedPath())
}

func TestParseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.sv", "module m; endmodule")
	writeFile(t, dir, "bad.sv", "module ((( ;")

	proj := New(dir, nil)

	good, err := proj.OpenTranslationUnit("good.sv")
	require.NoError(t, err)
	require.NoError(t, good.Parse())
	tree := good.TextStructure().SyntaxTree
	require.NotNil(t, tree)
	require.NoError(t, good.Parse())
	assert.Same(t, tree, good.TextStructure().SyntaxTree)

	bad, err := proj.OpenTranslationUnit("bad.sv")
	require.NoError(t, err)
	firstErr := bad.Parse()
	require.Error(t, firstErr)
	// The first outcome is sticky.
	assert.Equal(t, firstErr, bad.Parse())
	// A partial tree is still available.
	assert.NotNil(t, bad.TextStructure().SyntaxTree)
}

func TestConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.NotEmpty(t, cfg.FilePatterns)
	assert.Empty(t, cfg.Files)
}

func TestConfigLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sv_project.json")

	cfg := &Config{
		IncludeDirs: []string{"inc"},
		Files:       []string{"top.sv"},
	}
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.IncludeDirs, loaded.IncludeDirs)
	assert.Equal(t, cfg.Files, loaded.Files)
	// Explicit files suppress the pattern defaults.
	assert.Empty(t, loaded.FilePatterns)
}

func TestConfigLoadFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sv_project.json", `{"include_dirs": ["inc"]}`)

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"inc"}, loaded.IncludeDirs)
	assert.NotEmpty(t, loaded.FilePatterns)
}

func TestConfigLoadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sv_project.json", `{"include_dirs": [`)

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")

	// Load finds the same file through the search path and surfaces
	// the error instead of silently falling back to defaults.
	_, err = Load(dir)
	require.Error(t, err)
}

func TestLoadFindsProjectRootConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sv_project.json",
		`{"include_dirs": ["inc"], "files": ["a.sv"], "top": ["m"]}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"inc"}, cfg.IncludeDirs)
	assert.Equal(t, []string{"a.sv"}, cfg.Files)
	assert.Equal(t, []string{"m"}, cfg.Top)
}

func TestConfigTranslationUnitsExplicitFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.sv", "module b; endmodule")
	writeFile(t, dir, "a.sv", "module a; endmodule")

	// The explicit list keeps its own order and overrides patterns.
	cfg := &Config{
		Files:        []string{"b.sv", "a.sv"},
		FilePatterns: []string{"*.sv"},
	}
	units, err := cfg.TranslationUnits(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "b.sv"),
		filepath.Join(dir, "a.sv"),
	}, units)
}

func TestConfigTranslationUnitsPatternDiscovery(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.sv", "module b; endmodule")
	writeFile(t, dir, "a.sv", "module a; endmodule")
	writeFile(t, dir, "defs.svh", "wire w;")
	writeFile(t, dir, "notes.txt", "not a source file")

	cfg := &Config{FilePatterns: []string{"*.sv", "*.svh", "*.sv"}}
	units, err := cfg.TranslationUnits(dir)
	require.NoError(t, err)
	// Sorted, deduplicated, and filtered to the patterns.
	assert.Equal(t, []string{
		filepath.Join(dir, "a.sv"),
		filepath.Join(dir, "b.sv"),
		filepath.Join(dir, "defs.svh"),
	}, units)

	none := &Config{FilePatterns: []string{"*.nothing"}}
	units, err = none.TranslationUnits(dir)
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestConfigTopRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sv_project.json")

	cfg := &Config{Files: []string{"top.sv"}, Top: []string{"top", "tb"}}
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"top", "tb"}, loaded.Top)
}

func TestConfigNormalizeDropsEmptyEntries(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sv_project.json",
		`{"include_dirs": ["", "inc/./sub"], "files": ["./a.sv", ""]}`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("inc", "sub")}, cfg.IncludeDirs)
	assert.Equal(t, []string{"a.sv"}, cfg.Files)
}
