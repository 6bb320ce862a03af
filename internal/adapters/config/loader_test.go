package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/internal/adapters/config"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newTestLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func writeTargetFile(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, domain.TargetFileName), []byte(content), 0o600)
	require.NoError(t, err)
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeTargetFile(t, dir, `
targets:
  - name: "//lib:core"
    args:
      cmd: "cc -c core.c"
      outs: ["core.o"]
  - name: "//app:bin"
    kind: bundle
    cacheable: false
    deps: ["//lib:core"]
    extra_deps: ["//lib:gen"]
    target_graph_only_deps: ["//lib:meta"]
  - name: "//lib:gen"
  - name: "//lib:meta"
`)

	graph, err := newTestLoader(t).Load(dir)
	require.NoError(t, err)
	require.Equal(t, 4, graph.Len())

	core, ok := graph.Node(domain.NewTargetID("lib", "core"))
	require.True(t, ok)
	assert.Equal(t, "genrule", core.Kind().String())
	assert.True(t, core.Cacheable())
	outs, ok := core.Arg("outs")
	require.True(t, ok)
	assert.Equal(t, []any{"core.o"}, outs)

	bin, ok := graph.Node(domain.NewTargetID("app", "bin"))
	require.True(t, ok)
	assert.Equal(t, "bundle", bin.Kind().String())
	assert.False(t, bin.Cacheable())
	assert.Equal(t, []domain.TargetID{domain.NewTargetID("lib", "core")}, bin.DeclaredDeps())
	assert.Equal(t, []domain.TargetID{domain.NewTargetID("lib", "gen")}, bin.ExtraDeps())
	assert.Equal(t, []domain.TargetID{domain.NewTargetID("lib", "meta")}, bin.TargetGraphOnlyDeps())
}

func TestLoader_Load_WalksUpToFindFile(t *testing.T) {
	root := t.TempDir()
	writeTargetFile(t, root, `
targets:
  - name: "//lib:core"
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	graph, err := newTestLoader(t).Load(nested)
	require.NoError(t, err)
	assert.Equal(t, 1, graph.Len())
}

func TestLoader_Load_MissingFile(t *testing.T) {
	_, err := newTestLoader(t).Load(t.TempDir())
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestLoader_Load_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeTargetFile(t, dir, "targets: [not: closed")

	_, err := newTestLoader(t).Load(dir)
	require.Error(t, err)
}

func TestLoader_Load_InvalidTargetName(t *testing.T) {
	dir := t.TempDir()
	writeTargetFile(t, dir, `
targets:
  - name: "lib:core"
`)

	_, err := newTestLoader(t).Load(dir)
	require.ErrorIs(t, err, domain.ErrInvalidTargetID)
}

func TestLoader_Load_DanglingDep(t *testing.T) {
	dir := t.TempDir()
	writeTargetFile(t, dir, `
targets:
  - name: "//lib:core"
    deps: ["//lib:ghost"]
`)

	_, err := newTestLoader(t).Load(dir)
	require.ErrorIs(t, err, domain.ErrDanglingDependency)
}
