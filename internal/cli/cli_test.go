package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mindlayout/pkg/cache"
	"github.com/matzehuels/mindlayout/pkg/config"
	"github.com/matzehuels/mindlayout/pkg/errors"
	"github.com/matzehuels/mindlayout/pkg/graph"
	"github.com/matzehuels/mindlayout/pkg/mindmap"
)

// sampleDoc is a small mind map with two clusters.
func sampleDoc() graph.Document {
	return graph.Document{
		Nodes: []graph.Node{
			{ID: "root", Title: "Essay"},
			{ID: "a", Title: "Argument", Cluster: 1},
			{ID: "a1", Title: "Evidence", Cluster: 1},
			{ID: "b", Title: "Counterpoint", Cluster: 2},
			{ID: "b1", Title: "Rebuttal", Cluster: 2},
		},
		Edges: []graph.Edge{
			{Source: "root", Target: "a"},
			{Source: "a", Target: "a1", Relationship: "elaborates"},
			{Source: "root", Target: "b"},
			{Source: "b", Target: "b1", Relationship: "contrasts"},
		},
	}
}

// writeFixture writes the sample document and a config file that disables
// caching, returning both paths.
func writeFixture(t *testing.T) (docPath, cfgPath string) {
	t.Helper()
	dir := t.TempDir()
	docPath = filepath.Join(dir, "map.json")
	require.NoError(t, graph.WriteDocumentFile(sampleDoc(), docPath))
	cfgPath = filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[cache]\nbackend = \"none\"\n"), 0o644))
	return docPath, cfgPath
}

// execute runs the root command with args and captures its output stream.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// =============================================================================
// Helpers
// =============================================================================

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,png", []string{"svg", "png"}},
		{" PNG , dot ,", []string{"png", "dot"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseFormats(tt.in))
		})
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "maps/essay.layout.json", outputPath("maps/essay.json", layoutSuffix))
	assert.Equal(t, "essay.preview", outputPath("essay.json", ".preview"))
	assert.Equal(t, "noext.layout.json", outputPath("noext", layoutSuffix))
}

func TestLayoutFlagsOverrideConfig(t *testing.T) {
	var flags layoutFlags
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--strategy", "force", "--sector-gap", "0", "--seed", "7"}))

	lc := config.Default().Layout
	opts := flags.options(cmd, lc)

	assert.Equal(t, "force", opts.Strategy)
	require.NotNil(t, opts.SectorGapDeg)
	assert.Equal(t, 0.0, *opts.SectorGapDeg, "an explicit zero gap must survive")
	assert.Equal(t, uint64(7), opts.Seed)
	assert.Equal(t, lc.BaseRadius, opts.BaseRadius, "unset flags keep config values")
	require.NotNil(t, opts.NodePadding)
	assert.Equal(t, lc.NodePadding, *opts.NodePadding)
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		c, err := newCache(ctx, config.CacheConfig{Backend: config.BackendNone})
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, cache.NullCache{}, c)
	})

	t.Run("file", func(t *testing.T) {
		dir := t.TempDir()
		c, err := newCache(ctx, config.CacheConfig{Backend: config.BackendFile, Dir: dir})
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &cache.FileCache{}, c)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		c, err := newCache(ctx, config.CacheConfig{
			Backend:     config.BackendRedis,
			RedisURL:    fmt.Sprintf("redis://%s", mr.Addr()),
			RedisPrefix: "ml:",
		})
		require.NoError(t, err)
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
		assert.True(t, mr.Exists("ml:k"))
	})
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	paths, err := writeArtifacts(base, map[string][]byte{
		"svg": []byte("<svg/>"),
		"dot": []byte("graph G {}"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{base + ".dot", base + ".svg"}, paths)

	data, err := os.ReadFile(base + ".svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
}

// =============================================================================
// Commands
// =============================================================================

func TestLayoutCommand(t *testing.T) {
	docPath, cfgPath := writeFixture(t)

	_, err := execute(t, "--config", cfgPath, "layout", docPath)
	require.NoError(t, err)

	l, err := graph.ReadLayoutFile(strings.TrimSuffix(docPath, ".json") + layoutSuffix)
	require.NoError(t, err)
	assert.Equal(t, "radial", l.Strategy)
	assert.Len(t, l.Positions, 5)
	assert.Equal(t, mindmap.Position{}, l.Positions["root"], "root stays at its position")
	require.NotNil(t, l.Stats)
	assert.True(t, l.Stats.Converged)
}

func TestLayoutCommandApply(t *testing.T) {
	docPath, cfgPath := writeFixture(t)
	out := filepath.Join(filepath.Dir(docPath), "positioned.json")

	_, err := execute(t, "--config", cfgPath, "layout", docPath, "--apply", "-o", out)
	require.NoError(t, err)

	doc, err := graph.ReadDocumentFile(out)
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 5)
	a, ok := doc.NodeByID("a")
	require.True(t, ok)
	assert.NotEqual(t, mindmap.Position{}, a.Position)
}

func TestLayoutCommandInvalidStrategy(t *testing.T) {
	docPath, cfgPath := writeFixture(t)

	_, err := execute(t, "--config", cfgPath, "layout", docPath, "--strategy", "spiral")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidStrategy), "got %v", err)
}

func TestResolveCommand(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "map.json")
	doc := graph.Document{
		Nodes: []graph.Node{
			{ID: "root", Title: "Center"},
			{ID: "a", Title: "First", Position: mindmap.Position{X: 300}},
			{ID: "b", Title: "Second", Position: mindmap.Position{X: 300}},
		},
		Edges: []graph.Edge{{Source: "root", Target: "a"}, {Source: "root", Target: "b"}},
	}
	require.NoError(t, graph.WriteDocumentFile(doc, docPath))
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, nil, 0o644))

	_, err := execute(t, "--config", cfgPath, "resolve", docPath, "--movable", "b")
	require.NoError(t, err)

	got, err := graph.ReadDocumentFile(docPath)
	require.NoError(t, err)
	a, _ := got.NodeByID("a")
	b, _ := got.NodeByID("b")
	root, _ := got.NodeByID("root")
	assert.Equal(t, mindmap.Position{X: 300}, a.Position, "pinned node must not move")
	assert.NotEqual(t, mindmap.Position{X: 300}, b.Position, "movable node must move")
	assert.Equal(t, mindmap.Position{}, root.Position)
}

func TestRenderCommandDOT(t *testing.T) {
	docPath, cfgPath := writeFixture(t)

	_, err := execute(t, "--config", cfgPath, "render", docPath, "--compute", "-f", "dot,json")
	require.NoError(t, err)

	base := strings.TrimSuffix(docPath, ".json") + ".preview"
	dot, err := os.ReadFile(base + ".dot")
	require.NoError(t, err)
	assert.Contains(t, string(dot), `"root" -- "a"`)

	positioned, err := graph.ReadDocumentFile(base + ".json")
	require.NoError(t, err)
	assert.Len(t, positioned.Nodes, 5)
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	docPath, cfgPath := writeFixture(t)

	_, err := execute(t, "--config", cfgPath, "render", docPath, "-f", "gif")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "got %v", err)
}

func TestInspectPlain(t *testing.T) {
	docPath, cfgPath := writeFixture(t)
	_, err := execute(t, "--config", cfgPath, "layout", docPath)
	require.NoError(t, err)
	layoutPath := strings.TrimSuffix(docPath, ".json") + layoutSuffix

	l, err := graph.ReadLayoutFile(layoutPath)
	require.NoError(t, err)
	doc := graph.ApplyLayout(sampleDoc(), l.Positions)

	var buf bytes.Buffer
	require.NoError(t, printPositions(&buf, doc, l.Stats.Sectors))
	out := buf.String()
	for _, want := range []string{"Radius", "Angle", "Counterpoint", "sectors: c1"} {
		assert.Contains(t, out, want)
	}
}

func TestConfigShow(t *testing.T) {
	_, cfgPath := writeFixture(t)

	out, err := execute(t, "--config", cfgPath, "config", "show")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, config.Decode([]byte(out), &cfg))
	assert.Equal(t, config.BackendNone, cfg.Cache.Backend)
	assert.Equal(t, config.Default().Layout, cfg.Layout)
}

func TestConfigPath(t *testing.T) {
	_, cfgPath := writeFixture(t)

	out, err := execute(t, "--config", cfgPath, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfgPath, strings.TrimSpace(out))
}

func TestConfigInvalid(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[layout]\nradius = 3\n"), 0o644))

	_, err := execute(t, "--config", cfgPath, "config", "show")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
}

func TestCachePath(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cacheDir := filepath.Join(dir, "cache")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("[cache]\ndir = %q\n", cacheDir)), 0o644))

	out, err := execute(t, "--config", cfgPath, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, cacheDir, strings.TrimSpace(out))
}

func TestCacheClearRemovesLayouts(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("[cache]\ndir = %q\n", cacheDir)), 0o644))
	docPath := filepath.Join(dir, "map.json")
	require.NoError(t, graph.WriteDocumentFile(sampleDoc(), docPath))

	_, err := execute(t, "--config", cfgPath, "layout", docPath)
	require.NoError(t, err)
	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries, "layout should populate the file cache")

	_, err = execute(t, "--config", cfgPath, "cache", "clear")
	require.NoError(t, err)
	entries, _ = os.ReadDir(cacheDir)
	assert.Empty(t, entries)
}

func TestCachePruneKeepsLiveLayouts(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("[cache]\ndir = %q\n", cacheDir)), 0o644))
	docPath := filepath.Join(dir, "map.json")
	require.NoError(t, graph.WriteDocumentFile(sampleDoc(), docPath))

	_, err := execute(t, "--config", cfgPath, "layout", docPath)
	require.NoError(t, err)
	_, err = execute(t, "--config", cfgPath, "cache", "prune")
	require.NoError(t, err)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries, "unexpired layouts survive pruning")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"layout", "resolve", "render", "inspect", "serve", "cache", "config", "completion"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "mindlayout")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestCompleteFormats(t *testing.T) {
	got, _ := completeFormats(nil, nil, "svg,p")
	assert.Contains(t, got, "svg,png")
	assert.Contains(t, got, "svg,pdf")

	strategies, _ := completeStrategies(nil, nil, "")
	assert.Equal(t, []string{"force", "radial"}, strategies)
}
