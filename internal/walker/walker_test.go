package walker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/repalette/internal/colour"
	"github.com/jmylchreest/repalette/internal/compression"
	"github.com/jmylchreest/repalette/internal/remap"
)

var gameTree = map[string]string{
	"main.lua":         "set_color(12)\n",
	"core/palette.lua": "PAL = {}\nPAL[1] = {0.122, 0.055, 0.110}\n",
	"core/util.lua":    "return PAL[1]\n",
	"sys/player.lua":   "return ({33, 34, 32})\n",
	"draw/none.lua":    "local x = 1\n",
	"gen/notes.txt":    "PAL[1]\n",
	"other/extra.lua":  "PAL[1]\n",
	".git/hooks.lua":   "PAL[1]\n",
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func readFile(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func newWalker(t *testing.T, cfg Config) *Walker {
	t.Helper()
	legacy := colour.DefaultLegacyPalette()
	space := colour.NewColourSpace(colour.DefaultTargetPalette())
	rw, err := remap.New(space, colour.BuildIndexCorrespondence(legacy, space))
	require.NoError(t, err)

	w, err := New(cfg, rw, nil)
	require.NoError(t, err)
	return w
}

func testConfig(root string) Config {
	cfg := DefaultConfig()
	cfg.Root = root
	cfg.Jobs = 2
	return cfg
}

func TestDiscover(t *testing.T) {
	root := writeTree(t, gameTree)
	w := newWalker(t, testConfig(root))

	files, skipped, err := w.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"core/util.lua", "draw/none.lua", "main.lua", "sys/player.lua"}, files)
	assert.Equal(t, []string{"core/palette.lua"}, skipped)
}

func TestDiscoverExclude(t *testing.T) {
	root := writeTree(t, gameTree)
	cfg := testConfig(root)
	cfg.Exclude = []string{"draw/**"}
	w := newWalker(t, cfg)

	files, _, err := w.Discover(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, files, "draw/none.lua")
	assert.Contains(t, files, "main.lua")
}

func TestDiscoverRefusesEscapingSymlink(t *testing.T) {
	root := writeTree(t, map[string]string{"main.lua": "PAL[1]\n"})
	outside := filepath.Join(t.TempDir(), "outside.lua")
	require.NoError(t, os.WriteFile(outside, []byte("PAL[1]\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "gen"), 0o755))
	if err := os.Symlink(outside, filepath.Join(root, "gen", "link.lua")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	w := newWalker(t, testConfig(root))
	_, _, err := w.Discover(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing symlink")
}

func TestRun(t *testing.T) {
	root := writeTree(t, gameTree)
	w := newWalker(t, testConfig(root))

	files, _, err := w.Discover(context.Background())
	require.NoError(t, err)
	summary, err := w.Run(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, []string{"core/util.lua", "main.lua", "sys/player.lua"}, summary.Changed())
	assert.Equal(t, "set_color(9)\n", readFile(t, root, "main.lua"))
	assert.Equal(t, "return PAL[16]\n", readFile(t, root, "core/util.lua"))
	assert.Equal(t, "return ({2, 3, 3})\n", readFile(t, root, "sys/player.lua"))
	assert.Equal(t, gameTree["draw/none.lua"], readFile(t, root, "draw/none.lua"))
	assert.Equal(t, gameTree["core/palette.lua"], readFile(t, root, "core/palette.lua"))
	assert.Equal(t, gameTree["other/extra.lua"], readFile(t, root, "other/extra.lua"))

	require.Len(t, summary.Rules, 5)
	assert.Equal(t, remap.RuleTableIndex, summary.Rules[0].Rule)
	assert.Equal(t, 1, summary.Rules[0].Matches)
	assert.Equal(t, 1, summary.Rules[1].Changed)
	assert.Equal(t, 1, summary.Rules[4].Changed)
}

func TestRunDryRun(t *testing.T) {
	root := writeTree(t, gameTree)
	cfg := testConfig(root)
	cfg.DryRun = true
	w := newWalker(t, cfg)

	files, _, err := w.Discover(context.Background())
	require.NoError(t, err)
	summary, err := w.Run(context.Background(), files)
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.Len(t, summary.Changed(), 3)
	assert.Equal(t, gameTree["main.lua"], readFile(t, root, "main.lua"))
}

func TestRunFailureWritesNothing(t *testing.T) {
	tree := map[string]string{
		"main.lua":    "set_color(12)\n",
		"gen/bad.lua": "love.graphics.setColor(1.2.3, 0, 0)\n",
	}
	root := writeTree(t, tree)
	cfg := testConfig(root)
	cfg.Backup = filepath.Join(t.TempDir(), "backup.tar.xz")
	w := newWalker(t, cfg)

	files, _, err := w.Discover(context.Background())
	require.NoError(t, err)
	_, err = w.Run(context.Background(), files)
	require.Error(t, err)

	var fileErr *FileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, "gen/bad.lua", fileErr.Path)

	var ruleErr *remap.RuleError
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, remap.RuleRGBSetter, ruleErr.Rule)

	for name, content := range tree {
		assert.Equal(t, content, readFile(t, root, name), name)
	}
	_, statErr := os.Stat(cfg.Backup)
	assert.True(t, os.IsNotExist(statErr), "no backup on failed run")
}

func TestRunBackupRestore(t *testing.T) {
	root := writeTree(t, gameTree)
	cfg := testConfig(root)
	cfg.Backup = filepath.Join(t.TempDir(), "backup.tar.xz")
	w := newWalker(t, cfg)

	files, _, err := w.Discover(context.Background())
	require.NoError(t, err)
	summary, err := w.Run(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, cfg.Backup, summary.Backup)

	backed, err := compression.ReadBackup(cfg.Backup)
	require.NoError(t, err)
	require.Len(t, backed, 3)

	restored, err := compression.RestoreBackup(cfg.Backup, root)
	require.NoError(t, err)
	assert.ElementsMatch(t, summary.Changed(), restored)
	for _, name := range restored {
		assert.Equal(t, gameTree[name], readFile(t, root, name), name)
	}
}

func TestRunCancelled(t *testing.T) {
	root := writeTree(t, gameTree)
	w := newWalker(t, testConfig(root))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := w.Run(ctx, []string{"main.lua"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, gameTree["main.lua"], readFile(t, root, "main.lua"))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("REPALETTE_INCLUDE", "src/**.lua, main.lua,")
	t.Setenv("REPALETTE_EXCLUDE", "")
	t.Setenv("REPALETTE_SKIP", "src/palette.lua")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, []string{"src/**.lua", "main.lua"}, cfg.Include)
	assert.Empty(t, cfg.Exclude)
	assert.Equal(t, []string{"src/palette.lua"}, cfg.Skip)
}

func TestConfigValidate(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing root", mutate: func(c *Config) { c.Root = filepath.Join(root, "nope") }, wantErr: "invalid root"},
		{name: "no include", mutate: func(c *Config) { c.Include = nil }, wantErr: "include pattern"},
		{name: "no jobs", mutate: func(c *Config) { c.Jobs = 0 }, wantErr: "jobs"},
		{name: "bad glob", mutate: func(c *Config) { c.Exclude = []string{"[a-"} }, wantErr: "invalid pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(root)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
