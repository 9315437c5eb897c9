package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/albumstack/internal/config"
	"github.com/matzehuels/albumstack/pkg/cache"
)

func TestCountEntries(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b", filepath.Join("sub", "c")} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if got := countEntries(dir); got != 3 {
		t.Errorf("countEntries = %d, want 3", got)
	}
	if got := countEntries(filepath.Join(dir, "missing")); got != 0 {
		t.Errorf("countEntries(missing) = %d", got)
	}
}

func TestCacheCommands(t *testing.T) {
	c, _ := testCLI(t)
	dir := filepath.Join(t.TempDir(), "cache")
	c.cfg.Cache = config.CacheConfig{Backend: config.CacheFile, Dir: dir}

	out := mustRun(t, c, "cache", "path")
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", out, dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "entry"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	mustRun(t, c, "cache", "clear")
	if n := countEntries(dir); n != 0 {
		t.Errorf("%d entries left after clear", n)
	}
}

func TestRenderUsesFileCache(t *testing.T) {
	c, _ := testCLI(t)
	cacheDir := filepath.Join(t.TempDir(), "cache")
	c.cfg.Cache = config.CacheConfig{Backend: config.CacheFile, Dir: cacheDir}
	mustRun(t, c, "new", "--seed")

	out := filepath.Join(t.TempDir(), "page.json")
	mustRun(t, c, "render", "album_001", "-f", "json", "-o", out)
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("render output: %v", err)
	}
	if countEntries(cacheDir) == 0 {
		t.Error("render left the cache empty")
	}
}

func TestRunnerKeyScope(t *testing.T) {
	c, _ := testCLI(t)
	opts := cache.LayoutKeyOpts{Width: 420}

	runner, err := c.newRunner(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	plain := runner.Keyer.LayoutKey("doc", opts)

	c.cfg.Cache.Scope = "studio"
	runner, err = c.newRunner(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	scoped := runner.Keyer.LayoutKey("doc", opts)
	if scoped != "studio:"+plain {
		t.Errorf("scoped key = %q, want %q", scoped, "studio:"+plain)
	}
	if got := runner.Keyer.ArtifactKey("page", cache.ArtifactKeyOpts{Format: "svg"}); !strings.HasPrefix(got, "studio:") {
		t.Errorf("artifact key %q not scoped", got)
	}
}
