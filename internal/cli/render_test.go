package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/albumstack/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf,json", []string{"svg", "pdf", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, fallback, want string
	}{
		{"", "album_001", "album_001"},
		{"out/page.svg", "album_001", "out/page"},
		{"out/page.json", "album_001", "out/page"},
		{"out/page", "album_001", "out/page"},
		{"out/page.final", "album_001", "out/page.final"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.fallback); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.fallback, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		pipeline.FormatSVG:  []byte("<svg/>"),
		pipeline.FormatJSON: []byte("{}"),
	}

	paths, err := writeArtifacts(artifacts, []string{"svg", "json"}, filepath.Join(dir, "album_001"), "")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "album_001.svg"), filepath.Join(dir, "album_001.json")}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(want[0])
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("svg artifact = %q, %v", data, err)
	}
}

func TestWriteArtifactsSingleOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "cover.svg")
	paths, err := writeArtifacts(map[string][]byte{"svg": []byte("<svg/>")}, []string{"svg"}, "ignored", out)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != out {
		t.Errorf("paths = %v, want [%s]", paths, out)
	}
}

func TestDefaultConstants(t *testing.T) {
	if pipeline.DefaultWidth != 420 {
		t.Errorf("pipeline.DefaultWidth = %v, want 420", pipeline.DefaultWidth)
	}
	if !pipeline.ValidFormats["dot"] || pipeline.ValidFormats["gif"] {
		t.Errorf("ValidFormats = %v", pipeline.ValidFormats)
	}
}
