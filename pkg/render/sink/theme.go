package sink

import (
	"fmt"
	"maps"
	"slices"
)

// Theme is a color palette. Colors are hex strings.
type Theme struct {
	Name       string
	Background string
	Block      string
	Slot       string
	Empty      string
	Stroke     string
	Text       string
}

// Built-in themes.
var (
	Light = Theme{
		Name:       "light",
		Background: "#f5f5f4",
		Block:      "#ffffff",
		Slot:       "#d6d3d1",
		Empty:      "#a8a29e",
		Stroke:     "#78716c",
		Text:       "#1c1917",
	}
	Dark = Theme{
		Name:       "dark",
		Background: "#0c0a09",
		Block:      "#1c1917",
		Slot:       "#44403c",
		Empty:      "#78716c",
		Stroke:     "#a8a29e",
		Text:       "#fafaf9",
	}
)

// Themes maps theme names to palettes.
var Themes = map[string]Theme{
	Light.Name: Light,
	Dark.Name:  Dark,
}

// DefaultTheme is used when no theme is given.
const DefaultTheme = "light"

// LookupTheme returns the named theme.
func LookupTheme(name string) (Theme, error) {
	if name == "" {
		name = DefaultTheme
	}
	t, ok := Themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (valid: %v)", name, slices.Sorted(maps.Keys(Themes)))
	}
	return t, nil
}
