package sink

import (
	"encoding/json"

	"github.com/matzehuels/albumstack/pkg/placement"
)

// RenderJSON writes the page layout, including grid cells and resolved
// assets, as indented JSON.
func RenderJSON(page placement.PageLayout) ([]byte, error) {
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ParseJSON reads a page layout written by RenderJSON.
func ParseJSON(data []byte) (placement.PageLayout, error) {
	var page placement.PageLayout
	err := json.Unmarshal(data, &page)
	return page, err
}
