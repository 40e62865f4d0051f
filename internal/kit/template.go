package kit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// TemplateEntry is one expected item in a kit template.
type TemplateEntry struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// LoadTemplate parses a kit template: a JSON array of objects with a required
// code and an optional name. Codes are trimmed and entries without a code are
// discarded.
func LoadTemplate(r io.Reader) ([]TemplateEntry, error) {
	var raw []TemplateEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing kit template: %w", err)
	}

	entries := make([]TemplateEntry, 0, len(raw))
	for _, e := range raw {
		e.Code = strings.TrimSpace(e.Code)
		if e.Code == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// LoadTemplateFile reads a kit template from disk.
func LoadTemplateFile(path string) ([]TemplateEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening kit template: %w", err)
	}
	defer f.Close()

	return LoadTemplate(f)
}
