package refdata

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/xtding233/craft-odds/internal/cost"
	"gopkg.in/yaml.v3"
)

// Manifest is the tools.yaml file at the root of a data directory.
type Manifest struct {
	Version string      `yaml:"version"`
	Tools   []ToolEntry `yaml:"tools"`
	Ranks   []RankEntry `yaml:"ranks,omitempty"`
	Notes   string      `yaml:"notes,omitempty"`
}

// ToolEntry names a tool and the JSON file holding its option tables.
type ToolEntry struct {
	Name  string      `yaml:"name"`
	File  string      `yaml:"file"`
	Price *cost.Price `yaml:"price,omitempty"`
}

// RankEntry declares a rank and whether it is displayed by default.
type RankEntry struct {
	Name    string `yaml:"name"`
	Visible bool   `yaml:"visible"`
}

// ParseManifest decodes a manifest, rejecting unknown keys.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return Manifest{}, errors.New("manifest is empty")
		}
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func (m Manifest) validate() error {
	if len(m.Tools) == 0 {
		return errors.New("manifest lists no tools")
	}
	seen := make(map[string]bool, len(m.Tools))
	for i, t := range m.Tools {
		if t.Name == "" {
			return fmt.Errorf("tools[%d].name is required", i)
		}
		if t.File == "" {
			return fmt.Errorf("tools[%d].file is required", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("tool %q listed twice", t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}
