// Package manifest handles extensible.toml host manifests.
//
// A manifest names a host and lists the steps that build it: operations to
// declare or upgrade and layers to push, in order.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file looked up in a directory.
const FileName = "extensible.toml"

// Manifest represents an extensible.toml host configuration.
type Manifest struct {
	Host  Host   `toml:"host"`
	Steps []Step `toml:"step"`

	// Dir is the directory containing the manifest file (set at load time).
	Dir string `toml:"-"`
}

// Host contains host metadata.
type Host struct {
	Name      string `toml:"name"`
	Verbosity int    `toml:"verbosity"`
}

// Step is one build step. Exactly one of Declare, Upgrade and Use is set.
type Step struct {
	Declare string `toml:"declare"`
	Upgrade string `toml:"upgrade"`
	Use     string `toml:"use"`

	Params   []string       `toml:"params"`
	Metadata map[string]any `toml:"metadata"`

	// Defaults fill parameters an upgrade drops when older layers are called.
	Defaults map[string]any `toml:"defaults"`

	// Options are passed to the layer factory named by Use.
	Options map[string]any `toml:"options"`
}

// Kind returns "declare", "upgrade", "use" or "" for an empty step.
func (s Step) Kind() string {
	switch {
	case s.Declare != "":
		return "declare"
	case s.Upgrade != "":
		return "upgrade"
	case s.Use != "":
		return "use"
	}
	return ""
}

// Load parses the extensible.toml file in the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m, err := Parse(data, path)
	if err != nil {
		return nil, err
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return m, nil
}

// Parse decodes and validates manifest source. name is used in errors.
func Parse(data []byte, name string) (*Manifest, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", name, err)
	}
	if err := Validate(raw); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", name, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", name, err)
	}

	// Defaults
	if m.Host.Name == "" {
		m.Host.Name = "host"
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find an extensible.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Operations returns the names of operations the manifest declares, in
// order, without duplicates.
func (m *Manifest) Operations() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range m.Steps {
		name := s.Declare
		if name == "" {
			name = s.Upgrade
		}
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
