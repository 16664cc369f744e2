package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danpasecinic/kiln/internal/lifetime"
)

// Manifest selects which services the CLI wires and how.
//
//	runtime:
//	  addr: ":9090"
//	  parallel_init: true
//	services:
//	  - id: aiAssistant
//	    enabled: false
//	  - id: componentGenerator
//	    lifetime: transient
type Manifest struct {
	Runtime  Runtime       `yaml:"runtime"`
	Services []ServiceSpec `yaml:"services"`
}

type Runtime struct {
	Addr         string `yaml:"addr"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	ParallelInit bool   `yaml:"parallel_init"`
}

type ServiceSpec struct {
	ID       string         `yaml:"id"`
	Enabled  *bool          `yaml:"enabled"`
	Lifetime *lifetime.Kind `yaml:"lifetime"`
	Tags     []string       `yaml:"tags"`
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}

// ParseManifest decodes a manifest, rejecting unknown keys and entries
// without an id.
func ParseManifest(data []byte) (*Manifest, error) {
	m := &Manifest{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	seen := make(map[string]bool, len(m.Services))
	for i, s := range m.Services {
		if s.ID == "" {
			return nil, fmt.Errorf("parse manifest: service %d has no id", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("parse manifest: service %q listed twice", s.ID)
		}
		seen[s.ID] = true
	}
	return m, nil
}

func (m *Manifest) lookup(id string) (ServiceSpec, bool) {
	for _, s := range m.Services {
		if s.ID == id {
			return s, true
		}
	}
	return ServiceSpec{}, false
}

// Enabled reports whether id should be registered. Services not listed
// are enabled.
func (m *Manifest) Enabled(id string) bool {
	s, ok := m.lookup(id)
	return !ok || s.Enabled == nil || *s.Enabled
}

func (m *Manifest) Lifetime(id string, fallback lifetime.Kind) lifetime.Kind {
	if s, ok := m.lookup(id); ok && s.Lifetime != nil {
		return *s.Lifetime
	}
	return fallback
}

func (m *Manifest) Tags(id string) []string {
	s, _ := m.lookup(id)
	return s.Tags
}
