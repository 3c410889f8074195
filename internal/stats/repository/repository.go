// Package repository loads the site statistics shown as animated counters.
package repository

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stat is one headline figure. Value is the display text the counter animates
// towards, e.g. "250+" or "98%".
type Stat struct {
	ID       string `yaml:"id"`
	Label    string `yaml:"label"`
	Value    string `yaml:"value"`
	Decimals int    `yaml:"decimals"`
}

type document struct {
	Stats []Stat `yaml:"stats"`
}

// Defaults is served when no stats file is configured.
func Defaults() []Stat {
	return []Stat{
		{ID: "proyectos", Label: "Proyectos entregados", Value: "250+"},
		{ID: "experiencia", Label: "Años de experiencia", Value: "15+"},
		{ID: "clientes", Label: "Clientes satisfechos", Value: "98%"},
		{ID: "garantia", Label: "Años de garantía", Value: "5"},
	}
}

// Load reads stats from a YAML file. An empty path yields Defaults.
func Load(path string) ([]Stat, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stats file: %w", err)
	}
	return Decode(data)
}

// Decode parses a stats document and checks ids are present and unique.
func Decode(data []byte) ([]Stat, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Stats))
	for i := range doc.Stats {
		s := &doc.Stats[i]
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" {
			return nil, fmt.Errorf("stat %d: id is required", i)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("stat %q: duplicate id", s.ID)
		}
		if s.Decimals < 0 {
			return nil, fmt.Errorf("stat %q: decimals must not be negative", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return doc.Stats, nil
}

// Store is an immutable, ordered set of stats.
type Store struct {
	stats []Stat
	byID  map[string]Stat
}

// NewStore indexes stats by id.
func NewStore(stats []Stat) *Store {
	byID := make(map[string]Stat, len(stats))
	for _, s := range stats {
		byID[s.ID] = s
	}
	return &Store{stats: stats, byID: byID}
}

// List returns every stat in file order.
func (s *Store) List() []Stat {
	out := make([]Stat, len(s.stats))
	copy(out, s.stats)
	return out
}

// Get returns the stat with id.
func (s *Store) Get(id string) (Stat, bool) {
	stat, ok := s.byID[id]
	return stat, ok
}
