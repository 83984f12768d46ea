package character

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/corsair/internal/game/stats"
)

// Template is the static definition of a crew member, loaded from YAML.
type Template struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Role       string         `yaml:"role"` // "melee" | "ranged" | "support"
	Vitality   int            `yaml:"vitality"`
	Energy     int            `yaml:"energy"`
	Movement   int            `yaml:"movement"`
	Attributes map[string]int `yaml:"attributes"`
	Abilities  []int          `yaml:"abilities"`
	Job        string         `yaml:"job"`
	Domain     string         `yaml:"ai_domain"`
}

// Full-scale size of the hunger, hygiene and loyalty pools.
const wellbeingScale = 100

// Validate reports definition errors.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if t.Vitality < 1 {
		errs = append(errs, errors.New("vitality must be >= 1"))
	}
	if t.Energy < 0 || t.Movement < 0 {
		errs = append(errs, errors.New("energy and movement must be >= 0"))
	}
	for name := range t.Attributes {
		if a, err := stats.ParseAttribute(name); err != nil || a == stats.None {
			errs = append(errs, fmt.Errorf("unknown attribute %q", name))
		}
	}
	return errors.Join(errs...)
}

// Build constructs a character from t.
//
// Precondition: t must be non-nil.
// Postcondition: Returns a character with full pools, or a non-nil error.
func Build(t *Template, playerControlled bool) (*Character, error) {
	if t == nil {
		return nil, errors.New("template must not be nil")
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("template %q: %w", t.ID, err)
	}
	attrs := make(map[stats.Attribute]int, len(t.Attributes))
	for name, v := range t.Attributes {
		a, _ := stats.ParseAttribute(name)
		attrs[a] = v
	}
	c := New(t.Name, playerControlled, map[stats.Resource]int{
		stats.Vitality: t.Vitality,
		stats.Energy:   t.Energy,
		stats.Hunger:   wellbeingScale,
		stats.Hygiene:  wellbeingScale,
		stats.Loyalty:  wellbeingScale,
	}, attrs, t.Abilities)
	c.Role = t.Role
	c.Domain = t.Domain
	if t.Movement > 0 {
		c.DefaultMovement = t.Movement
		c.RemainingMovement = t.Movement
	}
	return c, nil
}

// LoadTemplates reads every *.yaml file in dir.
// Precondition: dir must be a readable directory.
// Postcondition: Returns templates in file name order, or an error if any
// file fails to parse or validate.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading crew dir %q: %w", dir, err)
	}
	var out []*Template
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var t Template
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&t); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		out = append(out, &t)
	}
	return out, nil
}
