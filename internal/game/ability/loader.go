package ability

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/corsair/internal/game/effect"
	"github.com/cory-johannsen/corsair/internal/game/stats"
	"github.com/cory-johannsen/corsair/internal/game/targeting"
)

type abilityFile struct {
	ID          int          `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Icon        string       `yaml:"icon"`
	Cost        int          `yaml:"cost"`
	Checks      checksDef    `yaml:"checks"`
	Targeting   targetingDef `yaml:"targeting"`
	Effects     []effectDef  `yaml:"effects"`
	Spawn       *spawnDef    `yaml:"spawn"`
}

type checksDef struct {
	User     string `yaml:"user"`
	Hostile  string `yaml:"hostile"`
	Friendly string `yaml:"friendly"`
}

type targetingDef struct {
	Kind          string `yaml:"kind"`
	Range         int    `yaml:"range"`
	AfterFirstHit int    `yaml:"after_first_hit"`
	Radius        int    `yaml:"radius"`
	IncludeSelf   bool   `yaml:"include_self"`
	Empty         bool   `yaml:"empty"`
}

type effectDef struct {
	Kind      string   `yaml:"kind"`
	Amount    int      `yaml:"amount"`
	Duration  int      `yaml:"duration"`
	Attribute string   `yaml:"attribute"`
	Targets   []string `yaml:"targets"` // "hostile" | "friendly"; default hostile
}

type spawnDef struct {
	Kind        string `yaml:"kind"`
	HealPerTurn int    `yaml:"heal_per_turn"`
}

// Parse decodes one ability definition.
//
// Postcondition: the returned ability has a non-nil Targeting rule and
// valid effect specs, or err is non-nil.
func Parse(data []byte) (*Ability, error) {
	var f abilityFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding ability: %w", err)
	}
	return f.build()
}

func (f abilityFile) build() (*Ability, error) {
	var errs []error
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if f.Cost < 0 {
		errs = append(errs, errors.New("cost must be >= 0"))
	}
	a := &Ability{ID: f.ID, Name: f.Name, Description: f.Description, Icon: f.Icon, Cost: f.Cost}

	var err error
	if a.UserCheck, err = stats.ParseAttribute(f.Checks.User); err != nil {
		errs = append(errs, err)
	}
	if a.HostileCheck, err = stats.ParseAttribute(f.Checks.Hostile); err != nil {
		errs = append(errs, err)
	}
	if a.FriendlyCheck, err = stats.ParseAttribute(f.Checks.Friendly); err != nil {
		errs = append(errs, err)
	}
	if a.Targeting, err = f.Targeting.rule(); err != nil {
		errs = append(errs, err)
	}
	for i, ed := range f.Effects {
		spec, err := ed.spec()
		if err != nil {
			errs = append(errs, fmt.Errorf("effect %d: %w", i, err))
			continue
		}
		a.Effects = append(a.Effects, spec)
	}
	if f.Spawn != nil {
		if f.Spawn.Kind == "" {
			errs = append(errs, errors.New("spawn: kind must not be empty"))
		}
		a.Spawn = &ObjectSpec{Kind: f.Spawn.Kind, HealPerTurn: f.Spawn.HealPerTurn}
	}
	if len(a.Effects) == 0 && a.Spawn == nil && len(errs) == 0 {
		errs = append(errs, errors.New("ability has neither effects nor spawn"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("ability %d %q: %w", f.ID, f.Name, err)
	}
	if a.Description == "" {
		a.Description = a.EffectDescription()
	}
	return a, nil
}

func (t targetingDef) rule() (targeting.Rule, error) {
	switch t.Kind {
	case "single_adjacent":
		return targeting.SingleAdjacent{Empty: t.Empty}, nil
	case "swipe_adjacent":
		return targeting.SwipeAdjacent{}, nil
	case "any_single":
		return targeting.AnySingle{}, nil
	case "ranged_single":
		if t.Range < 1 {
			return nil, errors.New("ranged_single: range must be >= 1")
		}
		return targeting.RangedSingle{Range: t.Range}, nil
	case "line":
		if t.Range < 1 || t.AfterFirstHit < 0 {
			return nil, errors.New("line: range must be >= 1 and after_first_hit >= 0")
		}
		return targeting.Line{Range: t.Range, AfterFirstHit: t.AfterFirstHit}, nil
	case "self_area":
		if t.Radius < 1 {
			return nil, errors.New("self_area: radius must be >= 1")
		}
		return targeting.SelfArea{Radius: t.Radius, IncludeSelf: t.IncludeSelf}, nil
	default:
		return nil, fmt.Errorf("unknown targeting kind %q", t.Kind)
	}
}

func (e effectDef) spec() (effect.Spec, error) {
	kind, err := effect.ParseKind(e.Kind)
	if err != nil {
		return effect.Spec{}, err
	}
	attr, err := stats.ParseAttribute(e.Attribute)
	if err != nil {
		return effect.Spec{}, err
	}
	s := effect.Spec{Kind: kind, Amount: e.Amount, Duration: e.Duration, Attribute: attr}
	if len(e.Targets) == 0 {
		s.Hostile = true
	}
	for _, t := range e.Targets {
		switch t {
		case "hostile":
			s.Hostile = true
		case "friendly":
			s.Friendly = true
		default:
			return effect.Spec{}, fmt.Errorf("unknown effect target %q", t)
		}
	}
	return s, s.Validate()
}

// LoadDirectory reads every *.yaml file in dir and returns a populated
// Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails
// to parse or two files declare the same ID.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading ability dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		a, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if _, dup := reg.Get(a.ID); dup {
			return nil, fmt.Errorf("parsing %q: duplicate ability id %d", path, a.ID)
		}
		reg.Register(a)
	}
	return reg, nil
}
