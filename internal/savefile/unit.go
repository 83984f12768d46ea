package savefile

import (
	"fmt"

	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/hex"
	"github.com/cory-johannsen/corsair/internal/game/ship"
	"github.com/cory-johannsen/corsair/internal/game/stats"
)

// Unit kinds.
const (
	kindCharacter = "character"
	kindShip      = "ship"
)

func writeUnit(w *writer, g *grid.Grid, u grid.Unit) error {
	switch v := u.(type) {
	case *character.Character:
		w.string(kindCharacter)
		writeBase(w, &v.UnitBase)
		writeCharacter(w, v)
	case *ship.Ship:
		w.string(kindShip)
		writeBase(w, &v.UnitBase)
		writeShip(w, v)
	default:
		return fmt.Errorf("%T: %w", u, ErrUnsupportedUnit)
	}
	return nil
}

func readUnit(r *reader, g *grid.Grid) error {
	kind := r.string()
	b := readBase(r)
	var u grid.Unit
	switch kind {
	case kindCharacter:
		u = readCharacter(r, b)
	case kindShip:
		u = readShip(r, b)
	default:
		if r.err != nil {
			return r.err
		}
		return fmt.Errorf("kind %q: %w", kind, ErrUnsupportedUnit)
	}
	if r.err != nil {
		return r.err
	}
	at := g.Cell(b.location)
	if at == nil {
		return fmt.Errorf("unit %q: cell %d not on grid", b.id, b.location)
	}
	restore(u.Base(), b)
	return g.AddUnit(u, at, b.orientation)
}

// base is the decoded grid.UnitBase state.
type base struct {
	id               string
	playerControlled bool
	team             grid.Team
	location         grid.CellID
	orientation      hex.Direction
	remaining        int
	defaultMovement  int
	landCost         int
	oceanCost        int
	vision           int
	defaultVision    int
}

func writeBase(w *writer, b *grid.UnitBase) {
	w.string(b.ID())
	w.bool(b.PlayerControlled)
	w.int(int(b.Team))
	w.int(int(b.Location()))
	w.int(int(b.Orientation))
	w.int(b.RemainingMovement)
	w.int(b.DefaultMovement)
	w.int(b.LandCost)
	w.int(b.OceanCost)
	w.int(b.VisionRange)
	w.int(b.DefaultVisionRange)
}

func readBase(r *reader) base {
	return base{
		id:               r.string(),
		playerControlled: r.bool(),
		team:             grid.Team(r.int()),
		location:         grid.CellID(r.int()),
		orientation:      hex.Direction(r.int()),
		remaining:        r.int(),
		defaultMovement:  r.int(),
		landCost:         r.int(),
		oceanCost:        r.int(),
		vision:           r.int(),
		defaultVision:    r.int(),
	}
}

func restore(u *grid.UnitBase, b base) {
	u.Team = b.team
	u.RemainingMovement = b.remaining
	u.DefaultMovement = b.defaultMovement
	u.LandCost = b.landCost
	u.OceanCost = b.oceanCost
	u.VisionRange = b.vision
	u.DefaultVisionRange = b.defaultVision
}

func writeCharacter(w *writer, c *character.Character) {
	w.string(c.Name())
	w.string(c.Role)
	w.string(c.Domain)
	for _, res := range stats.Resources {
		p := c.Pool(res)
		w.int(p.Max())
		w.int(p.Current())
	}
	for _, a := range stats.Attributes {
		w.int(c.BaseAttribute(a))
	}
	w.ints(c.Abilities())
}

// readCharacter decodes the fields after the base; the character's own
// UnitBase is restored by the caller.
func readCharacter(r *reader, b base) *character.Character {
	name, role, domain := r.string(), r.string(), r.string()
	maxes := make(map[stats.Resource]int, len(stats.Resources))
	current := make(map[stats.Resource]int, len(stats.Resources))
	for _, res := range stats.Resources {
		maxes[res] = r.int()
		current[res] = r.int()
	}
	attrs := make(map[stats.Attribute]int, len(stats.Attributes))
	for _, a := range stats.Attributes {
		attrs[a] = r.int()
	}
	abilities := r.ints()
	if r.err != nil {
		return nil
	}
	if name == "" {
		r.err = fmt.Errorf("character %q: empty name", b.id)
		return nil
	}
	c := character.NewWithID(b.id, name, b.playerControlled, maxes, attrs, abilities)
	for res, v := range current {
		c.Pool(res).Set(v)
	}
	c.Role = role
	c.Domain = domain
	return c
}

func writeShip(w *writer, s *ship.Ship) {
	w.string(s.Name)
	w.int(s.Hull.Max())
	w.int(s.Hull.Current())
	members := s.Crew.Members()
	w.int(len(members))
	for _, m := range members {
		w.string(m.ID())
		w.bool(m.PlayerControlled)
		w.int(int(m.Team))
		w.int(m.DefaultMovement)
		writeCharacter(w, m)
		w.int(int(s.Crew.JobOf(m)))
	}
}

func readShip(r *reader, b base) *ship.Ship {
	name := r.string()
	hullMax, hull := r.int(), r.int()
	n := r.int()
	if r.err == nil && (n < 0 || n > maxList) {
		r.err = fmt.Errorf("ship %q: crew size %d out of range", b.id, n)
	}
	if r.err != nil {
		return nil
	}
	if name == "" {
		r.err = fmt.Errorf("ship %q: empty name", b.id)
		return nil
	}
	s := &ship.Ship{
		UnitBase: grid.NewUnitBaseWithID(b.id, b.playerControlled),
		Name:     name,
		Hull:     stats.NewPool(hullMax),
		Crew:     ship.NewCrew(),
	}
	s.Hull.Set(hull)
	for i := 0; i < n && r.err == nil; i++ {
		mb := base{id: r.string(), playerControlled: r.bool(), team: grid.Team(r.int())}
		movement := r.int()
		m := readCharacter(r, mb)
		job := ship.Job(r.int())
		if r.err != nil {
			return nil
		}
		m.Team = mb.team
		m.DefaultMovement = movement
		m.RemainingMovement = movement
		s.Crew.Add(m)
		if err := s.Crew.AssignJob(m, job); err != nil {
			r.err = err
			return nil
		}
	}
	return s
}
