package ship

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cory-johannsen/corsair/internal/game/character"
	"github.com/cory-johannsen/corsair/internal/game/stats"
)

// Job is a post aboard ship.
type Job int

const (
	Helm Job = iota
	Sail
	Spotter
	Clean
	Shanty
	Cook
	Surgeon
	Shipwright
	Cannons
	Brig
	None
)

const jobCount = int(None)

var jobNames = [...]string{"helm", "sail", "spotter", "clean", "shanty", "cook", "surgeon", "shipwright", "cannons", "brig", "none"}

func (j Job) String() string {
	if j < 0 || j > None {
		return fmt.Sprintf("job(%d)", int(j))
	}
	return jobNames[j]
}

// ParseJob resolves a job name; the empty string is None.
func ParseJob(s string) (Job, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, nil
	}
	for i, n := range jobNames {
		if n == s {
			return Job(i), nil
		}
	}
	return None, fmt.Errorf("ship.ParseJob: unknown job %q", s)
}

// Params tunes the crew simulation.
type Params struct {
	SailMovement     int
	SpotterVision    int
	CleanHygiene     int
	ShantyLoyalty    int
	ShipwrightRepair int
	HungerDecay      int
	HygieneDecay     int
}

// DefaultParams are the standard job effects on 100-point wellbeing pools.
var DefaultParams = Params{
	SailMovement:     1,
	SpotterVision:    2,
	CleanHygiene:     10,
	ShantyLoyalty:    10,
	ShipwrightRepair: 5,
	HungerDecay:      5,
	HygieneDecay:     5,
}

// Crew is a ship's roster and its job board.
//
// Invariant: each post holds at most one member and each member holds at
// most one post.
type Crew struct {
	members []*character.Character
	posts   [jobCount]*character.Character
	Params  Params
}

// NewCrew returns an empty crew with DefaultParams.
func NewCrew() *Crew {
	return &Crew{Params: DefaultParams}
}

// Add enlists c without a post. Members already enlisted are ignored.
func (cr *Crew) Add(c *character.Character) {
	if cr.index(c.ID()) < 0 {
		cr.members = append(cr.members, c)
	}
}

// Remove discharges the member with id, vacating its post.
func (cr *Crew) Remove(id string) bool {
	i := cr.index(id)
	if i < 0 {
		return false
	}
	cr.Unassign(cr.members[i])
	cr.members = slices.Delete(cr.members, i, i+1)
	return true
}

// Members returns the roster in enlistment order.
func (cr *Crew) Members() []*character.Character { return slices.Clone(cr.members) }

// Len returns the roster size.
func (cr *Crew) Len() int { return len(cr.members) }

// Alive returns the members that have not died.
func (cr *Crew) Alive() []*character.Character {
	var out []*character.Character
	for _, m := range cr.members {
		if !m.Dead() {
			out = append(out, m)
		}
	}
	return out
}

// AssignJob moves c to job. Whoever held the post is left without one.
// Assigning None is Unassign.
func (cr *Crew) AssignJob(c *character.Character, job Job) error {
	if cr.index(c.ID()) < 0 {
		return fmt.Errorf("ship.Crew.AssignJob: %s is not in the crew", c.Name())
	}
	if job == None {
		cr.Unassign(c)
		return nil
	}
	if job < 0 || job > None {
		return fmt.Errorf("ship.Crew.AssignJob: invalid job %d", int(job))
	}
	cr.Unassign(c)
	cr.posts[job] = c
	return nil
}

// Unassign vacates c's post, if any.
func (cr *Crew) Unassign(c *character.Character) {
	for j, holder := range cr.posts {
		if holder == c {
			cr.posts[j] = nil
		}
	}
}

// JobOf returns c's post, or None.
func (cr *Crew) JobOf(c *character.Character) Job {
	for j, holder := range cr.posts {
		if holder == c {
			return Job(j)
		}
	}
	return None
}

// Holder returns the member on post job, or nil.
func (cr *Crew) Holder(job Job) *character.Character {
	if job < 0 || job >= None {
		return nil
	}
	return cr.posts[job]
}

// Unassigned returns members without a post.
func (cr *Crew) Unassigned() []*character.Character {
	var out []*character.Character
	for _, m := range cr.members {
		if cr.JobOf(m) == None {
			out = append(out, m)
		}
	}
	return out
}

// Simulate advances the crew by one map turn: wellbeing decays, then every
// filled post acts on s in job order.
func (cr *Crew) Simulate(s *Ship) {
	for _, m := range cr.members {
		m.Pool(stats.Hunger).Add(-cr.Params.HungerDecay)
		m.Pool(stats.Hygiene).Add(-cr.Params.HygieneDecay)
	}
	for j := Helm; j < None; j++ {
		cr.simulateJob(s, j, cr.posts[j] != nil && !cr.posts[j].Dead())
	}
}

func (cr *Crew) simulateJob(s *Ship, job Job, filled bool) {
	switch job {
	case Helm:
		if filled {
			s.RemainingMovement = s.DefaultMovement
		} else {
			s.RemainingMovement = 0
		}
	case Sail:
		if filled {
			s.RemainingMovement += cr.Params.SailMovement
		}
	case Spotter:
		s.VisionRange = s.DefaultVisionRange
		if filled {
			s.VisionRange += cr.Params.SpotterVision
		}
	case Clean:
		if filled {
			cr.each(func(m *character.Character) { m.Pool(stats.Hygiene).Add(cr.Params.CleanHygiene) })
		}
	case Shanty:
		if filled {
			cr.each(func(m *character.Character) { m.Pool(stats.Loyalty).Add(cr.Params.ShantyLoyalty) })
		}
	case Shipwright:
		if filled {
			s.Hull.Add(cr.Params.ShipwrightRepair)
		}
	}
}

func (cr *Crew) each(f func(*character.Character)) {
	for _, m := range cr.members {
		f(m)
	}
}

func (cr *Crew) index(id string) int {
	for i, m := range cr.members {
		if m.ID() == id {
			return i
		}
	}
	return -1
}
