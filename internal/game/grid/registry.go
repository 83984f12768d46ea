package grid

import (
	"fmt"

	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/hex"
)

// Object is a stationary entity occupying a cell, such as a spawned healing
// still. Objects block movement like units do.
type Object struct {
	ID          string
	Kind        string
	OwnerID     string
	HealPerTurn int

	location CellID
}

// Location returns the cell the object stands on.
func (o *Object) Location() CellID { return o.location }

// AddUnit registers u and places it on at facing orientation.
//
// Precondition: at must be a free cell of this grid.
// Postcondition: u.Base().Location() == at.ID() and at.UnitID() == u's id.
func (g *Grid) AddUnit(u Unit, at *Cell, orientation hex.Direction) error {
	b := u.Base()
	if _, dup := g.units[b.id]; dup {
		return fmt.Errorf("grid.Grid.AddUnit: unit %q already registered", b.id)
	}
	if at == nil || g.Cell(at.id) != at {
		return fmt.Errorf("grid.Grid.AddUnit: unit %q: cell not on this grid", b.id)
	}
	if !at.Free() {
		return fmt.Errorf("grid.Grid.AddUnit: unit %q: cell %v is occupied", b.id, at.coord)
	}
	g.units[b.id] = u
	g.unitOrder = append(g.unitOrder, b.id)
	b.Orientation = orientation
	g.place(u, at)
	return nil
}

// MoveUnit relocates a registered unit to c.
//
// Precondition: u is registered and c is free.
// Postcondition: the previous cell no longer references u.
func (g *Grid) MoveUnit(u Unit, c *Cell) error {
	b := u.Base()
	if _, ok := g.units[b.id]; !ok {
		return fmt.Errorf("grid.Grid.MoveUnit: unit %q not registered", b.id)
	}
	if c == nil || g.Cell(c.id) != c {
		return fmt.Errorf("grid.Grid.MoveUnit: unit %q: cell not on this grid", b.id)
	}
	if c.id == b.location {
		return nil
	}
	if !c.Free() {
		return fmt.Errorf("grid.Grid.MoveUnit: unit %q: cell %v is occupied", b.id, c.coord)
	}
	g.place(u, c)
	return nil
}

func (g *Grid) place(u Unit, c *Cell) {
	b := u.Base()
	var from *hex.Coordinate
	if old := g.Cell(b.location); old != nil {
		if old.unit == b.id {
			old.unit = ""
		}
		coord := old.coord
		from = &coord
	}
	b.location = c.id
	c.unit = b.id
	g.events.Publish(event.UnitMoved, event.UnitMovedPayload{UnitID: b.id, From: from, To: c.coord})
}

// RemoveUnit unregisters u and clears its cell. died distinguishes death from
// a plain despawn for observers.
//
// Postcondition: u.Base().Location() == NoCell.
func (g *Grid) RemoveUnit(u Unit, died bool) {
	b := u.Base()
	if _, ok := g.units[b.id]; !ok {
		return
	}
	delete(g.units, b.id)
	for i, id := range g.unitOrder {
		if id == b.id {
			g.unitOrder = append(g.unitOrder[:i:i], g.unitOrder[i+1:]...)
			break
		}
	}
	var at hex.Coordinate
	if c := g.Cell(b.location); c != nil {
		if c.unit == b.id {
			c.unit = ""
		}
		at = c.coord
	}
	b.location = NoCell
	g.events.Publish(event.UnitRemoved, event.UnitRemovedPayload{UnitID: b.id, At: at, Died: died})
}

// Unit returns the registered unit with the given id.
func (g *Grid) Unit(id string) (Unit, bool) {
	u, ok := g.units[id]
	return u, ok
}

// UnitAt returns the unit standing on c, or nil.
func (g *Grid) UnitAt(c *Cell) Unit {
	if c == nil || c.unit == "" {
		return nil
	}
	return g.units[c.unit]
}

// LocationOf returns the cell u stands on, or nil.
func (g *Grid) LocationOf(u Unit) *Cell {
	return g.Cell(u.Base().location)
}

// Units returns the registered units in registration order.
func (g *Grid) Units() []Unit {
	out := make([]Unit, 0, len(g.unitOrder))
	for _, id := range g.unitOrder {
		out = append(out, g.units[id])
	}
	return out
}

// AddObject places o on at.
//
// Precondition: at must be free and o.ID unique.
func (g *Grid) AddObject(o *Object, at *Cell) error {
	if o.ID == "" {
		return fmt.Errorf("grid.Grid.AddObject: object id must not be empty")
	}
	if _, dup := g.objects[o.ID]; dup {
		return fmt.Errorf("grid.Grid.AddObject: object %q already placed", o.ID)
	}
	if at == nil || g.Cell(at.id) != at || !at.Free() {
		return fmt.Errorf("grid.Grid.AddObject: object %q: cell unavailable", o.ID)
	}
	o.location = at.id
	at.object = o.ID
	g.objects[o.ID] = o
	return nil
}

// RemoveObject deletes the object with the given id; unknown ids are ignored.
func (g *Grid) RemoveObject(id string) {
	o, ok := g.objects[id]
	if !ok {
		return
	}
	if c := g.Cell(o.location); c != nil && c.object == id {
		c.object = ""
	}
	o.location = NoCell
	delete(g.objects, id)
}

// ObjectAt returns the object on c, or nil.
func (g *Grid) ObjectAt(c *Cell) *Object {
	if c == nil || c.object == "" {
		return nil
	}
	return g.objects[c.object]
}

// Objects returns every placed object owned by ownerID, or all objects when
// ownerID is empty. Order is by cell id.
func (g *Grid) Objects(ownerID string) []*Object {
	var out []*Object
	for i := range g.cells {
		if id := g.cells[i].object; id != "" {
			o := g.objects[id]
			if ownerID == "" || o.OwnerID == ownerID {
				out = append(out, o)
			}
		}
	}
	return out
}
