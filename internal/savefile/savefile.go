// Package savefile serializes a grid and the units standing on it as an
// ordered msgpack stream: the cell counts, every cell in arena order, then
// the unit count and every unit in registration order. Reading consumes
// fields in exactly the order they were written.
package savefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/hex"
)

// Version is written first in every stream.
const Version = 1

// ErrVersion is returned when a stream was written by an unknown format version.
var ErrVersion = errors.New("unsupported save version")

// ErrUnsupportedUnit is returned when a grid holds a unit type the format
// cannot describe.
var ErrUnsupportedUnit = errors.New("unsupported unit type")

// Write encodes g and its units to w.
//
// Postcondition: on success Read of the written bytes yields a grid with the
// same cells, connectivity and units.
func Write(w io.Writer, g *grid.Grid) error {
	sw := &writer{enc: msgpack.NewEncoder(w)}
	sw.int(Version)
	sw.int(g.Width())
	sw.int(g.Height())
	for _, c := range g.Cells() {
		writeCell(sw, c)
	}
	units := g.Units()
	sw.int(len(units))
	for _, u := range units {
		if err := writeUnit(sw, g, u); err != nil {
			return fmt.Errorf("savefile.Write: %w", err)
		}
	}
	if sw.err != nil {
		return fmt.Errorf("savefile.Write: %w", sw.err)
	}
	return nil
}

// Read decodes a stream produced by Write into a fresh grid publishing on
// events.
func Read(r io.Reader, events *event.Bus) (*grid.Grid, error) {
	sr := &reader{dec: msgpack.NewDecoder(r)}
	if v := sr.int(); sr.err == nil && v != Version {
		return nil, fmt.Errorf("savefile.Read: version %d: %w", v, ErrVersion)
	}
	width, height := sr.int(), sr.int()
	if sr.err != nil {
		return nil, fmt.Errorf("savefile.Read: header: %w", sr.err)
	}
	g := grid.New(events)
	if err := g.CreateMap(width, height, false, false); err != nil {
		return nil, fmt.Errorf("savefile.Read: %w", err)
	}
	cells := g.Cells()
	for _, c := range cells {
		readCell(sr, g, c)
	}
	n := sr.int()
	for i := 0; i < n && sr.err == nil; i++ {
		if err := readUnit(sr, g); err != nil {
			return nil, fmt.Errorf("savefile.Read: unit %d: %w", i, err)
		}
	}
	if sr.err != nil {
		return nil, fmt.Errorf("savefile.Read: %w", sr.err)
	}
	return g, nil
}

// Marshal is Write into a byte slice.
func Marshal(g *grid.Grid) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal is Read from a byte slice.
func Unmarshal(data []byte, events *event.Bus) (*grid.Grid, error) {
	return Read(bytes.NewReader(data), events)
}

func writeCell(w *writer, c *grid.Cell) {
	w.bool(c.Traversable)
	w.int(int(c.Spawn))
	w.bool(c.Land)
	w.bool(c.Harbor)
	w.int(c.EnterModifier)
	w.int(c.Bitmask)
	for _, d := range hex.Directions {
		w.bool(c.Connected(d))
	}
}

func readCell(r *reader, g *grid.Grid, c *grid.Cell) {
	c.Traversable = r.bool()
	c.Spawn = grid.SpawnType(r.int())
	c.Land = r.bool()
	c.Harbor = r.bool()
	c.EnterModifier = r.int()
	c.Bitmask = r.int()
	for _, d := range hex.Directions {
		if r.bool() {
			g.OverrideConnection(c, d, true)
		}
	}
}

// writer and reader carry the first error so field sequences stay flat.
type writer struct {
	enc *msgpack.Encoder
	err error
}

func (w *writer) int(v int) {
	if w.err == nil {
		w.err = w.enc.EncodeInt(int64(v))
	}
}

func (w *writer) bool(v bool) {
	if w.err == nil {
		w.err = w.enc.EncodeBool(v)
	}
}

func (w *writer) string(v string) {
	if w.err == nil {
		w.err = w.enc.EncodeString(v)
	}
}

func (w *writer) ints(vs []int) {
	w.int(len(vs))
	for _, v := range vs {
		w.int(v)
	}
}

type reader struct {
	dec *msgpack.Decoder
	err error
}

func (r *reader) int() int {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.DecodeInt()
	r.err = err
	return v
}

func (r *reader) bool() bool {
	if r.err != nil {
		return false
	}
	v, err := r.dec.DecodeBool()
	r.err = err
	return v
}

func (r *reader) string() string {
	if r.err != nil {
		return ""
	}
	v, err := r.dec.DecodeString()
	r.err = err
	return v
}

// maxList bounds decoded list lengths so a corrupt stream cannot force a
// huge allocation.
const maxList = 1 << 16

func (r *reader) ints() []int {
	n := r.int()
	if r.err == nil && (n < 0 || n > maxList) {
		r.err = fmt.Errorf("list length %d out of range", n)
	}
	if r.err != nil {
		return nil
	}
	out := make([]int, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		out = append(out, r.int())
	}
	return out
}
