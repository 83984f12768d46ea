// Package mapgen builds world and battle maps from layered simplex noise.
package mapgen

import (
	"errors"
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/cory-johannsen/corsair/internal/game/dice"
	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/grid"
	"github.com/cory-johannsen/corsair/internal/game/hex"
)

// Config holds world generation parameters.
type Config struct {
	Width         int
	Height        int
	Seed          int64
	LandThreshold float64 // elevation above which a cell is land (0.0–1.0)
	Octaves       int
	Frequency     float64
	HarborChance  float64 // chance a shore cell becomes a harbor (0.0–1.0)
}

// DefaultConfig returns a medium archipelago.
func DefaultConfig() Config {
	return Config{
		Width:         40,
		Height:        30,
		Seed:          1,
		LandThreshold: 0.5,
		Octaves:       4,
		Frequency:     0.12,
		HarborChance:  0.1,
	}
}

// Validate checks the generation parameters.
func (c Config) Validate() error {
	var errs []error
	if c.Width < 3 || c.Height < 3 {
		errs = append(errs, fmt.Errorf("map size %dx%d must be at least 3x3", c.Width, c.Height))
	}
	if c.LandThreshold < 0 || c.LandThreshold > 1 {
		errs = append(errs, fmt.Errorf("land_threshold %v must be within [0,1]", c.LandThreshold))
	}
	if c.Octaves < 1 {
		errs = append(errs, fmt.Errorf("octaves must be >= 1, got %d", c.Octaves))
	}
	if c.Frequency <= 0 {
		errs = append(errs, fmt.Errorf("frequency must be > 0, got %v", c.Frequency))
	}
	if c.HarborChance < 0 || c.HarborChance > 1 {
		errs = append(errs, fmt.Errorf("harbor_chance %v must be within [0,1]", c.HarborChance))
	}
	return errors.Join(errs...)
}

// World generates islands in an open sea. The map border is always ocean,
// harbors sit on shore cells, ocean cells next to a harbor are player spawn
// cells, and open water away from land is tagged for enemy ships.
//
// Postcondition: every shore cell's Bitmask is current and the same seed
// always yields the same map.
func World(events *event.Bus, cfg Config) (*grid.Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("mapgen.World: %w", err)
	}
	g, err := grid.NewMap(events, cfg.Width, cfg.Height, true)
	if err != nil {
		return nil, fmt.Errorf("mapgen.World: %w", err)
	}
	elev := opensimplex.NewNormalized(cfg.Seed)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			c := g.CellAtOffset(x, y)
			fx, fy := plane(x, y)
			e := octaveNoise(elev, fx, fy, cfg.Octaves, cfg.Frequency, 0.5)
			e *= falloff(fx, fy, cfg.Width, cfg.Height)
			border := x == 0 || y == 0 || x == cfg.Width-1 || y == cfg.Height-1
			c.Land = !border && e > cfg.LandThreshold
		}
	}
	g.RecalculateBitmasks()
	placeHarbors(g, dice.NewSeededSource(uint64(cfg.Seed)), cfg.HarborChance)
	tagSeaSpawns(g)
	return g, nil
}

// Battle generates a boarding battle: open deck with a few crates in the
// middle, the player's crew spawning on the two leftmost columns and the
// enemy on the two rightmost, enemy roles alternating by row.
func Battle(events *event.Bus, width, height int, seed int64) (*grid.Grid, error) {
	if width < 5 || height < 1 {
		return nil, fmt.Errorf("mapgen.Battle: %dx%d: %w", width, height, grid.ErrInvalidDimensions)
	}
	g, err := grid.NewMap(events, width, height, true)
	if err != nil {
		return nil, fmt.Errorf("mapgen.Battle: %w", err)
	}
	crates := opensimplex.NewNormalized(seed)
	roles := []grid.SpawnType{grid.SpawnMeleeEnemy, grid.SpawnRangedEnemy, grid.SpawnSupportEnemy, grid.SpawnAnyEnemy}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := g.CellAtOffset(x, y)
			switch {
			case x < 2:
				g.SetSpawn(c, grid.SpawnPlayer)
			case x >= width-2:
				g.SetSpawn(c, roles[y%len(roles)])
			default:
				fx, fy := plane(x, y)
				if crates.Eval2(fx*0.7, fy*0.7) > 0.78 {
					g.SetTraversable(c, false)
				}
			}
		}
	}
	g.RecalculateBitmasks()
	return g, nil
}

// plane maps an offset coordinate to the continuous plane so noise sampled
// there lines up with the hex layout.
func plane(x, y int) (float64, float64) {
	return float64(x) + 0.5*float64(y&1), float64(y) * math.Sqrt(3) / 2
}

// falloff shrinks elevation toward the map edge so islands stay offshore.
func falloff(fx, fy float64, width, height int) float64 {
	dx := fx/float64(width)*2 - 1
	dy := fy/(float64(height)*math.Sqrt(3)/2)*2 - 1
	d := math.Sqrt(dx*dx+dy*dy) / math.Sqrt2
	return max(0, 1-math.Pow(d, 3))
}

// octaveNoise layers octaves of noise, each at twice the frequency and
// persistence times the amplitude of the last.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total, amplitude, maxVal := 0.0, 1.0, 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

// placeHarbors flags shore cells as harbors with the given chance. At least
// one harbor is placed whenever the map has a shore.
func placeHarbors(g *grid.Grid, src dice.Source, chance float64) {
	var first *grid.Cell
	placed := false
	for _, c := range g.Cells() {
		if !c.Shore() || !touchesOcean(g, c) {
			continue
		}
		if first == nil {
			first = c
		}
		if float64(src.Intn(1000)) < chance*1000 {
			c.Harbor = true
			placed = true
		}
	}
	if !placed && first != nil {
		first.Harbor = true
	}
}

func tagSeaSpawns(g *grid.Grid) {
	for _, h := range g.Harbors() {
		for _, d := range hex.Directions {
			if n := g.Neighbor(h, d); n != nil && n.Ocean() {
				g.SetSpawn(n, grid.SpawnPlayer)
			}
		}
	}
	for _, c := range g.Cells() {
		if c.Ocean() && c.Spawn == grid.SpawnForbidden && openWater(g, c) {
			g.SetSpawn(c, grid.SpawnAnyEnemy)
		}
	}
}

func touchesOcean(g *grid.Grid, c *grid.Cell) bool {
	for _, d := range hex.Directions {
		if n := g.Neighbor(c, d); n != nil && n.Ocean() {
			return true
		}
	}
	return false
}

func openWater(g *grid.Grid, c *grid.Cell) bool {
	for _, d := range hex.Directions {
		n := g.Neighbor(c, d)
		if n == nil || n.Land {
			return false
		}
	}
	return true
}
