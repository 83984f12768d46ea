package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	logLevels   = []string{"debug", "info", "warn", "error"}
	logFormats  = []string{"json", "console"}
	sslModes    = []string{"disable", "require", "verify-ca", "verify-full"}
	saveBackend = []string{"none", "postgres", "sqlite"}
)

// problems collects every violation found by one Validate call.
type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p *problems) oneOf(key, got string, allowed []string) {
	if !slices.Contains(allowed, got) {
		p.addf("%s must be one of [%s], got %q", key, strings.Join(allowed, ", "), got)
	}
}

func (p *problems) atLeast(key string, got, min int) {
	if got < min {
		p.addf("%s must be >= %d, got %d", key, min, got)
	}
}

func (p *problems) port(key string, got int) {
	if got < 1 || got > 65535 {
		p.addf("%s must be 1-65535, got %d", key, got)
	}
}

func (p *problems) unit(key string, got float64) {
	if got < 0 || got > 1 {
		p.addf("%s must be within [0,1], got %v", key, got)
	}
}

func (p *problems) nonEmpty(key, got string) {
	if got == "" {
		p.addf("%s must not be empty", key)
	}
}

// Validate checks every section. The database section is only checked for
// the postgres backend and the feed section only when the feed is enabled.
//
// Postcondition: Returns nil if configuration is valid, or one error
// listing every violation in section order.
func (c Config) Validate() error {
	var p problems

	p.oneOf("logging.level", c.Logging.Level, logLevels)
	p.oneOf("logging.format", c.Logging.Format, logFormats)

	p.oneOf("saves.backend", c.Saves.Backend, saveBackend)
	if c.Saves.Backend == "sqlite" {
		p.nonEmpty("saves.sqlite_path", c.Saves.SQLitePath)
	}
	if c.Saves.Backend == "postgres" {
		c.Database.validate(&p)
	}

	c.Map.validate(&p)
	c.Combat.validate(&p)
	c.Content.validate(&p)
	if c.Feed.Enabled {
		p.port("feed.port", c.Feed.Port)
		p.atLeast("feed.buffer", c.Feed.Buffer, 1)
	}

	if len(p) == 0 {
		return nil
	}
	return errors.New("configuration validation failed: " + strings.Join(p, "; "))
}

func (d DatabaseConfig) validate(p *problems) {
	p.nonEmpty("database.host", d.Host)
	p.port("database.port", d.Port)
	p.nonEmpty("database.user", d.User)
	p.nonEmpty("database.name", d.Name)
	p.oneOf("database.sslmode", d.SSLMode, sslModes)
	p.atLeast("database.max_conns", int(d.MaxConns), 1)
	p.atLeast("database.min_conns", int(d.MinConns), 0)
	if d.MinConns > d.MaxConns {
		p.addf("database.min_conns (%d) must not exceed database.max_conns (%d)", d.MinConns, d.MaxConns)
	}
}

func (m MapConfig) validate(p *problems) {
	if m.Width < 3 || m.Height < 3 {
		p.addf("map size must be at least 3x3, got %dx%d", m.Width, m.Height)
	}
	p.unit("map.land_threshold", m.LandThreshold)
	p.atLeast("map.octaves", m.Octaves, 1)
	if m.Frequency <= 0 {
		p.addf("map.frequency must be > 0, got %v", m.Frequency)
	}
	p.unit("map.harbor_chance", m.HarborChance)
}

func (c CombatConfig) validate(p *problems) {
	if c.BattleWidth < 5 || c.BattleHeight < 1 {
		p.addf("combat battle map must be at least 5x1, got %dx%d", c.BattleWidth, c.BattleHeight)
	}
	p.atLeast("combat.energy_regen", c.EnergyRegen, 0)
	p.atLeast("combat.down_turns", c.DownTurns, 1)
	p.atLeast("combat.log_limit", c.LogLimit, 1)
	p.atLeast("combat.max_rounds", c.MaxRounds, 0)
}

func (c ContentConfig) validate(p *problems) {
	p.nonEmpty("content.abilities_dir", c.AbilitiesDir)
	p.nonEmpty("content.crew_dir", c.CrewDir)
	p.nonEmpty("content.ai_dir", c.AIDir)
	p.nonEmpty("content.scripts_dir", c.ScriptsDir)
	p.atLeast("content.instruction_limit", c.InstructionLimit, 1)
}
