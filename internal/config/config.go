// Package config provides Viper-based configuration loading for the simulator.
package config

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection URL. User and password are
// percent-encoded.
//
// Precondition: Host, Port, User, and Name must be non-empty.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SavesConfig selects where save slots live.
type SavesConfig struct {
	// Backend is "postgres", "sqlite", or "none" to skip persistence.
	Backend string `mapstructure:"backend"`
	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path"`
}

// MapConfig holds campaign map generation settings.
type MapConfig struct {
	Width         int     `mapstructure:"width"`
	Height        int     `mapstructure:"height"`
	Seed          int64   `mapstructure:"seed"`
	LandThreshold float64 `mapstructure:"land_threshold"`
	Octaves       int     `mapstructure:"octaves"`
	Frequency     float64 `mapstructure:"frequency"`
	HarborChance  float64 `mapstructure:"harbor_chance"`
}

// CombatConfig holds battle settings.
type CombatConfig struct {
	BattleWidth  int `mapstructure:"battle_width"`
	BattleHeight int `mapstructure:"battle_height"`
	// EnergyRegen is the energy each character regains at the start of its
	// combat turn.
	EnergyRegen int `mapstructure:"energy_regen"`
	// DownTurns is how many of its own turns a downed character survives.
	DownTurns int `mapstructure:"down_turns"`
	LogLimit  int `mapstructure:"log_limit"`
	// MaxRounds ends a battle as a draw after this many rounds; 0 is unbounded.
	MaxRounds int `mapstructure:"max_rounds"`
}

// ContentConfig points at the YAML and Lua content directories.
type ContentConfig struct {
	AbilitiesDir string `mapstructure:"abilities_dir"`
	CrewDir      string `mapstructure:"crew_dir"`
	AIDir        string `mapstructure:"ai_dir"`
	ScriptsDir   string `mapstructure:"scripts_dir"`
	// InstructionLimit bounds the Lua opcodes a single hook call may run.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// FeedConfig holds observer feed settings.
type FeedConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	// Buffer is how many events a slow observer may lag behind before it is
	// dropped.
	Buffer int `mapstructure:"buffer"`
}

// Addr returns the "host:port" listen address.
func (f FeedConfig) Addr() string {
	return net.JoinHostPort(f.Host, strconv.Itoa(f.Port))
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Saves    SavesConfig    `mapstructure:"saves"`
	Map      MapConfig      `mapstructure:"map"`
	Combat   CombatConfig   `mapstructure:"combat"`
	Content  ContentConfig  `mapstructure:"content"`
	Feed     FeedConfig     `mapstructure:"feed"`
}
