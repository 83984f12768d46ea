package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CORSAIR_MAP_SEED.
const EnvPrefix = "CORSAIR"

// NewViper returns a Viper instance reading path, with defaults registered
// and environment overrides enabled. Nested keys map to upper-case
// underscore-joined variables.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the YAML file at path over the defaults, applies CORSAIR_
// environment overrides and validates the result.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper decodes and validates the configuration held by v.
//
// Precondition: v must be non-nil.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.LoadFromViper: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Section decodes the single top-level key into out without validating
// the rest of the file. Tools that only need one section, such as the
// migration runner, use it.
func Section(v *viper.Viper, key string, out any) error {
	if err := v.UnmarshalKey(key, out); err != nil {
		return fmt.Errorf("config.Section %q: %w", key, err)
	}
	return nil
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "corsair")
	v.SetDefault("database.password", "corsair")
	v.SetDefault("database.name", "corsair")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("saves.backend", "sqlite")
	v.SetDefault("saves.sqlite_path", "corsair.db")

	v.SetDefault("map.width", 40)
	v.SetDefault("map.height", 30)
	v.SetDefault("map.seed", 1)
	v.SetDefault("map.land_threshold", 0.5)
	v.SetDefault("map.octaves", 4)
	v.SetDefault("map.frequency", 0.12)
	v.SetDefault("map.harbor_chance", 0.1)

	v.SetDefault("combat.battle_width", 12)
	v.SetDefault("combat.battle_height", 9)
	v.SetDefault("combat.energy_regen", 10)
	v.SetDefault("combat.down_turns", 3)
	v.SetDefault("combat.log_limit", 6)
	v.SetDefault("combat.max_rounds", 60)

	v.SetDefault("content.abilities_dir", "content/abilities")
	v.SetDefault("content.crew_dir", "content/crew")
	v.SetDefault("content.ai_dir", "content/ai")
	v.SetDefault("content.scripts_dir", "content/scripts/ai")
	v.SetDefault("content.instruction_limit", 100000)

	v.SetDefault("feed.enabled", false)
	v.SetDefault("feed.host", "127.0.0.1")
	v.SetDefault("feed.port", 7070)
	v.SetDefault("feed.buffer", 256)
}
