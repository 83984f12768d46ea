// Package main applies the SQL migrations that create the Postgres save
// tables.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/cory-johannsen/corsair/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// options are the parsed command line.
type options struct {
	configPath string
	dir        string
	command    string
	steps      int
}

func parseArgs(args []string) (options, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	var o options
	fs.StringVar(&o.configPath, "config", "configs/dev.yaml", "path to configuration file")
	fs.StringVar(&o.dir, "path", "migrations", "directory holding the migration files")
	fs.IntVar(&o.steps, "steps", 0, "number of steps for up and down (0 = all)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	o.command = "up"
	if fs.NArg() > 0 {
		o.command = fs.Arg(0)
	}
	switch o.command {
	case "up", "down", "version":
	default:
		return options{}, fmt.Errorf("unknown command %q: want up, down or version", o.command)
	}
	if o.steps < 0 {
		return options{}, fmt.Errorf("steps must be >= 0, got %d", o.steps)
	}
	return o, nil
}

// databaseConfig reads only the database section; the saves backend may be
// something other than postgres.
func databaseConfig(path string) (config.DatabaseConfig, error) {
	v := config.NewViper(path)
	if err := v.ReadInConfig(); err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("reading config: %w", err)
	}
	var db config.DatabaseConfig
	if err := config.Section(v, "database", &db); err != nil {
		return config.DatabaseConfig{}, err
	}
	return db, nil
}

func run(args []string, out io.Writer) error {
	start := time.Now()
	o, err := parseArgs(args)
	if err != nil {
		return err
	}
	db, err := databaseConfig(o.configPath)
	if err != nil {
		return err
	}
	m, err := migrate.New("file://"+o.dir, db.DSN())
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	switch {
	case o.command == "up" && o.steps > 0:
		err = m.Steps(o.steps)
	case o.command == "up":
		err = m.Up()
	case o.command == "down" && o.steps > 0:
		err = m.Steps(-o.steps)
	case o.command == "down":
		err = m.Down()
	}
	noChange := errors.Is(err, migrate.ErrNoChange)
	if err != nil && !noChange {
		return fmt.Errorf("migrate %s: %w", o.command, err)
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintf(out, "%s: no migrations applied [%s]\n", db.Name, time.Since(start))
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading version: %w", err)
	}
	switch {
	case o.command == "version":
		fmt.Fprintf(out, "%s: version=%d dirty=%v\n", db.Name, version, dirty)
	case noChange:
		fmt.Fprintf(out, "%s: already at version=%d [%s]\n", db.Name, version, time.Since(start))
	default:
		fmt.Fprintf(out, "%s: migrated %s to version=%d dirty=%v [%s]\n", db.Name, o.command, version, dirty, time.Since(start))
	}
	return nil
}
