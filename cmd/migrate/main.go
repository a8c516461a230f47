package main

import (
	"errors"
	"flag"
	"os"

	"finance/internal/config"
	"finance/internal/db"
	"finance/internal/logging"

	"github.com/golang-migrate/migrate/v4"
)

func main() {
	steps := flag.Int("steps", 0, "apply N migrations (negative rolls back); 0 applies all")
	flag.Parse()
	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	m, err := db.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to prepare migrations")
	}
	defer m.Close()

	switch command {
	case "up":
		if *steps != 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps != 0 {
			err = m.Steps(-abs(*steps))
		} else {
			err = m.Down()
		}
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			logger.WithError(verr).Fatal("failed to read version")
		}
		logger.WithField("version", version).WithField("dirty", dirty).Info("schema version")
		return
	default:
		logger.WithField("command", command).Error("unknown command, expected up, down or version")
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.WithError(err).Fatal("migration failed")
	}
	version, _, _ := m.Version()
	logger.WithField("version", version).Info("migrations applied")
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
