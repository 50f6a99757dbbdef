package main

import (
	"os"
	"strconv"

	"clinic-portal/cmd/bootstrap"
	"clinic-portal/config"
	"clinic-portal/internal/infrastructure/database"
)

// Usage: migrate [up | down [steps] | force <version> | version]
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootstrap.NewLogger("info").Fatalf("Failed to load config: %v", err)
	}
	log := bootstrap.NewLogger(cfg.App.LogLevel)

	migrator, err := database.NewMigrator(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to prepare migrations: %v", err)
	}
	defer migrator.Close()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		err = migrator.Up()
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			if steps, err = strconv.Atoi(os.Args[2]); err != nil || steps < 1 {
				log.Fatalf("Invalid step count %q", os.Args[2])
			}
		}
		err = migrator.Down(steps)
	case "force":
		if len(os.Args) < 3 {
			log.Fatal("force requires a version")
		}
		version, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			log.Fatalf("Invalid version: %v", convErr)
		}
		err = migrator.Force(version)
	case "version":
	default:
		log.Fatalf("Unknown command %q", command)
	}
	if err != nil {
		log.Fatalf("Migration %s failed: %v", command, err)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		log.Fatalf("Failed to read schema version: %v", err)
	}
	log.WithField("dirty", dirty).Infof("Schema at version %d", version)
}
