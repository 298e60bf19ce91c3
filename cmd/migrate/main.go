// Command migrate applies, inspects and rolls back the Quorum schema.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"quorum/internal/config"
	"quorum/internal/database"
)

const usageText = "usage: migrate [-timeout 2m] <up|auto|status|down <version>>"

var errUsage = errors.New(usageText)

type command struct {
	name    string
	version int
}

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "Abort the schema operation after this long")
	flag.Parse()

	cmd, err := parseCommand(flag.Args())
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cmd); err != nil {
		log.Fatal(err)
	}
}

func parseCommand(args []string) (command, error) {
	if len(args) < 1 {
		return command{}, errUsage
	}
	cmd := command{name: strings.ToLower(strings.TrimSpace(args[0]))}
	switch cmd.name {
	case "up", "auto", "status":
		return cmd, nil
	case "down":
		if len(args) < 2 {
			return command{}, fmt.Errorf("down needs a version: %w", errUsage)
		}
		version, err := strconv.Atoi(args[1])
		if err != nil || version <= 0 {
			return command{}, fmt.Errorf("invalid version %q: %w", args[1], errUsage)
		}
		cmd.version = version
		return cmd, nil
	default:
		return command{}, fmt.Errorf("unknown command %q: %w", cmd.name, errUsage)
	}
}

func run(ctx context.Context, cmd command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	switch cmd.name {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Println("automigrations applied")
	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("mode=%s env=%s run_sql=%t run_auto=%t", status.Mode, status.Environment, status.WillRunSQL, status.WillRunAutoMigrate)
		for _, v := range status.AppliedVersions {
			log.Printf("applied: %06d", v)
		}
		for _, m := range status.PendingMigrations {
			log.Printf("pending: %06d_%s", m.Version, m.Name)
		}
	case "down":
		if err := database.RollbackMigration(ctx, db, cmd.version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("rolled back migration %d", cmd.version)
	}

	return nil
}
