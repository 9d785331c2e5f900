package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/khoahotran/profile-hub/adapters/persistence"
	"github.com/khoahotran/profile-hub/internal/config"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

func main() {
	steps := flag.Int("steps", 1, "number of migrations to roll back with 'down'")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-steps N] up|down\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewZapLogger("development").Fatal("Cannot load config", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	if cfg.DB.DSN == "" {
		appLogger.Fatal("DB_DSN is required", nil)
	}

	switch flag.Arg(0) {
	case "up":
		err = persistence.MigrateUp(cfg.DB.DSN, appLogger)
	case "down":
		err = persistence.MigrateDown(cfg.DB.DSN, *steps, appLogger)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		appLogger.Fatal("Migration failed", err)
	}
}
