// main.go
//
// Entry point for the Qwixx table server.
// Loads config, picks the store (SQLite when DB_PATH is set, memory
// otherwise), seeds the dice roller, then serves HTTP.

package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwmickey/qwixx/internal/config"
	"github.com/jwmickey/qwixx/internal/dice"
	"github.com/jwmickey/qwixx/internal/httpserver"
	"github.com/jwmickey/qwixx/internal/store"
	"github.com/jwmickey/qwixx/internal/table"
)

func main() {
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	var (
		st    store.Store
		stats httpserver.Reporter
	)
	if cfg.DBPath != "" {
		db, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
		}
		defer db.Close()
		st, stats = db, db
	} else {
		log.Warn().Msg("DB_PATH not set; tables are kept in memory")
		st = store.NewMemoryStore()
	}

	seed := cfg.DiceSeed
	if seed == 0 {
		var err error
		if seed, err = dice.NewSeed(); err != nil {
			log.Fatal().Err(err).Msg("failed to seed dice")
		}
	}
	log.Debug().Int64("seed", seed).Msg("dice seeded")

	tables := table.NewManager(st, dice.NewSeededRoller(seed))
	srv := httpserver.New(cfg, tables, stats)
	log.Info().Str("port", cfg.Port).Msg("starting qwixx server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
