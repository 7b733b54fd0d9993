package main

import (
	"fmt"
	"os"

	"github.com/zaveorah/zaveorah-core/internal/app"
	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/pkg/clock"
	"github.com/zaveorah/zaveorah-core/pkg/config"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation("zaveorah")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.App.Name, cfg.App.Environment)
	log.Info().Msg("starting ZaveOrah core")

	// Assemble the core
	a, err := app.New(cfg, clock.System(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open data store")
	}
	defer a.Close()

	if a.Store.RecoveredFromCorruption() {
		log.Warn().Msg("persisted data was corrupt; a backup was kept and a fresh store created")
	}

	businesses := a.Store.Businesses()
	pending := 0
	for _, b := range businesses {
		if b.SubscriptionStatus == domain.SubscriptionPending {
			pending++
		}
	}
	log.Info().
		Int("businesses", len(businesses)).
		Int("pending_approvals", pending).
		Str("storage_path", cfg.Storage.Path).
		Msg("data store ready")
}
