// Package app wires the whole core together: storage, store, session and
// the Action API services, ready for a presentation layer to embed.
package app

import (
	"crypto/subtle"

	"github.com/zaveorah/zaveorah-core/internal/admin"
	"github.com/zaveorah/zaveorah-core/internal/auth"
	"github.com/zaveorah/zaveorah-core/internal/contacts"
	"github.com/zaveorah/zaveorah-core/internal/finance"
	"github.com/zaveorah/zaveorah-core/internal/notify"
	"github.com/zaveorah/zaveorah-core/internal/prefs"
	"github.com/zaveorah/zaveorah-core/internal/sales"
	"github.com/zaveorah/zaveorah-core/internal/staff"
	"github.com/zaveorah/zaveorah-core/internal/storage"
	"github.com/zaveorah/zaveorah-core/internal/store"
	"github.com/zaveorah/zaveorah-core/internal/subscription"
	"github.com/zaveorah/zaveorah-core/internal/user"
	"github.com/zaveorah/zaveorah-core/pkg/clock"
	"github.com/zaveorah/zaveorah-core/pkg/config"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
)

// App is the assembled core.
type App struct {
	Config *config.Config
	Store  *store.Store
	Auth   *auth.Manager

	Subscription *subscription.Service
	Sales        *sales.Service
	Staff        *staff.Service
	Users        *user.Service
	Finance      *finance.Service
	Contacts     *contacts.Service
	Admin        *admin.Service
	Prefs        *prefs.Service

	kv     *storage.KV
	logger *logger.Logger
}

// New opens storage and builds every service against a shared session.
func New(cfg *config.Config, clk clock.Clock, log *logger.Logger) (*App, error) {
	kv, err := storage.Open(cfg.Storage.Path, log)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(kv, cfg.Storage.DataKey, clk, log)
	if err != nil {
		kv.Close()
		return nil, err
	}

	tokens := auth.NewTokenIssuer(&cfg.Session)
	manager := auth.NewManager(st, clk, tokens, log)
	session := manager.Session()
	publisher := notify.NewLogPublisher(log)

	return &App{
		Config:       cfg,
		Store:        st,
		Auth:         manager,
		Subscription: subscription.NewService(st, session, clk, publisher, log),
		Sales:        sales.NewService(st, session, clk, log),
		Staff:        staff.NewService(st, session, clk, log),
		Users:        user.NewService(st, session, log),
		Finance:      finance.NewService(st, session, clk, log),
		Contacts:     contacts.NewService(st, session, log),
		Admin:        admin.NewService(st, session, log),
		Prefs:        prefs.NewService(kv, log),
		kv:           kv,
		logger:       log.WithComponent("app"),
	}, nil
}

// AdminLogin establishes the super-admin session after checking the
// out-of-band secret. An unset secret disables admin mode entirely.
func (a *App) AdminLogin(secret string) bool {
	configured := a.Config.App.AdminSecret
	if configured == "" {
		a.logger.Warn().Msg("admin login attempted with no admin secret configured")
		return false
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(configured)) != 1 {
		a.logger.Warn().Msg("admin login failed")
		return false
	}
	return a.Auth.AdminLogin()
}

// Close releases the underlying storage.
func (a *App) Close() error {
	return a.kv.Close()
}
