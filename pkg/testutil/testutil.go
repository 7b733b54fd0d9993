// Package testutil provides shared fixtures for package tests: an in-memory
// store, a registered business and logged-in sessions.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zaveorah/zaveorah-core/internal/auth"
	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/internal/storage"
	"github.com/zaveorah/zaveorah-core/internal/store"
	"github.com/zaveorah/zaveorah-core/pkg/clock"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
)

// Fixture credentials shared across tests.
const (
	OwnerPassword = "hunter22"
	DataKey       = "zaveorah_multibiz_data_test"
)

// NewKV opens an in-memory sqlite key-value store, closed on cleanup.
func NewKV(t *testing.T) *storage.KV {
	t.Helper()
	kv, err := storage.Open(":memory:", logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

// NewStore opens a fresh store over an in-memory key-value store.
func NewStore(t *testing.T, clk clock.Clock) *store.Store {
	t.Helper()
	st, err := store.Open(NewKV(t), DataKey, clk, logger.NewNop())
	require.NoError(t, err)
	return st
}

// RegisterBusiness registers a business with one owner and returns its id.
func RegisterBusiness(t *testing.T, st *store.Store, name string) string {
	t.Helper()
	businessID, err := st.RegisterBusiness(name, "Ama", OwnerPassword, "ama@example.com", "+233200000001")
	require.NoError(t, err)
	return businessID
}

// Owner returns the owner user of a registered business.
func Owner(t *testing.T, st *store.Store, businessID string) domain.User {
	t.Helper()
	for _, u := range st.UsersForBusiness(businessID) {
		if u.Role == domain.RoleOwner {
			return u
		}
	}
	t.Fatalf("business %s has no owner user", businessID)
	return domain.User{}
}

// LoginOwner signs the business owner in and returns the manager.
func LoginOwner(t *testing.T, st *store.Store, clk clock.Clock, businessID string) *auth.Manager {
	t.Helper()
	manager := auth.NewManager(st, clk, nil, logger.NewNop())
	owner := Owner(t, st, businessID)
	require.True(t, manager.Login(businessID, owner.ID, OwnerPassword))
	return manager
}
