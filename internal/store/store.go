// Package store holds the canonical multi-tenant dataset and is the only
// code path allowed to mutate it. Every mutation goes through a scoped
// update primitive and is flushed to storage before it returns.
package store

import (
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/internal/storage"
	"github.com/zaveorah/zaveorah-core/pkg/clock"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
)

// dataset is the persisted root: the tenant list plus one BusinessData per
// tenant id.
type dataset struct {
	Businesses []domain.Business               `json:"businesses"`
	Data       map[string]*domain.BusinessData `json:"data"`
}

func emptyDataset() dataset {
	return dataset{
		Businesses: []domain.Business{},
		Data:       map[string]*domain.BusinessData{},
	}
}

// Store is the multi-tenant store.
type Store struct {
	mu      sync.Mutex
	kv      *storage.KV
	dataKey string
	clock   clock.Clock
	logger  *logger.Logger

	data      dataset
	recovered bool
}

// Open loads the dataset from storage. A corrupt payload is backed up under
// a timestamped key and replaced with a fresh empty dataset; corruption is
// reported through RecoveredFromCorruption, never as an error. Only a
// failing storage read is an error.
func Open(kv *storage.KV, dataKey string, clk clock.Clock, log *logger.Logger) (*Store, error) {
	s := &Store{
		kv:      kv,
		dataKey: dataKey,
		clock:   clk,
		logger:  log.WithComponent("store"),
	}

	raw, found, err := kv.Get(dataKey)
	if err != nil {
		return nil, err
	}
	if !found {
		s.data = emptyDataset()
		return s, nil
	}

	ds, err := decodeDataset([]byte(raw))
	if err != nil {
		s.logger.Error().Err(err).Msg("persisted data unreadable, backing up and starting fresh")
		s.backupCorrupt(raw)
		s.data = emptyDataset()
		s.recovered = true
		return s, nil
	}

	s.data = migrateDataset(ds, s.clock.Now())
	return s, nil
}

// RecoveredFromCorruption reports whether the last load had to reset the
// dataset. The presentation layer surfaces this as a one-time warning.
func (s *Store) RecoveredFromCorruption() bool {
	return s.recovered
}

func (s *Store) backupCorrupt(raw string) {
	backupKey := s.dataKey + "_backup_" + s.clock.Now().UTC().Format(time.RFC3339)
	if err := s.kv.Set(backupKey, raw); err != nil {
		s.logger.Error().Err(err).Msg("failed to back up corrupt data")
		return
	}
	s.logger.Warn().Str("backup_key", backupKey).Msg("corrupt data backed up")
}

// save serializes the full dataset. A write failure is logged, not fatal:
// the in-memory state stays authoritative for the session.
// Callers hold s.mu.
func (s *Store) save() {
	payload, err := json.Marshal(s.data)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to serialize dataset")
		return
	}
	if err := s.kv.Set(s.dataKey, string(payload)); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist dataset")
	}
}

// Update applies fn to the named business's data and persists. It is the
// sole mutation primitive for tenant data. Returns false without touching
// anything when businessID is empty or unknown, which guards accidental
// writes before login and in admin mode.
func (s *Store) Update(businessID string, fn func(*domain.BusinessData)) bool {
	if businessID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.data.Data[businessID]
	if !ok {
		return false
	}
	next := current.Clone()
	fn(next)
	s.data.Data[businessID] = next
	s.save()
	return true
}

// UpdateBusiness applies fn to the tenant record itself (subscription
// fields) and persists. Same no-op discipline as Update.
func (s *Store) UpdateBusiness(businessID string, fn func(*domain.Business)) bool {
	if businessID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Businesses {
		if s.data.Businesses[i].ID == businessID {
			next := domain.CloneBusiness(&s.data.Businesses[i])
			fn(next)
			s.data.Businesses[i] = *next
			s.save()
			return true
		}
	}
	return false
}

// Businesses returns a copy of all tenant records.
func (s *Store) Businesses() []domain.Business {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Business, len(s.data.Businesses))
	for i := range s.data.Businesses {
		out[i] = *domain.CloneBusiness(&s.data.Businesses[i])
	}
	return out
}

// Business returns a copy of one tenant record, or nil.
func (s *Store) Business(businessID string) *domain.Business {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Businesses {
		if s.data.Businesses[i].ID == businessID {
			return domain.CloneBusiness(&s.data.Businesses[i])
		}
	}
	return nil
}

// BusinessData returns a deep copy of one tenant's data, or nil. The read
// surface is copies only; writes go through Update.
func (s *Store) BusinessData(businessID string) *domain.BusinessData {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.Data[businessID].Clone()
}

// UsersForBusiness returns a copy of one tenant's user list, or nil when
// the business is unknown.
func (s *Store) UsersForBusiness(businessID string) []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.data.Data[businessID]
	if !ok {
		return nil
	}
	return append([]domain.User(nil), d.Users...)
}

// RegisterBusiness creates a tenant with subscription status none, exactly
// one owner user and one business profile, and returns the new business id.
func (s *Store) RegisterBusiness(businessName, ownerName, ownerPassword, ownerEmail, ownerPhone string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(ownerPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	businessID := domain.NewID("biz")
	owner := domain.User{
		ID:           domain.NewID("user"),
		Name:         ownerName,
		PasswordHash: string(hash),
		Role:         domain.RoleOwner,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Businesses = append(s.data.Businesses, domain.Business{
		ID:                 businessID,
		Name:               businessName,
		OwnerEmail:         ownerEmail,
		OwnerPhone:         ownerPhone,
		SubscriptionStatus: domain.SubscriptionNone,
	})
	s.data.Data[businessID] = domain.NewBusinessData(businessName, owner)
	s.save()

	s.logger.Info().Str("business_id", businessID).Str("name", businessName).Msg("business registered")
	return businessID, nil
}

// ExportAll returns the serialized dataset, the same payload that is
// persisted.
func (s *Store) ExportAll() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(s.data)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// WipeAll irreversibly resets the store to empty and persists.
func (s *Store) WipeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = emptyDataset()
	s.save()
	s.logger.Warn().Msg("all data wiped")
}
