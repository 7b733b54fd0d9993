package store

import (
	"encoding/json"
	"time"

	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/pkg/errors"
)

// persistedEnvelope mirrors dataset with pointer fields so a payload missing
// either required top-level field is detectable after decoding.
type persistedEnvelope struct {
	Businesses *[]domain.Business               `json:"businesses"`
	Data       *map[string]*domain.BusinessData `json:"data"`
}

// decodeDataset parses a persisted payload. A payload that does not parse or
// lacks the businesses/data fields is corrupt.
func decodeDataset(raw []byte) (dataset, error) {
	var env persistedEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return dataset{}, errors.CorruptData("persisted data does not parse", err)
	}
	if env.Businesses == nil || env.Data == nil {
		return dataset{}, errors.CorruptData("persisted data is missing businesses or data", nil)
	}
	return dataset{Businesses: *env.Businesses, Data: *env.Data}, nil
}

// migrateDataset grandfathers legacy tenants that predate subscriptions:
// any business without a subscription status becomes active on the lifetime
// tier with an expiry 100 years out. The input is freshly decoded, so the
// transform owns it and can return it patched.
func migrateDataset(ds dataset, now time.Time) dataset {
	for i := range ds.Businesses {
		if ds.Businesses[i].SubscriptionStatus == "" {
			expiry := now.AddDate(100, 0, 0)
			ds.Businesses[i].SubscriptionStatus = domain.SubscriptionActive
			ds.Businesses[i].SubscriptionTier = domain.TierLifetime
			ds.Businesses[i].SubscriptionExpiry = &expiry
		}
	}
	if ds.Data == nil {
		ds.Data = map[string]*domain.BusinessData{}
	}
	return ds
}
