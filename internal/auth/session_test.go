package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaveorah/zaveorah-core/internal/auth"
	"github.com/zaveorah/zaveorah-core/internal/domain"
	"github.com/zaveorah/zaveorah-core/pkg/clock"
	"github.com/zaveorah/zaveorah-core/pkg/config"
	"github.com/zaveorah/zaveorah-core/pkg/logger"
	"github.com/zaveorah/zaveorah-core/pkg/testutil"
)

var testTime = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func TestLoginWrongPassword(t *testing.T) {
	st := testutil.NewStore(t, clock.Fixed(testTime))
	businessID := testutil.RegisterBusiness(t, st, "Kai Bar")
	owner := testutil.Owner(t, st, businessID)

	manager := auth.NewManager(st, clock.Fixed(testTime), nil, logger.NewNop())
	assert.False(t, manager.Login(businessID, owner.ID, "wrong"))
	assert.Nil(t, manager.Session().CurrentUser())

	assert.False(t, manager.Login("biz-unknown", owner.ID, testutil.OwnerPassword))
	assert.False(t, manager.Login(businessID, "user-unknown", testutil.OwnerPassword))
}

func TestLoginRaisesSubscriptionGate(t *testing.T) {
	st := testutil.NewStore(t, clock.Fixed(testTime))
	businessID := testutil.RegisterBusiness(t, st, "Kai Bar")

	manager := testutil.LoginOwner(t, st, clock.Fixed(testTime), businessID)
	session := manager.Session()

	assert.Equal(t, businessID, session.CurrentBusinessID())
	assert.True(t, session.SubscriptionRequired())
	// A business that never subscribed stays at none, it is not demoted.
	assert.Equal(t, domain.SubscriptionNone, st.Business(businessID).SubscriptionStatus)
}

func TestLoginDemotesExpiredTrial(t *testing.T) {
	clk := &clock.Fake{Current: testTime}
	st := testutil.NewStore(t, clk)
	businessID := testutil.RegisterBusiness(t, st, "Kai Bar")

	start := clk.Now()
	require.True(t, st.UpdateBusiness(businessID, func(b *domain.Business) {
		b.SubscriptionStatus = domain.SubscriptionTrial
		b.TrialStartDate = &start
	}))

	clk.Advance(4 * 24 * time.Hour)
	manager := testutil.LoginOwner(t, st, clk, businessID)

	assert.True(t, manager.Session().SubscriptionRequired())
	assert.Equal(t, domain.SubscriptionLapsed, st.Business(businessID).SubscriptionStatus)
}

func TestLoginPendingIsNotDemoted(t *testing.T) {
	st := testutil.NewStore(t, clock.Fixed(testTime))
	businessID := testutil.RegisterBusiness(t, st, "Kai Bar")
	require.True(t, st.UpdateBusiness(businessID, func(b *domain.Business) {
		b.SubscriptionStatus = domain.SubscriptionPending
		b.PendingSubscriptionTier = domain.TierLifetime
	}))

	manager := testutil.LoginOwner(t, st, clock.Fixed(testTime), businessID)

	assert.False(t, manager.Session().SubscriptionRequired())
	assert.Equal(t, domain.SubscriptionPending, st.Business(businessID).SubscriptionStatus)
}

func TestLoginActiveSubscription(t *testing.T) {
	st := testutil.NewStore(t, clock.Fixed(testTime))
	businessID := testutil.RegisterBusiness(t, st, "Kai Bar")
	expiry := testTime.AddDate(1, 0, 0)
	require.True(t, st.UpdateBusiness(businessID, func(b *domain.Business) {
		b.SubscriptionStatus = domain.SubscriptionActive
		b.SubscriptionExpiry = &expiry
	}))

	manager := testutil.LoginOwner(t, st, clock.Fixed(testTime), businessID)
	assert.False(t, manager.Session().SubscriptionRequired())
}

func TestAdminLoginAndImpersonate(t *testing.T) {
	st := testutil.NewStore(t, clock.Fixed(testTime))
	businessID := testutil.RegisterBusiness(t, st, "Kai Bar")
	owner := testutil.Owner(t, st, businessID)

	manager := auth.NewManager(st, clock.Fixed(testTime), nil, logger.NewNop())
	assert.False(t, manager.Session().IsAdmin())
	assert.False(t, manager.Impersonate(businessID, owner.ID))

	require.True(t, manager.AdminLogin())
	session := manager.Session()
	assert.True(t, session.IsAdmin())
	assert.Empty(t, session.CurrentBusinessID())
	assert.Equal(t, auth.AdminUserID, session.CurrentUser().ID)

	require.True(t, manager.Impersonate(businessID, owner.ID))
	assert.False(t, session.IsAdmin())
	assert.Equal(t, businessID, session.CurrentBusinessID())
	assert.Equal(t, owner.ID, session.CurrentUser().ID)

	manager.Logout()
	assert.Nil(t, session.CurrentUser())
	assert.Empty(t, session.CurrentBusinessID())
}

func tokenConfig() *config.SessionConfig {
	return &config.SessionConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "zaveorah",
	}
}

func TestSessionResume(t *testing.T) {
	clk := &clock.Fake{Current: testTime}
	st := testutil.NewStore(t, clk)
	businessID := testutil.RegisterBusiness(t, st, "Kai Bar")
	owner := testutil.Owner(t, st, businessID)

	tokens := auth.NewTokenIssuer(tokenConfig())
	manager := auth.NewManager(st, clk, tokens, logger.NewNop())
	require.True(t, manager.Login(businessID, owner.ID, testutil.OwnerPassword))

	token, err := manager.Token()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resumed := auth.NewManager(st, clk, tokens, logger.NewNop())
	require.True(t, resumed.Resume(token))
	assert.Equal(t, businessID, resumed.Session().CurrentBusinessID())
	assert.Equal(t, owner.ID, resumed.Session().CurrentUser().ID)
	// The gate is re-evaluated on resume just like on login.
	assert.True(t, resumed.Session().SubscriptionRequired())
}

func TestSessionResumeExpiredToken(t *testing.T) {
	clk := &clock.Fake{Current: testTime}
	st := testutil.NewStore(t, clk)
	businessID := testutil.RegisterBusiness(t, st, "Kai Bar")
	owner := testutil.Owner(t, st, businessID)

	tokens := auth.NewTokenIssuer(tokenConfig())
	manager := auth.NewManager(st, clk, tokens, logger.NewNop())
	require.True(t, manager.Login(businessID, owner.ID, testutil.OwnerPassword))
	token, err := manager.Token()
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	assert.False(t, manager.Resume(token))
	assert.False(t, manager.Resume("garbage"))
}

func TestSessionResumeAdmin(t *testing.T) {
	st := testutil.NewStore(t, clock.Fixed(testTime))
	tokens := auth.NewTokenIssuer(tokenConfig())
	manager := auth.NewManager(st, clock.Fixed(testTime), tokens, logger.NewNop())

	require.True(t, manager.AdminLogin())
	token, err := manager.Token()
	require.NoError(t, err)

	resumed := auth.NewManager(st, clock.Fixed(testTime), tokens, logger.NewNop())
	require.True(t, resumed.Resume(token))
	assert.True(t, resumed.Session().IsAdmin())
}
