package biz

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/leadpilot/leadpilot-backend/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	user *User

	searchIncrements []string
	exportIncrements []string
}

func (f *fakeUserRepo) GetByID(_ context.Context, _ string) (*User, error) {
	u := *f.user
	return &u, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, _, name string) error {
	f.user.Name = name
	return nil
}

func (f *fakeUserRepo) IncrementSearches(_ context.Context, _, month string) error {
	f.searchIncrements = append(f.searchIncrements, month)
	return nil
}

func (f *fakeUserRepo) IncrementExports(_ context.Context, _, month string) error {
	f.exportIncrements = append(f.exportIncrements, month)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
}

func newTestUseCase(user *User) (*UserUseCase, *fakeUserRepo) {
	repo := &fakeUserRepo{user: user}
	uc := NewUserUseCase(repo)
	uc.now = fixedNow
	return uc, repo
}

func TestLimitsFor(t *testing.T) {
	starter := LimitsFor(TierStarter)
	assert.Equal(t, 40, starter.SearchesPerMonth)
	assert.Equal(t, 12, starter.ExportsPerMonth)
	assert.Equal(t, 500, starter.SavedLeads)
	assert.Equal(t, 3, starter.EmailTemplates)

	pro := LimitsFor(TierPro)
	assert.Equal(t, 200, pro.SearchesPerMonth)
	assert.Equal(t, Unlimited, pro.ExportsPerMonth)
	assert.Equal(t, Unlimited, pro.SavedLeads)
	assert.Equal(t, 10, pro.EmailTemplates)

	business := LimitsFor(TierBusiness)
	assert.Equal(t, Unlimited, business.SearchesPerMonth)

	// Unknown tiers get the most restrictive limits
	assert.Equal(t, starter, LimitsFor("garbage"))
}

func TestAllowsComprehensive(t *testing.T) {
	assert.False(t, AllowsComprehensive(TierStarter))
	assert.True(t, AllowsComprehensive(TierPro))
	assert.True(t, AllowsComprehensive(TierBusiness))
	assert.True(t, AllowsComprehensive(TierEnterprise))
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2026-08", MonthKey(fixedNow()))

	// Local timestamps normalize to UTC
	loc := time.FixedZone("UTC+10", 10*3600)
	assert.Equal(t, "2026-08", MonthKey(time.Date(2026, 9, 1, 4, 0, 0, 0, loc)))
}

func TestConsumeSearchWithinLimit(t *testing.T) {
	uc, repo := newTestUseCase(&User{
		ID:                "u1",
		SubscriptionTier:  TierStarter,
		UsageMonth:        "2026-08",
		SearchesThisMonth: 39,
	})

	err := uc.ConsumeSearch(context.Background(), "u1", false)

	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08"}, repo.searchIncrements)
}

func TestConsumeSearchAtLimit(t *testing.T) {
	uc, repo := newTestUseCase(&User{
		ID:                "u1",
		SubscriptionTier:  TierStarter,
		UsageMonth:        "2026-08",
		SearchesThisMonth: 40,
	})

	err := uc.ConsumeSearch(context.Background(), "u1", false)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUserSearchLimit))
	assert.Empty(t, repo.searchIncrements)
}

func TestConsumeSearchMonthRollover(t *testing.T) {
	// Counters from a previous month no longer count against the cap
	uc, repo := newTestUseCase(&User{
		ID:                "u1",
		SubscriptionTier:  TierStarter,
		UsageMonth:        "2026-07",
		SearchesThisMonth: 40,
	})

	err := uc.ConsumeSearch(context.Background(), "u1", false)

	require.NoError(t, err)
	assert.Equal(t, []string{"2026-08"}, repo.searchIncrements)
}

func TestConsumeSearchComprehensiveGate(t *testing.T) {
	uc, repo := newTestUseCase(&User{
		ID:               "u1",
		SubscriptionTier: TierStarter,
	})

	err := uc.ConsumeSearch(context.Background(), "u1", true)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUserPlanRequired))
	assert.Empty(t, repo.searchIncrements)

	uc, repo = newTestUseCase(&User{
		ID:               "u1",
		SubscriptionTier: TierPro,
	})
	require.NoError(t, uc.ConsumeSearch(context.Background(), "u1", true))
	assert.Len(t, repo.searchIncrements, 1)
}

func TestConsumeSearchUnlimitedTier(t *testing.T) {
	uc, repo := newTestUseCase(&User{
		ID:                "u1",
		SubscriptionTier:  TierBusiness,
		UsageMonth:        "2026-08",
		SearchesThisMonth: 100000,
	})

	require.NoError(t, uc.ConsumeSearch(context.Background(), "u1", true))
	assert.Len(t, repo.searchIncrements, 1)
}

func TestConsumeExportAtLimit(t *testing.T) {
	uc, repo := newTestUseCase(&User{
		ID:               "u1",
		SubscriptionTier: TierStarter,
		UsageMonth:       "2026-08",
		ExportsThisMonth: 12,
	})

	err := uc.ConsumeExport(context.Background(), "u1")

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUserExportLimit))
	assert.Empty(t, repo.exportIncrements)
}

func TestGetUsageStaleMonthReadsZero(t *testing.T) {
	uc, _ := newTestUseCase(&User{
		ID:                "u1",
		SubscriptionTier:  TierStarter,
		UsageMonth:        "2026-07",
		SearchesThisMonth: 15,
		ExportsThisMonth:  3,
	})

	usage, err := uc.GetUsage(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "2026-08", usage.Month)
	assert.Zero(t, usage.SearchesThisMonth)
	assert.Zero(t, usage.ExportsThisMonth)
	assert.Equal(t, 40, usage.Limits.SearchesPerMonth)
}
