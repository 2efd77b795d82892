package biz

import (
	"context"
	"time"

	apperrors "github.com/leadpilot/leadpilot-backend/internal/pkg/errors"
)

// Subscription tiers
const (
	TierStarter    = "starter"
	TierPro        = "pro"
	TierBusiness   = "business"
	TierEnterprise = "enterprise"
)

// Subscription statuses
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusPastDue   = "past_due"
	StatusTrialing  = "trialing"
)

// Unlimited marks a plan limit with no cap
const Unlimited = -1

// PlanLimits are the per-tier caps enforced server-side
type PlanLimits struct {
	SearchesPerMonth int `json:"searches_per_month"`
	ExportsPerMonth  int `json:"exports_per_month"`
	SavedLeads       int `json:"saved_leads"`
	TeamMembers      int `json:"team_members"`
	EmailTemplates   int `json:"email_templates"`
}

var planLimits = map[string]PlanLimits{
	TierStarter:    {SearchesPerMonth: 40, ExportsPerMonth: 12, SavedLeads: 500, TeamMembers: 1, EmailTemplates: 3},
	TierPro:        {SearchesPerMonth: 200, ExportsPerMonth: Unlimited, SavedLeads: Unlimited, TeamMembers: 3, EmailTemplates: 10},
	TierBusiness:   {SearchesPerMonth: Unlimited, ExportsPerMonth: Unlimited, SavedLeads: Unlimited, TeamMembers: 10, EmailTemplates: Unlimited},
	TierEnterprise: {SearchesPerMonth: Unlimited, ExportsPerMonth: Unlimited, SavedLeads: Unlimited, TeamMembers: Unlimited, EmailTemplates: Unlimited},
}

// LimitsFor returns the plan limits for a tier; unknown tiers get the
// starter limits
func LimitsFor(tier string) PlanLimits {
	if limits, ok := planLimits[tier]; ok {
		return limits
	}
	return planLimits[TierStarter]
}

// AllowsComprehensive reports whether a tier may run comprehensive
// (multi-query) searches
func AllowsComprehensive(tier string) bool {
	return tier != TierStarter
}

// User represents the domain model
type User struct {
	ID                 string
	Name               string
	Email              string
	SubscriptionTier   string
	SubscriptionStatus string
	TrialEndsAt        *time.Time
	UsageMonth         string
	SearchesThisMonth  int
	ExportsThisMonth   int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Usage is the current month's consumption against plan limits
type Usage struct {
	Month             string     `json:"month"`
	SearchesThisMonth int        `json:"searches_this_month"`
	ExportsThisMonth  int        `json:"exports_this_month"`
	Limits            PlanLimits `json:"limits"`
}

// UserRepo defines the interface for user data operations
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id, name string) error
	IncrementSearches(ctx context.Context, id, month string) error
	IncrementExports(ctx context.Context, id, month string) error
}

// UserUseCase contains business logic for profiles and plan enforcement
type UserUseCase struct {
	repo UserRepo
	now  func() time.Time
}

func NewUserUseCase(repo UserRepo) *UserUseCase {
	return &UserUseCase{repo: repo, now: time.Now}
}

// MonthKey formats the usage bucket for a point in time
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func (uc *UserUseCase) GetProfile(ctx context.Context, id string) (*User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, id, name string) error {
	if name == "" {
		return apperrors.New(apperrors.ErrUserInvalidInput, "name is required")
	}
	return uc.repo.UpdateProfile(ctx, id, name)
}

// GetUsage returns the month's counters together with the tier limits
func (uc *UserUseCase) GetUsage(ctx context.Context, id string) (*Usage, error) {
	user, err := uc.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	month := MonthKey(uc.now())
	usage := &Usage{
		Month:  month,
		Limits: LimitsFor(user.SubscriptionTier),
	}

	// Counters from a previous month have effectively reset
	if user.UsageMonth == month {
		usage.SearchesThisMonth = user.SearchesThisMonth
		usage.ExportsThisMonth = user.ExportsThisMonth
	}

	return usage, nil
}

// ConsumeSearch enforces the monthly search cap and the comprehensive
// tier gate, then counts the search
func (uc *UserUseCase) ConsumeSearch(ctx context.Context, id string, comprehensive bool) error {
	user, err := uc.GetProfile(ctx, id)
	if err != nil {
		return err
	}

	if comprehensive && !AllowsComprehensive(user.SubscriptionTier) {
		return apperrors.New(apperrors.ErrUserPlanRequired, "comprehensive search requires the Professional plan")
	}

	limits := LimitsFor(user.SubscriptionTier)
	month := MonthKey(uc.now())

	if limits.SearchesPerMonth != Unlimited && user.UsageMonth == month &&
		user.SearchesThisMonth >= limits.SearchesPerMonth {
		return apperrors.New(apperrors.ErrUserSearchLimit)
	}

	return uc.repo.IncrementSearches(ctx, id, month)
}

// ConsumeExport enforces the monthly export cap, then counts the export
func (uc *UserUseCase) ConsumeExport(ctx context.Context, id string) error {
	user, err := uc.GetProfile(ctx, id)
	if err != nil {
		return err
	}

	limits := LimitsFor(user.SubscriptionTier)
	month := MonthKey(uc.now())

	if limits.ExportsPerMonth != Unlimited && user.UsageMonth == month &&
		user.ExportsThisMonth >= limits.ExportsPerMonth {
		return apperrors.New(apperrors.ErrUserExportLimit)
	}

	return uc.repo.IncrementExports(ctx, id, month)
}
