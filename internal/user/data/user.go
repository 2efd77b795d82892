package data

import (
	"context"
	"time"

	"github.com/leadpilot/leadpilot-backend/internal/user/biz"
	"gorm.io/gorm"
)

// UserPO represents the database model. Auth-related columns live here
// too; the auth repo reads and writes them through this same table.
type UserPO struct {
	ID    string `gorm:"type:uuid;primarykey"`
	Name  string `gorm:"size:100;not null"`
	Email string `gorm:"size:255;not null;uniqueIndex:idx_users_email,where:deleted_at IS NULL"`

	// Credentials
	PasswordHash string `gorm:"size:255;not null"`

	// JWT refresh token
	RefreshToken          *string `gorm:"size:512"`
	RefreshTokenExpiresAt *time.Time

	// Subscription
	SubscriptionTier   string `gorm:"size:20;not null;default:'starter'"`
	SubscriptionStatus string `gorm:"size:20;not null;default:'trialing'"`
	TrialEndsAt        *time.Time

	// Monthly usage counters, bucketed by usage_month
	UsageMonth        string `gorm:"size:7;not null;default:''"`
	SearchesThisMonth int    `gorm:"not null;default:0"`
	ExportsThisMonth  int    `gorm:"not null;default:0"`

	// Login tracking
	LastLoginAt *time.Time
	LastLoginIP *string `gorm:"size:45"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserPO) TableName() string {
	return "users"
}

// UserRepo implements biz.UserRepo
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) biz.UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*biz.User, error) {
	var po UserPO
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		return nil, err
	}
	return toUser(&po), nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id, name string) error {
	return r.db.WithContext(ctx).Model(&UserPO{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":       name,
			"updated_at": time.Now(),
		}).Error
}

func (r *UserRepo) IncrementSearches(ctx context.Context, id, month string) error {
	return r.incrementCounter(ctx, id, month, "searches_this_month")
}

func (r *UserRepo) IncrementExports(ctx context.Context, id, month string) error {
	return r.incrementCounter(ctx, id, month, "exports_this_month")
}

// incrementCounter bumps a usage column, resetting both counters when
// the stored month bucket is stale
func (r *UserRepo) incrementCounter(ctx context.Context, id, month, column string) error {
	updates := map[string]interface{}{
		column:       gorm.Expr("CASE WHEN usage_month = ? THEN "+column+" + 1 ELSE 1 END", month),
		"usage_month": month,
	}
	other := "exports_this_month"
	if column == other {
		other = "searches_this_month"
	}
	updates[other] = gorm.Expr("CASE WHEN usage_month = ? THEN "+other+" ELSE 0 END", month)

	return r.db.WithContext(ctx).Model(&UserPO{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func toUser(po *UserPO) *biz.User {
	return &biz.User{
		ID:                 po.ID,
		Name:               po.Name,
		Email:              po.Email,
		SubscriptionTier:   po.SubscriptionTier,
		SubscriptionStatus: po.SubscriptionStatus,
		TrialEndsAt:        po.TrialEndsAt,
		UsageMonth:         po.UsageMonth,
		SearchesThisMonth:  po.SearchesThisMonth,
		ExportsThisMonth:   po.ExportsThisMonth,
		CreatedAt:          po.CreatedAt,
		UpdatedAt:          po.UpdatedAt,
	}
}
