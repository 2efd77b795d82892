package data

import (
	"context"
	"time"

	"github.com/leadpilot/leadpilot-backend/internal/auth/biz"
	userdata "github.com/leadpilot/leadpilot-backend/internal/user/data"
	"gorm.io/gorm"
)

// AuthRepo implements biz.AuthRepo on top of the users table
type AuthRepo struct {
	db *gorm.DB
}

func NewAuthRepo(db *gorm.DB) biz.AuthRepo {
	return &AuthRepo{db: db}
}

func (r *AuthRepo) Create(ctx context.Context, account *biz.Account, trialEndsAt time.Time) error {
	po := &userdata.UserPO{
		ID:                 account.ID,
		Name:               account.Name,
		Email:              account.Email,
		PasswordHash:       account.PasswordHash,
		SubscriptionTier:   account.SubscriptionTier,
		SubscriptionStatus: account.SubscriptionStatus,
		TrialEndsAt:        &trialEndsAt,
	}
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *AuthRepo) GetByEmail(ctx context.Context, email string) (*biz.Account, error) {
	var po userdata.UserPO
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&po).Error; err != nil {
		return nil, err
	}
	return toAccount(&po), nil
}

func (r *AuthRepo) GetByRefreshToken(ctx context.Context, token string) (*biz.Account, error) {
	var po userdata.UserPO
	if err := r.db.WithContext(ctx).Where("refresh_token = ?", token).First(&po).Error; err != nil {
		return nil, err
	}
	return toAccount(&po), nil
}

func (r *AuthRepo) SaveRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&userdata.UserPO{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"refresh_token":            token,
			"refresh_token_expires_at": expiresAt,
		}).Error
}

func (r *AuthRepo) ClearRefreshToken(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&userdata.UserPO{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"refresh_token":            nil,
			"refresh_token_expires_at": nil,
		}).Error
}

func (r *AuthRepo) TouchLastLogin(ctx context.Context, userID, ip string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&userdata.UserPO{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": now,
			"last_login_ip": ip,
		}).Error
}

func toAccount(po *userdata.UserPO) *biz.Account {
	return &biz.Account{
		ID:                    po.ID,
		Name:                  po.Name,
		Email:                 po.Email,
		PasswordHash:          po.PasswordHash,
		SubscriptionTier:      po.SubscriptionTier,
		SubscriptionStatus:    po.SubscriptionStatus,
		RefreshToken:          po.RefreshToken,
		RefreshTokenExpiresAt: po.RefreshTokenExpiresAt,
	}
}
