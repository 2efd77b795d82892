package biz

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leadpilot/leadpilot-backend/internal/auth"
	apperrors "github.com/leadpilot/leadpilot-backend/internal/pkg/errors"
	userbiz "github.com/leadpilot/leadpilot-backend/internal/user/biz"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TrialDays is the length of the starter trial granted on signup
const TrialDays = 14

// Account is the credential view of a user row used by auth flows
type Account struct {
	ID                    string
	Name                  string
	Email                 string
	PasswordHash          string
	SubscriptionTier      string
	SubscriptionStatus    string
	RefreshToken          *string
	RefreshTokenExpiresAt *time.Time
}

// AuthRepo defines the data operations auth needs on the users table
type AuthRepo interface {
	Create(ctx context.Context, account *Account, trialEndsAt time.Time) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByRefreshToken(ctx context.Context, token string) (*Account, error)
	SaveRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
	TouchLastLogin(ctx context.Context, userID, ip string) error
}

// TokenPair is the result of a successful login or refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthUseCase implements registration, login and token lifecycle
type AuthUseCase struct {
	repo   AuthRepo
	jwt    *auth.JWTManager
	logger *zap.Logger
}

func NewAuthUseCase(repo AuthRepo, jwt *auth.JWTManager, logger *zap.Logger) *AuthUseCase {
	return &AuthUseCase{repo: repo, jwt: jwt, logger: logger}
}

// Register creates a new account on the starter tier with a trial period
func (uc *AuthUseCase) Register(ctx context.Context, name, email, password string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, apperrors.New(apperrors.ErrInvalidParams, "name and email are required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperrors.New(apperrors.ErrAuthInvalidEmail)
	}
	if len(password) < 8 {
		return nil, apperrors.New(apperrors.ErrAuthWeakPassword, "password must be at least 8 characters")
	}

	if existing, err := uc.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.New(apperrors.ErrAuthEmailExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	account := &Account{
		ID:                 uuid.New().String(),
		Name:               name,
		Email:              email,
		PasswordHash:       string(hash),
		SubscriptionTier:   userbiz.TierStarter,
		SubscriptionStatus: userbiz.StatusTrialing,
	}

	trialEndsAt := time.Now().AddDate(0, 0, TrialDays)
	if err := uc.repo.Create(ctx, account, trialEndsAt); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	uc.logger.Info("user registered", zap.String("user_id", account.ID), zap.String("email", email))
	return account, nil
}

// Login verifies credentials and issues a token pair
func (uc *AuthUseCase) Login(ctx context.Context, email, password, ip string) (*Account, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperrors.New(apperrors.ErrAuthInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.New(apperrors.ErrAuthInvalidCredentials)
	}

	pair, err := uc.issueTokens(ctx, account)
	if err != nil {
		return nil, nil, err
	}

	if err := uc.repo.TouchLastLogin(ctx, account.ID, ip); err != nil {
		uc.logger.Warn("failed to record last login", zap.String("user_id", account.ID), zap.Error(err))
	}

	uc.logger.Info("user logged in", zap.String("user_id", account.ID))
	return account, pair, nil
}

// Refresh rotates a valid refresh token into a fresh token pair
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.New(apperrors.ErrAuthInvalidToken)
	}

	account, err := uc.repo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrAuthInvalidToken)
	}

	if account.RefreshTokenExpiresAt == nil || time.Now().After(*account.RefreshTokenExpiresAt) {
		return nil, apperrors.New(apperrors.ErrAuthTokenExpired)
	}

	return uc.issueTokens(ctx, account)
}

// Logout invalidates the stored refresh token
func (uc *AuthUseCase) Logout(ctx context.Context, userID string) error {
	return uc.repo.ClearRefreshToken(ctx, userID)
}

func (uc *AuthUseCase) issueTokens(ctx context.Context, account *Account) (*TokenPair, error) {
	accessToken, err := uc.jwt.GenerateAccessToken(account.ID, account.Email)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	refreshToken, expiresAt, err := uc.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	if err := uc.repo.SaveRefreshToken(ctx, account.ID, refreshToken, expiresAt); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(auth.AccessTokenTTL.Seconds()),
	}, nil
}
