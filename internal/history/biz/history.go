package biz

import (
	"context"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/leadpilot/leadpilot-backend/internal/pkg/errors"
	"go.uber.org/zap"
)

// SavedSearch is one entry in a user's search history
type SavedSearch struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"-"`
	Keyword             string    `json:"keyword"`
	City                string    `json:"city"`
	Comprehensive       bool      `json:"comprehensive"`
	ResultsCount        int       `json:"results_count"`
	LeadsWithoutWebsite int       `json:"leads_without_website"`
	Simulated           bool      `json:"simulated"`
	CreatedAt           time.Time `json:"created_at"`
}

// HistoryRepo defines data operations for search history
type HistoryRepo interface {
	Create(ctx context.Context, search *SavedSearch) error
	List(ctx context.Context, userID string, limit int) ([]*SavedSearch, error)
	GetByID(ctx context.Context, userID, id string) (*SavedSearch, error)
	Delete(ctx context.Context, userID, id string) error
}

// HistoryUseCase records and lists past searches
type HistoryUseCase struct {
	repo   HistoryRepo
	logger *zap.Logger
}

func NewHistoryUseCase(repo HistoryRepo, logger *zap.Logger) *HistoryUseCase {
	return &HistoryUseCase{repo: repo, logger: logger}
}

// Record stores a completed search. Failures are logged and swallowed so
// a history write never fails the search itself.
func (uc *HistoryUseCase) Record(ctx context.Context, search *SavedSearch) {
	if search.ID == "" {
		search.ID = uuid.New().String()
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = time.Now()
	}

	if err := uc.repo.Create(ctx, search); err != nil {
		uc.logger.Warn("failed to record search history",
			zap.String("user_id", search.UserID),
			zap.String("keyword", search.Keyword),
			zap.Error(err))
	}
}

// List returns the user's recent searches, newest first
func (uc *HistoryUseCase) List(ctx context.Context, userID string, limit int) ([]*SavedSearch, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	searches, err := uc.repo.List(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return searches, nil
}

// Delete removes one history entry owned by the user
func (uc *HistoryUseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.repo.GetByID(ctx, userID, id); err != nil {
		return apperrors.Wrap(err, apperrors.ErrSearchNotFound)
	}
	return uc.repo.Delete(ctx, userID, id)
}
