package biz

import (
	"context"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/leadpilot/leadpilot-backend/internal/pkg/errors"
	"go.uber.org/zap"
)

// Activity types recorded in the activity feed
const (
	ActivitySearch       = "search"
	ActivitySaveLead     = "save_lead"
	ActivityContact      = "contact"
	ActivityExport       = "export"
	ActivityStatusChange = "status_change"
)

// Activity is one entry in a user's activity feed
type Activity struct {
	ID          string                 `json:"id"`
	UserID      string                 `json:"-"`
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// Stats is the aggregate view shown on the dashboard
type Stats struct {
	TotalSearches       int64            `json:"total_searches"`
	LeadsSaved          int64            `json:"leads_saved"`
	LeadsWithoutWebsite int64            `json:"leads_without_website"`
	LeadsByStatus       map[string]int64 `json:"leads_by_status"`
}

// AnalyticsRepo defines data operations for the activity feed and stats
type AnalyticsRepo interface {
	CreateActivity(ctx context.Context, activity *Activity) error
	ListRecent(ctx context.Context, userID string, limit int) ([]*Activity, error)
	GetStats(ctx context.Context, userID string) (*Stats, error)
}

// AnalyticsUseCase records activity and serves dashboard aggregates
type AnalyticsUseCase struct {
	repo   AnalyticsRepo
	logger *zap.Logger
}

func NewAnalyticsUseCase(repo AnalyticsRepo, logger *zap.Logger) *AnalyticsUseCase {
	return &AnalyticsUseCase{repo: repo, logger: logger}
}

// Record appends an activity entry. Failures are logged and swallowed;
// the feed is advisory and must never fail a primary operation.
func (uc *AnalyticsUseCase) Record(ctx context.Context, userID, activityType, description string, metadata map[string]interface{}) {
	activity := &Activity{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        activityType,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   time.Now(),
	}

	if err := uc.repo.CreateActivity(ctx, activity); err != nil {
		uc.logger.Warn("failed to record activity",
			zap.String("user_id", userID),
			zap.String("type", activityType),
			zap.Error(err))
	}
}

// ListRecent returns the user's latest activity entries, newest first
func (uc *AnalyticsUseCase) ListRecent(ctx context.Context, userID string, limit int) ([]*Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	activities, err := uc.repo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return activities, nil
}

// GetStats returns dashboard aggregates for the user
func (uc *AnalyticsUseCase) GetStats(ctx context.Context, userID string) (*Stats, error) {
	stats, err := uc.repo.GetStats(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return stats, nil
}
