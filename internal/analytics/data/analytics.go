package data

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leadpilot/leadpilot-backend/internal/analytics/biz"
	"gorm.io/gorm"
)

// MetadataJSON stores arbitrary activity metadata as a jsonb column
type MetadataJSON map[string]interface{}

func (m MetadataJSON) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *MetadataJSON) Scan(value interface{}) error {
	if value == nil {
		*m = MetadataJSON{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for MetadataJSON: %T", value)
	}

	return json.Unmarshal(bytes, m)
}

// ActivityPO is the database model for the activity feed
type ActivityPO struct {
	ID          string       `gorm:"type:uuid;primarykey"`
	UserID      string       `gorm:"type:uuid;not null;index:idx_activity_log_user"`
	Type        string       `gorm:"size:20;not null"`
	Description string       `gorm:"size:500"`
	Metadata    MetadataJSON `gorm:"type:jsonb;default:'{}'"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_activity_log_created"`
}

func (ActivityPO) TableName() string {
	return "activity_log"
}

// AnalyticsRepo implements biz.AnalyticsRepo
type AnalyticsRepo struct {
	db *gorm.DB
}

func NewAnalyticsRepo(db *gorm.DB) biz.AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

func (r *AnalyticsRepo) CreateActivity(ctx context.Context, activity *biz.Activity) error {
	po := &ActivityPO{
		ID:          activity.ID,
		UserID:      activity.UserID,
		Type:        activity.Type,
		Description: activity.Description,
		Metadata:    MetadataJSON(activity.Metadata),
		CreatedAt:   activity.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *AnalyticsRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*biz.Activity, error) {
	var pos []ActivityPO
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&pos).Error; err != nil {
		return nil, err
	}

	activities := make([]*biz.Activity, 0, len(pos))
	for i := range pos {
		po := &pos[i]
		activities = append(activities, &biz.Activity{
			ID:          po.ID,
			UserID:      po.UserID,
			Type:        po.Type,
			Description: po.Description,
			Metadata:    po.Metadata,
			CreatedAt:   po.CreatedAt,
		})
	}
	return activities, nil
}

func (r *AnalyticsRepo) GetStats(ctx context.Context, userID string) (*biz.Stats, error) {
	stats := &biz.Stats{LeadsByStatus: map[string]int64{}}

	if err := r.db.WithContext(ctx).Table("saved_searches").
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Count(&stats.TotalSearches).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Table("saved_leads").
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Count(&stats.LeadsSaved).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Table("saved_leads").
		Where("user_id = ? AND has_website = false AND deleted_at IS NULL", userID).
		Count(&stats.LeadsWithoutWebsite).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := r.db.WithContext(ctx).Table("saved_leads").
		Select("status, COUNT(*) AS count").
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.LeadsByStatus[row.Status] = row.Count
	}

	return stats, nil
}
