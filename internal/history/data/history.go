package data

import (
	"context"
	"time"

	"github.com/leadpilot/leadpilot-backend/internal/history/biz"
	"gorm.io/gorm"
)

// SavedSearchPO is the database model for search history
type SavedSearchPO struct {
	ID                  string `gorm:"type:uuid;primarykey"`
	UserID              string `gorm:"type:uuid;not null;index:idx_saved_searches_user"`
	Keyword             string `gorm:"size:100;not null"`
	City                string `gorm:"size:100;not null"`
	Comprehensive       bool   `gorm:"not null;default:false"`
	ResultsCount        int    `gorm:"not null;default:0"`
	LeadsWithoutWebsite int    `gorm:"not null;default:0"`
	Simulated           bool   `gorm:"not null;default:false"`
	CreatedAt           time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

func (SavedSearchPO) TableName() string {
	return "saved_searches"
}

// HistoryRepo implements biz.HistoryRepo
type HistoryRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) biz.HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Create(ctx context.Context, search *biz.SavedSearch) error {
	po := &SavedSearchPO{
		ID:                  search.ID,
		UserID:              search.UserID,
		Keyword:             search.Keyword,
		City:                search.City,
		Comprehensive:       search.Comprehensive,
		ResultsCount:        search.ResultsCount,
		LeadsWithoutWebsite: search.LeadsWithoutWebsite,
		Simulated:           search.Simulated,
		CreatedAt:           search.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *HistoryRepo) List(ctx context.Context, userID string, limit int) ([]*biz.SavedSearch, error) {
	var pos []SavedSearchPO
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&pos).Error; err != nil {
		return nil, err
	}

	searches := make([]*biz.SavedSearch, 0, len(pos))
	for i := range pos {
		searches = append(searches, toSearch(&pos[i]))
	}
	return searches, nil
}

func (r *HistoryRepo) GetByID(ctx context.Context, userID, id string) (*biz.SavedSearch, error) {
	var po SavedSearchPO
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&po).Error; err != nil {
		return nil, err
	}
	return toSearch(&po), nil
}

func (r *HistoryRepo) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&SavedSearchPO{}).Error
}

func toSearch(po *SavedSearchPO) *biz.SavedSearch {
	return &biz.SavedSearch{
		ID:                  po.ID,
		UserID:              po.UserID,
		Keyword:             po.Keyword,
		City:                po.City,
		Comprehensive:       po.Comprehensive,
		ResultsCount:        po.ResultsCount,
		LeadsWithoutWebsite: po.LeadsWithoutWebsite,
		Simulated:           po.Simulated,
		CreatedAt:           po.CreatedAt,
	}
}
