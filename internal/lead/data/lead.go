package data

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leadpilot/leadpilot-backend/internal/lead/biz"
	"gorm.io/gorm"
)

// StringArrayJSON stores a string slice as a jsonb column
type StringArrayJSON []string

func (a StringArrayJSON) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

func (a *StringArrayJSON) Scan(value interface{}) error {
	if value == nil {
		*a = StringArrayJSON{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringArrayJSON: %T", value)
	}

	return json.Unmarshal(bytes, a)
}

// SavedLeadPO is the database model for saved leads
type SavedLeadPO struct {
	ID            string `gorm:"type:uuid;primarykey"`
	UserID        string `gorm:"type:uuid;not null;index:idx_saved_leads_user"`
	BusinessName  string `gorm:"size:255;not null"`
	Address       string `gorm:"size:500"`
	Phone         string `gorm:"size:50"`
	Category      string `gorm:"size:100;index:idx_saved_leads_category"`
	City          string `gorm:"size:100;index:idx_saved_leads_city"`
	HasWebsite    bool   `gorm:"not null;default:false"`
	WebsiteURL    string `gorm:"size:500"`
	GoogleMapsURL string `gorm:"size:500"`
	Rating        *float64
	Reviews       int             `gorm:"not null;default:0"`
	Status        string          `gorm:"size:20;not null;default:'new';index:idx_saved_leads_status"`
	Notes         string          `gorm:"type:text"`
	Tags          StringArrayJSON `gorm:"type:jsonb;default:'[]'"`
	ContactedAt   *time.Time
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (SavedLeadPO) TableName() string {
	return "saved_leads"
}

// LeadRepo implements biz.LeadRepo
type LeadRepo struct {
	db *gorm.DB
}

func NewLeadRepo(db *gorm.DB) biz.LeadRepo {
	return &LeadRepo{db: db}
}

func (r *LeadRepo) Create(ctx context.Context, lead *biz.SavedLead) error {
	return r.db.WithContext(ctx).Create(toPO(lead)).Error
}

func (r *LeadRepo) CreateBatch(ctx context.Context, leads []*biz.SavedLead) error {
	pos := make([]*SavedLeadPO, 0, len(leads))
	for _, lead := range leads {
		pos = append(pos, toPO(lead))
	}
	return r.db.WithContext(ctx).CreateInBatches(pos, 100).Error
}

func (r *LeadRepo) GetByID(ctx context.Context, userID, id string) (*biz.SavedLead, error) {
	var po SavedLeadPO
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&po).Error; err != nil {
		return nil, err
	}
	return toLead(&po), nil
}

func (r *LeadRepo) List(ctx context.Context, userID string, filter biz.ListFilter) ([]*biz.SavedLead, int64, error) {
	query := r.db.WithContext(ctx).Model(&SavedLeadPO{}).Where("user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.HasWebsite != nil {
		query = query.Where("has_website = ?", *filter.HasWebsite)
	}
	if filter.Search != "" {
		query = query.Where("business_name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var pos []SavedLeadPO
	if err := query.Find(&pos).Error; err != nil {
		return nil, 0, err
	}

	leads := make([]*biz.SavedLead, 0, len(pos))
	for i := range pos {
		leads = append(leads, toLead(&pos[i]))
	}
	return leads, total, nil
}

func (r *LeadRepo) Update(ctx context.Context, userID, id string, update biz.LeadUpdate, contactedAt *time.Time) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}
	if update.Tags != nil {
		updates["tags"] = StringArrayJSON(update.Tags)
	}
	if contactedAt != nil {
		updates["contacted_at"] = contactedAt
	}

	return r.db.WithContext(ctx).Model(&SavedLeadPO{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates).Error
}

func (r *LeadRepo) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&SavedLeadPO{}).Error
}

func (r *LeadRepo) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&SavedLeadPO{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func toPO(lead *biz.SavedLead) *SavedLeadPO {
	return &SavedLeadPO{
		ID:            lead.ID,
		UserID:        lead.UserID,
		BusinessName:  lead.BusinessName,
		Address:       lead.Address,
		Phone:         lead.Phone,
		Category:      lead.Category,
		City:          lead.City,
		HasWebsite:    lead.HasWebsite,
		WebsiteURL:    lead.WebsiteURL,
		GoogleMapsURL: lead.GoogleMapsURL,
		Rating:        lead.Rating,
		Reviews:       lead.Reviews,
		Status:        lead.Status,
		Notes:         lead.Notes,
		Tags:          StringArrayJSON(lead.Tags),
		ContactedAt:   lead.ContactedAt,
		CreatedAt:     lead.SavedAt,
		UpdatedAt:     lead.UpdatedAt,
	}
}

func toLead(po *SavedLeadPO) *biz.SavedLead {
	return &biz.SavedLead{
		ID:            po.ID,
		UserID:        po.UserID,
		BusinessName:  po.BusinessName,
		Address:       po.Address,
		Phone:         po.Phone,
		Category:      po.Category,
		City:          po.City,
		HasWebsite:    po.HasWebsite,
		WebsiteURL:    po.WebsiteURL,
		GoogleMapsURL: po.GoogleMapsURL,
		Rating:        po.Rating,
		Reviews:       po.Reviews,
		Status:        po.Status,
		Notes:         po.Notes,
		Tags:          po.Tags,
		ContactedAt:   po.ContactedAt,
		SavedAt:       po.CreatedAt,
		UpdatedAt:     po.UpdatedAt,
	}
}
