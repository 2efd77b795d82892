package data

import (
	"context"
	"time"

	leaddata "github.com/leadpilot/leadpilot-backend/internal/lead/data"
	"github.com/leadpilot/leadpilot-backend/internal/template/biz"
	"gorm.io/gorm"
)

// EmailTemplatePO is the database model for outreach templates
type EmailTemplatePO struct {
	ID        string                   `gorm:"type:uuid;primarykey"`
	UserID    string                   `gorm:"type:uuid;not null;index:idx_email_templates_user"`
	Name      string                   `gorm:"size:100;not null"`
	Subject   string                   `gorm:"size:255;not null"`
	Body      string                   `gorm:"type:text;not null"`
	Variables leaddata.StringArrayJSON `gorm:"type:jsonb;default:'[]'"`
	CreatedAt time.Time                `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time                `gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt gorm.DeletedAt           `gorm:"index"`
}

func (EmailTemplatePO) TableName() string {
	return "email_templates"
}

// TemplateRepo implements biz.TemplateRepo
type TemplateRepo struct {
	db *gorm.DB
}

func NewTemplateRepo(db *gorm.DB) biz.TemplateRepo {
	return &TemplateRepo{db: db}
}

func (r *TemplateRepo) Create(ctx context.Context, tpl *biz.EmailTemplate) error {
	return r.db.WithContext(ctx).Create(toPO(tpl)).Error
}

func (r *TemplateRepo) GetByID(ctx context.Context, userID, id string) (*biz.EmailTemplate, error) {
	var po EmailTemplatePO
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&po).Error; err != nil {
		return nil, err
	}
	return toTemplate(&po), nil
}

func (r *TemplateRepo) List(ctx context.Context, userID string) ([]*biz.EmailTemplate, error) {
	var pos []EmailTemplatePO
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&pos).Error; err != nil {
		return nil, err
	}

	templates := make([]*biz.EmailTemplate, 0, len(pos))
	for i := range pos {
		templates = append(templates, toTemplate(&pos[i]))
	}
	return templates, nil
}

func (r *TemplateRepo) Update(ctx context.Context, tpl *biz.EmailTemplate) error {
	return r.db.WithContext(ctx).Model(&EmailTemplatePO{}).
		Where("id = ? AND user_id = ?", tpl.ID, tpl.UserID).
		Updates(map[string]interface{}{
			"name":       tpl.Name,
			"subject":    tpl.Subject,
			"body":       tpl.Body,
			"variables":  leaddata.StringArrayJSON(tpl.Variables),
			"updated_at": tpl.UpdatedAt,
		}).Error
}

func (r *TemplateRepo) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&EmailTemplatePO{}).Error
}

func (r *TemplateRepo) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&EmailTemplatePO{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func toPO(tpl *biz.EmailTemplate) *EmailTemplatePO {
	return &EmailTemplatePO{
		ID:        tpl.ID,
		UserID:    tpl.UserID,
		Name:      tpl.Name,
		Subject:   tpl.Subject,
		Body:      tpl.Body,
		Variables: leaddata.StringArrayJSON(tpl.Variables),
		CreatedAt: tpl.CreatedAt,
		UpdatedAt: tpl.UpdatedAt,
	}
}

func toTemplate(po *EmailTemplatePO) *biz.EmailTemplate {
	return &biz.EmailTemplate{
		ID:        po.ID,
		UserID:    po.UserID,
		Name:      po.Name,
		Subject:   po.Subject,
		Body:      po.Body,
		Variables: po.Variables,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	}
}
