package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	leadbiz "github.com/leadpilot/leadpilot-backend/internal/lead/biz"
	apperrors "github.com/leadpilot/leadpilot-backend/internal/pkg/errors"
	userbiz "github.com/leadpilot/leadpilot-backend/internal/user/biz"
	"go.uber.org/zap"
)

// TemplateVariables lists the placeholders a template body may contain
var TemplateVariables = []string{
	"business_name", "category", "city", "phone", "address",
}

// EmailTemplate is a reusable outreach message
type EmailTemplate struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Variables []string  `json:"variables"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TemplateRepo defines data operations for email templates
type TemplateRepo interface {
	Create(ctx context.Context, tpl *EmailTemplate) error
	GetByID(ctx context.Context, userID, id string) (*EmailTemplate, error)
	List(ctx context.Context, userID string) ([]*EmailTemplate, error)
	Update(ctx context.Context, tpl *EmailTemplate) error
	Delete(ctx context.Context, userID, id string) error
	Count(ctx context.Context, userID string) (int64, error)
}

// Sender delivers a rendered message
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// UserReader is the slice of the user usecase templates depend on
type UserReader interface {
	GetProfile(ctx context.Context, id string) (*userbiz.User, error)
}

// LeadReader loads saved leads for rendering and marks them contacted
type LeadReader interface {
	Get(ctx context.Context, userID, id string) (*leadbiz.SavedLead, error)
	Update(ctx context.Context, userID, id string, update leadbiz.LeadUpdate) (*leadbiz.SavedLead, error)
}

// TemplateUseCase manages outreach templates, rendering and delivery
type TemplateUseCase struct {
	repo   TemplateRepo
	users  UserReader
	leads  LeadReader
	sender Sender
	logger *zap.Logger
}

func NewTemplateUseCase(repo TemplateRepo, users UserReader, leads LeadReader, sender Sender, logger *zap.Logger) *TemplateUseCase {
	return &TemplateUseCase{repo: repo, users: users, leads: leads, sender: sender, logger: logger}
}

// Create stores a new template, enforcing the tier's template cap
func (uc *TemplateUseCase) Create(ctx context.Context, userID, name, subject, body string) (*EmailTemplate, error) {
	if name == "" || subject == "" || body == "" {
		return nil, apperrors.New(apperrors.ErrTemplateInvalidInput, "name, subject and body are required")
	}

	user, err := uc.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	limits := userbiz.LimitsFor(user.SubscriptionTier)
	if limits.EmailTemplates != userbiz.Unlimited {
		count, err := uc.repo.Count(ctx, userID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
		}
		if int(count) >= limits.EmailTemplates {
			return nil, apperrors.New(apperrors.ErrUserTemplateLimit,
				fmt.Sprintf("plan allows %d templates", limits.EmailTemplates))
		}
	}

	now := time.Now()
	tpl := &EmailTemplate{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Subject:   subject,
		Body:      body,
		Variables: extractVariables(subject + " " + body),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.repo.Create(ctx, tpl); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return tpl, nil
}

// Get returns one template owned by the user
func (uc *TemplateUseCase) Get(ctx context.Context, userID, id string) (*EmailTemplate, error) {
	tpl, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTemplateNotFound)
	}
	return tpl, nil
}

// List returns all of the user's templates
func (uc *TemplateUseCase) List(ctx context.Context, userID string) ([]*EmailTemplate, error) {
	templates, err := uc.repo.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return templates, nil
}

// Update mutates a template's name, subject or body
func (uc *TemplateUseCase) Update(ctx context.Context, userID, id, name, subject, body string) (*EmailTemplate, error) {
	tpl, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		tpl.Name = name
	}
	if subject != "" {
		tpl.Subject = subject
	}
	if body != "" {
		tpl.Body = body
	}
	tpl.Variables = extractVariables(tpl.Subject + " " + tpl.Body)
	tpl.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, tpl); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return tpl, nil
}

// Delete removes a template owned by the user
func (uc *TemplateUseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.Get(ctx, userID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, userID, id)
}

// RenderForLead substitutes lead fields into a template's subject and body
func (uc *TemplateUseCase) RenderForLead(ctx context.Context, userID, templateID, leadID string) (subject, body string, lead *leadbiz.SavedLead, err error) {
	tpl, err := uc.Get(ctx, userID, templateID)
	if err != nil {
		return "", "", nil, err
	}

	lead, err = uc.leads.Get(ctx, userID, leadID)
	if err != nil {
		return "", "", nil, err
	}

	return Render(tpl.Subject, lead), Render(tpl.Body, lead), lead, nil
}

// Send renders a template for a lead, delivers it and marks the lead
// contacted
func (uc *TemplateUseCase) Send(ctx context.Context, userID, templateID, leadID, to string) error {
	if to == "" {
		return apperrors.New(apperrors.ErrTemplateInvalidInput, "recipient address is required")
	}

	subject, body, lead, err := uc.RenderForLead(ctx, userID, templateID, leadID)
	if err != nil {
		return err
	}

	if err := uc.sender.Send(ctx, to, subject, body); err != nil {
		return apperrors.Wrap(err, apperrors.ErrTemplateSendFailed)
	}

	status := leadbiz.StatusContacted
	if _, err := uc.leads.Update(ctx, userID, lead.ID, leadbiz.LeadUpdate{Status: &status}); err != nil {
		uc.logger.Warn("failed to mark lead contacted",
			zap.String("lead_id", lead.ID), zap.Error(err))
	}

	return nil
}

// Render substitutes {{variable}} placeholders with lead fields
func Render(text string, lead *leadbiz.SavedLead) string {
	replacer := strings.NewReplacer(
		"{{business_name}}", lead.BusinessName,
		"{{category}}", lead.Category,
		"{{city}}", lead.City,
		"{{phone}}", lead.Phone,
		"{{address}}", lead.Address,
	)
	return replacer.Replace(text)
}

// extractVariables returns the known placeholders present in text
func extractVariables(text string) []string {
	found := []string{}
	for _, v := range TemplateVariables {
		if strings.Contains(text, "{{"+v+"}}") {
			found = append(found, v)
		}
	}
	return found
}
