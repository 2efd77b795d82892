package biz

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/leadpilot/leadpilot-backend/internal/pkg/errors"
	userbiz "github.com/leadpilot/leadpilot-backend/internal/user/biz"
	"go.uber.org/zap"
)

// Lead statuses in pipeline order
const (
	StatusNew           = "new"
	StatusContacted     = "contacted"
	StatusResponded     = "responded"
	StatusConverted     = "converted"
	StatusNotInterested = "not_interested"
)

var validStatuses = map[string]bool{
	StatusNew:           true,
	StatusContacted:     true,
	StatusResponded:     true,
	StatusConverted:     true,
	StatusNotInterested: true,
}

// IsValidStatus reports whether s is a known pipeline status
func IsValidStatus(s string) bool {
	return validStatuses[s]
}

// SavedLead is a lead a user has kept for outreach
type SavedLead struct {
	ID            string     `json:"id"`
	UserID        string     `json:"-"`
	BusinessName  string     `json:"business_name"`
	Address       string     `json:"address"`
	Phone         string     `json:"phone"`
	Category      string     `json:"category"`
	City          string     `json:"city"`
	HasWebsite    bool       `json:"has_website"`
	WebsiteURL    string     `json:"website_url,omitempty"`
	GoogleMapsURL string     `json:"google_maps_url"`
	Rating        *float64   `json:"rating,omitempty"`
	Reviews       int        `json:"reviews"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
	Tags          []string   `json:"tags"`
	ContactedAt   *time.Time `json:"contacted_at,omitempty"`
	SavedAt       time.Time  `json:"saved_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ListFilter narrows a saved-lead listing
type ListFilter struct {
	Status     string
	City       string
	HasWebsite *bool
	Search     string
	Limit      int
	Offset     int
}

// LeadUpdate carries the mutable fields of a saved lead; nil means keep
type LeadUpdate struct {
	Status *string
	Notes  *string
	Tags   []string
}

// LeadRepo defines data operations for saved leads
type LeadRepo interface {
	Create(ctx context.Context, lead *SavedLead) error
	CreateBatch(ctx context.Context, leads []*SavedLead) error
	GetByID(ctx context.Context, userID, id string) (*SavedLead, error)
	List(ctx context.Context, userID string, filter ListFilter) ([]*SavedLead, int64, error)
	Update(ctx context.Context, userID, id string, update LeadUpdate, contactedAt *time.Time) error
	Delete(ctx context.Context, userID, id string) error
	Count(ctx context.Context, userID string) (int64, error)
}

// UserReader is the slice of the user usecase the lead module depends on
type UserReader interface {
	GetProfile(ctx context.Context, id string) (*userbiz.User, error)
	ConsumeExport(ctx context.Context, id string) error
}

// LeadUseCase manages the saved-lead pipeline and CSV exports
type LeadUseCase struct {
	repo   LeadRepo
	users  UserReader
	logger *zap.Logger
	now    func() time.Time
}

func NewLeadUseCase(repo LeadRepo, users UserReader, logger *zap.Logger) *LeadUseCase {
	return &LeadUseCase{repo: repo, users: users, logger: logger, now: time.Now}
}

// Save stores one lead, enforcing the tier's saved-lead cap
func (uc *LeadUseCase) Save(ctx context.Context, userID string, lead *SavedLead) (*SavedLead, error) {
	if lead.BusinessName == "" {
		return nil, apperrors.New(apperrors.ErrLeadInvalidInput, "business_name is required")
	}

	if err := uc.checkQuota(ctx, userID, 1); err != nil {
		return nil, err
	}

	uc.prepare(userID, lead)
	if err := uc.repo.Create(ctx, lead); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	return lead, nil
}

// SaveBatch stores several leads at once, enforcing the cap for the whole
// batch before writing any row
func (uc *LeadUseCase) SaveBatch(ctx context.Context, userID string, leads []*SavedLead) ([]*SavedLead, error) {
	if len(leads) == 0 {
		return nil, apperrors.New(apperrors.ErrLeadInvalidInput, "no leads provided")
	}
	for _, lead := range leads {
		if lead.BusinessName == "" {
			return nil, apperrors.New(apperrors.ErrLeadInvalidInput, "business_name is required")
		}
	}

	if err := uc.checkQuota(ctx, userID, len(leads)); err != nil {
		return nil, err
	}

	for _, lead := range leads {
		uc.prepare(userID, lead)
	}
	if err := uc.repo.CreateBatch(ctx, leads); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	return leads, nil
}

func (uc *LeadUseCase) prepare(userID string, lead *SavedLead) {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	lead.UserID = userID
	if lead.Status == "" {
		lead.Status = StatusNew
	}
	if lead.Tags == nil {
		lead.Tags = []string{}
	}
	now := uc.now()
	lead.SavedAt = now
	lead.UpdatedAt = now
}

func (uc *LeadUseCase) checkQuota(ctx context.Context, userID string, adding int) error {
	user, err := uc.users.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	limits := userbiz.LimitsFor(user.SubscriptionTier)
	if limits.SavedLeads == userbiz.Unlimited {
		return nil
	}

	count, err := uc.repo.Count(ctx, userID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	if int(count)+adding > limits.SavedLeads {
		return apperrors.New(apperrors.ErrUserSavedLeadLimit,
			fmt.Sprintf("plan allows %d saved leads", limits.SavedLeads))
	}
	return nil
}

// Get returns one saved lead owned by the user
func (uc *LeadUseCase) Get(ctx context.Context, userID, id string) (*SavedLead, error) {
	lead, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrLeadNotFound)
	}
	return lead, nil
}

// List returns the user's saved leads with the total row count
func (uc *LeadUseCase) List(ctx context.Context, userID string, filter ListFilter) ([]*SavedLead, int64, error) {
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, apperrors.New(apperrors.ErrLeadInvalidStatus, filter.Status)
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}

	leads, total, err := uc.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return leads, total, nil
}

// Update mutates status, notes or tags of a saved lead. Moving into the
// contacted status stamps contacted_at.
func (uc *LeadUseCase) Update(ctx context.Context, userID, id string, update LeadUpdate) (*SavedLead, error) {
	if update.Status != nil && !IsValidStatus(*update.Status) {
		return nil, apperrors.New(apperrors.ErrLeadInvalidStatus, *update.Status)
	}

	if _, err := uc.Get(ctx, userID, id); err != nil {
		return nil, err
	}

	var contactedAt *time.Time
	if update.Status != nil && *update.Status == StatusContacted {
		now := uc.now()
		contactedAt = &now
	}

	if err := uc.repo.Update(ctx, userID, id, update, contactedAt); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	return uc.Get(ctx, userID, id)
}

// Delete removes a saved lead owned by the user
func (uc *LeadUseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.Get(ctx, userID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, userID, id)
}

// CSVExport is a rendered export file
type CSVExport struct {
	Filename string
	Content  []byte
	Count    int
}

// ExportCSV renders the user's saved leads (optionally filtered) as CSV
// and counts the export against the monthly cap
func (uc *LeadUseCase) ExportCSV(ctx context.Context, userID string, filter ListFilter) (*CSVExport, error) {
	if err := uc.users.ConsumeExport(ctx, userID); err != nil {
		return nil, err
	}

	filter.Limit = 0
	filter.Offset = 0
	leads, _, err := uc.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Business Name", "Phone", "City", "Address", "Google Maps Link"})
	for _, lead := range leads {
		_ = w.Write([]string{lead.BusinessName, lead.Phone, lead.City, lead.Address, lead.GoogleMapsURL})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	uc.logger.Info("leads exported",
		zap.String("user_id", userID),
		zap.Int("count", len(leads)))

	return &CSVExport{
		Filename: fmt.Sprintf("leads_export_%s.csv", uc.now().Format("2006-01-02")),
		Content:  buf.Bytes(),
		Count:    len(leads),
	}, nil
}
