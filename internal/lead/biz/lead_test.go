package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	apperrors "github.com/leadpilot/leadpilot-backend/internal/pkg/errors"
	userbiz "github.com/leadpilot/leadpilot-backend/internal/user/biz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLeadRepo struct {
	leads map[string]*SavedLead
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: map[string]*SavedLead{}}
}

func (f *fakeLeadRepo) Create(_ context.Context, lead *SavedLead) error {
	f.leads[lead.ID] = lead
	return nil
}

func (f *fakeLeadRepo) CreateBatch(_ context.Context, leads []*SavedLead) error {
	for _, lead := range leads {
		f.leads[lead.ID] = lead
	}
	return nil
}

func (f *fakeLeadRepo) GetByID(_ context.Context, userID, id string) (*SavedLead, error) {
	lead, ok := f.leads[id]
	if !ok || lead.UserID != userID {
		return nil, errors.New("record not found")
	}
	return lead, nil
}

func (f *fakeLeadRepo) List(_ context.Context, userID string, filter ListFilter) ([]*SavedLead, int64, error) {
	var out []*SavedLead
	for _, lead := range f.leads {
		if lead.UserID != userID {
			continue
		}
		if filter.Status != "" && lead.Status != filter.Status {
			continue
		}
		out = append(out, lead)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLeadRepo) Update(_ context.Context, userID, id string, update LeadUpdate, contactedAt *time.Time) error {
	lead, ok := f.leads[id]
	if !ok || lead.UserID != userID {
		return errors.New("record not found")
	}
	if update.Status != nil {
		lead.Status = *update.Status
	}
	if update.Notes != nil {
		lead.Notes = *update.Notes
	}
	if update.Tags != nil {
		lead.Tags = update.Tags
	}
	if contactedAt != nil {
		lead.ContactedAt = contactedAt
	}
	return nil
}

func (f *fakeLeadRepo) Delete(_ context.Context, userID, id string) error {
	delete(f.leads, id)
	return nil
}

func (f *fakeLeadRepo) Count(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, lead := range f.leads {
		if lead.UserID == userID {
			n++
		}
	}
	return n, nil
}

type fakeUserReader struct {
	tier      string
	exportErr error
	exports   int
}

func (f *fakeUserReader) GetProfile(_ context.Context, id string) (*userbiz.User, error) {
	return &userbiz.User{ID: id, SubscriptionTier: f.tier}, nil
}

func (f *fakeUserReader) ConsumeExport(_ context.Context, _ string) error {
	if f.exportErr != nil {
		return f.exportErr
	}
	f.exports++
	return nil
}

func newTestLeadUseCase(tier string) (*LeadUseCase, *fakeLeadRepo, *fakeUserReader) {
	repo := newFakeLeadRepo()
	users := &fakeUserReader{tier: tier}
	uc := NewLeadUseCase(repo, users, zap.NewNop())
	return uc, repo, users
}

func TestSaveDefaults(t *testing.T) {
	uc, _, _ := newTestLeadUseCase(userbiz.TierPro)

	lead, err := uc.Save(context.Background(), "u1", &SavedLead{BusinessName: "Ace Plumbing"})

	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, "u1", lead.UserID)
	assert.Equal(t, StatusNew, lead.Status)
	assert.NotNil(t, lead.Tags)
	assert.False(t, lead.SavedAt.IsZero())
}

func TestSaveRequiresBusinessName(t *testing.T) {
	uc, _, _ := newTestLeadUseCase(userbiz.TierPro)

	_, err := uc.Save(context.Background(), "u1", &SavedLead{})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrLeadInvalidInput))
}

func TestSaveBatchEnforcesQuota(t *testing.T) {
	uc, repo, _ := newTestLeadUseCase(userbiz.TierStarter)

	// Fill to one below the starter cap of 500
	for i := 0; i < 499; i++ {
		id := fmt.Sprintf("existing-%d", i)
		repo.leads[id] = &SavedLead{ID: id, UserID: "u1", BusinessName: "Biz"}
	}

	_, err := uc.SaveBatch(context.Background(), "u1", []*SavedLead{
		{BusinessName: "One"},
		{BusinessName: "Two"},
	})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUserSavedLeadLimit))
}

func TestUpdateStatusStampsContactedAt(t *testing.T) {
	uc, _, _ := newTestLeadUseCase(userbiz.TierPro)

	lead, err := uc.Save(context.Background(), "u1", &SavedLead{BusinessName: "Ace"})
	require.NoError(t, err)

	status := StatusContacted
	updated, err := uc.Update(context.Background(), "u1", lead.ID, LeadUpdate{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, StatusContacted, updated.Status)
	require.NotNil(t, updated.ContactedAt)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	uc, _, _ := newTestLeadUseCase(userbiz.TierPro)

	status := "ghosted"
	_, err := uc.Update(context.Background(), "u1", "any", LeadUpdate{Status: &status})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrLeadInvalidStatus))
}

func TestGetEnforcesOwnership(t *testing.T) {
	uc, _, _ := newTestLeadUseCase(userbiz.TierPro)

	lead, err := uc.Save(context.Background(), "u1", &SavedLead{BusinessName: "Ace"})
	require.NoError(t, err)

	_, err = uc.Get(context.Background(), "u2", lead.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrLeadNotFound))
}

func TestExportCSV(t *testing.T) {
	uc, _, users := newTestLeadUseCase(userbiz.TierPro)

	_, err := uc.Save(context.Background(), "u1", &SavedLead{
		BusinessName:  `Ace "Best" Plumbing`,
		Phone:         "(512) 555-0100",
		City:          "Austin",
		Address:       "100 Main St, Austin",
		GoogleMapsURL: "https://maps.google.com/?cid=1",
	})
	require.NoError(t, err)

	export, err := uc.ExportCSV(context.Background(), "u1", ListFilter{})

	require.NoError(t, err)
	assert.Equal(t, 1, users.exports)
	assert.Equal(t, 1, export.Count)
	assert.True(t, strings.HasPrefix(export.Filename, "leads_export_"))
	assert.True(t, strings.HasSuffix(export.Filename, ".csv"))

	content := string(export.Content)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Business Name,Phone,City,Address,Google Maps Link", lines[0])
	// Embedded quotes and commas are escaped per RFC 4180
	assert.Contains(t, lines[1], `"Ace ""Best"" Plumbing"`)
	assert.Contains(t, lines[1], `"100 Main St, Austin"`)
}

func TestExportCSVBlockedAtLimit(t *testing.T) {
	uc, _, users := newTestLeadUseCase(userbiz.TierStarter)
	users.exportErr = apperrors.New(apperrors.ErrUserExportLimit)

	_, err := uc.ExportCSV(context.Background(), "u1", ListFilter{})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUserExportLimit))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusNew, StatusContacted, StatusResponded, StatusConverted, StatusNotInterested} {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus("ghosted"))
	assert.False(t, IsValidStatus(""))
}
