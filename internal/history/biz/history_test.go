package biz

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	apperrors "github.com/leadpilot/leadpilot-backend/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeHistoryRepo struct {
	searches  map[string]*SavedSearch
	createErr error
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{searches: map[string]*SavedSearch{}}
}

func (f *fakeHistoryRepo) Create(_ context.Context, search *SavedSearch) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.searches[search.ID] = search
	return nil
}

func (f *fakeHistoryRepo) List(_ context.Context, userID string, limit int) ([]*SavedSearch, error) {
	var out []*SavedSearch
	for _, s := range f.searches {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeHistoryRepo) GetByID(_ context.Context, userID, id string) (*SavedSearch, error) {
	s, ok := f.searches[id]
	if !ok || s.UserID != userID {
		return nil, errors.New("record not found")
	}
	return s, nil
}

func (f *fakeHistoryRepo) Delete(_ context.Context, _, id string) error {
	delete(f.searches, id)
	return nil
}

func TestRecordFillsDefaults(t *testing.T) {
	repo := newFakeHistoryRepo()
	uc := NewHistoryUseCase(repo, zap.NewNop())

	uc.Record(context.Background(), &SavedSearch{
		UserID:       "u1",
		Keyword:      "plumbers",
		City:         "Austin",
		ResultsCount: 8,
	})

	require.Len(t, repo.searches, 1)
	for _, s := range repo.searches {
		assert.NotEmpty(t, s.ID)
		assert.False(t, s.CreatedAt.IsZero())
	}
}

func TestRecordSwallowsErrors(t *testing.T) {
	repo := newFakeHistoryRepo()
	repo.createErr = errors.New("db down")
	uc := NewHistoryUseCase(repo, zap.NewNop())

	// Must not panic or propagate
	uc.Record(context.Background(), &SavedSearch{UserID: "u1", Keyword: "plumbers", City: "Austin"})
}

func TestListNewestFirstWithLimit(t *testing.T) {
	repo := newFakeHistoryRepo()
	uc := NewHistoryUseCase(repo, zap.NewNop())

	base := time.Now()
	for i := 0; i < 5; i++ {
		uc.Record(context.Background(), &SavedSearch{
			UserID:    "u1",
			Keyword:   "plumbers",
			City:      "Austin",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	searches, err := uc.List(context.Background(), "u1", 3)

	require.NoError(t, err)
	require.Len(t, searches, 3)
	assert.True(t, searches[0].CreatedAt.After(searches[1].CreatedAt))
	assert.True(t, searches[1].CreatedAt.After(searches[2].CreatedAt))
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	repo := newFakeHistoryRepo()
	uc := NewHistoryUseCase(repo, zap.NewNop())

	uc.Record(context.Background(), &SavedSearch{ID: "s1", UserID: "u1", Keyword: "plumbers", City: "Austin"})

	err := uc.Delete(context.Background(), "u2", "s1")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSearchNotFound))

	require.NoError(t, uc.Delete(context.Background(), "u1", "s1"))
	assert.Empty(t, repo.searches)
}
