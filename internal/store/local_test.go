package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breatheapp/breathe-backend/internal/models"
)

func newTestProfile() *models.UserProfile {
	created := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	return &models.UserProfile{
		ID:        "guest_abc123xyz",
		CreatedAt: created,
		UpdatedAt: created,
		Name:      "Sam",
		QuitDate:  time.Date(2024, 2, 28, 20, 0, 0, 0, time.UTC),
		Reason:    "my kids",
	}
}

func TestLocalStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	ctx := context.Background()

	s, err := NewLocalStore(path)
	require.NoError(t, err)

	p := newTestProfile()
	require.NoError(t, s.Create(ctx, p))

	got, err := s.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Reason, got.Reason)
	assert.True(t, p.QuitDate.Equal(got.QuitDate))
	assert.Nil(t, got.DailyMessage)
}

func TestLocalStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	ctx := context.Background()

	s, err := NewLocalStore(path)
	require.NoError(t, err)

	p := newTestProfile()
	require.NoError(t, s.Create(ctx, p))
	require.NoError(t, s.UpdateDailyMessage(ctx, p.ID, models.DailyMessage{Text: "Stay strong.", Date: "2024-03-01"}))

	reopened, err := NewLocalStore(path)
	require.NoError(t, err)

	got, err := reopened.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.True(t, p.QuitDate.Equal(got.QuitDate))
	require.NotNil(t, got.DailyMessage)
	assert.Equal(t, "Stay strong.", got.DailyMessage.Text)
	assert.Equal(t, "2024-03-01", got.DailyMessage.Date)
}

func TestLocalStoreLoadAbsent(t *testing.T) {
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	_, err = s.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreUpdateAbsent(t *testing.T) {
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	err = s.UpdateDailyMessage(context.Background(), "missing", models.DailyMessage{Text: "x", Date: "2024-03-01"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreCreateLastWriteWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	ctx := context.Background()

	s, err := NewLocalStore(path)
	require.NoError(t, err)

	p := newTestProfile()
	require.NoError(t, s.Create(ctx, p))

	resubmitted := *p
	resubmitted.Reason = "breathing easier"
	require.NoError(t, s.Create(ctx, &resubmitted))

	got, err := s.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "breathing easier", got.Reason)
}

func TestLocalStoreLoadReturnsCopy(t *testing.T) {
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)
	ctx := context.Background()

	p := newTestProfile()
	require.NoError(t, s.Create(ctx, p))

	got, err := s.Load(ctx, p.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := s.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sam", again.Name)
}
