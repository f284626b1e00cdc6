package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionsCreateAndValidate(t *testing.T) {
	s := NewMemorySessions()
	ctx := context.Background()

	token, err := s.Create(ctx, "uid-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	uid, ok, err := s.Validate(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "uid-1", uid)
}

func TestMemorySessionsUnknownToken(t *testing.T) {
	s := NewMemorySessions()

	_, ok, err := s.Validate(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.Validate(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemorySessionsExpiry(t *testing.T) {
	s := NewMemorySessions()
	ctx := context.Background()

	token, err := s.Create(ctx, "uid-1")
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(SessionDuration + time.Minute) }

	_, ok, err := s.Validate(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok, "expired token must not validate")
}

func TestMemorySessionsDistinctTokens(t *testing.T) {
	s := NewMemorySessions()
	ctx := context.Background()

	a, err := s.Create(ctx, "uid-a")
	require.NoError(t, err)
	b, err := s.Create(ctx, "uid-b")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)

	uid, ok, _ := s.Validate(ctx, b)
	assert.True(t, ok)
	assert.Equal(t, "uid-b", uid)
}
