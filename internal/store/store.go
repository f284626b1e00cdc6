// Package store persists the user profile. Exactly one backend is active for
// the lifetime of the process: MongoDB when a connection string is configured,
// otherwise a local single-file store (demo mode). Callers never learn which.
package store

import (
	"context"
	"errors"

	"github.com/breatheapp/breathe-backend/internal/models"
)

// ErrNotFound is returned by Load when no profile exists for the identifier.
var ErrNotFound = errors.New("profile not found")

// ProfileStore is the persistence contract for user profiles.
type ProfileStore interface {
	// Load returns the profile for id, or ErrNotFound.
	Load(ctx context.Context, id string) (*models.UserProfile, error)

	// Create persists a new profile. Safe against double submission: the
	// identifier is the key and the last write wins.
	Create(ctx context.Context, p *models.UserProfile) error

	// UpdateDailyMessage writes the cached message and its calendar date
	// together. No other profile field is touched.
	UpdateDailyMessage(ctx context.Context, id string, msg models.DailyMessage) error
}
