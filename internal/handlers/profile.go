package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/breatheapp/breathe-backend/internal/models"
	"github.com/breatheapp/breathe-backend/internal/store"
	"github.com/breatheapp/breathe-backend/pkg/utils"
)

// OnboardingRequest is the one-time profile creation form.
type OnboardingRequest struct {
	Name     string `json:"name"`
	QuitDate string `json:"quit_date"` // RFC 3339, or a datetime-local/date string
	Reason   string `json:"reason"`
}

// ProfileResponse wraps the dashboard payload.
type ProfileResponse struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
	Onboarded bool            `json:"onboarded"`
	Profile   *profilePayload `json:"profile,omitempty"`
}

// GetProfile loads the caller's profile and runs the daily-message sync before
// responding, so the dashboard never renders without an attempt at a message.
// Absent profile means the client should show onboarding.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.resolveUID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ProfileResponse{Success: false, Message: "Missing or invalid session token"})
		return
	}

	ctx, cancel := storeContext(r.Context())
	defer cancel()

	profile, err := h.Store.Load(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, ProfileResponse{Success: false, Onboarded: false, Message: "Profile not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ProfileResponse{Success: false, Message: "Failed to fetch user profile."})
		return
	}

	// The generation call has its own timeout; don't run it under the 5s store context.
	profile = h.Messages.Ensure(r.Context(), profile)

	payload := h.buildProfilePayload(profile, time.Now())
	writeJSON(w, http.StatusOK, ProfileResponse{Success: true, Onboarded: true, Profile: &payload})
}

// CompleteOnboarding creates the profile exactly once, assigns an identity
// (the session's uid, else a generated guest id), and runs the daily-message
// sync before the first response.
func (h *Handler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	var req OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ProfileResponse{Success: false, Message: "Invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Name == "" || req.Reason == "" {
		writeJSON(w, http.StatusBadRequest, ProfileResponse{Success: false, Message: "Name and reason are required"})
		return
	}

	quitDate, err := parseQuitDate(req.QuitDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ProfileResponse{Success: false, Message: "Invalid quit date"})
		return
	}

	uid, ok := h.resolveUID(r)
	if !ok {
		uid = utils.NewGuestID()
	}

	now := time.Now()
	profile := &models.UserProfile{
		ID:        uid,
		CreatedAt: now,
		UpdatedAt: now,
		Name:      req.Name,
		QuitDate:  quitDate,
		Reason:    req.Reason,
	}

	ctx, cancel := storeContext(r.Context())
	defer cancel()

	if err := h.Store.Create(ctx, profile); err != nil {
		writeJSON(w, http.StatusInternalServerError, ProfileResponse{Success: false, Message: "Failed to save your progress."})
		return
	}

	profile = h.Messages.Ensure(r.Context(), profile)

	payload := h.buildProfilePayload(profile, time.Now())
	writeJSON(w, http.StatusCreated, ProfileResponse{Success: true, Onboarded: true, Profile: &payload})
}

// parseQuitDate accepts the formats browsers produce: full RFC 3339, the
// datetime-local input value, and a bare date.
func parseQuitDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized quit date format")
}
