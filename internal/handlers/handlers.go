package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/breatheapp/breathe-backend/internal/metrics"
	"github.com/breatheapp/breathe-backend/internal/models"
	"github.com/breatheapp/breathe-backend/internal/services"
	"github.com/breatheapp/breathe-backend/internal/store"
)

// storeTimeout bounds every profile-store call made from a request handler.
const storeTimeout = 5 * time.Second

// Handler carries the explicitly constructed dependencies for all HTTP
// endpoints; nothing here is package-level state.
type Handler struct {
	Store    store.ProfileStore
	Sessions services.SessionService
	Advisor  services.Advisor
	Messages *services.DailyMessageService
	Rates    metrics.Rates
}

func NewHandler(s store.ProfileStore, sessions services.SessionService, advisor services.Advisor, messages *services.DailyMessageService, rates metrics.Rates) *Handler {
	return &Handler{
		Store:    s,
		Sessions: sessions,
		Advisor:  advisor,
		Messages: messages,
		Rates:    rates,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func extractBearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// resolveUID maps the request's bearer token to a user identifier.
func (h *Handler) resolveUID(r *http.Request) (string, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return "", false
	}
	uid, ok, err := h.Sessions.Validate(r.Context(), token)
	if err != nil || !ok {
		return "", false
	}
	return uid, true
}

func storeContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, storeTimeout)
}

// profilePayload is the dashboard view of a profile: the stored fields, the
// message to display (fallback-filled, never persisted as such), and a stats
// snapshot taken at response time.
type profilePayload struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	QuitDate      time.Time                 `json:"quit_date"`
	Reason        string                    `json:"reason"`
	TodaysMessage string                    `json:"todays_message"`
	MessageDate   string                    `json:"message_date,omitempty"`
	Stats         metrics.Snapshot          `json:"stats"`
	Milestones    []metrics.MilestoneStatus `json:"milestones"`
}

func (h *Handler) buildProfilePayload(p *models.UserProfile, now time.Time) profilePayload {
	snap := metrics.Compute(p.QuitDate, now, h.Rates)

	message := services.FallbackDailyMessage
	messageDate := ""
	if p.DailyMessage != nil {
		message = p.DailyMessage.Text
		messageDate = p.DailyMessage.Date
	}

	return profilePayload{
		ID:            p.ID,
		Name:          p.Name,
		QuitDate:      p.QuitDate,
		Reason:        p.Reason,
		TodaysMessage: message,
		MessageDate:   messageDate,
		Stats:         snap,
		Milestones:    metrics.MilestoneStatuses(snap.TotalHours),
	}
}
