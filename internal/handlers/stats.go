package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/breatheapp/breathe-backend/internal/metrics"
	"github.com/breatheapp/breathe-backend/internal/store"
)

// StatsResponse is a one-shot snapshot of smoke-free time and milestones.
type StatsResponse struct {
	Success    bool                      `json:"success"`
	Message    string                    `json:"message,omitempty"`
	Stats      *metrics.Snapshot         `json:"stats,omitempty"`
	Milestones []metrics.MilestoneStatus `json:"milestones,omitempty"`
}

// GetStats recomputes the dashboard figures from the stored quit date and the
// current time. Pure read; nothing is persisted.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.resolveUID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, StatsResponse{Success: false, Message: "Missing or invalid session token"})
		return
	}

	ctx, cancel := storeContext(r.Context())
	defer cancel()

	profile, err := h.Store.Load(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, StatsResponse{Success: false, Message: "Profile not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, StatsResponse{Success: false, Message: "Failed to fetch user profile."})
		return
	}

	snap := metrics.Compute(profile.QuitDate, time.Now(), h.Rates)
	writeJSON(w, http.StatusOK, StatsResponse{
		Success:    true,
		Stats:      &snap,
		Milestones: metrics.MilestoneStatuses(snap.TotalHours),
	})
}
