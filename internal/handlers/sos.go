package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/breatheapp/breathe-backend/internal/metrics"
	"github.com/breatheapp/breathe-backend/internal/services"
	"github.com/breatheapp/breathe-backend/internal/store"
)

// SOSResponse carries immediate craving advice.
type SOSResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Advice  string `json:"advice,omitempty"`
}

// CravingSOS returns fresh craving advice on every call - unlike the daily
// message, nothing here is cached. Generation failure is never an error for
// the caller; the static SOS fallback is substituted instead.
func (h *Handler) CravingSOS(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.resolveUID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, SOSResponse{Success: false, Message: "Missing or invalid session token"})
		return
	}

	ctx, cancel := storeContext(r.Context())
	defer cancel()

	profile, err := h.Store.Load(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, SOSResponse{Success: false, Message: "Profile not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, SOSResponse{Success: false, Message: "Failed to fetch user profile."})
		return
	}

	days := metrics.DaysSinceQuit(profile.QuitDate, time.Now())
	advice, err := h.Advisor.CravingAdvice(r.Context(), profile.Name, days, profile.Reason)
	if err != nil {
		log.Printf("craving advice generation failed for %s: %v", uid, err)
		advice = services.FallbackCravingAdvice
	}

	writeJSON(w, http.StatusOK, SOSResponse{Success: true, Advice: advice})
}
