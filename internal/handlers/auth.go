package handlers

import (
	"net/http"

	"github.com/google/uuid"
)

// AnonymousSignInResponse is returned after establishing an anonymous identity.
type AnonymousSignInResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	UID     string `json:"uid,omitempty"`
	Token   string `json:"token,omitempty"`
}

// AnonymousSignIn establishes a fresh anonymous identity and a session token
// for it. Clients call this once per device and persist the pair; identity
// failure here is the one fatal, user-visible auth error in the app.
func (h *Handler) AnonymousSignIn(w http.ResponseWriter, r *http.Request) {
	uid := uuid.NewString()

	token, err := h.Sessions.Create(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, AnonymousSignInResponse{
			Success: false,
			Message: "Authentication failed. Please try again.",
		})
		return
	}

	writeJSON(w, http.StatusOK, AnonymousSignInResponse{
		Success: true,
		UID:     uid,
		Token:   token,
	})
}
