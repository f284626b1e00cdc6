package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/breatheapp/breathe-backend/internal/metrics"
	"github.com/breatheapp/breathe-backend/internal/store"
)

var statsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// statsTick is the dashboard refresh cadence.
const statsTick = 1 * time.Second

// statsEvent is the message pushed to the client every tick.
type statsEvent struct {
	Type       string                    `json:"type"` // "stats"
	Stats      metrics.Snapshot          `json:"stats"`
	Milestones []metrics.MilestoneStatus `json:"milestones"`
}

// StatsWebSocket streams a stats snapshot every second for the connected
// client's profile. The ticker lives exactly as long as the connection: when
// the peer goes away the reader loop returns, the ticker stops, and the writer
// goroutine exits. Authentication via bearer token or `token` query parameter
// (browser WebSocket clients cannot set headers).
func (h *Handler) StatsWebSocket(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
	}

	uid, ok, err := h.Sessions.Validate(r.Context(), token)
	if err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	ctx, cancel := storeContext(r.Context())
	defer cancel()

	profile, err := h.Store.Load(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch user profile", http.StatusInternalServerError)
		return
	}
	quitDate := profile.QuitDate

	conn, err := statsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	done := make(chan struct{})

	// Writer goroutine: one snapshot immediately, then one per tick.
	go func() {
		ticker := time.NewTicker(statsTick)
		defer ticker.Stop()

		send := func() bool {
			snap := metrics.Compute(quitDate, time.Now(), h.Rates)
			evt := statsEvent{
				Type:       "stats",
				Stats:      snap,
				Milestones: metrics.MilestoneStatuses(snap.TotalHours),
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			return conn.WriteJSON(evt) == nil
		}

		if !send() {
			return
		}
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if !send() {
					return
				}
			}
		}
	}()

	// Reader loop: the client sends nothing meaningful; this exists to detect
	// disconnects and answer pings. Closing done tears the ticker down.
	defer close(done)
	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	}
}
