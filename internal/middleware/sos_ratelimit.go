package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/breatheapp/breathe-backend/pkg/clientip"
)

// SOS craving-advice rate limit: per-IP, in memory. Every SOS request is a
// fresh Gemini call, so this is the one endpoint that can burn provider quota.
// 6/min with burst 3 is plenty for a human tapping the button.

const (
	sosRPS        = 0.1 // 6/min
	sosBurst      = 3
	sosCleanupMin = 5 * time.Minute
	sosLimiterTTL = 30 * time.Minute
)

type sosLimiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

var (
	sosEntries   = make(map[string]*sosLimiterEntry)
	sosEntriesMu sync.Mutex
	sosCleanup   bool
)

func getSOSLimiter(ip string) *rate.Limiter {
	sosEntriesMu.Lock()
	defer sosEntriesMu.Unlock()
	startSOSCleanupOnce()

	e, ok := sosEntries[ip]
	if !ok {
		e = &sosLimiterEntry{
			limiter: rate.NewLimiter(rate.Limit(sosRPS), sosBurst),
			lastUse: time.Now(),
		}
		sosEntries[ip] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func startSOSCleanupOnce() {
	if sosCleanup {
		return
	}
	sosCleanup = true
	go func() {
		ticker := time.NewTicker(sosCleanupMin)
		defer ticker.Stop()
		for range ticker.C {
			sosEntriesMu.Lock()
			now := time.Now()
			for k, e := range sosEntries {
				if now.Sub(e.lastUse) > sosLimiterTTL {
					delete(sosEntries, k)
				}
			}
			sosEntriesMu.Unlock()
		}
	}()
}

// SOSRateLimit applies rate limiting only to POST /api/sos.
// Returns 429 with headers when exceeded.
func SOSRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasPrefix(r.URL.Path, "/api/sos") {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientip.RealClientIP(r)
		if !getSOSLimiter(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(sosBurst))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Too many SOS requests. Take a slow breath and try again in a moment."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
