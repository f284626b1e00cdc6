package services

import (
	"context"
	"log"
	"time"

	"github.com/breatheapp/breathe-backend/internal/metrics"
	"github.com/breatheapp/breathe-backend/internal/models"
	"github.com/breatheapp/breathe-backend/internal/store"
)

// DailyMessageService keeps the profile's motivational message in sync with
// the calendar. A profile is in one of three states: no cached message yet,
// cached for an earlier day (stale), or cached for today (fresh). Only the
// first two trigger a generation call, and only the bootstrap and onboarding
// flows invoke Ensure - it is never polled.
type DailyMessageService struct {
	store   store.ProfileStore
	advisor Advisor
	now     func() time.Time
}

func NewDailyMessageService(s store.ProfileStore, a Advisor) *DailyMessageService {
	return &DailyMessageService{store: s, advisor: a, now: time.Now}
}

// Ensure returns the profile with a message valid for today when possible.
//
// Fresh cache: the profile is returned unchanged with no provider call.
// Otherwise a new message is generated and persisted together with today's
// date. Any failure - provider error, empty text, store write error - returns
// the input profile untouched, so the next load retries; nothing is surfaced
// to the user on this path.
func (s *DailyMessageService) Ensure(ctx context.Context, p *models.UserProfile) *models.UserProfile {
	now := s.now()
	today := now.Format(models.DateLayout)

	if p.MessageFreshOn(today) {
		return p
	}

	days := metrics.DaysSinceQuit(p.QuitDate, now)
	text, err := s.advisor.MotivationalQuote(ctx, p.Name, days, p.Reason)
	if err != nil {
		log.Printf("daily message generation failed for %s: %v", p.ID, err)
		return p
	}

	msg := models.DailyMessage{Text: text, Date: today}
	if err := s.store.UpdateDailyMessage(ctx, p.ID, msg); err != nil {
		log.Printf("daily message save failed for %s: %v", p.ID, err)
		return p
	}

	updated := *p
	updated.DailyMessage = &msg
	return &updated
}
