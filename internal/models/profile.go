package models

import (
	"time"
)

// DateLayout is the calendar-date format used for the daily message cache (no time component).
const DateLayout = "2006-01-02"

// DailyMessage is the cached motivational message for a single calendar day.
// Text and Date are always written together; a profile either has both or neither.
type DailyMessage struct {
	Text string `bson:"text" json:"text"`
	Date string `bson:"date" json:"date"` // YYYY-MM-DD
}

// UserProfile is the sole persisted entity. ID, Name, QuitDate and Reason are
// set once at onboarding and never change; only DailyMessage mutates afterwards.
type UserProfile struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	Name     string    `bson:"name" json:"name"`
	QuitDate time.Time `bson:"quit_date" json:"quit_date"`
	Reason   string    `bson:"reason" json:"reason"`

	// Absent until the first successful daily-message generation.
	DailyMessage *DailyMessage `bson:"daily_message,omitempty" json:"daily_message,omitempty"`
}

// MessageFreshOn reports whether the cached message was generated for the given
// calendar day. Fresh messages are reused without a new generation call.
func (p *UserProfile) MessageFreshOn(today string) bool {
	return p.DailyMessage != nil && p.DailyMessage.Date == today && p.DailyMessage.Text != ""
}
