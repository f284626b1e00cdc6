// Package metrics derives all dashboard figures from the quit timestamp and
// the current time. Everything here is pure computation: no I/O, no failure
// modes, and nothing is ever persisted.
package metrics

import (
	"math"
	"time"
)

const (
	// DefaultCostPerHour is the money saved per smoke-free hour.
	DefaultCostPerHour = 0.52
	// DefaultUnitsPerHour is cigarettes avoided per hour (~20 per day).
	DefaultUnitsPerHour = 0.8333

	// Life-regained heuristic weights. A rough figure, not a medical one.
	lifeRegainedPerDay  = 1.5
	lifeRegainedPerHour = 0.06
)

// Rates are the configurable constants behind the derived stats.
type Rates struct {
	CostPerHour  float64
	UnitsPerHour float64
}

// DefaultRates returns the rates used when nothing is configured.
func DefaultRates() Rates {
	return Rates{CostPerHour: DefaultCostPerHour, UnitsPerHour: DefaultUnitsPerHour}
}

// Snapshot is the smoke-free time breakdown plus derived stats at one instant.
type Snapshot struct {
	ElapsedMs  int64   `json:"elapsed_ms"`
	TotalHours float64 `json:"total_hours"`

	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`

	MoneySaved        float64 `json:"money_saved"`
	UnitsAvoided      int     `json:"units_avoided"`
	LifeRegainedHours int     `json:"life_regained_hours"`
}

// Compute derives a snapshot from the quit timestamp and now. When now is
// before quitDate (clock skew, future-dated quit) every field stays at zero;
// no figure is ever negative.
func Compute(quitDate, now time.Time, r Rates) Snapshot {
	elapsed := now.Sub(quitDate).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}

	const (
		msPerSecond = 1000
		msPerMinute = 60 * msPerSecond
		msPerHour   = 60 * msPerMinute
		msPerDay    = 24 * msPerHour
	)

	snap := Snapshot{
		ElapsedMs:  elapsed,
		TotalHours: float64(elapsed) / float64(msPerHour),
		Days:       int(elapsed / msPerDay),
		Hours:      int((elapsed % msPerDay) / msPerHour),
		Minutes:    int((elapsed % msPerHour) / msPerMinute),
		Seconds:    int((elapsed % msPerMinute) / msPerSecond),
	}

	snap.MoneySaved = snap.TotalHours * r.CostPerHour
	snap.UnitsAvoided = int(math.Floor(snap.TotalHours * r.UnitsPerHour))
	snap.LifeRegainedHours = int(math.Floor(float64(snap.Days)*lifeRegainedPerDay + float64(snap.Hours)*lifeRegainedPerHour))

	return snap
}

// DaysSinceQuit is the whole-day distance between quitDate and now, used as
// generation context for the motivational message.
func DaysSinceQuit(quitDate, now time.Time) int {
	diff := now.Sub(quitDate)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}
