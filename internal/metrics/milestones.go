package metrics

// Milestone is a health recovery checkpoint reached after a fixed number of
// smoke-free hours.
type Milestone struct {
	Label       string  `json:"label"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

// Milestones, in ascending threshold order.
var Milestones = []Milestone{
	{Label: "Pulse Recovery", Hours: 0.33, Description: "Heart rate and blood pressure drop."},
	{Label: "Oxygen Normalization", Hours: 12, Description: "Blood oxygen levels increase to normal."},
	{Label: "Carbon Monoxide Normalization", Hours: 24, Description: "Carbon monoxide levels in your blood drop."},
	{Label: "Nicotine Clearance", Hours: 48, Description: "Nicotine is fully processed by your body."},
	{Label: "Taste & Smell Improvement", Hours: 72, Description: "Nerve endings start to regrow."},
	{Label: "Lung Function Boost", Hours: 336, Description: "Lungs begin to clear and function better."}, // 2 weeks
}

// MilestoneStatus is a milestone with its progress at one instant.
type MilestoneStatus struct {
	Milestone
	Progress float64 `json:"progress"` // 0..100
	Achieved bool    `json:"achieved"`
	Active   bool    `json:"active"`
}

// Progress returns the completion percentage of m after totalHours, capped at 100.
func Progress(m Milestone, totalHours float64) float64 {
	p := totalHours / m.Hours * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// ActiveIndex returns the index of the earliest milestone not yet completed,
// or -1 when every milestone is achieved.
func ActiveIndex(totalHours float64) int {
	for i, m := range Milestones {
		if Progress(m, totalHours) < 100 {
			return i
		}
	}
	return -1
}

// MilestoneStatuses evaluates every milestone at totalHours, in order.
func MilestoneStatuses(totalHours float64) []MilestoneStatus {
	active := ActiveIndex(totalHours)
	out := make([]MilestoneStatus, 0, len(Milestones))
	for i, m := range Milestones {
		p := Progress(m, totalHours)
		out = append(out, MilestoneStatus{
			Milestone: m,
			Progress:  p,
			Achieved:  p == 100,
			Active:    i == active,
		})
	}
	return out
}
