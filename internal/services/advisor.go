package services

import (
	"context"
	"errors"
)

// Fallback copy served when generation fails. Each feature has its own string;
// neither is ever written to the store.
const (
	FallbackDailyMessage  = "Every breath you take is a step toward a cleaner, healthier you."
	FallbackCravingAdvice = "Visualize your future self healthy and free. This craving is just a shadow passing through."
)

// ErrAdvisorUnavailable is returned when no generation provider is configured.
var ErrAdvisorUnavailable = errors.New("text generation provider not configured")

// Advisor produces short motivational text from profile context. Implementations
// may fail or time out; callers degrade to the fallback strings above.
type Advisor interface {
	// MotivationalQuote returns the once-a-day motivational message.
	MotivationalQuote(ctx context.Context, name string, daysSmokeFree int, reason string) (string, error)

	// CravingAdvice returns an immediate, high-variability craving hack.
	// Never cached; every call hits the provider.
	CravingAdvice(ctx context.Context, name string, daysSmokeFree int, reason string) (string, error)
}

// unavailableAdvisor stands in when no API key is configured so every caller
// takes its fallback path instead of nil-checking the advisor.
type unavailableAdvisor struct{}

// NewUnavailableAdvisor returns an Advisor whose calls always fail.
func NewUnavailableAdvisor() Advisor {
	return unavailableAdvisor{}
}

func (unavailableAdvisor) MotivationalQuote(context.Context, string, int, string) (string, error) {
	return "", ErrAdvisorUnavailable
}

func (unavailableAdvisor) CravingAdvice(context.Context, string, int, string) (string, error) {
	return "", ErrAdvisorUnavailable
}
