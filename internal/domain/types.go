// Package domain holds the shared value types and enums used across modules.
package domain

import "fmt"

// SwipeAction is a user decision on an instrument card.
type SwipeAction string

const (
	ActionSkip      SwipeAction = "skip"
	ActionQueue     SwipeAction = "queue"
	ActionWatchlist SwipeAction = "watchlist"
)

// ParseSwipeAction validates a raw action string.
func ParseSwipeAction(s string) (SwipeAction, error) {
	switch SwipeAction(s) {
	case ActionSkip, ActionQueue, ActionWatchlist:
		return SwipeAction(s), nil
	}
	return "", fmt.Errorf("%w: unknown swipe action %q", ErrInvalidInput, s)
}

// RiskLevel classifies an instrument's risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Weight returns the numeric weight used in risk averaging (Low=1 .. High=3).
func (r RiskLevel) Weight() float64 {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	}
	return 2
}

// ParseRiskLevel validates a raw risk level string.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s), nil
	}
	return "", fmt.Errorf("%w: unknown risk level %q", ErrInvalidInput, s)
}

// RiskTolerance is a user's stated appetite for risk.
type RiskTolerance string

const (
	ToleranceConservative RiskTolerance = "conservative"
	ToleranceModerate     RiskTolerance = "moderate"
	ToleranceAggressive   RiskTolerance = "aggressive"
)

// ParseRiskTolerance validates a raw tolerance string.
func ParseRiskTolerance(s string) (RiskTolerance, error) {
	switch RiskTolerance(s) {
	case ToleranceConservative, ToleranceModerate, ToleranceAggressive:
		return RiskTolerance(s), nil
	}
	return "", fmt.Errorf("%w: unknown risk tolerance %q", ErrInvalidInput, s)
}

// TargetRisk returns the target average risk for a tolerance on the 1..3 scale.
func (t RiskTolerance) TargetRisk() float64 {
	switch t {
	case ToleranceConservative:
		return 1.5
	case ToleranceModerate:
		return 2.0
	case ToleranceAggressive:
		return 2.5
	}
	return 2.0
}

// Confidence is the conviction attached to a queued instrument.
type Confidence string

const (
	ConfidenceConservative Confidence = "conservative"
	ConfidenceBullish      Confidence = "bullish"
	ConfidenceVeryBullish  Confidence = "very-bullish"
)

// ParseConfidence validates a raw confidence string.
func ParseConfidence(s string) (Confidence, error) {
	switch Confidence(s) {
	case ConfidenceConservative, ConfidenceBullish, ConfidenceVeryBullish:
		return Confidence(s), nil
	}
	return "", fmt.Errorf("%w: unknown confidence %q", ErrInvalidInput, s)
}

// TimeHorizon is a user's investment horizon.
type TimeHorizon string

const (
	HorizonShort  TimeHorizon = "short"
	HorizonMedium TimeHorizon = "medium"
	HorizonLong   TimeHorizon = "long"
)

// ParseTimeHorizon validates a raw horizon string.
func ParseTimeHorizon(s string) (TimeHorizon, error) {
	switch TimeHorizon(s) {
	case HorizonShort, HorizonMedium, HorizonLong:
		return TimeHorizon(s), nil
	}
	return "", fmt.Errorf("%w: unknown time horizon %q", ErrInvalidInput, s)
}

// InterventionType categorizes an advisory nudge.
type InterventionType string

const (
	InterventionDiversification InterventionType = "diversification"
	InterventionRiskCheck       InterventionType = "risk_check"
	InterventionRebalancing     InterventionType = "rebalancing"
	InterventionMarketUpdate    InterventionType = "market_update"
	InterventionStrategyFocus   InterventionType = "strategy_focus"
)

// Priority orders interventions.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Weight returns the sort weight for a priority (high=3, medium=2, low=1).
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}
