package agent

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
)

// SectorLookup resolves a symbol to its real catalogue sector. The
// concentration check must not guess sectors from the queue entries alone.
type SectorLookup interface {
	SectorOf(symbol string) (string, bool)
}

// Generator evaluates the four advisory checks and returns at most two
// interventions, highest priority first. All checks are pure functions of
// their inputs; nothing here mutates shared state.
type Generator struct {
	sectors SectorLookup
	clock   func() time.Time
	log     zerolog.Logger
}

// NewGenerator creates a new intervention generator.
func NewGenerator(sectors SectorLookup, log zerolog.Logger) *Generator {
	return &Generator{
		sectors: sectors,
		clock:   time.Now,
		log:     log.With().Str("service", "interventions").Logger(),
	}
}

// SetClock overrides the time source. Test hook.
func (g *Generator) SetClock(clock func() time.Time) {
	g.clock = clock
}

// Generate runs all checks. A missing profile or behavior record yields an
// empty list, not an error.
func (g *Generator) Generate(profile *Profile, behavior *BehaviorRecord, queue []QueueEntry) []Intervention {
	if profile == nil || behavior == nil {
		return nil
	}

	now := g.clock()

	var interventions []Intervention
	if iv := g.checkSectorConcentration(profile, queue, now); iv != nil {
		interventions = append(interventions, *iv)
	}
	if iv := g.checkRiskAlignment(profile, behavior, now); iv != nil {
		interventions = append(interventions, *iv)
	}
	if iv := g.detectInvestmentTheme(behavior, now); iv != nil {
		interventions = append(interventions, *iv)
	}
	if iv := g.checkRebalancingNeeds(behavior, queue, now); iv != nil {
		interventions = append(interventions, *iv)
	}

	// Stable sort keeps generation order among equal priorities.
	sort.SliceStable(interventions, func(i, j int) bool {
		return interventions[i].Priority.Weight() > interventions[j].Priority.Weight()
	})
	if len(interventions) > 2 {
		interventions = interventions[:2]
	}
	return interventions
}

// checkSectorConcentration flags a queue dominated by one sector. Each
// queued symbol is attributed to its actual catalogue sector; symbols the
// catalogue no longer knows are skipped.
func (g *Generator) checkSectorConcentration(profile *Profile, queue []QueueEntry, now time.Time) *Intervention {
	if len(queue) == 0 {
		return nil
	}

	sectorCounts := make(map[string]int)
	total := 0
	for _, entry := range queue {
		sector, ok := g.sectors.SectorOf(entry.Symbol)
		if !ok {
			continue
		}
		sectorCounts[sector]++
		total++
	}
	if total == 0 {
		return nil
	}

	dominantSector := ""
	dominantCount := 0
	for sector, count := range sectorCounts {
		if count > dominantCount || (count == dominantCount && sector < dominantSector) {
			dominantSector = sector
			dominantCount = count
		}
	}

	concentration := float64(dominantCount) / float64(total) * 100
	if concentration <= profile.MaxSectorConcentration {
		return nil
	}

	return &Intervention{
		ID:            uuid.NewString(),
		Type:          domain.InterventionDiversification,
		Title:         "Too much in one sector?",
		Message:       fmt.Sprintf("You have %.0f%% in %s. Want to diversify?", concentration, dominantSector),
		ActionText:    "View suggestions",
		ActionType:    "view_suggestions",
		Priority:      domain.PriorityMedium,
		TriggerReason: fmt.Sprintf("Sector concentration above %g%%", profile.MaxSectorConcentration),
		CreatedAt:     now,
	}
}

// checkRiskAlignment compares the score-weighted average risk against the
// tolerance target band of +/-0.5.
func (g *Generator) checkRiskAlignment(profile *Profile, behavior *BehaviorRecord, now time.Time) *Intervention {
	if len(behavior.RiskScores) == 0 {
		return nil
	}

	avgRisk := averageRisk(behavior.RiskScores)
	targetRisk := profile.RiskTolerance.TargetRisk()

	switch {
	case avgRisk > targetRisk+0.5:
		return &Intervention{
			ID:            uuid.NewString(),
			Type:          domain.InterventionRiskCheck,
			Title:         "Off-track from your goal?",
			Message:       "You're trending riskier than planned. Want to adjust?",
			ActionText:    "Adjust strategy",
			ActionType:    "adjust_strategy",
			Priority:      domain.PriorityHigh,
			TriggerReason: fmt.Sprintf("Average risk %.1f exceeds target %g", avgRisk, targetRisk),
			CreatedAt:     now,
		}
	case avgRisk < targetRisk-0.5:
		return &Intervention{
			ID:            uuid.NewString(),
			Type:          domain.InterventionRiskCheck,
			Title:         "Too conservative?",
			Message:       "Your portfolio is more conservative than your goals. Want to add growth?",
			ActionText:    "View suggestions",
			ActionType:    "view_suggestions",
			Priority:      domain.PriorityMedium,
			TriggerReason: fmt.Sprintf("Average risk %.1f below target %g", avgRisk, targetRisk),
			CreatedAt:     now,
		}
	}
	return nil
}

// detectInvestmentTheme looks for a sector making up at least 3 of the last
// 10 non-skip swipes and at least 40% of that window.
func (g *Generator) detectInvestmentTheme(behavior *BehaviorRecord, now time.Time) *Intervention {
	history := behavior.SwipeHistory
	start := len(history) - 10
	if start < 0 {
		start = 0
	}

	var recent []SwipeEvent
	for _, swipe := range history[start:] {
		if swipe.Action != domain.ActionSkip {
			recent = append(recent, swipe)
		}
	}
	if len(recent) < 3 {
		return nil
	}

	sectorCounts := make(map[string]int)
	order := make([]string, 0, len(recent))
	for _, swipe := range recent {
		if sectorCounts[swipe.Sector] == 0 {
			order = append(order, swipe.Sector)
		}
		sectorCounts[swipe.Sector]++
	}

	for _, sector := range order {
		count := sectorCounts[sector]
		if count >= 3 && float64(count)/float64(len(recent)) >= 0.4 {
			return &Intervention{
				ID:            uuid.NewString(),
				Type:          domain.InterventionStrategyFocus,
				Title:         "High-conviction theme detected?",
				Message:       fmt.Sprintf("You're showing interest in %s. Want to bundle these into a focused strategy?", sector),
				ActionText:    "Create theme",
				ActionType:    "view_suggestions",
				Priority:      domain.PriorityLow,
				TriggerReason: fmt.Sprintf("Multiple stocks in %s theme", sector),
				CreatedAt:     now,
			}
		}
	}
	return nil
}

// checkRebalancingNeeds nudges users with a sizable queue who have gone
// quiet for more than a week.
func (g *Generator) checkRebalancingNeeds(behavior *BehaviorRecord, queue []QueueEntry, now time.Time) *Intervention {
	daysSinceActivity := int(now.Sub(behavior.LastActivity).Hours() / 24)
	if daysSinceActivity <= 7 || len(queue) <= 3 {
		return nil
	}

	return &Intervention{
		ID:            uuid.NewString(),
		Type:          domain.InterventionRebalancing,
		Title:         "You've drifted from plan",
		Message:       "No rebalancing in a while. Want to review your strategy?",
		ActionText:    "Rebalance",
		ActionType:    "rebalance",
		Priority:      domain.PriorityMedium,
		TriggerReason: fmt.Sprintf("No activity for %d days", daysSinceActivity),
		CreatedAt:     now,
	}
}
