package agent

import (
	"fmt"
	"strings"

	"github.com/swiprhq/swipr/internal/domain"
)

// fallbackChatMessage is returned when response generation fails outright.
const fallbackChatMessage = "I'm experiencing some technical difficulties. Please try again in a moment."

// Respond maps a free-text message to one of the fixed advisory templates.
// Keyword categories are tested in a fixed priority order and the first
// match wins; no match returns the menu text. Pure function.
func Respond(message string, profile *Profile, insights Insights) string {
	lower := strings.ToLower(message)

	topSectors := insights.TopSectors
	if len(topSectors) == 0 {
		topSectors = []string{"Technology"}
	}
	riskPref := string(insights.RiskPreference)

	switch {
	case strings.Contains(lower, "what should i buy") || strings.Contains(lower, "recommend"):
		return fmt.Sprintf(`Based on your preferences for %s and %s risk stocks, I'd recommend:

• Looking for undervalued stocks in %s
• Consider diversifying into Consumer Staples for stability
• Check out dividend-paying stocks for income

Would you like specific stock suggestions?`,
			strings.Join(firstN(topSectors, 2), ", "), riskPref, topSectors[0])

	case strings.Contains(lower, "risky") || strings.Contains(lower, "risk"):
		return fmt.Sprintf(`Your risk profile shows:

• Preference for %s risk stocks
• Heavy focus on %s
• %d total investment decisions

You're currently %s in your approach. Want to adjust?`,
			riskPref, strings.Join(firstN(topSectors, 2), " and "), insights.TotalSwipes,
			approachLabel(insights.RiskPreference))

	case strings.Contains(lower, "hedge") || strings.Contains(lower, "protect"):
		return `To hedge your current portfolio:

• Consider defensive sectors like Utilities or Consumer Staples
• Look into bonds or treasury funds
• Add some inverse ETFs for downside protection
• Diversify across market caps (small, mid, large)

What specific risks are you most concerned about?`

	case strings.Contains(lower, "portfolio") || strings.Contains(lower, "analyze"):
		return fmt.Sprintf(`Portfolio Analysis:

• Sector Focus: %s
• Risk Level: %s
• Activity: %d decisions made
• Streak: %d days

Strengths: Clear sector preferences
Opportunities: Consider more diversification

Want detailed recommendations?`,
			strings.Join(topSectors, ", "), riskPref, insights.TotalSwipes, insights.StreakDays)

	case strings.Contains(lower, "rebalance") || strings.Contains(lower, "balance"):
		return fmt.Sprintf(`Rebalancing suggestions:

• Your %s allocation might be high
• Consider adding exposure to Healthcare or Financials
• Review positions older than 6 months
• Take profits on winners, add to underweight sectors

Shall I create a rebalancing plan for you?`, topSectors[0])

	case strings.Contains(lower, "strategy"):
		growth := "balanced growth"
		if insights.RiskPreference == domain.RiskHigh {
			growth = "aggressive growth"
		}
		return fmt.Sprintf(`Your investment strategy appears to be:

• Growth-focused with %s emphasis
• %s risk tolerance
• Active decision making (%d swipes)

This aligns with a %s approach. Want to refine it further?`,
			topSectors[0], riskPref, insights.TotalSwipes, growth)
	}

	return `I'd be happy to help! You can ask me about:

• Investment recommendations
• Risk analysis
• Portfolio review
• Hedging strategies
• Rebalancing advice

What specific area interests you most?`
}

func approachLabel(risk domain.RiskLevel) string {
	switch risk {
	case domain.RiskHigh:
		return "aggressive"
	case domain.RiskLow:
		return "conservative"
	}
	return "moderate"
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
