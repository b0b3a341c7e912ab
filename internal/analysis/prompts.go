package analysis

import (
	"strings"

	"github.com/quotify/quotifyd/internal/models"
)

// GenerateReflection builds an application idea and three journal prompts
// for a quote. Prompt sets are keyed on what the quote is about: goals,
// facing fear, or how time is spent, with a generic set otherwise.
func GenerateReflection(text string) models.Reflection {
	if text == "" {
		return models.Reflection{
			Application: "Reflect on what this means to you personally.",
		}
	}

	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "success") || strings.Contains(lower, "failure") || strings.Contains(lower, "goal"):
		return models.Reflection{
			Application: "Treat this quote as a new rule for how you approach goals: less obsession with outcome, more focus on repeated small actions.",
			Prompts: []string{
				"Choose one goal you're stuck on and describe why in 1-2 lines.",
				"Break it into the smallest next step you can do in under 15 minutes.",
				"Add that step to today's calendar and actually do it.",
			},
		}
	case strings.Contains(lower, "fear") || strings.Contains(lower, "courage") || strings.Contains(lower, "risk"):
		return models.Reflection{
			Application: "Let this quote be a gentle push to move toward something slightly uncomfortable but important.",
			Prompts: []string{
				"Write down one thing you're avoiding because it feels scary or uncertain.",
				"Write the worst realistic outcome and the best realistic outcome.",
				"Commit to a tiny experiment that moves you toward the best outcome.",
			},
		}
	case strings.Contains(lower, "time") || strings.Contains(lower, "day") || strings.Contains(lower, "today"):
		return models.Reflection{
			Application: "Use this quote to audit your day: where is your time going versus where you say your priorities are?",
			Prompts: []string{
				"List the top three things you say matter to you.",
				"Look at your last 3 days: where did most of your free time actually go?",
				"Decide one thing you'll remove and one thing you'll add to better match your values.",
			},
		}
	}

	return models.Reflection{
		Application: "Use this quote as a lens: what would change if you actually believed this today?",
		Prompts: []string{
			"Rewrite the quote in your own words in one sentence.",
			"Think of one decision this week that would look different if you applied this idea.",
			"Pick one tiny action (5-10 minutes) that matches this quote and schedule it.",
		},
	}
}
