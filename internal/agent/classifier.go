// Package agent implements the Shootflow assistant: intent classification
// and routing of user messages to the domain skills.
package agent

import (
	"strings"

	"github.com/shootflow/shootflow/internal/core"
)

// rule maps a keyword to an intent with a weight. The table is ordered and
// closed; matching is plain substring containment, no language model.
type rule struct {
	keyword string
	intent  core.Intent
	weight  float64
}

// ClassifierConfig tunes classification.
type ClassifierConfig struct {
	// KitBias is added to the intent matching the kit the user is looking
	// at, so ambiguous messages resolve toward the current surface.
	KitBias float64

	// MinScore is the score below which classification falls back to the
	// general intent.
	MinScore float64

	// FallbackConfidence is reported on a general fallback.
	FallbackConfidence float64
}

// DefaultClassifierConfig returns the production thresholds.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		KitBias:            0.2,
		MinScore:           0.4,
		FallbackConfidence: 0.3,
	}
}

// Classifier routes free text to an intent.
type Classifier struct {
	rules  []rule
	config ClassifierConfig
}

// NewClassifier creates a classifier with the built-in rule table.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{rules: ruleTable(), config: cfg}
}

// ruleTable is the closed keyword table. Weights are additive per matched
// keyword and the winning intent needs MinScore to beat the fallback.
func ruleTable() []rule {
	return []rule{
		// Logistics
		{"sample", core.IntentLogistics, 0.5},
		{"sku", core.IntentLogistics, 0.5},
		{"garment", core.IntentLogistics, 0.5},
		{"rack", core.IntentLogistics, 0.4},
		{"courier", core.IntentLogistics, 0.5},
		{"arriv", core.IntentLogistics, 0.4},
		{"block", core.IntentLogistics, 0.5},
		{"batch", core.IntentLogistics, 0.5},
		{"return", core.IntentLogistics, 0.3},

		// Events
		{"schedule", core.IntentEvents, 0.5},
		{"task", core.IntentEvents, 0.4},
		{"crew", core.IntentEvents, 0.4},
		{"staff", core.IntentEvents, 0.5},
		{"call sheet", core.IntentEvents, 0.6},
		{"critical path", core.IntentEvents, 0.6},
		{"calendar", core.IntentEvents, 0.5},
		{"assign", core.IntentEvents, 0.4},

		// Media
		{"asset", core.IntentMedia, 0.5},
		{"photo", core.IntentMedia, 0.5},
		{"image", core.IntentMedia, 0.5},
		{"select", core.IntentMedia, 0.4},
		{"quality", core.IntentMedia, 0.5},
		{"retouch", core.IntentMedia, 0.5},
		{"shot list", core.IntentMedia, 0.6},
		{"coverage", core.IntentMedia, 0.5},
		{"deliver", core.IntentMedia, 0.4},

		// Services
		{"package", core.IntentServices, 0.5},
		{"price", core.IntentServices, 0.5},
		{"pricing", core.IntentServices, 0.5},
		{"quote", core.IntentServices, 0.5},
		{"cost", core.IntentServices, 0.5},
		{"budget", core.IntentServices, 0.4},
		{"tier", core.IntentServices, 0.4},

		// Navigation
		{"where do i", core.IntentNavigation, 0.6},
		{"how do i", core.IntentNavigation, 0.5},
		{"feature", core.IntentNavigation, 0.4},
		{"what can you", core.IntentNavigation, 0.6},
		{"quick win", core.IntentNavigation, 0.6},
		{"get started", core.IntentNavigation, 0.5},
	}
}

// kitIntent maps a kit surface to the intent it biases toward. The dashboard
// carries no bias.
func kitIntent(kit core.Kit) (core.Intent, bool) {
	switch kit {
	case core.KitLogistics:
		return core.IntentLogistics, true
	case core.KitEvents:
		return core.IntentEvents, true
	case core.KitMedia:
		return core.IntentMedia, true
	case core.KitServices:
		return core.IntentServices, true
	case core.KitNavigator:
		return core.IntentNavigation, true
	}
	return core.IntentGeneral, false
}

// Classify scores the message against the rule table, biased by the kit the
// user is on. It never fails: anything unmatched is the general intent with
// fallback confidence.
func (c *Classifier) Classify(msg core.Message, snapshot core.AssistantContext) (core.Intent, float64) {
	text := strings.ToLower(msg.Text)

	scores := map[core.Intent]float64{}
	for _, r := range c.rules {
		if strings.Contains(text, r.keyword) {
			scores[r.intent] += r.weight
		}
	}

	// The bias alone is below MinScore, so it breaks ties without ever
	// manufacturing an intent from an unmatched message.
	if biased, ok := kitIntent(snapshot.CurrentKit); ok {
		scores[biased] += c.config.KitBias
	}

	best := core.IntentGeneral
	bestScore := 0.0
	// Fixed check order so equal scores resolve the same way every call.
	for _, intent := range []core.Intent{
		core.IntentLogistics, core.IntentEvents, core.IntentMedia,
		core.IntentServices, core.IntentNavigation,
	} {
		if scores[intent] > bestScore {
			best = intent
			bestScore = scores[intent]
		}
	}

	if bestScore < c.config.MinScore {
		return core.IntentGeneral, c.config.FallbackConfidence
	}
	if bestScore > 1 {
		bestScore = 1
	}
	return best, bestScore
}
