package skills

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shootflow/shootflow/internal/core"
)

// Feature is one discoverable platform capability.
type Feature struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Kit     core.Kit `json:"kit"`
	Benefit int      `json:"benefit"` // 1-5, 5 is highest impact
	Effort  int      `json:"effort"`  // 1-5, 1 is lowest effort to adopt
	Pitch   string   `json:"pitch"`
}

// QuickWin is a low-effort, high-impact next step.
type QuickWin struct {
	Feature   Feature `json:"feature"`
	Rationale string  `json:"rationale"`
}

// NextAction is the single best next step for the user.
type NextAction struct {
	Title     string      `json:"title"`
	Rationale string      `json:"rationale"`
	Action    core.Action `json:"action"`
}

// NavigatorConfig tunes discovery thresholds.
type NavigatorConfig struct {
	QuickWinMaxEffort  int // Effort at or below this counts as a quick win
	QuickWinMinBenefit int // Benefit at or above this counts as a quick win
	InactiveAfterDays  int // Days away before we suggest catching up
}

// DefaultNavigatorConfig returns the production thresholds.
func DefaultNavigatorConfig() NavigatorConfig {
	return NavigatorConfig{
		QuickWinMaxEffort:  2,
		QuickWinMinBenefit: 3,
		InactiveAfterDays:  7,
	}
}

// Navigator is the feature discovery and onboarding skill.
type Navigator struct {
	catalog []Feature
	config  NavigatorConfig
}

// NewNavigator creates the navigator skill over the built-in catalog.
func NewNavigator(cfg NavigatorConfig) *Navigator {
	return &Navigator{catalog: featureCatalog(), config: cfg}
}

// featureCatalog lists what the platform can do, for ranking against usage.
func featureCatalog() []Feature {
	return []Feature{
		{ID: "sample_tracker", Name: "Sample tracker", Kit: core.KitLogistics, Benefit: 5, Effort: 1, Pitch: "See every garment's status at a glance."},
		{ID: "batching_plan", Name: "Batching planner", Kit: core.KitLogistics, Benefit: 4, Effort: 2, Pitch: "Cut setup switches on shoot day."},
		{ID: "critical_path", Name: "Critical path view", Kit: core.KitEvents, Benefit: 4, Effort: 2, Pitch: "Know which tasks can sink the day."},
		{ID: "staffing_board", Name: "Staffing board", Kit: core.KitEvents, Benefit: 3, Effort: 3, Pitch: "Match crew skills to every task."},
		{ID: "quality_review", Name: "Quality review", Kit: core.KitMedia, Benefit: 5, Effort: 2, Pitch: "Auto-score uploads against the brand rubric."},
		{ID: "auto_selects", Name: "Auto selects", Kit: core.KitMedia, Benefit: 4, Effort: 1, Pitch: "Get a first cut of selects in seconds."},
		{ID: "package_quotes", Name: "Package quoting", Kit: core.KitServices, Benefit: 3, Effort: 2, Pitch: "Turn a brief into a priced quote."},
		{ID: "risk_digest", Name: "Daily risk digest", Kit: core.KitDashboard, Benefit: 5, Effort: 1, Pitch: "One scan across samples, schedule, and media."},
	}
}

// DiscoverFeatures ranks features the user has not touched yet by benefit,
// then by lower effort. A nil activity snapshot ranks the whole catalog.
func (n *Navigator) DiscoverFeatures(activity *core.UserActivity) []Feature {
	used := map[string]bool{}
	visited := map[core.Kit]bool{}
	if activity != nil {
		for id, count := range activity.FeatureUsage {
			if count > 0 {
				used[id] = true
			}
		}
		for _, kit := range activity.VisitedKits {
			visited[kit] = true
		}
	}

	var unseen []Feature
	for _, f := range n.catalog {
		if used[f.ID] {
			continue
		}
		unseen = append(unseen, f)
	}

	sort.SliceStable(unseen, func(i, j int) bool {
		// A feature on a kit the user never opened outranks one they have
		// walked past.
		vi, vj := visited[unseen[i].Kit], visited[unseen[j].Kit]
		if vi != vj {
			return !vi
		}
		if unseen[i].Benefit != unseen[j].Benefit {
			return unseen[i].Benefit > unseen[j].Benefit
		}
		return unseen[i].Effort < unseen[j].Effort
	})

	return unseen
}

// DetectQuickWins filters unused features down to low-effort, high-impact
// ones.
func (n *Navigator) DetectQuickWins(activity *core.UserActivity) []QuickWin {
	wins := []QuickWin{}
	for _, f := range n.DiscoverFeatures(activity) {
		if f.Effort <= n.config.QuickWinMaxEffort && f.Benefit >= n.config.QuickWinMinBenefit {
			wins = append(wins, QuickWin{
				Feature:   f,
				Rationale: fmt.Sprintf("%s — takes minutes to try.", f.Pitch),
			})
		}
	}
	return wins
}

// SuggestNextAction picks the single best next step given activity and the
// route the user is on.
func (n *Navigator) SuggestNextAction(activity *core.UserActivity, route string) NextAction {
	if activity != nil && activity.LastActiveDays >= n.config.InactiveAfterDays {
		return NextAction{
			Title:     "Catch up on your productions",
			Rationale: fmt.Sprintf("You have been away %d days; the dashboard has the latest risks.", activity.LastActiveDays),
			Action:    core.Action{Label: "Open dashboard", ActionID: "open_dashboard"},
		}
	}

	if wins := n.DetectQuickWins(activity); len(wins) > 0 {
		win := wins[0]
		return NextAction{
			Title:     fmt.Sprintf("Try the %s", strings.ToLower(win.Feature.Name)),
			Rationale: win.Rationale,
			Action:    core.Action{Label: win.Feature.Name, ActionID: "open_" + string(win.Feature.Kit)},
		}
	}

	if unseen := n.DiscoverFeatures(activity); len(unseen) > 0 {
		f := unseen[0]
		return NextAction{
			Title:     fmt.Sprintf("Explore %s", strings.ToLower(f.Name)),
			Rationale: f.Pitch,
			Action:    core.Action{Label: f.Name, ActionID: "open_" + string(f.Kit)},
		}
	}

	return NextAction{
		Title:     "You have seen it all",
		Rationale: "Every feature has been used; keep shooting.",
		Action:    core.Action{Label: "Open dashboard", ActionID: "open_dashboard"},
	}
}

// Answer is the router entry point for navigation questions.
func (n *Navigator) Answer(text string, activity *core.UserActivity, route string) (string, []core.Action) {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "quick") || strings.Contains(lower, "easy") {
		wins := n.DetectQuickWins(activity)
		if len(wins) == 0 {
			return "No quick wins left — you have covered the easy ground.", nil
		}
		var b strings.Builder
		b.WriteString("Quick wins you have not tried:\n")
		actions := make([]core.Action, 0, len(wins))
		for _, win := range wins {
			fmt.Fprintf(&b, "- %s: %s\n", win.Feature.Name, win.Rationale)
			actions = append(actions, core.Action{Label: win.Feature.Name, ActionID: "open_" + string(win.Feature.Kit)})
		}
		return b.String(), actions
	}

	next := n.SuggestNextAction(activity, route)
	return fmt.Sprintf("%s. %s", next.Title, next.Rationale), []core.Action{next.Action}
}
