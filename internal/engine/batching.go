package engine

import (
	"sort"

	"github.com/shootflow/shootflow/internal/core"
)

// BatchingConfig holds the planner's one policy constant.
type BatchingConfig struct {
	// SwitchCostMinutes is the setup time saved per avoided scene switch.
	// Savings are (group size - 1) * cost per group, an auditable heuristic
	// rather than a true optimizer.
	SwitchCostMinutes int
}

// DefaultBatchingConfig returns the planner defaults.
func DefaultBatchingConfig() BatchingConfig {
	return BatchingConfig{SwitchCostMinutes: 15}
}

// Planner groups samples that share a setup so the crew switches scenes less.
type Planner struct {
	config BatchingConfig
}

// NewPlanner creates a planner with the given config.
func NewPlanner(cfg BatchingConfig) *Planner {
	return &Planner{config: cfg}
}

// Batch is one group of samples sharing an attribute.
type Batch struct {
	Attribute    string   `json:"attribute"`
	SampleIDs    []string `json:"sample_ids"`
	MinutesSaved int      `json:"minutes_saved"`
}

// Plan is the full batching result. TotalBatches never exceeds the number of
// input samples and EstimatedTimeSavings is never negative.
type Plan struct {
	Batches              []Batch `json:"batches"`
	TotalBatches         int     `json:"total_batches"`
	EstimatedTimeSavings int     `json:"estimated_time_savings"` // Minutes
}

// Plan greedily groups samples by category. Uncategorized samples form their
// own group. An empty input yields an empty plan, not an error.
func (p *Planner) Plan(samples []core.SampleItem) Plan {
	if len(samples) == 0 {
		return Plan{Batches: []Batch{}}
	}

	groups := make(map[string][]string)
	var order []string
	for _, sample := range samples {
		attr := sample.Category
		if attr == "" {
			attr = "uncategorized"
		}
		if _, seen := groups[attr]; !seen {
			order = append(order, attr)
		}
		groups[attr] = append(groups[attr], sample.ID)
	}

	// Largest groups first so the biggest wins are on top.
	sort.SliceStable(order, func(i, j int) bool {
		return len(groups[order[i]]) > len(groups[order[j]])
	})

	plan := Plan{Batches: make([]Batch, 0, len(order))}
	for _, attr := range order {
		ids := groups[attr]
		saved := (len(ids) - 1) * p.config.SwitchCostMinutes
		plan.Batches = append(plan.Batches, Batch{
			Attribute:    attr,
			SampleIDs:    ids,
			MinutesSaved: saved,
		})
		plan.EstimatedTimeSavings += saved
	}
	plan.TotalBatches = len(plan.Batches)

	return plan
}
