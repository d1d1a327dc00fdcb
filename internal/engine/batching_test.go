package engine

import (
	"testing"

	"github.com/shootflow/shootflow/internal/core"
)

func TestPlanner_Plan(t *testing.T) {
	planner := NewPlanner(DefaultBatchingConfig())

	samples := []core.SampleItem{
		{ID: "s1", Category: "studio-white"},
		{ID: "s2", Category: "studio-white"},
		{ID: "s3", Category: "studio-white"},
		{ID: "s4", Category: "outdoor"},
		{ID: "s5", Category: "outdoor"},
		{ID: "s6"},
	}

	plan := planner.Plan(samples)

	if plan.TotalBatches != 3 {
		t.Errorf("total batches = %d, want 3", plan.TotalBatches)
	}
	if plan.TotalBatches > len(samples) {
		t.Errorf("total batches %d exceeds sample count %d", plan.TotalBatches, len(samples))
	}

	// (3-1)*15 + (2-1)*15 + (1-1)*15
	if plan.EstimatedTimeSavings != 45 {
		t.Errorf("estimated savings = %d, want 45", plan.EstimatedTimeSavings)
	}

	// Largest group first
	if plan.Batches[0].Attribute != "studio-white" || len(plan.Batches[0].SampleIDs) != 3 {
		t.Errorf("first batch = %+v, want studio-white with 3 samples", plan.Batches[0])
	}
	if plan.Batches[2].Attribute != "uncategorized" {
		t.Errorf("last batch = %q, want uncategorized", plan.Batches[2].Attribute)
	}
}

func TestPlanner_PlanEmpty(t *testing.T) {
	planner := NewPlanner(DefaultBatchingConfig())

	plan := planner.Plan(nil)

	if plan.TotalBatches != 0 {
		t.Errorf("total batches = %d, want 0", plan.TotalBatches)
	}
	if plan.EstimatedTimeSavings != 0 {
		t.Errorf("savings = %d, want 0", plan.EstimatedTimeSavings)
	}
	if plan.Batches == nil {
		t.Error("batches should be an empty slice, not nil")
	}
}

func TestPlanner_SavingsNeverNegative(t *testing.T) {
	planner := NewPlanner(BatchingConfig{SwitchCostMinutes: 20})

	for _, samples := range [][]core.SampleItem{
		nil,
		{{ID: "only"}},
		{{ID: "a", Category: "x"}, {ID: "b", Category: "y"}},
	} {
		plan := planner.Plan(samples)
		if plan.EstimatedTimeSavings < 0 {
			t.Errorf("negative savings %d for %d samples", plan.EstimatedTimeSavings, len(samples))
		}
		if plan.TotalBatches > len(samples) {
			t.Errorf("batches %d exceed samples %d", plan.TotalBatches, len(samples))
		}
	}
}

func TestPlanner_Idempotent(t *testing.T) {
	planner := NewPlanner(DefaultBatchingConfig())
	samples := []core.SampleItem{
		{ID: "s1", Category: "a"},
		{ID: "s2", Category: "b"},
		{ID: "s3", Category: "a"},
	}

	first := planner.Plan(samples)
	second := planner.Plan(samples)

	if first.TotalBatches != second.TotalBatches || first.EstimatedTimeSavings != second.EstimatedTimeSavings {
		t.Errorf("planning is not idempotent: %+v vs %+v", first, second)
	}
	for i := range first.Batches {
		if first.Batches[i].Attribute != second.Batches[i].Attribute {
			t.Errorf("batch order changed between runs")
		}
	}
}
