package actions

import (
	"errors"
	"sort"
	"testing"

	"github.com/shootflow/shootflow/internal/agent"
	"github.com/shootflow/shootflow/internal/core"
)

func TestResolveKnownAction(t *testing.T) {
	r := NewDefaultRegistry()

	target, err := r.Resolve("open_logistics")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if target.Kit != core.KitLogistics {
		t.Errorf("Kit = %q, want %q", target.Kit, core.KitLogistics)
	}
	if target.Route == "" {
		t.Error("resolved target must carry a route")
	}
}

func TestResolveUnknownAction(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.Resolve("launch_rockets")
	if !errors.Is(err, core.ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestRegisterOverride(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register(Target{ActionID: "open_media", Route: "/media/v2", Kit: core.KitMedia})

	target, err := r.Resolve("open_media")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if target.Route != "/media/v2" {
		t.Errorf("Route = %q, want override", target.Route)
	}
}

func TestTargetsSorted(t *testing.T) {
	targets := NewDefaultRegistry().Targets()
	if len(targets) == 0 {
		t.Fatal("default registry should not be empty")
	}
	sorted := sort.SliceIsSorted(targets, func(i, j int) bool {
		return targets[i].ActionID < targets[j].ActionID
	})
	if !sorted {
		t.Error("Targets must come back sorted by action ID")
	}
}

// Every action a skill can emit through the router must resolve.
func TestSkillActionsAllRegistered(t *testing.T) {
	r := NewDefaultRegistry()
	router := agent.NewDefaultRouter()

	snapshot := core.AssistantContext{
		CurrentKit: core.KitDashboard,
		Samples: []core.SampleItem{
			{ID: "s1", Name: "Silk blouse", IsHero: true, Status: core.SampleAwaiting},
		},
	}

	questions := []string{
		"when do my samples arrive",
		"how should I batch my samples",
		"what's on the critical path",
		"who should I assign to the crew",
		"what's missing from the shot list",
		"pick my best selects",
		"are we on track to deliver",
		"send me a quote for a campaign package",
		"how do I get started",
		"show me quick wins",
		"hello there",
	}

	for _, q := range questions {
		resp := router.Route(core.Message{Text: q}, snapshot)
		if err := r.ValidateResponse(resp); err != nil {
			t.Errorf("question %q produced an unresolvable action: %v", q, err)
		}
	}
}
