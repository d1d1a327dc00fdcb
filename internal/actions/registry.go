// Package actions maps assistant action IDs onto navigation targets. The set
// of IDs is closed: every action a skill emits must resolve here, and unknown
// IDs fail loudly instead of producing a dead button.
package actions

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shootflow/shootflow/internal/core"
)

// Target is where the client should take the user when an action fires.
type Target struct {
	ActionID string   `json:"action_id"`
	Route    string   `json:"route"`
	Kit      core.Kit `json:"kit"`
	Label    string   `json:"label"`
}

// Registry resolves action IDs to targets.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]Target
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]Target)}
}

// NewDefaultRegistry returns a registry pre-loaded with every action the
// built-in skills emit.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, t := range []Target{
		{ActionID: "open_dashboard", Route: "/dashboard", Kit: core.KitDashboard, Label: "Dashboard"},
		{ActionID: "open_logistics", Route: "/logistics/samples", Kit: core.KitLogistics, Label: "Sample tracker"},
		{ActionID: "open_events", Route: "/events/schedule", Kit: core.KitEvents, Label: "Shoot schedule"},
		{ActionID: "open_media", Route: "/media/assets", Kit: core.KitMedia, Label: "Asset review"},
		{ActionID: "open_services", Route: "/services/packages", Kit: core.KitServices, Label: "Service packages"},
		{ActionID: "open_navigator", Route: "/navigator", Kit: core.KitNavigator, Label: "Feature guide"},
		{ActionID: "request_quote", Route: "/services/quote", Kit: core.KitServices, Label: "Request a quote"},
	} {
		r.Register(t)
	}
	return r
}

// Register adds or replaces a target.
func (r *Registry) Register(t Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets[t.ActionID] = t
}

// Resolve looks up the target behind an action ID.
func (r *Registry) Resolve(actionID string) (Target, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.targets[actionID]
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", core.ErrUnknownAction, actionID)
	}
	return t, nil
}

// Targets returns every registered target sorted by action ID.
func (r *Registry) Targets() []Target {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Target, 0, len(r.targets))
	for _, t := range r.targets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActionID < out[j].ActionID })
	return out
}

// ValidateResponse checks that every action attached to an assistant
// response resolves. Skills emitting unregistered IDs are a programming
// error worth catching in tests and at the API boundary.
func (r *Registry) ValidateResponse(resp core.AssistantResponse) error {
	for _, action := range resp.Actions {
		if _, err := r.Resolve(action.ActionID); err != nil {
			return err
		}
	}
	return nil
}
