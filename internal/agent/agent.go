package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/shootflow/shootflow/internal/core"
	"github.com/shootflow/shootflow/internal/engine"
	"github.com/shootflow/shootflow/internal/skills"
)

// Router is the top-level entry point of the intelligence core: it classifies
// a message and dispatches to the matching skill. Given the same message and
// snapshot it always returns the same response.
type Router struct {
	classifier *Classifier
	logistics  *skills.Logistics
	events     *skills.Events
	media      *skills.Media
	services   *skills.Services
	navigator  *skills.Navigator
}

// NewRouter creates a router over the given classifier and skills.
func NewRouter(classifier *Classifier, logistics *skills.Logistics, events *skills.Events, media *skills.Media, services *skills.Services, navigator *skills.Navigator) *Router {
	return &Router{
		classifier: classifier,
		logistics:  logistics,
		events:     events,
		media:      media,
		services:   services,
		navigator:  navigator,
	}
}

// NewDefaultRouter wires the router with every skill on default config.
func NewDefaultRouter() *Router {
	return NewRouter(
		NewClassifier(DefaultClassifierConfig()),
		skills.NewLogistics(engine.NewPlanner(engine.DefaultBatchingConfig()), skills.DefaultLogisticsConfig()),
		skills.NewEvents(),
		skills.NewMedia(engine.NewQualityScorer(engine.DefaultQualityConfig()), skills.DefaultMediaConfig()),
		skills.NewServices(skills.DefaultServicesConfig()),
		skills.NewNavigator(skills.DefaultNavigatorConfig()),
	)
}

// Route classifies the message and answers it from the relevant slice of the
// snapshot. It has no side effects and never fails for well-typed input;
// anything it cannot place comes back as a general response.
func (r *Router) Route(msg core.Message, snapshot core.AssistantContext) core.AssistantResponse {
	intent, confidence := r.classifier.Classify(msg, snapshot)

	var content string
	var actions []core.Action

	switch intent {
	case core.IntentLogistics:
		content, actions = r.logistics.Answer(msg.Text, snapshot.Samples)
	case core.IntentEvents:
		content, actions = r.events.Answer(msg.Text, snapshot.Event, snapshot.Team)
	case core.IntentMedia:
		content, actions = r.media.Answer(msg.Text, snapshot.Assets, snapshot.ShotList, snapshot.Deadline)
	case core.IntentServices:
		content, actions = r.services.Answer(msg.Text, snapshot.Packages)
	case core.IntentNavigation:
		content, actions = r.navigator.Answer(msg.Text, snapshot.UserActivity, snapshot.CurrentRoute)
	default:
		content, actions = r.answerGeneral(snapshot)
	}

	return core.AssistantResponse{
		Intent:     intent,
		Content:    content,
		Confidence: confidence,
		Actions:    actions,
	}
}

// answerGeneral is the fallback: a short status digest plus pointers into the
// app.
func (r *Router) answerGeneral(snapshot core.AssistantContext) (string, []core.Action) {
	var parts []string

	if len(snapshot.Samples) > 0 {
		readiness := r.logistics.AnalyzeReadiness(snapshot.Samples)
		parts = append(parts, readiness.Message)
	}
	if snapshot.Deadline != nil && len(snapshot.Assets) > 0 {
		timeline := r.media.CalculateDeliveryTimeline(snapshot.Assets, *snapshot.Deadline, time.Now())
		parts = append(parts, fmt.Sprintf("Delivery is %.0f%% complete.", timeline.ProgressPercentage))
	}
	if len(parts) == 0 {
		parts = append(parts, "I can help with samples, schedules, assets, packages, or finding your way around.")
	}

	return strings.Join(parts, " "), []core.Action{
		{Label: "Open dashboard", ActionID: "open_dashboard"},
	}
}
