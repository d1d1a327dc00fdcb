// Package skills implements the domain skill modules the assistant router
// dispatches to. Each skill exposes analysis functions for direct callers and
// an Answer entry point used by the router. Skills are pure: they read the
// records they are handed and hold no state between calls.
package skills

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shootflow/shootflow/internal/core"
	"github.com/shootflow/shootflow/internal/engine"
)

// ReadinessStatus is the overall traffic light for sample logistics.
type ReadinessStatus string

const (
	ReadinessOK       ReadinessStatus = "ok"
	ReadinessWarning  ReadinessStatus = "warning"
	ReadinessCritical ReadinessStatus = "critical"
)

// ReadinessReport is the output of AnalyzeReadiness.
type ReadinessReport struct {
	Status          ReadinessStatus `json:"status"`
	TotalSamples    int             `json:"total_samples"`
	AwaitingCount   int             `json:"awaiting_count"`
	HeroAwaiting    int             `json:"hero_awaiting"`
	Message         string          `json:"message"`
	Recommendations []string        `json:"recommendations,omitempty"`
}

// Blocker is one thing standing between the crew and a full rack.
type Blocker struct {
	SampleID    string        `json:"sample_id"`
	SampleName  string        `json:"sample_name"`
	Severity    core.Severity `json:"severity"`
	Description string        `json:"description"`
}

// LogisticsConfig tunes the readiness thresholds.
type LogisticsConfig struct {
	// WarnAwaitingRatio is the awaiting/total ratio above which readiness
	// degrades to critical even without a missing hero sample.
	WarnAwaitingRatio float64
}

// DefaultLogisticsConfig returns the production thresholds.
func DefaultLogisticsConfig() LogisticsConfig {
	return LogisticsConfig{WarnAwaitingRatio: 0.5}
}

// Logistics is the sample-tracking skill.
type Logistics struct {
	planner *engine.Planner
	config  LogisticsConfig
}

// NewLogistics creates the logistics skill.
func NewLogistics(planner *engine.Planner, cfg LogisticsConfig) *Logistics {
	return &Logistics{planner: planner, config: cfg}
}

// AnalyzeReadiness reports how close the rack is to shoot-ready. An empty
// sample list is a clean "nothing to track", never an alarm.
func (l *Logistics) AnalyzeReadiness(samples []core.SampleItem) ReadinessReport {
	report := ReadinessReport{Status: ReadinessOK, TotalSamples: len(samples)}
	if len(samples) == 0 {
		report.Message = "No samples to track yet."
		return report
	}

	for _, s := range samples {
		if s.Status == core.SampleAwaiting {
			report.AwaitingCount++
			if s.IsHero {
				report.HeroAwaiting++
			}
		}
	}

	ratio := float64(report.AwaitingCount) / float64(len(samples))
	switch {
	case report.HeroAwaiting > 0 || ratio > l.config.WarnAwaitingRatio:
		report.Status = ReadinessCritical
	case report.AwaitingCount > 0:
		report.Status = ReadinessWarning
	}

	switch report.Status {
	case ReadinessOK:
		report.Message = fmt.Sprintf("All %d samples are accounted for.", report.TotalSamples)
	case ReadinessWarning:
		report.Message = fmt.Sprintf("%d of %d samples still in transit.", report.AwaitingCount, report.TotalSamples)
		report.Recommendations = append(report.Recommendations, "Chase carriers for the outstanding samples.")
	case ReadinessCritical:
		report.Message = fmt.Sprintf("%d of %d samples missing, including %d hero items.", report.AwaitingCount, report.TotalSamples, report.HeroAwaiting)
		if report.HeroAwaiting > 0 {
			report.Recommendations = append(report.Recommendations, "Escalate the missing hero samples first.")
		}
		report.Recommendations = append(report.Recommendations, "Re-sequence the shot list around what is on set.")
	}

	return report
}

// IdentifyBlockers lists samples that block the shoot, most severe first.
// A hero sample still awaiting is always critical; a high-priority sample
// awaiting is a warning. Everything else is not a blocker.
func (l *Logistics) IdentifyBlockers(samples []core.SampleItem) []Blocker {
	blockers := []Blocker{}

	for _, s := range samples {
		if s.Status != core.SampleAwaiting {
			continue
		}
		switch {
		case s.IsHero:
			blockers = append(blockers, Blocker{
				SampleID:    s.ID,
				SampleName:  s.Name,
				Severity:    core.SeverityCritical,
				Description: fmt.Sprintf("Hero sample %q has not arrived.", s.Name),
			})
		case s.Priority <= 2:
			blockers = append(blockers, Blocker{
				SampleID:    s.ID,
				SampleName:  s.Name,
				Severity:    core.SeverityWarning,
				Description: fmt.Sprintf("Priority sample %q is still in transit.", s.Name),
			})
		}
	}

	sort.SliceStable(blockers, func(i, j int) bool {
		return blockers[i].Severity.Rank() > blockers[j].Severity.Rank()
	})

	return blockers
}

// GenerateBatchingPlan groups the samples still to be shot by shared setup.
func (l *Logistics) GenerateBatchingPlan(samples []core.SampleItem) engine.Plan {
	pending := make([]core.SampleItem, 0, len(samples))
	for _, s := range samples {
		if s.Status == core.SampleAwaiting || s.Status == core.SampleOnSet {
			pending = append(pending, s)
		}
	}
	return l.planner.Plan(pending)
}

// Answer is the router entry point for logistics questions.
func (l *Logistics) Answer(text string, samples []core.SampleItem) (string, []core.Action) {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "batch") || strings.Contains(lower, "group") || strings.Contains(lower, "order") {
		plan := l.GenerateBatchingPlan(samples)
		if plan.TotalBatches == 0 {
			return "Nothing left to batch — every sample is shot or returned.", nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "I grouped the remaining samples into %d batches, saving roughly %d minutes of setup time:\n", plan.TotalBatches, plan.EstimatedTimeSavings)
		for _, batch := range plan.Batches {
			fmt.Fprintf(&b, "- %s: %d samples\n", batch.Attribute, len(batch.SampleIDs))
		}
		return b.String(), []core.Action{{Label: "Open sample tracker", ActionID: "open_logistics"}}
	}

	if strings.Contains(lower, "block") || strings.Contains(lower, "missing") || strings.Contains(lower, "late") {
		blockers := l.IdentifyBlockers(samples)
		if len(blockers) == 0 {
			return "No blockers right now — the rack looks healthy.", nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%d blockers on the shoot:\n", len(blockers))
		for _, blocker := range blockers {
			fmt.Fprintf(&b, "- [%s] %s\n", blocker.Severity, blocker.Description)
		}
		return b.String(), []core.Action{{Label: "View blockers", ActionID: "open_logistics"}}
	}

	report := l.AnalyzeReadiness(samples)
	var b strings.Builder
	b.WriteString(report.Message)
	for _, rec := range report.Recommendations {
		fmt.Fprintf(&b, "\n- %s", rec)
	}

	var actions []core.Action
	if report.Status != ReadinessOK {
		actions = append(actions, core.Action{Label: "Review samples", ActionID: "open_logistics"})
	}
	return b.String(), actions
}
