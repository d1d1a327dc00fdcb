// Package automation reacts to named production triggers by running the
// relevant scoring engines and collecting their results. Engine failures are
// isolated: one failing workflow never blocks the others.
package automation

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shootflow/shootflow/internal/core"
	"github.com/shootflow/shootflow/internal/engine"
	"github.com/shootflow/shootflow/internal/intelligence"
	"github.com/shootflow/shootflow/internal/logging"
)

// Trigger names an event the orchestrator reacts to. The set is closed.
type Trigger string

const (
	TriggerAssetUploaded       Trigger = "asset_uploaded"
	TriggerTaskCreated         Trigger = "task_created"
	TriggerAvailabilityChanged Trigger = "member_availability_changed"
	TriggerScheduledDaily      Trigger = "scheduled_daily"
	TriggerCriticalChange      Trigger = "critical_change_detected"
)

// Valid reports whether t is a known trigger.
func (t Trigger) Valid() bool {
	switch t {
	case TriggerAssetUploaded, TriggerTaskCreated, TriggerAvailabilityChanged,
		TriggerScheduledDaily, TriggerCriticalChange:
		return true
	}
	return false
}

// Workflow names one engine invocation inside a trigger.
type Workflow string

const (
	WorkflowQualityScore   Workflow = "quality_score"
	WorkflowRiskScan       Workflow = "risk_scan"
	WorkflowAssignment     Workflow = "assignment"
	WorkflowOverallocation Workflow = "overallocation"
	WorkflowBatchingPlan   Workflow = "batching_plan"
)

// workflowsFor is the fixed trigger-to-engines map.
func workflowsFor(trigger Trigger) []Workflow {
	switch trigger {
	case TriggerAssetUploaded:
		return []Workflow{WorkflowQualityScore}
	case TriggerTaskCreated:
		return []Workflow{WorkflowAssignment}
	case TriggerAvailabilityChanged:
		return []Workflow{WorkflowAssignment, WorkflowOverallocation}
	case TriggerScheduledDaily:
		return []Workflow{WorkflowRiskScan}
	case TriggerCriticalChange:
		return []Workflow{WorkflowRiskScan, WorkflowBatchingPlan}
	}
	return nil
}

// Result is the isolated outcome of one workflow.
type Result struct {
	ID        string        `json:"id"`
	Trigger   Trigger       `json:"trigger"`
	Workflow  Workflow      `json:"workflow"`
	Success   bool          `json:"success"`
	Output    interface{}   `json:"output,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// Report aggregates every workflow run for one trigger.
type Report struct {
	Trigger   Trigger   `json:"trigger"`
	Results   []Result  `json:"results"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	CreatedAt time.Time `json:"created_at"`
}

// Config tunes the orchestrator.
type Config struct {
	HistorySize int // Reports kept in memory for insight queries
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{HistorySize: 50}
}

// Orchestrator maps triggers to engines. It keeps a short in-memory history
// of reports; durable persistence belongs to the caller.
type Orchestrator struct {
	scorer  *engine.QualityScorer
	matcher *engine.Matcher
	planner *engine.Planner
	scanner *intelligence.RiskScanner
	config  Config
	log     *logging.Logger

	mu      sync.Mutex
	history []Report
}

// New creates an orchestrator over the given engines.
func New(scorer *engine.QualityScorer, matcher *engine.Matcher, planner *engine.Planner, scanner *intelligence.RiskScanner, cfg Config) *Orchestrator {
	return &Orchestrator{
		scorer:  scorer,
		matcher: matcher,
		planner: planner,
		scanner: scanner,
		config:  cfg,
		log:     logging.WithField("component", "automation"),
	}
}

// Run executes every workflow mapped to the trigger over the snapshot and
// returns the aggregated report. Unknown triggers return ErrUnknownTrigger;
// everything past that point is non-throwing.
func (o *Orchestrator) Run(trigger Trigger, snapshot core.AssistantContext) (Report, error) {
	if !trigger.Valid() {
		return Report{}, fmt.Errorf("%w: %q", core.ErrUnknownTrigger, trigger)
	}

	report := Report{Trigger: trigger, CreatedAt: time.Now().UTC()}
	for _, workflow := range workflowsFor(trigger) {
		result := o.runWorkflow(trigger, workflow, snapshot)
		if result.Success {
			report.Succeeded++
		} else {
			report.Failed++
			o.log.Warn("workflow %s failed: %s", workflow, result.Error)
		}
		report.Results = append(report.Results, result)
	}

	o.remember(report)
	return report, nil
}

// runWorkflow executes one engine invocation in isolation. A panicking
// engine becomes a failed result, never an escaped panic.
func (o *Orchestrator) runWorkflow(trigger Trigger, workflow Workflow, snapshot core.AssistantContext) (result Result) {
	start := time.Now()
	result = Result{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		Workflow:  workflow,
		Timestamp: start.UTC(),
	}

	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			result.Success = false
			result.Output = nil
			result.Error = fmt.Sprintf("workflow panic: %v", r)
		}
	}()

	output, err := o.invoke(workflow, snapshot)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Output = output
	return result
}

// invoke dispatches to the engine behind a workflow.
func (o *Orchestrator) invoke(workflow Workflow, snapshot core.AssistantContext) (interface{}, error) {
	switch workflow {
	case WorkflowQualityScore:
		return o.scorer.ScoreBatch(snapshot.Assets), nil

	case WorkflowRiskScan:
		return o.scanner.Scan(snapshot), nil

	case WorkflowAssignment:
		if snapshot.Event == nil {
			return nil, fmt.Errorf("%w: event", core.ErrMissingRequired)
		}
		recs := map[string][]core.AssignmentRecommendation{}
		for _, task := range snapshot.Event.Tasks {
			if task.AssigneeID == "" && !task.Completed {
				recs[task.ID] = o.matcher.Recommend(task, snapshot.Team, snapshot.Event.Date)
			}
		}
		return recs, nil

	case WorkflowOverallocation:
		return o.matcher.DetectOverallocation(snapshot.Team), nil

	case WorkflowBatchingPlan:
		return o.planner.Plan(snapshot.Samples), nil
	}

	return nil, fmt.Errorf("%w: workflow %q", core.ErrEngineFailed, workflow)
}

// remember appends the report to the bounded in-memory history.
func (o *Orchestrator) remember(report Report) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.history = append(o.history, report)
	if len(o.history) > o.config.HistorySize {
		o.history = o.history[len(o.history)-o.config.HistorySize:]
	}
}

// History returns the most recent reports, newest first, up to limit.
func (o *Orchestrator) History(limit int) []Report {
	o.mu.Lock()
	defer o.mu.Unlock()

	if limit <= 0 || limit > len(o.history) {
		limit = len(o.history)
	}
	out := make([]Report, 0, limit)
	for i := len(o.history) - 1; i >= len(o.history)-limit; i-- {
		out = append(out, o.history[i])
	}
	return out
}

// Insights summarizes the in-memory history for the assistant.
type Insights struct {
	TotalRuns     int             `json:"total_runs"`
	TotalFailed   int             `json:"total_failed"`
	RunsByTrigger map[Trigger]int `json:"runs_by_trigger"`
	LastRunAt     *time.Time      `json:"last_run_at,omitempty"`
}

// Insights aggregates the kept history.
func (o *Orchestrator) Insights() Insights {
	o.mu.Lock()
	defer o.mu.Unlock()

	insights := Insights{RunsByTrigger: map[Trigger]int{}}
	for _, report := range o.history {
		insights.TotalRuns++
		insights.TotalFailed += report.Failed
		insights.RunsByTrigger[report.Trigger]++
	}
	if n := len(o.history); n > 0 {
		t := o.history[n-1].CreatedAt
		insights.LastRunAt = &t
	}
	return insights
}
