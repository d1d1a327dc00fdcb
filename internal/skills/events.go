package skills

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shootflow/shootflow/internal/core"
)

// CriticalPathReport is the output of AnalyzeCriticalPath.
type CriticalPathReport struct {
	PathTaskIDs []string      `json:"path_task_ids"` // Longest chain, in execution order
	TotalHours  float64       `json:"total_hours"`
	Blockers    []TaskBlocker `json:"blockers,omitempty"` // Zero-slack tasks
}

// TaskBlocker is a task with no scheduling slack.
type TaskBlocker struct {
	TaskID   string        `json:"task_id"`
	TaskName string        `json:"task_name"`
	Severity core.Severity `json:"severity"`
	Reason   string        `json:"reason"`
}

// StaffingGap is one task whose skill needs are not covered.
type StaffingGap struct {
	TaskID        string   `json:"task_id"`
	TaskName      string   `json:"task_name"`
	Unassigned    bool     `json:"unassigned"`
	MissingSkills []string `json:"missing_skills,omitempty"`
}

// Events is the shoot-day planning skill.
type Events struct{}

// NewEvents creates the events skill.
func NewEvents() *Events {
	return &Events{}
}

// AnalyzeCriticalPath finds the longest dependency chain of incomplete tasks
// and flags every task on it as a zero-slack blocker. A nil event or an event
// with no tasks yields an empty report.
func (e *Events) AnalyzeCriticalPath(event *core.Event) CriticalPathReport {
	report := CriticalPathReport{PathTaskIDs: []string{}, Blockers: []TaskBlocker{}}
	if event == nil || len(event.Tasks) == 0 {
		return report
	}

	tasks := make(map[string]core.ShootTask, len(event.Tasks))
	for _, t := range event.Tasks {
		if !t.Completed {
			tasks[t.ID] = t
		}
	}

	// Longest chain ending at each task, via memoized walk over DependsOn.
	// Unknown or cyclic dependencies are skipped rather than rejected.
	memo := make(map[string]float64, len(tasks))
	next := make(map[string]string, len(tasks)) // Task -> predecessor on its longest chain
	var chain func(id string, visiting map[string]bool) float64
	chain = func(id string, visiting map[string]bool) float64 {
		if hours, ok := memo[id]; ok {
			return hours
		}
		task, ok := tasks[id]
		if !ok || visiting[id] {
			return 0
		}
		visiting[id] = true
		defer delete(visiting, id)

		best := 0.0
		for _, dep := range task.DependsOn {
			if hours := chain(dep, visiting); hours > best {
				best = hours
				next[id] = dep
			}
		}
		memo[id] = best + task.EstimatedHours
		return memo[id]
	}

	// Iterate in a fixed order so ties resolve the same way every call.
	ids := make([]string, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	endID := ""
	for _, id := range ids {
		if hours := chain(id, map[string]bool{}); endID == "" || hours > report.TotalHours {
			report.TotalHours = hours
			endID = id
		}
	}

	// Walk the chain back from the end, then reverse into execution order.
	for id := endID; id != ""; id = next[id] {
		report.PathTaskIDs = append(report.PathTaskIDs, id)
		if _, hasNext := next[id]; !hasNext {
			break
		}
	}
	for i, j := 0, len(report.PathTaskIDs)-1; i < j; i, j = i+1, j-1 {
		report.PathTaskIDs[i], report.PathTaskIDs[j] = report.PathTaskIDs[j], report.PathTaskIDs[i]
	}

	// Every task on the longest chain has zero slack.
	for _, id := range report.PathTaskIDs {
		task := tasks[id]
		report.Blockers = append(report.Blockers, TaskBlocker{
			TaskID:   task.ID,
			TaskName: task.Name,
			Severity: core.SeverityCritical,
			Reason:   "On the critical path — any delay pushes the whole day.",
		})
	}

	return report
}

// IdentifyStaffingGaps compares each task's required skills against the
// member assigned to it. Unassigned tasks with requirements always gap.
func (e *Events) IdentifyStaffingGaps(event *core.Event, team []core.TeamMember) []StaffingGap {
	gaps := []StaffingGap{}
	if event == nil {
		return gaps
	}

	members := make(map[string]core.TeamMember, len(team))
	for _, m := range team {
		members[m.ID] = m
	}

	for _, task := range event.Tasks {
		if task.Completed || len(task.RequiredSkills) == 0 {
			continue
		}

		if task.AssigneeID == "" {
			gaps = append(gaps, StaffingGap{
				TaskID:        task.ID,
				TaskName:      task.Name,
				Unassigned:    true,
				MissingSkills: append([]string(nil), task.RequiredSkills...),
			})
			continue
		}

		assignee, ok := members[task.AssigneeID]
		var missing []string
		for _, skill := range task.RequiredSkills {
			if !ok || !hasSkill(assignee.Skills, skill) {
				missing = append(missing, skill)
			}
		}
		if len(missing) > 0 {
			gaps = append(gaps, StaffingGap{
				TaskID:        task.ID,
				TaskName:      task.Name,
				MissingSkills: missing,
			})
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].Unassigned != gaps[j].Unassigned {
			return gaps[i].Unassigned
		}
		return len(gaps[i].MissingSkills) > len(gaps[j].MissingSkills)
	})

	return gaps
}

// Answer is the router entry point for event and schedule questions.
func (e *Events) Answer(text string, event *core.Event, team []core.TeamMember) (string, []core.Action) {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "staff") || strings.Contains(lower, "crew") || strings.Contains(lower, "assign") {
		gaps := e.IdentifyStaffingGaps(event, team)
		if len(gaps) == 0 {
			return "Every task with skill requirements is covered.", nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%d staffing gaps:\n", len(gaps))
		for _, gap := range gaps {
			if gap.Unassigned {
				fmt.Fprintf(&b, "- %s is unassigned (needs %s)\n", gap.TaskName, strings.Join(gap.MissingSkills, ", "))
			} else {
				fmt.Fprintf(&b, "- %s is missing %s\n", gap.TaskName, strings.Join(gap.MissingSkills, ", "))
			}
		}
		return b.String(), []core.Action{{Label: "Open task board", ActionID: "open_events"}}
	}

	report := e.AnalyzeCriticalPath(event)
	if len(report.PathTaskIDs) == 0 {
		return "No open tasks on the schedule — nothing is on the critical path.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The critical path runs %.1f hours through %d tasks:\n", report.TotalHours, len(report.PathTaskIDs))
	for _, blocker := range report.Blockers {
		fmt.Fprintf(&b, "- %s\n", blocker.TaskName)
	}
	b.WriteString("Any slip on these pushes the whole day.")
	return b.String(), []core.Action{{Label: "View schedule", ActionID: "open_events"}}
}

func hasSkill(skills []string, skill string) bool {
	for _, s := range skills {
		if s == skill {
			return true
		}
	}
	return false
}
