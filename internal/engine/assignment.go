package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/shootflow/shootflow/internal/core"
)

// AssignmentConfig holds the matcher weights. The three weights sum to the
// maximum fit score of 100.
type AssignmentConfig struct {
	SkillWeight        float64 // Points for a perfect skill match
	WorkloadWeight     float64 // Points for a fully free member
	AvailabilityWeight float64 // Points for covering the event window
	CapacityHours      float64 // Hours at which a member counts as fully loaded
}

// DefaultAssignmentConfig returns the weights used in production.
func DefaultAssignmentConfig() AssignmentConfig {
	return AssignmentConfig{
		SkillWeight:        50,
		WorkloadWeight:     30,
		AvailabilityWeight: 20,
		CapacityHours:      40,
	}
}

// Matcher ranks team members for tasks.
type Matcher struct {
	config AssignmentConfig
}

// NewMatcher creates a matcher with the given config.
func NewMatcher(cfg AssignmentConfig) *Matcher {
	return &Matcher{config: cfg}
}

// Recommend ranks every candidate for the task, best fit first. When the task
// requires skills, any candidate with at least one matching skill always ranks
// above every candidate with none, regardless of raw fit score. An empty team
// yields an empty list.
func (m *Matcher) Recommend(task core.ShootTask, team []core.TeamMember, when time.Time) []core.AssignmentRecommendation {
	recs := make([]core.AssignmentRecommendation, 0, len(team))
	overlaps := make(map[string]float64, len(team))

	for _, member := range team {
		rec, overlap := m.score(task, member, when)
		overlaps[member.ID] = overlap
		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		oi, oj := overlaps[recs[i].Member.ID] > 0, overlaps[recs[j].Member.ID] > 0
		if oi != oj {
			return oi
		}
		if recs[i].FitScore != recs[j].FitScore {
			return recs[i].FitScore > recs[j].FitScore
		}
		return recs[i].Member.AssignedHours < recs[j].Member.AssignedHours
	})

	return recs
}

// score computes one candidate's fit and rationale. The returned overlap is
// the skill-match ratio, used by Recommend for tiering.
func (m *Matcher) score(task core.ShootTask, member core.TeamMember, when time.Time) (core.AssignmentRecommendation, float64) {
	var rationale []string

	// Skill overlap ratio; a task with no required skills matches everyone.
	overlap := 1.0
	if len(task.RequiredSkills) > 0 {
		matched := 0
		for _, required := range task.RequiredSkills {
			if containsString(member.Skills, required) {
				matched++
			}
		}
		overlap = float64(matched) / float64(len(task.RequiredSkills))
		if matched > 0 {
			rationale = append(rationale, fmt.Sprintf("matches %d of %d required skills", matched, len(task.RequiredSkills)))
		} else {
			rationale = append(rationale, "no required skill match")
		}
	}

	// Inverse workload; at or beyond capacity scores zero.
	loadFactor := 0.0
	if m.config.CapacityHours > 0 {
		loadFactor = 1 - member.AssignedHours/m.config.CapacityHours
		if loadFactor < 0 {
			loadFactor = 0
		}
	}
	if member.AssignedHours+task.EstimatedHours > m.config.CapacityHours {
		rationale = append(rationale, fmt.Sprintf("would exceed %.0fh capacity", m.config.CapacityHours))
	} else {
		rationale = append(rationale, fmt.Sprintf("%.0fh of %.0fh capacity in use", member.AssignedHours, m.config.CapacityHours))
	}

	// Availability window must cover the moment the work happens.
	available := 0.0
	if !when.IsZero() && !when.Before(member.AvailableFrom) && !when.After(member.AvailableUntil) {
		available = 1.0
		rationale = append(rationale, "available on the date")
	} else if when.IsZero() {
		available = 1.0
	} else {
		rationale = append(rationale, "outside availability window")
	}

	fit := overlap*m.config.SkillWeight + loadFactor*m.config.WorkloadWeight + available*m.config.AvailabilityWeight

	return core.AssignmentRecommendation{
		Member:    member,
		FitScore:  clamp(int(fit+0.5), 0, 100),
		Rationale: rationale,
	}, overlap
}

// OverallocationFlag reports a member carrying more than capacity, with the
// least-loaded qualified peer to redistribute to.
type OverallocationFlag struct {
	Member      core.TeamMember  `json:"member"`
	ExcessHours float64          `json:"excess_hours"`
	Peer        *core.TeamMember `json:"peer,omitempty"`
}

// DetectOverallocation flags members whose assigned hours exceed capacity.
// The suggested peer is the least-loaded member sharing at least one skill
// with the overloaded member; nil when no qualified peer exists.
func (m *Matcher) DetectOverallocation(team []core.TeamMember) []OverallocationFlag {
	var flags []OverallocationFlag

	for _, member := range team {
		if member.AssignedHours <= m.config.CapacityHours {
			continue
		}

		flag := OverallocationFlag{
			Member:      member,
			ExcessHours: member.AssignedHours - m.config.CapacityHours,
		}

		var peer *core.TeamMember
		for i := range team {
			candidate := &team[i]
			if candidate.ID == member.ID {
				continue
			}
			if candidate.AssignedHours >= m.config.CapacityHours {
				continue
			}
			if !sharesSkill(member.Skills, candidate.Skills) {
				continue
			}
			if peer == nil || candidate.AssignedHours < peer.AssignedHours {
				peer = candidate
			}
		}
		if peer != nil {
			p := *peer
			flag.Peer = &p
		}

		flags = append(flags, flag)
	}

	return flags
}

func sharesSkill(a, b []string) bool {
	for _, skill := range a {
		if containsString(b, skill) {
			return true
		}
	}
	return false
}
