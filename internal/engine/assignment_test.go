package engine

import (
	"testing"
	"time"

	"github.com/shootflow/shootflow/internal/core"
)

func testTeam(when time.Time) []core.TeamMember {
	window := func(m core.TeamMember) core.TeamMember {
		m.AvailableFrom = when.Add(-24 * time.Hour)
		m.AvailableUntil = when.Add(24 * time.Hour)
		return m
	}
	return []core.TeamMember{
		window(core.TeamMember{ID: "tm-1", Name: "Ava", Skills: []string{"photography", "lighting"}, AssignedHours: 10}),
		window(core.TeamMember{ID: "tm-2", Name: "Ben", Skills: []string{"styling"}, AssignedHours: 2}),
		window(core.TeamMember{ID: "tm-3", Name: "Cleo", Skills: []string{"retouching"}, AssignedHours: 0}),
	}
}

func TestMatcher_RecommendRanksSkillMatchFirst(t *testing.T) {
	matcher := NewMatcher(DefaultAssignmentConfig())
	when := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)

	task := core.ShootTask{
		ID:             "task-1",
		Name:           "Studio lighting setup",
		RequiredSkills: []string{"lighting", "photography"},
		EstimatedHours: 4,
		Priority:       1,
	}

	recs := matcher.Recommend(task, testTeam(when), when)
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}

	// Scenario: a member with zero overlap must never outrank a partial match,
	// even when they are completely free.
	if recs[0].Member.ID != "tm-1" {
		t.Errorf("top recommendation = %s, want tm-1", recs[0].Member.ID)
	}

	for _, rec := range recs {
		if rec.FitScore < 0 || rec.FitScore > 100 {
			t.Errorf("fit score %d out of range for %s", rec.FitScore, rec.Member.ID)
		}
		if len(rec.Rationale) == 0 {
			t.Errorf("no rationale for %s", rec.Member.ID)
		}
	}
}

func TestMatcher_RecommendEmptyTeam(t *testing.T) {
	matcher := NewMatcher(DefaultAssignmentConfig())
	recs := matcher.Recommend(core.ShootTask{ID: "t"}, nil, time.Now())
	if len(recs) != 0 {
		t.Errorf("expected no recommendations for empty team, got %d", len(recs))
	}
}

func TestMatcher_RecommendNoRequiredSkills(t *testing.T) {
	matcher := NewMatcher(DefaultAssignmentConfig())
	when := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)

	recs := matcher.Recommend(core.ShootTask{ID: "t", Name: "Strike set"}, testTeam(when), when)

	// Everyone matches; least-loaded wins.
	if recs[0].Member.ID != "tm-3" {
		t.Errorf("top recommendation = %s, want tm-3 (least loaded)", recs[0].Member.ID)
	}
}

func TestMatcher_AvailabilityLowersFit(t *testing.T) {
	matcher := NewMatcher(DefaultAssignmentConfig())
	when := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)

	team := testTeam(when)
	available := matcher.Recommend(core.ShootTask{ID: "t"}, team[:1], when)[0]

	team[0].AvailableUntil = when.Add(-48 * time.Hour)
	unavailable := matcher.Recommend(core.ShootTask{ID: "t"}, team[:1], when)[0]

	if unavailable.FitScore >= available.FitScore {
		t.Errorf("unavailable fit %d should be below available fit %d", unavailable.FitScore, available.FitScore)
	}
}

func TestMatcher_DetectOverallocation(t *testing.T) {
	matcher := NewMatcher(DefaultAssignmentConfig())
	when := time.Now()

	team := testTeam(when)
	team[0].AssignedHours = 52 // Over the 40h capacity
	team = append(team, core.TeamMember{
		ID: "tm-4", Name: "Dia", Skills: []string{"lighting"}, AssignedHours: 5,
		AvailableFrom: when.Add(-time.Hour), AvailableUntil: when.Add(time.Hour),
	})

	flags := matcher.DetectOverallocation(team)
	if len(flags) != 1 {
		t.Fatalf("expected 1 flag, got %d", len(flags))
	}

	flag := flags[0]
	if flag.Member.ID != "tm-1" {
		t.Errorf("flagged %s, want tm-1", flag.Member.ID)
	}
	if flag.ExcessHours != 12 {
		t.Errorf("excess hours = %f, want 12", flag.ExcessHours)
	}
	if flag.Peer == nil || flag.Peer.ID != "tm-4" {
		t.Errorf("peer = %+v, want tm-4 (least-loaded with shared skill)", flag.Peer)
	}
}

func TestMatcher_DetectOverallocationNoQualifiedPeer(t *testing.T) {
	matcher := NewMatcher(DefaultAssignmentConfig())

	team := []core.TeamMember{
		{ID: "tm-1", Skills: []string{"lighting"}, AssignedHours: 50},
		{ID: "tm-2", Skills: []string{"catering"}, AssignedHours: 0},
	}

	flags := matcher.DetectOverallocation(team)
	if len(flags) != 1 {
		t.Fatalf("expected 1 flag, got %d", len(flags))
	}
	if flags[0].Peer != nil {
		t.Errorf("expected no qualified peer, got %s", flags[0].Peer.ID)
	}
}
