package skills

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shootflow/shootflow/internal/core"
	"github.com/shootflow/shootflow/internal/engine"
)

// ShotCoverage is the output of DetectMissingShots.
type ShotCoverage struct {
	TotalShots        int                 `json:"total_shots"`
	CoveredShots      int                 `json:"covered_shots"`
	CompletionPercent float64             `json:"completion_percent"`
	Missing           []core.ShotListItem `json:"missing,omitempty"` // Required first, then by priority
}

// DeliveryTimeline is the output of CalculateDeliveryTimeline.
type DeliveryTimeline struct {
	TotalAssets        int     `json:"total_assets"`
	DeliveredAssets    int     `json:"delivered_assets"`
	ProgressPercentage float64 `json:"progress_percentage"`
	DaysRemaining      int     `json:"days_remaining"`
	OnTrack            bool    `json:"on_track"`
}

// MediaConfig tunes the media skill.
type MediaConfig struct {
	DefaultSelectCount int // Selects to propose when the caller gives no count
}

// DefaultMediaConfig returns the production defaults.
func DefaultMediaConfig() MediaConfig {
	return MediaConfig{DefaultSelectCount: 5}
}

// Media is the asset review and delivery skill.
type Media struct {
	scorer *engine.QualityScorer
	config MediaConfig
}

// NewMedia creates the media skill.
func NewMedia(scorer *engine.QualityScorer, cfg MediaConfig) *Media {
	return &Media{scorer: scorer, config: cfg}
}

// ScoreAssetQuality scores one asset against the brand rubric.
func (m *Media) ScoreAssetQuality(asset core.Asset) core.QualityScore {
	return m.scorer.Score(asset)
}

// ScoreAssetBatch scores a set of assets and reports the batch average.
func (m *Media) ScoreAssetBatch(assets []core.Asset) engine.BatchResult {
	return m.scorer.ScoreBatch(assets)
}

// DetectMissingShots diffs the shot list against the shots actually covered
// by at least one asset. An empty shot list reports 100% complete.
func (m *Media) DetectMissingShots(shotList []core.ShotListItem, assets []core.Asset) ShotCoverage {
	coverage := ShotCoverage{TotalShots: len(shotList), Missing: []core.ShotListItem{}}
	if len(shotList) == 0 {
		coverage.CompletionPercent = 100
		return coverage
	}

	covered := make(map[string]bool, len(assets))
	for _, a := range assets {
		if a.ShotRef != "" {
			covered[a.ShotRef] = true
		}
	}

	for _, shot := range shotList {
		if covered[shot.ShotNumber] {
			coverage.CoveredShots++
		} else {
			coverage.Missing = append(coverage.Missing, shot)
		}
	}

	sort.SliceStable(coverage.Missing, func(i, j int) bool {
		if coverage.Missing[i].Required != coverage.Missing[j].Required {
			return coverage.Missing[i].Required
		}
		return coverage.Missing[i].Priority < coverage.Missing[j].Priority
	})

	coverage.CompletionPercent = math.Round(float64(coverage.CoveredShots)/float64(coverage.TotalShots)*10000) / 100
	return coverage
}

// GenerateSelects returns the top-n assets by quality score with a diversity
// constraint: no two selects share a category unless fewer than n categories
// exist among the candidates.
func (m *Media) GenerateSelects(assets []core.Asset, n int) []core.QualityScore {
	if n <= 0 {
		n = m.config.DefaultSelectCount
	}
	if len(assets) == 0 {
		return []core.QualityScore{}
	}

	scored := m.scorer.ScoreBatch(assets).Scores
	byID := make(map[string]core.Asset, len(assets))
	categories := make(map[string]bool)
	for _, a := range assets {
		byID[a.ID] = a
		categories[a.Category] = true
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TotalScore > scored[j].TotalScore
	})

	enforceDiversity := len(categories) >= n

	selects := make([]core.QualityScore, 0, n)
	usedCategories := make(map[string]bool)
	var leftovers []core.QualityScore
	for _, score := range scored {
		if len(selects) == n {
			break
		}
		category := byID[score.AssetID].Category
		if enforceDiversity && usedCategories[category] {
			leftovers = append(leftovers, score)
			continue
		}
		usedCategories[category] = true
		selects = append(selects, score)
	}

	// Backfill with the best skipped assets when diversity ran short.
	for _, score := range leftovers {
		if len(selects) == n {
			break
		}
		selects = append(selects, score)
	}

	return selects
}

// CalculateDeliveryTimeline reports delivery progress against the deadline.
// The on-track call compares the delivery rate so far with the rate the
// remaining work needs; an empty asset list is on track by definition.
func (m *Media) CalculateDeliveryTimeline(assets []core.Asset, deadline time.Time, now time.Time) DeliveryTimeline {
	timeline := DeliveryTimeline{TotalAssets: len(assets)}
	if len(assets) == 0 {
		timeline.ProgressPercentage = 100
		timeline.OnTrack = true
		timeline.DaysRemaining = daysBetween(now, deadline)
		return timeline
	}

	earliest := assets[0].CreatedAt
	for _, a := range assets {
		if a.Status == core.AssetDelivered {
			timeline.DeliveredAssets++
		}
		if !a.CreatedAt.IsZero() && (earliest.IsZero() || a.CreatedAt.Before(earliest)) {
			earliest = a.CreatedAt
		}
	}

	timeline.ProgressPercentage = math.Round(float64(timeline.DeliveredAssets)/float64(timeline.TotalAssets)*10000) / 100
	timeline.DaysRemaining = daysBetween(now, deadline)

	switch {
	case timeline.DeliveredAssets == timeline.TotalAssets:
		timeline.OnTrack = true
	case timeline.DaysRemaining <= 0:
		timeline.OnTrack = false
	default:
		daysElapsed := daysBetween(earliest, now)
		if daysElapsed < 1 {
			daysElapsed = 1
		}
		doneRate := timeline.ProgressPercentage / float64(daysElapsed)
		neededRate := (100 - timeline.ProgressPercentage) / float64(timeline.DaysRemaining)
		timeline.OnTrack = doneRate >= neededRate
	}

	return timeline
}

// Answer is the router entry point for media questions.
func (m *Media) Answer(text string, assets []core.Asset, shotList []core.ShotListItem, deadline *time.Time) (string, []core.Action) {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "missing") || strings.Contains(lower, "coverage") || strings.Contains(lower, "shot list") {
		coverage := m.DetectMissingShots(shotList, assets)
		if len(coverage.Missing) == 0 {
			return fmt.Sprintf("Shot list is fully covered (%d of %d shots).", coverage.CoveredShots, coverage.TotalShots), nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Coverage is at %.0f%%. Still missing:\n", coverage.CompletionPercent)
		for _, shot := range coverage.Missing {
			marker := ""
			if shot.Required {
				marker = " (required)"
			}
			fmt.Fprintf(&b, "- %s: %s%s\n", shot.ShotNumber, shot.Description, marker)
		}
		return b.String(), []core.Action{{Label: "Open shot list", ActionID: "open_media"}}
	}

	if strings.Contains(lower, "select") || strings.Contains(lower, "best") || strings.Contains(lower, "top") {
		selects := m.GenerateSelects(assets, 0)
		if len(selects) == 0 {
			return "No assets to select from yet.", nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "My top %d selects by quality score:\n", len(selects))
		for _, s := range selects {
			fmt.Fprintf(&b, "- %s (%d/100, %s)\n", s.AssetID, s.TotalScore, s.Band)
		}
		return b.String(), []core.Action{{Label: "Review selects", ActionID: "open_media"}}
	}

	if deadline != nil && (strings.Contains(lower, "deliver") || strings.Contains(lower, "deadline") || strings.Contains(lower, "on track")) {
		timeline := m.CalculateDeliveryTimeline(assets, *deadline, time.Now())
		status := "on track"
		if !timeline.OnTrack {
			status = "behind"
		}
		return fmt.Sprintf("Delivery is %.0f%% complete with %d days remaining — %s.",
			timeline.ProgressPercentage, timeline.DaysRemaining, status), nil
	}

	result := m.ScoreAssetBatch(assets)
	if len(result.Scores) == 0 {
		return "No assets uploaded yet.", nil
	}
	return fmt.Sprintf("%d assets scored, batch average %.1f/100.", len(result.Scores), result.Average),
		[]core.Action{{Label: "Open asset review", ActionID: "open_media"}}
}

// daysBetween counts whole days from a to b, rounding up. Negative when b is
// in the past.
func daysBetween(a, b time.Time) int {
	return int(math.Ceil(b.Sub(a).Hours() / 24))
}
