package skills

import (
	"testing"
	"time"

	"github.com/shootflow/shootflow/internal/core"
	"github.com/shootflow/shootflow/internal/engine"
)

func newMedia() *Media {
	return NewMedia(engine.NewQualityScorer(engine.DefaultQualityConfig()), DefaultMediaConfig())
}

func TestMedia_DetectMissingShots(t *testing.T) {
	shotList := []core.ShotListItem{
		{ShotNumber: "S-01", Description: "Hero look, full length", Required: true, Priority: 1},
		{ShotNumber: "S-02", Description: "Detail, cuff", Priority: 3},
		{ShotNumber: "S-03", Description: "Motion, walking", Required: true, Priority: 2},
		{ShotNumber: "S-04", Description: "Flat lay", Priority: 4},
	}
	assets := []core.Asset{
		{ID: "a1", ShotRef: "S-01"},
		{ID: "a2", ShotRef: "S-01"},
		{ID: "a3", ShotRef: "S-04"},
	}

	coverage := newMedia().DetectMissingShots(shotList, assets)

	if coverage.CoveredShots != 2 {
		t.Errorf("covered = %d, want 2", coverage.CoveredShots)
	}
	if coverage.CompletionPercent != 50 {
		t.Errorf("completion = %f, want 50", coverage.CompletionPercent)
	}
	if len(coverage.Missing) != 2 {
		t.Fatalf("missing = %d shots, want 2", len(coverage.Missing))
	}
	// Required shots come first.
	if coverage.Missing[0].ShotNumber != "S-03" {
		t.Errorf("first missing = %q, want required S-03", coverage.Missing[0].ShotNumber)
	}
}

func TestMedia_DetectMissingShotsEmptyList(t *testing.T) {
	coverage := newMedia().DetectMissingShots(nil, nil)
	if coverage.CompletionPercent != 100 {
		t.Errorf("completion = %f, want 100 for empty shot list", coverage.CompletionPercent)
	}
	if len(coverage.Missing) != 0 {
		t.Errorf("expected no missing shots, got %d", len(coverage.Missing))
	}
}

func TestMedia_GenerateSelectsDiversity(t *testing.T) {
	big := func(id, category string, tags ...string) core.Asset {
		return core.Asset{
			ID: id, Category: category, Tags: tags,
			Width: 4000, Height: 6000, FileSize: 10 << 20, Format: "tiff", ShotRef: "S-01",
		}
	}
	assets := []core.Asset{
		big("a1", "campaign", "hero", "rule_of_thirds"),
		big("a2", "campaign", "hero"),
		big("a3", "editorial", "brand"),
		big("a4", "ecommerce"),
		big("a5", "lookbook", "styling"),
	}

	selects := newMedia().GenerateSelects(assets, 3)

	if len(selects) != 3 {
		t.Fatalf("expected 3 selects, got %d", len(selects))
	}

	// Four categories exist for n=3, so no category may repeat.
	byID := map[string]core.Asset{}
	for _, a := range assets {
		byID[a.ID] = a
	}
	seen := map[string]bool{}
	for _, s := range selects {
		category := byID[s.AssetID].Category
		if seen[category] {
			t.Errorf("category %q repeated in selects", category)
		}
		seen[category] = true
	}
}

func TestMedia_GenerateSelectsFewCategories(t *testing.T) {
	assets := []core.Asset{
		{ID: "a1", Category: "campaign", Width: 4000, Height: 6000, FileSize: 10 << 20, Format: "tiff"},
		{ID: "a2", Category: "campaign", Width: 4000, Height: 6000, FileSize: 10 << 20, Format: "raw"},
		{ID: "a3", Category: "campaign", Width: 2000, Height: 3000, FileSize: 2 << 20, Format: "jpeg"},
	}

	// Only one category for n=3: the constraint relaxes and all three return.
	selects := newMedia().GenerateSelects(assets, 3)
	if len(selects) != 3 {
		t.Errorf("expected 3 selects with relaxed diversity, got %d", len(selects))
	}
}

// Eight delivered of ten, three days out: progress is exactly 80%.
func TestMedia_CalculateDeliveryTimeline(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(72 * time.Hour)

	var assets []core.Asset
	for i := 0; i < 8; i++ {
		assets = append(assets, core.Asset{ID: "d", Status: core.AssetDelivered, CreatedAt: now.Add(-10 * 24 * time.Hour)})
	}
	for i := 0; i < 2; i++ {
		assets = append(assets, core.Asset{ID: "u", Status: core.AssetUploaded, CreatedAt: now.Add(-10 * 24 * time.Hour)})
	}

	timeline := newMedia().CalculateDeliveryTimeline(assets, deadline, now)

	if timeline.ProgressPercentage != 80 {
		t.Errorf("progress = %f, want 80", timeline.ProgressPercentage)
	}
	if timeline.DaysRemaining != 3 {
		t.Errorf("days remaining = %d, want 3", timeline.DaysRemaining)
	}
	// 8%/day so far vs ~6.7%/day needed.
	if !timeline.OnTrack {
		t.Error("expected on track")
	}
}

func TestMedia_CalculateDeliveryTimelinePastDeadline(t *testing.T) {
	now := time.Now()
	assets := []core.Asset{{ID: "a", Status: core.AssetUploaded, CreatedAt: now.Add(-48 * time.Hour)}}

	timeline := newMedia().CalculateDeliveryTimeline(assets, now.Add(-24*time.Hour), now)
	if timeline.OnTrack {
		t.Error("past deadline with work remaining cannot be on track")
	}
}

func TestMedia_CalculateDeliveryTimelineEmpty(t *testing.T) {
	timeline := newMedia().CalculateDeliveryTimeline(nil, time.Now().Add(24*time.Hour), time.Now())
	if !timeline.OnTrack {
		t.Error("no assets means nothing is late")
	}
}

func TestMedia_Answer(t *testing.T) {
	media := newMedia()
	assets := []core.Asset{{ID: "a1", ShotRef: "S-01", Width: 4000, Height: 6000, Format: "tiff", FileSize: 10 << 20}}
	shotList := []core.ShotListItem{
		{ShotNumber: "S-01", Description: "Hero"},
		{ShotNumber: "S-02", Description: "Detail", Required: true},
	}

	content, actions := media.Answer("what shots are missing", assets, shotList, nil)
	if content == "" || len(actions) == 0 {
		t.Errorf("expected coverage answer with actions, got %q", content)
	}

	content, _ = media.Answer("show me the best selects", assets, shotList, nil)
	if content == "" {
		t.Error("expected selects answer")
	}
}
