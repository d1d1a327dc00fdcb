package engine

import (
	"testing"

	"github.com/shootflow/shootflow/internal/core"
)

func testAsset() core.Asset {
	return core.Asset{
		ID:       "asset-1",
		Name:     "look-01.tiff",
		ShotRef:  "S-01",
		FileSize: 12 << 20,
		Width:    4000,
		Height:   6000,
		Format:   "tiff",
		Status:   core.AssetUploaded,
		Category: "campaign",
		Tags:     []string{"hero", "rule_of_thirds"},
	}
}

func TestQualityScorer_SubScoreBounds(t *testing.T) {
	scorer := NewQualityScorer(DefaultQualityConfig())

	assets := []core.Asset{
		testAsset(),
		{}, // zero-value asset must still score cleanly
		{ID: "low", FileSize: 100, Width: 640, Height: 480, Format: "gif", Category: "misc"},
		{ID: "mid", FileSize: 2 << 20, Width: 3000, Height: 4000, Format: "jpeg", Category: "ecommerce", Tags: []string{"brand", "detail", "negative_space", "palette"}},
	}

	for _, asset := range assets {
		score := scorer.Score(asset)

		if score.Technical < 0 || score.Technical > 40 {
			t.Errorf("asset %q: technical = %d, want 0-40", asset.ID, score.Technical)
		}
		if score.Composition < 0 || score.Composition > 30 {
			t.Errorf("asset %q: composition = %d, want 0-30", asset.ID, score.Composition)
		}
		if score.Brand < 0 || score.Brand > 30 {
			t.Errorf("asset %q: brand = %d, want 0-30", asset.ID, score.Brand)
		}
		if got := score.Technical + score.Composition + score.Brand; got != score.TotalScore {
			t.Errorf("asset %q: total = %d, sub-scores sum to %d", asset.ID, score.TotalScore, got)
		}
	}
}

func TestQualityScorer_Bands(t *testing.T) {
	scorer := NewQualityScorer(DefaultQualityConfig())

	tests := []struct {
		total int
		want  string
	}{
		{100, BandExcellent},
		{90, BandExcellent},
		{89, BandGood},
		{70, BandGood},
		{69, BandAcceptable},
		{50, BandAcceptable},
		{49, BandNeedsWork},
		{0, BandNeedsWork},
	}

	for _, tt := range tests {
		if got := scorer.band(tt.total); got != tt.want {
			t.Errorf("band(%d) = %q, want %q", tt.total, got, tt.want)
		}
	}
}

func TestQualityScorer_Idempotent(t *testing.T) {
	scorer := NewQualityScorer(DefaultQualityConfig())
	asset := testAsset()

	first := scorer.Score(asset)
	second := scorer.Score(asset)

	if first.TotalScore != second.TotalScore || first.Band != second.Band {
		t.Errorf("scoring is not idempotent: %+v vs %+v", first, second)
	}
}

func TestQualityScorer_ScoreBatch(t *testing.T) {
	scorer := NewQualityScorer(DefaultQualityConfig())

	t.Run("empty batch", func(t *testing.T) {
		result := scorer.ScoreBatch(nil)
		if len(result.Scores) != 0 {
			t.Errorf("expected no scores, got %d", len(result.Scores))
		}
		if result.Average != 0 {
			t.Errorf("expected zero average, got %f", result.Average)
		}
	})

	t.Run("average matches scores", func(t *testing.T) {
		assets := []core.Asset{testAsset(), {ID: "bare"}}
		result := scorer.ScoreBatch(assets)

		if len(result.Scores) != 2 {
			t.Fatalf("expected 2 scores, got %d", len(result.Scores))
		}
		sum := 0
		for _, s := range result.Scores {
			sum += s.TotalScore
		}
		want := float64(sum) / 2
		if result.Average != want {
			t.Errorf("average = %f, want %f", result.Average, want)
		}
	})
}

func TestQualityScorer_SuggestionsForWeakAssets(t *testing.T) {
	scorer := NewQualityScorer(DefaultQualityConfig())

	weak := core.Asset{ID: "weak", FileSize: 50_000, Width: 800, Height: 600, Format: "gif"}
	score := scorer.Score(weak)

	if len(score.Suggestions) == 0 {
		t.Error("expected suggestions for a weak asset")
	}
	if score.Band != BandNeedsWork && score.Band != BandAcceptable {
		t.Errorf("weak asset landed in band %q", score.Band)
	}
}
