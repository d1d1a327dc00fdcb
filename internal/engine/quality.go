// Package engine implements the scoring and planning engines shared by the
// skills and the automation layer. Every engine is a pure function over the
// records it is handed plus a Config of named, tunable policy constants.
package engine

import (
	"fmt"

	"github.com/shootflow/shootflow/internal/core"
)

// Quality bands. Thresholds live in QualityConfig so the policy can be tuned
// without touching the mechanics.
const (
	BandExcellent  = "excellent"   // Auto-approve
	BandGood       = "good"
	BandAcceptable = "acceptable" // Flag for review
	BandNeedsWork  = "needs_work" // Reject
)

// QualityConfig holds the rubric weights and thresholds for asset scoring.
type QualityConfig struct {
	// Technical thresholds
	HighResPixels int   // Full resolution points at or above this pixel count
	MidResPixels  int   // Reduced resolution points at or above this
	GoodFileSize  int64 // Bytes for full file-size points
	MinFileSize   int64 // Bytes for reduced file-size points

	// Composition
	PreferredRatios  []float64 // Width/height ratios the brand shoots in
	RatioTolerance   float64
	CompositionTags  []string // Tags that indicate deliberate framing
	PortraitBonus    int      // Extra composition points for portrait orientation

	// Brand
	BrandCategories []string // Categories aligned with the brand brief
	BrandTags       []string // Tags that indicate brand alignment

	// Banding thresholds on the total score
	ExcellentAt  int
	GoodAt       int
	AcceptableAt int
}

// DefaultQualityConfig returns the rubric used in production.
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		HighResPixels:   24_000_000, // 24MP
		MidResPixels:    12_000_000,
		GoodFileSize:    8 << 20, // 8MB
		MinFileSize:     1 << 20, // 1MB
		PreferredRatios: []float64{0.8, 0.75, 0.667, 1.0, 0.5625}, // 4:5, 3:4, 2:3, 1:1, 9:16
		RatioTolerance:  0.05,
		CompositionTags: []string{"rule_of_thirds", "negative_space", "detail", "full_length", "motion"},
		PortraitBonus:   6,
		BrandCategories: []string{"campaign", "editorial", "ecommerce", "lookbook"},
		BrandTags:       []string{"hero", "brand", "styling", "palette", "on_figure"},
		ExcellentAt:     90,
		GoodAt:          70,
		AcceptableAt:    50,
	}
}

// QualityScorer scores assets against the brand rubric.
type QualityScorer struct {
	config QualityConfig
}

// NewQualityScorer creates a scorer with the given config.
func NewQualityScorer(cfg QualityConfig) *QualityScorer {
	return &QualityScorer{config: cfg}
}

// BatchResult is the output of scoring a batch of assets.
type BatchResult struct {
	Scores  []core.QualityScore `json:"scores"`
	Average float64             `json:"average"`
}

// Score computes the full quality rubric for one asset.
// Invariant: TotalScore == Technical + Composition + Brand, with
// 0 <= Technical <= 40, 0 <= Composition <= 30, 0 <= Brand <= 30.
func (s *QualityScorer) Score(asset core.Asset) core.QualityScore {
	var suggestions []string

	technical := s.scoreTechnical(asset, &suggestions)
	composition := s.scoreComposition(asset, &suggestions)
	brand := s.scoreBrand(asset, &suggestions)

	total := technical + composition + brand

	return core.QualityScore{
		AssetID:     asset.ID,
		TotalScore:  total,
		Technical:   technical,
		Composition: composition,
		Brand:       brand,
		Band:        s.band(total),
		Suggestions: suggestions,
	}
}

// ScoreBatch scores every asset and reports the batch average.
// An empty batch yields an empty list and a zero average.
func (s *QualityScorer) ScoreBatch(assets []core.Asset) BatchResult {
	result := BatchResult{Scores: make([]core.QualityScore, 0, len(assets))}
	if len(assets) == 0 {
		return result
	}

	var sum int
	for _, a := range assets {
		score := s.Score(a)
		result.Scores = append(result.Scores, score)
		sum += score.TotalScore
	}
	result.Average = float64(sum) / float64(len(assets))
	return result
}

// scoreTechnical awards 0-40: resolution (0-20), format (0-10), file size (0-10).
func (s *QualityScorer) scoreTechnical(asset core.Asset, suggestions *[]string) int {
	points := 0

	// Resolution
	pixels := asset.Width * asset.Height
	switch {
	case pixels >= s.config.HighResPixels:
		points += 20
	case pixels >= s.config.MidResPixels:
		points += 14
	case pixels > 0:
		points += 8
		*suggestions = append(*suggestions, "resolution below delivery spec, reshoot or upscale")
	}

	// Format
	switch asset.Format {
	case "raw", "tiff", "dng":
		points += 10
	case "png":
		points += 8
	case "jpeg", "jpg":
		points += 6
	default:
		points += 3
		if asset.Format != "" {
			*suggestions = append(*suggestions, fmt.Sprintf("format %q is not a delivery format", asset.Format))
		}
	}

	// File size as a proxy for compression damage
	switch {
	case asset.FileSize >= s.config.GoodFileSize:
		points += 10
	case asset.FileSize >= s.config.MinFileSize:
		points += 7
	case asset.FileSize > 0:
		points += 4
		*suggestions = append(*suggestions, "file size suggests heavy compression")
	}

	return clamp(points, 0, 40)
}

// scoreComposition awards 0-30 from aspect ratio, framing tags, and orientation.
func (s *QualityScorer) scoreComposition(asset core.Asset, suggestions *[]string) int {
	points := 0

	if asset.Width > 0 && asset.Height > 0 {
		ratio := float64(asset.Width) / float64(asset.Height)
		for _, preferred := range s.config.PreferredRatios {
			if ratio >= preferred-s.config.RatioTolerance && ratio <= preferred+s.config.RatioTolerance {
				points += 12
				break
			}
		}
		if points == 0 {
			points += 4
			*suggestions = append(*suggestions, "crop to a brand aspect ratio")
		}

		// Fashion delivery leans portrait
		if asset.Height > asset.Width {
			points += s.config.PortraitBonus
		} else if asset.Width == asset.Height {
			points += s.config.PortraitBonus / 2
		}
	}

	matched := 0
	for _, tag := range asset.Tags {
		if containsString(s.config.CompositionTags, tag) {
			matched++
		}
	}
	points += min(matched*4, 12)

	return clamp(points, 0, 30)
}

// scoreBrand awards 0-30 from category alignment, brand tags, and shot-list
// coverage.
func (s *QualityScorer) scoreBrand(asset core.Asset, suggestions *[]string) int {
	points := 0

	if containsString(s.config.BrandCategories, asset.Category) {
		points += 12
	} else if asset.Category != "" {
		points += 5
	} else {
		*suggestions = append(*suggestions, "uncategorized asset, tag it against the brief")
	}

	matched := 0
	for _, tag := range asset.Tags {
		if containsString(s.config.BrandTags, tag) {
			matched++
		}
	}
	points += min(matched*5, 10)

	// Tied to the shot list means it was briefed
	if asset.ShotRef != "" {
		points += 8
	}

	return clamp(points, 0, 30)
}

// band maps a total score to its review band.
func (s *QualityScorer) band(total int) string {
	switch {
	case total >= s.config.ExcellentAt:
		return BandExcellent
	case total >= s.config.GoodAt:
		return BandGood
	case total >= s.config.AcceptableAt:
		return BandAcceptable
	default:
		return BandNeedsWork
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
