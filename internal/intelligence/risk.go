// Package intelligence provides cross-domain scanning over a production
// snapshot. It pulls findings from every skill domain and merges them into a
// single prioritized view.
package intelligence

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shootflow/shootflow/internal/core"
	"github.com/shootflow/shootflow/internal/engine"
	"github.com/shootflow/shootflow/internal/skills"
)

// Config configures the risk scanner.
type Config struct {
	MaxRisks        int // Findings kept after sorting, for presentation
	QualityFloor    int // Total score below which an asset is a media risk
	MinQualitySweep int // Skip the media sweep under this many assets
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxRisks:        10,
		QualityFloor:    50,
		MinQualitySweep: 1,
	}
}

// RiskScanner runs every domain check over one snapshot. It is stateless and
// trigger-agnostic; scheduling is the caller's concern.
type RiskScanner struct {
	logistics *skills.Logistics
	events    *skills.Events
	scorer    *engine.QualityScorer
	matcher   *engine.Matcher
	config    Config
}

// NewRiskScanner creates a scanner over the given skills and engines.
func NewRiskScanner(logistics *skills.Logistics, events *skills.Events, scorer *engine.QualityScorer, matcher *engine.Matcher, cfg Config) *RiskScanner {
	return &RiskScanner{
		logistics: logistics,
		events:    events,
		scorer:    scorer,
		matcher:   matcher,
		config:    cfg,
	}
}

// ScanReport is the merged output of one scan.
type ScanReport struct {
	Risks     []core.Risk `json:"risks"` // Sorted critical > warning > info
	TotalRaw  int         `json:"total_raw"` // Findings before truncation
	ScannedAt time.Time   `json:"scanned_at"`
}

// Scan runs every check over the snapshot and merges the findings, most
// severe first. Empty snapshot sections simply contribute nothing; the scan
// never fails.
func (s *RiskScanner) Scan(snapshot core.AssistantContext) ScanReport {
	var risks []core.Risk

	risks = append(risks, s.scanLogistics(snapshot.Samples)...)
	risks = append(risks, s.scanSchedule(snapshot.Event)...)
	risks = append(risks, s.scanMedia(snapshot.Assets)...)
	risks = append(risks, s.scanStaffing(snapshot.Team)...)

	// Stable sort keeps same-severity findings in scan order.
	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].Severity.Rank() > risks[j].Severity.Rank()
	})

	report := ScanReport{TotalRaw: len(risks), ScannedAt: time.Now().UTC()}
	if len(risks) > s.config.MaxRisks {
		risks = risks[:s.config.MaxRisks]
	}
	report.Risks = risks
	return report
}

func (s *RiskScanner) scanLogistics(samples []core.SampleItem) []core.Risk {
	var risks []core.Risk

	for _, blocker := range s.logistics.IdentifyBlockers(samples) {
		risks = append(risks, core.Risk{
			ID:          uuid.NewString(),
			Category:    "logistics",
			Severity:    blocker.Severity,
			Description: blocker.Description,
			Action:      "Chase the sample with the carrier or brand contact.",
		})
	}

	readiness := s.logistics.AnalyzeReadiness(samples)
	if readiness.Status == skills.ReadinessWarning {
		risks = append(risks, core.Risk{
			ID:          uuid.NewString(),
			Category:    "logistics",
			Severity:    core.SeverityInfo,
			Description: readiness.Message,
			Action:      "Review the sample tracker.",
		})
	}

	return risks
}

func (s *RiskScanner) scanSchedule(event *core.Event) []core.Risk {
	var risks []core.Risk

	report := s.events.AnalyzeCriticalPath(event)
	for _, blocker := range report.Blockers {
		risks = append(risks, core.Risk{
			ID:          uuid.NewString(),
			Category:    "schedule",
			Severity:    core.SeverityWarning,
			Description: fmt.Sprintf("%s is on the critical path (%.1fh chain).", blocker.TaskName, report.TotalHours),
			Action:      "Protect this task from slips or add crew.",
		})
	}

	return risks
}

func (s *RiskScanner) scanMedia(assets []core.Asset) []core.Risk {
	if len(assets) < s.config.MinQualitySweep {
		return nil
	}

	var risks []core.Risk
	for _, score := range s.scorer.ScoreBatch(assets).Scores {
		if score.TotalScore >= s.config.QualityFloor {
			continue
		}
		risks = append(risks, core.Risk{
			ID:          uuid.NewString(),
			Category:    "media",
			Severity:    core.SeverityWarning,
			Description: fmt.Sprintf("Asset %s scored %d/100 (%s).", score.AssetID, score.TotalScore, score.Band),
			Action:      "Reshoot or pull the asset from the delivery set.",
		})
	}
	return risks
}

func (s *RiskScanner) scanStaffing(team []core.TeamMember) []core.Risk {
	var risks []core.Risk

	for _, flag := range s.matcher.DetectOverallocation(team) {
		risk := core.Risk{
			ID:          uuid.NewString(),
			Category:    "staffing",
			Severity:    core.SeverityCritical,
			Description: fmt.Sprintf("%s is %.0fh over capacity.", flag.Member.Name, flag.ExcessHours),
			Action:      "Redistribute tasks.",
		}
		if flag.Peer != nil {
			risk.Action = fmt.Sprintf("Shift work to %s, the least-loaded qualified peer.", flag.Peer.Name)
		}
		risks = append(risks, risk)
	}

	return risks
}
