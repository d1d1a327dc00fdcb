package skills

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shootflow/shootflow/internal/core"
)

// PackageRecommendation ranks one package against the requirements.
type PackageRecommendation struct {
	Package   core.ServicePackage `json:"package"`
	FitScore  int                 `json:"fit_score"` // 0-100
	Rationale []string            `json:"rationale,omitempty"`
}

// LineItem is one priced entry on a quote.
type LineItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// PriceQuote is the output of EstimatePricing.
type PriceQuote struct {
	PackageID string     `json:"package_id"`
	BasePrice float64    `json:"base_price"`
	AddOns    []LineItem `json:"add_ons,omitempty"`
	Total     float64    `json:"total"`
}

// TimelinePhase is one phase of a forecast.
type TimelinePhase struct {
	Name string `json:"name"`
	Days int    `json:"days"`
}

// TimelineForecast is the output of ForecastTimeline.
type TimelineForecast struct {
	PackageID     string          `json:"package_id"`
	Phases        []TimelinePhase `json:"phases"`
	TotalDays     int             `json:"total_days"`
	RushAvailable bool            `json:"rush_available"` // Slack exists against the deadline
}

// ServicesConfig holds the fit weights and the add-on price book.
type ServicesConfig struct {
	CategoryWeight int // Points for an exact category match
	BudgetWeight   int // Points for fitting inside budget
	TimelineWeight int // Points for beating the deadline

	AddOnPrices       map[string]float64
	DefaultAddOnPrice float64

	// Phase split of a package's timeline, as fractions summing to 1.
	PhaseSplit map[string]float64
}

// DefaultServicesConfig returns the production weights and price book.
func DefaultServicesConfig() ServicesConfig {
	return ServicesConfig{
		CategoryWeight: 40,
		BudgetWeight:   30,
		TimelineWeight: 30,
		AddOnPrices: map[string]float64{
			"retouching":      450,
			"casting":         900,
			"location_scout":  600,
			"video_cutdowns":  1200,
			"usage_extension": 800,
		},
		DefaultAddOnPrice: 500,
		PhaseSplit: map[string]float64{
			"pre-production":  0.2,
			"shoot":           0.3,
			"post-production": 0.4,
			"delivery":        0.1,
		},
	}
}

// Services is the package recommendation and quoting skill.
type Services struct {
	config ServicesConfig
}

// NewServices creates the services skill.
func NewServices(cfg ServicesConfig) *Services {
	return &Services{config: cfg}
}

// RecommendPackage ranks the catalog against the requirements, best fit
// first. Ties break toward the lower price. An empty catalog yields an empty
// list.
func (s *Services) RecommendPackage(packages []core.ServicePackage, req core.ServiceRequirements) []PackageRecommendation {
	recs := make([]PackageRecommendation, 0, len(packages))

	for _, pkg := range packages {
		rec := PackageRecommendation{Package: pkg}

		if req.Category != "" && pkg.Category == req.Category {
			rec.FitScore += s.config.CategoryWeight
			rec.Rationale = append(rec.Rationale, fmt.Sprintf("matches the %s brief", req.Category))
		}

		if req.Budget > 0 {
			switch {
			case pkg.BasePrice <= req.Budget:
				rec.FitScore += s.config.BudgetWeight
				rec.Rationale = append(rec.Rationale, "inside budget")
			case pkg.BasePrice <= req.Budget*1.1:
				rec.FitScore += s.config.BudgetWeight / 2
				rec.Rationale = append(rec.Rationale, "slightly over budget")
			default:
				rec.Rationale = append(rec.Rationale, "over budget")
			}
		}

		if req.DeadlineDays > 0 {
			switch {
			case pkg.TimelineDays <= req.DeadlineDays:
				rec.FitScore += s.config.TimelineWeight
				rec.Rationale = append(rec.Rationale, "fits the deadline")
			case pkg.TimelineDays <= req.DeadlineDays+3:
				rec.FitScore += s.config.TimelineWeight / 2
				rec.Rationale = append(rec.Rationale, "tight against the deadline")
			default:
				rec.Rationale = append(rec.Rationale, "cannot meet the deadline")
			}
		}

		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].FitScore != recs[j].FitScore {
			return recs[i].FitScore > recs[j].FitScore
		}
		return recs[i].Package.BasePrice < recs[j].Package.BasePrice
	})

	return recs
}

// EstimatePricing quotes a package plus itemized add-ons. Unlisted add-ons
// price at the default rather than failing.
func (s *Services) EstimatePricing(pkg core.ServicePackage, req core.ServiceRequirements) PriceQuote {
	quote := PriceQuote{
		PackageID: pkg.ID,
		BasePrice: pkg.BasePrice,
		Total:     pkg.BasePrice,
	}

	for _, addOn := range req.AddOns {
		price, ok := s.config.AddOnPrices[addOn]
		if !ok {
			price = s.config.DefaultAddOnPrice
		}
		quote.AddOns = append(quote.AddOns, LineItem{Name: addOn, Price: price})
		quote.Total += price
	}

	return quote
}

// ForecastTimeline breaks a package's timeline into phases that sum exactly
// to the total. Rush is available when the forecast beats the deadline.
func (s *Services) ForecastTimeline(pkg core.ServicePackage, req core.ServiceRequirements) TimelineForecast {
	forecast := TimelineForecast{PackageID: pkg.ID}
	if pkg.TimelineDays <= 0 {
		return forecast
	}

	// Fixed phase order; the split fractions come from config.
	order := []string{"pre-production", "shoot", "post-production", "delivery"}
	allocated := 0
	for i, name := range order {
		days := int(float64(pkg.TimelineDays)*s.config.PhaseSplit[name] + 0.5)
		if days < 1 {
			days = 1
		}
		// The last phase absorbs rounding drift so phases sum to the total.
		if i == len(order)-1 {
			days = pkg.TimelineDays - allocated
			if days < 1 {
				days = 1
			}
		}
		allocated += days
		forecast.Phases = append(forecast.Phases, TimelinePhase{Name: name, Days: days})
	}
	forecast.TotalDays = allocated
	forecast.RushAvailable = req.DeadlineDays > 0 && forecast.TotalDays < req.DeadlineDays

	return forecast
}

// Answer is the router entry point for services questions.
func (s *Services) Answer(text string, packages []core.ServicePackage) (string, []core.Action) {
	lower := strings.ToLower(text)

	// Pull a rough category out of the message so "quote me a lookbook"
	// ranks lookbook packages first.
	req := core.ServiceRequirements{}
	for _, category := range []string{"ecommerce", "campaign", "lookbook", "editorial"} {
		if strings.Contains(lower, category) {
			req.Category = category
			break
		}
	}

	recs := s.RecommendPackage(packages, req)
	if len(recs) == 0 {
		return "No packages in the catalog yet.", nil
	}

	top := recs[0]
	var b strings.Builder
	fmt.Fprintf(&b, "Best fit: %s (%s tier) at $%.0f — fit %d/100.",
		top.Package.Name, top.Package.Tier, top.Package.BasePrice, top.FitScore)
	if len(recs) > 1 {
		fmt.Fprintf(&b, " Runner-up: %s at $%.0f.", recs[1].Package.Name, recs[1].Package.BasePrice)
	}

	return b.String(), []core.Action{
		{Label: "Compare packages", ActionID: "open_services"},
		{Label: "Request quote", ActionID: "request_quote"},
	}
}
