// Package core defines the fundamental types for Shootflow.
// Every other package in the intelligence core reads these and nothing else.
package core

import (
	"time"
)

// -----------------------------------------------------------------------------
// KIT - A workspace surface of the production app
// -----------------------------------------------------------------------------

// Kit is a type-safe identifier for the workspace the user is looking at.
// The classifier uses it to break ties on ambiguous messages.
type Kit string

// The closed set of kits. Presentation code must use these constants;
// an unknown kit gets no classification bias.
const (
	KitLogistics Kit = "logistics" // Sample tracker
	KitEvents    Kit = "events"    // Shoot calendar and task board
	KitMedia     Kit = "media"     // Asset review and delivery
	KitServices  Kit = "services"  // Package catalog and quoting
	KitNavigator Kit = "navigator" // Feature discovery / onboarding
	KitDashboard Kit = "dashboard" // Landing dashboard, no domain bias
)

// Valid reports whether k is one of the known kits.
func (k Kit) Valid() bool {
	switch k {
	case KitLogistics, KitEvents, KitMedia, KitServices, KitNavigator, KitDashboard:
		return true
	}
	return false
}

// -----------------------------------------------------------------------------
// INTENT - The classified purpose of a user message
// -----------------------------------------------------------------------------

// Intent is the classified purpose of a message. The set is closed:
// anything the classifier cannot place lands on IntentGeneral.
type Intent string

const (
	IntentLogistics  Intent = "logistics"
	IntentEvents     Intent = "events"
	IntentMedia      Intent = "media"
	IntentServices   Intent = "services"
	IntentNavigation Intent = "navigation"
	IntentGeneral    Intent = "general"
)

// -----------------------------------------------------------------------------
// MESSAGE - One user turn
// -----------------------------------------------------------------------------

// SenderRole identifies who authored a message.
type SenderRole string

const (
	RoleUser      SenderRole = "user"
	RoleAssistant SenderRole = "assistant"
)

// Message is a single free-text request. Ephemeral, one per turn.
type Message struct {
	Text       string     `json:"text"`
	SenderRole SenderRole `json:"sender_role"`
}

// -----------------------------------------------------------------------------
// SAMPLE - A physical garment tracked through the shoot
// -----------------------------------------------------------------------------

// SampleStatus is the lifecycle state of a sample. Transitions are owned by
// the caller; the core only reads them.
type SampleStatus string

const (
	SampleAwaiting SampleStatus = "awaiting"
	SampleOnSet    SampleStatus = "on_set"
	SampleShot     SampleStatus = "shot"
	SampleReturned SampleStatus = "returned"
)

// SampleItem is one garment or accessory moving through the production.
type SampleItem struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	SKU      string       `json:"sku"`
	Variant  string       `json:"variant"` // Color / size variant
	ImageRef string       `json:"image_ref,omitempty"`
	Category string       `json:"category"` // Batching attribute (scene, look, rack)
	Status   SampleStatus `json:"status"`
	IsHero   bool         `json:"is_hero"`  // Required for a priority shot
	Priority int          `json:"priority"` // 1-5, 1 is highest
}

// -----------------------------------------------------------------------------
// ASSET - A captured media file
// -----------------------------------------------------------------------------

// AssetStatus is the lifecycle state of an asset.
type AssetStatus string

const (
	AssetUploaded  AssetStatus = "uploaded"
	AssetSelected  AssetStatus = "selected"
	AssetEdited    AssetStatus = "edited"
	AssetDelivered AssetStatus = "delivered"
)

// Asset is one captured file under review or delivery.
type Asset struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	ShotRef   string      `json:"shot_ref,omitempty"` // Shot list number this covers
	FileSize  int64       `json:"file_size"`          // Bytes
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Format    string      `json:"format"` // "raw", "tiff", "jpeg", ...
	Status    AssetStatus `json:"status"`
	Category  string      `json:"category"`
	Tags      []string    `json:"tags,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// ShotListItem is the ground-truth coverage target assets are checked against.
type ShotListItem struct {
	ShotNumber  string `json:"shot_number"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    int    `json:"priority"` // 1-5, 1 is highest
	Required    bool   `json:"required"`
}

// -----------------------------------------------------------------------------
// EVENT / TASK - Shoot days and the work inside them
// -----------------------------------------------------------------------------

// ShootTask is one unit of work inside an event. DependsOn references other
// task IDs within the same event.
type ShootTask struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	EstimatedHours float64  `json:"estimated_hours"`
	Priority       int      `json:"priority"` // 1-5, 1 is highest
	AssigneeID     string   `json:"assignee_id,omitempty"`
	DependsOn      []string `json:"depends_on,omitempty"`
	Completed      bool     `json:"completed"`
}

// Event is a shoot day (or prep/wrap day) with its nested tasks.
type Event struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Date     time.Time   `json:"date"`
	Location string      `json:"location,omitempty"`
	Tasks    []ShootTask `json:"tasks,omitempty"`
}

// TeamMember is a crew member who can be assigned tasks.
type TeamMember struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Skills         []string  `json:"skills,omitempty"`
	AssignedHours  float64   `json:"assigned_hours"` // Current workload
	AvailableFrom  time.Time `json:"available_from"`
	AvailableUntil time.Time `json:"available_until"`
}

// -----------------------------------------------------------------------------
// SERVICES - Productized offerings and quoting
// -----------------------------------------------------------------------------

// ServicePackage is a productized offering in the catalog.
type ServicePackage struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"` // "ecommerce", "campaign", "lookbook", ...
	Tier         string   `json:"tier"`     // "essential", "standard", "premium"
	BasePrice    float64  `json:"base_price"`
	Deliverables []string `json:"deliverables,omitempty"`
	TimelineDays int      `json:"timeline_days"` // Typical turnaround
	BudgetMin    float64  `json:"budget_min"`
	BudgetMax    float64  `json:"budget_max"`
}

// ServiceRequirements is what the client asked for, used to rank packages.
type ServiceRequirements struct {
	Category     string   `json:"category"`
	Budget       float64  `json:"budget"`
	DeadlineDays int      `json:"deadline_days"`
	AddOns       []string `json:"add_ons,omitempty"`
	ShotCount    int      `json:"shot_count,omitempty"`
}

// -----------------------------------------------------------------------------
// DERIVED VALUES - Computed per call, never stored with the records
// -----------------------------------------------------------------------------

// QualityScore is the scored rubric for one asset. TotalScore is always the
// sum of the three sub-scores.
type QualityScore struct {
	AssetID     string   `json:"asset_id"`
	TotalScore  int      `json:"total_score"` // 0-100
	Technical   int      `json:"technical"`   // 0-40
	Composition int      `json:"composition"` // 0-30
	Brand       int      `json:"brand"`       // 0-30
	Band        string   `json:"band"` // "excellent", "good", "acceptable", "needs_work"
	Suggestions []string `json:"suggestions,omitempty"`
}

// Severity orders risks. The ordering is total: critical > warning > info.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank maps a severity to a sortable weight; higher is more severe.
// Unknown severities rank lowest rather than failing.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// Risk is one finding from a scan. Derived per scan, never persisted by the
// core.
type Risk struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"` // "logistics", "schedule", "media", "staffing"
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Action      string   `json:"action"` // Recommended next step
}

// AssignmentRecommendation ranks one candidate for a task.
type AssignmentRecommendation struct {
	Member    TeamMember `json:"member"`
	FitScore  int        `json:"fit_score"` // 0-100
	Rationale []string   `json:"rationale,omitempty"`
}

// -----------------------------------------------------------------------------
// USER ACTIVITY - What the user has touched, for the navigator skill
// -----------------------------------------------------------------------------

// UserActivity is a snapshot of platform usage supplied by the caller.
type UserActivity struct {
	VisitedKits    []Kit          `json:"visited_kits,omitempty"`
	FeatureUsage   map[string]int `json:"feature_usage,omitempty"` // Feature ID -> use count
	SessionCount   int            `json:"session_count"`
	LastActiveDays int            `json:"last_active_days"` // Days since last session
}

// -----------------------------------------------------------------------------
// ASSISTANT CONTEXT / RESPONSE - The router contract
// -----------------------------------------------------------------------------

// AssistantContext is the read-only snapshot supplied by the caller on every
// turn. The core never mutates it and never observes changes outside of what
// is passed here.
type AssistantContext struct {
	CurrentKit   Kit    `json:"current_kit"`
	CurrentRoute string `json:"current_route,omitempty"`

	Samples      []SampleItem     `json:"samples,omitempty"`
	Event        *Event           `json:"event,omitempty"`
	Team         []TeamMember     `json:"team,omitempty"`
	Assets       []Asset          `json:"assets,omitempty"`
	ShotList     []ShotListItem   `json:"shot_list,omitempty"`
	Packages     []ServicePackage `json:"packages,omitempty"`
	Deadline     *time.Time       `json:"deadline,omitempty"`
	UserActivity *UserActivity    `json:"user_activity,omitempty"`
}

// Action is a follow-up the caller may render as a button. The router only
// proposes actions; resolving and executing them is the caller's job.
type Action struct {
	Label    string `json:"label"`
	ActionID string `json:"action_id"`
}

// AssistantResponse is the stable contract returned by the router.
type AssistantResponse struct {
	Intent     Intent   `json:"intent"`
	Content    string   `json:"content"`
	Confidence float64  `json:"confidence"` // 0.0 to 1.0
	Actions    []Action `json:"actions,omitempty"`
}
