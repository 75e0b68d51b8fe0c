package domain

import "time"

// Core domain models used internally. API response shapes live in the HTTP
// adapter; keep these decoupled where helpful.

// Tier is the qualitative health bucket derived from the overall score.
type Tier string

const (
	TierHealthy  Tier = "healthy"
	TierAtRisk   Tier = "at-risk"
	TierCritical Tier = "critical"
	TierChurned  Tier = "churned"
)

// TierForScore maps an overall 0-100 score to its tier. The boundaries are
// inclusive on the lower edge: 60 is at-risk, 40 is critical.
func TierForScore(score int) Tier {
	switch {
	case score >= 80:
		return TierHealthy
	case score >= 60:
		return TierAtRisk
	case score >= 40:
		return TierCritical
	default:
		return TierChurned
	}
}

// ParseTier returns the Tier for a query-string health level.
func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case TierHealthy, TierAtRisk, TierCritical, TierChurned:
		return Tier(s), true
	}
	return "", false
}

type Customer struct {
	ID             int64
	CompanyName    string
	ContactName    string
	ContactEmail   string
	Segment        string // enterprise|smb|startup
	PlanType       string
	MonthlyRevenue float64
	SignupDate     time.Time
	LastLoginDate  *time.Time
}

// MetricBundle holds the five raw-count groups aggregated for one customer at
// scoring time. Absence of data is zero, never unknown; the aggregator owns
// that normalization.
type MetricBundle struct {
	Login    LoginActivity
	Features FeatureAdoption
	Support  SupportLoad
	Payments PaymentBehavior
	API      APIUsage
}

type LoginActivity struct {
	ActiveDays int // distinct days with a login event, trailing 30d
}

type FeatureAdoption struct {
	UsedFeatures int // distinct features ever used
}

type SupportLoad struct {
	TotalTickets        int // trailing 90d
	HighPriorityTickets int // priority high or critical, trailing 90d
}

type PaymentBehavior struct {
	TotalPayments   int // due in trailing 6mo
	OnTimePayments  int
	OverduePayments int
}

type APIUsage struct {
	TotalRequests int // trailing 30d
	ActiveDays    int // distinct dates with >=1 request, trailing 30d
}

// HealthScore is the output of one scoring run. Sub-scores are stored rounded;
// the overall score is rounded from the unrounded sub-scores. Only the latest
// instance per customer is visible to reads.
type HealthScore struct {
	CustomerID   int64
	Overall      int
	LoginScore   int
	FeatureScore int
	SupportScore int
	PaymentScore int
	APIScore     int
	Tier         Tier
	CalculatedAt time.Time
}

// ActivityEvent is one append-only customer interaction record.
type ActivityEvent struct {
	ID         int64
	CustomerID int64
	Type       string
	Payload    any
	CreatedAt  time.Time
}

// Event types accepted by the record-event operation.
const (
	EventLogin         = "login"
	EventFeatureUsed   = "feature_used"
	EventAPICall       = "api_call"
	EventPageView      = "page_view"
	EventSupportTicket = "support_ticket"
	EventPayment       = "payment"
)

// EventTypes lists the accepted event types in a stable order.
var EventTypes = []string{
	EventLogin, EventFeatureUsed, EventAPICall,
	EventPageView, EventSupportTicket, EventPayment,
}

// ValidEventType reports whether t is one of the six accepted event types.
func ValidEventType(t string) bool {
	for _, v := range EventTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ScoreComponent selects which raw rows back one score component.
type ScoreComponent string

const (
	ComponentLoginEvents    ScoreComponent = "login-events"
	ComponentFeatureUsage   ScoreComponent = "feature-usage"
	ComponentSupportTickets ScoreComponent = "support-tickets"
	ComponentPayments       ScoreComponent = "payments"
	ComponentAPIUsage       ScoreComponent = "api-usage"
)

// ParseScoreComponent validates a path segment against the five components.
func ParseScoreComponent(s string) (ScoreComponent, bool) {
	switch ScoreComponent(s) {
	case ComponentLoginEvents, ComponentFeatureUsage, ComponentSupportTickets,
		ComponentPayments, ComponentAPIUsage:
		return ScoreComponent(s), true
	}
	return "", false
}

// CustomerWithScore pairs a customer with its latest health score, if any.
type CustomerWithScore struct {
	Customer
	Score *HealthScore
}

// CustomerMetrics is the summary count block shown alongside a health
// breakdown.
type CustomerMetrics struct {
	TotalEvents     int
	RecentEvents    int // trailing 30d
	TotalTickets    int
	OpenTickets     int
	TotalPayments   int
	OverduePayments int
	FeaturesUsed    int
	APIRequests     int // trailing 30d
}

// ListOptions control the paginated customer listing.
type ListOptions struct {
	Page      int
	Limit     int
	Segment   string
	Tier      Tier // empty means no health-level filter
	SortBy    string
	SortOrder string
}

type DashboardStats struct {
	Total        int
	Healthy      int
	AtRisk       int
	Critical     int
	Churned      int
	AverageScore float64
}

type ScoreTrendPoint struct {
	Month         string // YYYY-MM
	AverageScore  float64
	CustomerCount int
}

type UsageTrendPoint struct {
	Month    string // YYYY-MM
	Logins   int
	APICalls int
}
