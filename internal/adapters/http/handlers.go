package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"healthboard/internal/domain"
	"healthboard/internal/health"
)

// Response shapes. The listing keeps the snake_case column names the
// dashboard table binds to; the per-customer breakdown uses the camelCase
// shape of the health widget.

type customerRow struct {
	ID                     int64       `json:"id"`
	CompanyName            string      `json:"company_name"`
	ContactEmail           string      `json:"contact_email"`
	ContactName            string      `json:"contact_name"`
	Segment                string      `json:"segment"`
	PlanType               string      `json:"plan_type"`
	MonthlyRevenue         float64     `json:"monthly_revenue"`
	SignupDate             string      `json:"signup_date"`
	LastLoginDate          *time.Time  `json:"last_login_date"`
	OverallScore           int         `json:"overall_score"`
	LoginFrequencyScore    int         `json:"login_frequency_score"`
	FeatureAdoptionScore   int         `json:"feature_adoption_score"`
	SupportTicketScore     int         `json:"support_ticket_score"`
	PaymentTimelinessScore int         `json:"payment_timeliness_score"`
	APIUsageScore          int         `json:"api_usage_score"`
	CalculatedAt           *time.Time  `json:"calculated_at"`
	HealthLevel            domain.Tier `json:"healthLevel"`
}

type componentScore struct {
	Score  int     `json:"score"`
	Weight float64 `json:"weight"`
}

type scoreBreakdown struct {
	LoginFrequency    componentScore `json:"loginFrequency"`
	FeatureAdoption   componentScore `json:"featureAdoption"`
	SupportTickets    componentScore `json:"supportTickets"`
	PaymentTimeliness componentScore `json:"paymentTimeliness"`
	APIUsage          componentScore `json:"apiUsage"`
}

type scorePayload struct {
	CustomerID   int64          `json:"customerId"`
	OverallScore int            `json:"overallScore"`
	Breakdown    scoreBreakdown `json:"breakdown"`
	HealthLevel  domain.Tier    `json:"healthLevel"`
	CalculatedAt time.Time      `json:"calculatedAt"`
}

type customerProfile struct {
	ID             int64      `json:"id"`
	CompanyName    string     `json:"companyName"`
	Segment        string     `json:"segment"`
	PlanType       string     `json:"planType"`
	MonthlyRevenue float64    `json:"monthlyRevenue"`
	SignupDate     string     `json:"signupDate"`
	LastLoginDate  *time.Time `json:"lastLoginDate"`
}

type metricsPayload struct {
	TotalEvents     int `json:"totalEvents"`
	RecentEvents    int `json:"recentEvents"`
	TotalTickets    int `json:"totalTickets"`
	OpenTickets     int `json:"openTickets"`
	TotalPayments   int `json:"totalPayments"`
	OverduePayments int `json:"overduePayments"`
	FeaturesUsed    int `json:"featuresUsed"`
	APIRequests     int `json:"apiRequests"`
}

func toScorePayload(s domain.HealthScore) scorePayload {
	return scorePayload{
		CustomerID:   s.CustomerID,
		OverallScore: s.Overall,
		Breakdown: scoreBreakdown{
			LoginFrequency:    componentScore{Score: s.LoginScore, Weight: health.WeightLogin},
			FeatureAdoption:   componentScore{Score: s.FeatureScore, Weight: health.WeightFeature},
			SupportTickets:    componentScore{Score: s.SupportScore, Weight: health.WeightSupport},
			PaymentTimeliness: componentScore{Score: s.PaymentScore, Weight: health.WeightPayment},
			APIUsage:          componentScore{Score: s.APIScore, Weight: health.WeightAPI},
		},
		HealthLevel:  s.Tier,
		CalculatedAt: s.CalculatedAt,
	}
}

func toProfile(c domain.Customer) customerProfile {
	return customerProfile{
		ID:             c.ID,
		CompanyName:    c.CompanyName,
		Segment:        c.Segment,
		PlanType:       c.PlanType,
		MonthlyRevenue: c.MonthlyRevenue,
		SignupDate:     c.SignupDate.Format("2006-01-02"),
		LastLoginDate:  c.LastLoginDate,
	}
}

// customerIDParam parses and validates the :id path segment.
func customerIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid customer id %q", raw)
	}
	return id, nil
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// GET /api/customers

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := domain.ListOptions{
		Page:      queryInt(r, "page", 1),
		Limit:     queryInt(r, "limit", 20),
		Segment:   q.Get("segment"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	if hl := q.Get("healthLevel"); hl != "" {
		tier, ok := domain.ParseTier(hl)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "Invalid health level",
				"healthLevel must be one of: healthy, at-risk, critical, churned")
			return
		}
		opts.Tier = tier
	}

	rows, total, err := s.customers.List(r.Context(), opts)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	data := make([]customerRow, 0, len(rows))
	for _, cw := range rows {
		row := customerRow{
			ID:             cw.ID,
			CompanyName:    cw.CompanyName,
			ContactEmail:   cw.ContactEmail,
			ContactName:    cw.ContactName,
			Segment:        cw.Segment,
			PlanType:       cw.PlanType,
			MonthlyRevenue: cw.MonthlyRevenue,
			SignupDate:     cw.SignupDate.Format("2006-01-02"),
			LastLoginDate:  cw.LastLoginDate,
			HealthLevel:    domain.TierChurned, // unscored customers read as churned
		}
		if cw.Score != nil {
			row.OverallScore = cw.Score.Overall
			row.LoginFrequencyScore = cw.Score.LoginScore
			row.FeatureAdoptionScore = cw.Score.FeatureScore
			row.SupportTicketScore = cw.Score.SupportScore
			row.PaymentTimelinessScore = cw.Score.PaymentScore
			row.APIUsageScore = cw.Score.APIScore
			calc := cw.Score.CalculatedAt
			row.CalculatedAt = &calc
			row.HealthLevel = cw.Score.Tier
		}
		data = append(data, row)
	}

	page := opts.Page
	limit := opts.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Data:       data,
		Pagination: pagination{Page: page, Limit: limit, Total: total},
	})
}

// GET /api/customers/{id}/health

func (s *Server) handleCustomerHealth(w http.ResponseWriter, r *http.Request) {
	id, err := customerIDParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid customer ID",
			"Customer ID must be a positive integer")
		return
	}

	customer, err := s.customers.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	score, err := s.scorer.Score(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	m, err := s.customers.Metrics(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"customer":    toProfile(customer),
		"healthScore": toScorePayload(score),
		"metrics": metricsPayload{
			TotalEvents:     m.TotalEvents,
			RecentEvents:    m.RecentEvents,
			TotalTickets:    m.TotalTickets,
			OpenTickets:     m.OpenTickets,
			TotalPayments:   m.TotalPayments,
			OverduePayments: m.OverduePayments,
			FeaturesUsed:    m.FeaturesUsed,
			APIRequests:     m.APIRequests,
		},
	})
}

// GET /api/customers/{id}/health-data/{component}

func (s *Server) handleComponentData(w http.ResponseWriter, r *http.Request) {
	id, err := customerIDParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid customer ID",
			"Customer ID must be a positive integer")
		return
	}

	component, ok := domain.ParseScoreComponent(chi.URLParam(r, "component"))
	if !ok {
		writeError(w, r, http.StatusBadRequest, "Invalid health component",
			"component must be one of: login-events, feature-usage, support-tickets, payments, api-usage")
		return
	}

	customer, err := s.customers.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	rows, err := s.customers.ComponentData(r.Context(), id, component)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"customer": map[string]any{
			"id":          customer.ID,
			"companyName": customer.CompanyName,
		},
		"component": component,
		"data":      rows,
	})
}

// POST /api/customers/{id}/events

type recordEventRequest struct {
	EventType string `json:"eventType"`
	EventData any    `json:"eventData"`
}

func (s *Server) handleRecordEvent(w http.ResponseWriter, r *http.Request) {
	id, err := customerIDParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid customer ID",
			"Customer ID must be a positive integer")
		return
	}

	var req recordEventRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", "body must be JSON")
		return
	}
	if req.EventType == "" {
		writeError(w, r, http.StatusBadRequest, "Missing required field", "eventType is required")
		return
	}
	if !domain.ValidEventType(req.EventType) {
		writeError(w, r, http.StatusBadRequest, "Invalid event type",
			"eventType must be one of: "+strings.Join(domain.EventTypes, ", "))
		return
	}

	// Existence check first: recording against an unknown customer must not
	// create any event or score row.
	if _, err := s.customers.Get(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	event, err := s.customers.RecordEvent(r.Context(), id, req.EventType, req.EventData)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	score, err := s.scorer.Score(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Data: map[string]any{
			"event": map[string]any{
				"id":         event.ID,
				"customerId": event.CustomerID,
				"eventType":  event.Type,
				"eventData":  event.Payload,
				"createdAt":  event.CreatedAt,
			},
			"updatedHealthScore": score.Overall,
			"healthLevel":        score.Tier,
		},
		Message: "Event recorded and health score updated",
	})
}

// GET /api/dashboard/stats

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.dashboard.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"stats": map[string]any{
			"total":              stats.Total,
			"healthy":            stats.Healthy,
			"atRisk":             stats.AtRisk,
			"critical":           stats.Critical,
			"churned":            stats.Churned,
			"averageHealthScore": stats.AverageScore,
		},
		"averageHealthScore": stats.AverageScore,
	})
}

// GET /api/dashboard/trends

func (s *Server) handleHealthTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := s.dashboard.HealthTrends(r.Context(), queryInt(r, "months", 6))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	data := make([]map[string]any, 0, len(trends))
	for _, p := range trends {
		data = append(data, map[string]any{
			"month":         p.Month,
			"score":         p.AverageScore,
			"customerCount": p.CustomerCount,
		})
	}
	writeData(w, http.StatusOK, data)
}

// GET /api/dashboard/usage-trends

func (s *Server) handleUsageTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := s.dashboard.UsageTrends(r.Context(), queryInt(r, "months", 6))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	data := make([]map[string]any, 0, len(trends))
	for _, p := range trends {
		data = append(data, map[string]any{
			"month":    p.Month,
			"logins":   p.Logins,
			"apiCalls": p.APICalls,
		})
	}
	writeData(w, http.StatusOK, data)
}
