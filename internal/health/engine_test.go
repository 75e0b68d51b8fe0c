package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthboard/internal/domain"
)

func TestCompute_EmptyBundle(t *testing.T) {
	// With every count at zero, support and payment default to full credit
	// and the rest to zero: 100*.15 + 100*.25 = 40.
	r := Compute(domain.MetricBundle{})

	assert.Equal(t, 0.0, r.LoginScore)
	assert.Equal(t, 0.0, r.FeatureScore)
	assert.Equal(t, 100.0, r.SupportScore)
	assert.Equal(t, 100.0, r.PaymentScore)
	assert.Equal(t, 0.0, r.APIScore)
	assert.Equal(t, 40, r.Overall)
	assert.Equal(t, domain.TierCritical, r.Tier)
}

func TestCompute_WorkedExample(t *testing.T) {
	b := domain.MetricBundle{
		Login:    domain.LoginActivity{ActiveDays: 20},
		Features: domain.FeatureAdoption{UsedFeatures: 10},
		Support:  domain.SupportLoad{TotalTickets: 2, HighPriorityTickets: 0},
		Payments: domain.PaymentBehavior{TotalPayments: 6, OnTimePayments: 6, OverduePayments: 0},
		API:      domain.APIUsage{TotalRequests: 1000, ActiveDays: 15},
	}
	r := Compute(b)

	assert.Equal(t, 100.0, r.LoginScore)
	assert.InDelta(t, 66.67, r.FeatureScore, 0.01)
	assert.Equal(t, 100.0, r.SupportScore)
	assert.Equal(t, 100.0, r.PaymentScore)
	assert.Equal(t, 65.0, r.APIScore) // 60 base + 5 active-day bonus
	assert.Equal(t, 88, r.Overall)
	assert.Equal(t, domain.TierHealthy, r.Tier)

	s := r.Score(7, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, int64(7), s.CustomerID)
	assert.Equal(t, 67, s.FeatureScore) // 66.67 rounds up for display
	assert.Equal(t, 88, s.Overall)
}

func TestCompute_ScoresStayInRange(t *testing.T) {
	bundles := []domain.MetricBundle{
		{},
		{Login: domain.LoginActivity{ActiveDays: 1000}},
		{Features: domain.FeatureAdoption{UsedFeatures: 500}},
		{Support: domain.SupportLoad{TotalTickets: 99, HighPriorityTickets: 99}},
		{Payments: domain.PaymentBehavior{TotalPayments: 3, OnTimePayments: 0, OverduePayments: 50}},
		{API: domain.APIUsage{TotalRequests: 1_000_000, ActiveDays: 31}},
		{
			Login:    domain.LoginActivity{ActiveDays: 30},
			Features: domain.FeatureAdoption{UsedFeatures: 15},
			Support:  domain.SupportLoad{TotalTickets: 11, HighPriorityTickets: 4},
			Payments: domain.PaymentBehavior{TotalPayments: 10, OnTimePayments: 10},
			API:      domain.APIUsage{TotalRequests: 5000, ActiveDays: 25},
		},
	}
	for _, b := range bundles {
		r := Compute(b)
		for name, v := range map[string]float64{
			"login":   r.LoginScore,
			"feature": r.FeatureScore,
			"support": r.SupportScore,
			"payment": r.PaymentScore,
			"api":     r.APIScore,
		} {
			assert.GreaterOrEqual(t, v, 0.0, "%s sub-score below 0 for %+v", name, b)
			assert.LessOrEqual(t, v, 100.0, "%s sub-score above 100 for %+v", name, b)
		}
		assert.GreaterOrEqual(t, r.Overall, 0)
		assert.LessOrEqual(t, r.Overall, 100)
	}
}

func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  domain.Tier
	}{
		{100, domain.TierHealthy},
		{80, domain.TierHealthy},
		{79, domain.TierAtRisk},
		{60, domain.TierAtRisk},
		{59, domain.TierCritical},
		{40, domain.TierCritical},
		{39, domain.TierChurned},
		{0, domain.TierChurned},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.TierForScore(tc.score), "score %d", tc.score)
	}
}

func TestLoginScore_MonotonicAndSaturates(t *testing.T) {
	prev := -1.0
	for days := 0; days <= 40; days++ {
		s := loginScore(domain.LoginActivity{ActiveDays: days})
		require.GreaterOrEqual(t, s, prev, "login score decreased at %d days", days)
		prev = s
	}
	assert.Equal(t, 100.0, loginScore(domain.LoginActivity{ActiveDays: 20}))
	assert.Equal(t, 100.0, loginScore(domain.LoginActivity{ActiveDays: 30}))
}

func TestSupportScore_PenaltyTracks(t *testing.T) {
	cases := []struct {
		name   string
		load   domain.SupportLoad
		want   float64
	}{
		{"no tickets", domain.SupportLoad{}, 100},
		{"volume only, low", domain.SupportLoad{TotalTickets: 3}, 90},
		{"volume only, mid", domain.SupportLoad{TotalTickets: 6}, 80},
		{"volume only, high", domain.SupportLoad{TotalTickets: 11}, 70},
		{"highest threshold wins, not cumulative", domain.SupportLoad{TotalTickets: 100}, 70},
		{"high-priority only, one", domain.SupportLoad{TotalTickets: 1, HighPriorityTickets: 1}, 95},
		{"high-priority only, two", domain.SupportLoad{TotalTickets: 2, HighPriorityTickets: 2}, 85},
		{"high-priority only, four", domain.SupportLoad{TotalTickets: 2, HighPriorityTickets: 4}, 75},
		{"tracks are additive", domain.SupportLoad{TotalTickets: 11, HighPriorityTickets: 4}, 45},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, supportScore(tc.load))
		})
	}
}

func TestPaymentScore(t *testing.T) {
	// No billing history is not penalized, regardless of the other counts.
	assert.Equal(t, 100.0, paymentScore(domain.PaymentBehavior{}))
	assert.Equal(t, 100.0, paymentScore(domain.PaymentBehavior{OnTimePayments: 3, OverduePayments: 9}))

	assert.Equal(t, 100.0, paymentScore(domain.PaymentBehavior{TotalPayments: 4, OnTimePayments: 4}))
	assert.Equal(t, 50.0, paymentScore(domain.PaymentBehavior{TotalPayments: 4, OnTimePayments: 2}))
	// Overdue penalty stacks on the on-time rate and floors at zero.
	assert.Equal(t, 40.0, paymentScore(domain.PaymentBehavior{TotalPayments: 4, OnTimePayments: 2, OverduePayments: 2}))
	assert.Equal(t, 0.0, paymentScore(domain.PaymentBehavior{TotalPayments: 10, OnTimePayments: 1, OverduePayments: 9}))
}

func TestAPIScore(t *testing.T) {
	cases := []struct {
		usage domain.APIUsage
		want  float64
	}{
		{domain.APIUsage{}, 0},
		{domain.APIUsage{TotalRequests: 0, ActiveDays: 30}, 0}, // no requests, no bonus
		{domain.APIUsage{TotalRequests: 50}, 10},
		{domain.APIUsage{TotalRequests: 100}, 20},
		{domain.APIUsage{TotalRequests: 500}, 40},
		{domain.APIUsage{TotalRequests: 1000}, 60},
		{domain.APIUsage{TotalRequests: 2500}, 80},
		{domain.APIUsage{TotalRequests: 5000}, 100},
		{domain.APIUsage{TotalRequests: 1000, ActiveDays: 15}, 65},
		{domain.APIUsage{TotalRequests: 1000, ActiveDays: 25}, 70},
		{domain.APIUsage{TotalRequests: 5000, ActiveDays: 25}, 100}, // bonus clamped
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, apiScore(tc.usage), "%+v", tc.usage)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	b := domain.MetricBundle{
		Login:    domain.LoginActivity{ActiveDays: 12},
		Features: domain.FeatureAdoption{UsedFeatures: 7},
		Support:  domain.SupportLoad{TotalTickets: 4, HighPriorityTickets: 1},
		Payments: domain.PaymentBehavior{TotalPayments: 5, OnTimePayments: 3, OverduePayments: 1},
		API:      domain.APIUsage{TotalRequests: 800, ActiveDays: 10},
	}
	assert.Equal(t, Compute(b), Compute(b))
}

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightLogin + WeightFeature + WeightSupport + WeightPayment + WeightAPI
	assert.InDelta(t, 1.0, sum, 1e-9)
}
