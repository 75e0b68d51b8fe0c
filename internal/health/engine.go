package health

import (
	"math"
	"time"

	"healthboard/internal/domain"
)

// Weight constants for the overall score formula.
// They must sum to 1.0.
const (
	WeightLogin   = 0.25
	WeightFeature = 0.20
	WeightSupport = 0.15
	WeightPayment = 0.25
	WeightAPI     = 0.15
)

// Login activity saturates at 20 active days (20 * 5 = 100).
const loginPointsPerDay = 5

// Feature adoption reaches full credit at 15 distinct features.
const featureTarget = 15

// Result is the outcome of one score computation. Sub-scores are kept
// unrounded so the overall score is computed from the exact values; Score
// produces the rounded, persistable form.
type Result struct {
	LoginScore   float64
	FeatureScore float64
	SupportScore float64
	PaymentScore float64
	APIScore     float64
	Overall      int
	Tier         domain.Tier
}

// Compute calculates the health score from one customer's metric bundle.
//
// The function is pure: identical bundles yield identical results, and the
// caller supplies the customer identity and timestamp. Every count in the
// bundle is assumed to be a non-negative integer — the metric aggregator
// normalizes absent data to zero before this point.
func Compute(b domain.MetricBundle) Result {
	r := Result{
		LoginScore:   loginScore(b.Login),
		FeatureScore: featureScore(b.Features),
		SupportScore: supportScore(b.Support),
		PaymentScore: paymentScore(b.Payments),
		APIScore:     apiScore(b.API),
	}
	overall := r.LoginScore*WeightLogin +
		r.FeatureScore*WeightFeature +
		r.SupportScore*WeightSupport +
		r.PaymentScore*WeightPayment +
		r.APIScore*WeightAPI
	r.Overall = roundHalfUp(overall)
	r.Tier = domain.TierForScore(r.Overall)
	return r
}

// Score converts the result into the stored HealthScore for one customer,
// rounding each sub-score for display and persistence.
func (r Result) Score(customerID int64, at time.Time) domain.HealthScore {
	return domain.HealthScore{
		CustomerID:   customerID,
		Overall:      r.Overall,
		LoginScore:   roundHalfUp(r.LoginScore),
		FeatureScore: roundHalfUp(r.FeatureScore),
		SupportScore: roundHalfUp(r.SupportScore),
		PaymentScore: roundHalfUp(r.PaymentScore),
		APIScore:     roundHalfUp(r.APIScore),
		Tier:         r.Tier,
		CalculatedAt: at,
	}
}

func loginScore(m domain.LoginActivity) float64 {
	return math.Min(float64(m.ActiveDays*loginPointsPerDay), 100)
}

func featureScore(m domain.FeatureAdoption) float64 {
	return math.Min(float64(m.UsedFeatures)/featureTarget*100, 100)
}

// supportScore starts at 100 and applies two independent penalty tracks: one
// for ticket volume, one for high-priority tickets. Within a track only the
// highest matching threshold applies; the tracks add together.
func supportScore(m domain.SupportLoad) float64 {
	score := 100.0

	switch {
	case m.TotalTickets > 10:
		score -= 30
	case m.TotalTickets > 5:
		score -= 20
	case m.TotalTickets > 2:
		score -= 10
	}

	switch {
	case m.HighPriorityTickets > 3:
		score -= 25
	case m.HighPriorityTickets > 1:
		score -= 15
	case m.HighPriorityTickets > 0:
		score -= 5
	}

	return math.Max(score, 0)
}

// paymentScore gives full credit when there is no billing history.
func paymentScore(m domain.PaymentBehavior) float64 {
	if m.TotalPayments == 0 {
		return 100
	}
	onTimeRate := float64(m.OnTimePayments) / float64(m.TotalPayments) * 100
	return math.Max(onTimeRate-float64(m.OverduePayments)*5, 0)
}

// apiScore is a step function of request volume plus an active-day bonus.
// Zero requests means zero score; the bonus never lifts the result above 100.
func apiScore(m domain.APIUsage) float64 {
	if m.TotalRequests == 0 {
		return 0
	}

	var score float64
	switch {
	case m.TotalRequests >= 5000:
		score = 100
	case m.TotalRequests >= 2500:
		score = 80
	case m.TotalRequests >= 1000:
		score = 60
	case m.TotalRequests >= 500:
		score = 40
	case m.TotalRequests >= 100:
		score = 20
	default:
		score = 10
	}

	switch {
	case m.ActiveDays >= 25:
		score += 10
	case m.ActiveDays >= 15:
		score += 5
	}

	return math.Min(score, 100)
}

// roundHalfUp rounds to the nearest integer with .5 rounding up. Scores are
// never negative, so math.Round's half-away-from-zero behavior matches.
func roundHalfUp(v float64) int {
	return int(math.Round(v))
}
