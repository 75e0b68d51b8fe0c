package postgres

import (
	"context"
	"math"
	"time"

	"healthboard/internal/domain"
)

// DashboardRepository

// Stats aggregates tier counts and the average score over each customer's
// latest health score. Customers never scored count as churned, matching the
// tier of a zero score.
func (db *DB) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var st domain.DashboardStats

	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&st.Total); err != nil {
		return domain.DashboardStats{}, dataErr(err)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT
			CASE
				WHEN h.overall_score >= 80 THEN 'healthy'
				WHEN h.overall_score >= 60 THEN 'at-risk'
				WHEN h.overall_score >= 40 THEN 'critical'
				ELSE 'churned'
			END AS tier,
			COUNT(*)
		FROM customers c
		LEFT JOIN (
			SELECT DISTINCT ON (customer_id) customer_id, overall_score
			FROM health_scores
			ORDER BY customer_id, calculated_at DESC, id DESC
		) h ON h.customer_id = c.id
		GROUP BY tier
	`)
	if err != nil {
		return domain.DashboardStats{}, dataErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		var tier string
		var n int
		if err := rows.Scan(&tier, &n); err != nil {
			return domain.DashboardStats{}, dataErr(err)
		}
		switch domain.Tier(tier) {
		case domain.TierHealthy:
			st.Healthy = n
		case domain.TierAtRisk:
			st.AtRisk = n
		case domain.TierCritical:
			st.Critical = n
		case domain.TierChurned:
			st.Churned = n
		}
	}
	if err := rows.Err(); err != nil {
		return domain.DashboardStats{}, dataErr(err)
	}

	var avg *float64
	err = db.Pool.QueryRow(ctx, `
		SELECT AVG(h.overall_score)
		FROM (
			SELECT DISTINCT ON (customer_id) overall_score
			FROM health_scores
			ORDER BY customer_id, calculated_at DESC, id DESC
		) h
	`).Scan(&avg)
	if err != nil {
		return domain.DashboardStats{}, dataErr(err)
	}
	if avg != nil {
		st.AverageScore = round2(*avg)
	}
	return st, nil
}

func (db *DB) ScoreTrends(ctx context.Context, since time.Time) ([]domain.ScoreTrendPoint, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT to_char(calculated_at, 'YYYY-MM') AS month,
		       AVG(overall_score),
		       COUNT(*)
		FROM health_scores
		WHERE calculated_at >= $1
		GROUP BY month
		ORDER BY month
	`, since)
	if err != nil {
		return nil, dataErr(err)
	}
	defer rows.Close()

	out := []domain.ScoreTrendPoint{}
	for rows.Next() {
		var p domain.ScoreTrendPoint
		var avg float64
		if err := rows.Scan(&p.Month, &avg, &p.CustomerCount); err != nil {
			return nil, dataErr(err)
		}
		p.AverageScore = round2(avg)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr(err)
	}
	return out, nil
}

func (db *DB) UsageTrends(ctx context.Context, since time.Time) ([]domain.UsageTrendPoint, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT to_char(created_at, 'YYYY-MM') AS month,
		       COUNT(*) FILTER (WHERE event_type = 'login'),
		       COUNT(*) FILTER (WHERE event_type = 'api_call')
		FROM customer_events
		WHERE created_at >= $1
		GROUP BY month
		ORDER BY month
	`, since)
	if err != nil {
		return nil, dataErr(err)
	}
	defer rows.Close()

	out := []domain.UsageTrendPoint{}
	for rows.Next() {
		var p domain.UsageTrendPoint
		if err := rows.Scan(&p.Month, &p.Logins, &p.APICalls); err != nil {
			return nil, dataErr(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr(err)
	}
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
