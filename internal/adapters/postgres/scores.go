package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"healthboard/internal/domain"
)

// ScoreRepository

// Save appends a score row. History is retained; reads see only the newest
// row per customer.
func (db *DB) Save(ctx context.Context, s domain.HealthScore) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO health_scores (
			customer_id, overall_score, login_frequency_score,
			feature_adoption_score, support_ticket_score,
			payment_timeliness_score, api_usage_score, calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.CustomerID, s.Overall, s.LoginScore, s.FeatureScore,
		s.SupportScore, s.PaymentScore, s.APIScore, s.CalculatedAt)
	if err != nil {
		return dataErr(err)
	}
	return nil
}

func (db *DB) GetLatest(ctx context.Context, customerID int64) (domain.HealthScore, bool, error) {
	var s domain.HealthScore
	err := db.Pool.QueryRow(ctx, `
		SELECT customer_id, overall_score, login_frequency_score,
		       feature_adoption_score, support_ticket_score,
		       payment_timeliness_score, api_usage_score, calculated_at
		FROM health_scores
		WHERE customer_id = $1
		ORDER BY calculated_at DESC, id DESC
		LIMIT 1
	`, customerID).Scan(
		&s.CustomerID, &s.Overall, &s.LoginScore, &s.FeatureScore,
		&s.SupportScore, &s.PaymentScore, &s.APIScore, &s.CalculatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.HealthScore{}, false, nil
	}
	if err != nil {
		return domain.HealthScore{}, false, dataErr(err)
	}
	s.Tier = domain.TierForScore(s.Overall)
	return s, true, nil
}
