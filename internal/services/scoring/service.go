package scoring

import (
	"context"
	"log/slog"
	"time"

	"healthboard/internal/domain"
	"healthboard/internal/health"
	"healthboard/internal/metrics"
	"healthboard/internal/ports"
)

// Service recomputes a customer's health score from a fresh metric read and
// persists the result.
type Service struct {
	customers ports.CustomerRepository
	bundles   ports.MetricRepository
	scores    ports.ScoreRepository
	logger    *slog.Logger
	now       func() time.Time
}

func New(customers ports.CustomerRepository, bundles ports.MetricRepository, scores ports.ScoreRepository, logger *slog.Logger) *Service {
	return &Service{
		customers: customers,
		bundles:   bundles,
		scores:    scores,
		logger:    logger,
		now:       time.Now,
	}
}

// Score aggregates the customer's metric bundle, computes the score and
// persists it. A persistence failure is logged but does not fail the caller:
// the freshly computed score is returned either way.
func (s *Service) Score(ctx context.Context, customerID int64) (domain.HealthScore, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return domain.HealthScore{}, err
	}

	now := s.now()
	bundle, err := s.bundles.FetchBundle(ctx, customerID, now)
	if err != nil {
		return domain.HealthScore{}, err
	}

	score := health.Compute(bundle).Score(customerID, now)
	metrics.ScoreComputations.Inc()

	if err := s.scores.Save(ctx, score); err != nil {
		metrics.ScorePersistFailures.Inc()
		s.logger.Error("persist health score", "customer_id", customerID, "err", err)
	}
	return score, nil
}
