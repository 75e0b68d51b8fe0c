package ports

import (
	"context"
	"time"

	"healthboard/internal/domain"
)

// CustomerRepository reads customer rows and their latest scores.
type CustomerRepository interface {
	List(ctx context.Context, opts domain.ListOptions) ([]domain.CustomerWithScore, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, customerID int64) (domain.Customer, error)
	Metrics(ctx context.Context, customerID int64, now time.Time) (domain.CustomerMetrics, error)
	ComponentRows(ctx context.Context, customerID int64, component domain.ScoreComponent) ([]map[string]any, error)
}

// MetricRepository aggregates the five raw-metric groups for one customer.
// Genuinely empty result sets yield zero counts; query failures propagate.
type MetricRepository interface {
	FetchBundle(ctx context.Context, customerID int64, now time.Time) (domain.MetricBundle, error)
}

// ScoreRepository persists computed scores, latest-by-timestamp wins.
type ScoreRepository interface {
	Save(ctx context.Context, score domain.HealthScore) error
	GetLatest(ctx context.Context, customerID int64) (score domain.HealthScore, exists bool, err error)
}

// EventRepository appends activity events. Events are never mutated.
type EventRepository interface {
	Insert(ctx context.Context, customerID int64, eventType string, payload any, at time.Time) (domain.ActivityEvent, error)
}

// DashboardRepository serves the aggregate dashboard queries.
type DashboardRepository interface {
	Stats(ctx context.Context) (domain.DashboardStats, error)
	ScoreTrends(ctx context.Context, since time.Time) ([]domain.ScoreTrendPoint, error)
	UsageTrends(ctx context.Context, since time.Time) ([]domain.UsageTrendPoint, error)
}
