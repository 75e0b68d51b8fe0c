package ports

import (
	"context"

	"healthboard/internal/domain"
)

// CustomerDirectory serves the customer read model and event recording.
type CustomerDirectory interface {
	List(ctx context.Context, opts domain.ListOptions) (rows []domain.CustomerWithScore, total int, err error)
	Get(ctx context.Context, customerID int64) (domain.Customer, error)
	Metrics(ctx context.Context, customerID int64) (domain.CustomerMetrics, error)
	ComponentData(ctx context.Context, customerID int64, component domain.ScoreComponent) ([]map[string]any, error)
	RecordEvent(ctx context.Context, customerID int64, eventType string, payload any) (domain.ActivityEvent, error)
}

// Scorer recomputes and persists a customer's health score.
type Scorer interface {
	Score(ctx context.Context, customerID int64) (domain.HealthScore, error)
}

// DashboardReader serves the aggregate dashboard views.
type DashboardReader interface {
	Stats(ctx context.Context) (domain.DashboardStats, error)
	HealthTrends(ctx context.Context, months int) ([]domain.ScoreTrendPoint, error)
	UsageTrends(ctx context.Context, months int) ([]domain.UsageTrendPoint, error)
}
