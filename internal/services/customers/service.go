package customers

import (
	"context"
	"time"

	"healthboard/internal/domain"
	"healthboard/internal/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 200
)

type Service struct {
	repo   ports.CustomerRepository
	events ports.EventRepository
	now    func() time.Time
}

func New(repo ports.CustomerRepository, events ports.EventRepository) *Service {
	return &Service{repo: repo, events: events, now: time.Now}
}

// List returns one page of customers with their latest scores plus the total
// customer count for the pagination envelope.
func (s *Service) List(ctx context.Context, opts domain.ListOptions) ([]domain.CustomerWithScore, int, error) {
	if opts.Page < 1 {
		opts.Page = defaultPage
	}
	if opts.Limit < 1 {
		opts.Limit = defaultLimit
	}
	if opts.Limit > maxLimit {
		opts.Limit = maxLimit
	}

	rows, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *Service) Get(ctx context.Context, customerID int64) (domain.Customer, error) {
	return s.repo.GetByID(ctx, customerID)
}

func (s *Service) Metrics(ctx context.Context, customerID int64) (domain.CustomerMetrics, error) {
	return s.repo.Metrics(ctx, customerID, s.now())
}

func (s *Service) ComponentData(ctx context.Context, customerID int64, component domain.ScoreComponent) ([]map[string]any, error) {
	return s.repo.ComponentRows(ctx, customerID, component)
}

// RecordEvent appends one activity event. Caller is responsible for having
// verified the customer exists and the event type is valid.
func (s *Service) RecordEvent(ctx context.Context, customerID int64, eventType string, payload any) (domain.ActivityEvent, error) {
	return s.events.Insert(ctx, customerID, eventType, payload, s.now())
}
