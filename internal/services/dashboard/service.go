package dashboard

import (
	"context"
	"time"

	"healthboard/internal/domain"
	"healthboard/internal/ports"
)

const (
	defaultMonths = 6
	maxMonths     = 24
)

type Service struct {
	repo ports.DashboardRepository
	now  func() time.Time
}

func New(repo ports.DashboardRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Stats(ctx context.Context) (domain.DashboardStats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) HealthTrends(ctx context.Context, months int) ([]domain.ScoreTrendPoint, error) {
	return s.repo.ScoreTrends(ctx, s.since(months))
}

func (s *Service) UsageTrends(ctx context.Context, months int) ([]domain.UsageTrendPoint, error) {
	return s.repo.UsageTrends(ctx, s.since(months))
}

func (s *Service) since(months int) time.Time {
	if months < 1 || months > maxMonths {
		months = defaultMonths
	}
	return s.now().AddDate(0, -months, 0)
}
