package scoring

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthboard/internal/domain"
)

type fakeCustomers struct {
	known map[int64]bool
}

func (f *fakeCustomers) GetByID(_ context.Context, id int64) (domain.Customer, error) {
	if !f.known[id] {
		return domain.Customer{}, domain.ErrNotFound
	}
	return domain.Customer{ID: id, CompanyName: "Acme"}, nil
}

func (f *fakeCustomers) List(context.Context, domain.ListOptions) ([]domain.CustomerWithScore, error) {
	return nil, nil
}
func (f *fakeCustomers) Count(context.Context) (int, error) { return 0, nil }
func (f *fakeCustomers) Metrics(context.Context, int64, time.Time) (domain.CustomerMetrics, error) {
	return domain.CustomerMetrics{}, nil
}
func (f *fakeCustomers) ComponentRows(context.Context, int64, domain.ScoreComponent) ([]map[string]any, error) {
	return nil, nil
}

type fakeBundles struct {
	bundle domain.MetricBundle
	err    error
}

func (f *fakeBundles) FetchBundle(context.Context, int64, time.Time) (domain.MetricBundle, error) {
	return f.bundle, f.err
}

type fakeScores struct {
	saved   []domain.HealthScore
	saveErr error
}

func (f *fakeScores) Save(_ context.Context, s domain.HealthScore) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeScores) GetLatest(context.Context, int64) (domain.HealthScore, bool, error) {
	return domain.HealthScore{}, false, nil
}

func newTestService(c *fakeCustomers, b *fakeBundles, s *fakeScores) *Service {
	svc := New(c, b, s, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestScore_ComputesAndPersists(t *testing.T) {
	scores := &fakeScores{}
	svc := newTestService(
		&fakeCustomers{known: map[int64]bool{1: true}},
		&fakeBundles{bundle: domain.MetricBundle{
			Login: domain.LoginActivity{ActiveDays: 20},
			API:   domain.APIUsage{TotalRequests: 5000, ActiveDays: 25},
		}},
		scores,
	)

	got, err := svc.Score(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.CustomerID)
	assert.Equal(t, 100, got.LoginScore)
	assert.Equal(t, 100, got.APIScore)
	require.Len(t, scores.saved, 1)
	assert.Equal(t, got, scores.saved[0])
	assert.Equal(t, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), got.CalculatedAt)
}

func TestScore_UnknownCustomer(t *testing.T) {
	scores := &fakeScores{}
	svc := newTestService(&fakeCustomers{}, &fakeBundles{}, scores)

	_, err := svc.Score(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, scores.saved)
}

func TestScore_AggregationFailurePropagates(t *testing.T) {
	boom := errors.New("connection reset")
	svc := newTestService(
		&fakeCustomers{known: map[int64]bool{1: true}},
		&fakeBundles{err: boom},
		&fakeScores{},
	)

	_, err := svc.Score(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestScore_SaveFailureStillReturnsScore(t *testing.T) {
	svc := newTestService(
		&fakeCustomers{known: map[int64]bool{1: true}},
		&fakeBundles{},
		&fakeScores{saveErr: errors.New("disk full")},
	)

	got, err := svc.Score(context.Background(), 1)
	require.NoError(t, err)
	// Empty bundle scores 40 (support and payment default to full credit).
	assert.Equal(t, 40, got.Overall)
	assert.Equal(t, domain.TierCritical, got.Tier)
}
