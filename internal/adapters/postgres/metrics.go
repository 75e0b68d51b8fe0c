package postgres

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"healthboard/internal/domain"
)

// FetchBundle runs the five metric-group aggregates for one customer as a
// fan-out joined before returning. Window boundaries are computed here from
// the caller's clock and passed as parameters; the windows themselves are
// fixed (30d logins, all-time features, 90d tickets, 6mo payments, 30d API).
//
// COALESCE guarantees zero counts for empty result sets. A failed query is a
// failed aggregation — no partial bundles.
func (db *DB) FetchBundle(ctx context.Context, customerID int64, now time.Time) (domain.MetricBundle, error) {
	var b domain.MetricBundle
	since30d := now.AddDate(0, 0, -30)
	since90d := now.AddDate(0, 0, -90)
	since6mo := now.AddDate(0, -6, 0)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return db.Pool.QueryRow(ctx, `
			SELECT COUNT(DISTINCT created_at::date)
			FROM customer_events
			WHERE customer_id = $1 AND event_type = 'login' AND created_at >= $2
		`, customerID, since30d).Scan(&b.Login.ActiveDays)
	})

	g.Go(func() error {
		return db.Pool.QueryRow(ctx, `
			SELECT COUNT(DISTINCT feature_name)
			FROM feature_usage
			WHERE customer_id = $1
		`, customerID).Scan(&b.Features.UsedFeatures)
	})

	g.Go(func() error {
		return db.Pool.QueryRow(ctx, `
			SELECT COUNT(*),
			       COUNT(*) FILTER (WHERE priority IN ('high', 'critical'))
			FROM support_tickets
			WHERE customer_id = $1 AND created_at >= $2
		`, customerID, since90d).Scan(&b.Support.TotalTickets, &b.Support.HighPriorityTickets)
	})

	g.Go(func() error {
		return db.Pool.QueryRow(ctx, `
			SELECT COUNT(*),
			       COUNT(*) FILTER (WHERE status = 'paid' AND paid_date <= due_date),
			       COUNT(*) FILTER (WHERE status = 'overdue')
			FROM payments
			WHERE customer_id = $1 AND due_date >= $2
		`, customerID, since6mo).Scan(&b.Payments.TotalPayments, &b.Payments.OnTimePayments, &b.Payments.OverduePayments)
	})

	g.Go(func() error {
		return db.Pool.QueryRow(ctx, `
			SELECT COALESCE(SUM(request_count), 0),
			       COUNT(DISTINCT date)
			FROM api_usage
			WHERE customer_id = $1 AND date >= $2
		`, customerID, since30d).Scan(&b.API.TotalRequests, &b.API.ActiveDays)
	})

	if err := g.Wait(); err != nil {
		return domain.MetricBundle{}, dataErr(err)
	}
	return b, nil
}
