package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"healthboard/internal/domain"
)

// sortColumns is the fixed enum-to-column mapping for customer listing.
// Anything outside it falls back to overall_score; user input never reaches
// the ORDER BY clause directly.
var sortColumns = map[string]string{
	"overall_score":   "COALESCE(h.overall_score, 0)",
	"company_name":    "c.company_name",
	"monthly_revenue": "c.monthly_revenue",
	"signup_date":     "c.signup_date",
}

// tierRanges maps a health level filter to its [min, max) overall-score range.
var tierRanges = map[domain.Tier][2]int{
	domain.TierHealthy:  {80, 101},
	domain.TierAtRisk:   {60, 80},
	domain.TierCritical: {40, 60},
	domain.TierChurned:  {0, 40},
}

// buildListQuery assembles the customer listing query. The latest score per
// customer comes from a LATERAL join ordered by calculated_at (ties broken by
// insertion order).
func buildListQuery(opts domain.ListOptions) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if opts.Segment != "" {
		args = append(args, opts.Segment)
		conds = append(conds, fmt.Sprintf("c.segment = $%d", len(args)))
	}
	if r, ok := tierRanges[opts.Tier]; ok {
		args = append(args, r[0], r[1])
		conds = append(conds, fmt.Sprintf("h.overall_score >= $%d AND h.overall_score < $%d", len(args)-1, len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	col, ok := sortColumns[opts.SortBy]
	if !ok {
		col = sortColumns["overall_score"]
	}
	dir := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		dir = "ASC"
	}

	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)
	q := fmt.Sprintf(`
		SELECT
			c.id, c.company_name, c.contact_name, c.contact_email,
			c.segment, c.plan_type, c.monthly_revenue, c.signup_date, c.last_login_date,
			h.overall_score, h.login_frequency_score, h.feature_adoption_score,
			h.support_ticket_score, h.payment_timeliness_score, h.api_usage_score,
			h.calculated_at
		FROM customers c
		LEFT JOIN LATERAL (
			SELECT overall_score, login_frequency_score, feature_adoption_score,
			       support_ticket_score, payment_timeliness_score, api_usage_score,
			       calculated_at
			FROM health_scores
			WHERE customer_id = c.id
			ORDER BY calculated_at DESC, id DESC
			LIMIT 1
		) h ON true
		%s
		ORDER BY %s %s, c.id
		LIMIT $%d OFFSET $%d
	`, where, col, dir, len(args)-1, len(args))
	return q, args
}

// CustomerRepository

func (db *DB) List(ctx context.Context, opts domain.ListOptions) ([]domain.CustomerWithScore, error) {
	q, args := buildListQuery(opts)
	rows, err := db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, dataErr(err)
	}
	defer rows.Close()

	out := []domain.CustomerWithScore{}
	for rows.Next() {
		var c domain.Customer
		var overall, login, feature, support, payment, api *int
		var calc *time.Time
		if err := rows.Scan(
			&c.ID, &c.CompanyName, &c.ContactName, &c.ContactEmail,
			&c.Segment, &c.PlanType, &c.MonthlyRevenue, &c.SignupDate, &c.LastLoginDate,
			&overall, &login, &feature, &support, &payment, &api, &calc,
		); err != nil {
			return nil, dataErr(err)
		}
		cws := domain.CustomerWithScore{Customer: c}
		if overall != nil {
			cws.Score = &domain.HealthScore{
				CustomerID:   c.ID,
				Overall:      *overall,
				LoginScore:   *login,
				FeatureScore: *feature,
				SupportScore: *support,
				PaymentScore: *payment,
				APIScore:     *api,
				Tier:         domain.TierForScore(*overall),
				CalculatedAt: *calc,
			}
		}
		out = append(out, cws)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr(err)
	}
	return out, nil
}

func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, dataErr(err)
	}
	return n, nil
}

func (db *DB) GetByID(ctx context.Context, customerID int64) (domain.Customer, error) {
	var c domain.Customer
	err := db.Pool.QueryRow(ctx, `
		SELECT id, company_name, contact_name, contact_email, segment,
		       plan_type, monthly_revenue, signup_date, last_login_date
		FROM customers
		WHERE id = $1
	`, customerID).Scan(
		&c.ID, &c.CompanyName, &c.ContactName, &c.ContactEmail, &c.Segment,
		&c.PlanType, &c.MonthlyRevenue, &c.SignupDate, &c.LastLoginDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Customer{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Customer{}, dataErr(err)
	}
	return c, nil
}

// Metrics runs the eight summary counts as independent parallel queries
// joined before returning, mirroring the metric-bundle fan-out.
func (db *DB) Metrics(ctx context.Context, customerID int64, now time.Time) (domain.CustomerMetrics, error) {
	var m domain.CustomerMetrics
	since30d := now.AddDate(0, 0, -30)

	g, ctx := errgroup.WithContext(ctx)
	count := func(dst *int, q string, args ...any) {
		g.Go(func() error {
			return db.Pool.QueryRow(ctx, q, args...).Scan(dst)
		})
	}

	count(&m.TotalEvents, `SELECT COUNT(*) FROM customer_events WHERE customer_id = $1`, customerID)
	count(&m.RecentEvents, `SELECT COUNT(*) FROM customer_events WHERE customer_id = $1 AND created_at >= $2`, customerID, since30d)
	count(&m.TotalTickets, `SELECT COUNT(*) FROM support_tickets WHERE customer_id = $1`, customerID)
	count(&m.OpenTickets, `SELECT COUNT(*) FROM support_tickets WHERE customer_id = $1 AND status IN ('open', 'in_progress')`, customerID)
	count(&m.TotalPayments, `SELECT COUNT(*) FROM payments WHERE customer_id = $1`, customerID)
	count(&m.OverduePayments, `SELECT COUNT(*) FROM payments WHERE customer_id = $1 AND status = 'overdue'`, customerID)
	count(&m.FeaturesUsed, `SELECT COUNT(DISTINCT feature_name) FROM feature_usage WHERE customer_id = $1`, customerID)
	count(&m.APIRequests, `SELECT COALESCE(SUM(request_count), 0) FROM api_usage WHERE customer_id = $1 AND date >= $2`, customerID, since30d)

	if err := g.Wait(); err != nil {
		return domain.CustomerMetrics{}, dataErr(err)
	}
	return m, nil
}

// componentQueries backs the health-data drill-down. Keys are validated by
// the caller against domain.ParseScoreComponent before reaching here.
var componentQueries = map[domain.ScoreComponent]string{
	domain.ComponentLoginEvents: `
		SELECT id, event_type, event_data, created_at
		FROM customer_events
		WHERE customer_id = $1 AND event_type = 'login'
		ORDER BY created_at DESC
		LIMIT 100`,
	domain.ComponentFeatureUsage: `
		SELECT id, feature_name, usage_count, last_used, created_at, updated_at
		FROM feature_usage
		WHERE customer_id = $1
		ORDER BY usage_count DESC, last_used DESC`,
	domain.ComponentSupportTickets: `
		SELECT id, ticket_id, priority, status, subject, created_at, resolved_at
		FROM support_tickets
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT 100`,
	domain.ComponentPayments: `
		SELECT id, invoice_id, amount, due_date, paid_date, status, created_at
		FROM payments
		WHERE customer_id = $1
		ORDER BY due_date DESC
		LIMIT 100`,
	domain.ComponentAPIUsage: `
		SELECT id, endpoint, request_count, date, created_at
		FROM api_usage
		WHERE customer_id = $1
		ORDER BY date DESC
		LIMIT 100`,
}

func (db *DB) ComponentRows(ctx context.Context, customerID int64, component domain.ScoreComponent) ([]map[string]any, error) {
	q, ok := componentQueries[component]
	if !ok {
		return nil, fmt.Errorf("unknown score component %q", component)
	}
	rows, err := db.Pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, dataErr(err)
	}
	defer rows.Close()
	return rowsToMaps(rows)
}

// rowsToMaps converts an arbitrary result set into ordered-column maps for
// the drill-down endpoint, rendering timestamps as RFC 3339.
func rowsToMaps(rows pgx.Rows) ([]map[string]any, error) {
	fields := rows.FieldDescriptions()
	out := []map[string]any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, dataErr(err)
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			v := values[i]
			if ts, ok := v.(time.Time); ok {
				v = ts.Format(time.RFC3339)
			}
			row[string(fd.Name)] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr(err)
	}
	return out, nil
}

// dataErr tags an adapter failure so the HTTP layer can classify it as a
// database error without inspecting driver types.
func dataErr(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrDataAccess, err)
}
