package repos

import (
	"context"
	"fmt"

	"orderly/internal/domain"
	"orderly/internal/store"
)

// ReportRepo computes aggregates straight from the orders table on every call.
type ReportRepo struct{ st *store.Store }

func NewReportRepo(st *store.Store) *ReportRepo { return &ReportRepo{st: st} }

func (r *ReportRepo) Counts(ctx context.Context, merchantID int64) (domain.Counts, error) {
	d := r.st.Dialect()
	day := d.DateOf("created_at")
	q := `
		SELECT
		  COUNT(*) AS total,
		  COALESCE(SUM(CASE WHEN status = 'new' THEN 1 ELSE 0 END), 0) AS new_orders,
		  COALESCE(SUM(CASE WHEN status = 'processing' THEN 1 ELSE 0 END), 0) AS processing_orders,
		  COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_orders,
		  COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0) AS cancelled_orders,
		  COALESCE(SUM(CASE WHEN ` + day + ` = ` + d.Today() + ` THEN 1 ELSE 0 END), 0) AS today_orders,
		  COALESCE(SUM(CASE WHEN ` + day + ` > ` + d.DaysAgo(7) + ` THEN 1 ELSE 0 END), 0) AS weekly_orders
		FROM orders
		WHERE merchant_id = ?`
	var c domain.Counts
	if err := r.st.DB.GetContext(ctx, &c, r.st.Q(q), merchantID); err != nil {
		return domain.Counts{}, fmt.Errorf("order counts: %w", err)
	}
	return c, nil
}

func (r *ReportRepo) ByCategory(ctx context.Context, merchantID int64) ([]domain.CategoryCount, error) {
	out := []domain.CategoryCount{}
	err := r.st.DB.SelectContext(ctx, &out, r.st.Q(`
		SELECT category, COUNT(*) AS count
		FROM orders
		WHERE merchant_id = ?
		GROUP BY category
		ORDER BY category`), merchantID)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	return out, nil
}

type dayRow struct {
	Day       string `db:"day"`
	Total     int    `db:"total_orders"`
	Completed int    `db:"completed_orders"`
}

// Today returns the server's current calendar day as YYYY-MM-DD.
func (r *ReportRepo) Today(ctx context.Context) (string, error) {
	var today string
	if err := r.st.DB.GetContext(ctx, &today, `SELECT `+r.st.Dialect().Today()); err != nil {
		return "", fmt.Errorf("today: %w", err)
	}
	return dayString(today), nil
}

// DaysSince returns per-day order counts for days on or after from. Days
// without orders are absent.
func (r *ReportRepo) DaysSince(ctx context.Context, merchantID int64, from string) ([]domain.DayCount, error) {
	d := r.st.Dialect()
	day := d.DateOf("created_at")
	var rows []dayRow
	err := r.st.DB.SelectContext(ctx, &rows, r.st.Q(`
		SELECT
		  `+day+` AS day,
		  COUNT(*) AS total_orders,
		  COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_orders
		FROM orders
		WHERE merchant_id = ? AND `+day+` >= `+d.DayParam()+`
		GROUP BY `+day+`
		ORDER BY `+day), merchantID, from)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	out := make([]domain.DayCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DayCount{Day: dayString(row.Day), Total: row.Total, Completed: row.Completed})
	}
	return out, nil
}

// RefreshDailyStat rebuilds the daily_stats row for one day from the orders.
func (r *ReportRepo) RefreshDailyStat(ctx context.Context, merchantID int64, day string) error {
	return refreshDailyStat(ctx, r.st, merchantID, day)
}

type dailyStatRow struct {
	MerchantID      int64   `db:"merchant_id"`
	Day             string  `db:"date"`
	TotalOrders     int     `db:"total_orders"`
	CompletedOrders int     `db:"completed_orders"`
	Revenue         float64 `db:"revenue"`
}

// DailyStats reads back the stored rows, newest day first.
func (r *ReportRepo) DailyStats(ctx context.Context, merchantID int64, limit int) ([]domain.DailyStat, error) {
	if limit <= 0 {
		limit = 7
	}
	var rows []dailyStatRow
	err := r.st.DB.SelectContext(ctx, &rows, r.st.Q(`
		SELECT merchant_id, date, total_orders, completed_orders, revenue
		FROM daily_stats
		WHERE merchant_id = ?
		ORDER BY date DESC
		LIMIT ?`), merchantID, limit)
	if err != nil {
		return nil, fmt.Errorf("daily stats: %w", err)
	}
	out := make([]domain.DailyStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DailyStat{
			MerchantID:      row.MerchantID,
			Day:             dayString(row.Day),
			TotalOrders:     row.TotalOrders,
			CompletedOrders: row.CompletedOrders,
			Revenue:         row.Revenue,
		})
	}
	return out, nil
}

func refreshDailyStat(ctx context.Context, st *store.Store, merchantID int64, day string) error {
	d := st.Dialect()
	// the WHERE clause keeps sqlite from reading ON CONFLICT as a join constraint
	q := `
		INSERT INTO daily_stats (merchant_id, date, total_orders, completed_orders, revenue)
		SELECT CAST(? AS BIGINT), ` + d.DayParam() + `, COUNT(*),
		  COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0), 0
		FROM orders
		WHERE merchant_id = ? AND ` + d.DateOf("created_at") + ` = ` + d.DayParam() + `
		ON CONFLICT (merchant_id, date) DO UPDATE SET
		  total_orders = excluded.total_orders,
		  completed_orders = excluded.completed_orders`
	_, err := st.DB.ExecContext(ctx, st.Q(q), merchantID, day, merchantID, day)
	return err
}
