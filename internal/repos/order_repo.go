package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"orderly/internal/domain"
	applog "orderly/internal/log"
	"orderly/internal/store"
)

var ErrNotFound = errors.New("not found")

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type OrderRepo struct{ st *store.Store }

func NewOrderRepo(st *store.Store) *OrderRepo { return &OrderRepo{st: st} }

const orderCols = `id, category, product, customer_name, phone, address, quantity, size, language, status, created_at, merchant_id`

type orderRow struct {
	ID           int64          `db:"id"`
	Category     string         `db:"category"`
	Product      string         `db:"product"`
	CustomerName string         `db:"customer_name"`
	Phone        string         `db:"phone"`
	Address      string         `db:"address"`
	Quantity     string         `db:"quantity"`
	Size         sql.NullString `db:"size"`
	Language     string         `db:"language"`
	Status       string         `db:"status"`
	CreatedAt    string         `db:"created_at"`
	MerchantID   int64          `db:"merchant_id"`
}

func (r orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:           r.ID,
		Category:     domain.Category(r.Category),
		Product:      r.Product,
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Address:      r.Address,
		Quantity:     r.Quantity,
		Size:         r.Size.String,
		Language:     domain.Language(r.Language),
		Status:       domain.Status(r.Status),
		CreatedAt:    parseTimestamp(r.CreatedAt),
		MerchantID:   r.MerchantID,
	}
}

// OrderFilter narrows List. Empty or "all" values are ignored; From/To are
// inclusive YYYY-MM-DD days.
type OrderFilter struct {
	Status   string
	Category string
	From     string
	To       string
	Limit    int
}

// Insert stores a finished order with status new and returns its id.
func (r *OrderRepo) Insert(ctx context.Context, o domain.NewOrder) (int64, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}
	var size any
	if v := strings.TrimSpace(o.Size); v != "" {
		size = v
	}
	var id int64
	err := r.st.InTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		id, err = r.st.Dialect().InsertID(ctx, tx, `
			INSERT INTO orders
			  (category, product, customer_name, phone, address, quantity, size, language, status, merchant_id)
			VALUES
			  (?,        ?,       ?,             ?,     ?,       ?,        ?,    ?,        ?,      ?)`,
			string(o.Category), o.Product, o.CustomerName, o.Phone, o.Address, o.Quantity, size,
			string(o.Language), string(domain.StatusNew), domain.MerchantID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	if day, err := r.dayOf(ctx, r.st.DB, id, domain.MerchantID); err == nil {
		r.refresh(ctx, domain.MerchantID, day)
	}
	return id, nil
}

// List returns the merchant's orders, newest first.
func (r *OrderRepo) List(ctx context.Context, merchantID int64, f OrderFilter) ([]domain.Order, error) {
	var q strings.Builder
	args := []any{merchantID}
	q.WriteString(`SELECT ` + orderCols + ` FROM orders WHERE merchant_id = ?`)

	if f.Status != "" && f.Status != "all" {
		q.WriteString(` AND status = ?`)
		args = append(args, f.Status)
	}
	if f.Category != "" && f.Category != "all" {
		q.WriteString(` AND category = ?`)
		args = append(args, f.Category)
	}
	d := r.st.Dialect()
	if f.From != "" {
		q.WriteString(` AND ` + d.DateOf("created_at") + ` >= ` + d.DayParam())
		args = append(args, f.From)
	}
	if f.To != "" {
		q.WriteString(` AND ` + d.DateOf("created_at") + ` <= ` + d.DayParam())
		args = append(args, f.To)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	q.WriteString(` ORDER BY created_at DESC, id DESC LIMIT ?`)
	args = append(args, limit)

	var rows []orderRow
	if err := r.st.DB.SelectContext(ctx, &rows, r.st.Q(q.String()), args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *OrderRepo) Get(ctx context.Context, id, merchantID int64) (domain.Order, error) {
	var row orderRow
	err := r.st.DB.GetContext(ctx, &row, r.st.Q(`SELECT `+orderCols+` FROM orders WHERE id = ? AND merchant_id = ?`), id, merchantID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order %d: %w", id, err)
	}
	return row.toDomain(), nil
}

// UpdateStatus changes the status of an order owned by merchantID.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, merchantID int64, status domain.Status) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	var day string
	err := r.st.InTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if day, err = r.dayOf(ctx, tx, id, merchantID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE orders SET status = ? WHERE id = ? AND merchant_id = ?`),
			string(status), id, merchantID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update order %d status: %w", id, err)
	}
	r.refresh(ctx, merchantID, day)
	return nil
}

// Delete removes an order owned by merchantID. Missing ids are not an error.
func (r *OrderRepo) Delete(ctx context.Context, id, merchantID int64) error {
	var day string
	err := r.st.InTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if day, err = r.dayOf(ctx, tx, id, merchantID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM orders WHERE id = ? AND merchant_id = ?`), id, merchantID)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	r.refresh(ctx, merchantID, day)
	return nil
}

func (r *OrderRepo) CountByStatus(ctx context.Context, merchantID int64, status domain.Status) (int, error) {
	var n int
	err := r.st.DB.GetContext(ctx, &n, r.st.Q(`SELECT COUNT(*) FROM orders WHERE merchant_id = ? AND status = ?`),
		merchantID, string(status))
	return n, err
}

// dayOf returns the calendar day an order was created on.
func (r *OrderRepo) dayOf(ctx context.Context, q sqlx.QueryerContext, id, merchantID int64) (string, error) {
	var day string
	err := sqlx.GetContext(ctx, q, &day,
		r.st.Q(`SELECT `+r.st.Dialect().DateOf("created_at")+` FROM orders WHERE id = ? AND merchant_id = ?`),
		id, merchantID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return dayString(day), nil
}

// refresh recomputes the day's stat row. It never fails the caller.
func (r *OrderRepo) refresh(ctx context.Context, merchantID int64, day string) {
	if err := refreshDailyStat(ctx, r.st, merchantID, day); err != nil {
		applog.Warn(nil, "stats.refresh.fail", err, map[string]any{"merchant_id": merchantID, "date": day})
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseTimestamp accepts the shapes sqlite text and driver-formatted times come back in.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// dayString trims a driver-formatted date or timestamp down to YYYY-MM-DD.
func dayString(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}
