package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"orderly/internal/domain"
	"orderly/internal/store"
)

type MerchantRepo struct{ st *store.Store }

func NewMerchantRepo(st *store.Store) *MerchantRepo { return &MerchantRepo{st: st} }

func (r *MerchantRepo) Get(ctx context.Context, id int64) (domain.Merchant, error) {
	var row struct {
		ID           int64          `db:"id"`
		ExternalID   sql.NullInt64  `db:"external_id"`
		Username     sql.NullString `db:"username"`
		BusinessName sql.NullString `db:"business_name"`
		Plan         string         `db:"plan"`
		CreatedAt    string         `db:"created_at"`
	}
	err := r.st.DB.GetContext(ctx, &row, r.st.Q(`
		SELECT id, external_id, username, business_name, plan, created_at
		FROM merchants WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Merchant{}, ErrNotFound
	}
	if err != nil {
		return domain.Merchant{}, fmt.Errorf("get merchant %d: %w", id, err)
	}
	return domain.Merchant{
		ID:           row.ID,
		ExternalID:   row.ExternalID.Int64,
		Username:     row.Username.String,
		BusinessName: row.BusinessName.String,
		Plan:         row.Plan,
		CreatedAt:    parseTimestamp(row.CreatedAt),
	}, nil
}
