package repos

import (
	"context"
	"database/sql"
	"errors"

	"orderly/internal/domain"
	"orderly/internal/store"
)

// SessionRepo binds panel session ids to the administrator that logged in.
type SessionRepo struct{ st *store.Store }

func NewSessionRepo(st *store.Store) *SessionRepo { return &SessionRepo{st: st} }

func (r *SessionRepo) Bind(ctx context.Context, sid, username string) error {
	_, err := r.st.DB.ExecContext(ctx, r.st.Q(`INSERT INTO sessions(id, username, last_seen)
                          VALUES(?, ?, CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET username=excluded.username, last_seen=CURRENT_TIMESTAMP`), sid, username)
	return err
}

func (r *SessionRepo) Admin(ctx context.Context, sid string) (*domain.Admin, error) {
	var username string
	err := r.st.DB.GetContext(ctx, &username, r.st.Q(`SELECT username FROM sessions WHERE id=?`), sid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain.Admin{Username: username}, nil
}

func (r *SessionRepo) Unbind(ctx context.Context, sid string) error {
	_, err := r.st.DB.ExecContext(ctx, r.st.Q(`DELETE FROM sessions WHERE id=?`), sid)
	return err
}
