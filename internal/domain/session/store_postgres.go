package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresPersister struct {
	DB  *pgxpool.Pool
	now func() time.Time
}

func NewPostgresPersister(db *pgxpool.Pool) *PostgresPersister {
	return &PostgresPersister{DB: db, now: time.Now}
}

func (p *PostgresPersister) Save(ctx context.Context, record Record) error {
	_, err := p.DB.Exec(ctx, `
    INSERT INTO portal_sessions (id, token_enc, identity, created_at, expires_at)
    VALUES ($1, $2, $3, $4, $5)
    ON CONFLICT (id) DO UPDATE
    SET token_enc = EXCLUDED.token_enc,
        identity = EXCLUDED.identity,
        expires_at = EXCLUDED.expires_at
  `, record.ID, record.SealedToken, record.Identity, record.CreatedAt, record.ExpiresAt)
	return err
}

func (p *PostgresPersister) Load(ctx context.Context, id string) (Record, error) {
	var record Record
	err := p.DB.QueryRow(ctx, `
    SELECT id, token_enc, identity, created_at, expires_at
    FROM portal_sessions
    WHERE id = $1 AND expires_at > $2
  `, id, p.now()).Scan(&record.ID, &record.SealedToken, &record.Identity, &record.CreatedAt, &record.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return record, nil
}

func (p *PostgresPersister) Delete(ctx context.Context, id string) error {
	_, err := p.DB.Exec(ctx, `DELETE FROM portal_sessions WHERE id = $1`, id)
	return err
}

func (p *PostgresPersister) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := p.DB.Exec(ctx, `DELETE FROM portal_sessions WHERE expires_at <= $1`, p.now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
