package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/suflam/usersvc/internal/domain"
)

type TokenRepository interface {
	Insert(ctx context.Context, token string, ttlMillis, userID int64) (*domain.AccessToken, error)
	FindByToken(ctx context.Context, token string) (*domain.AccessToken, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type tokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) TokenRepository {
	return &tokenRepository{pool: pool}
}

const tokenCols = `id, token, ttl, user_id, created`

func (r *tokenRepository) Insert(ctx context.Context, token string, ttlMillis, userID int64) (*domain.AccessToken, error) {
	const q = `
		INSERT INTO access_tokens (token, ttl, user_id)
		VALUES ($1, $2, $3)
		RETURNING ` + tokenCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var t domain.AccessToken
	err := r.pool.QueryRow(ctx, q, token, ttlMillis, userID).Scan(
		&t.ID, &t.Token, &t.TTL, &t.UserID, &t.Created,
	)
	if err != nil {
		return nil, translateUniqueViolation(err)
	}

	return &t, nil
}

func (r *tokenRepository) FindByToken(ctx context.Context, token string) (*domain.AccessToken, error) {
	const q = `SELECT ` + tokenCols + ` FROM access_tokens WHERE token = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var t domain.AccessToken
	err := r.pool.QueryRow(ctx, q, token).Scan(
		&t.ID, &t.Token, &t.TTL, &t.UserID, &t.Created,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const q = `DELETE FROM access_tokens WHERE created + (ttl * interval '1 millisecond') < now()`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}
