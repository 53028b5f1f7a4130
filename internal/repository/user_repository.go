package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/suflam/usersvc/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, req *domain.CreateUserRequest, passwordHash string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByCellNumber(ctx context.Context, cellNumber string) (*domain.User, error)
	Update(ctx context.Context, id int64, req *domain.UpdateUserRequest, passwordHash *string) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userCols = `id, profilepic, name, cellnumber, password_hash, email, role_id, deleted_at, created, modified`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.ProfilePic, &u.Name, &u.CellNumber, &u.PasswordHash, &u.Email, &u.Role, &u.DeletedAt, &u.Created, &u.Modified,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// translateUniqueViolation maps a Postgres 23505 to the domain duplicate
// error so constraint violations never escape the write boundary raw.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicateResource
	}
	return err
}

func (r *userRepository) Create(ctx context.Context, req *domain.CreateUserRequest, passwordHash string) (*domain.User, error) {
	const q = `
		INSERT INTO users (profilepic, name, cellnumber, password_hash, email, role_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, req.ProfilePic, req.Name, req.CellNumber, passwordHash, req.Email, req.Role))
	if err != nil {
		return nil, translateUniqueViolation(err)
	}

	return u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) FindByCellNumber(ctx context.Context, cellNumber string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE cellnumber = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, cellNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) Update(ctx context.Context, id int64, req *domain.UpdateUserRequest, passwordHash *string) (*domain.User, error) {
	const q = `
		UPDATE users
		SET
			profilepic = COALESCE($2, profilepic),
			name = COALESCE($3, name),
			cellnumber = COALESCE($4, cellnumber),
			password_hash = COALESCE($5, password_hash),
			email = COALESCE($6, email),
			role_id = COALESCE($7, role_id),
			modified = now()
		WHERE id = $1
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, id, req.ProfilePic, req.Name, req.CellNumber, passwordHash, req.Email, req.Role))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateUniqueViolation(err)
	}
	return u, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM users WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `
		SELECT ` + userCols + `
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.ProfilePic, &u.Name, &u.CellNumber, &u.PasswordHash, &u.Email, &u.Role, &u.DeletedAt, &u.Created, &u.Modified,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
