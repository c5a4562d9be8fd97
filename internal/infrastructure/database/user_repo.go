package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"runtrack/internal/domain"
	"runtrack/internal/domain/entities"
	"runtrack/internal/ports/output"
)

var _ output.UserRepository = (*UserRepository)(nil)

// UserRepository implements output.UserRepository using pgx.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, first_name, last_name, surname, email, organization, roles, password_hash, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, surname, email, organization, roles, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		user.FirstName, user.LastName, user.Surname, textFromString(user.Email),
		user.Organization, user.Roles, user.PasswordHash,
	)
	var id int64
	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&id, &createdAt, &updatedAt); err != nil {
		if isUniqueViolation(err, "uq_user_email") {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	user.ID = uint(id)
	user.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	user.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*entities.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, int64(id))
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]entities.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []entities.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *user)
	}
	return out, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, surname = $4, email = $5,
		    organization = $6, roles = $7, password_hash = $8, updated_at = now()
		WHERE id = $1`,
		int64(user.ID), user.FirstName, user.LastName, user.Surname,
		textFromString(user.Email), user.Organization, user.Roles, user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_user_email") {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, int64(id)); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	var id int64
	var email pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&id, &u.FirstName, &u.LastName, &u.Surname, &email,
		&u.Organization, &u.Roles, &u.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	u.ID = uint(id)
	u.Email = stringFromText(email)
	u.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	u.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return &u, nil
}
