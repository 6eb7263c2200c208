package storage

import (
	"context"
	"fmt"

	"github.com/md-rashed-zaman/pharmacare/libs/db"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
)

const (
	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

type UserRepository struct {
	pool *db.Pool
}

func NewUserRepository(pool *db.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create stores user and fills DateJoined. Username and email are unique.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, is_superuser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING date_joined
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.IsSuperuser).Scan(&user.DateJoined)
	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err, usernameConstraint):
		return apperr.Wrap(apperr.Duplicate, "Username already exists", err)
	case db.IsUniqueViolation(err, emailConstraint):
		return apperr.Wrap(apperr.Duplicate, "Email already registered", err)
	default:
		return fmt.Errorf("insert user: %w", err)
	}
}

const userColumns = `id::text, username, email, password_hash, is_superuser, date_joined`

func (r *UserRepository) getBy(ctx context.Context, column, value string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE `+column+` = $1
	`, value).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsSuperuser, &u.DateJoined)
	if err != nil {
		if db.IsNotFound(err) {
			return model.User{}, apperr.Wrap(apperr.NotFound, "user not found", err)
		}
		return model.User{}, err
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.getBy(ctx, "id::text", id)
}

// ListByDateJoined returns every user, most recently joined first.
func (r *UserRepository) ListByDateJoined(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY date_joined DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsSuperuser, &u.DateJoined); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
