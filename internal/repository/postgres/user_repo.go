package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/repository"

	"github.com/google/uuid"
)

// postgresUserRepository implements repository.UserRepository.
type postgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository creates a UserRepository backed by postgres.
func NewPostgresUserRepository(db *sql.DB) repository.UserRepository {
	return &postgresUserRepository{db: db}
}

// CreateWithProfile inserts the identity and its profile in one transaction.
func (r *postgresUserRepository) CreateWithProfile(ctx context.Context, user *domain.User, profile repository.NewProfile) error {
	if user.Email == "" || user.PasswordHash == "" || !profile.Role.Valid() {
		return errors.New("user email, password hash, and role are required")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	var gender any
	if profile.Gender != nil {
		gender = string(*profile.Gender)
	}
	var trainerID any
	if profile.TrainerID != nil {
		trainerID = *profile.TrainerID
	}

	err := WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3) RETURNING created_at`,
			user.ID, user.Email, user.PasswordHash,
		).Scan(&user.CreatedAt)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO profiles (user_id, role, display_name, phone, gender, trainer_id) VALUES ($1, $2, $3, $4, $5, $6)`,
			user.ID, string(profile.Role), profile.DisplayName, nullIfEmpty(profile.Phone), gender, trainerID,
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email)
}

// GetByID retrieves a user by id.
func (r *postgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (r *postgresUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return &user, nil
}

// Delete removes the identity. The profile row cascades.
func (r *postgresUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
