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

// postgresTrainerDirectory implements repository.TrainerDirectory on top of
// the validate_trainer_key procedure and the trainers_public view.
type postgresTrainerDirectory struct {
	db *sql.DB
}

// NewPostgresTrainerDirectory creates a TrainerDirectory backed by postgres.
func NewPostgresTrainerDirectory(db *sql.DB) repository.TrainerDirectory {
	return &postgresTrainerDirectory{db: db}
}

// ValidateTrainerKey runs the server-side procedure.
func (r *postgresTrainerDirectory) ValidateTrainerKey(ctx context.Context, key string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx, `SELECT id FROM validate_trainer_key($1)`, key).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, repository.ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("validate_trainer_key: %w", err)
	}
	return id, nil
}

// FindByKey reads the public view directly.
func (r *postgresTrainerDirectory) FindByKey(ctx context.Context, key string, ignoreCase bool) (*domain.TrainerPublic, error) {
	query := `SELECT id, display_name, trainer_key FROM trainers_public WHERE trainer_key = $1 LIMIT 1`
	if ignoreCase {
		query = `SELECT id, display_name, trainer_key FROM trainers_public WHERE lower(trainer_key) = lower($1) LIMIT 1`
	}
	return r.scanPublic(r.db.QueryRowContext(ctx, query, key))
}

// GetPublic reads a trainer's public card by id.
func (r *postgresTrainerDirectory) GetPublic(ctx context.Context, trainerID uuid.UUID) (*domain.TrainerPublic, error) {
	return r.scanPublic(r.db.QueryRowContext(ctx,
		`SELECT id, display_name, trainer_key FROM trainers_public WHERE id = $1`, trainerID))
}

func (r *postgresTrainerDirectory) scanPublic(row *sql.Row) (*domain.TrainerPublic, error) {
	var t domain.TrainerPublic
	var name sql.NullString
	if err := row.Scan(&t.ID, &name, &t.TrainerKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("trainers_public: %w", err)
	}
	t.DisplayName = name.String
	return &t, nil
}

// ListStudents returns the students linked to a trainer.
func (r *postgresTrainerDirectory) ListStudents(ctx context.Context, trainerID uuid.UUID) ([]domain.StudentSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, display_name, avatar_url FROM list_my_students($1)`, trainerID)
	if err != nil {
		return nil, fmt.Errorf("list_my_students: %w", err)
	}
	defer rows.Close()

	students := []domain.StudentSummary{}
	for rows.Next() {
		var s domain.StudentSummary
		if err := rows.Scan(&s.UserID, &s.DisplayName, &s.AvatarURL); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return students, nil
}
