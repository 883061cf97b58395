package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/repository"

	"github.com/google/uuid"
)

const profileColumns = `user_id, role, display_name, phone, bio, avatar_url, gender, trainer_key, trainer_id, created_at, updated_at`

// postgresProfileRepository implements repository.ProfileRepository.
type postgresProfileRepository struct {
	db *sql.DB
}

// NewPostgresProfileRepository creates a ProfileRepository backed by postgres.
func NewPostgresProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &postgresProfileRepository{db: db}
}

// GetByUserID reads a single profile row.
func (r *postgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.Role, &p.DisplayName, &p.Phone, &p.Bio, &p.AvatarURL, &p.Gender, &p.TrainerKey, &p.TrainerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return &p, nil
}

// Update writes the non-nil fields of patch. Role and the trainer link are
// deliberately not part of the patch.
func (r *postgresProfileRepository) Update(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) error {
	if patch.Empty() {
		return nil
	}

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.DisplayName != nil {
		add("display_name", *patch.DisplayName)
	}
	if patch.Phone != nil {
		add("phone", nullIfEmpty(patch.Phone))
	}
	if patch.Bio != nil {
		add("bio", nullIfEmpty(patch.Bio))
	}
	if patch.AvatarURL != nil {
		add("avatar_url", nullIfEmpty(patch.AvatarURL))
	}
	if patch.Gender != nil {
		g := string(*patch.Gender)
		add("gender", nullIfEmpty(&g))
	}

	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE profiles SET %s, updated_at = now() WHERE user_id = $%d`, strings.Join(sets, ", "), len(args))

	return r.execOne(ctx, query, args...)
}

// SetTrainerKey turns the profile into a keyed trainer with a single UPDATE.
// A key already held by another trainer surfaces as repository.ErrConflict.
func (r *postgresProfileRepository) SetTrainerKey(ctx context.Context, userID uuid.UUID, upd repository.TrainerKeyUpdate) error {
	return r.execOne(ctx,
		`UPDATE profiles
		 SET role = 'trainer', trainer_id = NULL, trainer_key = $1, display_name = $2, phone = $3, updated_at = now()
		 WHERE user_id = $4`,
		upd.TrainerKey, upd.DisplayName, nullIfEmpty(upd.Phone), userID,
	)
}

// SetStudentTrainer links a student profile to its trainer.
func (r *postgresProfileRepository) SetStudentTrainer(ctx context.Context, userID, trainerID uuid.UUID) error {
	return r.execOne(ctx,
		`UPDATE profiles
		 SET role = 'student', trainer_key = NULL, trainer_id = $1, updated_at = now()
		 WHERE user_id = $2`,
		trainerID, userID,
	)
}

func (r *postgresProfileRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			// keep the driver error reachable for callers that classify it
			return fmt.Errorf("%w: %w", repository.ErrConflict, err)
		}
		return fmt.Errorf("error performing sql request: %w", err)
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
