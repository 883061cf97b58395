package repository

import (
	"alcyxob/trainer-link/internal/domain"
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound = RepositoryError("not found")
	// ErrConflict means a unique constraint rejected the write: someone else
	// already holds the value.
	ErrConflict     = RepositoryError("unique constraint conflict")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// NewProfile is the row written together with the auth identity at signup.
type NewProfile struct {
	Role        domain.Role
	DisplayName string
	Phone       *string
	Gender      *domain.Gender
	TrainerID   *uuid.UUID // students only
}

// TrainerKeyUpdate is the single-row update that turns a profile into a
// keyed trainer.
type TrainerKeyUpdate struct {
	DisplayName string
	Phone       *string
	TrainerKey  string
}

// UserRepository stores auth identities.
type UserRepository interface {
	// CreateWithProfile inserts the identity and its profile atomically.
	CreateWithProfile(ctx context.Context, user *domain.User, profile NewProfile) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// Delete removes the identity; its profile goes with it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfileRepository reads and updates the profiles table.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	// Update applies the non-nil fields of patch.
	Update(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) error
	// SetTrainerKey sets role=trainer, trainer_id=NULL and the key in one
	// statement. Returns ErrConflict when the key is already taken.
	SetTrainerKey(ctx context.Context, userID uuid.UUID, upd TrainerKeyUpdate) error
	// SetStudentTrainer sets role=student, trainer_key=NULL and the trainer link.
	SetStudentTrainer(ctx context.Context, userID, trainerID uuid.UUID) error
}

// TrainerDirectory resolves trainer keys. It has two query paths: the
// server-side procedure and a direct read of the public trainer view.
type TrainerDirectory interface {
	// ValidateTrainerKey calls the validate_trainer_key procedure.
	// Returns ErrNotFound when it yields no row.
	ValidateTrainerKey(ctx context.Context, key string) (uuid.UUID, error)
	// FindByKey reads trainers_public by key, either by exact equality or
	// ignoring case. Returns ErrNotFound when nothing matches.
	FindByKey(ctx context.Context, key string, ignoreCase bool) (*domain.TrainerPublic, error)
	GetPublic(ctx context.Context, trainerID uuid.UUID) (*domain.TrainerPublic, error)
	ListStudents(ctx context.Context, trainerID uuid.UUID) ([]domain.StudentSummary, error)
}

// CustomExerciseRepository defines the interface for trainer-authored exercises.
type CustomExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.CustomExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CustomExercise, error)
	GetByTrainerID(ctx context.Context, trainerID string) ([]domain.CustomExercise, error)
	Update(ctx context.Context, exercise *domain.CustomExercise) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID string) error // Ensure trainer owns the exercise
	RemoveImage(ctx context.Context, id primitive.ObjectID, trainerID, url string) error
}
