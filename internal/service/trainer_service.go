package service

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/logging"
	"alcyxob/trainer-link/internal/repository"
	"alcyxob/trainer-link/internal/trainerkey"

	"github.com/google/uuid"
)

// maxKeyAttempts bounds how many candidates AssignUniqueKey tries.
const maxKeyAttempts = 5

// --- Error Definitions ---
var (
	// ErrTrainerKeyExhausted means every candidate collided with an issued key.
	ErrTrainerKeyExhausted = errors.New("could not allocate a unique trainer key")
	// ErrTrainerKeyNotFound is the "invalid key" outcome of a lookup.
	ErrTrainerKeyNotFound = errors.New("trainer key not found")
	// ErrTrainerDirectoryUnavailable is returned when no lookup query could reach the store.
	ErrTrainerDirectoryUnavailable = errors.New("trainer directory unavailable")
)

// TrainerSignup carries the profile fields written together with the key.
type TrainerSignup struct {
	DisplayName string
	Phone       *string
}

// --- Service Interface ---
type TrainerKeyService interface {
	// ValidateKey resolves a user-typed key to a trainer id. A key that
	// matches nobody yields found=false and a nil error.
	ValidateKey(ctx context.Context, input string) (trainerID uuid.UUID, found bool, err error)
	// AssignUniqueKey issues a fresh key to userID and turns the profile into
	// a trainer. Returns the key in display form.
	AssignUniqueKey(ctx context.Context, userID uuid.UUID, signup TrainerSignup) (string, error)
	// TrainerByKey resolves a key to the public trainer card.
	TrainerByKey(ctx context.Context, input string) (*domain.TrainerPublic, error)
}

// trainerKeyService implements the TrainerKeyService interface.
type trainerKeyService struct {
	profiles  repository.ProfileRepository
	directory repository.TrainerDirectory
	generate  func() string
	log       logging.Logger
}

// NewTrainerKeyService creates a new instance of trainerKeyService.
func NewTrainerKeyService(profiles repository.ProfileRepository, directory repository.TrainerDirectory, log logging.Logger) TrainerKeyService {
	return &trainerKeyService{
		profiles:  profiles,
		directory: directory,
		generate:  trainerkey.Generate,
		log:       log,
	}
}

// ValidateKey tries the validate_trainer_key procedure first and falls back
// to reading trainers_public directly, raw form before display form, exact
// match before case-insensitive match.
func (s *trainerKeyService) ValidateKey(ctx context.Context, input string) (uuid.UUID, bool, error) {
	key := trainerkey.Normalize(input)
	if !key.Complete() {
		return uuid.Nil, false, nil
	}
	variants := key.Variants()

	for _, v := range variants {
		id, err := s.directory.ValidateTrainerKey(ctx, v)
		if err == nil {
			return id, true, nil
		}
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if ctx.Err() != nil {
			return uuid.Nil, false, ctx.Err()
		}
		s.log.Warn(ctx, "validate_trainer_key failed, falling back to trainers_public", "error", err)
		break
	}

	var attempted, failed int
	var lastErr error
	for _, ignoreCase := range []bool{false, true} {
		for _, v := range variants {
			attempted++
			trainer, err := s.directory.FindByKey(ctx, v, ignoreCase)
			if err == nil {
				return trainer.ID, true, nil
			}
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if ctx.Err() != nil {
				return uuid.Nil, false, ctx.Err()
			}
			failed++
			lastErr = err
		}
	}

	if failed == attempted {
		return uuid.Nil, false, fmt.Errorf("%w: %w", ErrTrainerDirectoryUnavailable, lastErr)
	}
	if lastErr != nil {
		s.log.Warn(ctx, "some trainer key lookups failed", "failed", failed, "attempted", attempted, "error", lastErr)
	}
	return uuid.Nil, false, nil
}

// attemptOutcome tags the result of one key assignment attempt.
type attemptOutcome int

const (
	attemptCommitted attemptOutcome = iota
	attemptConflict
	attemptFatal
)

func (s *trainerKeyService) tryAssign(ctx context.Context, userID uuid.UUID, upd repository.TrainerKeyUpdate) (attemptOutcome, error) {
	err := s.profiles.SetTrainerKey(ctx, userID, upd)
	switch {
	case err == nil:
		return attemptCommitted, nil
	case errors.Is(err, repository.ErrConflict):
		return attemptConflict, err
	default:
		return attemptFatal, err
	}
}

func (s *trainerKeyService) AssignUniqueKey(ctx context.Context, userID uuid.UUID, signup TrainerSignup) (string, error) {
	if userID == uuid.Nil {
		return "", errors.New("user ID is required to assign a trainer key")
	}

	for attempt := 1; attempt <= maxKeyAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := s.generate()
		outcome, err := s.tryAssign(ctx, userID, repository.TrainerKeyUpdate{
			DisplayName: signup.DisplayName,
			Phone:       signup.Phone,
			TrainerKey:  candidate,
		})

		switch outcome {
		case attemptCommitted:
			s.log.Info(ctx, "trainer key assigned", "user_id", userID, "attempt", attempt)
			return candidate, nil
		case attemptConflict:
			s.log.Warn(ctx, "trainer key collision, retrying", "user_id", userID, "attempt", attempt)
		case attemptFatal:
			return "", fmt.Errorf("assign trainer key: %w", err)
		}
	}

	return "", fmt.Errorf("%w after %d attempts", ErrTrainerKeyExhausted, maxKeyAttempts)
}

func (s *trainerKeyService) TrainerByKey(ctx context.Context, input string) (*domain.TrainerPublic, error) {
	id, found, err := s.ValidateKey(ctx, input)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrTrainerKeyNotFound
	}

	trainer, err := s.directory.GetPublic(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerKeyNotFound
		}
		return nil, err
	}
	return trainer, nil
}
