package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/logging"
	"alcyxob/trainer-link/internal/repository"
	"alcyxob/trainer-link/internal/storage"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNotTrainer      = errors.New("only trainers can do this")
	ErrNotStudent      = errors.New("only students can do this")
	ErrInvalidProfile  = errors.New("invalid profile data")
	ErrUploadURLError  = errors.New("failed to generate upload URL")
)

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// UploadURLResponse is a presigned PUT plus where the object will be served.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
	PublicURL string `json:"publicUrl"`
}

// --- Service Interface ---
type ProfileService interface {
	GetOwnProfileWithTrainer(ctx context.Context, userID uuid.UUID) (*domain.ProfileWithTrainer, error)
	UpdateOwnProfile(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (*domain.Profile, error)
	ListMyStudents(ctx context.Context, trainerID uuid.UUID) ([]domain.StudentSummary, error)
	RequestAvatarUpload(ctx context.Context, userID uuid.UUID, contentType string) (*UploadURLResponse, error)
	// LinkTrainer points a student at the trainer owning keyInput.
	LinkTrainer(ctx context.Context, studentID uuid.UUID, keyInput string) (*domain.TrainerPublic, error)
}

// profileService implements the ProfileService interface.
type profileService struct {
	profiles  repository.ProfileRepository
	directory repository.TrainerDirectory
	keys      TrainerKeyService
	files     storage.FileStorage
	log       logging.Logger
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(
	profiles repository.ProfileRepository,
	directory repository.TrainerDirectory,
	keys TrainerKeyService,
	files storage.FileStorage,
	log logging.Logger,
) ProfileService {
	return &profileService{
		profiles:  profiles,
		directory: directory,
		keys:      keys,
		files:     files,
		log:       log,
	}
}

func (s *profileService) getProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetOwnProfileWithTrainer returns the caller's profile; students also get
// their trainer's public card. A trainer that can no longer be read is left
// out rather than failing the whole request.
func (s *profileService) GetOwnProfileWithTrainer(ctx context.Context, userID uuid.UUID) (*domain.ProfileWithTrainer, error) {
	p, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &domain.ProfileWithTrainer{Profile: *p}
	if p.IsStudent() && p.TrainerID != nil {
		trainer, err := s.directory.GetPublic(ctx, *p.TrainerID)
		switch {
		case err == nil:
			out.Trainer = trainer
		case errors.Is(err, repository.ErrNotFound):
		default:
			s.log.Warn(ctx, "could not load trainer card", "user_id", userID, "trainer_id", *p.TrainerID, "error", err)
		}
	}
	return out, nil
}

func validatePatch(patch domain.ProfilePatch) error {
	if patch.DisplayName != nil && strings.TrimSpace(*patch.DisplayName) == "" {
		return fmt.Errorf("%w: display name cannot be empty", ErrInvalidProfile)
	}
	if patch.Phone != nil && *patch.Phone != "" && !e164Pattern.MatchString(*patch.Phone) {
		return fmt.Errorf("%w: phone must be in E.164 format", ErrInvalidProfile)
	}
	if patch.Gender != nil && !patch.Gender.Valid() {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidProfile, *patch.Gender)
	}
	return nil
}

func (s *profileService) UpdateOwnProfile(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (*domain.Profile, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if patch.DisplayName != nil {
		name := strings.TrimSpace(*patch.DisplayName)
		patch.DisplayName = &name
	}

	if !patch.Empty() {
		if err := s.profiles.Update(ctx, userID, patch); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrProfileNotFound
			}
			return nil, err
		}
	}
	return s.getProfile(ctx, userID)
}

func (s *profileService) ListMyStudents(ctx context.Context, trainerID uuid.UUID) ([]domain.StudentSummary, error) {
	p, err := s.getProfile(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if !p.IsTrainer() {
		return nil, ErrNotTrainer
	}

	students, err := s.directory.ListStudents(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []domain.StudentSummary{}
	}
	return students, nil
}

// RequestAvatarUpload presigns <uid>/avatar.<ext>. The same key is reused
// on every upload so the old picture is overwritten.
func (s *profileService) RequestAvatarUpload(ctx context.Context, userID uuid.UUID, contentType string) (*UploadURLResponse, error) {
	ext, err := storage.ImageExtension(contentType)
	if err != nil {
		return nil, err
	}

	key := storage.AvatarKey(userID.String(), ext)
	uploadURL, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		s.log.Error(ctx, "presign avatar upload", "user_id", userID, "error", err)
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: key,
		PublicURL: s.files.PublicURL(key),
	}, nil
}

func (s *profileService) LinkTrainer(ctx context.Context, studentID uuid.UUID, keyInput string) (*domain.TrainerPublic, error) {
	p, err := s.getProfile(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !p.IsStudent() {
		return nil, ErrNotStudent
	}

	trainer, err := s.keys.TrainerByKey(ctx, keyInput)
	if err != nil {
		if errors.Is(err, ErrTrainerKeyNotFound) {
			return nil, ErrInvalidTrainerKey
		}
		return nil, err
	}

	if err := s.profiles.SetStudentTrainer(ctx, studentID, trainer.ID); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "student linked to trainer", "user_id", studentID, "trainer_id", trainer.ID)
	return trainer, nil
}
