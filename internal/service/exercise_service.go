package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
	"time"

	"alcyxob/trainer-link/internal/catalog"
	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/logging"
	"alcyxob/trainer-link/internal/repository"
	"alcyxob/trainer-link/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify or delete this exercise")
	ErrValidationFailed     = errors.New("exercise validation failed")
)

// CustomExerciseInput is the editable content of a custom exercise.
// ImageURLs are stored in the given order.
type CustomExerciseInput struct {
	Name        string
	Description string
	CategoryID  int
	VideoURL    string
	ImageURLs   []string
}

// CategorySource lists catalog categories; catalog.Client satisfies it.
type CategorySource interface {
	FetchCategories(ctx context.Context) ([]domain.ExerciseCategory, error)
}

// --- Service Interface ---
type ExerciseService interface {
	CreateExercise(ctx context.Context, trainerID uuid.UUID, in CustomExerciseInput) (*domain.CustomExercise, error)
	GetExercisesByTrainer(ctx context.Context, trainerID uuid.UUID) ([]domain.CustomExercise, error)
	UpdateExercise(ctx context.Context, trainerID uuid.UUID, exerciseID primitive.ObjectID, in CustomExerciseInput) (*domain.CustomExercise, error)
	DeleteExercise(ctx context.Context, trainerID uuid.UUID, exerciseID primitive.ObjectID) error
	DeleteExerciseImage(ctx context.Context, trainerID uuid.UUID, exerciseID primitive.ObjectID, imageURL string) error
	RequestImageUpload(ctx context.Context, trainerID uuid.UUID, exerciseID primitive.ObjectID, contentType string, index int) (*UploadURLResponse, error)
	// ExerciseCards projects the trainer's exercises into the catalog
	// display model, with negative ids.
	ExerciseCards(ctx context.Context, trainerID uuid.UUID) ([]domain.ExerciseCardData, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.CustomExerciseRepository
	files        storage.FileStorage
	categories   CategorySource
	log          logging.Logger
	now          func() time.Time
}

// NewExerciseService creates a new instance of exerciseService. categories
// may be nil; cards then carry no category label.
func NewExerciseService(exerciseRepo repository.CustomExerciseRepository, files storage.FileStorage, categories CategorySource, log logging.Logger) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		files:        files,
		categories:   categories,
		log:          log,
		now:          time.Now,
	}
}

func validateExerciseInput(in *CustomExerciseInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.VideoURL = strings.TrimSpace(in.VideoURL)
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if in.CategoryID <= 0 {
		return fmt.Errorf("%w: category is required", ErrValidationFailed)
	}
	if in.VideoURL != "" && !isHTTPURL(in.VideoURL) {
		return fmt.Errorf("%w: video URL must be http(s)", ErrValidationFailed)
	}
	for _, u := range in.ImageURLs {
		if !isHTTPURL(u) {
			return fmt.Errorf("%w: image %q is not an http(s) URL", ErrValidationFailed, u)
		}
	}
	return nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func imagesFromURLs(urls []string) []domain.ExerciseImage {
	images := make([]domain.ExerciseImage, 0, len(urls))
	for i, u := range urls {
		images = append(images, domain.ExerciseImage{URL: u, Sort: i})
	}
	return images
}

// CreateExercise handles the creation of a new exercise by a trainer.
func (s *exerciseService) CreateExercise(ctx context.Context, trainerID uuid.UUID, in CustomExerciseInput) (*domain.CustomExercise, error) {
	if trainerID == uuid.Nil {
		return nil, errors.New("trainer ID is required to create an exercise")
	}
	if err := validateExerciseInput(&in); err != nil {
		return nil, err
	}

	exercise := &domain.CustomExercise{
		TrainerID:   trainerID.String(),
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		VideoURL:    in.VideoURL,
		Images:      imagesFromURLs(in.ImageURLs),
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// GetExercisesByTrainer lists the trainer's exercises, newest first.
func (s *exerciseService) GetExercisesByTrainer(ctx context.Context, trainerID uuid.UUID) ([]domain.CustomExercise, error) {
	if trainerID == uuid.Nil {
		return nil, errors.New("trainer ID cannot be nil")
	}
	return s.exerciseRepo.GetByTrainerID(ctx, trainerID.String())
}

func (s *exerciseService) getOwned(ctx context.Context, trainerID uuid.UUID, exerciseID primitive.ObjectID) (*domain.CustomExercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if exercise.TrainerID != trainerID.String() {
		return nil, ErrExerciseAccessDenied
	}
	return exercise, nil
}

// UpdateExercise replaces the exercise content, including its image list.
// Images dropped from the list are removed from storage.
func (s *exerciseService) UpdateExercise(ctx context.Context, trainerID uuid.UUID, exerciseID primitive.ObjectID, in CustomExerciseInput) (*domain.CustomExercise, error) {
	if err := validateExerciseInput(&in); err != nil {
		return nil, err
	}
	existing, err := s.getOwned(ctx, trainerID, exerciseID)
	if err != nil {
		return nil, err
	}

	kept := make(map[string]bool, len(in.ImageURLs))
	for _, u := range in.ImageURLs {
		kept[u] = true
	}
	var removed []string
	for _, img := range existing.Images {
		if !kept[img.URL] {
			removed = append(removed, img.URL)
		}
	}

	existing.Name = in.Name
	existing.Description = in.Description
	existing.CategoryID = in.CategoryID
	existing.VideoURL = in.VideoURL
	existing.Images = imagesFromURLs(in.ImageURLs)

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if err := s.deleteStoredImages(ctx, removed...); err != nil {
		s.log.Warn(ctx, "could not remove replaced exercise images", "exercise_id", exerciseID.Hex(), "error", err)
	}
	return existing, nil
}

// DeleteExercise removes the exercise and, best effort, its stored images.
func (s *exerciseService) DeleteExercise(ctx context.Context, trainerID uuid.UUID, exerciseID primitive.ObjectID) error {
	existing, err := s.getOwned(ctx, trainerID, exerciseID)
	if err != nil {
		return err
	}

	if err := s.exerciseRepo.Delete(ctx, exerciseID, trainerID.String()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	if err := s.deleteStoredImages(ctx, existing.ImageURLs()...); err != nil {
		s.log.Warn(ctx, "could not remove images of deleted exercise", "exercise_id", exerciseID.Hex(), "error", err)
	}
	return nil
}

// DeleteExerciseImage removes one image from the exercise and from storage.
// Unlike the bulk paths, a storage failure here is reported.
func (s *exerciseService) DeleteExerciseImage(ctx context.Context, trainerID uuid.UUID, exerciseID primitive.ObjectID, imageURL string) error {
	if _, err := s.getOwned(ctx, trainerID, exerciseID); err != nil {
		return err
	}
	if err := s.exerciseRepo.RemoveImage(ctx, exerciseID, trainerID.String(), imageURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return s.deleteStoredImages(ctx, imageURL)
}

// deleteStoredImages deletes the objects behind urls that live in our
// bucket. External URLs are skipped.
func (s *exerciseService) deleteStoredImages(ctx context.Context, urls ...string) error {
	var keys []string
	for _, u := range urls {
		key, err := s.files.ObjectKeyFromURL(u)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}
	return s.files.DeleteObjects(ctx, keys...)
}

// RequestImageUpload presigns <uid>/<exerciseID>/<millis>_<index>.<ext>.
// The caller uploads, then includes the public URL in the next update.
func (s *exerciseService) RequestImageUpload(ctx context.Context, trainerID uuid.UUID, exerciseID primitive.ObjectID, contentType string, index int) (*UploadURLResponse, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: image index must not be negative", ErrValidationFailed)
	}
	ext, err := storage.ImageExtension(contentType)
	if err != nil {
		return nil, err
	}
	if _, err := s.getOwned(ctx, trainerID, exerciseID); err != nil {
		return nil, err
	}

	key := storage.ExerciseImageKey(trainerID.String(), exerciseID.Hex(), s.now(), index, ext)
	uploadURL, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		s.log.Error(ctx, "presign exercise image upload", "exercise_id", exerciseID.Hex(), "error", err)
		return nil, ErrUploadURLError
	}
	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: key, PublicURL: s.files.PublicURL(key)}, nil
}

func (s *exerciseService) ExerciseCards(ctx context.Context, trainerID uuid.UUID) ([]domain.ExerciseCardData, error) {
	exercises, err := s.GetExercisesByTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	names := map[int]string{}
	if s.categories != nil && len(exercises) > 0 {
		cats, err := s.categories.FetchCategories(ctx)
		if err != nil {
			s.log.Warn(ctx, "category names unavailable for custom exercise cards", "error", err)
		}
		for _, c := range cats {
			names[c.ID] = c.Name
		}
	}

	cards := make([]domain.ExerciseCardData, 0, len(exercises))
	for i := range exercises {
		ex := &exercises[i]
		cards = append(cards, domain.ExerciseCardData{
			ID:              CustomCardID(ex.ID),
			Name:            ex.Name,
			Description:     ex.Description,
			DescriptionText: catalog.DescriptionText(ex.Description),
			Category:        names[ex.CategoryID],
			Focus:           []string{},
			Images:          ex.ImageURLs(),
			Custom:          true,
		})
	}
	return cards, nil
}

// CustomCardID derives the negative display id of a custom exercise. It
// stays within the 53-bit range JSON clients can represent exactly.
func CustomCardID(id primitive.ObjectID) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id.Hex()))
	return -int64(h.Sum64()%(1<<53)) - 1
}
