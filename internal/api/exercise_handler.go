package api

import (
	"net/http"
	"time"

	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/logging"
	"alcyxob/trainer-link/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	log             logging.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, log logging.Logger) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, log: log}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest is the full content of a custom exercise, used by both
// create and update. Images are listed in display order.
type ExerciseRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	CategoryID  int      `json:"categoryId" binding:"required,gt=0"`
	VideoURL    string   `json:"videoUrl" binding:"omitempty,url"`
	Images      []string `json:"images" binding:"omitempty,dive,url"`
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
	Index       int    `json:"index" binding:"min=0"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID          string    `json:"id"`
	TrainerID   string    `json:"trainerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CategoryID  int       `json:"categoryId"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (r ExerciseRequest) input() service.CustomExerciseInput {
	return service.CustomExerciseInput{
		Name:        r.Name,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		VideoURL:    r.VideoURL,
		ImageURLs:   r.Images,
	}
}

// MapExerciseToResponse converts a domain.CustomExercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.CustomExercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:          ex.ID.Hex(),
		TrainerID:   ex.TrainerID,
		Name:        ex.Name,
		Description: ex.Description,
		CategoryID:  ex.CategoryID,
		VideoURL:    ex.VideoURL,
		Images:      ex.ImageURLs(),
		CreatedAt:   ex.CreatedAt,
		UpdatedAt:   ex.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.CustomExercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.CustomExercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// exerciseTarget reads the caller and the :id path parameter.
func exerciseTarget(c *gin.Context) (uuid.UUID, primitive.ObjectID, bool) {
	trainerID, ok := mustUserID(c)
	if !ok {
		return uuid.Nil, primitive.NilObjectID, false
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return uuid.Nil, primitive.NilObjectID, false
	}
	return trainerID, exerciseID, true
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Create a new exercise
// @Description Creates a new custom exercise for the authenticated trainer.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse "Exercise created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 403 {object} gin.H "Forbidden (not a trainer)"
// @Router /trainer/exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := mustUserID(c)
	if !ok {
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), trainerID, req.input())
	if err != nil {
		respondWithError(c, h.log, err, "Failed to create exercise.")
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// GetTrainerExercises godoc
// @Summary Get exercises for the authenticated trainer
// @Description Newest first.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseResponse "List of exercises"
// @Router /trainer/exercises [get]
func (h *ExerciseHandler) GetTrainerExercises(c *gin.Context) {
	trainerID, ok := mustUserID(c)
	if !ok {
		return
	}

	exercises, err := h.exerciseService.GetExercisesByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to retrieve exercises.")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetExerciseCards godoc
// @Summary Custom exercises in catalog card form
// @Description Ids are negative so they can be merged with catalog pages.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.ExerciseCardData
// @Router /trainer/exercises/cards [get]
func (h *ExerciseHandler) GetExerciseCards(c *gin.Context) {
	trainerID, ok := mustUserID(c)
	if !ok {
		return
	}

	cards, err := h.exerciseService.ExerciseCards(c.Request.Context(), trainerID)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to retrieve exercises.")
		return
	}
	c.JSON(http.StatusOK, cards)
}

// UpdateExercise godoc
// @Summary Replace an exercise
// @Description Images missing from the new list are deleted from storage.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 200 {object} ExerciseResponse
// @Failure 403 {object} gin.H "Not the owner"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /trainer/exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	trainerID, exerciseID, ok := exerciseTarget(c)
	if !ok {
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), trainerID, exerciseID, req.input())
	if err != nil {
		respondWithError(c, h.log, err, "Failed to update exercise.")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise godoc
// @Summary Delete an exercise and its stored images
// @Tags Exercises
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 204
// @Failure 403 {object} gin.H "Not the owner"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /trainer/exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	trainerID, exerciseID, ok := exerciseTarget(c)
	if !ok {
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), trainerID, exerciseID); err != nil {
		respondWithError(c, h.log, err, "Failed to delete exercise.")
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteExerciseImage godoc
// @Summary Remove one image from an exercise
// @Tags Exercises
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param url query string true "Public URL of the image"
// @Success 204
// @Router /trainer/exercises/{id}/images [delete]
func (h *ExerciseHandler) DeleteExerciseImage(c *gin.Context) {
	trainerID, exerciseID, ok := exerciseTarget(c)
	if !ok {
		return
	}
	imageURL := c.Query("url")
	if imageURL == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'url' is required.")
		return
	}

	if err := h.exerciseService.DeleteExerciseImage(c.Request.Context(), trainerID, exerciseID, imageURL); err != nil {
		respondWithError(c, h.log, err, "Failed to delete image.")
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestImageUpload godoc
// @Summary Get a presigned URL for an exercise image
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param upload body ImageUploadRequest true "Content type and position"
// @Success 200 {object} service.UploadURLResponse
// @Router /trainer/exercises/{id}/images [post]
func (h *ExerciseHandler) RequestImageUpload(c *gin.Context) {
	trainerID, exerciseID, ok := exerciseTarget(c)
	if !ok {
		return
	}
	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	resp, err := h.exerciseService.RequestImageUpload(c.Request.Context(), trainerID, exerciseID, req.ContentType, req.Index)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to prepare image upload.")
		return
	}
	c.JSON(http.StatusOK, resp)
}
