// internal/api/trainer_handler.go
package api

import (
	"net/http"

	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/logging"
	"alcyxob/trainer-link/internal/service"
	"alcyxob/trainer-link/internal/trainerkey"

	"github.com/gin-gonic/gin"
)

type TrainerHandler struct {
	keyService     service.TrainerKeyService
	profileService service.ProfileService
	log            logging.Logger
}

func NewTrainerHandler(
	keyService service.TrainerKeyService,
	profileService service.ProfileService,
	log logging.Logger,
) *TrainerHandler {
	return &TrainerHandler{
		keyService:     keyService,
		profileService: profileService,
		log:            log,
	}
}

// --- DTOs for trainer keys ---

type TrainerKeyResponse struct {
	TrainerID   string `json:"trainerId"`
	DisplayName string `json:"displayName"`
	TrainerKey  string `json:"trainerKey"`
}

type GeneratedKeyResponse struct {
	TrainerKey string `json:"trainerKey"`
}

func MapTrainerToResponse(t *domain.TrainerPublic) TrainerKeyResponse {
	return TrainerKeyResponse{
		TrainerID:   t.ID.String(),
		DisplayName: t.DisplayName,
		TrainerKey:  t.TrainerKey,
	}
}

// --- Handler Methods ---

// ValidateKey godoc
// @Summary Resolve a trainer key
// @Description Accepts any casing, spacing or hyphenation of the key and returns the trainer card.
// @Tags TrainerKeys
// @Produce json
// @Param key path string true "Trainer key as typed"
// @Success 200 {object} TrainerKeyResponse
// @Failure 404 {object} gin.H "No trainer owns this key"
// @Failure 503 {object} gin.H "Trainer directory unavailable"
// @Router /trainer-keys/{key} [get]
func (h *TrainerHandler) ValidateKey(c *gin.Context) {
	trainer, err := h.keyService.TrainerByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondWithError(c, h.log, err, "Failed to validate trainer key.")
		return
	}
	c.JSON(http.StatusOK, MapTrainerToResponse(trainer))
}

// GenerateKey godoc
// @Summary Preview a random trainer key
// @Description The key is not reserved; signup assigns its own.
// @Tags TrainerKeys
// @Produce json
// @Success 200 {object} GeneratedKeyResponse
// @Router /trainer-keys/generate [get]
func (h *TrainerHandler) GenerateKey(c *gin.Context) {
	c.JSON(http.StatusOK, GeneratedKeyResponse{TrainerKey: trainerkey.Generate()})
}

// GetStudents godoc
// @Summary List the trainer's students
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.StudentSummary
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not a trainer)"
// @Router /trainer/students [get]
func (h *TrainerHandler) GetStudents(c *gin.Context) {
	trainerID, ok := mustUserID(c)
	if !ok {
		return
	}

	students, err := h.profileService.ListMyStudents(c.Request.Context(), trainerID)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to retrieve students.")
		return
	}
	c.JSON(http.StatusOK, students)
}
