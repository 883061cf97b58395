package api

import (
	"net/http"

	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/logging"
	"alcyxob/trainer-link/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	profileService service.ProfileService
	log            logging.Logger
}

func NewProfileHandler(profileService service.ProfileService, log logging.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, log: log}
}

// --- DTOs ---

// UpdateProfileRequest carries the fields to change. Omitted fields are
// kept; an empty string clears phone, bio or avatar.
type UpdateProfileRequest struct {
	DisplayName *string        `json:"displayName" binding:"omitempty,max=120"`
	Phone       *string        `json:"phone" binding:"omitempty,eq=|e164"`
	Bio         *string        `json:"bio" binding:"omitempty,max=2000"`
	AvatarURL   *string        `json:"avatarUrl" binding:"omitempty,eq=|url"`
	Gender      *domain.Gender `json:"gender" binding:"omitempty,oneof=male female other"`
}

type UploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type LinkTrainerRequest struct {
	TrainerKey string `json:"trainerKey" binding:"required"`
}

// --- Handler Methods ---

// GetMe godoc
// @Summary Get own profile
// @Description Students also receive their trainer's public card.
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.ProfileWithTrainer
// @Failure 404 {object} gin.H "Profile not found"
// @Router /me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetOwnProfileWithTrainer(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to retrieve profile.")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary Update own profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} gin.H "Invalid input"
// @Router /me [patch]
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile, err := h.profileService.UpdateOwnProfile(c.Request.Context(), userID, domain.ProfilePatch{
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		Gender:      req.Gender,
	})
	if err != nil {
		respondWithError(c, h.log, err, "Failed to update profile.")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// RequestAvatarUpload godoc
// @Summary Get a presigned URL for the avatar
// @Description Upload with PUT, then PATCH /me with the returned publicUrl.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upload body UploadRequest true "Image content type"
// @Success 200 {object} service.UploadURLResponse
// @Failure 400 {object} gin.H "Unsupported content type"
// @Router /me/avatar [post]
func (h *ProfileHandler) RequestAvatarUpload(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	resp, err := h.profileService.RequestAvatarUpload(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to prepare avatar upload.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LinkTrainer godoc
// @Summary Link the student to another trainer
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param link body LinkTrainerRequest true "Trainer key"
// @Success 200 {object} TrainerKeyResponse
// @Failure 400 {object} gin.H "Invalid trainer key"
// @Failure 403 {object} gin.H "Caller is not a student"
// @Router /me/trainer [put]
func (h *ProfileHandler) LinkTrainer(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req LinkTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainer, err := h.profileService.LinkTrainer(c.Request.Context(), userID, req.TrainerKey)
	if err != nil {
		respondWithError(c, h.log, err, "Failed to link trainer.")
		return
	}
	c.JSON(http.StatusOK, MapTrainerToResponse(trainer))
}
