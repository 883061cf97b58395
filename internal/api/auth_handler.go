package api

import (
	"net/http"
	"time"

	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/logging"
	"alcyxob/trainer-link/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
	log         logging.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, log logging.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// --- Request/Response Structs ---

type SignUpRequest struct {
	Email       string         `json:"email" binding:"required,email"`
	Password    string         `json:"password" binding:"required,min=8"`
	Role        domain.Role    `json:"role" binding:"required,oneof=trainer student"`
	DisplayName string         `json:"displayName" binding:"required"`
	Phone       *string        `json:"phone" binding:"omitempty,eq=|e164"`
	Gender      *domain.Gender `json:"gender" binding:"omitempty,oneof=male female other"`
	TrainerKey  string         `json:"trainerKey" binding:"required_if=Role student"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

type SignUpResponse struct {
	User       UserResponse `json:"user"`
	TrainerKey string       `json:"trainerKey,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignInResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// SignUp godoc
// @Summary Register a trainer or a student
// @Description Trainers receive their unique key; students must present a valid one.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body SignUpRequest true "Signup details"
// @Success 201 {object} SignUpResponse
// @Failure 400 {object} gin.H "Invalid input or trainer key"
// @Failure 409 {object} gin.H "Email already registered"
// @Failure 503 {object} gin.H "Trainer keys exhausted or directory unavailable"
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	res, err := h.authService.SignUp(c.Request.Context(), service.SignUpInput{
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Gender:      req.Gender,
		TrainerKey:  req.TrainerKey,
	})
	if err != nil {
		respondWithError(c, h.log, err, "An unexpected error occurred during registration")
		return
	}

	c.JSON(http.StatusCreated, SignUpResponse{
		User:       MapUserToResponse(res.User, req.Role),
		TrainerKey: res.TrainerKey,
	})
}

// SignIn godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body SignInRequest true "Login credentials"
// @Success 200 {object} SignInResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	token, user, role, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, h.log, err, "An unexpected error occurred during login")
		return
	}

	c.JSON(http.StatusOK, SignInResponse{
		Token: token,
		User:  MapUserToResponse(user, role),
	})
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User, role domain.Role) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Role:      role,
		CreatedAt: user.CreatedAt,
	}
}
