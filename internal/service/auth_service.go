package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/logging"
	"alcyxob/trainer-link/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidTrainerKey    = errors.New("invalid trainer key")
	ErrInvalidSignup        = errors.New("invalid signup data")
)

// SignUpInput is everything the signup form collects.
type SignUpInput struct {
	Email       string
	Password    string
	Role        domain.Role
	DisplayName string
	Phone       *string
	Gender      *domain.Gender
	TrainerKey  string // students only, any casing or hyphenation
}

// SignUpResult is the created account. TrainerKey is set for trainers.
type SignUpResult struct {
	User       *domain.User
	TrainerKey string
}

// --- Service Interface ---
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (token string, user *domain.User, role domain.Role, err error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	profileRepo   repository.ProfileRepository
	keys          TrainerKeyService
	log           logging.Logger
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	keys TrainerKeyService,
	log logging.Logger,
	jwtSecret string,
	jwtExpiration time.Duration,
) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		keys:          keys,
		log:           log,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the identity and its profile. A student's trainer key is
// checked before anything is written; a trainer gets a freshly issued key
// after the identity exists, and the identity is removed again if no key
// could be issued.
func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error) {
	email := normalizeEmail(in.Email)
	displayName := strings.TrimSpace(in.DisplayName)
	if email == "" || in.Password == "" || displayName == "" || !in.Role.Valid() {
		return nil, fmt.Errorf("%w: email, password, display name and role are required", ErrInvalidSignup)
	}
	if in.Gender != nil && !in.Gender.Valid() {
		return nil, fmt.Errorf("%w: unknown gender %q", ErrInvalidSignup, *in.Gender)
	}

	var trainerID *uuid.UUID
	if in.Role == domain.RoleStudent {
		id, found, err := s.keys.ValidateKey(ctx, in.TrainerKey)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, ErrInvalidTrainerKey
		}
		trainerID = &id
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	err = s.userRepo.CreateWithProfile(ctx, user, repository.NewProfile{
		Role:        in.Role,
		DisplayName: displayName,
		Phone:       in.Phone,
		Gender:      in.Gender,
		TrainerID:   trainerID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.PasswordHash = ""

	result := &SignUpResult{User: user}
	if in.Role == domain.RoleTrainer {
		key, err := s.keys.AssignUniqueKey(ctx, user.ID, TrainerSignup{DisplayName: displayName, Phone: in.Phone})
		if err != nil {
			// context.WithoutCancel: the cleanup must run even if the request died
			if delErr := s.userRepo.Delete(context.WithoutCancel(ctx), user.ID); delErr != nil {
				s.log.Error(ctx, "failed to remove trainer without key", "user_id", user.ID, "error", delErr)
			}
			return nil, err
		}
		result.TrainerKey = key
	}

	s.log.Info(ctx, "user signed up", "user_id", user.ID, "role", in.Role)
	return result, nil
}

// SignIn handles user authentication and JWT generation.
func (s *authService) SignIn(ctx context.Context, email, password string) (token string, user *domain.User, role domain.Role, err error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		err = ErrAuthenticationFailed
		return
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed
		}
		user = nil
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, "", ErrAuthenticationFailed
	}

	profile, err := s.profileRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return "", nil, "", err
	}

	token, err = s.generateJWT(user.ID, profile.Role)
	if err != nil {
		return "", nil, "", ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, profile.Role, nil
}

// --- JWT Helper ---

// Claims is the JWT payload issued by SignIn.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(userID uuid.UUID, role domain.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID.String(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "trainer-link",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
