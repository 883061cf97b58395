package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the account data shown in the app. It is created together with
// the User at signup; Role never changes afterwards.
type Profile struct {
	UserID      uuid.UUID `json:"userId"`
	Role        Role      `json:"role"`
	DisplayName string    `json:"displayName"`
	Phone       *string   `json:"phone,omitempty"` // E.164
	Bio         *string   `json:"bio,omitempty"`
	AvatarURL   *string   `json:"avatarUrl,omitempty"`
	Gender      *Gender   `json:"gender,omitempty"`

	// --- Trainer-specific ---
	// Set once by the key assignment at signup.
	TrainerKey *string `json:"trainerKey,omitempty"`

	// --- Student-specific ---
	TrainerID *uuid.UUID `json:"trainerId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Profile) IsTrainer() bool {
	return p.Role == RoleTrainer
}

func (p *Profile) IsStudent() bool {
	return p.Role == RoleStudent
}

// ProfilePatch holds the owner-editable fields. Nil means "leave as is";
// a pointer to an empty string clears the column.
type ProfilePatch struct {
	DisplayName *string
	Phone       *string
	Bio         *string
	AvatarURL   *string
	Gender      *Gender
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.DisplayName == nil && p.Phone == nil && p.Bio == nil && p.AvatarURL == nil && p.Gender == nil
}

// TrainerPublic is the projection of a trainer anyone may read, used to
// resolve keys and to show a student who their trainer is.
type TrainerPublic struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	TrainerKey  string    `json:"trainerKey"`
}

// StudentSummary is a row of a trainer's student list.
type StudentSummary struct {
	UserID      uuid.UUID `json:"userId"`
	DisplayName *string   `json:"displayName,omitempty"`
	AvatarURL   *string   `json:"avatarUrl,omitempty"`
}

// ProfileWithTrainer is a profile plus, for students, their trainer's card.
type ProfileWithTrainer struct {
	Profile
	Trainer *TrainerPublic `json:"trainer,omitempty"`
}
