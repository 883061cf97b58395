package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role type to distinguish between account roles
type Role string

// Define constants for roles
const (
	RoleTrainer Role = "trainer"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleTrainer || r == RoleStudent
}

// Gender as stored on a profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// User is the auth identity behind a profile.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this via JSON
	CreatedAt    time.Time `json:"createdAt"`
}
