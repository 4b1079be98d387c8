package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicUser is the subset of User returned by signup and signin.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// for signup
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// for signin
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// for signin response; the handler additionally echoes the token in the
// x-auth-token response header
type SigninResponse struct {
	Success        bool        `json:"-"`
	Message        string      `json:"message,omitempty"`
	Token          string      `json:"token,omitempty"`
	User           *PublicUser `json:"user,omitempty"`
	RemainingTries int         `json:"-"`
	RetryAfter     int         `json:"-"`
}

// Claims is the JWT payload. The subject travels under "_id", the key the
// original document store handed out and the one existing clients expect.
type Claims struct {
	UserID uuid.UUID `json:"_id"`
	jwt.RegisteredClaims
}
