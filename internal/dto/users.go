package dto

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/nanafox/user-management-system/internal/models"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 15
)

// CreateUserRequest is the payload for creating a user.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest is the payload for a partial update. Omitted fields are
// left untouched, so both are optional.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Validate checks the payload shape before it reaches the directory.
// Password bounds come from configuration.
func (r CreateUserRequest) Validate(minPasswordLen, maxPasswordLen int) error {
	if err := validateUsername(r.Username); err != nil {
		return err
	}
	return validatePassword(r.Password, minPasswordLen, maxPasswordLen)
}

// Validate checks only the fields actually supplied.
func (r UpdateUserRequest) Validate(minPasswordLen, maxPasswordLen int) error {
	if r.Username != nil {
		if err := validateUsername(*r.Username); err != nil {
			return err
		}
	}
	if r.Password != nil {
		if err := validatePassword(*r.Password, minPasswordLen, maxPasswordLen); err != nil {
			return err
		}
	}
	return nil
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < usernameMinLength || n > usernameMaxLength {
		return fmt.Errorf("username must be between %d and %d characters",
			usernameMinLength, usernameMaxLength)
	}
	if isNumeric(username) {
		return fmt.Errorf("username cannot be just numbers")
	}
	return nil
}

func validatePassword(password string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(password)
	if n < minLen || n > maxLen {
		return fmt.Errorf("password must be between %d and %d characters",
			minLen, maxLen)
	}
	return nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// UserResponse is the user representation returned by the API. The password
// hash is never included.
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// NewUserResponse converts a user model into its API representation.
func NewUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05.000000Z07:00"),
		UpdatedAt: u.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000000Z07:00"),
	}
}

// NewUserListResponse converts a page of users. An empty page serializes as
// an empty array, never null.
func NewUserListResponse(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// UserEnvelope wraps user data with a message and status code.
type UserEnvelope struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
	Data       any    `json:"data"`
}

// StatusResponse is the payload of the API status endpoint.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body sent with any non-2xx user endpoint outcome.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
