package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanafox/user-management-system/internal/models"
)

const (
	minPassword = 8
	maxPassword = 15
)

func TestCreateUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  CreateUserRequest{Username: "jdoe", Password: "password1234"},
		},
		{
			name:    "username too short",
			req:     CreateUserRequest{Username: "jd", Password: "password1234"},
			wantErr: "username must be between 3 and 15 characters",
		},
		{
			name:    "username too long",
			req:     CreateUserRequest{Username: "a_very_long_username", Password: "password1234"},
			wantErr: "username must be between 3 and 15 characters",
		},
		{
			name:    "username only digits",
			req:     CreateUserRequest{Username: "12345", Password: "password1234"},
			wantErr: "username cannot be just numbers",
		},
		{
			name: "username with digits and letters",
			req:  CreateUserRequest{Username: "user123", Password: "password1234"},
		},
		{
			name:    "password too short",
			req:     CreateUserRequest{Username: "jdoe", Password: "short"},
			wantErr: "password must be between 8 and 15 characters",
		},
		{
			name:    "password too long",
			req:     CreateUserRequest{Username: "jdoe", Password: "this_password_is_far_too_long"},
			wantErr: "password must be between 8 and 15 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(minPassword, maxPassword)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestUpdateUserRequest_ValidatesOnlySuppliedFields(t *testing.T) {
	// nothing supplied: nothing to reject
	assert.NoError(t, UpdateUserRequest{}.Validate(minPassword, maxPassword))

	username := "jdoe_updated"
	assert.NoError(t, UpdateUserRequest{Username: &username}.Validate(minPassword, maxPassword))

	numeric := "999"
	err := UpdateUserRequest{Username: &numeric}.Validate(minPassword, maxPassword)
	assert.EqualError(t, err, "username cannot be just numbers")

	short := "abc"
	err = UpdateUserRequest{Password: &short}.Validate(minPassword, maxPassword)
	assert.EqualError(t, err, "password must be between 8 and 15 characters")
}

func TestUpdateUserRequest_OmittedFieldsStayNil(t *testing.T) {
	var req UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"username": "new_name"}`), &req))

	require.NotNil(t, req.Username)
	assert.Equal(t, "new_name", *req.Username)
	assert.Nil(t, req.Password)
}

func TestNewUserResponse_OmitsPasswordHash(t *testing.T) {
	now := time.Date(2024, 6, 21, 15, 22, 58, 844064000, time.UTC)
	user := models.User{
		ID:        uuid.New(),
		Username:  "jdoe",
		Password:  "$2a$10$secret",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	body, err := json.Marshal(NewUserResponse(user))
	require.NoError(t, err)

	assert.NotContains(t, string(body), "$2a$10$secret")
	assert.Contains(t, string(body), `"username":"jdoe"`)
	assert.Contains(t, string(body), `"created_at":"2024-06-21T15:22:58.844064Z"`)
}

func TestNewUserListResponse_EmptyIsArray(t *testing.T) {
	body, err := json.Marshal(NewUserListResponse(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
}
