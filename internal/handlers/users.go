package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/nanafox/user-management-system/internal/directory"
	"github.com/nanafox/user-management-system/internal/dto"
	"github.com/nanafox/user-management-system/internal/models"
	"github.com/nanafox/user-management-system/internal/utils"
)

// UserHandler handles user CRUD HTTP requests
type UserHandler struct {
	dir            *directory.Directory
	minPasswordLen int
	maxPasswordLen int
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(dir *directory.Directory, minPasswordLen, maxPasswordLen int) *UserHandler {
	return &UserHandler{
		dir:            dir,
		minPasswordLen: minPasswordLen,
		maxPasswordLen: maxPasswordLen,
	}
}

// Users dispatches /api/users requests by method.
func (h *UserHandler) Users(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.Create(w, r)
	case http.MethodGet:
		if r.URL.Query().Get("username") != "" {
			h.GetByUsername(w, r)
			return
		}
		h.List(w, r)
	case http.MethodPut:
		h.UpdateByUsername(w, r)
	case http.MethodDelete:
		h.DeleteByUsername(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// UserByID dispatches /api/users/{user_id} requests by method.
func (h *UserHandler) UserByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/users/")
	switch r.Method {
	case http.MethodGet:
		h.GetByID(w, r, id)
	case http.MethodPut:
		h.UpdateByID(w, r, id)
	case http.MethodDelete:
		h.DeleteByID(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Create handles user creation
// @Summary Create a user
// @Description Create a new user with a username and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "User data"
// @Success 201 {object} dto.UserEnvelope "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "User already exists"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(h.minPasswordLen, h.maxPasswordLen); err != nil {
		utils.WriteErrorResponse(w, http.StatusUnprocessableEntity, "Validation error", err.Error())
		return
	}

	user, err := h.dir.Create(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.UserEnvelope{
		Message:    "User created successfully",
		StatusCode: http.StatusCreated,
		Data:       dto.NewUserResponse(user),
	})
}

// GetByID handles retrieval of a user by their id
// @Summary Retrieve a user by their id
// @Tags users
// @Produce json
// @Param user_id path string true "The ID of the user"
// @Success 200 {object} dto.UserEnvelope "User retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid user id"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/users/{user_id} [get]
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request, id string) {
	user, err := h.dir.GetByID(r.Context(), id)
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	h.writeUserOK(w, user, "User data retrieval successful")
}

// GetByUsername handles retrieval of a user by their username
func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.dir.GetByUsername(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	h.writeUserOK(w, user, "User data retrieval successful")
}

// List handles paginated retrieval of all users
// @Summary Retrieve all users or a user by their username
// @Description Returns users starting at skip, at most limit per request (default 25, capped at 100). Pass a username query to retrieve a single user instead.
// @Tags users
// @Produce json
// @Param username query string false "The username of the user"
// @Param skip query int false "Pagination offset"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.UserEnvelope "User data retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, ok := h.intQuery(w, r, "skip", 0)
	if !ok {
		return
	}
	limit, ok := h.intQuery(w, r, "limit", directory.DefaultPageLimit)
	if !ok {
		return
	}

	users, err := h.dir.List(r.Context(), skip, limit)
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.UserEnvelope{
		Message:    "User data retrieval successful",
		StatusCode: http.StatusOK,
		Data:       dto.NewUserListResponse(users),
	})
}

// UpdateByID handles a partial update of a user by their id
// @Summary Update a user by their id
// @Description Applies only the supplied fields; a new password is hashed before storage
// @Tags users
// @Accept json
// @Produce json
// @Param user_id path string true "The ID of the user"
// @Param request body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserEnvelope "User updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid user id"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /api/users/{user_id} [put]
func (h *UserHandler) UpdateByID(w http.ResponseWriter, r *http.Request, id string) {
	h.update(w, r, id, directory.ByID)
}

// UpdateByUsername handles a partial update of a user by their username
// @Summary Update a user by their username
// @Tags users
// @Accept json
// @Produce json
// @Param username query string true "The username of the user"
// @Param request body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserEnvelope "User updated successfully"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /api/users [put]
func (h *UserHandler) UpdateByUsername(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireUsername(w, r)
	if !ok {
		return
	}
	h.update(w, r, username, directory.ByUsername)
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request, identifier string, mode directory.LookupMode) {
	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(h.minPasswordLen, h.maxPasswordLen); err != nil {
		utils.WriteErrorResponse(w, http.StatusUnprocessableEntity, "Validation error", err.Error())
		return
	}

	user, err := h.dir.Update(r.Context(), identifier, mode, directory.UpdateFields{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	h.writeUserOK(w, user, "User updated successfully")
}

// DeleteByID handles deletion of a user by their id
// @Summary Delete a user by their id
// @Tags users
// @Param user_id path string true "The ID of the user"
// @Success 204 "User deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid user id"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/users/{user_id} [delete]
func (h *UserHandler) DeleteByID(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.dir.Delete(r.Context(), id, directory.ByID); err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteByUsername handles deletion of a user by their username
// @Summary Delete a user by their username
// @Tags users
// @Param username query string true "The username of the user"
// @Success 204 "User deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/users [delete]
func (h *UserHandler) DeleteByUsername(w http.ResponseWriter, r *http.Request) {
	username, ok := h.requireUsername(w, r)
	if !ok {
		return
	}
	if err := h.dir.Delete(r.Context(), username, directory.ByUsername); err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) writeUserOK(w http.ResponseWriter, user models.User, message string) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.UserEnvelope{
		Message:    message,
		StatusCode: http.StatusOK,
		Data:       dto.NewUserResponse(user),
	})
}

func (h *UserHandler) writeDirectoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directory.ErrInvalidID):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid user id", err.Error())
	case errors.Is(err, directory.ErrNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, "User not found", err.Error())
	case errors.Is(err, directory.ErrConflict):
		utils.WriteErrorResponse(w, http.StatusConflict, "User already exists", err.Error())
	default:
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

func (h *UserHandler) requireUsername(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := r.URL.Query().Get("username")
	if username == "" {
		utils.WriteErrorResponse(w, http.StatusUnprocessableEntity,
			"Validation error", "username query parameter is required")
		return "", false
	}
	return username, true
}

func (h *UserHandler) intQuery(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnprocessableEntity,
			"Validation error", name+" must be an integer")
		return 0, false
	}
	return value, true
}
