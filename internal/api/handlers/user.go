package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/users-api/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/users-api/internal/errors"
	service "github.com/aaravmahajanofficial/users-api/internal/services"
	"github.com/aaravmahajanofficial/users-api/internal/utils"
	"github.com/aaravmahajanofficial/users-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

const UsersPath = "/api/users"

type UserHandler struct {
	userService  service.UserService
	validator    *validator.Validate
	maxBodyBytes int64
}

func NewUserHandler(userService service.UserService, maxBodyBytes int64) *UserHandler {
	return &UserHandler{
		userService:  userService,
		validator:    utils.NewValidator(),
		maxBodyBytes: maxBodyBytes,
	}
}

// ServeHTTP dispatches every request under /api/users by method. The id is
// the path suffix after "/api/users/" and is exposed as the "id" path value.
// Unsupported methods get the same 404 as unknown paths.
func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	id, ok := userIDFromPath(r.URL.Path)
	if !ok {
		h.NotFound().ServeHTTP(w, r)
		return
	}

	r.SetPathValue("id", id)

	switch r.Method {
	case http.MethodGet:
		if id == "" {
			h.ListUsers().ServeHTTP(w, r)
		} else {
			h.GetUser().ServeHTTP(w, r)
		}
	case http.MethodPost:
		h.CreateUser().ServeHTTP(w, r)
	case http.MethodPut:
		h.UpdateUser().ServeHTTP(w, r)
	case http.MethodDelete:
		h.DeleteUser().ServeHTTP(w, r)
	default:
		h.NotFound().ServeHTTP(w, r)
	}
}

func userIDFromPath(path string) (string, bool) {
	if path == UsersPath {
		return "", true
	}

	id, ok := strings.CutPrefix(path, UsersPath+"/")
	return id, ok
}

// ListUsers godoc
// @Summary      List users
// @Description  Returns every stored user in insertion order
// @Tags         users
// @Produce      json
// @Success      200  {array}   models.User
// @Router       /api/users [get]
func (h *UserHandler) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		users, err := h.userService.ListUsers(r.Context())
		if err != nil {
			logger.Error("Failed to list users", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Get all users", slog.Int("count", len(users)))
		response.WriteJson(w, http.StatusOK, users)
	}
}

// GetUser godoc
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User UUID"
// @Success      200  {object}  models.User
// @Failure      400  {string}  string  "<h1>400 Bad UUID</h1>"
// @Failure      404  {string}  string  "<h1>404 User not found</h1>"
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		id := r.PathValue("id")

		if !utils.CheckUUID(id) {
			logger.Warn("Get user by id, bad uuid", slog.String("userID", id))
			response.Error(w, appErrors.BadRequestError("Bad UUID"))
			return
		}

		user, err := h.userService.GetUserByID(r.Context(), id)
		if err != nil {
			logger.Warn("Get user by id failed", slog.String("userID", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Get user by id", slog.String("userID", user.ID))
		response.WriteJson(w, http.StatusOK, user)
	}
}

// CreateUser godoc
// @Summary      Create a user
// @Description  The id is assigned by the server, any id in the body or path is ignored
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user  body      models.CreateUser  true  "User fields"
// @Success      201   {object}  models.User
// @Failure      400   {string}  string  "<h1>400 Parse JSON error</h1>"
// @Router       /api/users [post]
func (h *UserHandler) CreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		body, err := utils.ReadBody(w, r, h.maxBodyBytes)
		if err != nil {
			logger.Warn("User not created, unreadable body", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		req, err := utils.CheckFields(body, h.validator)
		if err != nil {
			logger.Warn("User not created", slog.String("error", err.Error()), slog.String("detail", detailOf(err)))
			response.Error(w, err)
			return
		}

		user, err := h.userService.CreateUser(r.Context(), req)
		if err != nil {
			logger.Error("User creation failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("User created", slog.String("userID", user.ID))
		response.WriteJson(w, http.StatusCreated, user)
	}
}

// UpdateUser godoc
// @Summary      Replace a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User UUID"
// @Param        user  body      models.CreateUser  true  "User fields"
// @Success      200   {object}  models.User
// @Failure      400   {string}  string  "<h1>400 Bad UUID</h1>"
// @Failure      404   {string}  string  "<h1>404 User not found</h1>"
// @Router       /api/users/{id} [put]
func (h *UserHandler) UpdateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		id := r.PathValue("id")

		if !utils.CheckUUID(id) {
			logger.Warn("Update user by id, bad uuid", slog.String("userID", id))
			response.Error(w, appErrors.BadRequestError("Bad UUID"))
			return
		}

		// existence is checked before the body is looked at
		if _, err := h.userService.GetUserByID(r.Context(), id); err != nil {
			logger.Warn("Update user by id failed", slog.String("userID", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		body, err := utils.ReadBody(w, r, h.maxBodyBytes)
		if err != nil {
			logger.Warn("User not updated, unreadable body", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		req, err := utils.CheckFields(body, h.validator)
		if err != nil {
			logger.Warn("User not updated", slog.String("userID", id), slog.String("error", err.Error()), slog.String("detail", detailOf(err)))
			response.Error(w, err)
			return
		}

		user, err := h.userService.UpdateUser(r.Context(), id, req)
		if err != nil {
			logger.Warn("Update user by id failed", slog.String("userID", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Update user by id", slog.String("userID", id))
		response.WriteJson(w, http.StatusOK, user)
	}
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         users
// @Param        id   path      string  true  "User UUID"
// @Success      204
// @Failure      400  {string}  string  "<h1>400 Bad UUID</h1>"
// @Failure      404  {string}  string  "<h1>404 User not found</h1>"
// @Router       /api/users/{id} [delete]
func (h *UserHandler) DeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		id := r.PathValue("id")

		if !utils.CheckUUID(id) {
			logger.Warn("Delete user by id, bad uuid", slog.String("userID", id))
			response.Error(w, appErrors.BadRequestError("Bad UUID"))
			return
		}

		if err := h.userService.DeleteUser(r.Context(), id); err != nil {
			logger.Warn("Delete user by id failed", slog.String("userID", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Delete user by id", slog.String("userID", id))
		response.NoContent(w)
	}
}

func (h *UserHandler) NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.LoggerFromContext(r.Context()).Info("Unknown url")
		response.Error(w, appErrors.RouteNotFoundError())
	}
}

func detailOf(err error) string {
	if appErr, ok := appErrors.IsAppError(err); ok {
		return appErr.Detail
	}
	return ""
}
