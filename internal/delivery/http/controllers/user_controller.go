package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventlottery/internal/delivery/http/helpers"
	"eventlottery/internal/delivery/http/middleware"
	"eventlottery/internal/domain"
)

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// GetMe godoc
// @Summary Get the current user
// @Description Returns the authenticated user's profile.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// ListMyNotificationsResponse is the data payload for GET /me/notifications (200).
type ListMyNotificationsResponse struct {
	Notifications []*domain.Notification `json:"notifications"`
	Pagination    helpers.PaginationMeta `json:"pagination"`
}

// ListMyNotifications godoc
// @Summary List the caller's notifications
// @Description Returns the authenticated user's notification log, newest first. Paginated.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains notifications and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/notifications [get]
func (c *UserController) ListMyNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	notifications, total, err := c.Service.ListMyNotifications(r.Context(), userID, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListMyNotificationsResponse{
		Notifications: notifications,
		Pagination:    helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// DeleteUserResponse is the data payload for DELETE /users/{userID} (200).
type DeleteUserResponse struct {
	Status string `json:"status"`
}

// DeleteUser godoc
// @Summary Delete a user account
// @Description Deletes the account and scrubs the user from the lottery state of every event (waitlists, invitations, attendee and declined lists). Admins may delete any account; other users only their own.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID} [delete]
func (c *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	targetID := r.PathValue("userID")
	if targetID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	role := middleware.RoleFromContext(r.Context())
	if callerID != targetID && !domain.RoleCan(role, domain.CapDeleteUser) {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
		return
	}
	if err := c.Service.DeleteUser(r.Context(), targetID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteUserResponse{Status: "deleted"})
}
