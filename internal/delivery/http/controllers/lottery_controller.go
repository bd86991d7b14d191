package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventlottery/internal/delivery/http/helpers"
	"eventlottery/internal/delivery/http/middleware"
	"eventlottery/internal/domain"
)

type LotteryController struct {
	Logger  *slog.Logger
	Service domain.LotteryService
}

func NewLotteryController(logger *slog.Logger, svc domain.LotteryService) *LotteryController {
	return &LotteryController{
		Logger:  logger,
		Service: svc,
	}
}

// writeLotteryError maps the service errors shared by every lottery handler;
// handlers check their endpoint-specific errors before falling back to it.
func (c *LotteryController) writeLotteryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrVersionConflict):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "event was modified concurrently, retry")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// JoinWaitlistResponse is the data payload for POST /events/{eventID}/waitlist.
type JoinWaitlistResponse struct {
	Joined bool `json:"joined"`
}

// JoinWaitlist godoc
// @Summary Join an event waitlist
// @Description Adds the authenticated user to the event's waitlist. Idempotent: returns 200 with joined=false when already waitlisted, 201 with joined=true on first join.
// @Tags lottery
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "Already waitlisted (joined=false)"
// @Success 201 {object} helpers.APIResponse "Joined (joined=true)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (waitlist full or already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/waitlist [post]
func (c *LotteryController) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	joined, err := c.Service.JoinWaitlist(r.Context(), eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrWaitlistFull) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
			return
		}
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
			return
		}
		c.writeLotteryError(w, r, err)
		return
	}
	if joined {
		helpers.WriteJSONSuccess(w, http.StatusCreated, JoinWaitlistResponse{Joined: true})
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, JoinWaitlistResponse{Joined: false})
}

// LeaveWaitlistResponse is the data payload for DELETE /events/{eventID}/waitlist.
type LeaveWaitlistResponse struct {
	Removed bool `json:"removed"`
}

// LeaveWaitlist godoc
// @Summary Leave an event waitlist
// @Description Removes the authenticated user from the event's waitlist. Idempotent: removed=false when the user was not on it.
// @Tags lottery
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains removed flag"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/waitlist [delete]
func (c *LotteryController) LeaveWaitlist(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	removed, err := c.Service.LeaveWaitlist(r.Context(), eventID, userID)
	if err != nil {
		c.writeLotteryError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, LeaveWaitlistResponse{Removed: removed})
}

// DrawRequest is the request body for POST /events/{eventID}/draws.
// sample_size overrides the computed draw target when present.
type DrawRequest struct {
	SampleSize *int `json:"sample_size"`
}

// Validate implements Validator.
func (d DrawRequest) Validate() []string {
	if d.SampleSize != nil && *d.SampleSize < 0 {
		return []string{"sample_size must not be negative"}
	}
	return nil
}

// DrawSuccessResponse is the success response envelope for draw endpoints (200).
type DrawSuccessResponse struct {
	Data  *domain.DrawResult `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// DrawAttendees godoc
// @Summary Run the initial lottery draw
// @Description Selects a uniform random sample of the waitlist and issues PENDING invitations. Only the event owner may draw. An empty body draws the computed target; sample_size overrides it. Drawing from an empty waitlist selects nobody and is not an error.
// @Tags lottery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body DrawRequest false "Optional sample size override"
// @Success 200 {object} controllers.DrawSuccessResponse "data contains the updated event and invited user ids"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/draws [post]
func (c *LotteryController) DrawAttendees(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req DrawRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !helpers.DecodeAndValidate(w, r, &req) {
			return
		}
	}
	result, err := c.Service.DrawAttendees(r.Context(), eventID, callerID, req.SampleSize)
	if err != nil {
		c.writeLotteryError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// DrawReplacement godoc
// @Summary Draw a replacement for a declined invitation
// @Description Invites exactly one random waitlisted user to backfill an open declined slot. Only the event owner may draw. Fails when no declined slot is open or the waitlist is empty.
// @Tags lottery
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.DrawSuccessResponse "data contains the updated event and the invited user id"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (no open slot or empty waitlist)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/draws/replacement [post]
func (c *LotteryController) DrawReplacement(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := c.Service.DrawReplacement(r.Context(), eventID, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyWaitlist) || errors.Is(err, domain.ErrNoDeclinedSlot) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
			return
		}
		c.writeLotteryError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// RespondToInvitationRequest is the request body for POST /events/{eventID}/invitations/{userID}/response.
type RespondToInvitationRequest struct {
	Accept *bool `json:"accept"`
}

// Validate implements Validator.
func (r RespondToInvitationRequest) Validate() []string {
	if r.Accept == nil {
		return []string{"accept is required"}
	}
	return nil
}

// RespondSuccessResponse is the success response envelope for the invitation response endpoint (200).
type RespondSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RespondToInvitation godoc
// @Summary Accept or decline an invitation
// @Description Resolves the caller's PENDING invitation. Accepting confirms attendance; declining frees the slot for a replacement draw. Users may only respond to their own invitation.
// @Tags lottery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param userID path string true "Invited user ID (must match the caller)"
// @Param body body RespondToInvitationRequest true "accept: true or false"
// @Success 200 {object} controllers.RespondSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (responding for another user)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event or invitation)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event at capacity)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invitations/{userID}/response [post]
func (c *LotteryController) RespondToInvitation(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	userID := r.PathValue("userID")
	if eventID == "" || userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID or userID")
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if callerID != userID {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "cannot respond to another user's invitation")
		return
	}
	var req RespondToInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.RespondToInvitation(r.Context(), eventID, userID, *req.Accept)
	if err != nil {
		if errors.Is(err, domain.ErrInvitationNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
			return
		}
		if errors.Is(err, domain.ErrEventFull) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
			return
		}
		c.writeLotteryError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CancelInvitation godoc
// @Summary Cancel a pending invitation
// @Description Withdraws a PENDING invitation, moving the entrant to the declined set so their slot can be backfilled. Only the event owner may cancel.
// @Tags lottery
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param userID path string true "Invited user ID"
// @Success 200 {object} controllers.RespondSuccessResponse "data contains the updated event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event or invitation)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invitations/{userID} [delete]
func (c *LotteryController) CancelInvitation(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	userID := r.PathValue("userID")
	if eventID == "" || userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID or userID")
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.CancelInvitation(r.Context(), eventID, callerID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrInvitationNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
			return
		}
		c.writeLotteryError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UserStatusResponse is the data payload for GET /events/{eventID}/status.
type UserStatusResponse struct {
	Status domain.UserStatus `json:"status"`
}

// UserStatus godoc
// @Summary Get the caller's registration status for an event
// @Description Derives one of SELECTED, PENDING, NOT_SELECTED, or NOT_REGISTERED for the authenticated user.
// @Tags lottery
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/status [get]
func (c *LotteryController) UserStatus(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	status, err := c.Service.UserStatus(r.Context(), eventID, userID)
	if err != nil {
		c.writeLotteryError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UserStatusResponse{Status: status})
}
