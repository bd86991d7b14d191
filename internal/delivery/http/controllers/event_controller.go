package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventlottery/internal/delivery/http/helpers"
	"eventlottery/internal/delivery/http/middleware"
	"eventlottery/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// Capacity is the attendee limit; 0 means unbounded.
	Capacity int `json:"capacity"`
	// MaxEntrants is the waitlist limit; 0 means unbounded.
	MaxEntrants int `json:"max_entrants"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.Capacity < 0 {
		errs = append(errs, "capacity must not be negative")
	}
	if c.MaxEntrants < 0 {
		errs = append(errs, "max_entrants must not be negative")
	}
	return errs
}

// CreateEventSuccessResponse is the success response envelope for POST /events (201).
type CreateEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create a lottery event. The authenticated user becomes the event owner and must hold the organizer role. capacity and max_entrants of 0 mean unbounded.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (role may not create events)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if !domain.RoleCan(middleware.RoleFromContext(r.Context()), domain.CapCreateEvent) {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "role may not create events")
		return
	}
	event := domain.NewEvent(userID, strings.TrimSpace(req.Title), req.Description, req.Capacity, req.MaxEntrants, time.Now())
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEventSuccessResponse is the success response envelope for GET /events/{eventID} (200).
type GetEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event with its full lottery state. Requires authentication.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.GetEventSuccessResponse "data contains the event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. All fields optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Capacity    *int    `json:"capacity"`
	MaxEntrants *int    `json:"max_entrants"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title must not be empty")
	}
	if u.Capacity != nil && *u.Capacity < 0 {
		errs = append(errs, "capacity must not be negative")
	}
	if u.MaxEntrants != nil && *u.MaxEntrants < 0 {
		errs = append(errs, "max_entrants must not be negative")
	}
	return errs
}

// UpdateEventSuccessResponse is the success response envelope for PATCH /events/{eventID} (200).
type UpdateEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Updates event title, description, capacity, and max_entrants. Only the event owner can update. Optional fields omitted from body are unchanged. Requires authentication.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.UpdateEventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (concurrent modification)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, callerID, req.Title, req.Description, req.Capacity, req.MaxEntrants)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrVersionConflict) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "event was modified concurrently, retry")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEventResponse is the data payload for DELETE /events/{eventID} (200).
type DeleteEventResponse struct {
	Status string `json:"status"`
}

// DeleteEventSuccessResponse is the success response envelope for DELETE /events/{eventID} (200).
type DeleteEventSuccessResponse struct {
	Data  DeleteEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Delete an event and its lottery state. Allowed for the event owner and for admins. Requires authentication.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.DeleteEventSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner or admin)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
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
	role := middleware.RoleFromContext(r.Context())
	if err := c.Service.DeleteEvent(r.Context(), eventID, callerID, role); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}

// BrowseEventsResponse is the data payload for GET /events (200).
type BrowseEventsResponse struct {
	Events     []*domain.Event        `json:"events"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// BrowseEventsSuccessResponse is the success response envelope for GET /events (200).
type BrowseEventsSuccessResponse struct {
	Data  BrowseEventsResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// BrowseEvents godoc
// @Summary Browse events
// @Description Lists events, newest first. Supports text search over title and description (q) and an availability filter ("full" or "not_full"). Paginated.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param q query string false "Text search over title and description"
// @Param availability query string false "Filter: full or not_full"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.BrowseEventsSuccessResponse "data contains events and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) BrowseEvents(w http.ResponseWriter, r *http.Request) {
	availability := domain.Availability(r.URL.Query().Get("availability"))
	switch availability {
	case domain.AvailabilityAny, domain.AvailabilityFull, domain.AvailabilityNotFull:
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "availability must be \"full\" or \"not_full\"")
		return
	}
	filter := domain.EventFilter{
		Query:        strings.TrimSpace(r.URL.Query().Get("q")),
		Availability: availability,
	}
	params := helpers.ParsePagination(r)

	events, total, err := c.Service.BrowseEvents(r.Context(), filter, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, BrowseEventsResponse{
		Events:     events,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}
