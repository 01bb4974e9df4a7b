package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/masteryapp/mastery-api/internal/api/shared"
	"github.com/masteryapp/mastery-api/internal/domain"
	"github.com/masteryapp/mastery-api/internal/service"
	"github.com/masteryapp/mastery-api/internal/store"
)

// BurstHandler handles study burst HTTP requests.
type BurstHandler struct {
	burstService *service.BurstService
	userStore    store.UserStore
	validator    *validator.Validate
	logger       *slog.Logger
}

// NewBurstHandler creates a new BurstHandler.
func NewBurstHandler(burstService *service.BurstService, userStore store.UserStore, log *slog.Logger) *BurstHandler {
	if log == nil {
		log = slog.Default()
	}

	return &BurstHandler{
		burstService: burstService,
		userStore:    userStore,
		validator:    validator.New(),
		logger:       log.With(slog.String("component", "burst_handler")),
	}
}

// Create handles POST /bursts. Logging the first burst of a day increments
// the course streak.
func (h *BurstHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateBurstRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	burst, err := h.burstService.Create(r.Context(), userID, req.CourseID, req.LessonID,
		req.Duration, req.Interrupted, domain.Interruption(req.Interruption))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, burst)
}

// ListByCourse handles GET /courses/{courseID}/bursts.
func (h *BurstHandler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	userID, courseID, ok := requireUserAndPathID(w, r, "courseID")
	if !ok {
		return
	}

	bursts, err := h.burstService.ListByCourse(r.Context(), userID, courseID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, bursts)
}

// Interruptions handles GET /users/me/interruptions. An optional "since"
// query parameter (RFC 3339) bounds the aggregation window.
func (h *BurstHandler) Interruptions(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid since parameter, expected RFC 3339 timestamp")
			return
		}
		since = parsed
	}

	breakdown, err := h.burstService.Interruptions(r.Context(), userID, since)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, breakdown)
}

// DeleteBurst handles DELETE /admin/bursts/{burstID}. Superuser only.
func (h *BurstHandler) DeleteBurst(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	actor, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	burstID, err := getPathUUID(r, "burstID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid burstID")
		return
	}

	if err := h.burstService.DeleteBurst(r.Context(), actor, burstID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
