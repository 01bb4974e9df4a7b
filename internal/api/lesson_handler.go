package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/masteryapp/mastery-api/internal/api/shared"
	"github.com/masteryapp/mastery-api/internal/service"
)

// LessonHandler handles lesson-related HTTP requests.
type LessonHandler struct {
	lessonService *service.LessonService
	validator     *validator.Validate
	logger        *slog.Logger
}

// NewLessonHandler creates a new LessonHandler.
func NewLessonHandler(lessonService *service.LessonService, log *slog.Logger) *LessonHandler {
	if log == nil {
		log = slog.Default()
	}

	return &LessonHandler{
		lessonService: lessonService,
		validator:     validator.New(),
		logger:        log.With(slog.String("component", "lesson_handler")),
	}
}

// Create handles POST /lessons.
func (h *LessonHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateLessonRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	lesson, err := h.lessonService.Create(r.Context(), userID, req.CourseID, req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, lesson)
}

// Get handles GET /lessons/{lessonID}. The lesson's progress and stability
// are refreshed from its topics before it is returned.
func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, lessonID, ok := requireUserAndPathID(w, r, "lessonID")
	if !ok {
		return
	}

	lesson, err := h.lessonService.Get(r.Context(), userID, lessonID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, lesson)
}

// ListByCourse handles GET /courses/{courseID}/lessons.
func (h *LessonHandler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	userID, courseID, ok := requireUserAndPathID(w, r, "courseID")
	if !ok {
		return
	}

	lessons, err := h.lessonService.ListByCourse(r.Context(), userID, courseID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, lessons)
}

// Rename handles PUT /lessons/{lessonID}.
func (h *LessonHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, lessonID, ok := requireUserAndPathID(w, r, "lessonID")
	if !ok {
		return
	}

	var req RenameLessonRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	lesson, err := h.lessonService.Rename(r.Context(), userID, lessonID, req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, lesson)
}

// Delete handles DELETE /lessons/{lessonID}.
func (h *LessonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, lessonID, ok := requireUserAndPathID(w, r, "lessonID")
	if !ok {
		return
	}

	if err := h.lessonService.Delete(r.Context(), userID, lessonID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
