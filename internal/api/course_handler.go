package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/masteryapp/mastery-api/internal/api/shared"
	"github.com/masteryapp/mastery-api/internal/domain"
	"github.com/masteryapp/mastery-api/internal/platform/logger"
	"github.com/masteryapp/mastery-api/internal/service"
)

// CourseHandler handles course-related HTTP requests.
type CourseHandler struct {
	courseService *service.CourseService
	validator     *validator.Validate
	logger        *slog.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService, log *slog.Logger) *CourseHandler {
	if log == nil {
		log = slog.Default()
	}

	return &CourseHandler{
		courseService: courseService,
		validator:     validator.New(),
		logger:        log.With(slog.String("component", "course_handler")),
	}
}

// Create handles POST /courses.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateCourseRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	course, err := h.courseService.Create(r.Context(), userID, req.Name,
		domain.Intensity(req.Intensity), req.Goal, req.Deadline)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, course)
}

// List handles GET /courses. The read rolls elapsed goal windows and sweeps
// overdue revisions before returning the courses.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	courses, err := h.courseService.List(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, courses)
}

// Get handles GET /courses/{courseID}. The course snapshot is refreshed and
// persisted before it is returned.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, courseID, ok := requireUserAndPathID(w, r, "courseID")
	if !ok {
		return
	}

	course, err := h.courseService.Get(r.Context(), userID, courseID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("course returned",
		slog.String("course_id", courseID.String()),
		slog.Int("progress", course.Progress))
	shared.RespondWithJSON(w, r, http.StatusOK, course)
}

// Update handles PUT /courses/{courseID}.
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, courseID, ok := requireUserAndPathID(w, r, "courseID")
	if !ok {
		return
	}

	var req UpdateCourseRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	update := service.CourseUpdate{
		Name:     req.Name,
		Goal:     req.Goal,
		Deadline: req.Deadline,
	}
	if req.Intensity != nil {
		intensity := domain.Intensity(*req.Intensity)
		update.Intensity = &intensity
	}

	course, err := h.courseService.Update(r.Context(), userID, courseID, update)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, course)
}

// Delete handles DELETE /courses/{courseID}.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, courseID, ok := requireUserAndPathID(w, r, "courseID")
	if !ok {
		return
	}

	if err := h.courseService.Delete(r.Context(), userID, courseID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
