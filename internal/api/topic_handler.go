package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/masteryapp/mastery-api/internal/api/shared"
	"github.com/masteryapp/mastery-api/internal/platform/logger"
	"github.com/masteryapp/mastery-api/internal/service"
)

// TopicHandler handles topic-related HTTP requests.
type TopicHandler struct {
	topicService *service.TopicService
	validator    *validator.Validate
	logger       *slog.Logger
}

// NewTopicHandler creates a new TopicHandler.
func NewTopicHandler(topicService *service.TopicService, log *slog.Logger) *TopicHandler {
	if log == nil {
		log = slog.Default()
	}

	return &TopicHandler{
		topicService: topicService,
		validator:    validator.New(),
		logger:       log.With(slog.String("component", "topic_handler")),
	}
}

// Create handles POST /topics.
func (h *TopicHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateTopicRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	topic, err := h.topicService.Create(r.Context(), userID, req.LessonID, req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, topic)
}

// Get handles GET /topics/{topicID}.
func (h *TopicHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, topicID, ok := requireUserAndPathID(w, r, "topicID")
	if !ok {
		return
	}

	topic, err := h.topicService.Get(r.Context(), userID, topicID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, topic)
}

// ListByLesson handles GET /lessons/{lessonID}/topics.
func (h *TopicHandler) ListByLesson(w http.ResponseWriter, r *http.Request) {
	userID, lessonID, ok := requireUserAndPathID(w, r, "lessonID")
	if !ok {
		return
	}

	topics, err := h.topicService.ListByLesson(r.Context(), userID, lessonID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, topics)
}

// Update handles PUT /topics/{topicID}. Completion and revision flag flips
// run the revision scheduler.
func (h *TopicHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, topicID, ok := requireUserAndPathID(w, r, "topicID")
	if !ok {
		return
	}

	var req UpdateTopicRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	topic, err := h.topicService.Update(r.Context(), userID, topicID, service.TopicUpdate{
		Name:          req.Name,
		Completed:     req.Completed,
		Revised:       req.Revised,
		RevisionCount: req.RevisionCount,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("topic updated",
		slog.String("topic_id", topicID.String()),
		slog.Bool("completed", topic.Completed))
	shared.RespondWithJSON(w, r, http.StatusOK, topic)
}

// Delete handles DELETE /topics/{topicID}.
func (h *TopicHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, topicID, ok := requireUserAndPathID(w, r, "topicID")
	if !ok {
		return
	}

	if err := h.topicService.Delete(r.Context(), userID, topicID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
