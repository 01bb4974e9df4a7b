package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/masteryapp/mastery-api/internal/api/shared"
	"github.com/masteryapp/mastery-api/internal/platform/logger"
	"github.com/masteryapp/mastery-api/internal/service"
	"github.com/masteryapp/mastery-api/internal/service/payment"
)

// PaymentHandler handles membership payment HTTP requests.
type PaymentHandler struct {
	paymentService *payment.Service
	userService    *service.UserService
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(
	paymentService *payment.Service,
	userService *service.UserService,
	log *slog.Logger,
) *PaymentHandler {
	if log == nil {
		log = slog.Default()
	}

	return &PaymentHandler{
		paymentService: paymentService,
		userService:    userService,
		validator:      validator.New(),
		logger:         log.With(slog.String("component", "payment_handler")),
	}
}

// CreateOrder handles POST /payments/orders. It opens a checkout with the
// gateway and records the pending order.
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateOrderRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	order, err := h.paymentService.CreateOrder(r.Context(), userID, req.Amount)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, order)
}

// VerifyPayment handles POST /payments/verify. A valid signature settles the
// pending order and extends the paying user's membership by a year.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req VerifyPaymentRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	order, err := h.paymentService.VerifyPayment(r.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	user, err := h.userService.ExtendMembership(r.Context(), order.UserID)
	if err != nil {
		log.Error("payment settled but membership extension failed",
			slog.String("error", err.Error()),
			slog.String("order_id", order.ID),
			slog.String("user_id", order.UserID.String()))
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}
