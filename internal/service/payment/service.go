// Package payment handles paid membership orders. An order is created when
// a user starts a checkout and verified when the gateway calls back with a
// payment id and signature. Pending orders are explicit records keyed by
// order id; nothing about an in-flight checkout lives in ambient state.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/masteryapp/mastery-api/internal/platform/logger"
)

// Common payment errors.
var (
	// ErrUnknownOrder is returned when a verification names an order id
	// that was never created or has already been settled.
	ErrUnknownOrder = errors.New("unknown or already settled order")

	// ErrInvalidSignature is returned when the gateway signature does not
	// match the expected HMAC for the order and payment pair.
	ErrInvalidSignature = errors.New("payment signature mismatch")

	// ErrDisabled is returned when no gateway credentials are configured.
	ErrDisabled = errors.New("payments are not configured")
)

// Order is a pending checkout awaiting gateway confirmation.
type Order struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Amount    int       `json:"amount"` // Smallest currency unit
	CreatedAt time.Time `json:"created_at"`
}

// Gateway mints order ids with the payment provider.
type Gateway interface {
	// CreateOrder registers an order for the given amount and returns the
	// provider's order id.
	CreateOrder(ctx context.Context, amount int, receipt string) (string, error)
}

// LocalGateway is a Gateway that mints order ids locally. It stands in for
// a real provider in development and test environments.
type LocalGateway struct{}

// CreateOrder implements Gateway.CreateOrder.
func (LocalGateway) CreateOrder(ctx context.Context, amount int, receipt string) (string, error) {
	return "order_" + uuid.NewString(), nil
}

// Service tracks pending orders and verifies gateway signatures.
type Service struct {
	gateway   Gateway
	keySecret []byte
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[string]*Order
}

// NewService creates a payment Service. An empty keySecret disables the
// service; every operation then returns ErrDisabled.
func NewService(gateway Gateway, keySecret string, log *slog.Logger) *Service {
	if gateway == nil {
		panic("gateway cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		gateway:   gateway,
		keySecret: []byte(keySecret),
		logger:    log.With(slog.String("component", "payment_service")),
		pending:   map[string]*Order{},
	}
}

// Enabled reports whether gateway credentials are configured.
func (s *Service) Enabled() bool {
	return len(s.keySecret) > 0
}

// CreateOrder opens a checkout for the user and records it as pending.
func (s *Service) CreateOrder(ctx context.Context, userID uuid.UUID, amount int) (*Order, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !s.Enabled() {
		return nil, ErrDisabled
	}
	if amount <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %d", amount)
	}

	orderID, err := s.gateway.CreateOrder(ctx, amount, userID.String())
	if err != nil {
		log.Error("gateway order creation failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	order := &Order{
		ID:        orderID,
		UserID:    userID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.pending[orderID] = order
	s.mu.Unlock()

	log.Info("payment order created",
		slog.String("order_id", orderID),
		slog.String("user_id", userID.String()),
		slog.Int("amount", amount))
	return order, nil
}

// VerifyPayment checks the gateway signature for a pending order and, on
// success, settles the order and returns it. A settled order cannot be
// verified twice.
func (s *Service) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (*Order, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !s.Enabled() {
		return nil, ErrDisabled
	}

	s.mu.Lock()
	order, ok := s.pending[orderID]
	s.mu.Unlock()
	if !ok {
		log.Warn("verification for unknown order", slog.String("order_id", orderID))
		return nil, ErrUnknownOrder
	}

	expected := Sign(s.keySecret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		log.Warn("payment signature mismatch",
			slog.String("order_id", orderID),
			slog.String("payment_id", paymentID))
		return nil, ErrInvalidSignature
	}

	s.mu.Lock()
	delete(s.pending, orderID)
	s.mu.Unlock()

	log.Info("payment verified",
		slog.String("order_id", orderID),
		slog.String("payment_id", paymentID),
		slog.String("user_id", order.UserID.String()))
	return order, nil
}

// Sign computes the hex HMAC-SHA256 of "orderID|paymentID", the signature
// scheme the gateway uses for payment confirmations.
func Sign(secret []byte, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
