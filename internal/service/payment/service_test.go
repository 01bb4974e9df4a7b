package payment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewService(LocalGateway{}, "test-key-secret", nil)
	userID := uuid.New()

	order, err := svc.CreateOrder(context.Background(), userID, 49900)
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	assert.Equal(t, userID, order.UserID)

	signature := Sign([]byte("test-key-secret"), order.ID, "pay_123")

	settled, err := svc.VerifyPayment(context.Background(), order.ID, "pay_123", signature)
	require.NoError(t, err)
	assert.Equal(t, order.ID, settled.ID)

	// A settled order cannot be verified again.
	_, err = svc.VerifyPayment(context.Background(), order.ID, "pay_123", signature)
	assert.ErrorIs(t, err, ErrUnknownOrder)
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	t.Parallel()

	svc := NewService(LocalGateway{}, "test-key-secret", nil)

	order, err := svc.CreateOrder(context.Background(), uuid.New(), 100)
	require.NoError(t, err)

	wrong := Sign([]byte("another-secret"), order.ID, "pay_123")
	_, err = svc.VerifyPayment(context.Background(), order.ID, "pay_123", wrong)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// The order stays pending after a failed verification.
	good := Sign([]byte("test-key-secret"), order.ID, "pay_123")
	_, err = svc.VerifyPayment(context.Background(), order.ID, "pay_123", good)
	assert.NoError(t, err)
}

func TestVerifyUnknownOrder(t *testing.T) {
	t.Parallel()

	svc := NewService(LocalGateway{}, "test-key-secret", nil)
	signature := Sign([]byte("test-key-secret"), "order_missing", "pay_1")

	_, err := svc.VerifyPayment(context.Background(), "order_missing", "pay_1", signature)
	assert.ErrorIs(t, err, ErrUnknownOrder)
}

func TestDisabledService(t *testing.T) {
	t.Parallel()

	svc := NewService(LocalGateway{}, "", nil)

	_, err := svc.CreateOrder(context.Background(), uuid.New(), 100)
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = svc.VerifyPayment(context.Background(), "order_x", "pay_x", "sig")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestSignDeterministic(t *testing.T) {
	t.Parallel()

	a := Sign([]byte("secret"), "order_1", "pay_1")
	b := Sign([]byte("secret"), "order_1", "pay_1")
	c := Sign([]byte("secret"), "order_1", "pay_2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64) // hex SHA-256
}
