package services

import (
	"context"
	"testing"

	"airline_reservations/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidatePaymentDetails(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		details *string
		want    bool
	}{
		{"card with 16 characters", models.PaymentMethodCreditCard, strPtr("1234567890123456"), true},
		{"card with 15 characters", models.PaymentMethodCreditCard, strPtr("123456789012345"), false},
		{"card with 17 characters", models.PaymentMethodCreditCard, strPtr("12345678901234567"), false},
		{"card without details", models.PaymentMethodCreditCard, nil, false},
		{"paypal with at sign", models.PaymentMethodPayPal, strPtr("me@example.com"), true},
		{"paypal without at sign", models.PaymentMethodPayPal, strPtr("me.example.com"), false},
		{"paypal without details", models.PaymentMethodPayPal, nil, false},
		{"cash without details", models.PaymentMethodCash, nil, true},
		{"cash with details", models.PaymentMethodCash, strPtr("anything"), true},
		{"unknown method", "Bitcoin", strPtr("wallet"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePaymentDetails(tt.method, tt.details))
		})
	}
}

func TestNormalizePaymentMethod(t *testing.T) {
	assert.Equal(t, models.PaymentMethodCreditCard, NormalizePaymentMethod(" credit CARD "))
	assert.Equal(t, models.PaymentMethodPayPal, NormalizePaymentMethod("paypal"))
	assert.Equal(t, models.PaymentMethodCash, NormalizePaymentMethod("Cash"))
	assert.Equal(t, "Cheque", NormalizePaymentMethod("Cheque "))
	assert.True(t, RequiresDetails(models.PaymentMethodPayPal))
	assert.False(t, RequiresDetails(models.PaymentMethodCash))
}

func TestProcessPayment(t *testing.T) {
	ps := NewPaymentService(zap.NewNop())

	resp, err := ps.ProcessPayment(context.Background(), &models.PaymentRequest{
		ReservationID: "R1",
		Amount:        99.5,
		Method:        models.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, resp.Succeeded())
	_, parseErr := uuid.Parse(resp.TransactionID)
	assert.NoError(t, parseErr)

	resp, err = ps.ProcessRefund(context.Background(), &models.PaymentRequest{
		ReservationID: "R1",
		Amount:        99.5,
		Method:        models.PaymentMethodPayPal,
		Details:       strPtr("nope"),
	})
	assert.ErrorIs(t, err, models.ErrPaymentInvalid)
	assert.Equal(t, models.TransactionStatusFailed, resp.Status)
	assert.Empty(t, resp.TransactionID)
}
