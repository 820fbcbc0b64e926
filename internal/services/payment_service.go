package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"airline_reservations/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService validates simulated payments and refunds. Nothing is
// charged, so a validated payment has no side effect to undo.
type PaymentService struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(logger *zap.Logger) *PaymentService {
	return &PaymentService{
		logger: logger,
		now:    time.Now,
	}
}

// ValidatePaymentDetails applies the per-method rules:
// Credit Card needs exactly 16 characters, PayPal needs an '@', Cash needs nothing.
func ValidatePaymentDetails(method string, details *string) bool {
	switch method {
	case models.PaymentMethodCreditCard:
		return details != nil && len(*details) == models.CreditCardNumberLength
	case models.PaymentMethodPayPal:
		return details != nil && strings.Contains(*details, "@")
	case models.PaymentMethodCash:
		return true
	}
	return false
}

// NormalizePaymentMethod maps loosely typed input ("credit card", "paypal")
// to a payment method constant. Unknown input is returned trimmed.
func NormalizePaymentMethod(input string) string {
	trimmed := strings.TrimSpace(input)
	switch strings.ToLower(trimmed) {
	case "credit card":
		return models.PaymentMethodCreditCard
	case "paypal":
		return models.PaymentMethodPayPal
	case "cash":
		return models.PaymentMethodCash
	}
	return trimmed
}

// RequiresDetails reports whether the method needs payment details
func RequiresDetails(method string) bool {
	return method == models.PaymentMethodCreditCard || method == models.PaymentMethodPayPal
}

// ProcessPayment validates a payment. An invalid payment returns ErrPaymentInvalid.
func (ps *PaymentService) ProcessPayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResponse, error) {
	return ps.process(ctx, req, "payment")
}

// ProcessRefund validates a refund with the same rules as a payment
func (ps *PaymentService) ProcessRefund(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResponse, error) {
	return ps.process(ctx, req, "refund")
}

func (ps *PaymentService) process(ctx context.Context, req *models.PaymentRequest, kind string) (*models.PaymentResponse, error) {
	response := &models.PaymentResponse{
		ReservationID: req.ReservationID,
		Amount:        req.Amount,
		ProcessedAt:   ps.now(),
	}

	if !ValidatePaymentDetails(req.Method, req.Details) {
		response.Status = models.TransactionStatusFailed
		response.Message = fmt.Sprintf("Invalid %s details for %s", kind, req.Method)
		ps.logger.Info(kind+" rejected",
			zap.String("reservation_id", req.ReservationID),
			zap.String("method", req.Method))
		return response, fmt.Errorf("%s via %q: %w", kind, req.Method, models.ErrPaymentInvalid)
	}

	response.TransactionID = uuid.New().String()
	response.Status = models.TransactionStatusSuccess
	response.Message = fmt.Sprintf("Processed %s of $%.2f via %s", kind, req.Amount, req.Method)

	ps.logger.Info(kind+" processed",
		zap.String("reservation_id", req.ReservationID),
		zap.String("transaction_id", response.TransactionID),
		zap.String("method", req.Method),
		zap.Float64("amount", req.Amount))
	return response, nil
}
