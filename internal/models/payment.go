package models

import (
	"time"
)

// PaymentRequest represents a simulated charge or refund
type PaymentRequest struct {
	ReservationID string
	Amount        float64
	Method        string
	Details       *string
}

// PaymentResponse represents the outcome of a charge or refund
type PaymentResponse struct {
	TransactionID string    `json:"transaction_id"`
	Status        string    `json:"status"`
	Message       string    `json:"message,omitempty"`
	ReservationID string    `json:"reservation_id"`
	Amount        float64   `json:"amount"`
	ProcessedAt   time.Time `json:"processed_at"`
}

// Reservation payment status constants
const (
	PaymentStatusUnpaid = "Unpaid"
	PaymentStatusPaid   = "Paid"
)

// Transaction status constants
const (
	TransactionStatusSuccess = "success"
	TransactionStatusFailed  = "failed"
)

// PaymentMethod constants
const (
	PaymentMethodCreditCard = "Credit Card"
	PaymentMethodPayPal     = "PayPal"
	PaymentMethodCash       = "Cash"
)

// CreditCardNumberLength is the exact length required for card details
const CreditCardNumberLength = 16

// IsValidPaymentMethod checks if the payment method is supported
func IsValidPaymentMethod(method string) bool {
	validMethods := []string{
		PaymentMethodCreditCard,
		PaymentMethodPayPal,
		PaymentMethodCash,
	}

	for _, m := range validMethods {
		if method == m {
			return true
		}
	}
	return false
}

// Succeeded reports whether the transaction went through
func (p *PaymentResponse) Succeeded() bool {
	return p.Status == TransactionStatusSuccess
}
