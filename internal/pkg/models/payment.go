package models

import "time"

// PaymentMethod is a supported payment channel
type PaymentMethod string

const (
	PaymentMethodTelebirr     PaymentMethod = "TELEBIRR"
	PaymentMethodCBEMobile    PaymentMethod = "CBE_MOBILE"
	PaymentMethodCBEBirr      PaymentMethod = "CBE_BIRR"
	PaymentMethodAmole        PaymentMethod = "AMOLE"
	PaymentMethodMPesa        PaymentMethod = "MPESA"
	PaymentMethodHelloCash    PaymentMethod = "HELLOCASH"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
)

// Valid reports whether m is a supported payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodTelebirr, PaymentMethodCBEMobile, PaymentMethodCBEBirr, PaymentMethodAmole,
		PaymentMethodMPesa, PaymentMethodHelloCash, PaymentMethodCash, PaymentMethodBankTransfer,
		PaymentMethodCard:
		return true
	}
	return false
}

// PaymentStatus is the state of a charge
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// PaymentInfo is the payment attached to a reservation
type PaymentInfo struct {
	Amount             float64       `json:"amount"`
	Method             PaymentMethod `json:"method"`
	Status             PaymentStatus `json:"status"`
	TransactionID      string        `json:"transaction_id,omitempty"`
	ReceiptNumber      string        `json:"receipt_number,omitempty"`
	Refunded           bool          `json:"refunded"`
	RefundConfirmation string        `json:"refund_confirmation,omitempty"`
	RefundedAt         *time.Time    `json:"refunded_at,omitempty"`
	PaidAt             time.Time     `json:"paid_at"`
}

// PaymentOutcome is the result of a charge as seen by the reservation lifecycle
type PaymentOutcome struct {
	Succeeded     bool          `json:"succeeded"`
	TransactionID string        `json:"transaction_id"`
	Amount        float64       `json:"amount"`
	Method        PaymentMethod `json:"method"`
	FailureReason string        `json:"failure_reason,omitempty"`
}

// PayRequest asks the platform to charge for a reservation
type PayRequest struct {
	Amount float64       `json:"amount" validate:"gt=0"`
	Method PaymentMethod `json:"method" validate:"required"`
}

// ChargeRequest is sent to the payment processor
type ChargeRequest struct {
	Amount    float64       `json:"amount"`
	Method    PaymentMethod `json:"method"`
	Reference string        `json:"reference"`
}

// ChargeResponse is returned by the payment processor
type ChargeResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
}

// RefundRequest is sent to the payment processor
type RefundRequest struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
}

// RefundResponse is returned by the payment processor
type RefundResponse struct {
	Confirmation string `json:"confirmation"`
	Status       string `json:"status"`
}
