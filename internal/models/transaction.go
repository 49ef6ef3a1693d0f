package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction status values. Transitions are monotonic: pending may move to
// processing, pending/processing to completed or failed, and nothing moves
// backwards.
const (
	TransactionStatusPending    = "pending"
	TransactionStatusProcessing = "processing"
	TransactionStatusCompleted  = "completed"
	TransactionStatusFailed     = "failed"
)

// PaymentTransaction tracks one checkout attempt and its provider-reported
// outcome. TransactionID is the opaque identifier embedded in the checkout
// URL and echoed back by the provider's webhook; it is the sole correlation
// mechanism between local rows and provider events.
type PaymentTransaction struct {
	BaseModel
	TransactionID string          `gorm:"uniqueIndex" json:"transaction_id"`
	UserID        uuid.UUID       `gorm:"type:uuid;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(18,2)" json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `gorm:"index" json:"status"`
	PaymentMethod string          `json:"payment_method"`
}
