package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account holds the running balance credited by completed transactions.
// One per user, created lazily on first access.
type Account struct {
	BaseModel
	UserID      uuid.UUID       `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Balance     decimal.Decimal `gorm:"type:numeric(18,2)" json:"account_value"`
	LastUpdated time.Time       `json:"last_updated"`
}
