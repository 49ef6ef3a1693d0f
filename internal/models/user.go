package models

// User represents an authenticated customer.
type User struct {
	BaseModel
	Email        string               `gorm:"uniqueIndex" json:"email"`
	FirstName    string               `json:"first_name"`
	LastName     string               `json:"last_name"`
	PasswordHash string               `json:"-"`
	GoogleID     string               `gorm:"index" json:"-"`
	Account      *Account             `json:"account,omitempty"`
	Transactions []PaymentTransaction `json:"transactions,omitempty"`
}
