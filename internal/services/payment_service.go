package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/lemonpay/internal/models"
)

// Webhook event names sent by Lemon Squeezy.
const (
	EventOrderCreated  = "order_created"
	EventOrderPaid     = "order_paid"
	EventOrderRefunded = "order_refunded"
)

const (
	// DefaultCurrency is the fixed currency for all transactions.
	DefaultCurrency = "USD"

	// PaymentMethodLemonSqueezy tags transactions created through the
	// Lemon Squeezy checkout flow.
	PaymentMethodLemonSqueezy = "lemonsqueezy"

	transactionIDPrefix = "ls_"
	customDataParam     = "checkout[custom][transaction_id]"
)

// Sentinel errors surfaced by the payment service; handlers translate them
// to response codes.
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInvalidProductData  = errors.New("invalid product data")
	ErrUpstreamUnavailable = errors.New("payment provider unavailable")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// EventOutcome describes what a webhook event did to local state.
type EventOutcome string

const (
	// OutcomeApplied means the event advanced a transaction.
	OutcomeApplied EventOutcome = "applied"
	// OutcomeAcknowledged means the event was accepted but changed nothing,
	// e.g. a redelivery or an unrecognized event name.
	OutcomeAcknowledged EventOutcome = "acknowledged"
)

// PaymentService owns the checkout flow and the transaction lifecycle.
type PaymentService struct {
	db      *gorm.DB
	catalog ProductCatalog
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(db *gorm.DB, catalog ProductCatalog) *PaymentService {
	return &PaymentService{db: db, catalog: catalog}
}

// Checkout bundles the persisted transaction with the provider checkout URL.
type Checkout struct {
	Transaction models.PaymentTransaction
	URL         string
}

// CreateCheckout looks up the product in the provider catalog, persists a
// pending transaction and returns the checkout URL carrying the transaction
// id as custom data.
func (s *PaymentService) CreateCheckout(ctx context.Context, userID uuid.UUID, productID string) (*Checkout, error) {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	var product *Product
	for i := range products {
		if products[i].ID == productID {
			product = &products[i]
			break
		}
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	amount, err := ParsePrice(product.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProductData, err)
	}

	transactionID := NewTransactionID()
	checkoutURL, err := buildCheckoutURL(product.BuyNowURL, transactionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProductData, err)
	}

	txn := models.PaymentTransaction{
		TransactionID: transactionID,
		UserID:        userID,
		Amount:        amount,
		Currency:      DefaultCurrency,
		Status:        models.TransactionStatusPending,
		PaymentMethod: PaymentMethodLemonSqueezy,
	}

	if err := s.db.WithContext(ctx).Create(&txn).Error; err != nil {
		return nil, err
	}

	return &Checkout{Transaction: txn, URL: checkoutURL}, nil
}

// HandleEvent applies a signature-verified webhook event to the matching
// transaction. The status update and the balance credit run in a single
// database transaction; the status change is a guarded compare-and-set, so a
// redelivered order_paid touches zero rows and credits nothing.
func (s *PaymentService) HandleEvent(ctx context.Context, eventName, transactionID string) (EventOutcome, error) {
	outcome := OutcomeAcknowledged

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn models.PaymentTransaction
		if err := tx.Where("transaction_id = ?", transactionID).First(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		switch eventName {
		case EventOrderCreated:
			res := tx.Model(&models.PaymentTransaction{}).
				Where("transaction_id = ? AND status = ?", transactionID, models.TransactionStatusPending).
				Update("status", models.TransactionStatusProcessing)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				outcome = OutcomeApplied
			}
		case EventOrderPaid:
			res := tx.Model(&models.PaymentTransaction{}).
				Where("transaction_id = ? AND status IN ?", transactionID,
					[]string{models.TransactionStatusPending, models.TransactionStatusProcessing}).
				Update("status", models.TransactionStatusCompleted)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return nil
			}
			if err := creditAccount(tx, txn.UserID, txn.Amount); err != nil {
				return err
			}
			outcome = OutcomeApplied
		case EventOrderRefunded:
			res := tx.Model(&models.PaymentTransaction{}).
				Where("transaction_id = ? AND status IN ?", transactionID,
					[]string{models.TransactionStatusPending, models.TransactionStatusProcessing}).
				Update("status", models.TransactionStatusFailed)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				outcome = OutcomeApplied
			} else {
				log.Printf("refund event for settled transaction %s acknowledged without state change", transactionID)
			}
		default:
			// Unrecognized events are acknowledged so the provider stops
			// redelivering them.
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return outcome, nil
}

// EnsureAccount returns the user's account, creating it with a zero balance
// on first access.
func (s *PaymentService) EnsureAccount(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	return ensureAccount(s.db.WithContext(ctx), userID)
}

// History returns the user's transactions, newest first.
func (s *PaymentService) History(ctx context.Context, userID uuid.UUID) ([]models.PaymentTransaction, error) {
	var txns []models.PaymentTransaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func ensureAccount(tx *gorm.DB, userID uuid.UUID) (*models.Account, error) {
	var account models.Account
	err := tx.Where(&models.Account{UserID: userID}).
		Attrs(models.Account{Balance: decimal.Zero, LastUpdated: time.Now()}).
		FirstOrCreate(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func creditAccount(tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	account, err := ensureAccount(tx, userID)
	if err != nil {
		return err
	}

	return tx.Model(&models.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"balance":      gorm.Expr("balance + ?", amount),
			"last_updated": time.Now(),
		}).Error
}

// ParsePrice converts a human-formatted price string such as "$19.99" into a
// decimal amount by stripping every non-digit, non-decimal-point character.
func ParsePrice(price string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, price)

	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no numeric value in price %q", price)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", price, err)
	}

	return amount, nil
}

// NewTransactionID generates an opaque transaction identifier with a fixed
// prefix and 8 random bytes hex-encoded.
func NewTransactionID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return transactionIDPrefix + hex.EncodeToString(buf)
}

func buildCheckoutURL(buyNowURL, transactionID string) (string, error) {
	parsed, err := url.Parse(buyNowURL)
	if err != nil {
		return "", fmt.Errorf("parse buy-now URL %q: %w", buyNowURL, err)
	}

	query := parsed.Query()
	query.Set(customDataParam, transactionID)
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
