package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/coachhub/coachhub/internal/shared/constants"
)

// PaymentModel represents the database persistence model for Stripe checkouts.
type PaymentModel struct {
	ID                      string `gorm:"primaryKey;size:26"`
	UserID                  string `gorm:"not null;size:26;index:idx_payments_user,priority:1"`
	SubscriptionID          string `gorm:"not null;size:26"`
	PlanID                  string `gorm:"not null;size:26;default:''"`
	AmountCents             int64  `gorm:"not null"`
	Currency                string `gorm:"not null;size:3"`
	Status                  string `gorm:"not null;size:16"`
	StripeCheckoutSessionID string `gorm:"not null;size:255;default:'';index:idx_payments_checkout"`
	StripePaymentIntentID   string `gorm:"not null;size:255;default:'';index:idx_payments_intent"`
	CheckoutURL             string `gorm:"column:checkout_url;not null;default:''"`
	FailureReason           string `gorm:"not null;default:''"`
	PaidAt                  *time.Time
	ExpiredAt               time.Time `gorm:"not null"`
	Version                 int       `gorm:"not null;default:1"`
	CreatedAt               time.Time `gorm:"index:idx_payments_user,priority:2"`
	UpdatedAt               time.Time
}

func (PaymentModel) TableName() string {
	return constants.TablePayments
}

type DisputeModel struct {
	ID                  string  `gorm:"primaryKey;size:26"`
	StripeDisputeID     string  `gorm:"uniqueIndex:idx_disputes_stripe;not null;size:255"`
	StripeChargeID      string  `gorm:"not null;size:255;default:''"`
	PaymentIntentID     string  `gorm:"not null;size:255;default:''"`
	PaymentID           *string `gorm:"size:26"`
	AmountCents         int64   `gorm:"not null;default:0"`
	Currency            string  `gorm:"not null;size:3;default:USD"`
	Reason              string  `gorm:"not null;size:64;default:''"`
	Status              string  `gorm:"not null;size:32;index:idx_disputes_status"`
	EvidenceDueBy       *time.Time
	EvidenceText        string         `gorm:"not null;default:''"`
	EvidenceFiles       datatypes.JSON `gorm:"not null"`
	EvidenceSubmittedAt *time.Time
	ClosedAt            *time.Time
	Version             int `gorm:"not null;default:1"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (DisputeModel) TableName() string {
	return constants.TableDisputes
}
