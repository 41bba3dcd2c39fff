package models

import (
	"time"

	"github.com/coachhub/coachhub/internal/shared/constants"
)

type SubscriptionPlanModel struct {
	ID                string `gorm:"primaryKey;size:26"`
	Name              string `gorm:"not null;size:100"`
	Description       string `gorm:"not null;default:''"`
	PriceCents        int64  `gorm:"not null"`
	Currency          string `gorm:"not null;size:3"`
	BillingInterval   string `gorm:"not null;size:8"`
	SessionsPerPeriod int    `gorm:"not null;default:0"`
	StripePriceID     string `gorm:"not null;size:255"`
	IsActive          bool   `gorm:"not null;default:true"`
	Version           int    `gorm:"not null;default:1"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (SubscriptionPlanModel) TableName() string {
	return constants.TableSubscriptionPlans
}

// SubscriptionModel represents the database persistence model for subscriptions.
type SubscriptionModel struct {
	ID                   string `gorm:"primaryKey;size:26"`
	UserID               string `gorm:"not null;size:26;uniqueIndex:idx_subscriptions_one_current,where:status IN ('active','past_due')"`
	PlanID               string `gorm:"not null;size:26"`
	Status               string `gorm:"not null;size:16"`
	StripeCustomerID     string `gorm:"not null;size:255;default:''"`
	StripeSubscriptionID string `gorm:"not null;size:255;default:'';index:idx_subscriptions_stripe"`
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	CancelledAt          *time.Time
	CancelReason         string `gorm:"not null;default:''"`
	Version              int    `gorm:"not null;default:1"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}
