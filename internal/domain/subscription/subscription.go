package subscription

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/coachhub/coachhub/internal/domain/subscription/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

// Subscription represents the subscription aggregate root
type Subscription struct {
	id                   string
	userID               string
	planID               string
	status               vo.SubscriptionStatus
	stripeCustomerID     string
	stripeSubscriptionID string
	currentPeriodStart   *time.Time
	currentPeriodEnd     *time.Time
	cancelledAt          *time.Time
	cancelReason         string
	version              int
	createdAt            time.Time
	updatedAt            time.Time
}

// NewSubscription creates a subscription awaiting its first payment
func NewSubscription(userID, planID string) (*Subscription, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == "" {
		return nil, fmt.Errorf("plan ID is required")
	}

	now := biztime.NowUTC()
	return &Subscription{
		id:        id.New(),
		userID:    userID,
		planID:    planID,
		status:    vo.StatusPendingPayment,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructSubscription reconstructs a subscription from persistence
func ReconstructSubscription(
	subscriptionID, userID, planID string,
	status vo.SubscriptionStatus,
	stripeCustomerID, stripeSubscriptionID string,
	currentPeriodStart, currentPeriodEnd *time.Time,
	cancelledAt *time.Time,
	cancelReason string,
	version int,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}

	return &Subscription{
		id:                   subscriptionID,
		userID:               userID,
		planID:               planID,
		status:               status,
		stripeCustomerID:     stripeCustomerID,
		stripeSubscriptionID: stripeSubscriptionID,
		currentPeriodStart:   currentPeriodStart,
		currentPeriodEnd:     currentPeriodEnd,
		cancelledAt:          cancelledAt,
		cancelReason:         cancelReason,
		version:              version,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}, nil
}

// ID returns the subscription ID
func (s *Subscription) ID() string {
	return s.id
}

// UserID returns the subscriber's user ID
func (s *Subscription) UserID() string {
	return s.userID
}

// PlanID returns the plan ID
func (s *Subscription) PlanID() string {
	return s.planID
}

// Status returns the subscription status
func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

func (s *Subscription) StripeCustomerID() string {
	return s.stripeCustomerID
}

func (s *Subscription) StripeSubscriptionID() string {
	return s.stripeSubscriptionID
}

// CurrentPeriodStart returns the current period start date
func (s *Subscription) CurrentPeriodStart() *time.Time {
	return s.currentPeriodStart
}

// CurrentPeriodEnd returns the current period end date
func (s *Subscription) CurrentPeriodEnd() *time.Time {
	return s.currentPeriodEnd
}

// CancelledAt returns when the subscription was cancelled
func (s *Subscription) CancelledAt() *time.Time {
	return s.cancelledAt
}

func (s *Subscription) CancelReason() string {
	return s.cancelReason
}

// Version returns the aggregate version for optimistic locking
func (s *Subscription) Version() int {
	return s.version
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

// Activate activates the subscription for the given billing period once
// Stripe confirms payment.
func (s *Subscription) Activate(stripeCustomerID, stripeSubscriptionID string, periodStart, periodEnd time.Time) error {
	if s.status == vo.StatusActive && s.stripeSubscriptionID == stripeSubscriptionID {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusActive) {
		return ErrInvalidTransition(s.status.String(), vo.StatusActive.String())
	}
	if !periodEnd.After(periodStart) {
		return fmt.Errorf("period end must be after period start")
	}

	start, end := periodStart.UTC(), periodEnd.UTC()
	s.status = vo.StatusActive
	if stripeCustomerID != "" {
		s.stripeCustomerID = stripeCustomerID
	}
	if stripeSubscriptionID != "" {
		s.stripeSubscriptionID = stripeSubscriptionID
	}
	s.currentPeriodStart = &start
	s.currentPeriodEnd = &end
	s.touch()
	return nil
}

// MarkPastDue records a failed renewal payment
func (s *Subscription) MarkPastDue() error {
	if s.status == vo.StatusPastDue {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusPastDue) {
		return ErrInvalidTransition(s.status.String(), vo.StatusPastDue.String())
	}
	s.status = vo.StatusPastDue
	s.touch()
	return nil
}

// Cancel cancels a subscription with a reason
func (s *Subscription) Cancel(reason string) error {
	if s.status == vo.StatusCancelled {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusCancelled) {
		return ErrInvalidTransition(s.status.String(), vo.StatusCancelled.String())
	}

	now := biztime.NowUTC()
	s.status = vo.StatusCancelled
	s.cancelledAt = &now
	s.cancelReason = strings.TrimSpace(reason)
	s.touch()
	return nil
}

// MarkAsExpired marks a subscription whose checkout was abandoned or whose
// period lapsed.
func (s *Subscription) MarkAsExpired() error {
	if s.status == vo.StatusExpired {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusExpired) {
		return ErrInvalidTransition(s.status.String(), vo.StatusExpired.String())
	}
	s.status = vo.StatusExpired
	s.touch()
	return nil
}

// IsCurrent reports whether the subscription blocks a new checkout
func (s *Subscription) IsCurrent() bool {
	return s.status.IsCurrent()
}

func (s *Subscription) touch() {
	s.updatedAt = biztime.NowUTC()
	s.version++
}
