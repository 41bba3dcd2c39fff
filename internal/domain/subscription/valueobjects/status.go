package valueobjects

type SubscriptionStatus string

const (
	StatusPendingPayment SubscriptionStatus = "pending_payment"
	StatusActive         SubscriptionStatus = "active"
	StatusPastDue        SubscriptionStatus = "past_due"
	StatusCancelled      SubscriptionStatus = "cancelled"
	StatusExpired        SubscriptionStatus = "expired"
)

var subscriptionTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	StatusPendingPayment: {StatusActive, StatusExpired, StatusCancelled},
	StatusActive:         {StatusPastDue, StatusCancelled, StatusExpired},
	StatusPastDue:        {StatusActive, StatusCancelled, StatusExpired},
	StatusExpired:        {StatusActive},
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

// CanBookSessions reports whether the subscriber may book sessions.
func (s SubscriptionStatus) CanBookSessions() bool {
	return s == StatusActive
}

// IsCurrent reports whether the subscription blocks a new checkout.
func (s SubscriptionStatus) IsCurrent() bool {
	return s == StatusActive || s == StatusPastDue
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	for _, allowed := range subscriptionTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusPendingPayment: true,
	StatusActive:         true,
	StatusPastDue:        true,
	StatusCancelled:      true,
	StatusExpired:        true,
}
