package valueobjects

import "fmt"

type NotificationType string

const (
	NotificationTypeBooking  NotificationType = "booking"
	NotificationTypeProposal NotificationType = "proposal"
	NotificationTypeSession  NotificationType = "session"
	NotificationTypeBilling  NotificationType = "billing"
	NotificationTypeSupport  NotificationType = "support"
	NotificationTypeSystem   NotificationType = "system"
)

var validNotificationTypes = map[NotificationType]bool{
	NotificationTypeBooking:  true,
	NotificationTypeProposal: true,
	NotificationTypeSession:  true,
	NotificationTypeBilling:  true,
	NotificationTypeSupport:  true,
	NotificationTypeSystem:   true,
}

func (t NotificationType) String() string {
	return string(t)
}

func (t NotificationType) IsValid() bool {
	return validNotificationTypes[t]
}

func NewNotificationType(s string) (NotificationType, error) {
	t := NotificationType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid notification type: %s", s)
	}
	return t, nil
}
