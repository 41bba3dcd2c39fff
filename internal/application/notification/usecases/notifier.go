package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/coachhub/coachhub/internal/application/notification/dto"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/notification"
	vo "github.com/coachhub/coachhub/internal/domain/notification/valueobjects"
	"github.com/coachhub/coachhub/internal/domain/payment"
	"github.com/coachhub/coachhub/internal/domain/shared/events"
	"github.com/coachhub/coachhub/internal/domain/ticket"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

const (
	deliveryTimeout = 30 * time.Second
	timeLayout      = "Mon, 02 Jan 2006 15:04 MST"
)

// Mailer sends a markdown email.
type Mailer interface {
	SendMail(ctx context.Context, to, toName, subject, body string) error
}

// Pusher delivers a realtime frame to a user's open connections.
type Pusher interface {
	Push(ctx context.Context, userID string, frame []byte) error
}

// NotifiedEventTypes are the domain events that produce notifications.
var NotifiedEventTypes = []string{
	booking.EventTypeBookingCreated,
	booking.EventTypeBookingCancelled,
	booking.EventTypeBookingRescheduled,
	booking.EventTypeProposalCreated,
	booking.EventTypeProposalAccepted,
	booking.EventTypeProposalDeclined,
	payment.EventTypePaymentSucceeded,
	payment.EventTypeDisputeOpened,
	ticket.EventTypeTicketAssigned,
	ticket.EventTypeTicketStatusChanged,
}

// message is what one event tells its recipients.
type message struct {
	recipients []string
	admins     bool
	nType      vo.NotificationType
	title      string
	content    string
	relatedID  string
}

// Notifier turns domain events into inbox entries, emails and realtime
// frames. Email and push failures are logged; only the inbox write can fail
// the handler.
type Notifier struct {
	repo     notification.NotificationRepository
	userRepo domainUser.Repository
	mailer   Mailer
	pusher   Pusher
	logger   logger.Interface
}

func NewNotifier(
	repo notification.NotificationRepository,
	userRepo domainUser.Repository,
	mailer Mailer,
	pusher Pusher,
	logger logger.Interface,
) *Notifier {
	return &Notifier{
		repo:     repo,
		userRepo: userRepo,
		mailer:   mailer,
		pusher:   pusher,
		logger:   logger,
	}
}

// Register subscribes the notifier to every notified event type.
func (n *Notifier) Register(sub events.EventSubscriber) error {
	for _, et := range NotifiedEventTypes {
		if err := sub.Subscribe(et, events.NewSimpleEventHandler(et, n.Handle)); err != nil {
			return fmt.Errorf("failed to subscribe notifier to %s: %w", et, err)
		}
	}
	return nil
}

func (n *Notifier) Handle(e events.DomainEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()
	return n.Deliver(ctx, e)
}

// Deliver notifies the recipients of e.
func (n *Notifier) Deliver(ctx context.Context, e events.DomainEvent) error {
	msg, ok := compose(e)
	if !ok {
		return nil
	}

	users, err := n.resolve(ctx, msg)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		n.logger.Debugw("event has no recipients", "event_type", e.GetEventType(), "aggregate_id", e.GetAggregateID())
		return nil
	}

	var related *string
	if msg.relatedID != "" {
		related = &msg.relatedID
	}
	items := make([]*notification.Notification, 0, len(users))
	for _, u := range users {
		item, err := notification.NewNotification(u.ID(), msg.nType, e.GetEventType(), msg.title, msg.content, related)
		if err != nil {
			return fmt.Errorf("failed to build notification: %w", err)
		}
		items = append(items, item)
	}
	if err := n.repo.BulkCreate(ctx, items); err != nil {
		n.logger.Errorw("failed to store notifications", "event_type", e.GetEventType(), "error", err)
		return fmt.Errorf("failed to store notifications: %w", err)
	}

	for i, u := range users {
		n.email(ctx, u, msg)
		n.push(ctx, items[i])
	}
	n.logger.Infow("notifications delivered",
		"event_type", e.GetEventType(),
		"aggregate_id", e.GetAggregateID(),
		"recipients", len(users),
	)
	return nil
}

func (n *Notifier) resolve(ctx context.Context, msg message) ([]*domainUser.User, error) {
	var users []*domainUser.User
	if msg.admins {
		role := authorization.RoleAdmin
		admins, _, err := n.userRepo.List(ctx, domainUser.ListFilter{Page: 1, PageSize: 100, Role: &role})
		if err != nil {
			return nil, fmt.Errorf("failed to list admins: %w", err)
		}
		users = admins
	} else {
		ids := dedupe(msg.recipients)
		if len(ids) == 0 {
			return nil, nil
		}
		found, err := n.userRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load recipients: %w", err)
		}
		users = found
	}

	out := users[:0]
	for _, u := range users {
		if u == nil || u.IsDeleted() {
			continue
		}
		if msg.admins && !u.IsAdmin() {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (n *Notifier) email(ctx context.Context, u *domainUser.User, msg message) {
	if n.mailer == nil || u.Email() == nil {
		return
	}
	if err := n.mailer.SendMail(ctx, u.Email().String(), u.DisplayName(), msg.title, msg.content); err != nil {
		n.logger.Warnw("failed to send notification email", "user_id", u.ID(), "error", err)
	}
}

func (n *Notifier) push(ctx context.Context, item *notification.Notification) {
	if n.pusher == nil {
		return
	}
	frame, err := json.Marshal(dto.RealtimeFrame{Type: dto.FrameTypeNotification, Notification: dto.ToNotificationDTO(item)})
	if err != nil {
		n.logger.Warnw("failed to encode realtime frame", "notification_id", item.ID(), "error", err)
		return
	}
	if err := n.pusher.Push(ctx, item.UserID(), frame); err != nil {
		n.logger.Warnw("failed to push notification", "user_id", item.UserID(), "error", err)
	}
}

func compose(e events.DomainEvent) (message, bool) {
	switch ev := e.(type) {
	case booking.BookingCreatedEvent:
		return message{
			recipients: ev.UserIDs(),
			nType:      vo.NotificationTypeBooking,
			title:      "New session booked: " + ev.Title,
			content:    fmt.Sprintf("**%s** is scheduled for %s.", ev.Title, ev.StartTime.UTC().Format(timeLayout)),
			relatedID:  ev.GetAggregateID(),
		}, true

	case booking.BookingCancelledEvent:
		content := fmt.Sprintf("**%s** on %s was cancelled.", ev.Title, ev.StartTime.UTC().Format(timeLayout))
		if ev.Reason != "" {
			content += "\n\nReason: " + ev.Reason
		}
		return message{
			recipients: ev.UserIDs(),
			nType:      vo.NotificationTypeBooking,
			title:      "Session cancelled: " + ev.Title,
			content:    content,
			relatedID:  ev.GetAggregateID(),
		}, true

	case booking.BookingRescheduledEvent:
		return message{
			recipients: ev.UserIDs(),
			nType:      vo.NotificationTypeBooking,
			title:      "Session rescheduled: " + ev.Title,
			content:    fmt.Sprintf("**%s** moved to %s.", ev.Title, ev.StartTime.UTC().Format(timeLayout)),
			relatedID:  ev.GetAggregateID(),
		}, true

	case booking.ProposalEvent:
		return composeProposal(ev)

	case payment.PaymentSucceededEvent:
		return message{
			recipients: []string{ev.UserID},
			nType:      vo.NotificationTypeBilling,
			title:      "Payment received",
			content:    fmt.Sprintf("We received your payment of %s. Your subscription is active.", formatMoney(ev.AmountCents, ev.Currency)),
			relatedID:  ev.SubscriptionID,
		}, true

	case payment.DisputeOpenedEvent:
		return message{
			admins:    true,
			nType:     vo.NotificationTypeBilling,
			title:     "Payment disputed",
			content:   fmt.Sprintf("Dispute `%s` for %s was opened (reason: %s).", ev.StripeDisputeID, formatMoney(ev.AmountCents, ev.Currency), ev.Reason),
			relatedID: ev.GetAggregateID(),
		}, true

	case ticket.TicketAssignedEvent:
		return message{
			recipients: []string{ev.AssigneeID},
			nType:      vo.NotificationTypeSupport,
			title:      "Ticket assigned: " + ev.Number,
			content:    fmt.Sprintf("Ticket **%s** was assigned to you.", ev.Number),
			relatedID:  ev.GetAggregateID(),
		}, true

	case ticket.TicketStatusChangedEvent:
		if ev.ChangedBy == ev.CreatorID {
			return message{}, false
		}
		return message{
			recipients: []string{ev.CreatorID},
			nType:      vo.NotificationTypeSupport,
			title:      "Ticket updated: " + ev.Number,
			content:    fmt.Sprintf("Ticket **%s** moved from %s to %s.", ev.Number, ev.OldStatus, ev.NewStatus),
			relatedID:  ev.GetAggregateID(),
		}, true
	}
	return message{}, false
}

// composeProposal notifies the counterparty of a new proposal and the
// proposer of its outcome.
func composeProposal(ev booking.ProposalEvent) (message, bool) {
	msg := message{nType: vo.NotificationTypeProposal, relatedID: ev.BookingID}
	action := "reschedule"
	if ev.Kind == booking.ProposalKindCancel {
		action = "cancellation"
	}

	switch ev.GetEventType() {
	case booking.EventTypeProposalCreated:
		counterparty := ev.CoachID
		if ev.ProposedBy == ev.CoachID {
			counterparty = ev.MenteeID
		}
		msg.recipients = []string{counterparty}
		msg.title = "New " + action + " request"
		var b strings.Builder
		fmt.Fprintf(&b, "A %s was proposed for your session.", action)
		if ev.ProposedStart != nil {
			fmt.Fprintf(&b, " Proposed time: %s.", ev.ProposedStart.UTC().Format(timeLayout))
		}
		if ev.Reason != "" {
			fmt.Fprintf(&b, "\n\nReason: %s", ev.Reason)
		}
		msg.content = b.String()
	case booking.EventTypeProposalAccepted:
		msg.recipients = []string{ev.ProposedBy}
		msg.title = "Your " + action + " request was accepted"
		msg.content = fmt.Sprintf("Your %s request was accepted.", action)
	case booking.EventTypeProposalDeclined:
		msg.recipients = []string{ev.ProposedBy}
		msg.title = "Your " + action + " request was declined"
		msg.content = fmt.Sprintf("Your %s request was declined. The session stays as booked.", action)
	default:
		return message{}, false
	}
	return msg, true
}

func formatMoney(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, strings.ToUpper(currency))
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
