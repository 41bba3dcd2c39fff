// Package models holds the GORM persistence shapes. The schema itself is
// owned by the goose migrations; All lists the models for test fixtures.
package models

// All returns one zero value of every model, in dependency order.
func All() []any {
	return []any{
		&UserModel{},
		&CoachProfileModel{},
		&IntegrationModel{},
		&ScheduleModel{},
		&BookingModel{},
		&BookingProposalModel{},
		&SessionModel{},
		&GoalModel{},
		&TicketModel{},
		&TicketCommentModel{},
		&SubscriptionPlanModel{},
		&SubscriptionModel{},
		&PaymentModel{},
		&DisputeModel{},
		&WebhookEventModel{},
		&NotificationModel{},
	}
}
