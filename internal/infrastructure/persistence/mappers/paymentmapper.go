package mappers

import (
	"github.com/coachhub/coachhub/internal/domain/payment"
	vo "github.com/coachhub/coachhub/internal/domain/payment/valueobjects"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
)

type PaymentMapper interface {
	ToEntity(model *models.PaymentModel) (*payment.Payment, error)
	ToModel(entity *payment.Payment) *models.PaymentModel
	DisputeToEntity(model *models.DisputeModel) (*payment.Dispute, error)
	DisputeToModel(entity *payment.Dispute) (*models.DisputeModel, error)
}

type PaymentMapperImpl struct{}

func NewPaymentMapper() PaymentMapper {
	return &PaymentMapperImpl{}
}

func (m *PaymentMapperImpl) ToEntity(model *models.PaymentModel) (*payment.Payment, error) {
	if model == nil {
		return nil, nil
	}
	return payment.ReconstructPayment(
		model.ID,
		model.UserID,
		model.SubscriptionID,
		model.PlanID,
		vo.NewMoney(model.AmountCents, model.Currency),
		vo.PaymentStatus(model.Status),
		model.StripeCheckoutSessionID,
		model.StripePaymentIntentID,
		model.CheckoutURL,
		model.FailureReason,
		utcPtr(model.PaidAt),
		model.ExpiredAt.UTC(),
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *PaymentMapperImpl) ToModel(entity *payment.Payment) *models.PaymentModel {
	if entity == nil {
		return nil
	}
	return &models.PaymentModel{
		ID:                      entity.ID(),
		UserID:                  entity.UserID(),
		SubscriptionID:          entity.SubscriptionID(),
		PlanID:                  entity.PlanID(),
		AmountCents:             entity.Amount().AmountInCents(),
		Currency:                entity.Amount().Currency(),
		Status:                  entity.Status().String(),
		StripeCheckoutSessionID: entity.StripeCheckoutSessionID(),
		StripePaymentIntentID:   entity.StripePaymentIntentID(),
		CheckoutURL:             entity.CheckoutURL(),
		FailureReason:           entity.FailureReason(),
		PaidAt:                  utcPtr(entity.PaidAt()),
		ExpiredAt:               entity.ExpiredAt().UTC(),
		Version:                 entity.Version(),
		CreatedAt:               entity.CreatedAt(),
		UpdatedAt:               entity.UpdatedAt(),
	}
}

func (m *PaymentMapperImpl) DisputeToEntity(model *models.DisputeModel) (*payment.Dispute, error) {
	if model == nil {
		return nil, nil
	}
	var files []string
	if err := unmarshalJSON(model.EvidenceFiles, &files); err != nil {
		return nil, err
	}
	return payment.ReconstructDispute(
		model.ID,
		payment.DisputeSnapshot{
			StripeDisputeID: model.StripeDisputeID,
			StripeChargeID:  model.StripeChargeID,
			PaymentIntentID: model.PaymentIntentID,
			Amount:          vo.NewMoney(model.AmountCents, model.Currency),
			Reason:          model.Reason,
			Status:          vo.DisputeStatus(model.Status),
			EvidenceDueBy:   utcPtr(model.EvidenceDueBy),
		},
		model.PaymentID,
		model.EvidenceText,
		files,
		utcPtr(model.EvidenceSubmittedAt),
		utcPtr(model.ClosedAt),
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *PaymentMapperImpl) DisputeToModel(entity *payment.Dispute) (*models.DisputeModel, error) {
	if entity == nil {
		return nil, nil
	}
	files, err := marshalJSON(entity.EvidenceFiles())
	if err != nil {
		return nil, err
	}
	return &models.DisputeModel{
		ID:                  entity.ID(),
		StripeDisputeID:     entity.StripeDisputeID(),
		StripeChargeID:      entity.StripeChargeID(),
		PaymentIntentID:     entity.PaymentIntentID(),
		PaymentID:           entity.PaymentID(),
		AmountCents:         entity.Amount().AmountInCents(),
		Currency:            entity.Amount().Currency(),
		Reason:              entity.Reason(),
		Status:              entity.Status().String(),
		EvidenceDueBy:       utcPtr(entity.EvidenceDueBy()),
		EvidenceText:        entity.EvidenceText(),
		EvidenceFiles:       files,
		EvidenceSubmittedAt: utcPtr(entity.EvidenceSubmittedAt()),
		ClosedAt:            utcPtr(entity.ClosedAt()),
		Version:             entity.Version(),
		CreatedAt:           entity.CreatedAt(),
		UpdatedAt:           entity.UpdatedAt(),
	}, nil
}
