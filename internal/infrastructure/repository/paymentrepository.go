package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/domain/payment"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/mappers"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
	"github.com/coachhub/coachhub/internal/shared/db"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PaymentMapper
	logger logger.Interface
}

func NewPaymentRepository(db *gorm.DB, logger logger.Interface) payment.PaymentRepository {
	return &PaymentRepositoryImpl{
		db:     db,
		mapper: mappers.NewPaymentMapper(),
		logger: logger,
	}
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, p *payment.Payment) error {
	model := r.mapper.ToModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create payment", "user_id", model.UserID, "error", err)
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepositoryImpl) Update(ctx context.Context, p *payment.Payment) error {
	model := r.mapper.ToModel(p)
	rows, err := versionedUpdate(db.GetTxFromContext(ctx, r.db), &models.PaymentModel{}, model.ID, model.Version, map[string]any{
		"status":                     model.Status,
		"stripe_checkout_session_id": model.StripeCheckoutSessionID,
		"stripe_payment_intent_id":   model.StripePaymentIntentID,
		"checkout_url":               model.CheckoutURL,
		"failure_reason":             model.FailureReason,
		"paid_at":                    model.PaidAt,
		"expired_at":                 model.ExpiredAt,
		"updated_at":                 model.UpdatedAt,
	})
	if err != nil {
		r.logger.Errorw("failed to update payment", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if rows == 0 {
		return conflictError("payment", model.ID)
	}
	return nil
}

func (r *PaymentRepositoryImpl) GetByID(ctx context.Context, id string) (*payment.Payment, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("id = ?", id))
}

func (r *PaymentRepositoryImpl) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*payment.Payment, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("stripe_checkout_session_id = ?", sessionID))
}

func (r *PaymentRepositoryImpl) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*payment.Payment, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("stripe_payment_intent_id = ?", paymentIntentID))
}

func (r *PaymentRepositoryImpl) getOne(query *gorm.DB) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := query.First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get payment", "error", err)
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PaymentRepositoryImpl) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*payment.Payment, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.PaymentModel{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	var list []*models.PaymentModel
	if err := query.Order("created_at DESC").Scopes(db.Paginate(page, pageSize)).Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list payments", "user_id", userID, "error", err)
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}

	out := make([]*payment.Payment, 0, len(list))
	for _, m := range list {
		p, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, nil
}

type DisputeRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PaymentMapper
	logger logger.Interface
}

func NewDisputeRepository(db *gorm.DB, logger logger.Interface) payment.DisputeRepository {
	return &DisputeRepositoryImpl{
		db:     db,
		mapper: mappers.NewPaymentMapper(),
		logger: logger,
	}
}

func (r *DisputeRepositoryImpl) Create(ctx context.Context, d *payment.Dispute) error {
	model, err := r.mapper.DisputeToModel(d)
	if err != nil {
		return fmt.Errorf("failed to map dispute: %w", err)
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create dispute", "stripe_dispute_id", model.StripeDisputeID, "error", err)
		return fmt.Errorf("failed to create dispute: %w", err)
	}
	r.logger.Infow("dispute recorded", "id", model.ID, "stripe_dispute_id", model.StripeDisputeID, "status", model.Status)
	return nil
}

func (r *DisputeRepositoryImpl) Update(ctx context.Context, d *payment.Dispute) error {
	model, err := r.mapper.DisputeToModel(d)
	if err != nil {
		return fmt.Errorf("failed to map dispute: %w", err)
	}
	rows, err := versionedUpdate(db.GetTxFromContext(ctx, r.db), &models.DisputeModel{}, model.ID, model.Version, map[string]any{
		"payment_id":            model.PaymentID,
		"amount_cents":          model.AmountCents,
		"currency":              model.Currency,
		"reason":                model.Reason,
		"status":                model.Status,
		"evidence_due_by":       model.EvidenceDueBy,
		"evidence_text":         model.EvidenceText,
		"evidence_files":        model.EvidenceFiles,
		"evidence_submitted_at": model.EvidenceSubmittedAt,
		"closed_at":             model.ClosedAt,
		"updated_at":            model.UpdatedAt,
	})
	if err != nil {
		r.logger.Errorw("failed to update dispute", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update dispute: %w", err)
	}
	if rows == 0 {
		return conflictError("dispute", model.ID)
	}
	return nil
}

func (r *DisputeRepositoryImpl) GetByID(ctx context.Context, id string) (*payment.Dispute, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("id = ?", id))
}

func (r *DisputeRepositoryImpl) GetByStripeID(ctx context.Context, stripeDisputeID string) (*payment.Dispute, error) {
	return r.getOne(db.GetTxFromContext(ctx, r.db).Where("stripe_dispute_id = ?", stripeDisputeID))
}

func (r *DisputeRepositoryImpl) getOne(query *gorm.DB) (*payment.Dispute, error) {
	var model models.DisputeModel
	if err := query.First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dispute: %w", err)
	}
	return r.mapper.DisputeToEntity(&model)
}

func (r *DisputeRepositoryImpl) List(ctx context.Context, filter payment.DisputeFilter) ([]*payment.Dispute, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.DisputeModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count disputes: %w", err)
	}

	var list []*models.DisputeModel
	if err := query.Order("created_at DESC").Scopes(db.Paginate(filter.Page, filter.PageSize)).Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list disputes", "error", err)
		return nil, 0, fmt.Errorf("failed to list disputes: %w", err)
	}

	out := make([]*payment.Dispute, 0, len(list))
	for _, m := range list {
		d, err := r.mapper.DisputeToEntity(m)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, nil
}
