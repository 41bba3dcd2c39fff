package usecases

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"github.com/coachhub/coachhub/internal/application/payment/dto"
	"github.com/coachhub/coachhub/internal/application/payment/paymentgateway"
	"github.com/coachhub/coachhub/internal/domain/payment"
	vo "github.com/coachhub/coachhub/internal/domain/payment/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

// MaxEvidenceFileSize is the largest evidence upload accepted.
const MaxEvidenceFileSize = 5 << 20

// allowedEvidenceMIMETypes are detected from file content, not the upload's
// declared content type.
var allowedEvidenceMIMETypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
}

// DisputeUseCases lets admins work Stripe disputes. Stripe stays the source
// of truth: every change goes through the gateway and the returned snapshot
// is mirrored locally.
type DisputeUseCases struct {
	disputeRepo payment.DisputeRepository
	gateway     paymentgateway.Gateway
	logger      logger.Interface
}

func NewDisputeUseCases(disputeRepo payment.DisputeRepository, gateway paymentgateway.Gateway, logger logger.Interface) *DisputeUseCases {
	return &DisputeUseCases{disputeRepo: disputeRepo, gateway: gateway, logger: logger}
}

func (uc *DisputeUseCases) List(ctx context.Context, req dto.ListDisputesRequest) (*dto.ListDisputesResponse, error) {
	p := utils.ValidatePagination(req.Page, req.PageSize)
	filter := payment.DisputeFilter{Page: p.Page, PageSize: p.PageSize}
	if req.Status != "" {
		st := vo.DisputeStatus(req.Status)
		if !st.IsValid() {
			return nil, errors.NewValidationError("invalid dispute status", req.Status)
		}
		filter.Status = &st
	}

	disputes, total, err := uc.disputeRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list disputes", "error", err)
		return nil, fmt.Errorf("failed to list disputes: %w", err)
	}
	out := make([]*dto.DisputeDTO, 0, len(disputes))
	for _, d := range disputes {
		out = append(out, dto.ToDisputeDTO(d))
	}
	return &dto.ListDisputesResponse{Disputes: out, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

// SubmitEvidence sends text evidence to Stripe and submits it for review.
func (uc *DisputeUseCases) SubmitEvidence(ctx context.Context, disputeID, text string) (*dto.DisputeDTO, error) {
	uc.logger.Infow("executing submit dispute evidence use case", "dispute_id", disputeID)

	d, err := uc.load(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !d.Status().AcceptsEvidence() {
		return nil, errors.NewConflictError("dispute does not accept evidence", d.Status().String())
	}
	if err := d.RecordEvidence(text); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	snap, err := uc.gateway.SubmitDisputeEvidence(ctx, d.StripeDisputeID(), paymentgateway.DisputeEvidence{Text: d.EvidenceText()})
	if err != nil {
		return nil, err
	}
	return uc.mirror(ctx, d, snap)
}

// UploadEvidenceFile checks the file's sniffed type and size, uploads it to
// Stripe Files and attaches it to the dispute as uncategorized evidence.
func (uc *DisputeUseCases) UploadEvidenceFile(ctx context.Context, disputeID, filename string, r io.Reader) (*dto.DisputeDTO, error) {
	uc.logger.Infow("executing upload dispute evidence use case", "dispute_id", disputeID, "filename", filename)

	d, err := uc.load(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !d.Status().AcceptsEvidence() {
		return nil, errors.NewConflictError("dispute does not accept evidence", d.Status().String())
	}

	content, err := io.ReadAll(io.LimitReader(r, MaxEvidenceFileSize+1))
	if err != nil {
		return nil, errors.NewBadRequestError("failed to read upload", err.Error())
	}
	if len(content) == 0 {
		return nil, errors.NewValidationError("evidence file is empty")
	}
	if len(content) > MaxEvidenceFileSize {
		return nil, errors.NewValidationError("evidence file exceeds 5 MB")
	}
	detected := mimetype.Detect(content).String()
	if !allowedEvidenceMIMETypes[detected] {
		uc.logger.Warnw("rejected evidence upload", "dispute_id", disputeID, "detected_mime", detected)
		return nil, errors.NewValidationError("only PDF, PNG and JPEG files are accepted", detected)
	}

	fileID, err := uc.gateway.UploadEvidenceFile(ctx, filename, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	snap, err := uc.gateway.SubmitDisputeEvidence(ctx, d.StripeDisputeID(), paymentgateway.DisputeEvidence{FileID: fileID})
	if err != nil {
		return nil, err
	}
	if err := d.AttachEvidenceFile(fileID); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}
	uc.logger.Infow("dispute evidence file attached", "dispute_id", d.ID(), "file_id", fileID, "mime", detected)
	return uc.mirror(ctx, d, snap)
}

// Accept concedes the dispute.
func (uc *DisputeUseCases) Accept(ctx context.Context, disputeID string) (*dto.DisputeDTO, error) {
	uc.logger.Infow("executing accept dispute use case", "dispute_id", disputeID)

	d, err := uc.load(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !d.CanAccept() {
		return nil, errors.NewConflictError("dispute is already closed", d.Status().String())
	}
	snap, err := uc.gateway.CloseDispute(ctx, d.StripeDisputeID())
	if err != nil {
		return nil, err
	}
	return uc.mirror(ctx, d, snap)
}

func (uc *DisputeUseCases) load(ctx context.Context, disputeID string) (*payment.Dispute, error) {
	d, err := uc.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dispute: %w", err)
	}
	if d == nil {
		return nil, errors.NewNotFoundError("dispute not found")
	}
	return d, nil
}

func (uc *DisputeUseCases) mirror(ctx context.Context, d *payment.Dispute, snap *payment.DisputeSnapshot) (*dto.DisputeDTO, error) {
	if snap != nil {
		if _, err := d.Sync(*snap); err != nil {
			uc.logger.Warnw("stripe returned an unusable dispute snapshot", "dispute_id", d.ID(), "error", err)
		}
	}
	if err := uc.disputeRepo.Update(ctx, d); err != nil {
		uc.logger.Errorw("failed to update dispute", "dispute_id", d.ID(), "error", err)
		return nil, fmt.Errorf("failed to update dispute: %w", err)
	}
	return dto.ToDisputeDTO(d), nil
}
