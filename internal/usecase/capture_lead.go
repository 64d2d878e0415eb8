package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/tekhekspert/lead-capture/internal/entity"
	"github.com/tekhekspert/lead-capture/internal/infra/queue"
)

const fanOutTimeout = 5 * time.Second

// CaptureLeadUseCase is the server-side form contract: format, validate,
// submit once, then record what happened. Repo, Queue and EmailService are
// optional; none of them can change the outcome of a submission.
type CaptureLeadUseCase struct {
	Submitter    LeadSubmitter
	Repo         entity.LeadRepositoryInterface
	Queue        QueueProducerInterface
	EmailService EmailService
}

func NewCaptureLeadUseCase(
	submitter LeadSubmitter,
	repo entity.LeadRepositoryInterface,
	queue QueueProducerInterface,
	emailService EmailService,
) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{
		Submitter:    submitter,
		Repo:         repo,
		Queue:        queue,
		EmailService: emailService,
	}
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	input.Phone = entity.FormatPhone(input.Phone)
	input.Source = strings.TrimSpace(input.Source)

	if validationErrors := ValidateCaptureLeadInput(input); len(validationErrors) > 0 {
		msg := validationErrors[0].Message
		for _, e := range validationErrors {
			if e.Field == "phone" {
				msg = e.Message
				break
			}
		}
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: msg,
			Fields:  validationErrors,
		}
	}

	lead, err := entity.NewLead(input.Phone, input.Source)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: MsgInvalidPhone}
	}

	// Bookkeeping must survive a client that hangs up mid-request.
	bg := context.WithoutCancel(ctx)

	if uc.Repo != nil {
		if err := uc.Repo.Create(ctx, lead); err != nil {
			log.Printf("⚠️ Lead %s not persisted: %v", lead.ID, err)
		}
	}

	result := uc.Submitter.Submit(ctx, lead.Phone, lead.Source)

	lead.Status = entity.LeadStatusSent
	if !result.Sent() {
		lead.Status = entity.LeadStatusFailed
	}
	lead.UpdatedAt = time.Now()

	if uc.Repo != nil {
		if err := uc.Repo.UpdateStatus(bg, lead.ID, lead.Status); err != nil {
			log.Printf("⚠️ Lead %s status %s not persisted: %v", lead.ID, lead.Status, err)
		}
	}

	if !result.Sent() {
		return nil, submissionError(result)
	}

	uc.fanOut(bg, lead)

	return &CaptureLeadOutput{
		ID:      lead.ID,
		Status:  lead.Status,
		Outcome: result.Outcome,
		Phone:   lead.Phone,
		Source:  lead.Source,
	}, nil
}

func (uc *CaptureLeadUseCase) fanOut(ctx context.Context, lead *entity.Lead) {
	if uc.Queue != nil {
		pubCtx, cancel := context.WithTimeout(ctx, fanOutTimeout)
		err := uc.Queue.PublishLead(pubCtx, queue.LeadPayload{
			LeadID:    lead.ID,
			Phone:     lead.Phone,
			PhoneE164: lead.PhoneE164,
			Source:    lead.Source,
			CreatedAt: lead.CreatedAt,
		})
		cancel()
		if err != nil {
			log.Printf("⚠️ Lead %s sent but CRM sync not queued: %v", lead.ID, err)
		}
	}

	if uc.EmailService != nil {
		go func() {
			if err := uc.EmailService.SendLeadCopy(lead); err != nil {
				log.Printf("⚠️ Lead %s e-mail copy failed: %v", lead.ID, err)
			}
		}()
	}
}

func submissionError(result SubmissionResult) error {
	code := CodeSubmissionFailed
	switch {
	case result.ConfigurationFailure():
		code = CodeNotifierNotConfigured
	case result.Outcome == OutcomeRejected:
		code = CodeSubmissionRejected
	}
	return &TechnicalError{
		Code:    code,
		Message: MsgSubmissionFailed,
		Err:     result.Err,
	}
}
