package usecase

import (
	"context"

	"github.com/tekhekspert/lead-capture/internal/entity"
	"github.com/tekhekspert/lead-capture/internal/infra/queue"
)

// MessageSender is the outbound notification channel (Telegram in production).
type MessageSender interface {
	SendMessage(ctx context.Context, text string) (int64, error)
}

// LeadSubmitter is what every form calls once the phone is valid.
type LeadSubmitter interface {
	Submit(ctx context.Context, phone, source string) SubmissionResult
}

type QueueProducerInterface interface {
	PublishLead(ctx context.Context, payload queue.LeadPayload) error
}

type EmailService interface {
	SendLeadCopy(lead *entity.Lead) error
}

type CaptureLeadInput struct {
	Phone  string `json:"phone" validate:"required,ruphone"`
	Source string `json:"source" validate:"required,max=120"`
}

type CaptureLeadOutput struct {
	ID      string  `json:"id"`
	Status  string  `json:"status"`
	Outcome Outcome `json:"outcome"`
	Phone   string  `json:"phone"`
	Source  string  `json:"source"`
}
