package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"time"

	"github.com/tekhekspert/lead-capture/internal/entity"
	"github.com/tekhekspert/lead-capture/internal/infra/integration/telegram"
)

const DefaultSubmitTimeout = 10 * time.Second

type Outcome string

const (
	OutcomeSent             Outcome = "SENT"
	OutcomeRejected         Outcome = "REJECTED"
	OutcomeTransportFailure Outcome = "TRANSPORT_FAILURE"
)

// Failure kinds, as used in logs and metrics.
const (
	FailureConfiguration = "configuration"
	FailureRejected      = "rejected"
	FailureTransport     = "transport"
)

// SubmissionResult is what one attempt produced. Err is nil only when the
// lead was sent.
type SubmissionResult struct {
	Outcome Outcome
	Err     error
}

func (r SubmissionResult) Sent() bool {
	return r.Outcome == OutcomeSent
}

// ConfigurationFailure reports missing or refused credentials, including an
// unknown chat id. The user sees
// the same message as for any other failure; operators get a separate signal.
func (r SubmissionResult) ConfigurationFailure() bool {
	if r.Err == nil {
		return false
	}
	if errors.Is(r.Err, telegram.ErrNotConfigured) {
		return true
	}
	var apiErr *telegram.APIError
	return errors.As(r.Err, &apiErr) && apiErr.Misconfigured()
}

// FailureKind is "" for a sent lead.
func (r SubmissionResult) FailureKind() string {
	switch {
	case r.Sent():
		return ""
	case r.ConfigurationFailure():
		return FailureConfiguration
	case r.Outcome == OutcomeRejected:
		return FailureRejected
	default:
		return FailureTransport
	}
}

// BuildLeadMessage renders the notification text. Values are escaped because
// the message is sent with the HTML parse mode.
func BuildLeadMessage(phone, source string) string {
	return fmt.Sprintf("🔔 Новая заявка!\n\n📱 Телефон: %s\n📍 Источник: %s",
		html.EscapeString(phone), html.EscapeString(source))
}

// SubmitLeadUseCase delivers a lead to the notification channel. One call is
// one attempt: no retry, no queue, no dedup.
type SubmitLeadUseCase struct {
	Sender  MessageSender
	Timeout time.Duration
}

func NewSubmitLeadUseCase(sender MessageSender, timeout time.Duration) *SubmitLeadUseCase {
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	return &SubmitLeadUseCase{
		Sender:  sender,
		Timeout: timeout,
	}
}

func (uc *SubmitLeadUseCase) Submit(ctx context.Context, phone, source string) (result SubmissionResult) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("❌ Lead submission panicked: %v", p)
			result = SubmissionResult{
				Outcome: OutcomeTransportFailure,
				Err:     fmt.Errorf("notifier panic: %v", p),
			}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, uc.Timeout)
	defer cancel()

	_, err := uc.Sender.SendMessage(ctx, BuildLeadMessage(phone, source))
	result = classify(err)

	switch result.FailureKind() {
	case "":
		log.Printf("✅ Lead sent: phone=%s source=%q", entity.MaskPhone(phone), source)
	case FailureConfiguration:
		log.Printf("❌ CONFIG: notifier credentials missing or refused, lead from %q lost: %v", source, result.Err)
	default:
		log.Printf("❌ Lead not sent (%s): phone=%s source=%q: %v",
			result.Outcome, entity.MaskPhone(phone), source, result.Err)
	}
	return result
}

func classify(err error) SubmissionResult {
	if err == nil {
		return SubmissionResult{Outcome: OutcomeSent}
	}
	var apiErr *telegram.APIError
	if errors.As(err, &apiErr) {
		return SubmissionResult{Outcome: OutcomeRejected, Err: err}
	}
	return SubmissionResult{Outcome: OutcomeTransportFailure, Err: err}
}
