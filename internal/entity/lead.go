package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Source labels used by the site forms.
const (
	SourceMainScreen  = "Главный экран"
	SourceModal       = "Модальное окно"
	SourceContactForm = "Форма контактов"
)

// KnownSources lists the labels the site forms send, in page order.
var KnownSources = []string{SourceMainScreen, SourceModal, SourceContactForm}

// Lead statuses.
const (
	LeadStatusPending   = "PENDING"
	LeadStatusSent      = "SENT"
	LeadStatusFailed    = "FAILED"
	LeadStatusAbandoned = "ABANDONED" // stuck in PENDING, see worker.StaleLeadWorker
)

var ErrLeadNotFound = errors.New("lead not found or no longer pending")

type Lead struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`      // +7 (XXX) XXX-XX-XX
	PhoneE164 string    `json:"phone_e164"` // +7XXXXXXXXXX
	Source    string    `json:"source"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLead builds a PENDING lead from an already formatted phone.
func NewLead(phone, source string) (*Lead, error) {
	if !ValidatePhone(phone) {
		return nil, errors.New("phone is invalid")
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New("source is required")
	}

	now := time.Now()
	return &Lead{
		ID:        uuid.New().String(),
		Phone:     phone,
		PhoneE164: PhoneE164(phone),
		Source:    source,
		Status:    LeadStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	UpdateStatus(ctx context.Context, id, status string) error
}
