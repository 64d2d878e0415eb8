package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tekhekspert/lead-capture/internal/entity"
)

type FormState string

const (
	FormIdle       FormState = "IDLE"
	FormSubmitting FormState = "SUBMITTING"
	FormSubmitted  FormState = "SUBMITTED"
	FormFailed     FormState = "FAILED"
)

// How long the success banner stays before the form clears itself.
const (
	DefaultResetAfter = 3 * time.Second
	ModalResetAfter   = 2 * time.Second
)

var (
	ErrFormBusy   = errors.New("form is already submitting")
	ErrFormClosed = errors.New("form is closed")
)

// ResetIntervalFor returns the success display interval the site uses for a
// given source label.
func ResetIntervalFor(source string) time.Duration {
	if source == entity.SourceModal {
		return ModalResetAfter
	}
	return DefaultResetAfter
}

type FormSnapshot struct {
	Source string    `json:"source"`
	State  FormState `json:"state"`
	Phone  string    `json:"phone"`
	Error  string    `json:"error,omitempty"`
}

// LeadForm is the state of one phone form instance. Forms never share state,
// so two forms submitting at once produce two independent attempts.
type LeadForm struct {
	mu         sync.Mutex
	source     string
	submitter  LeadSubmitter
	resetAfter time.Duration

	state      FormState
	phone      string
	errMsg     string
	resetTimer *time.Timer
	cancel     context.CancelFunc
	closed     bool

	// OnChange, if set, is called with every new snapshot outside the lock.
	OnChange func(FormSnapshot)
}

func NewLeadForm(source string, submitter LeadSubmitter, resetAfter time.Duration) *LeadForm {
	if resetAfter <= 0 {
		resetAfter = ResetIntervalFor(source)
	}
	return &LeadForm{
		source:     source,
		submitter:  submitter,
		resetAfter: resetAfter,
		state:      FormIdle,
	}
}

// Input feeds the raw field content through the mask and returns what the
// field should now display. While submitting or showing success the field is
// disabled and the value is left untouched.
func (f *LeadForm) Input(raw string) string {
	f.mu.Lock()
	if f.closed || f.state == FormSubmitting || f.state == FormSubmitted {
		phone := f.phone
		f.mu.Unlock()
		return phone
	}

	f.phone = entity.FormatPhone(raw)
	f.errMsg = ""
	f.state = FormIdle
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.notify(snap)
	return snap.Phone
}

// Submit validates the current value and, when it is a valid phone, awaits
// exactly one submission. An invalid phone keeps the form idle and never
// reaches the submitter.
func (f *LeadForm) Submit(ctx context.Context) (SubmissionResult, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return SubmissionResult{}, ErrFormClosed
	}
	if f.state == FormSubmitting || f.state == FormSubmitted {
		f.mu.Unlock()
		return SubmissionResult{}, ErrFormBusy
	}

	if !entity.ValidatePhone(f.phone) {
		f.state = FormIdle
		f.errMsg = MsgInvalidPhone
		snap := f.snapshotLocked()
		f.mu.Unlock()

		f.notify(snap)
		return SubmissionResult{}, &DomainError{Code: CodeValidation, Message: MsgInvalidPhone}
	}

	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.state = FormSubmitting
	f.errMsg = ""
	phone := f.phone
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.notify(snap)

	result := f.submitter.Submit(ctx, phone, f.source)
	cancel()

	f.mu.Lock()
	f.cancel = nil
	if f.closed {
		// Form went away mid-flight; the result has nobody to show it to.
		f.mu.Unlock()
		return result, ErrFormClosed
	}

	if result.Sent() {
		f.state = FormSubmitted
		f.resetTimer = time.AfterFunc(f.resetAfter, f.reset)
	} else {
		f.state = FormFailed
		f.errMsg = MsgSubmissionFailed
	}
	snap = f.snapshotLocked()
	f.mu.Unlock()

	f.notify(snap)
	return result, nil
}

func (f *LeadForm) Snapshot() FormSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Close abandons the form: a pending reset is stopped and an in-flight
// submission is cancelled.
func (f *LeadForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	if f.resetTimer != nil {
		f.resetTimer.Stop()
		f.resetTimer = nil
	}
	if f.cancel != nil {
		f.cancel()
	}
}

func (f *LeadForm) reset() {
	f.mu.Lock()
	if f.closed || f.state != FormSubmitted {
		f.mu.Unlock()
		return
	}
	f.state = FormIdle
	f.phone = ""
	f.errMsg = ""
	f.resetTimer = nil
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.notify(snap)
}

func (f *LeadForm) snapshotLocked() FormSnapshot {
	return FormSnapshot{
		Source: f.source,
		State:  f.state,
		Phone:  f.phone,
		Error:  f.errMsg,
	}
}

func (f *LeadForm) notify(snap FormSnapshot) {
	if f.OnChange != nil {
		f.OnChange(snap)
	}
}
