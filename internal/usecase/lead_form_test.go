package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tekhekspert/lead-capture/internal/entity"
	"github.com/tekhekspert/lead-capture/internal/usecase"
)

var sent = usecase.SubmissionResult{Outcome: usecase.OutcomeSent}

func TestResetIntervalFor(t *testing.T) {
	assert.Equal(t, 2*time.Second, usecase.ResetIntervalFor(entity.SourceModal))
	assert.Equal(t, 3*time.Second, usecase.ResetIntervalFor(entity.SourceMainScreen))
	assert.Equal(t, 3*time.Second, usecase.ResetIntervalFor(entity.SourceContactForm))
	assert.Equal(t, 3*time.Second, usecase.ResetIntervalFor("landing"))
}

func TestLeadForm_Input(t *testing.T) {
	form := usecase.NewLeadForm(entity.SourceMainScreen, new(MockLeadSubmitter), 0)
	defer form.Close()

	assert.Equal(t, "+7 (999", form.Input("8999"))
	assert.Equal(t, "+7 (999) 123-45-67", form.Input("+7 (999) 123-45-679"))

	snap := form.Snapshot()
	assert.Equal(t, usecase.FormIdle, snap.State)
	assert.Equal(t, entity.SourceMainScreen, snap.Source)
	assert.Empty(t, snap.Error)
}

func TestLeadForm_SubmitInvalidPhone(t *testing.T) {
	submitter := new(MockLeadSubmitter)
	form := usecase.NewLeadForm(entity.SourceModal, submitter, 0)
	defer form.Close()

	form.Input("+7 (999) 12")
	_, err := form.Submit(context.Background())

	assert.True(t, usecase.IsDomainError(err))
	snap := form.Snapshot()
	assert.Equal(t, usecase.FormIdle, snap.State)
	assert.Equal(t, usecase.MsgInvalidPhone, snap.Error)
	submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)

	// Typing again clears the message.
	form.Input("+7 (999) 123")
	assert.Empty(t, form.Snapshot().Error)
}

func TestLeadForm_SuccessResetsAfterInterval(t *testing.T) {
	submitter := new(MockLeadSubmitter)
	submitter.On("Submit", mock.Anything, testPhone, entity.SourceContactForm).Return(sent).Once()

	form := usecase.NewLeadForm(entity.SourceContactForm, submitter, 50*time.Millisecond)
	defer form.Close()

	var mu sync.Mutex
	var states []usecase.FormState
	form.OnChange = func(s usecase.FormSnapshot) {
		mu.Lock()
		states = append(states, s.State)
		mu.Unlock()
	}

	form.Input("79991234567")
	result, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Sent())

	snap := form.Snapshot()
	assert.Equal(t, usecase.FormSubmitted, snap.State)
	assert.Equal(t, testPhone, snap.Phone)

	// The field is disabled while the success banner is shown.
	assert.Equal(t, testPhone, form.Input("1"))
	_, err = form.Submit(context.Background())
	assert.ErrorIs(t, err, usecase.ErrFormBusy)

	assert.Eventually(t, func() bool {
		s := form.Snapshot()
		return s.State == usecase.FormIdle && s.Phone == ""
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []usecase.FormState{
		usecase.FormIdle,
		usecase.FormSubmitting,
		usecase.FormSubmitted,
		usecase.FormIdle,
	}, states)
	submitter.AssertExpectations(t)
}

func TestLeadForm_FailureKeepsPhoneAndAllowsRetry(t *testing.T) {
	submitter := new(MockLeadSubmitter)
	submitter.On("Submit", mock.Anything, testPhone, entity.SourceMainScreen).
		Return(usecase.SubmissionResult{Outcome: usecase.OutcomeRejected, Err: errors.New("400")}).Once()
	submitter.On("Submit", mock.Anything, testPhone, entity.SourceMainScreen).Return(sent).Once()

	form := usecase.NewLeadForm(entity.SourceMainScreen, submitter, time.Hour)
	defer form.Close()

	form.Input(testPhone)
	result, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Sent())

	snap := form.Snapshot()
	assert.Equal(t, usecase.FormFailed, snap.State)
	assert.Equal(t, testPhone, snap.Phone)
	assert.Equal(t, usecase.MsgSubmissionFailed, snap.Error)

	// A retry is a new attempt made by the user.
	result, err = form.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Sent())
	assert.Equal(t, usecase.FormSubmitted, form.Snapshot().State)
	submitter.AssertNumberOfCalls(t, "Submit", 2)
}

func TestLeadForm_SecondSubmitWhileInFlightIsBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	submitter := new(MockLeadSubmitter)
	submitter.On("Submit", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(sent).Once()

	form := usecase.NewLeadForm(entity.SourceModal, submitter, time.Hour)
	defer form.Close()
	form.Input(testPhone)

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background())
		done <- err
	}()

	<-started
	assert.Equal(t, usecase.FormSubmitting, form.Snapshot().State)
	assert.Equal(t, testPhone, form.Input("+7 (111"), "input is ignored while submitting")

	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, usecase.ErrFormBusy)

	close(release)
	require.NoError(t, <-done)
	submitter.AssertNumberOfCalls(t, "Submit", 1)
}

func TestLeadForm_CloseCancelsInFlightSubmission(t *testing.T) {
	started := make(chan struct{})

	submitter := new(MockLeadSubmitter)
	submitter.On("Submit", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		}).
		Return(usecase.SubmissionResult{Outcome: usecase.OutcomeTransportFailure, Err: context.Canceled}).Once()

	form := usecase.NewLeadForm(entity.SourceModal, submitter, time.Hour)
	form.Input(testPhone)

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background())
		done <- err
	}()

	<-started
	form.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, usecase.ErrFormClosed)
	case <-time.After(time.Second):
		t.Fatal("submission was not cancelled")
	}

	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, usecase.ErrFormClosed)
}

func TestLeadForm_CloseStopsPendingReset(t *testing.T) {
	submitter := new(MockLeadSubmitter)
	submitter.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(sent).Once()

	form := usecase.NewLeadForm(entity.SourceModal, submitter, 20*time.Millisecond)
	form.Input(testPhone)
	_, err := form.Submit(context.Background())
	require.NoError(t, err)

	form.Close()
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, usecase.FormSubmitted, form.Snapshot().State)
}

func TestLeadForm_IndependentForms(t *testing.T) {
	release := make(chan struct{})

	submitter := new(MockLeadSubmitter)
	submitter.On("Submit", mock.Anything, testPhone, entity.SourceMainScreen).
		Run(func(mock.Arguments) { <-release }).
		Return(sent).Once()
	submitter.On("Submit", mock.Anything, testPhone, entity.SourceContactForm).
		Run(func(mock.Arguments) { <-release }).
		Return(usecase.SubmissionResult{Outcome: usecase.OutcomeTransportFailure, Err: errors.New("timeout")}).Once()

	hero := usecase.NewLeadForm(entity.SourceMainScreen, submitter, time.Hour)
	contacts := usecase.NewLeadForm(entity.SourceContactForm, submitter, time.Hour)
	defer hero.Close()
	defer contacts.Close()

	hero.Input(testPhone)
	contacts.Input(testPhone)

	var wg sync.WaitGroup
	for _, f := range []*usecase.LeadForm{hero, contacts} {
		wg.Add(1)
		go func(f *usecase.LeadForm) {
			defer wg.Done()
			_, err := f.Submit(context.Background())
			assert.NoError(t, err)
		}(f)
	}

	assert.Eventually(t, func() bool {
		return hero.Snapshot().State == usecase.FormSubmitting &&
			contacts.Snapshot().State == usecase.FormSubmitting
	}, time.Second, 5*time.Millisecond)

	close(release)
	wg.Wait()

	assert.Equal(t, usecase.FormSubmitted, hero.Snapshot().State)
	assert.Equal(t, usecase.FormFailed, contacts.Snapshot().State)
	submitter.AssertNumberOfCalls(t, "Submit", 2)
}
