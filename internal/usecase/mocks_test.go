package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tekhekspert/lead-capture/internal/entity"
	"github.com/tekhekspert/lead-capture/internal/infra/queue"
	"github.com/tekhekspert/lead-capture/internal/usecase"
)

// MockMessageSender stands in for the Telegram client.
type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) SendMessage(ctx context.Context, text string) (int64, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(int64), args.Error(1)
}

// MockLeadSubmitter stands in for SubmitLeadUseCase.
type MockLeadSubmitter struct {
	mock.Mock
}

func (m *MockLeadSubmitter) Submit(ctx context.Context, phone, source string) usecase.SubmissionResult {
	args := m.Called(ctx, phone, source)
	return args.Get(0).(usecase.SubmissionResult)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishLead(ctx context.Context, payload queue.LeadPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendLeadCopy(lead *entity.Lead) error {
	args := m.Called(lead)
	return args.Error(0)
}
