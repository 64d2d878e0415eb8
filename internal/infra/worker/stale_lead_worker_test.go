package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStaleLeadStore struct {
	mock.Mock
}

func (m *MockStaleLeadStore) MarkStalePending(ctx context.Context, olderThan time.Duration) ([]string, error) {
	args := m.Called(ctx, olderThan)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func TestStaleLeadWorker_Sweep(t *testing.T) {
	t.Run("Marks stale leads", func(t *testing.T) {
		store := new(MockStaleLeadStore)
		store.On("MarkStalePending", mock.Anything, 15*time.Minute).Return([]string{"a", "b"}, nil).Once()

		n := NewStaleLeadWorker(store, 15*time.Minute).Sweep(context.Background())

		assert.Equal(t, 2, n)
		store.AssertExpectations(t)
	})

	t.Run("Store error", func(t *testing.T) {
		store := new(MockStaleLeadStore)
		store.On("MarkStalePending", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

		assert.Equal(t, 0, NewStaleLeadWorker(store, time.Minute).Sweep(context.Background()))
	})
}

func TestStaleLeadWorker_StartStopsOnCancel(t *testing.T) {
	store := new(MockStaleLeadStore)
	store.On("MarkStalePending", mock.Anything, mock.Anything).Return([]string{}, nil)

	w := NewStaleLeadWorker(store, time.Minute)
	w.tickInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.GreaterOrEqual(t, len(store.Calls), 2)
}
