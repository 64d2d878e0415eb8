package worker

import (
	"context"
	"log"
	"time"
)

// StaleLeadStore is implemented by database.LeadRepository.
type StaleLeadStore interface {
	MarkStalePending(ctx context.Context, olderThan time.Duration) ([]string, error)
}

// StaleLeadWorker closes out leads whose submission never finished (the
// process died between storing and notifying). It never resubmits.
type StaleLeadWorker struct {
	store        StaleLeadStore
	window       time.Duration
	tickInterval time.Duration
}

func NewStaleLeadWorker(store StaleLeadStore, window time.Duration) *StaleLeadWorker {
	return &StaleLeadWorker{
		store:        store,
		window:       window,
		tickInterval: time.Minute,
	}
}

func (w *StaleLeadWorker) Start(ctx context.Context) {
	log.Printf("🕒 Stale lead worker started (%s window)", w.window)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Stale lead worker stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs one pass and returns how many leads were abandoned.
func (w *StaleLeadWorker) Sweep(ctx context.Context) int {
	ids, err := w.store.MarkStalePending(ctx, w.window)
	if err != nil {
		log.Printf("❌ Stale lead sweep failed: %v", err)
		return len(ids)
	}

	for _, id := range ids {
		log.Printf("⏱️ Lead abandoned (never reached the chat): %s", id)
	}
	if len(ids) > 0 {
		log.Printf("✅ %d lead(s) marked ABANDONED", len(ids))
	}
	return len(ids)
}
