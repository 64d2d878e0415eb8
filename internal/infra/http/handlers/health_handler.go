package handlers

import (
	"context"
	"net/http"
	"time"
)

const version = "1.0.0"

const (
	depHealthy       = "healthy"
	depConfigured    = "configured"
	depNotConfigured = "not configured"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type ConnectionState interface {
	IsClosed() bool
}

type ConfigurationState interface {
	Configured() bool
}

// HealthHandler reports dependencies. Nil dependencies are "not configured";
// an unconfigured notifier is reported but does not degrade the service, the
// way a missing token only shows up on the first submission.
type HealthHandler struct {
	DB        Pinger
	RabbitMQ  ConnectionState
	Telegram  ConfigurationState
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(db Pinger, rabbitMQ ConnectionState, telegram ConfigurationState) *HealthHandler {
	return &HealthHandler{
		DB:        db,
		RabbitMQ:  rabbitMQ,
		Telegram:  telegram,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := map[string]string{
		"database": h.databaseState(r.Context()),
		"rabbitmq": h.brokerState(),
		"telegram": h.notifierState(),
	}

	status, code := "healthy", http.StatusOK
	for _, state := range deps {
		if state != depHealthy && state != depConfigured && state != depNotConfigured {
			status, code = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}

func (h *HealthHandler) databaseState(ctx context.Context) string {
	if h.DB == nil {
		return depNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		return "unhealthy: " + err.Error()
	}
	return depHealthy
}

func (h *HealthHandler) brokerState() string {
	switch {
	case h.RabbitMQ == nil:
		return depNotConfigured
	case h.RabbitMQ.IsClosed():
		return "unhealthy: connection closed"
	default:
		return depHealthy
	}
}

func (h *HealthHandler) notifierState() string {
	if h.Telegram != nil && h.Telegram.Configured() {
		return depConfigured
	}
	return depNotConfigured
}
