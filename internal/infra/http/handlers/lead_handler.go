package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/tekhekspert/lead-capture/internal/infra/http/middleware"
	"github.com/tekhekspert/lead-capture/internal/usecase"
)

const maxLeadBody = 8 << 10

type LeadCapturer interface {
	Execute(ctx context.Context, input usecase.CaptureLeadInput) (*usecase.CaptureLeadOutput, error)
}

type LeadHandler struct {
	captureLead LeadCapturer
	rateLimiter *middleware.RateLimiter
}

// NewLeadHandler takes a nil rateLimiter to disable limiting.
func NewLeadHandler(captureLead LeadCapturer, rateLimiter *middleware.RateLimiter) *LeadHandler {
	return &LeadHandler{
		captureLead: captureLead,
		rateLimiter: rateLimiter,
	}
}

type CaptureLeadRequest struct {
	Phone  string `json:"phone"`
	Source string `json:"source"`
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
	Status  string `json:"status,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// CaptureLead handles POST /api/leads.
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	if h.rateLimiter != nil && !h.rateLimiter.Allow(middleware.ClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS",
			"Слишком много заявок. Пожалуйста, попробуйте позже.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLeadBody)

	var req CaptureLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	output, err := h.captureLead.Execute(r.Context(), usecase.CaptureLeadInput{
		Phone:  req.Phone,
		Source: req.Source,
	})
	if err != nil {
		h.writeCaptureError(w, err)
		return
	}

	middleware.RecordLeadSubmission(string(output.Outcome))

	writeJSON(w, http.StatusCreated, CaptureLeadResponse{
		Success: true,
		ID:      output.ID,
		Status:  output.Status,
		Phone:   output.Phone,
	})
}

func (h *LeadHandler) writeCaptureError(w http.ResponseWriter, err error) {
	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		fields := make(map[string]string, len(domainErr.Fields))
		for _, f := range domainErr.Fields {
			fields[f.Field] = f.Message
		}
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   domainErr.Code,
			Message: domainErr.Message,
			Fields:  fields,
		})
		return
	}

	var techErr *usecase.TechnicalError
	if errors.As(err, &techErr) {
		outcome, kind := usecase.OutcomeTransportFailure, usecase.FailureTransport
		switch techErr.Code {
		case usecase.CodeNotifierNotConfigured:
			kind = usecase.FailureConfiguration
		case usecase.CodeSubmissionRejected:
			outcome, kind = usecase.OutcomeRejected, usecase.FailureRejected
		}
		middleware.RecordLeadSubmission(string(outcome))
		middleware.RecordNotifierFailure(kind)
		middleware.RecordIntegrationError("telegram")

		writeErrorResponse(w, http.StatusBadGateway, techErr.Code, techErr.Message)
		return
	}

	log.Printf("❌ Unexpected lead capture error: %v", err)
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", usecase.MsgSubmissionFailed)
}
