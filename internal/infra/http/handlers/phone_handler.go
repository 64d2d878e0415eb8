package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tekhekspert/lead-capture/internal/entity"
)

// PhoneHandler exposes the field mask to clients that do not run it locally.
type PhoneHandler struct{}

func NewPhoneHandler() *PhoneHandler {
	return &PhoneHandler{}
}

type FormatPhoneRequest struct {
	Raw string `json:"raw"`
}

type FormatPhoneResponse struct {
	Formatted string `json:"formatted"`
	Digits    string `json:"digits"`
	Valid     bool   `json:"valid"`
}

// Format handles POST /api/phone/format.
func (h *PhoneHandler) Format(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLeadBody)

	var req FormatPhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	formatted := entity.FormatPhone(req.Raw)
	writeJSON(w, http.StatusOK, FormatPhoneResponse{
		Formatted: formatted,
		Digits:    entity.ExtractDigits(formatted),
		Valid:     entity.ValidatePhone(formatted),
	})
}

// Sources handles GET /api/sources.
func (h *PhoneHandler) Sources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sources": entity.KnownSources})
}
