package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekhekspert/lead-capture/internal/config"
	"github.com/tekhekspert/lead-capture/internal/entity"
)

func TestRenderLeadCopy(t *testing.T) {
	lead := &entity.Lead{
		ID:        "lead-1",
		Phone:     "+7 (999) 123-45-67",
		PhoneE164: "+79991234567",
		Source:    `<script>alert(1)</script>`,
		CreatedAt: time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC),
	}

	subject, body, err := RenderLeadCopy(lead)
	require.NoError(t, err)

	assert.Equal(t, "Новая заявка: +7 (999) 123-45-67 (<script>alert(1)</script>)", subject)
	assert.Contains(t, body, `href="tel:`)
	assert.Contains(t, body, "79991234567")
	assert.Contains(t, body, "(999) 123-45-67")
	assert.Contains(t, body, "01.03.2026 09:05")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.NotContains(t, body, "<script>")
}

func TestNewEmailSender(t *testing.T) {
	s := NewEmailSender(config.Mail{
		Host: "smtp.example.ru",
		Port: 465,
		From: "site@example.ru",
		To:   "office@example.ru",
	})
	assert.Equal(t, "smtp.example.ru", s.Host)
	assert.Equal(t, 465, s.Port)
	assert.Equal(t, "office@example.ru", s.To)
}
