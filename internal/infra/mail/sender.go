package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/tekhekspert/lead-capture/internal/config"
	"github.com/tekhekspert/lead-capture/internal/entity"
)

var leadTemplate = template.Must(template.New("lead").Parse(`<h2>Новая заявка с сайта</h2>
<p><b>Телефон:</b> <a href="tel:{{.PhoneE164}}">{{.Phone}}</a></p>
<p><b>Источник:</b> {{.Source}}</p>
<p style="color:#888">Заявка {{.LeadID}}, {{.CreatedAt}}</p>
`))

func NewEmailSender(cfg config.Mail) *EmailSender {
	return &EmailSender{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		From:     cfg.From,
		To:       cfg.To,
	}
}

// RenderLeadCopy builds the subject and HTML body of the office copy.
func RenderLeadCopy(lead *entity.Lead) (string, string, error) {
	var body bytes.Buffer
	err := leadTemplate.Execute(&body, LeadEmailData{
		Phone:     lead.Phone,
		PhoneE164: lead.PhoneE164,
		Source:    lead.Source,
		LeadID:    lead.ID,
		CreatedAt: lead.CreatedAt.Format("02.01.2006 15:04"),
	})
	if err != nil {
		return "", "", fmt.Errorf("render lead template: %w", err)
	}
	subject := fmt.Sprintf("Новая заявка: %s (%s)", lead.Phone, lead.Source)
	return subject, body.String(), nil
}

func (s *EmailSender) SendLeadCopy(lead *entity.Lead) error {
	subject, body, err := RenderLeadCopy(lead)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
