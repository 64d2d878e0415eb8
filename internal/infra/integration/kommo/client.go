package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/tekhekspert/lead-capture/internal/config"
	"github.com/tekhekspert/lead-capture/internal/infra/queue"
)

var (
	ErrNotConfigured   = errors.New("kommo: api token not configured")
	errContactNotFound = errors.New("kommo: contact not found")
)

const siteLeadTag = "заявка_с_сайта"

type Client struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.Kommo, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiToken:   cfg.APIToken,
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
	}
}

func (c *Client) Configured() bool {
	return c.apiToken != ""
}

// SyncLead implements queue.CRMClient.
func (c *Client) SyncLead(ctx context.Context, payload queue.LeadPayload) error {
	phone := payload.PhoneE164
	if phone == "" {
		phone = payload.Phone
	}
	_, err := c.CreateLead(ctx, CreateLeadInput{
		ContactName: payload.Phone,
		Phone:       phone,
		Source:      payload.Source,
		LeadID:      payload.LeadID,
	})
	return err
}

func (c *Client) CreateLead(ctx context.Context, input CreateLeadInput) (int, error) {
	if !c.Configured() {
		return 0, ErrNotConfigured
	}

	contactID, err := c.findOrCreateContact(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("kommo: find/create contact: %w", err)
	}

	leadData := []map[string]interface{}{
		{
			"name": fmt.Sprintf("Заявка с сайта - %s", input.Source),
			"_embedded": map[string]interface{}{
				"tags": []map[string]interface{}{
					{"name": siteLeadTag},
				},
				"contacts": []map[string]interface{}{
					{"id": contactID},
				},
			},
		},
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/leads", leadData, &result, http.StatusOK); err != nil {
		return 0, fmt.Errorf("kommo: create lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return 0, errors.New("kommo: lead not created")
	}

	leadID := result.Embedded.Leads[0].ID
	log.Printf("✅ Kommo: lead #%d created for %s (%s)", leadID, input.LeadID, input.Source)
	return leadID, nil
}

func (c *Client) findOrCreateContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contactID, err := c.findContactByPhone(ctx, input.Phone)
	switch {
	case err == nil && contactID > 0:
		log.Printf("📱 Kommo: existing contact %d", contactID)
		return contactID, nil
	case err != nil && !errors.Is(err, errContactNotFound):
		// Only a confirmed miss creates a contact.
		return 0, fmt.Errorf("search contact: %w", err)
	}
	return c.createContact(ctx, input)
}

func (c *Client) findContactByPhone(ctx context.Context, phone string) (int, error) {
	var result embeddedIDs
	path := "/contacts?query=" + url.QueryEscape(phone)
	// Kommo answers 204 with an empty body when nothing matches.
	if err := c.do(ctx, http.MethodGet, path, nil, &result, http.StatusOK, http.StatusNoContent); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) > 0 {
		return result.Embedded.Contacts[0].ID, nil
	}
	return 0, errContactNotFound
}

func (c *Client) createContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contactData := []map[string]interface{}{
		{
			"name": input.ContactName,
			"custom_fields_values": []map[string]interface{}{
				{
					"field_code": "PHONE",
					"values": []map[string]interface{}{
						{"value": input.Phone, "enum_code": "WORK"},
					},
				},
			},
		},
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/contacts", contactData, &result, http.StatusOK, http.StatusCreated); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("kommo: created contact has no id")
	}

	contactID := result.Embedded.Contacts[0].ID
	log.Printf("✅ Kommo: new contact %d", contactID)
	return contactID, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}, okStatuses ...int) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	ok := false
	for _, s := range okStatuses {
		if resp.StatusCode == s {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("status %d - %s", resp.StatusCode, string(respBody))
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
