package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mdmahamud/portfolio-backend/config"
	"github.com/mdmahamud/portfolio-backend/models"
)

// resendEmailRequest represents the request payload for the Resend API
type resendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type resendEmailResponse struct {
	ID string `json:"id"`
}

type resendErrorResponse struct {
	Message string `json:"message"`
}

// Notifier emails the site owner when a visitor leaves a contact message.
// It is disabled (Enabled returns false) unless RESEND_API_KEY,
// RESEND_FROM_EMAIL and CONTACT_NOTIFY_EMAIL are all configured.
type Notifier struct {
	apiKey    string
	fromEmail string
	toEmail   string
	client    *http.Client
}

func NewNotifier(cfg map[string]string) *Notifier {
	return &Notifier{
		apiKey:    config.GetString(cfg, "RESEND_API_KEY", ""),
		fromEmail: config.GetString(cfg, "RESEND_FROM_EMAIL", ""),
		toEmail:   config.GetString(cfg, "CONTACT_NOTIFY_EMAIL", ""),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.apiKey != "" && n.fromEmail != "" && n.toEmail != ""
}

// ContactMessageReceived sends the owner a notification about a new inquiry.
// Best-effort: failures are logged, never surfaced to the visitor.
func (n *Notifier) ContactMessageReceived(message models.ContactMessage) {
	subject := fmt.Sprintf("New contact message from %s", message.Name)
	body := fmt.Sprintf(
		"<p><strong>From:</strong> %s (%s)</p><p>%s</p>",
		message.Name, message.Email, message.Message,
	)

	if err := n.sendEmail(subject, body, []string{n.toEmail}); err != nil {
		log.Error().Err(err).Str("email", message.Email).Msg("Failed to send contact notification")
	}
}

// sendEmail sends an email using the Resend API
func (n *Notifier) sendEmail(subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	payload := resendEmailRequest{
		From:    n.fromEmail,
		To:      recipients,
		Subject: subject,
		Html:    body,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp resendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse resendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return nil
}
