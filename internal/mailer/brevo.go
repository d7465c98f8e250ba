package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.brevo.com/v3"

// Message is one transactional email.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Sender dispatches a single message and returns the provider's message ID.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type brevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSendRequest struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
}

type Config struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	BaseURL     string // defaults to the Brevo API; overridable in tests
	Timeout     time.Duration
}

// Brevo sends transactional email through the Brevo SMTP API.
type Brevo struct {
	config Config
	client *http.Client
}

func NewBrevo(config Config) *Brevo {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Brevo{
		config: config,
		client: &http.Client{Timeout: timeout},
	}
}

func (b *Brevo) Send(ctx context.Context, msg Message) (string, error) {
	payload := brevoSendRequest{
		Sender:      brevoContact{Email: b.config.SenderEmail, Name: b.config.SenderName},
		To:          []brevoContact{{Email: msg.To, Name: msg.ToName}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal Brevo payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.config.BaseURL+"/smtp/email", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to build Brevo request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", b.config.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("Brevo returned status %d: %s", resp.StatusCode, detail)
	}

	var result brevoSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// The send went through; a missing message ID is not a failure.
		return "", nil
	}

	return result.MessageID, nil
}
