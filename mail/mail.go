// Package mail sends contact-form confirmation emails through EmailJS.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hupe1980/folio/logging"
)

// DefaultEndpoint is the EmailJS send API.
const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// ErrNotConfigured is returned when the EmailJS identity is incomplete.
var ErrNotConfigured = errors.New("mail: emailjs service, template or public key missing")

// Confirmation is a contact form submission.
type Confirmation struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Brief string `json:"brief"`
}

// Valid reports whether every field is present.
func (c Confirmation) Valid() bool {
	return c.Name != "" && c.Email != "" && c.Brief != ""
}

// SendError is returned for a rejected send request.
type SendError struct {
	StatusCode int
	Details    string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("emailjs send failed (status %d): %s", e.StatusCode, e.Details)
}

// Options configures a Client.
type Options struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	// FromName and ReplyTo are passed to the template.
	FromName   string
	ReplyTo    string
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client posts template emails to EmailJS.
type Client struct {
	opts Options
	http *http.Client
}

// NewClient creates a Client.
func NewClient(optFns ...func(o *Options)) *Client {
	opts := Options{
		Endpoint: DefaultEndpoint,
		Timeout:  10 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{opts: opts, http: httpClient}
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// SendConfirmation emails the visitor that their message was received.
func (c *Client) SendConfirmation(ctx context.Context, conf Confirmation) error {
	if c.opts.ServiceID == "" || c.opts.TemplateID == "" || c.opts.PublicKey == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:  c.opts.ServiceID,
		TemplateID: c.opts.TemplateID,
		UserID:     c.opts.PublicKey,
		TemplateParams: map[string]string{
			"to_name":   conf.Name,
			"to_email":  conf.Email,
			"message":   conf.Brief,
			"from_name": c.opts.FromName,
			"reply_to":  c.opts.ReplyTo,
		},
	})
	if err != nil {
		return fmt.Errorf("encode emailjs request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build emailjs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs request: %w", err)
	}
	defer resp.Body.Close()

	details, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &SendError{StatusCode: resp.StatusCode, Details: string(details)}
	}

	c.opts.Logger.Info("mail.confirmation.sent", "status", resp.StatusCode)
	return nil
}
