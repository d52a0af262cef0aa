package sendgrid

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

const (
	mailSendPath   = "/v3/mail/send"
	sendTimeout    = 10 * time.Second
	errorBodyLimit = 1024
)

var errAPIKeyRequired = errors.New("sendgrid api key is required")

// Client sends transactional mail through the SendGrid v3 API.
type Client struct {
	apiKey string
	host   string
	from   *mail.Email
}

// Option configures optional client behavior.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.host = strings.TrimRight(trimmed, "/")
		}
	}
}

func NewClient(apiKey, from string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}
	if strings.TrimSpace(from) == "" {
		return nil, errors.New("sendgrid from address is required")
	}

	client := &Client{
		apiKey: trimmedKey,
		from:   mail.NewEmail("", strings.TrimSpace(from)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Attachment is a file sent inline with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a single-recipient email.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

func (c *Client) build(msg Message) *mail.SGMailV3 {
	m := mail.NewV3MailInit(c.from, msg.Subject, mail.NewEmail("", msg.To), mail.NewContent("text/html", msg.HTML))
	for _, a := range msg.Attachments {
		att := mail.NewAttachment().
			SetContent(base64.StdEncoding.EncodeToString(a.Content)).
			SetFilename(a.Filename).
			SetDisposition("attachment")
		if a.ContentType != "" {
			att.SetType(a.ContentType)
		}
		m.AddAttachment(att)
	}
	return m
}

// Send delivers msg. SendGrid answers 202 on acceptance.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "sendgrid client not configured")
	}
	if strings.TrimSpace(msg.To) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient is required")
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	// sg.Client keeps the body on its embedded request, so one per send
	req := sg.GetRequest(c.apiKey, mailSendPath, c.host)
	req.Method = "POST"
	sender := &sg.Client{Request: req}

	resp, err := sender.SendWithContext(ctx, c.build(msg))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sendgrid request failed")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := strings.TrimSpace(resp.Body)
		if len(body) > errorBodyLimit {
			body = body[:errorBodyLimit]
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, body),
			"sendgrid rejected message")
	}
	return nil
}
