package logos

import (
	"context"
	"fmt"
	"html"
	"strings"

	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
	"github.com/wmbgolfco/engraving-backend/pkg/sendgrid"
)

// Upload is a customer logo that the workshop needs a copy of.
type Upload struct {
	FileName    string
	ContentType string
	Content     []byte
	ProductName string
	Category    string
	OrderID     string
}

// Size is the upload size in bytes.
func (u Upload) Size() int {
	return len(u.Content)
}

// Notifier delivers an upload to the workshop.
type Notifier interface {
	Notify(ctx context.Context, upload Upload) error
	Channel() string
}

type mailer interface {
	Send(ctx context.Context, msg sendgrid.Message) error
}

// MailNotifier emails the logo as an attachment.
type MailNotifier struct {
	mail      mailer
	recipient string
}

func NewMailNotifier(mail mailer, recipient string) (*MailNotifier, error) {
	if mail == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mail client required")
	}
	if strings.TrimSpace(recipient) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logo recipient required")
	}
	return &MailNotifier{mail: mail, recipient: recipient}, nil
}

func (n *MailNotifier) Channel() string { return "email" }

func (n *MailNotifier) Notify(ctx context.Context, upload Upload) error {
	return n.mail.Send(ctx, sendgrid.Message{
		To:      n.recipient,
		Subject: Subject(upload.Category),
		HTML:    renderBody(upload),
		Attachments: []sendgrid.Attachment{{
			Filename:    upload.FileName,
			ContentType: upload.ContentType,
			Content:     upload.Content,
		}},
	})
}

// LogNotifier records the upload in the log stream only. Used when no mail
// provider is configured.
type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogNotifier{logg: logg}
}

func (n *LogNotifier) Channel() string { return "log" }

func (n *LogNotifier) Notify(ctx context.Context, upload Upload) error {
	ctx = n.logg.WithFields(ctx, map[string]any{
		"order_id":     upload.OrderID,
		"product_name": upload.ProductName,
		"category":     upload.Category,
		"file_name":    upload.FileName,
		"file_size":    upload.Size(),
	})
	n.logg.Info(ctx, "logo.received")
	return nil
}

// Subject is the notification subject line for a category.
func Subject(category string) string {
	return fmt.Sprintf("New Logo Upload - %s Order", category)
}

func renderBody(u Upload) string {
	var b strings.Builder
	b.WriteString("<h2>New Logo/Image Upload</h2>")
	fmt.Fprintf(&b, "<p><strong>Order ID:</strong> %s</p>", html.EscapeString(u.OrderID))
	fmt.Fprintf(&b, "<p><strong>Product:</strong> %s</p>", html.EscapeString(u.ProductName))
	fmt.Fprintf(&b, "<p><strong>Category:</strong> %s</p>", html.EscapeString(u.Category))
	fmt.Fprintf(&b, "<p><strong>File Name:</strong> %s</p>", html.EscapeString(u.FileName))
	fmt.Fprintf(&b, "<p><strong>File Size:</strong> %.2f KB</p>", float64(u.Size())/1024)
	b.WriteString("<p>The logo/image file is attached to this email.</p>")
	return b.String()
}
