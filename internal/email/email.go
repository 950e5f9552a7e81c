package email

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/inbucket/html2text"
	mail "github.com/wneessen/go-mail"
)

// SMTPConfig holds the outbound mail settings. An empty Host disables
// sending entirely.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Message represents an email message
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string // optional, will be auto-generated from HTML if empty
}

// Client represents an email client
type Client struct {
	cfg SMTPConfig
}

// NewClient creates a new email client
func NewClient(cfg SMTPConfig) *Client {
	return &Client{cfg: cfg}
}

// Enabled reports whether outbound mail is configured.
func (c *Client) Enabled() bool {
	return c.cfg.Host != ""
}

// Send sends an email message with HTML and plain-text alternatives.
func (c *Client) Send(msg *Message) error {
	if !c.Enabled() {
		slog.Debug("Email not configured, dropping message", "subject", msg.Subject)
		return nil
	}

	if msg.Text == "" {
		text, err := htmlToText(msg.HTML)
		if err != nil {
			return fmt.Errorf("failed to convert HTML to text: %w", err)
		}
		msg.Text = text
	}

	m := mail.NewMsg()
	if err := m.From(c.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)

	port, err := strconv.Atoi(c.cfg.Port)
	if err != nil {
		return fmt.Errorf("invalid SMTP port %q: %w", c.cfg.Port, err)
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if c.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(c.cfg.Username),
			mail.WithPassword(c.cfg.Password),
		)
	}

	client, err := mail.NewClient(c.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	return client.DialAndSend(m)
}

// htmlToText converts HTML to plain text
func htmlToText(htmlContent string) (string, error) {
	text, err := html2text.FromString(htmlContent, html2text.Options{
		PrettyTables: true,
		OmitLinks:    false,
	})
	if err != nil {
		slog.Error("failed to convert HTML to text", "error", err)
		return "", err
	}
	return text, nil
}
