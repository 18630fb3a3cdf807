package email

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/rehabworks/rehab_backend/config"
)

// Client sends the platform's transactional mail over SMTP. The typed send
// methods (SendWelcome, SendRoutineAssigned) are the intended surface; Send
// takes a raw Message for anything else.
type Client struct {
	cfg Config
}

// NewFromCentral creates a client from the central config tree.
func NewFromCentral(cfg config.EmailConfig) (*Client, error) {
	return New(FromCentralConfig(cfg))
}

func New(cfg Config) (*Client, error) {
	return &Client{cfg: cfg}, nil
}

// SendWelcome notifies a freshly registered account.
func (c *Client) SendWelcome(ctx context.Context, data WelcomeEmailData) error {
	if data.AppName == "" {
		data.AppName = c.cfg.AppName
	}
	return c.Send(ctx, BuildWelcomeEmail(data))
}

// SendRoutineAssigned notifies a patient that a professional assigned them
// a new routine.
func (c *Client) SendRoutineAssigned(ctx context.Context, data RoutineAssignedEmailData) error {
	if data.AppName == "" {
		data.AppName = c.cfg.AppName
	}
	return c.Send(ctx, BuildRoutineAssignedEmail(data))
}

// Send delivers m, honoring the ctx deadline when it is sooner than the
// configured SMTP timeout. When the client is disabled it returns
// ErrDisabled without dialing.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.cfg.Enabled {
		return ErrDisabled{}
	}

	msg, err := compose(c.cfg.From, m)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- c.dialer().DialAndSend(msg)
	}()

	wait := c.cfg.SMTPTimeout()
	if dl, ok := ctx.Deadline(); ok {
		if until := time.Until(dl); until > 0 && until < wait {
			wait = until
		}
	}

	select {
	case err := <-done:
		if err != nil {
			return ErrSend{Provider: "gomail/smtp", Err: err}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}

func (c *Client) dialer() *gomail.Dialer {
	d := gomail.NewDialer(c.cfg.SMTPHost, c.cfg.SMTPPort, c.cfg.SMTPUsername, c.cfg.SMTPPassword)
	if c.cfg.SMTPUseTLS {
		d.SSL = true
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return d
}

// compose validates m and translates it into a gomail message. From and
// subject are mandatory; at least one body part must be present.
func compose(from string, m Message) (*gomail.Message, error) {
	from = strings.TrimSpace(from)
	if from == "" {
		return nil, ErrInvalidMessage{Reason: "from is required"}
	}
	subject := strings.TrimSpace(m.Subject)
	if subject == "" {
		return nil, ErrInvalidMessage{Reason: "subject is required"}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("Subject", subject)

	for header, addrs := range map[string][]string{"To": m.To, "Cc": m.CC, "Bcc": m.BCC} {
		if cleaned := cleanAddrs(addrs); len(cleaned) > 0 {
			msg.SetHeader(header, cleaned...)
		}
	}
	for k, v := range m.Headers {
		if k = strings.TrimSpace(k); k == "" {
			continue
		}
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		msg.SetHeader(k, v)
	}

	hasText := strings.TrimSpace(m.TextBody) != ""
	hasHTML := strings.TrimSpace(m.HTMLBody) != ""
	switch {
	case hasText:
		msg.SetBody("text/plain", m.TextBody)
		if hasHTML {
			msg.AddAlternative("text/html", m.HTMLBody)
		}
	case hasHTML:
		msg.SetBody("text/html", m.HTMLBody)
	default:
		return nil, ErrInvalidMessage{Reason: "either TextBody or HTMLBody is required"}
	}

	return msg, nil
}

func cleanAddrs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
