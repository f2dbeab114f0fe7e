package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"sort"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"busly/internal/shared/config"
	"busly/pkg/logger"
)

// EmailService delivers one notification
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
}

// NewEmailService returns an SMTP sender when SMTP is configured and a
// logging sender otherwise.
func NewEmailService(cfg config.EmailConfig) EmailService {
	if cfg.SMTPHost == "" || cfg.SMTPUsername == "" {
		logger.GetDefault().Warn("SMTP not configured, notifications will only be logged")
		return NewLogEmailService()
	}
	return NewSMTPEmailService(&SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		UseTLS:    true,
		Timeout:   30 * time.Second,
	})
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

type SMTPEmailService struct {
	config *SMTPConfig
	logger *logger.Logger
}

func NewSMTPEmailService(config *SMTPConfig) *SMTPEmailService {
	return &SMTPEmailService{config: config, logger: logger.GetDefault()}
}

func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	htmlBody, textBody, err := renderContent(notification)
	if err != nil {
		return fmt.Errorf("failed to generate email content: %w", err)
	}

	message := s.buildMessage(notification.To.Email, notification.Subject, htmlBody, textBody)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	done := make(chan error, 1)
	go func() {
		if s.config.UseTLS {
			done <- s.sendWithSTARTTLS(addr, auth, notification.To.Email, message)
			return
		}
		done <- smtp.SendMail(addr, auth, s.config.FromEmail, []string{notification.To.Email}, message)
	}()

	timeout := s.config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	select {
	case err = <-done:
	case <-time.After(timeout):
		err = fmt.Errorf("smtp send timed out after %s", timeout)
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Email sent",
		"type", string(notification.Type),
		"notification_id", notification.ID.String(),
		"to", notification.To.Email)
	return nil
}

func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	if err = client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Date":         time.Now().Format(time.RFC1123Z),
		"Content-Type": fmt.Sprintf("multipart/alternative; boundary=%s", boundary),
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, textBody)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, htmlBody)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}

// LogEmailService writes notifications to the log instead of sending them
type LogEmailService struct {
	logger *logger.Logger
}

func NewLogEmailService() *LogEmailService {
	return &LogEmailService{logger: logger.GetDefault()}
}

func (s *LogEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	_, text, err := renderContent(notification)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Email (not sent, SMTP disabled)",
		"type", string(notification.Type),
		"to", notification.To.Email,
		"subject", notification.Subject,
		"body", text)
	return nil
}

type templatePair struct {
	html *template.Template
	text *texttemplate.Template
}

var templates = map[NotificationType]templatePair{
	NotificationTypeBookingConfirmed: {
		html: template.Must(template.New("confirmed").Parse(`<h2>Booking Confirmed</h2>
<p>Hi {{.name}},</p>
<p>Your trip <strong>{{.route}}</strong> departing <strong>{{.departure}}</strong> is confirmed.</p>
<p>Booking reference: <strong>{{.booking_ref}}</strong><br>Seats: {{.seats}}<br>Total: {{.total_amount}}</p>
<p>Safe travels,<br>Busly</p>`)),
		text: texttemplate.Must(texttemplate.New("confirmed").Parse(`Hi {{.name}},

Your trip {{.route}} departing {{.departure}} is confirmed.
Booking reference: {{.booking_ref}}
Seats: {{.seats}}
Total: {{.total_amount}}

Safe travels,
Busly`)),
	},
	NotificationTypeBookingCancelled: {
		html: template.Must(template.New("cancelled").Parse(`<h2>Booking Cancelled</h2>
<p>Hi {{.name}},</p>
<p>Booking <strong>{{.booking_ref}}</strong> ({{.route}}) was cancelled on {{.cancelled_at}}.</p>
<p>Refund: <strong>{{.refund_amount}}</strong> ({{.refund_percentage}}% of {{.total_amount}}), status {{.refund_status}}.</p>
<p>Busly</p>`)),
		text: texttemplate.Must(texttemplate.New("cancelled").Parse(`Hi {{.name}},

Booking {{.booking_ref}} ({{.route}}) was cancelled on {{.cancelled_at}}.
Refund: {{.refund_amount}} ({{.refund_percentage}}% of {{.total_amount}}), status {{.refund_status}}.

Busly`)),
	},
}

func renderContent(n *EmailNotification) (string, string, error) {
	pair, ok := templates[n.Type]
	if !ok {
		return "", "", fmt.Errorf("no template for notification type %s", n.Type)
	}

	data := make(map[string]interface{}, len(n.TemplateData)+1)
	for k, v := range n.TemplateData {
		data[k] = v
	}
	data["name"] = n.To.Name

	var htmlBuf, textBuf bytes.Buffer
	if err := pair.html.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("render html: %w", err)
	}
	if err := pair.text.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("render text: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}
