package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
)

// Message is a single outbound email, optionally carrying a calendar part.
type Message struct {
	ToName    string
	ToEmail   string
	Subject   string
	TextBody  string
	ICSBody   string // empty when the message carries no calendar object
	ICSMethod string // REQUEST or CANCEL, matches the ICS METHOD property
}

// Mailer is the outbound delivery channel. Send returns the provider message
// id recorded in the notification ledger.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	fromName  string
}

func NewSMTPMailer(host string, port int, username, password, fromEmail, fromName string) *SMTPMailer {
	return &SMTPMailer{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) (string, error) {
	if msg.ToEmail == "" {
		return "", fmt.Errorf("recipient email is required")
	}

	domain := m.fromEmail
	if at := strings.LastIndex(domain, "@"); at >= 0 {
		domain = domain[at+1:]
	}
	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), domain)

	body := m.buildMessage(msg, messageID)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.fromEmail, []string{msg.ToEmail}, []byte(body)); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return messageID, nil
}

func (m *SMTPMailer) buildMessage(msg Message, messageID string) string {
	var b strings.Builder
	write := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}

	boundary := "meetsync-" + uuid.New().String()

	write("Message-ID: " + messageID)
	write(fmt.Sprintf("From: %s <%s>", m.fromName, m.fromEmail))
	write(fmt.Sprintf("To: %s <%s>", msg.ToName, msg.ToEmail))
	write("Subject: " + msg.Subject)
	write("MIME-Version: 1.0")

	if msg.ICSBody == "" {
		write("Content-Type: text/plain; charset=UTF-8")
		write("")
		write(msg.TextBody)
		return b.String()
	}

	write(fmt.Sprintf(`Content-Type: multipart/alternative; boundary="%s"`, boundary))
	write("")
	write("--" + boundary)
	write("Content-Type: text/plain; charset=UTF-8")
	write("")
	write(msg.TextBody)
	write("--" + boundary)
	write(fmt.Sprintf(`Content-Type: text/calendar; charset=UTF-8; method=%s`, msg.ICSMethod))
	write("")
	b.WriteString(msg.ICSBody)
	write("--" + boundary + "--")

	return b.String()
}
