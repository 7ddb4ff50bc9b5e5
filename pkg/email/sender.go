package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

const (
	smtpAuthAddress   = "smtp.gmail.com"
	smtpServerAddress = "smtp.gmail.com:587"
)

// EmailPayload is a struct to send email
type EmailPayload struct {
	Subject string
	Content string
	To      []string
	CC      []string
	BCC     []string
	ReplyTo string
}

//go:generate mockgen -package mockemail -destination mock/sender.go github.com/ChokeGuy/money-bridge/pkg/email EmailSender

// EmailSender is an interface to send email
type EmailSender interface {
	SendEmail(ctx context.Context, payload EmailPayload) error
}

// GmailSender is a struct to send email using Gmail
type GmailSender struct {
	name              string
	fromEmailAddress  string
	fromEmailPassword string
}

// NewGmailSender creates a new Gmail sender
func NewGmailSender(name string, fromEmailAddress string, fromEmailPassword string) EmailSender {
	return &GmailSender{
		name:              name,
		fromEmailAddress:  fromEmailAddress,
		fromEmailPassword: fromEmailPassword,
	}
}

func (gmail *GmailSender) message(payload EmailPayload) *email.Email {
	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", gmail.name, gmail.fromEmailAddress)
	e.Subject = payload.Subject
	e.HTML = []byte(payload.Content)
	e.To = payload.To
	e.Cc = payload.CC
	e.Bcc = payload.BCC
	if payload.ReplyTo != "" {
		e.ReplyTo = []string{payload.ReplyTo}
	}
	return e
}

// SendEmail sends an email using Gmail. The SMTP client has no context support,
// so ctx is only checked before dialing.
func (gmail *GmailSender) SendEmail(ctx context.Context, payload EmailPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	smtpAuth := smtp.PlainAuth("", gmail.fromEmailAddress, gmail.fromEmailPassword, smtpAuthAddress)

	if err := gmail.message(payload).Send(smtpServerAddress, smtpAuth); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
