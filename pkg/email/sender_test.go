package email

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGmailMessage(t *testing.T) {
	sender := NewGmailSender("Money Bridge", "no-reply@moneybridge.example", "secret").(*GmailSender)

	e := sender.message(EmailPayload{
		Subject: "We received your details",
		Content: "<p>Hello</p>",
		To:      []string{"ada@example.com"},
		ReplyTo: "support@moneytransfer.com",
	})

	require.Equal(t, "Money Bridge <no-reply@moneybridge.example>", e.From)
	require.Equal(t, []string{"ada@example.com"}, e.To)
	require.Equal(t, []string{"support@moneytransfer.com"}, e.ReplyTo)
	require.Equal(t, "<p>Hello</p>", string(e.HTML))
}

func TestGmailSendCancelled(t *testing.T) {
	sender := NewGmailSender("Money Bridge", "no-reply@moneybridge.example", "secret")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.SendEmail(ctx, EmailPayload{To: []string{"ada@example.com"}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRawMessage(t *testing.T) {
	raw, err := rawMessage("no-reply@moneybridge.example", EmailPayload{
		Subject: "We received your details",
		Content: "<p>Hello Ada</p>",
		To:      []string{"ada@example.com", "ops@example.com"},
		CC:      []string{"audit@example.com"},
		BCC:     []string{"hidden@example.com"},
		ReplyTo: "support@moneytransfer.com",
	})
	require.NoError(t, err)

	msg := string(raw)
	require.True(t, strings.HasPrefix(msg, "From: no-reply@moneybridge.example\n"))
	require.Contains(t, msg, "To: ada@example.com,ops@example.com\n")
	require.Contains(t, msg, "CC: audit@example.com\n")
	require.Contains(t, msg, "Reply-To: support@moneytransfer.com\n")
	require.Contains(t, msg, "Subject: We received your details\n")
	require.Contains(t, msg, "<p>Hello Ada</p>")
	require.NotContains(t, msg, "hidden@example.com")
}
