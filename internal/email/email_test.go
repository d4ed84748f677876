package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAddress(t *testing.T) {
	tests := []struct {
		username, domain, expected string
	}{
		{"alice", "example.com", "alice@example.com"},
		{"alice", "@example.com", "alice@example.com"},
		{" alice ", "example.com", "alice@example.com"},
		{"alice@other.org", "example.com", "alice@other.org"},
		{"alice", "", "alice"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FromAddress(tt.username, tt.domain))
	}
}

func TestNewSMTPSenderRequiresHost(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{}, "u", "p")
	assert.Error(t, err)

	s, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, TLS: "mandatory"}, "u", "p")
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestBuildMsgRejectsBadRecipient(t *testing.T) {
	_, err := buildMsg(Message{From: "a@example.com", To: "not an address", Subject: "s", HTMLBody: "<p>x</p>"})
	assert.Error(t, err)

	m, err := buildMsg(Message{From: "a@example.com", To: "b@example.com", Subject: "s", HTMLBody: "<p>x</p>", TextBody: "x"})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestGmailMIME(t *testing.T) {
	g := &GmailSender{senderName: "Payroll"}
	raw := g.mime(Message{
		From:     "hr@example.com",
		To:       "bob@example.com",
		Subject:  "工资条 - Bob",
		HTMLBody: "<p>hi</p>",
	})

	assert.True(t, strings.HasPrefix(raw, "From: Payroll <hr@example.com>\r\n"))
	assert.Contains(t, raw, "To: bob@example.com\r\n")
	assert.Contains(t, raw, "Subject: =?UTF-8?b?")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8")
	assert.True(t, strings.HasSuffix(raw, "<p>hi</p>"))
}
