package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailConfig holds the configuration for the Gmail email sender.
type GmailConfig struct {
	// CredentialsJSON is the service account credentials JSON with
	// domain-wide delegation.
	CredentialsJSON string
	// ClientID, ClientSecret and RefreshToken select OAuth2 token auth
	// instead of a service account.
	ClientID     string
	ClientSecret string
	RefreshToken string
	// SenderName is the display name for the sender.
	SenderName string
}

// GmailSender implements Transport using the Gmail API.
type GmailSender struct {
	service     *gmail.Service
	tokenSource oauth2.TokenSource
	senderName  string
}

// NewGmailSender creates a new GmailSender that sends as senderAddress.
// A service account impersonates the sender mailbox; otherwise the OAuth2
// client credentials and refresh token are used.
func NewGmailSender(ctx context.Context, cfg GmailConfig, senderAddress string) (*GmailSender, error) {
	if senderAddress == "" {
		return nil, fmt.Errorf("gmail: sender address is required")
	}

	var ts oauth2.TokenSource
	switch {
	case cfg.CredentialsJSON != "":
		jwtConfig, err := google.JWTConfigFromJSON([]byte(cfg.CredentialsJSON), gmail.GmailSendScope)
		if err != nil {
			return nil, fmt.Errorf("gmail: failed to parse credentials: %w", err)
		}
		jwtConfig.Subject = senderAddress
		ts = jwtConfig.TokenSource(ctx)
	case cfg.RefreshToken != "":
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gmail.GmailSendScope},
		}
		ts = oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	default:
		return nil, fmt.Errorf("gmail: credentials JSON or refresh token is required")
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to create service: %w", err)
	}

	return &GmailSender{
		service:     svc,
		tokenSource: ts,
		senderName:  cfg.SenderName,
	}, nil
}

// Probe obtains an access token, which fails when the credentials are rejected.
func (g *GmailSender) Probe(ctx context.Context) error {
	if _, err := g.tokenSource.Token(); err != nil {
		return fmt.Errorf("gmail: failed to obtain token: %w", err)
	}
	return nil
}

// Send sends an email via the Gmail API.
func (g *GmailSender) Send(ctx context.Context, msg Message) error {
	gmailMsg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(g.mime(msg))),
	}

	_, err := g.service.Users.Messages.Send("me", gmailMsg).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail: failed to send email: %w", err)
	}

	return nil
}

func (g *GmailSender) mime(msg Message) string {
	from := msg.From
	if g.senderName != "" {
		from = fmt.Sprintf("%s <%s>", g.senderName, msg.From)
	}
	subject := encodeHeader(msg.Subject)

	if msg.HTMLBody != "" && msg.TextBody != "" {
		boundary := "boundary_bulkmail_email"
		return strings.Join([]string{
			"From: " + from,
			"To: " + msg.To,
			"Subject: " + subject,
			"MIME-Version: 1.0",
			"Content-Type: multipart/alternative; boundary=" + boundary,
			"",
			"--" + boundary,
			"Content-Type: text/plain; charset=UTF-8",
			"Content-Transfer-Encoding: 8bit",
			"",
			msg.TextBody,
			"",
			"--" + boundary,
			"Content-Type: text/html; charset=UTF-8",
			"Content-Transfer-Encoding: 8bit",
			"",
			msg.HTMLBody,
			"",
			"--" + boundary + "--",
		}, "\r\n")
	}

	contentType, body := "text/plain", msg.TextBody
	if msg.HTMLBody != "" {
		contentType, body = "text/html", msg.HTMLBody
	}
	return strings.Join([]string{
		"From: " + from,
		"To: " + msg.To,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: " + contentType + "; charset=UTF-8",
		"",
		body,
	}, "\r\n")
}
