package email

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// mdRenderer converts message bodies to HTML.
// Raw HTML in the markdown is escaped because WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderMarkdown converts a markdown body to HTML.
// PRE: none
// POST: returns HTML with any embedded raw HTML escaped
func RenderMarkdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return buf.String(), nil
}

// ActivationMessage builds the invitation sent when an account is created for a cadet.
// PRE: link is an absolute URL carrying the activation token
func ActivationMessage(to, name, link string) (SendRequest, error) {
	body := fmt.Sprintf(`Hello %s,

An account has been created for you on the cadet administration system.

[Activate your account](%s)

The link expires in 72 hours. If you were not expecting this email you can ignore it.`, name, link)
	return build(to, "Activate your cadet account", body, KindActivation)
}

// PasswordResetMessage builds the email carrying a password reset link.
// PRE: link is an absolute URL carrying the reset token
func PasswordResetMessage(to, link string) (SendRequest, error) {
	body := fmt.Sprintf(`A password reset was requested for your account.

[Choose a new password](%s)

The link expires in 1 hour. If you did not expect this, contact your instructor.`, link)
	return build(to, "Reset your password", body, KindPasswordReset)
}

func build(to, subject, markdown, kind string) (SendRequest, error) {
	html, err := RenderMarkdown(markdown)
	if err != nil {
		return SendRequest{}, err
	}
	return SendRequest{To: []string{to}, Subject: subject, HTML: html, Kind: kind}, nil
}
