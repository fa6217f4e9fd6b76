package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"legal-assistant-backend/internal/config"
	"legal-assistant-backend/internal/logger"
)

type EmailSender interface {
	SendVerificationEmail(email, token string) error
}

type SMTPEmailSender struct {
	config *config.Config
}

type verificationData struct {
	VerifyURL string
	Token     string
}

func NewSMTPEmailSender(cfg *config.Config) *SMTPEmailSender {
	return &SMTPEmailSender{config: cfg}
}

// SendVerificationEmail delivers the account verification link. When SMTP
// is not configured the link is logged instead so local setups still work.
func (s *SMTPEmailSender) SendVerificationEmail(email, token string) error {
	data := verificationData{
		VerifyURL: fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(s.config.FrontendURL, "/"), token),
		Token:     token,
	}

	if s.config.SMTPHost == "" {
		logger.Info("SMTP not configured, printing verification link", "email", email, "url", data.VerifyURL)
		return nil
	}

	subject := "Verify your account"
	htmlBody, textBody, err := renderVerificationEmail(data)
	if err != nil {
		return fmt.Errorf("failed to generate email content: %w", err)
	}

	return s.sendEmail([]string{email}, subject, htmlBody, textBody)
}

func renderVerificationEmail(data verificationData) (htmlBody, textBody string, err error) {
	htmlT, _ := template.New("html").Parse(verificationHTMLTemplate)
	textT, _ := template.New("text").Parse(verificationTextTemplate)

	var htmlBuf, textBuf bytes.Buffer
	if err := htmlT.Execute(&htmlBuf, data); err != nil {
		return "", "", err
	}
	if err := textT.Execute(&textBuf, data); err != nil {
		return "", "", err
	}

	return htmlBuf.String(), textBuf.String(), nil
}

func (s *SMTPEmailSender) sendEmail(recipients []string, subject, htmlBody, textBody string) error {
	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPass, s.config.SMTPHost)

	message := fmt.Sprintf(`From: %s
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="boundary123"

--boundary123
Content-Type: text/plain; charset=UTF-8

%s

--boundary123
Content-Type: text/html; charset=UTF-8

%s

--boundary123--`,
		s.config.SMTPFrom,
		strings.Join(recipients, ", "),
		subject,
		textBody,
		htmlBody)

	addr := fmt.Sprintf("%s:%s", s.config.SMTPHost, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.SMTPFrom, recipients, []byte(message))
}

const verificationHTMLTemplate = `<html><body>
<h2>Verify your account</h2>
<p>Hello,</p>
<p>Thank you for registering. Click the link below to verify your email address:</p>
<p><a href="{{.VerifyURL}}">{{.VerifyURL}}</a></p>
<p>If you did not create this account, you can ignore this email.</p>
</body></html>`

const verificationTextTemplate = `Verify your account

Hello,

Thank you for registering. Open the link below to verify your email address:

{{.VerifyURL}}

If you did not create this account, you can ignore this email.`
