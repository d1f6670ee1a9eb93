// Package email delivers monthly bills over SMTP with the rendered PDF
// attached.
package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	BusinessName string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// Enabled reports whether SMTP is configured at all. Bill email is an
// optional channel; most customers get the WhatsApp link instead.
func (s *EmailService) Enabled() bool {
	return s.config.SMTPHost != "" && s.config.FromEmail != ""
}

// SendMonthlyBill emails the bill PDF to the customer with a short
// HTML body carrying the headline amount.
func (s *EmailService) SendMonthlyBill(toEmail, customerName, periodLabel, totalDue string, pdfName string, pdfData []byte) error {
	htmlContent, err := s.renderBillEmail(customerName, periodLabel, totalDue)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Milk Bill - %s - %s", periodLabel, s.config.BusinessName)
	message, err := s.buildEmailWithAttachment(toEmail, subject, htmlContent, pdfName, pdfData)
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildEmailWithAttachment builds a multipart MIME message: HTML body
// plus the bill PDF as a base64 attachment.
func (s *EmailService) buildEmailWithAttachment(to, subject, htmlBody, pdfName string, pdfData []byte) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: multipart/mixed; boundary=%q\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
		writer.Boundary(),
	)

	htmlPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="UTF-8"`},
	})
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	pdfPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/pdf"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", pdfName)},
	})
	if err != nil {
		return nil, err
	}
	encoder := base64.NewEncoder(base64.StdEncoding, pdfPart)
	if _, err := encoder.Write(pdfData); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	return append([]byte(headers), body.Bytes()...), nil
}

// renderBillEmail renders the bill email body
func (s *EmailService) renderBillEmail(customerName, periodLabel, totalDue string) (string, error) {
	tmpl, err := template.New("monthly_bill").Parse(monthlyBillTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		CustomerName string
		PeriodLabel  string
		TotalDue     string
		BusinessName string
	}{
		CustomerName: customerName,
		PeriodLabel:  periodLabel,
		TotalDue:     totalDue,
		BusinessName: s.config.BusinessName,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// monthlyBillTemplate is the HTML template for monthly bill emails
const monthlyBillTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Monthly Milk Bill</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden;">
                    <tr>
                        <td style="background-color: #2c7a4b; padding: 30px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 26px;">{{.BusinessName}}</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 30px;">
                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 16px 0;">
                                Dear {{.CustomerName}},
                            </p>
                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 16px 0;">
                                Your milk bill for <strong>{{.PeriodLabel}}</strong> is attached.
                            </p>
                            <p style="color: #1a1a2e; font-size: 20px; font-weight: 600; margin: 0 0 16px 0;">
                                Total due: Rs. {{.TotalDue}}
                            </p>
                            <p style="color: #718096; font-size: 14px; line-height: 1.6; margin: 0;">
                                Please find the detailed day-by-day bill in the attached PDF.
                            </p>
                        </td>
                    </tr>
                    <tr>
                        <td style="background-color: #f8fafc; padding: 20px; text-align: center; border-top: 1px solid #e2e8f0;">
                            <p style="color: #a0aec0; font-size: 13px; margin: 0;">
                                This bill was sent by {{.BusinessName}}
                            </p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
