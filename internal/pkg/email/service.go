// internal/pkg/email/service.go
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Service sends transactional mail over SMTP. Sending is best effort at the
// call sites: an order must never fail because the confirmation could not go
// out.
type Service struct {
	config *config.Config
	log    *logrus.Logger
}

// NewService creates a new email service
func NewService(cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{config: cfg, log: log}
}

// SendOrderConfirmation mails the order summary to the customer.
func (s *Service) SendOrderConfirmation(ord *order.Order) error {
	if s.config.Email.SMTPHost == "" {
		s.log.Debug("SMTP not configured, skipping order confirmation")
		return nil
	}

	body, err := s.renderOrderConfirmation(ord)
	if err != nil {
		return fmt.Errorf("failed to render confirmation: %w", err)
	}

	subject := fmt.Sprintf("Order confirmation %s", ord.OrderNumber)
	return s.send([]string{ord.Email}, subject, body)
}

func (s *Service) send(to []string, subject, htmlBody string) error {
	cfg := s.config.Email

	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}

	addr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, cfg.FromEmail, to, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func (s *Service) renderOrderConfirmation(ord *order.Order) (string, error) {
	tmpl := template.Must(template.New("order_confirmation").Funcs(template.FuncMap{
		"euros": func(cents int64) string {
			return fmt.Sprintf("%.2f €", float64(cents)/100)
		},
	}).Parse(orderConfirmationTemplate))

	var buf bytes.Buffer
	data := struct {
		Order       *order.Order
		CompanyName string
	}{Order: ord, CompanyName: s.config.App.CompanyName}

	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const orderConfirmationTemplate = `
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Thank you for your order</h2>
    <p>Your order <strong>{{.Order.OrderNumber}}</strong> has been received.</p>
    <table border="0" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
        <tr style="background: #f8f9fa;"><th align="left">Item</th><th align="right">Qty</th><th align="right">Unit TTC</th><th align="right">Total TTC</th></tr>
        {{range .Order.Items}}
        <tr>
            <td>{{.Name}}</td>
            <td align="right">{{.Quantity}}</td>
            <td align="right">{{euros .UnitPriceTTC}}</td>
            <td align="right">{{euros .TotalTTC}}</td>
        </tr>
        {{end}}
    </table>
    <p>
        Subtotal HT: {{euros .Order.SubtotalHT}}<br>
        VAT: {{euros .Order.VATAmount}}<br>
        Delivery ({{.Order.DeliveryMethod}}): {{euros .Order.DeliveryCost}}<br>
        <strong>Total TTC: {{euros .Order.TotalTTC}}</strong>
    </p>
    <p>Payment: {{.Order.PaymentMethod}}</p>
    <p>{{.CompanyName}}</p>
</body>
</html>
`
