// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Service renders order invoices as PDF
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// GenerateInvoice renders the invoice PDF for an order. Amounts are shown
// both HT and TTC, with the VAT line in between.
func (s *Service) GenerateInvoice(ord *order.Order) (*bytes.Buffer, error) {
	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", ord.OrderNumber),
		InvoiceDate:   time.Now().Format("02/01/2006"),
		DueDate:       time.Now().AddDate(0, 0, 30).Format("02/01/2006"),
		Order:         ord,
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
			Phone:   s.config.App.CompanyPhone,
			Email:   s.config.App.CompanyEmail,
			VATID:   s.config.App.CompanyVATID,
		},
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(data InvoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Funcs(template.FuncMap{
		"euros": formatEuros,
	}).Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// formatEuros renders cents as a euro amount.
func formatEuros(cents int64) string {
	return fmt.Sprintf("%.2f €", float64(cents)/100)
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string       `json:"invoice_number"`
	InvoiceDate   string       `json:"invoice_date"`
	DueDate       string       `json:"due_date"`
	Order         *order.Order `json:"order"`
	Company       CompanyInfo  `json:"company"`
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	VATID   string `json:"vat_id"`
}

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { display: flex; justify-content: space-between; margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .company-info { flex: 1; }
        .invoice-info { text-align: right; flex: 1; }
        .invoice-title { font-size: 28px; font-weight: bold; color: #b45309; margin-bottom: 10px; }
        .addresses { display: flex; justify-content: space-between; margin-bottom: 30px; }
        .address-block { flex: 1; margin-right: 20px; }
        .section-title { font-size: 16px; font-weight: bold; margin-bottom: 10px; color: #374151; }
        .items-table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
        .items-table th, .items-table td { border: 1px solid #ddd; padding: 12px 8px; text-align: left; }
        .items-table th { background-color: #f8f9fa; font-weight: bold; }
        .items-table .num { text-align: right; width: 90px; }
        .totals { float: right; width: 320px; }
        .totals table { width: 100%; border-collapse: collapse; }
        .totals td { padding: 8px; border-bottom: 1px solid #eee; }
        .totals .label { text-align: right; font-weight: bold; }
        .totals .amount { text-align: right; width: 110px; }
        .total-row { font-size: 18px; font-weight: bold; border-top: 2px solid #333 !important; }
        .footer { margin-top: 50px; padding-top: 20px; border-top: 1px solid #eee; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <h1>{{.Company.Name}}</h1>
            <p>{{.Company.Address}}</p>
            <p>Tel: {{.Company.Phone}}</p>
            <p>Email: {{.Company.Email}}</p>
            <p>TVA: {{.Company.VATID}}</p>
        </div>
        <div class="invoice-info">
            <div class="invoice-title">INVOICE</div>
            <p><strong>Invoice #:</strong> {{.InvoiceNumber}}</p>
            <p><strong>Invoice Date:</strong> {{.InvoiceDate}}</p>
            <p><strong>Due Date:</strong> {{.DueDate}}</p>
            <p><strong>Order #:</strong> {{.Order.OrderNumber}}</p>
            <p><strong>Payment:</strong> {{.Order.PaymentMethod}}</p>
        </div>
    </div>

    <div class="addresses">
        <div class="address-block">
            <div class="section-title">Bill To:</div>
            <p><strong>{{.Order.BillingAddress.FirstName}} {{.Order.BillingAddress.LastName}}</strong></p>
            {{if .Order.BillingAddress.Company}}<p>{{.Order.BillingAddress.Company}}</p>{{end}}
            <p>{{.Order.BillingAddress.AddressLine1}}</p>
            {{if .Order.BillingAddress.AddressLine2}}<p>{{.Order.BillingAddress.AddressLine2}}</p>{{end}}
            <p>{{.Order.BillingAddress.PostalCode}} {{.Order.BillingAddress.City}}</p>
            <p>{{.Order.BillingAddress.Country}}</p>
            <p>Email: {{.Order.Email}}</p>
        </div>
        <div class="address-block">
            <div class="section-title">Deliver To:</div>
            <p><strong>{{.Order.DeliveryAddress.FirstName}} {{.Order.DeliveryAddress.LastName}}</strong></p>
            {{if .Order.DeliveryAddress.Company}}<p>{{.Order.DeliveryAddress.Company}}</p>{{end}}
            <p>{{.Order.DeliveryAddress.AddressLine1}}</p>
            {{if .Order.DeliveryAddress.AddressLine2}}<p>{{.Order.DeliveryAddress.AddressLine2}}</p>{{end}}
            <p>{{.Order.DeliveryAddress.PostalCode}} {{.Order.DeliveryAddress.City}}</p>
            <p>{{.Order.DeliveryAddress.Country}}</p>
            {{if .Order.DeliveryAddress.Phone}}<p>Tel: {{.Order.DeliveryAddress.Phone}}</p>{{end}}
            <p>{{.Order.DeliveryMethod}}</p>
        </div>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th class="num">Qty</th>
                <th class="num">Unit HT</th>
                <th class="num">Unit TTC</th>
                <th class="num">Total TTC</th>
            </tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td><strong>{{.Name}}</strong></td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{euros .UnitPriceHT}}</td>
                <td class="num">{{euros .UnitPriceTTC}}</td>
                <td class="num">{{euros .TotalTTC}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal HT:</td>
                <td class="amount">{{euros .Order.SubtotalHT}}</td>
            </tr>
            <tr>
                <td class="label">VAT:</td>
                <td class="amount">{{euros .Order.VATAmount}}</td>
            </tr>
            <tr>
                <td class="label">Delivery:</td>
                <td class="amount">{{euros .Order.DeliveryCost}}</td>
            </tr>
            <tr class="total-row">
                <td class="label">Total TTC:</td>
                <td class="amount">{{euros .Order.TotalTTC}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for your order.</p>
        <p>Questions about this invoice? Contact us at {{.Company.Email}} or {{.Company.Phone}}</p>
    </div>
</body>
</html>
`
