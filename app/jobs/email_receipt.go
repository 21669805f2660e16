package jobs

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/mail"
)

const EmailReceiptName = "email_receipt"

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"naira": Naira,
}).Parse(`<h2>Thank you, {{.CustomerName}}</h2>
<p>Your purchase is confirmed.</p>
<table>
  <tr><td>Receipt</td><td><strong>{{.ReceiptID}}</strong></td></tr>
  <tr><td>Product</td><td>{{.ProductName}}</td></tr>
  <tr><td>Unit tag</td><td>{{.UnitTag}}</td></tr>
  <tr><td>Price</td><td>{{naira .Price}}</td></tr>
  <tr><td>Date</td><td>{{.CreatedAt.Format "02 Jan 2006 15:04"}}</td></tr>
</table>
<p>Keep this receipt ID for warranty and support.</p>
`))

// EmailReceipt sends the customer a copy of their receipt. Receipts without
// a customer email are skipped.
type EmailReceipt struct {
	Receipt models.Order `json:"receipt"`

	mailer mail.Sender
}

// NewEmailReceipt returns a job bound to mailer, ready to be decoded into.
func NewEmailReceipt(mailer mail.Sender) *EmailReceipt {
	return &EmailReceipt{mailer: mailer}
}

func (j *EmailReceipt) JobName() string { return EmailReceiptName }

// Naira formats a whole-naira price with thousands separators: ₦1,850,000.
func Naira(n int64) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + "₦" + b.String()
}

// RenderReceipt renders the receipt email body.
func RenderReceipt(o models.Order) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, o); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (j *EmailReceipt) Handle(ctx context.Context) error {
	if j.Receipt.CustomerEmail == nil || *j.Receipt.CustomerEmail == "" {
		return nil
	}
	if j.mailer == nil {
		return fmt.Errorf("email receipt %s: no mailer", j.Receipt.ReceiptID)
	}

	body, err := RenderReceipt(j.Receipt)
	if err != nil {
		return fmt.Errorf("email receipt %s: %w", j.Receipt.ReceiptID, err)
	}
	err = j.mailer.Send(ctx, mail.Message{
		To:      []string{*j.Receipt.CustomerEmail},
		Subject: "Your receipt " + j.Receipt.ReceiptID,
		Body:    body,
		HTML:    true,
	})
	if err != nil {
		return fmt.Errorf("email receipt %s: %w", j.Receipt.ReceiptID, err)
	}
	logger.WithCtx(ctx).Info("receipt emailed", "receipt_id", j.Receipt.ReceiptID)
	return nil
}
