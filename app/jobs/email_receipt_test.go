package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/shashiranjanraj/storefront/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outbox struct {
	sent []mail.Message
	err  error
}

func (o *outbox) Send(_ context.Context, msg mail.Message) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, msg)
	return nil
}

func TestEmailReceiptSendsToCustomer(t *testing.T) {
	box := &outbox{}
	job := NewEmailReceipt(box)
	job.Receipt = receipt()

	require.NoError(t, job.Handle(context.Background()))
	require.Len(t, box.sent, 1)
	msg := box.sent[0]
	assert.Equal(t, []string{"jane@example.com"}, msg.To)
	assert.Equal(t, "Your receipt RCP-1A2B3C4D", msg.Subject)
	assert.True(t, msg.HTML)
	assert.Contains(t, msg.Body, "XPS 13")
	assert.Contains(t, msg.Body, "AB12CD")
	assert.Contains(t, msg.Body, "₦100,000")
	assert.Contains(t, msg.Body, "02 Jan 2026 03:04")
}

func TestEmailReceiptSkipsWithoutEmail(t *testing.T) {
	box := &outbox{}
	job := NewEmailReceipt(box)
	job.Receipt = receipt()
	job.Receipt.CustomerEmail = nil

	require.NoError(t, job.Handle(context.Background()))
	assert.Empty(t, box.sent)
}

func TestEmailReceiptSurfacesSendErrors(t *testing.T) {
	job := NewEmailReceipt(&outbox{err: errors.New("relay down")})
	job.Receipt = receipt()
	assert.ErrorContains(t, job.Handle(context.Background()), "relay down")
}

func TestRenderReceiptEscapesCustomerInput(t *testing.T) {
	o := receipt()
	o.CustomerName = "<script>x</script>"
	body, err := RenderReceipt(o)
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestNaira(t *testing.T) {
	assert.Equal(t, "₦0", Naira(0))
	assert.Equal(t, "₦999", Naira(999))
	assert.Equal(t, "₦1,850,000", Naira(1850000))
	assert.Equal(t, "-₦1,000", Naira(-1000))
}
