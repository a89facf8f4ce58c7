package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrpay/remit/internal/domain/port"
)

func TestWebhookTranslator_Stripe(t *testing.T) {
	translator := NewWebhookTranslator()

	body := []byte(`{
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pay_123", "status": "succeeded", "latest_charge": "ch_9"}}
	}`)

	event, err := translator.Translate("stripe", body)
	require.NoError(t, err)

	assert.Equal(t, "pay_123", event.ReferenceID)
	assert.Equal(t, port.WebhookKindPayment, event.Kind)
	assert.Equal(t, "succeeded", event.Status)
	assert.Equal(t, "ch_9", event.ConnectorReference)
}

func TestWebhookTranslator_StripeStatusMapping(t *testing.T) {
	translator := NewWebhookTranslator()

	tests := []struct {
		stripe string
		want   string
	}{
		{"processing", "pending"},
		{"requires_payment_method", "failed"},
		{"canceled", "cancelled"},
		{"something_new", "something_new"},
	}
	for _, tt := range tests {
		body := []byte(`{"data": {"object": {"id": "pay_123", "status": "` + tt.stripe + `"}}}`)
		event, err := translator.Translate("stripe", body)
		require.NoError(t, err)
		assert.Equal(t, tt.want, event.Status, tt.stripe)
	}
}

func TestWebhookTranslator_Wise(t *testing.T) {
	translator := NewWebhookTranslator()

	body := []byte(`{
		"event_type": "transfers#state-change",
		"data": {"resource": {"id": "po_456"}, "current_state": "outgoing_payment_sent"}
	}`)

	event, err := translator.Translate("wise", body)
	require.NoError(t, err)

	assert.Equal(t, "po_456", event.ReferenceID)
	assert.Equal(t, port.WebhookKindPayout, event.Kind)
	assert.Equal(t, "success", event.Status)
}

func TestWebhookTranslator_Errors(t *testing.T) {
	translator := NewWebhookTranslator()

	_, err := translator.Translate("square", []byte(`{}`))
	assert.Error(t, err)

	_, err = translator.Translate("stripe", []byte(`not json`))
	assert.Error(t, err)

	_, err = translator.Translate("stripe", []byte(`{"data": {"object": {"status": "succeeded"}}}`))
	assert.Error(t, err)

	_, err = translator.Translate("wise", []byte(`{"data": {"current_state": "processing"}}`))
	assert.Error(t, err)
}
