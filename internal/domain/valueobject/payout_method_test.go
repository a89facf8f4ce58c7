package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBankTransferMethod(t *testing.T) {
	m, err := NewBankTransferMethod(BankTransferDetails{AccountNumber: "12345678", RoutingNumber: "021000021"})
	require.NoError(t, err)
	assert.Equal(t, PayoutMethodBankTransfer, m.Kind())
	assert.Equal(t, "12345678", m.Bank().AccountNumber)
	assert.Nil(t, m.Card())

	_, err = NewBankTransferMethod(BankTransferDetails{})
	assert.Error(t, err)

	// IBAN alone is enough.
	_, err = NewBankTransferMethod(BankTransferDetails{IBAN: "DE89370400440532013000"})
	assert.NoError(t, err)
}

func TestNewCardPayoutMethod(t *testing.T) {
	m, err := NewCardPayoutMethod(CardPayoutDetails{CardToken: "tok_visa"})
	require.NoError(t, err)
	assert.Equal(t, PayoutMethodCard, m.Kind())

	_, err = NewCardPayoutMethod(CardPayoutDetails{})
	assert.Error(t, err)
}

func TestNewWalletPayoutMethod(t *testing.T) {
	m, err := NewWalletPayoutMethod(WalletPayoutDetails{WalletType: "mobile_money", WalletID: "254700000001"})
	require.NoError(t, err)
	assert.Equal(t, PayoutMethodWallet, m.Kind())

	_, err = NewWalletPayoutMethod(WalletPayoutDetails{WalletType: "mobile_money"})
	assert.Error(t, err)
}

func TestPayoutMethodJSONRoundTrip(t *testing.T) {
	m, err := NewBankTransferMethod(BankTransferDetails{
		AccountNumber: "12345678",
		BIC:           "DEUTDEFF",
		BankCountry:   "DE",
	})
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"bank_transfer"`)

	var decoded PayoutMethod
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, PayoutMethodBankTransfer, decoded.Kind())
	assert.Equal(t, "DEUTDEFF", decoded.Bank().BIC)
}

func TestPayoutMethodUnmarshalRejectsUnknownKind(t *testing.T) {
	var m PayoutMethod
	err := json.Unmarshal([]byte(`{"kind":"carrier_pigeon"}`), &m)
	assert.Error(t, err)
}
