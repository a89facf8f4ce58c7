package valueobject

import (
	"encoding/json"
	"fmt"
)

// PayoutMethodKind discriminates the payout method union.
type PayoutMethodKind string

const (
	PayoutMethodBankTransfer PayoutMethodKind = "bank_transfer"
	PayoutMethodCard         PayoutMethodKind = "card"
	PayoutMethodWallet       PayoutMethodKind = "wallet"
	PayoutMethodCashPickup   PayoutMethodKind = "cash_pickup"
)

// BankTransferDetails describes a bank account destination.
type BankTransferDetails struct {
	AccountNumber string `json:"account_number"`
	RoutingNumber string `json:"routing_number,omitempty"`
	IBAN          string `json:"iban,omitempty"`
	BIC           string `json:"bic,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	BankCountry   string `json:"bank_country,omitempty"`
}

// CardPayoutDetails describes a push-to-card destination.
type CardPayoutDetails struct {
	CardToken string `json:"card_token"`
	Network   string `json:"network,omitempty"`
}

// WalletPayoutDetails describes a digital or mobile-money wallet destination.
type WalletPayoutDetails struct {
	WalletType string `json:"wallet_type"`
	WalletID   string `json:"wallet_id"`
}

// CashPickupDetails describes a cash pick-up location.
type CashPickupDetails struct {
	AgentID  string `json:"agent_id,omitempty"`
	Location string `json:"location,omitempty"`
}

// PayoutMethod is a tagged union over the supported disbursement destinations.
// Exactly one of the detail fields is set, matching Kind.
type PayoutMethod struct {
	kind   PayoutMethodKind
	bank   *BankTransferDetails
	card   *CardPayoutDetails
	wallet *WalletPayoutDetails
	cash   *CashPickupDetails
}

// NewBankTransferMethod creates a bank-transfer payout method.
func NewBankTransferMethod(details BankTransferDetails) (PayoutMethod, error) {
	if details.AccountNumber == "" && details.IBAN == "" {
		return PayoutMethod{}, fmt.Errorf("bank transfer requires an account number or IBAN")
	}
	return PayoutMethod{kind: PayoutMethodBankTransfer, bank: &details}, nil
}

// NewCardPayoutMethod creates a push-to-card payout method.
func NewCardPayoutMethod(details CardPayoutDetails) (PayoutMethod, error) {
	if details.CardToken == "" {
		return PayoutMethod{}, fmt.Errorf("card payout requires a card token")
	}
	return PayoutMethod{kind: PayoutMethodCard, card: &details}, nil
}

// NewWalletPayoutMethod creates a wallet payout method.
func NewWalletPayoutMethod(details WalletPayoutDetails) (PayoutMethod, error) {
	if details.WalletID == "" {
		return PayoutMethod{}, fmt.Errorf("wallet payout requires a wallet id")
	}
	return PayoutMethod{kind: PayoutMethodWallet, wallet: &details}, nil
}

// NewCashPickupMethod creates a cash pick-up payout method.
func NewCashPickupMethod(details CashPickupDetails) PayoutMethod {
	return PayoutMethod{kind: PayoutMethodCashPickup, cash: &details}
}

// Kind returns the discriminator of the union.
func (m PayoutMethod) Kind() PayoutMethodKind { return m.kind }

// Bank returns the bank transfer details; valid only when Kind is bank_transfer.
func (m PayoutMethod) Bank() *BankTransferDetails { return m.bank }

// Card returns the card payout details; valid only when Kind is card.
func (m PayoutMethod) Card() *CardPayoutDetails { return m.card }

// Wallet returns the wallet payout details; valid only when Kind is wallet.
func (m PayoutMethod) Wallet() *WalletPayoutDetails { return m.wallet }

// Cash returns the cash pick-up details; valid only when Kind is cash_pickup.
func (m PayoutMethod) Cash() *CashPickupDetails { return m.cash }

// IsZero returns true if no payout method has been set.
func (m PayoutMethod) IsZero() bool { return m.kind == "" }

// payoutMethodJSON is the persisted wire shape of the union.
type payoutMethodJSON struct {
	Kind   PayoutMethodKind     `json:"kind"`
	Bank   *BankTransferDetails `json:"bank_transfer,omitempty"`
	Card   *CardPayoutDetails   `json:"card,omitempty"`
	Wallet *WalletPayoutDetails `json:"wallet,omitempty"`
	Cash   *CashPickupDetails   `json:"cash_pickup,omitempty"`
}

// MarshalJSON serializes the union with its discriminator.
func (m PayoutMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(payoutMethodJSON{
		Kind:   m.kind,
		Bank:   m.bank,
		Card:   m.card,
		Wallet: m.wallet,
		Cash:   m.cash,
	})
}

// UnmarshalJSON restores the union, rejecting unknown discriminators.
func (m *PayoutMethod) UnmarshalJSON(data []byte) error {
	var raw payoutMethodJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case PayoutMethodBankTransfer, PayoutMethodCard, PayoutMethodWallet, PayoutMethodCashPickup:
	default:
		return fmt.Errorf("invalid payout method kind: %q", raw.Kind)
	}
	m.kind = raw.Kind
	m.bank = raw.Bank
	m.card = raw.Card
	m.wallet = raw.Wallet
	m.cash = raw.Cash
	return nil
}
