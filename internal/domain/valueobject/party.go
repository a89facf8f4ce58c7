package valueobject

// Address is a postal address attached to a sender or beneficiary.
type Address struct {
	Line1   string `json:"line1,omitempty"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

// FundingMethod describes how the sender funds the remittance.
type FundingMethod struct {
	// Kind is one of "card", "bank_debit", "wallet".
	Kind string `json:"kind"`
	// Token is an opaque gateway token referencing the instrument.
	Token string `json:"token"`
}

// SenderDetails identifies the party funding the remittance.
type SenderDetails struct {
	Name             string         `json:"name"`
	CustomerID       string         `json:"customer_id,omitempty"`
	Email            string         `json:"email,omitempty"`
	Phone            string         `json:"phone,omitempty"`
	PhoneCountryCode string         `json:"phone_country_code,omitempty"`
	Address          *Address       `json:"address,omitempty"`
	FundingMethod    *FundingMethod `json:"funding_method,omitempty"`
}

// BeneficiaryDetails identifies the party receiving the disbursement.
type BeneficiaryDetails struct {
	Name             string        `json:"name"`
	FirstName        string        `json:"first_name,omitempty"`
	LastName         string        `json:"last_name,omitempty"`
	CustomerID       string        `json:"customer_id,omitempty"`
	Email            string        `json:"email,omitempty"`
	Phone            string        `json:"phone,omitempty"`
	PhoneCountryCode string        `json:"phone_country_code,omitempty"`
	Address          *Address      `json:"address,omitempty"`
	PayoutMethod     *PayoutMethod `json:"payout_method,omitempty"`
	Relationship     string        `json:"relationship,omitempty"`
}
