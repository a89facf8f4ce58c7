package valueobject

import "fmt"

// RemittancePurpose is the declared purpose code of a transfer.
type RemittancePurpose struct {
	value string
}

var (
	PurposeFamilySupport    = RemittancePurpose{"family_support"}
	PurposeEducation        = RemittancePurpose{"education"}
	PurposeMedical          = RemittancePurpose{"medical"}
	PurposeBusiness         = RemittancePurpose{"business"}
	PurposeGift             = RemittancePurpose{"gift"}
	PurposeDonation         = RemittancePurpose{"donation"}
	PurposeLoanRepayment    = RemittancePurpose{"loan_repayment"}
	PurposeSalary           = RemittancePurpose{"salary"}
	PurposePropertyPurchase = RemittancePurpose{"property_purchase"}
	PurposeUtility          = RemittancePurpose{"utility"}
	PurposeOther            = RemittancePurpose{"other"}
)

var validPurposes = map[string]RemittancePurpose{
	"family_support":    PurposeFamilySupport,
	"education":         PurposeEducation,
	"medical":           PurposeMedical,
	"business":          PurposeBusiness,
	"gift":              PurposeGift,
	"donation":          PurposeDonation,
	"loan_repayment":    PurposeLoanRepayment,
	"salary":            PurposeSalary,
	"property_purchase": PurposePropertyPurchase,
	"utility":           PurposeUtility,
	"other":             PurposeOther,
}

// NewRemittancePurpose validates and creates a RemittancePurpose from a string.
func NewRemittancePurpose(s string) (RemittancePurpose, error) {
	if p, ok := validPurposes[s]; ok {
		return p, nil
	}
	return RemittancePurpose{}, fmt.Errorf("invalid remittance purpose: %q", s)
}

// String returns the string representation of the purpose.
func (p RemittancePurpose) String() string {
	return p.value
}

// IsZero returns true if no purpose was declared.
func (p RemittancePurpose) IsZero() bool {
	return p.value == ""
}
