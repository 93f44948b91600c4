package valueobject

import "fmt"

// AmortizationType tags an installment schedule with its amortization scheme.
type AmortizationType struct {
	value string
}

const (
	amortizationSAC   = "SAC"
	amortizationPRICE = "PRICE"
)

var (
	// AmortizationSAC is the constant-amortization scheme.
	AmortizationSAC = AmortizationType{value: amortizationSAC}
	// AmortizationPRICE is the constant-payment (French) scheme.
	AmortizationPRICE = AmortizationType{value: amortizationPRICE}
)

var validAmortizationTypes = map[string]AmortizationType{
	amortizationSAC:   AmortizationSAC,
	amortizationPRICE: AmortizationPRICE,
}

// AmortizationTypes lists the schemes in presentation order.
func AmortizationTypes() []AmortizationType {
	return []AmortizationType{AmortizationSAC, AmortizationPRICE}
}

// NewAmortizationType creates an AmortizationType from its tag.
func NewAmortizationType(s string) (AmortizationType, error) {
	v, ok := validAmortizationTypes[s]
	if !ok {
		return AmortizationType{}, fmt.Errorf("invalid amortization type: %q", s)
	}
	return v, nil
}

// String returns the tag.
func (a AmortizationType) String() string { return a.value }

// IsZero returns true if the type has not been initialised.
func (a AmortizationType) IsZero() bool { return a.value == "" }

// Equal returns true when both types carry the same tag.
func (a AmortizationType) Equal(other AmortizationType) bool { return a.value == other.value }
