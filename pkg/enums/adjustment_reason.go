package enums

import "fmt"

// AdjustmentReason labels why a stock level changed.
type AdjustmentReason string

const (
	AdjustmentReasonManual     AdjustmentReason = "manual"
	AdjustmentReasonRestock    AdjustmentReason = "restock"
	AdjustmentReasonSale       AdjustmentReason = "sale"
	AdjustmentReasonDamage     AdjustmentReason = "damage"
	AdjustmentReasonCorrection AdjustmentReason = "correction"
)

var validAdjustmentReasons = []AdjustmentReason{
	AdjustmentReasonManual,
	AdjustmentReasonRestock,
	AdjustmentReasonSale,
	AdjustmentReasonDamage,
	AdjustmentReasonCorrection,
}

// String implements fmt.Stringer.
func (a AdjustmentReason) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdjustmentReason.
func (a AdjustmentReason) IsValid() bool {
	for _, candidate := range validAdjustmentReasons {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdjustmentReason converts raw input into an AdjustmentReason.
func ParseAdjustmentReason(value string) (AdjustmentReason, error) {
	for _, candidate := range validAdjustmentReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adjustment reason %q", value)
}
