package fungible

import (
	"math"
	"strconv"
	"strings"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
)

// AccountingValue is an asset amount expressed in whole units, before it is
// scaled by the asset's precision into atomic units.
type AccountingValue float64

// digitGroupSeparators are accepted inside amounts and dropped before
// parsing; "." is the decimal point.
var digitGroupSeparators = strings.NewReplacer(",", "", "_", "", "'", "")

// ParseAccountingValue parses an amount such as "1_000.5" or "1'000,000".
func ParseAccountingValue(s string) (AccountingValue, error) {
	clean := digitGroupSeparators.Replace(s)
	if clean == "" || strings.Count(clean, ".") > 1 ||
		strings.Trim(clean, "0123456789.") != "" {

		return 0, rgb.Errorf(rgb.ErrParse, "invalid amount %q", s)
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, rgb.Errorf(rgb.ErrParse, "invalid amount %q", s)
	}
	return AccountingValue(v), nil
}

// String renders the shortest decimal form that parses back to the same
// value.
func (v AccountingValue) String() string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

// Atomic converts the value into atomic units for an asset with the given
// decimal precision. It fails when the value is negative, not finite, or has
// more fractional digits than the precision allows.
func (v AccountingValue) Atomic(precision uint8) (uint64, error) {
	f := float64(v)
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, rgb.Errorf(rgb.ErrParse, "amount %v is not representable", v)
	}
	scaled := f * math.Pow10(int(precision))
	rounded := math.Round(scaled)
	// float64(math.MaxUint64) rounds up to 2^64.
	if rounded >= math.MaxUint64 {
		return 0, rgb.Errorf(rgb.ErrParse, "amount %v overflows", v)
	}
	if math.Abs(scaled-rounded) > 1e-6*math.Max(1, rounded) {
		return 0, rgb.Errorf(rgb.ErrParse,
			"amount %v exceeds precision of %d digits", v, precision)
	}
	return uint64(rounded), nil
}
