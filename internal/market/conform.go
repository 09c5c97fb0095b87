package market

import (
	"strings"

	"github.com/shopspring/decimal"
)

const conformedTermMonths = 12

// Conformed selects the offers that share the benchmark's commercial shape:
// a fixed rate, a twelve-month term, and no ancillary fees. Fee fields are
// judged per feed; a row is only gated on the fields its own feed carries.
// A nil fee (unknown) and a zero fee are both accepted here, although they
// remain distinct facts everywhere else.
func Conformed(observations []RateObservation) []RateObservation {
	out := make([]RateObservation, 0, len(observations))
	for _, obs := range observations {
		if conforms(obs) {
			out = append(out, obs)
		}
	}
	return out
}

func conforms(obs RateObservation) bool {
	if obs.TermMonths == nil || *obs.TermMonths != conformedTermMonths {
		return false
	}
	if !strings.Contains(strings.ToLower(string(obs.RateType)), "fixed") {
		return false
	}

	switch fees := obs.Fees.(type) {
	case WattBuyFees:
		return nilOrZero(fees.Enrollment) && nilOrZero(fees.Monthly) && nilOrZero(fees.EarlyTermination)
	case OCAPFees:
		return nilOrZero(fees.Cancel)
	default:
		// Rows without a fee shape (wholesale, benchmark) are never offers
		// and never conform.
		return false
	}
}

func nilOrZero(fee *decimal.Decimal) bool {
	return fee == nil || fee.IsZero()
}
