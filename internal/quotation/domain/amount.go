package domain

import "math"

// ItemAmount computes a line amount from its inputs. It rejects negative and
// non-finite operands so a bad item can never poison a stored total.
//
// Pure: no side effects, fully deterministic.
func ItemAmount(quantity, durationDays int64, unitPrice float64) (float64, error) {
	if quantity < 0 || durationDays < 0 {
		return 0, ErrInvalidAmountInput
	}
	if unitPrice < 0 || math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) {
		return 0, ErrInvalidAmountInput
	}

	amount := float64(quantity) * float64(durationDays) * unitPrice
	if math.IsInf(amount, 0) {
		return 0, ErrInvalidAmountInput
	}
	return amount, nil
}

// QuotationTotal sums the items' amounts, recomputing each one from its
// current inputs rather than trusting the stored Amount column. An empty
// slice totals to zero; persistence-level validation rejects it separately.
func QuotationTotal(items []LineItem) (float64, error) {
	var total float64
	for i := range items {
		amount, err := ItemAmount(items[i].Quantity, items[i].DurationDays, items[i].UnitPrice)
		if err != nil {
			return 0, err
		}
		total += amount
	}
	return total, nil
}
