package service

import (
	"sort"

	"github.com/cassiomorais/credits/internal/domain/errors"
)

// Price is a purchasable credit bundle.
type Price struct {
	Credits  int
	Cost     float64
	Currency string
}

// priceTable is the fixed catalog of credit bundles.
var priceTable = map[int]float64{
	250:  5.0,
	750:  12.0,
	1500: 20.0,
}

// PriceFor returns the price of a credit bundle. Amounts outside the catalog
// are a validation error.
func PriceFor(credits int) (Price, error) {
	cost, ok := priceTable[credits]
	if !ok {
		return Price{}, errors.NewValidationError("credits", "no price defined for this amount")
	}
	return Price{Credits: credits, Cost: cost, Currency: "USD"}, nil
}

// AllPrices returns the full catalog sorted by credit amount.
func AllPrices() []Price {
	out := make([]Price, 0, len(priceTable))
	for credits, cost := range priceTable {
		out = append(out, Price{Credits: credits, Cost: cost, Currency: "USD"})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Credits < out[j].Credits })
	return out
}
