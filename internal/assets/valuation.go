// Package assets tracks non-cash holdings and computes their current value,
// including formula-driven valuations for metals and deposits.
package assets

import (
	"github.com/favianharya/SpendWise/internal/core"
)

// GramsPerTroyOunce converts commodity feed prices (quoted per troy ounce)
// to the per-gram prices stored in the cache.
const GramsPerTroyOunce = 31.1035

// CurrentValue computes the authoritative value of one asset. It is a pure
// function of its inputs so it can be recomputed on every render and in
// tests without side effects.
//
// Gold and silver are priced quantity x cached price per gram when a live
// price is available, falling back to the stored value otherwise. Deposits
// earn post-tax simple interest on the principal. Every other type stores
// its value directly.
func CurrentValue(a core.Asset, pc core.MetalPriceCache) float64 {
	switch a.Type {
	case core.AssetGold:
		if pc.Gold > 0 {
			return a.Quantity * pc.Gold
		}
		return a.Value
	case core.AssetSilver:
		if pc.Silver > 0 {
			return a.Quantity * pc.Silver
		}
		return a.Value
	case core.AssetDeposit:
		netInterest := a.Value * (a.InterestRate / 100) * (a.PeriodMonths / 12) * (1 - a.TaxRate/100)
		return a.Value + netInterest
	default:
		return a.Value
	}
}

// TotalValue sums the current value of all holdings.
func TotalValue(holdings []core.Asset, pc core.MetalPriceCache) float64 {
	var total float64
	for _, a := range holdings {
		total += CurrentValue(a, pc)
	}
	return total
}
