package assets

import (
	"math"
	"testing"
	"time"

	"github.com/favianharya/SpendWise/internal/core"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCurrentValueMetals(t *testing.T) {
	prices := core.MetalPriceCache{Gold: 1500000, Silver: 18000, LastUpdated: time.Now()}

	gold := core.Asset{Type: core.AssetGold, Quantity: 5, Value: 6000000}
	if got := CurrentValue(gold, prices); !almostEqual(got, 7500000) {
		t.Fatalf("gold = %v, want 7500000", got)
	}
	silver := core.Asset{Type: core.AssetSilver, Quantity: 100, Value: 1}
	if got := CurrentValue(silver, prices); !almostEqual(got, 1800000) {
		t.Fatalf("silver = %v, want 1800000", got)
	}
}

func TestCurrentValueMetalFallback(t *testing.T) {
	// No live price: the stored value is the answer.
	gold := core.Asset{Type: core.AssetGold, Quantity: 5, Value: 6000000}
	if got := CurrentValue(gold, core.MetalPriceCache{}); got != 6000000 {
		t.Fatalf("gold without price = %v, want stored 6000000", got)
	}
	silver := core.Asset{Type: core.AssetSilver, Quantity: 10, Value: 150000}
	if got := CurrentValue(silver, core.MetalPriceCache{Gold: 1500000}); got != 150000 {
		t.Fatalf("silver without price = %v, want stored 150000", got)
	}
}

func TestCurrentValueDeposit(t *testing.T) {
	// 1,000,000 at 6% for 12 months with 20% interest tax: 1,048,000.
	d := core.Asset{
		Type:         core.AssetDeposit,
		Value:        1000000,
		InterestRate: 6,
		PeriodMonths: 12,
		TaxRate:      20,
	}
	if got := CurrentValue(d, core.MetalPriceCache{}); !almostEqual(got, 1048000) {
		t.Fatalf("deposit = %v, want 1048000", got)
	}

	halfYear := core.Asset{Type: core.AssetDeposit, Value: 1000000, InterestRate: 6, PeriodMonths: 6, TaxRate: 20}
	if got := CurrentValue(halfYear, core.MetalPriceCache{}); !almostEqual(got, 1024000) {
		t.Fatalf("6-month deposit = %v, want 1024000", got)
	}
}

func TestCurrentValueDirect(t *testing.T) {
	for _, typ := range []core.AssetType{core.AssetStock, core.AssetCrypto, core.AssetCash, core.AssetProperty, core.AssetOther} {
		a := core.Asset{Type: typ, Value: 123456, Quantity: 99}
		if got := CurrentValue(a, core.MetalPriceCache{Gold: 1500000}); got != 123456 {
			t.Fatalf("%s = %v, want stored 123456", typ, got)
		}
	}
}

func TestTotalValue(t *testing.T) {
	prices := core.MetalPriceCache{Gold: 1000000}
	holdings := []core.Asset{
		{Type: core.AssetGold, Quantity: 2},
		{Type: core.AssetCash, Value: 500000},
		{Type: core.AssetDeposit, Value: 1000000, InterestRate: 6, PeriodMonths: 12, TaxRate: 20},
	}
	if got := TotalValue(holdings, prices); !almostEqual(got, 2000000+500000+1048000) {
		t.Fatalf("TotalValue = %v", got)
	}
	if got := TotalValue(nil, prices); got != 0 {
		t.Fatalf("empty TotalValue = %v, want 0", got)
	}
}
