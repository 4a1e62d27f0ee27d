package exchange

import (
	"context"
	"testing"
	"time"

	"github.com/favianharya/SpendWise/internal/core"
	"github.com/favianharya/SpendWise/internal/state"
)

func incomingDataset() *Dataset {
	return &Dataset{
		Expenses: []core.Expense{
			{ID: "e1", Amount: 100, CategoryID: "food", Date: core.NewDate(2026, 3, 1)},
			{ID: "e2", Amount: 200, CategoryID: "bills", Date: core.NewDate(2026, 3, 2)},
		},
		Assets: []core.Asset{
			{ID: "a1", Name: "Antam", Type: core.AssetGold, Quantity: 5},
		},
		Settings: map[string]core.MonthlySetting{
			"2026-03": {Income: 8000000, Limits: map[string]float64{"fun": 700000}},
			"2026-04": {Income: 8500000, Limits: map[string]float64{"fun": 900000}},
		},
		Categories: map[string]core.Category{
			"coffee": {Icon: "☕"},
			"food":   {Icon: "🍜"},
		},
		Timestamp: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestMergeDedupsById(t *testing.T) {
	st := state.New()
	st.Expenses = []core.Expense{
		{ID: "e1", Amount: 999, CategoryID: "local", Date: core.NewDate(2026, 2, 1)},
		{ID: "local-only", Amount: 1, CategoryID: "food", Date: core.NewDate(2026, 2, 2)},
	}

	s := Merge(st, incomingDataset())
	if s.NewExpenses != 1 {
		t.Fatalf("NewExpenses = %d, want 1", s.NewExpenses)
	}
	if len(st.Expenses) != 3 {
		t.Fatalf("len = %d, want 3", len(st.Expenses))
	}
	// The colliding id keeps the local record untouched.
	if st.Expenses[0].Amount != 999 || st.Expenses[0].CategoryID != "local" {
		t.Fatalf("local record overwritten: %+v", st.Expenses[0])
	}
	// Survivors append after local records in incoming order.
	if st.Expenses[2].ID != "e2" {
		t.Fatalf("appended = %s, want e2", st.Expenses[2].ID)
	}
}

func TestMergeIdempotent(t *testing.T) {
	st := state.New()
	in := incomingDataset()

	first := Merge(st, in)
	if first.Empty() {
		t.Fatal("first merge should change something")
	}
	expenses, assets := len(st.Expenses), len(st.Assets)

	second := Merge(st, incomingDataset())
	if second.NewExpenses != 0 || second.NewAssets != 0 || second.NewPeriods != 0 || second.NewCategories != 0 {
		t.Fatalf("second merge = %+v, want only merged periods", second)
	}
	if len(st.Expenses) != expenses || len(st.Assets) != assets {
		t.Fatal("second merge duplicated records")
	}
	if st.Settings["2026-03"].Income != 8000000 {
		t.Fatalf("settings drifted: %+v", st.Settings["2026-03"])
	}
}

func TestMergeSettingsAsymmetry(t *testing.T) {
	st := state.New()
	st.Settings["2026-03"] = core.MonthlySetting{
		Income: 9000000,
		Groups: []core.BudgetGroup{{ID: "fun", Name: "Fun", Limit: 500000}},
		Limits: map[string]float64{"fun": 500000, "essentials": 3000000},
	}

	s := Merge(st, incomingDataset())
	if s.MergedPeriods != 1 || s.NewPeriods != 1 {
		t.Fatalf("summary = %+v", s)
	}

	merged := st.Settings["2026-03"]
	// Local income and groups are kept; incoming limits win per group.
	if merged.Income != 9000000 {
		t.Fatalf("income = %v, want local 9000000", merged.Income)
	}
	if len(merged.Groups) != 1 || merged.Groups[0].ID != "fun" {
		t.Fatalf("groups = %+v, want local kept", merged.Groups)
	}
	if merged.Limits["fun"] != 700000 {
		t.Fatalf("fun limit = %v, want incoming 700000", merged.Limits["fun"])
	}
	if merged.Limits["essentials"] != 3000000 {
		t.Fatalf("essentials limit = %v, want local kept", merged.Limits["essentials"])
	}

	adopted := st.Settings["2026-04"]
	if adopted.Income != 8500000 || adopted.Limits["fun"] != 900000 {
		t.Fatalf("absent period not adopted wholesale: %+v", adopted)
	}
}

func TestMergeSettingsNilLocalLimits(t *testing.T) {
	st := state.New()
	st.Settings["2026-03"] = core.MonthlySetting{Income: 9000000}

	Merge(st, incomingDataset())
	if st.Settings["2026-03"].Limits["fun"] != 700000 {
		t.Fatalf("limits = %+v", st.Settings["2026-03"].Limits)
	}
}

func TestMergeCategoriesLocalWins(t *testing.T) {
	st := state.New()
	st.Categories["food"] = core.Category{Icon: "🍔", Name: "Makanan"}

	s := Merge(st, incomingDataset())
	if s.NewCategories != 1 {
		t.Fatalf("NewCategories = %d, want 1 (coffee)", s.NewCategories)
	}
	if st.Categories["food"].Name != "Makanan" {
		t.Fatalf("local customization overwritten: %+v", st.Categories["food"])
	}
	if st.Categories["coffee"].Icon != "☕" {
		t.Fatal("new category not adopted")
	}
}

func TestPreviewPure(t *testing.T) {
	st := state.New()
	in := incomingDataset()

	s := Preview(st, in)
	if s.NewExpenses != 2 || s.NewAssets != 1 || s.NewPeriods != 2 || s.NewCategories != 2 {
		t.Fatalf("summary = %+v", s)
	}
	if len(st.Expenses) != 0 || len(st.Assets) != 0 || len(st.Settings) != 0 || len(st.Categories) != 0 {
		t.Fatal("preview mutated state")
	}
}

func TestMergeAdoptedSettingIsACopy(t *testing.T) {
	st := state.New()
	in := incomingDataset()
	Merge(st, in)

	in.Settings["2026-04"].Limits["fun"] = 1
	if st.Settings["2026-04"].Limits["fun"] != 900000 {
		t.Fatal("adopted setting aliases incoming dataset")
	}
}

func TestCommitPersists(t *testing.T) {
	ctx := context.Background()
	st := state.New()
	store := state.NewMemStore()
	Merge(st, incomingDataset())

	if err := Commit(ctx, store, st); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	reloaded := state.Load(ctx, store)
	if len(reloaded.Expenses) != 2 || len(reloaded.Assets) != 1 {
		t.Fatalf("reloaded = %d expenses, %d assets", len(reloaded.Expenses), len(reloaded.Assets))
	}
	if reloaded.Settings["2026-04"].Income != 8500000 {
		t.Fatal("settings not committed")
	}
	if reloaded.Categories["coffee"].Icon != "☕" {
		t.Fatal("categories not committed")
	}
}

func TestSummaryString(t *testing.T) {
	s := Summary{NewExpenses: 3, MergedPeriods: 1}
	want := "3 new expenses, 0 new assets, 0 new periods, 1 merged periods, 0 new categories"
	if s.String() != want {
		t.Fatalf("String() = %q", s.String())
	}
	if s.Empty() {
		t.Fatal("non-zero summary reported empty")
	}
	if !(Summary{}).Empty() {
		t.Fatal("zero summary not empty")
	}
}
