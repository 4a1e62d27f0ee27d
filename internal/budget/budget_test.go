package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/favianharya/SpendWise/internal/core"
	"github.com/favianharya/SpendWise/internal/state"
)

func newTestStore() (*Store, *state.AppState, state.Store) {
	st := state.New()
	mem := state.NewMemStore()
	return New(st, mem), st, mem
}

var march = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestResolveExplicit(t *testing.T) {
	b, st, _ := newTestStore()
	st.Settings["2026-03"] = core.MonthlySetting{Income: 9000000}

	ms := b.Resolve("2026-03", march)
	if ms.Income != 9000000 {
		t.Fatalf("income = %v, want 9000000", ms.Income)
	}
}

func TestResolveInheritsFromCurrentMonth(t *testing.T) {
	b, st, _ := newTestStore()
	st.Settings["2026-03"] = core.MonthlySetting{
		Income: 9000000,
		Groups: []core.BudgetGroup{
			{ID: "essentials", Name: "Essentials", CategoryIDs: []string{"food", "bills"}, Limit: 3000000},
		},
	}

	ms := b.Resolve("2026-07", march)
	if ms.Income != 9000000 || len(ms.Groups) != 1 {
		t.Fatalf("inherited = %+v", ms)
	}

	// Mutating the inherited copy must not leak into the source month.
	ms.Groups[0].Name = "Changed"
	ms.Groups[0].CategoryIDs[0] = "changed"
	src := st.Settings["2026-03"].Groups[0]
	if src.Name != "Essentials" || src.CategoryIDs[0] != "food" {
		t.Fatalf("inheritance aliased source groups: %+v", src)
	}
}

func TestResolveNothingConfigured(t *testing.T) {
	b, _, _ := newTestStore()
	ms := b.Resolve("2026-07", march)
	if ms.Income != 0 || len(ms.Groups) != 0 {
		t.Fatalf("expected zero configuration, got %+v", ms)
	}
}

func TestSaveValidation(t *testing.T) {
	ctx := context.Background()
	b, _, _ := newTestStore()

	groups := []core.BudgetGroup{{ID: "g", Name: "G", Limit: 5000000}}
	if err := b.Save(ctx, "2026-03", groups, 4000000); !errors.Is(err, core.ErrBudgetOverIncome) {
		t.Fatalf("got %v, want ErrBudgetOverIncome", err)
	}
	if err := b.Save(ctx, "2026-03", groups, 0); !errors.Is(err, core.ErrIncomeRequired) {
		t.Fatalf("got %v, want ErrIncomeRequired", err)
	}
	bad := []core.BudgetGroup{{ID: "g", Name: "", Limit: 100}}
	if err := b.Save(ctx, "2026-03", bad, 1000); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("got %v, want ErrEmptyName", err)
	}
}

func TestSaveWritesLimitsTogether(t *testing.T) {
	ctx := context.Background()
	b, st, mem := newTestStore()

	groups := []core.BudgetGroup{
		{ID: "essentials", Name: "Essentials", CategoryIDs: []string{"food"}, Limit: 3000000},
		{ID: "fun", Name: "Fun", CategoryIDs: []string{"entertainment"}, Limit: 1000000},
	}
	if err := b.Save(ctx, "2026-03", groups, 9000000); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ms := st.Settings["2026-03"]
	if ms.Limits["essentials"] != 3000000 || ms.Limits["fun"] != 1000000 {
		t.Fatalf("limits = %v", ms.Limits)
	}

	// Mutating the caller's slice after save must not alter the record.
	groups[0].Limit = 0
	groups[0].CategoryIDs[0] = "changed"
	if st.Settings["2026-03"].Groups[0].CategoryIDs[0] != "food" {
		t.Fatal("save aliased caller's groups")
	}

	reloaded := state.Load(ctx, mem)
	if reloaded.Settings["2026-03"].Income != 9000000 {
		t.Fatal("save not persisted")
	}
}

func TestSpentInGroup(t *testing.T) {
	b, st, _ := newTestStore()
	st.Expenses = []core.Expense{
		{ID: "a", Amount: 100, CategoryID: "food", Date: core.NewDate(2026, 3, 1)},
		{ID: "b", Amount: 50, CategoryID: "bills", Date: core.NewDate(2026, 3, 2)},
		{ID: "c", Amount: 999, CategoryID: "food", Date: core.NewDate(2026, 4, 1)},
		{ID: "d", Amount: 7, CategoryID: "entertainment", Date: core.NewDate(2026, 3, 3)},
	}
	g := core.BudgetGroup{ID: "essentials", CategoryIDs: []string{"food", "bills"}}
	if got := b.SpentInGroup(g, "2026-03"); got != 150 {
		t.Fatalf("SpentInGroup = %v, want 150", got)
	}
}

func TestGroupLimit(t *testing.T) {
	g := core.BudgetGroup{ID: "fun", Limit: 500}
	withMap := core.MonthlySetting{Limits: map[string]float64{"fun": 800}}
	if got := GroupLimit(withMap, g); got != 800 {
		t.Fatalf("limits map should win, got %v", got)
	}
	if got := GroupLimit(core.MonthlySetting{}, g); got != 500 {
		t.Fatalf("legacy fallback = %v, want 500", got)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		spent, limit float64
		want         Status
	}{
		{0, 1000, StatusNormal},
		{799, 1000, StatusNormal},
		{800, 1000, StatusWarning},
		{999, 1000, StatusWarning},
		{1000, 1000, StatusExceeded},
		{1500, 1000, StatusExceeded},
		{0, 0, StatusNormal},
		{1, 0, StatusExceeded},
	}
	for i, tc := range cases {
		if got := Classify(tc.spent, tc.limit); got != tc.want {
			t.Fatalf("case %d Classify(%v, %v) = %v, want %v", i, tc.spent, tc.limit, got, tc.want)
		}
	}
}

func TestStatusString(t *testing.T) {
	if StatusNormal.String() != "normal" || StatusWarning.String() != "warning" || StatusExceeded.String() != "exceeded" {
		t.Fatal("status strings wrong")
	}
}
