package exchange

import (
	"strings"
	"testing"

	"github.com/favianharya/SpendWise/internal/core"
	"github.com/favianharya/SpendWise/internal/state"
)

func knownCategories(id string) bool {
	switch id {
	case "food", "bills", "transport":
		return true
	}
	return false
}

func TestImportExpensesCSV(t *testing.T) {
	input := strings.Join([]string{
		"Date,Amount,Category,Description",
		"2026-03-14,50000,food,lunch",
		`2026-03-15,12000,transport,"bus, airport line"`,
		"2026-03-16,7500,FOOD,case folded",
		"2026-03-17,3000,mystery,unknown category",
		"not-a-date,100,food,bad date",
		"2026-03-18,zero,food,bad amount",
		"2026-03-19,-5,food,negative",
	}, "\n")

	accepted, skipped, err := ImportExpensesCSV(strings.NewReader(input), knownCategories)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(accepted) != 4 {
		t.Fatalf("accepted = %d, want 4", len(accepted))
	}
	if skipped != 3 {
		t.Fatalf("skipped = %d, want 3", skipped)
	}

	if accepted[1].Description != "bus, airport line" {
		t.Fatalf("quoted field = %q", accepted[1].Description)
	}
	if accepted[2].CategoryID != "food" {
		t.Fatalf("category case folding = %q", accepted[2].CategoryID)
	}
	if accepted[3].CategoryID != "other" {
		t.Fatalf("unknown category = %q, want other", accepted[3].CategoryID)
	}
	for i, e := range accepted {
		if e.ID == "" {
			t.Fatalf("row %d missing fresh id", i)
		}
		if err := e.Validate(); err != nil {
			t.Fatalf("row %d invalid: %v", i, err)
		}
	}
}

func TestImportExpensesCSVNeverDedups(t *testing.T) {
	input := "Date,Amount,Category,Description\n2026-03-14,50000,food,lunch\n"

	first, _, err := ImportExpensesCSV(strings.NewReader(input), knownCategories)
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := ImportExpensesCSV(strings.NewReader(input), knownCategories)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("accepted = %d then %d, want 1 each", len(first), len(second))
	}
	if first[0].ID == second[0].ID {
		t.Fatal("repeated import must get a fresh id, not deduplicate")
	}
}

func TestImportExpensesCSVDecimalComma(t *testing.T) {
	input := "Date,Amount,Category,Description\n2026-03-14,\"12,5\",food,comma decimal\n"
	accepted, skipped, err := ImportExpensesCSV(strings.NewReader(input), knownCategories)
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 0 || len(accepted) != 1 || accepted[0].Amount != 12.5 {
		t.Fatalf("accepted = %+v, skipped = %d", accepted, skipped)
	}
}

func TestImportExpensesCSVMissingColumn(t *testing.T) {
	input := "Date,Amount,Description\n2026-03-14,50000,lunch\n"
	if _, _, err := ImportExpensesCSV(strings.NewReader(input), knownCategories); err == nil {
		t.Fatal("missing Category column should fail the import")
	}
	if _, _, err := ImportExpensesCSV(strings.NewReader(""), knownCategories); err == nil {
		t.Fatal("empty file should fail the import")
	}
}

func TestImportAssetsCSV(t *testing.T) {
	input := strings.Join([]string{
		"Name,Type,Value,Quantity,InterestRate,Period,TaxRate",
		"Antam 5g,gold,6000000,5,,,",
		"Deposito BCA,deposit,1000000,,6,12,20",
		",gold,1,1,,,",
		"Bond thing,bond,1,,,,",
	}, "\n")

	accepted, skipped, err := ImportAssetsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(accepted) != 2 || skipped != 2 {
		t.Fatalf("accepted = %d, skipped = %d", len(accepted), skipped)
	}
	gold := accepted[0]
	if gold.Type != core.AssetGold || gold.Quantity != 5 || gold.InterestRate != 0 {
		t.Fatalf("gold = %+v", gold)
	}
	dep := accepted[1]
	if dep.Type != core.AssetDeposit || dep.InterestRate != 6 || dep.PeriodMonths != 12 || dep.TaxRate != 20 {
		t.Fatalf("deposit = %+v", dep)
	}
}

func TestExportExpensesCSVQuoting(t *testing.T) {
	st := state.New()
	st.Expenses = []core.Expense{
		{ID: "e1", Amount: 50000, CategoryID: "food", Description: `say "hi", twice`, Date: core.NewDate(2026, 3, 14)},
	}

	var sb strings.Builder
	if err := ExportExpensesCSV(&sb, st); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "Date,Amount,Category,Description\n") {
		t.Fatalf("header = %q", out)
	}
	if !strings.Contains(out, `"say ""hi"", twice"`) {
		t.Fatalf("description not quoted: %q", out)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	st := state.New()
	st.Expenses = []core.Expense{
		{ID: "e1", Amount: 50000, CategoryID: "food", Description: "lunch, extra", Date: core.NewDate(2026, 3, 14)},
		{ID: "e2", Amount: 0.5, CategoryID: "transport", Description: "toll", Date: core.NewDate(2026, 3, 15)},
	}

	var sb strings.Builder
	if err := ExportExpensesCSV(&sb, st); err != nil {
		t.Fatal(err)
	}
	back, skipped, err := ImportExpensesCSV(strings.NewReader(sb.String()), knownCategories)
	if err != nil || skipped != 0 {
		t.Fatalf("import back: %v, skipped %d", err, skipped)
	}
	if len(back) != 2 {
		t.Fatalf("round trip = %d rows", len(back))
	}
	if back[0].Amount != 50000 || back[0].Description != "lunch, extra" || back[0].Date.String() != "2026-03-14" {
		t.Fatalf("row = %+v", back[0])
	}
	if back[1].Amount != 0.5 {
		t.Fatalf("fractional amount = %v", back[1].Amount)
	}
}

func TestExportAssetsCSV(t *testing.T) {
	st := state.New()
	st.Assets = []core.Asset{
		{ID: "a1", Name: "Antam 5g", Type: core.AssetGold, Value: 6000000, Quantity: 5},
	}

	var sb strings.Builder
	if err := ExportAssetsCSV(&sb, st); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "Name,Type,Value,Quantity,InterestRate,Period,TaxRate\n") {
		t.Fatalf("header = %q", out)
	}
	if !strings.Contains(out, "Antam 5g,gold,6000000,5,0,0,0") {
		t.Fatalf("row missing: %q", out)
	}

	back, skipped, err := ImportAssetsCSV(strings.NewReader(out))
	if err != nil || skipped != 0 || len(back) != 1 {
		t.Fatalf("round trip: %v, skipped %d, rows %d", err, skipped, len(back))
	}
}
