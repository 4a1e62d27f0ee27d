package exchange

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/favianharya/SpendWise/internal/core"
	"github.com/favianharya/SpendWise/internal/registry"
	"github.com/favianharya/SpendWise/internal/state"
)

var (
	expenseHeader = []string{"Date", "Amount", "Category", "Description"}
	assetHeader   = []string{"Name", "Type", "Value", "Quantity", "InterestRate", "Period", "TaxRate"}
)

// ImportExpensesCSV parses expense rows from r. Headers match
// case-insensitively; a row whose date fails to parse or whose amount is not
// a positive number is silently skipped, never aborting the import. An
// unrecognized category falls back to "other". Every accepted row gets a
// freshly generated id: import is purely additive and never deduplicates,
// even across repeated imports of the same file.
func ImportExpensesCSV(r io.Reader, known func(categoryID string) bool) (accepted []core.Expense, skipped int, err error) {
	rows, cols, err := readCSV(r, expenseHeader)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now()
	for _, row := range rows {
		date, dateErr := core.ParseDate(field(row, cols, "date"))
		amount, amountErr := parseAmount(field(row, cols, "amount"))
		if dateErr != nil || amountErr != nil || amount <= 0 {
			skipped++
			continue
		}
		categoryID := strings.ToLower(strings.TrimSpace(field(row, cols, "category")))
		if categoryID == "" || (known != nil && !known(categoryID)) {
			categoryID = registry.FallbackID
		}
		accepted = append(accepted, core.Expense{
			ID:          core.NewID(),
			Amount:      amount,
			CategoryID:  categoryID,
			Description: field(row, cols, "description"),
			Date:        date,
			CreatedAt:   now,
		})
	}
	return accepted, skipped, nil
}

// ImportAssetsCSV parses asset rows from r. Rows with an unrecognized type
// or an empty name are skipped; missing numeric fields default to zero.
func ImportAssetsCSV(r io.Reader) (accepted []core.Asset, skipped int, err error) {
	rows, cols, err := readCSV(r, assetHeader)
	if err != nil {
		return nil, 0, err
	}
	for _, row := range rows {
		name := strings.TrimSpace(field(row, cols, "name"))
		typ, typeErr := core.ParseAssetType(field(row, cols, "type"))
		if name == "" || typeErr != nil {
			skipped++
			continue
		}
		accepted = append(accepted, core.Asset{
			ID:           core.NewID(),
			Name:         name,
			Type:         typ,
			Value:        numericField(row, cols, "value"),
			Quantity:     numericField(row, cols, "quantity"),
			InterestRate: numericField(row, cols, "interestrate"),
			PeriodMonths: numericField(row, cols, "period"),
			TaxRate:      numericField(row, cols, "taxrate"),
		})
	}
	return accepted, skipped, nil
}

// ExportExpensesCSV writes every ledger entry using the export column
// contract. Descriptions containing commas or quotes are quoted with
// internal quotes doubled.
func ExportExpensesCSV(w io.Writer, st *state.AppState) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(expenseHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range st.Expenses {
		row := []string{
			e.Date.String(),
			formatAmount(e.Amount),
			e.CategoryID,
			e.Description,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportAssetsCSV writes every tracked asset using the asset column contract.
func ExportAssetsCSV(w io.Writer, st *state.AppState) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(assetHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, a := range st.Assets {
		row := []string{
			a.Name,
			string(a.Type),
			formatAmount(a.Value),
			formatAmount(a.Quantity),
			formatAmount(a.InterestRate),
			formatAmount(a.PeriodMonths),
			formatAmount(a.TaxRate),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// readCSV reads all rows and maps the wanted header names (lower-cased) to
// column indexes. Quoted fields with embedded commas and doubled quotes are
// handled by the reader.
func readCSV(r io.Reader, wantHeader []string) (rows [][]string, cols map[string]int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("read csv: empty file")
	}

	cols = make(map[string]int, len(wantHeader))
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range wantHeader {
		if _, ok := cols[strings.ToLower(name)]; !ok {
			return nil, nil, fmt.Errorf("read csv: missing column %q", name)
		}
	}
	return records[1:], cols, nil
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func numericField(row []string, cols map[string]int, name string) float64 {
	v, err := parseAmount(field(row, cols, name))
	if err != nil {
		return 0
	}
	return v
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
