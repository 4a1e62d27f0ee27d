// Package sheets defines the port for the companion spreadsheet sink: a
// one-way export target for expense records, never consulted for reads.
package sheets

import (
	"context"

	"github.com/favianharya/SpendWise/internal/core"
)

// ExpenseWriter appends one expense to the external spreadsheet-like store.
type ExpenseWriter interface {
	Append(ctx context.Context, e core.Expense) (rowRef string, err error)
}
