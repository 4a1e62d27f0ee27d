// Package ledger implements the expense ledger: an ordered collection of
// dated transactions with synchronous persistence on every mutation.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/favianharya/SpendWise/internal/core"
	"github.com/favianharya/SpendWise/internal/state"
)

// Predicate filters expenses in queries.
type Predicate func(core.Expense) bool

type Ledger struct {
	st    *state.AppState
	store state.Store
}

func New(st *state.AppState, store state.Store) *Ledger {
	return &Ledger{st: st, store: store}
}

// Add validates the expense, assigns identity when absent, prepends it to
// the sequence, and persists. Insertion order is preserved so ties on the
// same day keep creation order.
func (l *Ledger) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = core.NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	l.st.Expenses = append([]core.Expense{e}, l.st.Expenses...)
	if err := state.SaveExpenses(ctx, l.store, l.st); err != nil {
		return core.Expense{}, fmt.Errorf("persist ledger: %w", err)
	}

	slog.InfoContext(ctx, "Expense added",
		"id", e.ID,
		"amount", e.Amount,
		"category", e.CategoryID,
		"date", e.Date.String())
	return e, nil
}

// Remove deletes by identity. Removing an absent id is a no-op, not an error.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	kept := l.st.Expenses[:0:0]
	removed := false
	for _, e := range l.st.Expenses {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return nil
	}
	l.st.Expenses = kept
	if err := state.SaveExpenses(ctx, l.store, l.st); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	slog.InfoContext(ctx, "Expense removed", "id", id)
	return nil
}

// RemoveByDate deletes all expenses on an exact calendar day. Returns the
// number of deleted records.
func (l *Ledger) RemoveByDate(ctx context.Context, date core.Date) (int, error) {
	kept := l.st.Expenses[:0:0]
	removed := 0
	for _, e := range l.st.Expenses {
		if e.Date.Equal(date) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return 0, nil
	}
	l.st.Expenses = kept
	if err := state.SaveExpenses(ctx, l.store, l.st); err != nil {
		return 0, fmt.Errorf("persist ledger: %w", err)
	}
	slog.InfoContext(ctx, "Expenses removed by date", "date", date.String(), "count", removed)
	return removed, nil
}

// Get returns the expense with the given id.
func (l *Ledger) Get(id string) (core.Expense, bool) {
	for _, e := range l.st.Expenses {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}

// Query returns a filtered copy of the ledger. It never mutates the ledger;
// with no predicates it returns everything.
func (l *Ledger) Query(preds ...Predicate) []core.Expense {
	out := make([]core.Expense, 0, len(l.st.Expenses))
next:
	for _, e := range l.st.Expenses {
		for _, pred := range preds {
			if !pred(e) {
				continue next
			}
		}
		out = append(out, e)
	}
	return out
}

// Len returns the number of expenses in the ledger.
func (l *Ledger) Len() int {
	return len(l.st.Expenses)
}

// ByDate matches expenses on an exact calendar day.
func ByDate(date core.Date) Predicate {
	return func(e core.Expense) bool { return e.Date.Equal(date) }
}

// ByCategory matches expenses assigned to the category.
func ByCategory(id string) Predicate {
	return func(e core.Expense) bool { return e.CategoryID == id }
}

// InPeriod matches expenses whose date falls within the calendar month.
func InPeriod(pk core.PeriodKey) Predicate {
	return func(e core.Expense) bool { return pk.Contains(e.Date) }
}

// TotalOn sums amounts spent on one calendar day.
func (l *Ledger) TotalOn(date core.Date) float64 {
	var total float64
	for _, e := range l.st.Expenses {
		if e.Date.Equal(date) {
			total += e.Amount
		}
	}
	return total
}

// TotalInPeriod sums amounts spent within a calendar month.
func (l *Ledger) TotalInPeriod(pk core.PeriodKey) float64 {
	var total float64
	for _, e := range l.st.Expenses {
		if pk.Contains(e.Date) {
			total += e.Amount
		}
	}
	return total
}

// CategoryTotals sums a month's spending per category id.
func (l *Ledger) CategoryTotals(pk core.PeriodKey) map[string]float64 {
	totals := make(map[string]float64)
	for _, e := range l.st.Expenses {
		if pk.Contains(e.Date) {
			totals[e.CategoryID] += e.Amount
		}
	}
	return totals
}

// DailyTotals sums a month's spending per calendar day (keyed YYYY-MM-DD).
func (l *Ledger) DailyTotals(pk core.PeriodKey) map[string]float64 {
	totals := make(map[string]float64)
	for _, e := range l.st.Expenses {
		if pk.Contains(e.Date) {
			totals[e.Date.String()] += e.Amount
		}
	}
	return totals
}
