// Package budget resolves and stores per-month budget configuration, with
// fallback inheritance from the current month for periods never configured.
package budget

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/favianharya/SpendWise/internal/core"
	"github.com/favianharya/SpendWise/internal/state"
)

// Status classifies spending against a group limit.
type Status int

const (
	StatusNormal   Status = iota // below 80% of limit
	StatusWarning                // 80% to just under the limit
	StatusExceeded               // at or over the limit
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusWarning:
		return "warning"
	case StatusExceeded:
		return "exceeded"
	default:
		return "unknown"
	}
}

type Store struct {
	st    *state.AppState
	store state.Store
}

func New(st *state.AppState, store state.Store) *Store {
	return &Store{st: st, store: store}
}

// Resolve returns the configuration in effect for the period. An explicitly
// configured period is returned as stored. An unconfigured period inherits a
// deep-copied snapshot of the current real-world month, so edits to the
// returned groups never retroactively alter the source record. With neither,
// the zero configuration is returned.
func (b *Store) Resolve(pk core.PeriodKey, now time.Time) core.MonthlySetting {
	if ms, ok := b.st.Settings[pk.String()]; ok {
		return ms
	}
	current := core.CurrentPeriod(now)
	if ms, ok := b.st.Settings[current.String()]; ok {
		return core.MonthlySetting{
			Income: ms.Income,
			Groups: deepCopyGroups(ms.Groups),
		}
	}
	return core.MonthlySetting{}
}

// Save validates and stores the period's groups and income, writing the
// projected limits map together with them so the two representations cannot
// diverge at the save boundary.
//
// Validation is advisory and enforced only here; it is not re-checked after
// synchronization merges.
func (b *Store) Save(ctx context.Context, pk core.PeriodKey, groups []core.BudgetGroup, income float64) error {
	var sum float64
	for _, g := range groups {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("group %q: %w", g.Name, err)
		}
		sum += g.Limit
	}
	if income > 0 && sum > income {
		return core.ErrBudgetOverIncome
	}
	if income == 0 && sum > 0 {
		return core.ErrIncomeRequired
	}

	limits := make(map[string]float64, len(groups))
	for _, g := range groups {
		limits[g.ID] = g.Limit
	}
	b.st.Settings[pk.String()] = core.MonthlySetting{
		Income: income,
		Groups: deepCopyGroups(groups),
		Limits: limits,
	}
	if err := state.SaveSettings(ctx, b.store, b.st); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"period", pk.String(),
		"groups", len(groups),
		"income", income)
	return nil
}

// SpentInGroup sums expense amounts claimed by the group's categories within
// the period's calendar month.
func (b *Store) SpentInGroup(g core.BudgetGroup, pk core.PeriodKey) float64 {
	var spent float64
	for _, e := range b.st.Expenses {
		if pk.Contains(e.Date) && slices.Contains(g.CategoryIDs, e.CategoryID) {
			spent += e.Amount
		}
	}
	return spent
}

// GroupLimit returns the authoritative limit for a group: the period's
// limits map wins, the group's own field is the legacy fallback.
func GroupLimit(ms core.MonthlySetting, g core.BudgetGroup) float64 {
	if limit, ok := ms.Limits[g.ID]; ok {
		return limit
	}
	return g.Limit
}

// Classify maps spending against a limit onto the alert thresholds.
func Classify(spent, limit float64) Status {
	if limit <= 0 {
		if spent > 0 {
			return StatusExceeded
		}
		return StatusNormal
	}
	switch ratio := spent / limit; {
	case ratio >= 1.0:
		return StatusExceeded
	case ratio >= 0.8:
		return StatusWarning
	default:
		return StatusNormal
	}
}

func deepCopyGroups(groups []core.BudgetGroup) []core.BudgetGroup {
	out := make([]core.BudgetGroup, len(groups))
	for i, g := range groups {
		g.CategoryIDs = slices.Clone(g.CategoryIDs)
		out[i] = g
	}
	return out
}
