package exchange

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/favianharya/SpendWise/internal/core"
	"github.com/favianharya/SpendWise/internal/state"
)

// Summary counts what a merge would (or did) change, for the single
// confirmation prompt shown before committing.
type Summary struct {
	NewExpenses   int
	NewAssets     int
	NewPeriods    int
	MergedPeriods int
	NewCategories int
}

func (s Summary) Empty() bool {
	return s.NewExpenses == 0 && s.NewAssets == 0 &&
		s.NewPeriods == 0 && s.MergedPeriods == 0 && s.NewCategories == 0
}

func (s Summary) String() string {
	return fmt.Sprintf("%d new expenses, %d new assets, %d new periods, %d merged periods, %d new categories",
		s.NewExpenses, s.NewAssets, s.NewPeriods, s.MergedPeriods, s.NewCategories)
}

// Preview computes the merge summary without touching local state.
func Preview(st *state.AppState, in *Dataset) Summary {
	var s Summary

	ids := make(map[string]struct{}, len(st.Expenses))
	for _, e := range st.Expenses {
		ids[e.ID] = struct{}{}
	}
	for _, e := range in.Expenses {
		if _, exists := ids[e.ID]; !exists {
			s.NewExpenses++
		}
	}

	assetIDs := make(map[string]struct{}, len(st.Assets))
	for _, a := range st.Assets {
		assetIDs[a.ID] = struct{}{}
	}
	for _, a := range in.Assets {
		if _, exists := assetIDs[a.ID]; !exists {
			s.NewAssets++
		}
	}

	for pk := range in.Settings {
		if _, exists := st.Settings[pk]; exists {
			s.MergedPeriods++
		} else {
			s.NewPeriods++
		}
	}

	for id := range in.Categories {
		if _, exists := st.Categories[id]; !exists {
			s.NewCategories++
		}
	}
	return s
}

// Merge reconciles the incoming dataset into local state in memory:
//
//   - Expenses and assets deduplicate by id; incoming ids already present
//     locally are dropped, survivors are appended in their incoming order.
//     Local order is never changed and local records never overwritten.
//   - Monthly settings merge per period key: an absent period is adopted
//     wholesale; a present period has its limits map shallow-merged with the
//     incoming limits winning per group, while local income and groups are
//     kept (intentional asymmetry).
//   - Categories union with local customizations winning on collision.
//
// Merge does not persist; call Commit after the user confirms the summary.
func Merge(st *state.AppState, in *Dataset) Summary {
	s := Preview(st, in)

	ids := make(map[string]struct{}, len(st.Expenses))
	for _, e := range st.Expenses {
		ids[e.ID] = struct{}{}
	}
	for _, e := range in.Expenses {
		if _, exists := ids[e.ID]; exists {
			continue
		}
		ids[e.ID] = struct{}{}
		st.Expenses = append(st.Expenses, e)
	}

	assetIDs := make(map[string]struct{}, len(st.Assets))
	for _, a := range st.Assets {
		assetIDs[a.ID] = struct{}{}
	}
	for _, a := range in.Assets {
		if _, exists := assetIDs[a.ID]; exists {
			continue
		}
		assetIDs[a.ID] = struct{}{}
		st.Assets = append(st.Assets, a)
	}

	for pk, incoming := range in.Settings {
		local, exists := st.Settings[pk]
		if !exists {
			st.Settings[pk] = copySetting(incoming)
			continue
		}
		if local.Limits == nil && len(incoming.Limits) > 0 {
			local.Limits = make(map[string]float64, len(incoming.Limits))
		}
		for groupID, limit := range incoming.Limits {
			local.Limits[groupID] = limit
		}
		st.Settings[pk] = local
	}

	for id, cat := range in.Categories {
		if _, exists := st.Categories[id]; exists {
			continue
		}
		st.Categories[id] = cat
	}

	return s
}

// Commit persists the four records a merge mutates. The in-memory merge
// already applied as one unit; Commit writes them out.
func Commit(ctx context.Context, store state.Store, st *state.AppState) error {
	for _, save := range []func(context.Context, state.Store, *state.AppState) error{
		state.SaveExpenses, state.SaveAssets, state.SaveSettings, state.SaveCategories,
	} {
		if err := save(ctx, store, st); err != nil {
			return fmt.Errorf("commit merge: %w", err)
		}
	}
	slog.InfoContext(ctx, "Merge committed")
	return nil
}

func copySetting(ms core.MonthlySetting) core.MonthlySetting {
	out := core.MonthlySetting{Income: ms.Income}
	out.Groups = make([]core.BudgetGroup, len(ms.Groups))
	for i, g := range ms.Groups {
		g.CategoryIDs = slices.Clone(g.CategoryIDs)
		out.Groups[i] = g
	}
	if ms.Limits != nil {
		out.Limits = make(map[string]float64, len(ms.Limits))
		for k, v := range ms.Limits {
			out.Limits[k] = v
		}
	}
	return out
}
