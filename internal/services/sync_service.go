package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/favianharya/SpendWise/internal/exchange"
	"github.com/favianharya/SpendWise/internal/registry"
	"github.com/favianharya/SpendWise/internal/state"
)

// SyncService drives the cross-device merge and the CSV import paths. Both
// mutate the ledger, asset set, category overlay, and monthly settings as
// one unit and persist through the store.
type SyncService struct {
	st    *state.AppState
	store state.Store
	reg   *registry.Registry
}

func NewSyncService(st *state.AppState, store state.Store, reg *registry.Registry) *SyncService {
	return &SyncService{st: st, store: store, reg: reg}
}

// Preview decodes a wire payload and reports what merging it would change,
// without touching local state. The caller shows the summary in a single
// confirmation prompt before calling Apply.
func (s *SyncService) Preview(data []byte) (*exchange.Dataset, exchange.Summary, error) {
	ds, err := exchange.Decode(data)
	if err != nil {
		return nil, exchange.Summary{}, err
	}
	return ds, exchange.Preview(s.st, ds), nil
}

// Apply merges the dataset into local state and commits every affected
// record.
func (s *SyncService) Apply(ctx context.Context, ds *exchange.Dataset) (exchange.Summary, error) {
	summary := exchange.Merge(s.st, ds)
	if err := exchange.Commit(ctx, s.store, s.st); err != nil {
		return summary, err
	}
	slog.InfoContext(ctx, "Merge applied", "summary", summary.String())
	return summary, nil
}

// ImportExpenses reads expense rows from r and appends every accepted row
// to the ledger. Purely additive: repeated imports of the same file add the
// same rows again.
func (s *SyncService) ImportExpenses(ctx context.Context, r io.Reader) (added, skipped int, err error) {
	accepted, skipped, err := exchange.ImportExpensesCSV(r, s.reg.Known)
	if err != nil {
		return 0, 0, err
	}
	s.st.Expenses = append(s.st.Expenses, accepted...)
	if err := state.SaveExpenses(ctx, s.store, s.st); err != nil {
		return 0, 0, fmt.Errorf("persist imported expenses: %w", err)
	}
	slog.InfoContext(ctx, "Expenses imported", "added", len(accepted), "skipped", skipped)
	return len(accepted), skipped, nil
}

// ImportAssets reads asset rows from r and appends every accepted row.
func (s *SyncService) ImportAssets(ctx context.Context, r io.Reader) (added, skipped int, err error) {
	accepted, skipped, err := exchange.ImportAssetsCSV(r)
	if err != nil {
		return 0, 0, err
	}
	s.st.Assets = append(s.st.Assets, accepted...)
	if err := state.SaveAssets(ctx, s.store, s.st); err != nil {
		return 0, 0, fmt.Errorf("persist imported assets: %w", err)
	}
	slog.InfoContext(ctx, "Assets imported", "added", len(accepted), "skipped", skipped)
	return len(accepted), skipped, nil
}
