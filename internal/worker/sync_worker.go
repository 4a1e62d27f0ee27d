// Package worker forwards locally logged expenses to the companion
// spreadsheet. It is a one-way sink: the sheet is never read back.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/favianharya/SpendWise/internal/amqp"
	"github.com/favianharya/SpendWise/internal/sheets"
	"github.com/favianharya/SpendWise/internal/state"
)

type SyncWorker struct {
	store state.Store
	sheet sheets.ExpenseWriter
}

func NewSyncWorker(store state.Store, sheet sheets.ExpenseWriter) *SyncWorker {
	return &SyncWorker{store: store, sheet: sheet}
}

// HandleLoggedMessage processes one expense-logged message: it reads the
// expense from the shared store and appends it to the sheet. An expense that
// no longer exists was deleted before we got to it; that is not an error.
func (w *SyncWorker) HandleLoggedMessage(ctx context.Context, msg *amqp.ExpenseLoggedMessage) error {
	st := state.Load(ctx, w.store)

	for _, e := range st.Expenses {
		if e.ID != msg.ID {
			continue
		}
		ref, err := w.sheet.Append(ctx, e)
		if err != nil {
			return fmt.Errorf("append expense to sheet: %w", err)
		}
		slog.InfoContext(ctx, "Expense logged to sheet",
			"id", e.ID,
			"sheets_ref", ref)
		return nil
	}

	slog.WarnContext(ctx, "Expense no longer in ledger, skipping sheet log", "id", msg.ID)
	return nil
}
