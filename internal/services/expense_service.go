package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/favianharya/SpendWise/internal/amqp"
	"github.com/favianharya/SpendWise/internal/core"
	"github.com/favianharya/SpendWise/internal/ledger"
)

// ExpenseService orchestrates expense operations: the ledger is the source
// of truth, the AMQP message is a best-effort hint for the sheet worker.
type ExpenseService struct {
	ledger     *ledger.Ledger
	amqpClient *amqp.Client
}

func NewExpenseService(ledger *ledger.Ledger, amqpClient *amqp.Client) *ExpenseService {
	return &ExpenseService{
		ledger:     ledger,
		amqpClient: amqpClient,
	}
}

// Create adds the expense to the ledger and publishes an expense-logged
// message. A publish failure never fails the add; the expense is saved
// locally either way.
func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	added, err := s.ledger.Add(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping sheet log message")
		return added, nil
	}
	if err := s.amqpClient.PublishExpenseLogged(ctx, added.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense logged message",
			"id", added.ID, "error", err)
	}
	return added, nil
}

// Delete removes the expense locally. The sheet is an append-only sink and
// is not told about deletions.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	return s.ledger.Remove(ctx, id)
}

// Close releases the AMQP connection if one was configured.
func (s *ExpenseService) Close() error {
	if s.amqpClient != nil {
		return s.amqpClient.Close()
	}
	return nil
}
