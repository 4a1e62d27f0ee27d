// Package memory provides an in-memory stand-in for the companion
// spreadsheet, used in tests and sheet-less local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/favianharya/SpendWise/internal/core"
	ports "github.com/favianharya/SpendWise/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	items []core.Expense
}

var _ ports.ExpenseWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append stores the expense and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Items returns a copy of everything appended so far.
func (s *Store) Items() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.items...)
}
