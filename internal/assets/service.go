package assets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/favianharya/SpendWise/internal/core"
	"github.com/favianharya/SpendWise/internal/state"
)

// Service owns the tracked asset set. Assets are created by user input or
// merge/import, mutated only via explicit edit, and deleted individually.
type Service struct {
	st    *state.AppState
	store state.Store
}

func NewService(st *state.AppState, store state.Store) *Service {
	return &Service{st: st, store: store}
}

// Add validates the asset, assigns identity when absent, appends, persists.
func (s *Service) Add(ctx context.Context, a core.Asset) (core.Asset, error) {
	if a.ID == "" {
		a.ID = core.NewID()
	}
	if err := a.Validate(); err != nil {
		return core.Asset{}, err
	}
	s.st.Assets = append(s.st.Assets, a)
	if err := state.SaveAssets(ctx, s.store, s.st); err != nil {
		return core.Asset{}, fmt.Errorf("persist assets: %w", err)
	}
	slog.InfoContext(ctx, "Asset added", "id", a.ID, "name", a.Name, "type", a.Type)
	return a, nil
}

// Update replaces an existing asset by id (the explicit edit path).
func (s *Service) Update(ctx context.Context, a core.Asset) error {
	if err := a.Validate(); err != nil {
		return err
	}
	for i, existing := range s.st.Assets {
		if existing.ID == a.ID {
			s.st.Assets[i] = a
			if err := state.SaveAssets(ctx, s.store, s.st); err != nil {
				return fmt.Errorf("persist assets: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("asset %s not found", a.ID)
}

// Remove deletes by identity. Removing an absent id is a no-op.
func (s *Service) Remove(ctx context.Context, id string) error {
	kept := s.st.Assets[:0:0]
	removed := false
	for _, a := range s.st.Assets {
		if a.ID == id {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	if !removed {
		return nil
	}
	s.st.Assets = kept
	if err := state.SaveAssets(ctx, s.store, s.st); err != nil {
		return fmt.Errorf("persist assets: %w", err)
	}
	slog.InfoContext(ctx, "Asset removed", "id", id)
	return nil
}

// Total computes the current value of all holdings against the price cache.
func (s *Service) Total() float64 {
	return TotalValue(s.st.Assets, s.st.Prices)
}
