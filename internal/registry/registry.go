// Package registry resolves category identifiers to display attributes,
// merging built-in defaults with the user's persisted customizations.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"unicode"
	"unicode/utf8"

	"github.com/favianharya/SpendWise/internal/core"
	"github.com/favianharya/SpendWise/internal/state"
)

// FallbackID is used whenever a referenced category cannot be resolved.
const FallbackID = "other"

// retiredID is a built-in that no longer exists; stale overlay entries for
// it are stripped on every load so old devices stop resurrecting it.
const retiredID = "snacks"

var defaults = map[string]core.Category{
	"food":          {Icon: "🍔", Color: "#ff6b6b"},
	"transport":     {Icon: "🚗", Color: "#4ecdc4"},
	"shopping":      {Icon: "🛍️", Color: "#ffd93d"},
	"entertainment": {Icon: "🎮", Color: "#ff8ed4"},
	"bills":         {Icon: "📄", Color: "#6bcb77"},
	"health":        {Icon: "💊", Color: "#4d96ff"},
	"education":     {Icon: "📚", Color: "#9b59b6"},
	"other":         {Icon: "📦", Color: "#95a5a6"},
}

// Registry reads the overlay held in AppState and persists overlay changes
// through the store.
type Registry struct {
	st    *state.AppState
	store state.Store
}

func New(st *state.AppState, store state.Store) *Registry {
	return &Registry{st: st, store: store}
}

// Load strips the retired built-in from the overlay, persisting when the
// overlay actually changed. Called once at startup after state.Load.
func (r *Registry) Load(ctx context.Context) error {
	if _, ok := r.st.Categories[retiredID]; !ok {
		return nil
	}
	delete(r.st.Categories, retiredID)
	if err := state.SaveCategories(ctx, r.store, r.st); err != nil {
		return fmt.Errorf("strip retired category: %w", err)
	}
	slog.InfoContext(ctx, "Stripped retired category from overlay", "category", retiredID)
	return nil
}

// All returns the merged view: defaults overlaid by customizations, with the
// overlay winning on key collision.
func (r *Registry) All() map[string]core.Category {
	merged := make(map[string]core.Category, len(defaults)+len(r.st.Categories))
	for id, cat := range defaults {
		merged[id] = cat
	}
	for id, cat := range r.st.Categories {
		if id == retiredID {
			continue
		}
		merged[id] = cat
	}
	return merged
}

// Resolve returns the category for id, or the "other" fallback. A missing
// category is never an error for callers.
func (r *Registry) Resolve(id string) core.Category {
	if cat, ok := r.st.Categories[id]; ok && id != retiredID {
		return cat
	}
	if cat, ok := defaults[id]; ok {
		return cat
	}
	return defaults[FallbackID]
}

// Known reports whether id resolves to a real category (not the fallback).
func (r *Registry) Known(id string) bool {
	if _, ok := r.st.Categories[id]; ok && id != retiredID {
		return true
	}
	_, ok := defaults[id]
	return ok
}

// DisplayName prefers an explicitly stored name, else title-cases the id.
func (r *Registry) DisplayName(id string) string {
	if cat := r.Resolve(id); cat.Name != "" {
		return cat.Name
	}
	return titleCase(id)
}

// Put stores or replaces an overlay entry and persists the overlay.
func (r *Registry) Put(ctx context.Context, id string, cat core.Category) error {
	if id == "" {
		return core.ErrMissingCategory
	}
	r.st.Categories[id] = cat
	return state.SaveCategories(ctx, r.store, r.st)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}
