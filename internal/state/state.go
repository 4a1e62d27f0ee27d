// Package state holds the application's persisted state as one explicit
// object passed by reference into each component, with persistence behind
// the Store port so components can be tested without a real backend.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/favianharya/SpendWise/internal/core"
)

// Record keys. Each key is one independently loaded and saved logical record;
// corruption of one never affects the others.
const (
	KeyExpenses   = "expenses"
	KeyCategories = "categories"
	KeySettings   = "monthlySettings"
	KeyAssets     = "assets"
	KeyPriceCache = "priceCache"
)

// Store is the persistence port. Load reports found=false for a key that was
// never written.
type Store interface {
	Load(ctx context.Context, key string) (value []byte, found bool, err error)
	Save(ctx context.Context, key string, value []byte) error
}

// AppState is the complete persisted state of the tracker.
type AppState struct {
	Expenses   []core.Expense
	Categories map[string]core.Category
	Settings   map[string]core.MonthlySetting
	Assets     []core.Asset
	Prices     core.MetalPriceCache
}

// New returns an empty state with initialized maps.
func New() *AppState {
	return &AppState{
		Categories: make(map[string]core.Category),
		Settings:   make(map[string]core.MonthlySetting),
	}
}

// Load reads all records from the store. A missing or corrupt record resets
// that record to its empty value and is logged, never fatal.
func Load(ctx context.Context, store Store) *AppState {
	st := New()
	loadRecord(ctx, store, KeyExpenses, &st.Expenses)
	loadRecord(ctx, store, KeyCategories, &st.Categories)
	loadRecord(ctx, store, KeySettings, &st.Settings)
	loadRecord(ctx, store, KeyAssets, &st.Assets)
	loadRecord(ctx, store, KeyPriceCache, &st.Prices)
	if st.Categories == nil {
		st.Categories = make(map[string]core.Category)
	}
	if st.Settings == nil {
		st.Settings = make(map[string]core.MonthlySetting)
	}
	return st
}

func loadRecord[T any](ctx context.Context, store Store, key string, into *T) {
	value, found, err := store.Load(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load record, resetting to default",
			"key", key, "error", err)
		return
	}
	if !found {
		return
	}
	// Decode into a scratch value so a record that fails mid-way (the decoder
	// keeps going past type errors) cannot leave partial data behind.
	var decoded T
	if err := json.Unmarshal(value, &decoded); err != nil {
		slog.WarnContext(ctx, "Corrupt record, resetting to default",
			"key", key, "error", err)
		return
	}
	*into = decoded
}

func saveRecord(ctx context.Context, store Store, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := store.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SaveExpenses persists the expenses record.
func SaveExpenses(ctx context.Context, store Store, st *AppState) error {
	return saveRecord(ctx, store, KeyExpenses, st.Expenses)
}

// SaveCategories persists the category overlay record.
func SaveCategories(ctx context.Context, store Store, st *AppState) error {
	return saveRecord(ctx, store, KeyCategories, st.Categories)
}

// SaveSettings persists the monthly settings record.
func SaveSettings(ctx context.Context, store Store, st *AppState) error {
	return saveRecord(ctx, store, KeySettings, st.Settings)
}

// SaveAssets persists the assets record.
func SaveAssets(ctx context.Context, store Store, st *AppState) error {
	return saveRecord(ctx, store, KeyAssets, st.Assets)
}

// SavePrices persists the metal price cache record.
func SavePrices(ctx context.Context, store Store, st *AppState) error {
	return saveRecord(ctx, store, KeyPriceCache, st.Prices)
}

// SaveAll persists every record. Used after a merge, which mutates the
// ledger, assets, categories, and settings as one unit.
func SaveAll(ctx context.Context, store Store, st *AppState) error {
	for _, save := range []func(context.Context, Store, *AppState) error{
		SaveExpenses, SaveCategories, SaveSettings, SaveAssets, SavePrices,
	} {
		if err := save(ctx, store, st); err != nil {
			return err
		}
	}
	return nil
}
