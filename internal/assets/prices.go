package assets

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/favianharya/SpendWise/internal/core"
	"github.com/favianharya/SpendWise/internal/state"
)

// PriceTTL is how long a fetched price set stays fresh. Within the TTL a
// refresh is a no-op.
const PriceTTL = time.Hour

const (
	referenceCurrency = "USD"
	localCurrency     = "IDR"
)

// PriceFeed is the external market data port. OuncePrice quotes a commodity
// per troy ounce in the reference currency; ExchangeRate converts between
// currencies. The engine owns all unit and currency conversion.
type PriceFeed interface {
	ExchangeRate(ctx context.Context, from, to string) (float64, error)
	OuncePrice(ctx context.Context, metal string) (float64, error)
}

// RefreshPrices updates the metal price cache from the feed, at most once
// per hour. The three fetches run concurrently and must all succeed: a
// failed refresh leaves the cache entirely unchanged and is logged, never
// surfaced to the user. Gold is never updated without silver or vice versa.
func RefreshPrices(ctx context.Context, st *state.AppState, store state.Store, feed PriceFeed, now time.Time) error {
	if !st.Prices.Stale(now, PriceTTL) {
		return nil
	}

	var rate, goldOunce, silverOunce float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rate, err = feed.ExchangeRate(gctx, referenceCurrency, localCurrency)
		return err
	})
	g.Go(func() (err error) {
		goldOunce, err = feed.OuncePrice(gctx, "gold")
		return err
	})
	g.Go(func() (err error) {
		silverOunce, err = feed.OuncePrice(gctx, "silver")
		return err
	})
	if err := g.Wait(); err != nil {
		slog.WarnContext(ctx, "Price refresh failed, cache left unchanged", "error", err)
		return nil
	}

	st.Prices = core.MetalPriceCache{
		Gold:        goldOunce / GramsPerTroyOunce * rate,
		Silver:      silverOunce / GramsPerTroyOunce * rate,
		LastUpdated: now,
	}
	if err := state.SavePrices(ctx, store, st); err != nil {
		slog.ErrorContext(ctx, "Failed to persist price cache", "error", err)
		return err
	}

	slog.InfoContext(ctx, "Metal prices refreshed",
		"gold_per_gram", st.Prices.Gold,
		"silver_per_gram", st.Prices.Silver)
	return nil
}
