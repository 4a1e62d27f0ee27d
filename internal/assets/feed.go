package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPFeed fetches market data from two JSON endpoints: an exchange-rate
// service returning {"rates": {CUR: rate}} for a base currency, and a
// commodity service returning {"price": perTroyOunce} for ?metal=gold|silver.
type HTTPFeed struct {
	client   *http.Client
	rateURL  string
	metalURL string
}

var _ PriceFeed = (*HTTPFeed)(nil)

func NewHTTPFeed(rateURL, metalURL string) *HTTPFeed {
	return &HTTPFeed{
		client:   &http.Client{Timeout: 10 * time.Second},
		rateURL:  rateURL,
		metalURL: metalURL,
	}
}

func (f *HTTPFeed) ExchangeRate(ctx context.Context, from, to string) (float64, error) {
	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := f.getJSON(ctx, f.rateURL+"/"+url.PathEscape(from), &body); err != nil {
		return 0, fmt.Errorf("fetch exchange rate: %w", err)
	}
	rate, ok := body.Rates[to]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("exchange rate %s/%s not in response", from, to)
	}
	return rate, nil
}

func (f *HTTPFeed) OuncePrice(ctx context.Context, metal string) (float64, error) {
	var body struct {
		Price float64 `json:"price"`
	}
	u := f.metalURL + "?metal=" + url.QueryEscape(metal)
	if err := f.getJSON(ctx, u, &body); err != nil {
		return 0, fmt.Errorf("fetch %s price: %w", metal, err)
	}
	if body.Price <= 0 {
		return 0, fmt.Errorf("non-positive %s price in response", metal)
	}
	return body.Price, nil
}

func (f *HTTPFeed) getJSON(ctx context.Context, rawURL string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(into)
}
