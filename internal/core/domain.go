package core

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	AssetStock    AssetType = "stock"
	AssetGold     AssetType = "gold"
	AssetSilver   AssetType = "silver"
	AssetCrypto   AssetType = "crypto"
	AssetCash     AssetType = "cash"
	AssetProperty AssetType = "property"
	AssetDeposit  AssetType = "deposit"
	AssetOther    AssetType = "other"
)

type (
	AssetType string

	// Expense is a single dated transaction. Immutable once created,
	// except for deletion. Identity is ID.
	Expense struct {
		ID          string    `json:"id"`
		Amount      float64   `json:"amount"`
		CategoryID  string    `json:"category"`
		Description string    `json:"description"`
		Date        Date      `json:"date"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// Category holds display attributes for a category id. Name is optional;
	// when empty the id is title-cased for display.
	Category struct {
		Icon  string `json:"icon"`
		Color string `json:"color"`
		Name  string `json:"name,omitempty"`
	}

	// BudgetGroup bundles up to three categories under one spending limit.
	// The Limit field is a legacy fallback; the authoritative limit lives in
	// MonthlySetting.Limits.
	BudgetGroup struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Icon        string   `json:"icon"`
		CategoryIDs []string `json:"categoryIds"`
		Limit       float64  `json:"limit"`
	}

	// MonthlySetting is one calendar month's budget configuration.
	MonthlySetting struct {
		Income float64            `json:"income"`
		Groups []BudgetGroup      `json:"groups"`
		Limits map[string]float64 `json:"limits,omitempty"`
	}

	// Asset is a tracked non-cash holding. For gold/silver and deposit types
	// the stored Value is only part of the story; see assets.CurrentValue.
	Asset struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		Type         AssetType `json:"type"`
		Value        float64   `json:"value"`
		Quantity     float64   `json:"quantity"`
		InterestRate float64   `json:"interestRate"`
		PeriodMonths float64   `json:"periodMonths"`
		TaxRate      float64   `json:"taxRate"`
	}

	// MetalPriceCache holds the last fetched gold/silver prices in local
	// currency per gram. Zero prices mean "no live price available".
	MetalPriceCache struct {
		Gold        float64   `json:"gold"`
		Silver      float64   `json:"silver"`
		LastUpdated time.Time `json:"lastUpdated"`
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrMissingCategory   = errors.New("missing category")
	ErrMissingDate       = errors.New("missing date")
	ErrEmptyName         = errors.New("empty name")
	ErrUnknownAssetType  = errors.New("unknown asset type")
	ErrTooManyCategories = errors.New("budget group claims more than three categories")
	ErrBudgetOverIncome  = errors.New("budget limits exceed income")
	ErrIncomeRequired    = errors.New("income must be set before limits")
	ErrPayloadMalformed  = errors.New("malformed payload")
)

// CapacityError reports a wire payload too large for the optical channel.
// Callers should offer the file-based export path instead.
type CapacityError struct {
	Size  int
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("payload size %d exceeds channel capacity %d", e.Size, e.Limit)
}

// ParseAssetType validates a raw type string.
func ParseAssetType(s string) (AssetType, error) {
	switch t := AssetType(strings.ToLower(strings.TrimSpace(s))); t {
	case AssetStock, AssetGold, AssetSilver, AssetCrypto,
		AssetCash, AssetProperty, AssetDeposit, AssetOther:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAssetType, s)
	}
}

func (e Expense) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.CategoryID) == "" {
		return ErrMissingCategory
	}
	if e.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

func (a Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if _, err := ParseAssetType(string(a.Type)); err != nil {
		return err
	}
	return nil
}

func (g BudgetGroup) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if len(g.CategoryIDs) > 3 {
		return ErrTooManyCategories
	}
	return nil
}

// Stale reports whether the cache is older than the given TTL at instant now.
func (c MetalPriceCache) Stale(now time.Time, ttl time.Duration) bool {
	return c.LastUpdated.IsZero() || now.Sub(c.LastUpdated) >= ttl
}

// NewID generates an identifier unique for the device's lifetime:
// a base-36 millisecond timestamp with a random base-36 suffix.
func NewID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strconv.FormatUint(rand.Uint64()%(36*36*36*36*36*36), 36)
	return ts + suffix
}
