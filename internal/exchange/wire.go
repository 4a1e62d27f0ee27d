// Package exchange implements cross-device synchronization: the compact
// wire codec for optical transfer, CSV import/export, and the merge
// algorithm reconciling two independently-evolved datasets.
package exchange

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/favianharya/SpendWise/internal/core"
	"github.com/favianharya/SpendWise/internal/state"
)

// WireVersion is the current compact tuple encoding.
const WireVersion = 2

// Capacity is the practical size limit of the optical channel in characters.
// Larger datasets must use the file-based export path.
const Capacity = 2500

// Dataset is a decoded incoming state, ready to merge.
type Dataset struct {
	Expenses   []core.Expense
	Assets     []core.Asset
	Settings   map[string]core.MonthlySetting
	Categories map[string]core.Category
	Timestamp  time.Time
}

// wireSetting is the on-wire monthly setting: income and limits only,
// group definitions never travel.
type wireSetting struct {
	Income float64            `json:"income"`
	Limits map[string]float64 `json:"limits,omitempty"`
}

type wirePayload struct {
	V int                      `json:"v"`
	T int64                    `json:"t"`
	E [][]any                  `json:"e"`
	A [][]any                  `json:"a"`
	M map[string]wireSetting   `json:"m"`
	C map[string]core.Category `json:"c"`
}

// legacyExpense is the keyed-object form emitted before the tuple encoding.
type legacyExpense struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	CategoryID  string  `json:"category"`
	Description string  `json:"description"`
}

type legacyAsset struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Value        float64 `json:"value"`
	Quantity     float64 `json:"quantity"`
	InterestRate float64 `json:"interestRate"`
	PeriodMonths float64 `json:"period"`
	TaxRate      float64 `json:"taxRate"`
}

// Encode serializes the whole persisted state into the compact wire form.
// Expenses and assets become ordered-field tuples to minimize size. When the
// serialized payload exceeds the channel capacity a *core.CapacityError is
// returned instead of a truncated payload.
func Encode(st *state.AppState, now time.Time) ([]byte, error) {
	p := wirePayload{
		V: WireVersion,
		T: now.UnixMilli(),
		E: make([][]any, 0, len(st.Expenses)),
		A: make([][]any, 0, len(st.Assets)),
		M: make(map[string]wireSetting, len(st.Settings)),
		C: st.Categories,
	}
	for _, e := range st.Expenses {
		p.E = append(p.E, []any{e.ID, e.Date.String(), e.Amount, e.CategoryID, e.Description})
	}
	for _, a := range st.Assets {
		p.A = append(p.A, []any{a.ID, a.Name, string(a.Type), a.Value, a.Quantity, a.InterestRate, a.PeriodMonths, a.TaxRate})
	}
	for pk, ms := range st.Settings {
		p.M[pk] = wireSetting{Income: ms.Income, Limits: ms.Limits}
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	if len(data) > Capacity {
		return nil, &core.CapacityError{Size: len(data), Limit: Capacity}
	}
	return data, nil
}

// Decode parses a wire payload, supporting both the compact tuple form
// (v == 2) and the legacy keyed-object form. Any malformation aborts the
// whole decode; there is no partial result.
func Decode(data []byte) (*Dataset, error) {
	var probe struct {
		V *int  `json:"v"`
		T int64 `json:"t"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrPayloadMalformed, err)
	}
	if probe.V != nil && *probe.V == WireVersion {
		return decodeCompact(data)
	}
	return decodeLegacy(data)
}

func decodeCompact(data []byte) (*Dataset, error) {
	var p wirePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrPayloadMalformed, err)
	}
	ds := newDataset(p.T, p.M, p.C)

	for i, tuple := range p.E {
		e, err := expenseFromTuple(tuple)
		if err != nil {
			return nil, fmt.Errorf("%w: expense tuple %d: %v", core.ErrPayloadMalformed, i, err)
		}
		e.CreatedAt = ds.Timestamp
		ds.Expenses = append(ds.Expenses, e)
	}
	for i, tuple := range p.A {
		a, err := assetFromTuple(tuple)
		if err != nil {
			return nil, fmt.Errorf("%w: asset tuple %d: %v", core.ErrPayloadMalformed, i, err)
		}
		ds.Assets = append(ds.Assets, a)
	}
	return ds, nil
}

func decodeLegacy(data []byte) (*Dataset, error) {
	var p struct {
		T int64                    `json:"t"`
		E []legacyExpense          `json:"e"`
		A []legacyAsset            `json:"a"`
		M map[string]wireSetting   `json:"m"`
		C map[string]core.Category `json:"c"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrPayloadMalformed, err)
	}
	ds := newDataset(p.T, p.M, p.C)

	for i, le := range p.E {
		date, err := core.ParseDate(le.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: expense %d: %v", core.ErrPayloadMalformed, i, err)
		}
		ds.Expenses = append(ds.Expenses, core.Expense{
			ID:          le.ID,
			Amount:      le.Amount,
			CategoryID:  le.CategoryID,
			Description: le.Description,
			Date:        date,
			CreatedAt:   ds.Timestamp,
		})
	}
	for i, la := range p.A {
		typ, err := core.ParseAssetType(la.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: asset %d: %v", core.ErrPayloadMalformed, i, err)
		}
		ds.Assets = append(ds.Assets, core.Asset{
			ID:           la.ID,
			Name:         la.Name,
			Type:         typ,
			Value:        la.Value,
			Quantity:     la.Quantity,
			InterestRate: la.InterestRate,
			PeriodMonths: la.PeriodMonths,
			TaxRate:      la.TaxRate,
		})
	}
	return ds, nil
}

func newDataset(unixMilli int64, m map[string]wireSetting, c map[string]core.Category) *Dataset {
	ds := &Dataset{
		Settings:   make(map[string]core.MonthlySetting, len(m)),
		Categories: c,
		Timestamp:  time.UnixMilli(unixMilli),
	}
	if ds.Categories == nil {
		ds.Categories = make(map[string]core.Category)
	}
	for pk, ws := range m {
		ds.Settings[pk] = core.MonthlySetting{Income: ws.Income, Limits: ws.Limits}
	}
	return ds
}

func expenseFromTuple(tuple []any) (core.Expense, error) {
	if len(tuple) < 5 {
		return core.Expense{}, fmt.Errorf("want 5 fields, got %d", len(tuple))
	}
	id, ok1 := tuple[0].(string)
	dateStr, ok2 := tuple[1].(string)
	amount, ok3 := tuple[2].(float64)
	categoryID, ok4 := tuple[3].(string)
	description, ok5 := tuple[4].(string)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return core.Expense{}, fmt.Errorf("unexpected field types")
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		ID:          id,
		Amount:      amount,
		CategoryID:  categoryID,
		Description: description,
		Date:        date,
	}, nil
}

func assetFromTuple(tuple []any) (core.Asset, error) {
	if len(tuple) < 8 {
		return core.Asset{}, fmt.Errorf("want 8 fields, got %d", len(tuple))
	}
	id, ok1 := tuple[0].(string)
	name, ok2 := tuple[1].(string)
	rawType, ok3 := tuple[2].(string)
	if !ok1 || !ok2 || !ok3 {
		return core.Asset{}, fmt.Errorf("unexpected field types")
	}
	nums := make([]float64, 5)
	for i, raw := range tuple[3:8] {
		n, ok := raw.(float64)
		if !ok {
			return core.Asset{}, fmt.Errorf("unexpected field types")
		}
		nums[i] = n
	}
	typ, err := core.ParseAssetType(rawType)
	if err != nil {
		return core.Asset{}, err
	}
	return core.Asset{
		ID:           id,
		Name:         name,
		Type:         typ,
		Value:        nums[0],
		Quantity:     nums[1],
		InterestRate: nums[2],
		PeriodMonths: nums[3],
		TaxRate:      nums[4],
	}, nil
}
