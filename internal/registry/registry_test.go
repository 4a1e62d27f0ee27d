package registry

import (
	"context"
	"testing"

	"github.com/favianharya/SpendWise/internal/core"
	"github.com/favianharya/SpendWise/internal/state"
)

func newTestRegistry() (*Registry, *state.AppState, state.Store) {
	st := state.New()
	store := state.NewMemStore()
	return New(st, store), st, store
}

func TestAllMergesDefaultsAndOverlay(t *testing.T) {
	r, st, _ := newTestRegistry()
	st.Categories["coffee"] = core.Category{Icon: "☕", Color: "#aa7744"}
	st.Categories["food"] = core.Category{Icon: "🍜", Color: "#123456"}

	all := r.All()
	if _, ok := all["transport"]; !ok {
		t.Fatal("built-in category missing from merged view")
	}
	if all["coffee"].Icon != "☕" {
		t.Fatal("custom category missing from merged view")
	}
	if all["food"].Icon != "🍜" {
		t.Fatalf("overlay should win on collision, got %+v", all["food"])
	}
}

func TestResolveFallback(t *testing.T) {
	r, st, _ := newTestRegistry()
	st.Categories["coffee"] = core.Category{Icon: "☕"}

	if got := r.Resolve("coffee"); got.Icon != "☕" {
		t.Fatalf("Resolve(coffee) = %+v", got)
	}
	if got := r.Resolve("food"); got.Icon != "🍔" {
		t.Fatalf("Resolve(food) = %+v", got)
	}
	fallback := r.Resolve("deleted-long-ago")
	if fallback != defaults[FallbackID] {
		t.Fatalf("unknown id should resolve to fallback, got %+v", fallback)
	}
}

func TestKnown(t *testing.T) {
	r, st, _ := newTestRegistry()
	st.Categories["coffee"] = core.Category{}

	cases := []struct {
		id   string
		want bool
	}{
		{"food", true},
		{"coffee", true},
		{"ghost", false},
		{retiredID, false},
	}
	for i, tc := range cases {
		if got := r.Known(tc.id); got != tc.want {
			t.Fatalf("case %d Known(%q) = %v, want %v", i, tc.id, got, tc.want)
		}
	}
}

func TestLoadStripsRetired(t *testing.T) {
	ctx := context.Background()
	r, st, store := newTestRegistry()
	st.Categories[retiredID] = core.Category{Icon: "🍿"}
	st.Categories["coffee"] = core.Category{Icon: "☕"}

	if err := r.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := st.Categories[retiredID]; ok {
		t.Fatal("retired id should be stripped")
	}
	if _, ok := st.Categories["coffee"]; !ok {
		t.Fatal("unrelated overlay entry lost")
	}

	// The strip must be persisted so a reload does not resurrect it.
	reloaded := state.Load(ctx, store)
	if _, ok := reloaded.Categories[retiredID]; ok {
		t.Fatal("retired id resurrected from store")
	}
}

func TestLoadWithoutRetiredDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	r, _, store := newTestRegistry()
	if err := r.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, found, _ := store.Load(ctx, state.KeyCategories); found {
		t.Fatal("clean overlay should not be rewritten on load")
	}
}

func TestDisplayName(t *testing.T) {
	r, st, _ := newTestRegistry()
	st.Categories["coffee"] = core.Category{Name: "Kopi"}

	cases := []struct {
		id   string
		want string
	}{
		{"coffee", "Kopi"},
		{"food", "Food"},
		{"transport", "Transport"},
	}
	for i, tc := range cases {
		if got := r.DisplayName(tc.id); got != tc.want {
			t.Fatalf("case %d DisplayName(%q) = %q, want %q", i, tc.id, got, tc.want)
		}
	}
}

func TestPut(t *testing.T) {
	ctx := context.Background()
	r, _, store := newTestRegistry()

	if err := r.Put(ctx, "", core.Category{}); err == nil {
		t.Fatal("empty id should be rejected")
	}
	if err := r.Put(ctx, "coffee", core.Category{Icon: "☕"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	reloaded := state.Load(ctx, store)
	if reloaded.Categories["coffee"].Icon != "☕" {
		t.Fatal("Put not persisted")
	}
}
