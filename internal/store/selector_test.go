package store

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/shashiranjanraj/bazaar/pkg/metrics"
)

// All selector tests run memory-only, the state a startup credential
// failure leaves the process in.

func TestMemorySelectorMode(t *testing.T) {
	sel := NewMemorySelector()
	if sel.Available() {
		t.Fatal("memory selector must report the document store unavailable")
	}
	if sel.Primary() != nil {
		t.Fatal("memory selector must never hold a document-store client")
	}
}

func TestSelectorCreateOrderInMemory(t *testing.T) {
	sel := NewMemorySelector()
	id, backend, err := sel.CreateOrder(context.Background(), Document{"item": "wheel"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend != BackendMemory {
		t.Errorf("expected memory backend, got %v", backend)
	}
	if id == "" {
		t.Error("expected a synthesized id")
	}

	orders, backend := sel.ListOrders(context.Background())
	if backend != BackendMemory || len(orders) != 1 {
		t.Fatalf("expected one in-memory order, got %d (%v)", len(orders), backend)
	}
	if orders[0]["id"] != id {
		t.Errorf("listed order id %v != created id %v", orders[0]["id"], id)
	}
}

func TestSelectorProductLifecycleInMemory(t *testing.T) {
	ctx := context.Background()
	sel := NewMemorySelector()

	stored, backend := sel.AddProduct(ctx, Document{"name": "Wheel Set", "price": 49.99})
	if backend != BackendMemory {
		t.Errorf("expected memory backend, got %v", backend)
	}
	id, _ := stored["id"].(string)
	if id == "" {
		t.Fatal("expected a synthesized id on the stored record")
	}

	products, _ := sel.ListProducts(ctx)
	if len(products) != 1 || products[0]["name"] != "Wheel Set" {
		t.Fatalf("unexpected listing: %v", products)
	}

	if err := sel.DeleteProduct(ctx, "not-there"); err != nil {
		t.Errorf("deleting an absent id must succeed, got %v", err)
	}
	if err := sel.DeleteProduct(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if products, _ := sel.ListProducts(ctx); len(products) != 0 {
		t.Errorf("expected empty catalog after delete, got %v", products)
	}
}

func TestSelectorDeleteAllInMemory(t *testing.T) {
	ctx := context.Background()
	sel := NewMemorySelector()
	sel.AddProduct(ctx, Document{"name": "a", "price": 1.0})
	sel.AddProduct(ctx, Document{"name": "b", "price": 2.0})

	if err := sel.DeleteAllProducts(ctx); err != nil {
		t.Fatalf("delete all failed: %v", err)
	}
	if products, _ := sel.ListProducts(ctx); len(products) != 0 {
		t.Errorf("expected empty catalog, got %v", products)
	}
}

func TestSelectorModeFixedAfterConstruction(t *testing.T) {
	ctx := context.Background()
	sel := NewMemorySelector()

	// Operations never flip the process-wide mode.
	sel.AddProduct(ctx, Document{"name": "x", "price": 1.0})
	sel.ListProducts(ctx)
	_, _, _ = sel.CreateOrder(ctx, Document{})
	if sel.Available() {
		t.Error("selector mode changed after construction")
	}
}

// ─────────────────────────────────────────────
// Store available but individual calls fail
// ─────────────────────────────────────────────

// brokenPrimary stands in for a reachable document store whose every call
// errors, the condition that triggers per-call degradation.
type brokenPrimary struct {
	err error
}

func (p *brokenPrimary) InsertOrder(context.Context, Document) (string, error) {
	return "", p.err
}
func (p *brokenPrimary) InsertProduct(context.Context, Document) (Document, error) {
	return nil, p.err
}
func (p *brokenPrimary) ListProducts(context.Context) ([]Document, error) { return nil, p.err }
func (p *brokenPrimary) ListOrders(context.Context) ([]Document, error)   { return nil, p.err }
func (p *brokenPrimary) DeleteProduct(context.Context, string) error      { return p.err }
func (p *brokenPrimary) DeleteAllProducts(context.Context) error          { return p.err }

func newBrokenSelector() *Selector {
	return &Selector{
		primary: &brokenPrimary{err: errors.New("connection reset")},
		memory:  NewMemory(),
	}
}

func TestAddProductFallsBackPerCall(t *testing.T) {
	ctx := context.Background()
	sel := newBrokenSelector()

	before := testutil.ToFloat64(metrics.StoreFallbacks.WithLabelValues("insert_product"))

	stored, backend := sel.AddProduct(ctx, Document{"name": "Wheel Set", "price": 49.99})
	if backend != BackendMemory {
		t.Fatalf("expected memory backend after insert failure, got %v", backend)
	}
	if id, _ := stored["id"].(string); id == "" {
		t.Error("fallback insert must synthesize an id")
	}
	if len(sel.memory.Products()) != 1 {
		t.Error("fallback insert must land in the memory collection")
	}
	if !sel.Available() {
		t.Error("a per-call failure must not flip the process-wide mode")
	}

	after := testutil.ToFloat64(metrics.StoreFallbacks.WithLabelValues("insert_product"))
	if after != before+1 {
		t.Errorf("expected one recorded fallback, got %v → %v", before, after)
	}
}

func TestListProductsFallsBackPerCall(t *testing.T) {
	ctx := context.Background()
	sel := newBrokenSelector()
	sel.memory.PrependProduct(Document{"name": "cached in memory"})

	before := testutil.ToFloat64(metrics.StoreFallbacks.WithLabelValues("list_products"))

	products, backend := sel.ListProducts(ctx)
	if backend != BackendMemory {
		t.Fatalf("expected memory backend after list failure, got %v", backend)
	}
	if len(products) != 1 || products[0]["name"] != "cached in memory" {
		t.Errorf("expected the memory collection, got %v", products)
	}
	if !sel.Available() {
		t.Error("a per-call failure must not flip the process-wide mode")
	}

	after := testutil.ToFloat64(metrics.StoreFallbacks.WithLabelValues("list_products"))
	if after != before+1 {
		t.Errorf("expected one recorded fallback, got %v → %v", before, after)
	}
}

func TestListOrdersFallsBackPerCall(t *testing.T) {
	sel := newBrokenSelector()
	sel.memory.AddOrder(Document{"item": "wheel"})

	orders, backend := sel.ListOrders(context.Background())
	if backend != BackendMemory || len(orders) != 1 {
		t.Errorf("expected one in-memory order after list failure, got %d (%v)", len(orders), backend)
	}
}

func TestCreateOrderErrorSurfacesWithoutFallback(t *testing.T) {
	sel := newBrokenSelector()

	_, backend, err := sel.CreateOrder(context.Background(), Document{"item": "wheel"})
	if err == nil {
		t.Fatal("order intake must surface the document-store error")
	}
	if backend != BackendDocument {
		t.Errorf("failed intake still reports the document backend, got %v", backend)
	}
	if len(sel.memory.Orders()) != 0 {
		t.Error("a failed intake must not land in the memory collection")
	}
	if !sel.Available() {
		t.Error("a failed intake must not flip the process-wide mode")
	}
}

func TestDeleteErrorsSurface(t *testing.T) {
	ctx := context.Background()
	sel := newBrokenSelector()

	if err := sel.DeleteProduct(ctx, "abc"); err == nil {
		t.Error("delete-one must surface the document-store error")
	}
	if err := sel.DeleteAllProducts(ctx); err == nil {
		t.Error("delete-all must surface the document-store error")
	}
}
