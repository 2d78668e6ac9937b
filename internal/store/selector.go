package store

import (
	"context"
	"time"

	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
)

// primaryStore is the document-store surface the selector dispatches to.
// *DocumentStore satisfies it; tests substitute failing implementations to
// drive the per-call fallback branches.
type primaryStore interface {
	InsertOrder(ctx context.Context, doc Document) (string, error)
	InsertProduct(ctx context.Context, doc Document) (Document, error)
	ListProducts(ctx context.Context) ([]Document, error)
	ListOrders(ctx context.Context) ([]Document, error)
	DeleteProduct(ctx context.Context, id string) error
	DeleteAllProducts(ctx context.Context) error
}

// Selector dispatches each operation to the document store or the in-memory
// collections. The choice of primary backend is made exactly once, at
// construction; a per-call failure of a product operation falls back to
// memory for that call only and never flips the process-wide mode.
type Selector struct {
	primary primaryStore   // nil when the document store is unavailable
	doc     *DocumentStore // concrete handle for auxiliary writers, nil in memory mode
	memory  *Memory
}

// NewSelector resolves credentials and attempts to open the document store.
// Any failure (absent credentials, malformed JSON, unreachable database) is
// logged and the selector runs memory-only; startup never fails here.
func NewSelector(ctx context.Context) *Selector {
	sel := &Selector{memory: NewMemory()}

	creds, err := ResolveCredentials()
	if err != nil {
		logger.Warn("document store unavailable, using in-memory collections", "reason", err)
		return sel
	}

	primary, err := OpenDocumentStore(ctx, creds)
	if err != nil {
		logger.Warn("document store unavailable, using in-memory collections", "reason", err)
		return sel
	}

	sel.primary = primary
	sel.doc = primary
	logger.Info("document store connected", "database", creds.Database)
	return sel
}

// NewMemorySelector returns a selector with no document store. Used by the
// route-listing command and tests, and equivalent to a startup credential
// failure.
func NewMemorySelector() *Selector {
	return &Selector{memory: NewMemory()}
}

// Available reports whether the document store is the active backend.
func (s *Selector) Available() bool {
	return s.primary != nil
}

// Primary exposes the document store handle, nil in memory mode.
func (s *Selector) Primary() *DocumentStore {
	return s.doc
}

// Close releases the document-store client, if any.
func (s *Selector) Close(ctx context.Context) error {
	if s.doc == nil {
		return nil
	}
	return s.doc.Close(ctx)
}

// CreateOrder writes doc to the active backend and returns the generated
// identifier. A document-store failure surfaces as an error with no memory
// fallback; only startup unavailability routes orders to memory. Product
// writes behave differently on purpose — see AddProduct.
func (s *Selector) CreateOrder(ctx context.Context, doc Document) (string, Backend, error) {
	if s.primary == nil {
		return s.memory.AddOrder(doc), BackendMemory, nil
	}

	defer metrics.ObserveStoreOp("insert_order", time.Now())
	id, err := s.primary.InsertOrder(ctx, doc)
	if err != nil {
		return "", BackendDocument, err
	}
	return id, BackendDocument, nil
}

// ListProducts never fails: a document-store error is logged, counted, and
// answered from the memory collection for this call only.
func (s *Selector) ListProducts(ctx context.Context) ([]Document, Backend) {
	if s.primary == nil {
		return s.memory.Products(), BackendMemory
	}

	defer metrics.ObserveStoreOp("list_products", time.Now())
	docs, err := s.primary.ListProducts(ctx)
	if err != nil {
		logger.WithCtx(ctx).Warn("product list query failed, serving in-memory collection", "error", err)
		metrics.RecordStoreFallback("list_products")
		return s.memory.Products(), BackendMemory
	}
	return docs, BackendDocument
}

// ListOrders mirrors ListProducts for the orders collection.
func (s *Selector) ListOrders(ctx context.Context) ([]Document, Backend) {
	if s.primary == nil {
		return s.memory.Orders(), BackendMemory
	}

	defer metrics.ObserveStoreOp("list_orders", time.Now())
	docs, err := s.primary.ListOrders(ctx)
	if err != nil {
		logger.WithCtx(ctx).Warn("order list query failed, serving in-memory collection", "error", err)
		metrics.RecordStoreFallback("list_orders")
		return s.memory.Orders(), BackendMemory
	}
	return docs, BackendDocument
}

// AddProduct never fails: a document-store error falls back to storing the
// record in memory, still reporting success to the caller.
func (s *Selector) AddProduct(ctx context.Context, doc Document) (Document, Backend) {
	if s.primary == nil {
		return s.memory.PrependProduct(doc), BackendMemory
	}

	defer metrics.ObserveStoreOp("insert_product", time.Now())
	stored, err := s.primary.InsertProduct(ctx, doc)
	if err != nil {
		logger.WithCtx(ctx).Warn("product insert failed, storing in memory", "error", err)
		metrics.RecordStoreFallback("insert_product")
		return s.memory.PrependProduct(doc), BackendMemory
	}
	return stored, BackendDocument
}

// AddProductToMemory bypasses the document store entirely. It backs the
// catch-all path on product add: a body that could not even be decoded is
// still stored, in memory, and reported as created.
func (s *Selector) AddProductToMemory(doc Document) (Document, Backend) {
	return s.memory.PrependProduct(doc), BackendMemory
}

// DeleteProduct removes one product by identifier. Errors surface; an
// identifier that matches nothing is a successful no-op on both backends.
func (s *Selector) DeleteProduct(ctx context.Context, id string) error {
	if s.primary == nil {
		s.memory.RemoveProduct(id)
		return nil
	}

	defer metrics.ObserveStoreOp("delete_product", time.Now())
	return s.primary.DeleteProduct(ctx, id)
}

// DeleteAllProducts empties the product collection. Errors surface.
func (s *Selector) DeleteAllProducts(ctx context.Context) error {
	if s.primary == nil {
		s.memory.ClearProducts()
		return nil
	}

	defer metrics.ObserveStoreOp("delete_all_products", time.Now())
	return s.primary.DeleteAllProducts(ctx)
}
