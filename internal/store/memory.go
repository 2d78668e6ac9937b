package store

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory holds the in-process fallback collections. Products are kept
// newest-first (Prepend on add) so listing matches the document store's
// createdAt-descending order; orders are appended in arrival order.
//
// Unlike the document store there is no cross-request guarantee here beyond
// what the mutex gives each individual call.
type Memory struct {
	mu       sync.RWMutex
	products []Document
	orders   []Document
}

func NewMemory() *Memory {
	return &Memory{}
}

// NewID synthesizes an identifier for in-memory documents: the current
// unix-millisecond time plus a short random token.
func NewID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.NewString()[:8]
}

// AddOrder stores a copy of doc with a synthesized id and returns the id.
func (m *Memory) AddOrder(doc Document) string {
	stored := clone(doc)
	id := NewID()
	stored["id"] = id

	m.mu.Lock()
	m.orders = append(m.orders, stored)
	m.mu.Unlock()
	return id
}

// PrependProduct stores a copy of doc with a synthesized id at the head of
// the product collection and returns the stored record.
func (m *Memory) PrependProduct(doc Document) Document {
	stored := clone(doc)
	stored["id"] = NewID()

	m.mu.Lock()
	m.products = append([]Document{stored}, m.products...)
	m.mu.Unlock()
	return clone(stored)
}

// Products returns a snapshot of the product collection, newest first.
// Never nil, so it encodes as a JSON array.
func (m *Memory) Products() []Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Document, 0, len(m.products))
	for _, doc := range m.products {
		out = append(out, clone(doc))
	}
	return out
}

// Orders returns a snapshot of the order collection in arrival order.
func (m *Memory) Orders() []Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Document, 0, len(m.orders))
	for _, doc := range m.orders {
		out = append(out, clone(doc))
	}
	return out
}

// RemoveProduct deletes the product with the given id. Removing an id that
// is not present is a successful no-op.
func (m *Memory) RemoveProduct(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, doc := range m.products {
		if doc["id"] == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return
		}
	}
}

// ClearProducts empties the product collection in place.
func (m *Memory) ClearProducts() {
	m.mu.Lock()
	m.products = nil
	m.mu.Unlock()
}
