// Package store implements the storefront's dual-backend persistence: a
// MongoDB document store when credentials resolve at startup, and ordered
// in-process collections otherwise. Product reads and writes additionally
// degrade to the in-process collections on a per-call basis when the
// document store errors; order intake does not (see Selector.CreateOrder).
package store

// Document is a schema-less storefront record. Both collections hold
// free-form submissions; the server only stamps createdAt (and status on
// orders) and validates name/price on products at the HTTP layer.
type Document map[string]any

// Backend identifies which store serviced an operation, so callers can
// surface the degraded path in their response messages and metrics.
type Backend int

const (
	BackendDocument Backend = iota
	BackendMemory
)

func (b Backend) String() string {
	if b == BackendMemory {
		return "memory"
	}
	return "document"
}

// StatusProcessing is the initial (and only) order status this system
// assigns. Orders are never transitioned, updated, or deleted here.
const StatusProcessing = "Processing"

const (
	collOrders   = "orders"
	collProducts = "products"
)

// clone returns a shallow copy of doc so stored documents and returned
// snapshots do not alias caller-held maps.
func clone(doc Document) Document {
	out := make(Document, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	return out
}
