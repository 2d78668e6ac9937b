package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/bazaar/internal/store"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

const (
	productsCacheKey = "products:list"
	productsCacheTTL = 10 * time.Second
)

type ProductController struct {
	store *store.Selector
}

func NewProductController(s *store.Selector) *ProductController {
	return &ProductController{store: s}
}

// List returns the catalog, newest first. Listing never surfaces an error:
// a document-store failure is answered from the in-memory collection for
// that call, and the response is 200 either way.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	var products []store.Document
	if cache.Get(productsCacheKey, &products) {
		response.JSON(w, http.StatusOK, products)
		return
	}

	products, _ = c.store.ListProducts(r.Context())
	_ = cache.Set(productsCacheKey, products, productsCacheTTL)
	response.JSON(w, http.StatusOK, products)
}

// Create validates name and price, stamps createdAt, and stores the record.
// The only visible failure is the 400 validation case; store errors fall
// back to the in-memory collection and still report 201. An unreadable body
// takes the same in-memory path rather than erroring (observed behavior of
// this endpoint, preserved).
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body store.Document
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.WithCtx(ctx).Warn("product body unreadable, storing in memory", "error", err)
		stored, _ := c.store.AddProductToMemory(store.Document{"createdAt": time.Now().UTC()})
		_ = cache.Del(productsCacheKey)
		response.JSON(w, http.StatusCreated, stored)
		return
	}

	name, ok := body["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		response.Message(w, http.StatusBadRequest, "Product name is required")
		return
	}
	if !numeric(body["price"]) {
		response.Message(w, http.StatusBadRequest, "Product price must be a number")
		return
	}

	body["createdAt"] = time.Now().UTC()

	stored, _ := c.store.AddProduct(ctx, body)
	_ = cache.Del(productsCacheKey)
	response.JSON(w, http.StatusCreated, stored)
}

// DeleteOne removes a single product by path identifier. Deleting an
// identifier that matches nothing is a successful no-op.
func (c *ProductController) DeleteOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := c.store.DeleteProduct(ctx, id); err != nil {
		logger.WithCtx(ctx).Error("product delete failed", "id", id, "error", err)
		response.Message(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	_ = cache.Del(productsCacheKey)
	response.Message(w, http.StatusOK, "Product deleted")
}

// DeleteAll empties the catalog.
func (c *ProductController) DeleteAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := c.store.DeleteAllProducts(ctx); err != nil {
		logger.WithCtx(ctx).Error("product clear failed", "error", err)
		response.Message(w, http.StatusInternalServerError, "Failed to delete products")
		return
	}

	_ = cache.Del(productsCacheKey)
	response.Message(w, http.StatusOK, "All products deleted")
}

// numeric reports whether v is a JSON number. encoding/json decodes numbers
// into float64, but json.Number and integer types are accepted too.
func numeric(v any) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64, json.Number:
		return true
	}
	return false
}
