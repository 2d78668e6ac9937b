package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shashiranjanraj/bazaar/internal/store"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

type OrderController struct {
	store *store.Selector
}

func NewOrderController(s *store.Selector) *OrderController {
	return &OrderController{store: s}
}

// Create accepts a free-form order submission, stamps it with the creation
// time and the initial status, and writes it to the active backend.
//
// A document-store failure here is a hard 500 with no in-memory fallback —
// the opposite of product writes. The asymmetry is intentional and kept.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body store.Document
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid order payload")
		return
	}
	if body == nil {
		body = store.Document{}
	}

	body["createdAt"] = time.Now().UTC()
	body["status"] = store.StatusProcessing

	id, backend, err := c.store.CreateOrder(ctx, body)
	if err != nil {
		logger.WithCtx(ctx).Error("order intake failed", "error", err)
		response.Message(w, http.StatusInternalServerError, "Failed to store order")
		return
	}

	msg := "Order received"
	if backend == store.BackendMemory {
		msg = "Order received (stored in memory)"
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"message": msg,
		"orderId": id,
	})
}
