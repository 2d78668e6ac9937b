package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/bazaar/pkg/response"
)

type SiteController struct{}

func NewSiteController() *SiteController {
	return &SiteController{}
}

// Home serves the fixed storefront landing text.
func (c *SiteController) Home(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Bazaar storefront API. See /healthz and /api/products.\n")) //nolint:errcheck
}

// Health always answers 200 with a fixed status token and the server time.
func (c *SiteController) Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// NotFound answers every unmatched route.
func (c *SiteController) NotFound(w http.ResponseWriter, _ *http.Request) {
	response.NotFound(w)
}
