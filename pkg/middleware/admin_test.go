package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/bazaar/pkg/middleware"
)

func callGuard(secret, header string) (*httptest.ResponseRecorder, bool) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/products", nil)
	if header != "" {
		req.Header.Set(middleware.AdminHeader, header)
	}
	middleware.AdminOnly(secret)(next).ServeHTTP(rec, req)
	return rec, reached
}

func TestAdminOnlyFailsClosedWhenUnconfigured(t *testing.T) {
	// Supplying any header must not help when no secret is configured.
	rec, reached := callGuard("", "anything")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), "not configured")
}

func TestAdminOnlyRejectsMismatch(t *testing.T) {
	rec, reached := callGuard("s3cret", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)

	rec, reached = callGuard("s3cret", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAdminOnlyPassesExactMatch(t *testing.T) {
	rec, reached := callGuard("s3cret", "s3cret")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}
