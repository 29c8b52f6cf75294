package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set("user_id", int64(3))
		c.Next()
	})
	NewHandler(f.svc).RegisterRoutes(api)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerLifecycle(t *testing.T) {
	f := setup(t, setupOpts{})
	r := newRouter(f)

	w := doJSON(t, r, http.MethodPost, "/api/v1/bookings", map[string]any{
		"booking_number": "BK-H1",
		"flat_id":        f.flats[0].ID,
		"property_id":    f.property.ID,
		"customer_id":    f.customer.ID,
		"total_amount":   "5000000",
		"token_amount":   "250000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Success bool `json:"success"`
		Data    struct {
			Booking Booking `json:"booking"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	id := created.Data.Booking.ID
	require.NotZero(t, id)
	assert.Equal(t, int64(3), created.Data.Booking.CreatedBy)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/bookings/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "BOOKING_NOT_FOUND")

	w = doJSON(t, r, http.MethodPost, "/api/v1/bookings", map[string]any{
		"booking_number": "BK-H2",
		"flat_id":        f.flats[0].ID,
		"property_id":    f.property.ID,
		"customer_id":    f.customer.ID,
		"total_amount":   "5000000",
		"token_amount":   "0",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "FLAT_NOT_AVAILABLE")

	cancelPath := fmt.Sprintf("/api/v1/bookings/%d/cancel", id)
	w = doJSON(t, r, http.MethodPost, cancelPath, map[string]any{"reason": "changed mind"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, cancelPath, map[string]any{"reason": "changed mind"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/bookings/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
