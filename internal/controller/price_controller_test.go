package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPrices_All(t *testing.T) {
	h := NewPriceController()

	req := httptest.NewRequest("GET", "/api/v1/prices", nil)
	w := httptest.NewRecorder()

	h.ListPrices(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []PriceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 3)
	assert.Equal(t, 250, resp[0].Credits)
	assert.Equal(t, 5.0, resp[0].Cost)
	assert.Equal(t, "USD", resp[0].Currency)
}

func TestListPrices_SingleBundle(t *testing.T) {
	h := NewPriceController()

	req := httptest.NewRequest("GET", "/api/v1/prices?credits=750", nil)
	w := httptest.NewRecorder()

	h.ListPrices(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp PriceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 750, resp.Credits)
	assert.Equal(t, 12.0, resp.Cost)
}

func TestListPrices_UnknownBundle(t *testing.T) {
	h := NewPriceController()

	req := httptest.NewRequest("GET", "/api/v1/prices?credits=999", nil)
	w := httptest.NewRecorder()

	h.ListPrices(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPrices_NonNumericCredits(t *testing.T) {
	h := NewPriceController()

	req := httptest.NewRequest("GET", "/api/v1/prices?credits=abc", nil)
	w := httptest.NewRecorder()

	h.ListPrices(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
