package calc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body)))
	return rr
}

func TestHandler_BillUsesDefaultRates(t *testing.T) {
	// when
	rr := post(NewHandler().Bill, `{"inputs": {"work_portion": "100000"}}`)

	// then
	require.Equal(t, http.StatusOK, rr.Code)
	var out BillDerived
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	assertDecimal(t, "18000", out.GST, "gst")
	assertDecimal(t, "113000", out.NetAmount, "net_amount")
}

func TestHandler_BillKeepsOverriddenPrevious(t *testing.T) {
	// when
	rr := post(NewHandler().Bill, `{
		"inputs": {"work_portion": "100000"},
		"overrides": {"gst": true, "tds": true},
		"previous": {"gst": "20000", "tds": "-2500"}
	}`)

	// then
	require.Equal(t, http.StatusOK, rr.Code)
	var out BillDerived
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	assertDecimal(t, "20000", out.GST, "gst")
	assertDecimal(t, "2500", out.TDS, "tds")
	assertDecimal(t, "120000", out.BillTotal, "bill_total")
	assertDecimal(t, "114500", out.NetAmount, "net_amount")
}

func TestHandler_TechnicalSanction(t *testing.T) {
	// when
	rr := post(NewHandler().TechnicalSanction, `{"inputs": {
		"work_portion": "50000", "royalty": "1000", "testing": "500", "consultancy": "2000"
	}}`)

	// then
	require.Equal(t, http.StatusOK, rr.Code)
	var out TSDerived
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	assertDecimal(t, "60500", out.GrandTotal, "grand_total")
	assertDecimal(t, "65000", out.FinalTotal, "final_total")
}

func TestHandler_RejectsInvalidInputs(t *testing.T) {
	h := NewHandler()
	tests := []struct {
		name    string
		handler http.HandlerFunc
		body    string
	}{
		{"malformed bill body", h.Bill, `{"inputs": [`},
		{"bill rate above 100", h.Bill, `{"inputs": {"work_portion": "1", "gst_percentage": "180"}}`},
		{"negative sanction work portion", h.TechnicalSanction, `{"inputs": {"work_portion": "-5"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// when
			rr := post(tt.handler, tt.body)

			// then
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}
