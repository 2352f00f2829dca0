package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worksledger/worksledger/internal/config"
	"github.com/worksledger/worksledger/pkg/dataset"
)

// newTestRouter wires the real handlers without a database; only routes that
// never reach a repository are exercised.
func newTestRouter(cfg config.Application) *mux.Router {
	r := mux.NewRouter()
	deps := BuildDependencies(nil, cfg)
	SetupMiddleware(r, cfg)
	RegisterRoutes(r, deps, cfg)
	return r
}

func doRequest(r http.Handler, method, url, role, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewBufferString(body))
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRoleGate(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	tests := []struct {
		name        string
		defaultRole string
		role        string
		method      string
		status      int
	}{
		{"viewer reads", RoleEditor, RoleViewer, http.MethodGet, http.StatusOK},
		{"viewer heads", RoleEditor, RoleViewer, http.MethodHead, http.StatusOK},
		{"viewer writes", RoleEditor, RoleViewer, http.MethodPost, http.StatusForbidden},
		{"viewer deletes", RoleEditor, "Viewer", http.MethodDelete, http.StatusForbidden},
		{"editor writes", RoleViewer, RoleEditor, http.MethodPut, http.StatusOK},
		{"admin writes", RoleViewer, RoleAdmin, http.MethodDelete, http.StatusOK},
		{"default editor writes", RoleEditor, "", http.MethodPost, http.StatusOK},
		{"default viewer writes", RoleViewer, "", http.MethodPost, http.StatusForbidden},
		{"unknown role", RoleEditor, "auditor", http.MethodGet, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// given
			h := RoleGate(tt.defaultRole)(ok)

			// when
			rr := doRequest(h, tt.method, "/api/grs", tt.role, "")

			// then
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestDemoDataSet(t *testing.T) {
	// given
	var demo bool
	h := DemoDataSet(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		demo = dataset.IsDemo(r.Context())
	}))

	// when
	doRequest(h, http.MethodGet, "/api/demo/grs", "", "")

	// then
	assert.True(t, demo)
}

func TestRoutes_CalculateOnBothDataSets(t *testing.T) {
	// given
	r := newTestRouter(config.Defaults())
	body := `{"inputs": {"work_portion": "100000"}}`

	for _, url := range []string{"/api/calculate/bill", "/api/demo/calculate/bill"} {
		// when
		rr := doRequest(r, http.MethodPost, url, "", body)

		// then
		require.Equal(t, http.StatusOK, rr.Code, url)
		var out map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
		assert.Contains(t, out, "net_amount")
	}
}

func TestRoutes_FormSessionsFollowDataSet(t *testing.T) {
	// given
	r := newTestRouter(config.Defaults())
	rr := doRequest(r, http.MethodPost, "/api/demo/forms/technical-sanction", "", `{"work": 50}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var view struct {
		Id string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&view))

	// when
	live := doRequest(r, http.MethodGet, "/api/forms/"+view.Id, "", "")
	demo := doRequest(r, http.MethodGet, "/api/demo/forms/"+view.Id, "", "")

	// then
	assert.Equal(t, http.StatusNotFound, live.Code)
	assert.Equal(t, http.StatusOK, demo.Code)
}

func TestRoutes_ViewerCannotOpenForms(t *testing.T) {
	// given
	r := newTestRouter(config.Defaults())

	// when
	rr := doRequest(r, http.MethodPost, "/api/forms/bill", RoleViewer, "")

	// then
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRoutes_DemoDisabled(t *testing.T) {
	// given
	cfg := config.Defaults()
	cfg.Demo.Enabled = false
	r := newTestRouter(cfg)

	// when
	rr := doRequest(r, http.MethodPost, "/api/demo/calculate/bill", "", `{}`)

	// then
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRoleGate_ViewerMayCalculate(t *testing.T) {
	// given
	r := newTestRouter(config.Defaults())
	body := `{"inputs": {"work_portion": "100000"}}`

	for _, url := range []string{"/api/calculate/bill", "/api/demo/calculate/technical-sanction"} {
		// when
		rr := doRequest(r, http.MethodPost, url, RoleViewer, body)

		// then
		assert.Equal(t, http.StatusOK, rr.Code, url)
	}
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodPost, "/api/forms/bill", RoleViewer, `{}`).Code)
}
