package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	// given
	rr := httptest.NewRecorder()

	// when
	WriteError(rr, http.StatusBadRequest, "Invalid work id", "work must be an integer")

	// then
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "Invalid work id", body.Error)
	assert.Equal(t, "work must be an integer", body.Details)
}

func TestQueryInt(t *testing.T) {
	t.Run("absent parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/works", nil)
		_, ok, err := QueryInt(req, "gr")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("valid parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/works?gr=12", nil)
		value, ok, err := QueryInt(req, "gr")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 12, value)
	})

	t.Run("invalid parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/works?gr=abc", nil)
		_, ok, err := QueryInt(req, "gr")
		assert.Error(t, err)
		assert.True(t, ok)
	})
}

func TestPathInt(t *testing.T) {
	// given
	var got int
	var gotErr error
	r := mux.NewRouter()
	r.HandleFunc("/api/grs/{id}", func(w http.ResponseWriter, req *http.Request) {
		got, gotErr = PathInt(req, "id")
	})

	// when
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/grs/42", nil))

	// then
	assert.NoError(t, gotErr)
	assert.Equal(t, 42, got)
}

func TestIsValidation(t *testing.T) {
	err := validation.Errors{"date": validation.ErrRequired}
	assert.True(t, IsValidation(err))
	assert.True(t, IsValidation(fmt.Errorf("invalid work: %w", err)))
	assert.False(t, IsValidation(errors.New("boom")))
}
