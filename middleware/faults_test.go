package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/tenant-services/internal/observability"
	"go.uber.org/zap"
)

func TestClassifyFault(t *testing.T) {
	tests := []struct {
		name     string
		rec      interface{}
		wantKind observability.FaultKind
		wantDesc string
	}{
		{name: "string panic", rec: "kaboom", wantKind: observability.FaultPanic, wantDesc: "kaboom"},
		{name: "non-error value", rec: 42, wantKind: observability.FaultPanic, wantDesc: "42"},
		{name: "plain error", rec: errors.New("division by zero"), wantKind: observability.FaultError, wantDesc: "division by zero"},
		{name: "deadline", rec: fmt.Errorf("query: %w", context.DeadlineExceeded), wantKind: observability.FaultTimeout, wantDesc: "query: context deadline exceeded"},
		{name: "canceled", rec: context.Canceled, wantKind: observability.FaultCanceled, wantDesc: "context canceled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, desc := ClassifyFault(tt.rec)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestRecover(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Recover(zap.NewNop(), JSONFaultResponder))
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("kaboom"))
	})
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("panic becomes json 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, map[string]interface{}{"error": "kaboom"}, body)
	})

	t.Run("no panic passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRecover_AbortHandler(t *testing.T) {
	handler := Recover(zap.NewNop(), JSONFaultResponder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestTextFaultResponder(t *testing.T) {
	w := httptest.NewRecorder()

	TextFaultResponder(w, httptest.NewRequest(http.MethodGet, "/", nil), "kaboom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "kaboom\n", w.Body.String())
}
