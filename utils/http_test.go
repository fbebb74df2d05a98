package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestWriteJSON_NilData(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteJSON(w, http.StatusAccepted, nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestWriteText(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteText(w, http.StatusOK, "OK\n")
	require.NoError(t, err)

	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "OK\n", w.Body.String())
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		message  string
		fields   map[string]interface{}
		expected string
	}{
		{
			name:     "message only",
			status:   http.StatusInternalServerError,
			message:  "boom",
			expected: `{"error":"boom"}`,
		},
		{
			name:     "with details",
			status:   http.StatusTooManyRequests,
			message:  "OpenAI API error: 429",
			fields:   map[string]interface{}{"details": `{"error":"slow down"}`},
			expected: `{"error":"OpenAI API error: 429","details":"{\"error\":\"slow down\"}"}`,
		},
		{
			name:     "error key cannot be overridden by fields",
			status:   http.StatusBadRequest,
			message:  "real",
			fields:   map[string]interface{}{"error": "shadow", "prompt": "hi"},
			expected: `{"error":"real","prompt":"hi"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			err := WriteError(w, tt.status, tt.message, tt.fields)
			require.NoError(t, err)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.expected, w.Body.String())
		})
	}
}

func TestWriteInternalServerError_DefaultMessage(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteInternalServerError(w, ""))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body["error"])
}
