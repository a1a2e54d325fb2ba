package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-booking/internal/middleware"
)

// drainBody reads the whole body and answers 413 when the read fails, the
// way a JSON-decoding handler reacts to http.MaxBytesReader.
func drainBody(reached *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestMaxBodySizeHandler(t *testing.T) {
	cases := []struct {
		name        string
		limit       int64
		size        int
		unknownLen  bool
		wantStatus  int
		wantReached bool
	}{
		{"within limit", 100, 50, false, http.StatusNoContent, true},
		{"exactly at limit", 100, 100, false, http.StatusNoContent, true},
		// Rejected from Content-Length alone; next handler never runs.
		{"declared over limit", 100, 101, false, http.StatusRequestEntityTooLarge, false},
		// No Content-Length: the read inside the handler trips the cap.
		{"streamed over limit", 100, 200, true, http.StatusRequestEntityTooLarge, true},
		{"zero limit disables", 0, 4096, false, http.StatusNoContent, true},
		{"negative limit disables", -1, 4096, true, http.StatusNoContent, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached := false
			h := middleware.NewMaxBodySizeHandler(tc.limit)(drainBody(&reached))

			req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(strings.Repeat("x", tc.size)))
			if tc.unknownLen {
				req.ContentLength = -1
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantReached, reached)
		})
	}
}

func TestMaxBodySizeHandler_RejectionBody(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(8)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("next handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPut, "/clients/1/trips/2", strings.NewReader(`{"padding":"xxxxxxxx"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, "request body too large", body.Error.Message)
}
