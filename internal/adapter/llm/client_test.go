package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, content)
	}))
}

func testClient(baseURL string) *Client {
	return NewClient("test-key", "test-model", baseURL, 5*time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGroundCoordinates(t *testing.T) {
	srv := chatServer(t, `{"found": true, "lat": 28.5618, "lon": -80.5772}`)
	defer srv.Close()

	result, err := testClient(srv.URL).GroundCoordinates(context.Background(), "SLC-40, Cape Canaveral")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, 28.5618, result.Lat)
	assert.Equal(t, -80.5772, result.Lon)
	assert.Equal(t, "SLC-40, Cape Canaveral", result.Name)
}

func TestGroundCoordinates_Declined(t *testing.T) {
	srv := chatServer(t, `{"found": false}`)
	defer srv.Close()

	result, err := testClient(srv.URL).GroundCoordinates(context.Background(), "the launch area")
	require.NoError(t, err, "a declined grounding is not an error")
	assert.False(t, result.Found)
}

func TestGroundCoordinates_FencedJSON(t *testing.T) {
	srv := chatServer(t, "```json\n{\"found\": true, \"lat\": 34.632, \"lon\": -120.611}\n```")
	defer srv.Close()

	result, err := testClient(srv.URL).GroundCoordinates(context.Background(), "Vandenberg SFB")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, 34.632, result.Lat)
}

func TestGroundCoordinates_Unparseable(t *testing.T) {
	srv := chatServer(t, "The site is in Florida, roughly.")
	defer srv.Close()

	_, err := testClient(srv.URL).GroundCoordinates(context.Background(), "somewhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse grounding response")
}

func TestNarrate(t *testing.T) {
	srv := chatServer(t, "  Clear skies at the Cape, so low delay risk for Ax-4.\n")
	defer srv.Close()

	text, err := testClient(srv.URL).Narrate(context.Background(), "will it slip?", "Weather delay risk: low.")
	require.NoError(t, err)
	assert.Equal(t, "Clear skies at the Cape, so low delay risk for Ax-4.", text)
}

func TestChat_NoAPIKey(t *testing.T) {
	c := NewClient("", "m", "http://unused", time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := c.Narrate(context.Background(), "q", "facts")
	require.Error(t, err)
}

func TestChat_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Narrate(context.Background(), "q", "facts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"found": false}`, `{"found": false}`},
		{"fenced", "```\n{\"found\": false}\n```", `{"found": false}`},
		{"fenced with language", "```json\n{\"found\": false}\n```", `{"found": false}`},
		{"padded", "  {\"found\": false}  ", `{"found": false}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}
