package util

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelayErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"stability envelope", `{"name":"content_moderation","errors":["flagged"]}`, "content_moderation: flagged"},
		{"errors without name", `{"errors":["a","b"]}`, "a; b"},
		{"message", `{"message":"Invalid API key"}`, "Invalid API key"},
		{"error string", `{"error":"rate limited"}`, "rate limited"},
		{"error object", `{"error":{"message":"nope"}}`, "nope"},
		{"plain text", "Service Unavailable", "Service Unavailable"},
		{"empty", "", "bad response status code 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				StatusCode: http.StatusServiceUnavailable,
				Body:       io.NopCloser(strings.NewReader(tt.body)),
			}
			err := RelayErrorHandler(resp)
			assert.Equal(t, http.StatusServiceUnavailable, err.StatusCode)
			assert.Equal(t, tt.want, err.Message)
		})
	}
}
