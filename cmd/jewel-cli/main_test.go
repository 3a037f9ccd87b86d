package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-prompt", "vine band", "-frames", "3"})
	require.NoError(t, err)
	assert.Equal(t, "vine band", opts.prompt)
	assert.Equal(t, "ring", opts.kind)
	assert.Equal(t, "gold", opts.material)
	assert.Equal(t, 3, opts.frames)

	_, err = parseFlags([]string{"-type", "ring"})
	assert.EqualError(t, err, "-prompt is required")

	_, err = parseFlags([]string{"-prompt", "x", "-frames", "-1"})
	assert.Error(t, err)
}

func TestRunWritesPreviewWhenModelFails(t *testing.T) {
	preview := base64.StdEncoding.EncodeToString([]byte("not really an image"))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/generate-2d":
			_, _ = w.Write([]byte(`{"image":"` + preview + `","format":"png"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"model generation FAILED"}`))
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	err := run(context.Background(), &options{
		server: server.URL, prompt: "gold ring", kind: "ring", material: "gold",
		out: dir, frames: 1, width: 10, height: 10, timeout: 0,
	})
	require.EqualError(t, err, "model generation FAILED")

	files, err := filepath.Glob(filepath.Join(dir, "design-*.png"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, "not really an image", string(data))
}
