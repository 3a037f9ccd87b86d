package studio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mutex   sync.Mutex
	data    map[string][]byte
	err     error
	calls   []string
	// gates holds loads of that url until the channel is closed
	gates   map[string]chan struct{}
	started chan string
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mutex.Lock()
	f.calls = append(f.calls, url)
	gate := f.gates[url]
	f.mutex.Unlock()

	if f.started != nil {
		f.started <- url
	}
	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.data[url]
	if !ok {
		return nil, errors.New("404 not found")
	}
	return data, nil
}

func namedGLB(t *testing.T, name string) []byte {
	doc := `{
		"asset": {"version": "2.0"},
		"nodes": [{"name": "` + name + `", "mesh": 0}],
		"meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
		"accessors": [{"componentType": 5126, "count": 3, "type": "VEC3", "min": [-1, -1, -1], "max": [1, 1, 1]}]
	}`
	return buildGLB(t, doc, nil)
}

func TestLoaderPlacesModel(t *testing.T) {
	viewport, _ := newTestViewport(t)
	fetcher := &stubFetcher{data: map[string][]byte{"/m/1.glb": buildGLB(t, ringDoc, nil)}}
	loader := NewGLTFLoader(viewport, fetcher)

	require.NoError(t, loader.Load(context.Background(), "/m/1.glb"))

	model := viewport.CurrentModel()
	require.NotNil(t, model)
	assert.Equal(t, Vec3{ModelScale, ModelScale, ModelScale}, model.Scale)
	assert.InDelta(t, -1.1, model.Position[0], 1e-9)
	assert.InDelta(t, -0.2, model.Position[1], 1e-9)
	assert.InDelta(t, -0.3, model.Position[2], 1e-9)

	center := model.WorldBounds().Center()
	assert.InDelta(t, 0, center[0], 1e-9)
	assert.InDelta(t, 0, center[1], 1e-9)
	assert.InDelta(t, 0, center[2], 1e-9)
}

func TestLoaderReplacesPreviousModel(t *testing.T) {
	viewport, _ := newTestViewport(t)
	fetcher := &stubFetcher{data: map[string][]byte{
		"/a.glb": namedGLB(t, "a"),
		"/b.glb": namedGLB(t, "b"),
	}}
	loader := NewGLTFLoader(viewport, fetcher)

	require.NoError(t, loader.Load(context.Background(), "/a.glb"))
	require.NoError(t, loader.Load(context.Background(), "/b.glb"))
	assert.Equal(t, "b", viewport.CurrentModel().Name)
	assert.Len(t, viewport.Snapshot().Lights, 2)
}

func TestLoaderErrors(t *testing.T) {
	viewport, _ := newTestViewport(t)
	fetcher := &stubFetcher{data: map[string][]byte{
		"/ok.glb":  namedGLB(t, "ok"),
		"/bad.glb": []byte("not a model"),
	}}
	loader := NewGLTFLoader(viewport, fetcher)
	require.NoError(t, loader.Load(context.Background(), "/ok.glb"))

	err := loader.Load(context.Background(), "/missing.glb")
	var loadErr *ModelLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "/missing.glb", loadErr.URL)
	assert.Equal(t, "Failed to load 3D model from /missing.glb: 404 not found", err.Error())
	assert.Nil(t, viewport.CurrentModel())

	err = loader.Load(context.Background(), "/bad.glb")
	assert.ErrorContains(t, err, "not a glTF asset")
}

func TestLoaderDropsStaleLoad(t *testing.T) {
	viewport, _ := newTestViewport(t)
	fetcher := &stubFetcher{
		data: map[string][]byte{
			"/slow.glb": namedGLB(t, "slow"),
			"/fast.glb": namedGLB(t, "fast"),
		},
		gates:   map[string]chan struct{}{"/slow.glb": make(chan struct{})},
		started: make(chan string, 2),
	}
	loader := NewGLTFLoader(viewport, fetcher)

	slowDone := make(chan error, 1)
	go func() { slowDone <- loader.Load(context.Background(), "/slow.glb") }()
	assert.Equal(t, "/slow.glb", <-fetcher.started)

	require.NoError(t, loader.Load(context.Background(), "/fast.glb"))
	<-fetcher.started
	close(fetcher.gates["/slow.glb"])

	select {
	case err := <-slowDone:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("slow load did not finish")
	}
	assert.Equal(t, "fast", viewport.CurrentModel().Name)
}

func TestHTTPFetcherResolvesRelativeURL(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "model/gltf-binary")
		_, _ = w.Write([]byte("glb"))
	}))
	defer server.Close()

	fetcher := &HTTPFetcher{BaseURL: server.URL + "/", Client: server.Client()}
	data, err := fetcher.Fetch(context.Background(), "/m/1.glb")
	require.NoError(t, err)
	assert.Equal(t, []byte("glb"), data)
	assert.Equal(t, "/m/1.glb", gotPath)
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, raw, want string
	}{
		{"http://studio:3000", "/m/1.glb", "http://studio:3000/m/1.glb"},
		{"http://studio:3000/", "https://cdn.example.com/a.glb", "https://cdn.example.com/a.glb"},
		{"", "/m/1.glb", "/m/1.glb"},
	}
	for _, tt := range tests {
		got, err := resolveURL(tt.base, tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
