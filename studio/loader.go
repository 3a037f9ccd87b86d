package studio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aurum-labs/jewel-studio/common/logger"
	"github.com/aurum-labs/jewel-studio/service"
)

// ModelScale is the uniform scale applied to every loaded model.
const ModelScale = 0.1

type ModelLoader interface {
	// Load replaces the current model with the one at url and returns once
	// it is in the scene or the load has failed.
	Load(ctx context.Context, url string) error
}

type AssetFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher resolves relative asset URLs against BaseURL.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	target, err := resolveURL(f.BaseURL, rawURL)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	data, _, err := service.FetchBytes(ctx, client, target)
	return data, err
}

func resolveURL(baseURL string, rawURL string) (string, error) {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() || baseURL == "" {
		return rawURL, nil
	}
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// GLTFLoader loads glTF models into a viewport.
type GLTFLoader struct {
	viewport *Viewport
	fetcher  AssetFetcher
}

func NewGLTFLoader(viewport *Viewport, fetcher AssetFetcher) *GLTFLoader {
	return &GLTFLoader{viewport: viewport, fetcher: fetcher}
}

func (l *GLTFLoader) Load(ctx context.Context, url string) error {
	token := l.viewport.beginLoad()

	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return &ModelLoadError{URL: url, Err: err}
	}
	object, err := ParseModel(data)
	if err != nil {
		return &ModelLoadError{URL: url, Err: err}
	}
	PlaceModel(object)
	if !l.viewport.commitModel(token, object) {
		logger.Debugf(ctx, "load of %s superseded by a newer model", url)
		return nil
	}
	logger.Debugf(ctx, "model %s loaded: %d meshes, %d vertices", url, object.MeshCount, object.VertexCount)
	return nil
}

// PlaceModel scales object by ModelScale and moves its bounding box centre
// to the origin.
func PlaceModel(object *Object3D) {
	object.Scale = Vec3{ModelScale, ModelScale, ModelScale}
	object.Position = Vec3{}
	center := object.WorldBounds().Center()
	object.Position = object.Position.Sub(center)
}

// String is used by the CLI summary.
func (o *Object3D) String() string {
	size := o.WorldBounds().Size()
	return fmt.Sprintf("model %q: %d meshes, %d vertices, position (%.3f, %.3f, %.3f), scale %.2f, size (%.3f, %.3f, %.3f), rotation %.2f rad",
		o.Name, o.MeshCount, o.VertexCount, o.Position[0], o.Position[1], o.Position[2], o.Scale[0],
		size[0], size[1], size[2], o.Rotation[1])
}
