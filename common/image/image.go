package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"strings"
	"sync"

	_ "golang.org/x/image/webp"
)

var dataURLPrefix = regexp.MustCompile(`^data:image/([^;]+);base64,`)

var readerPool = sync.Pool{
	New: func() interface{} {
		return &bytes.Reader{}
	},
}

// Info describes a decoded image header.
type Info struct {
	Format   string
	MimeType string
	Width    int
	Height   int
}

// Inspect decodes only the image header of data.
func Inspect(data []byte) (*Info, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	reader := readerPool.Get().(*bytes.Reader)
	defer readerPool.Put(reader)
	reader.Reset(data)

	cfg, format, err := image.DecodeConfig(reader)
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	return &Info{
		Format:   format,
		MimeType: "image/" + format,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// InspectBase64 accepts raw base64 or a data URL.
func InspectBase64(encoded string) (*Info, error) {
	decoded, err := base64.StdEncoding.DecodeString(dataURLPrefix.ReplaceAllString(encoded, ""))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return Inspect(decoded)
}

func ExtensionFromMimeType(mimeType string) string {
	mimeType = strings.ToLower(mimeType)
	switch {
	case strings.Contains(mimeType, "jpeg"), strings.Contains(mimeType, "jpg"):
		return ".jpg"
	case strings.Contains(mimeType, "png"):
		return ".png"
	case strings.Contains(mimeType, "gif"):
		return ".gif"
	case strings.Contains(mimeType, "webp"):
		return ".webp"
	case strings.Contains(mimeType, "gltf-binary"):
		return ".glb"
	case strings.Contains(mimeType, "gltf+json"):
		return ".gltf"
	default:
		return ".bin"
	}
}
