package cloudflare

import (
	"strings"
	"testing"
	"time"

	"github.com/aurum-labs/jewel-studio/common/config"
	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	key := ObjectKey(PrefixImages, "image/webp", now)
	assert.True(t, strings.HasPrefix(key, "design-images/20261014-093000-"), key)
	assert.True(t, strings.HasSuffix(key, ".webp"), key)

	model := ObjectKey(PrefixModels, "model/gltf-binary", now)
	assert.True(t, strings.HasSuffix(model, ".glb"), model)
	assert.NotEqual(t, key, ObjectKey(PrefixImages, "image/webp", now))
}

func TestPublicURL(t *testing.T) {
	oldPublic, oldEndpoint, oldBucket := config.R2PublicURL, config.R2Endpoint, config.R2Bucket
	defer func() {
		config.R2PublicURL, config.R2Endpoint, config.R2Bucket = oldPublic, oldEndpoint, oldBucket
	}()

	config.R2Endpoint = "https://acct.r2.cloudflarestorage.com"
	config.R2Bucket = "jewels"
	config.R2PublicURL = ""
	assert.Equal(t, "https://acct.r2.cloudflarestorage.com/jewels/a/b.glb", PublicURL("a/b.glb"))

	config.R2PublicURL = "https://cdn.example.com"
	assert.Equal(t, "https://cdn.example.com/a/b.glb", PublicURL("a/b.glb"))
}

func TestEnabled(t *testing.T) {
	oldEnabled := config.R2Enabled
	defer func() { config.R2Enabled = oldEnabled }()
	config.R2Enabled = false
	assert.False(t, Enabled())
}
