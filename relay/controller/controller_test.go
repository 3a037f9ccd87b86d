package controller

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aurum-labs/jewel-studio/common"
	dbmodel "github.com/aurum-labs/jewel-studio/model"
	relaymodel "github.com/aurum-labs/jewel-studio/relay/model"
	"github.com/aurum-labs/jewel-studio/relay/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageAdaptor struct {
	result  *relaymodel.GeneratedImage
	err     *relaymodel.ErrorWithStatusCode
	request *relaymodel.ImageGenerationRequest
	calls   int
}

func (f *fakeImageAdaptor) Init(meta *util.RelayMeta) {}

func (f *fakeImageAdaptor) GetRequestURL(meta *util.RelayMeta) (string, error) {
	return meta.BaseURL, nil
}

func (f *fakeImageAdaptor) GenerateImage(ctx context.Context, request *relaymodel.ImageGenerationRequest) (*relaymodel.GeneratedImage, *relaymodel.ErrorWithStatusCode) {
	f.calls++
	f.request = request
	return f.result, f.err
}

func (f *fakeImageAdaptor) GetChannelName() string { return "fake-image" }

type fakeModelAdaptor struct {
	result  *relaymodel.GeneratedModel
	err     *relaymodel.ErrorWithStatusCode
	request *relaymodel.ModelGenerationRequest
	calls   int
	// during runs while the generation is in flight
	during func()
}

func (f *fakeModelAdaptor) Init(meta *util.RelayMeta) {}

func (f *fakeModelAdaptor) GetRequestURL(meta *util.RelayMeta) (string, error) {
	return meta.BaseURL, nil
}

func (f *fakeModelAdaptor) GenerateModel(ctx context.Context, request *relaymodel.ModelGenerationRequest) (*relaymodel.GeneratedModel, *relaymodel.ErrorWithStatusCode) {
	f.calls++
	f.request = request
	if f.during != nil {
		f.during()
	}
	return f.result, f.err
}

func (f *fakeModelAdaptor) GetChannelName() string { return "fake-model" }

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := dbmodel.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, dbmodel.Migrate(db))
	old := dbmodel.DB
	dbmodel.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
		dbmodel.DB = old
	})
}

func newContext(path string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 3, 5))))
	return buf.Bytes()
}

func TestRelayImageHelper(t *testing.T) {
	setupTestDB(t)
	data := pngBytes(t)
	adaptor := &fakeImageAdaptor{result: &relaymodel.GeneratedImage{Data: data}}
	c, w := newContext("/generate-2d", `{"prompt":"  gold ring "}`)

	bizErr := RelayImageHelper(c, adaptor, &util.RelayMeta{RequestId: "req-1", SessionId: "s1"})
	require.Nil(t, bizErr)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp relaymodel.ImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), resp.Image)
	assert.Equal(t, "png", resp.Format)

	assert.Equal(t, "gold ring, jewelry design, ultra-detailed, 8k", adaptor.request.Prompt)
	assert.Equal(t, "blurry, low quality, sketch", adaptor.request.NegativePrompt)
	assert.Equal(t, "sd3", adaptor.request.Model)
	assert.Equal(t, "webp", adaptor.request.OutputFormat)

	designs, err := dbmodel.GetSessionDesigns("s1", 0, 10)
	require.NoError(t, err)
	require.Len(t, designs, 1)
	assert.Equal(t, "gold ring", designs[0].Prompt)
	assert.Equal(t, "req-1", designs[0].RequestId)
	assert.Equal(t, common.DesignStatusImageDone, designs[0].Status)
	assert.Equal(t, 3, designs[0].ImageWidth)
	assert.Equal(t, 5, designs[0].ImageHeight)
}

func TestRelayImageHelperUnknownBytesKeepsConfiguredFormat(t *testing.T) {
	adaptor := &fakeImageAdaptor{result: &relaymodel.GeneratedImage{Data: []byte{0, 0, 0}}}
	c, w := newContext("/generate-2d", `{"prompt":"ring"}`)

	require.Nil(t, RelayImageHelper(c, adaptor, &util.RelayMeta{}))
	var resp relaymodel.ImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AAAA", resp.Image)
	assert.Equal(t, "webp", resp.Format)
}

func TestRelayImageHelperBadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"no prompt", `{}`},
		{"blank prompt", `{"prompt":"   "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adaptor := &fakeImageAdaptor{}
			c, _ := newContext("/generate-2d", tt.body)
			bizErr := RelayImageHelper(c, adaptor, &util.RelayMeta{})
			require.NotNil(t, bizErr)
			assert.Equal(t, http.StatusBadRequest, bizErr.StatusCode)
			assert.Equal(t, "Missing 'prompt' in request", bizErr.Message)
			assert.Zero(t, adaptor.calls)
		})
	}
}

func TestRelayImageHelperUpstreamError(t *testing.T) {
	setupTestDB(t)
	adaptor := &fakeImageAdaptor{err: util.ErrorWithMessage("rate limited", "upstream_error", http.StatusTooManyRequests)}
	c, w := newContext("/generate-2d", `{"prompt":"ring"}`)

	bizErr := RelayImageHelper(c, adaptor, &util.RelayMeta{SessionId: "s2"})
	require.NotNil(t, bizErr)
	assert.Equal(t, http.StatusTooManyRequests, bizErr.StatusCode)
	assert.Equal(t, "rate limited", bizErr.Message)
	assert.Zero(t, w.Body.Len())

	designs, err := dbmodel.GetSessionDesigns("s2", 0, 10)
	require.NoError(t, err)
	require.Len(t, designs, 1)
	assert.Equal(t, common.DesignStatusFailed, designs[0].Status)
	assert.Equal(t, "rate limited", designs[0].FailReason)
}

func TestRelayModelHelperContinuesDesign(t *testing.T) {
	setupTestDB(t)
	pending := &dbmodel.Design{SessionId: "s1", Prompt: "gold ring", Status: common.DesignStatusImageDone}
	require.NoError(t, pending.Insert())

	adaptor := &fakeModelAdaptor{result: &relaymodel.GeneratedModel{
		TaskId:       "task-9",
		ModelUrl:     "/m/1.glb",
		ThumbnailUrl: "/m/1.png",
	}}
	c, w := newContext("/generate-3d", `{"prompt":"gold ring (gold)","type":"ring"}`)

	require.Nil(t, RelayModelHelper(c, adaptor, &util.RelayMeta{SessionId: "s1"}))
	assert.JSONEq(t, `{"model_url":"/m/1.glb","thumbnail":"/m/1.png"}`, w.Body.String())
	assert.Equal(t, &relaymodel.ModelGenerationRequest{
		Prompt:       "gold ring (gold)",
		JewelryType:  "ring",
		Mode:         "preview",
		ArtStyle:     "realistic",
		OutputFormat: "glb",
	}, adaptor.request)

	design, err := dbmodel.GetDesignById(pending.Id)
	require.NoError(t, err)
	assert.Equal(t, common.DesignStatusSucceeded, design.Status)
	assert.Equal(t, "ring", design.JewelryType)
	assert.Equal(t, "gold", design.Material)
	assert.Equal(t, "/m/1.glb", design.ModelUrl)
	assert.Equal(t, "task-9", design.TaskId)

	count, err := dbmodel.CountSessionDesigns("s1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRelayModelHelperKeepsMirroredImageUrl(t *testing.T) {
	tests := []struct {
		name       string
		result     *relaymodel.GeneratedModel
		err        *relaymodel.ErrorWithStatusCode
		wantStatus string
	}{
		{"success", &relaymodel.GeneratedModel{ModelUrl: "/m/2.glb"}, nil, common.DesignStatusSucceeded},
		{"failure", nil, util.ErrorWithMessage("model generation failed", "task_failed", http.StatusBadGateway), common.DesignStatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestDB(t)
			imageAdaptor := &fakeImageAdaptor{result: &relaymodel.GeneratedImage{Data: pngBytes(t)}}
			c, _ := newContext("/generate-2d", `{"prompt":"vine ring"}`)
			require.Nil(t, RelayImageHelper(c, imageAdaptor, &util.RelayMeta{SessionId: "s2"}))
			designs, err := dbmodel.GetSessionDesigns("s2", 0, 10)
			require.NoError(t, err)
			require.Len(t, designs, 1)
			designId := designs[0].Id

			// the image mirror finishes while the model is still generating
			modelAdaptor := &fakeModelAdaptor{result: tt.result, err: tt.err, during: func() {
				require.NoError(t, dbmodel.UpdateDesignImageUrl(designId, "https://r2.example/images/x.png"))
			}}
			c, _ = newContext("/generate-3d", `{"prompt":"vine ring (silver)","type":"Ring"}`)
			RelayModelHelper(c, modelAdaptor, &util.RelayMeta{SessionId: "s2"})

			design, err := dbmodel.GetDesignById(designId)
			require.NoError(t, err)
			assert.Equal(t, "https://r2.example/images/x.png", design.ImageUrl)
			assert.Equal(t, tt.wantStatus, design.Status)
			assert.Equal(t, "png", design.ImageFormat)
		})
	}
}

func TestRelayModelHelperWithoutModelUrl(t *testing.T) {
	adaptor := &fakeModelAdaptor{result: &relaymodel.GeneratedModel{}}
	c, w := newContext("/generate-3d", `{"prompt":"pearl earrings (silver)"}`)

	require.Nil(t, RelayModelHelper(c, adaptor, &util.RelayMeta{}))
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestRelayModelHelperBadRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing prompt", `{"type":"ring"}`, "Missing 'prompt' in request"},
		{"unknown type", `{"prompt":"crown (gold)","type":"crown"}`, "Unsupported jewelry type: crown"},
		{"malformed json", `{"prompt":`, "unexpected EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adaptor := &fakeModelAdaptor{}
			c, _ := newContext("/generate-3d", tt.body)
			bizErr := RelayModelHelper(c, adaptor, &util.RelayMeta{})
			require.NotNil(t, bizErr)
			assert.Equal(t, http.StatusBadRequest, bizErr.StatusCode)
			assert.Equal(t, tt.wantMsg, bizErr.Message)
			assert.Zero(t, adaptor.calls)
		})
	}
}

func TestRelayModelHelperUpstreamError(t *testing.T) {
	adaptor := &fakeModelAdaptor{err: util.ErrorWithMessage("Insufficient credits", "upstream_error", http.StatusPaymentRequired)}
	c, _ := newContext("/generate-3d", `{"prompt":"ring (gold)","type":"ring"}`)

	bizErr := RelayModelHelper(c, adaptor, &util.RelayMeta{})
	require.NotNil(t, bizErr)
	assert.Equal(t, http.StatusPaymentRequired, bizErr.StatusCode)
}

func TestSplitMaterial(t *testing.T) {
	tests := []struct {
		prompt   string
		base     string
		material string
	}{
		{"gold ring (gold)", "gold ring", "gold"},
		{"rose pendant (rose gold) ", "rose pendant", "rose gold"},
		{"plain band", "plain band", ""},
		{"(gold)", "(gold)", ""},
	}
	for _, tt := range tests {
		base, material := SplitMaterial(tt.prompt)
		assert.Equal(t, tt.base, base, tt.prompt)
		assert.Equal(t, tt.material, material, tt.prompt)
	}
}
