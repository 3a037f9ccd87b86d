package stability

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/aurum-labs/jewel-studio/common/image"
	"github.com/aurum-labs/jewel-studio/common/logger"
	"github.com/aurum-labs/jewel-studio/relay/channel"
	"github.com/aurum-labs/jewel-studio/relay/model"
	"github.com/aurum-labs/jewel-studio/relay/util"
	"github.com/aurum-labs/jewel-studio/service"
)

const requestPath = "/v2beta/stable-image/generate/core"

type Adaptor struct {
	meta *util.RelayMeta
}

func (a *Adaptor) Init(meta *util.RelayMeta) {
	a.meta = meta
}

func (a *Adaptor) GetRequestURL(meta *util.RelayMeta) (string, error) {
	if meta.BaseURL == "" {
		return "", fmt.Errorf("stability base url is empty")
	}
	return strings.TrimSuffix(meta.BaseURL, "/") + requestPath, nil
}

// ConvertImageRequest encodes the request as the multipart form the
// stable-image endpoints expect.
func (a *Adaptor) ConvertImageRequest(request *model.ImageGenerationRequest) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := [][2]string{
		{"prompt", request.Prompt},
		{"model", request.Model},
		{"output_format", request.OutputFormat},
		{"negative_prompt", request.NegativePrompt},
		{"aspect_ratio", request.AspectRatio},
	}
	if request.Seed > 0 {
		fields = append(fields, [2]string{"seed", strconv.FormatInt(request.Seed, 10)})
	}
	for _, field := range fields {
		if field[1] == "" {
			continue
		}
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func (a *Adaptor) GenerateImage(ctx context.Context, request *model.ImageGenerationRequest) (*model.GeneratedImage, *model.ErrorWithStatusCode) {
	if request == nil || request.Prompt == "" {
		return nil, util.ErrorWithMessage("prompt is empty", "invalid_request", http.StatusBadRequest)
	}
	fullRequestURL, err := a.GetRequestURL(a.meta)
	if err != nil {
		return nil, util.ErrorWrapper(err, "get_request_url_failed", http.StatusInternalServerError)
	}
	body, contentType, err := a.ConvertImageRequest(request)
	if err != nil {
		return nil, util.ErrorWrapper(err, "convert_request_failed", http.StatusInternalServerError)
	}
	req, err := channel.NewRequest(ctx, http.MethodPost, fullRequestURL, body, a.meta)
	if err != nil {
		return nil, util.ErrorWrapper(err, "new_request_failed", http.StatusInternalServerError)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "image/*")

	resp, err := channel.DoRequest(a.meta, req)
	if err != nil {
		logger.Errorf(ctx, "stability request failed: %s", err.Error())
		return nil, util.ErrorWrapper(err, "do_request_failed", http.StatusBadGateway)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, util.RelayErrorHandler(resp)
	}
	return a.DoResponse(ctx, resp)
}

var maxResponseSize int64 = service.MaxAssetSize

func (a *Adaptor) DoResponse(ctx context.Context, resp *http.Response) (*model.GeneratedImage, *model.ErrorWithStatusCode) {
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, util.ErrorWrapper(err, "read_response_body_failed", http.StatusBadGateway)
	}
	if int64(len(data)) > maxResponseSize {
		return nil, util.ErrorWithMessage(fmt.Sprintf("upstream image larger than %d bytes", maxResponseSize), "response_too_large", http.StatusBadGateway)
	}
	result := &model.GeneratedImage{
		MimeType:     resp.Header.Get("Content-Type"),
		Seed:         resp.Header.Get("seed"),
		FinishReason: resp.Header.Get("finish-reason"),
	}

	if strings.HasPrefix(result.MimeType, "application/json") {
		var sdResponse SdResponse
		if err := json.Unmarshal(data, &sdResponse); err != nil {
			return nil, util.ErrorWrapper(err, "unmarshal_response_body_failed", http.StatusBadGateway)
		}
		data, err = base64.StdEncoding.DecodeString(sdResponse.Image)
		if err != nil {
			return nil, util.ErrorWrapper(err, "decode_image_failed", http.StatusBadGateway)
		}
		result.MimeType = ""
		result.FinishReason = sdResponse.FinishReason
		if sdResponse.Seed != 0 {
			result.Seed = strconv.FormatInt(sdResponse.Seed, 10)
		}
	}
	if len(data) == 0 {
		return nil, util.ErrorWithMessage("upstream returned an empty image", "empty_response", http.StatusBadGateway)
	}
	result.Data = data
	if info, err := image.Inspect(data); err == nil {
		result.MimeType = info.MimeType
	}
	if result.FinishReason == FinishReasonContentFiltered {
		logger.Warnf(ctx, "stability filtered the generated image, seed %s", result.Seed)
	}
	return result, nil
}

func (a *Adaptor) GetChannelName() string {
	return "stability"
}
