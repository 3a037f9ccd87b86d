package controller

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/aurum-labs/jewel-studio/common"
	"github.com/aurum-labs/jewel-studio/common/cloudflare"
	"github.com/aurum-labs/jewel-studio/common/config"
	"github.com/aurum-labs/jewel-studio/common/helper"
	"github.com/aurum-labs/jewel-studio/common/image"
	"github.com/aurum-labs/jewel-studio/common/logger"
	dbmodel "github.com/aurum-labs/jewel-studio/model"
	"github.com/aurum-labs/jewel-studio/relay/channel"
	relaymodel "github.com/aurum-labs/jewel-studio/relay/model"
	"github.com/aurum-labs/jewel-studio/relay/util"
	"github.com/gin-gonic/gin"
)

const mirrorTimeout = 2 * time.Minute

// ApplyPromptSuffix appends the jewelry styling suffix to a user prompt.
func ApplyPromptSuffix(prompt string) string {
	if config.ImagePromptSuffix == "" {
		return prompt
	}
	return prompt + ", " + config.ImagePromptSuffix
}

// RelayImageHelper serves POST /generate-2d through adaptor.
func RelayImageHelper(c *gin.Context, adaptor channel.ImageAdaptor, meta *util.RelayMeta) *relaymodel.ErrorWithStatusCode {
	ctx := c.Request.Context()
	startTime := time.Now()

	var imageRequest relaymodel.ImageRequest
	if err := c.ShouldBindJSON(&imageRequest); err != nil {
		logger.Warnf(ctx, "invalid 2D request: %s", err.Error())
		return bindErrorWrapper(err)
	}
	imageRequest.Prompt = strings.TrimSpace(imageRequest.Prompt)
	if imageRequest.Prompt == "" {
		return util.ErrorWithMessage("Missing 'prompt' in request", "invalid_request", http.StatusBadRequest)
	}
	logger.Infof(ctx, "2D generation request: %s", helper.Truncate(imageRequest.Prompt, 200))

	design := recordDesign(ctx, &dbmodel.Design{
		RequestId: meta.RequestId,
		SessionId: meta.SessionId,
		Prompt:    imageRequest.Prompt,
	})

	adaptor.Init(meta)
	generated, bizErr := adaptor.GenerateImage(ctx, &relaymodel.ImageGenerationRequest{
		Prompt:         ApplyPromptSuffix(imageRequest.Prompt),
		NegativePrompt: config.NegativePrompt,
		Model:          config.StabilityModel,
		OutputFormat:   config.StabilityOutputFormat,
	})
	if bizErr != nil {
		logger.Errorf(ctx, "%s image generation failed: status %d, %s", adaptor.GetChannelName(), bizErr.StatusCode, bizErr.Message)
		failDesign(ctx, design, bizErr.Message)
		return bizErr
	}

	format := config.StabilityOutputFormat
	if info, err := image.Inspect(generated.Data); err == nil {
		format = info.Format
		if design != nil {
			design.ImageWidth = info.Width
			design.ImageHeight = info.Height
		}
	} else {
		logger.Warnf(ctx, "generated image could not be inspected: %s", err.Error())
	}
	if generated.MimeType == "" {
		generated.MimeType = "image/" + format
	}

	if design != nil {
		design.ImageFormat = format
		design.Status = common.DesignStatusImageDone
		if err := design.Update(); err != nil {
			logger.Errorf(ctx, "failed to update design %d: %s", design.Id, err.Error())
		}
		if cloudflare.Enabled() {
			mirrorImage(ctx, design.Id, generated)
		}
	}

	logger.Infof(ctx, "2D generation done in %s, %d bytes of %s", time.Since(startTime).Round(time.Millisecond), len(generated.Data), format)
	c.JSON(http.StatusOK, relaymodel.ImageResponse{
		Image:  base64.StdEncoding.EncodeToString(generated.Data),
		Format: format,
	})
	return nil
}

// mirrorImage copies the image to R2 in the background; the response does not wait for it.
func mirrorImage(ctx context.Context, designId int, generated *relaymodel.GeneratedImage) {
	requestId := logger.RequestID(ctx)
	common.AssetCtxGo(ctx, func() {
		bgCtx, cancel := context.WithTimeout(context.WithValue(context.Background(), logger.RequestIdKey, requestId), mirrorTimeout)
		defer cancel()
		storeUrl, err := cloudflare.Upload(bgCtx, generated.Data, generated.MimeType, cloudflare.PrefixImages)
		if err != nil {
			logger.Errorf(bgCtx, "mirror image of design %d failed: %s", designId, err.Error())
			return
		}
		if err := dbmodel.UpdateDesignImageUrl(designId, storeUrl); err != nil {
			logger.Errorf(bgCtx, "update image url of design %d failed: %s", designId, err.Error())
		}
		asset := &dbmodel.Asset{
			DesignId: designId,
			Kind:     dbmodel.AssetKindImage,
			StoreUrl: storeUrl,
			MimeType: generated.MimeType,
			Size:     len(generated.Data),
		}
		if err := asset.Insert(); err != nil {
			logger.Errorf(bgCtx, "record image asset of design %d failed: %s", designId, err.Error())
		}
	})
}

// recordDesign stores the design history row. History is best effort: a
// storage failure leaves generation running with a nil design.
func recordDesign(ctx context.Context, design *dbmodel.Design) *dbmodel.Design {
	if dbmodel.DB == nil {
		return nil
	}
	if err := design.Insert(); err != nil {
		logger.Errorf(ctx, "failed to record design: %s", err.Error())
		return nil
	}
	return design
}

func failDesign(ctx context.Context, design *dbmodel.Design, reason string) {
	if design == nil {
		return
	}
	design.Status = common.DesignStatusFailed
	design.FailReason = helper.Truncate(reason, 500)
	if err := design.UpdateStatus(); err != nil {
		logger.Errorf(ctx, "failed to update design %d: %s", design.Id, err.Error())
	}
}
