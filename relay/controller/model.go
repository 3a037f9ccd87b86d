package controller

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/aurum-labs/jewel-studio/common"
	"github.com/aurum-labs/jewel-studio/common/cloudflare"
	"github.com/aurum-labs/jewel-studio/common/config"
	"github.com/aurum-labs/jewel-studio/common/helper"
	"github.com/aurum-labs/jewel-studio/common/logger"
	dbmodel "github.com/aurum-labs/jewel-studio/model"
	"github.com/aurum-labs/jewel-studio/relay/channel"
	relaymodel "github.com/aurum-labs/jewel-studio/relay/model"
	"github.com/aurum-labs/jewel-studio/relay/util"
	"github.com/aurum-labs/jewel-studio/service"
	"github.com/gin-gonic/gin"
)

// the front-end sends "<prompt> (<material>)"
var materialSuffix = regexp.MustCompile(`^(.*\S)\s*\(([^()]+)\)$`)

// SplitMaterial separates the trailing "(material)" from a 3D prompt.
func SplitMaterial(prompt string) (base string, material string) {
	match := materialSuffix.FindStringSubmatch(strings.TrimSpace(prompt))
	if match == nil {
		return strings.TrimSpace(prompt), ""
	}
	return match[1], strings.TrimSpace(match[2])
}

// RelayModelHelper serves POST /generate-3d through adaptor.
func RelayModelHelper(c *gin.Context, adaptor channel.ModelAdaptor, meta *util.RelayMeta) *relaymodel.ErrorWithStatusCode {
	ctx := c.Request.Context()
	startTime := time.Now()

	var modelRequest relaymodel.ModelRequest
	if err := c.ShouldBindJSON(&modelRequest); err != nil {
		logger.Warnf(ctx, "invalid 3D request: %s", err.Error())
		return bindErrorWrapper(err)
	}
	modelRequest.Prompt = strings.TrimSpace(modelRequest.Prompt)
	modelRequest.Type = common.NormalizeJewelryType(modelRequest.Type)
	if modelRequest.Prompt == "" {
		return util.ErrorWithMessage("Missing 'prompt' in request", "invalid_request", http.StatusBadRequest)
	}
	logger.Infof(ctx, "3D generation request: %s, type %q", helper.Truncate(modelRequest.Prompt, 200), modelRequest.Type)

	design := designForModel(ctx, meta, &modelRequest)

	adaptor.Init(meta)
	generated, bizErr := adaptor.GenerateModel(ctx, &relaymodel.ModelGenerationRequest{
		Prompt:       modelRequest.Prompt,
		JewelryType:  modelRequest.Type,
		Mode:         config.MeshyMode,
		ArtStyle:     config.MeshyArtStyle,
		OutputFormat: "glb",
	})
	if bizErr != nil {
		logger.Errorf(ctx, "%s model generation failed: status %d, %s", adaptor.GetChannelName(), bizErr.StatusCode, bizErr.Message)
		failDesign(ctx, design, bizErr.Message)
		return bizErr
	}

	modelUrl := generated.ModelUrl
	if modelUrl != "" && config.MirrorModelsEnabled && cloudflare.Enabled() {
		modelUrl = mirrorModel(ctx, design, modelUrl)
	}

	if design != nil {
		design.Status = common.DesignStatusSucceeded
		design.ModelUrl = modelUrl
		design.ThumbnailUrl = generated.ThumbnailUrl
		design.TaskId = generated.TaskId
		if err := design.UpdateModelResult(); err != nil {
			logger.Errorf(ctx, "failed to update design %d: %s", design.Id, err.Error())
		}
	}

	logger.Infof(ctx, "3D generation done in %s, model %q", time.Since(startTime).Round(time.Millisecond), modelUrl)
	c.JSON(http.StatusOK, relaymodel.ModelResponse{
		ModelUrl:  modelUrl,
		Thumbnail: generated.ThumbnailUrl,
	})
	return nil
}

// designForModel continues the session's design started by /generate-2d, or
// starts a new one when the model is requested on its own.
func designForModel(ctx context.Context, meta *util.RelayMeta, request *relaymodel.ModelRequest) *dbmodel.Design {
	if dbmodel.DB == nil {
		return nil
	}
	prompt, material := SplitMaterial(request.Prompt)
	if meta.SessionId != "" {
		if design, err := dbmodel.GetLatestPendingDesign(meta.SessionId, prompt); err == nil {
			design.JewelryType = request.Type
			design.Material = material
			return design
		}
	}
	return recordDesign(ctx, &dbmodel.Design{
		RequestId:   meta.RequestId,
		SessionId:   meta.SessionId,
		Prompt:      prompt,
		JewelryType: request.Type,
		Material:    material,
	})
}

// mirrorModel copies the model into R2 and returns the mirrored URL, or
// sourceUrl if mirroring fails.
func mirrorModel(ctx context.Context, design *dbmodel.Design, sourceUrl string) string {
	data, contentType, err := service.FetchBytes(ctx, service.GetHttpClient(), sourceUrl)
	if err != nil {
		logger.Errorf(ctx, "download model for mirroring failed: %s", err.Error())
		return sourceUrl
	}
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = "model/gltf-binary"
	}
	storeUrl, err := cloudflare.Upload(ctx, data, contentType, cloudflare.PrefixModels)
	if err != nil {
		logger.Errorf(ctx, "mirror model failed: %s", err.Error())
		return sourceUrl
	}
	if design != nil {
		asset := &dbmodel.Asset{
			DesignId:  design.Id,
			Kind:      dbmodel.AssetKindModel,
			SourceUrl: sourceUrl,
			StoreUrl:  storeUrl,
			MimeType:  contentType,
			Size:      len(data),
		}
		if err := asset.Insert(); err != nil {
			logger.Errorf(ctx, "record model asset of design %d failed: %s", design.Id, err.Error())
		}
	}
	return storeUrl
}
