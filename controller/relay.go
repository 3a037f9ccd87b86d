package controller

import (
	"fmt"
	"net/http"

	"github.com/aurum-labs/jewel-studio/common"
	"github.com/aurum-labs/jewel-studio/common/config"
	"github.com/aurum-labs/jewel-studio/common/logger"
	"github.com/aurum-labs/jewel-studio/relay/constant"
	"github.com/aurum-labs/jewel-studio/relay/controller"
	"github.com/aurum-labs/jewel-studio/relay/helper"
	"github.com/aurum-labs/jewel-studio/relay/model"
	"github.com/aurum-labs/jewel-studio/relay/util"
	"github.com/gin-gonic/gin"
)

func relayHelper(c *gin.Context, meta *util.RelayMeta) *model.ErrorWithStatusCode {
	switch meta.Mode {
	case constant.RelayModeImageGeneration:
		adaptor := helper.GetImageAdaptor(meta.APIType)
		if adaptor == nil {
			return util.ErrorWithMessage(fmt.Sprintf("invalid api type: %d", meta.APIType), "invalid_api_type", http.StatusInternalServerError)
		}
		return controller.RelayImageHelper(c, adaptor, meta)
	case constant.RelayModeModelGeneration:
		adaptor := helper.GetModelAdaptor(meta.APIType)
		if adaptor == nil {
			return util.ErrorWithMessage(fmt.Sprintf("invalid api type: %d", meta.APIType), "invalid_api_type", http.StatusInternalServerError)
		}
		return controller.RelayModelHelper(c, adaptor, meta)
	}
	return util.ErrorWithMessage("unknown relay path", "invalid_request", http.StatusNotFound)
}

// Relay serves both generation endpoints and renders failures as {"error": "..."}.
func Relay(c *gin.Context) {
	ctx := c.Request.Context()
	meta := util.GetRelayMeta(c)
	logger.Infof(ctx, "Relay START: path=%s, relayMode=%d, apiType=%d", c.Request.URL.Path, meta.Mode, meta.APIType)
	if config.DebugEnabled {
		requestBody, _ := common.GetRequestBody(c)
		logger.Debugf(ctx, "request body: %s", string(requestBody))
	}

	bizErr := relayHelper(c, meta)
	if bizErr == nil {
		return
	}
	logger.Errorf(ctx, "relay error (status %d): %s", bizErr.StatusCode, bizErr.Message)
	statusCode := bizErr.StatusCode
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	c.JSON(statusCode, bizErr.Error)
}
