package util

import (
	"net/http"
	"time"

	"github.com/aurum-labs/jewel-studio/common/config"
	"github.com/aurum-labs/jewel-studio/common/logger"
	"github.com/aurum-labs/jewel-studio/middleware"
	"github.com/aurum-labs/jewel-studio/relay/constant"
	"github.com/aurum-labs/jewel-studio/service"
	"github.com/gin-gonic/gin"
)

type RelayMeta struct {
	Mode      int
	APIType   int
	RequestId string
	SessionId string
	// BaseURL is the upstream provider root, without a trailing slash
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	// only used by task based channels
	PollInterval time.Duration
	PollTimeout  time.Duration
}

func GetRelayMeta(c *gin.Context) *RelayMeta {
	mode := constant.Path2RelayMode(c.Request.URL.Path)
	meta := RelayMeta{
		Mode:       mode,
		APIType:    constant.RelayMode2APIType(mode),
		RequestId:  c.GetString(logger.RequestIdKey),
		SessionId:  c.GetString(middleware.DesignSessionKey),
		HTTPClient: service.GetHttpClient(),
	}
	switch meta.APIType {
	case constant.APITypeMeshy:
		meta.BaseURL = config.MeshyBaseURL
		meta.APIKey = config.MeshyAPIKey
		meta.PollInterval = config.MeshyPollInterval
		meta.PollTimeout = config.MeshyPollTimeout
	default:
		meta.BaseURL = config.StabilityBaseURL
		meta.APIKey = config.StabilityAPIKey
	}
	return &meta
}
