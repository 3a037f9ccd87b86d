package controller

import (
	"net/http"
	"strings"

	"github.com/aurum-labs/jewel-studio/common"
	"github.com/aurum-labs/jewel-studio/common/cloudflare"
	"github.com/aurum-labs/jewel-studio/common/config"
	"github.com/aurum-labs/jewel-studio/monitor"
	"github.com/gin-gonic/gin"
)

// VerifyKeys reports which provider keys are configured without leaking them.
// stability_key_prefix tells whether the key has the expected "sk-" prefix.
func VerifyKeys(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stability_key_exists": config.StabilityAPIKey != "",
		"meshy_key_exists":     config.MeshyAPIKey != "",
		"stability_key_prefix": strings.HasPrefix(config.StabilityAPIKey, "sk-"),
	})
}

func GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"version":        common.Version,
			"start_time":     common.StartTime,
			"system_name":    config.SystemName,
			"server_address": config.ServerAddress,
			"image_provider": "stability",
			"model_provider": "meshy",
			"image_format":   config.StabilityOutputFormat,
			"mirror_images":  cloudflare.Enabled(),
			"mirror_models":  cloudflare.Enabled() && config.MirrorModelsEnabled,
			"redis_enabled":  common.RedisEnabled,
			"jewelry_types":  jewelryTypes(),
		},
	})
}

func jewelryTypes() []string {
	return []string{common.JewelryTypeRing, common.JewelryTypeNecklace, common.JewelryTypeBracelet, common.JewelryTypeEarrings}
}

// GetHealth reports runtime saturation and per-route generation metrics.
func GetHealth(c *gin.Context) {
	current, max := monitor.Default().Concurrent()
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"runtime": monitor.ReadRuntimeStats(),
		"concurrency": gin.H{
			"current": current,
			"max":     max,
		},
		"routes": monitor.Default().Snapshot(),
	})
}

// GetMetrics exposes the generation metrics for prometheus scraping.
func GetMetrics(c *gin.Context) {
	monitor.Default().Handler().ServeHTTP(c.Writer, c.Request)
}
