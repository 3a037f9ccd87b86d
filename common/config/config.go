package config

import (
	"os"
	"strings"
	"time"

	"github.com/aurum-labs/jewel-studio/common/env"
	"github.com/google/uuid"
)

var SystemName = "Jewel Studio"
var ServerAddress = env.String("SERVER_ADDRESS", "http://localhost:3000")

var ServiceName = env.String("SERVICE_NAME", "jewel-studio")
var InstanceId = env.String("INSTANCE_ID", uuid.New().String()[:8])

var SessionSecret = uuid.New().String()

var DebugEnabled = strings.ToLower(os.Getenv("DEBUG")) == "true"
var DebugSQLEnabled = strings.ToLower(os.Getenv("DEBUG_SQL")) == "true"

// Upstream providers

var StabilityAPIKey = os.Getenv("STABILITY_API_KEY")
var StabilityBaseURL = env.String("STABILITY_BASE_URL", "https://api.stability.ai")
var StabilityModel = env.String("SD_MODEL", "sd3")
var StabilityOutputFormat = env.String("SD_OUTPUT_FORMAT", "webp")
var ImagePromptSuffix = env.String("IMAGE_PROMPT_SUFFIX", "jewelry design, ultra-detailed, 8k")
var NegativePrompt = env.String("NEGATIVE_PROMPT", "blurry, low quality, sketch")

var MeshyAPIKey = os.Getenv("MESHY_API_KEY")
var MeshyBaseURL = env.String("MESHY_BASE_URL", "https://api.meshy.ai")
var MeshyMode = env.String("MESHY_MODE", "preview")
var MeshyArtStyle = env.String("MESHY_ART_STYLE", "realistic")
var MeshyPollInterval = env.Duration("MESHY_POLL_INTERVAL", 5*time.Second)
var MeshyPollTimeout = env.Duration("MESHY_POLL_TIMEOUT", 10*time.Minute)

var RelayTimeout = env.Int("RELAY_TIMEOUT", 0) // unit is second
var RelayProxy = env.String("RELAY_PROXY", "")

// Storage

var SQLDSN = os.Getenv("SQL_DSN")
var ItemsPerPage = 10

var R2Enabled = env.Bool("R2_ENABLED", false)
var R2Bucket = env.String("R2_BUCKET", "")
var R2AccessKey = env.String("R2_ACCESS_KEY", "")
var R2SecretKey = env.String("R2_SECRET_KEY", "")
var R2Endpoint = env.String("R2_ENDPOINT", "")
var R2PublicURL = strings.TrimSuffix(env.String("R2_PUBLIC_URL", ""), "/")
var MirrorModelsEnabled = env.Bool("MIRROR_MODELS", false)

// Rate limiting. Durations are in seconds.
var (
	GlobalApiRateLimitNum            = env.Int("GLOBAL_API_RATE_LIMIT", 60)
	GlobalApiRateLimitDuration int64 = 3 * 60

	GenerateRateLimitNum            = env.Int("GENERATE_RATE_LIMIT", 20)
	GenerateRateLimitDuration int64 = 60
)

var RateLimitKeyExpirationDuration = 20 * time.Minute

// Monitoring
var MonitorSampleInterval = env.Int("MONITOR_SAMPLE_INTERVAL", 30) // unit is second
