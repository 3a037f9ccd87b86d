package model

// ImageRequest is the body of POST /generate-2d.
type ImageRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type ImageResponse struct {
	Image  string `json:"image"`
	Format string `json:"format"`
}

// ModelRequest is the body of POST /generate-3d. Type is optional.
type ModelRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	Type   string `json:"type" binding:"omitempty,jewelry_type"`
}

type ModelResponse struct {
	ModelUrl  string `json:"model_url,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ImageGenerationRequest is what an image channel receives after the
// prompt suffix and provider defaults are applied.
type ImageGenerationRequest struct {
	Prompt         string
	NegativePrompt string
	Model          string
	OutputFormat   string
	AspectRatio    string
	Seed           int64
}

// GeneratedImage holds raw image bytes returned by a channel.
type GeneratedImage struct {
	Data         []byte
	MimeType     string
	Seed         string
	FinishReason string
}

type ModelGenerationRequest struct {
	Prompt       string
	JewelryType  string
	Mode         string
	ArtStyle     string
	OutputFormat string
}

type GeneratedModel struct {
	TaskId       string
	ModelUrl     string
	ThumbnailUrl string
}
