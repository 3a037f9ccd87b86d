package channel

import (
	"context"

	"github.com/aurum-labs/jewel-studio/relay/model"
	"github.com/aurum-labs/jewel-studio/relay/util"
)

// ImageAdaptor turns a prompt into a rendered preview image.
type ImageAdaptor interface {
	Init(meta *util.RelayMeta)
	GetRequestURL(meta *util.RelayMeta) (string, error)
	GenerateImage(ctx context.Context, request *model.ImageGenerationRequest) (*model.GeneratedImage, *model.ErrorWithStatusCode)
	GetChannelName() string
}

// ModelAdaptor turns a prompt into a downloadable 3D model.
type ModelAdaptor interface {
	Init(meta *util.RelayMeta)
	GetRequestURL(meta *util.RelayMeta) (string, error)
	GenerateModel(ctx context.Context, request *model.ModelGenerationRequest) (*model.GeneratedModel, *model.ErrorWithStatusCode)
	GetChannelName() string
}
