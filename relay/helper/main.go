package helper

import (
	"github.com/aurum-labs/jewel-studio/relay/channel"
	"github.com/aurum-labs/jewel-studio/relay/channel/meshy"
	"github.com/aurum-labs/jewel-studio/relay/channel/stability"
	"github.com/aurum-labs/jewel-studio/relay/constant"
)

func GetImageAdaptor(apiType int) channel.ImageAdaptor {
	switch apiType {
	case constant.APITypeStability:
		return &stability.Adaptor{}
	}
	return nil
}

func GetModelAdaptor(apiType int) channel.ModelAdaptor {
	switch apiType {
	case constant.APITypeMeshy:
		return &meshy.Adaptor{}
	}
	return nil
}
