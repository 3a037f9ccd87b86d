package common

import (
	"context"
	"fmt"
	"math"

	"github.com/aurum-labs/jewel-studio/common/logger"
	"github.com/bytedance/gopkg/util/gopool"
)

var assetGoPool gopool.Pool

func init() {
	assetGoPool = gopool.NewPool("gopool.AssetPool", math.MaxInt32, gopool.NewConfig())
	assetGoPool.SetPanicHandler(func(ctx context.Context, i interface{}) {
		logger.Error(ctx, fmt.Sprintf("panic in gopool.AssetPool: %v", i))
	})
}

// AssetCtxGo runs f on the shared background pool. ctx is only used for
// panic reporting; f must not rely on it staying alive.
func AssetCtxGo(ctx context.Context, f func()) {
	assetGoPool.CtxGo(ctx, f)
}
