package monitor

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/aurum-labs/jewel-studio/common/config"
	"github.com/aurum-labs/jewel-studio/common/logger"
)

type RuntimeStats struct {
	Goroutines   int    `json:"goroutines"`
	AllocMB      uint64 `json:"alloc_mb"`
	TotalAllocMB uint64 `json:"total_alloc_mb"`
	SysMB        uint64 `json:"sys_mb"`
	NumGC        uint32 `json:"num_gc"`
}

func ReadRuntimeStats() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeStats{
		Goroutines:   runtime.NumGoroutine(),
		AllocMB:      m.Alloc / 1024 / 1024,
		TotalAllocMB: m.TotalAlloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
	}
}

// WatchGoroutines logs the goroutine count every MONITOR_SAMPLE_INTERVAL
// seconds until ctx is done. Leaked poll loops show up here first.
func WatchGoroutines(ctx context.Context) {
	interval := time.Duration(config.MonitorSampleInterval) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		stats := ReadRuntimeStats()
		switch {
		case stats.Goroutines > 5000:
			logger.SysError(fmt.Sprintf("high goroutine count detected: %d", stats.Goroutines))
		case stats.Goroutines > 2000:
			logger.SysLog(fmt.Sprintf("goroutine count elevated: %d", stats.Goroutines))
		case config.DebugEnabled:
			logger.SysLog(fmt.Sprintf("goroutine count: %d, alloc %dMB, sys %dMB, gc %d",
				stats.Goroutines, stats.AllocMB, stats.SysMB, stats.NumGC))
		}
	}
}
