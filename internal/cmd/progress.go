package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/allanpk716/docx_suite/internal/batch"
)

// progressLogger 返回把进度事件写进日志的回调
func progressLogger(log zerolog.Logger) batch.ProgressFunc {
	return func(p batch.Progress) {
		event := log.Info().
			Int("current", p.Index+1).
			Int("total", p.Total).
			Str("file", filepath.Base(p.FilePath))
		if p.HasETA {
			event = event.Str("eta", formatETA(p.ETA))
		}
		event.Msg("处理文件")
	}
}

// formatETA 把预计剩余时间格式化为 Xs 或 XmYs
func formatETA(eta time.Duration) string {
	seconds := int(eta.Seconds())
	if seconds > 60 {
		return fmt.Sprintf("%dm%ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%ds", seconds)
}
