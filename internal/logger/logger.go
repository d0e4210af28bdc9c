// Package logger 提供基于 zerolog 的统一日志入口
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New 创建带控制台输出格式的日志记录器
func New(verbose bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, verbose)
}

// NewWithWriter 创建写入指定 Writer 的日志记录器，便于测试
func NewWithWriter(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}
