// Package cmd 定义命令行界面，是唯一与交互层打交道的包
package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/allanpk716/docx_suite/internal/batch"
	"github.com/allanpk716/docx_suite/internal/logger"
	"github.com/rs/zerolog"
)

const (
	// AppName 应用名称
	AppName = "docx-suite"
	// AppVersion 应用版本
	AppVersion = "3.0.0"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     AppName,
	Short:   "法律文档令牌扫描与批量替换工具",
	Long:    "docx-suite 扫描 DOCX 文档语料中的法律令牌并生成报告与归档，\n或按映射文件把旧令牌批量替换为新令牌（支持正则与 {{match}} 占位符）。",
	Version: AppVersion,
}

// Execute 运行命令行入口
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newReplaceCmd())
}

// newRunLogger 创建本次运行的日志记录器
func newRunLogger() zerolog.Logger {
	return logger.New(verbose)
}

// setupStopToken 创建停止令牌并把中断信号（Ctrl+C）转换为协作式停止请求。
// 工作循环只在文件边界检查令牌，正在处理的文件会完整处理完
func setupStopToken(log zerolog.Logger) *batch.StopToken {
	stop := batch.NewStopToken()
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)
	go func() {
		<-signals
		log.Info().Msg("收到停止请求，处理完当前文件后停止...")
		stop.Stop()
	}()
	return stop
}
