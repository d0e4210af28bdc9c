package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/allanpk716/docx_suite/internal/batch"
	"github.com/allanpk716/docx_suite/internal/config"
	"github.com/allanpk716/docx_suite/internal/report"
	"github.com/allanpk716/docx_suite/internal/scanner"
)

// scanOptions scan 子命令的参数
type scanOptions struct {
	fileListSource
	tokensFile string
	zipDest    string
	zipName    string
	template   string
}

func newScanCmd() *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "扫描文档语料中的法律令牌并生成报告与归档",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.tokensFile, "tokens", "t", "", "令牌文件路径（JSON：模式 -> 标签）")
	cmd.Flags().StringVarP(&opts.folder, "folder", "f", "", "待扫描的文件夹（递归）")
	cmd.Flags().StringVar(&opts.reportFile, "report", "", "从已有报告工作簿加载文件列表")
	cmd.Flags().StringVar(&opts.zipFile, "zip", "", "从扫描归档加载文件列表")
	cmd.Flags().StringVar(&opts.fileType, "file-type", "both", "文件类型过滤: both, docx, dcp")
	cmd.Flags().StringVar(&opts.zipDest, "zip-dest", "", "归档输出目录")
	cmd.Flags().StringVar(&opts.zipName, "zip-name", "matched_files", "归档文件名（不含扩展名）")
	cmd.Flags().StringVar(&opts.template, "template", "", "生成令牌模板文件后退出")

	return cmd
}

func runScan(opts *scanOptions) error {
	log := newRunLogger()

	if opts.template != "" {
		if err := config.WriteTokenTemplate(opts.template); err != nil {
			return err
		}
		log.Info().Str("file", opts.template).Msg("已生成令牌模板")
		return nil
	}

	// 配置错误在任何文件被触碰之前直接失败
	if opts.tokensFile == "" {
		return fmt.Errorf("必须指定令牌文件 (--tokens)")
	}
	if err := opts.validate(); err != nil {
		return err
	}
	if opts.zipDest == "" {
		return fmt.Errorf("必须指定归档输出目录 (--zip-dest)")
	}
	if opts.zipName == "" {
		return fmt.Errorf("归档文件名不能为空")
	}

	rules, warnings, err := config.LoadRules(opts.tokensFile)
	if err != nil {
		return err
	}
	// 扫描管线中所有模式一律按正则处理
	warnings = append(warnings, config.ValidateRules(rules, true)...)
	for _, warning := range warnings {
		log.Warn().Msg(warning)
	}
	log.Info().Str("file", opts.tokensFile).Int("tokens", rules.Len()).Msg("已加载令牌文件")

	files, cleanup, err := opts.collect(log)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(files) == 0 {
		return fmt.Errorf("没有找到待扫描的文件")
	}
	log.Info().Int("files", len(files)).Msg("开始扫描")

	stop := setupStopToken(log)
	scan := scanner.NewScanner(log)
	results, batchResult := scan.Run(files, rules, stop, progressLogger(log))

	if batchResult.Status == batch.StatusFailed {
		return batchResult.Err
	}

	printScanSummary(log, batchResult, len(results))

	if len(results) == 0 {
		return nil
	}

	// 文件夹来源时报告落在被扫描的文件夹里，其余来源落在归档输出目录
	reportDir := opts.zipDest
	if opts.folder != "" {
		reportDir = opts.folder
	}
	reportPath := filepath.Join(reportDir, report.ReportFileName)
	if err := report.WriteReport(reportPath, results); err != nil {
		return err
	}
	log.Info().Str("file", reportPath).Msg("已生成扫描报告")

	matchedFiles := make([]string, 0, len(results))
	for _, result := range results {
		matchedFiles = append(matchedFiles, result.FilePath)
	}
	archivePath := filepath.Join(opts.zipDest, opts.zipName+".zip")
	if err := report.BuildArchive(archivePath, reportPath, matchedFiles); err != nil {
		return err
	}
	log.Info().Str("file", archivePath).Msg("已生成归档")

	return nil
}

// printScanSummary 输出扫描批次汇总，正常完成和用户停止共用同一结构
func printScanSummary(log zerolog.Logger, batchResult batch.Result, matchedCount int) {
	header := "扫描完成"
	if batchResult.Status == batch.StatusStopped {
		header = "扫描已停止"
	}
	log.Info().Msg(header + ":")
	log.Info().Msgf("  处理文件数: %d", batchResult.FilesProcessed)
	log.Info().Msgf("  命中文件数: %d", matchedCount)
	log.Info().Msgf("  跳过文件数: %d", batchResult.FilesSkipped)
	log.Info().Msgf("  耗时: %.1fs", batchResult.Elapsed.Seconds())
}
