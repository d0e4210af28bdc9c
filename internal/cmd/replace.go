package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/allanpk716/docx_suite/internal/config"
	"github.com/allanpk716/docx_suite/internal/domain"
	"github.com/allanpk716/docx_suite/internal/processor"
)

// replaceOptions replace 子命令的参数
type replaceOptions struct {
	fileListSource
	rulesFile string
	mode      string
	outputDir string
	regexMode bool
	template  string
}

func newReplaceCmd() *cobra.Command {
	opts := &replaceOptions{}

	cmd := &cobra.Command{
		Use:   "replace",
		Short: "按映射文件批量替换文档中的法律令牌",
		Long: "按映射文件（JSON：旧令牌 -> 新令牌）把一批文档中的旧令牌替换为新令牌。\n" +
			"规则按文件中的出现顺序依次应用；开启 --regex 后旧令牌按正则解释，\n" +
			"新令牌中的 {{match}} 占位符由捕获组（无捕获组时为整个匹配）填充。",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplace(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.rulesFile, "rules", "r", "", "替换规则文件路径（JSON：旧令牌 -> 新令牌）")
	cmd.Flags().StringVarP(&opts.folder, "folder", "f", "", "待处理的文件夹（递归）")
	cmd.Flags().StringVar(&opts.reportFile, "report", "", "从扫描报告工作簿加载文件列表")
	cmd.Flags().StringVar(&opts.zipFile, "zip", "", "从扫描归档加载文件列表")
	cmd.Flags().StringVar(&opts.fileType, "file-type", "both", "文件类型过滤: both, docx, dcp")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "copy", "运行模式: dry-run, copy, in-place")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "copy 模式的输出根目录")
	cmd.Flags().BoolVar(&opts.regexMode, "regex", false, "把规则的旧令牌按正则表达式解释")
	cmd.Flags().StringVar(&opts.template, "template", "", "生成替换规则模板文件后退出")

	return cmd
}

func runReplace(opts *replaceOptions) error {
	log := newRunLogger()

	if opts.template != "" {
		if err := config.WriteReplacementTemplate(opts.template, opts.regexMode); err != nil {
			return err
		}
		log.Info().Str("file", opts.template).Msg("已生成替换规则模板")
		return nil
	}

	// 配置错误在任何文件被触碰之前直接失败
	if opts.rulesFile == "" {
		return fmt.Errorf("必须指定规则文件 (--rules)")
	}
	if err := opts.validate(); err != nil {
		return err
	}
	mode, err := parseRunMode(opts.mode)
	if err != nil {
		return err
	}
	if mode == domain.ModeCopy && opts.outputDir == "" {
		return fmt.Errorf("copy 模式下必须指定输出目录 (--output)")
	}

	rules, warnings, err := config.LoadRules(opts.rulesFile)
	if err != nil {
		return err
	}
	// 坏规则只警告不阻止运行，个别坏规则不应当阻塞整批迁移
	warnings = append(warnings, config.ValidateRules(rules, opts.regexMode)...)
	for _, warning := range warnings {
		log.Warn().Msg(warning)
	}
	log.Info().Str("file", opts.rulesFile).Int("rules", rules.Len()).Msg("已加载替换规则")

	files, cleanup, err := opts.collect(log)
	if err != nil {
		return err
	}
	defer cleanup()

	stop := setupStopToken(log)
	runner := processor.NewBatchRunner(log)
	result, err := runner.Run(domain.BatchConfig{
		Mode:       mode,
		RegexMode:  opts.regexMode,
		OutputRoot: opts.outputDir,
	}, rules, files, stop, progressLogger(log))
	if err != nil {
		return err
	}

	printReplaceSummary(log, result)
	return nil
}

// parseRunMode 解析运行模式选项
func parseRunMode(value string) (domain.RunMode, error) {
	switch value {
	case "dry-run":
		return domain.ModeDryRun, nil
	case "copy":
		return domain.ModeCopy, nil
	case "in-place":
		return domain.ModeInPlace, nil
	default:
		return domain.ModeDryRun, fmt.Errorf("无效的运行模式: %s (可选: dry-run, copy, in-place)", value)
	}
}

// printReplaceSummary 输出替换批次汇总。正常完成和用户停止输出同一结构，
// 区别只在标题的停止标记和停止前累计的计数
func printReplaceSummary(log zerolog.Logger, result *domain.BatchResult) {
	header := "替换完成"
	switch {
	case result.Stopped:
		header = "替换已停止"
	case result.Mode == domain.ModeDryRun:
		header = "预览完成"
	}

	log.Info().Msg(header + ":")
	log.Info().Msgf("  处理文件数: %d", result.FilesProcessed)
	if result.Mode == domain.ModeDryRun {
		log.Info().Msgf("  将修改文件数: %d", result.FilesModified)
	} else {
		log.Info().Msgf("  修改文件数: %d", result.FilesModified)
		log.Info().Msgf("  替换总数: %d", result.TotalReplacements)
	}
	log.Info().Msgf("  耗时: %.1fs", result.Elapsed.Seconds())
	if result.OutputDir != "" {
		log.Info().Msgf("  输出目录: %s", result.OutputDir)
	}
}
