package processor

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/allanpk716/docx_suite/internal/batch"
	"github.com/allanpk716/docx_suite/internal/domain"
	"github.com/allanpk716/docx_suite/pkg/docx"
)

// BatchRunner 替换管线的批量运行器。配置、规则和文件列表都是
// 运行开始时传入的不可变快照，运行期间调用方不得修改它们
type BatchRunner struct {
	processor *DocumentProcessor
	log       zerolog.Logger
}

// NewBatchRunner 创建新的批量运行器
func NewBatchRunner(log zerolog.Logger) *BatchRunner {
	return &BatchRunner{
		processor: NewDocumentProcessor(log),
		log:       log,
	}
}

// Run 对文件列表执行一次替换批次。
// 配置错误（没有文件、没有规则、副本模式缺少输出目录）在任何文件
// 被触碰之前直接返回错误；单文件错误跳过并继续；停止请求在文件
// 边界生效，已处理的文件保持已修改状态
func (r *BatchRunner) Run(cfg domain.BatchConfig, rules *domain.RuleSet, files []string, stop *batch.StopToken, progress batch.ProgressFunc) (*domain.BatchResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("没有加载任何文件")
	}
	if rules.Len() == 0 {
		return nil, fmt.Errorf("没有加载任何规则")
	}
	if cfg.Mode == domain.ModeCopy && cfg.OutputRoot == "" {
		return nil, fmt.Errorf("副本模式下必须指定输出目录")
	}

	session := NewOutputSession(cfg.OutputRoot)
	filesModified := 0
	totalReplacements := 0

	r.log.Info().
		Str("mode", cfg.Mode.String()).
		Int("files", len(files)).
		Int("rules", rules.Len()).
		Bool("regex", cfg.RegexMode).
		Msg("开始批量替换")

	driver := batch.NewDriver(r.log, stop, progress)
	batchResult := driver.Run(files, func(path string) error {
		if err := docx.Validate(path); err != nil {
			return err
		}

		doc, err := docx.Open(path)
		if err != nil {
			return err
		}

		made, _ := r.processor.ReplaceInDocument(doc, rules, cfg.RegexMode)
		fileName := filepath.Base(path)
		if made == 0 {
			r.log.Info().Str("file", fileName).Msg("无需修改")
			return nil
		}

		switch cfg.Mode {
		case domain.ModeDryRun:
			r.log.Info().Str("file", fileName).Int("replacements", made).Msg("将会修改（预览）")
			filesModified++

		case domain.ModeCopy:
			outputPath, err := session.NextOutputPath(path)
			if err != nil {
				return err
			}
			if err := doc.Save(outputPath); err != nil {
				return err
			}
			r.log.Info().
				Str("file", fileName).
				Str("output", filepath.Base(outputPath)).
				Int("replacements", made).
				Msg("已生成修改副本")
			filesModified++
			totalReplacements += made

		case domain.ModeInPlace:
			if err := doc.Save(path); err != nil {
				return err
			}
			r.log.Info().Str("file", fileName).Int("replacements", made).Msg("已就地修改")
			filesModified++
			totalReplacements += made
		}

		return nil
	})

	result := &domain.BatchResult{
		Mode:              cfg.Mode,
		FilesTotal:        batchResult.FilesTotal,
		FilesProcessed:    batchResult.FilesProcessed,
		FilesModified:     filesModified,
		TotalReplacements: totalReplacements,
		Elapsed:           batchResult.Elapsed,
		OutputDir:         session.Dir(),
		Stopped:           batchResult.Status == batch.StatusStopped,
	}

	if batchResult.Status == batch.StatusFailed {
		return result, batchResult.Err
	}
	return result, nil
}
