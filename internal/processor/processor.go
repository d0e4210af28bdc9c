// Package processor 把替换引擎的输出聚合成文件级和批次级结果
package processor

import (
	"github.com/rs/zerolog"

	"github.com/allanpk716/docx_suite/internal/domain"
	"github.com/allanpk716/docx_suite/internal/extractor"
	"github.com/allanpk716/docx_suite/internal/replacer"
	"github.com/allanpk716/docx_suite/pkg/docx"
)

// 审计记录中 before/after 文本的预览截断长度
const (
	paragraphPreviewLength = 100
	tableCellPreviewLength = 50
)

// DocumentProcessor 对单个文档执行段落级替换并收集审计记录
type DocumentProcessor struct {
	engine domain.ReplacementEngine
	log    zerolog.Logger
}

// NewDocumentProcessor 创建新的文档处理器
func NewDocumentProcessor(log zerolog.Logger) *DocumentProcessor {
	return &DocumentProcessor{
		engine: replacer.NewEngine(log),
		log:    log,
	}
}

// ReplaceInDocument 遍历文档中所有可编辑段落，对每个段落应用全部规则。
// 文本发生变化的段落被写回（原格式不保留），并生成一条带位置和
// 前后文本预览的审计记录。返回修改的段落数和审计记录列表
func (dp *DocumentProcessor) ReplaceInDocument(doc *docx.Document, rules *domain.RuleSet, regexMode bool) (int, []domain.ReplacementDetail) {
	replacementsMade := 0
	var details []domain.ReplacementDetail

	for _, ref := range extractor.EditableParagraphs(doc) {
		original := ref.Paragraph.Text()
		modified, changed := dp.engine.ApplyRules(original, rules, regexMode)
		if !changed {
			continue
		}

		ref.Paragraph.SetText(modified)
		replacementsMade++

		previewLength := paragraphPreviewLength
		if ref.InTable {
			previewLength = tableCellPreviewLength
		}

		detail := domain.ReplacementDetail{
			Location: ref.Location,
			Before:   truncatePreview(original, previewLength),
			After:    truncatePreview(modified, previewLength),
		}
		details = append(details, detail)

		dp.log.Debug().
			Str("location", detail.Location).
			Str("before", detail.Before).
			Str("after", detail.After).
			Msg("段落已替换")
	}

	return replacementsMade, details
}

// truncatePreview 把文本截断到预览长度，被截断时追加省略号标记
func truncatePreview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
