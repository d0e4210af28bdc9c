// Package scanner 实现扫描管线：发现候选文件、逐个文件匹配令牌并聚合结果
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/allanpk716/docx_suite/internal/batch"
	"github.com/allanpk716/docx_suite/internal/domain"
	"github.com/allanpk716/docx_suite/internal/extractor"
	"github.com/allanpk716/docx_suite/internal/matcher"
	"github.com/allanpk716/docx_suite/pkg/docx"
)

// FileTypeFilter 扫描的扩展名过滤器
type FileTypeFilter int

const (
	// FilterBoth 匹配 .docx 和 .dcp.docx
	FilterBoth FileTypeFilter = iota
	// FilterDocxOnly 只匹配 .docx，排除 .dcp.docx
	FilterDocxOnly
	// FilterDCPOnly 只匹配 .dcp.docx
	FilterDCPOnly
)

// ParseFileTypeFilter 解析命令行的文件类型选项
func ParseFileTypeFilter(value string) (FileTypeFilter, error) {
	switch value {
	case "both":
		return FilterBoth, nil
	case "docx":
		return FilterDocxOnly, nil
	case "dcp":
		return FilterDCPOnly, nil
	default:
		return FilterBoth, fmt.Errorf("无效的文件类型选项: %s (可选: both, docx, dcp)", value)
	}
}

// Matches 判断文件名是否通过过滤器
func (f FileTypeFilter) Matches(name string) bool {
	lower := strings.ToLower(name)
	switch f {
	case FilterDCPOnly:
		return strings.HasSuffix(lower, ".dcp.docx")
	case FilterDocxOnly:
		return strings.HasSuffix(lower, ".docx") && !strings.HasSuffix(lower, ".dcp.docx")
	default:
		return strings.HasSuffix(lower, ".docx")
	}
}

// FindFiles 递归遍历文件夹收集候选文件。
// 以 ~ 开头的文件是 Word 的锁定/临时文件，直接排除。
// 返回顺序即后续批量处理的顺序
func FindFiles(folder string, filter FileTypeFilter) ([]string, error) {
	var files []string

	err := filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name := info.Name()
		if strings.HasPrefix(name, "~") {
			return nil
		}
		if filter.Matches(name) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("扫描文件夹失败: %w", err)
	}

	return files, nil
}

// Scanner 扫描管线的文件级聚合器
type Scanner struct {
	matcher domain.TokenMatcher
	log     zerolog.Logger
}

// NewScanner 创建新的扫描器
func NewScanner(log zerolog.Logger) *Scanner {
	return &Scanner{
		matcher: matcher.NewTokenMatcher(log),
		log:     log,
	}
}

// ScanFile 扫描单个文件。至少有一个模式命中时返回一条 MatchResult，
// 没有命中返回 nil
func (s *Scanner) ScanFile(path string, rules *domain.RuleSet) (*domain.MatchResult, error) {
	doc, err := docx.Open(path)
	if err != nil {
		return nil, err
	}

	fullText := strings.Join(extractor.FullTextLines(doc), "\n")
	matched, lines, count := s.matcher.Match(fullText, rules)
	if len(matched) == 0 {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("读取文件信息失败: %w", err)
	}

	labels := make([]string, 0, len(matched))
	for _, source := range matched {
		labels = append(labels, rules.Label(source))
	}

	// 创建时间并非所有平台都能取到，用修改时间近似
	return &domain.MatchResult{
		FilePath:      path,
		FileName:      filepath.Base(path),
		SizeBytes:     info.Size(),
		CreatedAt:     info.ModTime(),
		ModifiedAt:    info.ModTime(),
		MatchedLabels: labels,
		MatchedLines:  lines,
		MatchCount:    count,
	}, nil
}

// Run 对文件列表执行一次扫描批次，返回所有命中文件的结果和批次汇总
func (s *Scanner) Run(files []string, rules *domain.RuleSet, stop *batch.StopToken, progress batch.ProgressFunc) ([]*domain.MatchResult, batch.Result) {
	var results []*domain.MatchResult

	driver := batch.NewDriver(s.log, stop, progress)
	batchResult := driver.Run(files, func(path string) error {
		matchResult, err := s.ScanFile(path, rules)
		if err != nil {
			return err
		}
		if matchResult != nil {
			results = append(results, matchResult)
			s.log.Info().
				Str("file", matchResult.FileName).
				Int("count", matchResult.MatchCount).
				Msg("发现匹配")
		}
		return nil
	})

	return results, batchResult
}
