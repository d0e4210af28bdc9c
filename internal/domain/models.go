package domain

import "time"

// Rule 表示一条规则：扫描管线中 Source 是模式、Target 是人类可读标签；
// 替换管线中 Source 是旧文本（或正则）、Target 是新文本（可含 {{match}} 占位符）
type Rule struct {
	Source string
	Target string
}

// RuleSet 按加载顺序保存的规则集合，Source 作为唯一键
type RuleSet struct {
	Rules []Rule
}

// Len 返回规则数量
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rules)
}

// Label 返回某个模式的人类可读标签，没有配置标签时返回模式本身
func (rs *RuleSet) Label(source string) string {
	for _, r := range rs.Rules {
		if r.Source == source && r.Target != "" {
			return r.Target
		}
	}
	return source
}

// RunMode 替换管线的运行模式
type RunMode int

const (
	// ModeDryRun 只计算将要发生的修改，不写任何文件
	ModeDryRun RunMode = iota
	// ModeCopy 原文件不动，把修改结果写入会话输出目录
	ModeCopy
	// ModeInPlace 直接覆盖原文件
	ModeInPlace
)

// String 返回运行模式的显示名称
func (m RunMode) String() string {
	switch m {
	case ModeDryRun:
		return "dry-run"
	case ModeCopy:
		return "copy"
	case ModeInPlace:
		return "in-place"
	default:
		return "unknown"
	}
}

// BatchConfig 一次批量运行的不可变配置快照
type BatchConfig struct {
	Mode       RunMode
	RegexMode  bool
	OutputRoot string // ModeCopy 模式下的输出根目录
}

// MatchResult 扫描管线中一个命中文件对应的报告行
type MatchResult struct {
	FilePath      string
	FileName      string
	SizeBytes     int64
	CreatedAt     time.Time
	ModifiedAt    time.Time
	MatchedLabels []string // 命中模式的标签，按规则加载顺序
	MatchedLines  []string // 命中行摘录，按文档顺序，不去重
	MatchCount    int
}

// ReplacementDetail 替换管线中一条段落级修改的审计记录
type ReplacementDetail struct {
	Location string
	Before   string
	After    string
}

// BatchResult 一次批量运行结束后的汇总
type BatchResult struct {
	Mode              RunMode
	FilesTotal        int
	FilesProcessed    int
	FilesModified     int // 替换管线：实际（或将要）修改的文件数；扫描管线：命中文件数
	TotalReplacements int
	Elapsed           time.Duration
	OutputDir         string // ModeCopy 模式下实际创建的会话目录，可能为空
	Stopped           bool
}

// TokenMatcher 扫描管线的模式匹配器接口
type TokenMatcher interface {
	// Match 对全文逐行测试所有模式，返回命中的模式（按加载顺序）、
	// 命中行摘录（按文档顺序）以及全文中的总命中次数
	Match(fullText string, rules *RuleSet) (matched []string, lines []string, count int)
}

// ReplacementEngine 替换管线的规则应用接口
type ReplacementEngine interface {
	// ApplyRules 按加载顺序把所有规则依次应用到文本上，返回新文本和是否发生变化
	ApplyRules(text string, rules *RuleSet, regexMode bool) (newText string, changed bool)
}
