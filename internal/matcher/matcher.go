// Package matcher 实现扫描管线的令牌匹配
package matcher

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/allanpk716/docx_suite/internal/domain"
)

// tokenMatcher 令牌匹配器实现。
// 扫描管线中所有模式一律按正则表达式处理，即使它看起来像字面量令牌
// （含 . 或 ( 等元字符的令牌也会被当作正则解释）。下游令牌库依赖这一
// 行为做前缀式匹配，不要改成字面匹配
type tokenMatcher struct {
	patternCache map[string]*regexp.Regexp
	badPatterns  map[string]bool
	log          zerolog.Logger
}

// NewTokenMatcher 创建新的令牌匹配器
func NewTokenMatcher(log zerolog.Logger) domain.TokenMatcher {
	return &tokenMatcher{
		patternCache: make(map[string]*regexp.Regexp),
		badPatterns:  make(map[string]bool),
		log:          log,
	}
}

// Match 对全文逐行测试所有模式。
// 返回值 matched 按规则加载顺序给出命中的模式源；lines 按文档顺序给出
// 命中行的修剪摘录，同一行被多个模式命中会出现多次，不做去重；
// count 是所有命中模式在全文中的出现次数之和。
// 无法编译的模式只使该模式失效并记录警告，不影响其余模式和整个扫描
func (tm *tokenMatcher) Match(fullText string, rules *domain.RuleSet) ([]string, []string, int) {
	matchedSet := make(map[string]bool)
	var matchedLines []string

	textLines := strings.Split(fullText, "\n")
	for _, line := range textLines {
		for _, rule := range rules.Rules {
			pattern := tm.getOrCompilePattern(rule.Source)
			if pattern == nil {
				continue
			}
			if pattern.MatchString(line) {
				matchedLines = append(matchedLines, strings.TrimSpace(line))
				matchedSet[rule.Source] = true
			}
		}
	}

	var matched []string
	count := 0
	for _, rule := range rules.Rules {
		if !matchedSet[rule.Source] {
			continue
		}
		matched = append(matched, rule.Source)
		count += len(tm.patternCache[rule.Source].FindAllStringIndex(fullText, -1))
	}

	return matched, matchedLines, count
}

// getOrCompilePattern 获取或编译正则模式，编译失败的模式只警告一次
func (tm *tokenMatcher) getOrCompilePattern(source string) *regexp.Regexp {
	if pattern, exists := tm.patternCache[source]; exists {
		return pattern
	}
	if tm.badPatterns[source] {
		return nil
	}

	pattern, err := regexp.Compile(source)
	if err != nil {
		tm.badPatterns[source] = true
		tm.log.Warn().Str("pattern", source).Err(err).Msg("无效的正则模式，已跳过")
		return nil
	}

	tm.patternCache[source] = pattern
	return pattern
}
