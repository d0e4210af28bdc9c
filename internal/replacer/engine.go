// Package replacer 实现替换管线的规则应用引擎
package replacer

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/allanpk716/docx_suite/internal/domain"
)

// MatchPlaceholder 替换模板中表示捕获组（或整个匹配）的占位符
const MatchPlaceholder = "{{match}}"

// engine 替换引擎实现
type engine struct {
	patternCache map[string]*regexp.Regexp
	badPatterns  map[string]bool
	log          zerolog.Logger
}

// NewEngine 创建新的替换引擎
func NewEngine(log zerolog.Logger) domain.ReplacementEngine {
	return &engine{
		patternCache: make(map[string]*regexp.Regexp),
		badPatterns:  make(map[string]bool),
		log:          log,
	}
}

// ApplyRules 按加载顺序把规则依次应用到文本上。
// 规则是串行应用的：后面的规则作用于前面规则产生的结果，因此一条规则
// 可以命中前一条规则刚生成的文本。链式令牌迁移依赖这一点，不要改成
// 各规则独立作用于原文
func (e *engine) ApplyRules(text string, rules *domain.RuleSet, regexMode bool) (string, bool) {
	current := text

	for _, rule := range rules.Rules {
		if rule.Source == "" {
			// 空模式在字面量模式下会把替换值插到每个字符之间，直接跳过
			continue
		}

		if !regexMode {
			if strings.Contains(current, rule.Source) {
				current = strings.ReplaceAll(current, rule.Source, rule.Target)
			}
			continue
		}

		pattern := e.getOrCompilePattern(rule.Source)
		if pattern == nil {
			continue
		}
		current = applyRegexRule(current, pattern, rule.Target)
	}

	return current, current != text
}

// applyRegexRule 应用单条正则规则。
// 替换值中含 {{match}} 时逐个匹配手工构造替换文本；否则把替换值
// 作为字面文本做全量替换（替换值中的 $ 不展开为反向引用）
func applyRegexRule(current string, pattern *regexp.Regexp, target string) string {
	if !strings.Contains(target, MatchPlaceholder) {
		return pattern.ReplaceAllLiteralString(current, target)
	}

	indexes := pattern.FindAllStringSubmatchIndex(current, -1)
	if indexes == nil {
		return current
	}

	var b strings.Builder
	last := 0
	for _, idx := range indexes {
		b.WriteString(current[last:idx[0]])

		whole := current[idx[0]:idx[1]]
		var groups []string
		for g := 1; g*2 < len(idx); g++ {
			if idx[2*g] < 0 {
				groups = append(groups, "")
				continue
			}
			groups = append(groups, current[idx[2*g]:idx[2*g+1]])
		}

		b.WriteString(renderTemplate(target, groups, whole))
		last = idx[1]
	}
	b.WriteString(current[last:])

	return b.String()
}

// renderTemplate 把替换模板渲染成最终文本。
// 模式有捕获组时，第 i 个 {{match}} 占位符由第 i 个捕获组填充，
// 占位符多于捕获组时多出的保持原样；没有捕获组时所有占位符都由
// 整个匹配填充
func renderTemplate(target string, groups []string, whole string) string {
	if len(groups) == 0 {
		return strings.ReplaceAll(target, MatchPlaceholder, whole)
	}

	result := target
	for _, group := range groups {
		result = strings.Replace(result, MatchPlaceholder, group, 1)
	}
	return result
}

// getOrCompilePattern 获取或编译正则模式。
// 编译失败的模式只警告一次然后跳过，单条坏规则不能中断段落或文件的处理
func (e *engine) getOrCompilePattern(source string) *regexp.Regexp {
	if pattern, exists := e.patternCache[source]; exists {
		return pattern
	}
	if e.badPatterns[source] {
		return nil
	}

	pattern, err := regexp.Compile(source)
	if err != nil {
		e.badPatterns[source] = true
		e.log.Warn().Str("pattern", source).Err(err).Msg("无效的正则模式，该规则已跳过")
		return nil
	}

	e.patternCache[source] = pattern
	return pattern
}
