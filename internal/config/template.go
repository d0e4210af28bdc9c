package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/allanpk716/docx_suite/internal/domain"
)

// replacementTemplate 字面量替换规则的起始模板（旧令牌 -> 新令牌）
var replacementTemplate = []domain.Rule{
	{Source: "<<FileService.", Target: "<<NewFileService."},
	{Source: "</ff>", Target: "<<PAGE_BREAK>>"},
	{Source: "</pp>", Target: "<<HARD_RETURN>>"},
	{Source: "<backspace>", Target: "<<BACKSPACE>>"},
	{Source: "<<STNDRDTH", Target: "<<STANDARD_TH"},
	{Source: "<c>", Target: "<<CENTER>>"},
	{Source: "<u>", Target: "<<UNDERLINE>>"},
	{Source: "<i>", Target: "<<ITALIC>>"},
	{Source: "<bold>", Target: "<<BOLD>>"},
	{Source: "</nobullet>", Target: "<<NO_BULLET>>"},
	{Source: "[[MCOMPUTEINTO(<<", Target: "<<MCOMPUTE_INTO("},
	{Source: "[[SCOMPUTEINTO(", Target: "<<SCOMPUTE_INTO("},
	{Source: "[[ABORTIIF", Target: "<<ABORT_IF"},
	{Source: "PROMTINTO(", Target: "<<PROMPT_INTO("},
	{Source: "PROMTINTOIIF(", Target: "<<PROMPT_INTO_IF("},
	{Source: "<<Checklist.", Target: "<<CHECKLIST."},
	{Source: "TABLE(", Target: "<<TABLE("},
	{Source: "<<jfig", Target: "<<JFIG"},
	{Source: "{ATTY", Target: "<<ESIGN_ATTORNEY"},
}

// regexReplacementTemplate 正则模式下的起始模板，演示 {{match}} 占位符
var regexReplacementTemplate = []domain.Rule{
	{Source: `<<FileService\.\w*`, Target: "<<NewFileService.{{match}}"},
	{Source: `<<BLTO\d+`, Target: "<<BULLET_ORDERED_{{match}}>>"},
	{Source: `<<BLT#\d+`, Target: "<<BULLET_NUMBERED_{{match}}>>"},
	{Source: `\[\[(\w+)COMPUTEINTO\(`, Target: "<<{{match}}_INTO("},
	{Source: `PROMT(\w*)\(`, Target: "<<PROMPT_{{match}}("},
	{Source: `<<Special\.(\w*)`, Target: "<<SPECIAL.{{match}}"},
	{Source: `<<Tracker\.(\w+)>>~(\w+):`, Target: "<<TRACKER.{{match}}_FORMAT>>"},
	{Source: `\{ATTY(\w*)`, Target: "<<ESIGN_{{match}}"},
	{Source: `<(\w+)>`, Target: "<<{{match}}>>"},
	{Source: `</(\w+)>`, Target: "<<END_{{match}}>>"},
}

// tokenTemplate 扫描令牌文件的起始模板（模式 -> 标签）
var tokenTemplate = []domain.Rule{
	{Source: "<<FileService.", Target: "Fileservice"},
	{Source: "</ff>", Target: "Page Break"},
	{Source: "</pp>", Target: "Hard Return"},
	{Source: "<<STNDRDTH", Target: "STNDRD Add \"TH\""},
	{Source: "[[MCOMPUTEINTO(<<", Target: "MCOMPUTE INTO"},
	{Source: "[[SCOMPUTEINTO(", Target: "SCOMPUTE INTO"},
	{Source: "[[ABORTIIF", Target: "Abortif"},
	{Source: "PROMTINTO(", Target: "PROMTINTO"},
	{Source: "PROMTINTOIIF(", Target: "PROMTINTOIIF"},
	{Source: "PROMTINTOLIST(", Target: "PROMTINTOLIST"},
	{Source: "PROMTINTOIIFLIST(", Target: "PROMTINTOIIFLIST"},
	{Source: "PROMTFORM(", Target: "PROMTFORM"},
	{Source: "<<Checklist.", Target: "CHECKLIST"},
	{Source: "TABLE(", Target: "TABLE"},
	{Source: "<<jfig", Target: "JFIG"},
	{Source: "jfig", Target: "JFIG_General"},
	{Source: "{ATTY", Target: "ESIGN"},
	{Source: "<<Special.", Target: "SPECIAL"},
}

// WriteReplacementTemplate 生成替换规则模板文件
func WriteReplacementTemplate(filePath string, regexMode bool) error {
	rules := replacementTemplate
	if regexMode {
		rules = regexReplacementTemplate
	}
	return writeTemplate(filePath, rules)
}

// WriteTokenTemplate 生成扫描令牌模板文件
func WriteTokenTemplate(filePath string) error {
	return writeTemplate(filePath, tokenTemplate)
}

// writeTemplate 手工拼接 JSON 对象以保持键的顺序与模板一致
func writeTemplate(filePath string, rules []domain.Rule) error {
	var b strings.Builder
	b.WriteString("{\n")
	for i, rule := range rules {
		key, err := json.Marshal(rule.Source)
		if err != nil {
			return fmt.Errorf("序列化模板失败: %w", err)
		}
		value, err := json.Marshal(rule.Target)
		if err != nil {
			return fmt.Errorf("序列化模板失败: %w", err)
		}
		b.WriteString("  ")
		b.Write(key)
		b.WriteString(": ")
		b.Write(value)
		if i < len(rules)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n")

	if err := os.WriteFile(filePath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("写入模板文件失败: %w", err)
	}
	return nil
}
