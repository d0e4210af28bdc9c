// Package config 负责规则文件（JSON 扁平对象）的加载、校验和模板生成
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/allanpk716/docx_suite/internal/domain"
)

// maxSourceLength 单条搜索模式允许的最大长度
const maxSourceLength = 1000

// sourcePreviewLength 警告信息中模式预览的截断长度
const sourcePreviewLength = 50

// LoadRules 从 JSON 文件加载规则集。
// 文件必须是一个扁平的 JSON 对象（source -> target），键的出现顺序
// 决定规则的应用顺序。替换值不是字符串的条目会被跳过并产生警告，
// 不会中断加载
func LoadRules(filePath string) (*domain.RuleSet, []string, error) {
	if filePath == "" {
		return nil, nil, fmt.Errorf("规则文件路径不能为空")
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("规则文件不存在: %s", filePath)
	}

	if ext := filepath.Ext(filePath); ext != ".json" {
		return nil, nil, fmt.Errorf("规则文件必须是 JSON 格式，当前文件: %s", ext)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("读取规则文件失败: %w", err)
	}

	return parseRules(data)
}

// parseRules 用 token 流解析 JSON 对象以保留键的出现顺序，
// encoding/json 直接解到 map 会丢失顺序
func parseRules(data []byte) (*domain.RuleSet, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("解析规则文件失败: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("规则文件必须是一个 JSON 对象")
	}

	ruleSet := &domain.RuleSet{}
	var warnings []string
	seen := make(map[string]bool)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("解析规则文件失败: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("解析规则文件失败: 非法的键 %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("解析规则文件失败: %w", err)
		}

		if seen[key] {
			return nil, nil, fmt.Errorf("规则重复: %s", key)
		}
		seen[key] = true

		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			warnings = append(warnings, fmt.Sprintf("规则 '%s' 的替换值不是字符串，已跳过", sourcePreview(key)))
			continue
		}

		ruleSet.Rules = append(ruleSet.Rules, domain.Rule{Source: key, Target: value})
	}

	if ruleSet.Len() == 0 {
		return nil, warnings, fmt.Errorf("规则文件中没有可用的规则")
	}

	return ruleSet, warnings, nil
}

// ValidateRules 在运行前检查规则集中的常见问题。
// 返回的警告只向操作者展示，不会阻止运行：个别坏规则不应当
// 阻塞整批文档的迁移
func ValidateRules(ruleSet *domain.RuleSet, regexMode bool) []string {
	var warnings []string

	for _, rule := range ruleSet.Rules {
		if rule.Source == "" {
			warnings = append(warnings, "发现空的搜索模式")
			continue
		}
		if len(rule.Source) > maxSourceLength {
			warnings = append(warnings, fmt.Sprintf("搜索模式过长: %s...", sourcePreview(rule.Source)))
		}
		if regexMode {
			if _, err := regexp.Compile(rule.Source); err != nil {
				warnings = append(warnings, fmt.Sprintf("无效的正则表达式 '%s': %v", sourcePreview(rule.Source), err))
			}
		}
	}

	return warnings
}

func sourcePreview(source string) string {
	runes := []rune(source)
	if len(runes) <= sourcePreviewLength {
		return source
	}
	return string(runes[:sourcePreviewLength])
}
