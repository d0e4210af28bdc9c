package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allanpk716/docx_suite/internal/domain"
)

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRules_PreservesKeyOrder(t *testing.T) {
	path := writeRulesFile(t, `{
  "zebra": "1",
  "alpha": "2",
  "middle": "3"
}`)

	ruleSet, warnings, err := LoadRules(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Equal(t, 3, ruleSet.Len())
	assert.Equal(t, "zebra", ruleSet.Rules[0].Source)
	assert.Equal(t, "alpha", ruleSet.Rules[1].Source)
	assert.Equal(t, "middle", ruleSet.Rules[2].Source)
}

func TestLoadRules_DuplicateKey(t *testing.T) {
	path := writeRulesFile(t, `{"a": "1", "a": "2"}`)

	_, _, err := LoadRules(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "规则重复")
}

func TestLoadRules_NonStringTargetSkippedWithWarning(t *testing.T) {
	path := writeRulesFile(t, `{"good": "ok", "bad": 42}`)

	ruleSet, warnings, err := LoadRules(path)
	require.NoError(t, err)

	require.Equal(t, 1, ruleSet.Len())
	assert.Equal(t, "good", ruleSet.Rules[0].Source)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "不是字符串")
}

func TestLoadRules_NotAnObject(t *testing.T) {
	path := writeRulesFile(t, `["a", "b"]`)

	_, _, err := LoadRules(path)
	require.Error(t, err)
}

func TestLoadRules_EmptyObject(t *testing.T) {
	path := writeRulesFile(t, `{}`)

	_, _, err := LoadRules(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "没有可用的规则")
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, _, err := LoadRules(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "不存在")
}

func TestLoadRules_RequiresJSONExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.txt")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":"b"}`), 0644))

	_, _, err := LoadRules(path)
	require.Error(t, err)
}

func TestValidateRules(t *testing.T) {
	ruleSet := &domain.RuleSet{Rules: []domain.Rule{
		{Source: "", Target: "x"},
		{Source: strings.Repeat("a", 1001), Target: "x"},
		{Source: "fine", Target: "x"},
	}}

	warnings := ValidateRules(ruleSet, false)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "空的搜索模式")
	assert.Contains(t, warnings[1], "过长")
}

func TestValidateRules_RegexMode(t *testing.T) {
	ruleSet := &domain.RuleSet{Rules: []domain.Rule{
		{Source: "[invalid", Target: "x"},
		{Source: `valid\d+`, Target: "x"},
	}}

	warnings := ValidateRules(ruleSet, true)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "无效的正则表达式")

	// 字面量模式下同样的规则集没有正则警告
	assert.Empty(t, ValidateRules(ruleSet, false))
}

func TestWriteReplacementTemplate_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.json")
	require.NoError(t, WriteReplacementTemplate(path, false))

	ruleSet, warnings, err := LoadRules(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Greater(t, ruleSet.Len(), 0)
	assert.Equal(t, "<<FileService.", ruleSet.Rules[0].Source)
	assert.Equal(t, "<<NewFileService.", ruleSet.Rules[0].Target)
}

func TestWriteReplacementTemplate_RegexRulesCompile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template_regex.json")
	require.NoError(t, WriteReplacementTemplate(path, true))

	ruleSet, _, err := LoadRules(path)
	require.NoError(t, err)

	// 正则模板里的所有模式都必须能编译
	assert.Empty(t, ValidateRules(ruleSet, true))
}

func TestWriteTokenTemplate_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, WriteTokenTemplate(path))

	ruleSet, warnings, err := LoadRules(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "Fileservice", ruleSet.Label("<<FileService."))
}
