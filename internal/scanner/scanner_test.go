package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allanpk716/docx_suite/internal/domain"
	"github.com/allanpk716/docx_suite/internal/testutil"
)

func tokenRules(pairs ...[2]string) *domain.RuleSet {
	rs := &domain.RuleSet{}
	for _, p := range pairs {
		rs.Rules = append(rs.Rules, domain.Rule{Source: p[0], Target: p[1]})
	}
	return rs
}

func TestParseFileTypeFilter(t *testing.T) {
	filter, err := ParseFileTypeFilter("both")
	require.NoError(t, err)
	assert.Equal(t, FilterBoth, filter)

	filter, err = ParseFileTypeFilter("docx")
	require.NoError(t, err)
	assert.Equal(t, FilterDocxOnly, filter)

	filter, err = ParseFileTypeFilter("dcp")
	require.NoError(t, err)
	assert.Equal(t, FilterDCPOnly, filter)

	_, err = ParseFileTypeFilter("pdf")
	assert.ErrorContains(t, err, "无效的文件类型选项")
}

func TestFileTypeFilter_Matches(t *testing.T) {
	cases := []struct {
		name   string
		filter FileTypeFilter
		file   string
		want   bool
	}{
		{"both 匹配普通 docx", FilterBoth, "contract.docx", true},
		{"both 匹配 dcp", FilterBoth, "contract.dcp.docx", true},
		{"both 忽略其他扩展名", FilterBoth, "contract.pdf", false},
		{"docx 排除 dcp", FilterDocxOnly, "contract.dcp.docx", false},
		{"docx 匹配普通", FilterDocxOnly, "contract.docx", true},
		{"dcp 只匹配 dcp", FilterDCPOnly, "contract.docx", false},
		{"dcp 匹配 dcp", FilterDCPOnly, "contract.dcp.docx", true},
		{"大小写不敏感", FilterBoth, "CONTRACT.DOCX", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Matches(tc.file))
		})
	}
}

func TestFindFiles_SkipsTempAndRecurses(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "nested")
	require.NoError(t, os.MkdirAll(sub, 0755))

	for _, name := range []string{"a.docx", "~$a.docx", "b.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(sub, "c.docx"), []byte("x"), 0644))

	files, err := FindFiles(root, FilterBoth)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.docx"),
		filepath.Join(sub, "c.docx"),
	}, files)
}

func TestScanFile_MatchAndNoMatch(t *testing.T) {
	dir := t.TempDir()
	path := testutil.BuildDocx(t, dir, "doc.docx",
		[]string{"  合同含 <<KEY>> 令牌  ", "普通段落"},
		[][][]string{{{"单元格里也有 <<KEY>>"}}})

	scanner := NewScanner(zerolog.Nop())
	rules := tokenRules([2]string{"<<KEY>>", "主令牌"})

	result, err := scanner.ScanFile(path, rules)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, path, result.FilePath)
	assert.Equal(t, "doc.docx", result.FileName)
	assert.Positive(t, result.SizeBytes)
	assert.Equal(t, []string{"主令牌"}, result.MatchedLabels)
	// 命中行做了修剪，按文档顺序排列
	assert.Equal(t, []string{"合同含 <<KEY>> 令牌", "单元格里也有 <<KEY>>"}, result.MatchedLines)
	assert.Equal(t, 2, result.MatchCount)

	none, err := scanner.ScanFile(path, tokenRules([2]string{"<<ABSENT>>", "不存在"}))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestScanner_Run(t *testing.T) {
	dir := t.TempDir()
	hit := testutil.BuildDocx(t, dir, "hit.docx", []string{"带 <<KEY>> 的文件"}, nil)
	miss := testutil.BuildDocx(t, dir, "miss.docx", []string{"无关内容"}, nil)

	scanner := NewScanner(zerolog.Nop())
	results, batchResult := scanner.Run([]string{hit, miss}, tokenRules([2]string{"<<KEY>>", "K"}), nil, nil)

	assert.Equal(t, 2, batchResult.FilesProcessed)
	require.Len(t, results, 1)
	assert.Equal(t, "hit.docx", results[0].FileName)
}
