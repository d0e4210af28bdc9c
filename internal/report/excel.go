// Package report 负责扫描报告工作簿的生成与读取，以及匹配文件归档
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/allanpk716/docx_suite/internal/domain"
)

// ReportFileName 扫描报告工作簿的固定文件名
const ReportFileName = "matching_files_metadata.xlsx"

// LineDelimiter 命中行摘录在单元格内的拼接分隔符
const LineDelimiter = "/----/"

// filePathColumn 替换管线读取文件列表时定位的列名
const filePathColumn = "File Path"

const timeLayout = "2006-01-02 15:04:05"

var reportColumns = []interface{}{
	"File Name",
	"File Path",
	"Size (bytes)",
	"Creation Date",
	"Modified Date",
	"Matched Pattern(s)",
	"Matched Line(s)",
	"Token Match Count",
	"Link to File",
}

// WriteReport 把扫描结果写成工作簿，一个命中文件一行，
// 最后一列是打开文件的 HYPERLINK 公式
func WriteReport(filePath string, results []*domain.MatchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &reportColumns); err != nil {
		return fmt.Errorf("写入报告表头失败: %w", err)
	}

	for i, result := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("计算单元格坐标失败: %w", err)
		}

		row := []interface{}{
			result.FileName,
			result.FilePath,
			result.SizeBytes,
			result.CreatedAt.Format(timeLayout),
			result.ModifiedAt.Format(timeLayout),
			strings.Join(result.MatchedLabels, ", "),
			strings.Join(result.MatchedLines, LineDelimiter),
			result.MatchCount,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("写入报告行失败: %w", err)
		}

		linkCell, err := excelize.CoordinatesToCellName(len(reportColumns), i+2)
		if err != nil {
			return fmt.Errorf("计算单元格坐标失败: %w", err)
		}
		formula := fmt.Sprintf(`HYPERLINK("%s","Open File")`, result.FilePath)
		if err := f.SetCellFormula(sheet, linkCell, formula); err != nil {
			return fmt.Errorf("写入文件链接失败: %w", err)
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("保存报告失败: %w", err)
	}
	return nil
}

// ReadFilePathColumn 从报告工作簿中读出 File Path 列的全部值，
// 不检查路径是否存在
func ReadFilePathColumn(filePath string) ([]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("打开报告失败: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("读取报告失败: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("报告中没有数据")
	}

	columnIndex := -1
	for i, header := range rows[0] {
		if header == filePathColumn {
			columnIndex = i
			break
		}
	}
	if columnIndex < 0 {
		return nil, fmt.Errorf("报告中缺少 %s 列", filePathColumn)
	}

	var paths []string
	for _, row := range rows[1:] {
		if columnIndex >= len(row) {
			continue
		}
		if path := strings.TrimSpace(row[columnIndex]); path != "" {
			paths = append(paths, path)
		}
	}

	return paths, nil
}

// ReadExistingFilePaths 读出 File Path 列并过滤掉磁盘上已不存在的路径，
// 被过滤的路径记录警告
func ReadExistingFilePaths(filePath string, log zerolog.Logger) ([]string, error) {
	paths, err := ReadFilePathColumn(filePath)
	if err != nil {
		return nil, err
	}

	var existing []string
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.Warn().Str("file", path).Msg("报告中的文件已不存在，已跳过")
			continue
		}
		existing = append(existing, path)
	}

	return existing, nil
}
