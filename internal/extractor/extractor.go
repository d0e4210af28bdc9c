// Package extractor 把结构化文档展平成可匹配的文本视图，
// 并为替换管线提供段落粒度的遍历
package extractor

import (
	"fmt"

	"github.com/allanpk716/docx_suite/pkg/docx"
)

// ParagraphRef 一个可编辑段落及其结构化位置
type ParagraphRef struct {
	Paragraph *docx.Paragraph
	// Location 结构化位置标签，如 paragraph_0 或 table_0_row_1_cell_2_para_0
	Location string
	// InTable 该段落是否位于表格单元格内，影响审计记录的截断长度
	InTable bool
}

// FullTextLines 返回文档的逐行文本视图：先是所有顶层段落，
// 再按表格-行-单元格的嵌套顺序逐个单元格。行内容不做修剪
func FullTextLines(doc *docx.Document) []string {
	var lines []string

	for _, para := range doc.Paragraphs() {
		lines = append(lines, para.Text())
	}

	for _, table := range doc.Tables() {
		for _, row := range table.Rows() {
			for _, cell := range row.Cells() {
				lines = append(lines, cellText(cell))
			}
		}
	}

	return lines
}

// cellText 单元格内所有段落文本按换行拼接
func cellText(cell *docx.Cell) string {
	text := ""
	for i, para := range cell.Paragraphs() {
		if i > 0 {
			text += "\n"
		}
		text += para.Text()
	}
	return text
}

// EditableParagraphs 按文档顺序返回所有可编辑段落：
// 先是顶层段落，再是每个表格单元格内的段落
func EditableParagraphs(doc *docx.Document) []ParagraphRef {
	var refs []ParagraphRef

	for i, para := range doc.Paragraphs() {
		refs = append(refs, ParagraphRef{
			Paragraph: para,
			Location:  fmt.Sprintf("paragraph_%d", i),
		})
	}

	for t, table := range doc.Tables() {
		for r, row := range table.Rows() {
			for c, cell := range row.Cells() {
				for p, para := range cell.Paragraphs() {
					refs = append(refs, ParagraphRef{
						Paragraph: para,
						Location:  fmt.Sprintf("table_%d_row_%d_cell_%d_para_%d", t, r, c, p),
						InTable:   true,
					})
				}
			}
		}
	}

	return refs
}
