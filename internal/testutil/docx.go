// Package testutil 提供测试用的最小 DOCX 构造器
package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`

// BuildDocx 在 dir 下生成一个最小但结构完整的 DOCX 文件。
// paragraphs 是顶层段落文本；tables 是表格 -> 行 -> 单元格文本，
// 每个单元格生成一个段落
func BuildDocx(t *testing.T, dir, name string, paragraphs []string, tables [][][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("创建测试文档失败: %v", err)
	}
	defer file.Close()

	zipWriter := zip.NewWriter(file)

	entry, err := zipWriter.Create("[Content_Types].xml")
	if err != nil {
		t.Fatalf("写入测试文档失败: %v", err)
	}
	if _, err := entry.Write([]byte(contentTypesXML)); err != nil {
		t.Fatalf("写入测试文档失败: %v", err)
	}

	entry, err = zipWriter.Create("word/_rels/document.xml.rels")
	if err != nil {
		t.Fatalf("写入测试文档失败: %v", err)
	}
	if _, err := entry.Write([]byte(documentRelsXML)); err != nil {
		t.Fatalf("写入测试文档失败: %v", err)
	}

	entry, err = zipWriter.Create("word/document.xml")
	if err != nil {
		t.Fatalf("写入测试文档失败: %v", err)
	}
	if _, err := entry.Write(buildDocumentXML(t, paragraphs, tables)); err != nil {
		t.Fatalf("写入测试文档失败: %v", err)
	}

	if err := zipWriter.Close(); err != nil {
		t.Fatalf("关闭测试文档失败: %v", err)
	}
	return path
}

func buildDocumentXML(t *testing.T, paragraphs []string, tables [][][]string) []byte {
	t.Helper()

	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for _, text := range paragraphs {
		writeParagraph(t, &b, text)
	}

	for _, table := range tables {
		b.WriteString("<w:tbl>")
		for _, row := range table {
			b.WriteString("<w:tr>")
			for _, cell := range row {
				b.WriteString("<w:tc>")
				writeParagraph(t, &b, cell)
				b.WriteString("</w:tc>")
			}
			b.WriteString("</w:tr>")
		}
		b.WriteString("</w:tbl>")
	}

	b.WriteString(`</w:body></w:document>`)
	return b.Bytes()
}

func writeParagraph(t *testing.T, b *bytes.Buffer, text string) {
	t.Helper()

	b.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
	if err := xml.EscapeText(b, []byte(text)); err != nil {
		t.Fatalf("转义段落文本失败: %v", err)
	}
	b.WriteString(`</w:t></w:r></w:p>`)
}
