// Package docx 提供对 DOCX 容器的段落级读写访问
package docx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
)

// documentXMLName DOCX 容器中正文所在的条目名
const documentXMLName = "word/document.xml"

// zipEntry 容器中一个原始条目，保存后除正文外原样写回
type zipEntry struct {
	header zip.FileHeader
	data   []byte
}

// Document 一个已打开的 DOCX 文档
type Document struct {
	path    string
	entries []zipEntry
	xml     *etree.Document
	body    *etree.Element
}

// Paragraph 文档中的一个段落
type Paragraph struct {
	el *etree.Element
}

// Table 文档中的一个表格
type Table struct {
	el *etree.Element
}

// Row 表格中的一行
type Row struct {
	el *etree.Element
}

// Cell 表格行中的一个单元格
type Cell struct {
	el *etree.Element
}

// Open 打开 DOCX 文档，读入全部条目并解析正文 XML
func Open(path string) (*Document, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("打开DOCX文件失败: %w", err)
	}
	defer reader.Close()

	doc := &Document{path: path}

	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("打开条目 %s 失败: %w", file.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("读取条目 %s 失败: %w", file.Name, err)
		}
		doc.entries = append(doc.entries, zipEntry{header: file.FileHeader, data: data})
	}

	xmlData, ok := doc.entryData(documentXMLName)
	if !ok {
		return nil, fmt.Errorf("无效的DOCX文档: 缺少 %s", documentXMLName)
	}

	doc.xml = etree.NewDocument()
	if err := doc.xml.ReadFromBytes(xmlData); err != nil {
		return nil, fmt.Errorf("解析文档XML失败: %w", err)
	}

	root := doc.xml.Root()
	if root == nil {
		return nil, fmt.Errorf("无效的文档XML: 缺少根元素")
	}
	doc.body = root.SelectElement("w:body")
	if doc.body == nil {
		return nil, fmt.Errorf("无效的文档XML: 缺少 w:body")
	}

	return doc, nil
}

// Path 返回文档的原始路径
func (d *Document) Path() string {
	return d.path
}

// Paragraphs 返回正文顶层段落，不包含表格单元格内的段落
func (d *Document) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, el := range d.body.SelectElements("w:p") {
		paras = append(paras, &Paragraph{el: el})
	}
	return paras
}

// Tables 返回正文顶层表格
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, el := range d.body.SelectElements("w:tbl") {
		tables = append(tables, &Table{el: el})
	}
	return tables
}

// Rows 返回表格的所有行
func (t *Table) Rows() []*Row {
	var rows []*Row
	for _, el := range t.el.SelectElements("w:tr") {
		rows = append(rows, &Row{el: el})
	}
	return rows
}

// Cells 返回一行中的所有单元格
func (r *Row) Cells() []*Cell {
	var cells []*Cell
	for _, el := range r.el.SelectElements("w:tc") {
		cells = append(cells, &Cell{el: el})
	}
	return cells
}

// Paragraphs 返回单元格中的段落
func (c *Cell) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, el := range c.el.SelectElements("w:p") {
		paras = append(paras, &Paragraph{el: el})
	}
	return paras
}

// Text 返回段落的纯文本，即所有 w:t 节点文本按文档顺序拼接
func (p *Paragraph) Text() string {
	var b strings.Builder
	collectText(p.el, &b)
	return b.String()
}

func collectText(el *etree.Element, b *strings.Builder) {
	for _, ch := range el.ChildElements() {
		if ch.Space == "w" && ch.Tag == "t" {
			b.WriteString(ch.Text())
			continue
		}
		collectText(ch, b)
	}
}

// SetText 用单个文本运行替换段落的全部内容。
// 原有运行的格式（字体、加粗等）不保留，这是已知且接受的行为。
func (p *Paragraph) SetText(text string) {
	for _, ch := range p.el.ChildElements() {
		// 段落属性保留，其余子节点（运行、超链接等）全部移除
		if ch.Space == "w" && ch.Tag == "pPr" {
			continue
		}
		p.el.RemoveChild(ch)
	}

	run := p.el.CreateElement("w:r")
	t := run.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(text)
}

// Save 把文档写入目标路径。正文 XML 使用当前内存中的树重新序列化，
// 其余条目按打开时的内容和头信息原样写回
func (d *Document) Save(outputPath string) error {
	xmlData, err := d.xml.WriteToBytes()
	if err != nil {
		return fmt.Errorf("序列化文档XML失败: %w", err)
	}

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	defer outputFile.Close()

	zipWriter := zip.NewWriter(outputFile)

	for _, entry := range d.entries {
		header := entry.header
		writer, err := zipWriter.CreateHeader(&header)
		if err != nil {
			zipWriter.Close()
			return fmt.Errorf("创建ZIP文件头失败: %w", err)
		}

		data := entry.data
		if entry.header.Name == documentXMLName {
			data = xmlData
		}

		if _, err := writer.Write(data); err != nil {
			zipWriter.Close()
			return fmt.Errorf("写入条目 %s 失败: %w", entry.header.Name, err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("关闭ZIP写入器失败: %w", err)
	}
	return nil
}

func (d *Document) entryData(name string) ([]byte, bool) {
	for _, entry := range d.entries {
		if entry.header.Name == name {
			return entry.data, true
		}
	}
	return nil, false
}
