package docx_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allanpk716/docx_suite/internal/testutil"
	"github.com/allanpk716/docx_suite/pkg/docx"
)

func TestOpen_ReadsParagraphsAndTables(t *testing.T) {
	path := testutil.BuildDocx(t, t.TempDir(), "doc.docx",
		[]string{"第一段", "第二段"},
		[][][]string{
			{
				{"A1", "B1"},
				{"A2", "B2"},
			},
		})

	doc, err := docx.Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path())

	paras := doc.Paragraphs()
	require.Len(t, paras, 2)
	assert.Equal(t, "第一段", paras[0].Text())
	assert.Equal(t, "第二段", paras[1].Text())

	tables := doc.Tables()
	require.Len(t, tables, 1)
	rows := tables[0].Rows()
	require.Len(t, rows, 2)
	cells := rows[0].Cells()
	require.Len(t, cells, 2)
	cellParas := cells[1].Paragraphs()
	require.Len(t, cellParas, 1)
	assert.Equal(t, "B1", cellParas[0].Text())
}

func TestOpen_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))

	_, err := docx.Open(path)
	assert.ErrorContains(t, err, "打开DOCX文件失败")
}

func TestOpen_MissingDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<Types/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = docx.Open(path)
	assert.ErrorContains(t, err, "word/document.xml")
}

func TestSetText_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := testutil.BuildDocx(t, dir, "doc.docx", []string{"原始内容"}, nil)

	doc, err := docx.Open(path)
	require.NoError(t, err)
	doc.Paragraphs()[0].SetText("  新内容带空格  ")

	outPath := filepath.Join(dir, "out.docx")
	require.NoError(t, doc.Save(outPath))

	// xml:space="preserve" 保证首尾空格在往返中存活
	reopened, err := docx.Open(outPath)
	require.NoError(t, err)
	assert.Equal(t, "  新内容带空格  ", reopened.Paragraphs()[0].Text())
}

func TestSave_PreservesOtherEntries(t *testing.T) {
	dir := t.TempDir()
	path := testutil.BuildDocx(t, dir, "doc.docx", []string{"内容"}, nil)

	doc, err := docx.Open(path)
	require.NoError(t, err)
	outPath := filepath.Join(dir, "out.docx")
	require.NoError(t, doc.Save(outPath))

	reader, err := zip.OpenReader(outPath)
	require.NoError(t, err)
	defer reader.Close()

	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "[Content_Types].xml")
	assert.Contains(t, names, "word/document.xml")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := testutil.BuildDocx(t, dir, "good.docx", []string{"内容"}, nil)
	assert.NoError(t, docx.Validate(good))

	missing := filepath.Join(dir, "missing.docx")
	assert.ErrorContains(t, docx.Validate(missing), "文件不存在")

	bad := filepath.Join(dir, "bad.docx")
	require.NoError(t, os.WriteFile(bad, []byte("junk"), 0644))
	assert.Error(t, docx.Validate(bad))
}
