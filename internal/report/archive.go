package report

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// archiveFolderName 归档内存放匹配文件副本的子目录名
const archiveFolderName = "Matched_Files"

// BuildArchive 把扫描报告和所有命中文件打包成一个 ZIP 归档。
// 报告放在归档根部，命中文件的副本放在 Matched_Files/ 下；
// 归档内的同名文件通过数字后缀区分
func BuildArchive(zipPath, reportPath string, files []string) error {
	outputFile, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("创建归档文件失败: %w", err)
	}
	defer outputFile.Close()

	zipWriter := zip.NewWriter(outputFile)

	if err := addFileToArchive(zipWriter, reportPath, ReportFileName); err != nil {
		zipWriter.Close()
		return err
	}

	usedNames := make(map[string]bool)
	for _, file := range files {
		name := filepath.Base(file)
		ext := filepath.Ext(name)
		baseName := name[:len(name)-len(ext)]
		for counter := 1; usedNames[name]; counter++ {
			name = fmt.Sprintf("%s_%d%s", baseName, counter, ext)
		}
		usedNames[name] = true

		if err := addFileToArchive(zipWriter, file, archiveFolderName+"/"+name); err != nil {
			zipWriter.Close()
			return err
		}
	}

	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("关闭归档失败: %w", err)
	}
	return nil
}

func addFileToArchive(zipWriter *zip.Writer, srcPath, arcName string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("打开文件 %s 失败: %w", srcPath, err)
	}
	defer src.Close()

	writer, err := zipWriter.Create(arcName)
	if err != nil {
		return fmt.Errorf("创建归档条目失败: %w", err)
	}
	if _, err := io.Copy(writer, src); err != nil {
		return fmt.Errorf("写入归档条目 %s 失败: %w", arcName, err)
	}
	return nil
}

// ExtractArchive 把一个扫描归档解包到临时目录并返回其中的文档列表。
// 归档里带有元数据工作簿时，按工作簿 File Path 列的顺序返回对应的
// 解包文件；否则按归档内顺序返回全部文档。
// 返回的目录由调用方在运行结束后清理
func ExtractArchive(zipPath string, log zerolog.Logger) (string, []string, error) {
	scratchDir, err := os.MkdirTemp("", "docx_suite_zip_")
	if err != nil {
		return "", nil, fmt.Errorf("创建临时目录失败: %w", err)
	}

	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		os.RemoveAll(scratchDir)
		return "", nil, fmt.Errorf("打开归档失败: %w", err)
	}
	defer reader.Close()

	extracted := make(map[string]string)
	var order []string
	metadataPath := ""

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(file.Name)
		lower := strings.ToLower(name)

		switch {
		case strings.HasSuffix(lower, ".xlsx") && strings.Contains(lower, "metadata"):
			dest := filepath.Join(scratchDir, name)
			if err := extractEntry(file, dest); err != nil {
				os.RemoveAll(scratchDir)
				return "", nil, err
			}
			metadataPath = dest

		case strings.HasSuffix(lower, ".docx") && !strings.HasPrefix(name, "~"):
			dest := filepath.Join(scratchDir, name)
			if err := extractEntry(file, dest); err != nil {
				os.RemoveAll(scratchDir)
				return "", nil, err
			}
			extracted[name] = dest
			order = append(order, dest)
		}
	}

	if metadataPath == "" {
		log.Info().Int("files", len(order)).Msg("归档中没有元数据工作簿，按归档顺序加载")
		return scratchDir, order, nil
	}

	paths, err := ReadFilePathColumn(metadataPath)
	if err != nil {
		log.Warn().Err(err).Msg("读取归档元数据失败，按归档顺序加载")
		return scratchDir, order, nil
	}

	var ordered []string
	for _, original := range paths {
		if dest, ok := extracted[filepath.Base(original)]; ok {
			ordered = append(ordered, dest)
		}
	}
	if len(ordered) == 0 {
		return scratchDir, order, nil
	}
	return scratchDir, ordered, nil
}

func extractEntry(file *zip.File, dest string) error {
	rc, err := file.Open()
	if err != nil {
		return fmt.Errorf("打开归档条目 %s 失败: %w", file.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("创建文件 %s 失败: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("解包条目 %s 失败: %w", file.Name, err)
	}
	return nil
}
