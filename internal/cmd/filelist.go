package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/allanpk716/docx_suite/internal/report"
	"github.com/allanpk716/docx_suite/internal/scanner"
)

// fileListSource 三种互斥的文件列表来源
type fileListSource struct {
	folder     string
	reportFile string
	zipFile    string
	fileType   string
}

// validate 确认恰好指定了一种来源
func (s *fileListSource) validate() error {
	count := 0
	for _, v := range []string{s.folder, s.reportFile, s.zipFile} {
		if v != "" {
			count++
		}
	}
	if count == 0 {
		return fmt.Errorf("必须指定 --folder、--report 或 --zip 之一")
	}
	if count > 1 {
		return fmt.Errorf("--folder、--report 和 --zip 只能指定一个")
	}
	return nil
}

// collect 按来源收集文件列表。返回的 cleanup 在运行结束后调用，
// 用于清理 ZIP 来源解包出的临时目录
func (s *fileListSource) collect(log zerolog.Logger) ([]string, func(), error) {
	cleanup := func() {}

	switch {
	case s.folder != "":
		if info, err := os.Stat(s.folder); err != nil || !info.IsDir() {
			return nil, cleanup, fmt.Errorf("无效的扫描文件夹: %s", s.folder)
		}
		filter, err := scanner.ParseFileTypeFilter(s.fileType)
		if err != nil {
			return nil, cleanup, err
		}
		files, err := scanner.FindFiles(s.folder, filter)
		if err != nil {
			return nil, cleanup, err
		}
		return files, cleanup, nil

	case s.reportFile != "":
		files, err := report.ReadExistingFilePaths(s.reportFile, log)
		if err != nil {
			return nil, cleanup, err
		}
		return files, cleanup, nil

	default:
		scratchDir, files, err := report.ExtractArchive(s.zipFile, log)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() {
			if err := os.RemoveAll(scratchDir); err != nil {
				log.Warn().Err(err).Msg("清理临时目录失败")
			}
		}
		return files, cleanup, nil
	}
}
