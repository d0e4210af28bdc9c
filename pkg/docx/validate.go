package docx

import (
	"fmt"
	"os"

	ntndocx "github.com/nguyenthenguyen/docx"
)

// Validate 在完整解析前对文件做预检：确认文件存在且容器可被读取。
// 损坏或非 DOCX 的文件在这里被识别出来，调用方据此跳过该文件
func Validate(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("文件不存在: %s", path)
	}

	reader, err := ntndocx.ReadDocxFile(path)
	if err != nil {
		return fmt.Errorf("无法打开文档: %w", err)
	}
	return reader.Close()
}
