package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// OutputSession 管理"生成修改副本"模式的会话输出目录。
// 目录以会话时间戳命名，在第一次真正产生修改时才创建，
// 同一次运行中的所有输出文件都落在同一个目录里
type OutputSession struct {
	root string
	dir  string
	now  func() time.Time
}

// NewOutputSession 创建输出会话，root 是操作者选择的输出根目录
func NewOutputSession(root string) *OutputSession {
	return &OutputSession{root: root, now: time.Now}
}

// Dir 返回已创建的会话目录，尚未创建时返回空字符串
func (s *OutputSession) Dir() string {
	return s.dir
}

// NextOutputPath 为一个源文件分配会话目录内的输出路径。
// 首次调用时创建时间戳目录；目录内同名文件通过在扩展名前追加
// 递增数字后缀解决冲突
func (s *OutputSession) NextOutputPath(srcPath string) (string, error) {
	if s.dir == "" {
		dir := filepath.Join(s.root, "modified_"+s.now().Format("20060102_150405"))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("创建输出目录失败: %w", err)
		}
		s.dir = dir
	}

	fileName := filepath.Base(srcPath)
	ext := filepath.Ext(fileName)
	baseName := fileName[:len(fileName)-len(ext)]

	outputPath := filepath.Join(s.dir, fileName)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(outputPath); os.IsNotExist(err) {
			break
		}
		outputPath = filepath.Join(s.dir, fmt.Sprintf("%s_%d%s", baseName, counter, ext))
	}

	return outputPath, nil
}
