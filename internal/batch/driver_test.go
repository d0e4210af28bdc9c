package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestFiles(t *testing.T, count int) []string {
	t.Helper()
	dir := t.TempDir()
	files := make([]string, 0, count)
	for i := 0; i < count; i++ {
		path := filepath.Join(dir, fmt.Sprintf("doc_%d.docx", i))
		require.NoError(t, os.WriteFile(path, []byte("stub"), 0644))
		files = append(files, path)
	}
	return files
}

func TestDriver_ProcessesAllFilesInOrder(t *testing.T) {
	files := makeTestFiles(t, 4)
	var seen []string

	driver := NewDriver(zerolog.Nop(), nil, nil)
	result := driver.Run(files, func(path string) error {
		seen = append(seen, path)
		return nil
	})

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 4, result.FilesProcessed)
	assert.Equal(t, 0, result.FilesSkipped)
	assert.Equal(t, files, seen)
}

func TestDriver_StopAfterKFiles(t *testing.T) {
	files := makeTestFiles(t, 5)
	stop := NewStopToken()
	processed := 0

	driver := NewDriver(zerolog.Nop(), stop, nil)
	result := driver.Run(files, func(path string) error {
		processed++
		if processed == 2 {
			// 停止请求在下一个文件边界生效，当前文件处理完整
			stop.Stop()
		}
		return nil
	})

	assert.Equal(t, StatusStopped, result.Status)
	assert.Equal(t, 2, result.FilesProcessed)
	assert.Equal(t, 2, processed)
}

func TestDriver_MissingFileSkipped(t *testing.T) {
	files := makeTestFiles(t, 2)
	withMissing := []string{files[0], filepath.Join(t.TempDir(), "gone.docx"), files[1]}
	var seen []string

	driver := NewDriver(zerolog.Nop(), nil, nil)
	result := driver.Run(withMissing, func(path string) error {
		seen = append(seen, path)
		return nil
	})

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 2, result.FilesProcessed)
	assert.Equal(t, 1, result.FilesSkipped)
	assert.Equal(t, files, seen)
}

func TestDriver_FileErrorContinuesBatch(t *testing.T) {
	files := makeTestFiles(t, 3)

	driver := NewDriver(zerolog.Nop(), nil, nil)
	result := driver.Run(files, func(path string) error {
		if path == files[1] {
			return fmt.Errorf("读取失败")
		}
		return nil
	})

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 2, result.FilesProcessed)
	assert.Equal(t, 1, result.FilesSkipped)
}

func TestDriver_PanicFailsBatch(t *testing.T) {
	files := makeTestFiles(t, 3)
	var seen []string

	driver := NewDriver(zerolog.Nop(), nil, nil)
	result := driver.Run(files, func(path string) error {
		seen = append(seen, path)
		if path == files[1] {
			panic("意外错误")
		}
		return nil
	})

	assert.Equal(t, StatusFailed, result.Status)
	require.Error(t, result.Err)
	var critical *CriticalError
	require.ErrorAs(t, result.Err, &critical)
	assert.NotEmpty(t, critical.Stack)
	// 第三个文件不再被处理
	assert.Len(t, seen, 2)
}

func TestDriver_ProgressAndETA(t *testing.T) {
	files := makeTestFiles(t, 3)
	var events []Progress

	driver := NewDriver(zerolog.Nop(), nil, func(p Progress) {
		events = append(events, p)
	})
	driver.Run(files, func(path string) error { return nil })

	require.Len(t, events, 3)
	// 第一个文件没有平均耗时可用，不报告 ETA
	assert.False(t, events[0].HasETA)
	assert.True(t, events[1].HasETA)
	assert.True(t, events[2].HasETA)
	assert.Equal(t, 0, events[0].Index)
	assert.Equal(t, 3, events[0].Total)
}

func TestStopToken(t *testing.T) {
	token := NewStopToken()
	assert.False(t, token.Stopped())
	token.Stop()
	assert.True(t, token.Stopped())
}
