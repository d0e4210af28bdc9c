// Package batch 提供批量运行的文件循环、进度/ETA 事件和协作式停止
package batch

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Status 一次批量运行的状态
type Status int

const (
	// StatusIdle 尚未开始
	StatusIdle Status = iota
	// StatusRunning 正在处理文件
	StatusRunning
	// StatusCompleted 所有文件处理完毕
	StatusCompleted
	// StatusStopped 操作者请求停止，剩余文件未处理
	StatusStopped
	// StatusFailed 意外错误越过了单文件边界，整批中止
	StatusFailed
)

// String 返回状态的显示名称
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusStopped:
		return "stopped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StopToken 协作式停止令牌。任何线程都可以调用 Stop，
// 工作循环只在文件边界轮询它，正在处理的文件会被完整处理完
type StopToken struct {
	stopped atomic.Bool
}

// NewStopToken 创建新的停止令牌
func NewStopToken() *StopToken {
	return &StopToken{}
}

// Stop 请求停止，可从任意 goroutine 调用
func (t *StopToken) Stop() {
	t.stopped.Store(true)
}

// Stopped 返回是否已请求停止
func (t *StopToken) Stopped() bool {
	return t.stopped.Load()
}

// Progress 一次进度事件
type Progress struct {
	// Index 当前文件的序号（从 0 开始），Total 是文件总数
	Index int
	Total int
	// FilePath 即将处理的文件
	FilePath string
	// Elapsed 批次开始以来的耗时
	Elapsed time.Duration
	// ETA 按已处理文件的平均耗时估算的剩余时间；
	// 第一个文件没有平均值可用，HasETA 为 false
	ETA    time.Duration
	HasETA bool
}

// ProgressFunc 进度回调。调用是即发即弃的，回调不能阻塞工作循环
type ProgressFunc func(Progress)

// FileFunc 处理单个文件的回调，返回错误表示该文件被跳过
type FileFunc func(path string) error

// Result 批量运行的结果
type Result struct {
	Status         Status
	FilesTotal     int
	FilesProcessed int
	FilesSkipped   int
	Elapsed        time.Duration
	Err            error
}

// CriticalError 越过单文件恢复边界的意外错误，附带捕获的调用栈
type CriticalError struct {
	Value any
	Stack []byte
}

// Error 实现 error 接口
func (e *CriticalError) Error() string {
	return fmt.Sprintf("处理过程中发生严重错误: %v", e.Value)
}

// Driver 批量运行驱动器。核心循环是单线程的：文件按加载顺序逐个处理，
// 没有并行文件或并行段落处理，同一时间只有一个文档被打开
type Driver struct {
	log      zerolog.Logger
	stop     *StopToken
	progress ProgressFunc
}

// NewDriver 创建批量驱动器。stop 和 progress 都可以为 nil
func NewDriver(log zerolog.Logger, stop *StopToken, progress ProgressFunc) *Driver {
	return &Driver{log: log, stop: stop, progress: progress}
}

// Run 按顺序处理文件列表。
// 每个文件边界先轮询停止令牌；缺失的文件记录为独立的"不存在"情形并跳过；
// 单文件错误记录后继续下一个文件；只有越过单文件边界的意外错误
// （panic）才中止整批并返回 StatusFailed
func (d *Driver) Run(files []string, fn FileFunc) Result {
	start := time.Now()
	result := Result{FilesTotal: len(files), Status: StatusCompleted}

	for i, path := range files {
		if d.stop != nil && d.stop.Stopped() {
			d.log.Info().Msg("收到停止请求，批量处理中止")
			result.Status = StatusStopped
			break
		}

		d.emitProgress(i, len(files), path, start)

		if _, err := os.Stat(path); os.IsNotExist(err) {
			d.log.Warn().Str("file", path).Msg("文件不存在，已跳过")
			result.FilesSkipped++
			continue
		}

		if err := runProtected(path, fn); err != nil {
			var critical *CriticalError
			if errors.As(err, &critical) {
				d.log.Error().
					Str("file", path).
					Bytes("stack", critical.Stack).
					Msgf("严重错误: %v", critical.Value)
				result.Status = StatusFailed
				result.Err = critical
				break
			}
			d.log.Error().Str("file", path).Err(err).Msg("处理文件失败，已跳过")
			result.FilesSkipped++
			continue
		}

		result.FilesProcessed++
	}

	result.Elapsed = time.Since(start)
	return result
}

// emitProgress 发出一次进度事件，第一个文件不报告 ETA
func (d *Driver) emitProgress(index, total int, path string, start time.Time) {
	if d.progress == nil {
		return
	}

	progress := Progress{
		Index:    index,
		Total:    total,
		FilePath: path,
		Elapsed:  time.Since(start),
	}
	if index > 0 {
		average := progress.Elapsed / time.Duration(index)
		progress.ETA = average * time.Duration(total-index)
		progress.HasETA = true
	}

	d.progress(progress)
}

// runProtected 把单文件处理包在恢复边界里，panic 转换为 CriticalError
func runProtected(path string, fn FileFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &CriticalError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn(path)
}
