package matcher

import "errors"

// 预定义错误
var (
	// ErrEmptyTask 任务描述为空
	ErrEmptyTask = errors.New("task description is empty")

	// ErrRegistryUnavailable 工作者注册表读取失败
	ErrRegistryUnavailable = errors.New("worker registry unavailable")
)
