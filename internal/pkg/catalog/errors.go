package catalog

import "errors"

// 预定义错误
var (
	// ErrEntryNotFound 条目不存在
	ErrEntryNotFound = errors.New("catalog entry not found")

	// ErrInvalidEntry 条目定义无效
	ErrInvalidEntry = errors.New("invalid catalog entry")

	// ErrUnsupportedFormat 不支持的定义文件格式
	ErrUnsupportedFormat = errors.New("unsupported entry file format")

	// ErrUnsupportedLocator 无法转换为 URL 的来源
	ErrUnsupportedLocator = errors.New("unsupported source locator")

	// ErrFetchFailed 远端内容拉取失败
	ErrFetchFailed = errors.New("failed to fetch remote content")
)
