package catalog

import (
	"fmt"
	"strings"
)

const githubScheme = "github:"

// ResolveLocator 将来源定位符转换为可拉取的 URL
//
//	http(s)://...                   原样使用
//	github:owner/repo[@ref]/path    -> <rawBase>/owner/repo/<ref>/path
//
// path 不以 .md 结尾时视为目录，追加 SKILL.md
func ResolveLocator(source, rawBase, defaultRef string) (string, error) {
	source = strings.TrimSpace(source)
	lower := strings.ToLower(source)

	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return source, nil
	}

	if !strings.HasPrefix(lower, githubScheme) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocator, source)
	}

	rest := strings.Trim(source[len(githubScheme):], "/")
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: %q needs owner/repo", ErrUnsupportedLocator, source)
	}

	owner := parts[0]
	repo, ref, hasRef := strings.Cut(parts[1], "@")
	if !hasRef || ref == "" {
		ref = defaultRef
	}
	if ref == "" {
		ref = "main"
	}
	if owner == "" || repo == "" {
		return "", fmt.Errorf("%w: %q needs owner/repo", ErrUnsupportedLocator, source)
	}

	path := ""
	if len(parts) == 3 {
		path = strings.Trim(parts[2], "/")
	}
	switch {
	case path == "":
		path = "SKILL.md"
	case !strings.HasSuffix(strings.ToLower(path), ".md"):
		path += "/SKILL.md"
	}

	return strings.TrimRight(rawBase, "/") + "/" + owner + "/" + repo + "/" + ref + "/" + path, nil
}

// StripMetadata 去掉内容开头由 --- 包围的元数据块
// 没有元数据块时原样返回（去除首尾空白）
func StripMetadata(content string) string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.TrimPrefix(normalized, "\ufeff")

	lines := strings.Split(normalized, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return strings.TrimSpace(normalized)
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		}
	}

	// 未闭合，视为没有元数据块
	return strings.TrimSpace(normalized)
}
