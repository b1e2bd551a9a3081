package catalog

import (
	"net"
	"net/http"
	"time"
)

// Doer 执行 HTTP 请求
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient 创建带超时的 HTTP 客户端
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}
}
