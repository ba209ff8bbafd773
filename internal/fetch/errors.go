package fetch

import (
	"fmt"
	"strings"
)

// FetchError 表示一次 GET（首页或详情页）失败：网络错误或非 2xx/3xx 状态码。
// 该错误不会被重试；上层按约定直接中止本次运行。
type FetchError struct {
	URL        string
	StatusCode int // 0 表示请求没有拿到响应（网络/超时/取消）
	Err        error
}

func (e *FetchError) Error() string {
	if e == nil {
		return "fetch error"
	}
	u := strings.TrimSpace(e.URL)
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("GET %s: HTTP %d", u, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("GET %s: %v", u, e.Err)
	default:
		return fmt.Sprintf("GET %s failed", u)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }
