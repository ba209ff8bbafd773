package httpx

import (
	"errors"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultTimeout = 20 * time.Second
)

// Transport 把“UA 池 + 代理 + 请求节流”固化为统一策略。
//
// 约束：
// - 不做重试：网络失败直接返回给调用方（是否重试由调用方决定，当前流程不重试）
// - Limiter 非空时，每个请求发出前等待令牌；ctx 取消会立即返回
type Transport struct {
	Base *http.Transport

	ua *uaPool

	Limiter *rate.Limiter
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}
	if t.Limiter != nil {
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	r := req
	if req.Header.Get("User-Agent") == "" {
		// Clone 会复制 Header，避免在 RoundTripper 内部“污染”调用方的 request。
		r = req.Clone(req.Context())
		r.Header.Set("User-Agent", t.ua.random())
	}
	return t.Base.RoundTrip(r)
}

// Options 是构造页面抓取 client 的参数。零值可用。
type Options struct {
	ProxyURL string
	Timeout  time.Duration
	// Interval 是相邻两次请求的最小间隔；0 表示不节流。
	Interval time.Duration
}

// NewPageClient 构造用于首页/详情页抓取的 HTTP client。
//
// 规则：
// - ProxyURL 非空：走代理，且禁用 keep-alive（每请求新连接）
// - 内置 UA 池：每个请求随机 UA
// - 总超时默认 DefaultTimeout
func NewPageClient(opts Options) (*http.Client, error) {
	base := &http.Transport{
		Proxy:                 nil,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
	}

	proxyURL := strings.TrimSpace(opts.ProxyURL)
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		base.Proxy = http.ProxyURL(u)
		base.DisableKeepAlives = true
	}

	tr := &Transport{
		Base: base,
		ua:   globalUA,
	}
	if opts.Interval > 0 {
		tr.Limiter = rate.NewLimiter(rate.Every(opts.Interval), 1)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}

type uaPool struct {
	mu  sync.Mutex
	rnd *rand.Rand
	uas []string
}

func (p *uaPool) random() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uas[p.rnd.Intn(len(p.uas))]
}

var globalUA = newUAPool()

// RandomUserAgent 从内置 UA 池随机取一个（供自带默认 UA 的上层 client 使用）。
func RandomUserAgent() string { return globalUA.random() }

func newUAPool() *uaPool {
	uas := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	}
	return &uaPool{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		uas: uas,
	}
}
