// Package fetch 是页面抓取层：一次 GET 取回整页，或按固定大小分块流式读取。
package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
	pkgerrors "github.com/pkg/errors"

	"github.com/John-Robertt/tomatoes/internal/infra/httpx"
	"github.com/John-Robertt/tomatoes/internal/log"
)

// DefaultChunkSize 与详情页流式读取的默认块大小一致（4 KiB）。
const DefaultChunkSize = 4 * 1024

// Fetcher 基于 resty 封装页面抓取。
//
// 约束：
// - 不做缓存、不做重试（网络策略在 httpx 层：UA/代理/节流）
// - 每次抓取的连接只在该次调用内有效，结束或失败时无条件释放
type Fetcher struct {
	http *resty.Client
}

// New 用给定的 *http.Client（通常来自 httpx.NewPageClient）构造 Fetcher。
func New(c *http.Client) *Fetcher {
	if c == nil {
		c = &http.Client{}
	}
	rc := resty.NewWithClient(c)
	rc.SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	rc.SetHeader("Accept-Language", "en-US,en;q=0.5")
	// resty 会在 UA 为空时写入自己的默认值；这里提前从 UA 池取一个。
	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get("User-Agent") == "" {
			r.SetHeader("User-Agent", httpx.RandomUserAgent())
		}
		return nil
	})
	return &Fetcher{http: rc}
}

// Fetch 读取整页 body。
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	log.Debug().Str("url", url).Msg("GET")
	resp, err := f.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, pkgerrors.WithStack(&FetchError{URL: url, Err: err})
	}
	if !okStatus(resp.StatusCode()) {
		return nil, pkgerrors.WithStack(&FetchError{URL: url, StatusCode: resp.StatusCode()})
	}
	return resp.Body(), nil
}

// Stream 发起 GET 并返回一个惰性的分块序列。调用方必须 Close（提前停止时也一样）。
func (f *Fetcher) Stream(ctx context.Context, url string, chunkSize int) (Chunks, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	log.Debug().Str("url", url).Int("chunk_size", chunkSize).Msg("GET (stream)")
	resp, err := f.http.R().SetContext(ctx).SetDoNotParseResponse(true).Get(url)
	if err != nil {
		if resp != nil && resp.RawBody() != nil {
			resp.RawBody().Close()
		}
		return nil, pkgerrors.WithStack(&FetchError{URL: url, Err: err})
	}
	body := resp.RawBody()
	if !okStatus(resp.StatusCode()) {
		if body != nil {
			body.Close()
		}
		return nil, pkgerrors.WithStack(&FetchError{URL: url, StatusCode: resp.StatusCode()})
	}
	if body == nil {
		return nil, pkgerrors.WithStack(&FetchError{URL: url, Err: errors.New("empty response body")})
	}
	return NewChunkReader(url, body, chunkSize), nil
}

func okStatus(code int) bool { return code >= 200 && code < 400 }

// Chunks 是一个惰性的块序列：Next 在序列结束时返回 io.EOF。
type Chunks interface {
	Next() ([]byte, error)
	Close() error
}

// ChunkReader 把 io.ReadCloser 切成固定大小的块（最后一块可能更短）。
type ChunkReader struct {
	url  string
	rc   io.ReadCloser
	size int
	done bool

	// Reads 记录已经交给调用方的块数。
	Reads int
}

func NewChunkReader(url string, rc io.ReadCloser, size int) *ChunkReader {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &ChunkReader{url: url, rc: rc, size: size}
}

func (c *ChunkReader) Next() ([]byte, error) {
	if c.done {
		return nil, io.EOF
	}
	buf := make([]byte, c.size)
	n, err := io.ReadFull(c.rc, buf)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		c.done = true
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		c.done = true
	default:
		c.done = true
		return nil, pkgerrors.WithStack(&FetchError{URL: c.url, Err: err})
	}
	c.Reads++
	return buf[:n], nil
}

func (c *ChunkReader) Close() error {
	c.done = true
	log.Debug().Str("url", c.url).Int("chunks", c.Reads).Msg("stream closed")
	return c.rc.Close()
}
