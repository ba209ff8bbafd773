package scrape

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"

	"github.com/John-Robertt/tomatoes/internal/domain"
	"github.com/John-Robertt/tomatoes/internal/fetch"
	"github.com/John-Robertt/tomatoes/internal/log"
)

// ChunkSource 是详情页的流式抓取能力（*fetch.Fetcher 实现了它）。
type ChunkSource interface {
	Stream(ctx context.Context, url string, chunkSize int) (fetch.Chunks, error)
}

// Enricher 从详情页提取观众评分。
//
// 约束：
// - 按块读取，每块独立解析；第一次命中后立即停止，不再读取后续块
// - 整页都没有命中：结果为 Unavailable（不是错误）
// - 抓取失败：返回 *fetch.FetchError，由上层中止本次运行
type Enricher struct {
	src       ChunkSource
	expr      *xpath.Expr
	attr      string
	chunkSize int
}

// NewEnricher 编译观众评分所在标签的 XPath；attr 是承载评分文本的属性名。
func NewEnricher(src ChunkSource, audienceXPath, attr string, chunkSize int) (*Enricher, error) {
	if src == nil {
		return nil, errors.New("chunk source 不能为空")
	}
	expr, err := xpath.Compile(audienceXPath)
	if err != nil {
		return nil, err
	}
	if attr == "" {
		attr = "content"
	}
	if chunkSize <= 0 {
		chunkSize = fetch.DefaultChunkSize
	}
	return &Enricher{src: src, expr: expr, attr: attr, chunkSize: chunkSize}, nil
}

// AudienceScore 抓取 detailURL 并返回观众评分。连接在返回前总会被释放。
func (e *Enricher) AudienceScore(ctx context.Context, detailURL string) (domain.Score, error) {
	chunks, err := e.src.Stream(ctx, detailURL, e.chunkSize)
	if err != nil {
		return domain.Unavailable(), err
	}
	defer chunks.Close()

	for i := 1; ; i++ {
		chunk, err := chunks.Next()
		if errors.Is(err, io.EOF) {
			log.Debug().Str("url", detailURL).Int("chunks", i-1).Msg("audience tag not found")
			return domain.Unavailable(), nil
		}
		if err != nil {
			return domain.Unavailable(), err
		}

		raw, ok := e.match(chunk)
		if !ok {
			continue
		}
		log.Debug().Str("url", detailURL).Int("chunk", i).Str("raw", raw).Msg("audience tag matched")
		return domain.ParseAudienceScore(raw), nil
	}
}

func (e *Enricher) match(chunk []byte) (string, bool) {
	doc, err := htmlquery.Parse(bytes.NewReader(chunk))
	if err != nil {
		return "", false
	}
	n := htmlquery.QuerySelector(doc, e.expr)
	if n == nil {
		return "", false
	}
	return htmlquery.SelectAttr(n, e.attr), true
}
