package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/John-Robertt/tomatoes/internal/domain"
)

// Extractor 从首页文档中提取某个列表区域的电影条目（只含 Name/DetailURL/Critic）。
//
// 过滤规则（按文档顺序逐个节点）：
// - 没有文本：跳过
// - href 与“上一个被接受的节点”相同：跳过（只看相邻，不是全局去重）
// - 同名条目已存在：跳过（全局按名字去重，区分大小写）
type Extractor struct {
	root   string
	marker cascadia.Selector
}

// NewExtractor 编译评分标记选择器；siteRoot 作为前缀拼出详情页 URL。
func NewExtractor(siteRoot, criticMarker string) (*Extractor, error) {
	siteRoot = strings.TrimSpace(siteRoot)
	if _, err := url.Parse(siteRoot); err != nil {
		return nil, err
	}
	marker, err := cascadia.Compile(criticMarker)
	if err != nil {
		return nil, err
	}
	return &Extractor{root: strings.TrimRight(siteRoot, "/"), marker: marker}, nil
}

// Extract 返回 sel 命中的条目（文档顺序，已过滤）。
func (e *Extractor) Extract(doc *goquery.Document, sel cascadia.Selector) []domain.Movie {
	if doc == nil || sel == nil {
		return nil
	}

	out := make([]domain.Movie, 0, 16)
	seen := make(map[string]struct{}, 16)
	lastHref := ""

	doc.FindMatcher(sel).Each(func(_ int, s *goquery.Selection) {
		name := normSpace(s.Text())
		if name == "" {
			return
		}
		href, ok := s.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			// 没有链接就无法补全观众评分；选择器本身要求 href，这里只做兜底。
			return
		}
		if href == lastHref {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}

		lastHref = href
		seen[name] = struct{}{}
		out = append(out, domain.Movie{
			Name:      name,
			DetailURL: e.detailURL(href),
			Critic:    e.criticScore(s),
			Audience:  domain.Unavailable(),
		})
	})
	return out
}

func (e *Extractor) criticScore(s *goquery.Selection) domain.Score {
	if s.Length() == 0 {
		return domain.Unavailable()
	}
	m := nearestPreceding(s.Get(0), e.marker.Match)
	if m == nil {
		return domain.Unavailable()
	}
	return domain.ParseCriticScore(nodeText(m))
}

// detailURL 把站内链接直接拼在 site root 之后（保留 root 自带的路径）；已是绝对地址的链接原样返回。
func (e *Extractor) detailURL(href string) string {
	if ref, err := url.Parse(href); err == nil && ref.IsAbs() {
		return href
	}
	return e.root + "/" + strings.TrimLeft(href, "/")
}
