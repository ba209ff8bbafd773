package scrape

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	pkgerrors "github.com/pkg/errors"

	"github.com/John-Robertt/tomatoes/internal/domain"
)

// PageSource 是整页抓取 + 流式抓取能力（*fetch.Fetcher 实现了它）。
type PageSource interface {
	ChunkSource
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ListingSpec 是尚未编译的列表区域配置。
type ListingSpec struct {
	Name     string
	Selector string
}

// Options 描述首页与详情页的页面结构。
type Options struct {
	SiteRoot      string
	Listings      []ListingSpec
	CriticMarker  string
	AudienceXPath string
	AudienceAttr  string
	ChunkSize     int
}

// Scraper 把首页抓取、列表提取与详情补全组合在一起。
// 它只提供单步能力，执行顺序由调用方（app/run）决定。
type Scraper struct {
	src       PageSource
	homepage  string
	listings  []Listing
	extractor *Extractor
	enricher  *Enricher
}

func New(src PageSource, opts Options) (*Scraper, error) {
	if src == nil {
		return nil, pkgerrors.New("page source 不能为空")
	}
	listings := make([]Listing, 0, len(opts.Listings))
	for _, spec := range opts.Listings {
		l, err := CompileListing(spec.Name, spec.Selector)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "列表 %q 选择器无效", spec.Name)
		}
		listings = append(listings, l)
	}
	ex, err := NewExtractor(opts.SiteRoot, opts.CriticMarker)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "critic_marker 无效")
	}
	en, err := NewEnricher(src, opts.AudienceXPath, opts.AudienceAttr, opts.ChunkSize)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "audience_xpath 无效")
	}
	return &Scraper{
		src:       src,
		homepage:  opts.SiteRoot,
		listings:  listings,
		extractor: ex,
		enricher:  en,
	}, nil
}

// Listings 返回按合并顺序排列的列表区域（第一个是主列表）。
func (s *Scraper) Listings() []Listing { return s.listings }

// HomepageURL 返回首页地址。
func (s *Scraper) HomepageURL() string { return s.homepage }

// Homepage 整页抓取首页并解析。
func (s *Scraper) Homepage(ctx context.Context) (*goquery.Document, error) {
	b, err := s.src.Fetch(ctx, s.homepage)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(b)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "解析首页失败")
	}
	return doc, nil
}

// Extract 提取一个列表区域的条目（Audience 尚未补全）。
func (s *Scraper) Extract(doc *goquery.Document, l Listing) []domain.Movie {
	return s.extractor.Extract(doc, l.Selector)
}

// Enrich 抓取 m 的详情页并写入观众评分；只修改 m 本身。
func (s *Scraper) Enrich(ctx context.Context, m *domain.Movie) error {
	score, err := s.enricher.AudienceScore(ctx, m.DetailURL)
	if err != nil {
		return err
	}
	m.Audience = score
	return nil
}
