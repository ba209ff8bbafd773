package run

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/John-Robertt/tomatoes/internal/app"
	"github.com/John-Robertt/tomatoes/internal/config"
	"github.com/John-Robertt/tomatoes/internal/domain"
	"github.com/John-Robertt/tomatoes/internal/fetch"
	"github.com/John-Robertt/tomatoes/internal/infra/httpx"
	"github.com/John-Robertt/tomatoes/internal/log"
	"github.com/John-Robertt/tomatoes/internal/scrape"
)

// NewScraper 按配置组装 http client → fetcher → scraper。
func NewScraper(eff config.EffectiveConfig) (*scrape.Scraper, error) {
	c, err := httpx.NewPageClient(httpx.Options{
		ProxyURL: eff.ProxyURL,
		Timeout:  eff.Timeout,
		Interval: eff.RequestInterval,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "创建 http client 失败")
	}

	specs := make([]scrape.ListingSpec, 0, len(eff.Listings))
	for _, l := range eff.Listings {
		specs = append(specs, scrape.ListingSpec{Name: l.Name, Selector: l.Selector})
	}
	return scrape.New(fetch.New(c), scrape.Options{
		SiteRoot:      eff.SiteRoot,
		Listings:      specs,
		CriticMarker:  eff.CriticMarker,
		AudienceXPath: eff.AudienceXPath,
		AudienceAttr:  eff.AudienceAttr,
		ChunkSize:     eff.ChunkSize,
	})
}

// Execute 执行一次完整抓取，返回合并后的快照（未排序，保持合并顺序）。
func Execute(ctx context.Context, eff config.EffectiveConfig, s *scrape.Scraper) (domain.Snapshot, error) {
	return ExecuteWithObserver(ctx, eff, s, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 输出进度。
//
// 约束：
// - 全程串行：一部电影的详情页抓取完成（或提前停止）后才处理下一部
// - 列表按配置顺序处理，每个列表先提取再按文档顺序逐条补全
// - 任一抓取失败立即中止，不返回部分结果
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, s *scrape.Scraper, obs Observer) (domain.Snapshot, error) {
	started := time.Now().UTC()
	if obs != nil {
		obs.OnStart(eff)
	}

	t0 := time.Now()
	doc, err := s.Homepage(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if obs != nil {
		obs.OnPhaseDone("homepage", map[string]any{"url": s.HomepageURL()}, time.Since(t0))
	}

	lists := make([][]domain.Movie, 0, len(s.Listings()))
	for _, l := range s.Listings() {
		t0 := time.Now()
		movies := s.Extract(doc, l)
		log.Debug().Str("listing", l.Name).Int("movies", len(movies)).Msg("listing extracted")

		for i := range movies {
			if err := ctx.Err(); err != nil {
				return domain.Snapshot{}, pkgerrors.WithStack(err)
			}
			mt := time.Now()
			if err := s.Enrich(ctx, &movies[i]); err != nil {
				return domain.Snapshot{}, err
			}
			if obs != nil {
				obs.OnMovieDone(l.Name, i+1, len(movies), movies[i], time.Since(mt))
			}
		}
		lists = append(lists, movies)

		if obs != nil {
			obs.OnPhaseDone("listing", map[string]any{
				"name":   l.Name,
				"movies": len(movies),
			}, time.Since(t0))
		}
	}

	t0 = time.Now()
	merged := app.MergeAll(lists...)
	if obs != nil {
		obs.OnPhaseDone("merge", map[string]any{"movies": len(merged)}, time.Since(t0))
	}

	snap := domain.Snapshot{
		SiteRoot:   eff.SiteRoot,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Movies:     merged,
	}
	snap.Finalize()
	return snap, nil
}
