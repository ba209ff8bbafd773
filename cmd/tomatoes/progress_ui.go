package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/John-Robertt/tomatoes/internal/app/run"
	"github.com/John-Robertt/tomatoes/internal/config"
	"github.com/John-Robertt/tomatoes/internal/domain"
)

var _ run.Observer = (*progressUI)(nil)

// progressUI 是交互终端上的抓取进度输出。
//
// 约束：
// - 所有过程信息写到 stderr，不污染 stdout 的表格/JSON 输出
// - 事件驱动：run 层只发事件，CLI 决定如何展示
type progressUI struct {
	w         io.Writer
	startedAt time.Time
	movies    int
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{w: w}
}

func (p *progressUI) OnStart(eff config.EffectiveConfig) {
	p.startedAt = time.Now()

	fmt.Fprintf(p.w, "[%s] tomatoes fetch\n", p.startedAt.Format("15:04:05"))
	fmt.Fprintln(p.w, "配置（生效）:")
	fmt.Fprintf(p.w, "  site_root: %s\n", truncate(eff.SiteRoot, 120))
	for _, l := range eff.Listings {
		fmt.Fprintf(p.w, "  listing %s: %s\n", l.Name, truncate(l.Selector, 120))
	}
	fmt.Fprintf(p.w, "  chunk_size: %d\n", eff.ChunkSize)
	fmt.Fprintf(p.w, "  request_interval: %s\n", formatInterval(eff.RequestInterval))
	fmt.Fprintf(p.w, "  proxy: %s\n", formatProxy(eff.ProxyURL))
	fmt.Fprintln(p.w)
}

func (p *progressUI) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	switch name {
	case "homepage":
		fmt.Fprintf(p.w, "首页: %s (%s)\n", stringField(fields, "url"), formatShortDuration(dur))
	case "listing":
		fmt.Fprintf(p.w, "列表 %s: movies=%d (%s)\n",
			stringField(fields, "name"), intField(fields, "movies"), formatShortDuration(dur),
		)
	case "merge":
		fmt.Fprintf(p.w, "合并: movies=%d enriched=%d elapsed=%s\n",
			intField(fields, "movies"), p.movies, formatShortDuration(time.Since(p.startedAt)),
		)
	default:
		// 兜底：未知阶段也不要静默（便于调试/演进）。
		fmt.Fprintf(p.w, "%s (%s)\n", name, formatShortDuration(dur))
	}
}

func (p *progressUI) OnMovieDone(listing string, idx, total int, m domain.Movie, dur time.Duration) {
	p.movies++
	fmt.Fprintf(p.w, "[%d/%d] %s %s critic=%s audience=%s (%s)\n",
		idx, total, listing, truncate(m.Name, 60), m.Critic, m.Audience, formatShortDuration(dur),
	)
}

func formatProxy(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "off"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "on (" + truncate(raw, 120) + ")"
	}
	auth := "off"
	if u.User != nil {
		auth = "on"
	}
	return fmt.Sprintf("on (%s://%s, auth=%s)", u.Scheme, u.Host, auth)
}

func formatInterval(d time.Duration) string {
	if d <= 0 {
		return "off"
	}
	return d.String()
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func intField(fields map[string]any, key string) int {
	if fields == nil {
		return 0
	}
	switch x := fields[key].(type) {
	case int:
		return x
	case int64:
		return int(x)
	default:
		return 0
	}
}
