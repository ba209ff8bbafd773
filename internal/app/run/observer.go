package run

import (
	"time"

	"github.com/John-Robertt/tomatoes/internal/config"
	"github.com/John-Robertt/tomatoes/internal/domain"
)

// Observer 用于把“抓取进度/阶段/条目结果”从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - 事件严格按执行顺序在调用方 goroutine 上同步触发。
type Observer interface {
	// OnStart 在任何网络请求之前调用。
	OnStart(eff config.EffectiveConfig)
	// OnPhaseDone 在阶段结束时调用：homepage、每个列表（listing）、merge。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnMovieDone 在一部电影的详情页补全完成后调用（idx 从 1 开始，total 为该列表的条目数）。
	OnMovieDone(listing string, idx, total int, m domain.Movie, dur time.Duration)
}
