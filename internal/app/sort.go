package app

import (
	"sort"

	"github.com/John-Robertt/tomatoes/internal/domain"
)

// SortBy 返回按 key 排好序的新切片（输入不被修改）。
//
// 排序是稳定的分层：
// 1) “有效”分区：按对应字段降序
// 2) 其余条目：按同一字段的原始值降序（数值 > 原文 > 缺失，原文按字典序）
// 3) 尾部分区（若该 key 有）：同样按字段降序，整体排在最后
// 同值条目保持原有相对顺序。
//
// 各 key 的分区：
// - critic：有效 = 影评人评分是数值；无尾部
// - audience：有效 = 观众评分是数值；尾部 = “想看”标记（含 want 的原文）
// - anticipation：有效 = “想看”标记；尾部 = “喜欢”标记（含 liked 的原文）
func SortBy(movies []domain.Movie, key domain.SortKey) []domain.Movie {
	field := audienceField
	isValid := func(m domain.Movie) bool { return m.Audience.IsNumeric() }
	isTrailing := func(m domain.Movie) bool { return m.Audience.IsAnticipation() }
	switch key {
	case domain.SortCritic:
		field = criticField
		isValid = func(m domain.Movie) bool { return m.Critic.IsNumeric() }
		isTrailing = func(domain.Movie) bool { return false }
	case domain.SortAnticipation:
		isValid = func(m domain.Movie) bool { return m.Audience.IsAnticipation() }
		isTrailing = func(m domain.Movie) bool { return m.Audience.IsLiked() }
	}

	valid := make([]domain.Movie, 0, len(movies))
	rest := make([]domain.Movie, 0, len(movies))
	var trailing []domain.Movie
	for _, m := range movies {
		switch {
		case isValid(m):
			valid = append(valid, m)
		case isTrailing(m):
			trailing = append(trailing, m)
		default:
			rest = append(rest, m)
		}
	}

	desc := func(xs []domain.Movie) {
		sort.SliceStable(xs, func(i, j int) bool {
			return domain.Compare(field(xs[i]), field(xs[j])) > 0
		})
	}
	desc(valid)
	desc(rest)
	desc(trailing)
	out := append(valid, rest...)
	return append(out, trailing...)
}

func criticField(m domain.Movie) domain.Score   { return m.Critic }
func audienceField(m domain.Movie) domain.Score { return m.Audience }

// Chartable 过滤出两项评分都是数值的条目（保持原顺序）。
func Chartable(movies []domain.Movie) []domain.Movie {
	out := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		if m.HasBothNumeric() {
			out = append(out, m)
		}
	}
	return out
}
