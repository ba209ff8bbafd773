package app

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/John-Robertt/tomatoes/internal/domain"
)

// MergeListing 合并两个列表：primary 全部保留（原顺序），secondary 中名字尚未出现的条目依次追加。
//
// 不做字段级合并：同名时 secondary 的整条记录被丢弃（即使它的补全结果不同）。
func MergeListing(primary, secondary []domain.Movie) []domain.Movie {
	byName := orderedmap.New[string, domain.Movie](len(primary) + len(secondary))
	for _, m := range primary {
		// primary 内部理论上已去重；若仍有同名，保留第一条。
		if _, ok := byName.Get(m.Name); ok {
			continue
		}
		byName.Set(m.Name, m)
	}
	for _, m := range secondary {
		if _, ok := byName.Get(m.Name); ok {
			continue
		}
		byName.Set(m.Name, m)
	}

	out := make([]domain.Movie, 0, byName.Len())
	for p := byName.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value)
	}
	return out
}

// MergeAll 依次把多个列表折叠进第一个列表。
func MergeAll(listings ...[]domain.Movie) []domain.Movie {
	var out []domain.Movie
	for i, l := range listings {
		if i == 0 {
			out = MergeListing(l, nil)
			continue
		}
		out = MergeListing(out, l)
	}
	if out == nil {
		out = []domain.Movie{}
	}
	return out
}
