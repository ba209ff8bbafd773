package render

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/John-Robertt/tomatoes/internal/domain"
)

// columnWidth 是每列的最小显示宽度（定宽三列）。
const columnWidth = 25

// Table 以定宽三列输出电影列表：片名（截断到 nameWidth）、影评人分数、观众分数。
func Table(w io.Writer, movies []domain.Movie, nameWidth int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(plainStyle())
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: columnWidth},
		{Number: 2, WidthMin: columnWidth},
		{Number: 3, WidthMin: columnWidth},
	})
	t.AppendHeader(table.Row{"Movie name:", "Critic score:", "Audience score"})
	// 表头与数据之间空一行。
	t.AppendRow(table.Row{"", "", ""})
	for _, m := range movies {
		t.AppendRow(table.Row{Shorten(m.Name, nameWidth), m.Critic.String(), m.Audience.String()})
	}
	t.Render()
}

// plainStyle 去掉边框与分隔线，表头保持原样（go-pretty 默认会转大写）。
func plainStyle() table.Style {
	s := table.StyleDefault
	s.Name = "Plain"
	s.Box.PaddingLeft = ""
	s.Box.PaddingRight = ""
	s.Format.Header = text.FormatDefault
	s.Options = table.Options{}
	return s
}

// Shorten 把超过 n 个字符的名字截断为 n 个字符（以 "..." 结尾）。
func Shorten(name string, n int) string {
	r := []rune(name)
	if len(r) <= n {
		return name
	}
	if n < 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
