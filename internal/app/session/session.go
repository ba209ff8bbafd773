package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/John-Robertt/tomatoes/internal/app"
	"github.com/John-Robertt/tomatoes/internal/domain"
	"github.com/John-Robertt/tomatoes/internal/log"
	"github.com/John-Robertt/tomatoes/internal/render"
)

const menu = "AUDIENCE: Sort by audience ratings, CRITIC: Sort by critic ratings, \n" +
	"ANTICIPATION: Sort by audience anticipation, PLOT: Generate a plot of current data, QUIT: Exit\n"

const prompt = "Your selection: "

// Options 控制展示相关的参数。
type Options struct {
	NameWidth      int
	ChartNameWidth int
	ChartPath      string
}

// ChartFunc 生成图表并返回绘制的电影数量（默认是 render.Chart）。
type ChartFunc func(path string, movies []domain.Movie, nameWidth int) (int, error)

// Session 持有当前的电影列表；每条排序指令都会替换为重新排序后的列表。
type Session struct {
	movies   []domain.Movie
	sortedBy domain.SortKey
	opts     Options
	chart    ChartFunc
}

func New(movies []domain.Movie, opts Options) *Session {
	return &Session{
		movies: append([]domain.Movie(nil), movies...),
		opts:   opts,
		chart:  render.Chart,
	}
}

// Movies 返回当前列表的副本。
func (s *Session) Movies() []domain.Movie { return append([]domain.Movie(nil), s.movies...) }

// SortedBy 返回最近一次排序使用的键（未排序时为空）。
func (s *Session) SortedBy() domain.SortKey { return s.sortedBy }

// Apply 执行一条指令并把结果写到 out。返回 true 表示会话应结束。
//
// 约束：
// - 排序指令替换当前列表，并打印整张表
// - PLOT 只读当前列表，不改变顺序
// - 生成图表失败只提示，不结束会话
func (s *Session) Apply(cmd Command, out io.Writer) (bool, error) {
	if key, ok := cmd.sortKey(); ok {
		s.movies = app.SortBy(s.movies, key)
		s.sortedBy = key
		render.Table(out, s.movies, s.opts.NameWidth)
		return false, nil
	}

	switch cmd {
	case CmdPlot:
		n, err := s.chart(s.opts.ChartPath, s.movies, s.opts.ChartNameWidth)
		switch {
		case errors.Is(err, render.ErrNothingToChart):
			_, werr := fmt.Fprintln(out, "No movies with both critic and audience scores to plot.")
			return false, werr
		case err != nil:
			log.Error().Stack().Err(err).Str("path", s.opts.ChartPath).Msg("chart failed")
			_, werr := fmt.Fprintf(out, "Could not write chart: %v\n", err)
			return false, werr
		}
		log.Info().Str("path", s.opts.ChartPath).Int("movies", n).Msg("chart written")
		_, werr := fmt.Fprintf(out, "Chart of %d movies written to %s\n", n, s.opts.ChartPath)
		return false, werr
	case CmdQuit:
		return true, nil
	default:
		return false, fmt.Errorf("未知指令：%q", cmd)
	}
}

// Run 运行交互循环直到 QUIT、输入结束（EOF）或 ctx 被取消。
// 无效输入只提示并重新询问，不会结束会话。
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := io.WriteString(out, menu+prompt); err != nil {
			return err
		}
		if !sc.Scan() {
			// EOF 等同于 QUIT。
			_, _ = io.WriteString(out, "\n")
			return sc.Err()
		}
		line := sc.Text()
		if _, err := io.WriteString(out, "\n"); err != nil {
			return err
		}

		cmd, ok := ParseCommand(line)
		if !ok {
			log.Debug().Str("input", line).Msg("invalid choice")
			if _, err := io.WriteString(out, "Invalid choice.\n"); err != nil {
				return err
			}
			if hint, ok := Suggest(line); ok {
				if _, err := fmt.Fprintf(out, "Did you mean %s?\n", hint); err != nil {
					return err
				}
			}
		} else {
			quit, err := s.Apply(cmd, out)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
		if _, err := io.WriteString(out, "\n"); err != nil {
			return err
		}
	}
}
