package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/tomatoes/internal/app"
	"github.com/John-Robertt/tomatoes/internal/app/run"
	"github.com/John-Robertt/tomatoes/internal/app/session"
	"github.com/John-Robertt/tomatoes/internal/config"
	"github.com/John-Robertt/tomatoes/internal/domain"
	"github.com/John-Robertt/tomatoes/internal/infra/fsx"
	"github.com/John-Robertt/tomatoes/internal/log"
	"github.com/John-Robertt/tomatoes/internal/render"
)

// version 在发布构建时通过 -ldflags "-X main.version=..." 注入。
var version = "dev"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// usageError 标记参数/配置错误（退出码 2）。
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type globalFlags struct {
	configPath string
	site       string
	proxy      string
	chunkSize  int
	chartPath  string
	verbose    bool
	logFormat  string
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ue usageError
	if errors.As(err, &ue) {
		if code := config.Code(err); code != "" {
			fmt.Fprintf(stderr, "配置错误（error_code=%s）：%v\n", code, err)
		} else {
			fmt.Fprintf(stderr, "参数错误：%v\n", err)
		}
		return exitUsage
	}
	log.Error().Stack().Err(err).Msg("run failed")
	return exitFailure
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "tomatoes",
		Short:         "抓取首页的电影列表与评分，并在交互界面中排序/绘图",
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch g.logFormat {
			case "json", "console":
			default:
				return usageError{fmt.Errorf("--log-format 只能是 json 或 console，实际是 %q", g.logFormat)}
			}
			log.Setup(stderr, g.verbose, g.logFormat == "console")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return interactive(cmd, g, stdin, stdout, stderr)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "配置文件路径（指定后必须存在；默认尝试 ./"+config.FileName+"）")
	pf.StringVar(&g.site, "site", "", "站点根地址（覆盖 site_root）")
	pf.StringVar(&g.proxy, "proxy", "", "HTTP 代理地址（覆盖 proxy.url；--proxy= 关闭代理）")
	pf.IntVar(&g.chunkSize, "chunk-size", 0, "详情页分块读取大小（字节）")
	pf.StringVar(&g.chartPath, "chart", "", "PLOT 输出的 .xlsx 路径（覆盖 chart_path）")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "输出 debug 日志")
	pf.StringVar(&g.logFormat, "log-format", "json", "日志格式：json|console")

	root.AddCommand(newFetchCmd(g, stdout, stderr), newVersionCmd(stdout))
	return root
}

func newFetchCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var sortBy string
	var withChart bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "抓取一次并输出快照（stdout 是终端时输出表格，否则输出 JSON）",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var key domain.SortKey
			if sortBy != "" {
				k, err := domain.ParseSortKey(sortBy)
				if err != nil {
					return usageError{err}
				}
				key = k
			}

			eff, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			snap, err := scrapeAll(cmd.Context(), eff, stderr)
			if err != nil {
				return err
			}
			if key != "" {
				snap.Movies = app.SortBy(snap.Movies, key)
				snap.SortedBy = key
			}
			if withChart {
				n, err := render.Chart(eff.ChartPath, snap.Movies, eff.ChartNameWidth)
				switch {
				case errors.Is(err, render.ErrNothingToChart):
					log.Warn().Msg("no chartable movies, chart skipped")
				case fsx.IsPathTypeConflict(err):
					// chart_path 指向目录等非普通文件，属于配置问题。
					return usageError{err}
				case err != nil:
					return err
				default:
					log.Info().Str("path", eff.ChartPath).Int("movies", n).Msg("chart written")
				}
			}
			return emitSnapshot(stdout, snap, eff.NameWidth)
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "", "排序键：critic|audience|anticipation（默认保持合并顺序）")
	cmd.Flags().BoolVar(&withChart, "with-chart", false, "同时把成对柱状图写入 chart_path")
	return cmd
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本号",
		Args:  noArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(stdout, "tomatoes %s\n", version)
		},
	}
}

func interactive(cmd *cobra.Command, g *globalFlags, stdin io.Reader, stdout, stderr io.Writer) error {
	eff, err := loadConfig(cmd, g)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "\nFetching data...")
	snap, err := scrapeAll(cmd.Context(), eff, stderr)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Data loaded\n\n")

	s := session.New(snap.Movies, session.Options{
		NameWidth:      eff.NameWidth,
		ChartNameWidth: eff.ChartNameWidth,
		ChartPath:      eff.ChartPath,
	})
	if err := s.Run(cmd.Context(), stdin, stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Debug().Str("sorted_by", string(s.SortedBy())).Int("movies", len(s.Movies())).Msg("session ended")
	return nil
}

func loadConfig(cmd *cobra.Command, g *globalFlags) (config.EffectiveConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.EffectiveConfig{}, err
	}
	f := cmd.Flags()
	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		ConfigPath:   g.configPath,
		SiteRoot:     g.site,
		SiteRootSet:  f.Changed("site"),
		ProxyURL:     g.proxy,
		ProxyURLSet:  f.Changed("proxy"),
		ChunkSize:    g.chunkSize,
		ChunkSizeSet: f.Changed("chunk-size"),
		ChartPath:    g.chartPath,
		ChartPathSet: f.Changed("chart"),
	})
	if err != nil {
		return config.EffectiveConfig{}, usageError{err}
	}
	log.Debug().Str("site_root", eff.SiteRoot).Int("chunk_size", eff.ChunkSize).Msg("config loaded")
	return eff, nil
}

func scrapeAll(ctx context.Context, eff config.EffectiveConfig, stderr io.Writer) (domain.Snapshot, error) {
	s, err := run.NewScraper(eff)
	if err != nil {
		return domain.Snapshot{}, usageError{err}
	}

	var obs run.Observer
	if isTTY(stderr) {
		obs = newProgressUI(stderr)
	}
	return run.ExecuteWithObserver(ctx, eff, s, obs)
}

// emitSnapshot：stdout 是终端时输出表格；否则 stdout 必须且仅输出一个 Snapshot JSON。
func emitSnapshot(stdout io.Writer, snap domain.Snapshot, nameWidth int) error {
	if isTTY(stdout) {
		render.Table(stdout, snap.Movies, nameWidth)
		return nil
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err}
	}
	return nil
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
