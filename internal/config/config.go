package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/xpath"
	"gopkg.in/yaml.v3"
)

const (
	// ErrCodeNotFound 表示显式指定的 --config 文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

// FileName 是工作目录下自动发现的配置文件名。
const FileName = "tomatoes.yaml"

const (
	DefaultSiteRoot       = "http://www.rottentomatoes.com"
	DefaultOpening        = `#homepage-opening-this-week a[href*="/m/"]`
	DefaultTopBoxOffice   = `#homepage-top-box-office a[href*="/m/"]`
	DefaultCriticMarker   = "span"
	DefaultAudienceXPath  = "//meta[@name='twitter:data2']"
	DefaultAudienceAttr   = "content"
	DefaultChunkSize      = 4 * 1024
	DefaultTimeout        = 20 * time.Second
	DefaultNameWidth      = 22
	DefaultChartNameWidth = 10
	DefaultChartPath      = "ratings.xlsx"

	minChunkSize = 256
	maxChunkSize = 1 << 20
)

// CLIArgs 是 CLI 暴露的覆盖项；*Set 记录“是否显式指定”，保证 CLI > 文件 > 默认 的优先级可实现。
type CLIArgs struct {
	ConfigPath string

	SiteRoot    string
	SiteRootSet bool

	ProxyURL    string
	ProxyURLSet bool

	ChunkSize    int
	ChunkSizeSet bool

	ChartPath    string
	ChartPathSet bool
}

// FileConfig 对应 tomatoes.yaml 的解析结构。
type FileConfig struct {
	SiteRoot        string          `yaml:"site_root"`
	Listings        *ListingsConfig `yaml:"listings"`
	CriticMarker    string          `yaml:"critic_marker"`
	AudienceXPath   string          `yaml:"audience_xpath"`
	AudienceAttr    string          `yaml:"audience_attr"`
	ChunkSize       int             `yaml:"chunk_size"`
	Timeout         string          `yaml:"timeout"`
	RequestInterval string          `yaml:"request_interval"`
	Proxy           *ProxyConfig    `yaml:"proxy"`
	NameWidth       int             `yaml:"name_width"`
	ChartNameWidth  int             `yaml:"chart_name_width"`
	ChartPath       string          `yaml:"chart_path"`
}

type ListingsConfig struct {
	Opening      string `yaml:"opening"`
	TopBoxOffice string `yaml:"top_box_office"`
}

type ProxyConfig struct {
	URL string `yaml:"url"`
}

// Listing 是一个已校验的列表区域（名字 + CSS 选择器）。
type Listing struct {
	Name     string
	Selector string
}

// EffectiveConfig 是合并并校验后的最终配置（实现层直接消费）。
type EffectiveConfig struct {
	SiteRoot string
	// Listings 按合并顺序排列：第一个是主列表，其余依次并入。
	Listings []Listing

	CriticMarker  string
	AudienceXPath string
	AudienceAttr  string
	ChunkSize     int

	Timeout         time.Duration
	RequestInterval time.Duration
	ProxyURL        string

	NameWidth      int
	ChartNameWidth int
	ChartPath      string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 发现并读取配置文件，然后与 CLI 参数合并。
//
// 发现规则：
// 1) CLI 指定 --config：必须存在
// 2) 否则尝试 <cwd>/tomatoes.yaml（可选，不存在就全用默认值）
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	var cfgPath string
	required := false
	if p := strings.TrimSpace(cli.ConfigPath); p != "" {
		cfgPath = p
		if !filepath.IsAbs(cfgPath) {
			cfgPath = filepath.Join(cwd, cfgPath)
		}
		required = true
	} else {
		cfgPath = filepath.Join(cwd, FileName)
	}

	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if required && !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	}
	return merge(cli, fc, cfgPath)
}

func merge(cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	invalid := func(format string, args ...any) error {
		return &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf(format, args...)}
	}

	siteRoot := pick(cli.SiteRootSet, cli.SiteRoot, fc.SiteRoot, DefaultSiteRoot)
	siteRoot = strings.TrimRight(siteRoot, "/")
	u, err := url.Parse(siteRoot)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return EffectiveConfig{}, invalid("site_root 必须是 http/https 绝对地址：%q", siteRoot)
	}

	opening, top := DefaultOpening, DefaultTopBoxOffice
	if fc.Listings != nil {
		opening = orDefault(fc.Listings.Opening, opening)
		top = orDefault(fc.Listings.TopBoxOffice, top)
	}
	listings := []Listing{
		{Name: "opening", Selector: opening},
		{Name: "top_box_office", Selector: top},
	}
	for _, l := range listings {
		if _, err := cascadia.Compile(l.Selector); err != nil {
			return EffectiveConfig{}, invalid("listings.%s 选择器无效：%v", l.Name, err)
		}
	}

	marker := orDefault(fc.CriticMarker, DefaultCriticMarker)
	if _, err := cascadia.Compile(marker); err != nil {
		return EffectiveConfig{}, invalid("critic_marker 选择器无效：%v", err)
	}

	audienceXPath := orDefault(fc.AudienceXPath, DefaultAudienceXPath)
	if _, err := xpath.Compile(audienceXPath); err != nil {
		return EffectiveConfig{}, invalid("audience_xpath 无效：%v", err)
	}

	chunk := fc.ChunkSize
	if cli.ChunkSizeSet {
		chunk = cli.ChunkSize
	}
	if chunk == 0 {
		chunk = DefaultChunkSize
	}
	if chunk < minChunkSize || chunk > maxChunkSize {
		return EffectiveConfig{}, invalid("chunk_size 必须在 [%d, %d] 之间，实际是 %d", minChunkSize, maxChunkSize, chunk)
	}

	timeout, err := parseDuration(fc.Timeout, DefaultTimeout)
	if err != nil || timeout <= 0 {
		return EffectiveConfig{}, invalid("timeout 无效：%q", fc.Timeout)
	}
	interval, err := parseDuration(fc.RequestInterval, 0)
	if err != nil || interval < 0 {
		return EffectiveConfig{}, invalid("request_interval 无效：%q", fc.RequestInterval)
	}

	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	if cli.ProxyURLSet {
		proxyURL = strings.TrimSpace(cli.ProxyURL)
	}
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return EffectiveConfig{}, invalid("proxy.url 无效：%v", err)
		}
	}

	nameWidth := fc.NameWidth
	if nameWidth == 0 {
		nameWidth = DefaultNameWidth
	}
	chartNameWidth := fc.ChartNameWidth
	if chartNameWidth == 0 {
		chartNameWidth = DefaultChartNameWidth
	}
	// 截断后要保留 "..."，宽度至少为 4。
	if nameWidth < 4 || chartNameWidth < 4 {
		return EffectiveConfig{}, invalid("name_width/chart_name_width 不能小于 4")
	}

	return EffectiveConfig{
		SiteRoot:        siteRoot,
		Listings:        listings,
		CriticMarker:    marker,
		AudienceXPath:   audienceXPath,
		AudienceAttr:    orDefault(fc.AudienceAttr, DefaultAudienceAttr),
		ChunkSize:       chunk,
		Timeout:         timeout,
		RequestInterval: interval,
		ProxyURL:        proxyURL,
		NameWidth:       nameWidth,
		ChartNameWidth:  chartNameWidth,
		ChartPath:       pick(cli.ChartPathSet, cli.ChartPath, fc.ChartPath, DefaultChartPath),
	}, nil
}

// pick 实现 CLI > 文件 > 默认。
func pick(cliSet bool, cliVal, fileVal, def string) string {
	if cliSet && strings.TrimSpace(cliVal) != "" {
		return strings.TrimSpace(cliVal)
	}
	return orDefault(fileVal, def)
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

// readFileConfig 读取并解析 YAML 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
