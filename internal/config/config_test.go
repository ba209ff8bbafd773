package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEffective_DefaultsWithoutFile(t *testing.T) {
	cwd := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.SiteRoot != DefaultSiteRoot {
		t.Fatalf("期望 site_root=%q，实际=%q", DefaultSiteRoot, eff.SiteRoot)
	}
	if len(eff.Listings) != 2 || eff.Listings[0].Name != "opening" || eff.Listings[1].Name != "top_box_office" {
		t.Fatalf("列表顺序不符合预期：%+v", eff.Listings)
	}
	if eff.ChunkSize != DefaultChunkSize || eff.Timeout != DefaultTimeout || eff.RequestInterval != 0 {
		t.Fatalf("默认值不符合预期：%+v", eff)
	}
	if eff.AudienceXPath != DefaultAudienceXPath || eff.AudienceAttr != DefaultAudienceAttr {
		t.Fatalf("audience 查找默认值不符合预期：%+v", eff)
	}
	if eff.NameWidth != DefaultNameWidth || eff.ChartNameWidth != DefaultChartNameWidth || eff.ChartPath != DefaultChartPath {
		t.Fatalf("渲染默认值不符合预期：%+v", eff)
	}
}

func TestLoadEffective_ConfigNotFound(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{ConfigPath: "missing.yaml"})
	if Code(err) != ErrCodeNotFound {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeNotFound, err, Code(err))
	}
}

func TestLoadEffective_FileValues(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`
site_root: https://example.test/
listings:
  opening: "#a a"
critic_marker: em
chunk_size: 1024
timeout: 5s
request_interval: 250ms
proxy:
  url: http://127.0.0.1:7890
name_width: 30
`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.SiteRoot != "https://example.test" {
		t.Fatalf("期望去掉尾部斜杠，实际=%q", eff.SiteRoot)
	}
	if eff.Listings[0].Selector != "#a a" || eff.Listings[1].Selector != DefaultTopBoxOffice {
		t.Fatalf("列表选择器不符合预期：%+v", eff.Listings)
	}
	if eff.CriticMarker != "em" || eff.ChunkSize != 1024 {
		t.Fatalf("字段不符合预期：%+v", eff)
	}
	if eff.Timeout != 5*time.Second || eff.RequestInterval != 250*time.Millisecond {
		t.Fatalf("时长不符合预期：timeout=%v interval=%v", eff.Timeout, eff.RequestInterval)
	}
	if eff.ProxyURL != "http://127.0.0.1:7890" || eff.NameWidth != 30 {
		t.Fatalf("字段不符合预期：%+v", eff)
	}
}

func TestLoadEffective_CLIOverridesFile(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`
site_root: https://file.test
chunk_size: 1024
proxy:
  url: http://127.0.0.1:7890
chart_path: file.xlsx
`))

	eff, err := LoadEffective(cwd, CLIArgs{
		SiteRoot: "http://cli.test", SiteRootSet: true,
		ChunkSize: 512, ChunkSizeSet: true,
		ProxyURL: "", ProxyURLSet: true, // --proxy= 显式关闭
		ChartPath: "cli.xlsx", ChartPathSet: true,
	})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.SiteRoot != "http://cli.test" || eff.ChunkSize != 512 || eff.ChartPath != "cli.xlsx" {
		t.Fatalf("CLI 覆盖未生效：%+v", eff)
	}
	if eff.ProxyURL != "" {
		t.Fatalf("期望 proxy 被 CLI 清空，实际=%q", eff.ProxyURL)
	}
}

func TestLoadEffective_CLIPath_Relative(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "conf", "custom.yaml"), []byte("chunk_size: 2048\n"))

	eff, err := LoadEffective(cwd, CLIArgs{ConfigPath: filepath.Join("conf", "custom.yaml")})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.ChunkSize != 2048 {
		t.Fatalf("期望 chunk_size=2048，实际=%d", eff.ChunkSize)
	}
}

func TestLoadEffective_Invalid(t *testing.T) {
	cases := map[string]string{
		"yaml":           "site_root: [\n",
		"site_root":      "site_root: ftp://example.test\n",
		"site_root_rel":  "site_root: /relative\n",
		"listing":        "listings:\n  opening: \"a[\"\n",
		"critic_marker":  "critic_marker: \"span[\"\n",
		"audience_xpath": "audience_xpath: \"//meta[\"\n",
		"chunk_small":    "chunk_size: 16\n",
		"chunk_big":      "chunk_size: 4194304\n",
		"timeout":        "timeout: soon\n",
		"timeout_zero":   "timeout: 0s\n",
		"interval":       "request_interval: -1s\n",
		"name_width":     "name_width: 2\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			cwd := t.TempDir()
			writeFile(t, filepath.Join(cwd, FileName), []byte(body))

			_, err := LoadEffective(cwd, CLIArgs{})
			if Code(err) != ErrCodeInvalid {
				t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
			}
		})
	}
}

func TestLoadEffective_CLIChunkSizeValidated(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{ChunkSize: 1, ChunkSizeSet: true})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestCode_NonConfigError(t *testing.T) {
	if got := Code(os.ErrNotExist); got != "" {
		t.Fatalf("期望空 code，实际=%q", got)
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写文件失败：%v", err)
	}
}
