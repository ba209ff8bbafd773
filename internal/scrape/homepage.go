package scrape

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Listing 是首页上的一个列表区域（例如“本周上映”）。
type Listing struct {
	Name     string
	Selector cascadia.Selector
}

// CompileListing 编译列表区域的 CSS 选择器。
func CompileListing(name, selector string) (Listing, error) {
	sel, err := cascadia.Compile(strings.TrimSpace(selector))
	if err != nil {
		return Listing{}, err
	}
	return Listing{Name: name, Selector: sel}, nil
}

// ParseDocument 把首页 HTML 解析为 goquery 文档。
func ParseDocument(b []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(b))
}
