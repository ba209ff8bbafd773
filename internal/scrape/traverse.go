package scrape

import (
	"strings"

	"golang.org/x/net/html"
)

// previousInDocument 返回文档顺序中紧挨在 n 之前的节点：
// 有前一个兄弟时取该兄弟子树的最后一个后代，否则取父节点。
func previousInDocument(n *html.Node) *html.Node {
	if p := n.PrevSibling; p != nil {
		for p.LastChild != nil {
			p = p.LastChild
		}
		return p
	}
	return n.Parent
}

// nearestPreceding 从 n 向前（兄弟子树与祖先）查找第一个满足 match 的元素节点。
// 找不到返回 nil。
func nearestPreceding(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil || match == nil {
		return nil
	}
	for p := previousInDocument(n); p != nil; p = previousInDocument(p) {
		if p.Type == html.ElementNode && match(p) {
			return p
		}
	}
	return nil
}

// nodeText 拼接 n 下所有文本节点。
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(x *html.Node) {
		if x.Type == html.TextNode {
			b.WriteString(x.Data)
			return
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return b.String()
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
