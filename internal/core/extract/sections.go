// Package extract 從食譜頁面 HTML 擷取食材與步驟，並補上步驟的工具、方法、時間與溫度。
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"recipe-assistant/internal/core/parse"
)

// MaxSectionNodes 從標題往後最多走訪的元素數
const MaxSectionNodes = 1000

const (
	keywordIngredients = "ingredients"
	keywordDirections  = "directions"
)

// ParseHTML 解析 HTML；只有讀取失敗才回傳錯誤
func ParseHTML(raw string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// FindSectionHeader 文件順序中第一個文字（或其內的 span）包含 keyword 的 h2/h3
func FindSectionHeader(doc *goquery.Document, keyword string) *goquery.Selection {
	keyword = strings.ToLower(keyword)
	var header *goquery.Selection
	doc.Find("h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(s.Text()), keyword) ||
			strings.Contains(strings.ToLower(s.Find("span").First().Text()), keyword) {
			header = s
			return false
		}
		return true
	})
	return header
}

// SectionElements 標題之後依文件順序的元素，遇到下一個 h2/h3 停止
func SectionElements(doc *goquery.Document, header *goquery.Selection, limit int) []*goquery.Selection {
	if header == nil || header.Length() == 0 {
		return nil
	}
	all := doc.Find("*")
	idx := all.IndexOfSelection(header)
	if idx < 0 {
		return nil
	}

	var out []*goquery.Selection
	for i := idx + 1; i < all.Length() && len(out) < limit; i++ {
		el := all.Eq(i)
		if isHeading(el) {
			break
		}
		out = append(out, el)
	}
	return out
}

func isHeading(s *goquery.Selection) bool {
	name := goquery.NodeName(s)
	return name == "h2" || name == "h3"
}

// SpacedText 以空白串接每段去頭尾的文字節點，再壓縮空白
func SpacedText(s *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return parse.CleanSpace(strings.Join(parts, " "))
}
