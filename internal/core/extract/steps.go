package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var reSentenceEnd = regexp.MustCompile(`[.!?](?:\s+|$)`)

// ExtractSteps 在 "directions" 區段取得步驟句子。
// 有清單時每個 li（優先取其中的 p）分句；否則將區段文字整段分句。
func ExtractSteps(doc *goquery.Document) []string {
	header := FindSectionHeader(doc, keywordDirections)
	elements := SectionElements(doc, header, MaxSectionNodes)
	out := []string{}

	for _, el := range elements {
		name := goquery.NodeName(el)
		if name != "ol" && name != "ul" {
			continue
		}
		el.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			text := SpacedText(li)
			if ps := li.Find("p"); ps.Length() > 0 {
				var parts []string
				ps.Each(func(_ int, p *goquery.Selection) {
					if t := SpacedText(p); t != "" {
						parts = append(parts, t)
					}
				})
				if len(parts) > 0 {
					text = strings.Join(parts, " ")
				}
			}
			out = append(out, SplitSentences(text)...)
		})
		return out
	}

	// 沒有清單：串接標題之後所有頂層文字
	var blocks []string
	for _, el := range elements {
		if isNestedIn(el, elements) {
			continue
		}
		if t := SpacedText(el); t != "" {
			blocks = append(blocks, t)
		}
	}
	return append(out, SplitSentences(strings.Join(blocks, " "))...)
}

// isNestedIn el 的祖先是否也在 elements 中（避免重複取文字）
func isNestedIn(el *goquery.Selection, elements []*goquery.Selection) bool {
	parents := el.Parents()
	for _, other := range elements {
		if other.Nodes[0] == el.Nodes[0] {
			continue
		}
		if parents.IndexOfSelection(other) >= 0 {
			return true
		}
	}
	return false
}

// SplitSentences 依 . ! ? 後接空白或結尾切句，去除空句
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var out []string
	start := 0
	for _, loc := range reSentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[start : loc[0]+1]); s != "" {
			out = append(out, s)
		}
		start = loc[1]
	}
	if start < len(text) {
		if s := strings.TrimSpace(text[start:]); s != "" {
			out = append(out, s)
		}
	}
	return out
}
