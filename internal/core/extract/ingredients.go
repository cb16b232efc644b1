package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"recipe-assistant/internal/core/parse"
	"recipe-assistant/internal/core/recipe"
)

const (
	attrQuantity = "data-ingredient-quantity"
	attrUnit     = "data-ingredient-unit"
	attrName     = "data-ingredient-name"
)

// ExtractIngredients 在 "ingredients" 區段中收集所有清單項目。
// 找不到區段時回傳空 slice；沒有任何欄位的項目會被捨棄。
func ExtractIngredients(doc *goquery.Document) []recipe.Ingredient {
	header := FindSectionHeader(doc, keywordIngredients)
	out := []recipe.Ingredient{}
	for _, el := range SectionElements(doc, header, MaxSectionNodes) {
		name := goquery.NodeName(el)
		if name != "ul" && name != "ol" {
			continue
		}
		el.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			if ing := parseListItem(li); !ing.IsEmpty() {
				out = append(out, ing)
			}
		})
	}
	return out
}

func parseListItem(li *goquery.Selection) recipe.Ingredient {
	target := li
	if p := li.Find("p").First(); p.Length() > 0 {
		target = p
	}
	if target.Find("span["+attrName+"], span["+attrQuantity+"], span["+attrUnit+"]").Length() > 0 {
		return parseStructured(target)
	}
	return parse.ParseIngredientLine(SpacedText(target))
}

// parseStructured 帶 data-ingredient-* 屬性的項目；其餘文字視為處理方式
func parseStructured(target *goquery.Selection) recipe.Ingredient {
	joined := func(attr string) string {
		var parts []string
		target.Find("span[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
			if t := SpacedText(s); t != "" {
				parts = append(parts, t)
			}
		})
		return strings.Join(parts, " ")
	}

	ing := recipe.Ingredient{
		Quantity:    joined(attrQuantity),
		Measurement: joined(attrUnit),
		Name:        SpacedText(target.Find("span[" + attrName + "]").First()),
	}

	var extra []string
	target.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "span" && hasAnyAttr(c, attrQuantity, attrUnit, attrName) {
			return
		}
		if t := SpacedText(c); t != "" {
			extra = append(extra, t)
		}
	})
	ing.Preparation = strings.TrimLeft(parse.CleanSpace(strings.Join(extra, " ")), ",;: ")
	return ing
}

func hasAnyAttr(s *goquery.Selection, attrs ...string) bool {
	for _, a := range attrs {
		if _, ok := s.Attr(a); ok {
			return true
		}
	}
	return false
}
