package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/pkg/common"
)

// Extractor HTML -> Recipe 的完整流程
type Extractor struct {
	enricher *Enricher
}

// NewExtractor 建立 Extractor
func NewExtractor(enricher *Enricher) *Extractor {
	return &Extractor{enricher: enricher}
}

// Extract 擷取並標註；name 為空時取頁面標題。
// 內容缺漏產生空的 Recipe，只有 HTML 無法解析才回傳錯誤。
func (x *Extractor) Extract(name, url, rawHTML string) (*recipe.Recipe, error) {
	doc, err := ParseHTML(rawHTML)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = PageTitle(doc)
	}

	ingredients := ExtractIngredients(doc)
	sources := ExtractSteps(doc)
	steps := x.enricher.Enrich(sources, ingredients)

	common.LogInfo("食譜擷取完成",
		zap.String("url", url),
		zap.Int("ingredients", len(ingredients)),
		zap.Int("steps", len(steps)),
	)
	return recipe.New(name, url, ingredients, steps), nil
}

var genericTitles = map[string]bool{
	"":                true,
	"untitled":        true,
	"recipe":          true,
	"foodnetwork.com": true,
	"seriouseats.com": true,
	"allrecipes.com":  true,
}

// PageTitle <title>；空白或泛用標題時改用第一個 <h1>
func PageTitle(doc *goquery.Document) string {
	title := SpacedText(doc.Find("title").First())
	if !genericTitles[strings.ToLower(title)] {
		return title
	}
	if h1 := SpacedText(doc.Find("h1").First()); h1 != "" {
		return h1
	}
	return title
}
