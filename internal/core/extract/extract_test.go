package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/core/vocab"
)

// fakeTagger 以空白分詞，詞性查表，未知詞視為 NN
type fakeTagger struct {
	tags map[string]string
}

func (f fakeTagger) Sentences(text string) ([]string, error) {
	return SplitSentences(text), nil
}

func (f fakeTagger) Tag(sentence string) ([]Token, error) {
	words, _ := f.Tokenize(sentence)
	out := make([]Token, 0, len(words))
	for _, w := range words {
		tag, ok := f.tags[strings.ToLower(w)]
		if !ok {
			tag = "NN"
		}
		out = append(out, Token{Text: w, Tag: tag})
	}
	return out, nil
}

func (f fakeTagger) Tokenize(text string) ([]string, error) {
	var out []string
	for _, w := range strings.Fields(text) {
		if w = strings.Trim(w, ".,;:!?"); w != "" {
			out = append(out, w)
		}
	}
	return out, nil
}

var testTags = map[string]string{
	"the": "DT", "a": "DT", "in": "IN", "to": "TO", "and": "CC", "until": "IN",
	"large": "JJ", "golden": "JJ", "for": "IN", "with": "IN", "over": "IN",
	"bake": "VB", "stir": "VB", "whisk": "VB", "combining": "VBG", "sifted": "VBN",
	"preheat": "NNP", "20": "CD", "minutes": "NNS", "medium": "JJ", "heat": "NN",
}

func newTestEnricher() *Enricher {
	return NewEnricher(vocab.Default(), fakeTagger{tags: testTags}, nil)
}

const twoByTwoHTML = `<html><head><title>Simple Pancakes</title></head><body>
<h2>Ingredients</h2>
<ul>
  <li>2 cups flour</li>
  <li>1 cup milk</li>
</ul>
<h2>Directions</h2>
<ol>
  <li>Whisk the flour and milk in a large bowl.</li>
  <li>Cook over medium heat.</li>
</ol>
</body></html>`

func TestEndToEnd_TwoIngredientsTwoSteps(t *testing.T) {
	doc, err := ParseHTML(twoByTwoHTML)
	require.NoError(t, err)

	ingredients := ExtractIngredients(doc)
	require.Len(t, ingredients, 2)
	assert.Equal(t, recipe.Ingredient{Quantity: "2", Measurement: "cups", Name: "flour"}, ingredients[0])
	assert.Equal(t, "milk", ingredients[1].Name)

	sources := ExtractSteps(doc)
	require.Len(t, sources, 2)

	steps := newTestEnricher().Enrich(sources, ingredients)
	r := recipe.New("Simple Pancakes", "https://www.allrecipes.com/x", ingredients, steps)
	require.NotNil(t, r.FirstStep())
	assert.Equal(t, 1, r.FirstStep().Number)
	assert.Equal(t, 2, r.Steps()[1].Number)

	first := r.FirstStep()
	assert.Equal(t, []string{"flour", "milk"}, first.Ingredients)
	assert.Equal(t, []string{"bowl"}, first.Tools)
	assert.Contains(t, first.Methods, "whisk")

	second := r.Steps()[1]
	require.NotNil(t, second.Temperature)
	assert.Equal(t, "medium heat", second.Temperature.Stovetop)
}

func TestExtractor_Extract(t *testing.T) {
	r, err := NewExtractor(newTestEnricher()).Extract("", "https://www.allrecipes.com/x", twoByTwoHTML)
	require.NoError(t, err)
	assert.Equal(t, "Simple Pancakes", r.Name())
	assert.Equal(t, 2, r.Len())
	assert.Len(t, r.Ingredients(), 2)
}

func TestExtractor_EmptyPage(t *testing.T) {
	r, err := NewExtractor(newTestEnricher()).Extract("x", "", "<html><body><p>nothing here</p></body></html>")
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Ingredients())
	assert.Nil(t, r.FirstStep())
}

func TestExtractIngredients_Structured(t *testing.T) {
	page := `<h2><span>Ingredients</span></h2>
<ul class="mm-recipes-structured-ingredients__list">
  <li><p><span data-ingredient-quantity="true">1 ½</span> <span data-ingredient-unit="true">cups</span> <span data-ingredient-name="true">chicken broth</span>, warmed</p></li>
  <li><p><span data-ingredient-name="true">salt</span></p></li>
  <li><p> </p></li>
</ul>
<h3>Nutrition</h3>
<ul><li>100 calories</li></ul>`
	doc, err := ParseHTML(page)
	require.NoError(t, err)

	got := ExtractIngredients(doc)
	require.Len(t, got, 2, "empty item discarded and section stops at next heading")
	assert.Equal(t, recipe.Ingredient{Quantity: "1 ½", Measurement: "cups", Name: "chicken broth", Preparation: "warmed"}, got[0])
	assert.Equal(t, recipe.Ingredient{Name: "salt"}, got[1])
}

func TestExtractIngredients_NoSection(t *testing.T) {
	doc, err := ParseHTML(`<h2>Story</h2><ul><li>1 cup sugar</li></ul>`)
	require.NoError(t, err)
	assert.Empty(t, ExtractIngredients(doc))
	assert.NotNil(t, ExtractIngredients(doc))
}

func TestExtractSteps_MultiSentenceItems(t *testing.T) {
	page := `<h2>Directions</h2><ol>
<li><p>Preheat oven to 350°F. Grease a pan!</p></li>
<li>Bake 20 minutes. Let cool?</li>
</ol>`
	doc, err := ParseHTML(page)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Preheat oven to 350°F.", "Grease a pan!", "Bake 20 minutes.", "Let cool?",
	}, ExtractSteps(doc))
}

func TestExtractSteps_TextFallback(t *testing.T) {
	page := `<div><h3>Directions</h3>
<div><p>Mix everything. Pour into a dish.</p><p>Bake 1 hour.</p></div>
<h3>Notes</h3><p>Ignored.</p></div>`
	doc, err := ParseHTML(page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mix everything.", "Pour into a dish.", "Bake 1 hour."}, ExtractSteps(doc))
}

func TestSplitSentences(t *testing.T) {
	assert.Equal(t, []string{"Add 1.5 cups.", "Stir"}, SplitSentences("Add 1.5 cups.  Stir"))
	assert.Nil(t, SplitSentences("   "))
}

func TestEnrich_TemperatureInheritanceAcrossSteps(t *testing.T) {
	steps := newTestEnricher().Enrich([]string{
		"Preheat the oven to 375°F.",
		"Stir the batter.",
		"Bake until golden.",
	}, nil)
	require.Len(t, steps, 3)
	assert.Equal(t, "375 F", steps[0].Temperature.Oven)
	assert.Nil(t, steps[1].Temperature)
	require.NotNil(t, steps[2].Temperature)
	assert.Equal(t, "375 F", steps[2].Temperature.Oven)

	assert.Equal(t, []string{"oven"}, steps[0].Tools)
	assert.Contains(t, steps[0].Methods, "preheat", "mis-tagged imperative caught by clause scan")
	assert.NotNil(t, steps[2].Time)
}

func TestEnricher_BestMethod(t *testing.T) {
	e := newTestEnricher()
	tests := map[string]string{
		"bake":       "bake",
		"preheating": "preheat",
		"stirring":   "stir",
	}
	for in, want := range tests {
		got, ok := e.bestMethod(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := e.bestMethod("xy")
	assert.False(t, ok)
}

func TestMatchIngredients_SubstringInListOrder(t *testing.T) {
	ings := []recipe.Ingredient{{Name: "butter"}, {Name: "flour"}, {Quantity: "2"}, {Name: "salt"}}
	assert.Equal(t, []string{"butter", "flour"}, MatchIngredients("Cream the flour with butter.", ings))
	assert.Empty(t, MatchIngredients("Serve.", ings))
}

func TestPageTitle(t *testing.T) {
	doc, err := ParseHTML(`<title>Recipe</title><h1>Chicken Pot Pie</h1>`)
	require.NoError(t, err)
	assert.Equal(t, "Chicken Pot Pie", PageTitle(doc))

	doc, err = ParseHTML(`<title> Best Chili </title><h1>Other</h1>`)
	require.NoError(t, err)
	assert.Equal(t, "Best Chili", PageTitle(doc))
}

func TestProseTagger_Tools(t *testing.T) {
	e := NewEnricher(vocab.Default(), NewProseTagger(), nil)
	assert.Contains(t, e.Tools("Whisk the eggs in a large bowl."), "bowl")
	assert.Contains(t, e.Methods("Whisk the eggs in a large bowl."), "whisk")
}
