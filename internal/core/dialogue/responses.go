package dialogue

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"recipe-assistant/internal/core/parse"
	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/pkg/common"
)

// 固定回覆
const (
	msgRecipeComplete    = "Congratulations! You've completed the recipe."
	msgRecipeBeginning   = "You're at the beginning of the recipe. Onwards!"
	msgNoSteps           = "This recipe doesn't have any steps."
	msgIngredientsOffer  = "\n<p>Would you like to know about the ingredients used in this step?</p>"
	msgNo                = "Alright. What else would you like to know?"
	msgYesWithoutContext = "I'm sorry, I'm not sure what you're responding to."
	msgNothingToRepeat   = "I don't have anything to repeat."
	msgThanks            = "You're welcome! What other questions do you have?"
	msgUnknown           = "I'm sorry, I don't know the answer to that question."
	msgUnknownReference  = "I'm not sure what you're referring to."
	msgNoDefinition      = "I wasn't able to find a definition for that myself. Use the resources below to find more information."
	msgNoSubject         = "I'm sorry, I'm not sure what you're referring to."
	msgNoTime            = "I couldn't find an explicit time for this step."
	msgNoTemperature     = "This step does not specify a temperature."
	msgUnknownIngredient = "I'm not sure which ingredient you're asking about. Try asking something like 'How much salt do I need?'."
	msgUnknownReplace    = "I'm not sure which ingredient you want to replace."
)

const (
	googleSearchURL  = "https://www.google.com/search?q="
	youtubeSearchURL = "https://www.youtube.com/results?search_query="
)

var (
	suggestStep = common.NewSuggestions(
		"What are the methods?", "What methods are used in this step?",
		"What ingredients do I need?", "What ingredients do I need in this step?",
		"What do I do next?", "What do I do next?",
	)
	suggestRecipe = common.NewSuggestions(
		"What ingredients do I need?", "What ingredients do I need in the whole recipe?",
		"What tools should I use?", "What tools should I use in the whole recipe?",
		"What do I do first?", "What do I do first?",
	)
	suggestStepMethods = common.NewSuggestions(
		"What ingredients do I need?", "What ingredients do I need in this step?",
		"What tools should I use?", "What tools should I use in this step?",
		"What do I do next?", "What do I do next?",
	)
	suggestAllMethods = common.NewSuggestions(
		"What ingredients are in this recipe?", "What ingredients does this recipe have?",
		"What tools do I need?", "What tools do I need for this recipe?",
		"What do I do next?", "What do I do next?",
	)
	suggestIngredients = common.NewSuggestions(
		"What methods should I use?", "What methods should I use in this step?",
		"How long will this step take?", "How long will this step take?",
		"What do I do next?", "What do I do next?",
	)
	suggestStepTools = common.NewSuggestions(
		"What ingredients do I need?", "What ingredients do I need in this step?",
		"How long will this step take?", "How long will this step take?",
		"What do I do next?", "What do I do next?",
	)
	suggestAllTools = common.NewSuggestions(
		"What ingredients does this recipe need?", "What ingredients for the whole recipe?",
		"What do I do next?", "What do I do next?",
	)
	suggestNo = common.NewSuggestions(
		"What do I do now?", "What do I do now?",
		"Ingredients this step.", "What ingredients do I need this step?",
	)
)

// searchSuggestions Google 與 YouTube 搜尋連結
func searchSuggestions(term string) common.Suggestions {
	q := url.QueryEscape(strings.TrimSpace(term))
	return common.NewSuggestions(
		"Google", googleSearchURL+q,
		"YouTube", youtubeSearchURL+q,
	)
}

func paragraph(text string) string {
	return "<p>" + text + "</p>"
}

// StepAnswer 步驟標題與描述；有食材時附上詢問
func StepAnswer(s *recipe.Step) (string, bool) {
	text := fmt.Sprintf("<h4 class='chat-header'>Step %d:</h4><p>%s</p>", s.Number, html.EscapeString(s.Description))
	if len(s.Ingredients) > 0 {
		return text + msgIngredientsOffer, true
	}
	return text, false
}

// FullRecipeAnswer 食譜名稱與全部步驟
func FullRecipeAnswer(r *recipe.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h4 class='chat-header'>Full Recipe:</h4><span class='italic'>%s</span>\n<ol class='recipe-list'>", html.EscapeString(r.Name()))
	for _, s := range r.Steps() {
		b.WriteString("<li>" + html.EscapeString(s.Description) + "</li>")
	}
	b.WriteString("</ol>")
	return b.String()
}

// AllIngredientsAnswer 完整食材清單
func AllIngredientsAnswer(ings []recipe.Ingredient) string {
	var b strings.Builder
	b.WriteString(`<h4 class="chat-header">Ingredients in the recipe:</h4><ul class="ingredient-list">`)
	for _, ing := range ings {
		name := ing.DisplayName()
		if name == "" {
			continue
		}
		b.WriteString("<li>" + html.EscapeString(capitalize(name)) + ":")
		if amount := ing.Amount(); amount != "" {
			b.WriteString(" " + html.EscapeString(amount))
		}
		if ing.Preparation != "" {
			b.WriteString(" <span>(" + html.EscapeString(ing.Preparation) + ")</span>")
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

// StepIngredientsAnswer 步驟用到的食材名稱
func StepIngredientsAnswer(s *recipe.Step) string {
	if s == nil || len(s.Ingredients) == 0 {
		return "There are no ingredients for this step."
	}
	return `<h4 class="chat-header">Ingredients used in this step:</h4>` + paragraph(html.EscapeString(strings.Join(s.Ingredients, ", ")))
}

// StepMethodsAnswer 目前步驟的方法
func StepMethodsAnswer(s *recipe.Step) string {
	if s == nil || len(s.Methods) == 0 {
		return paragraph("There are no methods for this step.")
	}
	return paragraph("Methods used in this step: " + escapeJoin(s.Methods))
}

// AllMethodsAnswer 逐步列出方法
func AllMethodsAnswer(r *recipe.Recipe) string {
	var b strings.Builder
	for _, s := range r.Steps() {
		if len(s.Methods) == 0 {
			fmt.Fprintf(&b, "<p>There are no methods in step %d.</p>", s.Number)
			continue
		}
		fmt.Fprintf(&b, "<p>Methods used in step %d: %s</p>", s.Number, escapeJoin(s.Methods))
	}
	return b.String()
}

// StepToolsAnswer 目前步驟的工具
func StepToolsAnswer(s *recipe.Step) string {
	if s == nil || len(s.Tools) == 0 {
		return paragraph("There are no tools used in this step.")
	}
	return paragraph("Tools used in this step: " + escapeJoin(s.Tools))
}

// AllToolsAnswer 逐步列出工具
func AllToolsAnswer(r *recipe.Recipe) string {
	var b strings.Builder
	for _, s := range r.Steps() {
		if len(s.Tools) == 0 {
			fmt.Fprintf(&b, "<p>There are no tools used in step %d.</p>", s.Number)
			continue
		}
		fmt.Fprintf(&b, "<p>Tools used in step %d: %s</p>", s.Number, escapeJoin(s.Tools))
	}
	return b.String()
}

// TimeAnswer 依步驟的時間欄位描述
func TimeAnswer(s *recipe.Step) string {
	if s == nil || s.Time == nil {
		return msgNoTime
	}
	t := s.Time
	switch {
	case t.HasNumeric() && t.MinSeconds == t.MaxSeconds:
		return fmt.Sprintf("This step takes about %s.", parse.FormatDuration(t.MinSeconds))
	case t.HasNumeric():
		return fmt.Sprintf("This step takes about %s–%s.", parse.FormatDuration(t.MinSeconds), parse.FormatDuration(t.MaxSeconds))
	case t.Duration != "":
		return fmt.Sprintf("This step takes %s.", html.EscapeString(t.Duration))
	case len(t.Qualitative) > 0:
		return html.EscapeString(strings.Join(t.Qualitative, " / "))
	}
	return msgNoTime
}

// TemperatureAnswer 烤箱與爐火設定；沒有時取第一個描述
func TemperatureAnswer(s *recipe.Step) string {
	if s == nil || s.Temperature == nil {
		return msgNoTemperature
	}
	if summary := temperatureSummary(s.Temperature); summary != "" {
		return html.EscapeString(summary)
	}
	if len(s.Temperature.Mentions) > 0 {
		m := s.Temperature.Mentions[0]
		if m.Qualitative != "" {
			return html.EscapeString(m.Qualitative)
		}
		if m.Text != "" {
			return html.EscapeString(m.Text)
		}
	}
	return msgNoTemperature
}

// QuantityAnswer 食材用量
func QuantityAnswer(ing *recipe.Ingredient) string {
	if ing == nil {
		return msgUnknownIngredient
	}
	display := html.EscapeString(ing.DisplayName())
	if display == "" {
		display = "this ingredient"
	}
	if amount := ing.Amount(); amount != "" {
		return fmt.Sprintf("You need %s of %s.", html.EscapeString(amount), display)
	}
	if ing.Preparation != "" {
		return fmt.Sprintf("The recipe does not specify an exact amount for %s, but it says: %s.", display, html.EscapeString(ing.Preparation))
	}
	return fmt.Sprintf("The recipe does not specify an exact amount for %s.", display)
}

// SubstitutesAnswer 替代品清單
func SubstitutesAnswer(ingredient string, subs []string) string {
	plural := "s"
	if len(subs) == 1 {
		plural = ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Found %d possible substitute%s for %s:</p><ul>", len(subs), plural, html.EscapeString(ingredient))
	for _, s := range subs {
		b.WriteString("<li>" + html.EscapeString(s) + "</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

// NoSubstitutesAnswer 查無替代品時改給搜尋連結
func NoSubstitutesAnswer(ingredient string) string {
	link := googleSearchURL + url.QueryEscape("substitute for "+ingredient)
	return fmt.Sprintf("<p>I'm not sure about good substitutes for %s. You can check some ideas <span class='hyperlink'><a href='%s' target='_blank' rel='noopener noreferrer'>here</a></span>.</p>",
		html.EscapeString(ingredient), link)
}

// DefinitionAnswer 字典定義
func DefinitionAnswer(subject, definition string) string {
	return fmt.Sprintf("%s: %s. You might find more useful information below!",
		html.EscapeString(subject), html.EscapeString(strings.TrimRight(strings.TrimSpace(definition), ".")))
}

// ambiguousAnswer 候選超過一個時請使用者再具體一點
func ambiguousAnswer(kind string, candidates []string) string {
	return fmt.Sprintf("I'm not sure which of these %s you're referring to: %s.\nPlease ask again and be more specific.", kind, escapeJoin(candidates))
}

// StepNotFoundAnswer 步驟編號超出範圍
func StepNotFoundAnswer(total int) string {
	return fmt.Sprintf("That step doesn't exist. This recipe has %d steps.", total)
}

func escapeJoin(items []string) string {
	escaped := make([]string, len(items))
	for i, it := range items {
		escaped[i] = html.EscapeString(it)
	}
	return strings.Join(escaped, ", ")
}

func capitalize(s string) string {
	if len(s) <= 1 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
