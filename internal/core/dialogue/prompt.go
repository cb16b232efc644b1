package dialogue

import (
	"fmt"
	"strings"

	"recipe-assistant/internal/core/recipe"
)

// assistantInstructions 語言模型的系統指示
const assistantInstructions = `
You answer questions about one recipe. The structured recipe follows the "Recipe:" heading and the user's question follows the "User Question:" heading.

Answer from the recipe and keep it short. Only answer what was asked.

When the question is about one step (first, next, current or a numbered step), use only the block under "Current Step:" and never merge several steps into one answer.

Definitions, substitutions and "what if" questions may use general cooking knowledge beyond the recipe. Concrete questions such as "What do I do next?" must come from the recipe.

Never use Markdown. Format with HTML and no newline characters:
<h4 class='chat-header'> for headers, only when the answer is long.
<p> for paragraphs.
<span class='italic'> for emphasis such as preparation notes.
<ul class='ingredient-list'> for unordered lists of ingredients or tools.
<ol class='recipe-list'> for ordered lists such as steps.

A "Question Type:" heading, when present, is the detected intent of the question.
`

var intentDescriptions = map[Intent]string{
	IntentRecipe:                "the whole recipe or all instructions",
	IntentFirstStep:             "the first step",
	IntentNextStep:              "what to do after the current step",
	IntentPreviousStep:          "the step before the current one",
	IntentCurrentStep:           "the current step or what to do now",
	IntentNthStep:               "a specific numbered step such as step 5 or the third step",
	IntentAllIngredients:        "all ingredients of the recipe",
	IntentStepIngredients:       "ingredients used in this step",
	IntentHowMuchIngredient:     "quantity of a specific ingredient",
	IntentReplacementIngredient: "substitutes for an ingredient",
	IntentTime:                  "how long something takes",
	IntentTemperature:           "oven temperature or heat level",
	IntentStepTools:             "tools used in this step",
	IntentAllTools:              "all tools of the recipe",
	IntentStepMethods:           "cooking methods used in this step",
	IntentAllMethods:            "all cooking methods of the recipe",
	IntentClarification:         "definition of a term, ingredient, tool or technique",
	IntentVagueItem:             "\"what is that\" about something mentioned before",
	IntentVagueQuantity:         "\"how much of that\" about an ingredient mentioned before",
	IntentVagueMethod:           "\"how do I do that\" about a method mentioned before",
	IntentYes:                   "an affirmative reply",
	IntentNo:                    "a negative reply",
	IntentRepeat:                "a request to repeat the last answer",
	IntentThanks:                "gratitude",
	IntentNone:                  "anything else",
}

// ClassificationPrompt 請模型只回傳一個分類名稱
func ClassificationPrompt(question string) string {
	var b strings.Builder
	b.WriteString("Classify the question for a recipe assistant. Reply with exactly one category name and nothing else.\n\nCategories:\n")
	for _, in := range AllIntents {
		fmt.Fprintf(&b, "- %s: %s\n", in, intentDescriptions[in])
	}
	b.WriteString("\nQuestions mentioning \"this step\" belong to the step_* categories; questions about the whole recipe belong to the all_* categories.\n")
	fmt.Fprintf(&b, "\nQuestion: %s", question)
	return b.String()
}

// PromptInput 組 prompt 需要的資料
type PromptInput struct {
	Recipe     *recipe.Recipe
	Step       *recipe.Step
	Intent     Intent
	Additional string
	Question   string
}

// BuildPrompt 指示 + 分類 + 食譜全文 + 目前步驟 + 補充說明 + 問題
func BuildPrompt(in PromptInput) string {
	parts := []string{"Instructions:" + assistantInstructions}
	if in.Intent != "" {
		parts = append(parts, "\nQuestion Type: "+string(in.Intent))
	}
	parts = append(parts, "\nRecipe:\n"+FormatRecipeContext(in.Recipe))
	if sc := FormatStepContext(in.Step); sc != "" {
		parts = append(parts, sc)
	}
	if in.Additional != "" {
		parts = append(parts, "\nAdditional Context: "+in.Additional)
	}
	parts = append(parts, "\nUser Question: "+in.Question)
	return strings.Join(parts, "\n")
}

// FormatRecipeContext 食譜的純文字摘要
func FormatRecipeContext(r *recipe.Recipe) string {
	if r == nil {
		return "No recipe is currently loaded."
	}
	var lines []string
	if r.Name() != "" {
		lines = append(lines, "Recipe Name: "+r.Name())
	}
	if r.URL() != "" {
		lines = append(lines, "Recipe URL: "+r.URL())
	}
	if ings := r.Ingredients(); len(ings) > 0 {
		lines = append(lines, "\nINGREDIENTS:")
		for _, ing := range ings {
			lines = append(lines, "  - "+ingredientLine(ing))
		}
	}
	if steps := r.Steps(); len(steps) > 0 {
		lines = append(lines, "\nDIRECTIONS:")
		for _, s := range steps {
			lines = append(lines, fmt.Sprintf("\nStep %d: %s", s.Number, s.Description))
			for _, d := range stepDetails(s) {
				lines = append(lines, "  "+d)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// FormatStepContext 單一步驟的區塊
func FormatStepContext(s *recipe.Step) string {
	if s == nil {
		return ""
	}
	lines := []string{
		fmt.Sprintf("\nCurrent Step: %d", s.Number),
		"Description: " + s.Description,
	}
	lines = append(lines, stepDetails(s)...)
	return strings.Join(lines, "\n")
}

func ingredientLine(ing recipe.Ingredient) string {
	name := ing.DisplayName()
	if name == "" {
		name = "Unknown ingredient"
	}
	if amount := ing.Amount(); amount != "" {
		name += ": " + amount
	}
	if ing.Preparation != "" {
		name += " (" + ing.Preparation + ")"
	}
	return name
}

func stepDetails(s *recipe.Step) []string {
	var out []string
	if len(s.Ingredients) > 0 {
		out = append(out, "Ingredients: "+strings.Join(s.Ingredients, ", "))
	}
	if len(s.Tools) > 0 {
		out = append(out, "Tools: "+strings.Join(s.Tools, ", "))
	}
	if len(s.Methods) > 0 {
		out = append(out, "Methods: "+strings.Join(s.Methods, ", "))
	}
	if s.Time != nil && s.Time.Duration != "" {
		out = append(out, "Time: "+s.Time.Duration)
	}
	if t := temperatureSummary(s.Temperature); t != "" {
		out = append(out, "Temperature: "+t)
	}
	return out
}

func temperatureSummary(t *recipe.TemperatureInfo) string {
	if t == nil {
		return ""
	}
	var parts []string
	if t.Oven != "" {
		parts = append(parts, "Oven: "+t.Oven)
	}
	if t.Stovetop != "" {
		parts = append(parts, "Stovetop: "+t.Stovetop)
	}
	return strings.Join(parts, "; ")
}
