// Package dialogue 問題分類、對話狀態機與對話紀錄
package dialogue

// Intent 問題分類結果
type Intent string

const (
	IntentRecipe                Intent = "recipe"
	IntentFirstStep             Intent = "first_step"
	IntentNextStep              Intent = "next_step"
	IntentPreviousStep          Intent = "previous_step"
	IntentCurrentStep           Intent = "current_step"
	IntentNthStep               Intent = "nth_step"
	IntentAllIngredients        Intent = "all_ingredients"
	IntentStepIngredients       Intent = "step_ingredients"
	IntentHowMuchIngredient     Intent = "how_much_ingredient"
	IntentReplacementIngredient Intent = "replacement_ingredient"
	IntentTime                  Intent = "time"
	IntentTemperature           Intent = "temperature"
	IntentStepTools             Intent = "step_tools"
	IntentAllTools              Intent = "all_tools"
	IntentStepMethods           Intent = "step_methods"
	IntentAllMethods            Intent = "all_methods"
	IntentClarification         Intent = "clarification_specific"
	IntentVagueItem             Intent = "vague_item"
	IntentVagueQuantity         Intent = "vague_quantity"
	IntentVagueMethod           Intent = "vague_method"
	IntentYes                   Intent = "yes"
	IntentNo                    Intent = "no"
	IntentRepeat                Intent = "repeat"
	IntentThanks                Intent = "thanks"
	IntentNone                  Intent = "none"
)

// AllIntents 全部分類，依目錄順序
var AllIntents = []Intent{
	IntentRecipe, IntentFirstStep, IntentNextStep, IntentPreviousStep, IntentCurrentStep, IntentNthStep,
	IntentAllIngredients, IntentStepIngredients, IntentHowMuchIngredient, IntentReplacementIngredient,
	IntentTime, IntentTemperature, IntentStepTools, IntentAllTools, IntentStepMethods, IntentAllMethods,
	IntentClarification, IntentVagueItem, IntentVagueQuantity, IntentVagueMethod,
	IntentYes, IntentNo, IntentRepeat, IntentThanks, IntentNone,
}

// ParseIntent 字串轉 Intent，未知值回傳 false
func ParseIntent(s string) (Intent, bool) {
	for _, in := range AllIntents {
		if string(in) == s {
			return in, true
		}
	}
	return IntentNone, false
}

// IsDirectional 是否為移動步驟的分類
func (i Intent) IsDirectional() bool {
	switch i {
	case IntentFirstStep, IntentNextStep, IntentPreviousStep, IntentCurrentStep, IntentNthStep:
		return true
	}
	return false
}

// Phrase 片語與對應分類；ExactOnly 的片語只在整句相同時命中
type Phrase struct {
	Text      string
	Intent    Intent
	ExactOnly bool
}

// Bank 一組片語；Bank 之間的順序即優先順序
type Bank struct {
	Name    string
	Phrases []Phrase
}

func phrases(intent Intent, texts ...string) []Phrase {
	out := make([]Phrase, 0, len(texts))
	for _, t := range texts {
		out = append(out, Phrase{Text: t, Intent: intent})
	}
	return out
}

func exactOnly(intent Intent, texts ...string) []Phrase {
	out := phrases(intent, texts...)
	for i := range out {
		out[i].ExactOnly = true
	}
	return out
}

func join(groups ...[]Phrase) []Phrase {
	var out []Phrase
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// DefaultBanks 內建片語庫，依優先順序：
// directional, ingredient, time, temperature, tool, method, clarification, vague, affirmation, recipe
func DefaultBanks() []Bank {
	return []Bank{
		{Name: "directional", Phrases: join(
			phrases(IntentFirstStep,
				"first step", "what do i do first", "how do i start", "where do i start",
				"start from the beginning", "go back to the beginning"),
			phrases(IntentNextStep,
				"next", "is next", "next step", "happens next", "what do i do next", "go to the next step",
				"continue", "whats after this"),
			phrases(IntentPreviousStep,
				"is previous step", "previous", "previous step", "do before", "did we do before",
				"happened last", "happened previously", "did previously", "did before", "go back", "last step"),
			phrases(IntentCurrentStep,
				"is current step", "current step", "this step", "what is this step", "happens now", "do now",
				"where am i"),
			exactOnly(IntentCurrentStep, "step", "the step"),
			phrases(IntentNthStep,
				"second step", "third step", "fourth step", "fifth step", "step 2", "step 3", "step 4",
				"step 5", "take me to step", "go to step", "what is step", "show me step"),
		)},
		{Name: "ingredient", Phrases: join(
			phrases(IntentAllIngredients,
				"are the ingredients", "are the ingredients to use in this recipe", "ingredients should i use",
				"ingredients do i need", "ingredients are needed", "ingredients are required",
				"ingredients are used", "ingredients for the whole recipe", "ingredients does this recipe have",
				"ingredients does this recipe need", "ingredients do i need in the whole recipe",
				"what ingredients are in this recipe"),
			phrases(IntentStepIngredients,
				"ingredients are used in this step", "ingredients should i use in this step",
				"ingredients do i need in this step", "ingredients are needed in this step",
				"ingredients are required in this step", "ingredients in this step",
				"ingredients do i need this step", "ingredients this step"),
			phrases(IntentHowMuchIngredient,
				"how much", "how many", "how many do i need", "how much do i need", "how much should i use",
				"what quantity", "what amount"),
			phrases(IntentReplacementIngredient,
				"what can i use instead", "what can i use instead of", "substitute", "substitute for",
				"what can i substitute", "replace", "what can i replace", "in place of",
				"alternative to", "do i have to use"),
		)},
		{Name: "time", Phrases: phrases(IntentTime,
			"how long does this step take", "how long does this take", "how long does it take",
			"how long does it take to make", "how long does it take to cook", "how long does it take to bake",
			"how long does it take to prepare", "how long will it take", "how long will it take to make",
			"how long will it take to cook", "how long will it take to bake", "how long will it take to prepare",
			"how long will this take", "how long will this step take", "how much time",
			"how much time does it take", "how much time does it take to make",
			"how much time does it take to cook", "how much time does it take to bake",
			"how much time does it take to prepare", "how much time will it take",
			"how much time will it take to make", "how much time will it take to cook",
			"how much time will it take to bake", "how much time will it take to prepare",
			"how long", "when is it done", "how do i know when its done")},
		{Name: "temperature", Phrases: phrases(IntentTemperature,
			"what temperature", "how hot", "what temp", "oven temp", "oven temperature",
			"what temperature should the oven be", "what heat", "what heat level", "how high should the heat be",
			"preheat to what")},
		{Name: "tool", Phrases: join(
			phrases(IntentStepTools,
				"tools in this step", "tools do i need in this step", "tools should i use in this step",
				"tools are used in this step", "what tools for this step", "equipment for this step",
				"what do i need for this step", "equipment do i need for this step",
				"equipment do i need in this step"),
			phrases(IntentAllTools,
				"tools do i need", "tools should i use", "tools are needed",
				"tools do i need for this recipe", "tools should i use in the whole recipe",
				"equipment do i need", "utensils do i need", "tools for the whole recipe"),
		)},
		{Name: "method", Phrases: join(
			phrases(IntentStepMethods,
				"how do i do this step", "what actions should i take", "methods are used in this step",
				"methods should i use in this step", "methods in this step", "techniques are used in this step",
				"methods this step"),
			phrases(IntentAllMethods,
				"methods are used", "methods should i use", "cooking methods",
				"techniques are used", "methods for the whole recipe", "methods used in this recipe"),
		)},
		{Name: "clarification", Phrases: phrases(IntentClarification,
			"what is a", "what is an", "whats a", "whats an", "how do i", "how do you", "how to",
			"how can i", "how should i", "what does it mean to", "what does mean")},
		{Name: "vague", Phrases: join(
			phrases(IntentVagueItem,
				"what is that", "what is it", "what is this", "whats that", "whats this", "what are those",
				"what are these"),
			phrases(IntentVagueQuantity,
				"how much of that", "how much of it", "how much of this", "how many of those",
				"how much of that do i need", "how much of it do i need"),
			phrases(IntentVagueMethod,
				"how do i do that", "how do i do this", "how do i do it", "how do you do that",
				"how is that done", "how do i do those"),
		)},
		{Name: "affirmation", Phrases: join(
			phrases(IntentYes,
				"yes", "yeah", "yep", "sure", "definitely", "absolutely", "yes please"),
			phrases(IntentNo,
				"no", "nope", "nah", "not sure", "no thanks", "no thank you"),
			phrases(IntentRepeat,
				"repeat", "repeat that", "say again", "can you repeat that", "say that again",
				"what did you say", "come again"),
			phrases(IntentThanks,
				"thanks", "thank you", "thank you very much", "thanks a lot", "thx"),
		)},
		{Name: "recipe", Phrases: phrases(IntentRecipe,
			"what is the recipe", "show me the whole recipe", "what are all the instructions",
			"show me the recipe", "full recipe", "all the steps", "what are the steps",
			"give me the recipe")},
	}
}
