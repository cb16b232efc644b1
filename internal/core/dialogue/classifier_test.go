package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recipe-assistant/internal/pkg/common"
)

func TestClassify_DefaultBanks(t *testing.T) {
	tests := []struct {
		question string
		want     Intent
	}{
		{"What is the first step?", IntentFirstStep},
		{"What's next?", IntentNextStep},
		{"What do I do next?", IntentNextStep},
		{"go back", IntentPreviousStep},
		{"What is this step?", IntentCurrentStep},
		{"Take me to step 3", IntentNthStep},
		{"What ingredients do I need?", IntentAllIngredients},
		{"What ingredients do I need in this step?", IntentStepIngredients},
		{"How much butter do I need?", IntentHowMuchIngredient},
		{"What can I use instead of butter?", IntentReplacementIngredient},
		{"How long will this step take?", IntentTime},
		{"What temperature should the oven be?", IntentTemperature},
		{"What tools do I need?", IntentAllTools},
		{"What tools should I use in this step?", IntentStepTools},
		{"What methods are used in this step?", IntentStepMethods},
		{"How do I fold in the egg whites?", IntentClarification},
		{"What's a whisk?", IntentClarification},
		{"what is that", IntentVagueItem},
		{"How much of that?", IntentVagueQuantity},
		{"How do I do that?", IntentVagueMethod},
		{"Yes", IntentYes},
		{"Nope", IntentNo},
		{"Can you repeat that?", IntentRepeat},
		{"Thank you!", IntentThanks},
		{"What is the recipe?", IntentRecipe},
		{"What is the next step?", IntentNextStep},
		{"What do I do now?", IntentCurrentStep},
		{"What tools should I use?", IntentAllTools},
		{"step", IntentCurrentStep},
		{"whats the 3rd step", IntentNthStep},
		{"What is the meaning of life", IntentNone},
		{"", IntentNone},
		{"?!", IntentNone},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.question))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	questions := []string{"what is next", "how much flour", "step", "what tools", "hmm"}
	for _, q := range questions {
		first := Classify(q)
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, Classify(q), q)
		}
	}
}

func TestClassifier_ExactMatchWins(t *testing.T) {
	// "how do i" 與 "this step" 也會命中，但完全相符優先
	m := defaultClassifier.Match("How do I do this step?")
	assert.Equal(t, IntentStepMethods, m.Intent)
	assert.Equal(t, MatchExact, m.Kind)
}

func TestClassifier_PrefixBeatsLongerSubstring(t *testing.T) {
	c := NewClassifier([]Bank{
		{Name: "a", Phrases: []Phrase{{Text: "a very long phrase in here", Intent: IntentRecipe}}},
		{Name: "b", Phrases: []Phrase{{Text: "tell me", Intent: IntentThanks}}},
	})
	m := c.Match("tell me a very long phrase in here now")
	assert.Equal(t, IntentThanks, m.Intent)
	assert.Equal(t, MatchPrefix, m.Kind)
}

func TestClassifier_SingleWordGuard(t *testing.T) {
	c := NewClassifier([]Bank{
		{Name: "x", Phrases: []Phrase{{Text: "go to the next step", Intent: IntentNextStep}}},
	})
	assert.Equal(t, IntentNone, c.Classify("step"), "single content word must not match a long phrase")

	c = NewClassifier([]Bank{
		{Name: "x", Phrases: []Phrase{
			{Text: "go to the next step", Intent: IntentNextStep},
			{Text: "this step", Intent: IntentCurrentStep},
		}},
	})
	assert.Equal(t, IntentCurrentStep, c.Classify("step"))
}

func TestClassifier_Overlap(t *testing.T) {
	c := NewClassifier([]Bank{
		{Name: "t", Phrases: []Phrase{{Text: "oven temperature", Intent: IntentTemperature}}},
		{Name: "m", Phrases: []Phrase{{Text: "methods for the whole recipe", Intent: IntentAllMethods}}},
	})
	m := c.Match("temperature please")
	assert.Equal(t, IntentTemperature, m.Intent)
	assert.Equal(t, MatchOverlap, m.Kind)

	// 重疊比例不足 50%
	assert.Equal(t, IntentNone, c.Classify("whole thing please"))
}

func TestClassifier_TieKeepsFirst(t *testing.T) {
	c := NewClassifier([]Bank{
		{Name: "first", Phrases: []Phrase{{Text: "abc", Intent: IntentRecipe}}},
		{Name: "second", Phrases: []Phrase{{Text: "xyz", Intent: IntentThanks}}},
	})
	m := c.Match("foo abc xyz")
	assert.Equal(t, IntentRecipe, m.Intent)
	assert.Equal(t, "first", m.Bank)
}

func TestClassifier_PrefixBeatsLongerOverlap(t *testing.T) {
	c := NewClassifier([]Bank{
		{Name: "a", Phrases: phrases(IntentAllTools, "tools do i need for the whole recipe today")},
		{Name: "b", Phrases: phrases(IntentNextStep, "what")},
	})
	m := c.Match("what tools do i need for the whole recipe")
	assert.Equal(t, MatchPrefix, m.Kind)
	assert.Equal(t, IntentNextStep, m.Intent)
}

func TestClassifier_ExactOnlyPhrase(t *testing.T) {
	c := NewClassifier([]Bank{
		{Name: "a", Phrases: exactOnly(IntentCurrentStep, "step")},
		{Name: "b", Phrases: phrases(IntentNextStep, "next")},
	})
	assert.Equal(t, IntentCurrentStep, c.Classify("Step?"))
	assert.Equal(t, IntentNextStep, c.Classify("next step"))
	assert.Equal(t, IntentNone, c.Classify("one more step"))
}

func TestSuggestionsClassifyAsIntended(t *testing.T) {
	want := map[string]Intent{
		"What methods are used in this step?":             IntentStepMethods,
		"What methods should I use in this step?":         IntentStepMethods,
		"What ingredients do I need in this step?":        IntentStepIngredients,
		"What ingredients do I need this step?":           IntentStepIngredients,
		"What ingredients do I need in the whole recipe?": IntentAllIngredients,
		"What ingredients does this recipe have?":         IntentAllIngredients,
		"What ingredients for the whole recipe?":          IntentAllIngredients,
		"What tools should I use in the whole recipe?":    IntentAllTools,
		"What tools do I need for this recipe?":           IntentAllTools,
		"What tools should I use in this step?":           IntentStepTools,
		"How long will this step take?":                   IntentTime,
		"What do I do first?":                             IntentFirstStep,
		"What do I do next?":                              IntentNextStep,
		"What do I do now?":                               IntentCurrentStep,
	}
	all := []common.Suggestions{
		suggestStep, suggestRecipe, suggestStepMethods, suggestAllMethods,
		suggestIngredients, suggestStepTools, suggestAllTools, suggestNo,
	}
	for _, set := range all {
		for _, sg := range set {
			intent, ok := want[sg.Fill]
			if !assert.True(t, ok, "no expected intent for %q", sg.Fill) {
				continue
			}
			assert.Equal(t, intent, Classify(sg.Fill), sg.Fill)
		}
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "whats next", Normalize("  What's   NEXT?? "))
	assert.Equal(t, "", Normalize("?!."))
}

func TestExtractStepNumber(t *testing.T) {
	tests := map[string]int{
		"what is the second step":    2,
		"go to step four":            4,
		"take me to step 12":         12,
		"what's the 3rd step":        3,
		"the 7 step":                 7,
		"step 5th please":            5,
		"show me number 9":           9,
		"what is the next one":       1,
		"what is the twentieth step": 20,
		"go to step 99999999999999999999": 0,
	}
	for q, want := range tests {
		assert.Equal(t, want, ExtractStepNumber(q), q)
	}
}

func TestClarificationSubject(t *testing.T) {
	ingredients := []string{"butter", "flour"}
	tools := []string{"whisk"}

	subject, pos, ok := ClarificationSubject("How do I fold?", ingredients, tools)
	assert.True(t, ok)
	assert.Equal(t, "fold", subject)
	assert.Equal(t, PosVerb, pos)

	subject, pos, ok = ClarificationSubject("What's a whisk?", ingredients, tools)
	assert.True(t, ok)
	assert.Equal(t, "whisk", subject)
	assert.Equal(t, PosNoun, pos)

	subject, pos, ok = ClarificationSubject("what is braising", ingredients, tools)
	assert.True(t, ok)
	assert.Equal(t, "braising", subject)
	assert.Equal(t, PosAny, pos)

	_, _, ok = ClarificationSubject("tell me more", ingredients, tools)
	assert.False(t, ok)
}
