package dialogue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-assistant/internal/core/recipe"
)

type fakeLLM struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type fakeDictionary struct {
	meanings map[string][]Meaning
}

func (f fakeDictionary) Define(_ context.Context, term string) ([]Meaning, error) {
	m, ok := f.meanings[term]
	if !ok {
		return nil, ErrNoResult
	}
	return m, nil
}

type fakeSubstitutes struct {
	subs []string
	err  error
}

func (f fakeSubstitutes) Substitutes(context.Context, string) ([]string, error) {
	return f.subs, f.err
}

func testRecipe() *recipe.Recipe {
	ingredients := []recipe.Ingredient{
		{Quantity: "2", Measurement: "tablespoons", Name: "butter"},
		{Quantity: "1", Measurement: "cup", Name: "flour"},
		{Name: "sugar", Preparation: "to taste"},
	}
	steps := []*recipe.Step{
		{
			Description: "Preheat the oven to 350°F.",
			Ingredients: []string{}, Tools: []string{"oven"}, Methods: []string{"preheat"},
			Temperature: &recipe.TemperatureInfo{Oven: "350 F"},
		},
		{
			Description: "Melt the butter in a skillet.",
			Ingredients: []string{"butter"}, Tools: []string{"skillet"}, Methods: []string{"melt"},
			Time: &recipe.TimeInfo{MinSeconds: 120, MaxSeconds: 180, Duration: "2 min–3 min",
				Mentions: []recipe.TimeMention{{Text: "2 to 3 minutes", MinSeconds: 120, MaxSeconds: 180}}},
		},
		{
			Description: "Whisk flour and sugar in a bowl with a whisk.",
			Ingredients: []string{"flour", "sugar"}, Tools: []string{"bowl", "whisk"}, Methods: []string{"whisk"},
		},
	}
	return recipe.New("Skillet Cake", "https://www.allrecipes.com/recipe/1", ingredients, steps)
}

func newConv() *Conversation {
	return NewConversation(testRecipe())
}

func ask(e *Engine, c *Conversation, q string) Reply {
	return e.Ask(context.Background(), c, q)
}

func TestEngine_Navigation(t *testing.T) {
	e := NewEngine(Options{})
	c := newConv()

	r := ask(e, c, "What is the first step?")
	assert.Equal(t, IntentFirstStep, r.Intent)
	assert.Equal(t, "<h4 class='chat-header'>Step 1:</h4><p>Preheat the oven to 350°F.</p>", r.Text)
	assert.Nil(t, c.PendingOffer(), "step 1 has no ingredients")

	r = ask(e, c, "What do I do next?")
	assert.Contains(t, r.Text, "Step 2:")
	assert.Contains(t, r.Text, "Would you like to know about the ingredients used in this step?")
	assert.NotNil(t, c.PendingOffer())

	ask(e, c, "next")
	assert.Equal(t, 3, c.Recipe.CurrentStep().Number)

	before := c.History.Len()
	r = ask(e, c, "next")
	assert.Equal(t, msgRecipeComplete, r.Text)
	assert.False(t, r.Recorded)
	assert.Equal(t, before, c.History.Len())
	assert.Equal(t, 3, c.Recipe.CurrentStep().Number)

	r = ask(e, c, "What is the first step?")
	assert.Contains(t, r.Text, "Step 1:")
	r = ask(e, c, "go back")
	assert.Equal(t, msgRecipeBeginning, r.Text)
	assert.Equal(t, 1, c.Recipe.FirstStep().Number)
}

func TestEngine_NthStep(t *testing.T) {
	e := NewEngine(Options{})
	c := newConv()

	r := ask(e, c, "Take me to step 3")
	assert.Equal(t, IntentNthStep, r.Intent)
	assert.Contains(t, r.Text, "Step 3:")
	assert.Equal(t, 3, c.Recipe.CurrentStep().Number)

	// 超出範圍停在目前步驟，不寫入紀錄
	before := c.History.Len()
	for _, q := range []string{"go to step 9", "Take me to step 12", "go to step 99999999999999999999"} {
		r = ask(e, c, q)
		assert.Equal(t, IntentNthStep, r.Intent, q)
		assert.Equal(t, StepNotFoundAnswer(3), r.Text, q)
		assert.False(t, r.Recorded, q)
		assert.Equal(t, 3, c.Recipe.CurrentStep().Number, q)
	}
	assert.Equal(t, before, c.History.Len())

	r = ask(e, c, "Take me to step 1")
	assert.Contains(t, r.Text, "Step 1:")
	assert.Equal(t, 1, c.Recipe.CurrentStep().Number)
}

func TestEngine_NextStepQuestionAdvances(t *testing.T) {
	e := NewEngine(Options{})
	c := newConv()

	ask(e, c, "What is the first step?")
	r := ask(e, c, "What is the next step?")
	assert.Equal(t, IntentNextStep, r.Intent)
	assert.Contains(t, r.Text, "Step 2:")

	r = ask(e, c, "What is the next step?")
	assert.Contains(t, r.Text, "Step 3:")
	assert.Equal(t, 3, c.Recipe.CurrentStep().Number)

	r = ask(e, c, "What do I do now?")
	assert.Equal(t, IntentCurrentStep, r.Intent)
	assert.Contains(t, r.Text, "Step 3:")
}

func TestEngine_YesAfterOffer(t *testing.T) {
	e := NewEngine(Options{})
	c := newConv()

	ask(e, c, "What is the first step?")
	ask(e, c, "next")
	r := ask(e, c, "yes")
	assert.Equal(t, IntentYes, r.Intent)
	assert.Contains(t, r.Text, "Ingredients used in this step:")
	assert.Contains(t, r.Text, "butter")
	assert.Nil(t, c.PendingOffer())

	// 沒有待回應的詢問，也沒有模型
	r = ask(e, c, "yes")
	assert.Equal(t, msgYesWithoutContext, r.Text)
}

func TestEngine_YesWithLLM(t *testing.T) {
	llm := &fakeLLM{reply: "<p>Sure, here you go.</p>"}
	e := NewEngine(Options{LLM: llm})
	c := newConv()

	ask(e, c, "What tools do I need?")
	r := ask(e, c, "yes")
	assert.Equal(t, "<p>Sure, here you go.</p>", r.Text)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Previous question type: all_tools")
	assert.Contains(t, llm.prompts[0], "Question Type: yes")
}

func TestEngine_No(t *testing.T) {
	e := NewEngine(Options{})
	c := newConv()
	ask(e, c, "next")
	r := ask(e, c, "no")
	assert.Equal(t, msgNo, r.Text)
	fill, ok := r.Suggestions.Get("Ingredients this step.")
	assert.True(t, ok)
	assert.Equal(t, "What ingredients do I need this step?", fill)
	assert.Nil(t, c.PendingOffer())
}

func TestEngine_Repeat(t *testing.T) {
	e := NewEngine(Options{})
	c := newConv()

	r := ask(e, c, "repeat")
	assert.Equal(t, msgNothingToRepeat, r.Text)
	assert.Equal(t, 0, c.History.Len())

	first := ask(e, c, "What tools do I need?")
	r = ask(e, c, "say again")
	assert.Equal(t, first.Answer, r.Answer)
	assert.Equal(t, 2, c.History.Len())
	assert.Equal(t, IntentRepeat, c.History.Last().Intent)
}

func TestEngine_ThanksAndUnknownNotRecorded(t *testing.T) {
	e := NewEngine(Options{})
	c := newConv()

	r := ask(e, c, "thank you")
	assert.Equal(t, msgThanks, r.Text)
	r = ask(e, c, "What is the meaning of life")
	assert.Equal(t, IntentNone, r.Intent)
	assert.Equal(t, msgUnknown, r.Text)
	assert.Equal(t, 0, c.History.Len())
}

func TestEngine_VagueItem(t *testing.T) {
	dict := fakeDictionary{meanings: map[string][]Meaning{
		"oven": {{PartOfSpeech: "noun", Definitions: []string{"A chamber used for baking."}}},
	}}
	e := NewEngine(Options{Dictionary: dict})

	t.Run("single tool", func(t *testing.T) {
		c := newConv()
		ask(e, c, "What is the first step?")
		r := ask(e, c, "what is that")
		assert.Equal(t, IntentVagueItem, r.Intent)
		assert.Equal(t, "<p>oven: A chamber used for baking. You might find more useful information below!</p>", r.Text)
		fill, ok := r.Suggestions.Get("Google")
		require.True(t, ok)
		assert.Equal(t, "https://www.google.com/search?q=What+is+oven%3F", fill)
	})

	t.Run("several items", func(t *testing.T) {
		c := newConv()
		ask(e, c, "Take me to step 3")
		r := ask(e, c, "what is that")
		assert.Equal(t, "<p>I'm not sure which of these items you're referring to: bowl, whisk, flour, sugar.\nPlease ask again and be more specific.</p>", r.Text)
		assert.Nil(t, r.Suggestions)
	})

	t.Run("no previous turn", func(t *testing.T) {
		r := ask(e, newConv(), "what is that")
		assert.Equal(t, "<p>"+msgUnknownReference+"</p>", r.Text)
	})

	t.Run("no dictionary", func(t *testing.T) {
		c := newConv()
		plain := NewEngine(Options{})
		ask(plain, c, "What is the first step?")
		r := ask(plain, c, "what is that")
		assert.Contains(t, r.Text, "oven")
	})
}

func TestEngine_VagueMethodAndQuantity(t *testing.T) {
	e := NewEngine(Options{})
	c := newConv()

	ask(e, c, "Take me to step 2")
	r := ask(e, c, "How much of that?")
	assert.Equal(t, "<p>You need 2 tablespoons of butter.</p>", r.Text)

	r = ask(e, c, "How do I do that?")
	assert.Contains(t, r.Text, "melt")

	ask(e, c, "What is the first step?")
	ask(e, c, "thanks")
	r = ask(e, c, "How much of that?")
	assert.Equal(t, "<p>I couldn't find any ingredients in the previous step.</p>", r.Text)
}

func TestEngine_Quantity(t *testing.T) {
	e := NewEngine(Options{})
	c := newConv()

	r := ask(e, c, "How much butter do I need?")
	assert.Equal(t, "<p>You need 2 tablespoons of butter.</p>", r.Text)
	fill, ok := r.Suggestions.Get("What can I use instead?")
	assert.True(t, ok)
	assert.Equal(t, "What can I use instead of butter?", fill)

	r = ask(e, c, "How much sugar do I need?")
	assert.Equal(t, "<p>The recipe does not specify an exact amount for sugar, but it says: to taste.</p>", r.Text)

	r = ask(e, c, "How much saffron do I need?")
	assert.Equal(t, "<p>"+msgUnknownIngredient+"</p>", r.Text)
}

func TestEngine_Replacement(t *testing.T) {
	c := newConv()

	e := NewEngine(Options{Substitutes: fakeSubstitutes{subs: []string{"margarine", "coconut oil"}}})
	r := ask(e, c, "What can I use instead of butter?")
	assert.Equal(t, IntentReplacementIngredient, r.Intent)
	assert.Equal(t, "<p>Found 2 possible substitutes for butter:</p><ul><li>margarine</li><li>coconut oil</li></ul>", r.Text)
	fill, _ := r.Suggestions.Get("How much do I need?")
	assert.Equal(t, "How much butter do I need?", fill)

	e = NewEngine(Options{Substitutes: fakeSubstitutes{err: errors.New("quota exceeded")}})
	r = ask(e, c, "What can I use instead of saffron?")
	assert.Contains(t, r.Text, "I'm not sure about good substitutes for saffron")
	assert.Contains(t, r.Text, "https://www.google.com/search?q=substitute+for+saffron")
}

func TestEngine_Clarification(t *testing.T) {
	dict := fakeDictionary{meanings: map[string][]Meaning{
		"whisk": {
			{PartOfSpeech: "verb", Definitions: []string{"To beat quickly."}},
			{PartOfSpeech: "noun", Definitions: []string{"A utensil for whipping."}},
		},
	}}
	e := NewEngine(Options{Dictionary: dict})
	c := newConv()

	r := ask(e, c, "What's a whisk?")
	assert.Equal(t, "whisk: A utensil for whipping. You might find more useful information below!", r.Text)
	_, ok := r.Suggestions.Get("YouTube")
	assert.True(t, ok)

	r = ask(e, c, "How do I whisk?")
	assert.Equal(t, "whisk: To beat quickly. You might find more useful information below!", r.Text)

	r = ask(e, c, "What is a spatula?")
	assert.Equal(t, msgNoDefinition, r.Text)
}

func TestEngine_ListsAndDetails(t *testing.T) {
	e := NewEngine(Options{})
	c := newConv()

	r := ask(e, c, "What tools do I need?")
	assert.Equal(t, "<p>Tools used in step 1: oven</p><p>Tools used in step 2: skillet</p><p>Tools used in step 3: bowl, whisk</p>", r.Text)

	r = ask(e, c, "What ingredients do I need?")
	assert.Contains(t, r.Text, "<li>Butter: 2 tablespoons</li>")
	assert.Contains(t, r.Text, "<li>Sugar: <span>(to taste)</span></li>")

	r = ask(e, c, "What temperature should the oven be?")
	assert.Equal(t, "Oven: 350 F", r.Text)

	ask(e, c, "next")
	r = ask(e, c, "How long will this step take?")
	assert.Equal(t, "This step takes about 2 min–3 min.", r.Text)

	r = ask(e, c, "What methods are used in this step?")
	assert.Equal(t, "<p>Methods used in this step: melt</p>", r.Text)

	r = ask(e, c, "What is the recipe?")
	assert.Contains(t, r.Text, "<span class='italic'>Skillet Cake</span>")
	assert.Contains(t, r.Text, "<li>Whisk flour and sugar in a bowl with a whisk.</li>")
}

func TestEngine_LLMFallback(t *testing.T) {
	c := newConv()

	ok := &fakeLLM{reply: "```html\n<p>It takes a while.</p>\n```"}
	r := ask(NewEngine(Options{LLM: ok}), c, "How long will this step take?")
	assert.Equal(t, "<p>It takes a while.</p>", r.Text)
	require.Len(t, ok.prompts, 1)
	assert.Contains(t, ok.prompts[0], "Recipe Name: Skillet Cake")
	assert.Contains(t, ok.prompts[0], "Current Step: 1")
	assert.Contains(t, ok.prompts[0], "User Question: How long will this step take?")

	failing := &fakeLLM{err: errors.New("503")}
	r = ask(NewEngine(Options{LLM: failing}), c, "How long will this step take?")
	assert.Equal(t, msgNoTime, r.Text)
}

func TestEngine_LLMClassifyFallback(t *testing.T) {
	llm := &fakeLLM{reply: "all_tools\n"}
	e := NewEngine(Options{LLM: llm, LLMClassify: true})
	r := ask(e, newConv(), "gimme the gear list")
	assert.Equal(t, IntentAllTools, r.Intent)

	llm.reply = "something odd"
	r = ask(e, newConv(), "gimme the gear list")
	assert.Equal(t, IntentNone, r.Intent)
}

func TestEngine_NoRecipe(t *testing.T) {
	r := ask(NewEngine(Options{}), NewConversation(nil), "next")
	assert.Equal(t, msgNoRecipe, r.Text)
	assert.False(t, r.Recorded)
}

func TestConversation_Reset(t *testing.T) {
	e := NewEngine(Options{})
	c := newConv()
	ask(e, c, "next")
	ask(e, c, "next")
	c.Reset()
	assert.Equal(t, 1, c.Recipe.CurrentStep().Number)
	assert.Equal(t, 0, c.History.Len())
	assert.Equal(t, msgNothingToRepeat, ask(e, c, "repeat").Text)
}
