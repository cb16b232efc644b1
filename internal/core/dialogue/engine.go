package dialogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/pkg/common"
)

const msgNoRecipe = "Please load a recipe first."

// defaultLLMTimeout 單次模型呼叫的上限
const defaultLLMTimeout = 30 * time.Second

// Options Engine 的外部協作者；皆可為 nil，缺少時改用固定回覆
type Options struct {
	Classifier  *Classifier
	LLM         LLM
	Dictionary  Dictionary
	Substitutes Substitutes
	LLMTimeout  time.Duration
	// LLMClassify 片語庫無法分類時改請模型分類
	LLMClassify bool
}

// Engine 依分類結果回答問題；本身無狀態，對話狀態放在 Conversation
type Engine struct {
	classifier  *Classifier
	llm         LLM
	dict        Dictionary
	subs        Substitutes
	llmTimeout  time.Duration
	llmClassify bool
}

// NewEngine 建立 Engine
func NewEngine(opts Options) *Engine {
	e := &Engine{
		classifier:  opts.Classifier,
		llm:         opts.LLM,
		dict:        opts.Dictionary,
		subs:        opts.Substitutes,
		llmTimeout:  opts.LLMTimeout,
		llmClassify: opts.LLMClassify,
	}
	if e.classifier == nil {
		e.classifier = defaultClassifier
	}
	if e.llmTimeout <= 0 {
		e.llmTimeout = defaultLLMTimeout
	}
	return e
}


// Conversation 單一 session 的食譜與對話紀錄。不可併發使用。
type Conversation struct {
	Recipe  *recipe.Recipe
	History *History

	// offer 上一輪步驟回答詢問過「要不要看食材」的步驟
	offer *recipe.Step
	last  *Answer
}

// NewConversation 以食譜建立新對話
func NewConversation(r *recipe.Recipe) *Conversation {
	return &Conversation{Recipe: r, History: NewHistory()}
}

// Reset 回到第一步並清空對話紀錄
func (c *Conversation) Reset() {
	if c.Recipe != nil {
		c.Recipe.Reset()
	}
	c.History = NewHistory()
	c.offer = nil
	c.last = nil
}

// PendingOffer 目前是否有待回應的食材詢問
func (c *Conversation) PendingOffer() *recipe.Step { return c.offer }

// Reply 回覆與分類；Recorded 表示已寫入對話紀錄
type Reply struct {
	Answer
	Intent   Intent
	Recorded bool
}

// Ask 分類並回答一個問題；成功的回合在回傳前寫入紀錄
func (e *Engine) Ask(ctx context.Context, conv *Conversation, question string) Reply {
	intent := e.classify(ctx, question)
	common.LogDebug("問題分類完成", zap.String("question", question), zap.String("intent", string(intent)))

	if conv.Recipe == nil {
		return Reply{Answer: Answer{Text: msgNoRecipe}, Intent: intent}
	}

	offer := conv.offer
	conv.offer = nil

	switch intent {
	case IntentFirstStep, IntentNextStep, IntentPreviousStep, IntentCurrentStep, IntentNthStep:
		return e.answerStep(conv, question, intent)

	case IntentRecipe:
		text := e.generateOr(ctx, conv, question, intent, "", func() string { return FullRecipeAnswer(conv.Recipe) })
		return e.record(conv, question, intent, Answer{Text: text, Suggestions: suggestRecipe})

	case IntentAllIngredients:
		return e.record(conv, question, intent, Answer{Text: AllIngredientsAnswer(conv.Recipe.Ingredients()), Suggestions: suggestIngredients})
	case IntentStepIngredients:
		return e.record(conv, question, intent, Answer{Text: StepIngredientsAnswer(conv.Recipe.CurrentStep()), Suggestions: suggestIngredients})

	case IntentStepMethods:
		return e.record(conv, question, intent, Answer{Text: StepMethodsAnswer(conv.Recipe.CurrentStep()), Suggestions: suggestStepMethods})
	case IntentAllMethods:
		return e.record(conv, question, intent, Answer{Text: AllMethodsAnswer(conv.Recipe), Suggestions: suggestAllMethods})

	case IntentStepTools:
		return e.record(conv, question, intent, Answer{Text: StepToolsAnswer(conv.Recipe.CurrentStep()), Suggestions: suggestStepTools})
	case IntentAllTools:
		return e.record(conv, question, intent, Answer{Text: AllToolsAnswer(conv.Recipe), Suggestions: suggestAllTools})

	case IntentTime:
		text := e.generateOr(ctx, conv, question, intent, "", func() string { return TimeAnswer(conv.Recipe.CurrentStep()) })
		return e.record(conv, question, intent, Answer{Text: text})
	case IntentTemperature:
		text := e.generateOr(ctx, conv, question, intent, "", func() string { return TemperatureAnswer(conv.Recipe.CurrentStep()) })
		return e.record(conv, question, intent, Answer{Text: text})

	case IntentHowMuchIngredient:
		return e.answerQuantity(conv, question)
	case IntentReplacementIngredient:
		return e.answerReplacement(ctx, conv, question)
	case IntentClarification:
		return e.answerClarification(ctx, conv, question)

	case IntentVagueItem, IntentVagueMethod, IntentVagueQuantity:
		return e.answerVague(ctx, conv, question, intent)

	case IntentYes:
		return e.answerYes(ctx, conv, question, offer)
	case IntentNo:
		return e.record(conv, question, intent, Answer{Text: msgNo, Suggestions: suggestNo})
	case IntentRepeat:
		if conv.last == nil {
			return Reply{Answer: Answer{Text: msgNothingToRepeat}, Intent: intent}
		}
		conv.offer = offer
		return e.record(conv, question, intent, *conv.last)
	case IntentThanks:
		return Reply{Answer: Answer{Text: msgThanks}, Intent: intent}
	}
	return Reply{Answer: Answer{Text: msgUnknown}, Intent: IntentNone}
}

// classify 片語庫優先；沒有命中且允許時才問模型
func (e *Engine) classify(ctx context.Context, question string) Intent {
	intent := e.classifier.Classify(question)
	if intent != IntentNone || e.llm == nil || !e.llmClassify || Normalize(question) == "" {
		return intent
	}
	raw, err := e.generate(ctx, ClassificationPrompt(question))
	if err != nil {
		return IntentNone
	}
	label := strings.Trim(strings.ToLower(strings.TrimSpace(raw)), "\"'`. ")
	if parsed, ok := ParseIntent(label); ok {
		common.LogDebug("模型分類", zap.String("question", question), zap.String("intent", label))
		return parsed
	}
	common.LogWarn("模型回傳未知分類", zap.String("label", label))
	return IntentNone
}

func (e *Engine) record(conv *Conversation, question string, intent Intent, ans Answer) Reply {
	conv.History.Add(question, intent, ans, conv.Recipe.CurrentStep())
	stored := ans
	conv.last = &stored
	return Reply{Answer: ans, Intent: intent, Recorded: true}
}

func (e *Engine) answerStep(conv *Conversation, question string, intent Intent) Reply {
	r := conv.Recipe
	if r.Len() == 0 {
		return Reply{Answer: Answer{Text: msgNoSteps}, Intent: intent}
	}

	var step *recipe.Step
	moved := true
	switch intent {
	case IntentFirstStep:
		r.Reset()
		step = r.FirstStep()
	case IntentNextStep:
		step, moved = r.StepForward()
	case IntentPreviousStep:
		step, moved = r.StepBackward()
	case IntentNthStep:
		n := ExtractStepNumber(question)
		target, err := r.NthStep(n)
		if err != nil {
			// 超出範圍時停在目前步驟，不寫入紀錄
			common.LogDebug("步驟編號無效", zap.Int("step", n), zap.Error(err))
			return Reply{Answer: Answer{Text: StepNotFoundAnswer(r.Len())}, Intent: intent}
		}
		r.SetCurrent(target)
		step = target
	default:
		step = r.CurrentStep()
	}

	if !moved {
		if intent == IntentNextStep {
			return Reply{Answer: Answer{Text: msgRecipeComplete}, Intent: intent}
		}
		return Reply{Answer: Answer{Text: msgRecipeBeginning}, Intent: intent}
	}

	text, offered := StepAnswer(step)
	if offered {
		conv.offer = step
	}
	return e.record(conv, question, intent, Answer{Text: text, Suggestions: suggestStep})
}

func (e *Engine) answerQuantity(conv *Conversation, question string) Reply {
	ing := BestIngredientMatch(question, conv.Recipe.Ingredients())
	suggestions := common.NewSuggestions("What do I do next?", "What do I do next?")
	if ing != nil && ing.Name != "" {
		suggestions = append(suggestions, common.Suggestion{
			Display: "What can I use instead?",
			Fill:    fmt.Sprintf("What can I use instead of %s?", ing.Name),
		})
	}
	return e.record(conv, question, IntentHowMuchIngredient, Answer{Text: paragraph(QuantityAnswer(ing)), Suggestions: suggestions})
}

func (e *Engine) answerReplacement(ctx context.Context, conv *Conversation, question string) Reply {
	var name string
	if ing := BestIngredientMatch(question, conv.Recipe.Ingredients()); ing != nil {
		name = strings.TrimSpace(ing.Name)
	}
	if name == "" {
		name = ExtractReplacementTarget(question)
	}
	if name == "" {
		return e.record(conv, question, IntentReplacementIngredient, Answer{
			Text:        msgUnknownReplace,
			Suggestions: common.NewSuggestions("What do I do next?", "What do I do next?"),
		})
	}

	text := NoSubstitutesAnswer(name)
	if e.subs != nil {
		start := time.Now()
		subs, err := e.subs.Substitutes(ctx, name)
		common.LogLookup("substitutes", name, time.Since(start), err)
		if err == nil && len(subs) > 0 {
			text = SubstitutesAnswer(name, subs)
		}
	}
	if extra, ok := e.generateAnswer(ctx, conv, question, IntentReplacementIngredient,
		fmt.Sprintf("The user is asking about substitutes for %s.", name)); ok {
		text += "\n\n" + extra
	}

	return e.record(conv, question, IntentReplacementIngredient, Answer{
		Text: text,
		Suggestions: common.NewSuggestions(
			"How much do I need?", fmt.Sprintf("How much %s do I need?", name),
			"What do I do next?", "What do I do next?",
		),
	})
}

func (e *Engine) answerClarification(ctx context.Context, conv *Conversation, question string) Reply {
	text := e.generateOr(ctx, conv, question, IntentClarification, "", func() string {
		subject, pos, ok := ClarificationSubject(question, ingredientNames(conv.Recipe), conv.Recipe.AllTools())
		if !ok || subject == "" {
			return msgNoSubject
		}
		text, _ := e.define(ctx, subject, pos)
		return text
	})
	return e.record(conv, question, IntentClarification, Answer{Text: text, Suggestions: searchSuggestions(question)})
}

func (e *Engine) answerYes(ctx context.Context, conv *Conversation, question string, offer *recipe.Step) Reply {
	if offer != nil {
		return e.record(conv, question, IntentYes, Answer{Text: StepIngredientsAnswer(offer), Suggestions: suggestIngredients})
	}
	prev := conv.History.Last()
	if prev == nil {
		return e.record(conv, question, IntentYes, Answer{Text: msgYesWithoutContext})
	}
	additional := strings.Join([]string{
		"Conversation Context:",
		"- Previous user question: " + prev.Question,
		"- Previous question type: " + string(prev.Intent),
		"- Bot's previous response: " + prev.Answer.Text,
		"",
		"The user replied 'yes' to the previous response. Work out what they agreed to and answer that.",
	}, "\n")
	text := e.generateOr(ctx, conv, "The user said 'yes'. What should I respond?", IntentYes, additional, func() string {
		return msgYesWithoutContext
	})
	return e.record(conv, question, IntentYes, Answer{Text: text})
}

// define 字典查詢；失敗或沒有定義時回傳固定訊息與 false
func (e *Engine) define(ctx context.Context, subject string, pos PartOfSpeech) (string, bool) {
	if e.dict == nil {
		return msgNoDefinition, false
	}
	start := time.Now()
	meanings, err := e.dict.Define(ctx, subject)
	common.LogLookup("dictionary", subject, time.Since(start), err)
	if err != nil {
		return msgNoDefinition, false
	}
	def, ok := ChooseDefinition(meanings, pos)
	if !ok {
		return msgNoDefinition, false
	}
	return DefinitionAnswer(subject, def), true
}

// generateOr 有模型時以模型回答，否則或失敗時用 fallback
func (e *Engine) generateOr(ctx context.Context, conv *Conversation, question string, intent Intent, additional string, fallback func() string) string {
	if text, ok := e.generateAnswer(ctx, conv, question, intent, additional); ok {
		return text
	}
	return fallback()
}

func (e *Engine) generateAnswer(ctx context.Context, conv *Conversation, question string, intent Intent, additional string) (string, bool) {
	if e.llm == nil {
		return "", false
	}
	prompt := BuildPrompt(PromptInput{
		Recipe:     conv.Recipe,
		Step:       conv.Recipe.CurrentStep(),
		Intent:     intent,
		Additional: additional,
		Question:   question,
	})
	text, err := e.generate(ctx, prompt)
	if err != nil {
		return "", false
	}
	return text, true
}

func (e *Engine) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.llmTimeout)
	defer cancel()

	text, err := e.llm.Generate(ctx, prompt)
	if err != nil {
		common.LogWarn("語言模型呼叫失敗，改用固定回覆", zap.Error(err))
		return "", err
	}
	text = strings.TrimSpace(common.StripCodeFence(text))
	if text == "" {
		return "", ErrNoResult
	}
	return text, nil
}

func ingredientNames(r *recipe.Recipe) []string {
	out := make([]string, 0, len(r.Ingredients()))
	for _, ing := range r.Ingredients() {
		if ing.Name != "" {
			out = append(out, ing.Name)
		}
	}
	return out
}
