package extract

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"recipe-assistant/internal/core/parse"
	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/core/vocab"
	"recipe-assistant/internal/pkg/common"
)

// minPrefixLen 前綴比對最短長度，避免短字串誤判
const minPrefixLen = 3

// Enricher 為步驟標註食材、工具、方法、時間與溫度
type Enricher struct {
	vocab  *vocab.Vocabulary
	tagger Tagger
	lemma  Lemmatizer
}

// NewEnricher lemmatizer 為 nil 時只做小寫比對
func NewEnricher(v *vocab.Vocabulary, tagger Tagger, lemma Lemmatizer) *Enricher {
	if lemma == nil {
		lemma = identityLemmatizer{}
	}
	return &Enricher{vocab: v, tagger: tagger, lemma: lemma}
}

// NewDefaultEnricher prose + golem；字典載入失敗時退回小寫比對
func NewDefaultEnricher(v *vocab.Vocabulary) *Enricher {
	var lem Lemmatizer
	if g, err := NewGolemLemmatizer(); err != nil {
		common.LogWarn("lemmatizer 載入失敗，方法比對不做還原", zap.Error(err))
	} else {
		lem = g
	}
	return NewEnricher(v, NewProseTagger(), lem)
}

// Enrich 依序處理步驟；溫度 context 逐步往後傳遞。
// 單一步驟的解析失敗只讓該欄位為空，不中斷整體。
func (e *Enricher) Enrich(descriptions []string, ingredients []recipe.Ingredient) []*recipe.Step {
	var ctx parse.TemperatureContext
	steps := make([]*recipe.Step, 0, len(descriptions))
	for i, desc := range descriptions {
		s := &recipe.Step{
			Number:      i + 1,
			Description: desc,
			Ingredients: MatchIngredients(desc, ingredients),
			Tools:       e.Tools(desc),
			Methods:     e.Methods(desc),
			Time:        parse.ParseTime(desc),
		}
		temp, update := parse.ParseTemperature(desc, ctx)
		s.Temperature = temp
		ctx.Merge(update)
		steps = append(steps, s)
	}
	return steps
}

// MatchIngredients 名稱為描述子字串的食材，依食材清單順序
func MatchIngredients(description string, ingredients []recipe.Ingredient) []string {
	out := []string{}
	for _, ing := range ingredients {
		if ing.Name != "" && strings.Contains(description, ing.Name) {
			out = append(out, ing.Name)
		}
	}
	return out
}

// Methods 詞性為動詞且在方法詞彙中的詞；再檢查每個逗號子句的前一到兩個詞，
// 補上句首被誤標的祈使動詞
func (e *Enricher) Methods(description string) []string {
	found := map[string]bool{}
	if strings.TrimSpace(description) == "" {
		return []string{}
	}
	lower := strings.ToLower(description)
	processed := map[string]bool{}

	tokens, err := e.tagger.Tag(lower)
	if err != nil {
		common.LogWarn("步驟詞性標註失敗", zap.Error(err))
	}
	for _, tok := range tokens {
		if !strings.HasPrefix(tok.Tag, "VB") {
			continue
		}
		if m, ok := e.bestMethod(tok.Text); ok {
			found[m] = true
			processed[tok.Text] = true
		}
	}

	for _, chunk := range strings.Split(lower, ",") {
		words, err := e.tagger.Tokenize(strings.TrimSpace(chunk))
		if err != nil || len(words) == 0 {
			continue
		}
		if len(words) > 2 {
			words = words[:2]
		}
		for _, w := range words {
			if processed[w] {
				continue
			}
			if m, ok := e.bestMethod(w); ok {
				found[m] = true
				processed[w] = true
			}
		}
	}
	return sortedSet(found)
}

// bestMethod 完全相符 > 原形相符 > 最長前綴（至少 3 字元）
func (e *Enricher) bestMethod(word string) (string, bool) {
	w := strings.ToLower(word)
	if e.vocab.IsMethod(w) {
		return w, true
	}
	if lemma := e.lemma.Lemma(w); e.vocab.IsMethod(lemma) {
		return lemma, true
	}
	return e.vocab.LongestMethodPrefix(w, minPrefixLen)
}

// Tools 每個名詞片語（DT/JJ/NN 連續詞）的中心名詞若為廚具則收錄
func (e *Enricher) Tools(description string) []string {
	found := map[string]bool{}
	if strings.TrimSpace(description) == "" {
		return []string{}
	}
	sentences, err := e.tagger.Sentences(description)
	if err != nil {
		common.LogWarn("步驟分句失敗", zap.Error(err))
		return []string{}
	}
	for _, sentence := range sentences {
		tokens, err := e.tagger.Tag(sentence)
		if err != nil {
			common.LogWarn("步驟詞性標註失敗", zap.Error(err))
			continue
		}
		for _, np := range nounPhrases(tokens) {
			if head, ok := headNoun(np); ok && e.vocab.IsTool(head) {
				found[head] = true
			}
		}
	}
	return sortedSet(found)
}

func nounPhrases(tokens []Token) [][]Token {
	var phrases [][]Token
	var cur []Token
	for _, t := range tokens {
		if strings.HasPrefix(t.Tag, "NN") || t.Tag == "DT" || t.Tag == "JJ" || t.Tag == "JJR" || t.Tag == "JJS" {
			cur = append(cur, t)
			continue
		}
		if len(cur) > 0 {
			phrases = append(phrases, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		phrases = append(phrases, cur)
	}
	return phrases
}

// headNoun 最右邊的 NN/NNS
func headNoun(np []Token) (string, bool) {
	for i := len(np) - 1; i >= 0; i-- {
		if np[i].Tag == "NN" || np[i].Tag == "NNS" {
			return strings.ToLower(np[i].Text), true
		}
	}
	return "", false
}

func sortedSet(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
