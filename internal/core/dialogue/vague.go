package dialogue

import (
	"context"
	"fmt"
	"html"

	"recipe-assistant/internal/core/recipe"
)

// vagueTarget 依分類決定候選清單與回覆用語
type vagueTarget struct {
	kind       string
	emptyText  string
	candidates func(*recipe.Step) []string
}

var vagueTargets = map[Intent]vagueTarget{
	IntentVagueItem: {
		kind:      "items",
		emptyText: "I couldn't find any tools or ingredients in the previous step.",
		candidates: func(s *recipe.Step) []string {
			items := append([]string{}, s.Tools...)
			return append(items, s.Ingredients...)
		},
	},
	IntentVagueMethod: {
		kind:       "methods",
		emptyText:  "I couldn't find any methods in the previous step.",
		candidates: func(s *recipe.Step) []string { return s.Methods },
	},
	IntentVagueQuantity: {
		kind:       "ingredients",
		emptyText:  "I couldn't find any ingredients in the previous step.",
		candidates: func(s *recipe.Step) []string { return s.Ingredients },
	},
}

// ResolveVague 以最近一輪對話的步驟找出唯一候選。
// 沒有候選或超過一個時回傳要直接回覆的文字，ok 為 false。
func ResolveVague(h *History, intent Intent) (candidate string, reply string, ok bool) {
	target, known := vagueTargets[intent]
	if !known {
		return "", msgUnknownReference, false
	}
	last := h.Last()
	if last == nil || last.Step == nil {
		return "", msgUnknownReference, false
	}
	candidates := target.candidates(last.Step)
	switch len(candidates) {
	case 0:
		return "", target.emptyText, false
	case 1:
		return candidates[0], "", true
	}
	return "", ambiguousAnswer(target.kind, candidates), false
}

func (e *Engine) answerVague(ctx context.Context, conv *Conversation, question string, intent Intent) Reply {
	candidate, reply, ok := ResolveVague(conv.History, intent)
	if !ok {
		return e.record(conv, question, intent, Answer{Text: paragraph(reply)})
	}

	var text string
	suggestions := searchSuggestions(candidate)
	switch intent {
	case IntentVagueItem:
		ask := fmt.Sprintf("What is %s?", candidate)
		text = e.generateOr(ctx, conv, ask, IntentClarification,
			fmt.Sprintf("The user is asking about '%s' from the previous step.", candidate),
			func() string { return e.defineCandidate(ctx, candidate, PosNoun) })
		suggestions = searchSuggestions(ask)
	case IntentVagueMethod:
		text = e.generateOr(ctx, conv, fmt.Sprintf("How do I %s?", candidate), IntentClarification,
			fmt.Sprintf("The user is asking about the method '%s' from the previous step.", candidate),
			func() string { return e.defineCandidate(ctx, candidate, PosVerb) })
	case IntentVagueQuantity:
		text = e.generateOr(ctx, conv, question, intent,
			fmt.Sprintf("The user is asking about the quantity of %s from the previous step.", candidate),
			func() string {
				ing := findRecipeIngredient(candidate, conv.Recipe.Ingredients())
				if ing == nil {
					ing = &recipe.Ingredient{Name: candidate}
				}
				return QuantityAnswer(ing)
			})
		suggestions = nil
	}
	return e.record(conv, question, intent, Answer{Text: paragraph(text), Suggestions: suggestions})
}

// defineCandidate 查不到定義時仍帶出候選名稱
func (e *Engine) defineCandidate(ctx context.Context, candidate string, pos PartOfSpeech) string {
	if text, ok := e.define(ctx, candidate, pos); ok {
		return text
	}
	return html.EscapeString(candidate) + ": " + msgNoDefinition
}
