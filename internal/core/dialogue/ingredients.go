package dialogue

import (
	"regexp"
	"strings"

	"recipe-assistant/internal/core/recipe"
)

// substringBonus 食材名稱整段出現在問句中的加分
const substringBonus = 0.5

var ingredientStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "to": true, "for": true, "with": true,
	"how": true, "much": true, "many": true, "do": true, "does": true, "did": true,
	"i": true, "you": true, "we": true, "they": true, "he": true, "she": true, "it": true,
	"need": true, "needs": true, "needed": true, "use": true, "used": true, "using": true,
	"should": true, "this": true, "that": true, "step": true, "recipe": true,
	"instead": true, "can": true, "could": true,
}

var reNonLetter = regexp.MustCompile(`[^a-z\s]+`)

func normalizeLetters(text string) string {
	return strings.Join(strings.Fields(reNonLetter.ReplaceAllString(strings.ToLower(text), " ")), " ")
}

// BestIngredientMatch 以詞重疊比例加上整段出現加分挑選問句提到的食材；
// 分數為 0 時回傳 nil。同分保留清單中較前面的。
func BestIngredientMatch(question string, ingredients []recipe.Ingredient) *recipe.Ingredient {
	q := normalizeLetters(question)
	if q == "" || len(ingredients) == 0 {
		return nil
	}
	qWords := map[string]bool{}
	for _, w := range strings.Fields(q) {
		if !ingredientStopwords[w] {
			qWords[w] = true
		}
	}
	if len(qWords) == 0 {
		for _, w := range strings.Fields(q) {
			qWords[w] = true
		}
	}

	var best *recipe.Ingredient
	bestScore := 0.0
	for i := range ingredients {
		name := normalizeLetters(ingredients[i].Name)
		if name == "" {
			continue
		}
		nameWords := map[string]bool{}
		for _, w := range strings.Fields(name) {
			nameWords[w] = true
		}
		shared := 0
		for w := range nameWords {
			if qWords[w] {
				shared++
			}
		}
		score := float64(shared) / float64(len(nameWords))
		if strings.Contains(q, name) {
			score += substringBonus
		}
		if score > bestScore {
			bestScore = score
			best = &ingredients[i]
		}
	}
	return best
}

var (
	reReplaceTargets = []*regexp.Regexp{
		regexp.MustCompile(`(?:instead\s+of|substitute\s+for|in\s+place\s+of)\s+([a-z\s]+?)(?:\?|$|\.|,|;|:|\s+can|\s+should|\s+could)`),
		regexp.MustCompile(`substitute\s+([a-z\s]+?)(?:\?|$|\.|,|;|:)`),
		regexp.MustCompile(`replace\s+([a-z\s]+?)(?:\?|$|\.|,|;|:|\s+with)`),
		regexp.MustCompile(`what\s+(?:can|should|could)\s+(?:i|we|you)\s+use\s+(?:instead\s+of|for)\s+([a-z\s]+?)(?:\?|$|\.)`),
	}
	reTrailingFiller = regexp.MustCompile(`\s+(?:the|a|an|for|with|in|on|at|to|of)$`)
	reBeforeReplace  = regexp.MustCompile(`(?:^|\s)([a-z]+(?:\s+[a-z]+){0,2})\s+(?:substitute|instead)`)
)

// ExtractReplacementTarget 食材不在食譜中時，從「instead of X」「replace X」等句型取出 X
func ExtractReplacementTarget(question string) string {
	q := strings.ToLower(question)
	for _, re := range reReplaceTargets {
		m := re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		target := reTrailingFiller.ReplaceAllString(strings.TrimSpace(m[1]), "")
		if len(target) > 1 {
			return target
		}
	}
	if m := reBeforeReplace.FindStringSubmatch(q); m != nil {
		if target := strings.TrimSpace(m[1]); len(target) > 1 {
			return target
		}
	}
	return ""
}

// findRecipeIngredient 以名稱互相包含的方式對應食譜中的食材
func findRecipeIngredient(name string, ingredients []recipe.Ingredient) *recipe.Ingredient {
	target := normalizeLetters(name)
	if target == "" {
		return nil
	}
	for i := range ingredients {
		n := normalizeLetters(ingredients[i].Name)
		if n != "" && (strings.Contains(n, target) || strings.Contains(target, n)) {
			return &ingredients[i]
		}
	}
	return nil
}
