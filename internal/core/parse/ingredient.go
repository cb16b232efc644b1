package parse

import (
	"regexp"
	"sort"
	"strings"

	"recipe-assistant/internal/core/recipe"
)

var (
	reQuantity = regexp.MustCompile(`^([0-9]+\s+[0-9]+/[0-9]+|[0-9]+/[0-9]+|[0-9]+(?:\.[0-9]+)?[¼½¾⅓⅔⅛⅜⅝⅞]?|[¼½¾⅓⅔⅛⅜⅝⅞])(?:\s+|$)`)
	reUnit     = regexp.MustCompile(`(?i)^(teaspoons?|tsp|tablespoons?|tbsp|cups?|ounces?|oz|pounds?|lbs?|grams?|g|kilograms?|kg|pinch(?:es)?|dash(?:es)?|cloves?|slices?|packages?|cans?|quarts?|pints?|sticks?|ml|l|litres?|liters?)\.?(?:\s+|$)`)
	reParen    = regexp.MustCompile(`\(([^)]*)\)`)
	reSpaces   = regexp.MustCompile(`\s+`)

	// 名稱開頭可剝離的描述詞，多字詞優先
	descriptorTerms = sortedByLength([]string{
		"boneless", "skinless", "bone-in", "skin-on", "extra virgin", "extra-virgin",
		"all-purpose", "unsalted", "salted", "fresh", "freshly", "frozen", "dried",
		"large", "medium", "small", "extra large", "extra-large", "whole", "low-sodium",
		"reduced-sodium", "light", "dark", "packed", "ripe", "raw", "cold", "warm",
		"lukewarm", "softened", "melted", "ground", "shredded", "grated",
	})

	// 名稱中任意位置的處理方式片語
	rePreparation = regexp.MustCompile(`(?i)\b(?:(?:finely|coarsely|roughly|thinly|thickly)\s+)?(?:chopped|minced|diced|sliced|cubed|crushed|julienned|peeled|trimmed|halved|quartered|beaten|sifted|drained|rinsed|cut\s+into|torn\s+into|broken\s+into)\b.*$|\b(?:to\s+taste|at\s+room\s+temperature|divided|for\s+serving|for\s+garnish|plus\s+more.*)$`)
)

func sortedByLength(terms []string) []string {
	out := append([]string(nil), terms...)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// CleanSpace thin space 與 nbsp 轉為一般空白並壓縮連續空白
func CleanSpace(s string) string {
	s = strings.NewReplacer("\u2009", " ", "\u00a0", " ").Replace(s)
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// ParseIngredientLine 解析純文字食材行：數量、單位、括號備註、逗號後的處理方式，
// 再從名稱剝離描述詞與處理片語。
func ParseIngredientLine(text string) recipe.Ingredient {
	t := CleanSpace(text)
	var ing recipe.Ingredient

	rest := t
	if m := reQuantity.FindStringSubmatchIndex(rest); m != nil {
		ing.Quantity = rest[m[2]:m[3]]
		rest = strings.TrimSpace(rest[m[1]:])
	}
	if m := reUnit.FindStringSubmatchIndex(rest); m != nil {
		ing.Measurement = rest[m[2]:m[3]]
		rest = strings.TrimSpace(rest[m[1]:])
	}

	if m := reParen.FindStringSubmatch(rest); m != nil {
		ing.Preparation = strings.TrimSpace(m[1])
	}
	rest = CleanSpace(reParen.ReplaceAllString(rest, ""))

	var parts []string
	for _, p := range strings.Split(rest, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	name := rest
	if len(parts) > 0 {
		name = parts[0]
	}
	if ing.Preparation == "" && len(parts) > 1 {
		ing.Preparation = strings.Join(parts[1:], ", ")
	}

	ing.Name, ing.Descriptor, ing.Preparation = refineName(name, ing.Preparation)
	return ing
}

// refineName 從名稱剝離開頭描述詞與處理片語；剝完為空時保留原名
func refineName(name, preparation string) (string, string, string) {
	original, originalPrep := name, preparation
	var descriptors []string

	for {
		lower := strings.ToLower(name)
		found := false
		for _, term := range descriptorTerms {
			if lower == term || strings.HasPrefix(lower, term+" ") {
				descriptors = append(descriptors, name[:len(term)])
				name = strings.TrimSpace(name[len(term):])
				found = true
				break
			}
		}
		if !found {
			break
		}
	}

	if loc := rePreparation.FindStringIndex(name); loc != nil {
		phrase := strings.Trim(strings.TrimSpace(name[loc[0]:]), ", ")
		name = strings.Trim(strings.TrimSpace(name[:loc[0]]), ", ")
		if preparation == "" {
			preparation = phrase
		} else if phrase != "" {
			preparation = phrase + ", " + preparation
		}
	}

	if name == "" {
		return original, "", originalPrep
	}
	return name, strings.Join(descriptors, " "), preparation
}
