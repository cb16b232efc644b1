package dialogue

import (
	"regexp"
	"strings"
)

// PartOfSpeech 字典查詢偏好的詞性；空字串代表不限
type PartOfSpeech string

const (
	PosAny  PartOfSpeech = ""
	PosNoun PartOfSpeech = "noun"
	PosVerb PartOfSpeech = "verb"
)

var (
	reHowDoI = []*regexp.Regexp{
		regexp.MustCompile(`^how\s+do\s+i\s+`),
		regexp.MustCompile(`^how\s+do\s+you\s+`),
		regexp.MustCompile(`^how\s+to\s+`),
		regexp.MustCompile(`^how\s+can\s+i\s+`),
		regexp.MustCompile(`^how\s+should\s+i\s+`),
	}
	reWhatIs = []*regexp.Regexp{
		regexp.MustCompile(`^what\s+is\s+a\s+`),
		regexp.MustCompile(`^what\s+is\s+an\s+`),
		regexp.MustCompile(`^what\s+is\s+`),
		regexp.MustCompile(`^what's\s+a\s+`),
		regexp.MustCompile(`^what's\s+an\s+`),
		regexp.MustCompile(`^what's\s+`),
		regexp.MustCompile(`^what\s+are\s+`),
	}
)

// ClarificationSubject 取出「how do I X」或「what is X」的 X。
// how 類型視為動詞；what 類型只有 X 恰為食材或工具名稱時才視為名詞。
func ClarificationSubject(question string, ingredients, tools []string) (string, PartOfSpeech, bool) {
	q := strings.TrimSpace(strings.ToLower(question))
	q = strings.ReplaceAll(q, "’", "'")

	for _, re := range reHowDoI {
		if loc := re.FindStringIndex(q); loc != nil {
			return trimSubject(q[loc[1]:]), PosVerb, true
		}
	}
	for _, re := range reWhatIs {
		loc := re.FindStringIndex(q)
		if loc == nil {
			continue
		}
		subject := trimSubject(q[loc[1]:])
		for _, names := range [][]string{ingredients, tools} {
			for _, name := range names {
				if name != "" && subject == strings.ToLower(name) {
					return subject, PosNoun, true
				}
			}
		}
		return subject, PosAny, true
	}
	return "", PosAny, false
}

func trimSubject(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "?"))
}
