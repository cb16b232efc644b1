package dialogue

import (
	"regexp"
	"strconv"
	"strings"
)

type writtenNumber struct {
	word string
	n    int
	re   *regexp.Regexp
}

// 序數在前，基數在後
var writtenNumbers = buildWrittenNumbers([]string{
	"first", "second", "third", "fourth", "fifth", "sixth", "seventh", "eighth", "ninth", "tenth",
	"eleventh", "twelfth", "thirteenth", "fourteenth", "fifteenth", "sixteenth", "seventeenth",
	"eighteenth", "nineteenth", "twentieth",
}, []string{
	"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
	"eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen",
	"nineteen", "twenty",
})

func buildWrittenNumbers(lists ...[]string) []writtenNumber {
	var out []writtenNumber
	for _, list := range lists {
		for i, w := range list {
			out = append(out, writtenNumber{
				word: w,
				n:    i + 1,
				re:   regexp.MustCompile(`\b(?:` + w + `\s+step|step\s+` + w + `)\b`),
			})
		}
	}
	return out
}

var (
	reStepNumeric = []*regexp.Regexp{
		regexp.MustCompile(`\bstep\s+(\d+)\b`),
		regexp.MustCompile(`\b(\d+)\s+step\b`),
		regexp.MustCompile(`\b(\d+)(?:st|nd|rd|th)\s+step\b`),
		regexp.MustCompile(`\bstep\s+(\d+)(?:st|nd|rd|th)\b`),
	}
	reAnyNumber = regexp.MustCompile(`\b(\d+)\b`)
)

// ExtractStepNumber 取出問句中的步驟編號：
// 英文數字緊鄰 "step"，再來是阿拉伯數字緊鄰 "step"，最後是任何獨立數字；都沒有時為 1。
// 數字大到無法表示時回傳 0，交給 NthStep 當作無效編號。
func ExtractStepNumber(question string) int {
	q := strings.ToLower(question)
	for _, wn := range writtenNumbers {
		if wn.re.MatchString(q) {
			return wn.n
		}
	}
	for _, re := range reStepNumeric {
		if m := re.FindStringSubmatch(q); m != nil {
			return atoiStep(m[1])
		}
	}
	if m := reAnyNumber.FindStringSubmatch(q); m != nil {
		return atoiStep(m[1])
	}
	return 1
}

// atoiStep 只會收到純數字，錯誤必定是溢位
func atoiStep(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
