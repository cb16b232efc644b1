package dialogue

import (
	"regexp"
	"strings"
)

// prefixBonus 問句以片語開頭時的加分，高於任何片語長度
const prefixBonus = 1000

// minOverlapRatio 詞袋重疊比例門檻
const minOverlapRatio = 0.5

var (
	reNonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	reSpaces  = regexp.MustCompile(`\s+`)
)

var classifierStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true,
	"what": true, "which": true, "when": true, "where": true, "who": true, "why": true,
	"yes": true, "no": true,
}

// MatchKind 片語命中方式
type MatchKind string

const (
	MatchNone      MatchKind = "none"
	MatchExact     MatchKind = "exact"
	MatchPrefix    MatchKind = "prefix"
	MatchSubstring MatchKind = "substring"
	MatchOverlap   MatchKind = "overlap"
)

// Match 分類結果與命中的片語
type Match struct {
	Intent Intent
	Phrase string
	Bank   string
	Kind   MatchKind
	Score  float64
}

type preparedPhrase struct {
	Phrase
	bank  string
	norm  string
	words map[string]bool
}

// Classifier 以片語庫做貪婪的最長比對；建立後唯讀，可併發使用
type Classifier struct {
	phrases []preparedPhrase
}

// NewClassifier 依 banks 順序建立；片語先正規化
func NewClassifier(banks []Bank) *Classifier {
	c := &Classifier{}
	for _, b := range banks {
		for _, p := range b.Phrases {
			norm := Normalize(p.Text)
			if norm == "" {
				continue
			}
			c.phrases = append(c.phrases, preparedPhrase{
				Phrase: p,
				bank:   b.Name,
				norm:   norm,
				words:  contentWords(norm),
			})
		}
	}
	return c
}

var defaultClassifier = NewClassifier(DefaultBanks())

// Classify 以內建片語庫分類
func Classify(question string) Intent {
	return defaultClassifier.Classify(question)
}

// Classify 回傳分類；沒有任何命中時為 none
func (c *Classifier) Classify(question string) Intent {
	return c.Match(question).Intent
}

// Match 依序比對：完全相符立即勝出；其次前綴、子字串，最後才是詞袋重疊。
// 較高層級的命中一律勝過較低層級，同層級比分數，同分保留先找到的片語。
func (c *Classifier) Match(question string) Match {
	best := Match{Intent: IntentNone, Kind: MatchNone}
	q := Normalize(question)
	if q == "" {
		return best
	}
	qWords := contentWords(q)
	substringFound := false

	for _, p := range c.phrases {
		if q == p.norm {
			return Match{Intent: p.Intent, Phrase: p.Text, Bank: p.bank, Kind: MatchExact, Score: float64(prefixBonus + len(p.norm))}
		}
		if p.ExactOnly {
			continue
		}

		isPrefix := strings.HasPrefix(q, p.norm+" ")
		if isPrefix || strings.Contains(q, p.norm) || strings.Contains(p.norm, q) {
			// 單一內容詞的問句不得命中長片語
			if len(qWords) == 1 && len(p.words) > 2 {
				continue
			}
			substringFound = true
			kind := MatchSubstring
			score := float64(len(p.norm))
			if isPrefix {
				kind = MatchPrefix
				score += prefixBonus
			}
			cand := Match{Intent: p.Intent, Phrase: p.Text, Bank: p.bank, Kind: kind, Score: score}
			if cand.beats(best) {
				best = cand
			}
			continue
		}

		if substringFound || len(p.words) == 0 {
			continue
		}
		shared := 0
		for w := range p.words {
			if qWords[w] {
				shared++
			}
		}
		ratio := float64(shared) / float64(len(p.words))
		if ratio < minOverlapRatio {
			continue
		}
		cand := Match{Intent: p.Intent, Phrase: p.Text, Bank: p.bank, Kind: MatchOverlap, Score: ratio * float64(len(p.norm))}
		if cand.beats(best) {
			best = cand
		}
	}
	return best
}

// kindRank 命中層級，數字越大越優先
var kindRank = map[MatchKind]int{
	MatchNone:      0,
	MatchOverlap:   1,
	MatchSubstring: 2,
	MatchPrefix:    3,
	MatchExact:     4,
}

func (m Match) beats(other Match) bool {
	if r, o := kindRank[m.Kind], kindRank[other.Kind]; r != o {
		return r > o
	}
	return m.Score > other.Score
}

// Normalize 小寫、去除標點、合併空白
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = reNonWord.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func contentWords(norm string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.Fields(norm) {
		if !classifierStopwords[w] {
			out[w] = true
		}
	}
	return out
}
