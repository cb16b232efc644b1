package extract

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
)

// Token 詞與 Penn Treebank 詞性
type Token struct {
	Text string
	Tag  string
}

// Tagger 分句、分詞與詞性標註
type Tagger interface {
	// Sentences 將文字切成句子
	Sentences(text string) ([]string, error)
	// Tag 標註單一句子
	Tag(sentence string) ([]Token, error)
	// Tokenize 只分詞，不標註
	Tokenize(text string) ([]string, error)
}

// Lemmatizer 將詞還原為原形
type Lemmatizer interface {
	Lemma(word string) string
}

// ProseTagger 以 prose 實作 Tagger
type ProseTagger struct{}

// NewProseTagger 建立 ProseTagger
func NewProseTagger() *ProseTagger {
	return &ProseTagger{}
}

func (ProseTagger) Sentences(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithTagging(false),
	)
	if err != nil {
		return nil, fmt.Errorf("segment sentences: %w", err)
	}
	var out []string
	for _, s := range doc.Sentences() {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

func (ProseTagger) Tag(sentence string) ([]Token, error) {
	doc, err := prose.NewDocument(sentence,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, fmt.Errorf("tag sentence: %w", err)
	}
	toks := doc.Tokens()
	out := make([]Token, 0, len(toks))
	for _, t := range toks {
		out = append(out, Token{Text: t.Text, Tag: t.Tag})
	}
	return out, nil
}

func (ProseTagger) Tokenize(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
		prose.WithTagging(false),
	)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	toks := doc.Tokens()
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Text)
	}
	return out, nil
}

// GolemLemmatizer 以 golem 英文字典實作 Lemmatizer
type GolemLemmatizer struct {
	lem *golem.Lemmatizer
}

// NewGolemLemmatizer 載入英文字典
func NewGolemLemmatizer() (*GolemLemmatizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer dictionary: %w", err)
	}
	return &GolemLemmatizer{lem: lem}, nil
}

func (g *GolemLemmatizer) Lemma(word string) string {
	return g.lem.Lemma(strings.ToLower(word))
}

// identityLemmatizer 字典無法載入時使用
type identityLemmatizer struct{}

func (identityLemmatizer) Lemma(word string) string { return strings.ToLower(word) }
