package dialogue

import (
	"context"
	"errors"

	"recipe-assistant/internal/pkg/common"
)

// ErrNoResult 外部服務正常回應但沒有可用結果
var ErrNoResult = errors.New("dialogue: no usable result")

// Answer 一次回覆；Suggestions 為 nil 時序列化為 null
type Answer struct {
	Text        string             `json:"answer"`
	Suggestions common.Suggestions `json:"suggestions"`
}

// LLM 代管語言模型，輸入完整 prompt 回傳文字
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Meaning 字典中單一詞性的定義
type Meaning struct {
	PartOfSpeech string   `json:"partOfSpeech"`
	Definitions  []string `json:"definitions"`
}

// Dictionary 單字或片語的定義查詢
type Dictionary interface {
	Define(ctx context.Context, term string) ([]Meaning, error)
}

// Substitutes 食材替代品查詢
type Substitutes interface {
	Substitutes(ctx context.Context, ingredient string) ([]string, error)
}

// ChooseDefinition 優先取指定詞性的第一個定義，否則取第一個詞性的第一個定義
func ChooseDefinition(meanings []Meaning, pos PartOfSpeech) (string, bool) {
	if pos != PosAny {
		for _, m := range meanings {
			if m.PartOfSpeech == string(pos) && len(m.Definitions) > 0 {
				return m.Definitions[0], true
			}
		}
	}
	for _, m := range meanings {
		if len(m.Definitions) > 0 {
			return m.Definitions[0], true
		}
	}
	return "", false
}
