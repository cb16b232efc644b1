package recipe

import (
	"encoding/json"
	"strings"
)

// Ingredient 食材，空字串代表該欄位缺失（JSON 輸出為 null）
type Ingredient struct {
	Name        string
	Quantity    string
	Measurement string
	Descriptor  string
	Preparation string
}

// IsEmpty 所有欄位皆為空
func (i Ingredient) IsEmpty() bool {
	return i.Name == "" && i.Quantity == "" && i.Measurement == "" && i.Descriptor == "" && i.Preparation == ""
}

// DisplayName 描述詞 + 名稱
func (i Ingredient) DisplayName() string {
	return strings.TrimSpace(strings.Join(nonEmpty(i.Descriptor, i.Name), " "))
}

// Amount 數量 + 單位
func (i Ingredient) Amount() string {
	return strings.Join(nonEmpty(i.Quantity, i.Measurement), " ")
}

type ingredientJSON struct {
	Name        *string `json:"name"`
	Quantity    *string `json:"quantity"`
	Measurement *string `json:"measurement"`
	Descriptor  *string `json:"descriptor"`
	Preparation *string `json:"preparation"`
}

func (i Ingredient) MarshalJSON() ([]byte, error) {
	return json.Marshal(ingredientJSON{
		Name:        nullable(i.Name),
		Quantity:    nullable(i.Quantity),
		Measurement: nullable(i.Measurement),
		Descriptor:  nullable(i.Descriptor),
		Preparation: nullable(i.Preparation),
	})
}

func (i *Ingredient) UnmarshalJSON(data []byte) error {
	var raw ingredientJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = Ingredient{
		Name:        deref(raw.Name),
		Quantity:    deref(raw.Quantity),
		Measurement: deref(raw.Measurement),
		Descriptor:  deref(raw.Descriptor),
		Preparation: deref(raw.Preparation),
	}
	return nil
}

// TimeMention 步驟文字中的單一時間描述
type TimeMention struct {
	Text       string `json:"text"`
	MinSeconds int    `json:"min_s"`
	MaxSeconds int    `json:"max_s"`
	Approx     bool   `json:"approx"`
	PerSide    bool   `json:"per_side"`
	AtLeast    bool   `json:"at_least"`
	AtMost     bool   `json:"at_most"`
}

// TimeInfo 步驟時間；沒有數值時只保留 "until ..." 提示
type TimeInfo struct {
	MinSeconds  int           `json:"min_seconds,omitempty"`
	MaxSeconds  int           `json:"max_seconds,omitempty"`
	Duration    string        `json:"duration,omitempty"`
	Mentions    []TimeMention `json:"mentions"`
	Qualitative []string      `json:"qualitative,omitempty"`
}

// HasNumeric 是否解析到數值時間
func (t *TimeInfo) HasNumeric() bool {
	return t != nil && len(t.Mentions) > 0
}

// TemperatureMention 步驟文字中的單一溫度描述
type TemperatureMention struct {
	Text        string `json:"text"`
	Value       int    `json:"value,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Device      string `json:"device"`
	Qualitative string `json:"qualitative,omitempty"`
}

// TemperatureInfo 步驟溫度
type TemperatureInfo struct {
	Oven     string               `json:"oven,omitempty"`
	Stovetop string               `json:"stovetop,omitempty"`
	Mentions []TemperatureMention `json:"mentions"`
}

// Step 單一步驟；內容建立後不再變動
type Step struct {
	Number      int              `json:"step_number"`
	Description string           `json:"description"`
	Ingredients []string         `json:"ingredients"`
	Tools       []string         `json:"tools"`
	Methods     []string         `json:"methods"`
	Time        *TimeInfo        `json:"time"`
	Temperature *TemperatureInfo `json:"temperature"`
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
