package common

import (
	"bytes"
	"encoding/json"
)

// Suggestion 回覆下方的建議按鈕：顯示文字與填入輸入框的文字
type Suggestion struct {
	Display string
	Fill    string
}

// Suggestions 保留插入順序，序列化為 JSON 物件
type Suggestions []Suggestion

// NewSuggestions 以 display, fill 成對的參數建立
func NewSuggestions(pairs ...string) Suggestions {
	out := make(Suggestions, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Suggestion{Display: pairs[i], Fill: pairs[i+1]})
	}
	return out
}

// Get 依顯示文字取得填入文字
func (s Suggestions) Get(display string) (string, bool) {
	for _, sg := range s {
		if sg.Display == display {
			return sg.Fill, true
		}
	}
	return "", false
}

func (s Suggestions) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sg := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(sg.Display)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(sg.Fill)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Suggestions) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	out := Suggestions{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		var val string
		if err := dec.Decode(&val); err != nil {
			return err
		}
		out = append(out, Suggestion{Display: key, Fill: val})
	}
	*s = out
	return nil
}
