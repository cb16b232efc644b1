package dialogue

import "recipe-assistant/internal/core/recipe"

// Node 一輪對話：問題、分類、回答與當時的步驟
type Node struct {
	Question string
	Intent   Intent
	Answer   Answer
	Step     *recipe.Step
}

// HistoryEntry 匯出用的扁平結構
type HistoryEntry struct {
	Question   string `json:"question"`
	Type       Intent `json:"type"`
	Answer     Answer `json:"answer"`
	StepNumber *int   `json:"step_number"`
}

// History 只能附加的對話紀錄，另有一個可前後移動的 cursor。
// 不可併發使用。
type History struct {
	nodes  []*Node
	cursor int
}

// NewHistory 建立空紀錄
func NewHistory() *History {
	return &History{cursor: -1}
}

// Add 附加一筆並將 cursor 移到最新
func (h *History) Add(question string, intent Intent, answer Answer, step *recipe.Step) *Node {
	n := &Node{Question: question, Intent: intent, Answer: answer, Step: step}
	h.nodes = append(h.nodes, n)
	h.cursor = len(h.nodes) - 1
	return n
}

// Len 筆數
func (h *History) Len() int { return len(h.nodes) }

// Last 最新一筆，空紀錄回傳 nil
func (h *History) Last() *Node {
	if len(h.nodes) == 0 {
		return nil
	}
	return h.nodes[len(h.nodes)-1]
}

// Current cursor 所在的一筆
func (h *History) Current() *Node {
	if h.cursor < 0 {
		return nil
	}
	return h.nodes[h.cursor]
}

// StepForward 往新的方向移動；已在最新時回傳原節點與 false
func (h *History) StepForward() (*Node, bool) {
	if h.cursor < 0 {
		return nil, false
	}
	if h.cursor+1 >= len(h.nodes) {
		return h.nodes[h.cursor], false
	}
	h.cursor++
	return h.nodes[h.cursor], true
}

// StepBackward 往舊的方向移動；已在最舊時回傳原節點與 false
func (h *History) StepBackward() (*Node, bool) {
	if h.cursor < 0 {
		return nil, false
	}
	if h.cursor == 0 {
		return h.nodes[0], false
	}
	h.cursor--
	return h.nodes[h.cursor], true
}

// FindLastWith 由新到舊找第一筆符合條件者
func (h *History) FindLastWith(match func(*Node) bool) *Node {
	for i := len(h.nodes) - 1; i >= 0; i-- {
		if match(h.nodes[i]) {
			return h.nodes[i]
		}
	}
	return nil
}

// Entries 由舊到新匯出
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, 0, len(h.nodes))
	for _, n := range h.nodes {
		e := HistoryEntry{Question: n.Question, Type: n.Intent, Answer: n.Answer}
		if n.Step != nil {
			num := n.Step.Number
			e.StepNumber = &num
		}
		out = append(out, e)
	}
	return out
}
