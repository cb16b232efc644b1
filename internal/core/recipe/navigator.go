package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidStepNumber n < 1
	ErrInvalidStepNumber = errors.New("recipe: step number must be at least 1")
	// ErrStepNotFound n 超過最後一步
	ErrStepNotFound = errors.New("recipe: step not found")
)

// Recipe 一個 session 的食譜；步驟以 slice 存放，cursor 為目前步驟索引。
// 不可併發使用，由 session 負責加鎖。
type Recipe struct {
	name        string
	url         string
	ingredients []Ingredient
	steps       []*Step
	cursor      int
}

// New 建立食譜，步驟依順序重新編號
func New(name, url string, ingredients []Ingredient, steps []*Step) *Recipe {
	for i, s := range steps {
		s.Number = i + 1
	}
	return &Recipe{
		name:        name,
		url:         url,
		ingredients: ingredients,
		steps:       steps,
	}
}

func (r *Recipe) Name() string              { return r.name }
func (r *Recipe) URL() string               { return r.url }
func (r *Recipe) Ingredients() []Ingredient { return r.ingredients }
func (r *Recipe) Steps() []*Step            { return r.steps }
func (r *Recipe) Len() int                  { return len(r.steps) }

// FirstStep 永遠回傳第 1 步，不受 cursor 影響
func (r *Recipe) FirstStep() *Step {
	if len(r.steps) == 0 {
		return nil
	}
	return r.steps[0]
}

// CurrentStep 目前步驟
func (r *Recipe) CurrentStep() *Step {
	if len(r.steps) == 0 {
		return nil
	}
	return r.steps[r.cursor]
}

// Next 回傳 s 的下一步，最後一步回傳 nil
func (r *Recipe) Next(s *Step) *Step {
	if s == nil || s.Number >= len(r.steps) {
		return nil
	}
	return r.steps[s.Number]
}

// Previous 回傳 s 的上一步，第一步回傳 nil
func (r *Recipe) Previous(s *Step) *Step {
	if s == nil || s.Number <= 1 || s.Number > len(r.steps) {
		return nil
	}
	return r.steps[s.Number-2]
}

// StepForward 前進一步；已在最後一步時回傳原步驟與 false
func (r *Recipe) StepForward() (*Step, bool) {
	if len(r.steps) == 0 {
		return nil, false
	}
	if r.cursor+1 >= len(r.steps) {
		return r.steps[r.cursor], false
	}
	r.cursor++
	return r.steps[r.cursor], true
}

// StepBackward 後退一步；已在第一步時回傳原步驟與 false
func (r *Recipe) StepBackward() (*Step, bool) {
	if len(r.steps) == 0 {
		return nil, false
	}
	if r.cursor == 0 {
		return r.steps[0], false
	}
	r.cursor--
	return r.steps[r.cursor], true
}

// NthStep 從第一步走 n-1 步，不移動 cursor
func (r *Recipe) NthStep(n int) (*Step, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidStepNumber, n)
	}
	if n > len(r.steps) {
		return nil, fmt.Errorf("%w: step %d of %d", ErrStepNotFound, n, len(r.steps))
	}
	return r.steps[n-1], nil
}

// SetCurrent 將 cursor 移到指定步驟（必須屬於本食譜）
func (r *Recipe) SetCurrent(s *Step) bool {
	if s == nil || s.Number < 1 || s.Number > len(r.steps) || r.steps[s.Number-1] != s {
		return false
	}
	r.cursor = s.Number - 1
	return true
}

// Reset 將 cursor 移回第一步
func (r *Recipe) Reset() {
	r.cursor = 0
}

// AllTools 全部步驟的工具聯集（排序）
func (r *Recipe) AllTools() []string {
	return r.union(func(s *Step) []string { return s.Tools })
}

// AllMethods 全部步驟的方法聯集（排序）
func (r *Recipe) AllMethods() []string {
	return r.union(func(s *Step) []string { return s.Methods })
}

func (r *Recipe) union(pick func(*Step) []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, s := range r.steps {
		for _, v := range pick(s) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}

type recipeJSON struct {
	Name        string       `json:"name"`
	URL         string       `json:"url"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []*Step      `json:"steps"`
}

func (r *Recipe) MarshalJSON() ([]byte, error) {
	ingredients := r.ingredients
	if ingredients == nil {
		ingredients = []Ingredient{}
	}
	steps := r.steps
	if steps == nil {
		steps = []*Step{}
	}
	return json.Marshal(recipeJSON{
		Name:        r.name,
		URL:         r.url,
		Ingredients: ingredients,
		Steps:       steps,
	})
}
