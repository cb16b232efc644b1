package recipe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecipe(n int) *Recipe {
	steps := make([]*Step, n)
	for i := range steps {
		steps[i] = &Step{Description: "step text"}
	}
	return New("Pie", "https://www.allrecipes.com/pie", nil, steps)
}

func TestNew_NumbersStepsSequentially(t *testing.T) {
	r := New("x", "", nil, []*Step{{Number: 7}, {Number: 3}, {Number: 9}})
	for i, s := range r.Steps() {
		assert.Equal(t, i+1, s.Number)
	}
	assert.Equal(t, 1, r.CurrentStep().Number)
}

func TestStepForward_ReachesLastStep(t *testing.T) {
	r := newTestRecipe(4)
	for want := 2; want <= 4; want++ {
		s, moved := r.StepForward()
		require.True(t, moved)
		assert.Equal(t, want, s.Number)
	}
	s, moved := r.StepForward()
	assert.False(t, moved)
	assert.Equal(t, 4, s.Number)
	assert.Equal(t, 4, r.CurrentStep().Number)
}

func TestStepBackward_AtBeginning(t *testing.T) {
	r := newTestRecipe(3)
	s, moved := r.StepBackward()
	assert.False(t, moved)
	assert.Equal(t, 1, s.Number)

	r.StepForward()
	s, moved = r.StepBackward()
	assert.True(t, moved)
	assert.Equal(t, 1, s.Number)
}

func TestFirstStep_NeverChanges(t *testing.T) {
	r := newTestRecipe(5)
	first := r.FirstStep()
	r.StepForward()
	r.StepForward()
	r.StepBackward()
	if s, err := r.NthStep(4); assert.NoError(t, err) {
		r.SetCurrent(s)
	}
	r.StepForward()
	r.StepForward()
	assert.Same(t, first, r.FirstStep())
	assert.Equal(t, 1, r.FirstStep().Number)
}

func TestNthStep(t *testing.T) {
	r := newTestRecipe(3)
	for k := 1; k <= 3; k++ {
		s, err := r.NthStep(k)
		require.NoError(t, err)
		assert.Equal(t, k, s.Number)
	}

	s, err := r.NthStep(4)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrStepNotFound)

	for _, n := range []int{0, -2} {
		s, err := r.NthStep(n)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, ErrInvalidStepNumber)
	}

	// NthStep 不移動 cursor
	assert.Equal(t, 1, r.CurrentStep().Number)
}

func TestNextPrevious(t *testing.T) {
	r := newTestRecipe(2)
	first := r.FirstStep()
	second := r.Next(first)
	require.NotNil(t, second)
	assert.Equal(t, 2, second.Number)
	assert.Nil(t, r.Next(second))
	assert.Same(t, first, r.Previous(second))
	assert.Nil(t, r.Previous(first))
}

func TestEmptyRecipe(t *testing.T) {
	r := New("empty", "", nil, nil)
	assert.Nil(t, r.FirstStep())
	assert.Nil(t, r.CurrentStep())
	s, moved := r.StepForward()
	assert.Nil(t, s)
	assert.False(t, moved)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"empty","url":"","ingredients":[],"steps":[]}`, string(data))
}

func TestSetCurrent_RejectsForeignStep(t *testing.T) {
	r := newTestRecipe(2)
	other := newTestRecipe(2)
	assert.False(t, r.SetCurrent(other.Steps()[1]))
	assert.True(t, r.SetCurrent(r.Steps()[1]))
	assert.Equal(t, 2, r.CurrentStep().Number)
}

func TestAllToolsAndMethods(t *testing.T) {
	r := New("x", "", nil, []*Step{
		{Tools: []string{"pan", "oven"}, Methods: []string{"bake"}},
		{Tools: []string{"bowl", "pan"}, Methods: []string{"stir", "bake"}},
	})
	assert.Equal(t, []string{"bowl", "oven", "pan"}, r.AllTools())
	assert.Equal(t, []string{"bake", "stir"}, r.AllMethods())
}

func TestIngredientJSON_NullFields(t *testing.T) {
	ing := Ingredient{Name: "flour", Quantity: "2", Measurement: "cups"}
	data, err := json.Marshal(ing)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"flour","quantity":"2","measurement":"cups","descriptor":null,"preparation":null}`, string(data))

	var back Ingredient
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ing, back)
	assert.Equal(t, "2 cups", back.Amount())
	assert.True(t, Ingredient{}.IsEmpty())
}
