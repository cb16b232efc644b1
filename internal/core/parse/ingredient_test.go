package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recipe-assistant/internal/core/recipe"
)

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		in   string
		want recipe.Ingredient
	}{
		{"2 cups all-purpose flour", recipe.Ingredient{Quantity: "2", Measurement: "cups", Descriptor: "all-purpose", Name: "flour"}},
		{"1 1/2 tsp salt", recipe.Ingredient{Quantity: "1 1/2", Measurement: "tsp", Name: "salt"}},
		{"½ cup butter (softened)", recipe.Ingredient{Quantity: "½", Measurement: "cup", Name: "butter", Preparation: "softened"}},
		{"3 carrots, peeled, diced", recipe.Ingredient{Quantity: "3", Name: "carrots", Preparation: "peeled, diced"}},
		{"2 large eggs", recipe.Ingredient{Quantity: "2", Descriptor: "large", Name: "eggs"}},
		{"1 lb boneless skinless chicken breasts, cut into strips", recipe.Ingredient{
			Quantity: "1", Measurement: "lb", Descriptor: "boneless skinless", Name: "chicken breasts", Preparation: "cut into strips",
		}},
		{"2 tablespoons extra virgin olive oil", recipe.Ingredient{Quantity: "2", Measurement: "tablespoons", Descriptor: "extra virgin", Name: "olive oil"}},
		{"1 onion finely chopped", recipe.Ingredient{Quantity: "1", Name: "onion", Preparation: "finely chopped"}},
		{"salt to taste", recipe.Ingredient{Name: "salt", Preparation: "to taste"}},
		{"1½ cups milk", recipe.Ingredient{Quantity: "1½", Measurement: "cups", Name: "milk"}},
		{"sliced almonds", recipe.Ingredient{Name: "sliced almonds"}},
		{"2 cups sugar", recipe.Ingredient{Quantity: "2", Measurement: "cups", Name: "sugar"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIngredientLine(tt.in))
		})
	}
}

func TestParseIngredientLine_Empty(t *testing.T) {
	assert.True(t, ParseIngredientLine("   ").IsEmpty())
}

func TestCleanSpace(t *testing.T) {
	assert.Equal(t, "a b c", CleanSpace(" a  b \n c "))
}
