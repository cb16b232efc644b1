package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Ingredients: 2 cups flour 1 egg",
		plainText("<p>Ingredients:</p><ul><li>2 cups flour</li><li>1 egg</li></ul>"))
	assert.Equal(t, "Preheat the oven.", plainText("<p>Preheat the oven.</p>"))
}
