package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	c := NewCategorizer(DefaultCategoryRules)

	tests := []struct {
		description string
		want        string
	}{
		{"Albert Heijn Amsterdam", "groceries"},
		{"ALBERT HEIJN 1234", "groceries"},
		{"Salaris januari", "salary"},
		{"Shell Station A2", "transport"},
		{"Netflix.com", "entertainment"},
		{"Huur appartement", "housing"},
		{"Apotheek De Brug", "healthcare"},
		{"bol.com bestelling", "shopping"},
		{"Completely unknown merchant", "other"},
		{"", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Categorize(tt.description))
		})
	}
}

func TestCategorizeFirstRuleWins(t *testing.T) {
	rules := []CategoryRule{
		{Keywords: []string{"store"}, Category: "first"},
		{Keywords: []string{"store"}, Category: "second"},
	}
	c := NewCategorizer(rules)
	assert.Equal(t, "first", c.Categorize("My Store"))
}

func TestCategorizeEmptyRules(t *testing.T) {
	c := NewCategorizer(nil)
	assert.Equal(t, "other", c.Categorize("anything"))
}
