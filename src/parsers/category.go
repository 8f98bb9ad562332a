package parsers

import "strings"

// CategoryRule maps a set of description keywords to a spending
// category. Rules are evaluated in order; the first rule with any
// matching keyword wins.
type CategoryRule struct {
	Keywords []string
	Category string
}

// DefaultCategoryRules is the built-in categorization table for Dutch
// bank statements. Extend by appending rules; earlier rules keep
// precedence.
var DefaultCategoryRules = []CategoryRule{
	{Keywords: []string{"salaris", "salary", "loon", "wages"}, Category: "salary"},
	{Keywords: []string{"albert heijn", "jumbo", "lidl", "aldi", "supermarkt", "grocery"}, Category: "groceries"},
	{Keywords: []string{"shell", "esso", "benzine", "petrol", "fuel", "train", "taxi", "parking", "ns.nl"}, Category: "transport"},
	{Keywords: []string{"restaurant", "cafe", "mcdonald", "kfc", "thuisbezorgd", "dining"}, Category: "dining"},
	{Keywords: []string{"huur", "rent", "hypotheek", "mortgage", "verzekering", "insurance"}, Category: "housing"},
	{Keywords: []string{"netflix", "spotify", "cinema", "pathe", "theater", "subscription"}, Category: "entertainment"},
	{Keywords: []string{"vodafone", "kpn", "ziggo", "telecom", "internet", "electricity", "energie", "water"}, Category: "utilities"},
	{Keywords: []string{"apotheek", "pharmacy", "huisarts", "doctor", "hospital", "dentist", "tandarts"}, Category: "healthcare"},
	{Keywords: []string{"amazon", "bol.com", "zalando", "hema", "action", "clothing"}, Category: "shopping"},
}

// Categorizer maps a free-text merchant/description string to one of a
// fixed set of spending categories.
type Categorizer struct {
	rules []CategoryRule
}

func NewCategorizer(rules []CategoryRule) *Categorizer {
	return &Categorizer{rules: rules}
}

// Categorize matches the lowercased description against the rule table.
// It never fails; unmatched descriptions fall back to "other".
func (c *Categorizer) Categorize(description string) string {
	desc := strings.ToLower(description)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return rule.Category
			}
		}
	}
	return "other"
}
