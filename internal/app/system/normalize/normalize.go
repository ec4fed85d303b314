// Package normalize canonicalizes user-supplied values before they are
// stored or compared.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// MealType lowercases a meal type and collapses the legacy plural
// "carnes" to "carne".
func MealType(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "carnes" {
		t = "carne"
	}
	return t
}

// IngredientNames flattens the polymorphic ingredient representation
// (plain strings or {name: ...} objects, as decoded from JSON) into a
// clean []string, dropping empty entries.
func IngredientNames(raw []any) []string {
	names := make([]string, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				names = append(names, s)
			}
		case map[string]any:
			if n, ok := v["name"].(string); ok {
				if s := strings.TrimSpace(n); s != "" {
					names = append(names, s)
				}
			}
		}
	}
	return names
}
