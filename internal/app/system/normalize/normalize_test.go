package normalize

import (
	"reflect"
	"testing"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMealType(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"carne", "carne"},
		{"CARNE", "carne"},
		{"carnes", "carne"},
		{"  Carnes ", "carne"},
		{"Pastas", "pastas"},
		{"vegetariano", "vegetariano"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := MealType(tt.input)
			if got != tt.want {
				t.Errorf("MealType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIngredientNames(t *testing.T) {
	tests := []struct {
		name  string
		input []any
		want  []string
	}{
		{"strings", []any{"pollo", "sal"}, []string{"pollo", "sal"}},
		{"objects", []any{map[string]any{"name": "pasta"}, map[string]any{"name": "tomate", "quantity": 2.0}}, []string{"pasta", "tomate"}},
		{"mixed", []any{"pollo", map[string]any{"name": "ajo"}}, []string{"pollo", "ajo"}},
		{"empty and junk dropped", []any{"", "  ", map[string]any{"quantity": 1.0}, 42}, []string{}},
		{"nil", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IngredientNames(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("IngredientNames(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
