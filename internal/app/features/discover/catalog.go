// internal/app/features/discover/catalog.go
package discover

import (
	"strings"

	"github.com/dalemusser/menucasa/internal/domain/models"
)

const (
	maxSuggestions = 12
	topCategories  = 3
)

// Suggestion is one catalog entry offered to the planner. These are
// starting points, not catalog meals; saving one goes through the
// normal meal endpoints.
type Suggestion struct {
	Name            string                 `json:"name"`
	Ingredients     []string               `json:"ingredients"`
	Type            string                 `json:"type"`
	NutritionalInfo models.NutritionalInfo `json:"nutritionalInfo"`
}

// categories doubles as the classifier's candidate labels. Order here
// is the fallback search order.
var categories = []string{
	"pasta", "carne", "pollo", "pescado", "vegetariano",
	"ensalada", "sopa", "arroz", "legumbres", "verduras",
}

// topSuggestions flattens the best-ranked categories, capped.
func topSuggestions(labels []string) []Suggestion {
	if len(labels) > topCategories {
		labels = labels[:topCategories]
	}
	out := []Suggestion{}
	for _, label := range labels {
		out = append(out, catalog[label]...)
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// searchCatalog is the no-classifier path: a case-insensitive
// substring match over name, type, and ingredients.
func searchCatalog(query string) []Suggestion {
	term := strings.ToLower(query)
	out := []Suggestion{}
	for _, cat := range categories {
		for _, s := range catalog[cat] {
			if !matchesTerm(s, term) {
				continue
			}
			out = append(out, s)
			if len(out) == maxSuggestions {
				return out
			}
		}
	}
	return out
}

func matchesTerm(s Suggestion, term string) bool {
	if strings.Contains(strings.ToLower(s.Name), term) || strings.Contains(s.Type, term) {
		return true
	}
	for _, ing := range s.Ingredients {
		if strings.Contains(strings.ToLower(ing), term) {
			return true
		}
	}
	return false
}

var catalog = map[string][]Suggestion{
	"pasta": {
		{
			Name:            "Espaguetis a la boloñesa",
			Ingredients:     []string{"espaguetis", "carne molida", "salsa de tomate", "cebolla", "ajo", "zanahoria", "apio", "aceite de oliva"},
			Type:            "pasta",
			NutritionalInfo: models.NutritionalInfo{Calories: 500, Protein: 30, Carbs: 60, Fat: 20},
		},
		{
			Name:            "Lasaña de verduras",
			Ingredients:     []string{"pasta de lasaña", "berenjena", "calabacín", "espinacas", "salsa bechamel", "queso", "salsa de tomate"},
			Type:            "pasta",
			NutritionalInfo: models.NutritionalInfo{Calories: 380, Protein: 15, Carbs: 45, Fat: 18},
		},
	},
	"carne": {
		{
			Name:            "Lomo saltado",
			Ingredients:     []string{"lomo de res", "cebolla", "tomate", "papa", "ají amarillo", "sillao", "vinagre", "arroz"},
			Type:            "carne",
			NutritionalInfo: models.NutritionalInfo{Calories: 550, Protein: 35, Carbs: 45, Fat: 25},
		},
		{
			Name:            "Estofado de ternera",
			Ingredients:     []string{"ternera", "patatas", "zanahorias", "cebolla", "ajo", "vino tinto", "caldo de carne", "laurel"},
			Type:            "carne",
			NutritionalInfo: models.NutritionalInfo{Calories: 480, Protein: 32, Carbs: 30, Fat: 22},
		},
	},
	"pollo": {
		{
			Name:            "Pollo al ajillo",
			Ingredients:     []string{"pechugas de pollo", "ajo", "perejil", "aceite de oliva", "vino blanco", "limón"},
			Type:            "pollo",
			NutritionalInfo: models.NutritionalInfo{Calories: 320, Protein: 38, Carbs: 5, Fat: 15},
		},
		{
			Name:            "Fajitas de pollo",
			Ingredients:     []string{"pechuga de pollo", "pimientos", "cebolla", "tortillas de trigo", "especias mexicanas", "limón"},
			Type:            "pollo",
			NutritionalInfo: models.NutritionalInfo{Calories: 400, Protein: 30, Carbs: 35, Fat: 18},
		},
	},
	"pescado": {
		{
			Name:            "Salmón al horno",
			Ingredients:     []string{"salmón", "limón", "eneldo", "aceite de oliva", "ajo", "pimienta"},
			Type:            "pescado",
			NutritionalInfo: models.NutritionalInfo{Calories: 350, Protein: 34, Carbs: 0, Fat: 22},
		},
		{
			Name:            "Bacalao a la vizcaína",
			Ingredients:     []string{"bacalao", "pimientos rojos", "cebolla", "ajo", "salsa de tomate", "aceite de oliva"},
			Type:            "pescado",
			NutritionalInfo: models.NutritionalInfo{Calories: 380, Protein: 32, Carbs: 15, Fat: 20},
		},
	},
	"vegetariano": {
		{
			Name:            "Curry de garbanzos",
			Ingredients:     []string{"garbanzos", "leche de coco", "especias curry", "cebolla", "tomate", "espinacas"},
			Type:            "vegetariano",
			NutritionalInfo: models.NutritionalInfo{Calories: 380, Protein: 15, Carbs: 52, Fat: 14},
		},
		{
			Name:            "Hamburguesa de lentejas",
			Ingredients:     []string{"lentejas", "cebolla", "zanahoria", "avena", "especias", "ajo"},
			Type:            "vegetariano",
			NutritionalInfo: models.NutritionalInfo{Calories: 320, Protein: 12, Carbs: 45, Fat: 10},
		},
	},
	"ensalada": {
		{
			Name:            "Ensalada César",
			Ingredients:     []string{"lechuga romana", "pollo", "pan tostado", "queso parmesano", "salsa césar"},
			Type:            "ensalada",
			NutritionalInfo: models.NutritionalInfo{Calories: 280, Protein: 22, Carbs: 12, Fat: 16},
		},
		{
			Name:            "Ensalada caprese",
			Ingredients:     []string{"tomate", "mozzarella fresca", "albahaca", "aceite de oliva", "vinagre balsámico"},
			Type:            "ensalada",
			NutritionalInfo: models.NutritionalInfo{Calories: 250, Protein: 12, Carbs: 8, Fat: 18},
		},
	},
	"sopa": {
		{
			Name:            "Sopa de tomate",
			Ingredients:     []string{"tomates", "cebolla", "ajo", "caldo de verduras", "albahaca", "crema"},
			Type:            "sopa",
			NutritionalInfo: models.NutritionalInfo{Calories: 180, Protein: 5, Carbs: 25, Fat: 8},
		},
		{
			Name:            "Crema de calabaza",
			Ingredients:     []string{"calabaza", "cebolla", "ajo", "caldo de verduras", "crema", "jengibre"},
			Type:            "sopa",
			NutritionalInfo: models.NutritionalInfo{Calories: 200, Protein: 4, Carbs: 30, Fat: 10},
		},
	},
	"arroz": {
		{
			Name:            "Paella valenciana",
			Ingredients:     []string{"arroz", "pollo", "conejo", "judías verdes", "garrofón", "azafrán", "tomate"},
			Type:            "arroz",
			NutritionalInfo: models.NutritionalInfo{Calories: 520, Protein: 28, Carbs: 65, Fat: 15},
		},
		{
			Name:            "Risotto de champiñones",
			Ingredients:     []string{"arroz arborio", "champiñones", "cebolla", "vino blanco", "caldo", "queso parmesano"},
			Type:            "arroz",
			NutritionalInfo: models.NutritionalInfo{Calories: 450, Protein: 12, Carbs: 70, Fat: 14},
		},
	},
	"legumbres": {
		{
			Name:            "Lentejas estofadas",
			Ingredients:     []string{"lentejas", "zanahoria", "cebolla", "ajo", "pimentón", "laurel", "chorizo"},
			Type:            "legumbres",
			NutritionalInfo: models.NutritionalInfo{Calories: 380, Protein: 22, Carbs: 50, Fat: 8},
		},
		{
			Name:            "Garbanzos con espinacas",
			Ingredients:     []string{"garbanzos", "espinacas", "ajo", "pimentón", "comino", "aceite de oliva"},
			Type:            "legumbres",
			NutritionalInfo: models.NutritionalInfo{Calories: 350, Protein: 18, Carbs: 45, Fat: 12},
		},
	},
	"verduras": {
		{
			Name:            "Ratatouille",
			Ingredients:     []string{"berenjena", "calabacín", "pimiento", "tomate", "cebolla", "ajo", "hierbas provenzales"},
			Type:            "verduras",
			NutritionalInfo: models.NutritionalInfo{Calories: 180, Protein: 5, Carbs: 25, Fat: 8},
		},
		{
			Name:            "Pisto manchego",
			Ingredients:     []string{"calabacín", "berenjena", "pimiento", "tomate", "cebolla", "ajo", "aceite de oliva"},
			Type:            "verduras",
			NutritionalInfo: models.NutritionalInfo{Calories: 200, Protein: 4, Carbs: 22, Fat: 12},
		},
	},
}
