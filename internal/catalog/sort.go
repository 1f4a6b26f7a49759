package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	SortRecent  = "reciente"
	SortOldest  = "popular"
	SortByName  = "nombre"
	DefaultSort = SortByName
)

var criterionLabels = map[string]string{
	SortRecent: "MÁS RECIENTE",
	SortOldest: "MÁS ANTIGUO",
	SortByName: "ORDENAR POR TÍTULO",
}

const fallbackLabel = "Seleccionar Orden"

// CriterionLabel is the button text shown for criterion.
func CriterionLabel(criterion string) string {
	if l, ok := criterionLabels[criterion]; ok {
		return l
	}
	return fallbackLabel
}

// FilterByCategory keeps the products whose category equals category,
// ignoring case. Order is preserved.
func FilterByCategory(list []Product, category string) []Product {
	want := strings.ToLower(category)
	out := make([]Product, 0, len(list))
	for _, p := range list {
		if strings.ToLower(p.Categoria) == want {
			out = append(out, p)
		}
	}
	return out
}

// SortBy returns a sorted copy of list. An unknown criterion returns the
// copy unchanged.
func SortBy(list []Product, criterion string) []Product {
	out := cloneProducts(list)
	switch criterion {
	case SortRecent:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	case SortByName:
		// collators are not safe for concurrent use
		c := collate.New(language.Spanish)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Nombre, out[j].Nombre) < 0
		})
	}
	return out
}
