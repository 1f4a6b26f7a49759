// Package catalog holds the product inventory and the pure filtering and
// ordering used by the category pages.
package catalog

import (
	"errors"
	"strings"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product input")
)

type Product struct {
	ID        int     `json:"id"`
	Nombre    string  `json:"nombre"`
	Categoria string  `json:"categoria"`
	Precio    float64 `json:"precio"`
	Imagen    string  `json:"imagen"`
	Stock     int     `json:"stock"`
}

func validate(p Product) error {
	if strings.TrimSpace(p.Nombre) == "" {
		return ErrInvalidProduct
	}
	return nil
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	copy(out, in)
	return out
}
