// Package resource provides API resource transformers: a Transformer
// decides exactly what JSON shape a model is exposed as.
//
//	var Product resource.Transformer[models.Product] = func(p models.Product) resource.Map {
//	    return resource.Map{"id": p.ID, "name": p.Name}
//	}
//
//	c.Success(resource.One(Product, p))
//	items, err := resource.Collect(Product, repo.List(ctx, filter))
package resource

import (
	"iter"
)

// Map is the output of a Transformer.
type Map = map[string]any

// Transformer converts one model instance into a Map.
type Transformer[T any] func(T) Map

// One transforms a single value.
func One[T any](t Transformer[T], v T) Map {
	return t(v)
}

// Slice transforms every element of items. The result is never nil, so it
// encodes as [] rather than null.
func Slice[T any](t Transformer[T], items []T) []Map {
	out := make([]Map, 0, len(items))
	for _, v := range items {
		out = append(out, t(v))
	}
	return out
}

// Collect drains a lazy sequence through t, stopping at the first error.
func Collect[T any](t Transformer[T], seq iter.Seq2[T, error]) ([]Map, error) {
	out := make([]Map, 0)
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, t(v))
	}
	return out, nil
}

// Page is a list response with the window that produced it.
type Page struct {
	Items  []Map `json:"items"`
	Count  int   `json:"count"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// NewPage wraps items with their limit/offset window.
func NewPage(items []Map, limit, offset int) Page {
	return Page{Items: items, Count: len(items), Limit: limit, Offset: offset}
}
