// Package resource shapes models into the exact JSON an endpoint returns,
// independent of their storage tags.
//
//	var UnitResource resource.Transformer[models.Unit] = func(u models.Unit) resource.Map {
//	    return resource.Map{"id": u.ID, "tag": u.UniqueTag, "status": u.Status}
//	}
//
//	c.Success(resource.Many(UnitResource, units))
package resource

import "github.com/shashiranjanraj/storefront/pkg/collection"

// Map is a convenient alias for a transformer's output.
type Map = map[string]interface{}

// Transformer converts one model instance into a Map.
type Transformer[T any] func(T) Map

// One transforms a single value.
func One[T any](t Transformer[T], v T) Map {
	return t(v)
}

// Many transforms every item. An empty input yields an empty (not nil) slice
// so it encodes as [].
func Many[T any](t Transformer[T], items []T) []Map {
	return collection.Map(items, t)
}

// Optional returns nil for a nil pointer and the pointee otherwise.
func Optional[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
