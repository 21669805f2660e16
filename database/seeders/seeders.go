// Package seeders fills a fresh database with the bootstrap admin and a
// sample catalog. Every seeder is safe to run twice.
package seeders

import (
	"context"
	"fmt"
	"io"

	"gorm.io/gorm"
)

// Seeder populates one part of the database.
type Seeder struct {
	Name string
	Run  func(ctx context.Context, db *gorm.DB) error
}

// All returns the seeders run by `storefront seed`, in order.
func All(admin AdminConfig) []Seeder {
	return []Seeder{
		{Name: "admin", Run: Admin(admin)},
		{Name: "catalog", Run: Catalog},
	}
}

// RunAll executes seeders in order, stopping on the first error.
func RunAll(ctx context.Context, db *gorm.DB, seeders []Seeder, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if len(seeders) == 0 {
		fmt.Fprintln(out, "  (no seeders registered)")
		return nil
	}
	for _, s := range seeders {
		fmt.Fprintf(out, "  • Running seeder: %s … ", s.Name)
		if err := s.Run(ctx, db); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", s.Name, err)
		}
		fmt.Fprintln(out, "done")
	}
	return nil
}
