package migration

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"qcr/internal/domain"
)

// FieldSource lists the field definitions of a workspace
type FieldSource interface {
	ListSystemFields(ctx context.Context) ([]domain.FieldDefinition, error)
	ListCustomFields(ctx context.Context) ([]domain.FieldDefinition, error)
}

// Catalog holds the system and custom field definitions
type Catalog struct {
	System []domain.FieldDefinition
	Custom []domain.FieldDefinition
}

// LoadCatalog fetches system and custom fields concurrently
func LoadCatalog(ctx context.Context, src FieldSource) (*Catalog, error) {
	var cat Catalog
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fields, err := src.ListSystemFields(ctx)
		if err != nil {
			return fmt.Errorf("failed to list system fields: %w", err)
		}
		cat.System = fields
		return nil
	})
	g.Go(func() error {
		fields, err := src.ListCustomFields(ctx)
		if err != nil {
			return fmt.Errorf("failed to list custom fields: %w", err)
		}
		cat.Custom = fields
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// SystemSlug finds the slug of the system field named by title or slug
func (c *Catalog) SystemSlug(name string) (string, bool) {
	for _, f := range c.System {
		if f.Matches(name) && f.Slug != "" {
			return f.Slug, true
		}
	}
	return "", false
}

// CustomFieldID finds the id of the first custom field matching any of names
func (c *Catalog) CustomFieldID(names ...string) (int64, bool) {
	for _, name := range names {
		for _, f := range c.Custom {
			if f.ID != 0 && f.Matches(name) {
				return f.ID, true
			}
		}
	}
	return 0, false
}

// CustomFieldTitles lists the custom field titles, used in error messages
func (c *Catalog) CustomFieldTitles() []string {
	titles := make([]string, 0, len(c.Custom))
	for _, f := range c.Custom {
		titles = append(titles, f.Title)
	}
	return titles
}
