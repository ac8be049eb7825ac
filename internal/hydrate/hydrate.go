// Package hydrate joins persisted tracked-brew records with live product
// data to produce display-ready brews.
package hydrate

import (
	"github.com/brewshelf/brewshelf/internal/brew"
	"github.com/brewshelf/brewshelf/internal/catalog"
	"github.com/brewshelf/brewshelf/internal/models"
	"github.com/brewshelf/brewshelf/internal/store"
)

// Catalog is an immutable snapshot of the products a record may reference:
// the built-in catalog plus the user's custom brews at hydration time.
type Catalog struct {
	products map[string]catalog.Product
	customs  map[string]models.CustomBrew
}

// Snapshot builds a lookup over the built-in products and the given custom
// brews. Take a fresh snapshot per hydration pass; the custom set changes
// under the user's feet.
func Snapshot(customs []models.CustomBrew) *Catalog {
	c := &Catalog{
		products: make(map[string]catalog.Product, len(catalog.Products)),
		customs:  make(map[string]models.CustomBrew, len(customs)),
	}
	for _, p := range catalog.Products {
		c.products[p.ID] = p
	}
	for _, cb := range customs {
		c.customs[cb.ID] = cb
	}
	return c
}

// Record merges one persisted record with its product. The record's own
// brewingDays/conditioningDays always win over the product defaults: the
// defaults were only the initial values at creation time. A record whose
// product no longer exists yields ok=false and is dropped by Records; its
// persisted row is left alone.
func (c *Catalog) Record(rec store.BrewRecord) (brew.TrackedBrew, bool) {
	b := brew.TrackedBrew{
		TrackingID:            rec.TrackingID,
		ProductID:             rec.ProductID,
		IsCustom:              rec.IsCustom,
		Status:                rec.Status,
		BrewingDays:           rec.BrewingDays,
		ConditioningDays:      rec.ConditioningDays,
		FermentationStartDate: rec.FermentationStartDate,
		ConditioningStartDate: rec.ConditioningStartDate,
		KegColor:              rec.KegColor,
		KegNickname:           rec.KegNickname,
	}

	if rec.IsCustom {
		cb, ok := c.customs[rec.ProductID]
		if !ok {
			return brew.TrackedBrew{}, false
		}
		b.Name = cb.Name
		b.Style = cb.Style
		b.Description = cb.Description
		b.ABV = cb.ABV
		b.BackgroundGradient = cb.BackgroundGradient
		return b, true
	}

	p, ok := c.products[rec.ProductID]
	if !ok {
		return brew.TrackedBrew{}, false
	}
	b.Name = p.Name
	b.Style = p.Style
	b.Description = p.Description
	b.ABV = p.ABV
	b.ImageURL = p.ImageURL
	return b, true
}

// Records hydrates a whole collection, dropping records with no live product.
func (c *Catalog) Records(records []store.BrewRecord) []brew.TrackedBrew {
	out := make([]brew.TrackedBrew, 0, len(records))
	for _, rec := range records {
		if b, ok := c.Record(rec); ok {
			out = append(out, b)
		}
	}
	return out
}
