package gateway

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yeremiapane/restaurant-pos/pos"
)

// Catalog is what a terminal loads when it starts a shift.
type Catalog struct {
	Tables     []pos.Table
	Products   []pos.Product
	Categories []pos.Category
}

// Product looks a product up by id.
func (c Catalog) Product(id uint) (pos.Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return pos.Product{}, false
}

func (c Catalog) Table(id uint) (pos.Table, bool) {
	for _, t := range c.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return pos.Table{}, false
}

// LoadCatalog fetches tables, products and categories concurrently. The
// first failure cancels the other requests.
func (c *Client) LoadCatalog(ctx context.Context) (Catalog, error) {
	var cat Catalog
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tables, err := c.FetchTables(ctx)
		cat.Tables = tables
		return err
	})
	g.Go(func() error {
		products, err := c.FetchProducts(ctx)
		cat.Products = products
		return err
	})
	g.Go(func() error {
		categories, err := c.FetchCategories(ctx)
		cat.Categories = categories
		return err
	})

	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}
