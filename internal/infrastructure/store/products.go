package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carboncart/backend/internal/domain"
	"github.com/jmoiron/sqlx"
)

type productRow struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Category string `db:"category"`
}

type platformRow struct {
	ProductID       string  `db:"product_id"`
	Platform        string  `db:"platform"`
	Price           float64 `db:"price"`
	CarbonFootprint float64 `db:"carbon_footprint"`
	Link            string  `db:"link"`
}

// FindByIDs retrieves the products with the given ids in one round trip per table.
// Unknown ids are skipped.
func (s *Store) FindByIDs(ctx context.Context, ids []domain.ProductID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT id, name, category FROM products WHERE id IN (?) ORDER BY id", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	return s.withPlatforms(ctx, rows)
}

// FindByID retrieves a product by ID
func (s *Store) FindByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind("SELECT id, name, category FROM products WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	products, err := s.withPlatforms(ctx, []productRow{row})
	if err != nil {
		return nil, err
	}
	return &products[0], nil
}

// List retrieves all products ordered by id
func (s *Store) List(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT id, name, category FROM products ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return s.withPlatforms(ctx, rows)
}

// Save inserts or replaces a product and its platform offers
func (s *Store) Save(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO products (id, name, category) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, category = excluded.category`),
		product.ID, product.Name, product.Category)
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM product_platforms WHERE product_id = ?"), product.ID); err != nil {
		return fmt.Errorf("failed to clear platform offers: %w", err)
	}

	insert := tx.Rebind(`
		INSERT INTO product_platforms (product_id, platform, position, price, carbon_footprint, link)
		VALUES (?, ?, ?, ?, ?, ?)`)
	for i, pd := range product.PlatformData {
		if _, err := tx.ExecContext(ctx, insert,
			product.ID, pd.Platform, i, pd.Price, pd.CarbonFootprint.Total, pd.Link); err != nil {
			return fmt.Errorf("failed to save platform offer %s: %w", pd.Platform, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "UPDATE catalog_revision SET revision = revision + 1 WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to bump catalogue revision: %w", err)
	}

	return tx.Commit()
}

// Revision returns the catalogue revision, bumped by every Save
func (s *Store) Revision(ctx context.Context) (int64, error) {
	var revision int64
	err := s.db.GetContext(ctx, &revision, "SELECT revision FROM catalog_revision WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read catalogue revision: %w", err)
	}
	return revision, nil
}

// withPlatforms loads the platform offers of rows and assembles products
func (s *Store) withPlatforms(ctx context.Context, rows []productRow) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(rows))
	if len(rows) == 0 {
		return products, nil
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	query, args, err := sqlx.In(`
		SELECT product_id, platform, price, carbon_footprint, link
		FROM product_platforms WHERE product_id IN (?)
		ORDER BY product_id, position`, ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var offers []platformRow
	if err := s.db.SelectContext(ctx, &offers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query platform offers: %w", err)
	}

	byProduct := make(map[string][]domain.PlatformData, len(rows))
	for _, o := range offers {
		byProduct[o.ProductID] = append(byProduct[o.ProductID], domain.PlatformData{
			Platform:        o.Platform,
			Price:           o.Price,
			CarbonFootprint: domain.CarbonFootprint{Total: o.CarbonFootprint},
			Link:            o.Link,
		})
	}

	for _, r := range rows {
		platforms := byProduct[r.ID]
		if platforms == nil {
			platforms = []domain.PlatformData{}
		}
		products = append(products, domain.Product{
			ID:           r.ID,
			Name:         r.Name,
			Category:     r.Category,
			PlatformData: platforms,
		})
	}
	return products, nil
}
