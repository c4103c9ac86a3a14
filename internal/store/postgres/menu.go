package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"menu-upload-service/internal/menuimport/model"
)

func (s *Store) ListCategories(ctx context.Context, restaurantID string) ([]model.Category, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id::text, name, restaurant_id
		FROM categories
		WHERE restaurant_id = $1
		ORDER BY name_key
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.RestaurantID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateCategories inserts unseen names with ON CONFLICT DO NOTHING and
// re-reads every requested key, so concurrent uploads share one record.
func (s *Store) CreateCategories(ctx context.Context, restaurantID string, names []string) ([]model.Category, error) {
	keys := make([]string, 0, len(names))
	display := make([]string, 0, len(names))
	for _, n := range names {
		if k := model.CategoryKey(n); k != "" {
			keys = append(keys, k)
			display = append(display, n)
		}
	}
	if len(keys) == 0 {
		return []model.Category{}, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO categories (restaurant_id, name, name_key)
		SELECT $1, n.name, n.name_key
		FROM unnest($2::text[], $3::text[]) AS n(name, name_key)
		ON CONFLICT (restaurant_id, name_key) DO NOTHING
	`, restaurantID, display, keys); err != nil {
		return nil, fmt.Errorf("insert categories: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id::text, name, restaurant_id, name_key
		FROM categories
		WHERE restaurant_id = $1 AND name_key = ANY($2::text[])
	`, restaurantID, keys)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]model.Category, len(keys))
	for rows.Next() {
		var (
			c   model.Category
			key string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.RestaurantID, &key); err != nil {
			rows.Close()
			return nil, err
		}
		byKey[key] = c
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	out := make([]model.Category, 0, len(keys))
	for _, k := range keys {
		if c, ok := byKey[k]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// InsertProducts writes the whole batch with one statement and returns
// the stored rows.
func (s *Store) InsertProducts(ctx context.Context, products []model.NewProduct) ([]model.InsertedProduct, error) {
	if len(products) == 0 {
		return []model.InsertedProduct{}, nil
	}
	var (
		restaurants  = make([]string, len(products))
		categories   = make([]*string, len(products))
		names        = make([]string, len(products))
		descriptions = make([]string, len(products))
		prices       = make([]float64, len(products))
	)
	for i, p := range products {
		restaurants[i] = p.RestaurantID
		categories[i] = p.CategoryID
		names[i] = p.Name
		descriptions[i] = p.Description
		prices[i] = p.Price
	}

	rows, err := s.db.Query(ctx, `
		INSERT INTO products (restaurant_id, category_id, name, description, price)
		SELECT p.restaurant_id, p.category_id::uuid, p.name, p.description, p.price
		FROM unnest($1::text[], $2::text[], $3::text[], $4::text[], $5::float8[])
			AS p(restaurant_id, category_id, name, description, price)
		RETURNING id::text, name
	`, restaurants, categories, names, descriptions, prices)
	if err != nil {
		return nil, err
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.InsertedProduct, error) {
		var p model.InsertedProduct
		err := row.Scan(&p.ID, &p.Name)
		return p, err
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("products", len(out)).Msg("products inserted")
	return out, nil
}
