package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"menu-upload-service/internal/menuimport/model"
)

const categoryColumns = `id, name, restaurant_id`

func scanCategory(scanner interface{ Scan(dest ...any) error }) (model.Category, error) {
	var c model.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.RestaurantID)
	return c, err
}

// ListCategories returns the restaurant's categories ordered by name.
func (s *Store) ListCategories(ctx context.Context, restaurantID string) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE restaurant_id = ? ORDER BY name_key`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateCategories inserts the names that are new for the restaurant and
// returns the stored record for every name. Names that already exist under
// another casing resolve to the existing record.
func (s *Store) CreateCategories(ctx context.Context, restaurantID string, names []string) ([]model.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ins, err := tx.PrepareContext(ctx, `
		INSERT INTO categories (id, restaurant_id, name, name_key, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (restaurant_id, name_key) DO NOTHING`)
	if err != nil {
		return nil, err
	}
	defer ins.Close()

	sel, err := tx.PrepareContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE restaurant_id = ? AND name_key = ?`)
	if err != nil {
		return nil, err
	}
	defer sel.Close()

	now := formatTime(time.Now())
	out := make([]model.Category, 0, len(names))
	for _, name := range names {
		key := model.CategoryKey(name)
		if key == "" {
			continue
		}
		if _, err := ins.ExecContext(ctx, uuid.NewString(), restaurantID, name, key, now); err != nil {
			return nil, fmt.Errorf("insert category %q: %w", name, err)
		}
		c, err := scanCategory(sel.QueryRowContext(ctx, restaurantID, key))
		if err != nil {
			return nil, fmt.Errorf("read category %q: %w", name, err)
		}
		out = append(out, c)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertProducts stores all products in one transaction.
func (s *Store) InsertProducts(ctx context.Context, products []model.NewProduct) ([]model.InsertedProduct, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (id, restaurant_id, category_id, name, description, price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	now := formatTime(time.Now())
	out := make([]model.InsertedProduct, 0, len(products))
	for _, p := range products {
		id := uuid.NewString()
		var category sql.NullString
		if p.CategoryID != nil {
			category = sql.NullString{String: *p.CategoryID, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, id, p.RestaurantID, category, p.Name, p.Description, p.Price, now); err != nil {
			return nil, fmt.Errorf("insert product %q: %w", p.Name, err)
		}
		out = append(out, model.InsertedProduct{ID: id, Name: p.Name})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.log.Debug().Int("products", len(out)).Msg("products inserted")
	return out, nil
}

// CountProducts reports how many products the restaurant has.
func (s *Store) CountProducts(ctx context.Context, restaurantID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE restaurant_id = ?`, restaurantID).Scan(&n)
	return n, err
}
