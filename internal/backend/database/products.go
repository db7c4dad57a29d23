package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const productColumns = "id, name, description, price_cents, image, image_variants, category_id, active"

var productOrder = map[ProductSort]string{
	SortNewest:    "id DESC",
	SortPriceAsc:  "price_cents ASC, id DESC",
	SortPriceDesc: "price_cents DESC, id DESC",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var (
		p          Product
		cents      int64
		image      sql.NullString
		variants   sql.NullString
		categoryID sql.NullInt64
		active     int
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &cents, &image, &variants, &categoryID, &active); err != nil {
		return nil, err
	}
	p.Price = decimal.New(cents, -2)
	p.Image = nullableString(image)
	p.ImageVariants = nullableString(variants)
	p.CategoryID = nullableInt64(categoryID)
	p.Active = active == 1
	return &p, nil
}

func (s *SQLiteDatabase) queryProducts(query string, args ...any) ([]*Product, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	products := make([]*Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func priceCents(price decimal.Decimal) int64 {
	return price.Shift(2).Round(0).IntPart()
}

// ListCatalog returns one page of active products and the total number of
// active products matching the filter.
func (s *SQLiteDatabase) ListCatalog(query ProductQuery) ([]*Product, int, error) {
	where := []string{"active = 1"}
	var args []any
	if query.CategoryID != nil {
		where = append(where, "category_id = ?")
		args = append(args, *query.CategoryID)
	}
	order, ok := productOrder[query.Sort]
	if !ok {
		order = productOrder[SortNewest]
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM products WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count catalog: %w", err)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = -1
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}
	sqlQuery := fmt.Sprintf("SELECT %s FROM products WHERE %s ORDER BY %s LIMIT ? OFFSET ?", productColumns, whereClause, order)
	products, err := s.queryProducts(sqlQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list catalog: %w", err)
	}
	return products, total, nil
}

// SearchProducts filters by status and a case-insensitive substring of the
// name or description. An empty term matches everything.
func (s *SQLiteDatabase) SearchProducts(term string, status ProductStatus) ([]*Product, error) {
	var where []string
	var args []any
	switch status {
	case StatusActive:
		where = append(where, "active = 1")
	case StatusInactive:
		where = append(where, "active = 0")
	}
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + term + "%"
		where = append(where, "(name LIKE ? OR description LIKE ?)")
		args = append(args, like, like)
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"

	products, err := s.queryProducts(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

func (s *SQLiteDatabase) LatestProducts(limit int) ([]*Product, error) {
	products, err := s.queryProducts("SELECT "+productColumns+" FROM products ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest products: %w", err)
	}
	return products, nil
}

func (s *SQLiteDatabase) GetProduct(id int64) (*Product, error) {
	p, err := scanProduct(s.db.QueryRow("SELECT "+productColumns+" FROM products WHERE id = ?", id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *SQLiteDatabase) CreateProduct(p *Product) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO products (name, description, price_cents, image, image_variants, category_id, active) VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.Name, p.Description, priceCents(p.Price), p.Image, p.ImageVariants, p.CategoryID, boolToInt(p.Active),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}
	return result.LastInsertId()
}

// UpdateProduct rewrites every editable column, including the image pair.
// The active flag is left untouched; use ToggleProduct for that.
func (s *SQLiteDatabase) UpdateProduct(p *Product) error {
	err := rowsAffected(s.db.Exec(
		"UPDATE products SET name = ?, description = ?, price_cents = ?, image = ?, image_variants = ?, category_id = ? WHERE id = ?",
		p.Name, p.Description, priceCents(p.Price), p.Image, p.ImageVariants, p.CategoryID, p.ID,
	))
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", p.ID, err)
	}
	return nil
}

func (s *SQLiteDatabase) ToggleProduct(id int64) error {
	err := rowsAffected(s.db.Exec("UPDATE products SET active = 1 - active WHERE id = ?", id))
	if err != nil {
		return fmt.Errorf("failed to toggle product %d: %w", id, err)
	}
	return nil
}

func (s *SQLiteDatabase) DeleteProduct(id int64) error {
	err := rowsAffected(s.db.Exec("DELETE FROM products WHERE id = ?", id))
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

func (s *SQLiteDatabase) CountProducts(activeOnly bool) (int, error) {
	query := "SELECT COUNT(*) FROM products"
	if activeOnly {
		query += " WHERE active = 1"
	}
	var n int
	if err := s.db.QueryRow(query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
