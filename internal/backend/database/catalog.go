package database

import (
	"database/sql"
	"errors"
	"fmt"
)

func (s *SQLiteDatabase) ListCategories() ([]*Category, error) {
	rows, err := s.db.Query("SELECT id, name FROM categories ORDER BY name COLLATE NOCASE, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	categories := make([]*Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (s *SQLiteDatabase) CreateCategory(name string) (int64, error) {
	result, err := s.db.Exec("INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert category: %w", err)
	}
	return result.LastInsertId()
}

// DeleteCategory removes the category and leaves its products uncategorized.
func (s *SQLiteDatabase) DeleteCategory(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("UPDATE products SET category_id = NULL WHERE category_id = ?", id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to detach products from category %d: %w", id, err)
	}
	if err := rowsAffected(tx.Exec("DELETE FROM categories WHERE id = ?", id)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	return tx.Commit()
}

const bannerColumns = "id, title, subtitle, caption, image, image_variants, show_overlay, show_button"

func (s *SQLiteDatabase) ListBanners(limit int) ([]*HeroBanner, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query("SELECT "+bannerColumns+" FROM hero_banners ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	banners := make([]*HeroBanner, 0)
	for rows.Next() {
		var (
			b        HeroBanner
			image    sql.NullString
			variants sql.NullString
			overlay  int
			button   int
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.Subtitle, &b.Caption, &image, &variants, &overlay, &button); err != nil {
			return nil, err
		}
		b.Image = nullableString(image)
		b.ImageVariants = nullableString(variants)
		b.ShowOverlay = overlay == 1
		b.ShowButton = button == 1
		banners = append(banners, &b)
	}
	return banners, rows.Err()
}

func (s *SQLiteDatabase) CreateBanner(b *HeroBanner) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO hero_banners (title, subtitle, caption, image, image_variants, show_overlay, show_button) VALUES (?, ?, ?, ?, ?, ?, ?)",
		b.Title, b.Subtitle, b.Caption, b.Image, b.ImageVariants, boolToInt(b.ShowOverlay), boolToInt(b.ShowButton),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert banner: %w", err)
	}
	return result.LastInsertId()
}

func (s *SQLiteDatabase) DeleteBanner(id int64) error {
	if err := rowsAffected(s.db.Exec("DELETE FROM hero_banners WHERE id = ?", id)); err != nil {
		return fmt.Errorf("failed to delete banner %d: %w", id, err)
	}
	return nil
}

func (s *SQLiteDatabase) CountBanners() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM hero_banners").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count banners: %w", err)
	}
	return n, nil
}

// GetContact returns the most recent contact row
func (s *SQLiteDatabase) GetContact() (*Contact, error) {
	var c Contact
	err := s.db.QueryRow("SELECT id, whatsapp, instagram, address FROM contact ORDER BY id DESC LIMIT 1").
		Scan(&c.ID, &c.WhatsApp, &c.Instagram, &c.Address)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// SaveContact updates the most recent contact row, or inserts one when the
// table is empty. c.ID is set to the stored row.
func (s *SQLiteDatabase) SaveContact(c *Contact) error {
	current, err := s.GetContact()
	switch {
	case err == nil:
		_, err = s.db.Exec("UPDATE contact SET whatsapp = ?, instagram = ?, address = ? WHERE id = ?",
			c.WhatsApp, c.Instagram, c.Address, current.ID)
		if err != nil {
			return fmt.Errorf("failed to update contact: %w", err)
		}
		c.ID = current.ID
		return nil
	case errors.Is(err, ErrNotFound):
		result, err := s.db.Exec("INSERT INTO contact (whatsapp, instagram, address) VALUES (?, ?, ?)",
			c.WhatsApp, c.Instagram, c.Address)
		if err != nil {
			return fmt.Errorf("failed to insert contact: %w", err)
		}
		c.ID, err = result.LastInsertId()
		return err
	default:
		return fmt.Errorf("failed to load contact: %w", err)
	}
}

func (s *SQLiteDatabase) EnsureDefaultContact(whatsapp string) error {
	_, err := s.db.Exec(
		"INSERT INTO contact (whatsapp, instagram, address) SELECT ?, '', '' WHERE NOT EXISTS (SELECT 1 FROM contact)",
		whatsapp,
	)
	if err != nil {
		return fmt.Errorf("failed to seed contact: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListFAQ() ([]*FAQ, error) {
	rows, err := s.db.Query("SELECT id, question, answer FROM faq ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list faq: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*FAQ, 0)
	for rows.Next() {
		var f FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer); err != nil {
			return nil, err
		}
		entries = append(entries, &f)
	}
	return entries, rows.Err()
}

func (s *SQLiteDatabase) CreateFAQ(question, answer string) (int64, error) {
	result, err := s.db.Exec("INSERT INTO faq (question, answer) VALUES (?, ?)", question, answer)
	if err != nil {
		return 0, fmt.Errorf("failed to insert faq entry: %w", err)
	}
	return result.LastInsertId()
}

func (s *SQLiteDatabase) DeleteFAQ(id int64) error {
	if err := rowsAffected(s.db.Exec("DELETE FROM faq WHERE id = ?", id)); err != nil {
		return fmt.Errorf("failed to delete faq entry %d: %w", id, err)
	}
	return nil
}
