package database

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestDB(t *testing.T) DatabaseService {
	t.Helper()

	ds, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteDatabase error: %v", err)
	}
	_, err = ds.CreateDatabase()
	if err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })
	return ds
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func mustCreateProduct(t *testing.T, ds DatabaseService, name, price string, active bool) int64 {
	t.Helper()
	id, err := ds.CreateProduct(&Product{
		Name:        name,
		Description: "descricao de " + name,
		Price:       decimal.RequireFromString(price),
		Active:      active,
	})
	if err != nil {
		t.Fatalf("CreateProduct(%s) error: %v", name, err)
	}
	return id
}

func TestSQLite_DoesDatabaseExist(t *testing.T) {
	ds := newTestDB(t)
	if !ds.DoesDatabaseExist() {
		t.Fatalf("expected DoesDatabaseExist to return true")
	}
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase("postgres", "postgres://localhost")
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestNewDatabase_SQLite(t *testing.T) {
	ds, err := NewDatabase("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("NewDatabase error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })

	if _, err := ds.CreateCategory("Copos"); err != nil {
		t.Fatalf("expected migrated schema, CreateCategory error: %v", err)
	}
}

func TestSQLite_ProductRoundTrip(t *testing.T) {
	ds := newTestDB(t)

	categoryID, err := ds.CreateCategory("Panelas")
	if err != nil {
		t.Fatalf("CreateCategory error: %v", err)
	}
	variants := `{"480":"uploads/produtos/panela-480.webp","768":"uploads/produtos/panela-768.webp"}`
	id, err := ds.CreateProduct(&Product{
		Name:          "Panela",
		Description:   "Inox",
		Price:         decimal.RequireFromString("1234.5"),
		Image:         strPtr("uploads/produtos/panela-768.webp"),
		ImageVariants: strPtr(variants),
		CategoryID:    int64Ptr(categoryID),
		Active:        true,
	})
	if err != nil {
		t.Fatalf("CreateProduct error: %v", err)
	}

	p, err := ds.GetProduct(id)
	if err != nil {
		t.Fatalf("GetProduct error: %v", err)
	}
	if p.Name != "Panela" || p.Description != "Inox" || !p.Active {
		t.Errorf("unexpected product %+v", p)
	}
	if !p.Price.Equal(decimal.RequireFromString("1234.50")) {
		t.Errorf("expected price 1234.50, got %s", p.Price)
	}
	if p.Image == nil || *p.Image != "uploads/produtos/panela-768.webp" {
		t.Errorf("unexpected image %v", p.Image)
	}
	if p.ImageVariants == nil || *p.ImageVariants != variants {
		t.Errorf("unexpected variants %v", p.ImageVariants)
	}
	if p.CategoryID == nil || *p.CategoryID != categoryID {
		t.Errorf("unexpected category %v", p.CategoryID)
	}
}

func TestSQLite_ProductOptionalFieldsStayNil(t *testing.T) {
	ds := newTestDB(t)
	id := mustCreateProduct(t, ds, "Copo", "9.90", true)

	p, err := ds.GetProduct(id)
	if err != nil {
		t.Fatalf("GetProduct error: %v", err)
	}
	if p.Image != nil || p.ImageVariants != nil || p.CategoryID != nil {
		t.Errorf("expected nil optional fields, got image=%v variants=%v category=%v", p.Image, p.ImageVariants, p.CategoryID)
	}
}

func TestSQLite_GetProduct_NotFound(t *testing.T) {
	ds := newTestDB(t)
	_, err := ds.GetProduct(42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLite_UpdateProduct(t *testing.T) {
	ds := newTestDB(t)
	id := mustCreateProduct(t, ds, "Copo", "9.90", true)

	err := ds.UpdateProduct(&Product{
		ID:            id,
		Name:          "Copo Duplo",
		Description:   "Vidro",
		Price:         decimal.RequireFromString("19.99"),
		Image:         strPtr("uploads/produtos/copo.jpg"),
		ImageVariants: nil,
	})
	if err != nil {
		t.Fatalf("UpdateProduct error: %v", err)
	}
	p, err := ds.GetProduct(id)
	if err != nil {
		t.Fatalf("GetProduct error: %v", err)
	}
	if p.Name != "Copo Duplo" || p.Description != "Vidro" || p.Price.String() != "19.99" {
		t.Errorf("unexpected product after update %+v", p)
	}
	if !p.Active {
		t.Error("UpdateProduct must not change the active flag")
	}

	if err := ds.UpdateProduct(&Product{ID: 999, Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing product, got %v", err)
	}
}

func TestSQLite_ToggleAndDeleteProduct(t *testing.T) {
	ds := newTestDB(t)
	id := mustCreateProduct(t, ds, "Copo", "9.90", true)

	if err := ds.ToggleProduct(id); err != nil {
		t.Fatalf("ToggleProduct error: %v", err)
	}
	p, _ := ds.GetProduct(id)
	if p.Active {
		t.Error("expected product to be inactive after first toggle")
	}
	if err := ds.ToggleProduct(id); err != nil {
		t.Fatalf("ToggleProduct error: %v", err)
	}
	p, _ = ds.GetProduct(id)
	if !p.Active {
		t.Error("expected product to be active after second toggle")
	}

	if err := ds.DeleteProduct(id); err != nil {
		t.Fatalf("DeleteProduct error: %v", err)
	}
	if err := ds.DeleteProduct(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := ds.ToggleProduct(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound toggling deleted product, got %v", err)
	}
}

func TestSQLite_CountProducts(t *testing.T) {
	ds := newTestDB(t)
	mustCreateProduct(t, ds, "A", "1", true)
	mustCreateProduct(t, ds, "B", "2", false)
	mustCreateProduct(t, ds, "C", "3", true)

	all, err := ds.CountProducts(false)
	if err != nil {
		t.Fatalf("CountProducts error: %v", err)
	}
	active, err := ds.CountProducts(true)
	if err != nil {
		t.Fatalf("CountProducts error: %v", err)
	}
	if all != 3 || active != 2 {
		t.Errorf("expected 3 total and 2 active, got %d and %d", all, active)
	}
}
