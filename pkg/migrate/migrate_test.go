package migrate

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/dbtest"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
	entries, err := fs.ReadDir(embedded, embeddedDir)
	if err != nil {
		t.Fatalf("read embedded: %v", err)
	}
	if len(entries) < 5 {
		t.Fatalf("expected at least 5 embedded migrations, got %d", len(entries))
	}
}

func TestMigrationsContainSchemas(t *testing.T) {
	checks := map[string][]string{
		"*_create_categories_table.sql": {"CREATE TABLE IF NOT EXISTS categories", "idx_categories_name"},
		"*_create_products_table.sql":   {"CREATE TABLE IF NOT EXISTS products", "ON DELETE SET NULL", "numeric(10,2)", "specs jsonb"},
		"*_create_orders_table.sql":     {"CREATE TABLE IF NOT EXISTS orders", "shipping_address jsonb", "DEFAULT 'pending'"},
		"*_create_users_table.sql":      {"CREATE TABLE IF NOT EXISTS users", "idx_users_email"},
	}
	for pattern, subs := range checks {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		if err != nil || len(matches) != 1 {
			t.Fatalf("expected one migration for %s, got %v (%v)", pattern, matches, err)
		}
		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read %s: %v", matches[0], err)
		}
		for _, sub := range subs {
			if !strings.Contains(string(data), sub) {
				t.Errorf("%s missing %q", matches[0], sub)
			}
		}
	}
}

func TestSeedMigrationMatchesSeedCategories(t *testing.T) {
	matches, _ := filepath.Glob(filepath.Join("migrations", "*_seed_categories.sql"))
	if len(matches) != 1 {
		t.Fatalf("expected seed migration, got %v", matches)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, category := range SeedCategories {
		if !strings.Contains(string(data), category.ID.String()) || !strings.Contains(string(data), "'"+category.Slug+"'") {
			t.Errorf("seed migration missing %s", category.Slug)
		}
	}
}

func TestAutoMigrateModelsSeedsOnce(t *testing.T) {
	conn := dbtest.Open(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := AutoMigrateModels(ctx, conn); err != nil {
			t.Fatalf("auto migrate run %d: %v", i, err)
		}
	}
	var count int64
	if err := conn.Model(&models.Category{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != int64(len(SeedCategories)) {
		t.Fatalf("expected %d seeded categories, got %d", len(SeedCategories), count)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Order Notes!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(path, "_add_order_notes.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
	if _, err := CreateSQLMigration(dir, "!!!"); err == nil {
		t.Fatal("expected error for empty sanitized name")
	}
}
