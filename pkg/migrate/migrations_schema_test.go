package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rohanmalik/boutique-backend/pkg/migrate"
)

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestCartMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_carts.sql")

	checks := []string{
		"CREATE TABLE carts",
		"CREATE TABLE cart_items",
		"CREATE UNIQUE INDEX uq_carts_user",
		"CREATE UNIQUE INDEX uq_cart_items_variant ON cart_items (cart_id, product_id, size, color)",
		"quantity > 0",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrderMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE orders",
		"CREATE TABLE order_items",
		"CREATE UNIQUE INDEX uq_orders_number",
		"shipping_address jsonb",
		"billing_address  jsonb",
		"subtotal_paise",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s found", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
