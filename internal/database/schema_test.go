package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const migrationsDir = "../../migrations"

func TestMigrationFilesExist(t *testing.T) {
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_products_table.sql",
		"00003_create_orders_table.sql",
		"00004_create_order_refs_table.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		contentStr := string(content)
		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(contentStr, directive) {
				t.Errorf("Migration file %s missing %q directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	expectedTables := map[string]string{
		"users":      "00001_create_users_table.sql",
		"products":   "00002_create_products_table.sql",
		"orders":     "00003_create_orders_table.sql",
		"order_refs": "00004_create_order_refs_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		path := filepath.Join(migrationsDir, migrationFile)
		content, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", migrationFile, err)
			continue
		}

		contentStr := string(content)

		if !strings.Contains(contentStr, "CREATE TABLE IF NOT EXISTS "+tableName) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}
		if !strings.Contains(contentStr, "DROP TABLE IF EXISTS "+tableName) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestUsersTableHasRequiredColumns(t *testing.T) {
	content, err := os.ReadFile(filepath.Join(migrationsDir, "00001_create_users_table.sql"))
	if err != nil {
		t.Fatalf("Failed to read users migration: %v", err)
	}

	contentStr := string(content)
	requiredColumns := []string{
		"id UUID PRIMARY KEY",
		"username VARCHAR(100) UNIQUE",
		"password_hash VARCHAR",
		"created_at TIMESTAMP",
		"updated_at TIMESTAMP",
	}

	for _, column := range requiredColumns {
		if !strings.Contains(contentStr, column) {
			t.Errorf("Users table missing required column definition: %s", column)
		}
	}
}

func TestProductsTableConstraints(t *testing.T) {
	content, err := os.ReadFile(filepath.Join(migrationsDir, "00002_create_products_table.sql"))
	if err != nil {
		t.Fatalf("Failed to read products migration: %v", err)
	}

	contentStr := string(content)

	if !strings.Contains(contentStr, "slug VARCHAR(255) UNIQUE") {
		t.Error("Products table missing unique constraint on slug")
	}
	if !strings.Contains(contentStr, "CHECK (stock >= 0)") {
		t.Error("Products table missing non-negative stock constraint")
	}
	for _, category := range []string{"technology", "office", "services", "consulting"} {
		if !strings.Contains(contentStr, category) {
			t.Errorf("Products category constraint missing value: %s", category)
		}
	}
}

func TestOrdersTableConstraints(t *testing.T) {
	content, err := os.ReadFile(filepath.Join(migrationsDir, "00003_create_orders_table.sql"))
	if err != nil {
		t.Fatalf("Failed to read orders migration: %v", err)
	}

	contentStr := string(content)

	if !strings.Contains(contentStr, "ref VARCHAR(50) UNIQUE") {
		t.Error("Orders table missing unique constraint on ref")
	}
	for _, status := range []string{"Processing", "Shipped", "Completed", "Cancelled"} {
		if !strings.Contains(contentStr, status) {
			t.Errorf("Orders status constraint missing value: %s", status)
		}
	}
	for _, zone := range []string{"freetown", "western-area", "provinces"} {
		if !strings.Contains(contentStr, zone) {
			t.Errorf("Orders delivery zone constraint missing value: %s", zone)
		}
	}
}

func TestOrderRefsTableKeyedByDay(t *testing.T) {
	content, err := os.ReadFile(filepath.Join(migrationsDir, "00004_create_order_refs_table.sql"))
	if err != nil {
		t.Fatalf("Failed to read order_refs migration: %v", err)
	}

	contentStr := string(content)
	if !strings.Contains(contentStr, "day CHAR(8) PRIMARY KEY") {
		t.Error("order_refs table must be keyed by day")
	}
	if !strings.Contains(contentStr, "counter INTEGER NOT NULL") {
		t.Error("order_refs table missing counter column")
	}
}
