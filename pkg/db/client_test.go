package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testProduct struct {
	ID   int
	Slug string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testProduct{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}

func countProducts(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := conn.Model(&testProduct{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return count
}

func TestWithTxCommits(t *testing.T) {
	conn := newTestDB(t)
	client := &Client{conn: conn}

	if err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&testProduct{Slug: "terracotta-planter"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}
	if got := countProducts(t, conn); got != 1 {
		t.Fatalf("expected 1 row after commit, got %d", got)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	conn := newTestDB(t)
	client := &Client{conn: conn}

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&testProduct{Slug: "clay-diya"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to surface the callback error")
	}
	if got := countProducts(t, conn); got != 0 {
		t.Fatalf("expected rollback to leave 0 rows, got %d", got)
	}
}

func TestPing(t *testing.T) {
	client := &Client{conn: newTestDB(t)}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not be a unique violation")
	}
	err := errors.New(`duplicate key value violates unique constraint "products_slug_key"`)
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected generic duplicate key detection")
	}
	if !IsUniqueViolation(err, "products_slug_key") {
		t.Fatal("expected constraint name detection")
	}
	if IsUniqueViolation(err, "users_email_key") {
		t.Fatal("mismatched constraint name should not match")
	}
}
