package database

import (
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/localnerve/jam-build-testsheets/internal/config"
	"github.com/localnerve/jam-build-testsheets/internal/models"
	"gorm.io/gorm/logger"
)

func TestDialectorSelection(t *testing.T) {
	tests := []struct {
		dbType   string
		wantName string
	}{
		{dbType: "mysql", wantName: "mysql"},
		{dbType: "mariadb", wantName: "mysql"},
		{dbType: "postgres", wantName: "postgres"},
		{dbType: "postgresql", wantName: "postgres"},
		{dbType: "sqlite", wantName: "sqlite"},
		{dbType: "sqlserver", wantName: "sqlserver"},
		{dbType: "mssql", wantName: "sqlserver"},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			cfg := &config.Config{DBType: tt.dbType, DBHost: "db", DBPort: "3306", DBDatabase: "sheets", DBUser: "u", DBPassword: "p"}
			dialector, err := Dialector(cfg)
			if err != nil {
				t.Fatalf("Dialector failed: %v", err)
			}
			if dialector.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", dialector.Name(), tt.wantName)
			}
		})
	}
}

func TestDialectorUnsupported(t *testing.T) {
	_, err := Dialector(&config.Config{DBType: "oracle"})
	if err == nil || !strings.Contains(err.Error(), "unsupported database type") {
		t.Errorf("expected unsupported error, got %v", err)
	}
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(&config.Config{
		DBHost:     "mariadb",
		DBPort:     "3306",
		DBDatabase: "sheets",
		DBUser:     "app",
		DBPassword: "p@ss:word",
	})

	for _, want := range []string{"app:p@ss:word@tcp(mariadb:3306)/sheets", "parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN %q missing %q", dsn, want)
		}
	}
}

func TestOpenAndMigrate(t *testing.T) {
	dialector := sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	db, err := Open(dialector, 1, logger.Silent)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer Close(db)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	for _, model := range models.All() {
		if !db.Migrator().HasTable(model) {
			t.Errorf("missing table for %T", model)
		}
	}
	if !db.Migrator().HasIndex(&models.Permission{}, "idx_permissions_sheet_user") {
		t.Error("missing unique (sheet_id, user_id) index on permissions")
	}
}
