package database

import (
	"context"
	"testing"
	"time"

	"drillhole/models"

	"go.uber.org/zap"
)

func TestPgxConfig(t *testing.T) {
	dbc := models.DatabaseConfig{
		Host:     "db.example",
		Port:     "6543",
		Name:     "Nam Drillhole",
		User:     "geo user",
		Password: "pa ss'word",
	}

	cc, err := PgxConfig(dbc)
	if err != nil {
		t.Fatalf("PgxConfig() error = %v", err)
	}
	if cc.Host != dbc.Host {
		t.Errorf("Host = %q, want %q", cc.Host, dbc.Host)
	}
	if cc.Port != 6543 {
		t.Errorf("Port = %d, want 6543", cc.Port)
	}
	if cc.Database != dbc.Name {
		t.Errorf("Database = %q, want %q", cc.Database, dbc.Name)
	}
	if cc.User != dbc.User {
		t.Errorf("User = %q, want %q", cc.User, dbc.User)
	}
	if cc.Password != dbc.Password {
		t.Errorf("Password = %q, want %q", cc.Password, dbc.Password)
	}
	for _, fb := range cc.Fallbacks {
		if fb.Host != dbc.Host || fb.Port != 6543 {
			t.Errorf("fallback %s:%d does not target the configured host", fb.Host, fb.Port)
		}
	}
}

func TestPgxConfig_InvalidPort(t *testing.T) {
	tests := []string{"", "abc", "70000", "-1"}
	for _, port := range tests {
		t.Run(port, func(t *testing.T) {
			if _, err := PgxConfig(models.DatabaseConfig{Host: "localhost", Port: port}); err == nil {
				t.Errorf("PgxConfig(port=%q) error = nil, want error", port)
			}
		})
	}
}

func TestOpenPostgreSQL_DoesNotConnect(t *testing.T) {
	// ポート1には何も待ち受けていない
	dbc := models.DatabaseConfig{Host: "127.0.0.1", Port: "1", Name: "Nam_Drillhole", User: "postgres", Password: "postgres"}

	db, err := OpenPostgreSQL(dbc, zap.NewNop())
	if err != nil {
		t.Fatalf("OpenPostgreSQL() error = %v, want a lazy handle", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err == nil {
		t.Error("PingContext() error = nil, want connection failure")
	}
}

func TestOpenPostgreSQL_InvalidPort(t *testing.T) {
	if _, err := OpenPostgreSQL(models.DatabaseConfig{Host: "localhost", Port: "abc"}, zap.NewNop()); err == nil {
		t.Error("OpenPostgreSQL(port=abc) error = nil, want error")
	}
}
