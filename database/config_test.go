package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"drillhole/models"
)

var dbEnvVars = []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASS"}

// unsetEnv removes a variable for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadConfig_DatabaseDefaults(t *testing.T) {
	for _, key := range dbEnvVars {
		unsetEnv(t, key)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"host", cfg.Database.Host, "localhost"},
		{"port", cfg.Database.Port, "5432"},
		{"name", cfg.Database.Name, "Nam_Drillhole"},
		{"user", cfg.Database.User, "postgres"},
		{"password", cfg.Database.Password, "postgres"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoadConfig_DatabaseFromEnv(t *testing.T) {
	tests := []struct {
		env   string
		value string
		field func(models.DatabaseConfig) string
	}{
		{"DB_HOST", "db.internal", func(d models.DatabaseConfig) string { return d.Host }},
		{"DB_PORT", "not-a-port", func(d models.DatabaseConfig) string { return d.Port }},
		{"DB_NAME", "Drillholes Test", func(d models.DatabaseConfig) string { return d.Name }},
		{"DB_USER", "geo", func(d models.DatabaseConfig) string { return d.User }},
		{"DB_PASS", "p@ss word'", func(d models.DatabaseConfig) string { return d.Password }},
		{"DB_HOST", "", func(d models.DatabaseConfig) string { return d.Host }},
		{"DB_PORT", "", func(d models.DatabaseConfig) string { return d.Port }},
		{"DB_NAME", "", func(d models.DatabaseConfig) string { return d.Name }},
		{"DB_USER", "", func(d models.DatabaseConfig) string { return d.User }},
		{"DB_PASS", "", func(d models.DatabaseConfig) string { return d.Password }},
	}

	for _, tt := range tests {
		t.Run(tt.env+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			cfg, err := LoadConfig("")
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if got := tt.field(cfg.Database); got != tt.value {
				t.Errorf("%s resolved to %q, want %q", tt.env, got, tt.value)
			}
		})
	}
}

func TestLoadConfig_AmbientDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.StaticDir != "../frontend" {
		t.Errorf("StaticDir = %q, want ../frontend", cfg.Server.StaticDir)
	}
	if cfg.Server.Mode != "debug" {
		t.Errorf("Mode = %q, want debug", cfg.Server.Mode)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if len(cfg.CORS.AllowOrigins) != 1 || cfg.CORS.AllowOrigins[0] != "*" {
		t.Errorf("AllowOrigins = %v, want [*]", cfg.CORS.AllowOrigins)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
	}
	if cfg.Redis.Enabled {
		t.Error("Redis.Enabled = true, want false")
	}
}

func TestLoadConfig_AmbientFromEnv(t *testing.T) {
	t.Setenv("SERVER_MODE", "release")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Mode != "release" {
		t.Errorf("Mode = %q, want release", cfg.Server.Mode)
	}
	if len(cfg.CORS.AllowOrigins) != 2 || cfg.CORS.AllowOrigins[1] != "http://b.example" {
		t.Errorf("AllowOrigins = %v", cfg.CORS.AllowOrigins)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("Cache.TTL = %v, want 90s", cfg.Cache.TTL)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("Redis.DB = %d, want 3", cfg.Redis.DB)
	}
}

func TestLoadConfig_InvalidAmbientValue(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := LoadConfig("")
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want validation error")
	}
	if !strings.Contains(err.Error(), "Level") {
		t.Errorf("error %q does not name the Level field", err)
	}
}

func TestLoadConfig_File(t *testing.T) {
	unsetEnv(t, "DB_NAME")
	unsetEnv(t, "SERVER_ADDR")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "database:\n  name: FromFile\nserver:\n  addr: \":9000\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Database.Name != "FromFile" {
		t.Errorf("Database.Name = %q, want FromFile", cfg.Database.Name)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}

	t.Setenv("DB_NAME", "FromEnv")
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Database.Name != "FromEnv" {
		t.Errorf("env should override file: Database.Name = %q", cfg.Database.Name)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfig() error = nil for a missing file")
	}
}

func TestConnString(t *testing.T) {
	tests := []struct {
		name string
		db   models.DatabaseConfig
		want string
	}{
		{
			name: "defaults",
			db:   models.DatabaseConfig{Host: "localhost", Port: "5432", Name: "Nam_Drillhole", User: "postgres", Password: "postgres"},
			want: "host=localhost port=5432 dbname=Nam_Drillhole user=postgres password=postgres",
		},
		{
			name: "values are not escaped",
			db:   models.DatabaseConfig{Host: "h", Port: "p", Name: "a b", User: "u'", Password: "w=1"},
			want: "host=h port=p dbname=a b user=u' password=w=1",
		},
		{
			name: "empty fields are kept",
			db:   models.DatabaseConfig{},
			want: "host= port= dbname= user= password=",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.db.ConnString(); got != tt.want {
				t.Errorf("ConnString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadConfig_TrustedProxies(t *testing.T) {
	unsetEnv(t, "SERVER_TRUSTED_PROXIES")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if len(cfg.Server.TrustedProxies) != 0 {
		t.Errorf("TrustedProxies = %v, want none by default", cfg.Server.TrustedProxies)
	}

	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1")
	cfg, err = LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if len(cfg.Server.TrustedProxies) != 2 || cfg.Server.TrustedProxies[0] != "10.0.0.0/8" {
		t.Errorf("TrustedProxies = %v", cfg.Server.TrustedProxies)
	}
}
