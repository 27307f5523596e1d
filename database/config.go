package database

import (
	"errors"
	"fmt"
	"strings"

	"drillhole/models"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type setting struct {
	key string
	env string
	def interface{}
}

// 設定キー、環境変数名、デフォルト値の一覧
var settings = []setting{
	{"database.host", "DB_HOST", "localhost"},
	{"database.port", "DB_PORT", "5432"},
	{"database.name", "DB_NAME", "Nam_Drillhole"},
	{"database.user", "DB_USER", "postgres"},
	{"database.password", "DB_PASS", "postgres"},

	{"server.addr", "SERVER_ADDR", ":5000"},
	{"server.mode", "SERVER_MODE", "debug"},
	{"server.static_dir", "SERVER_STATIC_DIR", "../frontend"},
	{"server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT", "10s"},
	{"server.trusted_proxies", "SERVER_TRUSTED_PROXIES", []string{}},

	{"log.level", "LOG_LEVEL", "info"},
	{"log.format", "LOG_FORMAT", "json"},
	{"log.file", "LOG_FILE", ""},
	{"log.max_size", "LOG_MAX_SIZE", 100},
	{"log.max_backups", "LOG_MAX_BACKUPS", 5},
	{"log.max_age", "LOG_MAX_AGE", 30},

	{"cors.allow_origins", "CORS_ALLOW_ORIGINS", []string{"*"}},

	{"rate_limit.rps", "RATE_LIMIT_RPS", 50.0},
	{"rate_limit.burst", "RATE_LIMIT_BURST", 100},

	{"redis.enabled", "REDIS_ENABLED", false},
	{"redis.addr", "REDIS_ADDR", "localhost:6379"},
	{"redis.password", "REDIS_PASSWORD", ""},
	{"redis.db", "REDIS_DB", 0},

	{"cache.ttl", "CACHE_TTL", "5m"},
	{"cache.refresh_schedule", "CACHE_REFRESH_SCHEDULE", "@every 10m"},

	{"geoserver.url", "GEOSERVER_URL", "http://localhost:8080/geoserver"},
	{"geoserver.workspace", "GEOSERVER_WORKSPACE", "drillholes"},
}

var validate = validator.New()

// LoadConfig はデフォルト値 → 設定ファイル(任意) → 環境変数の順に設定を読み込みます。
// データベースの5項目は検証せずにそのまま渡します。
func LoadConfig(path string) (models.Config, error) {
	var config models.Config

	v := viper.New()
	// 空文字で設定された環境変数も値として扱う (DB_PASS="" など)
	v.AllowEmptyEnv(true)
	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return config, fmt.Errorf("bind %s: %w", s.env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return config, formatValidationError(err)
	}
	return config, nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fmt.Sprintf("%s failed %q (got: %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(messages, "\n  - "))
}
