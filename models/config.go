package models

import (
	"fmt"
	"time"
)

// Config 構造体はプロセス起動時に一度だけ読み込まれる設定情報を保持します。
// 読み込み後は変更せず、必要なコンポーネントへ値として渡します。
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	GeoServer GeoServerConfig `mapstructure:"geoserver"`
}

// DatabaseConfig はデータベース接続の設定情報です。値の検証は行いません。
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// ConnString は "host=H port=P dbname=N user=U password=W" 形式の接続文字列を返します。
// 値のエスケープは行わないため、接続には database.PgxConfig を使うこと。
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s",
		d.Host, d.Port, d.Name, d.User, d.Password)
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
	StaticDir       string        `mapstructure:"static_dir" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	// TrustedProxies は X-Forwarded-For を信用するプロキシ (IPまたはCIDR)。空なら接続元アドレスを使う
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size" validate:"min=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"min=1"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins" validate:"min=1"`
}

// RateLimitConfig はクライアントIPごとのリクエスト制限。RPSが0なら無効
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" validate:"min=0"`
	Burst int     `mapstructure:"burst" validate:"min=0"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl" validate:"gt=0"`
	RefreshSchedule string        `mapstructure:"refresh_schedule" validate:"required"`
}

// GeoServerConfig はフロントエンドが参照するWMSオーバーレイの配信元
type GeoServerConfig struct {
	URL       string `mapstructure:"url" validate:"required,url"`
	Workspace string `mapstructure:"workspace" validate:"required"`
}
