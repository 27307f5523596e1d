package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"drillhole/models"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const maxRetries = 3                  // 最大再試行回数
const retryInterval = 5 * time.Second // 再試行間の待機時間

// PgxConfig は接続パラメータを文字列に埋め込まず、pgx の各フィールドへ個別に設定します。
// ポートが数値でない場合はここでエラーになります。
func PgxConfig(dbc models.DatabaseConfig) (*pgx.ConnConfig, error) {
	port, err := strconv.ParseUint(dbc.Port, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid database port %q: %w", dbc.Port, err)
	}

	cc, err := pgx.ParseConfig("")
	if err != nil {
		return nil, fmt.Errorf("pgx default config: %w", err)
	}
	cc.Host = dbc.Host
	cc.Port = uint16(port)
	cc.Database = dbc.Name
	cc.User = dbc.User
	cc.Password = dbc.Password

	// sslmode=prefer と同様に、TLSで失敗したら平文で同じホストへ再接続する
	cc.Fallbacks = nil
	if cc.TLSConfig != nil {
		cc.Fallbacks = []*pgconn.FallbackConfig{{Host: cc.Host, Port: cc.Port}}
	}
	return cc, nil
}

func newGormConfig(logger *zap.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.New(zap.NewStdLog(logger.Named("gorm")), gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// InitPostgreSQL はPostgreSQLへ接続し、失敗した場合は retryInterval ごとに再試行します。
func InitPostgreSQL(ctx context.Context, dbc models.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	cc, err := PgxConfig(dbc)
	if err != nil {
		return nil, err
	}
	gormConfig := newGormConfig(logger)

	for i := 0; i <= maxRetries; i++ {
		var gormDB *gorm.DB
		sqlDB := stdlib.OpenDB(*cc)
		gormDB, err = gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig)
		if err == nil {
			logger.Info("Connected to PostgreSQL",
				zap.String("host", dbc.Host),
				zap.String("port", dbc.Port),
				zap.String("dbname", dbc.Name),
			)
			return gormDB, nil
		}
		sqlDB.Close()
		logger.Error("データベース接続のリトライ", zap.Int("retry", i), zap.Error(err))
		if i == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("データベース接続に失敗しました: %w", err)
}

// OpenPostgreSQL は接続を確認せずにハンドルを返します。
// 実際の接続は最初のクエリまたは Ping の時点で行われ、失敗してもハンドルは再接続を試みる。
// 接続パラメータ自体が不正な場合 (数値でないポートなど) のみエラーになります。
func OpenPostgreSQL(dbc models.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	cc, err := PgxConfig(dbc)
	if err != nil {
		return nil, err
	}
	gormConfig := newGormConfig(logger)
	gormConfig.DisableAutomaticPing = true

	sqlDB := stdlib.OpenDB(*cc)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return gormDB, nil
}

// Migrate は boreholes テーブルを作成・更新します。
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(&models.Borehole{}); err != nil {
		return fmt.Errorf("migrate boreholes: %w", err)
	}
	logger.Info("boreholes table migrated")
	return nil
}

func InitRedis(ctx context.Context, rc models.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})

	// Redisへの接続テスト
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Error("Failed to connect to Redis", zap.String("addr", rc.Addr), zap.Error(err))
		rdb.Close()
		return nil, err
	}

	logger.Info("Connected to Redis", zap.String("addr", rc.Addr))
	return rdb, nil
}
