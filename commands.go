package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"drillhole/database"
	"drillhole/layers"
	"drillhole/middlewares"
	"drillhole/models"
	"drillhole/server"
	"drillhole/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "drillhole",
		Short: "Namibia drillhole map server",
		Long:  "Serves the drillhole map front end and the /layers API backed by PostgreSQL.",
		Example: `
  drillhole                      # same as "drillhole serve"
  DB_HOST=db.local drillhole serve
  drillhole migrate --config config.yaml`,
		SilenceUsage: true,
		// サブコマンド無しで起動した場合はサーバーを起動する
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfgFile)
		},
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a config file (optional, env vars take precedence)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), cfgFile)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the boreholes table",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd.Context(), cfgFile)
			},
		},
		&cobra.Command{
			Use:   "config",
			Short: "Print the resolved configuration (password masked)",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := database.LoadConfig(cfgFile)
				if err != nil {
					return err
				}
				printConfig(cmd.OutOrStdout(), cfg)
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "drillhole %s (commit %s, built %s)\n", version, commit, date)
			},
		},
	)
	return root
}

func printConfig(w io.Writer, cfg models.Config) {
	masked := cfg.Database
	if masked.Password != "" {
		masked.Password = "********"
	}
	fmt.Fprintf(w, "database:   %s\n", masked.ConnString())
	fmt.Fprintf(w, "server:     addr=%s mode=%s static_dir=%s\n", cfg.Server.Addr, cfg.Server.Mode, cfg.Server.StaticDir)
	fmt.Fprintf(w, "cors:       %v\n", cfg.CORS.AllowOrigins)
	fmt.Fprintf(w, "redis:      enabled=%t addr=%s db=%d\n", cfg.Redis.Enabled, cfg.Redis.Addr, cfg.Redis.DB)
	fmt.Fprintf(w, "cache:      ttl=%s refresh=%q\n", cfg.Cache.TTL, cfg.Cache.RefreshSchedule)
	fmt.Fprintf(w, "geoserver:  %s (workspace %s)\n", cfg.GeoServer.URL, cfg.GeoServer.Workspace)
}

func loadConfigAndLogger(cfgFile string) (models.Config, *zap.Logger, error) {
	cfg, err := database.LoadConfig(cfgFile)
	if err != nil {
		return cfg, nil, err
	}
	logger, err := utils.InitLogger(cfg.Log)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

func runServe(ctx context.Context, cfgFile string) error {
	cfg, logger, err := loadConfigAndLogger(cfgFile)
	if err != nil {
		return err
	}
	defer logger.Sync() // ロガーのクリーンアップ

	gin.SetMode(cfg.Server.Mode)
	if cfg.Server.Mode == gin.DebugMode {
		logger.Warn("Running in debug mode. Set SERVER_MODE=release in production")
	}

	// データベースに接続できなくても静的ファイルと /healthz は配信する。
	// 接続は最初のクエリ時に行われ、失敗したクエリは 500 を返す
	var store layers.Store
	var pinger server.Pinger
	db, err := database.OpenPostgreSQL(cfg.Database, logger)
	if err != nil {
		logger.Error("Invalid database parameters, serving without a database", zap.Error(err))
		store = layers.UnavailableStore{Err: err}
		pinger = server.UnavailableDB{Err: err}
	} else {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB: %w", err)
		}
		defer sqlDB.Close()
		store = layers.NewGormStore(db)
		pinger = sqlDB
	}

	// 非同期でPostgreSQLの疎通確認とRedisの初期化
	var rdb *redis.Client
	done := make(chan bool)

	go func() {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pinger.PingContext(pingCtx); err != nil {
			logger.Warn("PostgreSQL is not reachable yet", zap.String("host", cfg.Database.Host), zap.String("port", cfg.Database.Port), zap.Error(err))
		} else {
			logger.Info("Connected to PostgreSQL", zap.String("host", cfg.Database.Host), zap.String("dbname", cfg.Database.Name))
		}
		done <- true
	}()

	go func() {
		if cfg.Redis.Enabled {
			var err error
			rdb, err = database.InitRedis(ctx, cfg.Redis, logger)
			if err != nil {
				// キャッシュ無しで続行する
				logger.Warn("Redis unavailable, borehole cache disabled", zap.Error(err))
			}
		}
		done <- true
	}()

	// 2つの初期化が完了するのを待つ
	<-done
	<-done

	if rdb != nil {
		defer rdb.Close()
	}

	var cache layers.Cache = layers.NopCache{}
	if rdb != nil {
		cache = layers.NewRedisCache(rdb, cfg.Cache.TTL)
	}
	summary := layers.NewSummary(store, cache, logger)

	// クーロンスケジューラのセットアップと初回集計
	if _, err := utils.StartCronJobs(ctx, cfg.Cache.RefreshSchedule, summary.Refresh, logger); err != nil {
		return err
	}
	go func() {
		if err := summary.Refresh(ctx); err != nil {
			logger.Warn("Initial mineral group summary failed", zap.Error(err))
		}
	}()

	router, err := server.NewRouter(server.Options{
		Config:  cfg,
		Logger:  logger,
		Layers:  layers.NewHandler(store, cache, layers.NewCatalog(cfg.GeoServer), summary, logger),
		DB:      pinger,
		Metrics: middlewares.NewMetrics(),
		Limiter: middlewares.NewIPRateLimiter(cfg.RateLimit),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("Starting drillhole server",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
		zap.String("static_dir", cfg.Server.StaticDir),
		zap.String("mode", cfg.Server.Mode),
	)
	return server.Run(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

func runMigrate(ctx context.Context, cfgFile string) error {
	cfg, logger, err := loadConfigAndLogger(cfgFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.InitPostgreSQL(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return database.Migrate(db, logger)
}
