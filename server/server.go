// Package server builds the HTTP router: middleware chain, the layers route
// collection, the static front end and the operational endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"drillhole/layers"
	"drillhole/middlewares"
	"drillhole/models"
	"drillhole/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger はデータベースの疎通確認 (*sql.DB が満たす)
type Pinger interface {
	PingContext(ctx context.Context) error
}

// UnavailableDB はデータベースを開けなかった場合の Pinger。常に Err を返す
type UnavailableDB struct {
	Err error
}

func (u UnavailableDB) PingContext(context.Context) error { return u.Err }

type Options struct {
	Config  models.Config
	Logger  *zap.Logger
	Layers  *layers.Handler
	DB      Pinger
	Metrics *middlewares.Metrics
	Limiter *middlewares.IPRateLimiter
}

// NewRouter はミドルウェアと各ルートを登録したルーターを返します。
func NewRouter(opts Options) (*gin.Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	corsMiddleware, err := middlewares.CORS(opts.Config.CORS)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	// 信用するプロキシ以外からの X-Forwarded-For は無視する (レート制限のキーを偽装させない)
	if err := router.SetTrustedProxies(opts.Config.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(gin.Recovery(), middlewares.RequestID(), utils.RequestLogger(logger))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
	}
	router.Use(corsMiddleware, middlewares.RateLimit(opts.Limiter, logger))

	staticDir := opts.Config.Server.StaticDir
	router.GET("/", IndexHandler(staticDir))
	router.HEAD("/", IndexHandler(staticDir))

	if opts.Layers != nil {
		layers.RegisterRoutes(router.Group("/layers"), opts.Layers)
	}

	router.GET("/healthz", func(c *gin.Context) {
		HealthHandler(c, opts.DB, logger)
	})
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	router.NoRoute(StaticFallback(staticDir))
	return router, nil
}

// HealthHandler はデータベースへの疎通を確認します。
func HealthHandler(c *gin.Context, db Pinger, logger *zap.Logger) {
	if db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "disabled"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.Warn("Database ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}

// Run はサーバーを起動し、ctx がキャンセルされると shutdownTimeout 以内に停止します。
func Run(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
