package utils

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartCronJobs は schedule ごとに refresh を実行するクーロンを起動します。
// ctx がキャンセルされると実行中のジョブの完了を待って停止します。
func StartCronJobs(ctx context.Context, schedule string, refresh func(context.Context) error, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		logger.Info("鉱物グループ集計の更新を開始")
		if err := refresh(ctx); err != nil {
			logger.Error("鉱物グループ集計の更新に失敗しました", zap.Error(err))
			return
		}
		logger.Info("鉱物グループ集計の更新完了")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		logger.Info("cron stopped")
	}()
	return c, nil
}
