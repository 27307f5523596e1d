package layers

import (
	"context"
	"fmt"

	"drillhole/models"

	"gorm.io/gorm"
)

// Store はボーリング孔データの読み出し元
type Store interface {
	FindBoreholes(ctx context.Context, q BoreholeQuery) ([]models.Borehole, error)
	// MineralGroupTotals は mineral_groups の生の値ごとの件数を返します。
	MineralGroupTotals(ctx context.Context) (map[string]int64, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindBoreholes(ctx context.Context, q BoreholeQuery) ([]models.Borehole, error) {
	tx := s.db.WithContext(ctx).Model(&models.Borehole{})
	for _, f := range q.textFilters() {
		tx = tx.Where(f.Column+" ILIKE ?", likePattern(f.Value))
	}
	if q.BBox != nil {
		tx = tx.Where("longitude BETWEEN ? AND ? AND latitude BETWEEN ? AND ?",
			q.BBox.MinLng, q.BBox.MaxLng, q.BBox.MinLat, q.BBox.MaxLat)
	}

	var boreholes []models.Borehole
	if err := tx.Order("borehole_number").Limit(q.Limit).Find(&boreholes).Error; err != nil {
		return nil, fmt.Errorf("find boreholes: %w", err)
	}
	return boreholes, nil
}

func (s *GormStore) MineralGroupTotals(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		MineralGroups string
		Total         int64
	}
	err := s.db.WithContext(ctx).Model(&models.Borehole{}).
		Select("mineral_groups, count(*) AS total").
		Group("mineral_groups").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count mineral groups: %w", err)
	}

	totals := make(map[string]int64, len(rows))
	for _, r := range rows {
		totals[r.MineralGroups] += r.Total
	}
	return totals, nil
}

// UnavailableStore は接続パラメータが不正でデータベースを開けない場合に使う。
// 全ての読み出しが Err を返す
type UnavailableStore struct {
	Err error
}

func (s UnavailableStore) FindBoreholes(context.Context, BoreholeQuery) ([]models.Borehole, error) {
	return nil, fmt.Errorf("find boreholes: %w", s.Err)
}

func (s UnavailableStore) MineralGroupTotals(context.Context) (map[string]int64, error) {
	return nil, fmt.Errorf("count mineral groups: %w", s.Err)
}
