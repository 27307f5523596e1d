package layers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"drillhole/mineral"
	"drillhole/models"

	"go.uber.org/zap"
)

// Summary は凡例用の鉱物グループ別件数。クーロンジョブで定期的に更新される
type Summary struct {
	store  Store
	cache  Cache
	logger *zap.Logger

	// generation は Refresh のたびに増え、検索結果のキャッシュキーに含まれる
	generation atomic.Uint64

	mu          sync.RWMutex
	groups      []models.MineralGroupCount
	unmatched   int64
	refreshedAt time.Time
}

type SummarySnapshot struct {
	Groups      []models.MineralGroupCount `json:"groups"`
	Unmatched   int64                      `json:"unmatched"`
	RefreshedAt time.Time                  `json:"refreshedAt"`
}

func NewSummary(store Store, cache Cache, logger *zap.Logger) *Summary {
	if cache == nil {
		cache = NopCache{}
	}
	return &Summary{store: store, cache: cache, logger: logger}
}

// Refresh は件数を再集計し、キャッシュ済みの検索結果を破棄します。
// 世代を先に進めるので、集計前に読み出した結果が後からキャッシュされても新しいキーでは参照されない
func (s *Summary) Refresh(ctx context.Context) error {
	totals, err := s.store.MineralGroupTotals(ctx)
	if err != nil {
		return err
	}

	groups, unmatched := tally(totals)

	s.mu.Lock()
	s.groups = groups
	s.unmatched = unmatched
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	s.generation.Add(1)
	if err := s.cache.Invalidate(ctx); err != nil {
		// 集計自体は成功しているのでエラーにはしない
		s.logger.Warn("Failed to invalidate borehole cache", zap.Error(err))
	}
	return nil
}

// Generation は現在のキャッシュ世代
func (s *Summary) Generation() uint64 {
	return s.generation.Load()
}

// Snapshot は最新の集計を返します。未集計なら先に集計する
func (s *Summary) Snapshot(ctx context.Context) (SummarySnapshot, error) {
	s.mu.RLock()
	ready := !s.refreshedAt.IsZero()
	s.mu.RUnlock()

	if !ready {
		if err := s.Refresh(ctx); err != nil {
			return SummarySnapshot{}, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	groups := make([]models.MineralGroupCount, len(s.groups))
	copy(groups, s.groups)
	return SummarySnapshot{Groups: groups, Unmatched: s.unmatched, RefreshedAt: s.refreshedAt}, nil
}

func tally(totals map[string]int64) ([]models.MineralGroupCount, int64) {
	counts := make(map[string]int64, len(mineral.Groups))
	var unmatched int64
	for raw, n := range totals {
		group, ok := mineral.Standard(raw)
		if !ok {
			unmatched += n
			continue
		}
		counts[group] += n
	}

	groups := make([]models.MineralGroupCount, 0, len(mineral.Groups))
	for _, g := range mineral.Groups {
		groups = append(groups, models.MineralGroupCount{Group: g, Count: counts[g]})
	}
	return groups, unmatched
}
