package layers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const jsonContentType = "application/json; charset=utf-8"

// Handler は layers ルートグループのハンドラー
type Handler struct {
	store   Store
	cache   Cache
	catalog *Catalog
	summary *Summary
	logger  *zap.Logger
}

func NewHandler(store Store, cache Cache, catalog *Catalog, summary *Summary, logger *zap.Logger) *Handler {
	if cache == nil {
		cache = NopCache{}
	}
	return &Handler{store: store, cache: cache, catalog: catalog, summary: summary, logger: logger}
}

// レイヤー一覧を返すハンドラー
func (h *Handler) ListLayers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"layers": h.catalog.All(),
	})
}

func (h *Handler) GetLayer(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		name = BoreholesLayer
	}
	layer, err := h.catalog.Get(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "unknown_layer",
			"error":  "layer " + name + " does not exist",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"layer":  layer,
	})
}

// bindQuery はクエリを解析し、失敗した場合はレスポンスを書いて false を返します。
func (h *Handler) bindQuery(c *gin.Context) (BoreholeQuery, bool) {
	var q BoreholeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.logger.Info("Invalid borehole query", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "invalid_query",
			"error":  err.Error(),
		})
		return q, false
	}
	if err := q.Normalize(); err != nil {
		status := "invalid_query"
		if errors.Is(err, ErrInvalidBBox) {
			status = "invalid_bbox"
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"status": status,
			"error":  err.Error(),
		})
		return q, false
	}
	return q, true
}

// ボーリング孔をGeoJSONで返すハンドラー。Redisが有効なら検索結果をキャッシュする
func (h *Handler) BoreholeFeatures(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	key := h.cacheKey(q)

	body, hit, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.Warn("Borehole cache lookup failed", zap.Error(err))
	}
	if hit {
		c.Header("X-Cache", "HIT")
		c.Data(http.StatusOK, jsonContentType, body)
		return
	}

	boreholes, err := h.store.FindBoreholes(ctx, q)
	if err != nil {
		h.logger.Error("Failed to query boreholes", zap.Error(err), zap.String("query", key))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "query_failed",
			"error":  "ボーリング孔の取得に失敗しました",
		})
		return
	}

	body, err = json.Marshal(NewFeatureCollection(boreholes))
	if err != nil {
		h.logger.Error("Failed to encode boreholes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "encode_failed",
			"error":  "GeoJSONの生成に失敗しました",
		})
		return
	}

	if err := h.cache.Set(ctx, key, body); err != nil {
		h.logger.Warn("Failed to cache boreholes", zap.Error(err))
	}
	c.Header("X-Cache", "MISS")
	c.Data(http.StatusOK, jsonContentType, body)
}

// cacheKey は集計の世代を前置したキー。世代は検索前に確定させる
func (h *Handler) cacheKey(q BoreholeQuery) string {
	var gen uint64
	if h.summary != nil {
		gen = h.summary.Generation()
	}
	return "g" + strconv.FormatUint(gen, 10) + ":" + q.CacheKey()
}

// 検索結果をファイルとしてダウンロードさせるハンドラー
func (h *Handler) ExportBoreholes(c *gin.Context) {
	format, err := LookupExportFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "invalid_format",
			"error":  err.Error(),
		})
		return
	}
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}

	boreholes, err := h.store.FindBoreholes(c.Request.Context(), q)
	if err != nil {
		h.logger.Error("Failed to query boreholes for export", zap.Error(err), zap.String("format", format.Name))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "query_failed",
			"error":  "ボーリング孔の取得に失敗しました",
		})
		return
	}
	rows := toRows(boreholes)

	c.Header("Content-Disposition", `attachment; filename="`+format.FileName+`"`)
	c.Header("Content-Type", format.ContentType)
	c.Status(http.StatusOK)

	switch format.Name {
	case "csv":
		err = WriteCSV(c.Writer, rows)
	case "mining":
		err = WriteMining(c.Writer, rows)
	case "excel":
		err = WriteExcel(c.Writer, rows)
	default:
		err = json.NewEncoder(c.Writer).Encode(rows)
	}
	if err != nil {
		// ヘッダー送信後なのでログのみ
		h.logger.Error("Failed to write export", zap.Error(err), zap.String("format", format.Name))
	}
}

// 凡例用の鉱物グループ別件数を返すハンドラー
func (h *Handler) MineralGroups(c *gin.Context) {
	snap, err := h.summary.Snapshot(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load mineral group summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "summary_failed",
			"error":  "鉱物グループの集計に失敗しました",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"groups":      snap.Groups,
		"unmatched":   snap.Unmatched,
		"refreshedAt": snap.RefreshedAt,
	})
}
