// Package layers is the /layers route collection: the overlay catalog, the
// borehole feature queries and exports, and the mineral group legend counts.
package layers

import "github.com/gin-gonic/gin"

// RegisterRoutes は rg (通常は /layers) に各ルートを登録します。
func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	rg.GET("", h.ListLayers)
	rg.GET("/mineral-groups", h.MineralGroups)
	rg.GET("/boreholes", h.GetLayer)
	rg.GET("/boreholes/features", h.BoreholeFeatures)
	rg.GET("/boreholes/export", h.ExportBoreholes)
	rg.GET("/:name", h.GetLayer)
}
