package models

const (
	LayerKindWMS      = "wms"
	LayerKindFeatures = "features"
)

// Layer はフロントエンドの地図に重ねるレイヤーのカタログ項目
type Layer struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Kind     string `json:"kind"`
	WMSURL   string `json:"wmsUrl"`
	WMSLayer string `json:"wmsLayer"`
}

// MineralGroupCount は鉱物グループごとのボーリング孔数
type MineralGroupCount struct {
	Group string `json:"group"`
	Count int64  `json:"count"`
}
