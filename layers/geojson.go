package layers

import (
	"strconv"

	"drillhole/mineral"
	"drillhole/models"
)

type FeatureCollection struct {
	Type           string    `json:"type"`
	Features       []Feature `json:"features"`
	NumberReturned int       `json:"numberReturned"`
}

type Feature struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Geometry   Point             `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// Point の座標は [経度, 緯度]
type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type FeatureProperties struct {
	models.Borehole
	// StandardGroup は凡例上のグループ。一致しなければ空
	StandardGroup string `json:"standard_group,omitempty"`
}

// NewFeatureCollection はGeoServerのWFS出力と同じ形のGeoJSONを組み立てます。
func NewFeatureCollection(boreholes []models.Borehole) FeatureCollection {
	features := make([]Feature, 0, len(boreholes))
	for _, b := range boreholes {
		group, _ := mineral.Standard(b.MineralGroups)
		features = append(features, Feature{
			Type: "Feature",
			ID:   BoreholesLayer + "." + strconv.FormatUint(uint64(b.ID), 10),
			Geometry: Point{
				Type:        "Point",
				Coordinates: [2]float64{b.Longitude, b.Latitude},
			},
			Properties: FeatureProperties{Borehole: b, StandardGroup: group},
		})
	}
	return FeatureCollection{
		Type:           "FeatureCollection",
		Features:       features,
		NumberReturned: len(features),
	}
}
