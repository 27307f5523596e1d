package layers

import (
	"errors"
	"strings"

	"drillhole/models"
)

var ErrUnknownLayer = errors.New("unknown layer")

const BoreholesLayer = "boreholes"

// GeoServerに公開されているオーバーレイ (表示順)
var overlays = []struct {
	name  string
	title string
}{
	{"roads", "Roads"},
	{"towns_villages", "Towns & Villages"},
	{"regions", "Regions"},
	{"districts", "Districts"},
	{"country", "Country Boundary"},
	{"farms", "Farms"},
}

// Catalog はレイヤー一覧。読み込み後は変更しない
type Catalog struct {
	layers []models.Layer
}

func NewCatalog(gs models.GeoServerConfig) *Catalog {
	wmsURL := strings.TrimRight(gs.URL, "/") + "/" + gs.Workspace + "/wms"

	layers := make([]models.Layer, 0, len(overlays)+1)
	for _, o := range overlays {
		layers = append(layers, models.Layer{
			Name:     o.name,
			Title:    o.title,
			Kind:     models.LayerKindWMS,
			WMSURL:   wmsURL,
			WMSLayer: gs.Workspace + ":" + o.name,
		})
	}
	layers = append(layers, models.Layer{
		Name:     BoreholesLayer,
		Title:    "Drillholes",
		Kind:     models.LayerKindFeatures,
		WMSURL:   wmsURL,
		WMSLayer: gs.Workspace + ":" + BoreholesLayer,
	})
	return &Catalog{layers: layers}
}

func (c *Catalog) All() []models.Layer {
	out := make([]models.Layer, len(c.layers))
	copy(out, c.layers)
	return out
}

func (c *Catalog) Get(name string) (models.Layer, error) {
	for _, l := range c.layers {
		if l.Name == name {
			return l, nil
		}
	}
	return models.Layer{}, ErrUnknownLayer
}
