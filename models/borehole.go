package models

// Borehole はGeoServerの drillholes:boreholes フィーチャと同じ属性を持つボーリング孔
type Borehole struct {
	ID                   uint    `gorm:"primaryKey" json:"-"`
	BoreholeNumber       string  `gorm:"index;not null" json:"borehole_number"`
	Project              string  `gorm:"index" json:"project"`
	EPL                  string  `gorm:"column:epl;index" json:"epl"`
	Company              string  `gorm:"index" json:"company"`
	MineralGroups        string  `gorm:"index" json:"mineral_groups"`
	Commodity            string  `json:"commodity"`
	ExplorationTarget    string  `json:"exploration_target"`
	Purpose              string  `json:"purpose"`
	CoreshedAvailability string  `json:"coreshed_availability"`
	ProjectRegion        string  `json:"project_region"`
	Type                 string  `json:"type"`
	LocationAccuracy     string  `json:"location_accuracy"`
	MapSheet             string  `json:"map_sheet"`
	Longitude            float64 `gorm:"index:idx_boreholes_lnglat" json:"-"`
	Latitude             float64 `gorm:"index:idx_boreholes_lnglat" json:"-"`
}

func (Borehole) TableName() string { return "boreholes" }

// BoreholeRow はクエリ結果テーブル・エクスポート用のフラットな行
type BoreholeRow struct {
	BoreholeNumber       string  `json:"boreholeNumber"`
	Project              string  `json:"project"`
	EPL                  string  `json:"epl"`
	Longitude            float64 `json:"longitude"`
	Latitude             float64 `json:"latitude"`
	LocationAccuracy     string  `json:"locationAccuracy"`
	MapSheet             string  `json:"mapSheet"`
	Company              string  `json:"company"`
	MineralGroups        string  `json:"mineralGroups"`
	Commodity            string  `json:"commodity"`
	ExplorationTarget    string  `json:"explorationTarget"`
	Purpose              string  `json:"purpose"`
	CoreshedAvailability string  `json:"coreshedAvailability"`
	ProjectRegion        string  `json:"projectRegion"`
	Type                 string  `json:"type"`
}

// Row は空の属性を "N/A" に置き換えた表示用の行を返します。
func (b Borehole) Row() BoreholeRow {
	return BoreholeRow{
		BoreholeNumber:       orNA(b.BoreholeNumber),
		Project:              orNA(b.Project),
		EPL:                  orNA(b.EPL),
		Longitude:            b.Longitude,
		Latitude:             b.Latitude,
		LocationAccuracy:     orNA(b.LocationAccuracy),
		MapSheet:             orNA(b.MapSheet),
		Company:              orNA(b.Company),
		MineralGroups:        orNA(b.MineralGroups),
		Commodity:            orNA(b.Commodity),
		ExplorationTarget:    orNA(b.ExplorationTarget),
		Purpose:              orNA(b.Purpose),
		CoreshedAvailability: orNA(b.CoreshedAvailability),
		ProjectRegion:        orNA(b.ProjectRegion),
		Type:                 orNA(b.Type),
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
