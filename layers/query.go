package layers

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultLimit = 5000
	maxLimit     = 10000
)

var ErrInvalidBBox = errors.New("invalid bbox")

// BBox は経度・緯度の矩形範囲 (minLng, minLat, maxLng, maxLat)
type BBox struct {
	MinLng, MinLat, MaxLng, MaxLat float64
}

// ParseBBox は "minLng,minLat,maxLng,maxLat" を解析します。
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("%w: want 4 comma separated numbers, got %d", ErrInvalidBBox, len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return BBox{}, fmt.Errorf("%w: %q is not a number", ErrInvalidBBox, p)
		}
		v[i] = f
	}
	b := BBox{MinLng: v[0], MinLat: v[1], MaxLng: v[2], MaxLat: v[3]}
	if b.MinLng > b.MaxLng || b.MinLat > b.MaxLat {
		return BBox{}, fmt.Errorf("%w: min greater than max", ErrInvalidBBox)
	}
	if b.MinLng < -180 || b.MaxLng > 180 || b.MinLat < -90 || b.MaxLat > 90 {
		return BBox{}, fmt.Errorf("%w: outside lon/lat range", ErrInvalidBBox)
	}
	return b, nil
}

func (b BBox) String() string {
	return strings.Join([]string{
		strconv.FormatFloat(b.MinLng, 'f', -1, 64),
		strconv.FormatFloat(b.MinLat, 'f', -1, 64),
		strconv.FormatFloat(b.MaxLng, 'f', -1, 64),
		strconv.FormatFloat(b.MaxLat, 'f', -1, 64),
	}, ",")
}

// BoreholeQuery はボーリング孔検索のクエリパラメータ。
// 文字列項目は部分一致 (大文字小文字を区別しない) で AND 結合する
type BoreholeQuery struct {
	BoreholeNumber string `form:"borehole_number" binding:"max=100"`
	Project        string `form:"project" binding:"max=100"`
	EPL            string `form:"epl" binding:"max=100"`
	Company        string `form:"company" binding:"max=100"`
	MineralGroup   string `form:"mineral_group" binding:"max=100"`
	BBoxParam      string `form:"bbox" binding:"max=200"`
	Limit          int    `form:"limit" binding:"omitempty,min=1,max=10000"`

	BBox *BBox `form:"-"`
}

// textFilter はカラム名と検索語の組
type textFilter struct {
	Column string
	Value  string
}

// Normalize は前後の空白を除去し、bbox を解析し、limit の既定値を設定します。
func (q *BoreholeQuery) Normalize() error {
	q.BoreholeNumber = strings.TrimSpace(q.BoreholeNumber)
	q.Project = strings.TrimSpace(q.Project)
	q.EPL = strings.TrimSpace(q.EPL)
	q.Company = strings.TrimSpace(q.Company)
	q.MineralGroup = strings.TrimSpace(q.MineralGroup)
	q.BBoxParam = strings.TrimSpace(q.BBoxParam)

	q.BBox = nil
	if q.BBoxParam != "" {
		b, err := ParseBBox(q.BBoxParam)
		if err != nil {
			return err
		}
		q.BBox = &b
	}

	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return nil
}

func (q BoreholeQuery) textFilters() []textFilter {
	all := []textFilter{
		{"borehole_number", q.BoreholeNumber},
		{"project", q.Project},
		{"epl", q.EPL},
		{"company", q.Company},
		{"mineral_groups", q.MineralGroup},
	}
	out := all[:0]
	for _, f := range all {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}

// CacheKey は同じ検索条件に対して常に同じ文字列を返します。
func (q BoreholeQuery) CacheKey() string {
	v := url.Values{}
	for _, f := range q.textFilters() {
		v.Set(f.Column, strings.ToLower(f.Value))
	}
	if q.BBox != nil {
		v.Set("bbox", q.BBox.String())
	}
	v.Set("limit", strconv.Itoa(q.Limit))
	return v.Encode()
}

// likePattern は LIKE のワイルドカードをエスケープし、部分一致のパターンにします。
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
