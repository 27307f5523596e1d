package layers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"drillhole/models"

	"github.com/xuri/excelize/v2"
)

var ErrInvalidFormat = errors.New("invalid export format")

// ExportFormat はエクスポートの出力形式
type ExportFormat struct {
	Name        string
	ContentType string
	FileName    string
}

var exportFormats = map[string]ExportFormat{
	"csv":    {"csv", "text/csv; charset=utf-8", "drillhole_data.csv"},
	"mining": {"mining", "text/plain; charset=utf-8", "drillhole_data.txt"},
	"json":   {"json", "application/json; charset=utf-8", "drillhole_data.json"},
	"excel":  {"excel", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "drillhole_data.xlsx"},
}

// ExcelSheet はExcelエクスポートのシート名
const ExcelSheet = "Drillhole Data"

func LookupExportFormat(name string) (ExportFormat, error) {
	if name == "" {
		name = "csv"
	}
	f, ok := exportFormats[strings.ToLower(name)]
	if !ok {
		return ExportFormat{}, fmt.Errorf("%w: %q", ErrInvalidFormat, name)
	}
	return f, nil
}

// クエリ結果テーブルと同じ列順
var exportHeader = []string{
	"boreholeNumber", "project", "epl", "longitude", "latitude",
	"locationAccuracy", "mapSheet", "company", "mineralGroups", "commodity",
	"explorationTarget", "purpose", "coreshedAvailability", "projectRegion", "type",
}

func rowValues(r models.BoreholeRow) []string {
	return []string{
		r.BoreholeNumber, r.Project, r.EPL,
		strconv.FormatFloat(r.Longitude, 'f', -1, 64),
		strconv.FormatFloat(r.Latitude, 'f', -1, 64),
		r.LocationAccuracy, r.MapSheet, r.Company, r.MineralGroups, r.Commodity,
		r.ExplorationTarget, r.Purpose, r.CoreshedAvailability, r.ProjectRegion, r.Type,
	}
}

// WriteCSV は空の結果でもヘッダー行を出力します。
func WriteCSV(w io.Writer, rows []models.BoreholeRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(rowValues(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMining は " | " 区切りのテキスト形式。ヘッダーの下に罫線を引く
func WriteMining(w io.Writer, rows []models.BoreholeRow) error {
	header := strings.Join(exportHeader, " | ") + "\n"
	var b strings.Builder
	b.WriteString(header)
	b.WriteString(strings.Repeat("-", len(header)))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(strings.Join(rowValues(r), " | "))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteExcel は "Drillhole Data" シート1枚のxlsxを出力します。経度・緯度は数値セル
func WriteExcel(w io.Writer, rows []models.BoreholeRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExcelSheet); err != nil {
		return fmt.Errorf("excel sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(ExcelSheet)
	if err != nil {
		return fmt.Errorf("excel stream: %w", err)
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.BoreholeNumber, r.Project, r.EPL, r.Longitude, r.Latitude,
			r.LocationAccuracy, r.MapSheet, r.Company, r.MineralGroups, r.Commodity,
			r.ExplorationTarget, r.Purpose, r.CoreshedAvailability, r.ProjectRegion, r.Type,
		}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("excel flush: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

func toRows(boreholes []models.Borehole) []models.BoreholeRow {
	rows := make([]models.BoreholeRow, 0, len(boreholes))
	for _, b := range boreholes {
		rows = append(rows, b.Row())
	}
	return rows
}
