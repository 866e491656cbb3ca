package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// Workbook sheet names
const (
	SheetKPIs       = "KPIs"
	SheetCarriers   = "Carriers"
	SheetProfitable = "Profitable Routes"
	SheetPopular    = "Popular Routes"
	SheetExpensive  = "Expensive Routes"
	SheetSeasonal   = "Seasonal"
	SheetShipments  = "Shipments"
)

// XLSXWriter renders analysis reports as Excel workbooks
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger.With(slog.String("component", "xlsx_writer"))}
}

// SaveReport writes the workbook to path atomically. Records, when given,
// are added as a Shipments sheet.
func (x *XLSXWriter) SaveReport(path string, report *domain.AnalysisReport, records []domain.ShipmentRecord) error {
	if err := WriteFileAtomic(path, func(w io.Writer) error {
		return x.WriteReport(w, report, records)
	}); err != nil {
		return err
	}
	x.logger.Info("workbook written",
		slog.String("path", path),
		slog.Int("records", len(records)))
	return nil
}

// WriteReport builds the workbook and streams it to w
func (x *XLSXWriter) WriteReport(w io.Writer, report *domain.AnalysisReport, records []domain.ShipmentRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetKPIs); err != nil {
		return err
	}
	k := report.KPIs
	kpiRows := [][]interface{}{
		{"metric", "value"},
		{"total_shipments", k.TotalShipments},
		{"total_cost", k.TotalCost},
		{"total_distance", k.TotalDistance},
		{"total_weight", k.TotalWeight},
		{"avg_cost_per_km", k.AvgCostPerKm},
		{"avg_cost_per_kg", k.AvgCostPerKg},
		{"avg_distance", k.AvgDistance},
		{"avg_weight", k.AvgWeight},
	}
	if k.MostCommonRoute != nil {
		kpiRows = append(kpiRows, []interface{}{"most_common_route", k.MostCommonRoute.Route.String()})
	}
	if err := writeSheet(f, SheetKPIs, kpiRows, header); err != nil {
		return err
	}

	carrierRows := [][]interface{}{{
		"carrier", "shipments", "total_cost", "avg_cost", "median_cost",
		"avg_distance", "avg_weight", "avg_cost_per_km", "avg_cost_per_kg", "efficiency",
	}}
	for _, c := range report.Carriers {
		carrierRows = append(carrierRows, []interface{}{
			c.Carrier, c.Shipments, c.TotalCost, c.AvgCost, c.MedianCost,
			c.AvgDistance, c.AvgWeight, ratioCell(c.AvgCostPerKm), ratioCell(c.AvgCostPerKg), ratioCell(c.Efficiency),
		})
	}
	if err := writeSheet(f, SheetCarriers, carrierRows, header); err != nil {
		return err
	}

	profitableRows := [][]interface{}{{"from_city", "to_city", "shipment_id", "carrier", "cost_rub", "distance_km", "cost_per_km"}}
	for _, r := range report.ProfitableRoutes {
		profitableRows = append(profitableRows, []interface{}{
			r.Route.From, r.Route.To, r.ShipmentID, r.Carrier, r.CostRub, r.DistanceKm, r.CostPerKm,
		})
	}
	if err := writeSheet(f, SheetProfitable, profitableRows, header); err != nil {
		return err
	}

	for _, sheet := range []struct {
		name   string
		routes []domain.RouteStats
	}{
		{SheetPopular, report.PopularRoutes},
		{SheetExpensive, report.ExpensiveRoutes},
	} {
		rows := [][]interface{}{{"from_city", "to_city", "shipments", "total_cost", "avg_cost", "avg_distance", "avg_cost_per_km"}}
		for _, r := range sheet.routes {
			rows = append(rows, []interface{}{
				r.Route.From, r.Route.To, r.Shipments, r.TotalCost, r.AvgCost, r.AvgDistance, ratioCell(r.AvgCostPerKm),
			})
		}
		if err := writeSheet(f, sheet.name, rows, header); err != nil {
			return err
		}
	}

	if report.Seasonal.Applicable {
		rows := [][]interface{}{{"month", "shipments", "total_cost", "total_weight"}}
		for _, m := range report.Seasonal.Months {
			rows = append(rows, []interface{}{m.Month, m.Shipments, m.TotalCost, m.TotalWeight})
		}
		if err := writeSheet(f, SheetSeasonal, rows, header); err != nil {
			return err
		}
	}

	if len(records) > 0 {
		if err := writeShipmentSheet(f, records, header); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeSheet creates sheet if needed and fills it from A1
func writeSheet(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return f.SetRowStyle(sheet, 1, 1, headerStyle)
}

// writeShipmentSheet streams the full table, which can be large
func writeShipmentSheet(f *excelize.File, records []domain.ShipmentRecord, headerStyle int) error {
	if _, err := f.NewSheet(SheetShipments); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetShipments, err)
	}
	sw, err := f.NewStreamWriter(SheetShipments)
	if err != nil {
		return fmt.Errorf("failed to open stream for %s: %w", SheetShipments, err)
	}

	withMonth := slices.ContainsFunc(records, domain.ShipmentRecord.HasMonth)
	headers := ShipmentHeaders(withMonth)
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, shipmentCells(r, withMonth)); err != nil {
			return fmt.Errorf("failed to write shipment %d: %w", r.ShipmentID, err)
		}
	}
	return sw.Flush()
}

func shipmentCells(r domain.ShipmentRecord, withMonth bool) []interface{} {
	var deliveryDays interface{}
	if r.DeliveryDays != nil {
		deliveryDays = *r.DeliveryDays
	}
	cells := []interface{}{
		r.ShipmentID, r.FromCity, r.ToCity, r.DistanceKm, r.WeightKg,
		r.VolumeM3, r.CargoType, r.Carrier, r.CostRub, r.BaseCostPerKm,
		r.Date.Format(domain.DateLayout), string(r.Status), deliveryDays, r.CarrierReliability, r.CargoFragility,
		r.CustomerID, string(r.CustomerSegment), r.Insurance, r.InsuranceCost,
		r.FuelSurcharge, string(r.Priority), string(r.PaymentMethod), r.HasReturn, r.ReturnCost,
	}
	if withMonth {
		var month interface{}
		if r.HasMonth() {
			month = r.Month
		}
		cells = append(cells, month)
	}
	return cells
}

// ratioCell leaves undefined ratios as empty cells
func ratioCell(r domain.Ratio) interface{} {
	if !r.Defined {
		return nil
	}
	return r.Value
}
