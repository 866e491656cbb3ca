package exporter

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// ShipmentExporter writes shipment tables and column statistics as CSV
type ShipmentExporter struct {
	csvWriter *CSVWriter
	logger    *slog.Logger
}

// NewShipmentExporter creates a new shipment exporter
func NewShipmentExporter(logger *slog.Logger) *ShipmentExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShipmentExporter{
		csvWriter: NewCSVWriter(logger),
		logger:    logger.With(slog.String("component", "shipment_exporter")),
	}
}

// WriteShipments writes records in table order. The month column is added
// when any record carries one.
func (e *ShipmentExporter) WriteShipments(path string, records []domain.ShipmentRecord) error {
	withMonth := slices.ContainsFunc(records, domain.ShipmentRecord.HasMonth)

	stream, err := e.csvWriter.CreateStreamWriter(path, ShipmentHeaders(withMonth))
	if err != nil {
		return err
	}
	for _, r := range records {
		if err := stream.WriteRecord(ShipmentRow(r, withMonth)); err != nil {
			stream.Abort()
			return err
		}
	}
	if err := stream.Commit(); err != nil {
		return err
	}

	e.logger.Info("shipments exported",
		slog.String("path", path),
		slog.Int("records", len(records)))
	return nil
}

// WriteColumnStats writes one row per described column
func (e *ShipmentExporter) WriteColumnStats(path string, stats []domain.ColumnStats) error {
	headers := []string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Column,
			strconv.Itoa(s.Count),
			formatNumber(s.Mean),
			formatNumber(s.Std),
			formatNumber(s.Min),
			formatNumber(s.Q25),
			formatNumber(s.Median),
			formatNumber(s.Q75),
			formatNumber(s.Max),
		})
	}
	return e.csvWriter.WriteSimpleCSV(path, headers, rows)
}

// ShipmentHeaders returns the CSV header row
func ShipmentHeaders(withMonth bool) []string {
	headers := slices.Clone(domain.ShipmentColumns)
	if withMonth {
		headers = append(headers, domain.ColMonth)
	}
	return headers
}

// ShipmentRow converts a record to CSV fields in ShipmentHeaders order
func ShipmentRow(r domain.ShipmentRecord, withMonth bool) []string {
	deliveryDays := ""
	if r.DeliveryDays != nil {
		deliveryDays = strconv.Itoa(*r.DeliveryDays)
	}

	row := []string{
		strconv.Itoa(r.ShipmentID),
		r.FromCity,
		r.ToCity,
		strconv.Itoa(r.DistanceKm),
		strconv.Itoa(r.WeightKg),
		formatNumber(r.VolumeM3),
		r.CargoType,
		r.Carrier,
		formatNumber(r.CostRub),
		formatNumber(r.BaseCostPerKm),
		r.Date.Format(domain.DateLayout),
		string(r.Status),
		deliveryDays,
		formatNumber(r.CarrierReliability),
		formatNumber(r.CargoFragility),
		strconv.Itoa(r.CustomerID),
		string(r.CustomerSegment),
		formatBool(r.Insurance),
		formatNumber(r.InsuranceCost),
		formatNumber(r.FuelSurcharge),
		string(r.Priority),
		string(r.PaymentMethod),
		formatBool(r.HasReturn),
		formatNumber(r.ReturnCost),
	}
	if withMonth {
		month := ""
		if r.HasMonth() {
			month = strconv.Itoa(r.Month)
		}
		row = append(row, month)
	}
	return row
}
