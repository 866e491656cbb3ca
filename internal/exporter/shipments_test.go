package exporter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burevuh-next/logistics-analyzer/internal/dataprocessing"
	"github.com/burevuh-next/logistics-analyzer/internal/shared/testutil"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

func sampleRecords() []domain.ShipmentRecord {
	a := testutil.Shipment(1, "Moscow", "Kazan", "PEK", 800, 120, 45000.55)
	a.Insurance = true
	a.InsuranceCost = 901.01
	a.FuelSurcharge = 4321.09

	b := testutil.Shipment(2, "Kazan", "Ufa", "Ratek", 525, 80, 18000.1)
	b.Status = domain.StatusInTransit
	b.DeliveryDays = nil
	b.HasReturn = true
	b.ReturnCost = 14400.08
	return []domain.ShipmentRecord{a, b}
}

func TestShipmentExporter_RoundTrip(t *testing.T) {
	records := sampleRecords()
	path := filepath.Join(t.TempDir(), "shipments.csv")

	logger, handler := testutil.NewTestLogger(t)
	require.NoError(t, NewShipmentExporter(logger).WriteShipments(path, records))
	assert.True(t, handler.ContainsMessage("shipments exported"))

	table, err := dataprocessing.NewLoader(dataprocessing.LoaderConfig{}, nil).
		LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, records, table.Records)
}

func TestShipmentExporter_MonthColumn(t *testing.T) {
	records := sampleRecords()
	records[0] = testutil.WithMonth(records[0], 6)
	path := filepath.Join(t.TempDir(), "shipments.csv")

	require.NoError(t, NewShipmentExporter(nil).WriteShipments(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], ",month"))
	assert.True(t, strings.HasSuffix(lines[1], ",6"))
	assert.True(t, strings.HasSuffix(lines[2], ","))

	table, err := dataprocessing.NewLoader(dataprocessing.LoaderConfig{}, nil).
		LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, records, table.Records)
}

func TestShipmentHeaders(t *testing.T) {
	assert.Equal(t, domain.ShipmentColumns, ShipmentHeaders(false))
	assert.Equal(t, domain.ColMonth, ShipmentHeaders(true)[len(domain.ShipmentColumns)])
	assert.Len(t, ShipmentRow(sampleRecords()[0], false), len(domain.ShipmentColumns))
	assert.Len(t, ShipmentRow(sampleRecords()[0], true), len(domain.ShipmentColumns)+1)
}

func TestShipmentRow(t *testing.T) {
	row := ShipmentRow(sampleRecords()[1], false)

	assert.Equal(t, "2", row[0])
	assert.Equal(t, "18000.1", row[8])
	assert.Equal(t, "2023-03-01", row[10])
	assert.Equal(t, "InTransit", row[11])
	assert.Equal(t, "", row[12])
	assert.Equal(t, "true", row[22])
}

func TestShipmentExporter_WriteColumnStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "describe.csv")
	stats := []domain.ColumnStats{{Column: "distance_km", Count: 4, Mean: 250, Std: 129.5, Min: 100, Q25: 175, Median: 250, Q75: 325, Max: 400}}

	require.NoError(t, NewShipmentExporter(nil).WriteColumnStats(path, stats))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "column,count,mean,std,min,25%,50%,75%,max\n")
	assert.Contains(t, string(data), "distance_km,4,250,129.5,100,175,250,325,400\n")
}
