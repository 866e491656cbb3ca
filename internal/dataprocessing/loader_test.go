package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
	"github.com/burevuh-next/logistics-analyzer/internal/shared/testutil"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

const sampleCSV = `shipment_id,from_city,to_city,distance_km,weight_kg,volume_m3,cargo_type,carrier,cost_rub,base_cost_per_km,date,status,delivery_days,carrier_reliability,cargo_fragility,customer_id,customer_segment,insurance,insurance_cost,fuel_surcharge,priority,payment_method,has_return,return_cost
1,Moscow,Kazan,800,120,0.5,Electronics,PEK,45000.5,25.5,2023-02-10,Delivered,3,0.92,0.8,1234,A,True,450.01,1200.5,Express,Prepaid,False,0
2,Kazan,Ufa,525,80,0.2,Food,Ratek,18000,22.1,2023-03-05,InTransit,,0.85,0.3,2345,B,False,0,300,Standard,Split,True,1500.25
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_LoadFile_CSV(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	loader := NewLoader(LoaderConfig{}, logger)
	path := writeFile(t, "shipments.csv", sampleCSV)

	table, err := loader.LoadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, path, table.Source)
	assert.False(t, table.HasMonth())

	first := table.Records[0]
	assert.Equal(t, 1, first.ShipmentID)
	assert.Equal(t, domain.RouteKey{From: "Moscow", To: "Kazan"}, first.Route())
	assert.Equal(t, 800, first.DistanceKm)
	assert.Equal(t, 120, first.WeightKg)
	assert.InDelta(t, 45000.5, first.CostRub, 1e-9)
	assert.Equal(t, time.Date(2023, time.February, 10, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, domain.StatusDelivered, first.Status)
	require.NotNil(t, first.DeliveryDays)
	assert.Equal(t, 3, *first.DeliveryDays)
	assert.True(t, first.Insurance)
	assert.Equal(t, domain.PriorityExpress, first.Priority)

	second := table.Records[1]
	assert.Nil(t, second.DeliveryDays)
	assert.True(t, second.HasReturn)
	assert.InDelta(t, 1500.25, second.ReturnCost, 1e-9)
	assert.Equal(t, domain.PaymentSplit, second.PaymentMethod)

	assert.True(t, handler.ContainsMessage("table loaded"))
}

func TestLoader_ReadCSV(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		config     LoaderConfig
		wantErr    bool
		errContain string
		check      func(t *testing.T, table *Table)
	}{
		{
			name:  "byte order mark is stripped",
			input: "\ufefffrom_city,to_city,distance_km,weight_kg,carrier,cost_rub,date\nA,B,100,10,X,500,2023-01-05\n",
			check: func(t *testing.T, table *Table) {
				require.Len(t, table.Records, 1)
				assert.Equal(t, "A", table.Records[0].FromCity)
			},
		},
		{
			name:  "columns in any order",
			input: "cost_rub,date,carrier,weight_kg,distance_km,to_city,from_city\n500,2023-01-05,X,10,100,B,A\n",
			check: func(t *testing.T, table *Table) {
				require.Len(t, table.Records, 1)
				r := table.Records[0]
				assert.Equal(t, 100, r.DistanceKm)
				assert.InDelta(t, 500, r.CostRub, 1e-9)
			},
		},
		{
			name:  "integral floats accepted for integer columns",
			input: "from_city,to_city,distance_km,weight_kg,carrier,cost_rub,date\nA,B,100.0,10.0,X,500,2023-01-05 00:00:00\n",
			check: func(t *testing.T, table *Table) {
				assert.Equal(t, 100, table.Records[0].DistanceKm)
				assert.Equal(t, 10, table.Records[0].WeightKg)
			},
		},
		{
			name:  "month column is read",
			input: "from_city,to_city,distance_km,weight_kg,carrier,cost_rub,date,month\nA,B,100,10,X,500,2023-01-05,7\n",
			check: func(t *testing.T, table *Table) {
				assert.Equal(t, 7, table.Records[0].Month)
				assert.True(t, table.HasMonth())
			},
		},
		{
			name:   "month derived from date when configured",
			input:  "from_city,to_city,distance_km,weight_kg,carrier,cost_rub,date\nA,B,100,10,X,500,2023-09-05\n",
			config: LoaderConfig{DeriveMonth: true},
			check: func(t *testing.T, table *Table) {
				assert.Equal(t, 9, table.Records[0].Month)
			},
		},
		{
			name:  "blank lines skipped",
			input: "from_city,to_city,distance_km,weight_kg,carrier,cost_rub,date\n\nA,B,100,10,X,500,2023-01-05\n,,,,,,\n",
			check: func(t *testing.T, table *Table) {
				assert.Len(t, table.Records, 1)
			},
		},
		{
			name:  "header only yields empty table",
			input: "from_city,to_city,distance_km,weight_kg,carrier,cost_rub,date\n",
			check: func(t *testing.T, table *Table) {
				assert.Empty(t, table.Records)
			},
		},
		{
			name:       "missing columns reported together",
			input:      "from_city,to_city,weight_kg,carrier,date\nA,B,10,X,2023-01-05\n",
			wantErr:    true,
			errContain: "distance_km, cost_rub",
		},
		{
			name:       "unparseable distance",
			input:      "from_city,to_city,distance_km,weight_kg,carrier,cost_rub,date\nA,B,100,10,X,500,2023-01-05\nA,C,far,10,X,500,2023-01-05\n",
			wantErr:    true,
			errContain: "row 3: invalid distance_km",
		},
		{
			name:       "distance beyond int range",
			input:      "from_city,to_city,distance_km,weight_kg,carrier,cost_rub,date\nA,B,100,10,X,500,2023-01-05\nA,C,1e20,10,X,500,2023-01-05\n",
			wantErr:    true,
			errContain: "row 3: invalid distance_km",
		},
		{
			name:       "weight beyond int range",
			input:      "from_city,to_city,distance_km,weight_kg,carrier,cost_rub,date\nA,B,100,-1e20,X,500,2023-01-05\n",
			wantErr:    true,
			errContain: "row 2: invalid weight_kg",
		},
		{
			name:       "integer overflow without exponent",
			input:      "from_city,to_city,distance_km,weight_kg,carrier,cost_rub,date\nA,B,99999999999999999999,10,X,500,2023-01-05\n",
			wantErr:    true,
			errContain: "invalid distance_km",
		},
		{
			name:       "empty required cost",
			input:      "from_city,to_city,distance_km,weight_kg,carrier,cost_rub,date\nA,B,100,10,X,,2023-01-05\n",
			wantErr:    true,
			errContain: "invalid cost_rub",
		},
		{
			name:       "bad date",
			input:      "from_city,to_city,distance_km,weight_kg,carrier,cost_rub,date\nA,B,100,10,X,500,05/01/2023\n",
			wantErr:    true,
			errContain: "invalid date",
		},
		{
			name:       "month out of range",
			input:      "from_city,to_city,distance_km,weight_kg,carrier,cost_rub,date,month\nA,B,100,10,X,500,2023-01-05,13\n",
			wantErr:    true,
			errContain: "invalid month",
		},
		{
			name:       "empty input",
			input:      "",
			wantErr:    true,
			errContain: "header row expected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(tt.config, nil)

			table, err := loader.ReadCSV(context.Background(), strings.NewReader(tt.input))

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, table)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))
				assert.Contains(t, err.Error(), tt.errContain)
				return
			}
			require.NoError(t, err)
			tt.check(t, table)
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "450", want: 450},
		{in: "450.0", want: 450},
		{in: "-3", want: -3},
		{in: "1e3", want: 1000},
		{in: "450.5", wantErr: true},
		{in: "1e20", wantErr: true},
		{in: "-1e20", wantErr: true},
		{in: "9223372036854775807.0", wantErr: true},
		{in: "Inf", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseInt(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	loader := NewLoader(LoaderConfig{}, nil)

	_, err := loader.LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	_, err = loader.LoadFile(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestLoader_LoadFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shipments.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", DefaultSheetName))
	require.NoError(t, f.SetSheetRow(DefaultSheetName, "A1", &[]interface{}{
		"from_city", "to_city", "distance_km", "weight_kg", "carrier", "cost_rub", "date", "month",
	}))
	require.NoError(t, f.SetSheetRow(DefaultSheetName, "A2", &[]interface{}{
		"Moscow", "Kazan", 800, 120, "PEK", 16000.5, "2023-04-02", 4,
	}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := NewLoader(LoaderConfig{}, nil).LoadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)

	r := table.Records[0]
	assert.Equal(t, "Moscow", r.FromCity)
	assert.Equal(t, 800, r.DistanceKm)
	assert.InDelta(t, 16000.5, r.CostRub, 1e-9)
	assert.Equal(t, 4, r.Month)
}

func TestLoader_ReadRows_ShortRows(t *testing.T) {
	rows := [][]string{
		{"from_city", "to_city", "distance_km", "weight_kg", "carrier", "cost_rub", "date", "delivery_days"},
		{"A", "B", "100", "10", "X", "500", "2023-01-05"},
	}

	table, err := NewLoader(LoaderConfig{}, nil).ReadRows(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Nil(t, table.Records[0].DeliveryDays)
}

func TestLoader_ReadRows_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := [][]string{
		{"from_city", "to_city", "distance_km", "weight_kg", "carrier", "cost_rub", "date"},
		{"A", "B", "100", "10", "X", "500", "2023-01-05"},
	}
	_, err := NewLoader(LoaderConfig{}, nil).ReadRows(ctx, rows)
	assert.ErrorIs(t, err, context.Canceled)
}
