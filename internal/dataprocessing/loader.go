package dataprocessing

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// DefaultSheetName is the worksheet read from and written to shipment workbooks
const DefaultSheetName = "Shipments"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// accepted date layouts, most specific last
var dateLayouts = []string{
	domain.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Table is a loaded shipment table
type Table struct {
	Source  string
	Records []domain.ShipmentRecord
}

// HasMonth reports whether any record carries a month attribute
func (t *Table) HasMonth() bool {
	for _, r := range t.Records {
		if r.HasMonth() {
			return true
		}
	}
	return false
}

// LoaderConfig configures a Loader
type LoaderConfig struct {
	// DeriveMonth fills Month from Date when the table has no month column
	DeriveMonth bool
	// SheetName selects the worksheet of an .xlsx input; empty means DefaultSheetName,
	// falling back to the first sheet
	SheetName string
}

// Loader reads shipment tables from CSV or XLSX files
type Loader struct {
	config LoaderConfig
	logger *slog.Logger
}

// NewLoader creates a new loader
func NewLoader(config LoaderConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		config: config,
		logger: logger.With(slog.String("component", "loader")),
	}
}

// LoadFile loads the table at path. The format is chosen by extension:
// .xlsx is read with excelize, everything else as CSV.
// A missing file yields a NOT_FOUND error, a bad header or cell a SCHEMA error.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NewInputNotFoundError(path, err)
	}
	if info.IsDir() {
		return nil, apperrors.NewInputNotFoundError(path, fmt.Errorf("%s is a directory", path))
	}

	start := time.Now()
	var table *Table
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		table, err = l.loadXLSX(ctx, path)
	} else {
		table, err = l.loadCSV(ctx, path)
	}
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to load table",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	table.Source = path
	l.logger.InfoContext(ctx, "table loaded",
		slog.String("path", path),
		slog.Int("records", len(table.Records)),
		slog.Duration("duration", time.Since(start)))
	return table, nil
}

func (l *Loader) loadCSV(ctx context.Context, path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInputNotFoundError(path, err)
	}
	defer file.Close()

	return l.ReadCSV(ctx, file)
}

// ReadCSV parses a CSV stream. A leading UTF-8 BOM is skipped.
func (l *Loader) ReadCSV(ctx context.Context, r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(len(utf8BOM)); err == nil && string(bom) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewSchemaError("input is empty, header row expected", nil)
		}
		return nil, apperrors.NewSchemaError("failed to read header", err)
	}

	parser, err := newRowParser(header, l.config.DeriveMonth)
	if err != nil {
		return nil, err
	}

	table := &Table{}
	for row := 2; ; row++ {
		if row%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("malformed CSV at row %d", row), err)
		}
		if isBlankRow(fields) {
			continue
		}
		rec, err := parser.parse(fields, row)
		if err != nil {
			return nil, err
		}
		table.Records = append(table.Records, rec)
	}
	return table, nil
}

func (l *Loader) loadXLSX(ctx context.Context, path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	sheet := l.config.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewSchemaError("workbook has no sheets", nil)
		}
		l.logger.WarnContext(ctx, "sheet not found, using first sheet",
			slog.String("wanted", sheet),
			slog.String("using", sheets[0]))
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("failed to read sheet %s", sheet), err)
	}
	return l.ReadRows(ctx, rows)
}

// ReadRows parses pre-split rows, the first being the header
func (l *Loader) ReadRows(ctx context.Context, rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewSchemaError("input is empty, header row expected", nil)
	}
	parser, err := newRowParser(rows[0], l.config.DeriveMonth)
	if err != nil {
		return nil, err
	}

	table := &Table{Records: make([]domain.ShipmentRecord, 0, len(rows)-1)}
	for i, fields := range rows[1:] {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlankRow(fields) {
			continue
		}
		rec, err := parser.parse(fields, i+2)
		if err != nil {
			return nil, err
		}
		table.Records = append(table.Records, rec)
	}
	return table, nil
}

func isBlankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// rowParser maps header positions onto record fields
type rowParser struct {
	index       map[string]int
	deriveMonth bool
}

func newRowParser(header []string, deriveMonth bool) (*rowParser, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		clean := strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if _, dup := index[clean]; !dup {
			index[clean] = i
		}
	}

	var missing []string
	for _, col := range domain.RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")), nil).
			WithContext("missing_columns", missing)
	}

	_, hasMonth := index[domain.ColMonth]
	return &rowParser{index: index, deriveMonth: deriveMonth && !hasMonth}, nil
}

// cell returns the trimmed value of col, or "" when the column is absent or the row short
func (p *rowParser) cell(fields []string, col string) string {
	i, ok := p.index[col]
	if !ok || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func (p *rowParser) parse(fields []string, row int) (domain.ShipmentRecord, error) {
	fp := fieldParser{p: p, fields: fields, row: row}

	rec := domain.ShipmentRecord{
		ShipmentID:         fp.optInt(domain.ColShipmentID),
		FromCity:           p.cell(fields, domain.ColFromCity),
		ToCity:             p.cell(fields, domain.ColToCity),
		DistanceKm:         fp.reqInt(domain.ColDistanceKm),
		WeightKg:           fp.reqInt(domain.ColWeightKg),
		VolumeM3:           fp.optFloat(domain.ColVolumeM3),
		CargoType:          p.cell(fields, domain.ColCargoType),
		Carrier:            p.cell(fields, domain.ColCarrier),
		CostRub:            fp.reqFloat(domain.ColCostRub),
		BaseCostPerKm:      fp.optFloat(domain.ColBaseCostPerKm),
		Date:               fp.reqDate(domain.ColDate),
		Status:             domain.ShipmentStatus(p.cell(fields, domain.ColStatus)),
		CarrierReliability: fp.optFloat(domain.ColCarrierReliability),
		CargoFragility:     fp.optFloat(domain.ColCargoFragility),
		CustomerID:         fp.optInt(domain.ColCustomerID),
		CustomerSegment:    domain.CustomerSegment(p.cell(fields, domain.ColCustomerSegment)),
		Insurance:          fp.optBool(domain.ColInsurance),
		InsuranceCost:      fp.optFloat(domain.ColInsuranceCost),
		FuelSurcharge:      fp.optFloat(domain.ColFuelSurcharge),
		Priority:           domain.Priority(p.cell(fields, domain.ColPriority)),
		PaymentMethod:      domain.PaymentMethod(p.cell(fields, domain.ColPaymentMethod)),
		HasReturn:          fp.optBool(domain.ColHasReturn),
		ReturnCost:         fp.optFloat(domain.ColReturnCost),
		Month:              fp.optInt(domain.ColMonth),
	}
	if p.cell(fields, domain.ColDeliveryDays) != "" {
		days := fp.optInt(domain.ColDeliveryDays)
		rec.DeliveryDays = &days
	}
	if fp.err != nil {
		return domain.ShipmentRecord{}, fp.err
	}

	if rec.Month != 0 && !rec.HasMonth() {
		return domain.ShipmentRecord{}, fieldError(row, domain.ColMonth, strconv.Itoa(rec.Month),
			errors.New("month must be within 1..12"))
	}
	if p.deriveMonth && !rec.Date.IsZero() {
		rec.Month = int(rec.Date.Month())
	}
	return rec, nil
}

// fieldParser keeps the first conversion error of a row
type fieldParser struct {
	p      *rowParser
	fields []string
	row    int
	err    error
}

func (f *fieldParser) fail(col, value string, cause error) {
	if f.err == nil {
		f.err = fieldError(f.row, col, value, cause)
	}
}

func (f *fieldParser) reqInt(col string) int {
	v := f.p.cell(f.fields, col)
	if v == "" {
		f.fail(col, v, errors.New("value is required"))
		return 0
	}
	n, err := parseInt(v)
	if err != nil {
		f.fail(col, v, err)
	}
	return n
}

func (f *fieldParser) optInt(col string) int {
	v := f.p.cell(f.fields, col)
	if v == "" {
		return 0
	}
	n, err := parseInt(v)
	if err != nil {
		f.fail(col, v, err)
	}
	return n
}

func (f *fieldParser) reqFloat(col string) float64 {
	v := f.p.cell(f.fields, col)
	if v == "" {
		f.fail(col, v, errors.New("value is required"))
		return 0
	}
	n, err := parseFloat(v)
	if err != nil {
		f.fail(col, v, err)
	}
	return n
}

func (f *fieldParser) optFloat(col string) float64 {
	v := f.p.cell(f.fields, col)
	if v == "" {
		return 0
	}
	n, err := parseFloat(v)
	if err != nil {
		f.fail(col, v, err)
	}
	return n
}

func (f *fieldParser) optBool(col string) bool {
	v := f.p.cell(f.fields, col)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		f.fail(col, v, err)
	}
	return b
}

func (f *fieldParser) reqDate(col string) time.Time {
	v := f.p.cell(f.fields, col)
	if v == "" {
		f.fail(col, v, errors.New("value is required"))
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	f.fail(col, v, fmt.Errorf("expected %s", domain.DateLayout))
	return time.Time{}
}

func fieldError(row int, col, value string, cause error) error {
	return apperrors.NewSchemaError(
		fmt.Sprintf("row %d: invalid %s %q", row, col, value), cause).
		WithContext("row", row).
		WithContext("column", col)
}

// parseInt accepts integral values written as floats, e.g. "450.0"
func parseInt(v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s is not an integer", v)
	}
	// float64(math.MaxInt) rounds up to 2^63, so the upper bound is exclusive
	if f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("%s is out of range", v)
	}
	return int(f), nil
}

func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s is not a finite number", v)
	}
	return f, nil
}
