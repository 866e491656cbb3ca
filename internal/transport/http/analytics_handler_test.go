package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
	"github.com/burevuh-next/logistics-analyzer/internal/services"
	"github.com/burevuh-next/logistics-analyzer/internal/shared/testutil"
	api "github.com/burevuh-next/logistics-analyzer/pkg/contracts/api/v1"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// MockAnalyticsService is a mock implementation of AnalyticsServiceInterface
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) KPIs(ctx context.Context) (*api.KPIResponse, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.KPIResponse), args.Error(1)
}

func (m *MockAnalyticsService) Carriers(ctx context.Context) (*api.CarriersResponse, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.CarriersResponse), args.Error(1)
}

func (m *MockAnalyticsService) CarrierCosts(ctx context.Context) (*api.CarrierCostsResponse, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.CarrierCostsResponse), args.Error(1)
}

func (m *MockAnalyticsService) Routes(ctx context.Context, top int) (*api.RoutesResponse, error) {
	args := m.Called(top)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.RoutesResponse), args.Error(1)
}

func (m *MockAnalyticsService) ProfitableRoutes(ctx context.Context, top int) (*api.ProfitableRoutesResponse, error) {
	args := m.Called(top)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ProfitableRoutesResponse), args.Error(1)
}

func (m *MockAnalyticsService) Seasonal(ctx context.Context) (*domain.SeasonalReport, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeasonalReport), args.Error(1)
}

func (m *MockAnalyticsService) Summary(ctx context.Context) (*domain.DatasetSummary, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DatasetSummary), args.Error(1)
}

func newAnalyticsRouter(t *testing.T, svc AnalyticsServiceInterface) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewAnalyticsHandler(svc, logger, apperrors.NewErrorHandler(logger, false))
	r := chi.NewRouter()
	r.Mount("/api/v1", h.Routes())
	return r
}

func serve(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestAnalyticsHandler_GetKPIs(t *testing.T) {
	tests := []struct {
		name       string
		setupMock  func(*MockAnalyticsService)
		wantStatus int
		wantType   string
	}{
		{
			name: "success",
			setupMock: func(m *MockAnalyticsService) {
				m.On("KPIs").Return(&api.KPIResponse{
					Source: "data.csv",
					KPIs:   domain.KPISet{TotalShipments: 3, TotalCost: 16000},
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "dataset missing",
			setupMock: func(m *MockAnalyticsService) {
				m.On("KPIs").Return(nil, apperrors.NewInputNotFoundError("data.csv", nil))
			},
			wantStatus: http.StatusNotFound,
			wantType:   apperrors.TypeDatasetNotFound,
		},
		{
			name: "schema error",
			setupMock: func(m *MockAnalyticsService) {
				m.On("KPIs").Return(nil, apperrors.NewSchemaError("missing required columns: cost_rub", nil))
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apperrors.TypeDatasetSchema,
		},
		{
			name: "no dataset configured",
			setupMock: func(m *MockAnalyticsService) {
				m.On("KPIs").Return(nil, apperrors.NewConfigError("dataset path is empty", services.ErrNoDatasetConfigured))
			},
			wantStatus: http.StatusServiceUnavailable,
			wantType:   apperrors.TypeServiceDown,
		},
		{
			name: "unexpected error",
			setupMock: func(m *MockAnalyticsService) {
				m.On("KPIs").Return(nil, errors.New("disk on fire"))
			},
			wantStatus: http.StatusInternalServerError,
			wantType:   apperrors.TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalyticsService)
			tt.setupMock(svc)

			rec, body := serve(t, newAnalyticsRouter(t, svc), "/api/v1/kpis")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, body["type"])
			} else {
				kpis := body["kpis"].(map[string]interface{})
				assert.Equal(t, float64(3), kpis["total_shipments"])
				assert.Equal(t, "data.csv", body["source"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAnalyticsHandler_TopParameter(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		method     string
		wantTop    int
		wantStatus int
	}{
		{name: "routes default", target: "/api/v1/routes", method: "Routes", wantTop: DefaultTopRoutes, wantStatus: http.StatusOK},
		{name: "routes explicit", target: "/api/v1/routes?top=4", method: "Routes", wantTop: 4, wantStatus: http.StatusOK},
		{name: "routes zero", target: "/api/v1/routes?top=0", wantStatus: http.StatusBadRequest},
		{name: "routes too large", target: "/api/v1/routes?top=1000", wantStatus: http.StatusBadRequest},
		{name: "routes malformed", target: "/api/v1/routes?top=ten", wantStatus: http.StatusBadRequest},
		{name: "profitable default", target: "/api/v1/routes/profitable", method: "ProfitableRoutes", wantTop: DefaultTopProfitable, wantStatus: http.StatusOK},
		{name: "profitable explicit", target: "/api/v1/routes/profitable?top=7", method: "ProfitableRoutes", wantTop: 7, wantStatus: http.StatusOK},
		{name: "profitable negative", target: "/api/v1/routes/profitable?top=-2", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalyticsService)
			switch tt.method {
			case "Routes":
				svc.On("Routes", tt.wantTop).Return(&api.RoutesResponse{
					Popular:   []domain.RouteStats{{Route: domain.RouteKey{From: "A", To: "B"}, Shipments: 2}},
					Expensive: []domain.RouteStats{},
				}, nil)
			case "ProfitableRoutes":
				svc.On("ProfitableRoutes", tt.wantTop).Return(&api.ProfitableRoutesResponse{
					Routes: []domain.ProfitableRoute{{Route: domain.RouteKey{From: "A", To: "B"}, ShipmentID: 2}},
				}, nil)
			}

			rec, body := serve(t, newAnalyticsRouter(t, svc), tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, apperrors.TypeValidation, body["type"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAnalyticsHandler_OtherEndpoints(t *testing.T) {
	svc := new(MockAnalyticsService)
	svc.On("Carriers").Return(&api.CarriersResponse{
		Carriers: []domain.CarrierStats{{Carrier: "DHL", Shipments: 2}},
		Warnings: []domain.AnalysisWarning{{Group: "Ghost", Metric: "avg_cost_per_km"}},
	}, nil)
	svc.On("CarrierCosts").Return(&api.CarrierCostsResponse{
		Carriers: []api.CarrierCost{{Carrier: "DHL", TotalCost: 13000}},
	}, nil)
	svc.On("Seasonal").Return(&domain.SeasonalReport{
		Applicable:   true,
		Months:       []domain.MonthStats{{Month: 3, Shipments: 2}},
		BusiestMonth: 3,
	}, nil)
	svc.On("Summary").Return(&domain.DatasetSummary{Records: 3, Carriers: 2}, nil)

	router := newAnalyticsRouter(t, svc)

	rec, body := serve(t, router, "/api/v1/carriers")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["carriers"], 1)
	assert.Len(t, body["warnings"], 1)

	rec, body = serve(t, router, "/api/v1/carriers/costs")
	require.Equal(t, http.StatusOK, rec.Code)
	costs := body["carriers"].([]interface{})
	assert.Equal(t, 13000.0, costs[0].(map[string]interface{})["total_cost"])

	rec, body = serve(t, router, "/api/v1/seasonal")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["applicable"])
	assert.Equal(t, float64(3), body["busiest_month"])

	rec, body = serve(t, router, "/api/v1/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), body["records"])

	svc.AssertExpectations(t)
}

type stubHealth struct {
	ready bool
}

func (s stubHealth) HealthCheck(context.Context) services.HealthStatus {
	return services.HealthStatus{Status: "ok", Version: "1.0.0"}
}

func (s stubHealth) ReadinessCheck(context.Context) services.HealthStatus {
	if s.ready {
		return services.HealthStatus{Status: "ready"}
	}
	return services.HealthStatus{Status: "not_ready"}
}

func (s stubHealth) LivenessCheck(context.Context) services.HealthStatus {
	return services.HealthStatus{Status: "alive"}
}

func (s stubHealth) Version() map[string]interface{} {
	return map[string]interface{}{"version": "1.0.0"}
}

func (s stubHealth) DatasetPath() string { return "data/logistics_data.csv" }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		target     string
		wantStatus int
		wantField  string
		wantValue  interface{}
	}{
		{name: "health", target: "/api/health", wantStatus: http.StatusOK, wantField: "dataset", wantValue: "data/logistics_data.csv"},
		{name: "ready", ready: true, target: "/api/health/ready", wantStatus: http.StatusOK, wantField: "status", wantValue: "ready"},
		{name: "not ready", target: "/api/health/ready", wantStatus: http.StatusServiceUnavailable, wantField: "status", wantValue: "not_ready"},
		{name: "live", target: "/api/health/live", wantStatus: http.StatusOK, wantField: "status", wantValue: "alive"},
		{name: "version", target: "/api/version", wantStatus: http.StatusOK, wantField: "version", wantValue: "1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(stubHealth{ready: tt.ready}, nil)
			r := chi.NewRouter()
			r.Mount("/api/health", h.Routes())
			r.Get("/api/version", h.Version)

			rec, body := serve(t, r, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantValue, body[tt.wantField])
		})
	}
}
