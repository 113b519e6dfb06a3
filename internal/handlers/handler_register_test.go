package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sdejesus/pos_register_app/internal/apperrors"
	"github.com/sdejesus/pos_register_app/internal/core/domain"
	portssvc "github.com/sdejesus/pos_register_app/internal/core/ports/services"
	"github.com/sdejesus/pos_register_app/internal/dto"
	"github.com/sdejesus/pos_register_app/internal/handlers"
	"github.com/sdejesus/pos_register_app/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RegisterService ---
type MockRegisterService struct {
	mock.Mock
}

func (m *MockRegisterService) AddItem(ctx context.Context, code string, qty int64) (*domain.TotalsSnapshot, error) {
	args := m.Called(ctx, code, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TotalsSnapshot), args.Error(1)
}
func (m *MockRegisterService) VoidItem(ctx context.Context, index int) (*domain.TotalsSnapshot, error) {
	args := m.Called(ctx, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TotalsSnapshot), args.Error(1)
}
func (m *MockRegisterService) ChangeQuantity(ctx context.Context, index int, newQty int64) (*domain.TotalsSnapshot, error) {
	args := m.Called(ctx, index, newQty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TotalsSnapshot), args.Error(1)
}
func (m *MockRegisterService) Suspend(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockRegisterService) Resume(ctx context.Context, transactionID int64) (*domain.TotalsSnapshot, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TotalsSnapshot), args.Error(1)
}
func (m *MockRegisterService) Void(ctx context.Context, reason string) error {
	args := m.Called(ctx, reason)
	return args.Error(0)
}
func (m *MockRegisterService) Complete(ctx context.Context, paymentType string, tendered decimal.Decimal) (*domain.CompletedSale, error) {
	args := m.Called(ctx, paymentType, tendered)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletedSale), args.Error(1)
}
func (m *MockRegisterService) Totals(ctx context.Context) *domain.TotalsSnapshot {
	args := m.Called(ctx)
	return args.Get(0).(*domain.TotalsSnapshot)
}
func (m *MockRegisterService) ListSuspended(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
func (m *MockRegisterService) History(ctx context.Context, includeVoided, includeSuspended bool) ([]domain.RegisterTransaction, error) {
	args := m.Called(ctx, includeVoided, includeSuspended)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RegisterTransaction), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.RegisterSvcFacade = (*MockRegisterService)(nil)

// --- Test suite ---
type RegisterHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	registerService *MockRegisterService
}

func (s *RegisterHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.registerService = new(MockRegisterService)
	services := &portssvc.ServiceContainer{Register: s.registerService}
	s.router = gin.New()
	handlers.RegisterRoutes(s.router, &config.Config{}, services)
}

func (s *RegisterHandlerTestSuite) performJSON(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func sampleSnapshot() *domain.TotalsSnapshot {
	return &domain.TotalsSnapshot{
		TransactionID: 12,
		Subtotal:      decimal.RequireFromString("20.00"),
		Discount:      decimal.Zero,
		Tax:           decimal.RequireFromString("1.40"),
		Total:         decimal.RequireFromString("21.40"),
		Items: []domain.LineItem{
			{
				Product: domain.Product{
					Code:      "SKU1",
					Name:      "Widget",
					UnitPrice: decimal.RequireFromString("10.00"),
				},
				Quantity: 2,
			},
		},
	}
}

func (s *RegisterHandlerTestSuite) TestHealth() {
	rec := s.performJSON(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("OK", rec.Body.String())
}

func (s *RegisterHandlerTestSuite) TestAddItem_Success() {
	s.registerService.On("AddItem", mock.Anything, "SKU1", int64(2)).Return(sampleSnapshot(), nil)

	rec := s.performJSON(http.MethodPost, "/api/v1/register/items", dto.AddItemRequest{Code: "SKU1", Quantity: 2})
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp dto.TotalsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(int64(12), resp.TransactionID)
	s.True(resp.Total.Equal(decimal.RequireFromString("21.40")))
	s.Equal("21.40", resp.DisplayTotal)
	s.Require().Len(resp.Items, 1)
	s.Equal("SKU1", resp.Items[0].Code)
	s.True(resp.Items[0].Total.Equal(decimal.RequireFromString("20.00")))
}

func (s *RegisterHandlerTestSuite) TestAddItem_BindFailure() {
	rec := s.performJSON(http.MethodPost, "/api/v1/register/items", gin.H{"code": "SKU1"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.registerService.AssertNotCalled(s.T(), "AddItem")
}

func (s *RegisterHandlerTestSuite) TestAddItem_UnknownProduct() {
	s.registerService.On("AddItem", mock.Anything, "NOPE", int64(1)).Return(nil, apperrors.ErrNotFound)

	rec := s.performJSON(http.MethodPost, "/api/v1/register/items", dto.AddItemRequest{Code: "NOPE", Quantity: 1})
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RegisterHandlerTestSuite) TestVoidItem() {
	s.registerService.On("VoidItem", mock.Anything, 0).Return(sampleSnapshot(), nil)

	rec := s.performJSON(http.MethodDelete, "/api/v1/register/items/0", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.performJSON(http.MethodDelete, "/api/v1/register/items/abc", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RegisterHandlerTestSuite) TestChangeQuantity() {
	s.registerService.On("ChangeQuantity", mock.Anything, 1, int64(3)).Return(sampleSnapshot(), nil)

	rec := s.performJSON(http.MethodPut, "/api/v1/register/items/1", dto.ChangeQuantityRequest{Quantity: 3})
	s.Equal(http.StatusOK, rec.Code)

	rec = s.performJSON(http.MethodPut, "/api/v1/register/items/1", gin.H{"quantity": 0})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RegisterHandlerTestSuite) TestSuspend() {
	s.registerService.On("Suspend", mock.Anything).Return(nil).Once()
	rec := s.performJSON(http.MethodPost, "/api/v1/register/suspend", nil)
	s.Equal(http.StatusNoContent, rec.Code)

	s.registerService.On("Suspend", mock.Anything).Return(apperrors.ErrInvalidState).Once()
	rec = s.performJSON(http.MethodPost, "/api/v1/register/suspend", nil)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *RegisterHandlerTestSuite) TestResume() {
	s.registerService.On("Resume", mock.Anything, int64(21)).Return(sampleSnapshot(), nil)

	rec := s.performJSON(http.MethodPost, "/api/v1/register/resume", dto.ResumeRequest{TransactionID: 21})
	s.Equal(http.StatusOK, rec.Code)

	rec = s.performJSON(http.MethodPost, "/api/v1/register/resume", gin.H{})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RegisterHandlerTestSuite) TestVoid_WithAndWithoutBody() {
	s.registerService.On("Void", mock.Anything, "changed mind").Return(nil).Once()
	rec := s.performJSON(http.MethodPost, "/api/v1/register/void", dto.VoidRequest{Reason: "changed mind"})
	s.Equal(http.StatusNoContent, rec.Code)

	s.registerService.On("Void", mock.Anything, "").Return(nil).Once()
	rec = s.performJSON(http.MethodPost, "/api/v1/register/void", nil)
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *RegisterHandlerTestSuite) TestComplete() {
	sale := &domain.CompletedSale{
		TransactionID: 12,
		Subtotal:      decimal.RequireFromString("20.00"),
		Tax:           decimal.RequireFromString("1.40"),
		Total:         decimal.RequireFromString("21.40"),
		PaymentType:   "CASH",
		Tendered:      decimal.RequireFromString("25.00"),
		Change:        decimal.RequireFromString("3.60"),
	}
	s.registerService.On("Complete", mock.Anything, "CASH", mock.Anything).Return(sale, nil)

	rec := s.performJSON(http.MethodPost, "/api/v1/register/complete", gin.H{"paymentType": "CASH", "tendered": "25.00"})
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp dto.CompletedSaleResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("CASH", resp.PaymentType)
	s.Equal("3.60", resp.DisplayChange)
}

func (s *RegisterHandlerTestSuite) TestComplete_RejectsUnknownPaymentType() {
	rec := s.performJSON(http.MethodPost, "/api/v1/register/complete", gin.H{"paymentType": "BARTER", "tendered": "25.00"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.registerService.AssertNotCalled(s.T(), "Complete")
}

func (s *RegisterHandlerTestSuite) TestComplete_InsufficientPayment() {
	s.registerService.On("Complete", mock.Anything, "CASH", mock.Anything).Return(nil, apperrors.ErrInsufficientPayment)

	rec := s.performJSON(http.MethodPost, "/api/v1/register/complete", gin.H{"paymentType": "CASH", "tendered": "1.00"})
	s.Equal(http.StatusPaymentRequired, rec.Code)
}

func (s *RegisterHandlerTestSuite) TestListSuspended() {
	s.registerService.On("ListSuspended", mock.Anything).Return([]int64{5, 3}, nil)

	rec := s.performJSON(http.MethodGet, "/api/v1/register/suspended", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp dto.SuspendedListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal([]int64{5, 3}, resp.TransactionIDs)
}

func (s *RegisterHandlerTestSuite) TestHistory_QueryFlags() {
	s.registerService.On("History", mock.Anything, true, false).Return([]domain.RegisterTransaction{
		{ID: 4, Status: domain.StatusVoided},
	}, nil)

	rec := s.performJSON(http.MethodGet, "/api/v1/register/history?includeVoided=true", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp dto.HistoryResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Len(resp.Transactions, 1)
	s.Equal("VOIDED", resp.Transactions[0].Status)
}

func TestRegisterHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RegisterHandlerTestSuite))
}
