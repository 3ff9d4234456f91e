package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/books_backend/internal/core/domain"
	portssvc "github.com/finbooks/books_backend/internal/core/ports/services"
	"github.com/finbooks/books_backend/internal/dto"
	"github.com/finbooks/books_backend/internal/handlers"
	"github.com/finbooks/books_backend/internal/middleware"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, companyID, params)
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), token, args.Error(2)
}

func (m *MockTransactionService) GetLedgerEntries(ctx context.Context, companyID string, transactionID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockTransactionService) GetApprovalHistory(ctx context.Context, companyID string, transactionID string) ([]domain.ApprovalHistory, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalHistory), args.Error(1)
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) UpdateTransaction(ctx context.Context, companyID string, transactionID string, req dto.UpdateTransactionRequest, requestingUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) DeleteTransaction(ctx context.Context, companyID string, transactionID string, requestingUserID string) error {
	args := m.Called(ctx, companyID, transactionID, requestingUserID)
	return args.Error(0)
}

func (m *MockTransactionService) TransitionStatus(ctx context.Context, companyID string, transactionID string, req dto.TransitionStatusRequest, requestingUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ApplyPayment(ctx context.Context, companyID string, targetID string, req dto.ApplyPaymentRequest, requestingUserID string) (*domain.Transaction, *domain.Transaction, error) {
	args := m.Called(ctx, companyID, targetID, req, requestingUserID)
	var payment, target *domain.Transaction
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.Transaction)
	}
	if args.Get(1) != nil {
		target = args.Get(1).(*domain.Transaction)
	}
	return payment, target, args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockSvc   *MockTransactionService
	jwtSecret string
	companyID string
	userID    string
}

// generateTestToken creates a signed JWT carrying the suite's identity.
func (suite *TransactionHandlerTestSuite) generateTestToken() string {
	claims := middleware.AccessClaims{
		CompanyID: suite.companyID,
		Role:      "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "books-test",
			Subject:   suite.userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockSvc = new(MockTransactionService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterTransactionRoutes(v1, suite.mockSvc)
}

func (suite *TransactionHandlerTestSuite) serve(method, url string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken())
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestListTransactions_DateFiltersParsed() {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	suite.mockSvc.On("ListTransactions",
		mock.Anything,
		suite.companyID,
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
			return p.FromDate != nil && p.FromDate.Equal(from) &&
				p.ToDate != nil && p.ToDate.Equal(to)
		}),
	).Return([]domain.Transaction{}, nil, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/transactions?fromDate=2026-01-01&toDate=2026-03-31")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Empty(resp.Transactions)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_MalformedDateRejected() {
	w := suite.serve(http.MethodGet, "/api/v1/transactions?fromDate=not-a-date")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "fromDate")
	suite.mockSvc.AssertNotCalled(suite.T(), "ListTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_MalformedToDateRejected() {
	w := suite.serve(http.MethodGet, "/api/v1/transactions?toDate=31-03-2026")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "toDate")
	suite.mockSvc.AssertNotCalled(suite.T(), "ListTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_Success() {
	txnID := uuid.NewString()
	txn := &domain.Transaction{
		TransactionID:     txnID,
		CompanyID:         suite.companyID,
		TransactionNumber: "INV-2026-007",
		TransactionType:   domain.Invoice,
		Status:            domain.StatusDraft,
		TotalAmount:       decimal.NewFromInt(99),
		BalanceAmount:     decimal.NewFromInt(99),
	}
	suite.mockSvc.On("GetTransactionByID", mock.Anything, suite.companyID, txnID).Return(txn, nil).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/transactions/%s", txnID))

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "INV-2026-007")
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_Unauthenticated() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockSvc.AssertNotCalled(suite.T(), "ListTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
