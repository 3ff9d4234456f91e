package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/books_backend/internal/apperrors"
	"github.com/finbooks/books_backend/internal/core/domain"
	portsrepo "github.com/finbooks/books_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/books_backend/internal/core/ports/services"
	"github.com/finbooks/books_backend/internal/core/services"
	"github.com/finbooks/books_backend/internal/dto"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

// Ensure MockAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByCompany(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindSystemAccounts(ctx context.Context, companyID string) (map[domain.SystemAccountCode]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.SystemAccountCode]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) HasChildren(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) HasLedgerEntries(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SumLedgerBalance(ctx context.Context, companyID, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) ListLedgerEntriesByAccount(ctx context.Context, companyID, accountID string, limit int, nextToken string) ([]domain.LedgerEntry, string, error) {
	args := m.Called(ctx, companyID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), args.String(1), args.Error(2)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, companyID, accountID, userID string, now time.Time) error {
	args := m.Called(ctx, companyID, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, companyID, accountID string) error {
	args := m.Called(ctx, companyID, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade
	companyID       string
	userID          string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) newAccount(code string, accountType domain.AccountType) *domain.Account {
	return &domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        code,
		Name:        "Account " + code,
		AccountType: accountType,
		IsActive:    true,
	}
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:           "6100",
		Name:           "Office Supplies",
		AccountType:    domain.Expense,
		OpeningBalance: decimal.NewFromInt(250),
	}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.companyID, "6100").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal("6100", created.Code)
	suite.Equal(domain.Expense, created.AccountType)
	suite.True(created.OpeningBalance.Equal(decimal.NewFromInt(250)))
	suite.True(created.CurrentBalance.Equal(decimal.NewFromInt(250)))
	suite.True(created.IsActive)
	suite.False(created.IsSystemAccount)
	suite.Equal(suite.userID, created.CreatedBy)

	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	existing := suite.newAccount("6100", domain.Expense)

	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.companyID, "6100").Return(existing, nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.companyID, dto.CreateAccountRequest{
		Code:        "6100",
		Name:        "Office Supplies",
		AccountType: domain.Expense,
	}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(created)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	ctx := context.Background()

	created, err := suite.service.CreateAccount(ctx, suite.companyID, dto.CreateAccountRequest{
		Code:        "9999",
		Name:        "Mystery",
		AccountType: domain.AccountType("IMAGINARY"),
	}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(created)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	ctx := context.Background()
	parent := suite.newAccount("4000", domain.Revenue)

	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.companyID, "6200").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, parent.AccountID).Return(parent, nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.companyID, dto.CreateAccountRequest{
		Code:            "6200",
		Name:            "Travel",
		AccountType:     domain.Expense,
		ParentAccountID: parent.AccountID,
	}, suite.userID)

	suite.Require().ErrorIs(err, services.ErrParentTypeDiffers)
	suite.Nil(created)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_ParentCycle() {
	ctx := context.Background()
	child := suite.newAccount("6100", domain.Expense)
	grandchild := suite.newAccount("6110", domain.Expense)
	grandchild.ParentAccountID = child.AccountID

	// Re-parenting child under its own descendant closes a cycle.
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, child.AccountID).Return(child, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, grandchild.AccountID).Return(grandchild, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.companyID, child.AccountID, dto.UpdateAccountRequest{
		ParentAccountID: &grandchild.AccountID,
	}, suite.userID)

	suite.Require().ErrorIs(err, services.ErrParentCycle)
	suite.Nil(updated)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SystemAccountReparentRejected() {
	ctx := context.Background()
	sysAccount := suite.newAccount(string(domain.CodeCash), domain.Asset)
	sysAccount.IsSystemAccount = true
	parentID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, sysAccount.AccountID).Return(sysAccount, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.companyID, sysAccount.AccountID, dto.UpdateAccountRequest{
		ParentAccountID: &parentID,
	}, suite.userID)

	suite.Require().ErrorIs(err, services.ErrSystemAccount)
	suite.Nil(updated)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_SystemAccountRejected() {
	ctx := context.Background()
	sysAccount := suite.newAccount(string(domain.CodeSalesRevenue), domain.Revenue)
	sysAccount.IsSystemAccount = true

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, sysAccount.AccountID).Return(sysAccount, nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.companyID, sysAccount.AccountID, suite.userID)

	suite.Require().ErrorIs(err, services.ErrSystemAccount)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()
	account := suite.newAccount("6300", domain.Expense)

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("HasChildren", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("HasLedgerEntries", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("DeleteAccount", ctx, suite.companyID, account.AccountID).Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.companyID, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_HasChildren() {
	ctx := context.Background()
	account := suite.newAccount("6300", domain.Expense)

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("HasChildren", ctx, account.AccountID).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.companyID, account.AccountID, suite.userID)

	suite.Require().ErrorIs(err, services.ErrAccountInUse)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_HasLedgerEntries() {
	ctx := context.Background()
	account := suite.newAccount("6300", domain.Expense)

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("HasChildren", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("HasLedgerEntries", ctx, account.AccountID).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.companyID, account.AccountID, suite.userID)

	suite.Require().ErrorIs(err, services.ErrAccountInUse)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestSeedDefaultAccounts_Success() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindSystemAccounts", ctx, suite.companyID).Return(map[domain.SystemAccountCode]domain.Account{}, nil).Once()
	suite.mockAccountRepo.On("SaveAccounts", ctx, mock.AnythingOfType("[]domain.Account")).Return(nil).Once()

	accounts, err := suite.service.SeedDefaultAccounts(ctx, suite.companyID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotEmpty(accounts)
	codes := make(map[string]bool, len(accounts))
	for _, acc := range accounts {
		suite.True(acc.IsSystemAccount)
		suite.True(acc.IsActive)
		suite.Equal(suite.companyID, acc.CompanyID)
		codes[acc.Code] = true
	}
	suite.True(codes[string(domain.CodeCash)])
	suite.True(codes[string(domain.CodeAccountsReceivable)])
	suite.True(codes[string(domain.CodeAccountsPayable)])
	suite.True(codes[string(domain.CodeSalesRevenue)])
	suite.True(codes[string(domain.CodePurchaseExpense)])

	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestSeedDefaultAccounts_Idempotent() {
	ctx := context.Background()
	existing := map[domain.SystemAccountCode]domain.Account{
		domain.CodeCash: *suite.newAccount(string(domain.CodeCash), domain.Asset),
	}

	suite.mockAccountRepo.On("FindSystemAccounts", ctx, suite.companyID).Return(existing, nil).Once()

	accounts, err := suite.service.SeedDefaultAccounts(ctx, suite.companyID, suite.userID)

	suite.Require().NoError(err)
	suite.Len(accounts, 1)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccounts", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountLedger_ClampsLimit() {
	ctx := context.Background()
	account := suite.newAccount("1000", domain.Asset)

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("ListLedgerEntriesByAccount", ctx, suite.companyID, account.AccountID, 100, "").Return([]domain.LedgerEntry{}, "", nil).Once()

	entries, token, err := suite.service.GetAccountLedger(ctx, suite.companyID, account.AccountID, 500, "")

	suite.Require().NoError(err)
	suite.Empty(entries)
	suite.Empty(token)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestVerifyAccountBalance_Consistent() {
	ctx := context.Background()
	account := suite.newAccount("1000", domain.Asset)
	account.CurrentBalance = decimal.NewFromInt(500)

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("SumLedgerBalance", ctx, suite.companyID, account.AccountID).Return(decimal.NewFromInt(500), nil).Once()

	result, err := suite.service.VerifyAccountBalance(ctx, suite.companyID, account.AccountID)

	suite.Require().NoError(err)
	suite.True(result.Consistent)
	suite.True(result.CurrentBalance.Equal(result.ComputedBalance))
}

func (suite *AccountServiceTestSuite) TestVerifyAccountBalance_Divergent() {
	ctx := context.Background()
	account := suite.newAccount("1000", domain.Asset)
	account.CurrentBalance = decimal.NewFromInt(500)

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("SumLedgerBalance", ctx, suite.companyID, account.AccountID).Return(decimal.NewFromInt(480), nil).Once()

	result, err := suite.service.VerifyAccountBalance(ctx, suite.companyID, account.AccountID)

	suite.Require().NoError(err)
	suite.False(result.Consistent)
	suite.True(result.ComputedBalance.Equal(decimal.NewFromInt(480)))
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
