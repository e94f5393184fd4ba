package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finman-app/finman_backend/internal/apperrors"
	"github.com/finman-app/finman_backend/internal/core/domain"
	portsrepo "github.com/finman-app/finman_backend/internal/core/ports/repositories"
	portssvc "github.com/finman-app/finman_backend/internal/core/ports/services"
	"github.com/finman-app/finman_backend/internal/core/services"
	"github.com/finman-app/finman_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock DebtRepository ---
type MockDebtRepository struct {
	mock.Mock
}

// Ensure MockDebtRepository implements portsrepo.DebtRepositoryFacade
var _ portsrepo.DebtRepositoryFacade = (*MockDebtRepository)(nil)

func (m *MockDebtRepository) FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) ListDebtsByUser(ctx context.Context, userID string, statuses []domain.DebtStatus, limit int) ([]domain.Debt, error) {
	args := m.Called(ctx, userID, statuses, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) SaveDebtWithInstallments(ctx context.Context, debt domain.Debt, installments []domain.Installment) error {
	args := m.Called(ctx, debt, installments)
	return args.Error(0)
}

func (m *MockDebtRepository) CancelDebt(ctx context.Context, debtID, cancelledBy string, cancelledAt time.Time) error {
	args := m.Called(ctx, debtID, cancelledBy, cancelledAt)
	return args.Error(0)
}

func (m *MockDebtRepository) FindInstallmentsByDebtID(ctx context.Context, debtID string) ([]domain.Installment, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

// Ensure MockPaymentRepository implements portsrepo.PaymentRepositoryFacade
var _ portsrepo.PaymentRepositoryFacade = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByDebt(ctx context.Context, debtID string) ([]domain.Payment, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ApplyPayment(ctx context.Context, payment domain.Payment) (*portsrepo.PaymentApplicationResult, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.PaymentApplicationResult), args.Error(1)
}

// --- Test Suite ---

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockDebtRepo    *MockDebtRepository
	service         portssvc.PaymentSvcFacade
	ctx             context.Context
	userID          string
	debt            *domain.Debt
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockDebtRepo = new(MockDebtRepository)
	suite.service = services.NewPaymentService(suite.mockPaymentRepo, suite.mockDebtRepo, 5*time.Second)
	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
	suite.debt = &domain.Debt{
		DebtID:          uuid.NewString(),
		UserID:          suite.userID,
		TotalAmount:     decimal.NewFromInt(100),
		PaidAmount:      decimal.Zero,
		DiscountAmount:  decimal.Zero,
		RemainingAmount: decimal.NewFromInt(100),
		DueDate:         time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		Status:          domain.DebtPending,
	}
}

func (suite *PaymentServiceTestSuite) applyRequest() dto.ApplyPaymentRequest {
	return dto.ApplyPaymentRequest{
		TotalAmount:     decimal.NewFromInt(40),
		PrincipalAmount: decimal.NewFromInt(30),
		DiscountAmount:  decimal.NewFromInt(10),
		PaymentDate:     time.Date(2025, time.May, 20, 15, 4, 5, 0, time.UTC),
	}
}

func (suite *PaymentServiceTestSuite) TestApplyPaymentSuccess() {
	req := suite.applyRequest()
	suite.mockDebtRepo.On("FindDebtByID", suite.ctx, suite.debt.DebtID).Return(suite.debt, nil).Once()

	updatedDebt := *suite.debt
	updatedDebt.PaidAmount = req.PrincipalAmount
	updatedDebt.DiscountAmount = req.DiscountAmount
	updatedDebt.RecalculateRemaining()
	updatedDebt.Status = updatedDebt.DeriveStatus()

	suite.mockPaymentRepo.On("ApplyPayment", mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.DebtID == suite.debt.DebtID &&
			p.UserID == suite.userID &&
			p.TotalAmount.Equal(req.TotalAmount) &&
			p.PrincipalAmount.Equal(req.PrincipalAmount) &&
			p.DiscountAmount.Equal(req.DiscountAmount) &&
			// Payment dates are stored as civil dates.
			p.PaymentDate.Equal(time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC))
	})).Return(&portsrepo.PaymentApplicationResult{
		Payment: domain.Payment{PaymentID: uuid.NewString(), DebtID: suite.debt.DebtID},
		Debt:    updatedDebt,
	}, nil).Once()

	outcome, err := suite.service.ApplyPayment(suite.ctx, suite.userID, suite.debt.DebtID, req)

	suite.Require().NoError(err)
	suite.Equal(domain.DebtPartial, outcome.Debt.Status)
	suite.True(outcome.Debt.RemainingAmount.Equal(decimal.NewFromInt(60)))
	suite.mockPaymentRepo.AssertExpectations(suite.T())
	suite.mockDebtRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestApplyPaymentInconsistentAmounts() {
	req := suite.applyRequest()
	req.DiscountAmount = decimal.NewFromInt(5)

	_, err := suite.service.ApplyPayment(suite.ctx, suite.userID, suite.debt.DebtID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDebtRepo.AssertNotCalled(suite.T(), "FindDebtByID", mock.Anything, mock.Anything)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "ApplyPayment", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestApplyPaymentNonPositiveTotal() {
	req := dto.ApplyPaymentRequest{
		TotalAmount:     decimal.Zero,
		PrincipalAmount: decimal.Zero,
		DiscountAmount:  decimal.Zero,
		PaymentDate:     time.Now(),
	}

	_, err := suite.service.ApplyPayment(suite.ctx, suite.userID, suite.debt.DebtID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PaymentServiceTestSuite) TestApplyPaymentNegativeComponent() {
	req := dto.ApplyPaymentRequest{
		TotalAmount:     decimal.NewFromInt(10),
		PrincipalAmount: decimal.NewFromInt(20),
		DiscountAmount:  decimal.NewFromInt(-10),
		PaymentDate:     time.Now(),
	}

	_, err := suite.service.ApplyPayment(suite.ctx, suite.userID, suite.debt.DebtID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PaymentServiceTestSuite) TestApplyPaymentForeignDebtRejected() {
	suite.debt.UserID = "someone-else"
	suite.mockDebtRepo.On("FindDebtByID", suite.ctx, suite.debt.DebtID).Return(suite.debt, nil).Once()

	_, err := suite.service.ApplyPayment(suite.ctx, suite.userID, suite.debt.DebtID, suite.applyRequest())

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "ApplyPayment", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestApplyPaymentRepositoryRejectionSurfaces() {
	suite.mockDebtRepo.On("FindDebtByID", suite.ctx, suite.debt.DebtID).Return(suite.debt, nil).Once()
	suite.mockPaymentRepo.On("ApplyPayment", mock.Anything, mock.AnythingOfType("domain.Payment")).Return(nil, apperrors.ErrOverpayment).Once()

	_, err := suite.service.ApplyPayment(suite.ctx, suite.userID, suite.debt.DebtID, suite.applyRequest())

	suite.ErrorIs(err, apperrors.ErrOverpayment)
}

func (suite *PaymentServiceTestSuite) TestApplyPaymentClosedDebtSurfaces() {
	suite.mockDebtRepo.On("FindDebtByID", suite.ctx, suite.debt.DebtID).Return(suite.debt, nil).Once()
	suite.mockPaymentRepo.On("ApplyPayment", mock.Anything, mock.AnythingOfType("domain.Payment")).Return(nil, apperrors.ErrDebtClosed).Once()

	_, err := suite.service.ApplyPayment(suite.ctx, suite.userID, suite.debt.DebtID, suite.applyRequest())

	suite.ErrorIs(err, apperrors.ErrDebtClosed)
}

func (suite *PaymentServiceTestSuite) TestListPayments() {
	payments := []domain.Payment{{PaymentID: uuid.NewString(), DebtID: suite.debt.DebtID}}
	suite.mockDebtRepo.On("FindDebtByID", suite.ctx, suite.debt.DebtID).Return(suite.debt, nil).Once()
	suite.mockPaymentRepo.On("ListPaymentsByDebt", suite.ctx, suite.debt.DebtID).Return(payments, nil).Once()

	got, err := suite.service.ListPayments(suite.ctx, suite.userID, suite.debt.DebtID)

	suite.Require().NoError(err)
	suite.Equal(payments, got)
}

func (suite *PaymentServiceTestSuite) TestListPaymentsForeignDebtRejected() {
	suite.debt.UserID = "someone-else"
	suite.mockDebtRepo.On("FindDebtByID", suite.ctx, suite.debt.DebtID).Return(suite.debt, nil).Once()

	_, err := suite.service.ListPayments(suite.ctx, suite.userID, suite.debt.DebtID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "ListPaymentsByDebt", mock.Anything, mock.Anything)
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
