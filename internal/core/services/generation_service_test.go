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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RecurrenceRepository ---
type MockRecurrenceRepository struct {
	mock.Mock
}

// Ensure MockRecurrenceRepository implements portsrepo.RecurrenceRepositoryFacade
var _ portsrepo.RecurrenceRepositoryFacade = (*MockRecurrenceRepository)(nil)

func (m *MockRecurrenceRepository) FindRecurrenceByID(ctx context.Context, recurrenceID string) (*domain.Recurrence, error) {
	args := m.Called(ctx, recurrenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recurrence), args.Error(1)
}

func (m *MockRecurrenceRepository) ListRecurrencesByUser(ctx context.Context, userID string, activeOnly bool) ([]domain.Recurrence, error) {
	args := m.Called(ctx, userID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recurrence), args.Error(1)
}

func (m *MockRecurrenceRepository) ListDueRecurrences(ctx context.Context, asOf time.Time) ([]domain.Recurrence, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recurrence), args.Error(1)
}

func (m *MockRecurrenceRepository) SaveRecurrence(ctx context.Context, recurrence domain.Recurrence) error {
	args := m.Called(ctx, recurrence)
	return args.Error(0)
}

func (m *MockRecurrenceRepository) UpdateRecurrence(ctx context.Context, recurrence domain.Recurrence) error {
	args := m.Called(ctx, recurrence)
	return args.Error(0)
}

func (m *MockRecurrenceRepository) PersistGeneration(ctx context.Context, unit portsrepo.GenerationUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockRecurrenceRepository) AppendExecutionLog(ctx context.Context, recurrenceID string, entry domain.ExecutionLogEntry, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, recurrenceID, entry, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockRecurrenceRepository) FindGenerationRecord(ctx context.Context, recurrenceID string, scheduledDate time.Time) (*domain.GenerationRecord, error) {
	args := m.Called(ctx, recurrenceID, scheduledDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationRecord), args.Error(1)
}

func (m *MockRecurrenceRepository) ListGenerationRecordsByRecurrence(ctx context.Context, recurrenceID string) ([]domain.GenerationRecord, error) {
	args := m.Called(ctx, recurrenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GenerationRecord), args.Error(1)
}

// --- Test Suite ---

type GenerationServiceTestSuite struct {
	suite.Suite
	mockRepo *MockRecurrenceRepository
	service  portssvc.GenerationSvcFacade
	ctx      context.Context
	asOf     time.Time
}

func (suite *GenerationServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockRecurrenceRepository)
	suite.service = services.NewGenerationService(suite.mockRepo, 5*time.Second, 2)
	suite.ctx = context.Background()
	suite.asOf = time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC)
}

func (suite *GenerationServiceTestSuite) dueRecurrence() domain.Recurrence {
	return domain.Recurrence{
		RecurrenceID: uuid.NewString(),
		UserID:       "user-1",
		Description:  "Monthly rent",
		Category:     domain.CategoryHome,
		Amount:       decimal.NewFromInt(1200),
		Active:       true,
		StartDate:    time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		DayOfMonth:   15,
		NextRunDate:  suite.asOf,
	}
}

func (suite *GenerationServiceTestSuite) TestTriggerGeneratesDebtForDueRecurrence() {
	recurrence := suite.dueRecurrence()
	suite.mockRepo.On("ListDueRecurrences", mock.Anything, suite.asOf).Return([]domain.Recurrence{recurrence}, nil).Once()
	suite.mockRepo.On("PersistGeneration", mock.Anything, mock.MatchedBy(func(unit portsrepo.GenerationUnit) bool {
		return unit.Recurrence.RecurrenceID == recurrence.RecurrenceID &&
			unit.Debt.UserID == recurrence.UserID &&
			unit.Debt.TotalAmount.Equal(recurrence.Amount) &&
			unit.Debt.RemainingAmount.Equal(recurrence.Amount) &&
			unit.Debt.Status == domain.DebtPending &&
			unit.Debt.DueDate.Equal(suite.asOf) &&
			unit.Record.ScheduledDate.Equal(suite.asOf) &&
			unit.Record.DebtID == unit.Debt.DebtID &&
			unit.Record.Status == domain.GenerationSuccess &&
			unit.NextRunDate.Equal(time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)) &&
			unit.LogEntry.Outcome == domain.ExecutionSuccess &&
			unit.LogEntry.RunDate.Equal(suite.asOf)
	})).Return(nil).Once()

	resp, err := suite.service.TriggerRecurrenceCheck(suite.ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(1, resp.Evaluated)
	suite.Equal(1, resp.Generated)
	suite.Equal(0, resp.Skipped)
	suite.Equal(0, resp.Failed)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockRepo.AssertNotCalled(suite.T(), "AppendExecutionLog", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GenerationServiceTestSuite) TestTriggerPlansInstallmentSchedule() {
	recurrence := suite.dueRecurrence()
	count := 3
	recurrence.Amount = decimal.NewFromInt(100)
	recurrence.InstallmentCount = &count

	suite.mockRepo.On("ListDueRecurrences", mock.Anything, suite.asOf).Return([]domain.Recurrence{recurrence}, nil).Once()
	suite.mockRepo.On("PersistGeneration", mock.Anything, mock.MatchedBy(func(unit portsrepo.GenerationUnit) bool {
		if len(unit.Installments) != 3 {
			return false
		}
		return unit.Installments[0].Amount.Equal(decimal.NewFromFloat(33.33)) &&
			unit.Installments[1].Amount.Equal(decimal.NewFromFloat(33.33)) &&
			unit.Installments[2].Amount.Equal(decimal.NewFromFloat(33.34)) &&
			unit.Installments[2].DueDate.Equal(time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)) &&
			// The generated debt matures with its last installment.
			unit.Debt.DueDate.Equal(unit.Installments[2].DueDate)
	})).Return(nil).Once()

	resp, err := suite.service.TriggerRecurrenceCheck(suite.ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(1, resp.Generated)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *GenerationServiceTestSuite) TestTriggerConflictCountsAsSkipped() {
	recurrence := suite.dueRecurrence()
	suite.mockRepo.On("ListDueRecurrences", mock.Anything, suite.asOf).Return([]domain.Recurrence{recurrence}, nil).Once()
	suite.mockRepo.On("PersistGeneration", mock.Anything, mock.AnythingOfType("repositories.GenerationUnit")).Return(apperrors.ErrConflict).Once()

	resp, err := suite.service.TriggerRecurrenceCheck(suite.ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(1, resp.Evaluated)
	suite.Equal(0, resp.Generated)
	suite.Equal(1, resp.Skipped)
	suite.Equal(0, resp.Failed)
	// An occurrence another runner already handled is not a failure.
	suite.mockRepo.AssertNotCalled(suite.T(), "AppendExecutionLog", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *GenerationServiceTestSuite) TestTriggerDuplicateKeyCountsAsSkipped() {
	recurrence := suite.dueRecurrence()
	suite.mockRepo.On("ListDueRecurrences", mock.Anything, suite.asOf).Return([]domain.Recurrence{recurrence}, nil).Once()
	suite.mockRepo.On("PersistGeneration", mock.Anything, mock.AnythingOfType("repositories.GenerationUnit")).Return(apperrors.ErrDuplicate).Once()

	resp, err := suite.service.TriggerRecurrenceCheck(suite.ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(1, resp.Skipped)
	suite.Equal(0, resp.Failed)
}

func (suite *GenerationServiceTestSuite) TestTriggerPersistFailureRecordsFailureLog() {
	recurrence := suite.dueRecurrence()
	suite.mockRepo.On("ListDueRecurrences", mock.Anything, suite.asOf).Return([]domain.Recurrence{recurrence}, nil).Once()
	suite.mockRepo.On("PersistGeneration", mock.Anything, mock.AnythingOfType("repositories.GenerationUnit")).Return(assert.AnError).Once()
	suite.mockRepo.On("AppendExecutionLog", mock.Anything, recurrence.RecurrenceID, mock.MatchedBy(func(entry domain.ExecutionLogEntry) bool {
		return entry.Outcome == domain.ExecutionFailed &&
			entry.RunDate.Equal(suite.asOf) &&
			entry.Error != ""
	}), recurrence.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	resp, err := suite.service.TriggerRecurrenceCheck(suite.ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(1, resp.Evaluated)
	suite.Equal(1, resp.Failed)
	suite.Equal(0, resp.Generated)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *GenerationServiceTestSuite) TestTriggerTransientFailureLogsStableMessage() {
	recurrence := suite.dueRecurrence()
	storageErr := apperrors.NewAppError(500, "failed to commit transaction", assert.AnError)
	suite.mockRepo.On("ListDueRecurrences", mock.Anything, suite.asOf).Return([]domain.Recurrence{recurrence}, nil).Once()
	suite.mockRepo.On("PersistGeneration", mock.Anything, mock.AnythingOfType("repositories.GenerationUnit")).Return(storageErr).Once()
	// The execution log is user-visible: storage failures must not leak driver
	// detail into it.
	suite.mockRepo.On("AppendExecutionLog", mock.Anything, recurrence.RecurrenceID, mock.MatchedBy(func(entry domain.ExecutionLogEntry) bool {
		return entry.Outcome == domain.ExecutionFailed &&
			entry.Error == apperrors.ErrInternal.Error()
	}), recurrence.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	resp, err := suite.service.TriggerRecurrenceCheck(suite.ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(1, resp.Failed)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *GenerationServiceTestSuite) TestTriggerInvalidPlanRecordsFailureWithoutPersisting() {
	recurrence := suite.dueRecurrence()
	count := 2
	recurrence.Amount = decimal.NewFromFloat(10.001) // sub-cent, cannot be split
	recurrence.InstallmentCount = &count

	suite.mockRepo.On("ListDueRecurrences", mock.Anything, suite.asOf).Return([]domain.Recurrence{recurrence}, nil).Once()
	suite.mockRepo.On("AppendExecutionLog", mock.Anything, recurrence.RecurrenceID, mock.MatchedBy(func(entry domain.ExecutionLogEntry) bool {
		return entry.Outcome == domain.ExecutionFailed
	}), recurrence.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	resp, err := suite.service.TriggerRecurrenceCheck(suite.ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(1, resp.Failed)
	suite.mockRepo.AssertNotCalled(suite.T(), "PersistGeneration", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *GenerationServiceTestSuite) TestTriggerNotDueRecurrenceSkipped() {
	recurrence := suite.dueRecurrence()
	recurrence.NextRunDate = suite.asOf.AddDate(0, 1, 0)
	suite.mockRepo.On("ListDueRecurrences", mock.Anything, suite.asOf).Return([]domain.Recurrence{recurrence}, nil).Once()

	resp, err := suite.service.TriggerRecurrenceCheck(suite.ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(1, resp.Skipped)
	suite.mockRepo.AssertNotCalled(suite.T(), "PersistGeneration", mock.Anything, mock.Anything)
}

func (suite *GenerationServiceTestSuite) TestTriggerNothingDue() {
	suite.mockRepo.On("ListDueRecurrences", mock.Anything, suite.asOf).Return([]domain.Recurrence{}, nil).Once()

	resp, err := suite.service.TriggerRecurrenceCheck(suite.ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(0, resp.Evaluated)
	suite.mockRepo.AssertNotCalled(suite.T(), "PersistGeneration", mock.Anything, mock.Anything)
}

func (suite *GenerationServiceTestSuite) TestTriggerListFailure() {
	suite.mockRepo.On("ListDueRecurrences", mock.Anything, suite.asOf).Return(nil, assert.AnError).Once()

	resp, err := suite.service.TriggerRecurrenceCheck(suite.ctx, suite.asOf)

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
	suite.Nil(resp)
}

func (suite *GenerationServiceTestSuite) TestTriggerProcessesIndependentRecurrences() {
	due := []domain.Recurrence{suite.dueRecurrence(), suite.dueRecurrence(), suite.dueRecurrence()}
	suite.mockRepo.On("ListDueRecurrences", mock.Anything, suite.asOf).Return(due, nil).Once()
	suite.mockRepo.On("PersistGeneration", mock.Anything, mock.AnythingOfType("repositories.GenerationUnit")).Return(nil).Times(3)

	resp, err := suite.service.TriggerRecurrenceCheck(suite.ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.Equal(3, resp.Evaluated)
	suite.Equal(3, resp.Generated)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *GenerationServiceTestSuite) TestListGenerationRecords() {
	recurrence := suite.dueRecurrence()
	records := []domain.GenerationRecord{{
		RecordID:      uuid.NewString(),
		RecurrenceID:  recurrence.RecurrenceID,
		ScheduledDate: suite.asOf,
		DebtID:        uuid.NewString(),
		Status:        domain.GenerationSuccess,
	}}
	suite.mockRepo.On("FindRecurrenceByID", mock.Anything, recurrence.RecurrenceID).Return(&recurrence, nil).Once()
	suite.mockRepo.On("ListGenerationRecordsByRecurrence", mock.Anything, recurrence.RecurrenceID).Return(records, nil).Once()

	got, err := suite.service.ListGenerationRecords(suite.ctx, recurrence.UserID, recurrence.RecurrenceID)

	suite.Require().NoError(err)
	suite.Equal(records, got)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *GenerationServiceTestSuite) TestListGenerationRecordsOwnership() {
	recurrence := suite.dueRecurrence()
	suite.mockRepo.On("FindRecurrenceByID", mock.Anything, recurrence.RecurrenceID).Return(&recurrence, nil).Once()

	_, err := suite.service.ListGenerationRecords(suite.ctx, "someone-else", recurrence.RecurrenceID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListGenerationRecordsByRecurrence", mock.Anything, mock.Anything)
}

func (suite *GenerationServiceTestSuite) TestGetGenerationRecord() {
	recurrence := suite.dueRecurrence()
	record := &domain.GenerationRecord{
		RecordID:      uuid.NewString(),
		RecurrenceID:  recurrence.RecurrenceID,
		ScheduledDate: suite.asOf,
		DebtID:        uuid.NewString(),
		Status:        domain.GenerationSuccess,
	}
	suite.mockRepo.On("FindRecurrenceByID", mock.Anything, recurrence.RecurrenceID).Return(&recurrence, nil).Once()
	// Lookup keys on the civil date even when the caller passes a timestamp.
	suite.mockRepo.On("FindGenerationRecord", mock.Anything, recurrence.RecurrenceID, suite.asOf).Return(record, nil).Once()

	got, err := suite.service.GetGenerationRecord(suite.ctx, recurrence.UserID, recurrence.RecurrenceID, suite.asOf.Add(9*time.Hour))

	suite.Require().NoError(err)
	suite.Equal(record, got)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *GenerationServiceTestSuite) TestGetGenerationRecordOwnership() {
	recurrence := suite.dueRecurrence()
	suite.mockRepo.On("FindRecurrenceByID", mock.Anything, recurrence.RecurrenceID).Return(&recurrence, nil).Once()

	_, err := suite.service.GetGenerationRecord(suite.ctx, "someone-else", recurrence.RecurrenceID, suite.asOf)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindGenerationRecord", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GenerationServiceTestSuite))
}
