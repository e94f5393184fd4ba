// Package services defines the facades the handler layer consumes. Implementations
// live in internal/core/services.
package services

import (
	"context"
	"time"

	"github.com/finman-app/finman_backend/internal/core/domain"
	"github.com/finman-app/finman_backend/internal/dto"
)

// RecurrenceSvcFacade manages recurrence templates. Schedule validation happens at
// creation time; impossible dates never reach the generation runner.
type RecurrenceSvcFacade interface {
	CreateRecurrence(ctx context.Context, userID string, req dto.CreateRecurrenceRequest) (*domain.Recurrence, error)
	GetRecurrence(ctx context.Context, userID, recurrenceID string) (*domain.Recurrence, error)
	ListRecurrences(ctx context.Context, userID string, activeOnly bool) ([]domain.Recurrence, error)
	UpdateRecurrence(ctx context.Context, userID, recurrenceID string, req dto.UpdateRecurrenceRequest) (*domain.Recurrence, error)
}

// GenerationSvcFacade is the Generation Job Runner: it materializes due recurrences
// into debts with idempotent, auditable execution.
type GenerationSvcFacade interface {
	// TriggerRecurrenceCheck evaluates all active recurrences due as of asOf and
	// runs the due ones. Safe to call concurrently and to retry.
	TriggerRecurrenceCheck(ctx context.Context, asOf time.Time) (*dto.TriggerRecurrenceResponse, error)

	// ListGenerationRecords returns the generation audit trail for a recurrence.
	ListGenerationRecords(ctx context.Context, userID, recurrenceID string) ([]domain.GenerationRecord, error)

	// GetGenerationRecord returns the record for one occurrence of a recurrence,
	// keyed by its scheduled date.
	GetGenerationRecord(ctx context.Context, userID, recurrenceID string, scheduledDate time.Time) (*domain.GenerationRecord, error)
}

// PaymentOutcome is what applying one payment produced.
type PaymentOutcome struct {
	Payment          domain.Payment
	Debt             domain.Debt
	PaidInstallments []domain.Installment
}

// PaymentSvcFacade is the only entry point for payment application.
type PaymentSvcFacade interface {
	ApplyPayment(ctx context.Context, userID, debtID string, req dto.ApplyPaymentRequest) (*PaymentOutcome, error)
	ListPayments(ctx context.Context, userID, debtID string) ([]domain.Payment, error)
}

// DebtSvcFacade manages debts, including manual creation with installment plans and
// read-time OVERDUE classification.
type DebtSvcFacade interface {
	CreateDebt(ctx context.Context, userID string, req dto.CreateDebtRequest) (*domain.Debt, error)
	GetDebt(ctx context.Context, userID, debtID string) (*domain.Debt, []domain.Installment, error)
	ListDebts(ctx context.Context, userID string, params dto.ListDebtsParams) ([]domain.Debt, error)
	CancelDebt(ctx context.Context, userID, debtID string) error
}

// InstrumentSvcFacade manages financial instruments.
type InstrumentSvcFacade interface {
	CreateInstrument(ctx context.Context, userID string, req dto.CreateInstrumentRequest) (*domain.FinancialInstrument, error)
	GetInstrument(ctx context.Context, userID, instrumentID string) (*domain.FinancialInstrument, error)
	ListInstruments(ctx context.Context, userID string) ([]domain.FinancialInstrument, error)
}

// IncomeSvcFacade manages incomes.
type IncomeSvcFacade interface {
	CreateIncome(ctx context.Context, userID string, req dto.CreateIncomeRequest) (*domain.Income, error)
	ListIncomes(ctx context.Context, userID string) ([]domain.Income, error)
	DeleteIncome(ctx context.Context, userID, incomeID string) error
}

// UserSvcFacade manages users and credential checks.
type UserSvcFacade interface {
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	User       UserSvcFacade
	Token      TokenSvcFacade
	Instrument InstrumentSvcFacade
	Debt       DebtSvcFacade
	Payment    PaymentSvcFacade
	Recurrence RecurrenceSvcFacade
	Generation GenerationSvcFacade
	Income     IncomeSvcFacade
}
