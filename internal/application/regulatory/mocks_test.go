package regulatory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/branch"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/exchange"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory/formmap"
)

// MockRuleRepository is a mock implementation of regulatory.RuleRepository
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*regulatory.TriggerRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*regulatory.TriggerRule), args.Error(1)
}

func (m *MockRuleRepository) FindAll(ctx context.Context) ([]regulatory.TriggerRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]regulatory.TriggerRule), args.Error(1)
}

func (m *MockRuleRepository) FindActiveByReportType(ctx context.Context, reportType regulatory.ReportType) ([]regulatory.TriggerRule, error) {
	args := m.Called(ctx, reportType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]regulatory.TriggerRule), args.Error(1)
}

func (m *MockRuleRepository) Save(ctx context.Context, rule *regulatory.TriggerRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of exchange.Repository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*exchange.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exchange.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByTransactionNo(ctx context.Context, transactionNo string) (*exchange.Transaction, error) {
	args := m.Called(ctx, transactionNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exchange.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter exchange.Filter) ([]exchange.Transaction, error) {
	args := m.Called(ctx, branchID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]exchange.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByReservation(ctx context.Context, reservationID uuid.UUID) (*exchange.Transaction, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exchange.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, t *exchange.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) SumLocalAmountSince(ctx context.Context, customerID string, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) CountSince(ctx context.Context, customerID string, since time.Time) (int64, error) {
	args := m.Called(ctx, customerID, since)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditRepository is a mock implementation of regulatory.AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, event *regulatory.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditRepository) ListForEntity(ctx context.Context, entityKind, entityID string) ([]regulatory.AuditEvent, error) {
	args := m.Called(ctx, entityKind, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]regulatory.AuditEvent), args.Error(1)
}

// MockReservationRepository is a mock implementation of regulatory.ReservationRepository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*regulatory.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*regulatory.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindByReservationNo(ctx context.Context, reservationNo string) (*regulatory.Reservation, error) {
	args := m.Called(ctx, reservationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*regulatory.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindPending(ctx context.Context, customerID string, reportType regulatory.ReportType) (*regulatory.Reservation, error) {
	args := m.Called(ctx, customerID, reportType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*regulatory.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindByCustomer(ctx context.Context, customerID string) ([]regulatory.Reservation, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]regulatory.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindPendingOlderThan(ctx context.Context, cutoff time.Time) ([]regulatory.Reservation, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]regulatory.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Create(ctx context.Context, r *regulatory.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) Save(ctx context.Context, r *regulatory.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// MockReportRepository is a mock implementation of regulatory.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*regulatory.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*regulatory.Report), args.Error(1)
}

func (m *MockReportRepository) FindByReportNo(ctx context.Context, reportNo string) (*regulatory.Report, error) {
	args := m.Called(ctx, reportNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*regulatory.Report), args.Error(1)
}

func (m *MockReportRepository) FindByReservation(ctx context.Context, reservationID uuid.UUID) (*regulatory.Report, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*regulatory.Report), args.Error(1)
}

func (m *MockReportRepository) ListPDFPaths(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockReportRepository) Save(ctx context.Context, r *regulatory.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// MockBranchRepository is a mock implementation of branch.Repository
type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*branch.Branch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindByCode(ctx context.Context, code string) (*branch.Branch, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindActive(ctx context.Context) ([]branch.Branch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) Save(ctx context.Context, b *branch.Branch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

// MockSequenceAllocator is a mock implementation of regulatory.SequenceAllocator
type MockSequenceAllocator struct {
	mock.Mock
}

func (m *MockSequenceAllocator) Allocate(ctx context.Context, scopeKey string) (int64, error) {
	args := m.Called(ctx, scopeKey)
	return args.Get(0).(int64), args.Error(1)
}

// MockPDFFiller is a mock implementation of PDFFiller
type MockPDFFiller struct {
	mock.Mock
}

func (m *MockPDFFiller) Fill(ctx context.Context, reportType regulatory.ReportType, fields formmap.FieldMap, outputPath string) error {
	args := m.Called(ctx, reportType, fields, outputPath)
	return args.Error(0)
}
